package engine

import "errors"

var (
	// ErrInvalidArgument reports a caller contract violation such as a nil or
	// structurally invalid template.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNoGenerator is returned by AutoComplete when no field generator is configured.
	ErrNoGenerator = errors.New("no field generator configured")
)
