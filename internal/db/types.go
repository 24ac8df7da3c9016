package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/grant-assist/internal/types"
)

// StoredReport is a persisted score report for a draft.
type StoredReport struct {
	ID        uuid.UUID         `json:"id"`
	DraftID   uuid.UUID         `json:"draft_id"`
	Report    types.ScoreReport `json:"report"`
	CreatedAt time.Time         `json:"created_at"`
}
