package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/jonathan/grant-assist/internal/types"
	"golang.org/x/sync/errgroup"
)

// AutoComplete asks the field generator for a value for each requested field.
// Fields that are not sections of the template are skipped and absent from the
// result. The first generator error is returned unchanged and no results are
// returned with it; the engine never retries.
func (e *Engine) AutoComplete(ctx context.Context, template *types.Template, draft *types.Draft, fieldNames []string) (map[string]types.AutoCompleteResult, error) {
	if template == nil {
		return nil, fmt.Errorf("%w: template is nil", ErrInvalidArgument)
	}
	if e.generator == nil {
		return nil, ErrNoGenerator
	}

	sections := matchSections(template, fieldNames)
	results := make(map[string]types.AutoCompleteResult, len(sections))
	if len(sections) == 0 {
		return results, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for _, section := range sections {
		g.Go(func() error {
			result, err := e.generator.GenerateField(gctx, FieldRequest{
				Section:  section,
				Template: template,
				Draft:    draft,
			})
			if err != nil {
				return err
			}
			mu.Lock()
			results[section.ID] = result
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// matchSections resolves requested field names to template sections, dropping
// unknown and repeated names while keeping request order.
func matchSections(template *types.Template, fieldNames []string) []types.Section {
	seen := make(map[string]bool, len(fieldNames))
	sections := make([]types.Section, 0, len(fieldNames))
	for _, name := range fieldNames {
		if seen[name] {
			continue
		}
		seen[name] = true
		if section, ok := template.Section(name); ok {
			sections = append(sections, section)
		}
	}
	return sections
}
