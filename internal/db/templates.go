package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/grant-assist/internal/types"
)

// -----------------------------------------------------------------------------
// Template Methods
// -----------------------------------------------------------------------------

// SaveTemplate inserts or replaces a template. An empty ID is assigned a new
// UUID; the stored ID is returned.
func (db *DB) SaveTemplate(ctx context.Context, tmpl *types.Template) (uuid.UUID, error) {
	if tmpl == nil {
		return uuid.Nil, fmt.Errorf("template is nil")
	}
	id, err := resolveID(tmpl.ID)
	if err != nil {
		return uuid.Nil, err
	}

	stored := *tmpl
	stored.ID = id.String()
	definition, err := json.Marshal(&stored)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal template: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO grant_templates (id, grant_id, name, definition)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET grant_id = $2, name = $3, definition = $4, updated_at = NOW()`,
		id, tmpl.GrantID, tmpl.Name, definition,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save template: %w", err)
	}
	return id, nil
}

// GetTemplate retrieves a template by ID
func (db *DB) GetTemplate(ctx context.Context, id uuid.UUID) (*types.Template, error) {
	var definition []byte
	err := db.pool.QueryRow(ctx,
		`SELECT definition FROM grant_templates WHERE id = $1`,
		id,
	).Scan(&definition)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	var tmpl types.Template
	if err := json.Unmarshal(definition, &tmpl); err != nil {
		return nil, fmt.Errorf("failed to decode template %s: %w", id, err)
	}
	tmpl.ID = id.String()
	return &tmpl, nil
}

// DeleteTemplate removes a template and, by cascade, its drafts and reports.
func (db *DB) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM grant_templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	return nil
}
