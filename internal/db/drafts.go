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
// Draft Methods
// -----------------------------------------------------------------------------

// SaveDraft inserts or replaces a draft. The draft must reference an existing
// template. An empty ID is assigned a new UUID; the stored ID is returned.
func (db *DB) SaveDraft(ctx context.Context, draft *types.Draft) (uuid.UUID, error) {
	if draft == nil {
		return uuid.Nil, fmt.Errorf("draft is nil")
	}
	id, err := resolveID(draft.ID)
	if err != nil {
		return uuid.Nil, err
	}
	templateID, err := ParseID(draft.TemplateID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("draft template: %w", err)
	}

	status := draft.Status
	if status == "" {
		status = types.DraftInProgress
	}
	formData := draft.FormData
	if formData == nil {
		formData = map[string]types.FieldValue{}
	}
	formJSON, err := json.Marshal(formData)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal form data: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO grant_drafts (id, template_id, user_id, status, form_data)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE
		 SET template_id = $2, user_id = $3, status = $4, form_data = $5, updated_at = NOW()`,
		id, templateID, draft.UserID, string(status), formJSON,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save draft: %w", err)
	}
	return id, nil
}

// GetDraft retrieves a draft by ID
func (db *DB) GetDraft(ctx context.Context, id uuid.UUID) (*types.Draft, error) {
	var (
		templateID uuid.UUID
		userID     *string
		status     string
		formJSON   []byte
	)
	err := db.pool.QueryRow(ctx,
		`SELECT template_id, user_id, status, form_data FROM grant_drafts WHERE id = $1`,
		id,
	).Scan(&templateID, &userID, &status, &formJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}

	draft := &types.Draft{
		ID:         id.String(),
		TemplateID: templateID.String(),
		Status:     types.DraftStatus(status),
		FormData:   map[string]types.FieldValue{},
	}
	if userID != nil {
		draft.UserID = *userID
	}
	if err := json.Unmarshal(formJSON, &draft.FormData); err != nil {
		return nil, fmt.Errorf("failed to decode draft %s: %w", id, err)
	}
	return draft, nil
}
