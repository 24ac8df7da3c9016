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
// Score Report Methods
// -----------------------------------------------------------------------------

// SaveScoreReport appends a report to the draft's history.
func (db *DB) SaveScoreReport(ctx context.Context, draftID uuid.UUID, report *types.ScoreReport) (*StoredReport, error) {
	if report == nil {
		return nil, fmt.Errorf("report is nil")
	}
	content, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}

	stored := &StoredReport{DraftID: draftID, Report: *report}
	err = db.pool.QueryRow(ctx,
		`INSERT INTO score_reports (draft_id, overall_score, completion_percentage, report)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		draftID, report.OverallScore, report.CompletionPercentage, content,
	).Scan(&stored.ID, &stored.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save score report: %w", err)
	}
	return stored, nil
}

// GetLatestScoreReport returns the most recent report for a draft.
func (db *DB) GetLatestScoreReport(ctx context.Context, draftID uuid.UUID) (*StoredReport, error) {
	var content []byte
	stored := &StoredReport{DraftID: draftID}
	err := db.pool.QueryRow(ctx,
		`SELECT id, report, created_at FROM score_reports
		 WHERE draft_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT 1`,
		draftID,
	).Scan(&stored.ID, &content, &stored.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get score report: %w", err)
	}

	if err := json.Unmarshal(content, &stored.Report); err != nil {
		return nil, fmt.Errorf("failed to decode score report: %w", err)
	}
	return stored, nil
}

// ListScoreReports returns up to limit reports for a draft, newest first.
func (db *DB) ListScoreReports(ctx context.Context, draftID uuid.UUID, limit int) ([]StoredReport, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, report, created_at FROM score_reports
		 WHERE draft_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`,
		draftID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list score reports: %w", err)
	}
	defer rows.Close()

	var reports []StoredReport
	for rows.Next() {
		var content []byte
		r := StoredReport{DraftID: draftID}
		if err := rows.Scan(&r.ID, &content, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan score report: %w", err)
		}
		if err := json.Unmarshal(content, &r.Report); err != nil {
			return nil, fmt.Errorf("failed to decode score report: %w", err)
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate score reports: %w", err)
	}
	return reports, nil
}
