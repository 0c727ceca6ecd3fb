package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/profile-report/internal/types"
)

// SaveReport inserts or replaces a report record
func (db *DB) SaveReport(ctx context.Context, r *Report) error {
	resultJSON, err := json.Marshal(r.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	name, email, linkedin := metaColumns(r.Meta)

	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO reports (id, name, email, linkedin, overall_score, result, filename, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET
		   name = $2, email = $3, linkedin = $4, overall_score = $5, result = $6, filename = $7`,
		r.ID, name, email, linkedin, r.Result.OverallScore, resultJSON, r.Filename, createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save report %s: %w", r.ID, err)
	}
	return nil
}

// GetReport retrieves a report by ID. Returns nil, nil when it does not exist.
func (db *DB) GetReport(ctx context.Context, id uuid.UUID) (*Report, error) {
	var (
		r                     Report
		name, email, linkedin string
		resultJSON            []byte
	)
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, email, linkedin, result, filename, created_at, exported_at
		 FROM reports WHERE id = $1`,
		id,
	).Scan(&r.ID, &name, &email, &linkedin, &resultJSON, &r.Filename, &r.CreatedAt, &r.ExportedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get report %s: %w", id, err)
	}

	if err := json.Unmarshal(resultJSON, &r.Result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result for %s: %w", id, err)
	}
	r.Meta = metaFromColumns(name, email, linkedin)
	return &r, nil
}

// ListReports returns report summaries, newest first
func (db *DB) ListReports(ctx context.Context, limit int) ([]types.ReportSummary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, name, email, linkedin, overall_score, filename, created_at, exported_at
		 FROM reports ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var summaries []types.ReportSummary
	for rows.Next() {
		var s types.ReportSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.LinkedIn, &s.OverallScore, &s.Filename, &s.CreatedAt, &s.ExportedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reports: %w", err)
	}
	return summaries, nil
}

// MarkExported records a successful export of a report
func (db *DB) MarkExported(ctx context.Context, id uuid.UUID, filename string) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE reports SET filename = $1, exported_at = NOW() WHERE id = $2`,
		filename, id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark report %s exported: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("report %s not found", id)
	}
	return nil
}
