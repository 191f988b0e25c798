package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Lenin1999/app-proyecto-pulmones/internal/service"
)

var _ service.ActivityLog = (*SQLiteStorage)(nil)

// RecordActivity stores one finished attempt.
func (s *SQLiteStorage) RecordActivity(ctx context.Context, a service.Activity) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateActivity(a); err != nil {
		return err
	}

	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activity (session_id, patient_id, kind, outcome, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.SessionID, a.PatientID, string(a.Kind), a.Outcome, a.Detail, createdAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}

// ListActivity returns matching entries, newest first.
func (s *SQLiteStorage) ListActivity(ctx context.Context, filter service.ActivityFilter) ([]service.Activity, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateFilter(filter); err != nil {
		return nil, err
	}

	var (
		where []string
		args  []any
	)
	if filter.PatientID != "" {
		where = append(where, "patient_id = ?")
		args = append(args, filter.PatientID)
	}
	if filter.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, string(filter.Kind))
	}

	query := `SELECT id, session_id, patient_id, kind, outcome, COALESCE(detail, ''), created_at FROM activity`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var activities []service.Activity
	for rows.Next() {
		var (
			a    service.Activity
			kind string
		)
		if err := rows.Scan(&a.ID, &a.SessionID, &a.PatientID, &kind, &a.Outcome, &a.Detail, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		a.Kind = service.ActivityKind(kind)
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activity: %w", err)
	}

	return activities, nil
}
