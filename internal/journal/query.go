// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journal

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/inout-renumber/pkg/types"
)

// QueryOptions filters journal queries.
type QueryOptions struct {
	// Source matches the recorded path exactly.
	Source string

	// Status filters by run outcome.
	Status types.RunStatus

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// Recent returns matching runs, newest first.
func (s *Store) Recent(ctx context.Context, opts QueryOptions) ([]types.RunRecord, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT source, mode, status, in_markers, out_markers, resets,
			final_number, error, started_at, duration_ns
		FROM runs
		WHERE 1=1`)

	if opts.Source != "" {
		qb.WriteString(" AND source = ?")
		args = append(args, opts.Source)
	}
	if opts.Status != "" {
		qb.WriteString(" AND status = ?")
		args = append(args, string(opts.Status))
	}
	qb.WriteString(" ORDER BY id DESC LIMIT ?")
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var records []types.RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return records, nil
}

func scanRun(rows *sql.Rows) (types.RunRecord, error) {
	var (
		rec           types.RunRecord
		mode, status  string
		errMsg        sql.NullString
		startedAt     string
		durationNanos int64
	)
	if err := rows.Scan(&rec.Source, &mode, &status,
		&rec.InMarkers, &rec.OutMarkers, &rec.Resets, &rec.FinalNumber,
		&errMsg, &startedAt, &durationNanos); err != nil {
		return rec, fmt.Errorf("scanning run: %w", err)
	}

	ts, err := time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return rec, fmt.Errorf("parsing started_at %q: %w", startedAt, err)
	}

	rec.Mode = types.Mode(mode)
	rec.Status = types.RunStatus(status)
	rec.Error = errMsg.String
	rec.StartedAt = ts
	rec.Duration = time.Duration(durationNanos)
	return rec, nil
}
