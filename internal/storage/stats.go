package storage

import (
	"context"
	"fmt"
)

// ActionStats aggregates journal rows for one action.
type ActionStats struct {
	Action   Action
	Total    int
	Failures int
	Chars    int
}

// Stats returns per-action totals, ordered by action name.
func (j *Journal) Stats(ctx context.Context) ([]ActionStats, error) {
	rows, err := j.conn.QueryContext(ctx, `
		SELECT action,
		       COUNT(*),
		       COALESCE(SUM(CASE WHEN success THEN 0 ELSE 1 END), 0),
		       COALESCE(SUM(chars), 0)
		FROM slot_events
		GROUP BY action
		ORDER BY action`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	defer rows.Close()

	var stats []ActionStats
	for rows.Next() {
		var s ActionStats
		var action string
		if err := rows.Scan(&action, &s.Total, &s.Failures, &s.Chars); err != nil {
			return nil, fmt.Errorf("failed to scan stats: %w", err)
		}
		s.Action = Action(action)
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// SessionCount returns how many events this process run has recorded.
func (j *Journal) SessionCount(ctx context.Context) (int, error) {
	var n int
	err := j.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM slot_events WHERE session_id = ?`, j.sessionID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count session events: %w", err)
	}
	return n, nil
}
