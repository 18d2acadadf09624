package store

import (
	"context"
	"fmt"
	"time"
)

// VisitorRetention is how long page views are kept.
const VisitorRetention = 365 * 24 * time.Hour

func (s *DB) RecordVisit(ctx context.Context, hashedIP, userAgent, path string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO visitors (hashed_ip, user_agent, path, timestamp)
		VALUES (?, ?, ?, ?)
	`, hashedIP, userAgent, path, s.now())
	if err != nil {
		return fmt.Errorf("store: record visit: %w", err)
	}
	return nil
}

func (s *DB) RecentVisitors(ctx context.Context, limit int) ([]Visitor, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), timestamp
		FROM visitors
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: recent visitors: %w", err)
	}
	defer rows.Close()

	var visitors []Visitor
	for rows.Next() {
		var v Visitor
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &v.Timestamp); err != nil {
			return nil, fmt.Errorf("store: scan visitor: %w", err)
		}
		visitors = append(visitors, v)
	}
	return visitors, rows.Err()
}

// CleanupVisitors removes page views older than the retention window and
// reports how many were deleted.
func (s *DB) CleanupVisitors(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM visitors WHERE timestamp < ?`,
		s.now().Add(-VisitorRetention))
	if err != nil {
		return 0, fmt.Errorf("store: cleanup visitors: %w", err)
	}
	return res.RowsAffected()
}
