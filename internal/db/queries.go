package db

import (
	"context"
	"time"

	"smartoffice/internal/models"
	"smartoffice/internal/utils"
)

// LogActivity appends one entry to the activity log.
func (d *DB) LogActivity(ctx context.Context, entry models.ActivityEntry) error {
	if entry.ID == "" {
		entry.ID = utils.NewID()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if entry.User == "" {
		entry.User = "system"
	}
	_, err := d.pool.Exec(ctx,
		"INSERT INTO activity_logs (id, type, action, details, timestamp, username) VALUES ($1, $2, $3, $4, $5, $6)",
		entry.ID, entry.Type, entry.Action, entry.Details, entry.Timestamp, entry.User)
	return err
}

// GetActivityLogs fetches the most recent entries, newest first.
func (d *DB) GetActivityLogs(ctx context.Context, limit int) ([]models.ActivityEntry, error) {
	rows, err := d.pool.Query(ctx,
		"SELECT id, type, action, details, timestamp, username FROM activity_logs ORDER BY timestamp DESC LIMIT $1", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.ActivityEntry
	for rows.Next() {
		var e models.ActivityEntry
		if err := rows.Scan(&e.ID, &e.Type, &e.Action, &e.Details, &e.Timestamp, &e.User); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetActivityLogsByType fetches recent entries of one type, newest first.
func (d *DB) GetActivityLogsByType(ctx context.Context, entryType string, limit int) ([]models.ActivityEntry, error) {
	rows, err := d.pool.Query(ctx,
		"SELECT id, type, action, details, timestamp, username FROM activity_logs WHERE type = $1 ORDER BY timestamp DESC LIMIT $2",
		entryType, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.ActivityEntry
	for rows.Next() {
		var e models.ActivityEntry
		if err := rows.Scan(&e.ID, &e.Type, &e.Action, &e.Details, &e.Timestamp, &e.User); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CountActivitySince counts entries of one type on or after a point in time.
// Used for the "executed today" dashboard stat.
func (d *DB) CountActivitySince(ctx context.Context, entryType string, since time.Time) (int, error) {
	var count int
	err := d.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM activity_logs WHERE type = $1 AND timestamp >= $2", entryType, since).
		Scan(&count)
	return count, err
}

// ClearActivityByType removes all entries of one type. Used by the
// execution-history clear operation.
func (d *DB) ClearActivityByType(ctx context.Context, entryType string) error {
	_, err := d.pool.Exec(ctx, "DELETE FROM activity_logs WHERE type = $1", entryType)
	return err
}
