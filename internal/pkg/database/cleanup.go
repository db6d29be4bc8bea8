package database

import (
	"context"
	"time"
)

// Cleanup removes stored feed data older than 8 days.
func (db *Database) Cleanup(ctx context.Context) error {
	cutoff := time.Now().AddDate(0, 0, -8)
	if _, err := db.conn.Exec(ctx, "DELETE FROM NemPrice WHERE settlement_time < $1", cutoff); err != nil {
		return err
	}
	if _, err := db.conn.Exec(ctx, "DELETE FROM RegionSummary WHERE created_at < $1", cutoff); err != nil {
		return err
	}
	if _, err := db.conn.Exec(ctx, "DELETE FROM RegionSensor WHERE time_stamp < $1", cutoff); err != nil {
		return err
	}
	return nil
}
