package db

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"clipshare/svc/util"
)

const checkpointInterval = 5 * time.Minute

// StartWALMaintenance periodically checkpoints the WAL so it cannot grow
// without bound, and forces a final checkpoint on shutdown.
func StartWALMaintenance(db *sql.DB, quit chan struct{}) {
	ticker := time.NewTicker(checkpointInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := walCheckpoint(db); err != nil {
				util.Error().Err(err).Msg("WAL checkpoint failed")
			}
		case <-quit:
			if err := walCheckpoint(db); err != nil {
				util.Error().Err(err).Msg("final WAL checkpoint failed")
			}
			return
		}
	}
}

func walCheckpoint(db *sql.DB) error {
	start := time.Now()
	var busy, logPages, checkpointed int
	if err := db.QueryRow("PRAGMA wal_checkpoint(PASSIVE)").Scan(&busy, &logPages, &checkpointed); err != nil {
		return err
	}
	util.Debug().
		Int("log_pages", logPages).
		Int("checkpointed", checkpointed).
		Dur("took", time.Since(start)).
		Msg("WAL checkpoint")
	return nil
}
