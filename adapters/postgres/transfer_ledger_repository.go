package postgres

import (
	"context"
	"time"

	"goimpute/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// TransferLedgerRepository implements TransferLedgerPort for PostgreSQL
type TransferLedgerRepository struct {
	db *sqlx.DB
}

// NewTransferLedgerRepository creates a new PostgreSQL transfer ledger
func NewTransferLedgerRepository(db *sqlx.DB) ports.TransferLedgerPort {
	return &TransferLedgerRepository{db: db}
}

// Connect opens a PostgreSQL connection, verifies it and ensures the
// ledger schema exists.
func Connect(url string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS transfer_events (
	id                TEXT PRIMARY KEY,
	kind              TEXT NOT NULL,
	stored_name       TEXT NOT NULL,
	original_filename TEXT NOT NULL DEFAULT '',
	size_bytes        BIGINT NOT NULL DEFAULT 0,
	recorded_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_transfer_events_recorded_at
	ON transfer_events (recorded_at DESC);
`

// Record inserts one ledger entry.
func (r *TransferLedgerRepository) Record(ctx context.Context, event ports.TransferEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.RecordedAt.IsZero() {
		event.RecordedAt = time.Now().UTC()
	}
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO transfer_events (id, kind, stored_name, original_filename, size_bytes, recorded_at)
		VALUES (:id, :kind, :stored_name, :original_filename, :size_bytes, :recorded_at)
	`, event)
	return err
}

// ListRecent returns the latest ledger entries, newest first.
func (r *TransferLedgerRepository) ListRecent(ctx context.Context, limit int) ([]ports.TransferEvent, error) {
	if limit < 1 || limit > 500 {
		limit = 50
	}
	var events []ports.TransferEvent
	err := r.db.SelectContext(ctx, &events, `
		SELECT id, kind, stored_name, original_filename, size_bytes, recorded_at
		FROM transfer_events
		ORDER BY recorded_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	return events, nil
}
