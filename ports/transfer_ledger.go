package ports

import (
	"context"
	"time"
)

// TransferEventKind labels a ledger entry.
type TransferEventKind string

const (
	TransferUploaded  TransferEventKind = "uploaded"
	TransferProcessed TransferEventKind = "processed"
	TransferCleaned   TransferEventKind = "cleaned"
)

// TransferEvent is one row of the transfer ledger.
type TransferEvent struct {
	ID         string            `db:"id"`
	Kind       TransferEventKind `db:"kind"`
	StoredName string            `db:"stored_name"`
	Original   string            `db:"original_filename"`
	SizeBytes  int64             `db:"size_bytes"`
	RecordedAt time.Time         `db:"recorded_at"`
}

// TransferLedgerPort records file lifecycle events. Implementations must be
// safe to call from request handlers; failures are logged, never surfaced.
type TransferLedgerPort interface {
	Record(ctx context.Context, event TransferEvent) error
	ListRecent(ctx context.Context, limit int) ([]TransferEvent, error)
}
