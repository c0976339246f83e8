package ports

import (
	"context"
	"io"

	"goimpute/domain/core"
)

// FileStorePort abstracts where uploaded and processed CSVs live.
type FileStorePort interface {
	// Save writes the reader's content under the stored name and returns
	// the number of bytes written.
	Save(ctx context.Context, name core.StoredName, r io.Reader) (int64, error)

	// Open returns the file content for reading.
	Open(ctx context.Context, name core.StoredName) (io.ReadCloser, error)

	// Size returns the file size in bytes.
	Size(ctx context.Context, name core.StoredName) (int64, error)

	// Exists reports whether the file is present.
	Exists(ctx context.Context, name core.StoredName) bool

	// Remove deletes the file. Removing a missing file is not an error;
	// the bool reports whether anything was deleted.
	Remove(ctx context.Context, name core.StoredName) (bool, error)
}
