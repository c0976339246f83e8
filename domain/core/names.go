package core

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	processedPrefix = "processed_"
	downloadPrefix  = "imputed_"
)

// StoredName is the server-assigned name of a file on disk. It embeds the
// sanitized original filename after a unique prefix so the original can be
// recovered for download naming.
type StoredName string

// NewStoredName mints a stored name for an uploaded file using UUID v7 for
// time-ordered generation, falling back to v4.
func NewStoredName(originalFilename string) StoredName {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return StoredName(fmt.Sprintf("%s_%s", id.String(), SanitizeFilename(originalFilename)))
}

// String returns the string representation
func (n StoredName) String() string {
	return string(n)
}

// IsEmpty checks if the stored name is empty
func (n StoredName) IsEmpty() bool {
	return n == ""
}

// Processed returns the stored name of the imputed counterpart.
func (n StoredName) Processed() StoredName {
	return StoredName(processedPrefix + string(n))
}

// IsProcessed reports whether the name refers to an imputed output file.
func (n StoredName) IsProcessed() bool {
	return strings.HasPrefix(string(n), processedPrefix)
}

// Original recovers the sanitized original filename by stripping the
// processed prefix and the unique-id prefix.
func (n StoredName) Original() string {
	s := strings.TrimPrefix(string(n), processedPrefix)
	if _, rest, found := strings.Cut(s, "_"); found {
		return rest
	}
	return s
}

// DownloadName is the attachment filename offered to the user for an
// imputed file: imputed_<original>.
func (n StoredName) DownloadName() string {
	return downloadPrefix + n.Original()
}

// ParseStoredName validates a client-provided stored name. Names carrying
// path separators or traversal elements are rejected.
func ParseStoredName(s string) (StoredName, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("stored name cannot be empty")
	}
	if filepath.Base(s) != s || strings.ContainsAny(s, `/\`) {
		return "", fmt.Errorf("stored name cannot contain path elements")
	}
	if s == "." || s == ".." {
		return "", fmt.Errorf("stored name cannot be a path element")
	}
	return StoredName(s), nil
}

// SanitizeFilename reduces a user-supplied filename to a safe single path
// element: the base name with whitespace collapsed to underscores and any
// path or control characters dropped.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}
	out := b.String()
	if out == "" || out == "." || out == ".." {
		out = "file.csv"
	}
	return out
}
