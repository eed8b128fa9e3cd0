package pagination

import (
	"encoding/base64"
	"strings"
	"time"

	pkgerrors "github.com/artesania-app/artesania-backend/pkg/errors"
	"github.com/google/uuid"
)

const (
	// DefaultLimit is the page size used when a request names none.
	DefaultLimit = 20
	// MaxLimit caps how many rows a single page may request.
	MaxLimit = 100
)

// Params holds the cursor pagination inputs a listing accepts.
type Params struct {
	Limit  int
	Cursor string
}

// Cursor positions a page by creation time, with the row id breaking
// ties between rows created in the same nanosecond.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// NormalizeLimit clamps limit into [1, MaxLimit], substituting
// DefaultLimit for zero or negative input.
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// LimitWithBuffer is the query limit to fetch one row past the page so
// TrimPage can tell whether more rows exist.
func LimitWithBuffer(limit int) int {
	return NormalizeLimit(limit) + 1
}

// EncodeCursor renders cursor as an opaque base64 token.
func EncodeCursor(cursor Cursor) string {
	raw := cursor.CreatedAt.UTC().Format(time.RFC3339Nano) + "|" + cursor.ID.String()
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

// ParseCursor decodes a token produced by EncodeCursor. A blank token
// returns nil so callers start from the first page. A malformed token is
// client input, so it surfaces as a validation error rather than a
// storage failure.
func ParseCursor(value string) (*Cursor, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid pagination cursor")
	}

	tsPart, idPart, found := strings.Cut(string(decoded), "|")
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid pagination cursor")
	}

	createdAt, err := time.Parse(time.RFC3339Nano, tsPart)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid pagination cursor")
	}
	id, err := uuid.Parse(idPart)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid pagination cursor")
	}

	return &Cursor{CreatedAt: createdAt, ID: id}, nil
}

// TrimPage drops the buffered extra row fetched via LimitWithBuffer
// and reports whether a further page exists.
func TrimPage[T any](rows []T, limit int) ([]T, bool) {
	page := NormalizeLimit(limit)
	if len(rows) <= page {
		return rows, false
	}
	return rows[:page], true
}
