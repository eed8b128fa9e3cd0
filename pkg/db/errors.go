package db

import (
	"errors"
	"strings"

	pkgerrors "github.com/artesania-app/artesania-backend/pkg/errors"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Translate maps storage-layer failures onto the API error taxonomy so that
// database internals never leak to callers. Unclassified errors surface as
// dependency failures.
func Translate(err error, resource string) error {
	if err == nil {
		return nil
	}

	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, resource+" not found")
	}

	switch pgCode(err) {
	case pgerrcode.UniqueViolation:
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, resource+" already exists")
	case pgerrcode.ForeignKeyViolation:
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "related "+resource+" record not found")
	case pgerrcode.CheckViolation:
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, resource+" violates a data constraint")
	}

	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "query "+resource)
}

func pgCode(err error) string {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// IsUniqueViolation reports whether the provided error references a Postgres
// unique violation. When constraintName is provided, the helper also requires
// the constraint text to appear in the error.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	if pgCode(err) == pgerrcode.UniqueViolation {
		if constraintName == "" {
			return true
		}
		return strings.Contains(err.Error(), constraintName)
	}
	msg := err.Error()
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return strings.Contains(msg, "duplicate key value")
}
