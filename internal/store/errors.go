package store

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrNotFound is returned when the requested row does not exist, or exists
// under a different owner for scoped lookups
var ErrNotFound = errors.New("not found")

// pgForeignKeyViolation is the SQLSTATE for foreign_key_violation
const pgForeignKeyViolation = "23503"

// DeleteOutcome is the result of a delete by key
type DeleteOutcome int

const (
	// DeleteSucceeded means exactly one row was removed
	DeleteSucceeded DeleteOutcome = iota
	// DeleteNotFound means no row matched the key
	DeleteNotFound
	// DeleteConflict means a foreign key still references the row
	DeleteConflict
	// DeleteFailed covers every other store error
	DeleteFailed
)

func (o DeleteOutcome) String() string {
	switch o {
	case DeleteSucceeded:
		return "success"
	case DeleteNotFound:
		return "not_found"
	case DeleteConflict:
		return "conflict"
	case DeleteFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// classifyDelete maps the result of a single DELETE statement to an outcome.
// The error is only returned for DeleteFailed
func classifyDelete(res sql.Result, err error) (DeleteOutcome, error) {
	if err != nil {
		if isForeignKeyViolation(err) {
			return DeleteConflict, nil
		}
		return DeleteFailed, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return DeleteFailed, err
	}
	if n == 0 {
		return DeleteNotFound, nil
	}
	return DeleteSucceeded, nil
}

// isForeignKeyViolation reports whether err was raised by a referential
// constraint, for each supported driver
func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgForeignKeyViolation
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		if code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY {
			return true
		}
		return code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(liteErr.Error(), "FOREIGN KEY")
	}

	return false
}
