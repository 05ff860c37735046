package store

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// updateReturning applies the assignments in set to the row matched by where
// and maps the returned columns onto dest. Column names come from each
// entity's static patch mapping, never from request input
func (s *Store) updateReturning(ctx context.Context, q sqlx.QueryerContext, dest interface{}, table string, set map[string]interface{}, where sq.Eq, returning string) error {
	query, args, err := s.sb.
		Update(table).
		SetMap(set).
		Where(where).
		Suffix("RETURNING " + returning).
		ToSql()
	if err != nil {
		return fmt.Errorf("building %s update query: %w", table, err)
	}

	if err := getOne(ctx, q, dest, query, args...); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("updating %s: %w", table, err)
	}
	return nil
}

// deleteWhere removes the rows matched by where and classifies the result
func (s *Store) deleteWhere(ctx context.Context, e sqlx.ExecerContext, table string, where sq.Eq) (DeleteOutcome, error) {
	query, args, err := s.sb.Delete(table).Where(where).ToSql()
	if err != nil {
		return DeleteFailed, fmt.Errorf("building %s delete query: %w", table, err)
	}

	outcome, err := classifyDelete(e.ExecContext(ctx, query, args...))
	if err != nil {
		return outcome, fmt.Errorf("deleting from %s: %w", table, err)
	}
	return outcome, nil
}
