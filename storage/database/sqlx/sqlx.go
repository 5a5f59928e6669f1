// Package sqlxrepos implements the storage ports on top of sqlx, for postgres and sqlite.
// Queries are built with squirrel using the placeholder format of the connection's driver.
package sqlxrepos

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/storage/database"
)

func statementBuilder(db *sqlx.DB) sq.StatementBuilderType {
	if db.DriverName() == database.DriverPostgres {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

func get(ctx context.Context, ex core.DBExecutor, dest interface{}, b sq.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	return ex.GetContext(ctx, dest, query, args...)
}

func sel(ctx context.Context, ex core.DBExecutor, dest interface{}, b sq.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	return ex.SelectContext(ctx, dest, query, args...)
}

func exec(ctx context.Context, ex core.DBExecutor, b sq.Sqlizer) (sql.Result, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}
	return ex.ExecContext(ctx, query, args...)
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func orderBy(ordering []core.DBOrdering) []string {
	clauses := make([]string, len(ordering))
	for i, ord := range ordering {
		clauses[i] = ord.String()
	}
	return clauses
}
