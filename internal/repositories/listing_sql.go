package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"boardgamelist/internal/domain"
)

type rowScanner interface {
	Scan(dest ...any) error
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// filterClause returns the WHERE clause for a name substring match. The default
// utf8mb4 collation makes LIKE case-insensitive.
func filterClause(column, filter string) (string, []any) {
	if filter == "" {
		return "", nil
	}
	return " WHERE " + column + " LIKE ?", []any{"%" + likeEscaper.Replace(filter) + "%"}
}

// orderClause resolves the allow-listed column to its SQL identifier. Identifiers only
// ever come from the schema table, never from the request.
func orderClause[T any](schema domain.Schema[T], spec domain.QuerySpec) (string, error) {
	col, ok := schema.Column(spec.SortColumn)
	if !ok {
		return "", domain.ValidationError{Field: "sortColumn", Err: domain.ErrInvalidSortColumn}
	}
	dir := "ASC"
	if spec.SortOrder == domain.SortDescending {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, id ASC", col.SQL, dir), nil
}

func countMatching[T any](ctx context.Context, db *sql.DB, schema domain.Schema[T], filter string) (int64, error) {
	where, args := filterClause(schema.FilterSQL, filter)
	var n int64
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+schema.Table+where, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func fetchPage[T any](ctx context.Context, db *sql.DB, schema domain.Schema[T], columns string, spec domain.QuerySpec, scan func(rowScanner) (T, error)) ([]T, error) {
	where, args := filterClause(schema.FilterSQL, spec.FilterText)
	order, err := orderClause(schema, spec)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + columns + ` FROM ` + schema.Table + where + order + ` LIMIT ? OFFSET ?`
	args = append(args, spec.PageSize, spec.Offset())

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]T, 0, spec.PageSize)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// lockByID loads one row inside tx with FOR UPDATE. A missing row yields (nil, nil).
func lockByID[T any](ctx context.Context, tx *sql.Tx, table, columns string, id int64, scan func(rowScanner) (T, error)) (*T, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+columns+` FROM `+table+` WHERE id = ? FOR UPDATE`, id)
	item, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// deleteByID removes the row and returns what it held, or (nil, nil) if absent.
func deleteByID[T any](ctx context.Context, db *sql.DB, table, columns string, id int64, scan func(rowScanner) (T, error)) (*T, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	item, err := lockByID(ctx, tx, table, columns, id, scan)
	if err != nil || item == nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return item, nil
}
