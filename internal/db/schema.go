package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"boardgamelist/internal/utils"
)

// QueryRower is satisfied by *sql.DB and *sql.Tx.
type QueryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// HasTable reports whether table exists in the current database. Lookup errors count
// as absent; the caller's CREATE then surfaces the real problem.
func HasTable(ctx context.Context, q QueryRower, table string) bool {
	var name sql.NullString
	err := q.QueryRowContext(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		LIMIT 1
	`, table).Scan(&name)
	if err != nil {
		return false
	}
	return name.Valid && name.String != ""
}

type tableDDL struct {
	name string
	ddl  string
}

var catalogTables = []tableDDL{
	{"board_games", `
CREATE TABLE IF NOT EXISTS board_games (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(200) NOT NULL,
	year INT NOT NULL DEFAULT 0,
	min_players INT NOT NULL DEFAULT 0,
	max_players INT NOT NULL DEFAULT 0,
	play_time INT NOT NULL DEFAULT 0,
	min_age INT NOT NULL DEFAULT 0,
	rating_average DECIMAL(4,2) NOT NULL DEFAULT 0,
	users_rated INT NOT NULL DEFAULT 0,
	owned_users INT NOT NULL DEFAULT 0,
	bgg_rank INT NOT NULL DEFAULT 0,
	complexity_average DECIMAL(4,2) NOT NULL DEFAULT 0,
	created_date DATETIME NOT NULL,
	last_modified_date DATETIME NOT NULL,
	KEY idx_board_games_name (name)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`},
	{"mechanics", `
CREATE TABLE IF NOT EXISTS mechanics (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(200) NOT NULL,
	created_date DATETIME NOT NULL,
	last_modified_date DATETIME NOT NULL,
	KEY idx_mechanics_name (name)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`},
	{"users", `
CREATE TABLE IF NOT EXISTS users (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	user_name VARCHAR(255) NOT NULL,
	email VARCHAR(255) NOT NULL,
	password_hash VARCHAR(255) NOT NULL,
	phone_number VARCHAR(50) NOT NULL DEFAULT '',
	date_of_birth VARCHAR(10) NOT NULL DEFAULT '',
	roles VARCHAR(255) NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	UNIQUE KEY uniq_users_user_name (user_name),
	UNIQUE KEY uniq_users_email (email)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`},
}

// EnsureSchema creates the catalog and account tables that are missing. Existing
// tables are left untouched.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("db is not available")
	}
	for _, t := range catalogTables {
		if HasTable(ctx, db, t.name) {
			continue
		}
		if _, err := db.ExecContext(ctx, t.ddl); err != nil {
			return fmt.Errorf("create table %s: %w", t.name, err)
		}
		utils.LogEvent("", "db", "ensure_schema", "created table "+t.name)
	}
	return nil
}
