package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"boardgamelist/internal/domain"
	"boardgamelist/internal/domain/models"
)

const boardGameColumns = `id, name, year, min_players, max_players, play_time, min_age,
	rating_average, users_rated, owned_users, bgg_rank, complexity_average,
	created_date, last_modified_date`

// BoardGameRepository is the MySQL store for board_games.
type BoardGameRepository struct {
	DB *sql.DB
}

var _ domain.RecordStore[models.BoardGame] = BoardGameRepository{}

func scanBoardGame(s rowScanner) (models.BoardGame, error) {
	var b models.BoardGame
	err := s.Scan(
		&b.ID,
		&b.Name,
		&b.Year,
		&b.MinPlayers,
		&b.MaxPlayers,
		&b.PlayTime,
		&b.MinAge,
		&b.RatingAverage,
		&b.UsersRated,
		&b.OwnedUsers,
		&b.BGGRank,
		&b.ComplexityAverage,
		&b.CreatedDate,
		&b.LastModifiedDate,
	)
	return b, err
}

func (r BoardGameRepository) CountMatching(ctx context.Context, filterText string) (int64, error) {
	return countMatching(ctx, r.DB, models.BoardGameSchema, filterText)
}

func (r BoardGameRepository) FetchPage(ctx context.Context, spec domain.QuerySpec) ([]models.BoardGame, error) {
	return fetchPage(ctx, r.DB, models.BoardGameSchema, boardGameColumns, spec, scanBoardGame)
}

// Update locks the row, lets apply merge into it and writes the mutable columns back.
func (r BoardGameRepository) Update(ctx context.Context, id int64, apply func(*models.BoardGame)) (*models.BoardGame, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	game, err := lockByID(ctx, tx, "board_games", boardGameColumns, id, scanBoardGame)
	if err != nil || game == nil {
		return nil, err
	}
	apply(game)

	_, err = tx.ExecContext(ctx, `
		UPDATE board_games
		SET name = ?, year = ?, min_players = ?, max_players = ?, play_time = ?, min_age = ?, last_modified_date = ?
		WHERE id = ?
	`, game.Name, game.Year, game.MinPlayers, game.MaxPlayers, game.PlayTime, game.MinAge, game.LastModifiedDate, game.ID)
	if err != nil {
		return nil, fmt.Errorf("update board game %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return game, nil
}

func (r BoardGameRepository) Delete(ctx context.Context, id int64) (*models.BoardGame, error) {
	return deleteByID(ctx, r.DB, "board_games", boardGameColumns, id, scanBoardGame)
}

func (r BoardGameRepository) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}
