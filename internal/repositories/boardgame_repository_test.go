package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"boardgamelist/internal/domain"
	"boardgamelist/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

var boardGameCols = []string{
	"id", "name", "year", "min_players", "max_players", "play_time", "min_age",
	"rating_average", "users_rated", "owned_users", "bgg_rank", "complexity_average",
	"created_date", "last_modified_date",
}

func newMock(t *testing.T) (BoardGameRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return BoardGameRepository{DB: db}, mock
}

func TestBoardGameCountEscapesLikeWildcards(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM board_games WHERE name LIKE ?")).
		WithArgs(`%50\%\_off%`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := repo.CountMatching(context.Background(), "50%_off")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3, got %d", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBoardGameCountWithoutFilter(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM board_games")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(8))

	n, err := repo.CountMatching(context.Background(), "")
	if err != nil || n != 8 {
		t.Fatalf("expected 8, got %d (%v)", n, err)
	}
}

func TestBoardGameFetchPageOrdersByMappedColumnWithTieBreak(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM board_games WHERE name LIKE ? ORDER BY min_players DESC, id ASC LIMIT ? OFFSET ?")).
		WithArgs("%go%", 2, int64(4)).
		WillReturnRows(sqlmock.NewRows(boardGameCols).
			AddRow(8, "Go", -2200, 2, 2, 180, 8, 7.64, 16299, 24418, 212, 3.93, now, now).
			AddRow(9, "Gomoku", 1700, 2, 2, 20, 6, 6.1, 100, 200, 9000, 1.2, now, now))

	spec := domain.QuerySpec{
		Resource:   "BoardGames",
		FilterText: "go",
		SortColumn: "minPlayers",
		SortOrder:  domain.SortDescending,
		PageIndex:  2,
		PageSize:   2,
	}
	items, err := repo.FetchPage(context.Background(), spec)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(items) != 2 || items[0].Name != "Go" || items[1].ID != 9 {
		t.Fatalf("unexpected items %+v", items)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBoardGameFetchPageRejectsUnknownColumn(t *testing.T) {
	repo, mock := newMock(t)
	_, err := repo.FetchPage(context.Background(), domain.QuerySpec{SortColumn: "name; DROP TABLE board_games", PageSize: 10})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no query should have run: %v", err)
	}
}

func TestBoardGameUpdateMissingIDReturnsNil(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery("(?s)SELECT .* FROM board_games WHERE id = \\? FOR UPDATE").
		WithArgs(int64(999)).
		WillReturnRows(sqlmock.NewRows(boardGameCols))
	mock.ExpectRollback()

	called := false
	got, err := repo.Update(context.Background(), 999, func(*models.BoardGame) { called = true })
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != nil || called {
		t.Fatalf("expected nil record and untouched apply, got %+v called=%v", got, called)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBoardGameUpdateWritesMergedRow(t *testing.T) {
	repo, mock := newMock(t)
	created := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	modified := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("(?s)SELECT .* FROM board_games WHERE id = \\? FOR UPDATE").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(boardGameCols).
			AddRow(7, "Catan", 1995, 3, 4, 120, 10, 7.14, 1, 2, 429, 2.32, created, created))
	mock.ExpectExec("UPDATE board_games").
		WithArgs("Catan: 5-6 Player", 1995, 3, 6, 120, 10, modified, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	maxPlayers := 6
	patch := models.BoardGamePatch{ID: 7, Name: "Catan: 5-6 Player", MaxPlayers: &maxPlayers}
	got, err := repo.Update(context.Background(), 7, func(b *models.BoardGame) { patch.Apply(b, modified) })
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got == nil || got.MaxPlayers != 6 || got.MinPlayers != 3 || !got.LastModifiedDate.Equal(modified) {
		t.Fatalf("unexpected record %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBoardGameDeleteReturnsRemovedRow(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery("(?s)SELECT .* FROM board_games WHERE id = \\? FOR UPDATE").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(boardGameCols).
			AddRow(3, "Brass: Birmingham", 2018, 2, 4, 120, 14, 8.66, 1, 1, 3, 3.91, now, now))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM board_games WHERE id = ?")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	got, err := repo.Delete(context.Background(), 3)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got == nil || got.Name != "Brass: Birmingham" {
		t.Fatalf("unexpected record %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
