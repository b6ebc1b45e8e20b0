package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"boardgamelist/internal/domain"
	"boardgamelist/internal/domain/models"

	"github.com/go-sql-driver/mysql"
)

const mysqlDuplicateEntry = 1062

type UserRepository struct {
	DB *sql.DB
}

func (r UserRepository) Create(ctx context.Context, u models.User) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (user_name, email, password_hash, phone_number, date_of_birth, roles, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, u.UserName, u.Email, u.PasswordHash, u.PhoneNumber, u.DateOfBirth, strings.Join(u.Roles, ","), u.CreatedAt)
	if err != nil {
		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
			return 0, domain.ConflictError{Resource: "user", Msg: "user name or email already registered", Err: err}
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return res.LastInsertId()
}

func (r UserRepository) FindByUserName(ctx context.Context, userName string) (*models.User, error) {
	var (
		u     models.User
		roles string
	)
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, user_name, email, password_hash, phone_number, date_of_birth, roles, created_at
		FROM users
		WHERE user_name = ?
	`, userName).Scan(&u.ID, &u.UserName, &u.Email, &u.PasswordHash, &u.PhoneNumber, &u.DateOfBirth, &roles, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundError{Resource: "user"}
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	u.Roles = splitRoles(roles)
	return &u, nil
}

func splitRoles(raw string) []string {
	out := []string{}
	for _, r := range strings.Split(raw, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

// MemoryUserStore mirrors the unique constraints of the users table in process.
type MemoryUserStore struct {
	mu     sync.Mutex
	nextID int64
	users  []models.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{}
}

func (s *MemoryUserStore) Create(ctx context.Context, u models.User) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.UserName, u.UserName) || strings.EqualFold(existing.Email, u.Email) {
			return 0, domain.ConflictError{Resource: "user", Msg: "user name or email already registered"}
		}
	}
	s.nextID++
	u.ID = s.nextID
	s.users = append(s.users, u)
	return u.ID, nil
}

func (s *MemoryUserStore) FindByUserName(ctx context.Context, userName string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.UserName, userName) {
			found := u
			found.Roles = slices.Clone(u.Roles)
			return &found, nil
		}
	}
	return nil, domain.NotFoundError{Resource: "user"}
}
