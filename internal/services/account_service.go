package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"boardgamelist/internal/auth"
	"boardgamelist/internal/domain"
	"boardgamelist/internal/domain/models"
	"boardgamelist/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

// UserStore persists accounts. Create reports duplicates as domain.ConflictError and
// FindByUserName reports absence as domain.NotFoundError.
type UserStore interface {
	Create(ctx context.Context, u models.User) (int64, error)
	FindByUserName(ctx context.Context, userName string) (*models.User, error)
}

type AccountService struct {
	Users     UserStore
	Tokens    *auth.TokenService
	RequestID string
	Now       func() time.Time
}

// LoginResult is returned to the client after a successful login.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	UserName  string    `json:"userName"`
	Roles     []string  `json:"roles"`
}

var errBadCredentials = domain.UnauthorizedError{Msg: "invalid user name or password"}

func (s AccountService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Register stores a new account with the given roles. Public sign-up passes none.
func (s AccountService) Register(ctx context.Context, p models.RegisterPayload, roles ...string) (models.User, error) {
	var errs domain.FieldErrors
	if strings.TrimSpace(p.UserName) == "" {
		errs = append(errs, domain.ValidationError{Field: "userName", Msg: "is required"})
	}
	switch {
	case len(p.Password) < 6:
		errs = append(errs, domain.ValidationError{Field: "password", Msg: "must be at least 6 characters"})
	case len(p.Password) > 72:
		errs = append(errs, domain.ValidationError{Field: "password", Msg: "must be at most 72 bytes"})
	}
	if p.DateOfBirth != "" {
		if _, err := time.Parse(auth.DateLayout, p.DateOfBirth); err != nil {
			errs = append(errs, domain.ValidationError{Field: "dateOfBirth", Msg: "must be formatted as YYYY-MM-DD"})
		}
	}
	if err := errs.OrNil(); err != nil {
		return models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, domain.InternalError{Msg: "hash password", Err: err}
	}

	u := models.User{
		UserName:     strings.TrimSpace(p.UserName),
		Email:        strings.TrimSpace(p.Email),
		PasswordHash: string(hash),
		PhoneNumber:  strings.TrimSpace(p.PhoneNumber),
		DateOfBirth:  p.DateOfBirth,
		Roles:        append([]string{}, roles...),
		CreatedAt:    s.now().UTC(),
	}
	id, err := s.Users.Create(ctx, u)
	if err != nil {
		return models.User{}, err
	}
	u.ID = id
	utils.LogEvent(s.RequestID, "account", "register", "user_id="+strconv.FormatInt(id, 10))
	return u, nil
}

// Login checks the password and issues a token carrying the user's claims. Unknown
// users and wrong passwords are indistinguishable to the caller.
func (s AccountService) Login(ctx context.Context, p models.LoginPayload) (LoginResult, error) {
	u, err := s.Users.FindByUserName(ctx, strings.TrimSpace(p.UserName))
	if err != nil {
		if domain.IsNotFound(err) {
			return LoginResult{}, errBadCredentials
		}
		return LoginResult{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(p.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return LoginResult{}, errBadCredentials
		}
		return LoginResult{}, domain.InternalError{Msg: "verify password", Err: err}
	}

	claims := auth.NewClaimSet(strconv.FormatInt(u.ID, 10), map[auth.ClaimType][]string{
		auth.ClaimRole:        u.Roles,
		auth.ClaimName:        {u.UserName},
		auth.ClaimEmail:       {u.Email},
		auth.ClaimMobilePhone: {u.PhoneNumber},
		auth.ClaimDateOfBirth: {u.DateOfBirth},
	})
	token, exp, err := s.Tokens.Issue(claims)
	if err != nil {
		return LoginResult{}, domain.InternalError{Msg: "issue token", Err: err}
	}
	utils.LogEvent(s.RequestID, "account", "login", "user_id="+claims.Subject)
	return LoginResult{Token: token, ExpiresAt: exp, UserName: u.UserName, Roles: claims.Roles()}, nil
}
