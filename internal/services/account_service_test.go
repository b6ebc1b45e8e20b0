package services

import (
	"context"
	"testing"
	"time"

	"boardgamelist/internal/auth"
	"boardgamelist/internal/domain"
	"boardgamelist/internal/domain/models"
	"boardgamelist/internal/repositories"
)

func newAccountService() AccountService {
	return AccountService{
		Users:  repositories.NewMemoryUserStore(),
		Tokens: auth.NewTokenService("secret", "boardgamelist", "boardgamelist", time.Hour),
	}
}

func TestRegisterValidatesEveryField(t *testing.T) {
	svc := newAccountService()
	_, err := svc.Register(context.Background(), models.RegisterPayload{
		UserName:    "  ",
		Email:       "a@b.c",
		Password:    "123",
		DateOfBirth: "03/02/1990",
	})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if got := len(domain.ValidationDetails(err)); got != 3 {
		t.Fatalf("expected 3 field errors, got %d: %v", got, err)
	}
}

func TestLoginIssuesTokenWithProfileClaims(t *testing.T) {
	svc := newAccountService()
	ctx := context.Background()
	_, err := svc.Register(ctx, models.RegisterPayload{
		UserName:    "mod",
		Email:       "mod@example.com",
		Password:    "s3cret!",
		PhoneNumber: "+39 555 0100",
		DateOfBirth: "1990-02-03",
	}, auth.RoleModerator)
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	res, err := svc.Login(ctx, models.LoginPayload{UserName: "MOD", Password: "s3cret!"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := svc.Tokens.Parse(res.Token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !claims.HasRole(auth.RoleModerator) {
		t.Fatalf("role claim missing: %v", claims.Roles())
	}
	if phone, _ := claims.First(auth.ClaimMobilePhone); phone != "+39 555 0100" {
		t.Fatalf("unexpected phone %q", phone)
	}
	if dob, _ := claims.First(auth.ClaimDateOfBirth); dob != "1990-02-03" {
		t.Fatalf("unexpected dateOfBirth %q", dob)
	}

	registry := auth.NewRegistry(auth.DefaultPolicies())
	if d := registry.Evaluate(auth.PolicyModeratorWithMobilePhone, claims); !d.Allowed {
		t.Fatalf("expected ModeratorWithMobilePhone to allow, got %+v", d)
	}
}

func TestLoginHidesWhichCredentialFailed(t *testing.T) {
	svc := newAccountService()
	ctx := context.Background()
	if _, err := svc.Register(ctx, models.RegisterPayload{UserName: "u", Email: "u@example.com", Password: "password"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, unknown := svc.Login(ctx, models.LoginPayload{UserName: "nobody", Password: "password"})
	_, wrong := svc.Login(ctx, models.LoginPayload{UserName: "u", Password: "nope"})
	if !domain.IsUnauthorized(unknown) || !domain.IsUnauthorized(wrong) {
		t.Fatalf("expected unauthorized, got %v and %v", unknown, wrong)
	}
	if unknown.Error() != wrong.Error() {
		t.Fatalf("messages differ: %q vs %q", unknown, wrong)
	}
}

func TestRegisterDuplicateIsConflict(t *testing.T) {
	svc := newAccountService()
	ctx := context.Background()
	p := models.RegisterPayload{UserName: "dup", Email: "dup@example.com", Password: "password"}
	if _, err := svc.Register(ctx, p); err != nil {
		t.Fatalf("register: %v", err)
	}
	p.UserName = "other"
	if _, err := svc.Register(ctx, p); !domain.IsConflict(err) {
		t.Fatalf("duplicate email should conflict, got %v", err)
	}
}
