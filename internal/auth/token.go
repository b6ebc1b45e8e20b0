package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrMissingToken  = errors.New("missing token")
	ErrInvalidToken  = errors.New("invalid token")
	errMissingSecret = errors.New("jwt secret is not configured")
)

// tokenClaims is the JWT body. Claim kinds map one to one onto ClaimType.
type tokenClaims struct {
	Roles       []string `json:"role,omitempty"`
	MobilePhone string   `json:"mobilePhone,omitempty"`
	DateOfBirth string   `json:"dateOfBirth,omitempty"`
	Email       string   `json:"email,omitempty"`
	Name        string   `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// TokenService signs and validates HS256 bearer tokens.
type TokenService struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

func NewTokenService(secret, issuer, audience string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenService{
		secret:   []byte(strings.TrimSpace(secret)),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Issue signs a token for cs and returns it with its expiry.
func (s *TokenService) Issue(cs ClaimSet) (string, time.Time, error) {
	if len(s.secret) == 0 {
		return "", time.Time{}, errMissingSecret
	}
	if !cs.Authenticated() {
		return "", time.Time{}, errors.New("subject is required")
	}

	now := s.now().UTC()
	exp := now.Add(s.ttl)
	claims := tokenClaims{
		Roles: cs.Roles(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   cs.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	if s.audience != "" {
		claims.Audience = jwt.ClaimStrings{s.audience}
	}
	claims.MobilePhone, _ = cs.First(ClaimMobilePhone)
	claims.DateOfBirth, _ = cs.First(ClaimDateOfBirth)
	claims.Email, _ = cs.First(ClaimEmail)
	claims.Name, _ = cs.First(ClaimName)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Parse validates signature, lifetime, issuer and audience and returns the claims.
func (s *TokenService) Parse(token string) (ClaimSet, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Anonymous(), ErrMissingToken
	}
	if len(s.secret) == 0 {
		return Anonymous(), errMissingSecret
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithLeeway(5 * time.Second),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	if s.audience != "" {
		opts = append(opts, jwt.WithAudience(s.audience))
	}

	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return Anonymous(), fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || strings.TrimSpace(claims.Subject) == "" {
		return Anonymous(), ErrInvalidToken
	}

	return NewClaimSet(claims.Subject, map[ClaimType][]string{
		ClaimRole:        claims.Roles,
		ClaimMobilePhone: {claims.MobilePhone},
		ClaimDateOfBirth: {claims.DateOfBirth},
		ClaimEmail:       {claims.Email},
		ClaimName:        {claims.Name},
	}), nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
