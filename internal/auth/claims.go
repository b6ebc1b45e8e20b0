// Package auth evaluates named authorization policies against the claims of an
// authenticated caller and issues/validates the bearer tokens carrying those claims.
package auth

import (
	"context"
	"slices"
	"strings"
)

// ClaimType enumerates the claim kinds policies know about.
type ClaimType string

const (
	ClaimRole        ClaimType = "role"
	ClaimMobilePhone ClaimType = "mobilePhone"
	ClaimDateOfBirth ClaimType = "dateOfBirth"
	ClaimEmail       ClaimType = "email"
	ClaimName        ClaimType = "name"
)

// ClaimSet is the identity of one request. It is never mutated after construction.
type ClaimSet struct {
	Subject string
	claims  map[ClaimType][]string
}

// NewClaimSet copies claims, dropping blank values.
func NewClaimSet(subject string, claims map[ClaimType][]string) ClaimSet {
	cs := ClaimSet{Subject: strings.TrimSpace(subject), claims: make(map[ClaimType][]string, len(claims))}
	for t, values := range claims {
		for _, v := range values {
			if v = strings.TrimSpace(v); v != "" {
				cs.claims[t] = append(cs.claims[t], v)
			}
		}
	}
	return cs
}

// Anonymous is the claim set of an unauthenticated caller.
func Anonymous() ClaimSet { return ClaimSet{} }

func (c ClaimSet) Authenticated() bool { return c.Subject != "" }

func (c ClaimSet) Values(t ClaimType) []string { return slices.Clone(c.claims[t]) }

func (c ClaimSet) First(t ClaimType) (string, bool) {
	values := c.claims[t]
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func (c ClaimSet) Has(t ClaimType) bool { return len(c.claims[t]) > 0 }

// HasRole matches role names exactly.
func (c ClaimSet) HasRole(role string) bool {
	return slices.Contains(c.claims[ClaimRole], role)
}

func (c ClaimSet) Roles() []string { return c.Values(ClaimRole) }

type ctxKey struct{}

func ContextWithClaims(ctx context.Context, cs ClaimSet) context.Context {
	return context.WithValue(ctx, ctxKey{}, cs)
}

// ClaimsFromContext returns the caller's claims, or Anonymous when none were stored.
func ClaimsFromContext(ctx context.Context) ClaimSet {
	if cs, ok := ctx.Value(ctxKey{}).(ClaimSet); ok {
		return cs
	}
	return Anonymous()
}
