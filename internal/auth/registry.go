package auth

import (
	"maps"
	"slices"
	"time"
)

// Role names as stored on users and carried in tokens.
const (
	RoleModerator     = "Moderator"
	RoleAdministrator = "Administrator"
)

// Policy names registered by DefaultPolicies.
const (
	PolicyModerator                = "Moderator"
	PolicyAdministrator            = "Administrator"
	PolicyModeratorWithMobilePhone = "ModeratorWithMobilePhone"
	PolicyMinimumAge18             = "MinimumAge18"
)

func DefaultPolicies() map[string]Predicate {
	return map[string]Predicate{
		PolicyModerator:     RoleMembership(RoleModerator, RoleAdministrator),
		PolicyAdministrator: RoleMembership(RoleAdministrator),
		PolicyModeratorWithMobilePhone: ClaimConjunction(
			RoleMembership(RoleModerator),
			ClaimPresence(ClaimMobilePhone),
		),
		PolicyMinimumAge18: DerivedAgeAtLeast(ClaimDateOfBirth, 18),
	}
}

// Registry holds the named policies. It is built once and only read afterwards, so
// it is safe for concurrent use without locking.
type Registry struct {
	policies map[string]Predicate
	now      func() time.Time
}

type RegistryOption func(*Registry)

// WithClock replaces time.Now for age based predicates.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) { r.now = now }
}

func NewRegistry(policies map[string]Predicate, opts ...RegistryOption) *Registry {
	r := &Registry{policies: maps.Clone(policies), now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Evaluate runs the named policy. Unauthenticated callers are denied before any
// predicate runs; unknown names always deny.
func (r *Registry) Evaluate(name string, claims ClaimSet) Decision {
	d := Decision{Policy: name}
	pred, ok := r.policies[name]
	switch {
	case !ok:
		d.Reason = ReasonUnknownPolicy
	case !claims.Authenticated():
		d.Reason = ReasonUnauthenticated
	default:
		d.Reason = pred(claims, r.now())
	}
	d.Allowed = d.Reason == ReasonNone
	return d
}

func (r *Registry) Has(name string) bool {
	_, ok := r.policies[name]
	return ok
}

func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.policies))
}
