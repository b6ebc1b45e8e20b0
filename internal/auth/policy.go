package auth

import (
	"time"
)

// DateLayout is the only accepted encoding of date claims.
const DateLayout = "2006-01-02"

// DenyReason says why a policy denied. The empty reason means allowed.
type DenyReason string

const (
	ReasonNone            DenyReason = ""
	ReasonUnauthenticated DenyReason = "unauthenticated"
	ReasonMissingRole     DenyReason = "missing_role"
	ReasonMissingClaim    DenyReason = "missing_claim"
	ReasonInvalidClaim    DenyReason = "invalid_claim"
	ReasonUnderAge        DenyReason = "under_age"
	ReasonUnknownPolicy   DenyReason = "unknown_policy"
)

// Decision is the outcome of evaluating one named policy.
type Decision struct {
	Allowed bool       `json:"allowed"`
	Reason  DenyReason `json:"reason,omitempty"`
	Policy  string     `json:"policy"`
}

// Predicate returns ReasonNone when claims satisfy it. now is the evaluation instant.
type Predicate func(claims ClaimSet, now time.Time) DenyReason

// RoleMembership passes when the caller holds any of roles.
func RoleMembership(roles ...string) Predicate {
	return func(claims ClaimSet, _ time.Time) DenyReason {
		for _, r := range roles {
			if claims.HasRole(r) {
				return ReasonNone
			}
		}
		return ReasonMissingRole
	}
}

// ClaimPresence passes when at least one non-empty value of t is present.
func ClaimPresence(t ClaimType) Predicate {
	return func(claims ClaimSet, _ time.Time) DenyReason {
		if claims.Has(t) {
			return ReasonNone
		}
		return ReasonMissingClaim
	}
}

// ClaimConjunction passes when every predicate passes and reports the first failure.
func ClaimConjunction(preds ...Predicate) Predicate {
	return func(claims ClaimSet, now time.Time) DenyReason {
		for _, p := range preds {
			if reason := p(claims, now); reason != ReasonNone {
				return reason
			}
		}
		return ReasonNone
	}
}

// DerivedAgeAtLeast reads a DateLayout date from claim t and passes when the caller
// turned minYears on or before today. A birthday on Feb 29 counts from Mar 1 in
// non-leap years. Missing or unparseable dates deny.
func DerivedAgeAtLeast(t ClaimType, minYears int) Predicate {
	return func(claims ClaimSet, now time.Time) DenyReason {
		raw, ok := claims.First(t)
		if !ok {
			return ReasonMissingClaim
		}
		birth, err := time.Parse(DateLayout, raw)
		if err != nil {
			return ReasonInvalidClaim
		}
		y, m, d := now.Date()
		today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		if birth.After(today) {
			return ReasonInvalidClaim
		}
		if birth.AddDate(minYears, 0, 0).After(today) {
			return ReasonUnderAge
		}
		return ReasonNone
	}
}
