package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"boardgamelist/internal/auth"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestIDKeepsClientValue(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != "abc-123" || w.Header().Get("X-Request-ID") != "abc-123" {
		t.Fatalf("client request id not kept: body=%q header=%q", w.Body, w.Header().Get("X-Request-ID"))
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("x", 200))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if len(w.Body.String()) != 36 {
		t.Fatalf("oversized id should be replaced by a uuid, got %q", w.Body)
	}
}

func TestRateLimiterSweepForgetsIdleBuckets(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewRateLimiter(1, 1)
	l.now = func() time.Time { return now }

	l.allow("10.0.0.1")
	now = now.Add(4 * time.Minute)
	l.allow("10.0.0.2")
	now = now.Add(2 * time.Minute)

	if n := l.Sweep(); n != 1 {
		t.Fatalf("expected 1 swept bucket, got %d", n)
	}
	if _, ok := l.buckets["10.0.0.2"]; !ok {
		t.Fatalf("recent bucket was swept")
	}
}

func TestRateLimiterRefills(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewRateLimiter(1, 1)
	l.now = func() time.Time { return now }

	if !l.allow("ip") {
		t.Fatalf("first request denied")
	}
	if l.allow("ip") {
		t.Fatalf("second request within the same instant allowed")
	}
	now = now.Add(time.Second)
	if !l.allow("ip") {
		t.Fatalf("bucket did not refill")
	}
}

func TestCacheProfileSetsHeader(t *testing.T) {
	r := gin.New()
	r.GET("/", CacheProfile(CacheAny60), func(c *gin.Context) { c.Status(http.StatusOK) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if got := w.Header().Get("Cache-Control"); got != CacheAny60 {
		t.Fatalf("unexpected Cache-Control %q", got)
	}
}

func TestRequirePolicy(t *testing.T) {
	tokens := auth.NewTokenService("secret", "iss", "aud", time.Hour)
	registry := auth.NewRegistry(auth.DefaultPolicies())

	r := gin.New()
	r.Use(RequestID(), Authenticate(tokens))
	r.GET("/", RequirePolicy(registry, auth.PolicyModeratorWithMobilePhone), func(c *gin.Context) {
		c.String(http.StatusOK, GetClaims(c).Subject)
	})

	issue := func(claims map[auth.ClaimType][]string) string {
		tok, _, err := tokens.Issue(auth.NewClaimSet("7", claims))
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		return tok
	}

	cases := []struct {
		name   string
		token  string
		status int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"moderator without phone", issue(map[auth.ClaimType][]string{auth.ClaimRole: {auth.RoleModerator}}), http.StatusForbidden},
		{"phone without role", issue(map[auth.ClaimType][]string{auth.ClaimMobilePhone: {"+391234"}}), http.StatusForbidden},
		{"moderator with phone", issue(map[auth.ClaimType][]string{
			auth.ClaimRole:        {auth.RoleModerator},
			auth.ClaimMobilePhone: {"+391234"},
		}), http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.token != "" {
			req.Header.Set("Authorization", "Bearer "+tc.token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != tc.status {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.status, w.Code)
		}
		if tc.status == http.StatusUnauthorized && w.Header().Get("WWW-Authenticate") == "" {
			t.Fatalf("%s: missing WWW-Authenticate", tc.name)
		}
		if tc.status == http.StatusOK && w.Body.String() != "7" {
			t.Fatalf("%s: claims not exposed to handler, got %q", tc.name, w.Body)
		}
	}
}
