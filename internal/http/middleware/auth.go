package middleware

import (
	"net/http"

	"boardgamelist/internal/auth"
	"boardgamelist/internal/obs"
	"boardgamelist/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const claimsKey = "claims"

// TokenParser turns a bearer token into the caller's claims.
type TokenParser interface {
	Parse(token string) (auth.ClaimSet, error)
}

// Authenticate resolves the bearer token, if any, into a ClaimSet. It never rejects:
// a missing or invalid token leaves the request anonymous and RequirePolicy decides.
func Authenticate(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := auth.Anonymous()
		if raw := auth.BearerToken(c.GetHeader("Authorization")); raw != "" {
			parsed, err := tokens.Parse(raw)
			if err != nil {
				utils.Log.WithFields(logrus.Fields{
					"module":     "AUTH",
					"request_id": GetRequestID(c),
				}).WithError(err).Warn("rejected bearer token")
			} else {
				claims = parsed
			}
		}
		c.Set(claimsKey, claims)
		c.Request = c.Request.WithContext(auth.ContextWithClaims(c.Request.Context(), claims))
		c.Next()
	}
}

// GetClaims returns the claims stored by Authenticate.
func GetClaims(c *gin.Context) auth.ClaimSet {
	if v, ok := c.Get(claimsKey); ok {
		if cs, ok := v.(auth.ClaimSet); ok {
			return cs
		}
	}
	return auth.Anonymous()
}

// RequirePolicy gates the handler on a named policy: 401 for anonymous callers,
// 403 for any other denial. Nothing downstream runs on deny.
func RequirePolicy(registry *auth.Registry, policy string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		d := registry.Evaluate(policy, claims)
		obs.AuthzDecision(policy, d.Allowed)
		if d.Allowed {
			c.Next()
			return
		}

		utils.Log.WithFields(logrus.Fields{
			"module":     "AUTH",
			"action":     "deny",
			"request_id": GetRequestID(c),
			"policy":     d.Policy,
			"reason":     string(d.Reason),
			"subject":    claims.Subject,
		}).Info("policy denied request")

		if d.Reason == auth.ReasonUnauthenticated {
			c.Header("WWW-Authenticate", `Bearer realm="boardgamelist"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":      "authentication required",
				"request_id": GetRequestID(c),
			})
			return
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":      "forbidden",
			"request_id": GetRequestID(c),
		})
	}
}
