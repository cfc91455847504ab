package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"employee-portal/internal/api/apierror"
	"employee-portal/internal/metrics"
	"employee-portal/internal/models"
	"employee-portal/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	PrincipalKey = "principal"

	MsgMissingAuthHeader = "missing or invalid authorization header"
	MsgNoAuthentication  = "could not establish authentication"
	MsgTokenExpired      = "Token has expired"
	MsgTokenForged       = "Invalid JWT signature"
	MsgTokenMalformed    = "Invalid JWT token format"
)

// Principal is the authenticated caller of the current request.
type Principal struct {
	AccountID uint
	Username  string
	Role      models.Role
}

type TokenVerifier interface {
	Verify(token string) (string, error)
}

type AccountFinder interface {
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
}

var publicPaths = map[string]bool{
	"/api/auth/login":    true,
	"/api/auth/register": true,
	"/health":            true,
	"/health/ready":      true,
	"/metrics":           true,
}

var publicPrefixes = []string{"/h2-console"}

// IsPublicPath reports whether path is served without authentication.
func IsPublicPath(path string) bool {
	if publicPaths[path] {
		return true
	}
	for _, prefix := range publicPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// Authenticate resolves the bearer token to an account and stores the
// Principal in the context. Every request either continues or is rejected
// exactly once.
func Authenticate(tokens TokenVerifier, accounts AccountFinder, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsPublicPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			metrics.AuthFailuresTotal.WithLabelValues("missing_header").Inc()
			apierror.Abort(c, http.StatusUnauthorized, apierror.TitleUnauthorized, MsgMissingAuthHeader)
			return
		}

		subject, err := tokens.Verify(token)
		if err != nil {
			reason, msg := "malformed", MsgTokenMalformed
			switch {
			case errors.Is(err, services.ErrTokenExpired):
				reason, msg = "expired", MsgTokenExpired
			case errors.Is(err, services.ErrTokenForged):
				reason, msg = "forged", MsgTokenForged
			}
			metrics.AuthFailuresTotal.WithLabelValues(reason).Inc()
			apierror.Abort(c, http.StatusForbidden, apierror.TitleForbidden, msg)
			return
		}

		account, err := accounts.FindByUsername(c.Request.Context(), subject)
		if err != nil {
			if errors.Is(err, services.ErrAccountNotFound) {
				metrics.AuthFailuresTotal.WithLabelValues("unknown_account").Inc()
				apierror.Abort(c, http.StatusForbidden, apierror.TitleForbidden, MsgNoAuthentication)
				return
			}
			log.Error().
				Err(err).
				Str("request_id", c.GetString(RequestIDKey)).
				Msg("account lookup failed")
			apierror.Abort(c, http.StatusInternalServerError, apierror.TitleServerError, "An unexpected error occurred")
			return
		}

		c.Set(PrincipalKey, &Principal{
			AccountID: account.ID,
			Username:  account.Username,
			Role:      account.Role,
		})
		c.Next()
	}
}

// CurrentPrincipal returns the caller established by Authenticate.
func CurrentPrincipal(c *gin.Context) (*Principal, bool) {
	v, exists := c.Get(PrincipalKey)
	if !exists {
		return nil, false
	}
	p, ok := v.(*Principal)
	return p, ok
}

// bearerToken returns whatever follows "Bearer ". An empty or mangled
// remainder is left for the verifier to reject.
func bearerToken(header string) (string, bool) {
	return strings.CutPrefix(header, "Bearer ")
}
