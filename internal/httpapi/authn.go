package httpapi

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/esslidev/sga-advanced-system/internal/apperr"
	"github.com/esslidev/sga-advanced-system/internal/auth"
	"github.com/esslidev/sga-advanced-system/internal/locale"
	"github.com/esslidev/sga-advanced-system/internal/token"
)

const (
	authHeader   = "Authorization"
	apiKeyHeader = "apikey"
	bearerPrefix = "Bearer "
)

var publicPaths = []string{
	"/healthz",
	"/readyz",
	"/metrics",
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	return false
}

// withAPIKey gates every API route behind the shared integration key. The
// operational endpoints stay open for probes and scrapers.
func (a *API) withAPIKey(next http.Handler) http.Handler {
	if a.apiKey == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions || isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		key := r.Header.Get(apiKeyHeader)
		if key == "" {
			writeError(w, r, apperr.New(http.StatusUnauthorized, locale.KeyLackOfCredentials))
			return
		}
		if subtle.ConstantTimeCompare([]byte(key), []byte(a.apiKey)) != 1 {
			writeError(w, r, apperr.New(http.StatusUnauthorized, locale.KeyInvalidCredentials))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withAuth verifies the access token and injects the caller's identity into
// the request context. An expired token is flagged so the client renews
// instead of logging out.
func (a *API) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := extractAccessToken(r.Header.Get(authHeader))
		if raw == "" {
			writeError(w, r, apperr.New(http.StatusUnauthorized, locale.KeyAuthenticationError).WithAccessUnauthorized())
			return
		}
		claims, err := a.codec.VerifyAccessToken(raw)
		if err != nil {
			switch {
			case errors.Is(err, token.ErrExpiredToken):
				writeError(w, r, apperr.New(http.StatusUnauthorized, locale.KeyAccessTokenExpired).WithExpiredAccessToken())
			case errors.Is(err, token.ErrMissingSecret):
				writeError(w, r, apperr.Wrap(err, http.StatusInternalServerError, locale.KeyInternalServerError))
			default:
				writeError(w, r, apperr.New(http.StatusUnauthorized, locale.KeyAuthenticationError).WithAccessUnauthorized())
			}
			return
		}
		ctx := auth.ContextWithUser(r.Context(), claims.UserID, auth.Role(claims.Role))
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// withAdmin re-checks the caller against the user table so a demoted or
// deleted admin loses access before the token expires.
func (a *API) withAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, r, apperr.New(http.StatusUnauthorized, locale.KeyAuthenticationError).WithAccessUnauthorized())
			return
		}
		isAdmin, err := a.auth.IsActiveAdmin(r.Context(), userID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if !isAdmin {
			writeError(w, r, apperr.New(http.StatusForbidden, locale.KeyForbidden).WithAccessUnauthorized())
			return
		}
		next.ServeHTTP(w, r)
	}
}

// extractAccessToken accepts both a bare token and the Bearer scheme.
func extractAccessToken(header string) string {
	header = strings.TrimSpace(header)
	if strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearerPrefix)) {
		return strings.TrimSpace(header[len(bearerPrefix):])
	}
	return header
}
