package handler

import (
	"context"
	"net/http"
	"planner-api/common"
	"planner-api/config"
	"planner-api/logger"
	"planner-api/model"
	"strings"
)

type contextKey string

const (
	UserIDKey    contextKey = "userID"
	UserEmailKey contextKey = "userEmail"
	UserRoleKey  contextKey = "userRole"
)

// TokenDecoder validates a signed token and returns its claims.
type TokenDecoder interface {
	DecodeToken(token string) (*model.AppClaims, error)
}

// AuthMiddleware extracts a bearer access token, validates it, and attaches
// the identity to the request context. It never rejects a request: a
// missing, malformed or expired token simply leaves the request anonymous,
// and RequireAuth or RequireRole decide further down whether that matters.
// It also never touches the store; access token validation is stateless.
func AuthMiddleware(decoder TokenDecoder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			headerParts := strings.SplitN(authHeader, " ", 2)
			if len(headerParts) != 2 || !strings.EqualFold(headerParts[0], "bearer") {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := decoder.DecodeToken(strings.TrimSpace(headerParts[1]))
			if err != nil {
				logger.Log.WithError(err).Debug("Ignoring invalid bearer token")
				next.ServeHTTP(w, r)
				return
			}

			// Refresh tokens are never valid as access credentials.
			if claims.Type != config.AppConfig.JWT.AccessTokenType {
				logger.Log.WithField("typ", claims.Type).Debug("Ignoring non-access token in Authorization header")
				next.ServeHTTP(w, r)
				return
			}

			// An identity attached earlier in the chain wins.
			if r.Context().Value(UserIDKey) != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.Subject)
			ctx = context.WithValue(ctx, UserEmailKey, claims.Email)
			ctx = context.WithValue(ctx, UserRoleKey, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth denies access to requests that carry no authenticated
// identity.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Context().Value(UserIDKey).(string); !ok {
			err := common.NewAppError(http.StatusUnauthorized, "Authentication required", nil)
			err.Send(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole denies access unless the authenticated identity carries the
// given role.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			current, ok := r.Context().Value(UserRoleKey).(string)
			if !ok || current != role {
				err := common.NewAppError(http.StatusForbidden, "Access denied. Insufficient privileges.", nil)
				err.Send(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
