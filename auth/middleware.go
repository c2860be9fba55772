package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"interviewprep/apperr"
	"interviewprep/models"
)

const bearerPrefix = "bearer "

type contextKey struct{}

// UserLookup confirms that a token's user still exists.
type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// UserIDFromContext returns the authenticated user id set by Middleware.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(contextKey{}).(string)
	return userID, ok && userID != ""
}

// Middleware rejects requests without a valid bearer token for an existing
// user. The user id is stored in the request context.
func Middleware(tokens *TokenProvider, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearer(r.Header.Get("Authorization"))
			if token == "" {
				writeUnauthorized(w, "missing or invalid authorization")
				return
			}

			userID, err := tokens.Parse(token)
			if err != nil {
				writeUnauthorized(w, "missing or invalid authorization")
				return
			}

			if _, err := users.GetUserByID(r.Context(), userID); err != nil {
				if !errors.Is(err, apperr.ErrNotFound) {
					log.Printf("[ERROR] Failed to look up token user %s: %v", userID, err)
				}
				writeUnauthorized(w, "missing or invalid authorization")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// extractBearer returns the token from an Authorization header value, or ""
// if missing or malformed.
func extractBearer(header string) string {
	v := strings.TrimSpace(header)
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized", "message": message})
}
