package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/webcarros/listing-service/internal/platform/logger"
)

// userIDKeyType is a private context key type to avoid collisions.
type userIDKeyType string

const userIDKey userIDKeyType = "authenticatedUserID"

// Claims is the token payload minted by the external auth service. Only the
// user id is consumed here; the token protocol itself is the auth service's
// concern.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Auth verifies the bearer token and stores the authenticated owner id in
// the request context. Requests without a valid token are rejected.
func Auth(jwtSecret string, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				log.Warn("Auth: 'Authorization' header not provided", "path", r.URL.Path)
				http.Error(w, "authorization token is not provided", http.StatusUnauthorized)
				return
			}

			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				log.Warn("Auth: invalid 'Authorization' header format", "path", r.URL.Path)
				http.Error(w, "authorization token format is invalid, expected 'Bearer <token>'", http.StatusUnauthorized)
				return
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !token.Valid {
				log.Warn("Auth: token validation failed", "path", r.URL.Path, "error", fmt.Sprintf("%v", err))
				http.Error(w, "authorization token is invalid", http.StatusUnauthorized)
				return
			}
			if claims.UserID == "" {
				log.Warn("Auth: token carries no user id", "path", r.URL.Path)
				http.Error(w, "authorization token is invalid", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID extracts the authenticated owner id set by Auth.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}
