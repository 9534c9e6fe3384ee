package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fkhayef/membership/pkg/response"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// PersonIDKey is the context key for the authenticated person ID
	PersonIDKey ContextKey = "person_id"
)

// Claims are the token claims issued by the session service
type Claims struct {
	PersonID int64 `json:"person_id"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates HMAC signed bearer tokens and stores the person
// ID claim in the request context
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	key := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Unauthorized(w, "Authorization header required")
				return
			}

			// Extract token from "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				response.Unauthorized(w, "Invalid authorization header format")
				return
			}

			personID, err := validateToken(parts[1], key)
			if err != nil {
				response.Unauthorized(w, "Invalid or expired token")
				return
			}

			ctx := WithPersonID(r.Context(), personID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func validateToken(token string, key []byte) (int64, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	if err != nil {
		return 0, err
	}
	if claims.PersonID <= 0 {
		return 0, errors.New("token has no person")
	}
	return claims.PersonID, nil
}

// DevPersonMiddleware allows setting the person via X-Person-ID header (DEV ONLY)
// This makes it easy to act as different people without real auth
func DevPersonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		idStr := r.Header.Get("X-Person-ID")
		if idStr != "" {
			if personID, err := strconv.ParseInt(idStr, 10, 64); err == nil && personID > 0 {
				next.ServeHTTP(w, r.WithContext(WithPersonID(r.Context(), personID)))
				return
			}
		}
		// Default to person 1 if no header provided
		next.ServeHTTP(w, r.WithContext(WithPersonID(r.Context(), 1)))
	})
}

// WithPersonID returns a context carrying the authenticated person
func WithPersonID(ctx context.Context, personID int64) context.Context {
	return context.WithValue(ctx, PersonIDKey, personID)
}

// GetPersonID extracts the person ID from the request context
func GetPersonID(ctx context.Context) (int64, bool) {
	personID, ok := ctx.Value(PersonIDKey).(int64)
	return personID, ok
}

// RequirePerson rejects requests without an authenticated person
func RequirePerson(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetPersonID(r.Context()); !ok {
			response.Unauthorized(w, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
