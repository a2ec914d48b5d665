package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/settleline/api/internal/model"
	"github.com/settleline/api/pkg/jwt"
)

// TokenValidator defines the interface for bearer token validation
type TokenValidator interface {
	Validate(token string) (*jwt.Claims, error)
}

// Auth returns a middleware that validates JWT tokens and puts the caller's
// id and role in the request context
func Auth(validator TokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, apiErr := validateRequest(validator, r)
			if apiErr != nil {
				apiErr.WriteJSON(w)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, RoleKey, claims.Role)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminAuth is Auth plus an admin role requirement. Curation and broadcast
// routes sit behind this.
func AdminAuth(validator TokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, apiErr := validateRequest(validator, r)
			if apiErr != nil {
				apiErr.WriteJSON(w)
				return
			}
			if !claims.IsAdmin() {
				model.NewForbiddenError("admin role required").WriteJSON(w)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, RoleKey, claims.Role)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// validateRequest extracts and validates the bearer token on a request
func validateRequest(validator TokenValidator, r *http.Request) (*jwt.Claims, *model.APIError) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, model.NewUnauthorizedError("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, model.NewUnauthorizedError("invalid authorization header format")
	}

	claims, err := validator.Validate(parts[1])
	if err != nil {
		switch err {
		case jwt.ErrTokenExpired:
			return nil, model.NewUnauthorizedError("token expired")
		case jwt.ErrInvalidSignature:
			return nil, model.NewUnauthorizedError("invalid token signature")
		default:
			return nil, model.NewUnauthorizedError("invalid token")
		}
	}
	return claims, nil
}

// GetUserID extracts the user ID from context
func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

// GetRole extracts the caller's role from context
func GetRole(ctx context.Context) string {
	if role, ok := ctx.Value(RoleKey).(string); ok {
		return role
	}
	return ""
}
