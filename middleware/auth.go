package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/clerk/clerk-sdk-go/v2/jwt"

	"dailyDoodleAPI/internal/user"
)

type contextKey string

const ClerkIDKey contextKey = "clerkID"
const IdentityKey contextKey = "identity"

// IdentityResolver maps a verified Clerk subject to the app-level identity.
type IdentityResolver func(ctx context.Context, clerkID string) (user.Identity, error)

// ClerkAuthMiddleware validates Clerk JWT tokens, resolves the app identity
// and stores both on the request context
func ClerkAuthMiddleware(resolve IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Extract token from Authorization header
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondWithError(w, http.StatusUnauthorized, "Authorization header required")
				return
			}

			// Remove "Bearer " prefix
			token := strings.TrimPrefix(authHeader, "Bearer ")
			if token == authHeader {
				respondWithError(w, http.StatusUnauthorized, "Invalid authorization format. Use 'Bearer <token>'")
				return
			}

			// Verify the token
			claims, err := jwt.Verify(r.Context(), &jwt.VerifyParams{
				Token: token,
			})
			if err != nil {
				log.Printf("Token verification failed: %v", err)
				respondWithError(w, http.StatusUnauthorized, fmt.Sprintf("Invalid token: %v", err))
				return
			}

			ident, err := resolve(r.Context(), claims.Subject)
			if err != nil {
				log.Printf("Identity resolution failed for %s: %v", claims.Subject, err)
				respondWithError(w, http.StatusUnauthorized, "Unknown user")
				return
			}

			ctx := context.WithValue(r.Context(), ClerkIDKey, claims.Subject)
			ctx = context.WithValue(ctx, IdentityKey, ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClerkID extracts Clerk user ID from context
func GetClerkID(ctx context.Context) (string, bool) {
	clerkID, ok := ctx.Value(ClerkIDKey).(string)
	return clerkID, ok
}

// GetIdentity extracts the resolved app identity from context
func GetIdentity(ctx context.Context) (user.Identity, bool) {
	ident, ok := ctx.Value(IdentityKey).(user.Identity)
	return ident, ok
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write([]byte(fmt.Sprintf(`{"error": "%s"}`, message)))
}
