package middleware

import (
	"context"
	"net/http"

	"eventtix/internal/models"
	"eventtix/internal/utils"

	"github.com/gorilla/sessions"
)

type contextKey string

const (
	// UserContextKey holds the authenticated user in the request context
	UserContextKey contextKey = "user"

	// SessionName is the cookie name shared by all session operations
	SessionName = "session"
)

// UserLoader resolves a session user ID to a user
type UserLoader interface {
	GetUser(id int) (*models.User, error)
}

// AuthMiddleware loads session users and guards protected routes
type AuthMiddleware struct {
	users UserLoader
	store sessions.Store
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(users UserLoader, store sessions.Store) *AuthMiddleware {
	return &AuthMiddleware{users: users, store: store}
}

// LoadUser resolves the session's user and adds it to the request
// context. Requests without a valid session pass through anonymously.
func (m *AuthMiddleware) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := m.store.Get(r, SessionName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		userID, ok := session.Values["user_id"].(int)
		if !ok || userID == 0 {
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.users.GetUser(userID)
		if err != nil {
			// Stale session for a deleted user
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth rejects requests without an authenticated user
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUserFromContext(r.Context()) == nil {
			utils.WriteError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireOrganizer rejects requests unless the user is an organizer
func (m *AuthMiddleware) RequireOrganizer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r.Context())
		if user == nil {
			utils.WriteError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}
		if !user.IsOrganizer() {
			utils.WriteError(w, http.StatusForbidden, "forbidden", "organizer account required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUserFromContext returns the authenticated user, or nil
func GetUserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(UserContextKey).(*models.User)
	return user
}
