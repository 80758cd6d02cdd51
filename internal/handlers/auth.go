package handlers

import (
	"encoding/json"
	"net/http"

	"eventtix/internal/middleware"
	"eventtix/internal/models"
	"eventtix/internal/services"
	"eventtix/internal/utils"

	"github.com/gorilla/sessions"
)

// AuthHandler handles registration, login, and session management
type AuthHandler struct {
	authService *services.AuthService
	store       sessions.Store
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, store sessions.Store) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		store:       store,
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.UserCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}

	user, err := h.authService.Register(&req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.saveSession(w, r, user.ID); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, user)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}

	user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.saveSession(w, r, user.ID); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, user)
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.store.Get(r, middleware.SessionName)
	session.Options.MaxAge = -1
	delete(session.Values, "user_id")
	if err := session.Save(r, w); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	utils.WriteJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) saveSession(w http.ResponseWriter, r *http.Request, userID int) error {
	session, _ := h.store.Get(r, middleware.SessionName)
	session.Values["user_id"] = userID
	return session.Save(r, w)
}
