package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rmanoharan/ledgerdesk/internal/httputil"
	"github.com/rmanoharan/ledgerdesk/internal/models"
)

// AuthService defines the authentication operations required by the HTTP
// handlers.
type AuthService interface {
	// Login verifies credentials and returns the account plus a signed
	// session token.
	Login(ctx context.Context, username, password string) (*models.User, string, error)
	// Register creates a new account and returns it with a session token.
	Register(ctx context.Context, username, password string, role models.Role) (*models.User, string, error)
}

// AuthHandler handles login and registration requests.
type AuthHandler struct {
	AuthService AuthService
}

// credentialsRequest is the JSON payload for login and registration.
type credentialsRequest struct {
	Username string      `json:"username"`
	Password string      `json:"password"`
	Role     models.Role `json:"role,omitempty"`
}

// sessionResponse is returned from login and registration: the token plus
// a public view of the account.
type sessionResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login handles POST /auth/login. It expects a JSON body with username
// and password and responds with a session token on success.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := h.AuthService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, sessionResponse{Token: token, User: user})
}

// Register handles POST /auth/register. The route is admin-only; the
// role check happens in middleware before this runs.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := h.AuthService.Register(r.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusCreated, sessionResponse{Token: token, User: user})
}
