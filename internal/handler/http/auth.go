package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ikart/storefront/internal/session"
	apperrors "github.com/ikart/storefront/pkg/errors"
	"github.com/ikart/storefront/pkg/httputil"
	"github.com/ikart/storefront/pkg/validator"
)

// AuthHandler handles HTTP requests for the demo signup and login flow.
type AuthHandler struct {
	service *session.Service
	logger  *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(svc *session.Service, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service: svc,
		logger:  logger,
	}
}

// SignUpRequest is the JSON request body for registering a user.
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=32"`
	Password string `json:"password" validate:"required,min=4"`
}

// LogInRequest is the JSON request body for logging in.
type LogInRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// UserResponse is the password-free user representation.
type UserResponse struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// SignUp handles POST /api/v1/auth/signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	user, err := h.service.SignUp(r.Context(), session.SignUpInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{
		Data: UserResponse{Email: user.Email, Username: user.Username},
	})
}

// LogIn handles POST /api/v1/auth/login
func (h *AuthHandler) LogIn(w http.ResponseWriter, r *http.Request) {
	var req LogInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	sess, err := h.service.LogIn(r.Context(), session.LogInInput{
		Identifier: req.Identifier,
		Password:   req.Password,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sess})
}

// LogOut handles POST /api/v1/auth/logout
func (h *AuthHandler) LogOut(w http.ResponseWriter, r *http.Request) {
	if err := h.service.LogOut(r.Context(), sessionIDFromRequest(r)); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "logged_out"}})
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.Current(r.Context(), sessionIDFromRequest(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sess})
}
