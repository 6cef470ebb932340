package server

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/health-tracker/internal/types"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	responder
	userService *UserService
	jwtService  *JWTService
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(userService *UserService, jwtService *JWTService, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{
		responder:   responder{logger: logger},
		userService: userService,
		jwtService:  jwtService,
	}
}

// Register handles user registration requests.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.CreateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.handleError(w, r, validationError(err))
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.issueToken(w, r, http.StatusCreated, user)
}

// Login handles user login requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.handleError(w, r, validationError(err))
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.issueToken(w, r, http.StatusOK, user)
}

func (h *AuthHandler) issueToken(w http.ResponseWriter, r *http.Request, status int, user *types.User) {
	token, err := h.jwtService.GenerateToken(user.ID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.logger.Info("issued token", zap.String("user_id", user.ID.String()))
	h.jsonResponse(w, status, types.LoginResponse{
		User:  user,
		Token: token,
	})
}

// UpdatePasswordWithUserID handles password update requests with an explicit user ID.
func (h *AuthHandler) UpdatePasswordWithUserID(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	var req types.UpdatePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.handleError(w, r, validationError(err))
		return
	}

	if err := h.userService.UpdatePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		h.handleError(w, r, err)
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]string{
		"message": "Password updated successfully",
	})
}
