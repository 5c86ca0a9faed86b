package handler

import (
	"errors"
	"net/http"

	"github.com/campusfind/campusfind/internal/ctxkeys"
	"github.com/campusfind/campusfind/internal/service"
	"github.com/campusfind/campusfind/internal/validation"
)

type AuthHandler struct {
	authService   *service.AuthService
	maxUploadSize int64
}

func NewAuthHandler(authService *service.AuthService, maxUploadSize int64) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		maxUploadSize: maxUploadSize,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" || req.Phone == "" {
		respondError(w, http.StatusBadRequest, "please enter all fields including phone number")
		return
	}

	user, err := h.authService.Register(req.Name, req.Email, req.Password, req.Phone)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "user registered successfully",
		"user":    user,
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "please enter all fields")
		return
	}

	user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	token, err := h.authService.GenerateJWT(user)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  user,
	})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ForgotPassword handles POST /api/auth/forgot-password. The answer is the
// same whether or not the address is registered. There is no mailer: the
// token is returned in the response and the client delivers it to the
// reset form.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" {
		respondError(w, http.StatusBadRequest, "email is required")
		return
	}

	token, err := h.authService.ForgotPassword(req.Email)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	resp := map[string]any{"message": "if an account exists, a reset token was issued"}
	if token != "" {
		resp["token"] = token
	}

	respondJSON(w, http.StatusOK, resp)
}

// ResetPassword handles POST /api/auth/reset-password.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Token == "" || req.NewPassword == "" {
		respondError(w, http.StatusBadRequest, "token and new password are required")
		return
	}

	err = h.authService.ResetPassword(req.Token, req.NewPassword)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "password has been reset"})
}

// ChangePassword handles POST /api/auth/change-password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req changePasswordRequest
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.CurrentPassword == "" || req.NewPassword == "" {
		respondError(w, http.StatusBadRequest, "provide current and new password")
		return
	}

	err = h.authService.ChangePassword(user.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "password changed successfully"})
}

// Profile handles GET /api/auth/profile.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	respondJSON(w, http.StatusOK, user)
}

// UpdateProfile handles PUT /api/auth/profile. Accepts multipart form data
// with optional phone, whatsapp and profilePicture fields.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := parseForm(w, r, h.maxUploadSize)
	if err != nil {
		respondError(w, http.StatusBadRequest, "file too large or invalid form")
		return
	}

	picture, header, err := r.FormFile("profilePicture")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		respondError(w, http.StatusBadRequest, "invalid profile picture upload")
		return
	}
	if picture != nil {
		defer picture.Close()

		err = validation.ValidateFile(header, validation.ImageConstraints)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	update := service.ProfileUpdate{
		Phone:    formValue(r, "phone"),
		Whatsapp: formValue(r, "whatsapp"),
	}

	updated, err := h.authService.UpdateProfile(user.ID, update, picture, header)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "profile updated successfully",
		"user":    updated,
	})
}
