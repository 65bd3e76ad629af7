package handler

import (
	"errors"
	"net/http"
	"time"

	identitydomain "giftcircle/internal/domain/identity"
	"giftcircle/internal/transport/httpserver/middleware"
)

type registerRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Name            string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyRequest struct {
	Token string `json:"token"`
}

type resendRequest struct {
	Email string `json:"email"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	ImageURL  *string   `json:"image_url"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func toUserResponse(user *identitydomain.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		ImageURL:  user.ImageURL,
		Verified:  user.IsVerified(),
		CreatedAt: user.CreatedAt,
	}
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, err := h.Identity.Register(r.Context(), identitydomain.RegisterInput{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Name:            req.Name,
	})
	if err != nil {
		switch {
		case errors.Is(err, identitydomain.ErrEmailRequired),
			errors.Is(err, identitydomain.ErrEmailInvalid):
			h.log.BusinessError("auth.register: invalid email", err)
			writeError(w, http.StatusBadRequest, "invalid_email", "a valid email address is required")
		case errors.Is(err, identitydomain.ErrPasswordTooShort):
			h.log.BusinessError("auth.register: password too short", err)
			writeError(w, http.StatusBadRequest, "password_too_short", "password must be at least 8 characters")
		case errors.Is(err, identitydomain.ErrPasswordMismatch):
			h.log.BusinessError("auth.register: password mismatch", err)
			writeError(w, http.StatusBadRequest, "password_mismatch", "passwords do not match")
		case errors.Is(err, identitydomain.ErrEmailTaken):
			h.log.BusinessError("auth.register: email taken", err)
			writeError(w, http.StatusConflict, "email_taken", "an account with this email already exists")
		default:
			h.log.InternalError("auth.register: register failed", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, err := h.Identity.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, identitydomain.ErrInvalidCredentials) {
			h.log.BusinessError("auth.login: invalid credentials", err)
			writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
			return
		}
		h.log.InternalError("auth.login: login failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	token, err := h.tokens.Generate(user.ID, user.Email)
	if err != nil {
		h.log.InternalError("auth.login: token generation failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: toUserResponse(user)})
}

func (h *Handlers) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, err := h.Identity.Verify(r.Context(), req.Token)
	if err != nil {
		switch {
		case errors.Is(err, identitydomain.ErrTokenNotFound):
			h.log.BusinessError("auth.verify: token not found", err)
			writeError(w, http.StatusNotFound, "token_not_found", "verification token not found")
		case errors.Is(err, identitydomain.ErrTokenExpired):
			h.log.BusinessError("auth.verify: token expired", err)
			writeError(w, http.StatusGone, "token_expired", "verification token has expired")
		case errors.Is(err, identitydomain.ErrAlreadyVerified):
			h.log.BusinessError("auth.verify: already verified", err)
			writeError(w, http.StatusConflict, "already_verified", "email is already verified")
		default:
			h.log.InternalError("auth.verify: verify failed", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// ResendVerification always answers 202 for well-formed requests so
// the endpoint cannot be used to probe which emails are registered.
func (h *Handlers) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req resendRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	if err := h.Identity.ResendVerification(r.Context(), req.Email); err != nil {
		h.log.InternalError("auth.resend: resend failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}

func (h *Handlers) AuthMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	account, err := h.Identity.GetUser(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, identitydomain.ErrUserNotFound) {
			writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
			return
		}
		h.log.InternalError("auth.me: get user failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(account))
}

func (h *Handlers) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	if err := h.Identity.DeleteUser(r.Context(), user.ID); err != nil {
		if errors.Is(err, identitydomain.ErrUserNotFound) {
			h.log.BusinessError("auth.delete: user not found", err, "user_id", user.ID)
			writeError(w, http.StatusNotFound, "user_not_found", "user not found")
			return
		}
		h.log.InternalError("auth.delete: delete failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
