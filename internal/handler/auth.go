package handler

import (
	"net/http"

	"rnimart-be/internal/logger"
	"rnimart-be/internal/middleware"
	"rnimart-be/internal/session"
	"rnimart-be/internal/user"
	"rnimart-be/internal/utils"

	"go.uber.org/zap"
)

type loginRequest struct {
	// Identifier is a username or WhatsApp number.
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type loginResponse struct {
	User  user.User `json:"user"`
	Token string    `json:"token"`
}

type verifyIdentityRequest struct {
	Username string `json:"username"`
	WA       string `json:"wa"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var input user.RegisterInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	u, err := h.Users.Register(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, u.Sanitized())
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	u, err := h.Users.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	token, err := h.Sessions.Start(r.Context(), u)
	if err != nil {
		writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(session.DefaultTTL.Seconds()),
	})
	utils.WriteJSON(w, http.StatusOK, loginResponse{User: u.Sanitized(), Token: token})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if s, ok := middleware.SessionFrom(r.Context()); ok {
		if err := h.Sessions.End(r.Context(), s); err != nil {
			writeError(w, r, err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.SecureCookies,
		MaxAge:   -1,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) verifyIdentity(w http.ResponseWriter, r *http.Request) {
	var req verifyIdentityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.Users.VerifyIdentity(r.Context(), req.Username, req.WA); err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]bool{"verified": true})
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var input user.ResetPasswordInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.Users.ResetPassword(r.Context(), input); err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	s, _ := middleware.SessionFrom(r.Context())
	utils.WriteJSON(w, http.StatusOK, s.User)
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]user.User, len(users))
	for i, u := range users {
		out[i] = u.Sanitized()
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

// updateUser saves the admin's edit and pushes it into the user's open sessions.
func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	var input user.UpdateInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, r, err)
		return
	}
	input.Username = chiParam(r, "username")

	u, err := h.Users.Update(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.Sessions.Refresh(r.Context(), u); err != nil {
		logger.FromCtx(r.Context()).Warn("failed to refresh sessions after user update",
			zap.String("username", u.Username), zap.Error(err))
	}
	utils.WriteJSON(w, http.StatusOK, u.Sanitized())
}
