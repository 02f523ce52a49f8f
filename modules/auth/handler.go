package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/inkwell/core"
)

// Handler exposes the auth HTTP surface.
type Handler struct {
	svc    *Service
	tokens *TokenIssuer
	mw     *Middleware
	render *core.ErrorRenderer
}

// NewHandler builds the handler.
func NewHandler(svc *Service, tokens *TokenIssuer, mw *Middleware, render *core.ErrorRenderer) *Handler {
	return &Handler{svc: svc, tokens: tokens, mw: mw, render: render}
}

// Router returns the routes mounted under /users.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Post("/signup", h.signup)
	r.Post("/login", h.login)
	r.Post("/forgotPassword", h.forgotPassword)
	r.Post("/resetPassword/{resetToken}", h.resetPassword)

	r.Group(func(r chi.Router) {
		r.Use(h.mw.IdentifyIfPresent)
		r.Get("/isLoggedIn", h.isLoggedIn)
	})

	r.Group(func(r chi.Router) {
		r.Use(h.mw.Authenticate)
		r.Get("/logout", h.logout)
		r.Post("/updateMyPassword", h.updatePassword)
	})

	return r
}

// sendToken issues a session token for the user, sets the jwt cookie, and
// writes the success envelope carrying both token and user.
func (h *Handler) sendToken(w http.ResponseWriter, r *http.Request, code int, user *User) {
	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.render.Render(r.Context(), w, fmt.Errorf("failed to issue token: %w", err))
		return
	}

	h.tokens.WriteCookie(w, token)
	core.Success(w, code, map[string]any{
		"token": token,
		"user":  user,
	})
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var params CreateUserParams
	if err := core.DecodeJSON(r, &params); err != nil {
		h.render.Render(r.Context(), w, err)
		return
	}

	user, err := h.svc.CreateUser(r.Context(), params)
	if err != nil {
		h.render.Render(r.Context(), w, mapAuthError(err))
		return
	}

	h.sendToken(w, r, http.StatusCreated, user)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var params struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := core.DecodeJSON(r, &params); err != nil {
		h.render.Render(r.Context(), w, err)
		return
	}

	user, err := h.svc.Authenticate(r.Context(), params.Email, params.Password)
	if err != nil {
		h.render.Render(r.Context(), w, mapAuthError(err))
		return
	}

	h.sendToken(w, r, http.StatusOK, user)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.tokens.ClearCookie(w)
	core.SuccessMessage(w, http.StatusOK, "logged out")
}

func (h *Handler) isLoggedIn(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r.Context())
	if !ok {
		core.Success(w, http.StatusOK, map[string]any{"loggedIn": false})
		return
	}
	core.Success(w, http.StatusOK, map[string]any{
		"loggedIn": true,
		"user":     user,
	})
}

func (h *Handler) updatePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r.Context())
	if !ok {
		h.render.Render(r.Context(), w, core.ErrUnauthorized)
		return
	}

	var params struct {
		CurrentPassword string `json:"currentPassword"`
		Password        string `json:"password"`
		PasswordConfirm string `json:"passwordConfirm"`
	}
	if err := core.DecodeJSON(r, &params); err != nil {
		h.render.Render(r.Context(), w, err)
		return
	}

	updated, err := h.svc.ChangePassword(r.Context(), user.ID, params.CurrentPassword, params.Password, params.PasswordConfirm)
	if err != nil {
		h.render.Render(r.Context(), w, mapAuthError(err))
		return
	}

	// Re-issue so the fresh token postdates passwordChangedAt.
	h.sendToken(w, r, http.StatusOK, updated)
}

func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var params struct {
		Email string `json:"email"`
	}
	if err := core.DecodeJSON(r, &params); err != nil {
		h.render.Render(r.Context(), w, err)
		return
	}

	if err := h.svc.ForgotPassword(r.Context(), params.Email); err != nil {
		h.render.Render(r.Context(), w, mapAuthError(err))
		return
	}

	core.SuccessMessage(w, http.StatusOK, "reset token sent to email")
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var params struct {
		Password        string `json:"password"`
		PasswordConfirm string `json:"passwordConfirm"`
	}
	if err := core.DecodeJSON(r, &params); err != nil {
		h.render.Render(r.Context(), w, err)
		return
	}

	secret := chi.URLParam(r, "resetToken")
	user, err := h.svc.CompletePasswordReset(r.Context(), secret, params.Password, params.PasswordConfirm)
	if err != nil {
		h.render.Render(r.Context(), w, mapAuthError(err))
		return
	}

	// A successful reset logs the user in immediately.
	h.sendToken(w, r, http.StatusOK, user)
}

// mapAuthError translates service sentinels into HTTP errors. Validation
// errors pass through for the renderer to expand into field details.
func mapAuthError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrEmailAlreadyExists):
		return core.NewHTTPError(http.StatusConflict, "email already registered")
	case errors.Is(err, ErrInvalidCredentials):
		return core.NewHTTPError(http.StatusUnauthorized, "incorrect email or password")
	case errors.Is(err, ErrUserNotFound):
		return core.NewHTTPError(http.StatusNotFound, "there is no user with that email address")
	case errors.Is(err, ErrInvalidResetToken):
		return core.NewHTTPError(http.StatusBadRequest, "token is invalid or has expired")
	default:
		return err
	}
}
