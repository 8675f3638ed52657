package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/feedback-collector/internal"
	"github.com/frahmantamala/feedback-collector/internal/transport"
)

const (
	loginPath     = "/login"
	dashboardPath = "/dashboard"
)

type ServiceAPI interface {
	Login(ctx context.Context, username, password string) (*Session, error)
	RequireSession(ctx context.Context, sessionID string) (*Session, error)
	Logout(ctx context.Context, sessionID string) error
}

type Handler struct {
	*transport.BaseHandler
	Service      ServiceAPI
	Tokens       *TokenCodec
	CookieSecure bool
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, tokens *TokenCodec, cookieSecure bool) *Handler {
	return &Handler{
		BaseHandler:  baseHandler,
		Service:      service,
		Tokens:       tokens,
		CookieSecure: cookieSecure,
	}
}

// LoginPage shows the login form, or skips it when a session is already open.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if _, err := h.currentSession(r); err == nil {
		h.Redirect(w, r, dashboardPath)
		return
	}
	h.Render(w, http.StatusOK, "login", transport.PageData{Flash: transport.PopFlash(w, r)})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Logger.Warn("Login: invalid form body", "error", err)
		h.renderLoginError(w, "")
		return
	}
	username := r.PostForm.Get("username")

	session, err := h.Service.Login(r.Context(), username, r.PostForm.Get("password"))
	if err != nil {
		if !errors.Is(err, ErrInvalidCredentials) {
			h.Logger.Error("Login: failed to open session", "error", err)
		}
		h.renderLoginError(w, username)
		return
	}

	token, err := h.Tokens.Issue(session)
	if err != nil {
		h.Logger.Error("Login: failed to sign session token", "error", err)
		_ = h.Service.Logout(r.Context(), session.ID)
		h.renderLoginError(w, username)
		return
	}

	h.setSessionCookie(w, token, session.ExpiresAt)
	h.Redirect(w, r, dashboardPath)
}

// Logout closes the session and clears the cookie. Missing sessions are ignored.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if id, err := h.sessionID(r); err == nil {
		if err := h.Service.Logout(r.Context(), id); err != nil {
			h.Logger.Error("Logout: failed to remove session", "error", err)
		}
	}
	h.clearSessionCookie(w)
	h.Redirect(w, r, loginPath)
}

// RequireSession lets the request through only with a valid session. Pages redirect
// to the login form; API routes get a 401 JSON body.
func (h *Handler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := h.currentSession(r)
		if err != nil {
			h.Logger.Debug("session required", "path", r.URL.Path, "reason", err)
			if strings.HasPrefix(r.URL.Path, "/api/") {
				h.HandleServiceError(w, internal.ErrSessionRequired)
				return
			}
			h.Redirect(w, r, loginPath)
			return
		}

		ctx := internal.ContextWithUsername(r.Context(), session.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) currentSession(r *http.Request) (*Session, error) {
	id, err := h.sessionID(r)
	if err != nil {
		return nil, err
	}
	return h.Service.RequireSession(r.Context(), id)
}

func (h *Handler) sessionID(r *http.Request) (string, error) {
	c, err := r.Cookie(SessionCookie)
	if err != nil || c.Value == "" {
		return "", ErrSessionNotFound
	}
	return h.Tokens.Parse(c.Value)
}

func (h *Handler) renderLoginError(w http.ResponseWriter, username string) {
	h.Render(w, http.StatusOK, "login", transport.PageData{
		Flash:    &transport.Flash{Kind: transport.FlashError, Text: ErrInvalidCredentials.Message},
		Username: username,
	})
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
