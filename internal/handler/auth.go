package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/personachat/personachat-go/internal/middleware"
	"github.com/personachat/personachat-go/internal/model"
	"github.com/personachat/personachat-go/internal/service"
)

const (
	refreshCookieName   = "refresh_token"
	refreshCookieMaxAge = 7 * 24 * time.Hour
)

// AuthHandler handles HTTP requests for the authentication lifecycle.
type AuthHandler struct {
	service       *service.AuthService
	secureCookies bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, secureCookies bool) *AuthHandler {
	return &AuthHandler{service: svc, secureCookies: secureCookies}
}

// HandleSignup handles POST /signup requests. No token is issued; the
// caller logs in separately.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req model.SignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.Signup(r.Context(), req); err != nil {
		switch {
		case errors.Is(err, service.ErrEmailRequired), errors.Is(err, service.ErrPasswordRequired),
			errors.Is(err, service.ErrUserExists):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusCreated, messageResponse("user registered"))
}

// HandleLogin handles POST /login requests. The body is form encoded with
// username and password fields; username carries the email. On success the
// access token goes in the body and the refresh token in an HttpOnly,
// SameSite=Strict cookie.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid form body"))
		return
	}

	email := r.PostFormValue("username")
	password := r.PostFormValue("password")

	pair, err := h.service.Login(r.Context(), email, password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrIncorrectPassword):
			writeJSON(w, http.StatusUnauthorized, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    pair.RefreshToken,
		Path:     "/",
		MaxAge:   int(refreshCookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})

	writeJSON(w, http.StatusOK, model.TokenResponse{
		AccessToken: pair.AccessToken,
		TokenType:   "bearer",
	})
}

// HandleRefresh handles POST /refresh requests, exchanging the refresh
// cookie for a new access token. The refresh token is not rotated.
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse("no refresh token found"))
		return
	}

	access, err := h.service.Refresh(cookie.Value)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			writeJSON(w, http.StatusUnauthorized, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, model.TokenResponse{
		AccessToken: access,
		TokenType:   "bearer",
	})
}

// HandleLogout handles GET /logout requests. Clearing the cookie is a
// client-side convention only: with no server-side revocation list the
// refresh token itself stays valid until the signing secret rotates.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})

	writeJSON(w, http.StatusOK, messageResponse("logged out"))
}

// HandleProfile handles GET /profile requests, a protected route echoing
// the authenticated principal.
func (h *AuthHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	writeJSON(w, http.StatusOK, messageResponse(fmt.Sprintf("Hello, %s! This is a protected route.", principal)))
}

// HandlePing handles GET /ping requests. It does nothing beyond proving the
// caller holds a valid access token.
func (h *AuthHandler) HandlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse("pong"))
}
