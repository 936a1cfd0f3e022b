package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/catslideshow/api/internal/api/response"
	"github.com/catslideshow/api/internal/api/validation"
	"github.com/catslideshow/api/internal/identity"
	"github.com/catslideshow/api/internal/user"
)

// CookieConfig holds the session-resume cookie settings.
type CookieConfig struct {
	Name   string
	TTL    int // seconds
	AppEnv string
	Domain string
}

// AuthHandler handles the /auth endpoints: registration, login, session
// resume and logout. Credential handling is delegated to the external
// identity provider; the only server-side artifact is the HTTP-only cookie
// carrying the refresh token.
type AuthHandler struct {
	provider identity.Provider
	users    user.Repository
	cookie   CookieConfig
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(provider identity.Provider, users user.Repository, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{
		provider: provider,
		users:    users,
		cookie:   cookie,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type confirmSignupRequest struct {
	Email            string `json:"email"`
	ConfirmationCode string `json:"confirmation_code"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// authResponse is the body returned by login and resume. The access token is
// never stored server-side.
type authResponse struct {
	AccessToken            string `json:"access_token"`
	AccessTokenExpiresInMS int64  `json:"access_token_expires_in_ms"`
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeCredentials(w, r, &req) {
		return
	}

	if err := h.provider.SignUp(r.Context(), req.Email, req.Password); err != nil {
		h.providerErr(w, err, http.StatusBadRequest)
		return
	}

	response.JSON(w, http.StatusOK, messageResponse{Message: "Registration email sent"})
}

// ConfirmSignup handles POST /auth/confirm-signup.
func (h *AuthHandler) ConfirmSignup(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req confirmSignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Request body must be valid JSON")
		return
	}
	if req.Email == "" || req.ConfirmationCode == "" {
		response.Err(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "email and confirmation_code are required")
		return
	}

	if err := h.provider.ConfirmSignUp(r.Context(), req.Email, req.ConfirmationCode); err != nil {
		h.providerErr(w, err, http.StatusBadRequest)
		return
	}

	response.JSON(w, http.StatusOK, messageResponse{Message: "User confirmed successfully. You can now log in."})
}

// Login handles POST /auth/login. On success it upserts the local user row
// keyed by email, sets the session-resume cookie to the refresh token and
// returns the access token in the body.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeCredentials(w, r, &req) {
		return
	}

	tokens, err := h.provider.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.providerErr(w, err, http.StatusUnauthorized)
		return
	}

	claims, err := identity.DecodeIDToken(tokens.IDToken)
	if err != nil || claims.Subject == "" {
		slog.Error("failed to extract subject from ID token", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to resolve token identity")
		return
	}

	u := &user.User{
		Email:      req.Email,
		CognitoSub: claims.Subject,
		Name:       user.NameFromEmail(req.Email),
	}
	if err := h.users.UpsertByEmail(r.Context(), u); err != nil {
		slog.Error("failed to upsert user on login", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create user")
		return
	}

	http.SetCookie(w, h.sessionCookie(tokens.RefreshToken, h.cookie.TTL))
	response.JSON(w, http.StatusOK, authResponse{
		AccessToken:            tokens.AccessToken,
		AccessTokenExpiresInMS: int64(tokens.ExpiresIn) * 1000,
	})
}

// Resume handles POST /auth/resume. It exchanges the cookie's refresh token
// for a new access token, replacing the cookie only when the provider
// rotated the refresh token.
func (h *AuthHandler) Resume(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(h.cookie.Name)
	if err != nil || cookie.Value == "" {
		response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "No session cookie found")
		return
	}

	tokens, err := h.provider.Refresh(r.Context(), cookie.Value)
	if err != nil {
		h.providerErr(w, err, http.StatusUnauthorized)
		return
	}

	if tokens.RefreshToken != "" {
		http.SetCookie(w, h.sessionCookie(tokens.RefreshToken, h.cookie.TTL))
	}
	response.JSON(w, http.StatusOK, authResponse{
		AccessToken:            tokens.AccessToken,
		AccessTokenExpiresInMS: int64(tokens.ExpiresIn) * 1000,
	})
}

// Logout handles POST /auth/logout. It clears the session cookie; tokens are
// not revoked server-side.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessionCookie("", -1))
	response.JSON(w, http.StatusOK, messageResponse{Message: "Logged out successfully"})
}

// sessionCookie builds the session-resume cookie. Outside local development
// it is Secure and scoped to the configured parent domain.
func (h *AuthHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	local := h.cookie.AppEnv == "local"

	c := &http.Cookie{
		Name:     h.cookie.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   !local,
		SameSite: http.SameSiteLaxMode,
	}
	if !local && h.cookie.Domain != "" {
		c.Domain = "." + h.cookie.Domain
	}
	return c
}

// providerErr maps identity provider failures onto the response: provider
// API errors pass their code and message through at the given status;
// transport failures surface as 503.
func (h *AuthHandler) providerErr(w http.ResponseWriter, err error, apiStatus int) {
	var pe *identity.ProviderError
	if errors.As(err, &pe) {
		response.Err(w, apiStatus, pe.Code, pe.Message)
		return
	}
	slog.Error("identity provider call failed", "error", err)
	response.Err(w, http.StatusServiceUnavailable, "UPSTREAM_UNAVAILABLE", "Identity provider unavailable")
}

// decodeCredentials decodes and validates an email/password body, writing the
// error response itself when invalid.
func decodeCredentials(w http.ResponseWriter, r *http.Request, req *credentialsRequest) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		response.Err(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Request body must be valid JSON")
		return false
	}

	if fieldErrors := validation.ValidateCredentials(req.Email, req.Password); len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Input validation failed", fieldErrors)
		return false
	}

	return true
}
