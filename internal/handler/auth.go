package handler

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/steadyapp/steady/internal/config"
	"github.com/steadyapp/steady/internal/ctxkeys"
	"github.com/steadyapp/steady/internal/model"
	"github.com/steadyapp/steady/internal/service"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

var errNoVerifiedEmail = errors.New("no verified email on github account")

type AuthHandler struct {
	authService       *service.AuthService
	cfg               *config.Config
	googleOAuthConfig *oauth2.Config
	githubOAuthConfig *oauth2.Config
}

func NewAuthHandler(authService *service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
		googleOAuthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.AppURL + "/auth/google/callback",
			Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email"},
			Endpoint:     google.Endpoint,
		},
		githubOAuthConfig: &oauth2.Config{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
			RedirectURL:  cfg.AppURL + "/auth/github/callback",
			Scopes:       []string{"user:email"},
			Endpoint:     github.Endpoint,
		},
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.authService.Register(req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	h.issueSession(w, user)
	respondJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	jwtToken, err := h.authService.GenerateJWT(user)
	if err != nil {
		respondError(w, err)
		return
	}

	h.authService.SetJWTCookie(w, jwtToken, time.Now().Add(7*24*time.Hour))
	respondJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	if user != nil {
		h.authService.SignOut(user.ID)
	}

	h.authService.ClearJWTCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	respondJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.authService.SendPasswordResetLink(req.Email)
	if err != nil {
		// Don't reveal whether the address exists
		slog.Warn("password reset link send failed", "error", err, "email", req.Email)
	}

	// Always accepted to prevent email enumeration
	w.WriteHeader(http.StatusAccepted)
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.authService.ResetPassword(req.Token, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	h.issueSession(w, user)
	respondJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) issueSession(w http.ResponseWriter, user *model.User) {
	jwtToken, err := h.authService.GenerateJWT(user)
	if err != nil {
		slog.Error("failed to generate JWT", "error", err, "user_id", user.ID)
		return
	}
	h.authService.SetJWTCookie(w, jwtToken, time.Now().Add(7*24*time.Hour))
}

// GoogleAuth redirects user to Google OAuth consent screen
func (h *AuthHandler) GoogleAuth(w http.ResponseWriter, r *http.Request) {
	state := h.setOAuthState(w)
	url := h.googleOAuthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// GoogleCallback handles the OAuth callback from Google
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if !h.checkOAuthState(w, r) {
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		slog.Warn("google oauth callback missing code")
		h.redirectLoginError(w, r)
		return
	}

	token, err := h.googleOAuthConfig.Exchange(context.Background(), code)
	if err != nil {
		slog.Error("google oauth token exchange failed", "error", err)
		h.redirectLoginError(w, r)
		return
	}

	client := h.googleOAuthConfig.Client(context.Background(), token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		slog.Error("failed to get google user info", "error", err)
		h.redirectLoginError(w, r)
		return
	}
	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			slog.Error("failed to close response body", "error", closeErr)
		}
	}()

	var userInfo struct {
		Email string `json:"email"`
	}
	err = json.NewDecoder(resp.Body).Decode(&userInfo)
	if err != nil {
		slog.Error("failed to decode google user info", "error", err)
		h.redirectLoginError(w, r)
		return
	}

	h.completeOAuth(w, r, userInfo.Email, "google")
}

// GitHubAuth redirects user to GitHub OAuth consent screen
func (h *AuthHandler) GitHubAuth(w http.ResponseWriter, r *http.Request) {
	state := h.setOAuthState(w)
	url := h.githubOAuthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// GitHubCallback handles the OAuth callback from GitHub
func (h *AuthHandler) GitHubCallback(w http.ResponseWriter, r *http.Request) {
	if !h.checkOAuthState(w, r) {
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		slog.Warn("github oauth callback missing code")
		h.redirectLoginError(w, r)
		return
	}

	token, err := h.githubOAuthConfig.Exchange(context.Background(), code)
	if err != nil {
		slog.Error("github oauth token exchange failed", "error", err)
		h.redirectLoginError(w, r)
		return
	}

	client := h.githubOAuthConfig.Client(context.Background(), token)
	email, err := githubPrimaryEmail(client)
	if err != nil {
		slog.Error("failed to get github user email", "error", err)
		h.redirectLoginError(w, r)
		return
	}

	h.completeOAuth(w, r, email, "github")
}

func (h *AuthHandler) completeOAuth(w http.ResponseWriter, r *http.Request, email, provider string) {
	user, err := h.authService.AuthenticateOAuth(email, provider)
	if err != nil {
		slog.Error("oauth authentication failed", "error", err, "provider", provider)
		h.redirectLoginError(w, r)
		return
	}

	jwtToken, err := h.authService.GenerateJWT(user)
	if err != nil {
		slog.Error("failed to generate JWT", "error", err, "user_id", user.ID)
		h.redirectLoginError(w, r)
		return
	}

	h.authService.SetJWTCookie(w, jwtToken, time.Now().Add(7*24*time.Hour))
	http.Redirect(w, r, h.cfg.AppURL+"/dashboard", http.StatusSeeOther)
}

func (h *AuthHandler) setOAuthState(w http.ResponseWriter) string {
	state := generateOAuthState()

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600, // 10 minutes
	})

	return state
}

func (h *AuthHandler) checkOAuthState(w http.ResponseWriter, r *http.Request) bool {
	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie("oauth_state")
	if err != nil || cookie.Value != state || state == "" {
		slog.Warn("oauth state validation failed", "error", err)
		h.redirectLoginError(w, r)
		return false
	}

	http.SetCookie(w, &http.Cookie{
		Name:   "oauth_state",
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	return true
}

func (h *AuthHandler) redirectLoginError(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.cfg.AppURL+"/login?error=oauth", http.StatusSeeOther)
}

func generateOAuthState() string {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		// crypto/rand read failure means the process has bigger problems
		panic(err)
	}
	return base64.URLEncoding.EncodeToString(b)
}

func githubPrimaryEmail(client *http.Client) (string, error) {
	resp, err := client.Get("https://api.github.com/user/emails")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	err = json.NewDecoder(resp.Body).Decode(&emails)
	if err != nil {
		return "", err
	}

	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	for _, e := range emails {
		if e.Verified {
			return e.Email, nil
		}
	}

	return "", errNoVerifiedEmail
}
