package handlers

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/themizzi/swaglabs/internal/models"
	"github.com/themizzi/swaglabs/internal/services"
	"go.uber.org/zap"
)

// LoginHandler serves the login form and authenticates submissions
type LoginHandler struct {
	template  *template.Template
	auth      services.AuthService
	usernames []string
	logger    *zap.Logger
}

// LoginData represents the data passed to the login template
type LoginData struct {
	Username  string
	Error     string
	Usernames []string
}

// NewLoginHandler creates a new login handler
func NewLoginHandler(templatePath string, auth services.AuthService, users []models.User, logger *zap.Logger) (*LoginHandler, error) {
	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	usernames := make([]string, len(users))
	for i, u := range users {
		usernames[i] = u.Username
	}

	return &LoginHandler{
		template:  tmpl,
		auth:      auth,
		usernames: usernames,
		logger:    logger,
	}, nil
}

// ServeHTTP handles GET / (form) and POST / (login)
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		data := LoginData{Usernames: h.usernames}
		if denied := r.URL.Query().Get("denied"); denied != "" {
			data.Error = fmt.Sprintf("Epic sadface: You can only access '%s' when you are logged in.", denied)
		}
		h.render(w, http.StatusOK, data)
	case http.MethodPost:
		h.login(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *LoginHandler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	username := r.PostForm.Get("user-name")
	password := r.PostForm.Get("password")

	session, err := h.auth.Login(username, password)
	if err != nil {
		h.render(w, loginFailureStatus(err), LoginData{
			Username:  username,
			Error:     loginErrorMessage(err),
			Usernames: h.usernames,
		})
		return
	}

	setSessionCookie(w, session.Token)
	http.Redirect(w, r, "/inventory.html", http.StatusSeeOther)
}

func (h *LoginHandler) render(w http.ResponseWriter, status int, data LoginData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.template.Execute(w, data); err != nil {
		h.logger.Error("Error rendering login template", zap.Error(err))
	}
}

// loginErrorMessage returns the message shown above the login button
func loginErrorMessage(err error) string {
	switch {
	case errors.Is(err, models.ErrEmptyUsername):
		return "Epic sadface: Username is required"
	case errors.Is(err, models.ErrEmptyPassword):
		return "Epic sadface: Password is required"
	case errors.Is(err, services.ErrUserLockedOut):
		return "Epic sadface: Sorry, this user has been locked out."
	case errors.Is(err, services.ErrInvalidCredentials):
		return "Epic sadface: Username and password do not match any user in this service"
	default:
		return "Epic sadface: Something went wrong. Please try again."
	}
}

// loginFailureStatus maps a login error to an HTTP status
func loginFailureStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrEmptyUsername), errors.Is(err, models.ErrEmptyPassword):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUserLockedOut):
		return http.StatusForbidden
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// LogoutHandler ends the current session
type LogoutHandler struct {
	auth   services.AuthService
	logger *zap.Logger
}

// NewLogoutHandler creates a new logout handler
func NewLogoutHandler(auth services.AuthService, logger *zap.Logger) *LogoutHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogoutHandler{auth: auth, logger: logger}
}

// ServeHTTP handles POST /logout
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if err := h.auth.Logout(cookie.Value); err != nil {
			h.logger.Debug("Logout without active session", zap.Error(err))
		}
	}

	clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
