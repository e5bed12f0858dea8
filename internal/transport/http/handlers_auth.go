package httptransport

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"bhulekh/internal/domain"
	"bhulekh/internal/platform/middleware"
	"bhulekh/pkg/apperrors"
	"bhulekh/pkg/requestcontext"
)

type AuthService interface {
	Authenticate(ctx context.Context, username, password string) (domain.Session, domain.User, error)
	Invalidate(ctx context.Context, token string) error
}

type AuthHandler struct {
	auth         AuthService
	sessionTTL   time.Duration
	cookieSecure bool
}

func NewAuthHandler(auth AuthService, sessionTTL time.Duration, cookieSecure bool) *AuthHandler {
	return &AuthHandler{auth: auth, sessionTTL: sessionTTL, cookieSecure: cookieSecure}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.New(apperrors.CodeValidation, "invalid request body"))
		return
	}

	session, user, err := h.auth.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "login successful",
		"user":    userResponse(user),
	})
}

func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookie); err == nil && cookie.Value != "" {
		if err := h.auth.Invalidate(r.Context(), cookie.Value); err != nil {
			writeError(w, err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "logout successful"})
}

func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestcontext.Actor(r.Context())
	if !ok {
		writeError(w, apperrors.New(apperrors.CodeUnauthenticated, "authentication required"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": userResponse(actor)})
}

func userResponse(user domain.User) map[string]any {
	return map[string]any{
		"id":         user.ID,
		"username":   user.Username,
		"email":      user.Email,
		"fullName":   user.FullName,
		"role":       string(user.Role),
		"stateId":    user.StateID,
		"districtId": user.DistrictID,
	}
}
