package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmilosevic/boardflow/internal/log"
	"github.com/dmilosevic/boardflow/pkg/service"
	"github.com/google/uuid"
)

type contextKey string

const userIDContextKey contextKey = "userID"

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "boardflow_session"

type AuthMiddleware struct {
	auth *service.AuthService
}

func NewAuthMiddleware(auth *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// Require rejects the request with 401 unless a valid session token is
// present, either in the session cookie or as a bearer token. The resolved
// user id is attached to the request context as the principal.
func (m *AuthMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := ""
		if cookie, err := r.Cookie(SessionCookieName); err == nil {
			tokenStr = cookie.Value
		} else if authHeader := r.Header.Get("Authorization"); authHeader != "" {
			tokenStr = strings.TrimPrefix(authHeader, "Bearer ")
		}
		if tokenStr == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "Unauthorized"})
			return
		}

		userID, err := m.auth.VerifyToken(tokenStr)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "Unauthorized"})
			return
		}

		ctx := context.WithValue(r.Context(), userIDContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// principalID returns the authenticated user id attached by Require.
func principalID(r *http.Request) string {
	userID, _ := r.Context().Value(userIDContextKey).(string)
	return userID
}

// RequestLogger logs each request with a generated request id.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		log.GetLogger().Debugf("Request %s: %s %s", requestID, r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
