package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"family-tasks-go/internal/auth"
	"family-tasks-go/internal/config"
	userdomain "family-tasks-go/internal/domain/user"
	"family-tasks-go/pkg/logger"
)

type contextKey int

const userKey contextKey = iota

// PrincipalResolver turns a bearer credential, or a bare user id when
// authentication is skipped, into the stored user.
type PrincipalResolver interface {
	Resolve(ctx context.Context, credential string) (*userdomain.User, error)
	ResolveID(ctx context.Context, userID string) (*userdomain.User, error)
}

type BearerAuth struct {
	resolver   PrincipalResolver
	skipAuth   bool
	mockUserID string
	log        logger.Logger
}

func NewBearerAuth(cfg config.AuthConfig, resolver PrincipalResolver, log logger.Logger) *BearerAuth {
	return &BearerAuth{
		resolver:   resolver,
		skipAuth:   cfg.SkipAuth,
		mockUserID: strings.TrimSpace(cfg.MockUserID),
		log:        log,
	}
}

func (a *BearerAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var (
			user *userdomain.User
			err  error
		)

		if a.skipAuth {
			if a.mockUserID == "" {
				writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth mock user id not configured")
				return
			}
			user, err = a.resolver.ResolveID(r.Context(), a.mockUserID)
		} else {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				unauthorized(w)
				return
			}
			user, err = a.resolver.Resolve(r.Context(), token)
		}

		log := logger.FromContext(r.Context(), a.log)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredential) || errors.Is(err, auth.ErrUnknownPrincipal) {
				log.BusinessError("auth: rejected credential", err, "path", r.URL.Path)
				unauthorized(w)
				return
			}
			log.InternalError("auth: resolve principal failed", err, "path", r.URL.Path)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
			return
		}

		ctx := WithUser(r.Context(), user)
		ctx = logger.IntoContext(ctx, log.With("user_id", user.ID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeError(w, http.StatusUnauthorized, "invalid_token", "could not validate credentials")
}

func WithUser(ctx context.Context, user *userdomain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func UserFromContext(ctx context.Context) (*userdomain.User, bool) {
	user, ok := ctx.Value(userKey).(*userdomain.User)
	if !ok || user == nil || user.ID == "" {
		return nil, false
	}
	return user, true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
