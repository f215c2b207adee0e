package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/parleyhq/parley/internal/accounts"
	"github.com/parleyhq/parley/internal/platform/httpx"
	"github.com/parleyhq/parley/internal/session"
	"github.com/parleyhq/parley/internal/shared"
	"github.com/parleyhq/parley/internal/token"
)

// Middleware is the authentication gate applied to protected routes. Each
// request walks cookie extraction, token verification and account resolution
// in order; the first failure rejects the request with its own status so the
// caller can tell a missing token, a bad token and a vanished account apart.
type Middleware struct {
	Logger  *slog.Logger
	Tokens  *token.Manager
	Cookies *session.Transport
	Repo    accounts.Repository
}

// Require wraps next with the authentication gate.
func (m Middleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := m.Cookies.Read(r)
		if !ok {
			httpx.RespondError(w, shared.ErrNotAuthenticated)
			return
		}

		userID, err := m.Tokens.Verify(raw)
		if err != nil {
			httpx.RespondError(w, shared.ErrInvalidToken)
			return
		}

		user, err := m.Repo.FindByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, shared.ErrUserNotFound) {
				// Token is cryptographically fine but the account is gone.
				httpx.RespondError(w, shared.ErrUserNotFound)
				return
			}
			if m.Logger != nil {
				m.Logger.Error("resolve session user", slog.Any("error", err))
			}
			httpx.RespondError(w, err)
			return
		}

		ctx := shared.ContextWithIdentity(r.Context(), shared.Identity{
			ID:        user.ID,
			FullName:  user.FullName,
			Email:     user.Email,
			Phone:     user.Phone,
			AvatarURL: user.AvatarURL,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
