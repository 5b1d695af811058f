package middlewares

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/talx-hub/loyalty-ledger/internal/model"
	"github.com/talx-hub/loyalty-ledger/internal/utils/auth"
)

const (
	cookieName   = "jwt-token"
	bearerPrefix = "Bearer "
)

var errNoToken = errors.New("no token in cookie or Authorization header")

// tokenFrom reads the JWT from the cookie first, then from the bearer header.
func tokenFrom(r *http.Request) (string, error) {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value, nil
	}
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, bearerPrefix); ok && token != "" {
		return token, nil
	}
	return "", errNoToken
}

func Authentication(secret []byte, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		authFunc := func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := tokenFrom(r)
			if err != nil {
				log.LogAttrs(r.Context(),
					slog.LevelInfo,
					"failed to find token in request",
					slog.Any(model.KeyLoggerError, err),
				)
				http.Error(w, "authentication failed", http.StatusUnauthorized)
				return
			}

			claims, err := auth.CheckToken(tokenStr, secret)
			if err != nil {
				log.LogAttrs(r.Context(),
					slog.LevelInfo,
					"authentication failed",
					slog.Any(model.KeyLoggerError, err),
				)
				http.Error(w, "authentication failed", http.StatusUnauthorized)
				return
			}

			initial := r.Context()
			idCtx := context.WithValue(
				initial, model.KeyContextUserID, claims.UserID)

			rWithID := r.WithContext(idCtx)
			next.ServeHTTP(w, rWithID)
		}
		return http.HandlerFunc(authFunc)
	}
}
