package middleware

import (
	"net/http"
	"strings"

	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/api/responses"
	pkgauth "github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/auth"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/config"
	pkgerrors "github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/errors"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/logger"
)

const guestTokenHeader = "X-Guest-Cart-Token"

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}

// Auth requires a valid bearer token and seeds the context with the
// shopper's id.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			userID, err := pkgauth.ParseAccessToken(token, cfg)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := WithUserID(r.Context(), userID.String())
			if logg != nil {
				ctx = logg.WithUserID(ctx, userID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Identity resolves the caller without demanding one. A valid bearer token
// yields a user id; otherwise any guest cart token header is carried along.
// The cart badge is served to both audiences through this.
func Identity(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if token := bearerToken(r); token != "" {
				if userID, err := pkgauth.ParseAccessToken(token, cfg); err == nil {
					ctx = WithUserID(ctx, userID.String())
					if logg != nil {
						ctx = logg.WithUserID(ctx, userID.String())
					}
				}
			}

			if guest := strings.TrimSpace(r.Header.Get(guestTokenHeader)); guest != "" {
				ctx = WithGuestToken(ctx, guest)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
