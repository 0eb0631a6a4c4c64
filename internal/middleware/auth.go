package middleware

import (
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"

	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/internal/auth"
	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/internal/telemetry/tracing"
	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/pkg"
)

type AuthMiddlewareHandler struct {
	authService  *auth.Service
	allowedPaths map[string]bool
}

func NewAuthMiddlewareHandler(authService *auth.Service) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		authService: authService,
		allowedPaths: map[string]bool{
			// health root:
			"/": true,

			// credential endpoints, callers have no token yet:
			"/user/create":        true,
			"/user/token":         true,
			"/user/token/refresh": true,
			"/user/logout":        true,
		},
	}
}

// AuthCheck validates the bearer access token on every request except the
// public credential endpoints, and puts the caller identity in the context.
func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, PATCH, DELETE, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			if h.allowedPaths[r.URL.Path] {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			accessToken := bearerToken(r)
			if accessToken == "" {
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				pkg.WriteError(w, http.StatusUnauthorized, "missing credentials")
				span.SetStatus(codes.Error, "missing-auth-token")
				return
			}

			claims, err := h.authService.ParseToken(accessToken, auth.TokenTypeAccess)
			if err != nil {
				log.Tracef("[invalid token] [auth middleware] unauthorized => %s: %s", r.URL.Path, err)
				pkg.WriteError(w, http.StatusUnauthorized, "invalid or expired credentials")
				span.SetStatus(codes.Error, "invalid-auth-token")
				return
			}

			ctx = auth.ContextWithIdentity(ctx, auth.Identity{
				UserID:  claims.UserID,
				Email:   claims.Email,
				IsStaff: claims.IsStaff,
			})

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}
