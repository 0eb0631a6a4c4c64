package middleware

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/internal/auth"
	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/pkg"
)

// RequirePolicy gates a subrouter with a role policy. The auth middleware
// runs earlier in the chain, so a missing identity means a wiring bug and is
// treated as unauthorized rather than a server error.
func RequirePolicy(allows auth.Policy) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			identity, ok := auth.IdentityFromContext(r.Context())
			if !ok {
				pkg.WriteError(w, http.StatusUnauthorized, "missing credentials")
				return
			}

			if !allows(identity, r.Method) {
				log.Tracef("[policy] user %d denied %s %s", identity.UserID, r.Method, r.URL.Path)
				pkg.WriteError(w, http.StatusForbidden, "forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
