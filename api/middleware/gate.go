package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/strahovfest/vstupenky-backend/api/responses"
	pkgerrors "github.com/strahovfest/vstupenky-backend/pkg/errors"
	"github.com/strahovfest/vstupenky-backend/pkg/logger"
)

// GateAuth guards the redemption endpoints with the shared gate secret.
// There are no user accounts; the gate devices all carry the same token.
func GateAuth(token string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := bearerToken(r)
			if presented == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeUnauthorized, "missing or invalid gate token"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
