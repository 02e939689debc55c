package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Dan9191/debtwatch-service/internal/apperror"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type contextKey string

const subjectKey contextKey = "subject"

// TokenVerifier resolves an Authorization header into a verified subject
type TokenVerifier interface {
	Verify(ctx context.Context, header string) (string, error)
}

// WithSubject stores the verified subject in ctx
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectKey, subject)
}

// SubjectFromContext returns the subject set by AuthMiddleware
func SubjectFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(subjectKey).(string)
	return subject, ok && subject != ""
}

// AuthMiddleware rejects requests without a valid bearer token
func AuthMiddleware(verifier TokenVerifier, log *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, err := verifier.Verify(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				log.WithFields(logrus.Fields{
					"path": r.URL.Path,
					"kind": apperror.KindOf(err),
				}).WithError(err).Warn("Authentication failed")
				writeError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSubject(r.Context(), subject)))
		})
	}
}

// RequireOwner allows only the subject named by the {uid} path variable
func RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, ok := SubjectFromContext(r.Context())
		if !ok {
			writeError(w, apperror.ErrUnauthenticated)
			return
		}
		if uid, found := mux.Vars(r)["uid"]; found && uid != subject {
			writeError(w, apperror.Forbidden("You can only access your own data"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeError(w http.ResponseWriter, err error) {
	kind := apperror.KindOf(err)
	detail := apperror.Message(err)
	if kind == apperror.KindUnauthenticated || kind == apperror.KindTokenInvalid || kind == apperror.KindTokenRevoked {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	if kind == apperror.KindVerificationUnavailable {
		detail = "Could not process token"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apperror.HTTPStatus(kind))
	json.NewEncoder(w).Encode(map[string]string{"error": string(kind), "detail": detail})
}
