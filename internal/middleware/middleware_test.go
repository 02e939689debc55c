package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Dan9191/debtwatch-service/internal/apperror"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

type verifierStub struct {
	subject string
	err     error
}

func (v verifierStub) Verify(ctx context.Context, header string) (string, error) {
	if v.err != nil {
		return "", v.err
	}
	return v.subject, nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newProtectedRouter(verifier TokenVerifier) *mux.Router {
	r := mux.NewRouter()
	users := r.PathPrefix("/users/{uid}").Subrouter()
	users.Use(AuthMiddleware(verifier, quietLogger()), RequireOwner)
	users.HandleFunc("/profile", func(w http.ResponseWriter, r *http.Request) {
		subject, _ := SubjectFromContext(r.Context())
		w.Write([]byte(subject))
	}).Methods(http.MethodGet)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		verifier   verifierStub
		path       string
		wantStatus int
		wantKind   string
		wantDetail string
	}{
		{"owner", verifierStub{subject: "u1"}, "/users/u1/profile", http.StatusOK, "", ""},
		{"other user", verifierStub{subject: "u2"}, "/users/u1/profile", http.StatusForbidden, "forbidden", "You can only access your own data"},
		{"no header", verifierStub{err: apperror.New(apperror.KindUnauthenticated, "Not authenticated: No Authorization header")},
			"/users/u1/profile", http.StatusUnauthorized, "unauthenticated", "Not authenticated: No Authorization header"},
		{"revoked", verifierStub{err: apperror.New(apperror.KindTokenRevoked, "Token revoked, please re-authenticate.")},
			"/users/u1/profile", http.StatusUnauthorized, "token_revoked", "Token revoked, please re-authenticate."},
		{"store down", verifierStub{err: apperror.Wrap(apperror.KindVerificationUnavailable, "revocation lookup failed", io.ErrUnexpectedEOF)},
			"/users/u1/profile", http.StatusInternalServerError, "verification_unavailable", "Could not process token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newProtectedRouter(tt.verifier)
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK {
				if rr.Body.String() != tt.verifier.subject {
					t.Errorf("body = %q, want subject", rr.Body.String())
				}
				return
			}
			var body map[string]string
			if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["error"] != tt.wantKind || body["detail"] != tt.wantDetail {
				t.Errorf("body = %v, want kind %q detail %q", body, tt.wantKind, tt.wantDetail)
			}
			if tt.wantStatus == http.StatusUnauthorized && rr.Header().Get("WWW-Authenticate") != "Bearer" {
				t.Error("missing WWW-Authenticate header")
			}
		})
	}
}

func TestRequestLogger(t *testing.T) {
	handler := RequestLogger(quietLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusTeapot {
		t.Errorf("status = %d", rr.Code)
	}
	if rr.Header().Get(RequestIDHeader) == "" {
		t.Error("request id not set")
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if got := rr.Header().Get(RequestIDHeader); got != "abc" {
		t.Errorf("request id = %q, want the caller's id", got)
	}
}

func TestRecoverer(t *testing.T) {
	handler := Recoverer(quietLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rr.Code)
	}
}

func TestRecovererInsideRequestLogger(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	handler := RequestLogger(logger)(Recoverer(logger)(panicking))

	req := httptest.NewRequest(http.MethodGet, "/users/u1", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	entries := hook.AllEntries()
	if len(entries) != 2 {
		t.Fatalf("log entries = %d, want panic and access lines", len(entries))
	}
	if entries[0].Message != "Handler panicked" || entries[0].Data["request_id"] != "req-42" {
		t.Errorf("panic entry = %q %v", entries[0].Message, entries[0].Data)
	}
	access := entries[1]
	if access.Message != "Request failed" || access.Data["status"] != http.StatusInternalServerError || access.Data["request_id"] != "req-42" {
		t.Errorf("access entry = %q %v", access.Message, access.Data)
	}
}
