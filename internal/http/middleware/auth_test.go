// README: Tests for the Firebase auth, request ID and recovery middleware.
package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"vtc/internal/auth"
	"vtc/internal/http/middleware"
	"vtc/internal/infra"
)

// stubVerifier is a test double for infra.TokenVerifier.
type stubVerifier struct {
	uid  string
	err  error
	seen string
}

func (s *stubVerifier) VerifyIDToken(_ context.Context, raw string) (auth.Session, error) {
	s.seen = raw
	if s.err != nil {
		return auth.Session{}, s.err
	}
	return auth.Session{UID: s.uid, Token: raw}, nil
}

var _ infra.TokenVerifier = (*stubVerifier)(nil)

func newTestRouter(verifier infra.TokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logging(nil), middleware.Recovery())
	r.GET("/test", middleware.Auth(verifier), func(c *gin.Context) {
		s, err := middleware.Session(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"uid": s.UID, "token": s.Token})
	})
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func TestAuth_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		verifier *stubVerifier
	}{
		{"missing header", "", &stubVerifier{uid: "user1"}},
		{"wrong scheme", "Token sometoken", &stubVerifier{uid: "user1"}},
		{"empty bearer", "Bearer  ", &stubVerifier{uid: "user1"}},
		{"verifier error", "Bearer invalid", &stubVerifier{err: errors.New("bad token")}},
		{"empty uid", "Bearer valid", &stubVerifier{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(tt.verifier)
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", w.Code)
			}
			if !strings.Contains(w.Body.String(), `"error"`) {
				t.Errorf("body = %s", w.Body.String())
			}
		})
	}
}

func TestAuth_ValidTokenStoresSession(t *testing.T) {
	v := &stubVerifier{uid: "passenger456"}
	r := newTestRouter(v)
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer validtoken")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "passenger456") || !strings.Contains(body, "validtoken") {
		t.Errorf("body = %s", body)
	}
	if v.seen != "validtoken" {
		t.Errorf("verifier saw %q", v.seen)
	}
}

func TestRequestID(t *testing.T) {
	r := newTestRouter(&stubVerifier{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	if got := w.Header().Get(middleware.RequestIDHeader); len(got) != 36 {
		t.Errorf("generated request id = %q", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(middleware.RequestIDHeader); got != "abc-123" {
		t.Errorf("propagated request id = %q", got)
	}
}

func TestRecovery(t *testing.T) {
	r := newTestRouter(&stubVerifier{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "internal error") {
		t.Errorf("body = %s", w.Body.String())
	}
}
