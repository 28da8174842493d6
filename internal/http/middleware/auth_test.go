// README: Tests for the Firebase auth, trace and recovery middleware.
package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"wayfare/internal/http/middleware"
	"wayfare/internal/infra"
)

// stubVerifier is a test double for infra.TokenVerifier.
type stubVerifier struct {
	token *infra.FirebaseToken
	err   error
	calls int
}

func (s *stubVerifier) VerifyIDToken(_ context.Context, _ string) (*infra.FirebaseToken, error) {
	s.calls++
	return s.token, s.err
}

func newTestRouter(auth gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(auth)
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"uid":   middleware.CallerUID(c),
			"email": middleware.CallerEmail(c),
		})
	})
	return r
}

func get(r http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth_MissingHeader(t *testing.T) {
	v := &stubVerifier{token: &infra.FirebaseToken{UID: "user1"}}
	w := get(newTestRouter(middleware.Auth(v)), "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if v.calls != 0 {
		t.Errorf("verifier should not be called without a token")
	}
}

func TestAuth_InvalidBearerPrefix(t *testing.T) {
	w := get(newTestRouter(middleware.Auth(&stubVerifier{token: &infra.FirebaseToken{UID: "user1"}})), "Token sometoken")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuth_VerifierError(t *testing.T) {
	w := get(newTestRouter(middleware.Auth(&stubVerifier{err: errors.New("bad token")})), "Bearer invalidtoken")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuth_ValidToken_CallerPopulated(t *testing.T) {
	token := &infra.FirebaseToken{
		UID:    "traveller123",
		Claims: map[string]interface{}{"email": "ana@example.com"},
	}
	w := get(newTestRouter(middleware.Auth(&stubVerifier{token: token})), "Bearer validtoken")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"traveller123", "ana@example.com"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in body, got %s", want, body)
		}
	}
}

func TestOptionalAuth_AnonymousPassesThrough(t *testing.T) {
	r := newTestRouter(middleware.OptionalAuth(&stubVerifier{err: errors.New("expired")}))
	for _, header := range []string{"", "Bearer expired"} {
		w := get(r, header)
		if w.Code != http.StatusOK {
			t.Fatalf("header %q: expected 200, got %d", header, w.Code)
		}
		if !strings.Contains(w.Body.String(), `"uid":""`) {
			t.Errorf("header %q: expected empty uid, got %s", header, w.Body.String())
		}
	}
}

func TestOptionalAuth_ValidToken(t *testing.T) {
	r := newTestRouter(middleware.OptionalAuth(&stubVerifier{token: &infra.FirebaseToken{UID: "u9"}}))
	w := get(r, "Bearer ok")
	if !strings.Contains(w.Body.String(), `"uid":"u9"`) {
		t.Errorf("expected uid u9, got %s", w.Body.String())
	}
}

func TestTraceID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.TraceID())
	r.GET("/test", func(c *gin.Context) { c.String(http.StatusOK, middleware.TraceIDFrom(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	minted := w.Header().Get(middleware.TraceHeader)
	if minted == "" || minted != w.Body.String() {
		t.Fatalf("expected minted trace id echoed, header=%q body=%q", minted, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(middleware.TraceHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(middleware.TraceHeader); got != "abc-123" {
		t.Errorf("expected incoming trace id to be kept, got %q", got)
	}
}

func TestRecoveryAndLogging(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)

	r := gin.New()
	r.Use(middleware.TraceID(), middleware.Logging(log), middleware.Recovery(log))
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if logs.FilterMessage("panic recovered").Len() != 1 {
		t.Errorf("expected one panic log entry")
	}
	entries := logs.FilterMessage("request").All()
	if len(entries) != 1 || entries[0].ContextMap()["status"] != int64(500) {
		t.Errorf("expected a request log with status 500, got %+v", entries)
	}
}
