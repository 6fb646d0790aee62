package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"storefront/internal/domain"
	"storefront/internal/service/session"
)

type stubSessions struct {
	sessionID string
	err       error
}

func (s *stubSessions) Issue(context.Context) (string, string, error) {
	return "token", s.sessionID, s.err
}

func (s *stubSessions) LookupByToken(_ context.Context, token string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.sessionID, nil
}

func (s *stubSessions) TTLSeconds() int { return 60 }

func sessionTestRouter(t *testing.T, svc sessionService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(sessionMiddleware(svc))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, sessionFrom(c))
	})
	return router
}

func TestSessionMiddleware_DefaultSession(t *testing.T) {
	router := sessionTestRouter(t, &stubSessions{sessionID: "abc"})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "" {
		t.Fatalf("expected default session, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestSessionMiddleware_BearerToken(t *testing.T) {
	router := sessionTestRouter(t, &stubSessions{sessionID: "abc"})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer xyz")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "abc" {
		t.Fatalf("expected session abc, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestSessionMiddleware_Malformed(t *testing.T) {
	router := sessionTestRouter(t, &stubSessions{sessionID: "abc"})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Basic xyz")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestSessionMiddleware_InvalidToken(t *testing.T) {
	router := sessionTestRouter(t, &stubSessions{err: session.ErrInvalidToken})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestSessionMiddleware_Error(t *testing.T) {
	router := sessionTestRouter(t, &stubSessions{err: errors.New("boom")})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer xyz")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
}

func TestBuildRouter_MissingDeps(t *testing.T) {
	if _, err := buildRouter(nil, Deps{}); err == nil {
		t.Fatalf("expected error for missing deps")
	}
}

func TestReadyHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name string
		ping func(context.Context) error
		want int
	}{
		{name: "memory", want: http.StatusOK},
		{name: "up", ping: func(context.Context) error { return nil }, want: http.StatusOK},
		{name: "down", ping: func(context.Context) error { return domain.ErrNotFound }, want: http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/readyz", readyHandler(tc.ping))

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			if rec.Code != tc.want {
				t.Fatalf("expected status %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

func TestCORSConfig(t *testing.T) {
	if cfg := corsConfig([]string{"*"}); !cfg.AllowAllOrigins {
		t.Fatalf("expected allow all for *")
	}
	if cfg := corsConfig(nil); !cfg.AllowAllOrigins {
		t.Fatalf("expected allow all for empty list")
	}
	cfg := corsConfig([]string{"http://shop.test"})
	if cfg.AllowAllOrigins || len(cfg.AllowOrigins) != 1 {
		t.Fatalf("unexpected config %+v", cfg)
	}
}
