package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"taskboard/internal/auth"
	apperrors "taskboard/internal/errors"
	"taskboard/internal/logger"
	"taskboard/internal/models"
	"taskboard/internal/ratelimit"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	os.Exit(m.Run())
}

func parseBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse response body: %v", err)
	}
	return result
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := parseBody(t, rec)
	errObj, ok := body["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in body, got %v", body)
	}
	code, _ := errObj["code"].(string)
	return code
}

func TestAuthMiddleware(t *testing.T) {
	tokens := auth.NewTokenManager("middleware-test-secret", time.Minute, time.Hour)
	user := &models.User{Base: models.Base{ID: 7}, Username: "alice"}

	access, err := tokens.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("failed to generate access token: %v", err)
	}
	refresh, err := tokens.GenerateRefreshToken(user)
	if err != nil {
		t.Fatalf("failed to generate refresh token: %v", err)
	}
	foreign, err := auth.NewTokenManager("some-other-secret", time.Minute, time.Hour).GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("failed to generate foreign token: %v", err)
	}

	r := gin.New()
	r.Use(AuthMiddleware(tokens))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.GetUint(UserIDKey), "username": c.GetString(UsernameKey)})
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCode   string
	}{
		{"valid", "Bearer " + access, http.StatusOK, ""},
		{"lowercase_scheme", "bearer " + access, http.StatusOK, ""},
		{"missing_header", "", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"no_scheme", access, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"wrong_scheme", "Basic " + access, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"garbage_token", "Bearer not.a.token", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"refresh_as_access", "Bearer " + refresh, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"wrong_secret", "Bearer " + foreign, http.StatusUnauthorized, "INVALID_TOKEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", http.NoBody)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantCode != "" {
				if code := errorCode(t, rec); code != tt.wantCode {
					t.Errorf("expected code %s, got %s", tt.wantCode, code)
				}
				return
			}
			body := parseBody(t, rec)
			if body["id"] != float64(7) || body["username"] != "alice" {
				t.Errorf("unexpected identity in context: %v", body)
			}
		})
	}
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"app_error", apperrors.ErrTaskNotFound, http.StatusNotFound, "TASK_NOT_FOUND"},
		{"wrapped_app_error", apperrors.Wrap(apperrors.ErrInternalServer, errors.New("db down")), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"plain_error", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(ErrorHandler())
			r.GET("/fail", func(c *gin.Context) {
				_ = c.Error(tt.err)
			})

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", http.NoBody))

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if code := errorCode(t, rec); code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, code)
			}
			if rec.Body.String() == "" || strings.Contains(rec.Body.String(), "db down") || strings.Contains(rec.Body.String(), "boom") {
				t.Errorf("internal details must not leak: %s", rec.Body.String())
			}
		})
	}
}

func TestRequestLogging_LogsCaller(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	restore := logger.Replace(zap.New(core))
	defer restore()

	r := gin.New()
	r.Use(RequestLogging())
	r.GET("/me", func(c *gin.Context) {
		c.Set(UserIDKey, uint(7))
		c.Set(UsernameKey, "ana")
		c.Status(http.StatusOK)
	})
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/me", http.NoBody))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

	entries := logs.FilterMessage("request").All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 request entries, got %d", len(entries))
	}
	authed := entries[0].ContextMap()
	if authed["username"] != "ana" {
		t.Errorf("expected username ana, got %v", authed["username"])
	}
	if _, ok := authed["user_id"]; !ok {
		t.Error("expected user_id field")
	}
	if _, ok := entries[1].ContextMap()["username"]; ok {
		t.Error("anonymous request must not log a username")
	}
}

func TestRequestLogging_SetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogging())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(RequestIDKey))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", http.NoBody))

	id := rec.Header().Get("X-Request-ID")
	if id == "" {
		t.Fatal("expected X-Request-ID header")
	}
	if rec.Body.String() != id {
		t.Errorf("context request id %q should match header %q", rec.Body.String(), id)
	}

	const incoming = "0191e2a4-7c1e-7cc1-9a55-4f4c1f2b3d4e"
	req := httptest.NewRequest(http.MethodGet, "/ping", http.NoBody)
	req.Header.Set("X-Request-ID", incoming)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != incoming {
		t.Errorf("expected incoming request id to be kept, got %q", got)
	}
}

func TestCORS(t *testing.T) {
	newRouter := func(origins []string) *gin.Engine {
		r := gin.New()
		r.Use(CORS(origins))
		r.GET("/tasks", func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}

	t.Run("wildcard", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tasks", http.NoBody)
		req.Header.Set("Origin", "https://app.example.com")
		rec := httptest.NewRecorder()
		newRouter([]string{"*"}).ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("expected *, got %q", got)
		}
	})

	t.Run("listed_origin_preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/tasks", http.NoBody)
		req.Header.Set("Origin", "https://app.example.com")
		rec := httptest.NewRecorder()
		newRouter([]string{"https://app.example.com"}).ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Errorf("expected 204 for preflight, got %d", rec.Code)
		}
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
			t.Errorf("expected echoed origin, got %q", got)
		}
	})

	t.Run("no_origin", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newRouter([]string{"https://app.example.com"}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks", http.NoBody))

		if rec.Code != http.StatusOK {
			t.Errorf("expected 200 without Origin, got %d", rec.Code)
		}
	})

	t.Run("unlisted_origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tasks", http.NoBody)
		req.Header.Set("Origin", "https://evil.example.com")
		rec := httptest.NewRecorder()
		newRouter([]string{"https://app.example.com"}).ServeHTTP(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Errorf("expected 403 for unlisted origin, got %d", rec.Code)
		}
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("expected no CORS header, got %q", got)
		}
	})
}

type stubLimiter struct {
	allowed int
	calls   int
	resets  int
	err     error
}

func (s *stubLimiter) Reset(context.Context, string) error {
	s.resets++
	s.calls = 0
	return nil
}

func (s *stubLimiter) Allow(context.Context, string) (*ratelimit.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.calls++
	if s.calls > s.allowed {
		return &ratelimit.Result{Allowed: false, RetryAfter: 30 * time.Second}, nil
	}
	return &ratelimit.Result{Allowed: true, Remaining: s.allowed - s.calls}, nil
}

func TestLoginRateLimit(t *testing.T) {
	t.Run("denies_after_limit", func(t *testing.T) {
		r := gin.New()
		r.POST("/login", LoginRateLimit(&stubLimiter{allowed: 2}), func(c *gin.Context) {
			c.Status(http.StatusUnauthorized)
		})

		for i := 0; i < 2; i++ {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", http.NoBody))
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("attempt %d: expected 401, got %d", i+1, rec.Code)
			}
		}

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", http.NoBody))
		if rec.Code != http.StatusTooManyRequests {
			t.Fatalf("expected 429, got %d", rec.Code)
		}
		if code := errorCode(t, rec); code != "TOO_MANY_REQUESTS" {
			t.Errorf("expected TOO_MANY_REQUESTS, got %s", code)
		}
		if rec.Header().Get("Retry-After") != "30" {
			t.Errorf("expected Retry-After 30, got %q", rec.Header().Get("Retry-After"))
		}
	})

	t.Run("success_resets_counter", func(t *testing.T) {
		limiter := &stubLimiter{allowed: 2}
		status := http.StatusUnauthorized
		r := gin.New()
		r.POST("/login", LoginRateLimit(limiter), func(c *gin.Context) {
			c.Status(status)
		})
		attempt := func() int {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", http.NoBody))
			return rec.Code
		}

		if code := attempt(); code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", code)
		}
		status = http.StatusOK
		if code := attempt(); code != http.StatusOK {
			t.Fatalf("expected 200, got %d", code)
		}
		if limiter.resets != 1 {
			t.Fatalf("expected one reset after success, got %d", limiter.resets)
		}

		status = http.StatusUnauthorized
		for i := 0; i < 2; i++ {
			if code := attempt(); code != http.StatusUnauthorized {
				t.Fatalf("attempt %d after reset: expected 401, got %d", i+1, code)
			}
		}
		if code := attempt(); code != http.StatusTooManyRequests {
			t.Errorf("expected 429 once the fresh budget is spent, got %d", code)
		}
		if limiter.resets != 1 {
			t.Errorf("failed attempts must not reset, got %d resets", limiter.resets)
		}
	})

	t.Run("limiter_failure_lets_request_through", func(t *testing.T) {
		r := gin.New()
		r.POST("/login", LoginRateLimit(&stubLimiter{err: errors.New("redis down")}), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", http.NoBody))
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("noop_limiter", func(t *testing.T) {
		r := gin.New()
		r.POST("/login", LoginRateLimit(ratelimit.Noop{}), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		for i := 0; i < 20; i++ {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", http.NoBody))
			if rec.Code != http.StatusOK {
				t.Fatalf("attempt %d: expected 200, got %d", i+1, rec.Code)
			}
		}
	})
}
