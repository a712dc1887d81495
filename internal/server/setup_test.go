package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"taskboard/internal/auth"
	"taskboard/internal/logger"
	"taskboard/internal/ratelimit"
	"taskboard/internal/testutil"
	"taskboard/internal/validator"
)

// testApp holds the full application stack over an isolated in-memory SQLite.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
	Tokens *auth.TokenManager
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

func setupApp(t *testing.T) *testApp {
	t.Helper()
	return setupAppWithLimiter(t, ratelimit.Noop{})
}

func setupAppWithLimiter(t *testing.T, limiter ratelimit.Limiter) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	tokens := auth.NewTokenManager("integration-secret", 15*time.Minute, time.Hour)
	router := NewRouter(Deps{
		DB:          db,
		Tokens:      tokens,
		Limiter:     limiter,
		CORSOrigins: []string{"*"},
	})
	return &testApp{DB: db, Router: router, Tokens: tokens}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// requestWithAuthHeader sends a bodiless request with a raw Authorization header.
func (app *testApp) requestWithAuthHeader(method, path, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result), "body: %s", rec.Body.String())
	return result
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	errObj, ok := parseJSON(t, rec)["error"].(map[string]interface{})
	require.True(t, ok, "expected error object, got %s", rec.Body.String())
	return errObj["code"].(string)
}

// registerUser registers a user and returns its id.
func (app *testApp) registerUser(t *testing.T, username, email, password string) uint {
	t.Helper()
	body := fmt.Sprintf(`{"username":%q,"email":%q,"password":%q}`, username, email, password)
	rec := app.request("POST", "/register", body, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return uint(parseJSON(t, rec)["user_id"].(float64))
}

// loginUser logs in and returns the access and refresh tokens.
func (app *testApp) loginUser(t *testing.T, email, password string) (token, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/login", body, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	result := parseJSON(t, rec)
	return result["token"].(string), result["refresh_token"].(string)
}

// signUp registers and logs in, returning an access token.
func (app *testApp) signUp(t *testing.T, username string) string {
	t.Helper()
	email := username + "@example.com"
	app.registerUser(t, username, email, "password123")
	token, _ := app.loginUser(t, email, "password123")
	return token
}

func (app *testApp) createProject(t *testing.T, token, name string) uint {
	t.Helper()
	rec := app.request("POST", "/projects", fmt.Sprintf(`{"name":%q}`, name), token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	project := parseJSON(t, rec)["project"].(map[string]interface{})
	return uint(project["id"].(float64))
}

// countingLimiter allows the first limit calls per key.
type countingLimiter struct {
	mu    sync.Mutex
	limit int
	hits  map[string]int
}

func newCountingLimiter(limit int) *countingLimiter {
	return &countingLimiter{limit: limit, hits: make(map[string]int)}
}

func (l *countingLimiter) Allow(_ context.Context, key string) (*ratelimit.Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hits[key]++
	if l.hits[key] > l.limit {
		return &ratelimit.Result{Allowed: false, RetryAfter: 30 * time.Second}, nil
	}
	return &ratelimit.Result{Allowed: true, Remaining: l.limit - l.hits[key]}, nil
}

func (l *countingLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.hits, key)
	return nil
}
