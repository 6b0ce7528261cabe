package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/gargrave/gameon-server/pkg/gameon/auth"
	"github.com/gargrave/gameon-server/pkg/gameon/config"
	"github.com/gargrave/gameon-server/pkg/gameon/database"
	"github.com/gargrave/gameon-server/pkg/gameon/models"
	"github.com/gargrave/gameon-server/pkg/gameon/ratelimit"
	"github.com/gargrave/gameon-server/pkg/gameon/store"
)

type testServer struct {
	router   *gin.Engine
	verifier *auth.JWTVerifier
	store    *store.Store
}

// setupTestServer builds the full router over an in-memory database,
// mirroring the wiring in cmd/gameon-server.
func setupTestServer(t *testing.T) *testServer {
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	chain, err := NewVerifier(t.Context(), &config.Config{JWTSecret: "server-test-secret"})
	if err != nil {
		t.Fatalf("NewVerifier failed: %v", err)
	}
	verifier := chain[0].(*auth.JWTVerifier)

	gin.SetMode(gin.TestMode)
	st := store.New(db)
	router := NewRouter(Deps{
		Store:       st,
		Verifier:    chain,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		CORSOrigins: config.DefaultCORSOrigins,
	})
	return &testServer{router: router, verifier: verifier, store: st}
}

func (s *testServer) do(t *testing.T, method, path, subject string, body any) *httptest.ResponseRecorder {
	var buf io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		buf = bytes.NewBuffer(jsonBody)
	}
	req, _ := http.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	if subject != "" {
		token, _ := s.verifier.GenerateToken(subject, subject+"@example.com", subject)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	s.router.ServeHTTP(resp, req)
	return resp
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(resp.Body.Bytes(), &v); err != nil {
		t.Fatalf("Failed to decode %s: %v", resp.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, resp *httptest.ResponseRecorder, want int) {
	t.Helper()
	if resp.Code != want {
		t.Fatalf("Expected status %d, got %d: %s", want, resp.Code, resp.Body.String())
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := setupTestServer(t)

	for _, path := range []string{"/health", "/api/health"} {
		resp := s.do(t, "GET", path, "", nil)
		expectStatus(t, resp, http.StatusOK)
		if resp.Header().Get("X-Request-ID") == "" {
			t.Errorf("Expected a request ID header on %s", path)
		}
	}
}

func TestSwaggerDocCoversAPIRoutes(t *testing.T) {
	s := setupTestServer(t)

	resp := s.do(t, http.MethodGet, "/swagger/doc.json", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected 200 for doc.json, got %d", resp.Code)
	}
	var doc struct {
		BasePath string                               `json:"basePath"`
		Paths    map[string]map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &doc); err != nil {
		t.Fatalf("doc.json is not valid JSON: %v", err)
	}
	if doc.BasePath != "/api" {
		t.Errorf("Expected basePath /api, got %q", doc.BasePath)
	}

	params := regexp.MustCompile(`:(\w+)`)
	for _, route := range s.router.Routes() {
		if !strings.HasPrefix(route.Path, "/api/") || route.Path == "/api/health" {
			continue
		}
		path := params.ReplaceAllString(strings.TrimPrefix(route.Path, "/api"), "{$1}")
		if _, ok := doc.Paths[path][strings.ToLower(route.Method)]; !ok {
			t.Errorf("%s %s is not documented", route.Method, path)
		}
	}
}

func TestAPIRequiresAuth(t *testing.T) {
	s := setupTestServer(t)

	for _, path := range []string{"/api/games", "/api/platforms", "/api/tags", "/api/export", "/api/auth/me"} {
		resp := s.do(t, "GET", path, "", nil)
		if resp.Code != http.StatusUnauthorized {
			t.Errorf("GET %s: expected status 401, got %d", path, resp.Code)
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	s := setupTestServer(t)

	req, _ := http.NewRequest("OPTIONS", "/api/games", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp := httptest.NewRecorder()
	s.router.ServeHTTP(resp, req)

	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Expected allowed origin header, got %q", got)
	}

	req, _ = http.NewRequest("OPTIONS", "/api/games", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp = httptest.NewRecorder()
	s.router.ServeHTTP(resp, req)

	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Expected no allow-origin header for unknown origin, got %q", got)
	}
}

func TestCatalogWorkflow(t *testing.T) {
	s := setupTestServer(t)

	resp := s.do(t, "POST", "/api/platforms", "alice", map[string]any{"title": "Switch"})
	expectStatus(t, resp, http.StatusCreated)
	platform := decode[models.Platform](t, resp)

	resp = s.do(t, "POST", "/api/games", "alice", map[string]any{
		"title":       "Celeste",
		"platform_id": platform.ID,
		"dates":       []string{"2024-01-01"},
	})
	expectStatus(t, resp, http.StatusCreated)
	game := decode[models.Game](t, resp)
	gamePath := fmt.Sprintf("/api/games/%d", game.ID)

	resp = s.do(t, "POST", "/api/tags/games", "alice", map[string]any{"tag_title": "Platformer", "game_id": game.ID})
	expectStatus(t, resp, http.StatusCreated)
	rel := decode[models.TagGameRelation](t, resp)
	if rel.Tag.Title != "Platformer" {
		t.Errorf("Expected relation to carry tag Platformer, got %+v", rel.Tag)
	}

	// Linking again by title is idempotent
	resp = s.do(t, "POST", "/api/tags/games", "alice", map[string]any{"tag_title": "Platformer", "game_id": game.ID})
	expectStatus(t, resp, http.StatusOK)

	resp = s.do(t, "GET", "/api/tags", "alice", nil)
	expectStatus(t, resp, http.StatusOK)
	tagList := decode[[]map[string]any](t, resp)
	if len(tagList) != 1 || tagList[0]["game_count"] != float64(1) {
		t.Errorf("Expected one tag used by one game, got %v", tagList)
	}

	resp = s.do(t, "POST", gamePath+"/dates", "alice", map[string]any{"date": "2024-03-15"})
	expectStatus(t, resp, http.StatusCreated)

	resp = s.do(t, "GET", gamePath, "alice", nil)
	expectStatus(t, resp, http.StatusOK)
	loaded := decode[models.Game](t, resp)
	if loaded.Platform == nil || loaded.Platform.Title != "Switch" {
		t.Errorf("Expected platform Switch, got %+v", loaded.Platform)
	}
	if len(loaded.Tags) != 1 || len(loaded.Dates) != 2 || loaded.Dates[0].Date != "2024-03-15" {
		t.Errorf("Expected one tag and two dates newest first, got %+v / %+v", loaded.Tags, loaded.Dates)
	}

	// Another user sees nothing
	resp = s.do(t, "GET", gamePath, "bob", nil)
	expectStatus(t, resp, http.StatusNotFound)

	resp = s.do(t, "DELETE", fmt.Sprintf("/api/tags/%d", rel.TagID), "alice", nil)
	expectStatus(t, resp, http.StatusNoContent)

	resp = s.do(t, "GET", gamePath, "alice", nil)
	expectStatus(t, resp, http.StatusOK)
	if loaded = decode[models.Game](t, resp); len(loaded.Tags) != 0 {
		t.Errorf("Expected tag relations removed with the tag, got %+v", loaded.Tags)
	}

	resp = s.do(t, "DELETE", gamePath, "alice", nil)
	expectStatus(t, resp, http.StatusNoContent)
	resp = s.do(t, "GET", gamePath+"/dates", "alice", nil)
	expectStatus(t, resp, http.StatusNotFound)
}

func TestMeProvisionsUser(t *testing.T) {
	s := setupTestServer(t)

	resp := s.do(t, "GET", "/api/auth/me", "carol", nil)
	expectStatus(t, resp, http.StatusOK)
	me := decode[map[string]any](t, resp)
	if me["subject"] != "carol" || me["email"] != "carol@example.com" {
		t.Errorf("Expected carol's profile, got %v", me)
	}
}

func TestRateLimitedAPI(t *testing.T) {
	s := setupTestServer(t)
	limiter := ratelimit.New(1, 1)
	t.Cleanup(limiter.Stop)
	router := NewRouter(Deps{Store: s.store, Verifier: auth.Chain{s.verifier}, RateLimiter: limiter})

	codes := make([]int, 2)
	for i := range codes {
		req, _ := http.NewRequest("GET", "/api/health", nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		codes[i] = resp.Code
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("Expected 200 then 429, got %v", codes)
	}

	// The root health check is never throttled
	req, _ := http.NewRequest("GET", "/health", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	expectStatus(t, resp, http.StatusOK)
}

func TestNewVerifierRequiresSomething(t *testing.T) {
	if _, err := NewVerifier(t.Context(), &config.Config{}); err == nil {
		t.Error("Expected error with no verifier configured")
	}
}
