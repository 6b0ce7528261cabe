package games

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/gargrave/gameon-server/pkg/gameon/association"
	"github.com/gargrave/gameon-server/pkg/gameon/auth"
	"github.com/gargrave/gameon-server/pkg/gameon/catalog"
	"github.com/gargrave/gameon-server/pkg/gameon/database"
	"github.com/gargrave/gameon-server/pkg/gameon/models"
	"github.com/gargrave/gameon-server/pkg/gameon/store"
	"github.com/gargrave/gameon-server/pkg/gameon/validation"
)

type testEnv struct {
	router   *gin.Engine
	verifier *auth.JWTVerifier
}

func setupTestRouter(t *testing.T) *testEnv {
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	st := store.New(db)
	v := validation.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	verifier, _ := auth.NewJWTVerifier("games-test-secret")

	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewHandler(catalog.NewService(st, v, logger), association.NewService(st, v, logger))

	api := r.Group("/api")
	api.Use(auth.AuthMiddleware(verifier, st))
	handler.RegisterRoutes(api)

	return &testEnv{router: r, verifier: verifier}
}

func (e *testEnv) do(t *testing.T, method, path, subject string, body any) *httptest.ResponseRecorder {
	var buf io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		buf = bytes.NewBuffer(jsonBody)
	}
	req, _ := http.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	if subject != "" {
		token, _ := e.verifier.GenerateToken(subject, subject+"@example.com", subject)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)
	return resp
}

func (e *testEnv) createGame(t *testing.T, subject string, body map[string]any) models.Game {
	resp := e.do(t, "POST", "/api/games", subject, body)
	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var game models.Game
	json.Unmarshal(resp.Body.Bytes(), &game)
	return game
}

func TestCreateAndGetGame(t *testing.T) {
	env := setupTestRouter(t)

	game := env.createGame(t, "alice", map[string]any{
		"title": "Celeste",
		"dates": []string{"2024-01-01", "2024-02-01"},
	})
	if game.Title != "Celeste" {
		t.Errorf("Expected title Celeste, got %s", game.Title)
	}

	resp := env.do(t, "GET", "/api/games/"+itoa(game.ID), "alice", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var loaded models.Game
	json.Unmarshal(resp.Body.Bytes(), &loaded)
	if len(loaded.Dates) != 2 || loaded.Dates[0].Date != "2024-02-01" {
		t.Errorf("Expected two dates newest first, got %+v", loaded.Dates)
	}
	if !strings.Contains(resp.Body.String(), `"created"`) || !strings.Contains(resp.Body.String(), `"modified"`) {
		t.Errorf("Expected created/modified timestamps in %s", resp.Body.String())
	}
}

func TestCreateGameValidation(t *testing.T) {
	env := setupTestRouter(t)

	resp := env.do(t, "POST", "/api/games", "alice", map[string]any{"title": ""})
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"title":"is required"`) {
		t.Errorf("Expected field detail for title, got %s", resp.Body.String())
	}

	resp = env.do(t, "POST", "/api/games", "alice", map[string]any{"title": "Celeste", "platform_id": 42})
	if resp.Code != http.StatusBadRequest || !strings.Contains(resp.Body.String(), "INVALID_REFERENCE") {
		t.Errorf("Expected 400 INVALID_REFERENCE, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestGetOtherUsersGame(t *testing.T) {
	env := setupTestRouter(t)
	game := env.createGame(t, "alice", map[string]any{"title": "Celeste"})

	for _, method := range []string{"GET", "PUT", "DELETE"} {
		resp := env.do(t, method, "/api/games/"+itoa(game.ID), "bob", map[string]any{"finished": true})
		if resp.Code != http.StatusNotFound {
			t.Errorf("%s: expected status 404, got %d", method, resp.Code)
		}
	}
}

func TestListGamesFilters(t *testing.T) {
	env := setupTestRouter(t)
	env.createGame(t, "alice", map[string]any{"title": "Celeste"})
	env.createGame(t, "alice", map[string]any{"title": "Cellar Door", "archived": true})
	env.createGame(t, "alice", map[string]any{"title": "Hades"})
	env.createGame(t, "bob", map[string]any{"title": "Celeste"})

	tests := []struct {
		query string
		want  int
	}{
		{"", 2},
		{"?include_archived=true", 3},
		{"?search=CEL", 2},
		{"?search=hades&include_archived=false", 1},
	}
	for _, tt := range tests {
		resp := env.do(t, "GET", "/api/games"+tt.query, "alice", nil)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected status 200, got %d", tt.query, resp.Code)
		}
		var games []models.Game
		json.Unmarshal(resp.Body.Bytes(), &games)
		if len(games) != tt.want {
			t.Errorf("%s: expected %d games, got %d", tt.query, tt.want, len(games))
		}
	}

	resp := env.do(t, "GET", "/api/games?include_archived=maybe", "alice", nil)
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for bad include_archived, got %d", resp.Code)
	}
}

func TestUpdateAndDeleteGame(t *testing.T) {
	env := setupTestRouter(t)
	game := env.createGame(t, "alice", map[string]any{"title": "Celeste"})
	path := "/api/games/" + itoa(game.ID)

	resp := env.do(t, "PUT", path, "alice", map[string]any{"finished": true})
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var updated models.Game
	json.Unmarshal(resp.Body.Bytes(), &updated)
	if !updated.Finished || updated.Title != "Celeste" {
		t.Errorf("Expected finished Celeste, got %+v", updated)
	}

	resp = env.do(t, "DELETE", path, "alice", nil)
	if resp.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", resp.Code)
	}
	resp = env.do(t, "GET", path, "alice", nil)
	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 after delete, got %d", resp.Code)
	}
}

func TestInvalidGameID(t *testing.T) {
	env := setupTestRouter(t)
	resp := env.do(t, "GET", "/api/games/abc", "alice", nil)
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.Code)
	}
}

func TestGamesRequireAuth(t *testing.T) {
	env := setupTestRouter(t)
	resp := env.do(t, "GET", "/api/games", "", nil)
	if resp.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", resp.Code)
	}
}
