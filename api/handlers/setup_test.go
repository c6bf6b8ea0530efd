package handlers_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/Annany2002/recipe-backend/api"
	"github.com/Annany2002/recipe-backend/api/models"
	"github.com/Annany2002/recipe-backend/config"
	"github.com/Annany2002/recipe-backend/internal/storage"
)

const testSecret = "test_secret_key_for_integration_tests_1234567890"

// fakeTitles stands in for the enrichment service.
type fakeTitles struct {
	title string
	err   error
	calls int
}

func (f *fakeTitles) LookupTitle(ctx context.Context, email string) (string, error) {
	f.calls++
	return f.title, f.err
}

// testDBSetup creates a temporary SQLite DB for testing.
func testDBSetup(t *testing.T) (*sql.DB, *config.Config) {
	t.Helper()

	cfg := &config.Config{
		ServerPort:        "0",
		JWTSecret:         testSecret,
		JWTExpiration:     5 * time.Minute,
		DatabaseDir:       t.TempDir(),
		DatabaseFile:      "test_recipes.db",
		EnrichmentTimeout: time.Second,
	}

	db, err := storage.ConnectDB(context.Background(), cfg)
	require.NoError(t, err, "failed to connect to test database")
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: failed to close test database: %v", err)
		}
	})
	return db, cfg
}

// setupTestServer creates a test server instance with a test DB.
func setupTestServer(t *testing.T, titles *fakeTitles) (*httptest.Server, *sql.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, cfg := testDBSetup(t)
	server := httptest.NewServer(api.SetupRouter(db, cfg, titles))
	t.Cleanup(server.Close)
	return server, db
}

// doJSON sends body as JSON with an optional bearer token and returns the
// status and raw response body.
func doJSON(t *testing.T, method, url, token string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, raw
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), "body: %s", raw)
	return v
}

// signup registers a user and returns the auth response.
func signup(t *testing.T, server *httptest.Server, email string) models.AuthResponse {
	t.Helper()
	status, raw := doJSON(t, http.MethodPost, server.URL+"/users", "", map[string]any{
		"firstName": "Test",
		"lastName":  "Cook",
		"email":     email,
		"password":  "Str0ngSecret!",
		"age":       28,
	})
	require.Equal(t, http.StatusCreated, status, "signup body: %s", raw)
	return decode[models.AuthResponse](t, raw)
}

// countRows runs a COUNT(*) query against the test database.
func countRows(t *testing.T, db *sql.DB, query string, args ...any) int {
	t.Helper()
	var count int
	require.NoError(t, db.QueryRow(query, args...).Scan(&count))
	return count
}
