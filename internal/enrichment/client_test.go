package enrichment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Annany2002/recipe-backend/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(&config.Config{
		EnrichmentAPIKey:  "sk_test",
		EnrichmentBaseURL: server.URL + "/",
		EnrichmentTimeout: 2 * time.Second,
	})
}

func TestLookupTitle(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/combined/find", r.URL.Path)
		assert.Equal(t, "ann@example.com", r.URL.Query().Get("email"))
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"person":{"employment":{"title":"Head Chef"}},"company":null}`))
	})

	title, err := client.LookupTitle(context.Background(), "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Head Chef", title)
}

func TestLookupTitleErrors(t *testing.T) {
	testCases := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"unknown person", http.StatusNotFound, `{"error":{"type":"unknown_record","message":"Unknown email address"}}`, ErrPersonNotFound},
		{"queued", http.StatusAccepted, ``, ErrPersonNotFound},
		{"bad key", http.StatusUnauthorized, `{"error":{"message":"invalid key"}}`, ErrLookupFailed},
		{"server error", http.StatusInternalServerError, `oops`, ErrLookupFailed},
		{"no person block", http.StatusOK, `{"person":null}`, ErrPersonNotFound},
		{"garbage body", http.StatusOK, `{`, ErrLookupFailed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})
			_, err := client.LookupTitle(context.Background(), "who@example.com")
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestLookupTitleAPIErrorMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"message":"Unknown email address"}}`))
	})
	_, err := client.LookupTitle(context.Background(), "x@example.com")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "Unknown email address")
}

func TestLookupTitleDisabled(t *testing.T) {
	client := NewClient(&config.Config{EnrichmentBaseURL: "http://127.0.0.1:1"})
	_, err := client.LookupTitle(context.Background(), "x@example.com")
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestLookupTitleTimeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.LookupTitle(ctx, "slow@example.com")
	assert.ErrorIs(t, err, ErrLookupFailed)
}
