// Package enrichment looks up a person's job title from their email address
// using a Clearbit-style combined enrichment endpoint.
package enrichment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Annany2002/recipe-backend/config"
	"github.com/Annany2002/recipe-backend/internal/logger"
)

var (
	ErrDisabled       = errors.New("enrichment: no API key configured")
	ErrPersonNotFound = errors.New("enrichment: person not found")
	ErrLookupFailed   = errors.New("enrichment: lookup failed")
	customLog         = logger.NewLogger()
)

// TitleLookup resolves an email address to a job title.
type TitleLookup interface {
	LookupTitle(ctx context.Context, email string) (string, error)
}

// APIError is a non-success response from the enrichment service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("enrichment error (HTTP %d)", e.StatusCode)
	}
	return fmt.Sprintf("enrichment error (HTTP %d): %s", e.StatusCode, e.Message)
}

// Is maps status codes onto the package sentinels.
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case http.StatusNotFound, http.StatusAccepted:
		// 202 means the lookup was queued; there is nothing to use yet.
		return target == ErrPersonNotFound
	default:
		return target == ErrLookupFailed
	}
}

// Client calls the enrichment HTTP API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient builds a client from configuration. An empty API key yields a
// client whose lookups return ErrDisabled.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.EnrichmentTimeout},
		baseURL:    strings.TrimSuffix(cfg.EnrichmentBaseURL, "/"),
		apiKey:     cfg.EnrichmentAPIKey,
	}
}

type combinedResponse struct {
	Person *struct {
		Employment struct {
			Title string `json:"title"`
		} `json:"employment"`
	} `json:"person"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// LookupTitle returns the employment title recorded for email.
func (c *Client) LookupTitle(ctx context.Context, email string) (string, error) {
	if c.apiKey == "" {
		return "", ErrDisabled
	}

	endpoint := c.baseURL + "/v2/combined/find?" + url.Values{"email": {email}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", ErrLookupFailed, err)
	}
	customLog.Debugf("Enrichment: lookup returned HTTP %d in %s", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errResp errorResponse
		if json.Unmarshal(body, &errResp) == nil {
			apiErr.Message = errResp.Error.Message
		}
		return "", apiErr
	}

	var result combinedResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", ErrLookupFailed, err)
	}
	if result.Person == nil {
		return "", ErrPersonNotFound
	}
	return result.Person.Employment.Title, nil
}
