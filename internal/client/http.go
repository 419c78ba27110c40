package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"mlb_lineups/internal/metrics"

	"github.com/rs/zerolog/log"
)

// httpGetter performs single-attempt GET requests with configured headers.
// Failures are returned to the caller, which decides how to degrade.
type httpGetter struct {
	httpClient *http.Client
	userAgent  string
	accept     string
}

func newHTTPGetter(timeout time.Duration, userAgent, accept string) httpGetter {
	return httpGetter{
		userAgent: userAgent,
		accept:    accept,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// get fetches rawURL with params and returns the body of a 200 response.
// endpoint labels the metrics.
func (g httpGetter) get(ctx context.Context, endpoint, rawURL string, params url.Values) ([]byte, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if g.userAgent != "" {
		req.Header.Set("User-Agent", g.userAgent)
	}
	if g.accept != "" {
		req.Header.Set("Accept", g.accept)
	}

	if len(params) > 0 {
		req.URL.RawQuery = params.Encode()
	}

	log.Debug().
		Str("url", req.URL.String()).
		Str("endpoint", endpoint).
		Msg("Making API request")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		metrics.RecordAPICall(endpoint, "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordAPICall(endpoint, "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	metrics.RecordAPICall(endpoint, fmt.Sprintf("%d", resp.StatusCode), time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	log.Debug().
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Int("size", len(body)).
		Msg("API request successful")

	return body, nil
}

// StatusError is returned for any non-200 response
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Endpoint, e.StatusCode)
}
