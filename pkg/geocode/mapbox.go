package geocode

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const defaultMapboxBaseURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"

// mapboxResponse is the JSON response from the Mapbox Places API. Only the
// feature center is consumed.
type mapboxResponse struct {
	Features []struct {
		Center []float64 `json:"center"` // [lon, lat]
	} `json:"features"`
}

// MapboxClient implements Client against the Mapbox forward-geocoding API.
type MapboxClient struct {
	httpClient *http.Client
	baseURL    string
	token      string
	limit      int
	country    string
	limiter    *rate.Limiter
}

// MapboxOption configures a MapboxClient.
type MapboxOption func(*MapboxClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) MapboxOption {
	return func(c *MapboxClient) { c.httpClient = hc }
}

// WithBaseURL overrides the API endpoint (used by tests).
func WithBaseURL(u string) MapboxOption {
	return func(c *MapboxClient) { c.baseURL = u }
}

// WithResultLimit sets the result-count limit sent to the API.
func WithResultLimit(n int) MapboxOption {
	return func(c *MapboxClient) {
		if n > 0 {
			c.limit = n
		}
	}
}

// WithRateDelay sets the fixed delay inserted between consecutive calls,
// keeping the client under the provider's rate limit.
func WithRateDelay(d time.Duration) MapboxOption {
	return func(c *MapboxClient) {
		if d > 0 {
			c.limiter = rate.NewLimiter(rate.Every(d), 1)
		}
	}
}

// WithCountry restricts results to a country code ("US" by default).
func WithCountry(cc string) MapboxOption {
	return func(c *MapboxClient) { c.country = cc }
}

// NewMapbox creates a Mapbox geocoding client. The token is required; its
// validity is only discovered on first use.
func NewMapbox(token string, opts ...MapboxOption) *MapboxClient {
	c := &MapboxClient{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		baseURL:    defaultMapboxBaseURL,
		token:      token,
		limit:      1,
		country:    "US",
		limiter:    rate.NewLimiter(rate.Every(250*time.Millisecond), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Geocode issues one forward-geocoding query. A missing result is not an
// error: the Result comes back with Matched=false. A rejected credential is
// reported as ErrUnauthorized.
func (c *MapboxClient) Geocode(ctx context.Context, query string) (*Result, error) {
	if query == "" {
		return &Result{Matched: false}, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "geocode: mapbox rate limit")
	}

	params := url.Values{
		"access_token": {c.token},
		"limit":        {strconv.Itoa(c.limit)},
	}
	if c.country != "" {
		params.Set("country", c.country)
	}

	reqURL := c.baseURL + "/" + url.PathEscape(query) + ".json?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: mapbox build request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: mapbox request")
	}
	defer resp.Body.Close() //nolint:errcheck

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	default:
		return nil, eris.Errorf("geocode: mapbox returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: mapbox read body")
	}

	var mbResp mapboxResponse
	if err := json.Unmarshal(body, &mbResp); err != nil {
		return nil, eris.Wrap(err, "geocode: mapbox parse response")
	}

	if len(mbResp.Features) == 0 || len(mbResp.Features[0].Center) < 2 {
		zap.L().Debug("mapbox: no result", zap.String("query", query))
		return &Result{Matched: false}, nil
	}

	center := mbResp.Features[0].Center
	return &Result{
		Longitude: center[0],
		Latitude:  center[1],
		Matched:   true,
	}, nil
}
