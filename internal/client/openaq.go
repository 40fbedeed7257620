package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/avaldezm/tempo-dashboard-service/internal/observability"
)

// AirQualityClient looks up the nearest measured PM2.5 value for a coordinate.
type AirQualityClient interface {
	LatestPM25(ctx context.Context, lat, lon float64) (float64, error)
}

// OpenAQClient queries an OpenAQ-compatible latest-measurements endpoint.
type OpenAQClient struct {
	apiURL  string
	radiusM int
	timeout time.Duration
	client  *http.Client
}

// NewOpenAQClient creates a client for the given endpoint. radiusM is the
// station search radius in meters.
func NewOpenAQClient(apiURL string, radiusM int, timeout time.Duration) *OpenAQClient {
	if radiusM <= 0 {
		radiusM = 50000
	}
	return &OpenAQClient{
		apiURL:  apiURL,
		radiusM: radiusM,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
	}
}

type openAQResponse struct {
	Results []struct {
		Measurements []struct {
			Parameter string  `json:"parameter"`
			Value     float64 `json:"value"`
		} `json:"measurements"`
	} `json:"results"`
}

// LatestPM25 returns the pm25 measurement from the nearest station, rounded to
// two decimals. Returns ErrNoMeasurement when the provider responds without a
// usable pm25 value, or a transport/status error otherwise. Single attempt, no
// retries.
func (c *OpenAQClient) LatestPM25(ctx context.Context, lat, lon float64) (float64, error) {
	start := time.Now()

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.buildRequest(reqCtx, lat, lon)
	if err != nil {
		observability.ProviderCallsTotal.WithLabelValues("openaq", "error").Inc()
		return 0, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		duration := time.Since(start).Seconds()
		observability.ProviderCallsTotal.WithLabelValues("openaq", "error").Inc()
		observability.ProviderCallDuration.WithLabelValues("openaq", "error").Observe(duration)
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return 0, fmt.Errorf("request timeout: %w", err)
		}
		return 0, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	duration := time.Since(start).Seconds()
	status := statusLabel(resp.StatusCode)
	observability.ProviderCallsTotal.WithLabelValues("openaq", status).Inc()
	observability.ProviderCallDuration.WithLabelValues("openaq", status).Observe(duration)

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: HTTP %d", ErrUpstreamFailure, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read response body: %w", err)
	}

	var apiResp openAQResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return 0, fmt.Errorf("parse response: %w", err)
	}

	if len(apiResp.Results) == 0 {
		return 0, fmt.Errorf("%w: empty result list", ErrNoMeasurement)
	}
	for _, m := range apiResp.Results[0].Measurements {
		if m.Parameter == "pm25" && m.Value != 0 {
			return math.Round(m.Value*100) / 100, nil
		}
	}
	return 0, fmt.Errorf("%w: no pm25 in measurements", ErrNoMeasurement)
}

func (c *OpenAQClient) buildRequest(ctx context.Context, lat, lon float64) (*http.Request, error) {
	baseURL, err := url.Parse(c.apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL: %w", err)
	}

	params := url.Values{}
	params.Set("coordinates", fmt.Sprintf("%v,%v", lat, lon))
	params.Set("radius", strconv.Itoa(c.radiusM))
	params.Set("limit", "1")
	baseURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", baseURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}
