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

// WeatherSample holds the provider fields the pipeline consumes.
type WeatherSample struct {
	Temperature float64
	WindSpeed   float64
	Humidity    float64
}

// WeatherClient looks up current conditions for a coordinate.
type WeatherClient interface {
	CurrentWeather(ctx context.Context, lat, lon float64) (WeatherSample, error)
}

// OpenMeteoClient queries an Open-Meteo-compatible forecast endpoint for
// current weather plus the first hourly humidity sample.
type OpenMeteoClient struct {
	apiURL  string
	timeout time.Duration
	client  *http.Client
}

// NewOpenMeteoClient creates a client for the given endpoint.
func NewOpenMeteoClient(apiURL string, timeout time.Duration) *OpenMeteoClient {
	return &OpenMeteoClient{
		apiURL:  apiURL,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
	}
}

type openMeteoResponse struct {
	CurrentWeather struct {
		Temperature *float64 `json:"temperature"`
		WindSpeed   *float64 `json:"windspeed"`
	} `json:"current_weather"`
	Hourly struct {
		RelativeHumidity []float64 `json:"relative_humidity_2m"`
	} `json:"hourly"`
}

// CurrentWeather returns temperature, wind speed and humidity rounded to one
// decimal. Missing fields in an otherwise successful response fall back to
// 20 / 5 / 60 rather than failing. Single attempt, no retries.
func (c *OpenMeteoClient) CurrentWeather(ctx context.Context, lat, lon float64) (WeatherSample, error) {
	start := time.Now()

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.buildRequest(reqCtx, lat, lon)
	if err != nil {
		observability.ProviderCallsTotal.WithLabelValues("openmeteo", "error").Inc()
		return WeatherSample{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		duration := time.Since(start).Seconds()
		observability.ProviderCallsTotal.WithLabelValues("openmeteo", "error").Inc()
		observability.ProviderCallDuration.WithLabelValues("openmeteo", "error").Observe(duration)
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return WeatherSample{}, fmt.Errorf("request timeout: %w", err)
		}
		return WeatherSample{}, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	duration := time.Since(start).Seconds()
	status := statusLabel(resp.StatusCode)
	observability.ProviderCallsTotal.WithLabelValues("openmeteo", status).Inc()
	observability.ProviderCallDuration.WithLabelValues("openmeteo", status).Observe(duration)

	if resp.StatusCode != http.StatusOK {
		return WeatherSample{}, fmt.Errorf("%w: HTTP %d", ErrUpstreamFailure, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return WeatherSample{}, fmt.Errorf("read response body: %w", err)
	}

	var apiResp openMeteoResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return WeatherSample{}, fmt.Errorf("parse response: %w", err)
	}

	return c.mapResponse(apiResp), nil
}

func (c *OpenMeteoClient) buildRequest(ctx context.Context, lat, lon float64) (*http.Request, error) {
	baseURL, err := url.Parse(c.apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL: %w", err)
	}

	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("current_weather", "true")
	params.Set("hourly", "relative_humidity_2m")
	baseURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", baseURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *OpenMeteoClient) mapResponse(apiResp openMeteoResponse) WeatherSample {
	sample := WeatherSample{Temperature: 20, WindSpeed: 5, Humidity: 60}
	if apiResp.CurrentWeather.Temperature != nil {
		sample.Temperature = *apiResp.CurrentWeather.Temperature
	}
	if apiResp.CurrentWeather.WindSpeed != nil {
		sample.WindSpeed = *apiResp.CurrentWeather.WindSpeed
	}
	if len(apiResp.Hourly.RelativeHumidity) > 0 {
		sample.Humidity = apiResp.Hourly.RelativeHumidity[0]
	}
	sample.Temperature = round1(sample.Temperature)
	sample.WindSpeed = round1(sample.WindSpeed)
	sample.Humidity = round1(sample.Humidity)
	return sample
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
