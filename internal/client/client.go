// Package client implements the upstream provider clients: an OpenAQ-style
// station-measurement lookup and an Open-Meteo-style current-weather lookup.
// Each call is a single attempt bounded by a fixed timeout; degradation policy
// lives in the gateway layer, not here.
package client

import "errors"

var (
	// ErrUpstreamFailure marks a non-success HTTP status from a provider.
	ErrUpstreamFailure = errors.New("upstream failure")
	// ErrNoMeasurement marks a well-formed provider response that carries no
	// usable measurement for the requested coordinate.
	ErrNoMeasurement = errors.New("no measurement available")
)

// statusLabel maps an HTTP status code to a stable metric label.
func statusLabel(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "success"
	case statusCode == 429:
		return "rate_limited"
	case statusCode >= 400 && statusCode < 500:
		return "client_error"
	case statusCode >= 500:
		return "server_error"
	default:
		return "error"
	}
}
