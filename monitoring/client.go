// Copyright 2026 The Plantwatch Authors
// SPDX-License-Identifier: Apache-2.0

package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// maxResponseSize caps how much of a response body the gateway will
// read. Sensor time series are the largest payloads; 16 MiB is far
// beyond anything the service produces.
const maxResponseSize = 16 << 20

// TokenProvider supplies the current bearer credential for outbound
// requests. An empty token means "unauthenticated" and no
// Authorization header is attached. The session manager is the
// production implementation; consumers never read the credential
// directly.
type TokenProvider interface {
	Token() string
}

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// BaseURL is the base address of the monitoring service
	// (e.g., "http://localhost:8000/api"). Required.
	BaseURL string

	// HTTPClient is used for all requests. If nil, http.DefaultClient
	// is used.
	HTTPClient *http.Client

	// Logger is used for structured logging. If nil, slog.Default()
	// is used.
	Logger *slog.Logger

	// Credentials supplies the bearer token attached to each request.
	// If nil, all requests go out unauthenticated.
	Credentials TokenProvider

	// SessionExpired is invoked synchronously whenever the service
	// rejects the currently held credential, before the error is
	// returned to the caller. It is not invoked for uncredentialed
	// requests, or when the credential changed while the rejected
	// request was in flight. The session manager registers its
	// invalidation hook here. May be nil.
	SessionExpired func()
}

// Client is the single gateway to the monitoring service. Every
// outbound call passes through doRequest, which attaches the base
// address, content negotiation, and the bearer credential, and which
// converts authorization failures into session invalidation.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	logger         *slog.Logger
	credentials    TokenProvider
	sessionExpired func()
}

// NewClient creates a gateway for the service at config.BaseURL.
func NewClient(config ClientConfig) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("monitoring: BaseURL is required")
	}
	// Validate the URL structure up front. Request URLs are built by
	// string concatenation on the trimmed base, which avoids
	// re-encoding surprises from url.URL.String().
	if _, err := url.Parse(config.BaseURL); err != nil {
		return nil, fmt.Errorf("monitoring: invalid BaseURL %q: %w", config.BaseURL, err)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:        strings.TrimRight(config.BaseURL, "/"),
		httpClient:     httpClient,
		logger:         logger,
		credentials:    config.Credentials,
		sessionExpired: config.SessionExpired,
	}, nil
}

// CloseIdleConnections drops idle connections in the underlying
// transport's pool. Call after a network disruption so subsequent
// requests open fresh sockets instead of reusing a poisoned one.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

// doRequest performs one HTTP round-trip and returns the response
// body. On 2xx, returns the body. On a 401 for a credentialed
// request, invokes the SessionExpired hook and returns an error
// wrapping ErrSessionExpired. On any other non-2xx status, including
// a 401 for an uncredentialed request, returns a *APIError. query
// may be nil.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, requestBody any) ([]byte, error) {
	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("monitoring: encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("monitoring: creating request: %w", err)
	}
	request.Header.Set("Accept", "application/json")
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	var attachedToken string
	if c.credentials != nil {
		if token := c.credentials.Token(); token != "" {
			request.Header.Set("Authorization", "Bearer "+token)
			attachedToken = token
		}
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("monitoring: request to %s %s failed: %w", method, path, err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(io.LimitReader(response.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("monitoring: reading response body: %w", err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return responseBody, nil
	}

	if response.StatusCode == http.StatusUnauthorized && attachedToken != "" {
		// The credential was rejected. Demote the session before the
		// caller observes the failure, so no later request goes out
		// with the dead token — unless a re-login already replaced
		// the credential while this request was in flight: a stale
		// token's rejection says nothing about the fresh session.
		// A 401 on a request that carried no credential (a failed
		// login) falls through to the ordinary error path below.
		// The gateway is the only component that reacts to 401s.
		if c.sessionExpired != nil && c.credentials.Token() == attachedToken {
			c.sessionExpired()
		}
		return nil, fmt.Errorf("monitoring: %s %s: %w", method, path, ErrSessionExpired)
	}

	// The service reports errors as {"detail": "..."}.
	var apiErr APIError
	if jsonErr := json.Unmarshal(responseBody, &apiErr); jsonErr != nil || apiErr.Detail == "" {
		return nil, &APIError{
			StatusCode: response.StatusCode,
			Detail:     strings.TrimSpace(string(responseBody)),
		}
	}
	apiErr.StatusCode = response.StatusCode
	return nil, &apiErr
}
