// Copyright 2026 The Plantwatch Authors
// SPDX-License-Identifier: Apache-2.0

package monitoring

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrSessionExpired marks a 401 response to a request that carried a
// bearer credential. The gateway has already invoked the
// session-invalidation hook by the time a caller sees this error;
// callers should treat it as "session expired" and must not
// special-case it further. A 401 to an uncredentialed request (a
// failed login) is an ordinary *APIError.
var ErrSessionExpired = errors.New("session expired")

// APIError is a structured non-2xx response from the monitoring
// service. Extract it with errors.As:
//
//	var apiErr *monitoring.APIError
//	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound { ... }
type APIError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int
	// Detail is the service's human-readable error description.
	Detail string `json:"detail"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("monitoring: %d: %s", e.StatusCode, e.Detail)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsSessionExpired reports whether err stems from an authorization
// failure detected by the gateway.
func IsSessionExpired(err error) bool {
	return errors.Is(err, ErrSessionExpired)
}
