// Copyright 2026 The Plantwatch Authors
// SPDX-License-Identifier: Apache-2.0

package monitoring

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Login exchanges an identifier and secret for a bearer token and the
// user's profile. The request goes out unauthenticated (the token
// provider has nothing to offer yet); the session manager owns storing
// the result.
func (c *Client) Login(ctx context.Context, identifier, secret string) (*LoginResult, error) {
	if identifier == "" {
		return nil, fmt.Errorf("monitoring: identifier is required for login")
	}
	if secret == "" {
		return nil, fmt.Errorf("monitoring: secret is required for login")
	}

	// Wire names are the service's: it authenticates by email address.
	loginRequest := map[string]string{
		"email":    identifier,
		"password": secret,
	}
	body, err := c.doRequest(ctx, http.MethodPost, "/auth/login", nil, loginRequest)
	if err != nil {
		return nil, fmt.Errorf("monitoring: login failed: %w", err)
	}

	var result LoginResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("monitoring: parsing login response: %w", err)
	}

	c.logger.Info("logged in to monitoring service",
		"user_id", result.User.UserID,
		"role", result.User.Role,
	)
	return &result, nil
}

// Logout tells the service the session is over. The service keeps no
// session state for bearer tokens, so this exists for audit logging;
// the session manager treats its failure as non-fatal.
func (c *Client) Logout(ctx context.Context) error {
	if _, err := c.doRequest(ctx, http.MethodPost, "/auth/logout", nil, nil); err != nil {
		return fmt.Errorf("monitoring: logout failed: %w", err)
	}
	return nil
}

// Me fetches the profile of the user behind the current credential.
// Used to validate a stored token during session rehydration.
func (c *Client) Me(ctx context.Context) (*UserProfile, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/auth/me", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("monitoring: fetching current user: %w", err)
	}

	var user UserProfile
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("monitoring: parsing user profile: %w", err)
	}
	return &user, nil
}

// Operators lists the users with the operator role, for technician
// selection in maintenance forms.
func (c *Client) Operators(ctx context.Context) ([]UserProfile, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/auth/operators", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("monitoring: listing operators: %w", err)
	}

	var operators []UserProfile
	if err := json.Unmarshal(body, &operators); err != nil {
		return nil, fmt.Errorf("monitoring: parsing operator list: %w", err)
	}
	return operators, nil
}

// Users lists all user accounts. The service restricts this to
// administrators.
func (c *Client) Users(ctx context.Context) ([]UserProfile, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/auth/users", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("monitoring: listing users: %w", err)
	}

	var users []UserProfile
	if err := json.Unmarshal(body, &users); err != nil {
		return nil, fmt.Errorf("monitoring: parsing user list: %w", err)
	}
	return users, nil
}

// CreateUser registers a new user account. Administrator-only on the
// service side.
func (c *Client) CreateUser(ctx context.Context, user NewUser) (*UserProfile, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/auth/users", nil, user)
	if err != nil {
		return nil, fmt.Errorf("monitoring: creating user: %w", err)
	}

	var created UserProfile
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("monitoring: parsing created user: %w", err)
	}
	return &created, nil
}
