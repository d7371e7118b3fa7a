// Copyright 2026 The Plantwatch Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"errors"
	"net/http"

	"github.com/plantwatch-project/plantwatch/lib/config"
	"github.com/plantwatch-project/plantwatch/lib/credstore"
	"github.com/plantwatch-project/plantwatch/monitoring"
	"github.com/plantwatch-project/plantwatch/session"
)

// Console bundles the loaded configuration and session manager that
// every command needs. Built once per invocation by OpenConsole.
type Console struct {
	Config  *config.Config
	Store   *credstore.Store
	Session *session.Manager
}

// OpenConsole loads configuration and restores any persisted session.
// configPath overrides the PLANTWATCH_CONFIG environment variable
// when non-empty (the --config flag). The returned console is always
// in a settled session state: authenticated or not.
func OpenConsole(ctx context.Context, configPath string) (*Console, error) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, Validation("loading configuration: %w", err)
	}

	store := credstore.New(cfg.Session.File)
	manager, err := session.NewManager(session.Config{
		BaseURL:    cfg.Service.BaseURL,
		Store:      store,
		HTTPClient: &http.Client{Timeout: cfg.RequestTimeout()},
		Logger:     NewCommandLogger(),
	})
	if err != nil {
		return nil, Internal("initializing session: %w", err)
	}

	if err := manager.Hydrate(ctx); err != nil {
		return nil, Internal("restoring session: %w", err)
	}

	return &Console{Config: cfg, Store: store, Session: manager}, nil
}

// Client returns the console's gateway client.
func (c *Console) Client() *monitoring.Client {
	return c.Session.Client()
}

// RequireAuth fails with a login hint when no session is held.
func (c *Console) RequireAuth() error {
	if !c.Session.Authenticated() {
		return Unauthenticated("not logged in — run \"plantwatch login <email>\" first")
	}
	return nil
}

// Classify wraps a gateway error with the command-error category a
// script would want: session expiry maps to unauthenticated, 404s to
// not-found, 403s to forbidden, everything else to transient (the
// service or network hiccuped).
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var commandError *CommandError
	if errors.As(err, &commandError) {
		return err
	}
	if monitoring.IsSessionExpired(err) {
		return &CommandError{Category: CategoryUnauthenticated, Err: errors.New(
			"session expired — run \"plantwatch login <email>\" again")}
	}
	var apiError *monitoring.APIError
	if errors.As(err, &apiError) {
		switch apiError.StatusCode {
		case http.StatusUnauthorized:
			// A 401 that isn't a credential rejection is a failed
			// login; the service's detail names the reason.
			return &CommandError{Category: CategoryUnauthenticated, Err: err}
		case http.StatusNotFound:
			return &CommandError{Category: CategoryNotFound, Err: err}
		case http.StatusForbidden:
			return &CommandError{Category: CategoryForbidden, Err: err}
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			return &CommandError{Category: CategoryValidation, Err: err}
		}
		return &CommandError{Category: CategoryInternal, Err: err}
	}
	return &CommandError{Category: CategoryTransient, Err: err}
}
