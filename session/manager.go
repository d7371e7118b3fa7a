// Copyright 2026 The Plantwatch Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/plantwatch-project/plantwatch/lib/credstore"
	"github.com/plantwatch-project/plantwatch/lib/secret"
	"github.com/plantwatch-project/plantwatch/monitoring"
)

// Status is the manager's lifecycle state.
type Status string

const (
	// StatusInitializing means Hydrate has not yet run. Consumers
	// should hold rendering until the first transition.
	StatusInitializing Status = "initializing"

	// StatusUnauthenticated means no valid session exists.
	StatusUnauthenticated Status = "unauthenticated"

	// StatusAuthenticated means a token and user profile are held.
	StatusAuthenticated Status = "authenticated"
)

// Config configures a Manager.
type Config struct {
	// BaseURL is the monitoring service's base URL. Required.
	BaseURL string

	// Store persists the session across restarts. Required.
	Store *credstore.Store

	// HTTPClient overrides the gateway's HTTP client. Optional.
	HTTPClient *http.Client

	// Logger receives lifecycle events. Defaults to slog.Default().
	Logger *slog.Logger
}

// Manager is the authority on the console's authentication state.
// All methods are safe for concurrent use.
type Manager struct {
	client *monitoring.Client
	store  *credstore.Store
	logger *slog.Logger

	mu             sync.Mutex
	status         Status
	token          *secret.Buffer
	user           *monitoring.UserProfile
	subscribers    map[int]func(Status)
	nextSubscriber int
}

// NewManager builds a manager and its gateway client. The manager is
// the client's token provider and session-expiry hook, so every
// authenticated request flows through this manager's credential and
// every authorization failure collapses the session here.
func NewManager(config Config) (*Manager, error) {
	if config.Store == nil {
		return nil, fmt.Errorf("session: config.Store is required")
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	manager := &Manager{
		store:       config.Store,
		logger:      logger,
		status:      StatusInitializing,
		subscribers: make(map[int]func(Status)),
	}

	client, err := monitoring.NewClient(monitoring.ClientConfig{
		BaseURL:        config.BaseURL,
		HTTPClient:     config.HTTPClient,
		Logger:         logger,
		Credentials:    manager,
		SessionExpired: manager.Invalidate,
	})
	if err != nil {
		return nil, fmt.Errorf("session: building gateway client: %w", err)
	}
	manager.client = client
	return manager, nil
}

// Client returns the gateway client bound to this manager's
// credential.
func (m *Manager) Client() *monitoring.Client {
	return m.client
}

// Token returns the current bearer token, or "" when no session is
// held. Implements monitoring.TokenProvider.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == nil {
		return ""
	}
	return m.token.String()
}

// Status returns the manager's current lifecycle state.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Authenticated reports whether a session is currently held.
func (m *Manager) Authenticated() bool {
	return m.Status() == StatusAuthenticated
}

// User returns the profile of the authenticated user, or nil.
func (m *Manager) User() *monitoring.UserProfile {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	userCopy := *m.user
	return &userCopy
}

// Hydrate restores a persisted session. A stored token is validated
// with a profile fetch before the session is trusted: any failure,
// credential rejection and unreachable service alike, discards the
// stored session (scrubbing it from disk) and settles the manager
// Unauthenticated. Always leaves the manager in a settled state.
func (m *Manager) Hydrate(ctx context.Context) error {
	token, user, ok := m.store.Load()
	if !ok {
		m.transition(StatusUnauthenticated, nil, nil)
		return nil
	}

	buffer, err := secret.NewFromString(token)
	if err != nil {
		m.transition(StatusUnauthenticated, nil, nil)
		return fmt.Errorf("session: protecting stored token: %w", err)
	}

	// Stage the stored credential so the validation request can
	// carry it. The status stays Initializing: nothing downstream
	// treats the session as live until the service has vouched for
	// the token, so subscribers never observe an authenticated state
	// that validation then retracts.
	m.mu.Lock()
	m.token = buffer
	m.mu.Unlock()

	fresh, err := m.client.Me(ctx)
	switch {
	case err == nil:
		m.transition(StatusAuthenticated, buffer, fresh)
		m.logger.Info("session restored", "user_id", fresh.UserID, "role", fresh.Role)
		return nil
	case errors.Is(err, monitoring.ErrSessionExpired):
		// The gateway's expiry hook already demoted us and cleared
		// the dead token from disk.
		m.logger.Info("stored session rejected, login required")
		return nil
	default:
		// An unvalidated session is no session. Clearing here keeps
		// every start deterministic: either the token checked out or
		// the operator logs in again.
		m.mu.Lock()
		if err := m.store.Clear(); err != nil {
			m.logger.Warn("clearing unvalidated session file", "error", err)
		}
		callbacks := m.transitionLocked(StatusUnauthenticated, nil, nil)
		m.mu.Unlock()
		m.notify(callbacks, StatusUnauthenticated)
		m.logger.Warn("session validation failed, login required",
			"user_id", user.UserID, "error", err)
		return nil
	}
}

// Login authenticates with the monitoring service and persists the
// resulting session.
func (m *Manager) Login(ctx context.Context, identifier, secretText string) error {
	result, err := m.client.Login(ctx, identifier, secretText)
	if err != nil {
		return err
	}

	buffer, err := secret.NewFromString(result.AccessToken)
	if err != nil {
		return fmt.Errorf("session: protecting token: %w", err)
	}

	// Save and transition under one critical section so no
	// concurrent invalidation can slip between them and observe a
	// half-installed session.
	m.mu.Lock()
	if err := m.store.Save(result.AccessToken, &result.User); err != nil {
		// The session still works for this process; it just won't
		// survive a restart.
		m.logger.Warn("persisting session", "error", err)
	}
	callbacks := m.transitionLocked(StatusAuthenticated, buffer, &result.User)
	m.mu.Unlock()
	m.notify(callbacks, StatusAuthenticated)
	return nil
}

// Logout ends the session. The remote logout is best-effort: local
// state and the persisted session are cleared no matter what the
// service says.
func (m *Manager) Logout(ctx context.Context) error {
	if m.Authenticated() {
		if err := m.client.Logout(ctx); err != nil {
			m.logger.Warn("remote logout failed", "error", err)
		}
	}

	m.mu.Lock()
	clearError := m.store.Clear()
	callbacks := m.transitionLocked(StatusUnauthenticated, nil, nil)
	m.mu.Unlock()
	m.notify(callbacks, StatusUnauthenticated)
	m.logger.Info("logged out")
	return clearError
}

// Invalidate collapses the session without a remote call. Used by the
// gateway when the service rejects the credential, and safe to call
// any number of times. The persisted session is cleared so the dead
// token isn't rehydrated on the next start.
func (m *Manager) Invalidate() {
	// The status check and the teardown share one critical section:
	// a concurrent login lands either wholly before the check or
	// wholly after the teardown, never in between.
	m.mu.Lock()
	if m.status == StatusUnauthenticated {
		m.mu.Unlock()
		return
	}
	if err := m.store.Clear(); err != nil {
		m.logger.Warn("clearing session file", "error", err)
	}
	callbacks := m.transitionLocked(StatusUnauthenticated, nil, nil)
	m.mu.Unlock()
	m.notify(callbacks, StatusUnauthenticated)
	m.logger.Info("session invalidated")
}

// Subscribe registers a callback for lifecycle transitions. The
// callback runs synchronously on whatever goroutine triggered the
// transition and must not block. The returned cancel function
// unregisters it.
func (m *Manager) Subscribe(callback func(Status)) (cancel func()) {
	m.mu.Lock()
	id := m.nextSubscriber
	m.nextSubscriber++
	m.subscribers[id] = callback
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subscribers, id)
		m.mu.Unlock()
	}
}

// HasRole reports whether the authenticated user holds exactly the
// given role. False when no session is held.
func (m *Manager) HasRole(role monitoring.Role) bool {
	user := m.User()
	return user != nil && user.Role == role
}

// CanOperate reports whether the user may use operator-level views:
// any authenticated role qualifies.
func (m *Manager) CanOperate() bool {
	user := m.User()
	if user == nil {
		return false
	}
	switch user.Role {
	case monitoring.RoleOperator, monitoring.RoleAdministrator, monitoring.RoleManager:
		return true
	}
	return false
}

// CanAdminister reports whether the user may use administrative
// views: administrators and managers qualify.
func (m *Manager) CanAdminister() bool {
	user := m.User()
	if user == nil {
		return false
	}
	return user.Role == monitoring.RoleAdministrator || user.Role == monitoring.RoleManager
}

// CanManage reports whether the user may use management views:
// managers only.
func (m *Manager) CanManage() bool {
	return m.HasRole(monitoring.RoleManager)
}

// transition swaps the manager's state and notifies subscribers. The
// old token buffer is zeroed. Callbacks run outside the lock.
func (m *Manager) transition(status Status, token *secret.Buffer, user *monitoring.UserProfile) {
	m.mu.Lock()
	callbacks := m.transitionLocked(status, token, user)
	m.mu.Unlock()
	m.notify(callbacks, status)
}

// transitionLocked swaps state and snapshots the subscriber list.
// The caller holds m.mu and must pass the returned callbacks to
// notify after unlocking.
func (m *Manager) transitionLocked(status Status, token *secret.Buffer, user *monitoring.UserProfile) []func(Status) {
	if m.token != nil && m.token != token {
		m.token.Close()
	}
	m.status = status
	m.token = token
	m.user = user

	callbacks := make([]func(Status), 0, len(m.subscribers))
	for _, callback := range m.subscribers {
		callbacks = append(callbacks, callback)
	}
	return callbacks
}

func (m *Manager) notify(callbacks []func(Status), status Status) {
	for _, callback := range callbacks {
		callback(status)
	}
}
