// Copyright 2026 The Plantwatch Authors
// SPDX-License-Identifier: Apache-2.0

package monitoring

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// staticToken is a TokenProvider returning a fixed credential.
type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestNewClient(t *testing.T) {
	t.Run("valid URL", func(t *testing.T) {
		client, err := NewClient(ClientConfig{BaseURL: "http://localhost:8000/api"})
		if err != nil {
			t.Fatalf("NewClient failed: %v", err)
		}
		if client == nil {
			t.Fatal("NewClient returned nil")
		}
	})

	t.Run("empty URL", func(t *testing.T) {
		if _, err := NewClient(ClientConfig{}); err == nil {
			t.Fatal("expected error for empty BaseURL")
		}
	})

	t.Run("invalid URL", func(t *testing.T) {
		if _, err := NewClient(ClientConfig{BaseURL: "://invalid"}); err == nil {
			t.Fatal("expected error for invalid BaseURL")
		}
	})
}

func TestBearerInjection(t *testing.T) {
	t.Run("token attached when present", func(t *testing.T) {
		var gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			gotAuth = request.Header.Get("Authorization")
			json.NewEncoder(writer).Encode(DashboardStats{})
		}))
		defer server.Close()

		client, err := NewClient(ClientConfig{BaseURL: server.URL, Credentials: staticToken("tok-123")})
		if err != nil {
			t.Fatalf("NewClient failed: %v", err)
		}
		if _, err := client.DashboardStats(context.Background()); err != nil {
			t.Fatalf("DashboardStats failed: %v", err)
		}
		if gotAuth != "Bearer tok-123" {
			t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer tok-123")
		}
	})

	t.Run("no header when token empty", func(t *testing.T) {
		var gotAuth string
		var hadHeader bool
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			gotAuth = request.Header.Get("Authorization")
			_, hadHeader = request.Header["Authorization"]
			json.NewEncoder(writer).Encode(DashboardStats{})
		}))
		defer server.Close()

		client, err := NewClient(ClientConfig{BaseURL: server.URL, Credentials: staticToken("")})
		if err != nil {
			t.Fatalf("NewClient failed: %v", err)
		}
		if _, err := client.DashboardStats(context.Background()); err != nil {
			t.Fatalf("DashboardStats failed: %v", err)
		}
		if hadHeader {
			t.Errorf("unexpected Authorization header %q", gotAuth)
		}
	})
}

func TestAuthorizationFailureInvokesHook(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(writer).Encode(map[string]string{"detail": "Could not validate credentials"})
	}))
	defer server.Close()

	hookCalls := 0
	client, err := NewClient(ClientConfig{
		BaseURL:        server.URL,
		Credentials:    staticToken("expired"),
		SessionExpired: func() { hookCalls++ },
	})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	// Every operation surfaces 401 as ErrSessionExpired and fires the
	// hook exactly once per response.
	_, err = client.Devices(context.Background(), "")
	if !errors.Is(err, ErrSessionExpired) {
		t.Errorf("Devices error = %v, want ErrSessionExpired", err)
	}
	if err := client.MarkAllEventsRead(context.Background()); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("MarkAllEventsRead error = %v, want ErrSessionExpired", err)
	}
	if hookCalls != 2 {
		t.Errorf("SessionExpired hook called %d times, want 2", hookCalls)
	}
}

// rotatingToken returns each token in order, then repeats the last
// one. It models a credential being replaced by a re-login while a
// request is in flight: doRequest reads the token once when attaching
// the header and again when classifying a 401.
type rotatingToken struct {
	tokens []string
	calls  int
}

func (r *rotatingToken) Token() string {
	index := r.calls
	if index >= len(r.tokens) {
		index = len(r.tokens) - 1
	}
	r.calls++
	return r.tokens[index]
}

func TestSupersededCredentialRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(writer).Encode(map[string]string{"detail": "Could not validate credentials"})
	}))
	defer server.Close()

	hookCalls := 0
	client, err := NewClient(ClientConfig{
		BaseURL:        server.URL,
		Credentials:    &rotatingToken{tokens: []string{"stale", "fresh"}},
		SessionExpired: func() { hookCalls++ },
	})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	// The first request goes out with "stale" but by the time its
	// 401 lands the credential is "fresh": the rejection says
	// nothing about the current session and must not collapse it.
	if _, err := client.Devices(context.Background(), ""); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("Devices error = %v, want ErrSessionExpired", err)
	}
	if hookCalls != 0 {
		t.Fatalf("SessionExpired hook fired %d times for a superseded credential", hookCalls)
	}

	// The second request carries "fresh"; its rejection is current
	// and collapses the session.
	if _, err := client.Devices(context.Background(), ""); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("Devices error = %v, want ErrSessionExpired", err)
	}
	if hookCalls != 1 {
		t.Errorf("SessionExpired hook fired %d times for the current credential, want 1", hookCalls)
	}
}

func TestRemoteLogicFailurePassthrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusNotFound)
		json.NewEncoder(writer).Encode(map[string]string{"detail": "equipment not found"})
	}))
	defer server.Close()

	hookCalled := false
	client, err := NewClient(ClientConfig{
		BaseURL:        server.URL,
		SessionExpired: func() { hookCalled = true },
	})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	_, err = client.Device(context.Background(), 42)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", apiErr.StatusCode)
	}
	if apiErr.Detail != "equipment not found" {
		t.Errorf("Detail = %q, want %q", apiErr.Detail, "equipment not found")
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound = false, want true")
	}
	if hookCalled {
		t.Error("SessionExpired hook fired on a non-401 response")
	}
}

func TestNonJSONErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusBadGateway)
		writer.Write([]byte("upstream unavailable"))
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	_, err = client.EventStats(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadGateway {
		t.Errorf("StatusCode = %d, want 502", apiErr.StatusCode)
	}
	if apiErr.Detail != "upstream unavailable" {
		t.Errorf("Detail = %q, want raw body", apiErr.Detail)
	}
}

func TestNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // immediately unreachable

	hookCalled := false
	client, err := NewClient(ClientConfig{
		BaseURL:        server.URL,
		SessionExpired: func() { hookCalled = true },
	})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	if _, err := client.Events(context.Background(), EventQuery{}); err == nil {
		t.Fatal("expected error for unreachable service")
	} else if errors.Is(err, ErrSessionExpired) {
		t.Error("network failure misclassified as session expiry")
	}
	if hookCalled {
		t.Error("SessionExpired hook fired on a transport error")
	}
}

func TestLogin(t *testing.T) {
	t.Run("success sends no credential and returns token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if request.URL.Path != "/auth/login" {
				t.Errorf("unexpected path %s", request.URL.Path)
			}
			if _, hasAuth := request.Header["Authorization"]; hasAuth {
				t.Error("login request carried an Authorization header")
			}
			var requestBody map[string]string
			if err := json.NewDecoder(request.Body).Decode(&requestBody); err != nil {
				t.Fatalf("decoding login body: %v", err)
			}
			if requestBody["email"] != "admin@test.com" || requestBody["password"] != "admin123" {
				t.Errorf("unexpected credentials %v", requestBody)
			}
			json.NewEncoder(writer).Encode(LoginResult{
				AccessToken: "fresh-token",
				TokenType:   "bearer",
				User:        UserProfile{UserID: "USR-1", Username: "admin", Email: "admin@test.com", Role: RoleAdministrator},
			})
		}))
		defer server.Close()

		client, err := NewClient(ClientConfig{BaseURL: server.URL, Credentials: staticToken("")})
		if err != nil {
			t.Fatalf("NewClient failed: %v", err)
		}

		result, err := client.Login(context.Background(), "admin@test.com", "admin123")
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if result.AccessToken != "fresh-token" {
			t.Errorf("AccessToken = %q, want %q", result.AccessToken, "fresh-token")
		}
		if result.User.Role != RoleAdministrator {
			t.Errorf("Role = %q, want administrator", result.User.Role)
		}
	})

	t.Run("bad password surfaces the service detail", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(writer).Encode(map[string]string{"detail": "Incorrect email or password"})
		}))
		defer server.Close()

		hookCalled := false
		client, err := NewClient(ClientConfig{
			BaseURL:        server.URL,
			Credentials:    staticToken(""),
			SessionExpired: func() { hookCalled = true },
		})
		if err != nil {
			t.Fatalf("NewClient failed: %v", err)
		}

		_, err = client.Login(context.Background(), "admin@test.com", "wrong")
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("error = %v, want *APIError", err)
		}
		if apiErr.StatusCode != http.StatusUnauthorized || apiErr.Detail != "Incorrect email or password" {
			t.Errorf("APIError = %+v, want the service's rejection detail", apiErr)
		}
		if errors.Is(err, ErrSessionExpired) {
			t.Error("failed login misclassified as session expiry")
		}
		if hookCalled {
			t.Error("SessionExpired hook fired for an uncredentialed request")
		}
	})

	t.Run("missing fields rejected client-side", func(t *testing.T) {
		client, err := NewClient(ClientConfig{BaseURL: "http://localhost:1"})
		if err != nil {
			t.Fatalf("NewClient failed: %v", err)
		}
		if _, err := client.Login(context.Background(), "", "secret"); err == nil {
			t.Error("expected error for empty identifier")
		}
		if _, err := client.Login(context.Background(), "user@test.com", ""); err == nil {
			t.Error("expected error for empty secret")
		}
	})
}

func TestQueryEncoding(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		gotQuery = request.URL.RawQuery
		writer.Write([]byte("[]"))
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	if _, err := client.Devices(context.Background(), "online"); err != nil {
		t.Fatalf("Devices failed: %v", err)
	}
	if gotQuery != "status_filter=online" {
		t.Errorf("devices query = %q, want %q", gotQuery, "status_filter=online")
	}

	if _, err := client.Events(context.Background(), EventQuery{Level: "critical", Hours: 24}); err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	if gotQuery != "hours=24&level=critical" {
		t.Errorf("events query = %q, want %q", gotQuery, "hours=24&level=critical")
	}
}

func TestUpdateDeviceStatus(t *testing.T) {
	var gotMethod, gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		gotMethod = request.Method
		gotPath = request.URL.Path
		gotQuery = request.URL.RawQuery
		json.NewEncoder(writer).Encode(map[string]string{"message": "ok", "new_status": "maintenance"})
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if err := client.UpdateDeviceStatus(context.Background(), 7, StatusMaintenance); err != nil {
		t.Fatalf("UpdateDeviceStatus failed: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/equipment/7/status" || gotQuery != "new_status=maintenance" {
		t.Errorf("request = %s %s?%s, want PUT /equipment/7/status?new_status=maintenance",
			gotMethod, gotPath, gotQuery)
	}
}
