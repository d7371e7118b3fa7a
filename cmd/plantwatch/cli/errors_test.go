// Copyright 2026 The Plantwatch Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/plantwatch-project/plantwatch/monitoring"
)

func category(t *testing.T, err error) ErrorCategory {
	t.Helper()
	var commandError *CommandError
	if !errors.As(err, &commandError) {
		t.Fatalf("error %v is not a CommandError", err)
	}
	return commandError.Category
}

func TestClassify(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		if Classify(nil) != nil {
			t.Error("Classify(nil) != nil")
		}
	})

	t.Run("session expiry", func(t *testing.T) {
		err := fmt.Errorf("monitoring: GET /equipment: %w", monitoring.ErrSessionExpired)
		if got := category(t, Classify(err)); got != CategoryUnauthenticated {
			t.Errorf("category = %q, want unauthenticated", got)
		}
	})

	t.Run("remote statuses", func(t *testing.T) {
		cases := []struct {
			status int
			want   ErrorCategory
		}{
			{http.StatusUnauthorized, CategoryUnauthenticated},
			{http.StatusNotFound, CategoryNotFound},
			{http.StatusForbidden, CategoryForbidden},
			{http.StatusBadRequest, CategoryValidation},
			{http.StatusUnprocessableEntity, CategoryValidation},
			{http.StatusInternalServerError, CategoryInternal},
		}
		for _, testCase := range cases {
			err := fmt.Errorf("wrapped: %w", &monitoring.APIError{
				StatusCode: testCase.status, Detail: "detail",
			})
			if got := category(t, Classify(err)); got != testCase.want {
				t.Errorf("status %d: category = %q, want %q", testCase.status, got, testCase.want)
			}
		}
	})

	t.Run("transport failure", func(t *testing.T) {
		if got := category(t, Classify(errors.New("dial tcp: refused"))); got != CategoryTransient {
			t.Errorf("category = %q, want transient", got)
		}
	})

	t.Run("already categorized passes through", func(t *testing.T) {
		original := Validation("bad input")
		classified := Classify(original)
		if classified != original {
			t.Error("Classify rewrapped an existing CommandError")
		}
	})
}

func TestCommandErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	wrapped := Internal("context: %w", inner)
	if !errors.Is(wrapped, inner) {
		t.Error("errors.Is fails through CommandError")
	}
}
