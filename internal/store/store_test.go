package store

import (
	"errors"
	"fmt"
	"testing"
)

func TestProfileFilterValid(t *testing.T) {
	tests := []struct {
		filter ProfileFilter
		valid  bool
	}{
		{FilterAll, true},
		{FilterOnline, true},
		{FilterEarnings, true},
		{FilterChatsReceived, true},
		{"chatsreceived", false},
		{"popular", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := tt.filter.Valid(); got != tt.valid {
			t.Errorf("ProfileFilter(%q).Valid() = %v, want %v", tt.filter, got, tt.valid)
		}
	}
}

func TestSentinelErrorsWrap(t *testing.T) {
	wrapped := fmt.Errorf("update profile p1: %w", ErrConcurrentModification)
	if !errors.Is(wrapped, ErrConcurrentModification) {
		t.Error("Expected wrapped error to match ErrConcurrentModification")
	}
	if errors.Is(wrapped, ErrNotFound) {
		t.Error("Did not expect wrapped error to match ErrNotFound")
	}

	var _ EngagementStore
}
