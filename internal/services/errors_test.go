package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"trackmux/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrJobFailed, "select-tracks", "mux", "muxing failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrJobFailed) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"select-tracks", "mux", "muxing failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutMarkerDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{services.Wrap(services.ErrConfiguration, "select-tracks", "load", "missing", nil), "configuration"},
		{fmt.Errorf("outer: %w", services.Wrap(services.ErrJobFailed, "", "", "x", nil)), "job_failed"},
		{services.Wrap(services.ErrStorage, "workspace", "move", "", errors.New("io")), "storage"},
		{errors.New("plain"), "internal"},
	}
	for _, tt := range tests {
		if got := services.Kind(tt.err); got != tt.want {
			t.Errorf("Kind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
