package services_test

import (
	"errors"
	"strings"
	"testing"

	"glimpse/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "ocr", "recognize", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"ocr", "recognize", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapNilMarkerDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "llm", "ask", "request failed", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
}

func TestIsFatal(t *testing.T) {
	captureErr := services.Wrap(services.ErrCapture, "capture", "read frame", "stream ended", nil)
	if !services.IsFatal(captureErr) {
		t.Fatalf("expected capture error to be fatal: %v", captureErr)
	}

	timeoutErr := services.Wrap(services.ErrTimeout, "ocr", "recognize", "deadline exceeded", nil)
	if services.IsFatal(timeoutErr) {
		t.Fatalf("expected timeout error to be recoverable: %v", timeoutErr)
	}

	if services.IsFatal(nil) {
		t.Fatal("nil error should not be fatal")
	}
}
