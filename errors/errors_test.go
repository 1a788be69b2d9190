package errors

import (
	"fmt"
	"testing"
)

func TestSurroundError(t *testing.T) {
	// Test basic error creation
	err := New(ErrCodeNoData, "nothing")
	if err.Code != ErrCodeNoData {
		t.Errorf("expected code %s, got %s", ErrCodeNoData, err.Code)
	}

	// Test error wrapping
	cause := fmt.Errorf("connection refused")
	wrapped := Wrap(cause, ErrCodeBackendCallFailed, "call failed")

	if wrapped.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}

	if !Is(wrapped, ErrCodeBackendCallFailed) {
		t.Error("Is should return true for matching code")
	}

	if Is(wrapped, ErrCodeNoData) {
		t.Error("Is should return false for non-matching code")
	}

	// Codes survive fmt wrapping
	outer := fmt.Errorf("refresh: %w", wrapped)
	if GetCode(outer) != ErrCodeBackendCallFailed {
		t.Errorf("GetCode through fmt wrap = %s", GetCode(outer))
	}

	detailed := err.WithDetail("app", "Game A").WithDetail("channel", "FL")
	if detailed.Details["app"] != "Game A" {
		t.Error("WithDetail should add details")
	}
}

func TestIsNil(t *testing.T) {
	if Is(nil, ErrCodeInternal) {
		t.Error("nil error should not match any code")
	}
	if Is(fmt.Errorf("plain"), "") {
		t.Error("plain error should not match the empty code")
	}
}

func TestErrorConstructors(t *testing.T) {
	err := CallFailed("list_sinks", fmt.Errorf("timeout"))
	if err.Code != ErrCodeBackendCallFailed {
		t.Errorf("expected code %s, got %s", ErrCodeBackendCallFailed, err.Code)
	}
	if err.Details["method"] != "list_sinks" {
		t.Error("CallFailed should include method detail")
	}

	err = AppPinned("Game A", "alsa_output.usb")
	if err.Code != ErrCodeAppPinned {
		t.Errorf("expected code %s, got %s", ErrCodeAppPinned, err.Code)
	}
	if err.Details["target"] != "alsa_output.usb" {
		t.Error("AppPinned should include target detail")
	}

	if NoForegroundApp().Code != ErrCodeNoForegroundApp {
		t.Error("NoForegroundApp code mismatch")
	}
}
