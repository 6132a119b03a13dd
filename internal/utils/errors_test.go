package utils

import (
	"errors"
	"testing"
)

func TestAppErrorMessage(t *testing.T) {
	err := NewAppError("predict", "inference failed", errors.New("backend down"))
	if got := err.Error(); got != "predict: inference failed: backend down" {
		t.Fatalf("unexpected message: %q", got)
	}

	bare := NewAppError("predict", "inference failed", nil)
	if got := bare.Error(); got != "predict: inference failed" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("backend down")
	err := NewAppError("predict", "inference failed", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected errors.Is to reach the cause")
	}
}
