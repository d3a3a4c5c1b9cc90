package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestAppErrorMessageFormatting(t *testing.T) {
	base := New("TEST_CODE", "something failed", http.StatusBadRequest)
	if base.Error() != "something failed" {
		t.Fatalf("unexpected message: %s", base.Error())
	}

	inner := errors.New("db timeout")
	wrapped := base.WithInternal(inner)
	if wrapped.Error() != "something failed: db timeout" {
		t.Fatalf("unexpected wrapped message: %s", wrapped.Error())
	}
	if !errors.Is(wrapped, inner) {
		t.Fatal("expected errors.Is to find the internal error")
	}
}

func TestFromErrorPassesThroughAppErrors(t *testing.T) {
	err := New("GROUP_NOT_FOUND", "Group not found", http.StatusNotFound)

	got := FromError(err)
	if got.Code != "GROUP_NOT_FOUND" || got.StatusCode != http.StatusNotFound {
		t.Fatalf("unexpected conversion: %+v", got)
	}
}

func TestFromErrorWrapsUnknownErrors(t *testing.T) {
	inner := errors.New("boom")

	got := FromError(inner)
	if got.Code != ErrInternalServer.Code {
		t.Fatalf("expected internal server code, got %s", got.Code)
	}
	if got.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", got.StatusCode)
	}
	if !errors.Is(got, inner) {
		t.Fatal("expected internal error to be preserved")
	}
}

func TestFromErrorNil(t *testing.T) {
	if FromError(nil) != nil {
		t.Fatal("expected nil for nil input")
	}
}

func TestWrapKeepsOriginal(t *testing.T) {
	inner := errors.New("connection reset")
	wrapped := Wrap(inner, "failed to load invite")

	if wrapped.StatusCode != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", wrapped.StatusCode)
	}
	if !errors.Is(wrapped, inner) {
		t.Fatal("expected wrapped error to unwrap to the original")
	}
}
