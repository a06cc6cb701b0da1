package domainerrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestHasCode(t *testing.T) {
	t.Run("matches direct code", func(t *testing.T) {
		err := New(CodeNotFound, "person not found")
		if !HasCode(err, CodeNotFound) {
			t.Fatalf("expected CodeNotFound")
		}
		if HasCode(err, CodeConflict) {
			t.Fatalf("did not expect CodeConflict")
		}
	})

	t.Run("matches through wrapping", func(t *testing.T) {
		inner := New(CodeUnauthorized, "invalid admin password")
		err := fmt.Errorf("update rejected: %w", inner)
		if !HasCode(err, CodeUnauthorized) {
			t.Fatalf("expected CodeUnauthorized through wrap")
		}
	})

	t.Run("uncoded errors carry no code", func(t *testing.T) {
		if HasCode(errors.New("plain"), CodeInternal) {
			t.Fatalf("plain error should not match any code")
		}
	})
}

func TestWrap(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		if Wrap(nil, CodeInternal, "save failed") != nil {
			t.Fatalf("wrapping nil must return nil")
		}
	})

	t.Run("preserves cause chain", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := Wrap(cause, CodeInternal, "save failed")
		if !errors.Is(err, cause) {
			t.Fatalf("expected cause to be reachable via errors.Is")
		}
		if CodeOf(err) != CodeInternal {
			t.Fatalf("expected CodeInternal, got %s", CodeOf(err))
		}
	})
}

func TestCodeOf(t *testing.T) {
	if CodeOf(errors.New("plain")) != CodeInternal {
		t.Fatalf("uncoded errors default to CodeInternal")
	}
	if CodeOf(New(CodeValidation, "plate number is required")) != CodeValidation {
		t.Fatalf("expected CodeValidation")
	}
}

func TestMessageOf(t *testing.T) {
	err := Wrap(errors.New("pq: duplicate key"), CodeConflict, "national id already registered")
	if MessageOf(err) != "national id already registered" {
		t.Fatalf("expected coded message, got %q", MessageOf(err))
	}
}
