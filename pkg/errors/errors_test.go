package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("socket closed")
	err := Wrap(CodeDependency, cause, "reading purchase sheet")

	if !stdErrors.Is(err, cause) {
		t.Fatalf("expected wrapped cause to survive errors.Is")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("unexpected code: %s", err.Code())
	}
}

func TestAsFindsTypedErrorInChain(t *testing.T) {
	inner := New(CodeConflict, "uuid reused with different buyer")
	outer := fmt.Errorf("reserve: %w", inner)

	typed := As(outer)
	if typed == nil {
		t.Fatal("expected typed error in chain")
	}
	if typed.Code() != CodeConflict {
		t.Fatalf("unexpected code: %s", typed.Code())
	}
}

func TestAsReturnsNilForPlainErrors(t *testing.T) {
	if typed := As(stdErrors.New("plain")); typed != nil {
		t.Fatalf("expected nil, got %v", typed)
	}
	if typed := As(nil); typed != nil {
		t.Fatalf("expected nil for nil error, got %v", typed)
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	meta := MetadataFor(Code("NOPE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal fallback, got %d", meta.HTTPStatus)
	}
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeNotFound, "no such purchase"))
	if !IsCode(err, CodeNotFound) {
		t.Fatal("expected CodeNotFound")
	}
	if IsCode(err, CodeConflict) {
		t.Fatal("did not expect CodeConflict")
	}
	if IsCode(nil, CodeNotFound) {
		t.Fatal("nil error should not match")
	}
}
