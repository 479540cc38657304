package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOf(t *testing.T) {
	if got := KindOf(New(KindValidation, "missing field")); got != KindValidation {
		t.Fatalf("expected KindValidation, got %d", got)
	}
	// wrapped errors keep their kind
	wrapped := fmt.Errorf("handler: %w", New(KindNotFound, "Order not found."))
	if got := KindOf(wrapped); got != KindNotFound {
		t.Fatalf("expected KindNotFound, got %d", got)
	}
	// unclassified errors are processing failures
	if got := KindOf(errors.New("boom")); got != KindProcessing {
		t.Fatalf("expected KindProcessing, got %d", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(KindValidation, "You must enter a phone number.")); got != "You must enter a phone number." {
		t.Fatalf("validation message lost: %q", got)
	}
	// processing details never leak
	if got := UserMessage(Wrap(KindProcessing, "gateway call", errors.New("dial tcp: refused"))); got != GenericMessage {
		t.Fatalf("expected generic message, got %q", got)
	}
	if got := UserMessage(errors.New("boom")); got != GenericMessage {
		t.Fatalf("expected generic message, got %q", got)
	}
}

func TestHTTPStatus(t *testing.T) {
	if got := HTTPStatus(New(KindNotFound, "missing")); got != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", got)
	}
	if got := HTTPStatus(New(KindValidation, "missing")); got != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", got)
	}
	if got := HTTPStatus(errors.New("boom")); got != http.StatusBadRequest {
		t.Fatalf("expected 400 for processing, got %d", got)
	}
}
