package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForChatProxyCodes(t *testing.T) {
	if got := MetadataFor(CodeRateLimit).HTTPStatus; got != http.StatusTooManyRequests {
		t.Fatalf("rate limit should map to 429, got %d", got)
	}
	if got := MetadataFor(CodePaymentRequired).HTTPStatus; got != http.StatusPaymentRequired {
		t.Fatalf("payment required should map to 402, got %d", got)
	}
	if got := MetadataFor(Code("BOGUS")).HTTPStatus; got != http.StatusInternalServerError {
		t.Fatalf("unknown codes should fall back to 500, got %d", got)
	}
}

func TestAsUnwrapsThroughChain(t *testing.T) {
	inner := New(CodeRateLimit, "too many requests")
	wrapped := fmt.Errorf("calling provider: %w", inner)

	typed := As(wrapped)
	if typed == nil {
		t.Fatal("expected typed error through wrap chain")
	}
	if typed.Code() != CodeRateLimit {
		t.Fatalf("expected rate limit code, got %s", typed.Code())
	}
}

func TestWrapNilErr(t *testing.T) {
	err := Wrap(CodeInternal, nil, "no cause")
	if err.Unwrap() != nil {
		t.Fatal("expected nil cause")
	}
	if err.Code() != CodeInternal {
		t.Fatalf("unexpected code %s", err.Code())
	}
}

func TestDumpIncludesChain(t *testing.T) {
	inner := New(CodeDependency, "fetch inventory")
	wrapped := fmt.Errorf("assembling context: %w", inner)

	d := Dump(wrapped)
	if d.Code != CodeDependency {
		t.Fatalf("unexpected code %s", d.Code)
	}
	if len(d.Chain) < 2 {
		t.Fatalf("expected unwrap chain, got %v", d.Chain)
	}
}
