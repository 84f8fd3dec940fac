package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	base := New(KindAnalysis, "request failed")
	if KindOf(base) != KindAnalysis {
		t.Fatalf("KindOf=%v want analysis", KindOf(base))
	}

	wrapped := fmt.Errorf("outer: %w", base)
	if KindOf(wrapped) != KindAnalysis {
		t.Fatalf("kind must survive wrapping, got %v", KindOf(wrapped))
	}

	if KindOf(errors.New("plain")) != KindUnknown {
		t.Fatal("untagged errors must map to unknown")
	}
	if !IsKind(base, KindAnalysis) || IsKind(base, KindInsight) {
		t.Fatal("IsKind mismatch")
	}
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(KindAnalysis, "analysis request failed", cause)
	if !errors.Is(err, cause) {
		t.Fatal("cause lost")
	}
	if Wrap(KindAnalysis, "x", nil) != nil {
		t.Fatal("Wrap(nil) must be nil")
	}
}

func TestHint_CoversClassifiedKinds(t *testing.T) {
	for _, kind := range []Kind{KindConfiguration, KindContextBuild, KindValidation, KindAnalysis, KindInsight, KindFileProcessing} {
		if Hint(kind) == "" {
			t.Errorf("no hint for %v", kind)
		}
	}
	if Hint(KindUnknown) != "" {
		t.Error("unknown kind must not carry a hint")
	}
}
