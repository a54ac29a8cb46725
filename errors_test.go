package treequery

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrPathSyntax(t *testing.T) {
	t.Parallel()

	if ErrPathSyntax == nil {
		t.Fatal("ErrPathSyntax should not be nil")
	}
	if got := ErrPathSyntax.Error(); got != "treequery: invalid path expression" {
		t.Fatalf("ErrPathSyntax.Error() = %q, want %q", got, "treequery: invalid path expression")
	}
}

func TestErrPathSyntaxWrapping(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("loading config: %w", ErrPathSyntax)
	if !errors.Is(wrapped, ErrPathSyntax) {
		t.Fatal("wrapped error should match ErrPathSyntax via errors.Is")
	}
}

func TestParseErrorsWrapSentinel(t *testing.T) {
	t.Parallel()

	for _, expr := range []string{"", "store", "$[", "$..", "$[?(@.a)]"} {
		_, err := Parse(expr)
		if err == nil {
			t.Fatalf("Parse(%q) should fail", expr)
		}
		if !errors.Is(err, ErrPathSyntax) {
			t.Fatalf("Parse(%q) error should wrap ErrPathSyntax, got %v", expr, err)
		}
	}
}
