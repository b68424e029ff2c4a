package bexprerrors

import (
	"strings"
	"testing"

	"github.com/cwbudde/bindexpr/internal/token"
)

func TestLexErrorRendersMessageAndCaret(t *testing.T) {
	src := "1 + @"
	err := NewLexError(src, "unexpected character '@'", token.Position{Line: 1, Column: 5})
	got := err.Error()

	if !strings.HasPrefix(got, "lex error at 1:5: unexpected character '@'") {
		t.Errorf("got %q, want prefix %q", got, "lex error at 1:5: unexpected character '@'")
	}
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %q", len(lines), got)
	}
	if lines[1] != src {
		t.Errorf("source line = %q, want %q", lines[1], src)
	}
	if lines[2] != "    ^" {
		t.Errorf("caret line = %q, want %q", lines[2], "    ^")
	}
}

func TestParseErrorRendersWithoutSourceWhenEmpty(t *testing.T) {
	err := NewParseError("", "unexpected EOF", token.Position{Line: 1, Column: 1})
	got := err.Error()
	if got != "parse error at 1:1: unexpected EOF" {
		t.Errorf("got %q", got)
	}
	if strings.Contains(got, "\n") {
		t.Errorf("got %q, want no source/caret block for empty source", got)
	}
}

func TestCompileErrorRendersKindAndPosition(t *testing.T) {
	src := "1 = 2"
	err := NewCompileError(src, "invalid assignment target", token.Position{Line: 1, Column: 1})
	got := err.Error()
	if !strings.HasPrefix(got, "compile error at 1:1: invalid assignment target") {
		t.Errorf("got %q", got)
	}
}

func TestLineOutOfRangeOmitsSourceBlock(t *testing.T) {
	err := NewLexError("one line", "bad token", token.Position{Line: 5, Column: 1})
	got := err.Error()
	if strings.Contains(got, "\n") {
		t.Errorf("got %q, want no source block for an out-of-range line", got)
	}
}

func TestSecurityErrorMessage(t *testing.T) {
	err := NewSecurityError("referencing window is disallowed")
	if got, want := err.Error(), "security error: referencing window is disallowed"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDigestLimitErrorMessage(t *testing.T) {
	err := NewDigestLimitError(10)
	if got, want := err.Error(), "digest did not converge after 10 iterations"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if err.Iterations != 10 {
		t.Errorf("Iterations = %d, want 10", err.Iterations)
	}
}

func TestMultiLineSourcePicksCorrectLine(t *testing.T) {
	src := "a\nb +\nc"
	err := NewParseError(src, "unexpected token", token.Position{Line: 2, Column: 3})
	got := err.Error()
	lines := strings.Split(got, "\n")
	if lines[1] != "b +" {
		t.Errorf("source line = %q, want %q", lines[1], "b +")
	}
	if lines[2] != "  ^" {
		t.Errorf("caret line = %q, want %q", lines[2], "  ^")
	}
}
