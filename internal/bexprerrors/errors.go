// Package bexprerrors defines the error kinds raised by compilation and
// evaluation, formatted with source context the way a compiler diagnostic
// normally is.
package bexprerrors

import (
	"fmt"
	"strings"

	"github.com/cwbudde/bindexpr/internal/token"
)

// sourceError is the shared rendering for errors anchored to a source
// position: a one-line message followed by the offending source line and a
// caret pointing at the column.
type sourceError struct {
	kind    string
	message string
	source  string
	pos     token.Position
}

func (e *sourceError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s at %s: %s", e.kind, e.pos, e.message)
	if line := sourceLine(e.source, e.pos.Line); line != "" {
		sb.WriteByte('\n')
		sb.WriteString(line)
		sb.WriteByte('\n')
		if e.pos.Column > 0 {
			sb.WriteString(strings.Repeat(" ", e.pos.Column-1))
		}
		sb.WriteByte('^')
	}
	return sb.String()
}

func sourceLine(source string, line int) string {
	if source == "" || line < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}

// LexError reports a malformed literal, unknown character, or unmatched
// quote found during tokenization. Fatal to compilation.
type LexError struct{ *sourceError }

// NewLexError builds a LexError anchored at pos within source.
func NewLexError(source, message string, pos token.Position) *LexError {
	return &LexError{&sourceError{kind: "lex error", message: message, source: source, pos: pos}}
}

// ParseError reports a missing expected token, unknown character reaching
// the parser, or an unmatched bracket. Fatal to compilation.
type ParseError struct{ *sourceError }

// NewParseError builds a ParseError anchored at pos within source.
func NewParseError(source, message string, pos token.Position) *ParseError {
	return &ParseError{&sourceError{kind: "parse error", message: message, source: source, pos: pos}}
}

// CompileError reports an AST that cannot be lowered: an unassignable
// assignment target, or an unknown AST variant reaching the evaluator
// builder. Fatal to compilation.
type CompileError struct{ *sourceError }

// NewCompileError builds a CompileError anchored at pos within source.
func NewCompileError(source, message string, pos token.Position) *CompileError {
	return &CompileError{&sourceError{kind: "compile error", message: message, source: source, pos: pos}}
}

// SecurityError is raised by a sandbox guard when evaluation or assignment
// touches a blacklisted name, a host global, the function constructor, a
// DOM-shaped value, or a bound-call primitive.
type SecurityError struct {
	Message string
}

// NewSecurityError builds a SecurityError with the given message.
func NewSecurityError(message string) *SecurityError {
	return &SecurityError{Message: message}
}

func (e *SecurityError) Error() string {
	return "security error: " + e.Message
}

// DigestLimitError is raised when a digest's TTL loop fails to converge
// within the bounded number of outer iterations. Fatal to that digest only;
// the scope remains usable afterward.
type DigestLimitError struct {
	Iterations int
}

// NewDigestLimitError builds a DigestLimitError after the given number of
// outer TTL iterations were exhausted.
func NewDigestLimitError(iterations int) *DigestLimitError {
	return &DigestLimitError{Iterations: iterations}
}

func (e *DigestLimitError) Error() string {
	return fmt.Sprintf("digest did not converge after %d iterations", e.Iterations)
}
