package token

import "testing"

func TestTypeStringKnownAndUnknown(t *testing.T) {
	if got, want := PLUS.String(), "+"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got, want := SEQ.String(), "==="; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got := Type(999).String(); got != "Type(999)" {
		t.Errorf("got %q, want %q", got, "Type(999)")
	}
}

func TestPositionString(t *testing.T) {
	p := Position{Offset: 12, Line: 3, Column: 7}
	if got, want := p.String(), "3:7"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestIsIdentifier(t *testing.T) {
	if !(Token{Type: IDENT}).IsIdentifier() {
		t.Error("IDENT token should report IsIdentifier() == true")
	}
	if (Token{Type: NUMBER}).IsIdentifier() {
		t.Error("NUMBER token should report IsIdentifier() == false")
	}
}
