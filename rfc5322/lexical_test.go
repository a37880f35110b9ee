package rfc5322

import (
	"errors"
	"strings"
	"testing"
)

func TestFWS(t *testing.T) {
	good := func(s, rem string) {
		t.Helper()
		_, r, err := ParseFWS([]byte(s))
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", s, err)
		}
		if string(r) != rem {
			t.Fatalf("remainder for %q: got %q, expected %q", s, r, rem)
		}
	}

	bad := func(s string) {
		t.Helper()
		_, _, err := ParseFWS([]byte(s))
		if err == nil {
			t.Fatalf("did not see expected error for %q", s)
		}
		if !notFound(err) {
			t.Fatalf("expected soft failure for %q, got %v", s, err)
		}
	}

	good(" ", "")
	good("\t \t", "")
	good(" \r\n x", "x") // fold
	good("\r\n\ty", "y")
	good(" \r\nx", "\r\nx") // CRLF without following WSP is not a fold
	bad("")
	bad("x")
	bad("\r\nx") // fold requires WSP after CRLF
}

func TestQuotedPair(t *testing.T) {
	q, rem, err := ParseQuotedPair([]byte(`\"rest`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if q.C != '"' || string(rem) != "rest" {
		t.Fatalf(`got %q remainder %q, expected '"' and "rest"`, q.C, rem)
	}
	if s := serialize(t, q); s != `\"` {
		t.Fatalf(`serialize: got %q, expected \"`, s)
	}

	for _, s := range []string{"", `\`, "x", "\\\x00"} {
		if _, _, err := ParseQuotedPair([]byte(s)); err == nil {
			t.Fatalf("did not see expected error for %q", s)
		}
	}
}

func TestComment(t *testing.T) {
	roundtrip := func(s string) {
		t.Helper()
		c, rem, err := ParseComment([]byte(s))
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", s, err)
		}
		if len(rem) != 0 {
			t.Fatalf("remainder %q for %q", rem, s)
		}
		if out := serialize(t, c); out != s {
			t.Fatalf("round trip for %q: got %q", s, out)
		}
	}

	roundtrip("()")
	roundtrip("(hello)")
	roundtrip("(hello world)")
	roundtrip("(nested (deeply (thrice)))")
	roundtrip(`(escaped \) paren)`)
	roundtrip("( )")

	// Folding normalizes to single spaces.
	c, _, err := ParseComment([]byte("(fold\r\n here)"))
	if err != nil {
		t.Fatalf("parse folded comment: %v", err)
	}
	if out := serialize(t, c); out != "(fold here)" {
		t.Fatalf("folded comment serialized as %q", out)
	}

	// Missing ")" is a hard error, not a soft mismatch.
	_, _, err = ParseComment([]byte("(unterminated"))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError for unterminated comment, got %v", err)
	}
	if notFound(err) {
		t.Fatalf("unterminated comment must be a hard failure")
	}

	// Not a comment at all is soft.
	if _, _, err := ParseComment([]byte("x")); !notFound(err) {
		t.Fatalf("expected soft failure, got %v", err)
	}

	// Nesting beyond the depth limit errors instead of exhausting the stack.
	deep := strings.Repeat("(", 200) + strings.Repeat(")", 200)
	if _, _, err := ParseComment([]byte(deep)); err == nil || notFound(err) {
		t.Fatalf("expected hard failure for deep nesting, got %v", err)
	}
}

func TestCFWS(t *testing.T) {
	parse := func(s, rem, out string) {
		t.Helper()
		c, r, err := ParseCFWS([]byte(s))
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", s, err)
		}
		if string(r) != rem {
			t.Fatalf("remainder for %q: got %q, expected %q", s, r, rem)
		}
		if got := serialize(t, c); got != out {
			t.Fatalf("serialize for %q: got %q, expected %q", s, got, out)
		}
	}

	parse(" ", "", " ")
	parse(" \t ", "", " ")
	parse("(c)", "", "(c)")
	parse(" (c) ", "", " (c) ")
	parse("(a)(b)", "", "(a)(b)")
	parse(" \r\n (fold) \r\n x", "x", " (fold) ")
	parse(" x", "x", " ")

	if _, _, err := ParseCFWS([]byte("x")); !notFound(err) {
		t.Fatalf("expected soft failure, got %v", err)
	}
	if _, _, err := ParseCFWS([]byte(" (oops")); notFound(err) {
		t.Fatalf("expected hard failure for unterminated comment in CFWS")
	}
}
