package main

import (
	"testing"
)

func TestToCRLF(t *testing.T) {
	check := func(in, exp string) {
		t.Helper()
		got := string(toCRLF([]byte(in)))
		if got != exp {
			t.Fatalf("toCRLF(%q): got %q, expected %q", in, got, exp)
		}
	}

	check("", "")
	check("a\nb\n", "a\r\nb\r\n")
	check("a\r\nb\r\n", "a\r\nb\r\n")
	check("a\nb\r\nc\n", "a\r\nb\r\nc\r\n")
	check("\n", "\r\n")
	check("no newline", "no newline")
}

func TestParseMessageCmd(t *testing.T) {
	msg := "From: a@b.c\r\n\r\nhi\r\n"
	if _, err := parseMessage([]byte(msg)); err != nil {
		t.Fatalf("parsing message: %v", err)
	}
	if _, err := parseMessage([]byte("not a message")); err == nil {
		t.Fatalf("parsing bogus message did not fail")
	}
}
