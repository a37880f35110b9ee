package email

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/imflib/imf/rfc5322"
)

func render(t *testing.T, e *Email) string {
	t.Helper()
	var b bytes.Buffer
	n, err := e.WriteTo(&b)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if n != int64(b.Len()) {
		t.Fatalf("wrote %d bytes but reported %d", b.Len(), n)
	}
	return b.String()
}

func TestCompose(t *testing.T) {
	e, err := New("nobody@localhost")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	e.SetDate(time.Date(2021, time.December, 25, 16, 0, 0, 0, time.UTC))
	if err := e.SetSubject("Hi"); err != nil {
		t.Fatalf("set subject: %v", err)
	}
	if err := e.SetBody("Hello\r\n"); err != nil {
		t.Fatalf("set body: %v", err)
	}

	out := render(t, e)
	if !strings.HasPrefix(out, "Date: Sat, 25 Dec 2021 16:00:00 +0000\r\nFrom: nobody@localhost\r\n") {
		t.Fatalf("unexpected prefix: %q", out)
	}
	if !strings.Contains(out, "Subject: Hi\r\n") {
		t.Fatalf("missing subject: %q", out)
	}
	if !strings.HasSuffix(out, "\r\n\r\nHello\r\n") {
		t.Fatalf("unexpected suffix: %q", out)
	}

	// The generated Message-ID lives under the originator domain.
	id, ok := e.MessageID()
	if !ok {
		t.Fatalf("missing message-id")
	}
	if !strings.HasSuffix(id.String(), "@localhost>") {
		t.Fatalf("message-id %q", id.String())
	}

	// The serialized form parses back to the same bytes.
	e2, err := Parse([]byte(out))
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if out2 := render(t, e2); out2 != out {
		t.Fatalf("round trip:\ngot      %q\nexpected %q", out2, out)
	}
}

func TestSettersValidate(t *testing.T) {
	e, err := New("mary@x.test")
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if err := e.SetTo("jdoe@example.org, Mary <mary@x.test>"); err != nil {
		t.Fatalf("set to: %v", err)
	}
	to, ok := e.To()
	if !ok || len(to) != 2 {
		t.Fatalf("to: %v %v", to, ok)
	}

	// Trailing garbage after a valid value is rejected with the offset.
	err = e.SetSender("mike@optcomp.nz[.xyz]")
	var te *rfc5322.TrailingInputError
	if !errors.As(err, &te) {
		t.Fatalf("expected TrailingInputError, got %v", err)
	}
	if te.Name != "Sender" {
		t.Fatalf("got %+v", te)
	}
	if _, ok := e.Sender(); ok {
		t.Fatalf("sender must stay unset after failed set")
	}

	if err := e.SetSender("mike@optcomp.nz"); err != nil {
		t.Fatalf("set sender: %v", err)
	}
	if s, ok := e.Sender(); !ok || s.Spec().String() != "mike@optcomp.nz" {
		t.Fatalf("sender: %v %v", s, ok)
	}
	e.UnsetSender()
	if _, ok := e.Sender(); ok {
		t.Fatalf("sender still set after unset")
	}

	// A broken msg-id after a valid one surfaces the committed parse error,
	// not a leftover-input error.
	err = e.SetReferences("<a@b.c> <left@")
	var pe *rfc5322.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if errors.As(err, &te) {
		t.Fatalf("expected no TrailingInputError, got %v", err)
	}
	if _, ok := e.References(); ok {
		t.Fatalf("references must stay unset after failed set")
	}

	if err := e.SetBody("raw\nnewline"); err == nil {
		t.Fatalf("expected error for bare LF in body")
	}
	if err := e.SetSubject("bad\x00subject"); err == nil {
		t.Fatalf("expected error for NUL in subject")
	}
}

func TestRepeatableFields(t *testing.T) {
	e, err := New("mary@x.test")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := e.AddComments("first"); err != nil {
		t.Fatalf("add comments: %v", err)
	}
	if err := e.AddComments("second"); err != nil {
		t.Fatalf("add comments: %v", err)
	}
	if got := e.Comments(); len(got) != 2 || got[1] != "second" {
		t.Fatalf("comments %v", got)
	}

	if err := e.AddKeywords("fish, chips"); err != nil {
		t.Fatalf("add keywords: %v", err)
	}
	if got := e.Keywords(); len(got) != 2 || got[0] != "fish" {
		t.Fatalf("keywords %v", got)
	}

	if err := e.AddOptionalField("X-Mailer", "frobnicator 2.1"); err != nil {
		t.Fatalf("add optional: %v", err)
	}
	if got := e.OptionalFields(); len(got) != 1 || got[0][0] != "X-Mailer" {
		t.Fatalf("optional %v", got)
	}
	if err := e.AddOptionalField("bad name", "x"); err == nil {
		t.Fatalf("expected error for space in field name")
	}

	out := render(t, e)
	if !strings.Contains(out, "Comments: first\r\nComments: second\r\nKeywords: fish, chips\r\nX-Mailer: frobnicator 2.1\r\n") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestParsePreservesTrace(t *testing.T) {
	in := "Received: from relay;25 Dec 2021 16:00:00 +0000\r\n" +
		"Resent-From: mary@x.test\r\n" +
		"Date: Sat, 25 Dec 2021 16:00:00 +0000\r\n" +
		"From: john@x.test\r\n" +
		"\r\n" +
		"Body text."
	e, err := Parse([]byte(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if out := render(t, e); out != in {
		t.Fatalf("round trip:\ngot      %q\nexpected %q", out, in)
	}
}
