package rfc5322

import (
	"errors"
	"testing"
)

func TestMsgID(t *testing.T) {
	id, rem, err := ParseMsgID([]byte(" <1234@local.machine.example> "))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rem) != 0 {
		t.Fatalf("remainder %q", rem)
	}
	if got := id.String(); got != "<1234@local.machine.example>" {
		t.Fatalf("String %q", got)
	}
	if out := serialize(t, id); out != " <1234@local.machine.example> " {
		t.Fatalf("serialized as %q", out)
	}

	// Literal right side.
	id, _, err = ParseMsgID([]byte("<abc@[10.0.0.1]>"))
	if err != nil {
		t.Fatalf("parse literal: %v", err)
	}
	if id.Literal == nil {
		t.Fatalf("expected literal right side")
	}
	if got := id.String(); got != "<abc@[10.0.0.1]>" {
		t.Fatalf("String %q", got)
	}

	// After "<" the msg-id must complete.
	for _, s := range []string{"<", "<left", "<left@", "<left@right"} {
		if _, _, err := ParseMsgID([]byte(s)); err == nil || notFound(err) {
			t.Fatalf("expected hard failure for %q, got %v", s, err)
		}
	}
	if _, _, err := ParseMsgID([]byte("no brackets")); !notFound(err) {
		t.Fatalf("expected soft failure, got %v", err)
	}
}

func TestFieldNameMatching(t *testing.T) {
	// Field names match case-insensitively and serialize canonically.
	f, rem, err := ParseField([]byte("DATE: 25 Dec 2021 16:00:00 +0000\r\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rem) != 0 {
		t.Fatalf("remainder %q", rem)
	}
	if _, ok := f.(OrigDate); !ok {
		t.Fatalf("expected OrigDate, got %T", f)
	}
	if out := serialize(t, f); out != "Date: 25 Dec 2021 16:00:00 +0000\r\n" {
		t.Fatalf("serialized as %q", out)
	}

	// A matched name with a bad value is a hard error naming the field.
	_, _, err = ParseField([]byte("Date: not a date\r\n"))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if pe.Production != "Date" {
		t.Fatalf("expected error naming Date, got %q", pe.Production)
	}
}

func TestAddressFields(t *testing.T) {
	roundtrip := func(s string) Field {
		t.Helper()
		f, rem, err := ParseField([]byte(s))
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", s, err)
		}
		if len(rem) != 0 {
			t.Fatalf("remainder %q for %q", rem, s)
		}
		if out := serialize(t, f); out != s {
			t.Fatalf("round trip for %q: got %q", s, out)
		}
		return f
	}

	f := roundtrip("From: Mary Smith <mary@x.test>, jdoe@example.org\r\n")
	from, ok := f.(From)
	if !ok {
		t.Fatalf("expected From, got %T", f)
	}
	if len(from.Value) != 2 {
		t.Fatalf("expected 2 mailboxes, got %d", len(from.Value))
	}

	roundtrip("Sender: mike@optcomp.nz\r\n")
	roundtrip("To: A Group:Ed <c@a.test>,joe@where.test;\r\n")
	roundtrip("Cc: one@x.org,two@y.org\r\n")
	roundtrip("Reply-To: \"Mary Smith: Personal Account\" <smith@home.example>\r\n")
}

func TestBcc(t *testing.T) {
	f, _, err := ParseField([]byte("Bcc: hidden@example.net\r\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	bcc, ok := f.(Bcc)
	if !ok {
		t.Fatalf("expected Bcc, got %T", f)
	}
	if bcc.Value.Addresses == nil {
		t.Fatalf("expected addresses")
	}

	// Bcc may be empty or white space only.
	f, _, err = ParseField([]byte("Bcc:\r\n"))
	if err != nil {
		t.Fatalf("parse empty: %v", err)
	}
	bcc = f.(Bcc)
	if bcc.Value.Addresses != nil || bcc.Value.WS != nil {
		t.Fatalf("expected empty value, got %+v", bcc.Value)
	}
	if out := serialize(t, f); out != "Bcc:\r\n" {
		t.Fatalf("serialized as %q", out)
	}

	f, _, err = ParseField([]byte("Bcc: \r\n"))
	if err != nil {
		t.Fatalf("parse white space: %v", err)
	}
	bcc = f.(Bcc)
	if bcc.Value.WS == nil {
		t.Fatalf("expected white-space value")
	}
}

func TestIdentificationFields(t *testing.T) {
	f, _, err := ParseField([]byte("References: <a@x.org> <b@y.org>\r\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	refs, ok := f.(References)
	if !ok {
		t.Fatalf("expected References, got %T", f)
	}
	if len(refs.IDs) != 2 {
		t.Fatalf("expected 2 ids, got %d", len(refs.IDs))
	}
	if out := serialize(t, f); out != "References: <a@x.org> <b@y.org>\r\n" {
		t.Fatalf("serialized as %q", out)
	}

	// At least one msg-id is required.
	if _, _, err := ParseField([]byte("In-Reply-To:\r\n")); err == nil || notFound(err) {
		t.Fatalf("expected hard failure, got %v", err)
	}
}

func TestKeywords(t *testing.T) {
	f, _, err := ParseField([]byte("Keywords: fish, chips,vinegar\r\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	kw, ok := f.(Keywords)
	if !ok {
		t.Fatalf("expected Keywords, got %T", f)
	}
	if len(kw.Phrases) != 3 {
		t.Fatalf("expected 3 phrases, got %d", len(kw.Phrases))
	}
	if got := kw.Phrases[1].Text(); got != "chips" {
		t.Fatalf("phrase text %q", got)
	}
}

func TestOptionalField(t *testing.T) {
	f, rem, err := ParseField([]byte("X-Mailer: frobnicator 2.1\r\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rem) != 0 {
		t.Fatalf("remainder %q", rem)
	}
	of, ok := f.(OptionalField)
	if !ok {
		t.Fatalf("expected OptionalField, got %T", f)
	}
	if string(of.Name) != "X-Mailer" {
		t.Fatalf("name %q", of.Name)
	}
	if got := of.Value.Text(); got != "frobnicator 2.1" {
		t.Fatalf("value %q", got)
	}
	// The original name casing is preserved.
	if out := serialize(t, f); out != "X-Mailer: frobnicator 2.1\r\n" {
		t.Fatalf("serialized as %q", out)
	}

	// A known name with unknown casing is still the known field, not an
	// extension field.
	f, _, err = ParseField([]byte("sUBJECT: hi\r\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, ok := f.(Subject); !ok {
		t.Fatalf("expected Subject, got %T", f)
	}
}

func TestResentFields(t *testing.T) {
	good := []string{
		"Resent-Date: 25 Dec 2021 16:00:00 +0000\r\n",
		"Resent-From: mary@x.test\r\n",
		"Resent-Sender: mary@x.test\r\n",
		"Resent-To: a@b.c\r\n",
		"Resent-Cc: a@b.c\r\n",
		"Resent-Bcc:\r\n",
		"Resent-Message-ID: <78910@example.net>\r\n",
	}
	for _, s := range good {
		f, rem, err := parseResentField([]byte(s))
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", s, err)
		}
		if len(rem) != 0 {
			t.Fatalf("remainder %q for %q", rem, s)
		}
		if out := serialize(t, f); out != s {
			t.Fatalf("round trip for %q: got %q", s, out)
		}
	}

	if _, _, err := parseResentField([]byte("From: a@b.c\r\n")); !notFound(err) {
		t.Fatalf("expected soft failure for ordinary field, got %v", err)
	}
}
