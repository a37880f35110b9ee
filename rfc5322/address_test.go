package rfc5322

import (
	"testing"
)

func TestAddrSpec(t *testing.T) {
	roundtrip := func(s string) {
		t.Helper()
		a, rem, err := ParseAddrSpec([]byte(s))
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", s, err)
		}
		if len(rem) != 0 {
			t.Fatalf("remainder %q for %q", rem, s)
		}
		if out := serialize(t, a); out != s {
			t.Fatalf("round trip for %q: got %q", s, out)
		}
	}

	bad := func(s string) {
		t.Helper()
		if _, _, err := ParseAddrSpec([]byte(s)); err == nil {
			t.Fatalf("did not see expected error for %q", s)
		}
	}

	roundtrip("joe.smith@gmail.com")
	roundtrip(`"joe smith"@example.org`)
	roundtrip("j@[10.0.0.1]")
	bad("joe.smith")   // no @domain
	bad("@gmail.com")  // no local part
	bad("joe@")        // no domain

	// Byte-for-byte serialization with exact count.
	a, _, err := ParseAddrSpec([]byte("joe.smith@gmail.com"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if out := serialize(t, a); len(out) != 19 {
		t.Fatalf("expected 19 bytes, got %d (%q)", len(out), out)
	}
	if a.String() != "joe.smith@gmail.com" {
		t.Fatalf("String: %q", a.String())
	}
}

func TestDomainLiteral(t *testing.T) {
	d, rem, err := ParseDomain([]byte("[192.168.0.1] rest"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Literal == nil {
		t.Fatalf("expected domain-literal variant")
	}
	if string(rem) != "rest" {
		t.Fatalf("remainder %q", rem)
	}
	if got := d.Text(); got != "[192.168.0.1]" {
		t.Fatalf("text %q", got)
	}

	// Unterminated literal is a hard error.
	if _, _, err := ParseDomainLiteral([]byte("[10.0")); notFound(err) {
		t.Fatalf("expected hard failure, got %v", err)
	}
}

func TestAngleAddr(t *testing.T) {
	a, rem, err := ParseAngleAddr([]byte(" <joe@x.org> tail"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if string(rem) != "tail" {
		t.Fatalf("remainder %q", rem)
	}
	if out := serialize(t, a); out != " <joe@x.org> " {
		t.Fatalf("serialized as %q", out)
	}

	// After "<" the addr-spec and ">" are required.
	if _, _, err := ParseAngleAddr([]byte("<joe@x.org")); notFound(err) {
		t.Fatalf("expected hard failure for missing '>', got %v", err)
	}
	if _, _, err := ParseAngleAddr([]byte("<>")); notFound(err) {
		t.Fatalf("expected hard failure for empty angle-addr, got %v", err)
	}
	// No "<" at all is soft.
	if _, _, err := ParseAngleAddr([]byte("joe@x.org")); !notFound(err) {
		t.Fatalf("expected soft failure, got %v", err)
	}
}

func TestMailbox(t *testing.T) {
	m, rem, err := ParseMailbox([]byte("Mary Smith <mary@x.test>"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rem) != 0 {
		t.Fatalf("remainder %q", rem)
	}
	if m.NameAddr == nil {
		t.Fatalf("expected name-addr variant")
	}
	if got := m.DisplayNameText(); got != "Mary Smith" {
		t.Fatalf("display name %q", got)
	}
	if got := m.Spec().String(); got != "mary@x.test" {
		t.Fatalf("spec %q", got)
	}
	if out := serialize(t, m); out != "Mary Smith <mary@x.test>" {
		t.Fatalf("serialized as %q", out)
	}

	// A bare addr-spec is the second alternative.
	m, _, err = ParseMailbox([]byte("jdoe@machine.example"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if m.AddrSpec == nil {
		t.Fatalf("expected addr-spec variant")
	}
	if got := m.Spec().String(); got != "jdoe@machine.example" {
		t.Fatalf("spec %q", got)
	}
}

func TestGroup(t *testing.T) {
	g, rem, err := ParseAddress([]byte("A Group:Ed Jones <c@a.test>,joe@where.test;"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rem) != 0 {
		t.Fatalf("remainder %q", rem)
	}
	if g.Group == nil {
		t.Fatalf("expected group variant")
	}
	if n := len(g.Group.List.Mailboxes); n != 2 {
		t.Fatalf("expected 2 mailboxes, got %d", n)
	}
	if out := serialize(t, g.Group); out != "A Group:Ed Jones <c@a.test>,joe@where.test;" {
		t.Fatalf("serialized as %q", out)
	}

	// Empty group.
	g, _, err = ParseAddress([]byte("Undisclosed recipients:;"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if g.Group == nil || g.Group.List != nil {
		t.Fatalf("expected empty group")
	}

	// The ";" is required once the ":" committed the group.
	if _, _, err := ParseAddress([]byte("Broken:a@b.c")); err == nil || notFound(err) {
		t.Fatalf("expected hard failure for unterminated group, got %v", err)
	}
}

func TestMailboxList(t *testing.T) {
	l, rem, err := ParseMailboxList([]byte("a@x.org, b@y.org,c@z.org"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rem) != 0 {
		t.Fatalf("remainder %q", rem)
	}
	if len(l) != 3 {
		t.Fatalf("expected 3 mailboxes, got %d", len(l))
	}
	if out := serialize(t, l); out != "a@x.org, b@y.org,c@z.org" {
		t.Fatalf("serialized as %q", out)
	}

	// A trailing comma stays in the remainder.
	l, rem, err = ParseMailboxList([]byte("a@x.org,"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(l) != 1 || string(rem) != "," {
		t.Fatalf("got %d mailboxes, remainder %q", len(l), rem)
	}
}

func TestAddressList(t *testing.T) {
	l, rem, err := ParseAddressList([]byte("Mary <mary@x.test>, friends:a@b.c;, jdoe@example.org"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rem) != 0 {
		t.Fatalf("remainder %q", rem)
	}
	if len(l) != 3 {
		t.Fatalf("expected 3 addresses, got %d", len(l))
	}
	if l[0].Mailbox == nil || l[1].Group == nil || l[2].Mailbox == nil {
		t.Fatalf("wrong variants parsed")
	}
}
