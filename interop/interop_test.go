package interop

import (
	"testing"

	"github.com/emersion/go-message/mail"

	"github.com/imflib/imf/rfc5322"
)

func TestAddresses(t *testing.T) {
	l, err := rfc5322.ParseExact("To", []byte("Mary Smith <mary@x.test>, friends:a@b.c,d@e.f;, jdoe@example.org"), rfc5322.ParseAddressList)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got := Addresses(l)
	if len(got) != 4 {
		t.Fatalf("expected 4 addresses, got %d", len(got))
	}
	if got[0].Name != "Mary Smith" || got[0].Address != "mary@x.test" {
		t.Fatalf("first address %+v", got[0])
	}
	if got[1].Address != "a@b.c" || got[2].Address != "d@e.f" {
		t.Fatalf("group members %+v %+v", got[1], got[2])
	}
	if got[3].Name != "" || got[3].Address != "jdoe@example.org" {
		t.Fatalf("last address %+v", got[3])
	}
}

func TestFromAddress(t *testing.T) {
	check := func(in mail.Address, expect string) {
		t.Helper()
		m, err := FromAddress(&in)
		if err != nil {
			t.Fatalf("convert %+v: %v", in, err)
		}
		var got string
		if m.NameAddr != nil {
			got = m.DisplayNameText() + " <" + m.Spec().String() + ">"
		} else {
			got = m.Spec().String()
		}
		if got != expect {
			t.Fatalf("got %q, expected %q", got, expect)
		}
	}

	check(mail.Address{Address: "jdoe@example.org"}, "jdoe@example.org")
	check(mail.Address{Name: "Mary Smith", Address: "mary@x.test"}, "Mary Smith <mary@x.test>")
	check(mail.Address{Name: "Smith, Mary", Address: "mary@x.test"}, "Smith, Mary <mary@x.test>")
	check(mail.Address{Name: `Quote"Me`, Address: "q@x.test"}, `Quote"Me <q@x.test>`)

	if _, err := FromAddress(&mail.Address{Address: "not an address"}); err == nil {
		t.Fatalf("expected error for invalid address")
	}
}

func TestDomains(t *testing.T) {
	// Wire form is 7-bit, so internationalized domains arrive as A-labels.
	m, err := rfc5322.ParseExact("m", []byte("info@xn--bcher-kva.example"), rfc5322.ParseMailbox)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ascii, err := ASCIIDomain(m)
	if err != nil {
		t.Fatalf("ascii: %v", err)
	}
	if ascii != "xn--bcher-kva.example" {
		t.Fatalf("ascii %q", ascii)
	}
	uni, err := UnicodeDomain(m)
	if err != nil {
		t.Fatalf("unicode: %v", err)
	}
	if uni != "bücher.example" {
		t.Fatalf("unicode %q", uni)
	}

	// Address literals pass through untouched.
	m, err = rfc5322.ParseExact("m", []byte("root@[10.0.0.1]"), rfc5322.ParseMailbox)
	if err != nil {
		t.Fatalf("parse literal: %v", err)
	}
	if got, err := ASCIIDomain(m); err != nil || got != "[10.0.0.1]" {
		t.Fatalf("literal: %q, %v", got, err)
	}
}
