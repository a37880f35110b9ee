package rfc5322

import (
	"testing"
	"time"
)

func TestDateTime(t *testing.T) {
	roundtrip := func(s string) DateTime {
		t.Helper()
		d, rem, err := ParseDateTime([]byte(s))
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", s, err)
		}
		if len(rem) != 0 {
			t.Fatalf("remainder %q for %q", rem, s)
		}
		if out := serialize(t, d); out != s {
			t.Fatalf("round trip for %q: got %q", s, out)
		}
		return d
	}

	d := roundtrip("Tue, 25 Dec 2021 16:00:00 +0000")
	if d.DayOfWeek == nil || d.DayOfWeek.Day != 2 {
		t.Fatalf("day of week: %+v", d.DayOfWeek)
	}
	want := time.Date(2021, time.December, 25, 16, 0, 0, 0, time.UTC)
	if !d.AsTime().Equal(want) {
		t.Fatalf("time: got %v, expected %v", d.AsTime(), want)
	}

	roundtrip("1 Jan 2000 00:00 -0730")
	roundtrip("25 Dec 2021 16:00:00 +0000")

	d = roundtrip("7 Nov 1997 09:55:06 -0600")
	if d.DayOfWeek != nil {
		t.Fatalf("unexpected day of week")
	}
	if off := d.Time.Zone.Minutes(); off != -360 {
		t.Fatalf("zone offset %d, expected -360", off)
	}

	bad := func(s string) {
		t.Helper()
		if _, _, err := ParseDateTime([]byte(s)); err == nil {
			t.Fatalf("did not see expected error for %q", s)
		}
	}

	bad("Tue 25 Dec 2021 16:00:00 +0000") // day name without comma
	bad("25 Dec 21 16:00:00 +0000")       // two-digit year
	bad("25 Dec 2021 16:00:00")           // missing zone
	bad("25 Dec 2021 16:00:00 0000")      // zone without sign
	bad("25 Dec 2021 16:0:00 +0000")      // one-digit minute
	bad("25 Foo 2021 16:00:00 +0000")     // unknown month
}

func TestDay(t *testing.T) {
	d, rem, err := ParseDay([]byte(" 7 Nov"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Value != 7 || string(rem) != "Nov" {
		t.Fatalf("got %d, remainder %q", d.Value, rem)
	}

	// A zero-padded day is accepted and serializes without the padding.
	d, _, err = ParseDay([]byte(" 01 "))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Value != 1 {
		t.Fatalf("got %d", d.Value)
	}
	if out := serialize(t, d); out != " 1 " {
		t.Fatalf("serialized as %q", out)
	}

	// Three digits are too many, and the trailing white space is required.
	if _, _, err := ParseDay([]byte("123 ")); err == nil {
		t.Fatalf("expected error for three-digit day")
	}
	if _, _, err := ParseDay([]byte("7Nov")); err == nil {
		t.Fatalf("expected error for missing white space")
	}
}

func TestZone(t *testing.T) {
	z, _, err := ParseZone([]byte(" -0600"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !z.Neg || z.Hours != 6 || z.Mins != 0 {
		t.Fatalf("got %+v", z)
	}
	if out := serialize(t, z); out != " -0600" {
		t.Fatalf("serialized as %q", out)
	}

	// Leading white space is part of the production.
	if _, _, err := ParseZone([]byte("+0000")); !notFound(err) {
		t.Fatalf("expected soft failure, got %v", err)
	}
	// Exactly four digits.
	if _, _, err := ParseZone([]byte(" +000")); err == nil {
		t.Fatalf("expected error for three-digit zone")
	}
}
