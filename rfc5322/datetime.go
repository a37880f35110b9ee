package rfc5322

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Date and time productions. Digit counts are exact and month/day names come
// from fixed tables; range checking beyond that (e.g. day 32, hour 25) is
// left to the caller, calendar validation is out of scope here.

var dayNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
var monthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// nameIndex looks up the three-letter name starting in, case-insensitively.
// Returns the 1-based index.
func nameIndex(in []byte, table []string) (int, []byte, bool) {
	if len(in) < 3 {
		return 0, in, false
	}
	s := string(in[:3])
	for i, name := range table {
		if strings.EqualFold(s, name) {
			return i + 1, in[3:], true
		}
	}
	return 0, in, false
}

// DayOfWeek is a day name, 1 (Mon) through 7 (Sun).
//
//	day-of-week = ([FWS] day-name) / obs-day-of-week
type DayOfWeek struct {
	PreFWS bool
	Day    int
}

func ParseDayOfWeek(in []byte) (DayOfWeek, []byte, error) {
	rem, pre := fws(in)
	day, rem, ok := nameIndex(rem, dayNames[:])
	if !ok {
		if len(in) == 0 {
			return DayOfWeek{}, in, ErrEOF
		}
		return DayOfWeek{}, in, ErrNotFound
	}
	return DayOfWeek{pre, day}, rem, nil
}

func (d DayOfWeek) WriteTo(w io.Writer) (int64, error) {
	return writeAll(w, cond(d.PreFWS, " "), lit(dayNames[d.Day-1]))
}

// Day is a day of month. The grammar requires white space after the digits.
// Serialization writes the value without zero padding, so a parsed "01"
// comes back as "1". Like the whitespace normalization, already-normalized
// input round-trips byte for byte.
//
//	day = ([FWS] 1*2DIGIT FWS) / obs-day
type Day struct {
	PreFWS bool
	Value  int
}

func ParseDay(in []byte) (Day, []byte, error) {
	rem, pre := fws(in)
	v, rem, err := takeDigits(rem, 1, 2)
	if err != nil {
		return Day{}, in, err
	}
	rem, ok := fws(rem)
	if !ok {
		return Day{}, in, ExpectedError{" "}
	}
	return Day{pre, v}, rem, nil
}

func (d Day) WriteTo(w io.Writer) (int64, error) {
	return writeAll(w, cond(d.PreFWS, " "), lit(fmt.Sprintf("%d ", d.Value)))
}

// Month is a month name, 1 (Jan) through 12 (Dec).
type Month int

func ParseMonth(in []byte) (Month, []byte, error) {
	m, rem, ok := nameIndex(in, monthNames[:])
	if !ok {
		if len(in) == 0 {
			return 0, in, ErrEOF
		}
		return 0, in, ErrNotFound
	}
	return Month(m), rem, nil
}

func (m Month) WriteTo(w io.Writer) (int64, error) {
	return writeStr(w, monthNames[m-1])
}

func (m Month) String() string {
	return monthNames[m-1]
}

// Year is a four-or-more digit year with required surrounding white space.
//
//	year = (FWS 4*DIGIT FWS) / obs-year
type Year struct {
	Value int
}

func ParseYear(in []byte) (Year, []byte, error) {
	rem, ok := fws(in)
	if !ok {
		if len(in) == 0 {
			return Year{}, in, ErrEOF
		}
		return Year{}, in, ErrNotFound
	}
	v, rem, err := takeDigits(rem, 4, 8)
	if err != nil {
		return Year{}, in, err
	}
	rem, ok = fws(rem)
	if !ok {
		return Year{}, in, ExpectedError{" "}
	}
	return Year{v}, rem, nil
}

func (y Year) WriteTo(w io.Writer) (int64, error) {
	return writeStr(w, fmt.Sprintf(" %04d ", y.Value))
}

// Date is a calendar date.
//
//	date = day month year
type Date struct {
	Day   Day
	Month Month
	Year  Year
}

func ParseDate(in []byte) (Date, []byte, error) {
	d, rem, err := ParseDay(in)
	if err != nil {
		return Date{}, in, err
	}
	m, rem, err := ParseMonth(rem)
	if err != nil {
		return Date{}, in, err
	}
	y, rem, err := ParseYear(rem)
	if err != nil {
		return Date{}, in, err
	}
	return Date{d, m, y}, rem, nil
}

func (d Date) WriteTo(w io.Writer) (int64, error) {
	return writeAll(w, d.Day, d.Month, d.Year)
}

// TimeOfDay is a wall-clock time. Seconds are optional in the grammar.
//
//	time-of-day = hour ":" minute [ ":" second ]
type TimeOfDay struct {
	Hour   int
	Minute int
	Second *int
}

func ParseTimeOfDay(in []byte) (TimeOfDay, []byte, error) {
	h, rem, err := takeDigits(in, 2, 2)
	if err != nil {
		return TimeOfDay{}, in, err
	}
	rem, err = takeByte(rem, ':')
	if err != nil {
		return TimeOfDay{}, in, err
	}
	m, rem, err := takeDigits(rem, 2, 2)
	if err != nil {
		return TimeOfDay{}, in, err
	}
	t := TimeOfDay{Hour: h, Minute: m}
	if r, err := takeByte(rem, ':'); err == nil {
		s, r, err := takeDigits(r, 2, 2)
		if err == nil {
			t.Second = &s
			rem = r
		}
	}
	return t, rem, nil
}

func (t TimeOfDay) WriteTo(w io.Writer) (int64, error) {
	s := fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
	if t.Second != nil {
		s += fmt.Sprintf(":%02d", *t.Second)
	}
	return writeStr(w, s)
}

// Zone is a numeric time zone. The leading white space is part of the
// production and required.
//
//	zone = (FWS ( "+" / "-" ) 4DIGIT) / obs-zone
type Zone struct {
	Neg   bool
	Hours int
	Mins  int
}

func ParseZone(in []byte) (Zone, []byte, error) {
	rem, ok := fws(in)
	if !ok {
		if len(in) == 0 {
			return Zone{}, in, ErrEOF
		}
		return Zone{}, in, ErrNotFound
	}
	var neg bool
	switch {
	case len(rem) > 0 && rem[0] == '+':
		rem = rem[1:]
	case len(rem) > 0 && rem[0] == '-':
		neg = true
		rem = rem[1:]
	default:
		return Zone{}, in, ErrNotFound
	}
	v, rem, err := takeDigits(rem, 4, 4)
	if err != nil {
		return Zone{}, in, err
	}
	return Zone{neg, v / 100, v % 100}, rem, nil
}

func (z Zone) WriteTo(w io.Writer) (int64, error) {
	sign := "+"
	if z.Neg {
		sign = "-"
	}
	return writeStr(w, fmt.Sprintf(" %s%02d%02d", sign, z.Hours, z.Mins))
}

// Minutes returns the offset east of UTC in minutes.
func (z Zone) Minutes() int {
	m := z.Hours*60 + z.Mins
	if z.Neg {
		return -m
	}
	return m
}

// Time is a time of day with its zone.
//
//	time = time-of-day zone
type Time struct {
	TimeOfDay TimeOfDay
	Zone      Zone
}

func ParseTime(in []byte) (Time, []byte, error) {
	t, rem, err := ParseTimeOfDay(in)
	if err != nil {
		return Time{}, in, err
	}
	z, rem, err := ParseZone(rem)
	if err != nil {
		return Time{}, in, err
	}
	return Time{t, z}, rem, nil
}

func (t Time) WriteTo(w io.Writer) (int64, error) {
	return writeAll(w, t.TimeOfDay, t.Zone)
}

// DateTime is a full date and time with optional leading day of week.
//
//	date-time = [ day-of-week "," ] date time [CFWS]
type DateTime struct {
	DayOfWeek *DayOfWeek
	Date      Date
	Time      Time
	Post      *CFWS
}

func ParseDateTime(in []byte) (DateTime, []byte, error) {
	var dt DateTime
	rem := in
	// A day name is only a day-of-week if a comma follows; otherwise restart
	// from the beginning, the token belongs to another production.
	if dow, r, err := ParseDayOfWeek(in); err == nil {
		if r, err := takeByte(r, ','); err == nil {
			dt.DayOfWeek = &dow
			rem = r
		}
	} else if !notFound(err) {
		return DateTime{}, in, err
	}
	d, rem, err := ParseDate(rem)
	if err != nil {
		return DateTime{}, in, err
	}
	t, rem, err := ParseTime(rem)
	if err != nil {
		return DateTime{}, in, err
	}
	post, rem, err := optCFWS(rem)
	if err != nil {
		return DateTime{}, in, err
	}
	dt.Date = d
	dt.Time = t
	dt.Post = post
	return dt, rem, nil
}

func (d DateTime) WriteTo(w io.Writer) (int64, error) {
	parts := make([]io.WriterTo, 0, 5)
	if d.DayOfWeek != nil {
		parts = append(parts, d.DayOfWeek, lit(","))
	}
	parts = append(parts, d.Date, d.Time, opt(d.Post))
	return writeAll(w, parts...)
}

// AsTime converts to a time.Time in a fixed zone. Out-of-range components
// are normalized the way time.Date normalizes them.
func (d DateTime) AsTime() time.Time {
	sec := 0
	if d.Time.TimeOfDay.Second != nil {
		sec = *d.Time.TimeOfDay.Second
	}
	loc := time.FixedZone("", d.Time.Zone.Minutes()*60)
	return time.Date(d.Date.Year.Value, time.Month(d.Date.Month), d.Date.Day.Value, d.Time.TimeOfDay.Hour, d.Time.TimeOfDay.Minute, sec, 0, loc)
}
