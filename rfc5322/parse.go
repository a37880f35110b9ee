// Package rfc5322 implements a format-validating parser and serializer for
// Internet Message Format messages (RFC 5322, with the core lexical rules
// from RFC 5234).
//
// Each grammar production is its own Go type. A value of such a type can only
// be made by a successful parse, so holding one is proof the bytes it came
// from were grammar-valid. Each production has a parse function
//
//	ParseX(in []byte) (X, []byte, error)
//
// that consumes a prefix of in and returns the remainder, and each production
// implements io.WriterTo, writing itself back in wire form and returning the
// exact byte count written.
//
// Parsing is strict: CRLF line endings, 7-bit clean bodies, 998-byte line
// limit. Serialization reproduces canonical field names and normalizes
// folding whitespace and the whitespace around comments to single spaces,
// and zero-padded day-of-month digits to their plain value; it does not
// reproduce arbitrary original folding byte for byte.
//
// Alternatives in the grammar are tried in the order the RFC lists them, and
// the first one that matches wins. Where two alternatives share a prefix that
// order determines the parse, e.g. a mailbox with a display name parses as
// name-addr, never as a group's display-name.
package rfc5322

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEOF means input ran out while a production was still required.
	ErrEOF = errors.New("unexpected end of input")

	// ErrNotFound means the input at the current position does not start
	// this production. Ordered choice uses it to try the next alternative.
	ErrNotFound = errors.New("production not present")

	// ErrInvalidBodyChar means a message body contained a byte outside the
	// "text" character set (NUL, bare CR, bare LF, or a byte > 0x7f).
	ErrInvalidBodyChar = errors.New("invalid byte in message body")

	// ErrLineTooLong means a body line exceeded 998 bytes.
	ErrLineTooLong = errors.New("body line longer than 998 bytes")
)

// ExpectedError is returned when a specific literal was required at the
// current position, e.g. the closing quote of a quoted-string. It is a hard
// failure: ordered choice does not retry after it.
type ExpectedError struct {
	Text string
}

func (e ExpectedError) Error() string {
	return fmt.Sprintf("expected %q", e.Text)
}

// TrailingInputError is returned by ParseExact when a value parsed but did
// not consume all input, e.g. a Sender set from "mike@optcomp.nz[.xyz]".
type TrailingInputError struct {
	Name   string // Production or header the value was parsed for.
	Offset int    // Bytes consumed before the leftover input.
}

func (e *TrailingInputError) Error() string {
	return fmt.Sprintf("%s: trailing input after offset %d", e.Name, e.Offset)
}

// ParseError attaches the name of the failing production to the underlying
// cause, forming a chain from outermost (e.g. "From") to innermost. Once a
// production has committed (matched its field name or opening delimiter), its
// errors are wrapped in a ParseError and no longer backtracked.
type ParseError struct {
	Production string
	Err        error
}

func (e *ParseError) Error() string {
	return e.Production + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func parseError(production string, err error) error {
	return &ParseError{production, err}
}

// notFound reports whether err is a soft failure, i.e. whether an ordered
// choice may still try its next alternative. A ParseError means a production
// committed and failed, which is never retried.
func notFound(err error) bool {
	var pe *ParseError
	if errors.As(err, &pe) {
		return false
	}
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrEOF)
}

// ParseExact parses a complete value of a production: the parse must succeed
// and consume all of in. Used at conversion boundaries where a header value
// is built from a plain string.
func ParseExact[T any](name string, in []byte, parse func([]byte) (T, []byte, error)) (T, error) {
	v, rem, err := parse(in)
	if err != nil {
		var zero T
		var pe *ParseError
		if errors.As(err, &pe) {
			return zero, err
		}
		return zero, parseError(name, err)
	}
	if len(rem) != 0 {
		var zero T
		return zero, &TrailingInputError{Name: name, Offset: len(in) - len(rem)}
	}
	return v, nil
}

// takeRun1 consumes the maximal non-empty prefix of in whose bytes satisfy
// pred. The returned bytes are a copy, so parse trees do not pin the input
// buffer.
func takeRun1(in []byte, pred func(byte) bool) ([]byte, []byte, error) {
	if len(in) == 0 {
		return nil, in, ErrEOF
	}
	i := 0
	for i < len(in) && pred(in[i]) {
		i++
	}
	if i == 0 {
		return nil, in, ErrNotFound
	}
	buf := make([]byte, i)
	copy(buf, in[:i])
	return buf, in[i:], nil
}

// takeByte consumes c. Mismatch is a soft failure.
func takeByte(in []byte, c byte) ([]byte, error) {
	if len(in) == 0 {
		return in, ErrEOF
	}
	if in[0] != c {
		return in, ErrNotFound
	}
	return in[1:], nil
}

// needByte consumes c in a committed context. Mismatch or end of input is a
// hard failure.
func needByte(in []byte, c byte) ([]byte, error) {
	if len(in) == 0 || in[0] != c {
		return in, ExpectedError{string(c)}
	}
	return in[1:], nil
}

func needCRLF(in []byte) ([]byte, error) {
	if len(in) < 2 || in[0] != '\r' || in[1] != '\n' {
		return in, ExpectedError{"\r\n"}
	}
	return in[2:], nil
}

// takeFold consumes s case-insensitively.
func takeFold(in []byte, s string) ([]byte, bool) {
	if len(in) < len(s) || !strings.EqualFold(string(in[:len(s)]), s) {
		return in, false
	}
	return in[len(s):], true
}

// takeDigits consumes a run of min..max DIGITs and returns its value. A run
// outside the allowed length is a hard failure: digit counts in date-times
// are exact.
func takeDigits(in []byte, min, max int) (int, []byte, error) {
	i := 0
	for i < len(in) && in[i] >= '0' && in[i] <= '9' {
		i++
	}
	if i == 0 {
		if len(in) == 0 {
			return 0, in, ErrEOF
		}
		return 0, in, ErrNotFound
	}
	if i < min || i > max {
		return 0, in, ExpectedError{fmt.Sprintf("%d to %d digits", min, max)}
	}
	v := 0
	for _, c := range in[:i] {
		v = v*10 + int(c-'0')
	}
	return v, in[i:], nil
}
