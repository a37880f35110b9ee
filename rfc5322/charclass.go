package rfc5322

import (
	"io"
)

// Character-class primitives. Each type holds the maximal non-empty run of
// bytes it matched; the shared scanning logic lives in takeRun1, the classes
// differ only in their byte predicate.

// RFC 5234, B.1 Core Rules.
const (
	cr     = 0x0d
	lf     = 0x0a
	sp     = 0x20
	htab   = 0x09
	dquote = 0x22
)

// VCHAR = %x21-7E ; visible (printing) characters
func isVCHAR(c byte) bool { return c >= 0x21 && c <= 0x7e }

// WSP = SP / HTAB
func isWSP(c byte) bool { return c == sp || c == htab }

// DIGIT = %x30-39
func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// ALPHA = %x41-5A / %x61-7A
func isAlpha(c byte) bool { return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' }

// atext = ALPHA / DIGIT / "!" / "#" / "$" / "%" / "&" / "'" / "*" / "+" /
//
//	"-" / "/" / "=" / "?" / "^" / "_" / "`" / "{" / "|" / "}" / "~"
func isAText(c byte) bool {
	if isAlpha(c) || isDigit(c) {
		return true
	}
	switch c {
	case '!', '#', '$', '%', '&', '\'', '*', '+', '-', '/', '=', '?', '^', '_', '`', '{', '|', '}', '~':
		return true
	}
	return false
}

// ctext = %d33-39 / %d42-91 / %d93-126 ; printable, not "(", ")" or "\"
func isCText(c byte) bool {
	return c >= 33 && c <= 39 || c >= 42 && c <= 91 || c >= 93 && c <= 126
}

// qtext = %d33 / %d35-91 / %d93-126 ; printable, not "\" or DQUOTE
func isQText(c byte) bool {
	return c == 33 || c >= 35 && c <= 91 || c >= 93 && c <= 126
}

// dtext = %d33-90 / %d94-126 ; printable, not "[", "]" or "\"
func isDText(c byte) bool {
	return c >= 33 && c <= 90 || c >= 94 && c <= 126
}

// ftext = %d33-57 / %d59-126 ; printable, not ":"
func isFText(c byte) bool {
	return c >= 33 && c <= 57 || c >= 59 && c <= 126
}

// VChar is a run of visible characters.
type VChar []byte

func ParseVChar(in []byte) (VChar, []byte, error) {
	t, rem, err := takeRun1(in, isVCHAR)
	return VChar(t), rem, err
}

func (t VChar) WriteTo(w io.Writer) (int64, error) { return writeBytes(w, t) }

// AText is a run of atom text.
type AText []byte

func ParseAText(in []byte) (AText, []byte, error) {
	t, rem, err := takeRun1(in, isAText)
	return AText(t), rem, err
}

func (t AText) WriteTo(w io.Writer) (int64, error) { return writeBytes(w, t) }

// CText is a run of comment text.
type CText []byte

func ParseCText(in []byte) (CText, []byte, error) {
	t, rem, err := takeRun1(in, isCText)
	return CText(t), rem, err
}

func (t CText) WriteTo(w io.Writer) (int64, error) { return writeBytes(w, t) }

// QText is a run of quoted-string text.
type QText []byte

func ParseQText(in []byte) (QText, []byte, error) {
	t, rem, err := takeRun1(in, isQText)
	return QText(t), rem, err
}

func (t QText) WriteTo(w io.Writer) (int64, error) { return writeBytes(w, t) }

// DText is a run of domain-literal text.
type DText []byte

func ParseDText(in []byte) (DText, []byte, error) {
	t, rem, err := takeRun1(in, isDText)
	return DText(t), rem, err
}

func (t DText) WriteTo(w io.Writer) (int64, error) { return writeBytes(w, t) }

// FText is a run of field-name text.
type FText []byte

func ParseFText(in []byte) (FText, []byte, error) {
	t, rem, err := takeRun1(in, isFText)
	return FText(t), rem, err
}

func (t FText) WriteTo(w io.Writer) (int64, error) { return writeBytes(w, t) }
