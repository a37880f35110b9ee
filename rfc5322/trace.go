package rfc5322

import (
	"io"
)

// Trace fields: Return-Path and Received, plus the trace assembly that
// groups them with their trailing resent or extension fields.

// Path is the value of a Return-Path field. Unlike angle-addr the brackets
// may be empty, indicating a null reverse-path.
//
//	path = angle-addr / ([CFWS] "<" [CFWS] ">" [CFWS])
type Path struct {
	Pre   *CFWS
	Spec  *AddrSpec // nil for a null path
	Inner *CFWS     // whitespace inside the brackets of a null path
	Post  *CFWS
}

func ParsePath(in []byte) (Path, []byte, error) {
	var p Path
	pre, rem, err := optCFWS(in)
	if err != nil {
		return Path{}, in, err
	}
	p.Pre = pre
	rem, err = takeByte(rem, '<')
	if err != nil {
		return Path{}, in, err
	}
	// Null path, possibly with whitespace between the brackets.
	if inner, r, err := optCFWS(rem); err == nil {
		if r, err := takeByte(r, '>'); err == nil {
			p.Inner = inner
			post, r, err := optCFWS(r)
			if err != nil {
				return Path{}, in, err
			}
			p.Post = post
			return p, r, nil
		}
	} else if !notFound(err) {
		return Path{}, in, err
	}
	spec, rem, err := ParseAddrSpec(rem)
	if err != nil {
		return Path{}, in, parseError("Path", err)
	}
	p.Spec = &spec
	rem, err = needByte(rem, '>')
	if err != nil {
		return Path{}, in, parseError("Path", err)
	}
	p.Post, rem, err = optCFWS(rem)
	if err != nil {
		return Path{}, in, err
	}
	return p, rem, nil
}

func (p Path) WriteTo(w io.Writer) (int64, error) {
	var mid io.WriterTo = opt(p.Inner)
	if p.Spec != nil {
		mid = *p.Spec
	}
	return writeAll(w, opt(p.Pre), lit("<"), mid, lit(">"), opt(p.Post))
}

// ReturnPath is the reverse-path trace field.
//
//	return = "Return-Path:" path CRLF
type ReturnPath struct {
	Value Path
}

func ParseReturnPath(in []byte) (ReturnPath, []byte, error) {
	v, rem, err := parseFieldValue(in, "Return-Path", ParsePath)
	if err != nil {
		return ReturnPath{}, in, err
	}
	return ReturnPath{v}, rem, nil
}

func (f ReturnPath) WriteTo(w io.Writer) (int64, error) {
	return writeField(w, "Return-Path", f.Value)
}

// ReceivedToken is one token of a Received field, the alternatives tried in
// grammar order.
//
//	received-token = word / angle-addr / addr-spec / domain
type ReceivedToken struct {
	Word     *Word
	Angle    *AngleAddr
	AddrSpec *AddrSpec
	Domain   *Domain
}

func ParseReceivedToken(in []byte) (ReceivedToken, []byte, error) {
	if w, rem, err := ParseWord(in); err == nil {
		// A word cannot contain a dot or "@", so it would take only the first
		// label of a dotted hostname or the local part of a bare address,
		// stranding the rest. Leave those for the addr-spec and domain
		// alternatives, which match the full form.
		if len(rem) == 0 || rem[0] != '.' && rem[0] != '@' {
			return ReceivedToken{Word: &w}, rem, nil
		}
	} else if !notFound(err) {
		return ReceivedToken{}, in, err
	}
	if a, rem, err := ParseAngleAddr(in); err == nil {
		return ReceivedToken{Angle: &a}, rem, nil
	} else if !notFound(err) {
		return ReceivedToken{}, in, err
	}
	if s, rem, err := ParseAddrSpec(in); err == nil {
		return ReceivedToken{AddrSpec: &s}, rem, nil
	} else if !notFound(err) {
		return ReceivedToken{}, in, err
	}
	d, rem, err := ParseDomain(in)
	if err != nil {
		return ReceivedToken{}, in, err
	}
	return ReceivedToken{Domain: &d}, rem, nil
}

func (t ReceivedToken) WriteTo(w io.Writer) (int64, error) {
	switch {
	case t.Word != nil:
		return t.Word.WriteTo(w)
	case t.Angle != nil:
		return t.Angle.WriteTo(w)
	case t.AddrSpec != nil:
		return t.AddrSpec.WriteTo(w)
	}
	return t.Domain.WriteTo(w)
}

type receivedValue struct {
	Tokens []ReceivedToken
	Time   DateTime
}

func parseReceivedValue(in []byte) (receivedValue, []byte, error) {
	var v receivedValue
	rem := in
	for {
		t, r, err := ParseReceivedToken(rem)
		if err != nil {
			if !notFound(err) {
				return receivedValue{}, in, err
			}
			break
		}
		v.Tokens = append(v.Tokens, t)
		rem = r
	}
	rem, err := needByte(rem, ';')
	if err != nil {
		return receivedValue{}, in, err
	}
	v.Time, rem, err = ParseDateTime(rem)
	if err != nil {
		return receivedValue{}, in, err
	}
	return v, rem, nil
}

func (v receivedValue) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, t := range v.Tokens {
		n, err := t.WriteTo(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	n, err := writeAll(w, lit(";"), v.Time)
	total += n
	return total, err
}

// Received is one relay trace field.
//
//	received = "Received:" *received-token ";" date-time CRLF
type Received struct {
	Tokens []ReceivedToken
	Time   DateTime
}

func ParseReceived(in []byte) (Received, []byte, error) {
	v, rem, err := parseFieldValue(in, "Received", parseReceivedValue)
	if err != nil {
		return Received{}, in, err
	}
	return Received{v.Tokens, v.Time}, rem, nil
}

func (f Received) WriteTo(w io.Writer) (int64, error) {
	return writeField(w, "Received", receivedValue{f.Tokens, f.Time})
}

// Trace is an optional Return-Path followed by at least one Received. A
// Return-Path without any Received line is malformed, not absent.
//
//	trace = [return] 1*received
type Trace struct {
	ReturnPath *ReturnPath
	Received   []Received
}

func ParseTrace(in []byte) (Trace, []byte, error) {
	var t Trace
	rem := in
	if rp, r, err := ParseReturnPath(in); err == nil {
		t.ReturnPath = &rp
		rem = r
	} else if !notFound(err) {
		return Trace{}, in, err
	}
	for {
		rcv, r, err := ParseReceived(rem)
		if err != nil {
			if !notFound(err) {
				return Trace{}, in, err
			}
			if len(t.Received) == 0 {
				if t.ReturnPath != nil {
					return Trace{}, in, parseError("Trace", ExpectedError{"Received field"})
				}
				return Trace{}, in, err
			}
			break
		}
		t.Received = append(t.Received, rcv)
		rem = r
	}
	return t, rem, nil
}

func (t Trace) WriteTo(w io.Writer) (int64, error) {
	var total int64
	if t.ReturnPath != nil {
		n, err := t.ReturnPath.WriteTo(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	for _, r := range t.Received {
		n, err := r.WriteTo(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// TraceBlock is a trace followed by its trailing fields: either one-or-more
// Resent-* fields or one-or-more extension fields. A trace with no trailing
// fields at all is a hard failure, which distinguishes a malformed trace
// from a message without one.
type TraceBlock struct {
	Trace    Trace
	Resent   []ResentField   // set for a resent block
	Optional []OptionalField // set for an extension-field block
}

func ParseTraceBlock(in []byte) (TraceBlock, []byte, error) {
	tr, rem, err := ParseTrace(in)
	if err != nil {
		return TraceBlock{}, in, err
	}
	b := TraceBlock{Trace: tr}
	for {
		f, r, err := parseResentField(rem)
		if err != nil {
			if !notFound(err) {
				return TraceBlock{}, in, err
			}
			break
		}
		b.Resent = append(b.Resent, f)
		rem = r
	}
	if len(b.Resent) > 0 {
		return b, rem, nil
	}
	for {
		f, r, err := ParseOptionalField(rem)
		if err != nil {
			if !notFound(err) {
				return TraceBlock{}, in, err
			}
			break
		}
		b.Optional = append(b.Optional, f)
		rem = r
	}
	if len(b.Optional) == 0 {
		return TraceBlock{}, in, parseError("TraceBlock", ExpectedError{"resent or extension field"})
	}
	return b, rem, nil
}

func (b TraceBlock) WriteTo(w io.Writer) (int64, error) {
	total, err := b.Trace.WriteTo(w)
	if err != nil {
		return total, err
	}
	for _, f := range b.Resent {
		n, err := f.WriteTo(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	for _, f := range b.Optional {
		n, err := f.WriteTo(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
