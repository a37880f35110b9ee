package rfc5322

import (
	"io"
)

// maxBodyLine is the line length limit for message bodies, excluding CRLF.
const maxBodyLine = 998

// Fields is the header section of a message: any trace blocks first, then
// the ordinary fields, each in original order.
type Fields struct {
	TraceBlocks []TraceBlock
	Fields      []Field
}

// ParseFields parses header fields until no further field matches. A
// committed failure inside a field is an error; simply running out of
// matching fields is not, so the caller can go on to check for the blank
// line before a body.
func ParseFields(in []byte) (Fields, []byte, error) {
	var fs Fields
	rem := in
	for {
		b, r, err := ParseTraceBlock(rem)
		if err != nil {
			if !notFound(err) {
				return Fields{}, in, err
			}
			break
		}
		fs.TraceBlocks = append(fs.TraceBlocks, b)
		rem = r
	}
	for {
		f, r, err := ParseField(rem)
		if err != nil {
			if !notFound(err) {
				return Fields{}, in, err
			}
			break
		}
		fs.Fields = append(fs.Fields, f)
		rem = r
	}
	return fs, rem, nil
}

func (fs Fields) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, b := range fs.TraceBlocks {
		n, err := b.WriteTo(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	for _, f := range fs.Fields {
		n, err := f.WriteTo(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Body is the message body: CRLF-delimited lines of 7-bit text, each at
// most 998 bytes, the last line optionally unterminated.
type Body []byte

// ParseBody validates and consumes the rest of the input as a body. It
// accepts empty input, returning an empty non-nil body.
func ParseBody(in []byte) (Body, []byte, error) {
	line := 0
	for i := 0; i < len(in); i++ {
		c := in[i]
		if c == '\r' {
			if i+1 < len(in) && in[i+1] == '\n' {
				i++
				line = 0
				continue
			}
			return nil, in, ErrInvalidBodyChar
		}
		if c == 0 || c == '\n' || c > 0x7f {
			return nil, in, ErrInvalidBodyChar
		}
		line++
		if line > maxBodyLine {
			return nil, in, ErrLineTooLong
		}
	}
	b := make(Body, len(in))
	copy(b, in)
	return b, in[len(in):], nil
}

func (b Body) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b)
	return int64(n), err
}

// Message is a parsed Internet message: the header section and an optional
// body separated from it by an empty line.
type Message struct {
	Fields Fields
	Body   Body // nil when the message has no body
}

// ParseMessage parses a complete message. The remainder is empty on any
// input this package considers well formed; callers wanting to reject
// trailing garbage check it, or use ParseExact.
func ParseMessage(in []byte) (Message, []byte, error) {
	var m Message
	fs, rem, err := ParseFields(in)
	if err != nil {
		return Message{}, in, err
	}
	m.Fields = fs
	if r, err := needCRLF(rem); err == nil {
		body, r, err := ParseBody(r)
		if err != nil {
			return Message{}, in, err
		}
		m.Body = body
		rem = r
	}
	return m, rem, nil
}

func (m Message) WriteTo(w io.Writer) (int64, error) {
	total, err := m.Fields.WriteTo(w)
	if err != nil {
		return total, err
	}
	if m.Body != nil {
		n, err := writeStr(w, "\r\n")
		total += n
		if err != nil {
			return total, err
		}
		n, err = m.Body.WriteTo(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
