package rfc5322

import (
	"io"
)

// Header-field productions. Every field follows the same shape: a
// case-insensitive field name, a ":", the typed value production, and a
// terminating CRLF. One generic routine implements that shape; the types
// differ only in their name and value production. An absent name is a soft
// failure so field parsing can try the next header type; once the name has
// matched, a bad value or missing CRLF is a hard error wrapped with the
// canonical field name.

// parseFieldValue matches name ":", the value, and CRLF.
func parseFieldValue[T any](in []byte, name string, parse func([]byte) (T, []byte, error)) (T, []byte, error) {
	var zero T
	rem, ok := takeFold(in, name+":")
	if !ok {
		if len(in) == 0 {
			return zero, in, ErrEOF
		}
		return zero, in, ErrNotFound
	}
	v, rem, err := parse(rem)
	if err != nil {
		return zero, in, parseError(name, err)
	}
	rem, err = needCRLF(rem)
	if err != nil {
		return zero, in, parseError(name, err)
	}
	return v, rem, nil
}

// writeField writes the field with its canonical name capitalization.
func writeField(w io.Writer, name string, value io.WriterTo) (int64, error) {
	return writeAll(w, lit(name), lit(":"), value, lit("\r\n"))
}

// Field is an ordinary header field, one of the types below. Trace fields
// (Return-Path, Received) and Resent-* fields appear in trace blocks, not
// here.
type Field interface {
	io.WriterTo
	field()
}

// ResentField is one of the Resent-* fields trailing a trace.
type ResentField interface {
	io.WriterTo
	resentField()
}

// OrigDate is the origination date field.
//
//	orig-date = "Date:" date-time CRLF
type OrigDate struct {
	Value DateTime
}

func ParseOrigDate(in []byte) (OrigDate, []byte, error) {
	v, rem, err := parseFieldValue(in, "Date", ParseDateTime)
	if err != nil {
		return OrigDate{}, in, err
	}
	return OrigDate{v}, rem, nil
}

func (f OrigDate) WriteTo(w io.Writer) (int64, error) { return writeField(w, "Date", f.Value) }
func (OrigDate) field()                               {}

// From is the author field.
//
//	from = "From:" mailbox-list CRLF
type From struct {
	Value MailboxList
}

func ParseFrom(in []byte) (From, []byte, error) {
	v, rem, err := parseFieldValue(in, "From", ParseMailboxList)
	if err != nil {
		return From{}, in, err
	}
	return From{v}, rem, nil
}

func (f From) WriteTo(w io.Writer) (int64, error) { return writeField(w, "From", f.Value) }
func (From) field()                               {}

// Sender is the transmitting agent field.
//
//	sender = "Sender:" mailbox CRLF
type Sender struct {
	Value Mailbox
}

func ParseSender(in []byte) (Sender, []byte, error) {
	v, rem, err := parseFieldValue(in, "Sender", ParseMailbox)
	if err != nil {
		return Sender{}, in, err
	}
	return Sender{v}, rem, nil
}

func (f Sender) WriteTo(w io.Writer) (int64, error) { return writeField(w, "Sender", f.Value) }
func (Sender) field()                               {}

// ReplyTo is the suggested reply address field.
//
//	reply-to = "Reply-To:" address-list CRLF
type ReplyTo struct {
	Value AddressList
}

func ParseReplyTo(in []byte) (ReplyTo, []byte, error) {
	v, rem, err := parseFieldValue(in, "Reply-To", ParseAddressList)
	if err != nil {
		return ReplyTo{}, in, err
	}
	return ReplyTo{v}, rem, nil
}

func (f ReplyTo) WriteTo(w io.Writer) (int64, error) { return writeField(w, "Reply-To", f.Value) }
func (ReplyTo) field()                               {}

// To is the primary recipient field.
//
//	to = "To:" address-list CRLF
type To struct {
	Value AddressList
}

func ParseTo(in []byte) (To, []byte, error) {
	v, rem, err := parseFieldValue(in, "To", ParseAddressList)
	if err != nil {
		return To{}, in, err
	}
	return To{v}, rem, nil
}

func (f To) WriteTo(w io.Writer) (int64, error) { return writeField(w, "To", f.Value) }
func (To) field()                               {}

// Cc is the carbon-copy field.
//
//	cc = "Cc:" address-list CRLF
type Cc struct {
	Value AddressList
}

func ParseCc(in []byte) (Cc, []byte, error) {
	v, rem, err := parseFieldValue(in, "Cc", ParseAddressList)
	if err != nil {
		return Cc{}, in, err
	}
	return Cc{v}, rem, nil
}

func (f Cc) WriteTo(w io.Writer) (int64, error) { return writeField(w, "Cc", f.Value) }
func (Cc) field()                               {}

// BccValue is the value of a Bcc field, which the grammar allows to be an
// address list, bare CFWS, or empty.
type BccValue struct {
	Addresses AddressList // nil when absent
	WS        *CFWS
}

func parseBccValue(in []byte) (BccValue, []byte, error) {
	if l, rem, err := ParseAddressList(in); err == nil {
		return BccValue{Addresses: l}, rem, nil
	} else if !notFound(err) {
		return BccValue{}, in, err
	}
	if c, rem, err := ParseCFWS(in); err == nil {
		return BccValue{WS: &c}, rem, nil
	} else if !notFound(err) {
		return BccValue{}, in, err
	}
	return BccValue{}, in, nil
}

func (v BccValue) WriteTo(w io.Writer) (int64, error) {
	switch {
	case v.Addresses != nil:
		return v.Addresses.WriteTo(w)
	case v.WS != nil:
		return v.WS.WriteTo(w)
	}
	return 0, nil
}

// Bcc is the blind-carbon-copy field.
//
//	bcc = "Bcc:" [address-list / CFWS] CRLF
type Bcc struct {
	Value BccValue
}

func ParseBcc(in []byte) (Bcc, []byte, error) {
	v, rem, err := parseFieldValue(in, "Bcc", parseBccValue)
	if err != nil {
		return Bcc{}, in, err
	}
	return Bcc{v}, rem, nil
}

func (f Bcc) WriteTo(w io.Writer) (int64, error) { return writeField(w, "Bcc", f.Value) }
func (Bcc) field()                               {}

// MessageID is the unique message identifier field.
//
//	message-id = "Message-ID:" msg-id CRLF
type MessageID struct {
	Value MsgID
}

func ParseMessageID(in []byte) (MessageID, []byte, error) {
	v, rem, err := parseFieldValue(in, "Message-ID", ParseMsgID)
	if err != nil {
		return MessageID{}, in, err
	}
	return MessageID{v}, rem, nil
}

func (f MessageID) WriteTo(w io.Writer) (int64, error) { return writeField(w, "Message-ID", f.Value) }
func (MessageID) field()                               {}

// parseMsgIDs parses one-or-more msg-ids.
func parseMsgIDs(in []byte) ([]MsgID, []byte, error) {
	var l []MsgID
	rem := in
	for {
		id, r, err := ParseMsgID(rem)
		if err != nil {
			if !notFound(err) {
				return nil, in, err
			}
			if len(l) == 0 {
				return nil, in, err
			}
			break
		}
		l = append(l, id)
		rem = r
	}
	return l, rem, nil
}

func writeMsgIDs(w io.Writer, l []MsgID) (int64, error) {
	var total int64
	for _, id := range l {
		n, err := id.WriteTo(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

type msgIDList []MsgID

func (l msgIDList) WriteTo(w io.Writer) (int64, error) { return writeMsgIDs(w, l) }

// InReplyTo identifies the messages this one replies to.
//
//	in-reply-to = "In-Reply-To:" 1*msg-id CRLF
type InReplyTo struct {
	IDs []MsgID
}

func ParseInReplyTo(in []byte) (InReplyTo, []byte, error) {
	v, rem, err := parseFieldValue(in, "In-Reply-To", parseMsgIDs)
	if err != nil {
		return InReplyTo{}, in, err
	}
	return InReplyTo{v}, rem, nil
}

func (f InReplyTo) WriteTo(w io.Writer) (int64, error) {
	return writeField(w, "In-Reply-To", msgIDList(f.IDs))
}
func (InReplyTo) field() {}

// References identifies the thread of conversation.
//
//	references = "References:" 1*msg-id CRLF
type References struct {
	IDs []MsgID
}

func ParseReferences(in []byte) (References, []byte, error) {
	v, rem, err := parseFieldValue(in, "References", parseMsgIDs)
	if err != nil {
		return References{}, in, err
	}
	return References{v}, rem, nil
}

func (f References) WriteTo(w io.Writer) (int64, error) {
	return writeField(w, "References", msgIDList(f.IDs))
}
func (References) field() {}

// Subject is the topic field.
//
//	subject = "Subject:" unstructured CRLF
type Subject struct {
	Value Unstructured
}

func ParseSubject(in []byte) (Subject, []byte, error) {
	v, rem, err := parseFieldValue(in, "Subject", ParseUnstructured)
	if err != nil {
		return Subject{}, in, err
	}
	return Subject{v}, rem, nil
}

func (f Subject) WriteTo(w io.Writer) (int64, error) { return writeField(w, "Subject", f.Value) }
func (Subject) field()                               {}

// Comments is a free-text comment field.
//
//	comments = "Comments:" unstructured CRLF
type Comments struct {
	Value Unstructured
}

func ParseComments(in []byte) (Comments, []byte, error) {
	v, rem, err := parseFieldValue(in, "Comments", ParseUnstructured)
	if err != nil {
		return Comments{}, in, err
	}
	return Comments{v}, rem, nil
}

func (f Comments) WriteTo(w io.Writer) (int64, error) { return writeField(w, "Comments", f.Value) }
func (Comments) field()                               {}

// phraseList parses phrase *("," phrase), leaving a trailing comma in the
// remainder like the address lists do.
func parsePhraseList(in []byte) ([]Phrase, []byte, error) {
	p, rem, err := ParsePhrase(in)
	if err != nil {
		return nil, in, err
	}
	l := []Phrase{p}
	for {
		r, err := takeByte(rem, ',')
		if err != nil {
			break
		}
		p, r, err := ParsePhrase(r)
		if err != nil {
			if !notFound(err) {
				return nil, in, err
			}
			break
		}
		l = append(l, p)
		rem = r
	}
	return l, rem, nil
}

type phraseList []Phrase

func (l phraseList) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for i, p := range l {
		if i > 0 {
			n, err := writeStr(w, ",")
			total += n
			if err != nil {
				return total, err
			}
		}
		n, err := p.WriteTo(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Keywords is a list of comma-separated key phrases.
//
//	keywords = "Keywords:" phrase *("," phrase) CRLF
type Keywords struct {
	Phrases []Phrase
}

func ParseKeywords(in []byte) (Keywords, []byte, error) {
	v, rem, err := parseFieldValue(in, "Keywords", parsePhraseList)
	if err != nil {
		return Keywords{}, in, err
	}
	return Keywords{v}, rem, nil
}

func (f Keywords) WriteTo(w io.Writer) (int64, error) {
	return writeField(w, "Keywords", phraseList(f.Phrases))
}
func (Keywords) field() {}

// OptionalField is any extension header: a field name and unstructured
// text. It is the catch-all tried after all known headers and never fails
// because of the name.
//
//	optional-field = field-name ":" unstructured CRLF
//	field-name = 1*ftext
type OptionalField struct {
	Name  FText
	Value Unstructured
}

func ParseOptionalField(in []byte) (OptionalField, []byte, error) {
	name, rem, err := ParseFText(in)
	if err != nil {
		return OptionalField{}, in, err
	}
	rem, err = takeByte(rem, ':')
	if err != nil {
		return OptionalField{}, in, err
	}
	v, rem, err := ParseUnstructured(rem)
	if err != nil {
		return OptionalField{}, in, parseError(string(name), err)
	}
	rem, err = needCRLF(rem)
	if err != nil {
		return OptionalField{}, in, parseError(string(name), err)
	}
	return OptionalField{name, v}, rem, nil
}

func (f OptionalField) WriteTo(w io.Writer) (int64, error) {
	return writeAll(w, f.Name, lit(":"), f.Value, lit("\r\n"))
}
func (OptionalField) field() {}

// ParseField parses one ordinary header field, trying each known header and
// finally the extension catch-all.
func ParseField(in []byte) (Field, []byte, error) {
	if f, rem, err := ParseOrigDate(in); err == nil {
		return f, rem, nil
	} else if !notFound(err) {
		return nil, in, err
	}
	if f, rem, err := ParseFrom(in); err == nil {
		return f, rem, nil
	} else if !notFound(err) {
		return nil, in, err
	}
	if f, rem, err := ParseSender(in); err == nil {
		return f, rem, nil
	} else if !notFound(err) {
		return nil, in, err
	}
	if f, rem, err := ParseReplyTo(in); err == nil {
		return f, rem, nil
	} else if !notFound(err) {
		return nil, in, err
	}
	if f, rem, err := ParseTo(in); err == nil {
		return f, rem, nil
	} else if !notFound(err) {
		return nil, in, err
	}
	if f, rem, err := ParseCc(in); err == nil {
		return f, rem, nil
	} else if !notFound(err) {
		return nil, in, err
	}
	if f, rem, err := ParseBcc(in); err == nil {
		return f, rem, nil
	} else if !notFound(err) {
		return nil, in, err
	}
	if f, rem, err := ParseMessageID(in); err == nil {
		return f, rem, nil
	} else if !notFound(err) {
		return nil, in, err
	}
	if f, rem, err := ParseInReplyTo(in); err == nil {
		return f, rem, nil
	} else if !notFound(err) {
		return nil, in, err
	}
	if f, rem, err := ParseReferences(in); err == nil {
		return f, rem, nil
	} else if !notFound(err) {
		return nil, in, err
	}
	if f, rem, err := ParseSubject(in); err == nil {
		return f, rem, nil
	} else if !notFound(err) {
		return nil, in, err
	}
	if f, rem, err := ParseComments(in); err == nil {
		return f, rem, nil
	} else if !notFound(err) {
		return nil, in, err
	}
	if f, rem, err := ParseKeywords(in); err == nil {
		return f, rem, nil
	} else if !notFound(err) {
		return nil, in, err
	}
	f, rem, err := ParseOptionalField(in)
	if err != nil {
		return nil, in, err
	}
	return f, rem, nil
}
