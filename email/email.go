// Package email is a convenience layer for building and reading messages
// without handling the grammar types directly. Header values are set from
// plain strings and validated by parsing: a value that does not parse, or
// parses with bytes left over, is rejected, so a constructed Email always
// serializes to a well-formed message.
package email

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/imflib/imf/rfc5322"
)

// Email holds at most one of each originator, destination and informational
// header, in a fixed serialization order, plus repeatable comments, keywords
// and extension fields. Trace blocks from parsed messages are carried along
// and written back first.
type Email struct {
	traces    []rfc5322.TraceBlock
	date      rfc5322.OrigDate
	from      rfc5322.From
	sender    *rfc5322.Sender
	replyTo   *rfc5322.ReplyTo
	to        *rfc5322.To
	cc        *rfc5322.Cc
	bcc       *rfc5322.Bcc
	messageID *rfc5322.MessageID
	inReplyTo *rfc5322.InReplyTo
	refs      *rfc5322.References
	subject   *rfc5322.Subject
	comments  []rfc5322.Comments
	keywords  []rfc5322.Keywords
	optional  []rfc5322.OptionalField
	body      rfc5322.Body // nil means no body
}

// FormatDate renders t the way Date fields are written, e.g.
// "Tue, 25 Dec 2021 16:00:00 +0000".
func FormatDate(t time.Time) string {
	return t.Format("Mon, 2 Jan 2006 15:04:05 -0700")
}

// New creates an email from the given originator address(es) with the date
// set to now and a fresh-generated Message-ID under the first originator's
// domain.
func New(from string) (*Email, error) {
	var e Email
	if err := e.SetFrom(from); err != nil {
		return nil, err
	}
	e.SetDate(time.Now())
	domain := e.from.Value[0].Spec().Domain.Text()
	id := fmt.Sprintf("<%s@%s>", uuid.New(), domain)
	if err := e.SetMessageID(id); err != nil {
		return nil, err
	}
	return &e, nil
}

func setValue[T any](name, value string, parse func([]byte) (T, []byte, error)) (T, error) {
	return rfc5322.ParseExact(name, []byte(" "+value), parse)
}

// SetDate sets the origination date.
func (e *Email) SetDate(t time.Time) {
	// Our own date format always parses.
	v, err := setValue("Date", FormatDate(t), rfc5322.ParseDateTime)
	if err != nil {
		panic(fmt.Sprintf("formatting date %v: %v", t, err))
	}
	e.date = rfc5322.OrigDate{Value: v}
}

// Date returns the origination date.
func (e *Email) Date() time.Time {
	return e.date.Value.AsTime()
}

// SetFrom sets the From header from a mailbox list, e.g.
// "Mary Smith <mary@x.test>, jdoe@example.org".
func (e *Email) SetFrom(from string) error {
	v, err := setValue("From", from, rfc5322.ParseMailboxList)
	if err != nil {
		return err
	}
	e.from = rfc5322.From{Value: v}
	return nil
}

// From returns the originator mailboxes.
func (e *Email) From() rfc5322.MailboxList {
	return e.from.Value
}

// SetSender sets the Sender header from a single mailbox.
func (e *Email) SetSender(sender string) error {
	v, err := setValue("Sender", sender, rfc5322.ParseMailbox)
	if err != nil {
		return err
	}
	e.sender = &rfc5322.Sender{Value: v}
	return nil
}

func (e *Email) UnsetSender() { e.sender = nil }

// Sender returns the Sender mailbox, if set.
func (e *Email) Sender() (rfc5322.Mailbox, bool) {
	if e.sender == nil {
		return rfc5322.Mailbox{}, false
	}
	return e.sender.Value, true
}

// SetReplyTo sets the Reply-To header from an address list.
func (e *Email) SetReplyTo(replyTo string) error {
	v, err := setValue("Reply-To", replyTo, rfc5322.ParseAddressList)
	if err != nil {
		return err
	}
	e.replyTo = &rfc5322.ReplyTo{Value: v}
	return nil
}

func (e *Email) UnsetReplyTo() { e.replyTo = nil }

func (e *Email) ReplyTo() (rfc5322.AddressList, bool) {
	if e.replyTo == nil {
		return nil, false
	}
	return e.replyTo.Value, true
}

// SetTo sets the To header from an address list.
func (e *Email) SetTo(to string) error {
	v, err := setValue("To", to, rfc5322.ParseAddressList)
	if err != nil {
		return err
	}
	e.to = &rfc5322.To{Value: v}
	return nil
}

func (e *Email) UnsetTo() { e.to = nil }

func (e *Email) To() (rfc5322.AddressList, bool) {
	if e.to == nil {
		return nil, false
	}
	return e.to.Value, true
}

// SetCc sets the Cc header from an address list.
func (e *Email) SetCc(cc string) error {
	v, err := setValue("Cc", cc, rfc5322.ParseAddressList)
	if err != nil {
		return err
	}
	e.cc = &rfc5322.Cc{Value: v}
	return nil
}

func (e *Email) UnsetCc() { e.cc = nil }

func (e *Email) Cc() (rfc5322.AddressList, bool) {
	if e.cc == nil {
		return nil, false
	}
	return e.cc.Value, true
}

// SetBcc sets the Bcc header. An empty string gives an empty Bcc.
func (e *Email) SetBcc(bcc string) error {
	if bcc == "" {
		e.bcc = &rfc5322.Bcc{}
		return nil
	}
	v, err := setValue("Bcc", bcc, rfc5322.ParseAddressList)
	if err != nil {
		return err
	}
	e.bcc = &rfc5322.Bcc{Value: rfc5322.BccValue{Addresses: v}}
	return nil
}

func (e *Email) UnsetBcc() { e.bcc = nil }

func (e *Email) Bcc() (rfc5322.BccValue, bool) {
	if e.bcc == nil {
		return rfc5322.BccValue{}, false
	}
	return e.bcc.Value, true
}

// SetMessageID sets the Message-ID header, e.g. "<1234@example.org>".
func (e *Email) SetMessageID(id string) error {
	v, err := setValue("Message-ID", id, rfc5322.ParseMsgID)
	if err != nil {
		return err
	}
	e.messageID = &rfc5322.MessageID{Value: v}
	return nil
}

func (e *Email) UnsetMessageID() { e.messageID = nil }

func (e *Email) MessageID() (rfc5322.MsgID, bool) {
	if e.messageID == nil {
		return rfc5322.MsgID{}, false
	}
	return e.messageID.Value, true
}

// SetInReplyTo sets the In-Reply-To header from one or more msg-ids.
func (e *Email) SetInReplyTo(ids string) error {
	v, err := setValue("In-Reply-To", ids, parseMsgIDs)
	if err != nil {
		return err
	}
	e.inReplyTo = &rfc5322.InReplyTo{IDs: v}
	return nil
}

func (e *Email) UnsetInReplyTo() { e.inReplyTo = nil }

func (e *Email) InReplyTo() ([]rfc5322.MsgID, bool) {
	if e.inReplyTo == nil {
		return nil, false
	}
	return e.inReplyTo.IDs, true
}

// SetReferences sets the References header from one or more msg-ids.
func (e *Email) SetReferences(ids string) error {
	v, err := setValue("References", ids, parseMsgIDs)
	if err != nil {
		return err
	}
	e.refs = &rfc5322.References{IDs: v}
	return nil
}

func (e *Email) UnsetReferences() { e.refs = nil }

func (e *Email) References() ([]rfc5322.MsgID, bool) {
	if e.refs == nil {
		return nil, false
	}
	return e.refs.IDs, true
}

// parseMsgIDs parses one-or-more message identifiers.
func parseMsgIDs(in []byte) ([]rfc5322.MsgID, []byte, error) {
	var ids []rfc5322.MsgID
	rem := in
	for {
		id, r, err := rfc5322.ParseMsgID(rem)
		if err != nil {
			// A committed failure, e.g. an unterminated "<left@", is the
			// caller's error, not the end of the list.
			var pe *rfc5322.ParseError
			if errors.As(err, &pe) || len(ids) == 0 {
				return nil, in, err
			}
			return ids, rem, nil
		}
		ids = append(ids, id)
		rem = r
	}
}

// SetSubject sets the Subject header.
func (e *Email) SetSubject(subject string) error {
	v, err := setValue("Subject", subject, rfc5322.ParseUnstructured)
	if err != nil {
		return err
	}
	e.subject = &rfc5322.Subject{Value: v}
	return nil
}

func (e *Email) UnsetSubject() { e.subject = nil }

// Subject returns the subject text, folding normalized.
func (e *Email) Subject() (string, bool) {
	if e.subject == nil {
		return "", false
	}
	return e.subject.Value.Text(), true
}

// AddComments appends a Comments header.
func (e *Email) AddComments(comments string) error {
	v, err := setValue("Comments", comments, rfc5322.ParseUnstructured)
	if err != nil {
		return err
	}
	e.comments = append(e.comments, rfc5322.Comments{Value: v})
	return nil
}

func (e *Email) ClearComments() { e.comments = nil }

// Comments returns the text of each Comments header.
func (e *Email) Comments() []string {
	var l []string
	for _, c := range e.comments {
		l = append(l, c.Value.Text())
	}
	return l
}

// AddKeywords appends a Keywords header from comma-separated phrases.
func (e *Email) AddKeywords(keywords string) error {
	f, err := rfc5322.ParseExact("Keywords", []byte("Keywords: "+keywords+"\r\n"), rfc5322.ParseKeywords)
	if err != nil {
		return err
	}
	e.keywords = append(e.keywords, f)
	return nil
}

func (e *Email) ClearKeywords() { e.keywords = nil }

// Keywords returns the phrase texts of all Keywords headers, flattened.
func (e *Email) Keywords() []string {
	var l []string
	for _, k := range e.keywords {
		for _, p := range k.Phrases {
			l = append(l, p.Text())
		}
	}
	return l
}

// AddOptionalField appends an extension header.
func (e *Email) AddOptionalField(name, value string) error {
	f, err := rfc5322.ParseExact(name, []byte(name+": "+value+"\r\n"), rfc5322.ParseOptionalField)
	if err != nil {
		return err
	}
	e.optional = append(e.optional, f)
	return nil
}

func (e *Email) ClearOptionalFields() { e.optional = nil }

// OptionalFields returns the extension headers as name/value text pairs.
func (e *Email) OptionalFields() [][2]string {
	var l [][2]string
	for _, f := range e.optional {
		l = append(l, [2]string{string(f.Name), f.Value.Text()})
	}
	return l
}

// SetBody sets the message body. The text must be 7-bit clean with CRLF line
// endings and lines of at most 998 bytes.
func (e *Email) SetBody(body string) error {
	b, err := rfc5322.ParseExact("Body", []byte(body), rfc5322.ParseBody)
	if err != nil {
		return err
	}
	e.body = b
	return nil
}

func (e *Email) UnsetBody() { e.body = nil }

// Body returns the body bytes, nil when there is none.
func (e *Email) Body() []byte { return e.body }

// Message assembles the email into a message parse tree.
func (e *Email) Message() rfc5322.Message {
	var fs rfc5322.Fields
	fs.TraceBlocks = e.traces
	add := func(f rfc5322.Field) { fs.Fields = append(fs.Fields, f) }
	// Date and From can be unset on an Email built from a message that was
	// missing them; skip them then instead of writing a bogus value.
	if e.date.Value.Date.Month != 0 {
		add(e.date)
	}
	if e.from.Value != nil {
		add(e.from)
	}
	if e.sender != nil {
		add(*e.sender)
	}
	if e.replyTo != nil {
		add(*e.replyTo)
	}
	if e.to != nil {
		add(*e.to)
	}
	if e.cc != nil {
		add(*e.cc)
	}
	if e.bcc != nil {
		add(*e.bcc)
	}
	if e.messageID != nil {
		add(*e.messageID)
	}
	if e.inReplyTo != nil {
		add(*e.inReplyTo)
	}
	if e.refs != nil {
		add(*e.refs)
	}
	if e.subject != nil {
		add(*e.subject)
	}
	for _, c := range e.comments {
		add(c)
	}
	for _, k := range e.keywords {
		add(k)
	}
	for _, f := range e.optional {
		add(f)
	}
	return rfc5322.Message{Fields: fs, Body: e.body}
}

// WriteTo serializes the email in wire form.
func (e *Email) WriteTo(w io.Writer) (int64, error) {
	return e.Message().WriteTo(w)
}

// Parse reads a complete message into an Email. The whole input must be
// consumed. For repeated singleton headers the last occurrence wins.
func Parse(in []byte) (*Email, error) {
	m, err := rfc5322.ParseExact("Message", in, rfc5322.ParseMessage)
	if err != nil {
		return nil, err
	}
	return FromMessage(m), nil
}

// FromMessage converts a parsed message tree into an Email.
func FromMessage(m rfc5322.Message) *Email {
	var e Email
	e.traces = m.Fields.TraceBlocks
	for _, f := range m.Fields.Fields {
		switch f := f.(type) {
		case rfc5322.OrigDate:
			e.date = f
		case rfc5322.From:
			e.from = f
		case rfc5322.Sender:
			e.sender = &f
		case rfc5322.ReplyTo:
			e.replyTo = &f
		case rfc5322.To:
			e.to = &f
		case rfc5322.Cc:
			e.cc = &f
		case rfc5322.Bcc:
			e.bcc = &f
		case rfc5322.MessageID:
			e.messageID = &f
		case rfc5322.InReplyTo:
			e.inReplyTo = &f
		case rfc5322.References:
			e.refs = &f
		case rfc5322.Subject:
			e.subject = &f
		case rfc5322.Comments:
			e.comments = append(e.comments, f)
		case rfc5322.Keywords:
			e.keywords = append(e.keywords, f)
		case rfc5322.OptionalField:
			e.optional = append(e.optional, f)
		}
	}
	e.body = m.Body
	return &e
}
