package rfc5322

import (
	"io"
)

// Resent-* fields. They mirror the originator and destination fields but
// belong to a trace block, recording a reintroduction of the message into
// the transport system.

// ResentDate is the date of reintroduction.
//
//	resent-date = "Resent-Date:" date-time CRLF
type ResentDate struct {
	Value DateTime
}

func ParseResentDate(in []byte) (ResentDate, []byte, error) {
	v, rem, err := parseFieldValue(in, "Resent-Date", ParseDateTime)
	if err != nil {
		return ResentDate{}, in, err
	}
	return ResentDate{v}, rem, nil
}

func (f ResentDate) WriteTo(w io.Writer) (int64, error) {
	return writeField(w, "Resent-Date", f.Value)
}
func (ResentDate) resentField() {}

// ResentFrom names who reintroduced the message.
//
//	resent-from = "Resent-From:" mailbox-list CRLF
type ResentFrom struct {
	Value MailboxList
}

func ParseResentFrom(in []byte) (ResentFrom, []byte, error) {
	v, rem, err := parseFieldValue(in, "Resent-From", ParseMailboxList)
	if err != nil {
		return ResentFrom{}, in, err
	}
	return ResentFrom{v}, rem, nil
}

func (f ResentFrom) WriteTo(w io.Writer) (int64, error) {
	return writeField(w, "Resent-From", f.Value)
}
func (ResentFrom) resentField() {}

// ResentSender is the transmitting agent of the reintroduction.
//
//	resent-sender = "Resent-Sender:" mailbox CRLF
type ResentSender struct {
	Value Mailbox
}

func ParseResentSender(in []byte) (ResentSender, []byte, error) {
	v, rem, err := parseFieldValue(in, "Resent-Sender", ParseMailbox)
	if err != nil {
		return ResentSender{}, in, err
	}
	return ResentSender{v}, rem, nil
}

func (f ResentSender) WriteTo(w io.Writer) (int64, error) {
	return writeField(w, "Resent-Sender", f.Value)
}
func (ResentSender) resentField() {}

// ResentTo lists the recipients of the reintroduction.
//
//	resent-to = "Resent-To:" address-list CRLF
type ResentTo struct {
	Value AddressList
}

func ParseResentTo(in []byte) (ResentTo, []byte, error) {
	v, rem, err := parseFieldValue(in, "Resent-To", ParseAddressList)
	if err != nil {
		return ResentTo{}, in, err
	}
	return ResentTo{v}, rem, nil
}

func (f ResentTo) WriteTo(w io.Writer) (int64, error) {
	return writeField(w, "Resent-To", f.Value)
}
func (ResentTo) resentField() {}

// ResentCc lists the carbon-copy recipients of the reintroduction.
//
//	resent-cc = "Resent-Cc:" address-list CRLF
type ResentCc struct {
	Value AddressList
}

func ParseResentCc(in []byte) (ResentCc, []byte, error) {
	v, rem, err := parseFieldValue(in, "Resent-Cc", ParseAddressList)
	if err != nil {
		return ResentCc{}, in, err
	}
	return ResentCc{v}, rem, nil
}

func (f ResentCc) WriteTo(w io.Writer) (int64, error) {
	return writeField(w, "Resent-Cc", f.Value)
}
func (ResentCc) resentField() {}

// ResentBcc lists the blind-carbon-copy recipients, possibly empty like Bcc.
//
//	resent-bcc = "Resent-Bcc:" [address-list / CFWS] CRLF
type ResentBcc struct {
	Value BccValue
}

func ParseResentBcc(in []byte) (ResentBcc, []byte, error) {
	v, rem, err := parseFieldValue(in, "Resent-Bcc", parseBccValue)
	if err != nil {
		return ResentBcc{}, in, err
	}
	return ResentBcc{v}, rem, nil
}

func (f ResentBcc) WriteTo(w io.Writer) (int64, error) {
	return writeField(w, "Resent-Bcc", f.Value)
}
func (ResentBcc) resentField() {}

// ResentMessageID identifies the reintroduced message.
//
//	resent-msg-id = "Resent-Message-ID:" msg-id CRLF
type ResentMessageID struct {
	Value MsgID
}

func ParseResentMessageID(in []byte) (ResentMessageID, []byte, error) {
	v, rem, err := parseFieldValue(in, "Resent-Message-ID", ParseMsgID)
	if err != nil {
		return ResentMessageID{}, in, err
	}
	return ResentMessageID{v}, rem, nil
}

func (f ResentMessageID) WriteTo(w io.Writer) (int64, error) {
	return writeField(w, "Resent-Message-ID", f.Value)
}
func (ResentMessageID) resentField() {}

// parseResentField parses one Resent-* field, trying each type in the order
// the grammar lists them.
func parseResentField(in []byte) (ResentField, []byte, error) {
	if f, rem, err := ParseResentDate(in); err == nil {
		return f, rem, nil
	} else if !notFound(err) {
		return nil, in, err
	}
	if f, rem, err := ParseResentFrom(in); err == nil {
		return f, rem, nil
	} else if !notFound(err) {
		return nil, in, err
	}
	if f, rem, err := ParseResentSender(in); err == nil {
		return f, rem, nil
	} else if !notFound(err) {
		return nil, in, err
	}
	if f, rem, err := ParseResentTo(in); err == nil {
		return f, rem, nil
	} else if !notFound(err) {
		return nil, in, err
	}
	if f, rem, err := ParseResentCc(in); err == nil {
		return f, rem, nil
	} else if !notFound(err) {
		return nil, in, err
	}
	if f, rem, err := ParseResentBcc(in); err == nil {
		return f, rem, nil
	} else if !notFound(err) {
		return nil, in, err
	}
	f, rem, err := ParseResentMessageID(in)
	if err != nil {
		return nil, in, err
	}
	return f, rem, nil
}
