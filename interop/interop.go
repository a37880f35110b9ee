// Package interop converts between parsed message address trees and the
// flat address representation used by the wider Go mail ecosystem, and
// canonicalizes internationalized domains for transport.
package interop

import (
	"fmt"
	"strings"

	"github.com/emersion/go-message/mail"
	"golang.org/x/net/idna"

	"github.com/imflib/imf/rfc5322"
)

// MailboxAddress converts one mailbox.
func MailboxAddress(m rfc5322.Mailbox) *mail.Address {
	return &mail.Address{Name: m.DisplayNameText(), Address: m.Spec().String()}
}

// Addresses flattens an address list into individual addresses. Group
// mailboxes are included, the group names are not representable and dropped.
func Addresses(l rfc5322.AddressList) []*mail.Address {
	var out []*mail.Address
	for _, a := range l {
		switch {
		case a.Mailbox != nil:
			out = append(out, MailboxAddress(*a.Mailbox))
		case a.Group != nil && a.Group.List != nil:
			for _, m := range a.Group.List.Mailboxes {
				out = append(out, MailboxAddress(m))
			}
		}
	}
	return out
}

// MailboxesAddresses converts a mailbox list.
func MailboxesAddresses(l rfc5322.MailboxList) []*mail.Address {
	out := make([]*mail.Address, 0, len(l))
	for _, m := range l {
		out = append(out, MailboxAddress(m))
	}
	return out
}

// FromAddress converts a flat address into a validated mailbox. The display
// name is quoted when it does not consist of plain words.
func FromAddress(a *mail.Address) (rfc5322.Mailbox, error) {
	s := a.Address
	if a.Name != "" {
		s = formatDisplayName(a.Name) + " <" + a.Address + ">"
	}
	return rfc5322.ParseExact("Address", []byte(s), rfc5322.ParseMailbox)
}

// formatDisplayName renders a display name as a phrase, quoting unless every
// word is plain atom text.
func formatDisplayName(name string) string {
	plain := name != "" && !strings.Contains(name, "  ")
	for _, w := range strings.Split(name, " ") {
		if _, err := rfc5322.ParseExact("word", []byte(w), rfc5322.ParseAText); err != nil {
			plain = false
			break
		}
	}
	if plain {
		return name
	}
	var b strings.Builder
	b.WriteString(`"`)
	for _, c := range []byte(name) {
		if c == '"' || c == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	b.WriteString(`"`)
	return b.String()
}

// ASCIIDomain returns the IDNA ASCII form of the mailbox's domain. Address
// literals are returned unchanged.
func ASCIIDomain(m rfc5322.Mailbox) (string, error) {
	d := m.Spec().Domain
	if d.Literal != nil {
		return d.Text(), nil
	}
	ascii, err := idna.Lookup.ToASCII(d.Text())
	if err != nil {
		return "", fmt.Errorf("to ascii: %w", err)
	}
	return ascii, nil
}

// UnicodeDomain returns the IDNA unicode form of the mailbox's domain.
func UnicodeDomain(m rfc5322.Mailbox) (string, error) {
	d := m.Spec().Domain
	if d.Literal != nil {
		return d.Text(), nil
	}
	uni, err := idna.Lookup.ToUnicode(d.Text())
	if err != nil {
		return "", fmt.Errorf("to unicode: %w", err)
	}
	return uni, nil
}
