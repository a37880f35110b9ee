package rfc5322

import (
	"io"
	"strings"
)

// Address productions. Alternatives are tried in the order the RFC lists
// them: mailbox before group, name-addr before addr-spec, dot-atom before
// quoted-string or domain-literal. Two alternatives can match the same
// prefix; that fixed order decides the result.

// AddrSpec is a bare email address.
//
//	addr-spec = local-part "@" domain
type AddrSpec struct {
	LocalPart LocalPart
	Domain    Domain
}

func ParseAddrSpec(in []byte) (AddrSpec, []byte, error) {
	lp, rem, err := ParseLocalPart(in)
	if err != nil {
		return AddrSpec{}, in, err
	}
	rem, err = takeByte(rem, '@')
	if err != nil {
		// No partial success: without the "@" this is not an addr-spec.
		return AddrSpec{}, in, err
	}
	d, rem, err := ParseDomain(rem)
	if err != nil {
		return AddrSpec{}, in, err
	}
	return AddrSpec{lp, d}, rem, nil
}

func (a AddrSpec) WriteTo(w io.Writer) (int64, error) {
	return writeAll(w, a.LocalPart, lit("@"), a.Domain)
}

// String returns the semantic "localpart@domain" form.
func (a AddrSpec) String() string {
	return a.LocalPart.Text() + "@" + a.Domain.Text()
}

// LocalPart is the part of an address before the "@".
//
//	local-part = dot-atom / quoted-string / obs-local-part
type LocalPart struct {
	DotAtom      *DotAtom
	QuotedString *QuotedString
}

func ParseLocalPart(in []byte) (LocalPart, []byte, error) {
	if d, rem, err := ParseDotAtom(in); err == nil {
		return LocalPart{DotAtom: &d}, rem, nil
	} else if !notFound(err) {
		return LocalPart{}, in, err
	}
	q, rem, err := ParseQuotedString(in)
	if err != nil {
		return LocalPart{}, in, err
	}
	return LocalPart{QuotedString: &q}, rem, nil
}

func (l LocalPart) WriteTo(w io.Writer) (int64, error) {
	if l.QuotedString != nil {
		return l.QuotedString.WriteTo(w)
	}
	return l.DotAtom.WriteTo(w)
}

// Text returns the semantic local part, without quoting or escapes.
func (l LocalPart) Text() string {
	if l.QuotedString != nil {
		return l.QuotedString.Text()
	}
	return l.DotAtom.Text.String()
}

// Domain is the part of an address after the "@".
//
//	domain = dot-atom / domain-literal / obs-domain
type Domain struct {
	DotAtom *DotAtom
	Literal *DomainLiteral
}

func ParseDomain(in []byte) (Domain, []byte, error) {
	if d, rem, err := ParseDotAtom(in); err == nil {
		return Domain{DotAtom: &d}, rem, nil
	} else if !notFound(err) {
		return Domain{}, in, err
	}
	dl, rem, err := ParseDomainLiteral(in)
	if err != nil {
		return Domain{}, in, err
	}
	return Domain{Literal: &dl}, rem, nil
}

func (d Domain) WriteTo(w io.Writer) (int64, error) {
	if d.Literal != nil {
		return d.Literal.WriteTo(w)
	}
	return d.DotAtom.WriteTo(w)
}

// Text returns the domain name, or the bracketed literal for address
// literals.
func (d Domain) Text() string {
	if d.Literal != nil {
		return d.Literal.Text()
	}
	return d.DotAtom.Text.String()
}

// DomainLiteral is a bracketed address literal. A missing closing bracket is
// a hard error.
//
//	domain-literal = [CFWS] "[" *([FWS] dtext) [FWS] "]" [CFWS]
type DomainLiteral struct {
	Pre      *CFWS
	LeadFWS  bool
	Parts    []DText
	TrailFWS bool
	Post     *CFWS
}

func ParseDomainLiteral(in []byte) (DomainLiteral, []byte, error) {
	pre, rem, err := optCFWS(in)
	if err != nil {
		return DomainLiteral{}, in, err
	}
	rem, err = takeByte(rem, '[')
	if err != nil {
		return DomainLiteral{}, in, err
	}
	var dl DomainLiteral
	dl.Pre = pre
	first := true
	for {
		r, ws := fws(rem)
		t, r, err := ParseDText(r)
		if err != nil {
			dl.TrailFWS = ws
			break
		}
		if first {
			dl.LeadFWS = ws
			first = false
		}
		dl.Parts = append(dl.Parts, t)
		rem = r
	}
	rem, _ = fws(rem)
	rem, err = needByte(rem, ']')
	if err != nil {
		return DomainLiteral{}, in, parseError("DomainLiteral", err)
	}
	post, rem, err := optCFWS(rem)
	if err != nil {
		return DomainLiteral{}, in, err
	}
	dl.Post = post
	return dl, rem, nil
}

func (d DomainLiteral) WriteTo(w io.Writer) (int64, error) {
	parts := make([]io.WriterTo, 0, 2*len(d.Parts)+5)
	parts = append(parts, opt(d.Pre), lit("["), cond(d.LeadFWS, " "))
	for i, t := range d.Parts {
		if i > 0 {
			parts = append(parts, lit(" "))
		}
		parts = append(parts, t)
	}
	parts = append(parts, cond(d.TrailFWS, " "), lit("]"), opt(d.Post))
	return writeAll(w, parts...)
}

// Text returns the literal including brackets, e.g. "[192.0.2.1]".
func (d DomainLiteral) Text() string {
	var b strings.Builder
	b.WriteString("[")
	for i, t := range d.Parts {
		if i > 0 {
			b.WriteString(" ")
		}
		b.Write(t)
	}
	b.WriteString("]")
	return b.String()
}

// AngleAddr is an addr-spec in angle brackets. After the "<" the parse is
// committed: a malformed or unterminated angle-addr is a hard error.
//
//	angle-addr = [CFWS] "<" addr-spec ">" [CFWS] / obs-angle-addr
type AngleAddr struct {
	Pre      *CFWS
	AddrSpec AddrSpec
	Post     *CFWS
}

func ParseAngleAddr(in []byte) (AngleAddr, []byte, error) {
	pre, rem, err := optCFWS(in)
	if err != nil {
		return AngleAddr{}, in, err
	}
	rem, err = takeByte(rem, '<')
	if err != nil {
		return AngleAddr{}, in, err
	}
	spec, rem, err := ParseAddrSpec(rem)
	if err != nil {
		return AngleAddr{}, in, parseError("AngleAddr", err)
	}
	rem, err = needByte(rem, '>')
	if err != nil {
		return AngleAddr{}, in, parseError("AngleAddr", err)
	}
	post, rem, err := optCFWS(rem)
	if err != nil {
		return AngleAddr{}, in, err
	}
	return AngleAddr{pre, spec, post}, rem, nil
}

func (a AngleAddr) WriteTo(w io.Writer) (int64, error) {
	return writeAll(w, opt(a.Pre), lit("<"), a.AddrSpec, lit(">"), opt(a.Post))
}

// NameAddr is an angle-addr with an optional display name.
//
//	name-addr = [display-name] angle-addr
//	display-name = phrase
type NameAddr struct {
	DisplayName Phrase // nil when absent
	AngleAddr   AngleAddr
}

func ParseNameAddr(in []byte) (NameAddr, []byte, error) {
	dn, rem, err := ParsePhrase(in)
	if err != nil {
		if !notFound(err) {
			return NameAddr{}, in, err
		}
		dn, rem = nil, in
	}
	aa, rem, err := ParseAngleAddr(rem)
	if err != nil {
		return NameAddr{}, in, err
	}
	return NameAddr{dn, aa}, rem, nil
}

func (n NameAddr) WriteTo(w io.Writer) (int64, error) {
	return writeAll(w, n.DisplayName, n.AngleAddr)
}

// Mailbox is a single destination.
//
//	mailbox = name-addr / addr-spec
type Mailbox struct {
	NameAddr *NameAddr
	AddrSpec *AddrSpec
}

func ParseMailbox(in []byte) (Mailbox, []byte, error) {
	if n, rem, err := ParseNameAddr(in); err == nil {
		return Mailbox{NameAddr: &n}, rem, nil
	} else if !notFound(err) {
		return Mailbox{}, in, err
	}
	a, rem, err := ParseAddrSpec(in)
	if err != nil {
		return Mailbox{}, in, err
	}
	return Mailbox{AddrSpec: &a}, rem, nil
}

func (m Mailbox) WriteTo(w io.Writer) (int64, error) {
	if m.NameAddr != nil {
		return m.NameAddr.WriteTo(w)
	}
	return m.AddrSpec.WriteTo(w)
}

// Spec returns the mailbox's addr-spec, unwrapping any angle brackets.
func (m Mailbox) Spec() AddrSpec {
	if m.NameAddr != nil {
		return m.NameAddr.AngleAddr.AddrSpec
	}
	return *m.AddrSpec
}

// DisplayNameText returns the display name as plain text, empty when there
// is none.
func (m Mailbox) DisplayNameText() string {
	if m.NameAddr != nil {
		return m.NameAddr.DisplayName.Text()
	}
	return ""
}

// Group is a named, possibly empty, set of mailboxes.
//
//	group = display-name ":" [group-list] ";" [CFWS]
type Group struct {
	DisplayName Phrase
	List        *GroupList
	Post        *CFWS
}

func ParseGroup(in []byte) (Group, []byte, error) {
	dn, rem, err := ParsePhrase(in)
	if err != nil {
		return Group{}, in, err
	}
	rem, err = takeByte(rem, ':')
	if err != nil {
		return Group{}, in, err
	}
	var list *GroupList
	if gl, r, err := ParseGroupList(rem); err == nil {
		list = &gl
		rem = r
	} else if !notFound(err) {
		return Group{}, in, err
	}
	rem, err = needByte(rem, ';')
	if err != nil {
		return Group{}, in, parseError("Group", err)
	}
	post, rem, err := optCFWS(rem)
	if err != nil {
		return Group{}, in, err
	}
	return Group{dn, list, post}, rem, nil
}

func (g Group) WriteTo(w io.Writer) (int64, error) {
	return writeAll(w, g.DisplayName, lit(":"), opt(g.List), lit(";"), opt(g.Post))
}

// GroupList is the contents of a group: a mailbox list, or only CFWS for an
// empty group.
//
//	group-list = mailbox-list / CFWS / obs-group-list
type GroupList struct {
	Mailboxes MailboxList // nil when the group is empty
	WS        *CFWS
}

func ParseGroupList(in []byte) (GroupList, []byte, error) {
	if l, rem, err := ParseMailboxList(in); err == nil {
		return GroupList{Mailboxes: l}, rem, nil
	} else if !notFound(err) {
		return GroupList{}, in, err
	}
	c, rem, err := ParseCFWS(in)
	if err != nil {
		return GroupList{}, in, err
	}
	return GroupList{WS: &c}, rem, nil
}

func (g GroupList) WriteTo(w io.Writer) (int64, error) {
	if g.Mailboxes != nil {
		return g.Mailboxes.WriteTo(w)
	}
	return g.WS.WriteTo(w)
}

// Address is a mailbox or a group.
//
//	address = mailbox / group
type Address struct {
	Mailbox *Mailbox
	Group   *Group
}

func ParseAddress(in []byte) (Address, []byte, error) {
	if m, rem, err := ParseMailbox(in); err == nil {
		return Address{Mailbox: &m}, rem, nil
	} else if !notFound(err) {
		return Address{}, in, err
	}
	g, rem, err := ParseGroup(in)
	if err != nil {
		return Address{}, in, err
	}
	return Address{Group: &g}, rem, nil
}

func (a Address) WriteTo(w io.Writer) (int64, error) {
	if a.Group != nil {
		return a.Group.WriteTo(w)
	}
	return a.Mailbox.WriteTo(w)
}

// MailboxList is one-or-more comma-separated mailboxes. A comma not followed
// by a valid mailbox is left in the remainder.
//
//	mailbox-list = (mailbox *("," mailbox)) / obs-mbox-list
type MailboxList []Mailbox

func ParseMailboxList(in []byte) (MailboxList, []byte, error) {
	m, rem, err := ParseMailbox(in)
	if err != nil {
		return nil, in, err
	}
	l := MailboxList{m}
	for {
		r, err := takeByte(rem, ',')
		if err != nil {
			break
		}
		m, r, err := ParseMailbox(r)
		if err != nil {
			if !notFound(err) {
				return nil, in, err
			}
			break
		}
		l = append(l, m)
		rem = r
	}
	return l, rem, nil
}

func (l MailboxList) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for i, m := range l {
		if i > 0 {
			n, err := writeStr(w, ",")
			total += n
			if err != nil {
				return total, err
			}
		}
		n, err := m.WriteTo(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// AddressList is one-or-more comma-separated addresses.
//
//	address-list = (address *("," address)) / obs-addr-list
type AddressList []Address

func ParseAddressList(in []byte) (AddressList, []byte, error) {
	a, rem, err := ParseAddress(in)
	if err != nil {
		return nil, in, err
	}
	l := AddressList{a}
	for {
		r, err := takeByte(rem, ',')
		if err != nil {
			break
		}
		a, r, err := ParseAddress(r)
		if err != nil {
			if !notFound(err) {
				return nil, in, err
			}
			break
		}
		l = append(l, a)
		rem = r
	}
	return l, rem, nil
}

func (l AddressList) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for i, a := range l {
		if i > 0 {
			n, err := writeStr(w, ",")
			total += n
			if err != nil {
				return total, err
			}
		}
		n, err := a.WriteTo(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
