package rfc5322

import (
	"io"
	"strings"
)

// Atom is a run of atom text with optional surrounding CFWS.
//
//	atom = [CFWS] 1*atext [CFWS]
type Atom struct {
	Pre  *CFWS
	Text AText
	Post *CFWS
}

func ParseAtom(in []byte) (Atom, []byte, error) {
	pre, rem, err := optCFWS(in)
	if err != nil {
		return Atom{}, in, err
	}
	t, rem, err := ParseAText(rem)
	if err != nil {
		return Atom{}, in, err
	}
	post, rem, err := optCFWS(rem)
	if err != nil {
		return Atom{}, in, err
	}
	return Atom{pre, t, post}, rem, nil
}

func (a Atom) WriteTo(w io.Writer) (int64, error) {
	return writeAll(w, opt(a.Pre), a.Text, opt(a.Post))
}

// DotAtomText is one-or-more atext runs joined by dots, without CFWS. Used
// on its own in message identifiers.
//
//	dot-atom-text = 1*atext *("." 1*atext)
type DotAtomText struct {
	Parts []AText
}

func ParseDotAtomText(in []byte) (DotAtomText, []byte, error) {
	t, rem, err := ParseAText(in)
	if err != nil {
		return DotAtomText{}, in, err
	}
	parts := []AText{t}
	for {
		r, err := takeByte(rem, '.')
		if err != nil {
			break
		}
		t, r, err := ParseAText(r)
		if err != nil {
			// The dot is not ours; leave it in the remainder.
			break
		}
		parts = append(parts, t)
		rem = r
	}
	return DotAtomText{parts}, rem, nil
}

func (d DotAtomText) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for i, p := range d.Parts {
		if i > 0 {
			n, err := writeStr(w, ".")
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

// String returns the dotted text.
func (d DotAtomText) String() string {
	var b strings.Builder
	for i, p := range d.Parts {
		if i > 0 {
			b.WriteString(".")
		}
		b.Write(p)
	}
	return b.String()
}

// DotAtom is a dot-atom-text with optional surrounding CFWS.
//
//	dot-atom = [CFWS] dot-atom-text [CFWS]
type DotAtom struct {
	Pre  *CFWS
	Text DotAtomText
	Post *CFWS
}

func ParseDotAtom(in []byte) (DotAtom, []byte, error) {
	pre, rem, err := optCFWS(in)
	if err != nil {
		return DotAtom{}, in, err
	}
	t, rem, err := ParseDotAtomText(rem)
	if err != nil {
		return DotAtom{}, in, err
	}
	post, rem, err := optCFWS(rem)
	if err != nil {
		return DotAtom{}, in, err
	}
	return DotAtom{pre, t, post}, rem, nil
}

func (d DotAtom) WriteTo(w io.Writer) (int64, error) {
	return writeAll(w, opt(d.Pre), d.Text, opt(d.Post))
}

// QContent is one element of a quoted-string: a qtext run or a quoted pair.
//
//	qcontent = qtext / quoted-pair
type QContent struct {
	PreFWS bool
	Text   QText
	Pair   *QuotedPair
}

func ParseQContent(in []byte) (QContent, []byte, error) {
	if t, rem, err := ParseQText(in); err == nil {
		return QContent{Text: t}, rem, nil
	} else if !notFound(err) {
		return QContent{}, in, err
	}
	q, rem, err := ParseQuotedPair(in)
	if err != nil {
		return QContent{}, in, err
	}
	return QContent{Pair: &q}, rem, nil
}

func (q QContent) WriteTo(w io.Writer) (int64, error) {
	var inner io.WriterTo = q.Text
	if q.Pair != nil {
		inner = q.Pair
	}
	return writeAll(w, cond(q.PreFWS, " "), inner)
}

// QuotedString is a double-quoted string with optional surrounding CFWS. An
// unterminated quoted-string is a hard error, not a backtrack: after the
// opening quote no other parse is possible.
//
//	quoted-string = [CFWS] DQUOTE *([FWS] qcontent) [FWS] DQUOTE [CFWS]
type QuotedString struct {
	Pre      *CFWS
	Content  []QContent
	TrailFWS bool
	Post     *CFWS
}

func ParseQuotedString(in []byte) (QuotedString, []byte, error) {
	pre, rem, err := optCFWS(in)
	if err != nil {
		return QuotedString{}, in, err
	}
	rem, err = takeByte(rem, dquote)
	if err != nil {
		return QuotedString{}, in, err
	}
	var qs QuotedString
	qs.Pre = pre
	for {
		r, preFWS := fws(rem)
		qc, r, err := ParseQContent(r)
		if err != nil {
			if !notFound(err) {
				return QuotedString{}, in, err
			}
			qs.TrailFWS = preFWS
			break
		}
		qc.PreFWS = preFWS
		qs.Content = append(qs.Content, qc)
		rem = r
	}
	rem, _ = fws(rem)
	rem, err = needByte(rem, dquote)
	if err != nil {
		return QuotedString{}, in, parseError("QuotedString", err)
	}
	post, rem, err := optCFWS(rem)
	if err != nil {
		return QuotedString{}, in, err
	}
	qs.Post = post
	return qs, rem, nil
}

func (q QuotedString) WriteTo(w io.Writer) (int64, error) {
	parts := make([]io.WriterTo, 0, len(q.Content)+5)
	parts = append(parts, opt(q.Pre), lit(`"`))
	for _, qc := range q.Content {
		parts = append(parts, qc)
	}
	parts = append(parts, cond(q.TrailFWS, " "), lit(`"`), opt(q.Post))
	return writeAll(w, parts...)
}

// Text returns the semantic text of the quoted-string: quotes and escaping
// backslashes removed, interior folding reduced to single spaces.
func (q QuotedString) Text() string {
	var b strings.Builder
	for _, qc := range q.Content {
		if qc.PreFWS {
			b.WriteString(" ")
		}
		if qc.Pair != nil {
			b.WriteByte(qc.Pair.C)
		} else {
			b.Write(qc.Text)
		}
	}
	return b.String()
}

// Word is an atom or a quoted-string, tried in that order.
//
//	word = atom / quoted-string
type Word struct {
	Atom         *Atom
	QuotedString *QuotedString
}

func ParseWord(in []byte) (Word, []byte, error) {
	if a, rem, err := ParseAtom(in); err == nil {
		return Word{Atom: &a}, rem, nil
	} else if !notFound(err) {
		return Word{}, in, err
	}
	q, rem, err := ParseQuotedString(in)
	if err != nil {
		return Word{}, in, err
	}
	return Word{QuotedString: &q}, rem, nil
}

func (word Word) WriteTo(w io.Writer) (int64, error) {
	if word.QuotedString != nil {
		return word.QuotedString.WriteTo(w)
	}
	return word.Atom.WriteTo(w)
}

// Text returns the semantic text of the word.
func (word Word) Text() string {
	if word.QuotedString != nil {
		return word.QuotedString.Text()
	}
	return string(word.Atom.Text)
}

// Phrase is one-or-more words.
//
//	phrase = 1*word / obs-phrase
type Phrase []Word

func ParsePhrase(in []byte) (Phrase, []byte, error) {
	var p Phrase
	rem := in
	for {
		word, r, err := ParseWord(rem)
		if err != nil {
			if !notFound(err) {
				return nil, in, err
			}
			if len(p) == 0 {
				return nil, in, err
			}
			break
		}
		p = append(p, word)
		rem = r
	}
	return p, rem, nil
}

func (p Phrase) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, word := range p {
		n, err := word.WriteTo(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Text returns the semantic text of the phrase, words joined by single
// spaces.
func (p Phrase) Text() string {
	var b strings.Builder
	for i, word := range p {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(word.Text())
	}
	return b.String()
}

// Unstructured is free header text: visible-character runs separated by
// folding white space. Folding white space that is not followed by another
// visible run is left unconsumed so the caller can see the field's
// terminating CRLF; only plain WSP may trail.
//
//	unstructured = (*([FWS] VCHAR) *WSP) / obs-unstruct
type Unstructured struct {
	LeadFWS  bool
	Parts    []VChar
	TrailWSP bool
}

func ParseUnstructured(in []byte) (Unstructured, []byte, error) {
	var u Unstructured
	rem := in
	for {
		r, ws := fws(rem)
		v, r, err := ParseVChar(r)
		if err != nil {
			// Roll back: the white space belongs to whatever follows.
			break
		}
		if len(u.Parts) == 0 {
			u.LeadFWS = ws
		}
		u.Parts = append(u.Parts, v)
		rem = r
	}
	if len(u.Parts) == 0 {
		if len(in) == 0 {
			return Unstructured{}, in, ErrEOF
		}
		return Unstructured{}, in, ErrNotFound
	}
	rem, u.TrailWSP = wsp(rem)
	return u, rem, nil
}

func (u Unstructured) WriteTo(w io.Writer) (int64, error) {
	parts := make([]io.WriterTo, 0, 2*len(u.Parts)+2)
	parts = append(parts, cond(u.LeadFWS, " "))
	for i, v := range u.Parts {
		if i > 0 {
			parts = append(parts, lit(" "))
		}
		parts = append(parts, v)
	}
	parts = append(parts, cond(u.TrailWSP, " "))
	return writeAll(w, parts...)
}

// Text returns the text with folding normalized to single spaces and
// surrounding white space removed.
func (u Unstructured) Text() string {
	var b strings.Builder
	for i, v := range u.Parts {
		if i > 0 {
			b.WriteString(" ")
		}
		b.Write(v)
	}
	return b.String()
}
