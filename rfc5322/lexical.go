package rfc5322

import (
	"fmt"
	"io"
)

// Comments can nest arbitrarily deep. We stop at a fixed depth so adversarial
// input cannot exhaust the stack; no legitimate message comes close.
const maxCommentDepth = 50

// QuotedPair is a backslash-escaped character.
//
//	quoted-pair = ("\" (VCHAR / WSP)) / obs-qp
type QuotedPair struct {
	C byte
}

func ParseQuotedPair(in []byte) (QuotedPair, []byte, error) {
	if len(in) == 0 {
		return QuotedPair{}, in, ErrEOF
	}
	if in[0] != '\\' {
		return QuotedPair{}, in, ErrNotFound
	}
	if len(in) < 2 {
		return QuotedPair{}, in, ErrEOF
	}
	if c := in[1]; isVCHAR(c) || isWSP(c) {
		return QuotedPair{c}, in[2:], nil
	}
	return QuotedPair{}, in, ErrNotFound
}

func (q QuotedPair) WriteTo(w io.Writer) (int64, error) {
	return writeStr(w, "\\"+string(q.C))
}

// FWS is folding white space: runs of WSP, possibly with embedded
// CRLF-then-WSP folds. It carries no content; parents record its presence as
// a flag and it always serializes as a single space.
//
//	FWS = ([*WSP CRLF] 1*WSP) / obs-FWS
type FWS struct{}

func ParseFWS(in []byte) (FWS, []byte, error) {
	rem := in
	for {
		if len(rem) > 0 && isWSP(rem[0]) {
			rem = rem[1:]
			continue
		}
		if len(rem) >= 3 && rem[0] == cr && rem[1] == lf && isWSP(rem[2]) {
			rem = rem[3:]
			continue
		}
		break
	}
	if len(rem) == len(in) {
		if len(in) == 0 {
			return FWS{}, in, ErrEOF
		}
		return FWS{}, in, ErrNotFound
	}
	return FWS{}, rem, nil
}

func (FWS) WriteTo(w io.Writer) (int64, error) {
	return writeStr(w, " ")
}

// fws consumes optional folding white space.
func fws(in []byte) ([]byte, bool) {
	_, rem, err := ParseFWS(in)
	if err != nil {
		return in, false
	}
	return rem, true
}

// wsp consumes optional plain (non-folding) white space.
func wsp(in []byte) ([]byte, bool) {
	i := 0
	for i < len(in) && isWSP(in[i]) {
		i++
	}
	return in[i:], i > 0
}

// CContent is one element of a comment: a ctext run, a quoted pair, or a
// nested comment. Exactly one of the three is set. PreFWS records folding
// white space before the element.
//
//	ccontent = ctext / quoted-pair / comment
type CContent struct {
	PreFWS bool
	Text   CText
	Pair   *QuotedPair
	Inner  *Comment
}

func ParseCContent(in []byte) (CContent, []byte, error) {
	return parseCContent(in, 0)
}

func parseCContent(in []byte, depth int) (CContent, []byte, error) {
	if t, rem, err := ParseCText(in); err == nil {
		return CContent{Text: t}, rem, nil
	} else if !notFound(err) {
		return CContent{}, in, err
	}
	if q, rem, err := ParseQuotedPair(in); err == nil {
		return CContent{Pair: &q}, rem, nil
	} else if !notFound(err) {
		return CContent{}, in, err
	}
	c, rem, err := parseComment(in, depth)
	if err != nil {
		return CContent{}, in, err
	}
	return CContent{Inner: &c}, rem, nil
}

func (c CContent) WriteTo(w io.Writer) (int64, error) {
	var inner io.WriterTo
	switch {
	case c.Pair != nil:
		inner = c.Pair
	case c.Inner != nil:
		inner = c.Inner
	default:
		inner = c.Text
	}
	return writeAll(w, cond(c.PreFWS, " "), inner)
}

// Comment is a parenthesized comment. Unbalanced or unterminated comments
// are hard errors: once the "(" has matched there is no other valid parse.
//
//	comment = "(" *([FWS] ccontent) [FWS] ")"
type Comment struct {
	Content  []CContent
	TrailFWS bool
}

func ParseComment(in []byte) (Comment, []byte, error) {
	return parseComment(in, 0)
}

func parseComment(in []byte, depth int) (Comment, []byte, error) {
	if len(in) == 0 {
		return Comment{}, in, ErrEOF
	}
	if in[0] != '(' {
		return Comment{}, in, ErrNotFound
	}
	if depth >= maxCommentDepth {
		return Comment{}, in, parseError("Comment", fmt.Errorf("comments nested deeper than %d", maxCommentDepth))
	}
	rem := in[1:]
	var c Comment
	for {
		r, pre := fws(rem)
		cc, r, err := parseCContent(r, depth+1)
		if err != nil {
			if !notFound(err) {
				return Comment{}, in, err
			}
			c.TrailFWS = pre
			break
		}
		cc.PreFWS = pre
		c.Content = append(c.Content, cc)
		rem = r
	}
	rem, _ = fws(rem)
	rem, err := needByte(rem, ')')
	if err != nil {
		return Comment{}, in, parseError("Comment", err)
	}
	return c, rem, nil
}

func (c Comment) WriteTo(w io.Writer) (int64, error) {
	parts := make([]io.WriterTo, 0, len(c.Content)+3)
	parts = append(parts, lit("("))
	for _, cc := range c.Content {
		parts = append(parts, cc)
	}
	parts = append(parts, cond(c.TrailFWS, " "), lit(")"))
	return writeAll(w, parts...)
}

// CommentFWS is a comment with its preceding folding-white-space flag.
type CommentFWS struct {
	PreFWS  bool
	Comment Comment
}

func (c CommentFWS) WriteTo(w io.Writer) (int64, error) {
	return writeAll(w, cond(c.PreFWS, " "), c.Comment)
}

// CFWS is a run of comments and folding white space. It is semantically
// insignificant, but its presence and its comments round-trip; the folding
// itself is normalized to single spaces on serialization.
//
//	CFWS = (1*([FWS] comment) [FWS]) / FWS
type CFWS struct {
	Comments []CommentFWS
	TrailFWS bool
}

func ParseCFWS(in []byte) (CFWS, []byte, error) {
	rem := in
	var c CFWS
	for {
		r, pre := fws(rem)
		cm, r, err := ParseComment(r)
		if err != nil {
			if !notFound(err) {
				return CFWS{}, in, err
			}
			c.TrailFWS = pre
			if pre {
				rem, _ = fws(rem)
			}
			break
		}
		c.Comments = append(c.Comments, CommentFWS{pre, cm})
		rem = r
	}
	if len(rem) == len(in) {
		if len(in) == 0 {
			return CFWS{}, in, ErrEOF
		}
		return CFWS{}, in, ErrNotFound
	}
	return c, rem, nil
}

func (c CFWS) WriteTo(w io.Writer) (int64, error) {
	parts := make([]io.WriterTo, 0, len(c.Comments)+1)
	for _, cf := range c.Comments {
		parts = append(parts, cf)
	}
	parts = append(parts, cond(c.TrailFWS, " "))
	return writeAll(w, parts...)
}

// optCFWS consumes optional CFWS, returning nil when absent. Hard errors
// from inside a comment are propagated.
func optCFWS(in []byte) (*CFWS, []byte, error) {
	c, rem, err := ParseCFWS(in)
	if err != nil {
		if notFound(err) {
			return nil, in, nil
		}
		return nil, in, err
	}
	return &c, rem, nil
}
