package rfc5322

import (
	"io"
)

// NoFoldLiteral is a domain literal without folding whitespace, used as the
// right side of a msg-id.
//
//	no-fold-literal = "[" *dtext "]"
type NoFoldLiteral struct {
	Text DText
}

func ParseNoFoldLiteral(in []byte) (NoFoldLiteral, []byte, error) {
	rem, err := takeByte(in, '[')
	if err != nil {
		return NoFoldLiteral{}, in, err
	}
	var text DText
	if t, r, err := ParseDText(rem); err == nil {
		text, rem = t, r
	} else if !notFound(err) {
		return NoFoldLiteral{}, in, err
	}
	rem, err = needByte(rem, ']')
	if err != nil {
		return NoFoldLiteral{}, in, parseError("NoFoldLiteral", err)
	}
	return NoFoldLiteral{text}, rem, nil
}

func (l NoFoldLiteral) WriteTo(w io.Writer) (int64, error) {
	return writeAll(w, lit("["), l.Text, lit("]"))
}

// MsgID is a unique message identifier in angle brackets. The right side is
// either a dot-atom-text or a no-fold-literal. Surrounding CFWS serializes
// as single spaces.
//
//	msg-id = [CFWS] "<" id-left "@" id-right ">" [CFWS]
type MsgID struct {
	Pre     *CFWS
	Left    DotAtomText
	Right   DotAtomText // empty when Literal is set
	Literal *NoFoldLiteral
	Post    *CFWS
}

func ParseMsgID(in []byte) (MsgID, []byte, error) {
	var id MsgID
	pre, rem, err := optCFWS(in)
	if err != nil {
		return MsgID{}, in, err
	}
	id.Pre = pre
	rem, err = takeByte(rem, '<')
	if err != nil {
		return MsgID{}, in, err
	}
	// Committed, the rest of the msg-id must be present.
	id.Left, rem, err = ParseDotAtomText(rem)
	if err != nil {
		return MsgID{}, in, parseError("MsgID", err)
	}
	rem, err = needByte(rem, '@')
	if err != nil {
		return MsgID{}, in, parseError("MsgID", err)
	}
	if right, r, err := ParseDotAtomText(rem); err == nil {
		id.Right, rem = right, r
	} else if !notFound(err) {
		return MsgID{}, in, err
	} else {
		l, r, err := ParseNoFoldLiteral(rem)
		if err != nil {
			return MsgID{}, in, parseError("MsgID", err)
		}
		id.Literal, rem = &l, r
	}
	rem, err = needByte(rem, '>')
	if err != nil {
		return MsgID{}, in, parseError("MsgID", err)
	}
	id.Post, rem, err = optCFWS(rem)
	if err != nil {
		return MsgID{}, in, err
	}
	return id, rem, nil
}

func (id MsgID) WriteTo(w io.Writer) (int64, error) {
	var right io.WriterTo = id.Right
	if id.Literal != nil {
		right = id.Literal
	}
	return writeAll(w, opt(id.Pre), lit("<"), id.Left, lit("@"), right, lit(">"), opt(id.Post))
}

// String returns the identifier without whitespace, including the angle
// brackets.
func (id MsgID) String() string {
	right := id.Right.String()
	if id.Literal != nil {
		right = "[" + string(id.Literal.Text) + "]"
	}
	return "<" + id.Left.String() + "@" + right + ">"
}
