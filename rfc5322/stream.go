package rfc5322

import (
	"io"
)

// Serialization helpers. Every production implements io.WriterTo; composite
// productions assemble their children and literal separators with writeAll,
// accumulating the exact byte count. A single write error aborts the
// serialization and is returned as is.

// lit is a literal byte sequence in serialized output.
type lit string

func (l lit) WriteTo(w io.Writer) (int64, error) {
	return writeStr(w, string(l))
}

func writeStr(w io.Writer, s string) (int64, error) {
	n, err := io.WriteString(w, s)
	return int64(n), err
}

func writeBytes(w io.Writer, buf []byte) (int64, error) {
	n, err := w.Write(buf)
	return int64(n), err
}

func writeAll(w io.Writer, l ...io.WriterTo) (int64, error) {
	var total int64
	for _, wt := range l {
		n, err := wt.WriteTo(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// opt makes a possibly-absent production streamable, writing nothing when p
// is nil.
func opt[T any, P interface {
	*T
	io.WriterTo
}](p P) io.WriterTo {
	if p == nil {
		return lit("")
	}
	return p
}

// cond writes s if present is set, nothing otherwise. Used for the
// normalized single-space rendering of whitespace flags.
func cond(present bool, s string) io.WriterTo {
	if present {
		return lit(s)
	}
	return lit("")
}
