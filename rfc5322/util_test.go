package rfc5322

import (
	"bytes"
	"io"
	"testing"
)

// serialize writes v and checks the returned count matches the bytes
// actually written.
func serialize(t *testing.T, v io.WriterTo) string {
	t.Helper()
	var b bytes.Buffer
	n, err := v.WriteTo(&b)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if n != int64(b.Len()) {
		t.Fatalf("serialize: wrote %d bytes but reported %d", b.Len(), n)
	}
	return b.String()
}
