package residue

import (
	"bytes"
	"testing"

	"github.com/xiph-go/vorbis/internal/bitstream"
)

func TestReadRejectsType0(t *testing.T) {
	// residue type 0, 16 bits little bit-order: value 0
	r := bitstream.NewReader(bytes.NewReader([]byte{0, 0}))
	if _, err := Read(r, 1); err == nil {
		t.Fatal("expected error for residue type 0")
	}
}

func TestReadBasicType1(t *testing.T) {
	var buf bytes.Buffer
	w := newBitWriter()
	w.put(1, 16)  // type
	w.put(0, 24)  // begin
	w.put(8, 24)  // end
	w.put(3, 24)  // partition_size - 1 = 3 -> size 4
	w.put(0, 6)   // classifications - 1 = 0 -> 1 classification
	w.put(0, 8)   // classbook index 0
	w.put(0, 3)   // cascade low bits = 0
	w.put(0, 1)   // no high bits
	buf.Write(w.bytes())

	r := bitstream.NewReader(&buf)
	res, err := Read(r, 1)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if res.kind != kindResidue1 || res.partitionSize != 4 {
		t.Fatalf("got kind=%d partitionSize=%d", res.kind, res.partitionSize)
	}
}

// bitWriter is a tiny LSB-first bit packer used only to build test fixtures;
// it mirrors the convention implemented by bitstream.Reader.
type bitWriter struct {
	buf     []byte
	cur     byte
	curBits uint
}

func newBitWriter() *bitWriter { return &bitWriter{} }

func (w *bitWriter) put(v uint32, n uint) {
	for i := uint(0); i < n; i++ {
		bit := byte((v >> i) & 1)
		w.cur |= bit << w.curBits
		w.curBits++
		if w.curBits == 8 {
			w.buf = append(w.buf, w.cur)
			w.cur = 0
			w.curBits = 0
		}
	}
}

func (w *bitWriter) bytes() []byte {
	if w.curBits > 0 {
		return append(append([]byte{}, w.buf...), w.cur)
	}
	return w.buf
}
