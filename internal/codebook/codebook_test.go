package codebook

import (
	"bytes"
	"testing"

	"github.com/xiph-go/vorbis/internal/bitstream"
)

func TestReadRejectsBadSync(t *testing.T) {
	r := bitstream.NewReader(bytes.NewReader([]byte{0, 0, 0, 0, 0, 0, 0, 0}))
	if _, err := Read(r); err == nil {
		t.Fatal("expected error for invalid sync pattern")
	}
}

func TestReadUnorderedNoLookup(t *testing.T) {
	w := newBitWriter()
	w.put(0x42, 8)
	w.put(0x43, 8)
	w.put(0x56, 8)
	w.put(1, 16) // dim = 1
	w.put(4, 24) // entry_count = 4
	w.put(0, 1)  // ordered = false
	w.put(0, 1)  // sparse = false
	for i := 0; i < 4; i++ {
		w.put(1, 5) // length - 1 = 1 -> length 2
	}
	w.put(0, 4) // lookup kind = none

	r := bitstream.NewReader(bytes.NewReader(w.bytes()))
	cb, err := Read(r)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if cb.DimCount != 1 {
		t.Fatalf("DimCount = %d, want 1", cb.DimCount)
	}
	if cb.lookup != nil {
		t.Fatalf("expected no lookup table")
	}
}

func TestReadOrdered(t *testing.T) {
	w := newBitWriter()
	w.put(0x42, 8)
	w.put(0x43, 8)
	w.put(0x56, 8)
	w.put(2, 16) // dim = 2
	w.put(4, 24) // entry_count = 4
	w.put(1, 1)  // ordered = true
	w.put(1, 5)  // start length - 1 = 1 -> length 2
	// one run covering all 4 entries at length 2: ilog(4-0)=3 bits
	w.put(4, 3)
	w.put(0, 4) // lookup kind = none

	r := bitstream.NewReader(bytes.NewReader(w.bytes()))
	cb, err := Read(r)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if cb.DimCount != 2 {
		t.Fatalf("DimCount = %d, want 2", cb.DimCount)
	}
}

func TestLookup1ValueCountExact(t *testing.T) {
	cases := []struct {
		entries, dim, want int
	}{
		{343, 3, 7},   // 7^3 == 343 exactly
		{342, 3, 6},   // just under 7^3
		{344, 3, 7},   // just over 7^3, still < 8^3
		{256, 1, 256}, // dim 1 is an identity
		{1, 2, 1},
		{8, 3, 2}, // 2^3 == 8 exactly
	}
	for _, c := range cases {
		if got := lookup1ValueCount(c.entries, c.dim); got != c.want {
			t.Errorf("lookup1ValueCount(%d, %d) = %d, want %d", c.entries, c.dim, got, c.want)
		}
	}
}

func TestLookup1Decode(t *testing.T) {
	// dim=2, mults=[10,20,30] (len 3), min=0, delta=1, seqP=false.
	lt := &lookupTable{kind: lookupKind1, dim: 2, mults: []float32{10, 20, 30}}
	var p SlicePusher
	// offset=5 -> digit0 = 5%3=2, digit1 = (5/3)%3=1
	lt.lookup(&p, 5)
	want := []float32{30, 20}
	if len(p.Values) != 2 || p.Values[0] != want[0] || p.Values[1] != want[1] {
		t.Fatalf("lookup1(5) = %v, want %v", p.Values, want)
	}
}

func TestLookup1DecodeSequential(t *testing.T) {
	lt := &lookupTable{kind: lookupKind1, dim: 3, mults: []float32{1, 2}, seqP: true}
	var p SlicePusher
	// offset=0 -> digits all 0 -> mults[0]=1 each time, accumulating.
	lt.lookup(&p, 0)
	want := []float32{1, 2, 3}
	for i, v := range want {
		if p.Values[i] != v {
			t.Fatalf("lookup1 seqP values = %v, want %v", p.Values, want)
		}
	}
}

func TestLookup2Decode(t *testing.T) {
	// dim=2, entries=3: mults has entry*dim = 6 values.
	lt := &lookupTable{kind: lookupKind2, dim: 2, mults: []float32{1, 2, 3, 4, 5, 6}}
	var p SlicePusher
	lt.lookup(&p, 2) // base = 2*2 = 4 -> mults[4], mults[5]
	want := []float32{5, 6}
	if p.Values[0] != want[0] || p.Values[1] != want[1] {
		t.Fatalf("lookup2(2) = %v, want %v", p.Values, want)
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
