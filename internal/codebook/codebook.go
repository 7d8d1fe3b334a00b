// Package codebook implements Vorbis codebook parsing and decoding: a
// canonical Huffman code plus an optional VQ (vector quantization) lookup
// table (Lookup1 or Lookup2). Ported from pure_vorbis's codebook.rs.
package codebook

import (
	"math"

	"github.com/xiph-go/vorbis/internal/bitstream"
	"github.com/xiph-go/vorbis/internal/bitutil"
	"github.com/xiph-go/vorbis/internal/huffman"
	"github.com/xiph-go/vorbis/internal/verr"
)

// MaxCodewordLen is the largest codeword length permitted by the ordered
// codeword-length encoding (see readOrderedCodewordLens).
const MaxCodewordLen = 24

var syncPattern = [3]byte{0x42, 0x43, 0x56}

// Pusher receives the decoded components of a VQ lookup vector one value at
// a time, mirroring how a residue decode scatters values across channel
// buffers instead of collecting them into a flat slice.
type Pusher interface {
	Push(v float32)
}

// SlicePusher is a Pusher that appends into a plain slice.
type SlicePusher struct {
	Values []float32
}

// Push implements Pusher.
func (p *SlicePusher) Push(v float32) { p.Values = append(p.Values, v) }

// Codebook decodes values read from a Huffman-coded and optionally
// VQ-indexed codebook.
type Codebook struct {
	DimCount int
	Idx      int

	huffmanDecoder *huffman.Decoder
	lookup         *lookupTable
}

// Read parses a codebook descriptor from the setup header.
func Read(r *bitstream.Reader) (*Codebook, error) {
	var sync [3]byte
	if err := r.ReadFull(sync[:]); err != nil {
		return nil, verr.IO(err, "reading codebook sync pattern")
	}
	if sync != syncPattern {
		return nil, verr.Undecodablef("invalid codebook sync pattern")
	}

	dimCount, err := r.ReadUint16()
	if err != nil {
		return nil, verr.IO(err, "reading codebook dimension count")
	}
	entryCountBits, err := r.ReadBits(24)
	if err != nil {
		return nil, verr.IO(err, "reading codebook entry count")
	}
	entryCount := int(entryCountBits)
	ordered, err := r.ReadBool()
	if err != nil {
		return nil, verr.IO(err, "reading codebook ordered flag")
	}

	builder := huffman.NewBuilder(9)
	if ordered {
		if err := readOrderedCodewordLens(r, entryCount, builder); err != nil {
			return nil, err
		}
	} else {
		if err := readUnorderedCodewordLens(r, entryCount, builder); err != nil {
			return nil, err
		}
	}
	huffmanDecoder := builder.Build()

	lookup, err := readLookupTable(r, entryCount, int(dimCount))
	if err != nil {
		return nil, err
	}

	return &Codebook{
		DimCount:       int(dimCount),
		huffmanDecoder: huffmanDecoder,
		lookup:         lookup,
	}, nil
}

// DecodeScalar decodes a single Huffman-coded codebook entry index.
func (c *Codebook) DecodeScalar(r *bitstream.Reader) (uint32, error) {
	return c.huffmanDecoder.Decode(r)
}

// DecodeVQ decodes a Huffman-coded codebook entry and pushes its DimCount
// VQ lookup components into dst.
func (c *Codebook) DecodeVQ(r *bitstream.Reader, dst Pusher) error {
	if c.lookup == nil {
		return verr.Undecodablef("codebook has no VQ lookup table")
	}
	offset, err := c.DecodeScalar(r)
	if err != nil {
		return err
	}
	c.lookup.lookup(dst, int(offset))
	return nil
}

func readUnorderedCodewordLens(r *bitstream.Reader, count int, builder *huffman.Builder) error {
	sparse, err := r.ReadBool()
	if err != nil {
		return verr.IO(err, "reading codebook sparse flag")
	}
	for i := 0; i < count; i++ {
		if sparse {
			used, err := r.ReadBool()
			if err != nil {
				return verr.IO(err, "reading codebook entry used flag")
			}
			if !used {
				continue
			}
		}
		length, err := readCodewordLen(r)
		if err != nil {
			return err
		}
		if err := builder.CreateCode(uint32(i), length); err != nil {
			return err
		}
	}
	return nil
}

func readOrderedCodewordLens(r *bitstream.Reader, count int, builder *huffman.Builder) error {
	curEntry := 0
	curLen, err := readCodewordLen(r)
	if err != nil {
		return err
	}
	for curEntry < count {
		numLenBits := bitutil.Ilog32(uint32(count - curEntry))
		num, err := r.ReadBits(uint(numLenBits))
		if err != nil {
			return verr.IO(err, "reading codebook codeword run length")
		}
		if curEntry+int(num) > count {
			return verr.Undecodablef("codeword length counts mismatch")
		}
		if curLen > MaxCodewordLen {
			return verr.Undecodablef("codeword length exceeds maximum")
		}
		for i := uint32(0); i < num; i++ {
			if err := builder.CreateCode(uint32(curEntry), curLen); err != nil {
				return err
			}
			curEntry++
		}
		curLen++
	}
	return nil
}

func readCodewordLen(r *bitstream.Reader) (int, error) {
	v, err := r.ReadBits(5)
	if err != nil {
		return 0, verr.IO(err, "reading codebook codeword length")
	}
	return int(v) + 1, nil
}

const (
	lookupKindNone = 0
	lookupKind1    = 1
	lookupKind2    = 2
)

type lookupTable struct {
	kind  int
	dim   int
	mults []float32
	seqP  bool
}

func readLookupTable(r *bitstream.Reader, entryCount, dimCount int) (*lookupTable, error) {
	kind, err := r.ReadUint8Bits(4)
	if err != nil {
		return nil, verr.IO(err, "reading VQ lookup kind")
	}
	if kind == lookupKindNone {
		return nil, nil
	}
	if kind != lookupKind1 && kind != lookupKind2 {
		return nil, verr.Undecodablef("invalid VQ lookup type %d", kind)
	}

	min, err := r.ReadFloat32()
	if err != nil {
		return nil, verr.IO(err, "reading VQ lookup minimum")
	}
	delta, err := r.ReadFloat32()
	if err != nil {
		return nil, verr.IO(err, "reading VQ lookup delta")
	}
	valueLenBits, err := r.ReadUint8Bits(4)
	if err != nil {
		return nil, verr.IO(err, "reading VQ lookup value bit count")
	}
	valueLenBits++
	seqP, err := r.ReadBool()
	if err != nil {
		return nil, verr.IO(err, "reading VQ lookup sequence flag")
	}

	var multsLen int
	if int(kind) == lookupKind1 {
		multsLen = lookup1ValueCount(entryCount, dimCount)
	} else {
		multsLen = entryCount * dimCount
	}

	mults := make([]float32, multsLen)
	for i := range mults {
		v, err := r.ReadUint16Bits(uint(valueLenBits))
		if err != nil {
			return nil, verr.IO(err, "reading VQ lookup multiplicand")
		}
		mults[i] = float32(v)*delta + min
	}

	return &lookupTable{
		kind:  int(kind),
		dim:   dimCount,
		mults: mults,
		seqP:  seqP,
	}, nil
}

func (lt *lookupTable) lookup(dst Pusher, offset int) {
	if lt.kind == lookupKind1 {
		lt.lookup1(dst, offset)
	} else {
		lt.lookup2(dst, offset)
	}
}

func (lt *lookupTable) lookup1(dst Pusher, offset int) {
	var last float32
	indexDivisor := 1
	for i := 0; i < lt.dim; i++ {
		multOffset := (offset / indexDivisor) % len(lt.mults)
		value := lt.mults[multOffset] + last
		dst.Push(value)
		if lt.seqP {
			last = value
		}
		indexDivisor *= len(lt.mults)
	}
}

func (lt *lookupTable) lookup2(dst Pusher, offset int) {
	var last float32
	base := offset * lt.dim
	for i := 0; i < lt.dim; i++ {
		value := lt.mults[base+i] + last
		dst.Push(value)
		if lt.seqP {
			last = value
		}
	}
}

// lookup1ValueCount returns the unique r such that r^dimCount <= entryCount <
// (r+1)^dimCount. math.Pow's floating-point rounding can land one off from
// the true integer root, so the initial estimate is corrected by walking
// toward the value that actually satisfies the bound.
func lookup1ValueCount(entryCount, dimCount int) int {
	r := int(math.Pow(float64(entryCount), 1/float64(dimCount)))
	if r < 1 {
		r = 1
	}
	for ipow(r, dimCount) > entryCount {
		r--
	}
	for ipow(r+1, dimCount) <= entryCount {
		r++
	}
	return r
}

func ipow(base, exp int) int {
	result := 1
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}
