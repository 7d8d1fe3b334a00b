// Package huffman implements canonical Huffman decoding for Vorbis
// codebooks: a direct lookup table for short codes plus a sorted array of
// long codes searched linearly. Ported from pure_vorbis's huffman.rs.
package huffman

import (
	"io"
	"sort"

	"github.com/xiph-go/vorbis/internal/bitstream"
	"github.com/xiph-go/vorbis/internal/bitutil"
	"github.com/xiph-go/vorbis/internal/verr"
)

type codeValue struct {
	value uint32
	len   int
}

type lookupEntry struct {
	kind  lookupEntryKind
	value codeValue
}

type lookupEntryKind int

const (
	entryNull lookupEntryKind = iota
	entryCode
	entryLongCode
)

type lookupTable struct {
	entries []lookupEntry
	lenBits int
}

func (lt *lookupTable) isEmpty() bool { return lt.lenBits == 0 }

// set fans entry out across every lookup table slot whose low codeLen bits
// equal code; codeLen must already be <= lt.lenBits.
func (lt *lookupTable) set(code uint32, codeLen int, entry lookupEntry) {
	code = bitutil.LSBits32(code, uint(codeLen))
	index := int(code)
	lastIndex := (len(lt.entries)-1)&^int(bitutil.LSBMask(uint(codeLen))) | index
	step := 1 << uint(codeLen)
	for {
		lt.entries[index] = entry
		if index == lastIndex {
			break
		}
		index += step
	}
}

type longCode struct {
	sortKey uint32
	code    uint32
	value   uint32
	len     int
}

// Decoder decodes canonical Huffman codes read per the Vorbis bitpacking
// convention.
type Decoder struct {
	lookupTable lookupTable
	longCodes   []longCode
	maxCodeLen  int
}

// Builder incrementally assigns canonical codeword lengths and builds a
// Decoder.
type Builder struct {
	lookupTable lookupTable
	longCodes   []longCode
	curCodes    [31]int32 // -1 == None; index 0 is length 1
	maxCodeLen  int
}

// NewBuilder creates a Builder whose direct lookup table holds
// lookupTableBits bits worth of short codes (codes longer than this many
// bits fall back to the long-code array).
func NewBuilder(lookupTableBits int) *Builder {
	if lookupTableBits <= 0 || lookupTableBits >= 32 {
		panic("huffman: lookupTableBits out of range")
	}
	entries := make([]lookupEntry, 1<<uint(lookupTableBits))
	b := &Builder{
		lookupTable: lookupTable{entries: entries, lenBits: lookupTableBits},
	}
	for i := range b.curCodes {
		b.curCodes[i] = -1
	}
	return b
}

// CreateCode assigns the next available canonical code of the given length
// to value.
func (b *Builder) CreateCode(value uint32, length int) error {
	codeStraight, err := b.nextCode(length)
	if err != nil {
		return err
	}
	code := bitutil.ReverseUint32(codeStraight) >> uint(32-length)
	cv := codeValue{value: value, len: length}

	isLongCode := true
	if !b.lookupTable.isEmpty() && length > 0 {
		if length <= b.lookupTable.lenBits {
			b.lookupTable.set(code, length, lookupEntry{kind: entryCode, value: cv})
			isLongCode = false
		} else {
			b.lookupTable.set(code, b.lookupTable.lenBits, lookupEntry{kind: entryLongCode})
			isLongCode = true
		}
	}

	if isLongCode {
		b.longCodes = append(b.longCodes, longCode{
			sortKey: codeStraight,
			code:    code,
			value:   value,
			len:     length,
		})
	}
	return nil
}

// Build finalizes the Decoder. The Builder must not be used afterwards.
func (b *Builder) Build() *Decoder {
	for i := range b.longCodes {
		lc := &b.longCodes[i]
		lc.sortKey <<= uint(b.maxCodeLen - lc.len)
	}
	sort.Slice(b.longCodes, func(i, j int) bool {
		return b.longCodes[i].sortKey < b.longCodes[j].sortKey
	})
	return &Decoder{
		lookupTable: b.lookupTable,
		longCodes:   b.longCodes,
		maxCodeLen:  b.maxCodeLen,
	}
}

func (b *Builder) nextCode(length int) (uint32, error) {
	r, err := b.doNextCode(length)
	if err != nil {
		return 0, err
	}
	if length > b.maxCodeLen {
		b.maxCodeLen = length
	}
	return r, nil
}

func (b *Builder) doNextCode(length int) (uint32, error) {
	if length <= 0 || length >= 32 {
		panic("huffman: codeword length out of range")
	}
	idx := length - 1

	if b.curCodes[idx] < 0 {
		var r uint32
		if idx > 0 {
			v, err := b.doNextCode(idx)
			if err != nil {
				return 0, err
			}
			r = v << 1
		}
		b.curCodes[idx] = int32(r)
		return r, nil
	}

	cur := uint32(b.curCodes[idx])
	if cur&1 == 0 {
		cur |= 1
		b.curCodes[idx] = int32(cur)
		return cur, nil
	}

	if length == 1 {
		return 0, verr.Undecodablef("overspecified Huffman tree")
	}
	v, err := b.doNextCode(idx)
	if err != nil {
		return 0, err
	}
	cur = v << 1
	b.curCodes[idx] = int32(cur)
	return cur, nil
}

// Decode reads the next canonical Huffman code from r and returns its
// associated value.
func (d *Decoder) Decode(r *bitstream.Reader) (uint32, error) {
	lookupLenBits := d.maxCodeLen
	if d.lookupTable.lenBits < lookupLenBits {
		lookupLenBits = d.lookupTable.lenBits
	}
	codeBits, read, err := r.TryReadBits(uint(lookupLenBits))
	if err != nil {
		return 0, verr.IO(err, "reading Huffman code")
	}
	if read == 0 {
		return 0, io.ErrUnexpectedEOF
	}

	var code codeValue
	switch entry := d.lookupTable.entries[codeBits]; entry.kind {
	case entryCode:
		code = entry.value
	case entryLongCode:
		v, r2, err := r.TryReadBits(uint(d.maxCodeLen - lookupLenBits))
		if err != nil {
			return 0, verr.IO(err, "reading long Huffman code")
		}
		read += r2
		if read == 0 {
			return 0, io.ErrUnexpectedEOF
		}
		codeBits |= v << uint(lookupLenBits)
		code, err = d.findLongCode(codeBits, read)
		if err != nil {
			return 0, err
		}
	case entryNull:
		return 0, verr.Undecodablef("matched a null Huffman code entry")
	}

	switch {
	case code.len < int(read):
		unreadLen := uint(int(read) - code.len)
		unreadBits := codeBits >> uint(code.len)
		r.UnreadBits(unreadBits, unreadLen)
	case code.len > int(read):
		return 0, io.ErrUnexpectedEOF
	}
	return code.value, nil
}

func (d *Decoder) findLongCode(bits uint32, length uint) (codeValue, error) {
	for _, lc := range d.longCodes {
		if uint(lc.len) <= length &&
			bitutil.LSBits32(lc.code, uint(lc.len)) == bitutil.LSBits32(bits, uint(lc.len)) {
			return codeValue{value: lc.value, len: lc.len}, nil
		}
	}
	return codeValue{}, verr.Undecodablef("incomplete or unknown Huffman code")
}
