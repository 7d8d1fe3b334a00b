// Package bitstream implements the bit-level reader required by the Vorbis I
// bitpacking convention (https://xiph.org/vorbis/doc/Vorbis_I_spec.html#x1-360002):
// values are packed least-significant-bit first, both within a byte and
// across byte boundaries. Ported from pure_vorbis's bitstream.rs, which is
// itself a clean-room implementation of the convention rather than a
// translation of the C reference decoder.
package bitstream

import (
	"io"
	"math"

	"github.com/xiph-go/vorbis/internal/bitutil"
)

// Reader reads values packed per the Vorbis bitpacking convention from an
// underlying byte stream.
type Reader struct {
	r          io.Reader
	bitBuf     uint64
	bitBufLeft uint
}

// NewReader wraps r as a bit-level Vorbis reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

func (r *Reader) fillBitBuf() error {
	var buf [4]byte
	n, err := r.r.Read(buf[:])
	if err != nil && err != io.EOF {
		return err
	}
	r.bitBufLeft = uint(n) * 8
	if n == 0 {
		return nil
	}
	var bitBuf uint64
	for i := 0; i < n; i++ {
		bitBuf |= uint64(buf[i]) << (8 * uint(i))
	}
	r.bitBuf = bitBuf
	return nil
}

// readBitBuf extracts up to len bits from the internal buffer into *target
// at bit position offset, returning how many bits were actually available.
func (r *Reader) readBitBuf(target *uint32, offset, length uint) uint {
	if length == 0 || r.bitBufLeft == 0 {
		return 0
	}
	canRead := length
	if r.bitBufLeft < canRead {
		canRead = r.bitBufLeft
	}
	bits := bitutil.LSBits32(uint32(r.bitBuf), canRead)
	if offset == 0 {
		*target = bits
	} else {
		*target = bitutil.LSBits32(*target, offset) | (bits << offset)
	}
	if canRead == r.bitBufLeft {
		r.bitBuf = 0
		r.bitBufLeft = 0
	} else {
		r.bitBuf >>= canRead
		r.bitBufLeft -= canRead
	}
	return canRead
}

// TryReadBits attempts to read at most lenBits bits, returning the value and
// the number of bits actually read; it never fails on a short read, only on
// an underlying I/O error.
func (r *Reader) TryReadBits(lenBits uint) (uint32, uint, error) {
	if lenBits == 0 {
		return 0, 0, nil
	}
	if r.bitBufLeft == 0 {
		if err := r.fillBitBuf(); err != nil {
			return 0, 0, err
		}
	}
	var v uint32
	read := r.readBitBuf(&v, 0, lenBits)
	if read != 0 && read < lenBits && r.bitBufLeft == 0 {
		if err := r.fillBitBuf(); err != nil {
			return 0, 0, err
		}
		read += r.readBitBuf(&v, read, lenBits-read)
	}
	return v, read, nil
}

// ReadBits reads exactly lenBits bits, returning io.ErrUnexpectedEOF if the
// stream ends early.
func (r *Reader) ReadBits(lenBits uint) (uint32, error) {
	v, read, err := r.TryReadBits(lenBits)
	if err != nil {
		return 0, err
	}
	if read != lenBits {
		return 0, io.ErrUnexpectedEOF
	}
	return v, nil
}

// UnreadBits pushes bits back onto the front of the internal buffer, to be
// read again by the next TryReadBits/ReadBits call. Panics if the existing
// buffered bits plus lenBits would exceed 64 bits, i.e. more than 32 bits
// cannot be unread at once.
func (r *Reader) UnreadBits(bits uint32, lenBits uint) {
	if lenBits == 0 {
		return
	}
	if r.bitBufLeft+lenBits > 64 {
		panic("bitstream: cannot unread more than fits in the internal buffer")
	}
	r.bitBuf = (r.bitBuf << lenBits) | uint64(bitutil.LSBits32(bits, lenBits))
	r.bitBufLeft += lenBits
}

// ReadUint8Bits reads lenBits (<= 8) bits as a uint8.
func (r *Reader) ReadUint8Bits(lenBits uint) (uint8, error) {
	v, err := r.ReadBits(lenBits)
	return uint8(v), err
}

// ReadUint8 reads a full byte.
func (r *Reader) ReadUint8() (uint8, error) {
	return r.ReadUint8Bits(8)
}

// ReadUint16Bits reads lenBits (<= 16) bits as a uint16.
func (r *Reader) ReadUint16Bits(lenBits uint) (uint16, error) {
	v, err := r.ReadBits(lenBits)
	return uint16(v), err
}

// ReadUint16 reads 16 bits.
func (r *Reader) ReadUint16() (uint16, error) {
	return r.ReadUint16Bits(16)
}

// ReadInt32Bits reads a signed-magnitude integer: lenBits-1 magnitude bits
// followed by a sign bit.
func (r *Reader) ReadInt32Bits(lenBits uint) (int32, error) {
	u, err := r.ReadBits(lenBits - 1)
	if err != nil {
		return 0, err
	}
	sign, err := r.ReadBool()
	if err != nil {
		return 0, err
	}
	if sign {
		return -int32(u), nil
	}
	return int32(u), nil
}

// ReadUint32 reads 32 bits.
func (r *Reader) ReadUint32() (uint32, error) {
	return r.ReadBits(32)
}

// ReadInt32 reads a 32-bit signed-magnitude integer.
func (r *Reader) ReadInt32() (int32, error) {
	return r.ReadInt32Bits(32)
}

// ReadBool reads a single bit as a boolean.
func (r *Reader) ReadBool() (bool, error) {
	v, err := r.ReadUint8Bits(1)
	return v&1 == 1, err
}

// ReadFloat32 reads the Vorbis "float32_unpack" encoding: a packed 32-bit
// value with a sign bit, 10-bit exponent and 21-bit mantissa.
func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	return float32Unpack(v), nil
}

func float32Unpack(val uint32) float32 {
	mantissa := float32(val & 0x1FFFFF)
	if val&0x80000000 != 0 {
		mantissa = -mantissa
	}
	exponent := float32((val & 0x7FE00000) >> 21)
	return mantissa * float32(math.Pow(2, float64(exponent-788)))
}

// ReadFull reads exactly len(buf) whole bytes, honoring any bits currently
// buffered (so it composes with the bit-level reads above). It satisfies the
// shape of io.ReadFull's contract: a short read always returns
// io.ErrUnexpectedEOF.
func (r *Reader) ReadFull(buf []byte) error {
	for i := range buf {
		v, err := r.ReadUint8()
		if err != nil {
			return err
		}
		buf[i] = v
	}
	return nil
}
