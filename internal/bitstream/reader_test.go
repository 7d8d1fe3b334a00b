package bitstream

import (
	"bytes"
	"io"
	"testing"
)

func TestTryReadBits(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0b001_00110}))
	v, n, err := r.TryReadBits(5)
	if err != nil || v != 0b00110 || n != 5 {
		t.Fatalf("got (%b, %d, %v)", v, n, err)
	}
	v, n, err = r.TryReadBits(32)
	if err != nil || v != 0b001 || n != 3 {
		t.Fatalf("got (%b, %d, %v)", v, n, err)
	}
}

func TestReadBitsVar(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0b0_0100110, 0b0111_0011, 0b0110_1001}))
	expect(t, r, 7, 0b0100110)
	expect(t, r, 5, 0b00110)
	expect(t, r, 4, 0b0111)
	expect(t, r, 4, 0b1001)
	if _, err := r.ReadBits(5); err != io.ErrUnexpectedEOF {
		t.Fatalf("expected ErrUnexpectedEOF, got %v", err)
	}
}

func TestReadBits10_1(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0b00100110, 0b011100_11, 0b0000_1001, 0, 0}))
	expect(t, r, 10, 0b1100100110)
	expect(t, r, 10, 0b1001011100)
}

func TestReadBits10_2(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0b01011101, 0b010111_00, 0b0100_0000, 0b10010111}))
	expect(t, r, 10, 0b0001011101)
	expect(t, r, 10, 0b0000010111)
	expect(t, r, 10, 0b0101110100)
}

func TestReadBitsSecondRead(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{
		0b01011101, 0b01011100, 0b01000000, 0b10010111, 0b00100110,
	}))
	expect(t, r, 25, 0b1_01000000_01011100_01011101)
	expect(t, r, 9, 0b10_1001011)
	expect(t, r, 6, 0b001001)
	if _, err := r.ReadBits(1); err != io.ErrUnexpectedEOF {
		t.Fatalf("expected ErrUnexpectedEOF, got %v", err)
	}
}

func TestReadInt32Bits(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0b01_011_101, 0b11011100}))
	if v, err := r.ReadInt32Bits(3); err != nil || v != -0b001 {
		t.Fatalf("got (%d, %v)", v, err)
	}
	if v, err := r.ReadInt32Bits(3); err != nil || v != 0b011 {
		t.Fatalf("got (%d, %v)", v, err)
	}
	if v, err := r.ReadInt32Bits(9); err != nil || v != -0b001110001 {
		t.Fatalf("got (%d, %v)", v, err)
	}
}

func TestReadUint8(t *testing.T) {
	inp := []byte{0b11111100, 0b01001000, 0b11001110, 0b00000110}
	r := NewReader(bytes.NewReader(inp))
	for _, e := range inp {
		v, err := r.ReadUint8()
		if err != nil || v != e {
			t.Fatalf("got (%08b, %v), want %08b", v, err, e)
		}
	}
}

func TestUnreadBits(t *testing.T) {
	inp := []byte{0b01011101, 0b01011100, 0b01000000, 0b10010111, 0b00100110}
	r := NewReader(bytes.NewReader(inp))
	v, err := r.ReadUint8()
	if err != nil || v != 0b01011101 {
		t.Fatalf("got (%08b, %v)", v, err)
	}
	r.UnreadBits(0b01011101, 8)
	expect(t, r, 25, 0b1_01000000_01011100_01011101)
	r.UnreadBits(0b1_01000000_01011100_01011101, 25)

	act := make([]byte, 5)
	if err := r.ReadFull(act); err != nil {
		t.Fatalf("ReadFull: %v", err)
	}
	if !bytes.Equal(act, inp) {
		t.Fatalf("got %08b, want %08b", act, inp)
	}
}

func TestReadFloat32(t *testing.T) {
	// float32_unpack is exercised indirectly through codebook lookup table
	// parsing; this just checks zero round-trips without panicking.
	r := NewReader(bytes.NewReader([]byte{0, 0, 0, 0}))
	v, err := r.ReadFloat32()
	if err != nil || v != 0 {
		t.Fatalf("got (%v, %v)", v, err)
	}
}

func expect(t *testing.T, r *Reader, n uint, want uint32) {
	t.Helper()
	v, err := r.ReadBits(n)
	if err != nil {
		t.Fatalf("ReadBits(%d): %v", n, err)
	}
	if v != want {
		t.Fatalf("ReadBits(%d) = %b, want %b", n, v, want)
	}
}
