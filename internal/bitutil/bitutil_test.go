package bitutil

import "testing"

func TestIlog32(t *testing.T) {
	cases := []struct {
		in   uint32
		want int
	}{
		{0, 0},
		{1, 1},
		{2, 2},
		{3, 2},
		{4, 3},
		{7, 3},
		{8, 4},
		{255, 8},
		{256, 9},
	}
	for _, c := range cases {
		if got := Ilog32(c.in); got != c.want {
			t.Errorf("Ilog32(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestReverseByteRoundTrip(t *testing.T) {
	for v := 0; v < 256; v++ {
		b := byte(v)
		if got := ReverseByte(ReverseByte(b)); got != b {
			t.Fatalf("ReverseByte(ReverseByte(%d)) = %d, want %d", b, got, b)
		}
	}
}

func TestReverseByteKnownValues(t *testing.T) {
	cases := []struct {
		in, want byte
	}{
		{0x00, 0x00},
		{0xFF, 0xFF},
		{0x01, 0x80},
		{0x80, 0x01},
		{0b0000_1111, 0b1111_0000},
	}
	for _, c := range cases {
		if got := ReverseByte(c.in); got != c.want {
			t.Errorf("ReverseByte(%08b) = %08b, want %08b", c.in, got, c.want)
		}
	}
}

func TestReverseUint32RoundTrip(t *testing.T) {
	vals := []uint32{0, 1, 0xFFFFFFFF, 0x12345678, 0x80000001, 0xDEADBEEF}
	for _, v := range vals {
		if got := ReverseUint32(ReverseUint32(v)); got != v {
			t.Fatalf("ReverseUint32(ReverseUint32(0x%X)) = 0x%X, want 0x%X", v, got, v)
		}
	}
}

func TestReverseUint32KnownValue(t *testing.T) {
	if got := ReverseUint32(0x00000001); got != 0x80000000 {
		t.Fatalf("ReverseUint32(1) = 0x%X, want 0x80000000", got)
	}
}

func TestLSBMask(t *testing.T) {
	cases := []struct {
		length uint
		want   uint32
	}{
		{0, 0},
		{1, 1},
		{4, 0xF},
		{8, 0xFF},
		{32, 0xFFFFFFFF},
	}
	for _, c := range cases {
		if got := LSBMask(c.length); got != c.want {
			t.Errorf("LSBMask(%d) = 0x%X, want 0x%X", c.length, got, c.want)
		}
	}
}

func TestLSBits32(t *testing.T) {
	if got := LSBits32(0xABCDEF01, 8); got != 0x01 {
		t.Fatalf("LSBits32(0xABCDEF01, 8) = 0x%X, want 0x01", got)
	}
	if got := LSBits32(0xABCDEF01, 0); got != 0 {
		t.Fatalf("LSBits32(0xABCDEF01, 0) = 0x%X, want 0", got)
	}
}
