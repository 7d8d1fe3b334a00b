// Package mdct implements the inverse Modified Discrete Cosine Transform
// used to synthesize time-domain samples from the frequency-domain residue
// of a Vorbis block. This is a split-radix formulation ported directly from
// pure_vorbis's mdct.rs, itself a port of the reference libvorbis inverse
// MDCT (mdct.c): a pair of half-length rotation passes feed a recursive
// radix-4/8/16/32 butterfly network, followed by a bit-reversal stage and a
// final rotation/window-split pass. Block length must be a power of two of
// at least 64, which every Vorbis I block size (64..8192) satisfies; shorter
// lengths are not supported, since the final butterfly stage always works
// on 32-element groups of the n/2 upper half.
package mdct

import (
	"math"

	"github.com/xiph-go/vorbis/internal/bitutil"
)

const (
	pi3_8 = 0.38268343236508977175
	pi2_8 = 0.70710678118654752441
	pi1_8 = 0.92387953251128675613
)

// MDCT precomputes the trig and bit-reversal tables for one block size.
type MDCT struct {
	n      int
	log2n  int
	trig   []float32
	bitrev []int

	scratch []float32 // full-length working buffer, reused across calls
}

// New builds an inverse MDCT engine for the given block length.
func New(n int) *MDCT {
	halfN := n / 2
	quarterN := n / 4

	trig := make([]float32, n+quarterN)
	for i := 0; i < quarterN; i++ {
		i2 := float64(i) * 2
		trig[i*2] = float32(math.Cos((math.Pi / float64(n)) * (2 * i2)))
		trig[i*2+1] = float32(-math.Sin((math.Pi / float64(n)) * (2 * i2)))
		trig[halfN+i*2] = float32(math.Cos((math.Pi / float64(2*n)) * (i2 + 1)))
		trig[halfN+i*2+1] = float32(math.Sin((math.Pi / float64(2*n)) * (i2 + 1)))
	}
	for i := 0; i < n/8; i++ {
		i2 := float64(i) * 2
		trig[n+i*2] = float32(math.Cos((math.Pi/float64(n))*(2*i2+2))) * 0.5
		trig[n+i*2+1] = float32(-math.Sin((math.Pi/float64(n))*(2*i2+2))) * 0.5
	}

	log2n := bitutil.Ilog32(uint32(n)) - 1
	bitrev := make([]int, 0, n/4)
	mask := (1 << uint(log2n-1)) - 1
	msb := 1 << uint(log2n-2)
	for i := 0; i < n/8; i++ {
		acc := 0
		for j := 0; (msb >> uint(j)) != 0; j++ {
			if (msb>>uint(j))&i != 0 {
				acc |= 1 << uint(j)
			}
		}
		bitrev = append(bitrev, ((^acc)&mask)-1)
		bitrev = append(bitrev, acc)
	}

	return &MDCT{n: n, log2n: log2n, trig: trig, bitrev: bitrev, scratch: make([]float32, n)}
}

// N reports the full (time-domain) block length.
func (m *MDCT) N() int { return m.n }

// Inverse computes the inverse MDCT of in (length n/2) into a freshly
// allocated output vector of length n.
func (m *MDCT) Inverse(in []float32) []float32 {
	out := make([]float32, m.n)
	m.InverseInto(in, out)
	return out
}

// InverseInto computes the inverse MDCT of in (length n/2) into out
// (length n), which the caller owns.
func (m *MDCT) InverseInto(in, out []float32) {
	n2 := m.n / 2
	buf := m.scratch
	copy(buf[:n2], in)
	for i := n2; i < m.n; i++ {
		buf[i] = 0
	}
	m.inverse(buf)
	copy(out, buf)
}

// inverse runs the transform on buf (length n) in place: buf holds the n/2
// input coefficients followed by n/2 zeros on entry, and the full n-sample
// time-domain block on return.
func (m *MDCT) inverse(buf []float32) {
	n := m.n
	n2 := n >> 1
	n4 := n >> 2
	tri := m.trig

	// rotate
	{
		ix := n2 - 7
		ox := n2 + n4
		t := n4
		for {
			ox -= 4
			buf[ox+0] = -buf[ix+2]*tri[t+3] - buf[ix+0]*tri[t+2]
			buf[ox+1] = buf[ix+0]*tri[t+3] - buf[ix+2]*tri[t+2]
			buf[ox+2] = -buf[ix+6]*tri[t+1] - buf[ix+4]*tri[t+0]
			buf[ox+3] = buf[ix+4]*tri[t+1] - buf[ix+6]*tri[t+0]

			if ix < 8 {
				break
			}
			ix -= 8
			t += 4
		}
	}

	{
		ix := n2 - 8
		ox := n2 + n4
		t := n4
		for {
			t -= 4
			buf[ox+0] = buf[ix+4]*tri[t+3] + buf[ix+6]*tri[t+2]
			buf[ox+1] = buf[ix+4]*tri[t+2] - buf[ix+6]*tri[t+3]
			buf[ox+2] = buf[ix+0]*tri[t+1] + buf[ix+2]*tri[t+0]
			buf[ox+3] = buf[ix+0]*tri[t+0] - buf[ix+2]*tri[t+1]

			if ix < 8 {
				break
			}
			ix -= 8
			ox += 4
		}
	}

	m.butterflies(buf[n2:])
	m.bitreverse(buf)

	// rotate + window
	{
		ox1 := n2 + n4
		ox2 := n2 + n4
		ix := 0
		t := n2
		for {
			ox1 -= 4

			buf[ox1+3] = buf[ix+0]*tri[t+1] - buf[ix+1]*tri[t+0]
			buf[ox2+0] = -(buf[ix+0]*tri[t+0] + buf[ix+1]*tri[t+1])

			buf[ox1+2] = buf[ix+2]*tri[t+3] - buf[ix+3]*tri[t+2]
			buf[ox2+1] = -(buf[ix+2]*tri[t+2] + buf[ix+3]*tri[t+3])

			buf[ox1+1] = buf[ix+4]*tri[t+5] - buf[ix+5]*tri[t+4]
			buf[ox2+2] = -(buf[ix+4]*tri[t+4] + buf[ix+5]*tri[t+5])

			buf[ox1+0] = buf[ix+6]*tri[t+7] - buf[ix+7]*tri[t+6]
			buf[ox2+3] = -(buf[ix+6]*tri[t+6] + buf[ix+7]*tri[t+7])

			ox2 += 4
			ix += 8
			t += 8

			if ix >= ox1 {
				break
			}
		}
	}

	{
		ix := n2 + n4
		ox1 := n4
		ox2 := ox1
		for {
			ox1 -= 4
			ix -= 4

			v := buf[ix+3]
			buf[ox1+3] = v
			buf[ox2+0] = -v

			v = buf[ix+2]
			buf[ox1+2] = v
			buf[ox2+1] = -v

			v = buf[ix+1]
			buf[ox1+1] = v
			buf[ox2+2] = -v

			v = buf[ix+0]
			buf[ox1+0] = v
			buf[ox2+3] = -v

			ox2 += 4

			if ox2 >= ix {
				break
			}
		}
	}

	{
		ix := n2 + n4
		ox1 := n2 + n4
		ox2 := n2
		for {
			ox1 -= 4
			buf[ox1+0] = buf[ix+3]
			buf[ox1+1] = buf[ix+2]
			buf[ox1+2] = buf[ix+1]
			buf[ox1+3] = buf[ix+0]
			ix += 4

			if ox1 <= ox2 {
				break
			}
		}
	}
}

// butterflies runs the recursive radix-4 butterfly network over the upper
// half of the working buffer.
func (m *MDCT) butterflies(x []float32) {
	stages := m.log2n - 5

	if stages > 1 {
		m.butterflyFirst(x)
	}

	length := len(x)
	for i := 1; i < stages-1; i++ {
		for j := 0; j < (1 << uint(i)); j++ {
			l := length >> uint(i)
			start := l * j
			m.butterflyGeneric(x[start:start+l], 4<<uint(i))
		}
	}

	for j := 0; j < len(x); j += 32 {
		butterfly32(x[j:])
	}
}

// butterflyFirst is the N-point first-stage butterfly.
func (m *MDCT) butterflyFirst(x []float32) {
	tri := m.trig
	t := 0
	x1 := len(x) - 8
	x2 := (len(x) >> 1) - 8

	for {
		r0 := x[x1+6] - x[x2+6]
		r1 := x[x1+7] - x[x2+7]
		x[x1+6] += x[x2+6]
		x[x1+7] += x[x2+7]
		x[x2+6] = r1*tri[t+1] + r0*tri[t+0]
		x[x2+7] = r1*tri[t+0] - r0*tri[t+1]

		r0 = x[x1+4] - x[x2+4]
		r1 = x[x1+5] - x[x2+5]
		x[x1+4] += x[x2+4]
		x[x1+5] += x[x2+5]
		x[x2+4] = r1*tri[t+5] + r0*tri[t+4]
		x[x2+5] = r1*tri[t+4] - r0*tri[t+5]

		r0 = x[x1+2] - x[x2+2]
		r1 = x[x1+3] - x[x2+3]
		x[x1+2] += x[x2+2]
		x[x1+3] += x[x2+3]
		x[x2+2] = r1*tri[t+9] + r0*tri[t+8]
		x[x2+3] = r1*tri[t+8] - r0*tri[t+9]

		r0 = x[x1+0] - x[x2+0]
		r1 = x[x1+1] - x[x2+1]
		x[x1+0] += x[x2+0]
		x[x1+1] += x[x2+1]
		x[x2+0] = r1*tri[t+13] + r0*tri[t+12]
		x[x2+1] = r1*tri[t+12] - r0*tri[t+13]

		if x2 < 8 {
			break
		}
		x1 -= 8
		x2 -= 8
		t += 16
	}
}

// butterflyGeneric is the N/stage-point generic stage butterfly.
func (m *MDCT) butterflyGeneric(x []float32, trigint int) {
	tri := m.trig

	x1 := len(x) - 8
	x2 := (len(x) >> 1) - 8
	t := 0

	for {
		r0 := x[x1+6] - x[x2+6]
		r1 := x[x1+7] - x[x2+7]
		x[x1+6] += x[x2+6]
		x[x1+7] += x[x2+7]
		x[x2+6] = r1*tri[t+1] + r0*tri[t+0]
		x[x2+7] = r1*tri[t+0] - r0*tri[t+1]

		t += trigint

		r0 = x[x1+4] - x[x2+4]
		r1 = x[x1+5] - x[x2+5]
		x[x1+4] += x[x2+4]
		x[x1+5] += x[x2+5]
		x[x2+4] = r1*tri[t+1] + r0*tri[t+0]
		x[x2+5] = r1*tri[t+0] - r0*tri[t+1]

		t += trigint

		r0 = x[x1+2] - x[x2+2]
		r1 = x[x1+3] - x[x2+3]
		x[x1+2] += x[x2+2]
		x[x1+3] += x[x2+3]
		x[x2+2] = r1*tri[t+1] + r0*tri[t+0]
		x[x2+3] = r1*tri[t+0] - r0*tri[t+1]

		t += trigint

		r0 = x[x1+0] - x[x2+0]
		r1 = x[x1+1] - x[x2+1]
		x[x1+0] += x[x2+0]
		x[x1+1] += x[x2+1]
		x[x2+0] = r1*tri[t+1] + r0*tri[t+0]
		x[x2+1] = r1*tri[t+0] - r0*tri[t+1]

		t += trigint
		if x2 < 8 {
			break
		}
		x1 -= 8
		x2 -= 8
	}
}

// butterfly8 is the 8-point butterfly.
func butterfly8(x []float32) {
	r0 := x[6] + x[2]
	r1 := x[6] - x[2]
	r2 := x[4] + x[0]
	r3 := x[4] - x[0]

	x[6] = r0 + r2
	x[4] = r0 - r2

	r0 = x[5] - x[1]
	r2 = x[7] - x[3]
	x[0] = r1 + r0
	x[2] = r1 - r0

	r0 = x[5] + x[1]
	r1 = x[7] + x[3]
	x[3] = r2 + r3
	x[1] = r2 - r3
	x[7] = r1 + r0
	x[5] = r1 - r0
}

// butterfly16 is the 16-point butterfly.
func butterfly16(x []float32) {
	r0 := x[1] - x[9]
	r1 := x[0] - x[8]

	x[8] += x[0]
	x[9] += x[1]
	x[0] = (r0 + r1) * pi2_8
	x[1] = (r0 - r1) * pi2_8

	r0 = x[3] - x[11]
	r1 = x[10] - x[2]
	x[10] += x[2]
	x[11] += x[3]
	x[2] = r0
	x[3] = r1

	r0 = x[12] - x[4]
	r1 = x[13] - x[5]
	x[12] += x[4]
	x[13] += x[5]
	x[4] = (r0 - r1) * pi2_8
	x[5] = (r0 + r1) * pi2_8

	r0 = x[14] - x[6]
	r1 = x[15] - x[7]
	x[14] += x[6]
	x[15] += x[7]
	x[6] = r0
	x[7] = r1

	butterfly8(x)
	butterfly8(x[8:])
}

// butterfly32 is the 32-point butterfly.
func butterfly32(x []float32) {
	r0 := x[30] - x[14]
	r1 := x[31] - x[15]
	x[30] += x[14]
	x[31] += x[15]
	x[14] = r0
	x[15] = r1

	r0 = x[28] - x[12]
	r1 = x[29] - x[13]
	x[28] += x[12]
	x[29] += x[13]
	x[12] = r0*pi1_8 - r1*pi3_8
	x[13] = r0*pi3_8 + r1*pi1_8

	r0 = x[26] - x[10]
	r1 = x[27] - x[11]
	x[26] += x[10]
	x[27] += x[11]
	x[10] = (r0 - r1) * pi2_8
	x[11] = (r0 + r1) * pi2_8

	r0 = x[24] - x[8]
	r1 = x[25] - x[9]
	x[24] += x[8]
	x[25] += x[9]
	x[8] = r0*pi3_8 - r1*pi1_8
	x[9] = r1*pi3_8 + r0*pi1_8

	r0 = x[22] - x[6]
	r1 = x[7] - x[23]
	x[22] += x[6]
	x[23] += x[7]
	x[6] = r1
	x[7] = r0

	r0 = x[4] - x[20]
	r1 = x[5] - x[21]
	x[20] += x[4]
	x[21] += x[5]
	x[4] = r1*pi1_8 + r0*pi3_8
	x[5] = r1*pi3_8 - r0*pi1_8

	r0 = x[2] - x[18]
	r1 = x[3] - x[19]
	x[18] += x[2]
	x[19] += x[3]
	x[2] = (r1 + r0) * pi2_8
	x[3] = (r1 - r0) * pi2_8

	r0 = x[0] - x[16]
	r1 = x[1] - x[17]
	x[16] += x[0]
	x[17] += x[1]
	x[0] = r1*pi3_8 + r0*pi1_8
	x[1] = r1*pi1_8 - r0*pi3_8

	butterfly16(x)
	butterfly16(x[16:])
}

// bitreverse applies the bit-reversed combination stage.
func (m *MDCT) bitreverse(x []float32) {
	n2 := m.n >> 1
	brv := m.bitrev
	tri := m.trig

	bit := 0
	w0 := 0
	w1 := n2
	t := m.n

	for {
		x0 := n2 + brv[bit+0]
		x1 := n2 + brv[bit+1]

		r0 := x[x0+1] - x[x1+1]
		r1 := x[x0+0] + x[x1+0]
		r2 := r1*tri[t+0] + r0*tri[t+1]
		r3 := r1*tri[t+1] - r0*tri[t+0]

		w1 -= 4

		h0 := (x[x0+1] + x[x1+1]) * 0.5
		h1 := (x[x0+0] - x[x1+0]) * 0.5

		x[w0+0] = h0 + r2
		x[w1+2] = h0 - r2
		x[w0+1] = h1 + r3
		x[w1+3] = r3 - h1

		x0 = n2 + brv[bit+2]
		x1 = n2 + brv[bit+3]

		r0 = x[x0+1] - x[x1+1]
		r1 = x[x0+0] + x[x1+0]
		r2 = r1*tri[t+2] + r0*tri[t+3]
		r3 = r1*tri[t+3] - r0*tri[t+2]

		h0 = (x[x0+1] + x[x1+1]) * 0.5
		h1 = (x[x0+0] - x[x1+0]) * 0.5

		x[w0+2] = h0 + r2
		x[w1+0] = h0 - r2
		x[w0+3] = h1 + r3
		x[w1+1] = r3 - h1

		t += 4
		bit += 4
		w0 += 4

		if w0 >= w1 {
			break
		}
	}
}
