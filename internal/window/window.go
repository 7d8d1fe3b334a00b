// Package window implements Vorbis's four window configurations (one per
// combination of the previous and current block being short or long) and
// the windowed overlap-add used to reconstruct continuous audio across
// block boundaries. Ported from pure_vorbis's window.rs.
package window

import "math"

// OverlapTarget says which of the two blended buffers holds the freshly
// combined, ready-to-emit samples after a call to Window.Overlap.
type OverlapTarget int

const (
	// OverlapLeft means the blended, ready-to-emit samples land in the left
	// (previous) buffer.
	OverlapLeft OverlapTarget = iota
	// OverlapRight means the blended, ready-to-emit samples land in the
	// right (current) buffer instead.
	OverlapRight
)

// Range is a half-open index range into a channel's sample buffer.
type Range struct {
	Start, End int
}

// Len reports the range's length.
func (r Range) Len() int { return r.End - r.Start }

// Window holds one of the four block-transition window shapes: which
// index ranges of the left (previous) and right (current) block buffers
// participate, where the slope-shaped part of each begins/ends, and which
// side the blended result should be read from.
type Window struct {
	Left           Range
	leftSlopeStart int
	Right          Range
	rightSlopeEnd  int
	slope          []float32
	OverlapTarget  OverlapTarget
}

func newWindow(leftLen, rightLen int, slope []float32) *Window {
	leftStart := leftLen / 2
	rightEnd := rightLen / 2

	var left, right Range
	var leftSlopeStart, rightSlopeEnd int
	var target OverlapTarget

	switch {
	case leftLen == rightLen:
		// Long->long or short->short: the slope spans the whole half.
		left = Range{leftStart, leftLen}
		leftSlopeStart = leftStart
		right = Range{0, rightEnd}
		rightSlopeEnd = rightEnd
		target = OverlapLeft
	case leftLen > rightLen:
		// Long->short: both sides share the short block's slope length;
		// the rest of the long block's trailing half passes through flat.
		leftPoint := leftLen * 3 / 4
		rightPoint := rightLen / 4
		left = Range{leftStart, leftPoint + rightPoint}
		leftSlopeStart = leftPoint - rightPoint
		right = Range{0, rightEnd}
		rightSlopeEnd = rightEnd
		target = OverlapLeft
	default:
		// Short->long: symmetric to long->short, but the blended result
		// is written into the right (current) block, whose range from the
		// slope start to its half-length is the ready-to-emit output.
		leftPoint := leftLen / 4
		rightPoint := rightLen / 4
		left = Range{leftStart, leftLen}
		leftSlopeStart = leftStart
		right = Range{rightPoint - leftPoint, rightEnd}
		rightSlopeEnd = rightPoint + leftPoint
		target = OverlapRight
	}

	return &Window{
		Left:           left,
		leftSlopeStart: leftSlopeStart,
		Right:          right,
		rightSlopeEnd:  rightSlopeEnd,
		slope:          slope,
		OverlapTarget:  target,
	}
}

// Len reports how many newly ready samples this window produces per block.
func (w *Window) Len() int {
	if w.OverlapTarget == OverlapLeft {
		return w.Left.Len()
	}
	return w.Right.Len()
}

// Overlap blends the previous block's buffer (left) against the current
// block's buffer (right) in place over the window's slope region, writing
// the result into whichever side OverlapTarget designates as ready.
func (w *Window) Overlap(left, right []float32) {
	n := len(w.slope)
	for i := 0; i < n; i++ {
		l := left[w.leftSlopeStart+i]
		r := right[w.Right.Start+i]
		v := l*w.slope[n-1-i] + r*w.slope[i]
		if w.OverlapTarget == OverlapLeft {
			left[w.leftSlopeStart+i] = v
		} else {
			right[w.Right.Start+i] = v
		}
	}
}

// Windows holds the four precomputed window configurations for a codec's
// short and long block sizes, indexed by (previous block long?, current
// block long?).
type Windows struct {
	windows [4]*Window
}

// NewWindows precomputes all four window configurations.
func NewWindows(shortLen, longLen int) *Windows {
	shortSlope := makeSlope(shortLen / 2)
	longSlope := makeSlope(longLen / 2)
	var windows [4]*Window
	windows[windowIdx(false, false)] = newWindow(shortLen, shortLen, shortSlope)
	windows[windowIdx(true, false)] = newWindow(longLen, shortLen, shortSlope)
	windows[windowIdx(false, true)] = newWindow(shortLen, longLen, shortSlope)
	windows[windowIdx(true, true)] = newWindow(longLen, longLen, longSlope)
	return &Windows{windows: windows}
}

// Get selects the window configuration for a block transition, given
// whether the previous and current blocks are long.
func (ws *Windows) Get(prevLong, curLong bool) *Window {
	return ws.windows[windowIdx(prevLong, curLong)]
}

func windowIdx(prevLong, curLong bool) int {
	i := 0
	if prevLong {
		i |= 1
	}
	if curLong {
		i |= 2
	}
	return i
}

// makeSlope computes the Vorbis window slope function
// sin(pi/2 * sin^2(pi/(2n) * (i+0.5))) for i in [0, n).
func makeSlope(n int) []float32 {
	s := make([]float32, n)
	for i := 0; i < n; i++ {
		inner := math.Sin(math.Pi / float64(2*n) * (float64(i) + 0.5))
		s[i] = float32(math.Sin(math.Pi / 2 * inner * inner))
	}
	return s
}
