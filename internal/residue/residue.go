// Package residue implements Vorbis residue vector decoding: the classed,
// partitioned VQ-coded spectral residual left over after floor curve removal.
// Residue types 1 (non-interleaved) and 2 (interleaved) are supported;
// residue type 0 is rejected as unimplemented, matching pure_vorbis's
// residue.rs, which also leaves it unimplemented.
package residue

import (
	"github.com/xiph-go/vorbis/internal/bitstream"
	"github.com/xiph-go/vorbis/internal/codebook"
	"github.com/xiph-go/vorbis/internal/verr"
)

const (
	kindResidue0 = 0
	kindResidue1 = 1
	kindResidue2 = 2

	maxPasses = 8
)

// Residue holds a parsed residue descriptor.
type Residue struct {
	kind          int
	begin         uint32
	end           uint32
	partitionSize uint32
	classBook     int
	cascade       []uint8 // one bitmask per classification, bit i set => pass i present

	// passBooks[classification][pass] is the codebook index used for that
	// pass, or -1 if the pass is absent for that classification.
	passBooks [][maxPasses]int

	// Scratch reused across Decode calls so residue type 2's interleave
	// step performs no per-packet amplifying allocation; grown once to the
	// largest size any caller ever requests.
	flat          []float32
	activeScratch []int
	dstsScratch   [][]float32
	classifFlat   []int
	classifRows   [][]int
}

// flatScratch returns a zero-length-checked scratch buffer of at least n
// floats, growing it only the first time a larger size is requested.
func (res *Residue) flatScratch(n int) []float32 {
	if cap(res.flat) < n {
		res.flat = make([]float32, n)
	}
	return res.flat[:n]
}

// classifScratch returns nChannels rows of at least nPartitions ints each,
// reusing backing storage across calls.
func (res *Residue) classifScratch(nChannels, nPartitions int) [][]int {
	if cap(res.classifFlat) < nChannels*nPartitions {
		res.classifFlat = make([]int, nChannels*nPartitions)
	}
	if cap(res.classifRows) < nChannels {
		res.classifRows = make([][]int, nChannels)
	}
	rows := res.classifRows[:nChannels]
	for i := 0; i < nChannels; i++ {
		rows[i] = res.classifFlat[i*nPartitions : i*nPartitions+nPartitions]
	}
	return rows
}

// Read parses a residue descriptor from the setup header.
func Read(r *bitstream.Reader, codebooksLen int) (*Residue, error) {
	kindBits, err := r.ReadUint16()
	if err != nil {
		return nil, verr.IO(err, "reading residue kind")
	}
	kind := int(kindBits)
	if kind != kindResidue1 && kind != kindResidue2 {
		if kind == kindResidue0 {
			return nil, verr.Undecodablef("residue type 0 is not supported")
		}
		return nil, verr.Undecodablef("unsupported residue type %d", kind)
	}

	begin, err := r.ReadBits(24)
	if err != nil {
		return nil, verr.IO(err, "reading residue begin")
	}
	end, err := r.ReadBits(24)
	if err != nil {
		return nil, verr.IO(err, "reading residue end")
	}
	partitionSizeBits, err := r.ReadBits(24)
	if err != nil {
		return nil, verr.IO(err, "reading residue partition size")
	}
	partitionSize := partitionSizeBits + 1

	classificationsBits, err := r.ReadUint8Bits(6)
	if err != nil {
		return nil, verr.IO(err, "reading residue classification count")
	}
	classifications := int(classificationsBits) + 1

	classBookV, err := r.ReadUint8()
	if err != nil {
		return nil, verr.IO(err, "reading residue classbook")
	}
	classBook := int(classBookV)
	if classBook >= codebooksLen {
		return nil, verr.Undecodablef("invalid codebook index in residue classbook")
	}

	cascade := make([]uint8, classifications)
	for i := 0; i < classifications; i++ {
		lowBits, err := r.ReadUint8Bits(3)
		if err != nil {
			return nil, verr.IO(err, "reading residue cascade low bits")
		}
		bitmap := lowBits

		hasMore, err := r.ReadBool()
		if err != nil {
			return nil, verr.IO(err, "reading residue cascade flag")
		}
		if hasMore {
			highBits, err := r.ReadUint8Bits(5)
			if err != nil {
				return nil, verr.IO(err, "reading residue cascade high bits")
			}
			bitmap |= highBits << 3
		}
		cascade[i] = bitmap
	}

	bookIdx := make([][maxPasses]int, classifications)
	for i := 0; i < classifications; i++ {
		for p := 0; p < maxPasses; p++ {
			bookIdx[i][p] = -1
			if cascade[i]&(1<<uint(p)) == 0 {
				continue
			}
			v, err := r.ReadUint8()
			if err != nil {
				return nil, verr.IO(err, "reading residue pass codebook")
			}
			if int(v) >= codebooksLen {
				return nil, verr.Undecodablef("invalid codebook index in residue pass book")
			}
			bookIdx[i][p] = int(v)
		}
	}

	res := &Residue{
		kind:          kind,
		begin:         begin,
		end:           end,
		partitionSize: partitionSize,
		classBook:     classBook,
		cascade:       cascade,
		passBooks:     bookIdx,
	}
	return res, nil
}

// Decode decodes residue vectors for the channels that are not flagged in
// doNotDecode, into out (one destination slice per channel, pre-sized to
// the block's sample count). Residue type 2 first decodes into a single
// interleaved vector spanning all channels, then de-interleaves; residue
// type 1 decodes each active channel into its own vector, reading all of
// them together pass by pass (see decodeChannels).
func (res *Residue) Decode(r *bitstream.Reader, codebooks []*codebook.Codebook, doNotDecode []bool, out [][]float32) error {
	switch res.kind {
	case kindResidue1:
		return res.decodeNonInterleaved(r, codebooks, doNotDecode, out)
	case kindResidue2:
		return res.decodeInterleaved(r, codebooks, doNotDecode, out)
	default:
		return verr.Undecodablef("unsupported residue type %d", res.kind)
	}
}

func (res *Residue) decodeNonInterleaved(r *bitstream.Reader, codebooks []*codebook.Codebook, doNotDecode []bool, out [][]float32) error {
	// out is scratch reused across packets; zero it before accumulating this
	// packet's values, matching the original's "zero then add" decode.
	for ch := range out {
		for i := range out[ch] {
			out[ch][i] = 0
		}
	}

	active := res.activeScratch[:0]
	for ch := range out {
		if !doNotDecode[ch] {
			active = append(active, ch)
		}
	}
	res.activeScratch = active
	if len(active) == 0 {
		return nil
	}

	n := uint32(len(out[active[0]]))
	begin, end := res.begin, res.end
	if end > n {
		end = n
	}
	if begin > end {
		return nil
	}

	dsts := res.dstsScratch[:0]
	for _, ch := range active {
		dsts = append(dsts, out[ch][begin:end])
	}
	res.dstsScratch = dsts
	return res.decodeChannels(r, codebooks, dsts)
}

// decodeInterleaved decodes residue type 2: every channel of the submap
// (not just the active ones - per residue.rs, a type 2 group shares a
// single classword and bitstream position across all of its channels, so
// none of them can be selectively skipped) is folded into one interleaved
// vector, decoded as a single logical channel, then scattered back out.
// begin/end are flat indices into that interleaved vector directly - unlike
// residue type 1, they are not scaled by the channel count.
func (res *Residue) decodeInterleaved(r *bitstream.Reader, codebooks []*codebook.Codebook, doNotDecode []bool, out [][]float32) error {
	allZero := true
	for ch := range out {
		if !doNotDecode[ch] {
			allZero = false
			break
		}
	}
	if allZero {
		return nil
	}

	nch := len(out)
	n := len(out[0])
	flat := res.flatScratch(n * nch)
	for i := range flat {
		flat[i] = 0
	}

	begin, end := res.begin, res.end
	if end > uint32(len(flat)) {
		end = uint32(len(flat))
	}
	if begin > end {
		begin, end = 0, 0
	}

	if err := res.decodeChannels(r, codebooks, [][]float32{flat[begin:end]}); err != nil {
		return err
	}

	for ch := 0; ch < nch; ch++ {
		for j := 0; j < n; j++ {
			out[ch][j] = flat[j*nch+ch]
		}
	}
	return nil
}

// decodeChannels runs the classed partition/pass decode loop across all of
// dsts at once. Per the Vorbis residue algorithm, the bitstream is organized
// pass-major: all of pass 0 (including its classword reads) for every
// partition group across every channel precedes any of pass 1, and so on.
// Decoding one channel fully before moving to the next would desynchronize
// the bit reader the moment a cascade uses more than one pass.
func (res *Residue) decodeChannels(r *bitstream.Reader, codebooks []*codebook.Codebook, dsts [][]float32) error {
	if len(dsts) == 0 || len(dsts[0]) == 0 {
		return nil
	}
	classBook := codebooks[res.classBook]
	classWordsPerCodeword := classBook.DimCount
	classifications := len(res.cascade)

	partitionCount := len(dsts[0]) / int(res.partitionSize)
	if partitionCount == 0 {
		return nil
	}
	classif := res.classifScratch(len(dsts), partitionCount)

	var pusher codebook.SlicePusher
	for pass := 0; pass < maxPasses; pass++ {
		partition := 0
		for partition < partitionCount {
			if pass == 0 {
				for ch := range dsts {
					v, err := classBook.DecodeScalar(r)
					if err != nil {
						if verr.IsUnexpectedEOF(err) {
							return nil
						}
						return err
					}
					temp := int(v)
					for i := classWordsPerCodeword - 1; i >= 0; i-- {
						if partition+i < partitionCount {
							classif[ch][partition+i] = temp % classifications
						}
						temp /= classifications
					}
				}
			}

			for i := 0; i < classWordsPerCodeword && partition < partitionCount; i++ {
				for ch := range dsts {
					cls := classif[ch][partition]
					bookIdx := res.passBooks[cls][pass]
					if bookIdx < 0 {
						continue
					}
					book := codebooks[bookIdx]
					dim := book.DimCount
					base := partition * int(res.partitionSize)
					for off := 0; off < int(res.partitionSize); off += dim {
						pusher.Values = pusher.Values[:0]
						if err := book.DecodeVQ(r, &pusher); err != nil {
							if verr.IsUnexpectedEOF(err) {
								return nil
							}
							return err
						}
						for k, v := range pusher.Values {
							idx := base + off + k
							if idx < len(dsts[ch]) {
								dsts[ch][idx] += v
							}
						}
					}
				}
				partition++
			}
		}
	}
	return nil
}
