// Package floor implements Vorbis Floor type 1: a piecewise-linear spectral
// envelope described by a small set of (x, y) breakpoints, synthesized into
// a full per-bin multiplier curve via integer DDA line rendering. Ported
// from pure_vorbis's floor.rs. Floor type 0 is rejected as unsupported, per
// the original implementation.
package floor

import (
	"github.com/xiph-go/vorbis/internal/bitstream"
	"github.com/xiph-go/vorbis/internal/bitutil"
	"github.com/xiph-go/vorbis/internal/codebook"
	"github.com/xiph-go/vorbis/internal/verr"
)

const (
	kindFloor0 = 0
	kindFloor1 = 1
)

type class struct {
	dimCount         int
	subclassBitCount int
	masterBook       int // -1 == none
	subclassBooks    []int
}

// YValue is a single decoded floor amplitude: the raw value plus whether it
// was actually transmitted (false means it was predicted/omitted).
type YValue struct {
	Y       uint16
	NonZero bool
}

// Floor holds a parsed Floor type 1 descriptor.
type Floor struct {
	mult        uint8
	rang        uint16
	partClasses []int
	classes     []class
	xList       []uint16
	sortedIdx   []int // indices into xList/result_y_list, sorted by x value
	neighbors   [][2]int
}

// Read parses a floor descriptor from the setup header.
func Read(r *bitstream.Reader, codebooksLen int) (*Floor, error) {
	kind, err := r.ReadUint16()
	if err != nil {
		return nil, verr.IO(err, "reading floor kind")
	}
	switch kind {
	case kindFloor0:
		return nil, verr.Undecodablef("floor 0 is not supported")
	case kindFloor1:
	default:
		return nil, verr.Undecodablef("unsupported floor type %d", kind)
	}

	partCountBits, err := r.ReadBits(5)
	if err != nil {
		return nil, verr.IO(err, "reading floor partition count")
	}
	partCount := int(partCountBits)
	if partCount == 0 {
		return nil, verr.Undecodablef("invalid floor partition count")
	}

	partClasses := make([]int, partCount)
	maxClass := -1
	for i := 0; i < partCount; i++ {
		v, err := r.ReadUint8Bits(4)
		if err != nil {
			return nil, verr.IO(err, "reading floor partition class")
		}
		if int(v) > maxClass {
			maxClass = int(v)
		}
		partClasses[i] = int(v)
	}

	classCount := maxClass + 1
	classes := make([]class, classCount)
	for i := 0; i < classCount; i++ {
		dimCountBits, err := r.ReadUint8Bits(3)
		if err != nil {
			return nil, verr.IO(err, "reading floor class dimension count")
		}
		dimCount := int(dimCountBits) + 1

		subclassBitCountBits, err := r.ReadUint8Bits(2)
		if err != nil {
			return nil, verr.IO(err, "reading floor class subclass bit count")
		}
		subclassBitCount := int(subclassBitCountBits)

		masterBook := -1
		if subclassBitCount != 0 {
			v, err := r.ReadUint8()
			if err != nil {
				return nil, verr.IO(err, "reading floor class master book")
			}
			if int(v) >= codebooksLen {
				return nil, verr.Undecodablef("invalid codebook index in floor class master book")
			}
			masterBook = int(v)
		}

		subclassBooksCount := 1 << uint(subclassBitCount)
		subclassBooks := make([]int, subclassBooksCount)
		for j := 0; j < subclassBooksCount; j++ {
			v, err := r.ReadUint8()
			if err != nil {
				return nil, verr.IO(err, "reading floor subclass book")
			}
			if v == 0 {
				subclassBooks[j] = -1
			} else {
				idx := int(v) - 1
				if idx >= codebooksLen {
					return nil, verr.Undecodablef("invalid codebook index in floor subclass books")
				}
				subclassBooks[j] = idx
			}
		}

		classes[i] = class{
			dimCount:         dimCount,
			subclassBitCount: subclassBitCount,
			masterBook:       masterBook,
			subclassBooks:    subclassBooks,
		}
	}

	multBits, err := r.ReadUint8Bits(2)
	if err != nil {
		return nil, verr.IO(err, "reading floor multiplier")
	}
	mult := multBits + 1
	rang := [4]uint16{256, 128, 86, 64}[mult-1]

	rangeBitsV, err := r.ReadUint8Bits(4)
	if err != nil {
		return nil, verr.IO(err, "reading floor range bits")
	}
	rangeBits := uint(rangeBitsV)

	xList := make([]uint16, 0, 65)
	xList = append(xList, 0, uint16(1)<<rangeBits)
	for _, partClass := range partClasses {
		for i := 0; i < classes[partClass].dimCount; i++ {
			x, err := r.ReadUint16Bits(rangeBits)
			if err != nil {
				return nil, verr.IO(err, "reading floor X list entry")
			}
			if len(xList) >= 65 {
				return nil, verr.Undecodablef("too many elements in floor X list")
			}
			xList = append(xList, x)
		}
	}

	sortedIdx := make([]int, len(xList))
	for i := range sortedIdx {
		sortedIdx[i] = i
	}
	sortIndicesByXList(sortedIdx, xList)

	for i := 1; i < len(sortedIdx); i++ {
		if xList[sortedIdx[i]] == xList[sortedIdx[i-1]] {
			return nil, verr.Undecodablef("floor X list contains duplicates")
		}
	}

	neighbors := make([][2]int, len(xList)-2)
	for i := 2; i < len(xList); i++ {
		neighbors[i-2] = findNeighbors(xList, i)
	}

	return &Floor{
		mult:        mult,
		rang:        rang,
		partClasses: partClasses,
		classes:     classes,
		xList:       xList,
		sortedIdx:   sortedIdx,
		neighbors:   neighbors,
	}, nil
}

// XListLen reports the number of breakpoints this floor's X list carries.
func (f *Floor) XListLen() int { return len(f.xList) }

func sortIndicesByXList(idx []int, xList []uint16) {
	// Simple insertion sort: floor X lists are at most 65 entries long.
	for i := 1; i < len(idx); i++ {
		for j := i; j > 0 && xList[idx[j-1]] > xList[idx[j]]; j-- {
			idx[j-1], idx[j] = idx[j], idx[j-1]
		}
	}
}

func findNeighbors(xList []uint16, end int) [2]int {
	v := xList[end]
	low, high := -1, -1
	var lowV, highV uint16
	for i := 0; i < end; i++ {
		xv := xList[i]
		switch {
		case xv < v:
			if low == -1 || xv > lowV {
				low, lowV = i, xv
			}
		case xv > v:
			if high == -1 || xv < highV {
				high, highV = i, xv
			}
		}
	}
	return [2]int{low, high}
}

// BeginDecode decodes the floor's Y values (the VQ-coded breakpoint curve).
// A short bitstream mid-vector is tolerated: the result is truncated to
// empty, matching the "floor curve absent for this channel" convention.
func (f *Floor) BeginDecode(resultYList *[]YValue, r *bitstream.Reader, codebooks []*codebook.Codebook) error {
	err := f.doBeginDecode(resultYList, r, codebooks)
	if err != nil {
		if verr.IsUnexpectedEOF(err) {
			*resultYList = (*resultYList)[:0]
			return nil
		}
		return err
	}
	return nil
}

func (f *Floor) doBeginDecode(resultYList *[]YValue, r *bitstream.Reader, codebooks []*codebook.Codebook) error {
	*resultYList = (*resultYList)[:0]

	nonZero, err := r.ReadBool()
	if err != nil {
		return verr.IO(err, "reading floor non-zero flag")
	}
	if !nonZero {
		return nil
	}

	lenBits := uint(bitutil.Ilog32(uint32(f.rang - 1)))
	y0, err := r.ReadUint16Bits(lenBits)
	if err != nil {
		return verr.IO(err, "reading floor head Y value")
	}
	y1, err := r.ReadUint16Bits(lenBits)
	if err != nil {
		return verr.IO(err, "reading floor head Y value")
	}
	*resultYList = append(*resultYList, YValue{Y: y0, NonZero: true}, YValue{Y: y1, NonZero: true})

	for _, partClass := range f.partClasses {
		cl := &f.classes[partClass]
		cbits := uint(cl.subclassBitCount)
		csub := (1 << cbits) - 1

		var cval int
		if cbits > 0 {
			v, err := codebooks[cl.masterBook].DecodeScalar(r)
			if err != nil {
				return err
			}
			cval = int(v)
		}

		for i := 0; i < cl.dimCount; i++ {
			bookIdx := cl.subclassBooks[cval&csub]
			cval >>= cbits
			var y uint32
			if bookIdx >= 0 {
				v, err := codebooks[bookIdx].DecodeScalar(r)
				if err != nil {
					return err
				}
				y = v
			}
			*resultYList = append(*resultYList, YValue{Y: uint16(y), NonZero: true})
		}
	}

	f.decodeAmplitude(*resultYList)
	return nil
}

func (f *Floor) decodeAmplitude(yList []YValue) {
	for i := 2; i < len(yList); i++ {
		n := f.neighbors[i-2]
		low, high := n[0], n[1]
		predicted := renderPoint(
			int32(f.xList[low]), int32(yList[low].Y),
			int32(f.xList[high]), int32(yList[high].Y),
			int32(f.xList[i]))
		highRoom := int32(f.rang) - predicted
		lowRoom := predicted
		var room int32
		if highRoom < lowRoom {
			room = highRoom * 2
		} else {
			room = lowRoom * 2
		}

		y := int32(yList[i].Y)
		var finalY int32
		if y != 0 {
			yList[low].NonZero = true
			yList[high].NonZero = true
			yList[i].NonZero = true
			if y >= room {
				if highRoom > lowRoom {
					finalY = predicted + y - lowRoom
				} else {
					finalY = predicted - y + highRoom - 1
				}
			} else {
				if y%2 == 0 {
					finalY = predicted + y/2
				} else {
					finalY = predicted - (y+1)/2
				}
			}
		} else {
			yList[i].NonZero = false
			finalY = predicted
		}
		yList[i].Y = uint16(finalY)
	}
}

func renderPoint(x0, y0, x1, y1, x int32) int32 {
	dy := y1 - y0
	adx := x1 - x0
	ady := dy
	if ady < 0 {
		ady = -ady
	}
	err := ady * (x - x0)
	off := err / adx
	if dy < 0 {
		return y0 - off
	}
	return y0 + off
}

// FinishDecode synthesizes the full per-bin multiplier curve into result by
// rendering a line between each pair of transmitted breakpoints in yList and
// multiplying inverseDBTable[y] into the corresponding residue bins.
func (f *Floor) FinishDecode(result []float32, yList []YValue) {
	var hx, hy, lx int32
	mult := int32(f.mult)
	ly := int32(yList[f.sortedIdx[0]].Y) * mult
	for _, idx := range f.sortedIdx[1:] {
		y := yList[idx]
		if y.NonZero {
			hy = int32(y.Y) * mult
			hx = int32(f.xList[idx])
			renderLine(result, lx, ly, hx, hy)
			lx, ly = hx, hy
		}
	}
	if int(hx) < len(result) {
		renderLine(result, hx, hy, int32(len(result)), hy)
	}
}

func renderLine(result []float32, x0, y0, x1, y1 int32) {
	dy := y1 - y0
	adx := x1 - x0
	base := dy / adx
	absBase := base
	if absBase < 0 {
		absBase = -absBase
	}
	absDy := dy
	if absDy < 0 {
		absDy = -absDy
	}
	ady := absDy - absBase*adx
	var sy int32
	if dy < 0 {
		sy = base - 1
	} else {
		sy = base + 1
	}

	result[x0] *= inverseDBTable[y0]

	y := y0
	var errAcc int32
	for x := x0 + 1; x < x1; x++ {
		errAcc += ady
		if errAcc >= adx {
			errAcc -= adx
			y += sy
		} else {
			y += base
		}
		result[x] *= inverseDBTable[y]
	}
}

var inverseDBTable = [256]float32{
	1.0649863E-07, 1.1341951e-07, 1.2079015e-07, 1.2863978e-07,
	1.3699951e-07, 1.4590251e-07, 1.5538408e-07, 1.6548181e-07,
	1.7623575e-07, 1.8768855e-07, 1.9988561e-07, 2.1287530e-07,
	2.2670913e-07, 2.4144197e-07, 2.5713223e-07, 2.7384213e-07,
	2.9163793e-07, 3.1059021e-07, 3.3077411e-07, 3.5226968e-07,
	3.7516214e-07, 3.9954229e-07, 4.2550680e-07, 4.5315863e-07,
	4.8260743e-07, 5.1396998e-07, 5.4737065e-07, 5.8294187e-07,
	6.2082472e-07, 6.6116941e-07, 7.0413592e-07, 7.4989464e-07,
	7.9862701e-07, 8.5052630e-07, 9.0579828e-07, 9.6466216e-07,
	1.0273513e-06, 1.0941144e-06, 1.1652161e-06, 1.2409384e-06,
	1.3215816e-06, 1.4074654e-06, 1.4989305e-06, 1.5963394e-06,
	1.7000785e-06, 1.8105592e-06, 1.9282195e-06, 2.0535261e-06,
	2.1869758e-06, 2.3290978e-06, 2.4804557e-06, 2.6416497e-06,
	2.8133190e-06, 2.9961443e-06, 3.1908506e-06, 3.3982101e-06,
	3.6190449e-06, 3.8542308e-06, 4.1047004e-06, 4.3714470e-06,
	4.6555282e-06, 4.9580707e-06, 5.2802740e-06, 5.6234160e-06,
	5.9888572e-06, 6.3780469e-06, 6.7925283e-06, 7.2339451e-06,
	7.7040476e-06, 8.2047000e-06, 8.7378876e-06, 9.3057248e-06,
	9.9104632e-06, 1.0554501e-05, 1.1240392e-05, 1.1970856e-05,
	1.2748789e-05, 1.3577278e-05, 1.4459606e-05, 1.5399272e-05,
	1.6400004e-05, 1.7465768e-05, 1.8600792e-05, 1.9809576e-05,
	2.1096914e-05, 2.2467911e-05, 2.3928002e-05, 2.5482978e-05,
	2.7139006e-05, 2.8902651e-05, 3.0780908e-05, 3.2781225e-05,
	3.4911534e-05, 3.7180282e-05, 3.9596466e-05, 4.2169667e-05,
	4.4910090e-05, 4.7828601e-05, 5.0936773e-05, 5.4246931e-05,
	5.7772202e-05, 6.1526565e-05, 6.5524908e-05, 6.9783085e-05,
	7.4317983e-05, 7.9147585e-05, 8.4291040e-05, 8.9768747e-05,
	9.5602426e-05, 0.00010181521, 0.00010843174, 0.00011547824,
	0.00012298267, 0.00013097477, 0.00013948625, 0.00014855085,
	0.00015820453, 0.00016848555, 0.00017943469, 0.00019109536,
	0.00020351382, 0.00021673929, 0.00023082423, 0.00024582449,
	0.00026179955, 0.00027881276, 0.00029693158, 0.00031622787,
	0.00033677814, 0.00035866388, 0.00038197188, 0.00040679456,
	0.00043323036, 0.00046138411, 0.00049136745, 0.00052329927,
	0.00055730621, 0.00059352311, 0.00063209358, 0.00067317058,
	0.00071691700, 0.00076350630, 0.00081312324, 0.00086596457,
	0.00092223983, 0.00098217216, 0.0010459992, 0.0011139742,
	0.0011863665, 0.0012634633, 0.0013455702, 0.0014330129,
	0.0015261382, 0.0016253153, 0.0017309374, 0.0018434235,
	0.0019632195, 0.0020908006, 0.0022266726, 0.0023713743,
	0.0025254795, 0.0026895994, 0.0028643847, 0.0030505286,
	0.0032487691, 0.0034598925, 0.0036847358, 0.0039241906,
	0.0041792066, 0.0044507950, 0.0047400328, 0.0050480668,
	0.0053761186, 0.0057254891, 0.0060975636, 0.0064938176,
	0.0069158225, 0.0073652516, 0.0078438871, 0.0083536271,
	0.0088964928, 0.009474637, 0.010090352, 0.010746080,
	0.011444421, 0.012188144, 0.012980198, 0.013823725,
	0.014722068, 0.015678791, 0.016697687, 0.017782797,
	0.018938423, 0.020169149, 0.021479854, 0.022875735,
	0.024362330, 0.025945531, 0.027631618, 0.029427276,
	0.031339626, 0.033376252, 0.035545228, 0.037855157,
	0.040315199, 0.042935108, 0.045725273, 0.048696758,
	0.051861348, 0.055231591, 0.058820850, 0.062643361,
	0.066714279, 0.071049749, 0.075666962, 0.080584227,
	0.085821044, 0.091398179, 0.097337747, 0.10366330,
	0.11039993, 0.11757434, 0.12521498, 0.13335215,
	0.14201813, 0.15124727, 0.16107617, 0.17154380,
	0.18269168, 0.19456402, 0.20720788, 0.22067342,
	0.23501402, 0.25028656, 0.26655159, 0.28387361,
	0.30232132, 0.32196786, 0.34289114, 0.36517414,
	0.38890521, 0.41417847, 0.44109412, 0.46975890,
	0.50028648, 0.53279791, 0.56742212, 0.60429640,
	0.64356699, 0.68538959, 0.72993007, 0.77736504,
	0.82788260, 0.88168307, 0.9389798, 1.0,
}
