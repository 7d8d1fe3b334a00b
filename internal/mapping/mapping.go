// Package mapping implements Vorbis channel mapping: the association of
// output channels with floor/residue submaps, plus channel coupling
// (magnitude/angle) decoupling. Ported from pure_vorbis's mapping.rs.
package mapping

import (
	"github.com/xiph-go/vorbis/internal/bitstream"
	"github.com/xiph-go/vorbis/internal/verr"
)

// ChannelCoupling names the magnitude and angle channels of a coupled pair.
type ChannelCoupling struct {
	Magnitude int
	Angle     int
}

// Submap pairs a floor descriptor index with a residue descriptor index.
type Submap struct {
	FloorIdx   int
	ResidueIdx int
}

// Mapping holds a parsed channel mapping descriptor.
type Mapping struct {
	Submaps      []Submap
	Couplings    []ChannelCoupling
	Mux          []int // per output channel, index into Submaps
}

// Read parses a mapping descriptor from the setup header.
func Read(r *bitstream.Reader, channels int, floorsLen, residuesLen int) (*Mapping, error) {
	kind, err := r.ReadUint16()
	if err != nil {
		return nil, verr.IO(err, "reading mapping kind")
	}
	if kind != 0 {
		return nil, verr.Undecodablef("unsupported mapping type %d", kind)
	}

	hasSubmaps, err := r.ReadBool()
	if err != nil {
		return nil, verr.IO(err, "reading mapping submap flag")
	}
	submapCount := 1
	if hasSubmaps {
		v, err := r.ReadUint8Bits(4)
		if err != nil {
			return nil, verr.IO(err, "reading mapping submap count")
		}
		submapCount = int(v) + 1
	}

	hasCoupling, err := r.ReadBool()
	if err != nil {
		return nil, verr.IO(err, "reading mapping coupling flag")
	}
	var couplings []ChannelCoupling
	if hasCoupling {
		v, err := r.ReadBits(8)
		if err != nil {
			return nil, verr.IO(err, "reading mapping coupling count")
		}
		couplingCount := int(v) + 1
		couplings = make([]ChannelCoupling, couplingCount)
		bits := channelBits(channels)
		for i := 0; i < couplingCount; i++ {
			mag, err := r.ReadBits(bits)
			if err != nil {
				return nil, verr.IO(err, "reading mapping coupling magnitude")
			}
			ang, err := r.ReadBits(bits)
			if err != nil {
				return nil, verr.IO(err, "reading mapping coupling angle")
			}
			if int(mag) >= channels || int(ang) >= channels || mag == ang {
				return nil, verr.Undecodablef("invalid mapping coupling channel index")
			}
			couplings[i] = ChannelCoupling{Magnitude: int(mag), Angle: int(ang)}
		}
	}

	reserved, err := r.ReadBits(2)
	if err != nil {
		return nil, verr.IO(err, "reading mapping reserved bits")
	}
	if reserved != 0 {
		return nil, verr.Undecodablef("mapping reserved bits must be zero")
	}

	mux := make([]int, channels)
	if submapCount > 1 {
		for ch := 0; ch < channels; ch++ {
			v, err := r.ReadUint8Bits(4)
			if err != nil {
				return nil, verr.IO(err, "reading mapping channel mux")
			}
			if int(v) >= submapCount {
				return nil, verr.Undecodablef("invalid mapping mux value")
			}
			mux[ch] = int(v)
		}
	}

	submaps := make([]Submap, submapCount)
	for i := 0; i < submapCount; i++ {
		if _, err := r.ReadUint8(); err != nil { // unused placeholder byte
			return nil, verr.IO(err, "reading mapping submap placeholder")
		}
		floorV, err := r.ReadUint8()
		if err != nil {
			return nil, verr.IO(err, "reading mapping submap floor index")
		}
		if int(floorV) >= floorsLen {
			return nil, verr.Undecodablef("invalid floor index in mapping submap")
		}
		residueV, err := r.ReadUint8()
		if err != nil {
			return nil, verr.IO(err, "reading mapping submap residue index")
		}
		if int(residueV) >= residuesLen {
			return nil, verr.Undecodablef("invalid residue index in mapping submap")
		}
		submaps[i] = Submap{FloorIdx: int(floorV), ResidueIdx: int(residueV)}
	}

	return &Mapping{Submaps: submaps, Couplings: couplings, Mux: mux}, nil
}

func channelBits(channels int) uint {
	bits := uint(0)
	for (1 << bits) < channels {
		bits++
	}
	return bits
}

// UnzeroCoupledChannels clears the do-not-decode flag for both channels of
// every coupled pair if either channel is already marked to be decoded, per
// the Vorbis I floor curve "unzero" rule.
func (m *Mapping) UnzeroCoupledChannels(doNotDecode []bool) {
	for _, c := range m.Couplings {
		if !doNotDecode[c.Magnitude] || !doNotDecode[c.Angle] {
			doNotDecode[c.Magnitude] = false
			doNotDecode[c.Angle] = false
		}
	}
}

// DecoupleChannels reverses magnitude/angle coupling on the decoded residue
// vectors in place, per the Vorbis I channel coupling formula.
func (m *Mapping) DecoupleChannels(channelBuf [][]float32) {
	for _, c := range m.Couplings {
		magBuf := channelBuf[c.Magnitude]
		angBuf := channelBuf[c.Angle]
		for i := range magBuf {
			mag := magBuf[i]
			ang := angBuf[i]

			var newMag, newAng float32
			switch {
			case mag > 0:
				switch {
				case ang > 0:
					newMag = mag
					newAng = mag - ang
				default:
					newAng = mag
					newMag = mag + ang
				}
			default:
				switch {
				case ang > 0:
					newMag = mag
					newAng = mag + ang
				default:
					newAng = mag
					newMag = mag - ang
				}
			}
			magBuf[i] = newMag
			angBuf[i] = newAng
		}
	}
}
