package vorbis

import (
	"github.com/xiph-go/vorbis/internal/bitstream"
	"github.com/xiph-go/vorbis/internal/bitutil"
	"github.com/xiph-go/vorbis/internal/codebook"
	"github.com/xiph-go/vorbis/internal/floor"
	"github.com/xiph-go/vorbis/internal/mapping"
	"github.com/xiph-go/vorbis/internal/mode"
	"github.com/xiph-go/vorbis/internal/residue"
	"github.com/xiph-go/vorbis/internal/verr"
)

// setup holds everything parsed out of the setup header packet: the
// codebooks, floor/residue/mapping descriptors, and the list of modes a
// decoded packet may select between.
type setup struct {
	codebooks []*codebook.Codebook
	floors    []*floor.Floor
	residues  []*residue.Residue
	mappings  []*mapping.Mapping
	modes     []*mode.Mode
}

func readSetup(r *bitstream.Reader, channels int) (*setup, error) {
	codebookCountBits, err := r.ReadUint8()
	if err != nil {
		return nil, verr.IO(err, "reading codebook count")
	}
	codebookCount := int(codebookCountBits) + 1
	codebooks := make([]*codebook.Codebook, codebookCount)
	for i := range codebooks {
		cb, err := codebook.Read(r)
		if err != nil {
			return nil, err
		}
		cb.Idx = i
		codebooks[i] = cb
	}

	timeCountBits, err := r.ReadUint8Bits(6)
	if err != nil {
		return nil, verr.IO(err, "reading time-domain transform count")
	}
	for i := 0; i <= int(timeCountBits); i++ {
		v, err := r.ReadUint16()
		if err != nil {
			return nil, verr.IO(err, "reading time-domain transform placeholder")
		}
		if v != 0 {
			return nil, verr.Undecodablef("nonzero time-domain transform placeholder")
		}
	}

	floorCountBits, err := r.ReadUint8Bits(6)
	if err != nil {
		return nil, verr.IO(err, "reading floor count")
	}
	floors := make([]*floor.Floor, int(floorCountBits)+1)
	for i := range floors {
		f, err := floor.Read(r, len(codebooks))
		if err != nil {
			return nil, err
		}
		floors[i] = f
	}

	residueCountBits, err := r.ReadUint8Bits(6)
	if err != nil {
		return nil, verr.IO(err, "reading residue count")
	}
	residues := make([]*residue.Residue, int(residueCountBits)+1)
	for i := range residues {
		res, err := residue.Read(r, len(codebooks))
		if err != nil {
			return nil, err
		}
		residues[i] = res
	}

	mappingCountBits, err := r.ReadUint8Bits(6)
	if err != nil {
		return nil, verr.IO(err, "reading mapping count")
	}
	mappings := make([]*mapping.Mapping, int(mappingCountBits)+1)
	for i := range mappings {
		m, err := mapping.Read(r, channels, len(floors), len(residues))
		if err != nil {
			return nil, err
		}
		mappings[i] = m
	}

	modeCountBits, err := r.ReadUint8Bits(6)
	if err != nil {
		return nil, verr.IO(err, "reading mode count")
	}
	modes := make([]*mode.Mode, int(modeCountBits)+1)
	for i := range modes {
		md, err := mode.Read(r, len(mappings))
		if err != nil {
			return nil, err
		}
		modes[i] = md
	}

	framing, err := r.ReadBool()
	if err != nil {
		return nil, verr.IO(err, "reading setup framing flag")
	}
	if !framing {
		return nil, verr.Undecodablef("setup header framing flag must be set")
	}

	return &setup{
		codebooks: codebooks,
		floors:    floors,
		residues:  residues,
		mappings:  mappings,
		modes:     modes,
	}, nil
}

// modeNumberBits reports the bit width of the per-packet mode selector.
func (s *setup) modeNumberBits() uint {
	return uint(bitutil.Ilog32(uint32(len(s.modes) - 1)))
}
