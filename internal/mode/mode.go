// Package mode implements Vorbis mode descriptors: the tiny per-packet
// selector that picks a block size and channel mapping. Ported from
// pure_vorbis's mode.rs.
package mode

import (
	"github.com/xiph-go/vorbis/internal/bitstream"
	"github.com/xiph-go/vorbis/internal/verr"
)

// Mode holds a parsed mode descriptor.
type Mode struct {
	BlockFlag    bool
	WindowType   int
	TransformType int
	MappingIdx   int
}

// Read parses a mode descriptor from the setup header.
func Read(r *bitstream.Reader, mappingsLen int) (*Mode, error) {
	blockFlag, err := r.ReadBool()
	if err != nil {
		return nil, verr.IO(err, "reading mode block flag")
	}
	windowType, err := r.ReadUint16()
	if err != nil {
		return nil, verr.IO(err, "reading mode window type")
	}
	if windowType != 0 {
		return nil, verr.Undecodablef("unsupported mode window type %d", windowType)
	}
	transformType, err := r.ReadUint16()
	if err != nil {
		return nil, verr.IO(err, "reading mode transform type")
	}
	if transformType != 0 {
		return nil, verr.Undecodablef("unsupported mode transform type %d", transformType)
	}
	mappingV, err := r.ReadUint8()
	if err != nil {
		return nil, verr.IO(err, "reading mode mapping index")
	}
	if int(mappingV) >= mappingsLen {
		return nil, verr.Undecodablef("invalid mapping index in mode")
	}

	return &Mode{
		BlockFlag:     blockFlag,
		WindowType:    int(windowType),
		TransformType: int(transformType),
		MappingIdx:    int(mappingV),
	}, nil
}
