package mode

import (
	"bytes"
	"testing"

	"github.com/xiph-go/vorbis/internal/bitstream"
	"github.com/xiph-go/vorbis/internal/verr"
)

func TestReadMode(t *testing.T) {
	// block_flag=1, window_type=0 (16 bits), transform_type=0 (16 bits), mapping=0 (8 bits)
	r := bitstream.NewReader(bytes.NewReader([]byte{0b1, 0, 0, 0, 0, 0}))
	m, err := Read(r, 1)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !m.BlockFlag || m.MappingIdx != 0 {
		t.Fatalf("got %+v", m)
	}
}

func TestReadModeInvalidMapping(t *testing.T) {
	r := bitstream.NewReader(bytes.NewReader([]byte{0, 0, 0, 0, 0, 1}))
	_, err := Read(r, 1)
	if err == nil || verr.KindOf(err) != verr.Undecodable {
		t.Fatalf("want Undecodable, got %v", err)
	}
}
