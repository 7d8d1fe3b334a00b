package vorbis

import "github.com/xiph-go/vorbis/internal/verr"

// Kind classifies the way a decode operation failed.
type Kind = verr.Kind

const (
	// Undecodable means the bitstream violates a semantic constraint of
	// the Vorbis format (a bad header, an invalid index, an overspecified
	// Huffman tree). Retrying will not help.
	Undecodable = verr.Undecodable
	// WrongPacketKind means a packet was not of the kind the caller
	// expected at this point in the stream (e.g. an audio packet where a
	// header packet was required).
	WrongPacketKind = verr.WrongPacketKind
	// IO means the underlying packet source failed, or a packet ended
	// before a field outside the floor and residue vectors was read
	// (truncated floor and residue data is tolerated, not reported).
	IO = verr.IOKind
)

// KindOf classifies err, returning IO for errors this package did not
// originate.
func KindOf(err error) Kind {
	return verr.KindOf(err)
}
