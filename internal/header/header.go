// Package header implements parsing of the three Vorbis header packets:
// identification, comment, and (partially, via the packet-kind check used
// by the caller) setup. Ported from pure_vorbis's header.rs.
package header

import (
	"strings"
	"unicode/utf8"

	"github.com/xiph-go/vorbis/internal/bitstream"
	"github.com/xiph-go/vorbis/internal/verr"
)

// PacketKind identifies which of the three header packets a packet is, or
// that it's an audio packet.
type PacketKind int

const (
	PacketAudio PacketKind = iota
	PacketIdentification
	PacketComment
	PacketSetup
)

var vorbisMagic = [6]byte{'v', 'o', 'r', 'b', 'i', 's'}

// ReadPacketKind reads the leading packet-type byte (and, for header
// packets, validates the "vorbis" magic that follows it).
func ReadPacketKind(r *bitstream.Reader) (PacketKind, error) {
	kindByte, err := r.ReadUint8()
	if err != nil {
		return 0, verr.IO(err, "reading packet kind byte")
	}
	if kindByte%2 == 0 {
		return PacketAudio, nil
	}

	var magic [6]byte
	if err := r.ReadFull(magic[:]); err != nil {
		return 0, verr.IO(err, "reading vorbis magic")
	}
	if magic != vorbisMagic {
		return 0, verr.Undecodablef("invalid vorbis magic in header packet")
	}

	switch kindByte {
	case 1:
		return PacketIdentification, nil
	case 3:
		return PacketComment, nil
	case 5:
		return PacketSetup, nil
	default:
		return 0, verr.WrongPacketKindf("unrecognized header packet kind %d", kindByte)
	}
}

// Bitrates holds the three bitrate hints from the identification header.
// A value of -1 means "unset".
type Bitrates struct {
	Maximum int32
	Nominal int32
	Minimum int32
}

// FrameLens holds the two permitted block sizes, in samples.
type FrameLens struct {
	Short int
	Long  int
}

// Header holds a parsed identification header.
type Header struct {
	Channels   int
	SampleRate uint32
	Bitrates   Bitrates
	FrameLens  FrameLens
}

// ReadHeader parses the identification header body (the packet kind and
// magic must already have been consumed via ReadPacketKind).
func ReadHeader(r *bitstream.Reader) (*Header, error) {
	version, err := r.ReadUint32()
	if err != nil {
		return nil, verr.IO(err, "reading vorbis version")
	}
	if version != 0 {
		return nil, verr.Undecodablef("unsupported vorbis version %d", version)
	}

	channelsV, err := r.ReadUint8()
	if err != nil {
		return nil, verr.IO(err, "reading channel count")
	}
	if channelsV == 0 {
		return nil, verr.Undecodablef("channel count must be nonzero")
	}

	sampleRate, err := r.ReadUint32()
	if err != nil {
		return nil, verr.IO(err, "reading sample rate")
	}
	if sampleRate == 0 {
		return nil, verr.Undecodablef("sample rate must be nonzero")
	}

	bitrateMax, err := r.ReadInt32()
	if err != nil {
		return nil, verr.IO(err, "reading maximum bitrate")
	}
	bitrateNom, err := r.ReadInt32()
	if err != nil {
		return nil, verr.IO(err, "reading nominal bitrate")
	}
	bitrateMin, err := r.ReadInt32()
	if err != nil {
		return nil, verr.IO(err, "reading minimum bitrate")
	}

	blockSize0Bits, err := r.ReadUint8Bits(4)
	if err != nil {
		return nil, verr.IO(err, "reading block size 0")
	}
	blockSize1Bits, err := r.ReadUint8Bits(4)
	if err != nil {
		return nil, verr.IO(err, "reading block size 1")
	}
	if blockSize0Bits > blockSize1Bits {
		return nil, verr.Undecodablef("block size 0 must not exceed block size 1")
	}
	if blockSize0Bits < 6 || blockSize1Bits > 13 {
		return nil, verr.Undecodablef("block sizes out of permitted range")
	}

	framing, err := r.ReadBool()
	if err != nil {
		return nil, verr.IO(err, "reading identification framing flag")
	}
	if !framing {
		return nil, verr.Undecodablef("identification header framing flag must be set")
	}

	return &Header{
		Channels:   int(channelsV),
		SampleRate: sampleRate,
		Bitrates:   Bitrates{Maximum: bitrateMax, Nominal: bitrateNom, Minimum: bitrateMin},
		FrameLens:  FrameLens{Short: 1 << blockSize0Bits, Long: 1 << blockSize1Bits},
	}, nil
}

// CommentTag identifies a well-known Vorbis comment field, normalized from
// its case-insensitive field name per the Vorbis comment spec.
type CommentTag int

const (
	CommentOther CommentTag = iota
	CommentTitle
	CommentArtist
	CommentAlbum
	CommentDate
	CommentTrackNumber
	CommentGenre
)

var commentTagNames = map[string]CommentTag{
	"TITLE":       CommentTitle,
	"ARTIST":      CommentArtist,
	"ALBUM":       CommentAlbum,
	"DATE":        CommentDate,
	"TRACKNUMBER": CommentTrackNumber,
	"GENRE":       CommentGenre,
}

// Comment is a single decoded "FIELD=value" comment entry.
type Comment struct {
	Tag   CommentTag
	Field string
	Value string
}

// Comments holds the parsed comment header.
type Comments struct {
	Vendor   string
	Comments []Comment
}

// ReadComments parses the comment header body (the packet kind and magic
// must already have been consumed via ReadPacketKind).
func ReadComments(r *bitstream.Reader) (*Comments, error) {
	vendor, vendorOK, err := readVorbisString(r)
	if err != nil {
		return nil, err
	}
	if !vendorOK {
		vendor = ""
	}

	countBits, err := r.ReadUint32()
	if err != nil {
		return nil, verr.IO(err, "reading comment list length")
	}

	comments := make([]Comment, 0, countBits)
	for i := uint32(0); i < countBits; i++ {
		raw, ok, err := readVorbisString(r)
		if err != nil {
			return nil, err
		}
		if !ok {
			// Invalid UTF-8 comment strings are dropped silently; the bytes
			// have already been consumed from the stream.
			continue
		}
		field, value, ok := splitComment(raw)
		if !ok {
			return nil, verr.Undecodablef("comment entry missing '=' separator")
		}
		comments = append(comments, Comment{
			Tag:   commentTagNames[strings.ToUpper(field)],
			Field: field,
			Value: value,
		})
	}

	framing, err := r.ReadBool()
	if err != nil {
		return nil, verr.IO(err, "reading comment framing flag")
	}
	if !framing {
		return nil, verr.Undecodablef("comment header framing flag must be set")
	}

	return &Comments{Vendor: vendor, Comments: comments}, nil
}

// readVorbisString reads a length-prefixed string, reporting whether its
// bytes form valid UTF-8 (invalid strings are dropped by the caller, not
// treated as a decode error).
func readVorbisString(r *bitstream.Reader) (string, bool, error) {
	length, err := r.ReadUint32()
	if err != nil {
		return "", false, verr.IO(err, "reading string length")
	}
	buf := make([]byte, length)
	if err := r.ReadFull(buf); err != nil {
		return "", false, verr.IO(err, "reading string body")
	}
	if !utf8.Valid(buf) {
		return "", false, nil
	}
	return string(buf), true, nil
}

func splitComment(raw string) (field, value string, ok bool) {
	idx := strings.IndexByte(raw, '=')
	if idx < 0 {
		return "", "", false
	}
	return raw[:idx], raw[idx+1:], true
}

// ByTag returns the value of the first comment matching tag, if any.
func (c *Comments) ByTag(tag CommentTag) (string, bool) {
	for _, cm := range c.Comments {
		if cm.Tag == tag {
			return cm.Value, true
		}
	}
	return "", false
}
