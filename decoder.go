// Package vorbis implements a Vorbis I packet decoder: given pre-demuxed
// Vorbis packets (this package does not parse Ogg framing — see
// Non-goals), it decodes the identification, comment, and setup header
// packets, then decodes each subsequent audio packet into PCM samples.
//
// The implementation follows the Vorbis I specification directly: a
// bitstream reader using the format's LSB-first packing convention,
// canonical Huffman and VQ codebook decoding, Floor 1 spectral envelope
// synthesis, Residue types 1 and 2, channel coupling, and windowed
// overlap-add reconstruction via the inverse MDCT.
package vorbis

import (
	"bytes"
	"io"

	"github.com/xiph-go/vorbis/internal/bitstream"
	"github.com/xiph-go/vorbis/internal/floor"
	"github.com/xiph-go/vorbis/internal/header"
	"github.com/xiph-go/vorbis/internal/mdct"
	"github.com/xiph-go/vorbis/internal/verr"
	"github.com/xiph-go/vorbis/internal/window"
)

// maxFloorXListLen bounds a floor 1 descriptor's X list (2 head points plus
// at most 63 partition points), used to size reusable Y-value scratch.
const maxFloorXListLen = 65

// PacketSource supplies successive Vorbis packets (identification, comment,
// setup, then audio packets) with any outer container framing already
// stripped. NextPacket returns io.EOF once no packets remain.
type PacketSource interface {
	NextPacket() ([]byte, error)
}

// Decoder decodes a Vorbis logical bitstream's packets into PCM audio.
//
// Per-channel scratch (floor Y values, frequency-domain spectrum, and the
// two time-domain frame buffers) is sized once at construction to the
// worst case (channels x long block length) and reused on every
// DecodeBlock call; decoding a block allocates only the packet's bitstream
// reader and the returned Samples view.
type Decoder struct {
	source PacketSource

	header   *header.Header
	comments *header.Comments
	setup    *setup

	windows   *window.Windows
	mdctShort *mdct.MDCT
	mdctLong  *mdct.MDCT

	floorYLists [][]floor.YValue
	spec        [][]float32 // frequency-domain scratch, long_len/2 per channel
	frame       [][]float32 // current block's time-domain samples
	prevFrame   [][]float32 // previous block's time-domain samples

	frameValid     bool
	frameLong      bool
	frameLen       int // valid length of frame, in samples
	prevFrameValid bool
	prevFrameLong  bool
	prevFrameLen   int // valid length of prevFrame, in samples

	pos uint64

	doNotDecode      []bool
	groupChannels    []int
	groupDoNotDecode []bool
	groupOut         [][]float32
	specView         [][]float32
}

// NewDecoder reads the three header packets from src and returns a Decoder
// ready to decode subsequent audio packets.
func NewDecoder(src PacketSource) (*Decoder, error) {
	d := &Decoder{source: src}

	if err := d.readHeaderPacket(header.PacketIdentification); err != nil {
		return nil, err
	}
	if err := d.readHeaderPacket(header.PacketComment); err != nil {
		return nil, err
	}
	if err := d.readHeaderPacket(header.PacketSetup); err != nil {
		return nil, err
	}

	shortLen, longLen := d.header.FrameLens.Short, d.header.FrameLens.Long
	channels := d.header.Channels

	d.windows = window.NewWindows(shortLen, longLen)
	d.mdctShort = mdct.New(shortLen)
	d.mdctLong = mdct.New(longLen)

	d.floorYLists = make([][]floor.YValue, channels)
	d.spec = make([][]float32, channels)
	d.frame = make([][]float32, channels)
	d.prevFrame = make([][]float32, channels)
	for ch := 0; ch < channels; ch++ {
		d.floorYLists[ch] = make([]floor.YValue, 0, maxFloorXListLen)
		d.spec[ch] = make([]float32, longLen/2)
		d.frame[ch] = make([]float32, longLen)
		d.prevFrame[ch] = make([]float32, longLen)
	}

	d.doNotDecode = make([]bool, channels)
	d.groupChannels = make([]int, 0, channels)
	d.groupDoNotDecode = make([]bool, channels)
	d.groupOut = make([][]float32, channels)
	d.specView = make([][]float32, channels)

	return d, nil
}

func (d *Decoder) readHeaderPacket(want header.PacketKind) error {
	packet, err := d.source.NextPacket()
	if err != nil {
		if err == io.EOF {
			return verr.IO(io.ErrUnexpectedEOF, "reading header packet")
		}
		return verr.IO(err, "reading header packet")
	}
	r := bitstream.NewReader(bytes.NewReader(packet))
	kind, err := header.ReadPacketKind(r)
	if err != nil {
		return err
	}
	if kind != want {
		return verr.WrongPacketKindf("expected header packet kind %v, got %v", want, kind)
	}

	switch want {
	case header.PacketIdentification:
		h, err := header.ReadHeader(r)
		if err != nil {
			return err
		}
		d.header = h
	case header.PacketComment:
		c, err := header.ReadComments(r)
		if err != nil {
			return err
		}
		d.comments = c
	case header.PacketSetup:
		s, err := readSetup(r, d.header.Channels)
		if err != nil {
			return err
		}
		d.setup = s
	}
	return nil
}

// Header returns the parsed identification header.
func (d *Decoder) Header() *header.Header { return d.header }

// Comments returns the parsed comment header.
func (d *Decoder) Comments() *header.Comments { return d.comments }

// Pos returns the number of samples this decoder has produced so far,
// across all DecodeBlock calls since construction or the last Reset.
func (d *Decoder) Pos() uint64 { return d.pos }

// Reset restores the decoder to the state it had right after NewDecoder:
// the next DecodeBlock call is treated as the first audio packet again
// (empty samples, no overlap against stale history), and Pos returns to
// 0. The parsed headers and setup tables are untouched.
func (d *Decoder) Reset() {
	d.frameValid = false
	d.prevFrameValid = false
	d.pos = 0
}

// swapFrames rotates the just-decoded block into "previous" before the next
// block is decoded into "current", so DecodeBlock never allocates a fresh
// time-domain buffer.
func (d *Decoder) swapFrames() {
	if d.frameValid {
		d.frame, d.prevFrame = d.prevFrame, d.frame
		d.prevFrameValid = true
		d.prevFrameLong = d.frameLong
		d.prevFrameLen = d.frameLen
		d.frameValid = false
	}
}

// DecodeBlock decodes the next audio packet. If this is the first audio
// packet since construction or the last Reset, the returned Samples is
// empty: a block's output only becomes available once it has been
// overlapped against its predecessor, and there is no predecessor yet. It
// returns io.EOF once the packet source is exhausted.
func (d *Decoder) DecodeBlock() (*Samples, error) {
	d.swapFrames()

	packet, err := d.source.NextPacket()
	if err != nil {
		return nil, err
	}
	r := bitstream.NewReader(bytes.NewReader(packet))

	isHeaderBit, err := r.ReadBool()
	if err != nil {
		return nil, verr.IO(err, "reading audio packet type bit")
	}
	if isHeaderBit {
		return nil, verr.WrongPacketKindf("expected audio packet")
	}

	modeNumberBits, err := r.ReadBits(d.setup.modeNumberBits())
	if err != nil {
		return nil, verr.IO(err, "reading mode number")
	}
	if int(modeNumberBits) >= len(d.setup.modes) {
		return nil, verr.Undecodablef("invalid mode number %d", modeNumberBits)
	}
	md := d.setup.modes[modeNumberBits]
	mp := d.setup.mappings[md.MappingIdx]

	curLong := md.BlockFlag
	if curLong {
		// These two bits are present in the bitstream whenever the current
		// block is long, but window selection is driven entirely by this
		// decoder's own tracked block history (below), not by their value.
		if _, err := r.ReadBool(); err != nil {
			return nil, verr.IO(err, "reading previous window flag")
		}
		if _, err := r.ReadBool(); err != nil {
			return nil, verr.IO(err, "reading next window flag")
		}
	}

	n := d.header.FrameLens.Short
	mdctInst := d.mdctShort
	if curLong {
		n = d.header.FrameLens.Long
		mdctInst = d.mdctLong
	}
	n2 := n / 2

	channels := d.header.Channels
	doNotDecode := d.doNotDecode
	for ch := 0; ch < channels; ch++ {
		subm := mp.Submaps[mp.Mux[ch]]
		fl := d.setup.floors[subm.FloorIdx]
		if err := fl.BeginDecode(&d.floorYLists[ch], r, d.setup.codebooks); err != nil {
			return nil, err
		}
		doNotDecode[ch] = len(d.floorYLists[ch]) == 0
	}
	mp.UnzeroCoupledChannels(doNotDecode)

	for submapIdx, subm := range mp.Submaps {
		groupChannels := d.groupChannels[:0]
		for ch := 0; ch < channels; ch++ {
			if mp.Mux[ch] == submapIdx {
				groupChannels = append(groupChannels, ch)
			}
		}
		d.groupChannels = groupChannels
		if len(groupChannels) == 0 {
			continue
		}
		groupDoNotDecode := d.groupDoNotDecode[:len(groupChannels)]
		groupOut := d.groupOut[:len(groupChannels)]
		for i, ch := range groupChannels {
			groupDoNotDecode[i] = doNotDecode[ch]
			groupOut[i] = d.spec[ch][:n2]
		}
		res := d.setup.residues[subm.ResidueIdx]
		if err := res.Decode(r, d.setup.codebooks, groupDoNotDecode, groupOut); err != nil {
			return nil, err
		}
	}

	for ch := 0; ch < channels; ch++ {
		d.specView[ch] = d.spec[ch][:n2]
	}
	mp.DecoupleChannels(d.specView)

	for ch := 0; ch < channels; ch++ {
		spec := d.spec[ch][:n2]
		if len(d.floorYLists[ch]) > 0 {
			subm := mp.Submaps[mp.Mux[ch]]
			fl := d.setup.floors[subm.FloorIdx]
			fl.FinishDecode(spec, d.floorYLists[ch])
		} else {
			// This channel's floor flag was never set, so it is silent
			// regardless of any residue decoded into it to satisfy a
			// coupling partner's "unzero" requirement.
			for i := range spec {
				spec[i] = 0
			}
		}
		mdctInst.InverseInto(spec, d.frame[ch][:n])
	}
	d.frameValid = true
	d.frameLong = curLong
	d.frameLen = n

	if !d.prevFrameValid {
		return &Samples{channels: d.frame, start: 0, end: 0}, nil
	}

	win := d.windows.Get(d.prevFrameLong, d.frameLong)
	for ch := 0; ch < channels; ch++ {
		win.Overlap(d.prevFrame[ch][:d.prevFrameLen], d.frame[ch][:d.frameLen])
	}
	d.pos += uint64(win.Len())

	if win.OverlapTarget == window.OverlapLeft {
		return &Samples{channels: d.prevFrame, start: win.Left.Start, end: win.Left.End}, nil
	}
	return &Samples{channels: d.frame, start: win.Right.Start, end: win.Right.End}, nil
}
