// Command vorbis-to-wav decodes a file of raw, length-prefixed Vorbis
// packets (this package does not demux Ogg containers — see the library's
// Non-goals) into a PCM WAV file.
//
// The input format is a sequence of records, each a 4-byte little-endian
// packet length followed by that many bytes of packet payload. The first
// three records must be the identification, comment, and setup header
// packets; the rest are audio packets.
package main

import (
	"encoding/binary"
	"flag"
	"io"
	"log"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/pkg/errors"

	"github.com/xiph-go/vorbis"
)

type packetFileSource struct {
	r io.Reader
}

func (s *packetFileSource) NextPacket() ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(s.r, lenBuf[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, io.EOF
		}
		return nil, err
	}
	n := binary.LittleEndian.Uint32(lenBuf[:])
	buf := make([]byte, n)
	if _, err := io.ReadFull(s.r, buf); err != nil {
		return nil, errors.WithStack(err)
	}
	return buf, nil
}

func run() error {
	inPath := flag.String("in", "in.vorbispackets", "path to a length-prefixed Vorbis packet stream")
	outPath := flag.String("out", "out.wav", "path to write decoded PCM audio")
	flag.Parse()

	f, err := os.Open(*inPath)
	if err != nil {
		return errors.Wrap(err, "opening input")
	}
	defer f.Close()

	d, err := vorbis.NewDecoder(&packetFileSource{r: f})
	if err != nil {
		return errors.Wrap(err, "initializing decoder")
	}

	out, err := os.Create(*outPath)
	if err != nil {
		return errors.Wrap(err, "creating output")
	}
	defer out.Close()

	enc := wav.NewEncoder(out, int(d.Header().SampleRate), 16, d.Header().Channels, 1)
	defer enc.Close()

	buf := &audio.IntBuffer{
		Format: &audio.Format{NumChannels: d.Header().Channels, SampleRate: int(d.Header().SampleRate)},
		Data:   make([]int, 0),
	}

	var blocks int
	for {
		samples, err := d.DecodeBlock()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "decoding block")
		}
		blocks++

		buf.Data = buf.Data[:0]
		it := samples.InterleavedSamplesIter()
		for {
			v, ok := it.Next()
			if !ok {
				break
			}
			buf.Data = append(buf.Data, floatToInt16(v))
		}
		if err := enc.Write(buf); err != nil {
			return errors.Wrap(err, "writing PCM samples")
		}
	}

	log.Printf("decoded %d blocks from %q into %q", blocks, *inPath, *outPath)
	return nil
}

func floatToInt16(v float32) int {
	s := v * 32768
	switch {
	case s > 32767:
		return 32767
	case s < -32768:
		return -32768
	default:
		return int(s)
	}
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
