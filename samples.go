package vorbis

// Samples holds one decoded block's worth of per-channel PCM audio: a
// window into one of the decoder's persistent frame buffers, not a copy.
// It is only valid until the next call to DecodeBlock or Reset on the
// Decoder that produced it.
type Samples struct {
	channels   [][]float32
	start, end int
}

// Channels reports the channel count.
func (s *Samples) Channels() int { return len(s.channels) }

// Len reports the number of samples in each channel.
func (s *Samples) Len() int { return s.end - s.start }

// Channel returns the sample slice for channel ch.
func (s *Samples) Channel(ch int) []float32 { return s.channels[ch][s.start:s.end] }

// ChannelIter iterates the samples of a single channel in order.
type ChannelIter struct {
	samples *Samples
	ch      int
	pos     int
}

// ChannelIter returns an iterator over channel ch's samples.
func (s *Samples) ChannelIter(ch int) *ChannelIter {
	return &ChannelIter{samples: s, ch: ch}
}

// Next returns the next sample and true, or (0, false) once exhausted.
func (it *ChannelIter) Next() (float32, bool) {
	if it.pos >= it.samples.Len() {
		return 0, false
	}
	v := it.samples.channels[it.ch][it.samples.start+it.pos]
	it.pos++
	return v, true
}

// InterleavedSamplesIter iterates samples in channel-minor interleaved
// order: all channels of sample 0, then all channels of sample 1, and so on.
type InterleavedSamplesIter struct {
	samples *Samples
	pos     int
}

// InterleavedSamplesIter returns an interleaved iterator over all channels.
func (s *Samples) InterleavedSamplesIter() *InterleavedSamplesIter {
	return &InterleavedSamplesIter{samples: s}
}

// Next returns the next interleaved sample and true, or (0, false) once
// every channel's samples have been exhausted.
func (it *InterleavedSamplesIter) Next() (float32, bool) {
	n := it.samples.Len()
	channels := it.samples.Channels()
	if channels == 0 || it.pos >= n*channels {
		return 0, false
	}
	frame := it.pos / channels
	ch := it.pos % channels
	it.pos++
	return it.samples.channels[ch][it.samples.start+frame], true
}
