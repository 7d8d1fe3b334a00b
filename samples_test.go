package vorbis

import "testing"

func TestChannelIter(t *testing.T) {
	s := &Samples{channels: [][]float32{{1, 2, 3}, {4, 5, 6}}, start: 0, end: 3}
	it := s.ChannelIter(1)
	var got []float32
	for {
		v, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, v)
	}
	want := []float32{4, 5, 6}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestInterleavedSamplesIter(t *testing.T) {
	s := &Samples{channels: [][]float32{{1, 2}, {10, 20}}, start: 0, end: 2}
	it := s.InterleavedSamplesIter()
	want := []float32{1, 10, 2, 20}
	for i, w := range want {
		v, ok := it.Next()
		if !ok || v != w {
			t.Fatalf("sample %d: got (%v,%v), want %v", i, v, ok, w)
		}
	}
	if _, ok := it.Next(); ok {
		t.Fatal("expected exhausted iterator")
	}
}

// TestSamplesRange exercises a Samples view that starts partway into the
// backing buffer, as DecodeBlock produces for long->short and short->long
// transitions.
func TestSamplesRange(t *testing.T) {
	s := &Samples{channels: [][]float32{{0, 0, 1, 2, 3, 0}}, start: 2, end: 5}
	if got := s.Len(); got != 3 {
		t.Fatalf("Len() = %d, want 3", got)
	}
	if got := s.Channel(0); len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("Channel(0) = %v, want [1 2 3]", got)
	}

	it := s.ChannelIter(0)
	var got []float32
	for {
		v, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, v)
	}
	want := []float32{1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

// TestSamplesEmptyRange mirrors the first-packet-empty Samples DecodeBlock
// returns before there is a previous block to overlap against.
func TestSamplesEmptyRange(t *testing.T) {
	s := &Samples{channels: [][]float32{{1, 2, 3}}, start: 0, end: 0}
	if got := s.Len(); got != 0 {
		t.Fatalf("Len() = %d, want 0", got)
	}
	if _, ok := s.ChannelIter(0).Next(); ok {
		t.Fatal("expected no samples from an empty range")
	}
	if _, ok := s.InterleavedSamplesIter().Next(); ok {
		t.Fatal("expected no samples from an empty range")
	}
}
