package vorbis

import (
	"testing"

	"github.com/xiph-go/vorbis/internal/mode"
)

func TestModeNumberBits(t *testing.T) {
	cases := []struct {
		count int
		want  uint
	}{
		{1, 0},
		{2, 1},
		{3, 2},
		{4, 2},
		{5, 3},
	}
	for _, c := range cases {
		s := &setup{modes: make([]*mode.Mode, c.count)}
		if got := s.modeNumberBits(); got != c.want {
			t.Fatalf("modeNumberBits() with %d modes = %d, want %d", c.count, got, c.want)
		}
	}
}
