package mapping

import "testing"

func TestChannelBits(t *testing.T) {
	cases := map[int]uint{1: 0, 2: 1, 3: 2, 4: 2, 5: 3}
	for ch, want := range cases {
		if got := channelBits(ch); got != want {
			t.Fatalf("channelBits(%d) = %d, want %d", ch, got, want)
		}
	}
}

func TestDecoupleChannels(t *testing.T) {
	m := &Mapping{Couplings: []ChannelCoupling{{Magnitude: 0, Angle: 1}}}
	buf := [][]float32{{10}, {4}}
	m.DecoupleChannels(buf)
	if buf[0][0] != 10 || buf[1][0] != 6 {
		t.Fatalf("got mag=%v ang=%v", buf[0][0], buf[1][0])
	}
}

func TestUnzeroCoupledChannels(t *testing.T) {
	m := &Mapping{Couplings: []ChannelCoupling{{Magnitude: 0, Angle: 1}}}
	doNotDecode := []bool{true, false}
	m.UnzeroCoupledChannels(doNotDecode)
	if doNotDecode[0] || doNotDecode[1] {
		t.Fatalf("got %v, want both false", doNotDecode)
	}
}
