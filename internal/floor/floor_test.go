package floor

import "testing"

func TestRenderPoint(t *testing.T) {
	got := renderPoint(0, 0, 10, 100, 5)
	if got != 50 {
		t.Fatalf("renderPoint = %d, want 50", got)
	}
}

func TestRenderLine(t *testing.T) {
	result := make([]float32, 11)
	for i := range result {
		result[i] = 1
	}
	renderLine(result, 0, 255, 10, 255)
	for i, v := range result {
		if v != 1.0 {
			t.Fatalf("result[%d] = %v, want 1.0", i, v)
		}
	}
}

func TestFindNeighbors(t *testing.T) {
	xList := []uint16{0, 64, 32, 16, 48}
	n := findNeighbors(xList, 4)
	if n[0] != 2 || n[1] != 1 {
		t.Fatalf("findNeighbors = %v, want [2 1]", n)
	}
}

func TestSortIndicesByXList(t *testing.T) {
	xList := []uint16{0, 64, 32, 16, 48}
	idx := []int{0, 1, 2, 3, 4}
	sortIndicesByXList(idx, xList)
	want := []int{0, 3, 2, 4, 1}
	for i := range want {
		if idx[i] != want[i] {
			t.Fatalf("sortIndicesByXList = %v, want %v", idx, want)
		}
	}
}
