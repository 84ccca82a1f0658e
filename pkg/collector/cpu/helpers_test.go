package cpu

import (
	"math"
	"testing"
)

func TestContentionPct(t *testing.T) {
	cases := []struct {
		name     string
		ready    float64
		cpu      float64
		expected float64
	}{
		{"quarter", 25, 100, 25},
		{"double", 40, 20, 200},
		{"zeroCPU", 5, 0, 0},
		{"negativeCPU", 5, -1, 0},
		{"zeroReady", 0, 10, 0},
	}
	for _, tc := range cases {
		if got := contentionPct(tc.ready, tc.cpu); math.Abs(got-tc.expected) > 1e-9 {
			t.Fatalf("%s: expected %.4f, got %.4f", tc.name, tc.expected, got)
		}
	}
}
