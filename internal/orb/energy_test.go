package orb

import (
	"math"
	"testing"
)

func TestEnergyWithoutAnalyserIsZero(t *testing.T) {
	a := &constAnalyser{bins: 8, value: 255}
	// Prior calls with data must not leak into the silent case.
	Energy(a, make([]byte, 8), 80)

	for range 3 {
		if got := Energy(nil, nil, 80); got != 0 {
			t.Fatalf("expected 0 energy without analyser, got %v", got)
		}
	}
	if got := Energy(a, nil, 80); got != 0 {
		t.Fatalf("expected 0 energy without buffer, got %v", got)
	}
}

func TestEnergyFullScaleReachesMaximum(t *testing.T) {
	a := &constAnalyser{bins: 1024, value: 255}
	data := make([]byte, 1024)

	for _, div := range []float64{40, 80, 128} {
		got := Energy(a, data, div)
		if want := 255 / div; math.Abs(got-want) > 1e-12 {
			t.Fatalf("divisor %v: expected %v, got %v", div, want, got)
		}
	}
}

func TestEnergyAveragesBins(t *testing.T) {
	data := make([]byte, 4)
	a := analyserFunc(func(dst []byte) {
		copy(dst, []byte{0, 40, 80, 120})
	})

	if got := Energy(a, data, 60); got != 1 {
		t.Fatalf("expected mean 60 / 60 = 1, got %v", got)
	}
}

func TestEnergyDefaultsNonPositiveDivisor(t *testing.T) {
	a := &constAnalyser{bins: 2, value: 160}
	if got := Energy(a, make([]byte, 2), 0); got != 2 {
		t.Fatalf("expected default divisor to give 2, got %v", got)
	}
}

type analyserFunc func(dst []byte)

func (f analyserFunc) FrequencyBinCount() int        { return 4 }
func (f analyserFunc) ByteFrequencyData(dst []byte)  { f(dst) }
func (f analyserFunc) ByteTimeDomainData(dst []byte) { f(dst) }
