package analysis

import (
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/mkrell/odesim/internal/config"
	"github.com/mkrell/odesim/internal/model"
	"github.com/mkrell/odesim/internal/signal"
)

// sine records one full period of sin(2*pi*f*t) with dense linear samples.
func sine(t *testing.T, freq float64, until float64, samples int) *signal.Series {
	t.Helper()

	s := signal.NewForcing("s", "test signal", "")
	for i := 0; i < samples; i++ {
		at := until * float64(i) / float64(samples-1)
		if err := s.RecordAt(math.Sin(2*math.Pi*freq*at), at); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func TestResample(t *testing.T) {
	s := signal.NewForcing("f", "", "")
	for _, at := range []float64{0, 10} {
		if err := s.RecordAt(at, at); err != nil { // identity ramp
			t.Fatal(err)
		}
	}

	times, values, err := Resample(s, 0, 10, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(times) != 5 || times[0] != 0 || times[4] != 10 {
		t.Fatalf("times = %v", times)
	}
	for i := range times {
		if !scalar.EqualWithinAbs(values[i], times[i], 1e-12) {
			t.Errorf("value at %g = %g", times[i], values[i])
		}
	}

	if _, _, err := Resample(s, 0, 10, 1); err == nil {
		t.Error("expected error for n=1")
	}
	if _, _, err := Resample(s, 5, 5, 8); err == nil {
		t.Error("expected error for empty window")
	}
}

func TestFFT_Impulse(t *testing.T) {
	// The transform of a unit impulse is flat.
	got := FFT([]float64{1, 0, 0, 0})
	if len(got) != 4 {
		t.Fatalf("fft of 4 samples has length %d", len(got))
	}
	for i, c := range got {
		if !scalar.EqualWithinAbs(real(c), 1, 1e-12) || !scalar.EqualWithinAbs(imag(c), 0, 1e-12) {
			t.Errorf("bin %d = %v, want 1", i, c)
		}
	}
}

func TestFFT_PadsToPowerOfTwo(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6}

	got := FFT(data)
	if len(got) != 8 {
		t.Fatalf("fft of 6 samples has length %d, want 8", len(got))
	}
	// The zero-frequency bin is the plain sum.
	if !scalar.EqualWithinAbs(real(got[0]), 21, 1e-9) {
		t.Errorf("dc bin = %v, want 21", got[0])
	}

	if ps := PowerSpectrum(data); len(ps) != 4 {
		t.Errorf("power spectrum of 6 samples has %d bins, want 4", len(ps))
	}
	if got := FFT(nil); got != nil {
		t.Errorf("fft of no samples = %v", got)
	}
}

func TestSpectrum_PeakAtSignalFrequency(t *testing.T) {
	const freq = 4.0 // cycles over a 1-unit window: 4 Hz
	s := sine(t, freq, 1, 512)

	freqs, power, err := Spectrum(s, 0, 1, 256)
	if err != nil {
		t.Fatal(err)
	}

	peak := 0
	for i := 1; i < len(power); i++ {
		if power[i] > power[peak] {
			peak = i
		}
	}
	if !scalar.EqualWithinAbs(freqs[peak], freq, 0.5) {
		t.Errorf("spectral peak at %g Hz, want %g", freqs[peak], freq)
	}
}

func TestSummarize(t *testing.T) {
	s := signal.NewForcing("f", "", "")
	for _, at := range []float64{0, 10} {
		if err := s.RecordAt(at, at); err != nil {
			t.Fatal(err)
		}
	}

	sum, err := Summarize(s, 0, 10, 101)
	if err != nil {
		t.Fatal(err)
	}
	if sum.SeriesID != "f" || sum.Samples != 101 {
		t.Errorf("summary = %+v", sum)
	}
	if sum.Min != 0 || sum.Max != 10 || sum.Final != 10 {
		t.Errorf("min/max/final = %g/%g/%g", sum.Min, sum.Max, sum.Final)
	}
	if !scalar.EqualWithinAbs(sum.Mean, 5, 1e-9) {
		t.Errorf("mean = %g, want 5", sum.Mean)
	}
}

func TestPhase(t *testing.T) {
	x := sine(t, 1, 1, 128)
	y := sine(t, 2, 1, 128)

	trace, err := Phase(x, y, 0, 1, 64)
	if err != nil {
		t.Fatal(err)
	}
	if trace.XID != "s" || len(trace.Points) != 64 {
		t.Fatalf("trace = %+v", trace)
	}

	ascii := trace.ToASCII(40, 20)
	if !strings.ContainsRune(ascii, '•') {
		t.Error("ascii plot has no points")
	}
}

func TestParameterSweep_LinearDecayEquilibria(t *testing.T) {
	build := func(rate float64) (*model.Model, error) {
		cfg := config.DefaultConfig()
		for i := range cfg.Series {
			if cfg.Series[i].ID == "a" {
				v := rate
				cfg.Series[i].Value = &v
			}
		}
		return cfg.Build()
	}

	points, err := ParameterSweep(build, 0.1, 0.5, 5, "T", 200)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 5 {
		t.Fatalf("got %d points, want 5", len(points))
	}
	// Equilibrium of dT/dt = -a*T + 28 is 28/a.
	for _, p := range points {
		if !scalar.EqualWithinAbs(p.Value, 28/p.Param, 0.5) {
			t.Errorf("settled value at a=%g is %g, want %g", p.Param, p.Value, 28/p.Param)
		}
	}
}
