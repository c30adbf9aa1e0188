package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mkrell/odesim/internal/signal"
)

// FFT computes the discrete Fourier transform with an in-place radix-2
// pass, zero-padding the input to the next power of two.
func FFT(data []float64) []complex128 {
	if len(data) == 0 {
		return nil
	}
	n := nextPow2(len(data))
	buf := make([]complex128, n)
	for i, v := range data {
		buf[i] = complex(v, 0)
	}

	// bit-reversal permutation
	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j ^= bit
		}
		j |= bit
		if i < j {
			buf[i], buf[j] = buf[j], buf[i]
		}
	}

	for size := 2; size <= n; size *= 2 {
		step := cmplx.Exp(complex(0, -2*math.Pi/float64(size)))
		for start := 0; start < n; start += size {
			w := complex(1, 0)
			for k := start; k < start+size/2; k++ {
				even, odd := buf[k], buf[k+size/2]*w
				buf[k] = even + odd
				buf[k+size/2] = even - odd
				w *= step
			}
		}
	}
	return buf
}

func PowerSpectrum(data []float64) []float64 {
	fft := FFT(data)
	ps := make([]float64, len(fft)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}

	return ps
}

func nextPow2(n int) int {
	size := 1
	for size < n {
		size *= 2
	}
	return size
}

// Resample reads the series at n uniformly spaced times in [start, end]
// through its interpolation kind.
func Resample(s *signal.Series, start, end float64, n int) (times, values []float64, err error) {
	if n < 2 {
		return nil, nil, fmt.Errorf("analysis: need at least 2 samples, got %d", n)
	}
	if end <= start {
		return nil, nil, fmt.Errorf("analysis: empty window [%g, %g]", start, end)
	}

	times = make([]float64, n)
	step := (end - start) / float64(n-1)
	for i := range times {
		times[i] = start + float64(i)*step
	}
	times[n-1] = end

	values, err = s.ReadAll(times)
	if err != nil {
		return nil, nil, err
	}
	return times, values, nil
}

// Spectrum resamples the series to the next power of two at or above n,
// removes the mean and returns one-sided frequencies with spectral power.
func Spectrum(s *signal.Series, start, end float64, n int) (freqs, power []float64, err error) {
	size := nextPow2(n)
	if size < 2 {
		size = 2
	}

	times, values, err := Resample(s, start, end, size)
	if err != nil {
		return nil, nil, err
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	for i := range values {
		values[i] -= mean
	}

	power = PowerSpectrum(values)

	dt := times[1] - times[0]
	freqs = make([]float64, len(power))
	for i := range freqs {
		freqs[i] = float64(i) / (dt * float64(size))
	}
	return freqs, power, nil
}
