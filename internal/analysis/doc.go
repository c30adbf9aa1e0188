// Package analysis provides post-hoc tools for recorded series.
//
//   - [Resample]: uniform resampling of a series through its interpolation
//   - [Spectrum]: power spectrum of a resampled series
//   - [Summarize]: descriptive statistics over a time window
//   - [Phase]: two series combined into a phase trace
//
// # Spectra
//
// A dominant peak away from frequency zero indicates an oscillatory
// forcing leaking into the state variable:
//
//	freqs, power, err := analysis.Spectrum(series, 0, 100, 256)
package analysis
