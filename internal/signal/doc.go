// Package signal provides the time-series value abstraction the rest of
// the framework is built on.
//
// A [Series] is a named, unit-tagged scalar signal recorded at strictly
// increasing times. Reads are interpolated according to the configured
// [Interpolation] kind and clamped to the boundary samples outside the
// recorded range. Writes go through a single Record operation that either
// overwrites the sample at an existing time or appends, enforces bounds,
// and trims samples older than the retention horizon.
//
//   - [Series]: one scalar signal with its history
//   - [Set]: generic keyed container with insertion-time uniqueness
//
// The same Series type serves three roles: parameters (constant-ish model
// inputs), forcings (external drivers) and state variables (values being
// solved for). Role constructors pick sensible default interpolation.
package signal
