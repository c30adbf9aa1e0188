package signal

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Interpolation selects how a Series resolves reads between samples.
type Interpolation int

const (
	// NearestLeft holds the last recorded value (zero-order hold).
	NearestLeft Interpolation = iota
	// Nearest rounds to the closer neighbor.
	Nearest
	// Linear interpolates linearly between neighbors.
	Linear
)

func (i Interpolation) String() string {
	switch i {
	case NearestLeft:
		return "nearest-left"
	case Nearest:
		return "nearest"
	case Linear:
		return "linear"
	default:
		return "unknown"
	}
}

// ParseInterpolation maps a config string to an Interpolation kind.
func ParseInterpolation(s string) (Interpolation, error) {
	switch s {
	case "nearest-left", "previous", "hold", "":
		return NearestLeft, nil
	case "nearest":
		return Nearest, nil
	case "linear":
		return Linear, nil
	default:
		return NearestLeft, fmt.Errorf("unknown interpolation kind: %q", s)
	}
}

// Role tags what a series means to the enclosing model.
type Role int

const (
	RoleParameter Role = iota
	RoleForcing
	RoleStateVariable
)

func (r Role) String() string {
	switch r {
	case RoleParameter:
		return "parameter"
	case RoleForcing:
		return "forcing"
	case RoleStateVariable:
		return "state variable"
	default:
		return "unknown"
	}
}

// TimeFunc supplies the current model time in seconds.
type TimeFunc func() float64

// UTCNow is the default time source: wall-clock UTC seconds.
func UTCNow() float64 {
	return float64(time.Now().UTC().UnixNano()) / 1e9
}

// Series is a scalar signal recorded at strictly increasing times.
// The zero value is not usable; construct with New or a role constructor.
type Series struct {
	id   string
	name string
	unit string
	role Role

	times  []float64
	values []float64

	lower, upper float64
	kind         Interpolation
	remembrance  float64 // retention horizon, 0 disables trimming
	timeFunc     TimeFunc
	nextTime     *float64
}

// New returns an unbounded series with nearest-left interpolation,
// no retention limit and the UTC wall clock as time source.
func New(id, name, unit string) *Series {
	return &Series{
		id:       id,
		name:     name,
		unit:     unit,
		lower:    math.Inf(-1),
		upper:    math.Inf(1),
		kind:     NearestLeft,
		timeFunc: UTCNow,
	}
}

// NewParameter returns a series tagged as a constant-ish model input.
func NewParameter(id, name, unit string) *Series {
	s := New(id, name, unit)
	s.role = RoleParameter
	return s
}

// NewForcing returns a series tagged as an external driver. Forcings
// default to linear interpolation since they are sampled observations.
func NewForcing(id, name, unit string) *Series {
	s := New(id, name, unit)
	s.role = RoleForcing
	s.kind = Linear
	return s
}

// NewStateVariable returns a series tagged as a value being solved for.
func NewStateVariable(id, name, unit string) *Series {
	s := New(id, name, unit)
	s.role = RoleStateVariable
	return s
}

func (s *Series) ID() string                   { return s.id }
func (s *Series) Name() string                 { return s.name }
func (s *Series) Unit() string                 { return s.unit }
func (s *Series) Role() Role                   { return s.role }
func (s *Series) Len() int                     { return len(s.times) }
func (s *Series) Interpolation() Interpolation { return s.kind }
func (s *Series) Bounds() (lower, upper float64) {
	return s.lower, s.upper
}

// Times returns a copy of the recorded times.
func (s *Series) Times() []float64 {
	out := make([]float64, len(s.times))
	copy(out, s.times)
	return out
}

// Values returns a copy of the recorded values.
func (s *Series) Values() []float64 {
	out := make([]float64, len(s.values))
	copy(out, s.values)
	return out
}

// SetBounds restricts future recorded values to [lower, upper].
func (s *Series) SetBounds(lower, upper float64) error {
	if lower > upper {
		return fmt.Errorf("signal: lower bound %g above upper bound %g", lower, upper)
	}
	s.lower = lower
	s.upper = upper
	return nil
}

// SetInterpolation switches the interpolation kind for subsequent reads.
func (s *Series) SetInterpolation(kind Interpolation) { s.kind = kind }

// SetRemembrance sets the retention horizon. After every record, samples
// older than the newest time minus r are dropped.
func (s *Series) SetRemembrance(r float64) error {
	if r <= 0 || math.IsNaN(r) {
		return fmt.Errorf("signal: remembrance must be positive, got %g", r)
	}
	s.remembrance = r
	return nil
}

// ClearRemembrance disables retention trimming.
func (s *Series) ClearRemembrance() { s.remembrance = 0 }

// SetTimeFunc injects the time source used when Record is called without
// an explicit or staged time. A nil fn restores the UTC wall clock.
func (s *Series) SetTimeFunc(fn TimeFunc) {
	if fn == nil {
		fn = UTCNow
	}
	s.timeFunc = fn
}

// SetNextTime stages the time the next Record call will write at.
// The staged time must not precede the latest recorded sample.
func (s *Series) SetNextTime(t float64) error {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return fmt.Errorf("%w: staged time %g", ErrNotNumeric, t)
	}
	if n := len(s.times); n > 0 && t < s.times[n-1] {
		return fmt.Errorf("%w: %g before %g on %q", ErrStaleStage, t, s.times[n-1], s.id)
	}
	s.nextTime = &t
	return nil
}

// NextTime reports the staged write time, if any.
func (s *Series) NextTime() (float64, bool) {
	if s.nextTime == nil {
		return 0, false
	}
	return *s.nextTime, true
}

// ClearNextTime drops the staged write time.
func (s *Series) ClearNextTime() { s.nextTime = nil }

// Record stores value at the staged next-time if one is set, else at the
// time reported by the series' time source.
func (s *Series) Record(value float64) error {
	at := s.timeFunc()
	if s.nextTime != nil {
		at = *s.nextTime
	}
	return s.RecordAt(value, at)
}

// RecordAt stores value at the given time. An exact match with an existing
// sample time overwrites that sample; otherwise the time must be later than
// every recorded sample and the pair is appended. Violations leave the
// stored series unchanged.
func (s *Series) RecordAt(value, at float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%w: %g on %q", ErrNotNumeric, value, s.id)
	}
	if math.IsNaN(at) || math.IsInf(at, 0) {
		return fmt.Errorf("%w: time %g on %q", ErrNotNumeric, at, s.id)
	}
	if value < s.lower || value > s.upper {
		return fmt.Errorf("%w: %g outside [%g, %g] on %q",
			ErrOutOfBounds, value, s.lower, s.upper, s.id)
	}

	i := sort.SearchFloat64s(s.times, at)
	if i < len(s.times) && s.times[i] == at {
		s.values[i] = value
	} else {
		if n := len(s.times); n > 0 && at < s.times[n-1] {
			return fmt.Errorf("%w: %g before %g on %q",
				ErrDecreasingTime, at, s.times[n-1], s.id)
		}
		s.times = append(s.times, at)
		s.values = append(s.values, value)
	}

	s.trim()
	return nil
}

// trim drops samples older than the retention horizon.
func (s *Series) trim() {
	if s.remembrance <= 0 || len(s.times) == 0 {
		return
	}
	cutoff := s.times[len(s.times)-1] - s.remembrance
	drop := 0
	for drop < len(s.times) && s.times[drop] < cutoff {
		drop++
	}
	if drop > 0 {
		s.times = append(s.times[:0], s.times[drop:]...)
		s.values = append(s.values[:0], s.values[drop:]...)
	}
}

// Read returns the most recently recorded value.
func (s *Series) Read() (float64, error) {
	if len(s.values) == 0 {
		return 0, fmt.Errorf("%w: %q", ErrEmpty, s.id)
	}
	return s.values[len(s.values)-1], nil
}

// LastTime returns the time of the most recent sample.
func (s *Series) LastTime() (float64, error) {
	if len(s.times) == 0 {
		return 0, fmt.Errorf("%w: %q", ErrEmpty, s.id)
	}
	return s.times[len(s.times)-1], nil
}

// ReadAt returns the interpolated value at time t. Outside the recorded
// range the boundary value is returned; there is no extrapolation.
// A query at an exact recorded time returns that sample's value for every
// interpolation kind.
func (s *Series) ReadAt(t float64) (float64, error) {
	n := len(s.times)
	if n == 0 {
		return 0, fmt.Errorf("%w: %q", ErrEmpty, s.id)
	}
	if t <= s.times[0] {
		return s.values[0], nil
	}
	if t >= s.times[n-1] {
		return s.values[n-1], nil
	}

	// First index with times[i] >= t; t is strictly inside the range here.
	i := sort.SearchFloat64s(s.times, t)
	if s.times[i] == t {
		return s.values[i], nil
	}
	left, right := i-1, i

	switch s.kind {
	case NearestLeft:
		return s.values[left], nil
	case Nearest:
		if t-s.times[left] <= s.times[right]-t {
			return s.values[left], nil
		}
		return s.values[right], nil
	case Linear:
		frac := (t - s.times[left]) / (s.times[right] - s.times[left])
		return s.values[left] + frac*(s.values[right]-s.values[left]), nil
	default:
		return 0, fmt.Errorf("signal: unknown interpolation kind %d", s.kind)
	}
}

// ReadAll interpolates the series at each of the given times.
func (s *Series) ReadAll(ts []float64) ([]float64, error) {
	out := make([]float64, len(ts))
	for i, t := range ts {
		v, err := s.ReadAt(t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
