package signal

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func newRecorded(t *testing.T, kind Interpolation, times, values []float64) *Series {
	t.Helper()
	s := New("x", "test signal", "1")
	s.SetInterpolation(kind)
	for i := range times {
		if err := s.RecordAt(values[i], times[i]); err != nil {
			t.Fatalf("record (%g, %g): %v", times[i], values[i], err)
		}
	}
	return s
}

func TestReadAt_ExactTimeRoundTrip(t *testing.T) {
	times := []float64{0, 1, 2.5, 4}
	values := []float64{10, 20, 15, 5}

	for _, kind := range []Interpolation{NearestLeft, Nearest, Linear} {
		s := newRecorded(t, kind, times, values)
		for i := range times {
			got, err := s.ReadAt(times[i])
			if err != nil {
				t.Fatalf("%v: read at %g: %v", kind, times[i], err)
			}
			if got != values[i] {
				t.Errorf("%v: read at %g = %g, want exactly %g", kind, times[i], got, values[i])
			}
		}
	}
}

func TestReadAt_Interpolation(t *testing.T) {
	times := []float64{0, 1, 2}
	values := []float64{0, 10, 30}

	tests := []struct {
		kind Interpolation
		at   float64
		want float64
	}{
		{NearestLeft, 0.5, 0},
		{NearestLeft, 1.9, 10},
		{Nearest, 0.4, 0},
		{Nearest, 0.6, 10},
		{Nearest, 1.5, 10}, // equidistant resolves to earlier neighbor
		{Linear, 0.5, 5},
		{Linear, 1.5, 20},
		// Outside the range: clamp, no extrapolation.
		{NearestLeft, -3, 0},
		{Nearest, -3, 0},
		{Linear, -3, 0},
		{NearestLeft, 7, 30},
		{Nearest, 7, 30},
		{Linear, 7, 30},
	}

	for _, tt := range tests {
		s := newRecorded(t, tt.kind, times, values)
		got, err := s.ReadAt(tt.at)
		if err != nil {
			t.Fatalf("%v: read at %g: %v", tt.kind, tt.at, err)
		}
		if !scalar.EqualWithinAbs(got, tt.want, 1e-12) {
			t.Errorf("%v: read at %g = %g, want %g", tt.kind, tt.at, got, tt.want)
		}
	}
}

func TestReadAt_Empty(t *testing.T) {
	s := New("x", "", "")
	if _, err := s.ReadAt(0); !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
	if _, err := s.Read(); !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
}

func TestRecordAt_Monotonic(t *testing.T) {
	s := New("x", "", "")
	steps := []struct {
		value, at float64
		wantErr   error
	}{
		{1, 0, nil},
		{2, 1, nil},
		{3, 0.5, ErrDecreasingTime}, // earlier, no exact match
		{4, 1, nil},                 // exact match overwrites
		{5, 0, nil},                 // exact match on first sample
		{6, 2, nil},
	}

	for _, st := range steps {
		err := s.RecordAt(st.value, st.at)
		if st.wantErr == nil && err != nil {
			t.Fatalf("record (%g, %g): %v", st.at, st.value, err)
		}
		if st.wantErr != nil && !errors.Is(err, st.wantErr) {
			t.Fatalf("record (%g, %g): got %v, want %v", st.at, st.value, err, st.wantErr)
		}

		times := s.Times()
		if len(times) != s.Len() || len(s.Values()) != s.Len() {
			t.Fatal("times/values length mismatch")
		}
		for i := 1; i < len(times); i++ {
			if times[i] <= times[i-1] {
				t.Fatalf("times not strictly increasing: %v", times)
			}
		}
	}

	wantTimes := []float64{0, 1, 2}
	wantValues := []float64{5, 4, 6}
	gotTimes, gotValues := s.Times(), s.Values()
	for i := range wantTimes {
		if gotTimes[i] != wantTimes[i] || gotValues[i] != wantValues[i] {
			t.Errorf("sample %d = (%g, %g), want (%g, %g)",
				i, gotTimes[i], gotValues[i], wantTimes[i], wantValues[i])
		}
	}
}

func TestRecordAt_Bounds(t *testing.T) {
	s := New("T", "temperature", "K")
	if err := s.SetBounds(0, 400); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordAt(293.15, 0); err != nil {
		t.Fatal(err)
	}

	if err := s.RecordAt(500, 1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("above upper bound: got %v", err)
	}
	if err := s.RecordAt(-1, 1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("below lower bound: got %v", err)
	}
	if err := s.RecordAt(math.NaN(), 1); !errors.Is(err, ErrNotNumeric) {
		t.Errorf("NaN value: got %v", err)
	}
	if err := s.RecordAt(math.Inf(1), 1); !errors.Is(err, ErrNotNumeric) {
		t.Errorf("Inf value: got %v", err)
	}

	// Failed records leave the stored series unchanged.
	if s.Len() != 1 {
		t.Fatalf("series mutated by rejected record: %d samples", s.Len())
	}
	if v, _ := s.Read(); v != 293.15 {
		t.Errorf("stored value changed to %g", v)
	}
}

func TestSetBounds_Invalid(t *testing.T) {
	s := New("x", "", "")
	if err := s.SetBounds(1, -1); err == nil {
		t.Error("expected error for inverted bounds")
	}
}

func TestRemembrance(t *testing.T) {
	s := New("x", "", "")
	if err := s.SetRemembrance(2); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 10; i++ {
		if err := s.RecordAt(float64(i), float64(i)); err != nil {
			t.Fatal(err)
		}
		times := s.Times()
		if span := times[len(times)-1] - times[0]; span > 2 {
			t.Fatalf("after record %d: span %g exceeds remembrance", i, span)
		}
	}

	// 2-unit horizon over unit spacing keeps exactly 3 samples.
	if s.Len() != 3 {
		t.Errorf("kept %d samples, want 3", s.Len())
	}

	if err := s.SetRemembrance(-1); err == nil {
		t.Error("expected error for negative remembrance")
	}
}

func TestNextTimeStaging(t *testing.T) {
	s := New("x", "", "")
	if err := s.RecordAt(1, 10); err != nil {
		t.Fatal(err)
	}

	if err := s.SetNextTime(5); !errors.Is(err, ErrStaleStage) {
		t.Errorf("staging before latest sample: got %v", err)
	}
	if err := s.SetNextTime(10); err != nil {
		t.Errorf("staging at latest sample should correct the point: %v", err)
	}
	if err := s.SetNextTime(12); err != nil {
		t.Fatal(err)
	}
	if tt, ok := s.NextTime(); !ok || tt != 12 {
		t.Fatalf("staged time = %g, %v", tt, ok)
	}

	if err := s.Record(7); err != nil {
		t.Fatal(err)
	}
	if lt, _ := s.LastTime(); lt != 12 {
		t.Errorf("record went to t=%g, want staged t=12", lt)
	}

	s.ClearNextTime()
	if _, ok := s.NextTime(); ok {
		t.Error("staged time not cleared")
	}
}

func TestRecord_UsesTimeFunc(t *testing.T) {
	s := New("x", "", "")
	now := 100.0
	s.SetTimeFunc(func() float64 { return now })

	if err := s.Record(1); err != nil {
		t.Fatal(err)
	}
	now = 101
	if err := s.Record(2); err != nil {
		t.Fatal(err)
	}

	if lt, _ := s.LastTime(); lt != 101 {
		t.Errorf("last time = %g, want 101", lt)
	}
	if s.Len() != 2 {
		t.Errorf("got %d samples, want 2", s.Len())
	}
}

func TestRoleConstructors(t *testing.T) {
	tests := []struct {
		s        *Series
		wantRole Role
		wantKind Interpolation
	}{
		{NewParameter("a", "decay", "1/s"), RoleParameter, NearestLeft},
		{NewForcing("F", "inflow", "K/s"), RoleForcing, Linear},
		{NewStateVariable("T", "temperature", "K"), RoleStateVariable, NearestLeft},
	}
	for _, tt := range tests {
		if tt.s.Role() != tt.wantRole {
			t.Errorf("%s: role %v, want %v", tt.s.ID(), tt.s.Role(), tt.wantRole)
		}
		if tt.s.Interpolation() != tt.wantKind {
			t.Errorf("%s: kind %v, want %v", tt.s.ID(), tt.s.Interpolation(), tt.wantKind)
		}
	}
}
