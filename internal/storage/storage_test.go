package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mkrell/odesim/internal/equation"
	"github.com/mkrell/odesim/internal/model"
	"github.com/mkrell/odesim/internal/scheme"
	"github.com/mkrell/odesim/internal/signal"
)

func testRun() (Run, map[string]Trace) {
	return Run{
			ID:          "heat-loss_deadbeef",
			Model:       "heat loss",
			Version:     "1.0.0",
			Created:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
			InitialTime: 0,
			FinalTime:   10,
			Series: []SeriesMeta{
				{ID: "T", Name: "temperature", Unit: "K", Role: "state variable", Interpolation: "linear"},
				{ID: "a", Unit: "1/s", Role: "parameter", Interpolation: "nearest-left"},
			},
		}, map[string]Trace{
			"T": {Times: []float64{0, 5, 10}, Values: []float64{293.15, 285.2, 281.1}},
			"a": {Times: []float64{0}, Values: []float64{0.1}},
		}
}

// Both backends must behave identically from the caller's side.
func backends(t *testing.T) map[string]Backend {
	t.Helper()
	return map[string]Backend{
		"fs":     NewFS(filepath.Join(t.TempDir(), "runs")),
		"sqlite": NewSQLite(filepath.Join(t.TempDir(), "runs.db")),
	}
}

func TestBackend_SaveLoadRoundTrip(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := b.Init(); err != nil {
				t.Fatal(err)
			}
			defer b.Close()

			run, traces := testRun()
			if err := b.Save(run, traces); err != nil {
				t.Fatal(err)
			}

			loaded, err := b.Load(run.ID)
			if err != nil {
				t.Fatal(err)
			}
			if loaded.Model != run.Model || loaded.FinalTime != run.FinalTime {
				t.Errorf("loaded run = %+v, want %+v", loaded, run)
			}
			if len(loaded.Series) != 2 {
				t.Errorf("loaded %d series metas, want 2", len(loaded.Series))
			}

			got, err := b.LoadTraces(run.ID)
			if err != nil {
				t.Fatal(err)
			}
			for id, want := range traces {
				trace, ok := got[id]
				if !ok {
					t.Fatalf("trace %q missing", id)
				}
				if len(trace.Times) != len(want.Times) {
					t.Fatalf("trace %q has %d samples, want %d", id, len(trace.Times), len(want.Times))
				}
				for i := range want.Times {
					if trace.Times[i] != want.Times[i] || trace.Values[i] != want.Values[i] {
						t.Errorf("trace %q sample %d = (%g, %g), want (%g, %g)", id, i,
							trace.Times[i], trace.Values[i], want.Times[i], want.Values[i])
					}
				}
			}
		})
	}
}

func TestBackend_ListAndDelete(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := b.Init(); err != nil {
				t.Fatal(err)
			}
			defer b.Close()

			runs, err := b.List()
			if err != nil {
				t.Fatal(err)
			}
			if len(runs) != 0 {
				t.Errorf("fresh backend lists %d runs", len(runs))
			}

			run, traces := testRun()
			if err := b.Save(run, traces); err != nil {
				t.Fatal(err)
			}

			runs, err = b.List()
			if err != nil {
				t.Fatal(err)
			}
			if len(runs) != 1 || runs[0].ID != run.ID {
				t.Fatalf("list = %+v, want single run %s", runs, run.ID)
			}

			if err := b.Delete(run.ID); err != nil {
				t.Fatal(err)
			}
			if _, err := b.Load(run.ID); err == nil {
				t.Error("load after delete succeeded")
			}
		})
	}
}

func TestFS_ListSkipsStrayFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "runs")
	b := NewFS(dir)
	if err := b.Init(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "empty"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err := b.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Errorf("list = %+v, want empty", runs)
	}
}

func TestNewRunID(t *testing.T) {
	id := NewRunID("Heat Loss v2")
	if !strings.HasPrefix(id, "heat-loss-v2_") {
		t.Errorf("run id = %q, want heat-loss-v2_ prefix", id)
	}
	if id == NewRunID("Heat Loss v2") {
		t.Error("consecutive run ids collide")
	}
	if !strings.HasPrefix(NewRunID(""), "run_") {
		t.Error("empty model name should fall back to run_")
	}
}

func TestSnapshot(t *testing.T) {
	m := model.New(model.Info{Name: "heat loss", Version: "1.0.0"}, 0)

	T := signal.NewStateVariable("T", "temperature", "K")
	a := signal.NewParameter("a", "decay rate", "1/s")
	F := signal.NewForcing("F", "forcing", "K/s")
	if err := m.AddVariable(T); err != nil {
		t.Fatal(err)
	}
	if err := m.AddParameter(a); err != nil {
		t.Fatal(err)
	}
	if err := m.AddForcing(F); err != nil {
		t.Fatal(err)
	}
	for _, rec := range []struct {
		s     *signal.Series
		value float64
	}{
		{T, 293.15}, {a, 0.1}, {F, 28},
	} {
		if err := rec.s.Record(rec.value); err != nil {
			t.Fatal(err)
		}
	}
	eq, err := equation.NewLinearDecay(T, a, F)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.AddScheme(scheme.NewEulerImplicit(eq, scheme.Config{})); err != nil {
		t.Fatal(err)
	}
	if err := m.Integrate(10); err != nil {
		t.Fatal(err)
	}

	run, traces := Snapshot(m, 0)
	if run.Model != "heat loss" || run.FinalTime != 10 {
		t.Errorf("run = %+v", run)
	}
	if len(run.Series) != 3 || len(traces) != 3 {
		t.Fatalf("snapshot has %d metas and %d traces, want 3 each", len(run.Series), len(traces))
	}
	if n := len(traces["T"].Times); n < 2 {
		t.Errorf("variable trace has %d samples", n)
	}
	if n := len(traces["a"].Times); n != 1 {
		t.Errorf("parameter trace has %d samples, want 1", n)
	}
}
