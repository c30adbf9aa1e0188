// Package storage persists finished runs: descriptive metadata plus the
// full sample traces of every series. Two backends exist, a per-run
// directory layout on the filesystem and a single SQLite database file.
package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mkrell/odesim/internal/model"
)

// Run is the persisted metadata of one finished integration.
type Run struct {
	ID          string       `json:"id"`
	Model       string       `json:"model"`
	Version     string       `json:"version"`
	Description string       `json:"description,omitempty"`
	Created     time.Time    `json:"created"`
	InitialTime float64      `json:"initial_time"`
	FinalTime   float64      `json:"final_time"`
	Series      []SeriesMeta `json:"series"`
}

// SeriesMeta describes one persisted series.
type SeriesMeta struct {
	ID            string `json:"id"`
	Name          string `json:"name,omitempty"`
	Unit          string `json:"unit,omitempty"`
	Role          string `json:"role"`
	Interpolation string `json:"interpolation"`
}

// Trace is the raw sample history of one series.
type Trace struct {
	Times  []float64 `json:"times"`
	Values []float64 `json:"values"`
}

// Backend stores and retrieves runs.
type Backend interface {
	Init() error
	Save(run Run, traces map[string]Trace) error
	List() ([]Run, error)
	Load(runID string) (*Run, error)
	LoadTraces(runID string) (map[string]Trace, error)
	Delete(runID string) error
	Close() error
}

// NewRunID builds a readable, collision-safe run id from the model name.
func NewRunID(modelName string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, modelName)
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "run"
	}
	return fmt.Sprintf("%s_%s", slug, uuid.NewString()[:8])
}

// Snapshot captures a model's current state as a run plus its traces.
func Snapshot(m *model.Model, initialTime float64) (Run, map[string]Trace) {
	info := m.Info()
	run := Run{
		ID:          NewRunID(info.Name),
		Model:       info.Name,
		Version:     info.Version,
		Description: info.Description,
		Created:     time.Now().UTC(),
		InitialTime: initialTime,
		FinalTime:   m.CurrentTime(),
	}

	traces := make(map[string]Trace)
	for _, s := range m.AllSeries() {
		run.Series = append(run.Series, SeriesMeta{
			ID:            s.ID(),
			Name:          s.Name(),
			Unit:          s.Unit(),
			Role:          s.Role().String(),
			Interpolation: s.Interpolation().String(),
		})
		traces[s.ID()] = Trace{Times: s.Times(), Values: s.Values()}
	}
	return run, traces
}
