// Package export renders stored runs into portable formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/mkrell/odesim/internal/storage"
)

// Document is the self-contained JSON form of a run.
type Document struct {
	Run    storage.Run              `json:"run"`
	Traces map[string]storage.Trace `json:"traces"`
}

func WriteJSON(w io.Writer, run storage.Run, traces map[string]storage.Trace) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Document{Run: run, Traces: traces})
}

func JSONFile(path string, run storage.Run, traces map[string]storage.Trace) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, run, traces)
}

// WriteCSV emits the long sample format (series,time,value), series in
// id order, samples in time order.
func WriteCSV(w io.Writer, traces map[string]storage.Trace) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"series", "time", "value"}); err != nil {
		return err
	}

	ids := make([]string, 0, len(traces))
	for id := range traces {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		trace := traces[id]
		for i := range trace.Times {
			row := []string{
				id,
				strconv.FormatFloat(trace.Times[i], 'g', -1, 64),
				strconv.FormatFloat(trace.Values[i], 'g', -1, 64),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func CSVFile(path string, traces map[string]storage.Trace) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteCSV(file, traces)
}
