package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mkrell/odesim/internal/analysis"
	"github.com/mkrell/odesim/internal/config"
	"github.com/mkrell/odesim/internal/export"
	"github.com/mkrell/odesim/internal/model"
	"github.com/mkrell/odesim/internal/signal"
	"github.com/mkrell/odesim/internal/storage"
	"github.com/mkrell/odesim/internal/viz"
)

var (
	dataDir    string
	dbPath     string
	configFile string
	preset     string
	duration   float64
	// plot/analyze/export series selection
	seriesID string
	outFile  string
	// phase axes
	xSeries string
	ySeries string
	// live view
	liveStep float64
	// sweep
	sweepMin      float64
	sweepMax      float64
	sweepSteps    int
	sweepVariable string
	sweepSettle   float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "odesim",
		Short: "time-series driven ODE integration lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".odesim", "data directory")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "sqlite database file (instead of the data directory)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "integrate a model and store the run",
		RunE:  runModel,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().Float64Var(&duration, "time", 0, "integration span (overrides config)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	deleteCmd := &cobra.Command{
		Use:   "delete [run_id]",
		Short: "delete a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  deleteRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot stored series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&seriesID, "series", "", "series id (default: every state variable)")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase plot of two stored series",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().StringVar(&xSeries, "x", "", "series id for the x axis")
	phaseCmd.Flags().StringVar(&ySeries, "y", "", "series id for the y axis")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a stored series",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&seriesID, "series", "", "series id (default: first state variable)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVar(&outFile, "out", "", "output file (default: stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVar(&outFile, "out", "", "output file (default: stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export one series trace as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&seriesID, "series", "", "series id (default: first state variable)")
	exportSVGCmd.Flags().StringVar(&outFile, "out", "", "output file (default: stdout)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "integrate with a live terminal view",
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	liveCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	liveCmd.Flags().Float64Var(&duration, "time", 0, "integration span (overrides config)")
	liveCmd.Flags().Float64Var(&liveStep, "step", 0, "model time advanced per frame")

	compareCmd := &cobra.Command{
		Use:   "compare [scheme1] [scheme2] ...",
		Short: "compare schemes on the same model",
		Args:  cobra.MinimumNArgs(1),
		RunE:  compareSchemes,
	}
	compareCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	compareCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	compareCmd.Flags().Float64Var(&duration, "time", 0, "integration span (overrides config)")

	sweepCmd := &cobra.Command{
		Use:   "sweep [parameter_id]",
		Short: "sweep a parameter and plot settled values",
		Args:  cobra.ExactArgs(1),
		RunE:  sweepParameter,
	}
	sweepCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	sweepCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.1, "lowest parameter value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1.0, "highest parameter value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 20, "number of parameter values")
	sweepCmd.Flags().StringVar(&sweepVariable, "variable", "", "state variable to record (default: first)")
	sweepCmd.Flags().Float64Var(&sweepSettle, "settle", 100, "integration span per parameter value")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Printf("  %-12s %s\n", name, config.Presets[name].Description)
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [file]",
		Short: "write the default configuration to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Save(args[0], config.DefaultConfig())
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, showCmd, deleteCmd, plotCmd, phaseCmd,
		analyzeCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd, liveCmd,
		compareCmd, sweepCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// backend picks the sqlite file when --db is set, the run directory
// otherwise.
func backend() storage.Backend {
	if dbPath != "" {
		return storage.NewSQLite(dbPath)
	}
	return storage.NewFS(dataDir)
}

func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if duration > 0 {
		cfg.Duration = duration
	}
	return cfg, nil
}

func runModel(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	m, err := cfg.Build()
	if err != nil {
		return err
	}

	st := backend()
	if err := st.Init(); err != nil {
		return err
	}
	defer st.Close()

	initialTime := m.CurrentTime()
	fmt.Printf("integrating %s to t=%g...\n", m.Info().Name, initialTime+cfg.Duration)
	start := time.Now()

	if err := m.Integrate(initialTime + cfg.Duration); err != nil {
		return err
	}
	elapsed := time.Since(start)

	run, traces := storage.Snapshot(m, initialTime)
	if err := st.Save(run, traces); err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", run.ID)
	fmt.Println("\nstate variables:")
	for _, id := range m.Variables().Keys() {
		s, err := m.Variables().Get(id)
		if err != nil {
			return err
		}
		sum, err := analysis.Summarize(s, initialTime, m.CurrentTime(), 256)
		if err != nil {
			return err
		}
		fmt.Printf("  %s: final=%.6g min=%.6g max=%.6g mean=%.6g\n",
			id, sum.Final, sum.Min, sum.Max, sum.Mean)
	}

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := backend()
	if err := st.Init(); err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tCREATED\tSPAN\tSERIES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%g..%g\t%d\n",
			run.ID,
			run.Model,
			run.Created.Format("2006-01-02 15:04:05"),
			run.InitialTime,
			run.FinalTime,
			len(run.Series),
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := backend()
	if err := st.Init(); err != nil {
		return err
	}
	defer st.Close()

	run, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(run)
}

func deleteRun(cmd *cobra.Command, args []string) error {
	st := backend()
	if err := st.Init(); err != nil {
		return err
	}
	defer st.Close()
	return st.Delete(args[0])
}

// seriesFromTrace rebuilds an interpolatable series from stored samples.
func seriesFromTrace(meta storage.SeriesMeta, trace storage.Trace) (*signal.Series, error) {
	s := signal.NewForcing(meta.ID, meta.Name, meta.Unit)
	kind, err := signal.ParseInterpolation(meta.Interpolation)
	if err == nil {
		s.SetInterpolation(kind)
	}
	for i := range trace.Times {
		if err := s.RecordAt(trace.Values[i], trace.Times[i]); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func findMeta(run *storage.Run, id string) (storage.SeriesMeta, error) {
	for _, meta := range run.Series {
		if meta.ID == id {
			return meta, nil
		}
	}
	return storage.SeriesMeta{}, fmt.Errorf("run %s has no series %q", run.ID, id)
}

// pickSeries resolves --series, defaulting to the state variables.
func pickSeries(run *storage.Run) []string {
	if seriesID != "" {
		return []string{seriesID}
	}
	ids := make([]string, 0)
	for _, meta := range run.Series {
		if strings.HasPrefix(meta.Role, "state") {
			ids = append(ids, meta.ID)
		}
	}
	return ids
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := backend()
	if err := st.Init(); err != nil {
		return err
	}
	defer st.Close()

	run, err := st.Load(args[0])
	if err != nil {
		return err
	}
	traces, err := st.LoadTraces(run.ID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", run.ID)
	fmt.Printf("model: %s\n\n", run.Model)

	for _, id := range pickSeries(run) {
		meta, err := findMeta(run, id)
		if err != nil {
			return err
		}
		s, err := seriesFromTrace(meta, traces[id])
		if err != nil {
			return err
		}
		chart, err := viz.PlotSeries(s, run.InitialTime, run.FinalTime, 80, 10)
		if err != nil {
			return err
		}
		fmt.Println(chart)
		fmt.Println()
	}
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	if xSeries == "" || ySeries == "" {
		return fmt.Errorf("both --x and --y are required")
	}

	st := backend()
	if err := st.Init(); err != nil {
		return err
	}
	defer st.Close()

	run, err := st.Load(args[0])
	if err != nil {
		return err
	}
	traces, err := st.LoadTraces(run.ID)
	if err != nil {
		return err
	}

	xMeta, err := findMeta(run, xSeries)
	if err != nil {
		return err
	}
	yMeta, err := findMeta(run, ySeries)
	if err != nil {
		return err
	}
	x, err := seriesFromTrace(xMeta, traces[xSeries])
	if err != nil {
		return err
	}
	y, err := seriesFromTrace(yMeta, traces[ySeries])
	if err != nil {
		return err
	}

	trace, err := analysis.Phase(x, y, run.InitialTime, run.FinalTime, 512)
	if err != nil {
		return err
	}

	fmt.Printf("phase plot: %s\n", run.ID)
	fmt.Printf("x: %s, y: %s\n\n", xSeries, ySeries)
	fmt.Println(trace.ToASCII(70, 20))
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := backend()
	if err := st.Init(); err != nil {
		return err
	}
	defer st.Close()

	run, err := st.Load(args[0])
	if err != nil {
		return err
	}
	traces, err := st.LoadTraces(run.ID)
	if err != nil {
		return err
	}

	ids := pickSeries(run)
	if len(ids) == 0 {
		return fmt.Errorf("run %s has no state variables", run.ID)
	}
	id := ids[0]

	meta, err := findMeta(run, id)
	if err != nil {
		return err
	}
	s, err := seriesFromTrace(meta, traces[id])
	if err != nil {
		return err
	}

	freqs, power, err := analysis.Spectrum(s, run.InitialTime, run.FinalTime, 256)
	if err != nil {
		return err
	}

	fmt.Printf("frequency analysis: %s\n", run.ID)
	fmt.Printf("series: %s\n\n", id)

	plotData := power[:len(power)/2]
	fmt.Println(viz.PlotTrace(plotData, fmt.Sprintf("power spectrum (%s)", id), 80, 15))

	peak := 0
	for i := 1; i < len(plotData); i++ {
		if plotData[i] > plotData[peak] {
			peak = i
		}
	}
	fmt.Printf("\ndominant frequency: %.4g hz\n", freqs[peak])
	if freqs[peak] > 0 {
		fmt.Printf("period: %.4g s\n", 1.0/freqs[peak])
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := backend()
	if err := st.Init(); err != nil {
		return err
	}
	defer st.Close()

	run, err := st.Load(args[0])
	if err != nil {
		return err
	}
	traces, err := st.LoadTraces(run.ID)
	if err != nil {
		return err
	}

	if outFile != "" {
		return export.JSONFile(outFile, *run, traces)
	}
	return export.WriteJSON(os.Stdout, *run, traces)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := backend()
	if err := st.Init(); err != nil {
		return err
	}
	defer st.Close()

	traces, err := st.LoadTraces(args[0])
	if err != nil {
		return err
	}

	if outFile != "" {
		return export.CSVFile(outFile, traces)
	}
	return export.WriteCSV(os.Stdout, traces)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := backend()
	if err := st.Init(); err != nil {
		return err
	}
	defer st.Close()

	run, err := st.Load(args[0])
	if err != nil {
		return err
	}
	traces, err := st.LoadTraces(run.ID)
	if err != nil {
		return err
	}

	ids := pickSeries(run)
	if len(ids) == 0 {
		return fmt.Errorf("run %s has no state variables", run.ID)
	}
	id := ids[0]

	meta, err := findMeta(run, id)
	if err != nil {
		return err
	}
	label := meta.ID
	if meta.Unit != "" {
		label = fmt.Sprintf("%s [%s]", meta.ID, meta.Unit)
	}

	if outFile != "" {
		return export.SVGFile(outFile, traces[id], label)
	}
	return export.WriteSVG(os.Stdout, traces[id], label)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	m, err := cfg.Build()
	if err != nil {
		return err
	}

	step := liveStep
	if step <= 0 {
		step = cfg.Duration / 300
	}

	p := tea.NewProgram(viz.NewLive(m, step, m.CurrentTime()+cfg.Duration))
	_, err = p.Run()
	return err
}

func compareSchemes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("comparing schemes for %s (span=%g)\n\n", cfg.Name, cfg.Duration)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCHEME\tVARIABLE\tFINAL\tSAMPLES\tTIME")

	for _, kind := range args {
		trial := *cfg
		trial.Schemes = make([]config.SchemeConfig, len(cfg.Schemes))
		for i, sc := range cfg.Schemes {
			sc.Kind = kind
			trial.Schemes[i] = sc
		}

		m, err := trial.Build()
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", kind, err)
			continue
		}

		start := time.Now()
		runErr := m.Integrate(m.CurrentTime() + trial.Duration)
		elapsed := time.Since(start)

		if runErr != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", kind, runErr)
			continue
		}

		for _, id := range m.Variables().Keys() {
			s, err := m.Variables().Get(id)
			if err != nil {
				return err
			}
			final, err := s.Read()
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%s\t%.6g\t%d\t%v\n", kind, id, final, s.Len(), elapsed)
		}
	}
	return w.Flush()
}

func sweepParameter(cmd *cobra.Command, args []string) error {
	paramID := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	variable := sweepVariable
	if variable == "" {
		for _, sc := range cfg.Series {
			if sc.Role == "state" {
				variable = sc.ID
				break
			}
		}
	}
	if variable == "" {
		return fmt.Errorf("configuration has no state variable to record")
	}

	build := func(param float64) (*model.Model, error) {
		trial := *cfg
		trial.Series = make([]config.SeriesConfig, len(cfg.Series))
		copy(trial.Series, cfg.Series)
		found := false
		for i := range trial.Series {
			if trial.Series[i].ID == paramID {
				v := param
				trial.Series[i].Value = &v
				trial.Series[i].Times = nil
				trial.Series[i].Values = nil
				found = true
			}
		}
		if !found {
			return nil, fmt.Errorf("configuration has no series %q", paramID)
		}
		return trial.Build()
	}

	points, err := analysis.ParameterSweep(build, sweepMin, sweepMax, sweepSteps, variable, sweepSettle)
	if err != nil {
		return err
	}

	fmt.Printf("sweep of %s over [%g, %g], recording %s after %g time units\n\n",
		paramID, sweepMin, sweepMax, variable, sweepSettle)
	fmt.Println(analysis.SweepToASCII(points, 70, 20))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(paramID), strings.ToUpper(variable))
	for _, p := range points {
		fmt.Fprintf(w, "%.6g\t%.6g\n", p.Param, p.Value)
	}
	return w.Flush()
}
