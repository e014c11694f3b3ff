package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/fmusim/internal/config"
	"github.com/san-kum/fmusim/internal/fmi"
	"github.com/san-kum/fmusim/internal/fmu"
	"github.com/san-kum/fmusim/internal/live"
	"github.com/san-kum/fmusim/internal/output"
	"github.com/san-kum/fmusim/internal/report"
	"github.com/san-kum/fmusim/internal/sim"
	"github.com/san-kum/fmusim/internal/storage"
)

var (
	dataDir      string
	configFile   string
	stopTime     float64
	stepSize     float64
	loggingOn    bool
	separator    string
	outputTarget string
	saveRun      bool
	liveView     bool
)

func main() {
	logrus.SetOutput(os.Stderr)

	rootCmd := &cobra.Command{
		Use:   "fmusim",
		Short: "fixed-step FMI 1.0 model-exchange simulator",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".fmusim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [model.fmu]",
		Short: "simulate an FMU",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	runCmd.Flags().Float64Var(&stopTime, "stop", config.DefaultStopTime, "end time of simulation")
	runCmd.Flags().Float64Var(&stepSize, "step", config.DefaultStepSize, "fixed step size")
	runCmd.Flags().BoolVar(&loggingOn, "logging", false, "activate model and step logging")
	runCmd.Flags().StringVar(&separator, "separator", config.DefaultSeparator, "result column separator")
	runCmd.Flags().StringVar(&outputTarget, "output", config.DefaultOutput, `result target: "-" for stdout, a path for a file, empty for none`)
	runCmd.Flags().StringVar(&configFile, "config", "", "run config file (yaml)")
	runCmd.Flags().BoolVar(&saveRun, "save", false, "archive the run under the data directory")
	runCmd.Flags().BoolVar(&liveView, "live", false, "show a live terminal view of the run")

	describeCmd := &cobra.Command{
		Use:   "describe [model.fmu]",
		Short: "print the model description without simulating",
		Args:  cobra.ExactArgs(1),
		RunE:  describeFMU,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list archived runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot an archived run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	rootCmd.AddCommand(runCmd, describeCmd, listCmd, plotCmd, exportCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	cfg.FMU = args[0]
	// CLI flags override config values only when explicitly set
	if cmd.Flags().Changed("stop") {
		cfg.StopTime = stopTime
	}
	if cmd.Flags().Changed("step") {
		cfg.StepSize = stepSize
	}
	if cmd.Flags().Changed("logging") {
		cfg.Logging = loggingOn
	}
	if cmd.Flags().Changed("separator") {
		cfg.Separator = separator
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = outputTarget
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Logging {
		logrus.SetLevel(logrus.DebugLevel)
	}

	unit, err := fmu.Load(cfg.FMU, cfg.Logging)
	if err != nil {
		return err
	}
	defer unit.Close()
	desc := unit.Description

	logrus.Infof("run '%s' from t=0..%g with step size h=%g, separator='%s'",
		cfg.FMU, cfg.StopTime, cfg.StepSize, cfg.Separator)

	reals := desc.RealVariables()
	names := make([]string, len(reals))
	refs := make([]fmi.ValueReference, len(reals))
	for i, v := range reals {
		names[i] = v.Name
		refs[i] = v.ValueReference
	}

	var writers []sim.RowWriter
	var closers []io.Closer

	switch cfg.Output {
	case "":
		logrus.Info("no result output will be produced")
	case "-":
		writers = append(writers, output.NewCSV(os.Stdout, cfg.SeparatorRune()))
	default:
		f, err := os.Create(cfg.Output)
		if err != nil {
			return fmt.Errorf("could not write %s: %w", cfg.Output, err)
		}
		closers = append(closers, f)
		writers = append(writers, output.NewCSV(f, cfg.SeparatorRune()))
	}

	var st *storage.Store
	var runID string
	if saveRun {
		st = storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID = st.NewRunID(desc.ModelIdentifier)
		f, err := st.CreateResult(runID)
		if err != nil {
			return err
		}
		closers = append(closers, f)
		writers = append(writers, output.NewCSV(f, cfg.SeparatorRune()))
	}

	var viewer *live.Viewer
	if liveView {
		viewer = live.New(filepath.Base(cfg.FMU), names)
		writers = append(writers, viewer)
	}

	simulator := sim.New(unit.Model, desc.StateCount, desc.EventIndicatorCount)
	if len(writers) > 0 {
		simulator.SetOutputs(&sim.Outputs{
			Writer: sim.MultiRow(writers...),
			Names:  names,
			Refs:   refs,
		})
	}

	runCfg := sim.Config{
		EndTime:  cfg.StopTime,
		StepSize: cfg.StepSize,
		Logging:  cfg.Logging,
	}

	var stats *sim.Stats
	var runErr error
	if viewer != nil {
		done := make(chan struct{})
		go func() {
			defer close(done)
			stats, runErr = simulator.Run(runCfg)
			summary := report.Summary{StopTime: cfg.StopTime, StepSize: cfg.StepSize, Stats: *stats}
			viewer.Finish(summary.String())
		}()
		if err := viewer.Run(); err != nil {
			return err
		}
		<-done
	} else {
		stats, runErr = simulator.Run(runCfg)
	}

	for _, c := range closers {
		c.Close()
	}
	if runErr != nil {
		return runErr
	}

	if saveRun {
		meta := storage.RunMetadata{
			ID:              runID,
			FMU:             cfg.FMU,
			ModelName:       desc.ModelName,
			ModelIdentifier: desc.ModelIdentifier,
			GUID:            desc.GUID,
			Timestamp:       time.Now(),
			StopTime:        cfg.StopTime,
			StepSize:        cfg.StepSize,
			Separator:       cfg.Separator,
			Steps:           stats.Steps,
			TimeEvents:      stats.TimeEvents,
			StateEvents:     stats.StateEvents,
			StepEvents:      stats.StepEvents,
			ElapsedSeconds:  stats.Elapsed.Seconds(),
		}
		if err := st.SaveMetadata(meta); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "run id: %s\n", runID)
	}

	summary := report.Summary{StopTime: cfg.StopTime, StepSize: cfg.StepSize, Stats: *stats}
	fmt.Fprint(os.Stderr, summary.Render())
	if cfg.Output != "" && cfg.Output != "-" {
		fmt.Fprintf(os.Stderr, "result file '%s' written\n", cfg.Output)
	}
	return nil
}

func describeFMU(cmd *cobra.Command, args []string) error {
	desc, err := fmu.Describe(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("model name:       %s\n", desc.ModelName)
	fmt.Printf("model identifier: %s\n", desc.ModelIdentifier)
	fmt.Printf("guid:             %s\n", desc.GUID)
	fmt.Printf("fmi version:      %s\n", desc.FMIVersion)
	fmt.Printf("states:           %d\n", desc.StateCount)
	fmt.Printf("event indicators: %d\n", desc.EventIndicatorCount)
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tVALUE REF\tTYPE")
	for _, v := range desc.Variables {
		fmt.Fprintf(w, "%s\t%d\t%s\n", v.Name, v.ValueReference, v.Kind)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tSTOP\tSTEP\tSTEPS\tEVENTS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%g\t%d\t%d\n",
			run.ID,
			run.ModelIdentifier,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.StopTime,
			run.StepSize,
			run.Steps,
			run.TimeEvents+run.StateEvents+run.StepEvents,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	sep := ';'
	if meta.Separator != "" {
		sep = []rune(meta.Separator)[0]
	}

	names, times, series, err := st.LoadResult(runID, sep)
	if err != nil {
		return err
	}
	if len(times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s\n", meta.ModelIdentifier)
	fmt.Printf("samples: %d\n\n", len(times))

	maxPlots := 6
	if len(series) < maxPlots {
		maxPlots = len(series)
	}
	for i := 0; i < maxPlots; i++ {
		graph := asciigraph.Plot(series[i],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(names[i]+" vs time"),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}
