package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/webtension/internal/automation"
	"github.com/san-kum/webtension/internal/config"
	"github.com/san-kum/webtension/internal/experiment"
	"github.com/san-kum/webtension/internal/export"
	"github.com/san-kum/webtension/internal/metrics"
	"github.com/san-kum/webtension/internal/optim"
	"github.com/san-kum/webtension/internal/storage"
	"github.com/san-kum/webtension/internal/tension"
	"github.com/san-kum/webtension/internal/viz"
)

var (
	dataDir string
	verbose bool

	material   string
	layout     string
	lineLength float64
	thickness  float64
	width      float64
	workers    int
	runName    string

	configFile string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	gridParams []string
	metricName string

	zoneFilter []string
	plotStrain bool
	csvStrain  bool
	jsonOut    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "webtension",
		Short:        "roll-to-roll web tension and strain simulator",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".webtension", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log progress to stderr")

	runCmd := &cobra.Command{
		Use:   "run [config.yaml]",
		Short: "simulate a line and store the run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&material, "material", "", "material preset")
	runCmd.Flags().StringVar(&layout, "layout", "", "line layout preset")
	runCmd.Flags().Float64Var(&lineLength, "length", config.DefaultLineLength, "line length (m)")
	runCmd.Flags().Float64Var(&thickness, "thickness", config.DefaultThicknessUm, "web thickness (um)")
	runCmd.Flags().Float64Var(&width, "width", config.DefaultWidthM, "web width (m)")
	runCmd.Flags().IntVar(&workers, "workers", 0, "zone workers (0 = one per CPU)")
	runCmd.Flags().StringVar(&runName, "name", "", "run name")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot zone tension or strain in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&zoneFilter, "zone", nil, "zone ids to plot (default all)")
	plotCmd.Flags().BoolVar(&plotStrain, "strain", false, "plot strain instead of tension")

	tableCmd := &cobra.Command{
		Use:   "table [run_id]",
		Short: "show the section summary",
		Args:  cobra.ExactArgs(1),
		RunE:  showTable,
	}

	csvCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a series as csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	csvCmd.Flags().BoolVar(&csvStrain, "strain", false, "export strain instead of tension")

	jsonCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	jsonCmd.Flags().StringVarP(&jsonOut, "out", "o", "", "write to file instead of stdout")

	chartCmd := &cobra.Command{
		Use:   "chart [run_id] [output]",
		Short: "render a chart image (png, svg, pdf)",
		Args:  cobra.ExactArgs(2),
		RunE:  chartRun,
	}
	chartCmd.Flags().StringSliceVar(&zoneFilter, "zone", nil, "zone ids to chart (default all)")
	chartCmd.Flags().BoolVar(&plotStrain, "strain", false, "chart strain instead of tension")

	viewCmd := &cobra.Command{
		Use:   "view [run_id]",
		Short: "scrub through a run interactively",
		Args:  cobra.ExactArgs(1),
		RunE:  viewRun,
	}

	materialsCmd := &cobra.Command{
		Use:   "materials",
		Short: "list material presets",
		RunE:  listMaterials,
	}

	profilesCmd := &cobra.Command{
		Use:   "profiles",
		Short: "list integrators and line speed profiles",
		RunE:  listProfiles,
	}

	layoutsCmd := &cobra.Command{
		Use:   "layouts",
		Short: "list line layouts",
		RunE:  listLayouts,
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the default config",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}

	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "run every step of a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [param]",
		Short: "sweep one config parameter over a range",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&configFile, "config", "", "base config file (yaml)")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")

	optimizeCmd := &cobra.Command{
		Use:   "optimize",
		Short: "grid search for the lowest summary metric",
		RunE:  runOptimize,
	}
	optimizeCmd.Flags().StringVar(&configFile, "config", "", "base config file (yaml)")
	optimizeCmd.Flags().StringArrayVar(&gridParams, "param", nil, "grid axis as name=v1,v2,... (repeatable)")
	optimizeCmd.Flags().StringVar(&metricName, "metric", "max_final_strain", "summary metric to minimize")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, tableCmd, csvCmd, jsonCmd,
		chartCmd, viewCmd, materialsCmd, layoutsCmd, profilesCmd, initCmd,
		batchCmd, sweepCmd, optimizeCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func logger() *log.Logger {
	if !verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(os.Stderr, "webtension: ", log.LstdFlags)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if len(args) == 1 {
		loaded, err := config.Load(args[0])
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("material") {
		cfg.Material.Preset = material
	}
	if flags.Changed("layout") {
		cfg.Line.Layout = layout
		cfg.Line.Stations = nil
	}
	if flags.Changed("length") {
		cfg.Line.LengthM = lineLength
	}
	if flags.Changed("thickness") {
		cfg.Material.ThicknessUm = config.Float(thickness)
	}
	if flags.Changed("width") {
		cfg.Material.WidthM = config.Float(width)
	}
	if flags.Changed("workers") {
		cfg.Sim.Workers = workers
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.New(cfg, experiment.Options{
		Logger: logger(),
		Store:  st,
		Name:   runName,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", out.RunID)
	fmt.Printf("material: %s (EA=%.4g N)\n", out.Material.Label, out.Material.Stiffness)
	fmt.Printf("zones: %d, samples: %d, took %v\n\n", len(out.Reports), out.Result.Samples(), out.Elapsed)
	fmt.Println(viz.RenderSections(out.Reports))

	if n := len(metrics.Dangerous(out.Reports)); n > 0 {
		fmt.Println(viz.Danger.Render(fmt.Sprintf("%d section(s) exceed max strain", n)))
	}
	return nil
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
	fmt.Fprintln(w, "ID\tMATERIAL\tTIME\tZONES\tLENGTH\tEA\tDANGER")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2fm\t%.4g\t%.0f\n",
			run.ID,
			run.Material,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			len(run.Zones),
			run.LineLength,
			run.Stiffness,
			run.Metrics["dangerous_sections"],
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, *tension.Result, error) {
	return storage.New(dataDir).LoadResult(runID)
}

func selectZones(series *tension.SeriesMap) ([]string, error) {
	if len(zoneFilter) == 0 {
		return series.Keys(), nil
	}
	for _, id := range zoneFilter {
		if _, ok := series.Get(id); !ok {
			return nil, fmt.Errorf("unknown zone %q (available: %s)", id, strings.Join(series.Keys(), ", "))
		}
	}
	return zoneFilter, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if result.Tension.Len() == 0 {
		return fmt.Errorf("no zones to plot")
	}

	series, unit := result.Tension, "tension (N)"
	if plotStrain {
		series, unit = result.Strain, "strain"
	}
	ids, err := selectZones(series)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("material: %s\n", meta.Material)
	fmt.Printf("samples: %d\n\n", result.Samples())

	for _, id := range ids {
		data, _ := series.Get(id)
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s %s vs time", id, unit)),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func showTable(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	fmt.Println(viz.RunHeader(meta.ID, meta.Material))
	fmt.Println(viz.RenderSections(metrics.Evaluate(result, meta.MaxStrain)))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	if csvStrain {
		err = storage.WriteSeriesCSV(w, result.Time, result.Strain, 'g', -1)
	} else {
		err = storage.WriteSeriesCSV(w, result.Time, result.Tension, 'f', 2)
	}
	if err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	doc := export.NewDocument(meta.ID, meta.Material, result, meta.MaxStrain)
	if jsonOut == "" {
		return export.ExportJSONStdout(doc)
	}
	if err := export.ExportJSON(jsonOut, doc); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", jsonOut)
	return nil
}

func chartRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	q := export.Tension
	series := result.Tension
	if plotStrain {
		q, series = export.Strain, result.Strain
	}
	ids, err := selectZones(series)
	if err != nil {
		return err
	}

	chart := export.NewChart(fmt.Sprintf("%s: %s", meta.ID, q), q)
	chart.Zones = ids
	chart.MaxStrain = meta.MaxStrain
	if err := chart.Save(args[1], result); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[1])
	return nil
}

func viewRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewViewer(meta.ID, result, meta.MaxStrain), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func listMaterials(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tLABEL\tE (Pa)\tEA (N)\tBASE\tSTEP\tMAX")
	for _, name := range config.ListMaterials() {
		m := config.GetMaterial(name)
		fmt.Fprintf(w, "%s\t%s\t%.3g\t%.4g\t%.2e\t%.2e\t%.2e\n",
			name, m.Label, m.E,
			m.Stiffness(config.DefaultThicknessUm, config.DefaultWidthM),
			m.BaseStrain, m.StrainStep, m.MaxStrain)
	}
	return w.Flush()
}

func listLayouts(cmd *cobra.Command, args []string) error {
	for _, name := range config.ListLayouts() {
		stations := config.GetLayout(name)
		parts := make([]string, len(stations))
		for i, s := range stations {
			parts[i] = s.String()
		}
		fmt.Printf("%s (%d stations)\n  %s\n", name, len(stations), strings.Join(parts, " → "))
	}
	return nil
}

func listProfiles(cmd *cobra.Command, args []string) error {
	reg := experiment.NewRegistry()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tNAME\tDEFAULT")
	for _, name := range reg.ListIntegrators() {
		fmt.Fprintf(w, "integrator\t%s\t%v\n", name, name == experiment.DefaultIntegrator)
	}
	for _, name := range reg.ListSpeeds() {
		fmt.Fprintf(w, "speed\t%s\t%v\n", name, name == experiment.DefaultSpeed)
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := config.Save(path, config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func baseConfig() (*config.Config, error) {
	if configFile == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunScenario(ctx, sc, automation.Options{Logger: logger(), Store: st})

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tRUN\tMATERIAL\tZONES\tMAX TENSION\tDANGER")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2f\t%d\n",
			r.Name,
			r.Outcome.RunID,
			r.Outcome.Material.Label,
			len(r.Outcome.Reports),
			r.Outcome.Summary["max_final_tension"],
			len(metrics.Dangerous(r.Outcome.Reports)),
		)
	}
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, err := baseConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Base:  base,
		Param: args[0],
		Min:   sweepMin,
		Max:   sweepMax,
		Steps: sweepSteps,
	}, automation.Options{Logger: logger()})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tMAX TENSION\tMAX STRAIN %%\tSETTLE\tDANGER\n", strings.ToUpper(args[0]))
	for _, r := range results {
		settle := fmt.Sprintf("%.2fs", r.MaxSettleTime)
		if r.Unsettled > 0 {
			settle = fmt.Sprintf("never (%d)", r.Unsettled)
		}
		fmt.Fprintf(w, "%.4g\t%.2f\t%.3f\t%s\t%d\n",
			r.Value, r.MaxFinalTension, r.MaxFinalStrain*100, settle, r.Dangerous)
	}
	return w.Flush()
}

func parseGrid(axes []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(axes))
	ranges := make([][]float64, 0, len(axes))
	for _, axis := range axes {
		name, list, ok := strings.Cut(axis, "=")
		if !ok || name == "" {
			return nil, nil, fmt.Errorf("invalid --param %q: want name=v1,v2", axis)
		}
		var values []float64
		for _, field := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("invalid --param %q: %w", axis, err)
			}
			values = append(values, v)
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func runOptimize(cmd *cobra.Command, args []string) error {
	if len(gridParams) == 0 {
		return fmt.Errorf("at least one --param is required (available: %s)", strings.Join(config.ListParams(), ", "))
	}
	base, err := baseConfig()
	if err != nil {
		return err
	}
	names, ranges, err := parseGrid(gridParams)
	if err != nil {
		return err
	}
	g, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	best, all, err := g.Search(ctx, base, metricName)
	if err != nil {
		return err
	}

	fmt.Printf("evaluated %d cells\n", len(all))
	fmt.Printf("best %s: %.6g\n", metricName, best.Value)
	for _, name := range best.Names() {
		fmt.Printf("  %s = %g\n", name, best.Params[name])
	}
	return nil
}
