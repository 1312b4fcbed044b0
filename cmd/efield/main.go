package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/lmarques/efield/internal/automation"
	"github.com/lmarques/efield/internal/charge"
	"github.com/lmarques/efield/internal/config"
	"github.com/lmarques/efield/internal/export"
	"github.com/lmarques/efield/internal/field"
	"github.com/lmarques/efield/internal/grid"
	"github.com/lmarques/efield/internal/optim"
	"github.com/lmarques/efield/internal/probe"
	"github.com/lmarques/efield/internal/scene"
	"github.com/lmarques/efield/internal/store"
	"github.com/lmarques/efield/internal/tui"
	"github.com/lmarques/efield/internal/vec"
	"github.com/lmarques/efield/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	seed       int64
	guard      float64
	gridHalf   float64
	gridRes    int
	energyHalf float64
	energyRes  int
	lineCount  int
	seedPolicy string
	probeQ     float64
	asCSV      bool
)

// main registers commands and executes the root command. Without a
// subcommand it launches the interactive slice view.
func main() {
	rootCmd := &cobra.Command{
		Use:   "efield",
		Short: "electrostatic field and field-line lab",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return tui.Run(cfg)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".efield", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "compute the field, lines and energy for the configured charges",
		RunE:  runScene,
	}
	runCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	runCmd.Flags().Float64Var(&guard, "guard", 0, "singularity guard radius")
	runCmd.Flags().Float64Var(&gridHalf, "grid-half", 0, "sampling cube half extent")
	runCmd.Flags().IntVar(&gridRes, "grid-res", 0, "sampling points per axis")
	runCmd.Flags().Float64Var(&energyHalf, "energy-half", 0, "energy cube half extent")
	runCmd.Flags().IntVar(&energyRes, "energy-res", 0, "energy points per axis")
	runCmd.Flags().IntVar(&lineCount, "lines", 0, "field line count (uniform seeding)")
	runCmd.Flags().StringVar(&seedPolicy, "seeds", "", "seed policy: sphere or uniform")

	fieldCmd := &cobra.Command{
		Use:   "field [x] [y] [z]",
		Short: "evaluate field and potential at a point",
		Args:  cobra.ExactArgs(3),
		RunE:  evalField,
	}

	linesCmd := &cobra.Command{
		Use:   "lines",
		Short: "trace field lines and summarize each",
		RunE:  traceLines,
	}
	linesCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	linesCmd.Flags().IntVar(&lineCount, "lines", 0, "field line count (uniform seeding)")
	linesCmd.Flags().StringVar(&seedPolicy, "seeds", "", "seed policy: sphere or uniform")

	gridCmd := &cobra.Command{
		Use:   "grid",
		Short: "emit the sampled field grid as CSV",
		RunE:  sampleGrid,
	}
	gridCmd.Flags().Float64Var(&gridHalf, "grid-half", 0, "sampling cube half extent")
	gridCmd.Flags().IntVar(&gridRes, "grid-res", 0, "sampling points per axis")

	probeCmd := &cobra.Command{
		Use:   "probe [x] [y] [z]",
		Short: "per-source forces on a test charge at a point",
		Args:  cobra.ExactArgs(3),
		RunE:  probePoint,
	}
	probeCmd.Flags().Float64Var(&probeQ, "q", 1.0, "test charge in microcoulombs")
	probeCmd.Flags().BoolVar(&asCSV, "csv", false, "emit the force table as CSV")

	energyCmd := &cobra.Command{
		Use:   "energy",
		Short: "field energy at increasing grid resolutions",
		RunE:  energySweep,
	}
	energyCmd.Flags().Float64Var(&energyHalf, "half", 0, "cube half extent")

	sliceCmd := &cobra.Command{
		Use:   "slice",
		Short: "print the z=0 field slice",
		RunE:  printSlice,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run's sample magnitudes",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "field and potential along the x axis",
		RunE:  plotProfile,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json",
		Short: "compute the configured scene and emit the full result as JSON",
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a default config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "efield.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			cfg := config.DefaultConfig()
			if preset != "" {
				if p := config.GetPreset(preset); p != nil {
					cfg = p
				}
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}

	nullsCmd := &cobra.Command{
		Use:   "nulls",
		Short: "locate field null points (equilibria)",
		RunE:  findNulls,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [path]",
		Short: "compute the configured scene and write field lines as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive slice view",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return tui.Run(cfg)
		},
	}

	rootCmd.AddCommand(runCmd, fieldCmd, linesCmd, gridCmd, probeCmd, energyCmd, sliceCmd,
		listCmd, plotCmd, profileCmd, exportCmd, exportCSVCmd, exportJSONCmd,
		exportSVGCmd, nullsCmd, scenarioCmd, presetsCmd, initCmd, tuiCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves preset, then config file, then flag overrides.
// CLI flags win over the file, the file wins over the preset.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("guard") {
		cfg.GuardRadius = guard
	}
	if cmd.Flags().Changed("grid-half") {
		cfg.GridHalf = gridHalf
	}
	if cmd.Flags().Changed("grid-res") {
		cfg.GridRes = gridRes
	}
	if cmd.Flags().Changed("energy-half") || cmd.Flags().Changed("half") {
		cfg.EnergyHalf = energyHalf
	}
	if cmd.Flags().Changed("energy-res") {
		cfg.EnergyRes = energyRes
	}
	if cmd.Flags().Changed("lines") {
		cfg.LineCount = lineCount
	}
	if cmd.Flags().Changed("seeds") {
		cfg.SeedPolicy = seedPolicy
	}

	return cfg, nil
}

func parsePoint(args []string) (vec.Vec3, error) {
	var p vec.Vec3
	coords := []*float64{&p.X, &p.Y, &p.Z}
	for i, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return p, fmt.Errorf("bad coordinate %q: %w", arg, err)
		}
		*coords[i] = v
	}
	return p, nil
}

// evaluator builds the field evaluator for the configured charge set.
func evaluator(cfg *config.Config) (*field.Evaluator, *charge.Registry) {
	s := cfg.Scene()
	reg := charge.NewRegistry(s.Charges, s.Params.PositionBound)
	ev := field.NewEvaluator(reg)
	ev.GuardRadius = s.Params.GuardRadius
	ev.K = s.Params.K
	return ev, reg
}

func runScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Seed == 0 {
		cfg.Seed = seed
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	s := cfg.Scene()
	fmt.Printf("computing field for %d charges...\n", len(s.Charges))
	start := time.Now()

	res := scene.Compute(context.Background(), s)
	elapsed := time.Since(start)

	runID, err := st.Save(cfg.Seed, s.Params.GuardRadius, len(s.Charges), res)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("samples: %d\n", len(res.Samples))
	fmt.Printf("lines: %d (%d skipped)\n", len(res.Lines), res.Skipped)
	fmt.Printf("total charge: %.3e C\n", res.TotalCharge)
	fmt.Printf("field energy: %.6e J\n", res.Energy)
	return nil
}

func evalField(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	p, err := parsePoint(args)
	if err != nil {
		return err
	}

	ev, reg := evaluator(cfg)
	e := ev.At(p)
	v := ev.PotentialAt(p)

	fmt.Printf("point (%.3f, %.3f, %.3f)\n", p.X, p.Y, p.Z)
	fmt.Printf("E = (%.4e, %.4e, %.4e) N/C  |E| = %.4e\n", e.X, e.Y, e.Z, e.Norm())
	fmt.Printf("V = %.4e V\n\n", v)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SOURCE\tQ (µC)\tEX\tEY\tEZ\t|E|")
	for i, c := range ev.Contributions(p) {
		q := reg.Charges()[i].Q * 1e6
		fmt.Fprintf(w, "%s\t%+.2f\t%.3e\t%.3e\t%.3e\t%.3e\n",
			charge.Label(i), q, c.X, c.Y, c.Z, c.Norm())
	}
	return w.Flush()
}

func traceLines(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Seed == 0 {
		cfg.Seed = seed
	}

	s := cfg.Scene()
	res := scene.Compute(context.Background(), s)

	fmt.Printf("traced %d lines (%d skipped), seed %d\n\n", len(res.Lines), res.Skipped, cfg.Seed)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LINE\tPOINTS\tSTART\tEND")
	for i, line := range res.Lines {
		if len(line) == 0 {
			continue
		}
		a, b := line[0], line[len(line)-1]
		fmt.Fprintf(w, "%d\t%d\t(%.2f, %.2f, %.2f)\t(%.2f, %.2f, %.2f)\n",
			i+1, len(line), a.X, a.Y, a.Z, b.X, b.Y, b.Z)
	}
	return w.Flush()
}

func sampleGrid(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	res := scene.Compute(context.Background(), cfg.Scene())
	return store.WriteSamplesCSV(os.Stdout, res.Samples)
}

func probePoint(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	p, err := parsePoint(args)
	if err != nil {
		return err
	}

	ev, reg := evaluator(cfg)
	rep := probe.Analyze(ev, reg, probe.Probe{Q: probeQ * 1e-6, Pos: p})

	if asCSV {
		return store.WriteForcesCSV(os.Stdout, rep)
	}

	fmt.Printf("probe %+.2f µC at (%.3f, %.3f, %.3f)\n", probeQ, p.X, p.Y, p.Z)
	fmt.Printf("|E| = %.4e N/C  V = %.4e V\n\n", rep.FieldMag, rep.Potential)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SOURCE\tFX (nN)\tFY (nN)\tFZ (nN)\t|F| (nN)")
	for _, f := range rep.Forces {
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%.4f\n",
			f.Source, f.F.X*1e9, f.F.Y*1e9, f.F.Z*1e9, f.Mag*1e9)
	}
	fmt.Fprintf(w, "resultant\t%.4f\t%.4f\t%.4f\t%.4f\n",
		rep.Resultant.X*1e9, rep.Resultant.Y*1e9, rep.Resultant.Z*1e9, rep.Mag*1e9)
	if err := w.Flush(); err != nil {
		return err
	}

	if rep.Equilibrium {
		fmt.Println("\nprobe is at equilibrium")
	} else {
		fmt.Printf("\ndirection: θ=%.1f° φ=%.1f°\n", rep.Theta, rep.Phi)
	}
	return nil
}

func energySweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s := cfg.Scene()

	resolutions := []int{8, 12, 16, 24, 32}

	fmt.Printf("field energy, cube half extent %.2f\n\n", s.Params.EnergyHalf)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RES\tCELLS\tENERGY (J)\tTIME")

	for _, n := range resolutions {
		s.Params.EnergyRes = n
		start := time.Now()
		res := scene.Compute(context.Background(), scene.Scene{
			Charges: s.Charges,
			Params:  withoutLines(s.Params),
		})
		elapsed := time.Since(start)
		fmt.Fprintf(w, "%d\t%d\t%.6e\t%v\n", n, n*n*n, res.Energy, elapsed)
	}
	return w.Flush()
}

// withoutLines disables tracing and grid sampling so the sweep measures
// only the energy integral.
func withoutLines(p scene.Params) scene.Params {
	p.LineCount = 0
	p.SeedsPerCharge = 0
	p.GridRes = 0
	return p
}

func printSlice(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ev, reg := evaluator(cfg)
	cells := viz.Slice(ev, reg, cfg.GridHalf, 25, 73)
	fmt.Print(viz.Render(cells))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tCHARGES\tTOTAL (C)\tENERGY (J)\tLINES\tSKIPPED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2e\t%.4e\t%d\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Charges,
			run.TotalCharge,
			run.Energy,
			run.Lines,
			run.Skipped,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(samples))

	mags := make([]float64, len(samples))
	for i, s := range samples {
		mags[i] = s.Mag
	}

	graph := asciigraph.Plot(mags,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("|E| per sample (grid order)"),
	)
	fmt.Println(graph)
	return nil
}

func plotProfile(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ev, _ := evaluator(cfg)

	half := cfg.GridHalf
	a := vec.Vec3{X: -half, Y: 0.05}
	b := vec.Vec3{X: half, Y: 0.05}

	fmt.Println(viz.Plot(viz.FieldProfile(ev, a, b, 80), "|E| along x (y=0.05)"))
	fmt.Println()
	fmt.Println(viz.Plot(viz.PotentialProfile(ev, a, b, 80), "V along x (y=0.05)"))
	return nil
}

func findNulls(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ev, _ := evaluator(cfg)

	cube := grid.Cube{Half: cfg.GridHalf, Res: 21}
	nulls := optim.FindNulls(context.Background(), ev, cube, optim.DefaultSearch())

	if len(nulls) == 0 {
		fmt.Println("no null points found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "X\tY\tZ\t|E| (N/C)")
	for _, n := range nulls {
		fmt.Fprintf(w, "%.4f\t%.4f\t%.4f\t%.3e\n", n.Pos.X, n.Pos.Y, n.Pos.Z, n.Mag)
	}
	return w.Flush()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Seed == 0 {
		cfg.Seed = seed
	}

	s := cfg.Scene()
	res := scene.Compute(context.Background(), s)

	svg := export.LinesToSVG(res.Lines, s.Charges, s.Params.GridHalf, 800, 800)

	path := "efield.svg"
	if len(args) > 0 {
		path = args[0]
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d lines)\n", path, len(res.Lines))
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("scenario: %s\n", scenario.Name)
	if scenario.Description != "" {
		fmt.Println(scenario.Description)
	}

	results, err := automation.RunScenario(context.Background(), scenario, st)
	for _, r := range results {
		fmt.Printf("%s: run %s, energy %.4e J, %d lines\n",
			r.Label, r.RunID, r.Result.Energy, len(r.Result.Lines))
	}
	return err
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	return store.WriteSamplesCSV(os.Stdout, samples)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Seed == 0 {
		cfg.Seed = seed
	}

	res := scene.Compute(context.Background(), cfg.Scene())
	return store.WriteResultJSON(os.Stdout, res)
}
