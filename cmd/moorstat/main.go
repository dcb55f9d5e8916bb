package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"moorstat/internal/config"
	"moorstat/internal/export"
	"moorstat/internal/input"
	"moorstat/internal/report"
	"moorstat/internal/solver"
	"moorstat/internal/tui"
	"moorstat/internal/viz"
)

const version = "0.3.1"

var (
	configFile string
	preset     string
	backend    string
	fdJacobian bool
	scaling    float64
	maxIter    int
	outDir     string
	plotFile   string
	showChart  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "moorstat",
		Short: "quasi-static mooring network equilibrium solver",
	}

	solveCmd := &cobra.Command{
		Use:   "solve [model.yaml]",
		Short: "solve a mooring model to static equilibrium",
		Args:  cobra.ExactArgs(1),
		RunE:  runSolve,
	}
	solveCmd.Flags().StringVar(&configFile, "config", "", "solver config file (yaml)")
	solveCmd.Flags().StringVar(&preset, "preset", "", "named solver preset")
	solveCmd.Flags().StringVar(&backend, "backend", "", "linear solve backend (lu|qr)")
	solveCmd.Flags().BoolVar(&fdJacobian, "fd", false, "finite-difference Jacobian")
	solveCmd.Flags().Float64Var(&scaling, "scaling", 0, "node equation scaling factor K")
	solveCmd.Flags().IntVar(&maxIter, "max-iter", 0, "maximum Newton iterations")
	solveCmd.Flags().StringVar(&outDir, "out", "", "write summary.json and tensions.csv here")
	solveCmd.Flags().StringVar(&plotFile, "plot", "", "write a line-profile plot (png/svg/pdf)")
	solveCmd.Flags().BoolVar(&showChart, "chart", false, "print the residual convergence chart")

	checkCmd := &cobra.Command{
		Use:   "check [model.yaml]",
		Short: "validate a mooring model without solving",
		Args:  cobra.ExactArgs(1),
		RunE:  runCheck,
	}

	liveCmd := &cobra.Command{
		Use:   "live [model.yaml]",
		Short: "solve with a live iteration monitor",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "solver config file (yaml)")
	liveCmd.Flags().StringVar(&preset, "preset", "", "named solver preset")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("moorstat %s\n", version)
		},
	}

	rootCmd.AddCommand(solveCmd, checkCmd, liveCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		if cfg = config.GetPreset(preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset %q", preset)
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if backend != "" {
		cfg.Backend = backend
	}
	if fdJacobian {
		cfg.Jacobian = config.JacobianFD
	}
	if scaling > 0 {
		cfg.Scaling = scaling
	}
	if maxIter > 0 {
		cfg.MaxIterations = maxIter
	}
	return cfg, cfg.Validate()
}

func runSolve(cmd *cobra.Command, args []string) error {
	m, err := input.Load(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sess := solver.NewSession()
	if err := sess.Initialize(m, cfg); err != nil {
		return err
	}
	defer sess.Shutdown()

	res, solveErr := sess.Solve()
	st := report.Classify(res.Reason)

	fmt.Println(viz.Summary(res, st))
	if showChart {
		if chart := viz.ResidualChart(sess.History(), 60, 12); chart != "" {
			fmt.Println(chart)
		}
	}

	if solveErr != nil {
		return solveErr
	}

	fmt.Println(viz.TensionTable(m))
	fmt.Println(viz.NodeTable(m))

	if outDir != "" {
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return err
		}
		sum := export.NewSummary(m, res, st)
		if err := sum.WriteJSON(filepath.Join(outDir, "summary.json")); err != nil {
			return err
		}
		if err := export.WriteTensionsCSV(filepath.Join(outDir, "tensions.csv"), m); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", outDir)
	}
	if plotFile != "" {
		if err := export.PlotProfiles(plotFile, m); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", plotFile)
	}
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	m, err := input.Load(args[0])
	if err != nil {
		return err
	}
	if err := m.Validate(); err != nil {
		return err
	}
	fmt.Printf("%s: ok (%d nodes, %d lines, %d unknowns)\n",
		args[0], len(m.Nodes), len(m.Lines), m.NumUnknowns())
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	m, err := input.Load(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sess := solver.NewSession()
	if err := sess.Initialize(m, cfg); err != nil {
		return err
	}
	defer sess.Shutdown()

	res, solveErr := tui.Run(sess)
	if solveErr != nil {
		return solveErr
	}
	if res.Converged() {
		fmt.Println(viz.TensionTable(m))
		fmt.Println(viz.NodeTable(m))
	}
	return nil
}
