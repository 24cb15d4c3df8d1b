// Command paretomdp is a thin CLI wiring config -> environment -> solver ->
// telemetry: it loads an ExplorationSettings from a YAML file (config),
// builds an mdpapi.EnvironmentAPI from either an explicit transition/reward
// file pair (mdpfile) or the seatreasure benchmark, runs BRTDP and CHVI
// Repeat times each, and writes the aggregate CSV row plus the final
// repeat's BRTDP and CHVI lower-bound-vertex text files (telemetry). Built on
// github.com/spf13/cobra (pack-grounded: MeKo-Christian-pogo,
// baranylcn-dit, ehrlich-b-wingthing, longregen-alicia, sawpanic-cryptorun,
// ajroetker-go-highway, janpfeifer-go-highway, viamrobotics-rdk all vendor
// cobra) with a github.com/google/uuid run identifier tagging each
// invocation's output files (pack-grounded, see SPEC_FULL.md §4.11).
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/go-pareto/chvi/benchmarks/seatreasure"
	"github.com/go-pareto/chvi/config"
	"github.com/go-pareto/chvi/envwrap"
	"github.com/go-pareto/chvi/mdpapi"
	"github.com/go-pareto/chvi/mdpfile"
	"github.com/go-pareto/chvi/solver"
	"github.com/go-pareto/chvi/telemetry"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type solveFlags struct {
	configPath   string
	benchmark    string
	mapPath      string
	mdpFile      string
	rewardFiles  []string
	initialState string
	trace        bool
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "paretomdp",
		Short: "Compute Pareto-optimal value bounds for multi-objective MDPs",
	}
	root.AddCommand(newSolveCmd())
	return root
}

func newSolveCmd() *cobra.Command {
	flags := &solveFlags{}
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Run BRTDP and CHVI against a benchmark or explicit MDP file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(flags)
		},
	}

	cmd.Flags().StringVar(&flags.configPath, "config", "", "path to a YAML settings file")
	cmd.Flags().StringVar(&flags.benchmark, "benchmark", "", `benchmark name ("seatreasure") — mutually exclusive with --mdp-file`)
	cmd.Flags().StringVar(&flags.mapPath, "map", "", "map file for --benchmark=seatreasure")
	cmd.Flags().StringVar(&flags.mdpFile, "mdp-file", "", "transition triplet file for an explicit MDP")
	cmd.Flags().StringSliceVar(&flags.rewardFiles, "reward-file", nil, "reward triplet file, one per objective (repeatable)")
	cmd.Flags().StringVar(&flags.initialState, "initial-state", "", "designated initial state for --mdp-file")
	cmd.Flags().BoolVar(&flags.trace, "trace", false, "override the config file's trace flag")

	return cmd
}

func runSolve(flags *solveFlags) error {
	settings, err := config.Load(flags.configPath)
	if err != nil {
		return fmt.Errorf("paretomdp: %w", err)
	}
	if flags.trace {
		settings.Trace = true
	}

	env, name, err := buildEnvironment(flags)
	if err != nil {
		return fmt.Errorf("paretomdp: %w", err)
	}

	var tel *telemetry.Collector
	if settings.Trace {
		tel = telemetry.New(os.Stdout)
	} else {
		tel = telemetry.Discard()
	}

	repeat := settings.Repeat
	if repeat <= 0 {
		repeat = 1
	}
	stats := telemetry.RunStats{Benchmark: name, RewardDim: len(settings.Discount)}

	var lastBRTDP, lastCHVI solver.Result
	for i := 0; i < repeat; i++ {
		brtdpEnv := envwrap.New(env, settings)
		started := time.Now()
		res, err := solver.NewBRTDPSolver(brtdpEnv, settings, tel).Solve(env.CurrentState())
		if err != nil {
			return fmt.Errorf("paretomdp: brtdp run %d: %w", i, err)
		}
		stats.BRTDPTimes = append(stats.BRTDPTimes, time.Since(started).Seconds())
		stats.BRTDPUpdates = append(stats.BRTDPUpdates, float64(res.Updates))
		lastBRTDP = res

		chviEnv := envwrap.New(env, settings)
		started = time.Now()
		res, err = solver.NewCHVISolver(chviEnv, settings, tel).Solve(env.CurrentState())
		if err != nil {
			return fmt.Errorf("paretomdp: chvi run %d: %w", i, err)
		}
		stats.CHVITimes = append(stats.CHVITimes, time.Since(started).Seconds())
		stats.CHVIUpdates = append(stats.CHVIUpdates, float64(res.Updates))
		lastCHVI = res
	}

	runID := uuid.New().String()
	outputFile := settings.OutputFile
	if outputFile == "" {
		outputFile = "results.csv"
	}

	f, err := os.OpenFile(outputFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("paretomdp: opening %s: %w", outputFile, err)
	}
	defer f.Close()
	if err := telemetry.WriteResultsCSV(f, stats); err != nil {
		return fmt.Errorf("paretomdp: writing results row: %w", err)
	}

	base := strings.TrimSuffix(outputFile, ".csv")
	if err := telemetry.WriteLowerBoundVertices(fmt.Sprintf("%s-%s-brtdp.txt", base, runID), lastBRTDP.InitialBound.Lower.Vertices); err != nil {
		return fmt.Errorf("paretomdp: writing brtdp lower bound: %w", err)
	}
	if err := telemetry.WriteLowerBoundVertices(fmt.Sprintf("%s-%s-chvi.txt", base, runID), lastCHVI.InitialBound.Lower.Vertices); err != nil {
		return fmt.Errorf("paretomdp: writing chvi lower bound: %w", err)
	}

	if !lastBRTDP.Converged {
		fmt.Fprintf(os.Stderr, "paretomdp: warning: brtdp: %v\n", mdpapi.ErrNonconvergence)
	}
	if !lastCHVI.Converged {
		fmt.Fprintf(os.Stderr, "paretomdp: warning: chvi: %v\n", mdpapi.ErrNonconvergence)
	}

	fmt.Printf("run %s: %d repeat(s) against %q written to %s\n", runID, repeat, name, outputFile)
	return nil
}

func buildEnvironment(flags *solveFlags) (mdpapi.EnvironmentAPI, string, error) {
	switch {
	case flags.benchmark == "seatreasure":
		if flags.mapPath == "" {
			return nil, "", fmt.Errorf("--benchmark=seatreasure requires --map")
		}
		m, err := seatreasure.ParseMap(flags.mapPath)
		if err != nil {
			return nil, "", err
		}
		return seatreasure.New(m), "seatreasure", nil

	case flags.mdpFile != "":
		if flags.initialState == "" {
			return nil, "", fmt.Errorf("--mdp-file requires --initial-state")
		}
		if len(flags.rewardFiles) == 0 {
			return nil, "", fmt.Errorf("--mdp-file requires at least one --reward-file")
		}
		m, err := mdpfile.Build(flags.mdpFile, flags.rewardFiles, flags.initialState)
		if err != nil {
			return nil, "", err
		}
		return m, flags.mdpFile, nil

	default:
		return nil, "", fmt.Errorf("one of --benchmark or --mdp-file is required")
	}
}
