package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/xDarkicex/parasat/dimacs"
	"github.com/xDarkicex/parasat/sat"
)

// fileConfig is the subset of sat.Config a user may override from a YAML
// file via --config, read before flag overrides are applied so a flag the
// caller actually typed always wins over a file default.
type fileConfig struct {
	Threads           *int     `yaml:"threads"`
	MemoryLimitMB     *int     `yaml:"mem_mb"`
	TimeLimitSeconds  *int     `yaml:"time_s"`
	TierLBDPermanent  *int     `yaml:"lbd_perm"`
	TierSizePermanent *int     `yaml:"size_perm"`
	TierLBDShared     *int     `yaml:"lbd_share"`
	TierSizeShared    *int     `yaml:"size_share"`
	ReuseThreshold    *int     `yaml:"reuse"`
	VarDecay          *float64 `yaml:"var_decay"`
	GlucoseK          *float64 `yaml:"glucose_k"`
}

// loadConfigFile reads a YAML config file and applies its fields onto cfg,
// leaving anything absent from the file at its current value.
func loadConfigFile(path string, cfg *sat.Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	var fc fileConfig
	if err := yaml.NewDecoder(f).Decode(&fc); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if fc.Threads != nil {
		cfg.Threads = *fc.Threads
	}
	if fc.MemoryLimitMB != nil {
		cfg.MemoryLimitMB = *fc.MemoryLimitMB
	}
	if fc.TimeLimitSeconds != nil {
		cfg.TimeLimit = time.Duration(*fc.TimeLimitSeconds) * time.Second
	}
	if fc.TierLBDPermanent != nil {
		cfg.TierLBDPermanent = *fc.TierLBDPermanent
	}
	if fc.TierSizePermanent != nil {
		cfg.TierSizePermanent = *fc.TierSizePermanent
	}
	if fc.TierLBDShared != nil {
		cfg.TierLBDShared = *fc.TierLBDShared
	}
	if fc.TierSizeShared != nil {
		cfg.TierSizeShared = *fc.TierSizeShared
	}
	if fc.ReuseThreshold != nil {
		cfg.ReuseThreshold = *fc.ReuseThreshold
	}
	if fc.VarDecay != nil {
		cfg.VarDecay = *fc.VarDecay
	}
	if fc.GlucoseK != nil {
		cfg.GlucoseK = *fc.GlucoseK
	}
	return nil
}

// Exit codes follow the SAT competition convention: 10 for satisfiable,
// 20 for unsatisfiable, 0 for anything else (including unknown/timeout).
const (
	exitSat     = 10
	exitUnsat   = 20
	exitOther   = 0
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		threads     int
		memMB       int
		timeS       int
		lbdPerm     int
		sizePerm    int
		lbdShare    int
		sizeShare   int
		reuse       int
		verbose     bool
		printModel  bool
		configPath  string
	)

	root := &cobra.Command{
		Use:   "parasat [dimacs-file]",
		Short: "parasat is a parallel CDCL Boolean satisfiability solver",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open input: %w", err)
			}
			defer f.Close()

			problem, err := dimacs.Parse(f)
			if err != nil {
				return err
			}
			problem.RemoveDuplicates()
			problem.RemoveTautologies()

			cfg := sat.DefaultConfig()
			if configPath != "" {
				if err := loadConfigFile(configPath, &cfg); err != nil {
					return err
				}
			}

			cf := cmd.Flags()
			if cf.Changed("threads") {
				cfg.Threads = threads
			}
			if cf.Changed("mem-mb") {
				cfg.MemoryLimitMB = memMB
			}
			if cf.Changed("time-s") {
				cfg.TimeLimit = time.Duration(timeS) * time.Second
			}
			if cf.Changed("lbd-perm") {
				cfg.TierLBDPermanent = lbdPerm
			}
			if cf.Changed("size-perm") {
				cfg.TierSizePermanent = sizePerm
			}
			if cf.Changed("lbd-share") {
				cfg.TierLBDShared = lbdShare
			}
			if cf.Changed("size-share") {
				cfg.TierSizeShared = sizeShare
			}
			if cf.Changed("reuse") {
				cfg.ReuseThreshold = reuse
			}

			sup := sat.NewSupervisor(cfg)
			for i := 0; i < problem.NumVars; i++ {
				sup.NewVar()
			}
			for _, c := range problem.Clauses {
				if !sup.AddClause(c) {
					fmt.Fprintln(cmd.OutOrStdout(), "s UNSATISFIABLE")
					cmd.SilenceUsage = true
					os.Exit(exitUnsat)
				}
			}
			if !sup.Simplify() {
				fmt.Fprintln(cmd.OutOrStdout(), "s UNSATISFIABLE")
				os.Exit(exitUnsat)
			}

			result := sup.Solve(context.Background())

			if verbose {
				fmt.Fprintln(cmd.ErrOrStderr(), result.Stats.String())
			}

			var werr error
			if printModel {
				werr = dimacs.WriteModel(cmd.OutOrStdout(), result.Status, result.Model)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "s "+result.Status.String())
			}
			if werr != nil {
				return werr
			}

			switch result.Status {
			case sat.Sat:
				os.Exit(exitSat)
			case sat.Unsat:
				os.Exit(exitUnsat)
			}
			os.Exit(exitOther)
			return nil
		},
	}

	flags := root.Flags()
	flags.IntVar(&threads, "threads", 1, "number of worker threads")
	flags.IntVar(&memMB, "mem-mb", 0, "memory limit in megabytes (not enforced by the solver)")
	flags.IntVar(&timeS, "time-s", 0, "wall-clock time limit in seconds (0 = unbounded)")
	flags.IntVar(&lbdPerm, "lbd-perm", 2, "LBD threshold for permanent clause promotion")
	flags.IntVar(&sizePerm, "size-perm", 2, "size threshold for permanent clause promotion")
	flags.IntVar(&lbdShare, "lbd-share", 6, "LBD threshold for cross-worker clause sharing")
	flags.IntVar(&sizeShare, "size-share", 30, "size threshold for cross-worker clause sharing")
	flags.IntVar(&reuse, "reuse", 2, "re-derivation threshold for clause sharing (not consulted by the solver)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "print solver statistics to stderr")
	flags.BoolVar(&printModel, "print-model", true, "print the satisfying assignment when SAT")
	flags.StringVar(&configPath, "config", "", "YAML config file; explicit flags still override it")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitOther
	}
	return exitOther
}
