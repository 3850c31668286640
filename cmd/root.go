package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/botarena/botarena/sim"
	"github.com/botarena/botarena/sim/agent"
	"github.com/botarena/botarena/sim/script"
	"github.com/botarena/botarena/sim/trace"
)

var (
	configPath  string  // Arena YAML file
	logLevel    string  // Log verbosity level
	seed        int64   // Layout seed of the first round
	dt          float64 // Seconds per tick in headless mode
	maxTicks    int64   // Tick limit per round
	rounds      int     // Number of rounds
	watchMode   bool    // Render the round in the terminal
	tickRate    float64 // Ticks per second in watch mode
	traceLevel  string  // Event trace level
	resultsPath string  // JSON results file
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "botarena",
	Short: "Arena simulator for script-driven ships",
}

// runCmd plays one or more rounds between the given control programs
var runCmd = &cobra.Command{
	Use:   "run [flags] script.js...",
	Short: "Run rounds between control programs",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg, err := resolveConfig(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if dt <= 0 {
			logrus.Fatalf("--dt must be > 0, got %v", dt)
		}
		if rounds < 1 {
			logrus.Fatalf("--rounds must be >= 1, got %d", rounds)
		}
		if watchMode && tickRate <= 0 {
			logrus.Fatalf("--tick-rate must be > 0, got %v", tickRate)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		entrants := loadEntrants(args)
		results := make([]sim.RoundResult, 0, rounds)
		for r := 0; r < rounds && ctx.Err() == nil; r++ {
			roundCfg := cfg
			roundCfg.Round.Seed = cfg.Round.Seed + int64(r)
			res, quit, err := playRound(ctx, roundCfg, entrants)
			if err != nil {
				logrus.Fatalf("round %d: %v", r+1, err)
			}
			results = append(results, res)
			if quit {
				break
			}
		}

		if resultsPath != "" {
			if err := sim.SaveResults(resultsPath, results); err != nil {
				logrus.Fatalf("%v", err)
			}
		}
		logrus.Info("Simulation complete.")
	},
}

// defaultsCmd prints the default arena configuration
var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print the default arena configuration as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := defaultsYAML()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

// resolveConfig loads --config over the defaults, then applies only the
// flags the user actually set so they never clobber file values.
func resolveConfig(cmd *cobra.Command) (sim.Config, error) {
	cfg := sim.DefaultConfig()
	if configPath != "" {
		loaded, err := LoadConfig(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("seed") {
		cfg.Round.Seed = seed
	}
	if cmd.Flags().Changed("max-ticks") {
		cfg.Round.MaxTicks = maxTicks
	}
	if cmd.Flags().Changed("trace") {
		cfg.Round.Trace = traceLevel
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// loadEntrants compiles every script once. A script that fails to load
// still enters the arena; its ship reports the error and idles.
func loadEntrants(paths []string) []sim.Entrant {
	entrants := make([]sim.Entrant, len(paths))
	for i, path := range paths {
		prog, err := script.Load(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, script.FormatError(err))
			entrants[i] = sim.Entrant{Name: scriptName(path), Program: failed(err)}
			continue
		}
		entrants[i] = sim.Entrant{Name: prog.Name(), Program: prog}
	}
	return entrants
}

func scriptName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// errNotLoaded marks programs whose load error was already printed.
var errNotLoaded = errors.New("control program not loaded")

// failed is a control program that ends at once with its load error.
func failed(loadErr error) agent.ControlProgram {
	return agent.ProgramFunc(func(context.Context, agent.Bindings) error {
		return errors.Wrap(errNotLoaded, loadErr.Error())
	})
}

// scriptErrorPrinter reports failed control programs on w.
func scriptErrorPrinter(w io.Writer) agent.ExitHandler {
	return func(name string, err error) {
		var serr *script.Error
		if !errors.Is(err, errNotLoaded) && errors.As(err, &serr) {
			fmt.Fprintln(w, script.FormatError(serr))
			return
		}
		logrus.WithField("agent", name).Debugf("control program ended: %v", err)
	}
}

// heldOutput collects writes while the watch screen owns the terminal.
type heldOutput struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (h *heldOutput) Write(p []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.buf.Write(p)
}

func (h *heldOutput) flush(w io.Writer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, _ = h.buf.WriteTo(w)
}

// playRound plays one round headless or in the terminal. quit is set when
// the user stopped the run from the watch screen.
func playRound(ctx context.Context, cfg sim.Config, entrants []sim.Entrant) (res sim.RoundResult, quit bool, err error) {
	var errOut io.Writer = os.Stderr
	held := &heldOutput{}
	if watchMode {
		errOut = held
	}
	arena, err := sim.NewArena(cfg, entrants,
		sim.WithContext(ctx), sim.WithScriptErrorHandler(scriptErrorPrinter(errOut)))
	if err != nil {
		return sim.RoundResult{}, false, err
	}
	defer arena.Close()

	var outcome sim.Outcome
	if watchMode {
		screen, err := tcell.NewScreen()
		if err != nil {
			return sim.RoundResult{}, false, errors.Wrap(err, "opening terminal")
		}
		logOut := logrus.StandardLogger().Out
		logrus.SetOutput(held)
		outcome, quit, err = watch(ctx, screen, arena, tickRate)
		arena.Close()
		logrus.SetOutput(logOut)
		held.flush(os.Stderr)
		if err != nil {
			return sim.RoundResult{}, false, err
		}
	} else {
		outcome = arena.Run(ctx, dt)
	}

	arena.Metrics().Print(outcome)
	if rt := arena.Trace(); rt != nil {
		printTraceSummary(rt)
	}
	return arena.Result(), quit, nil
}

func printTraceSummary(rt *trace.RoundTrace) {
	s := trace.Summarize(rt)
	fmt.Println("=== Trace Summary ===")
	fmt.Printf("Actions Started      : %d\n", s.TotalActions)
	for _, name := range sortedKeys(s.ActionsByAgent) {
		fmt.Printf("  %-18s : %d\n", name, s.ActionsByAgent[name])
	}
	fmt.Printf("Shots Fired/Dropped  : %d/%d\n", s.ShotsFired, s.ShotsDropped)
	fmt.Printf("Accuracy             : %.2f\n", s.Accuracy)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	defaults := sim.DefaultConfig()

	runCmd.Flags().StringVar(&configPath, "config", "", "Arena YAML file (see `botarena defaults`)")
	runCmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().Int64Var(&seed, "seed", defaults.Round.Seed, "Layout seed of the first round; round N uses seed+N-1")
	runCmd.Flags().Float64Var(&dt, "dt", 0.1, "Seconds per tick in headless mode")
	runCmd.Flags().Int64Var(&maxTicks, "max-ticks", defaults.Round.MaxTicks, "Tick limit per round (0 = none)")
	runCmd.Flags().IntVar(&rounds, "rounds", 1, "Number of rounds")
	runCmd.Flags().BoolVar(&watchMode, "watch", false, "Render the round in the terminal in real time")
	runCmd.Flags().Float64Var(&tickRate, "tick-rate", 30, "Ticks per second in watch mode")
	runCmd.Flags().StringVar(&traceLevel, "trace", defaults.Round.Trace, "Event trace level (none, events)")
	runCmd.Flags().StringVar(&resultsPath, "results", "", "Write round results as JSON to this file")

	// Attach subcommands to `root`
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(defaultsCmd)
}
