package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

var (
	// CLI flags for the run configuration
	configPath string  // YAML run configuration; flags explicitly set override it
	seed       int64   // Master seed for site sampling and solver noise
	logLevel   string  // Log verbosity level
	heaterXMin float64 // Heater segment start
	heaterXMax float64 // Heater segment end
	numSites   int     // Number of nucleation sites
	seedRadius float64 // Radius of each seed bubble
	dfunScale  float64 // Divisor applied to re-seeded bubbles
	gridNX     int     // Grid columns
	gridNY     int     // Grid rows
	gridYMin   float64 // Grid bottom (heater) row
	gridYMax   float64 // Grid top row
	steps      int     // Number of solver steps
	solverKind string  // Field provider standing in for the flow solver

	// CLI flags for output
	outputDir      string // Directory for sites.csv, config.yaml and summary.yaml
	compressOutput bool   // Write sites.csv.zst instead of sites.csv
	traceLevel     string // Decision trace level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "bubble-sim",
	Short: "Nucleation site model for boiling simulations",
}

// runCmd runs the nucleation model against a stand-in solver
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the nucleation model",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		bundle, err := resolveRunBundle(cmd.Flags())
		if err != nil {
			logrus.Fatalf("Invalid run configuration: %v", err)
		}

		logrus.Infof("Starting run: seed=%d, steps=%d, %d sites on [%v, %v], solver=%s",
			bundle.Seed, bundle.Steps, bundle.Heater.NumSites, bundle.Heater.XMin, bundle.Heater.XMax, bundle.Solver.Kind)

		summary, err := runNucleation(bundle, outputDir, compressOutput)
		if err != nil {
			logrus.Fatalf("Run failed: %v", err)
		}

		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(summary); err != nil {
			logrus.Fatalf("Failed to print summary: %v", err)
		}
		_ = enc.Close()

		logrus.Info("Run complete.")
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// registerRunFlags binds the run flags to fs.
func registerRunFlags(fs *pflag.FlagSet) {
	fs.StringVar(&configPath, "config", "", "YAML run configuration (flags explicitly set override it)")
	fs.Int64Var(&seed, "seed", 1, "Seed for site sampling and solver noise")
	fs.StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	// Heater and nucleation
	fs.Float64Var(&heaterXMin, "x-min", -5.0, "Heater segment start")
	fs.Float64Var(&heaterXMax, "x-max", 5.0, "Heater segment end")
	fs.IntVar(&numSites, "sites", 40, "Number of nucleation sites")
	fs.Float64Var(&seedRadius, "seed-radius", 0.2, "Seed bubble radius")
	fs.Float64Var(&dfunScale, "dfun-scale", 1.0, "Divisor applied to re-seeded bubbles")

	// Grid
	fs.IntVar(&gridNX, "nx", 353, "Grid columns")
	fs.IntVar(&gridNY, "ny", 65, "Grid rows")
	fs.Float64Var(&gridYMin, "y-min", 0, "Grid bottom (heater) coordinate")
	fs.Float64Var(&gridYMax, "y-max", 2, "Grid top coordinate")

	// Solver
	fs.IntVar(&steps, "steps", 50, "Number of solver steps")
	fs.StringVar(&solverKind, "solver", "rising", "Field provider (forced-liquid, rising)")

	// Output
	fs.StringVar(&outputDir, "output-dir", "", "Directory for structured output (empty disables)")
	fs.BoolVar(&compressOutput, "compress", false, "Compress sites.csv with zstd")
	fs.StringVar(&traceLevel, "trace-level", "none", "Decision trace level (none, decisions)")
}

// init sets up CLI flags and subcommands
func init() {
	registerRunFlags(runCmd.Flags())

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
