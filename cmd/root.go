package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/sparseci/ci"
	"github.com/inference-sim/sparseci/ci/ham"
)

var (
	// CLI flags for the system
	configPath  string // Optional system.yaml
	fcidumpPath string // FCIDUMP integral file
	nbasis      int    // Orbitals of the random Hamiltonian
	seed        int64  // Seed of the random Hamiltonian

	// CLI flags for the basis
	kind       string // doci, fullci or genci
	noccUp     int    // Up-spin electrons (electron pairs for doci)
	noccDn     int    // Down-spin electrons
	excitation int    // Maximum excitation level; < 0 for every determinant
	rows       int    // Row block size; < 0 for the whole basis
	cols       int    // Column block size; < 0 for the whole basis

	// CLI flags bound through viper, overridable by SPARSECI_* environment variables
	threads  int    // Assembly and application threads; 0 for ci.DefaultThreads
	logLevel string // Log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "sparseci",
	Short: "Sparse CI Hamiltonian assembly",
}

// buildCmd assembles the operator described by flags and the system file
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Assemble the sparse Hamiltonian of a determinant basis",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		logLevel = viper.GetString("log")
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg := defaultSystemConfig()
		if configPath != "" {
			if cfg, err = loadSystemConfig(configPath); err != nil {
				logrus.Fatalf("%v", err)
			}
		}
		applyFlagOverrides(cmd, &cfg)
		if err := cfg.validate(); err != nil {
			logrus.Fatalf("%v", err)
		}

		if _, err := runBuild(cmd.OutOrStdout(), cfg, viper.GetInt("num_threads")); err != nil {
			logrus.Fatalf("Build failed: %v", err)
		}
	},
}

// applyFlagOverrides copies explicitly set flags over the system file values.
func applyFlagOverrides(cmd *cobra.Command, cfg *SystemConfig) {
	flags := cmd.Flags()
	if flags.Changed("fcidump") {
		cfg.FCIDUMP = fcidumpPath
	}
	if flags.Changed("nbasis") {
		cfg.Random.NBasis = nbasis
	}
	if flags.Changed("seed") {
		cfg.Random.Seed = seed
	}
	if flags.Changed("kind") {
		cfg.Wavefunction.Kind = kind
	}
	if flags.Changed("nocc-up") {
		cfg.Wavefunction.NOccUp = noccUp
	}
	if flags.Changed("nocc-dn") {
		cfg.Wavefunction.NOccDn = noccDn
	}
	if flags.Changed("excitation") {
		cfg.Wavefunction.Excitation = excitation
	}
	if flags.Changed("rows") {
		cfg.Rows = rows
	}
	if flags.Changed("cols") {
		cfg.Cols = cols
	}
}

// BuildSummary is written to stdout after a successful build.
type BuildSummary struct {
	Kind       string  `yaml:"kind"`
	Encoding   string  `yaml:"encoding"`
	NBasis     int     `yaml:"nbasis"`
	Rows       int     `yaml:"rows"`
	Cols       int     `yaml:"cols"`
	NNZ        int     `yaml:"nnz"`
	ECore      float64 `yaml:"ecore"`
	RefDiag    float64 `yaml:"ref_diagonal"` // H[0,0] + ecore, the reference energy
	AssemblyMs float64 `yaml:"assembly_ms"`
}

// runBuild loads the integrals, enumerates the basis, assembles the operator
// and writes a YAML summary to out. threads <= 0 selects ci.DefaultThreads.
func runBuild(out io.Writer, cfg SystemConfig, threads int) (BuildSummary, error) {
	var (
		h   *ham.Hamiltonian
		err error
	)
	if cfg.FCIDUMP != "" {
		var header ham.FCIDUMPHeader
		h, header, err = ham.LoadFCIDUMP(cfg.FCIDUMP)
		if err != nil {
			return BuildSummary{}, err
		}
		if cfg.Wavefunction.NOccUp <= 0 {
			cfg.Wavefunction.NOccUp, cfg.Wavefunction.NOccDn = header.NOccUp(), header.NOccDn()
		}
		logrus.Infof("Loaded %s: %d orbitals, %d electrons", cfg.FCIDUMP, header.NOrb, header.NElec)
	} else {
		h = ham.Random(cfg.Random.NBasis, cfg.Random.Seed)
		if cfg.Wavefunction.NOccUp <= 0 {
			// half filling
			cfg.Wavefunction.NOccUp, cfg.Wavefunction.NOccDn = h.NBasis()/2, h.NBasis()/2
		}
		logrus.Infof("Generated random Hamiltonian: %d orbitals, seed %d", cfg.Random.NBasis, cfg.Random.Seed)
	}

	basis, ints, err := newBasis(h, cfg.Wavefunction)
	if err != nil {
		return BuildSummary{}, err
	}
	logrus.Infof("Enumerated %d %s determinants", basis.Len(), basis.Encoding())

	opts := []ci.Option{ci.WithRows(cfg.Rows), ci.WithCols(cfg.Cols)}
	if threads > 0 {
		opts = append(opts, ci.WithThreads(threads))
	}
	startTime := time.Now()
	op, err := ci.NewSparseOp(ints, basis, opts...)
	if err != nil {
		return BuildSummary{}, err
	}
	elapsed := time.Since(startTime)
	if err := op.Validate(); err != nil {
		return BuildSummary{}, err
	}

	summary := BuildSummary{
		Kind:       cfg.Wavefunction.Kind,
		Encoding:   basis.Encoding().String(),
		NBasis:     basis.NBasis(),
		Rows:       op.Rows(),
		Cols:       op.Cols(),
		NNZ:        op.Size(),
		ECore:      op.ECore(),
		AssemblyMs: float64(elapsed.Microseconds()) / 1e3,
	}
	if op.Rows() > 0 && op.Cols() > 0 {
		summary.RefDiag = op.At(0, 0) + op.ECore()
	}
	logrus.Infof("Assembled %dx%d operator with %d nonzeros in %v", op.Rows(), op.Cols(), op.Size(), elapsed)

	encoder := yaml.NewEncoder(out)
	defer encoder.Close()
	if err := encoder.Encode(summary); err != nil {
		return summary, fmt.Errorf("writing summary: %w", err)
	}
	return summary, nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	buildCmd.Flags().StringVar(&configPath, "config", "", "Path to a system.yaml file")
	buildCmd.Flags().StringVar(&fcidumpPath, "fcidump", "", "Path to an FCIDUMP integral file")
	buildCmd.Flags().IntVar(&nbasis, "nbasis", 4, "Orbitals of the random Hamiltonian (without --fcidump)")
	buildCmd.Flags().Int64Var(&seed, "seed", 42, "Seed of the random Hamiltonian")

	buildCmd.Flags().StringVar(&kind, "kind", kindFullCI, "Wavefunction kind (doci, fullci, genci)")
	buildCmd.Flags().IntVar(&noccUp, "nocc-up", 0, "Up-spin electrons, or electron pairs for doci (0 for the FCIDUMP header or half filling)")
	buildCmd.Flags().IntVar(&noccDn, "nocc-dn", 0, "Down-spin electrons")
	buildCmd.Flags().IntVar(&excitation, "excitation", -1, "Maximum excitation level from the reference (< 0 for every determinant)")
	buildCmd.Flags().IntVar(&rows, "rows", -1, "Row block size (< 0 for the whole basis)")
	buildCmd.Flags().IntVar(&cols, "cols", -1, "Column block size (< 0 for the whole basis)")

	buildCmd.Flags().IntVar(&threads, "threads", 0, "Threads for assembly (0 for $"+ci.ThreadsEnv+" or GOMAXPROCS)")
	buildCmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	// SPARSECI_NUM_THREADS and SPARSECI_LOG apply when the flags are not given
	viper.SetEnvPrefix("SPARSECI")
	viper.AutomaticEnv()
	_ = viper.BindPFlag("num_threads", buildCmd.Flags().Lookup("threads"))
	_ = viper.BindPFlag("log", buildCmd.Flags().Lookup("log"))

	// Attach `build` as a subcommand to `root`
	rootCmd.AddCommand(buildCmd)
}
