package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/StinkyLord/cmakegen/internal/config"
	"github.com/StinkyLord/cmakegen/internal/generator"
	"github.com/StinkyLord/cmakegen/internal/output"
)

const toolVersion = "1.0.0"

var (
	flagConfig  string
	flagRoot    string
	flagVerbose bool
	flagCheck   bool
	flagDryRun  bool
)

var rootCmd = &cobra.Command{
	Use:   "cmakegen",
	Short: "Generate CMakeLists.txt source listings for a C++ tree",
	Long: `cmakegen walks a C/C++ source tree and regenerates the CMakeLists.txt of
every directory. Sources are split into targets by dependency:
  • mpi      — files under zisa/mpi/
  • generic  — everything else

Each directory's descriptor lists its own sources with target_sources() and
pulls in its children with add_subdirectory(). Directories whose name contains
"CMake" are skipped.

Run without arguments to regenerate src/ with the baseline mapping mpi -> mpi.

Examples:
  cmakegen
  cmakegen --check
  cmakegen --dry-run --root src/zisa
  cmakegen --config cmakegen.toml --verbose`,
	Args:          cobra.NoArgs,
	Version:       toolVersion,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runGenerate,
}

func init() {
	rootCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "Optional config file (TOML, YAML or JSON)")
	rootCmd.Flags().StringVar(&flagRoot, "root", "", "Override the source tree root (default src/)")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log every descriptor written")
	rootCmd.Flags().BoolVar(&flagCheck, "check", false,
		"Do not write anything; exit non-zero if any descriptor is missing or out of date")
	rootCmd.Flags().BoolVar(&flagDryRun, "dry-run", false,
		"Do not write anything; print the descriptors that would be generated to stdout")
	rootCmd.MarkFlagsMutuallyExclusive("check", "dry-run")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix: "cmakegen",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, err
	}
	if flagRoot != "" {
		cfg.Root = flagRoot
	}
	return cfg, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), flagVerbose)
	g := generator.New(afero.NewOsFs(), logger)

	logger.Debug("starting", "version", toolVersion, "root", cfg.RootDir(), "targets", len(cfg.Targets))

	switch {
	case flagCheck:
		return runCheck(cmd, g, cfg)
	case flagDryRun:
		mem, res, err := g.Render(cfg)
		if err != nil {
			return fmt.Errorf("generation failed: %w", err)
		}
		return output.WriteListing(cmd.OutOrStdout(), mem, res.Descriptors)
	}

	res, err := g.Run(cfg)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	targets := make([]string, 0, len(res.Sources))
	for target := range res.Sources {
		targets = append(targets, target)
	}
	sort.Strings(targets)
	for _, target := range targets {
		logger.Info("declared sources", "target", target, "files", res.Sources[target])
	}
	return nil
}

func runCheck(cmd *cobra.Command, g *generator.Generator, cfg config.Config) error {
	mismatches, err := g.Check(cfg)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}
	if len(mismatches) == 0 {
		g.Logger.Info("all descriptors up to date", "root", cfg.RootDir())
		return nil
	}

	w := cmd.ErrOrStderr()
	for _, m := range mismatches {
		if m.Missing {
			fmt.Fprintf(w, "missing: %s\n", m.Path)
			continue
		}
		fmt.Fprintf(w, "out of date: %s (-disk +generated)\n%s\n", m.Path, m.Diff)
	}
	return fmt.Errorf("%d descriptor(s) out of date; run cmakegen to regenerate", len(mismatches))
}
