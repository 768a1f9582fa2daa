// Package config holds the explicit run configuration of cmakegen: which tree
// to walk, what the descriptor files are called, and which dependency
// partition feeds which CMake target.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/StinkyLord/cmakegen/internal/classifier"
	"github.com/StinkyLord/cmakegen/internal/discovery"
	"github.com/StinkyLord/cmakegen/internal/output"
)

// DefaultRoot is the source tree walked when nothing else is configured.
const DefaultRoot = "src/"

// TargetMapping routes the files of one dependency partition to a target.
type TargetMapping struct {
	Dependency classifier.Dependency
	Target     string
}

// Config is the complete input of a generation run.
type Config struct {
	Root       string
	Descriptor string
	// Targets is applied in slice order, which fixes the order of the
	// target_sources() blocks in every descriptor.
	Targets []TargetMapping
}

// rawTarget is the on-disk form of a TargetMapping.
type rawTarget struct {
	Dependency string `mapstructure:"dependency"`
	Target     string `mapstructure:"target"`
}

type rawConfig struct {
	Root       string      `mapstructure:"root"`
	Descriptor string      `mapstructure:"descriptor"`
	Targets    []rawTarget `mapstructure:"targets"`
}

// DefaultConfig returns the baseline: walk src/ and send MPI sources to the
// "mpi" target.
func DefaultConfig() Config {
	return Config{
		Root:       DefaultRoot,
		Descriptor: output.DefaultDescriptorName,
		Targets: []TargetMapping{
			{Dependency: classifier.MPI, Target: "mpi"},
		},
	}
}

// Load reads the configuration file at path (TOML, YAML or JSON, chosen by
// extension) over the defaults. An empty path returns DefaultConfig.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	v := viper.New()
	v.SetDefault("root", cfg.Root)
	v.SetDefault("descriptor", cfg.Descriptor)
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("failed to read config %q: %w", path, err)
	}

	var raw rawConfig
	if err := v.Unmarshal(&raw); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %q: %w", path, err)
	}

	cfg.Root = raw.Root
	cfg.Descriptor = raw.Descriptor
	if v.IsSet("targets") {
		targets, err := parseTargets(raw.Targets)
		if err != nil {
			return Config{}, fmt.Errorf("invalid config %q: %w", path, err)
		}
		cfg.Targets = targets
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return cfg, nil
}

func parseTargets(raw []rawTarget) ([]TargetMapping, error) {
	targets := make([]TargetMapping, 0, len(raw))
	for _, rt := range raw {
		dep, err := classifier.ParseDependency(rt.Dependency)
		if err != nil {
			return nil, err
		}
		targets = append(targets, TargetMapping{Dependency: dep, Target: rt.Target})
	}
	return targets, nil
}

// Validate checks that cfg can drive a run. Unknown dependencies surface as
// *classifier.UnknownDependencyError.
func (c Config) Validate() error {
	if c.Root == "" {
		return errors.New("root directory is empty")
	}
	if c.Descriptor == "" {
		return errors.New("descriptor file name is empty")
	}
	if strings.ContainsAny(c.Descriptor, `/\`) {
		return fmt.Errorf("descriptor file name %q must not contain path separators", c.Descriptor)
	}
	if discovery.HasSourceSuffix(c.Descriptor) {
		return fmt.Errorf("descriptor file name %q would be picked up as a source file", c.Descriptor)
	}
	if len(c.Targets) == 0 {
		return errors.New("no dependency targets configured")
	}

	seen := map[classifier.Dependency]bool{}
	for _, t := range c.Targets {
		if _, err := classifier.ClassifierFor(t.Dependency); err != nil {
			return err
		}
		if strings.TrimSpace(t.Target) == "" {
			return fmt.Errorf("dependency %s has an empty target name", t.Dependency)
		}
		if seen[t.Dependency] {
			return fmt.Errorf("dependency %s is mapped more than once", t.Dependency)
		}
		seen[t.Dependency] = true
	}
	return nil
}

// RootDir returns Root normalized to end with a slash.
func (c Config) RootDir() string {
	return discovery.NormalizeDir(c.Root)
}
