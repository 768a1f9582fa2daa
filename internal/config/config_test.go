package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StinkyLord/cmakegen/internal/classifier"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Root != "src/" {
		t.Errorf("expected default root src/, got %q", cfg.Root)
	}
	if cfg.Descriptor != "CMakeLists.txt" {
		t.Errorf("expected default descriptor CMakeLists.txt, got %q", cfg.Descriptor)
	}
	if len(cfg.Targets) != 1 || cfg.Targets[0].Dependency != classifier.MPI || cfg.Targets[0].Target != "mpi" {
		t.Errorf("expected baseline [mpi -> mpi], got %+v", cfg.Targets)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_TOML(t *testing.T) {
	p := writeConfig(t, "cmakegen.toml", `
root = "test/"

[[targets]]
dependency = "generic"
target = "core_unit_tests"

[[targets]]
dependency = "mpi"
target = "mpi_unit_tests"
`)

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "test/", cfg.Root)
	assert.Equal(t, "CMakeLists.txt", cfg.Descriptor)
	assert.Equal(t, []TargetMapping{
		{Dependency: classifier.Generic, Target: "core_unit_tests"},
		{Dependency: classifier.MPI, Target: "mpi_unit_tests"},
	}, cfg.Targets)
}

func TestLoad_YAMLKeepsDefaultTargets(t *testing.T) {
	p := writeConfig(t, "cmakegen.yaml", "root: benchmarks\ndescriptor: sources.cmake\n")

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "benchmarks", cfg.Root)
	assert.Equal(t, "benchmarks/", cfg.RootDir())
	assert.Equal(t, "sources.cmake", cfg.Descriptor)
	assert.Equal(t, DefaultConfig().Targets, cfg.Targets)
}

func TestLoad_UnknownDependency(t *testing.T) {
	p := writeConfig(t, "cmakegen.toml", `
[[targets]]
dependency = "cuda"
target = "gpu"
`)

	_, err := Load(p)
	var unknown *classifier.UnknownDependencyError
	require.True(t, errors.As(err, &unknown), "expected UnknownDependencyError, got %v", err)
	assert.Equal(t, "cuda", unknown.Key)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"empty root", Config{Descriptor: "CMakeLists.txt", Targets: DefaultConfig().Targets}},
		{"empty descriptor", Config{Root: "src/", Targets: DefaultConfig().Targets}},
		{"descriptor with separator", Config{Root: "src/", Descriptor: "cmake/CMakeLists.txt", Targets: DefaultConfig().Targets}},
		{"descriptor with source suffix", Config{Root: "src/", Descriptor: "sources.c", Targets: DefaultConfig().Targets}},
		{"no targets", Config{Root: "src/", Descriptor: "CMakeLists.txt"}},
		{"blank target", Config{Root: "src/", Descriptor: "CMakeLists.txt", Targets: []TargetMapping{{Dependency: classifier.MPI, Target: " "}}}},
		{"duplicate dependency", Config{Root: "src/", Descriptor: "CMakeLists.txt", Targets: []TargetMapping{
			{Dependency: classifier.MPI, Target: "a"},
			{Dependency: classifier.MPI, Target: "b"},
		}}},
		{"unknown dependency", Config{Root: "src/", Descriptor: "CMakeLists.txt", Targets: []TargetMapping{{Dependency: classifier.Dependency(9), Target: "x"}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.Validate(); err == nil {
				t.Errorf("expected validation error for %s", tc.name)
			}
		})
	}
}
