// Package generator walks a source tree and writes one CMake descriptor per
// directory, children first, so that every add_subdirectory() line refers to
// a descriptor that already exists.
package generator

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/StinkyLord/cmakegen/internal/classifier"
	"github.com/StinkyLord/cmakegen/internal/config"
	"github.com/StinkyLord/cmakegen/internal/discovery"
	"github.com/StinkyLord/cmakegen/internal/output"
)

// Result summarises a generation run.
type Result struct {
	// Descriptors lists every descriptor written, in completion order:
	// a child always precedes its parent.
	Descriptors []string
	// Sources counts the source files declared per target.
	Sources map[string]int
}

// Generator synthesizes descriptors. Source is only read; Sink receives the
// deletes and appends. Both are usually the same OS filesystem.
type Generator struct {
	Source     afero.Fs
	Sink       afero.Fs
	Descriptor string
	Logger     *log.Logger
}

// New creates a Generator reading and writing fs. Descriptor is left empty,
// which selects output.DefaultDescriptorName until Run applies a Config.
func New(fs afero.Fs, logger *log.Logger) *Generator {
	return &Generator{
		Source: fs,
		Sink:   fs,
		Logger: logger,
	}
}

// boundTarget is a TargetMapping with its predicate already resolved.
type boundTarget struct {
	target string
	match  classifier.Predicate
}

// Run deletes the root descriptor and synthesizes every top-level
// subdirectory of cfg.Root, wiring each into the root descriptor. Source
// files sitting directly in the root are not declared.
func (g *Generator) Run(cfg config.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g.Descriptor = cfg.Descriptor

	targets, err := bindTargets(cfg.Targets)
	if err != nil {
		return nil, err
	}

	root := cfg.RootDir()
	res := &Result{Sources: map[string]int{}}

	descriptor := root + g.descriptorName()
	if err := output.RemoveFile(g.Sink, descriptor); err != nil {
		return nil, err
	}

	// A missing root fails here, before anything is created.
	subdirs, err := discovery.ListSubdirectories(g.Source, root)
	if err != nil {
		return nil, err
	}

	if err := output.AppendToFile(g.Sink, descriptor, ""); err != nil {
		return nil, err
	}

	for _, sub := range subdirs {
		if err := g.synthesize(sub, targets, res); err != nil {
			return nil, err
		}
		if err := output.AppendToFile(g.Sink, descriptor, output.FormatSubdirectory(sub)); err != nil {
			return nil, err
		}
	}
	res.Descriptors = append(res.Descriptors, descriptor)

	g.logger().Info("generated descriptors", "root", root, "descriptors", len(res.Descriptors))
	return res, nil
}

// Synthesize regenerates the descriptor of dir and, recursively, of every
// subdirectory below it. Every dependency in targets is resolved before the
// first write, so an unknown dependency leaves the filesystem untouched.
func (g *Generator) Synthesize(dir string, targets []config.TargetMapping) (*Result, error) {
	bound, err := bindTargets(targets)
	if err != nil {
		return nil, err
	}

	res := &Result{Sources: map[string]int{}}
	if err := g.synthesize(discovery.NormalizeDir(dir), bound, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (g *Generator) synthesize(dir string, targets []boundTarget, res *Result) error {
	descriptor := dir + g.descriptorName()
	if err := output.RemoveFile(g.Sink, descriptor); err != nil {
		return err
	}

	sources, err := discovery.ListSourceFiles(g.Source, dir)
	if err != nil {
		return err
	}
	// Source and Sink may differ (check mode), so a descriptor still on disk
	// must never be declared as a source of its own directory.
	sources = withoutFile(sources, descriptor)

	// The descriptor exists from here on, even if nothing is declared in it.
	if err := output.AppendToFile(g.Sink, descriptor, ""); err != nil {
		return err
	}

	var declared []string
	for _, t := range targets {
		matched := classifier.Filter(sources, t.match)
		if len(matched) == 0 {
			continue
		}
		if err := output.AppendToFile(g.Sink, descriptor, output.FormatSources(t.target, matched)); err != nil {
			return err
		}
		res.Sources[t.target] += len(matched)
		declared = append(declared, t.target)
	}

	subdirs, err := discovery.ListSubdirectories(g.Source, dir)
	if err != nil {
		return err
	}

	// Each child must be complete before the parent references it.
	for _, sub := range subdirs {
		if err := g.synthesize(sub, targets, res); err != nil {
			return err
		}
		if err := output.AppendToFile(g.Sink, descriptor, output.FormatSubdirectory(sub)); err != nil {
			return err
		}
	}

	res.Descriptors = append(res.Descriptors, descriptor)
	g.logger().Debug("wrote descriptor", "path", descriptor, "sources", len(sources), "targets", declared, "subdirs", len(subdirs))
	return nil
}

func withoutFile(paths []string, name string) []string {
	out := paths[:0:0]
	for _, p := range paths {
		if p != name {
			out = append(out, p)
		}
	}
	return out
}

func bindTargets(targets []config.TargetMapping) ([]boundTarget, error) {
	bound := make([]boundTarget, 0, len(targets))
	for _, t := range targets {
		pred, err := classifier.ClassifierFor(t.Dependency)
		if err != nil {
			return nil, err
		}
		bound = append(bound, boundTarget{target: t.Target, match: pred})
	}
	return bound, nil
}

func (g *Generator) descriptorName() string {
	if g.Descriptor == "" {
		return output.DefaultDescriptorName
	}
	return g.Descriptor
}

func (g *Generator) logger() *log.Logger {
	if g.Logger == nil {
		g.Logger = log.New(io.Discard)
	}
	return g.Logger
}
