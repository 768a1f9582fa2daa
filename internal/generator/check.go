package generator

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"

	"github.com/StinkyLord/cmakegen/internal/config"
)

// Mismatch describes one descriptor whose on-disk content differs from what a
// fresh run would produce.
type Mismatch struct {
	Path    string
	Missing bool
	// Diff is a human-readable (-disk +generated) diff; empty when Missing.
	Diff string
}

// Render runs the generator against Source but collects every descriptor in
// a fresh in-memory filesystem, which is returned alongside the result.
// Nothing is written to Source.
func (g *Generator) Render(cfg config.Config) (afero.Fs, *Result, error) {
	mem := afero.NewMemMapFs()
	shadow := &Generator{
		Source: g.Source,
		Sink:   mem,
		Logger: g.logger(),
	}
	res, err := shadow.Run(cfg)
	if err != nil {
		return nil, nil, err
	}
	return mem, res, nil
}

// Check renders cfg in memory and compares every descriptor with the copy on
// disk. It returns the descriptors that are missing or out of date; an empty
// slice means the tree is up to date.
func (g *Generator) Check(cfg config.Config) ([]Mismatch, error) {
	mem, res, err := g.Render(cfg)
	if err != nil {
		return nil, err
	}

	var mismatches []Mismatch
	for _, p := range res.Descriptors {
		want, err := afero.ReadFile(mem, p)
		if err != nil {
			return nil, fmt.Errorf("cannot read rendered descriptor %s: %w", p, err)
		}

		got, err := afero.ReadFile(g.Source, p)
		if errors.Is(err, os.ErrNotExist) {
			mismatches = append(mismatches, Mismatch{Path: p, Missing: true})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read descriptor %s: %w", p, err)
		}

		if string(got) != string(want) {
			mismatches = append(mismatches, Mismatch{
				Path: p,
				Diff: cmp.Diff(string(got), string(want)),
			})
		}
	}

	g.logger().Debug("checked descriptors", "descriptors", len(res.Descriptors), "stale", len(mismatches))
	return mismatches, nil
}
