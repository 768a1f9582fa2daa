// Package classifier decides which build target a source file belongs to.
// Each dependency variant carries a pure predicate over file paths; the set
// of variants is closed and only grows by extending this package.
package classifier

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Dependency identifies one source partition.
type Dependency int

const (
	// Generic selects every file that belongs to no distribution-specific
	// namespace.
	Generic Dependency = iota
	// MPI selects files under the MPI communication namespace.
	MPI
)

// MPINamespace is the path segment that marks a source file as part of the
// MPI communication layer.
const MPINamespace = "zisa/mpi/"

// Predicate reports whether the file at path belongs to a partition.
type Predicate func(path string) bool

// UnknownDependencyError is returned when a dependency key outside the known
// set is requested. It always indicates a configuration defect.
type UnknownDependencyError struct {
	Key string
}

func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf("unknown dependency [%s]", e.Key)
}

// dependencyFingerprint describes how to recognise the files of one
// dependency variant.
type dependencyFingerprint struct {
	Dependency Dependency
	Key        string
	Match      Predicate
}

// knownDependencies is the closed set of partitions, in declaration order.
var knownDependencies = []dependencyFingerprint{
	{Dependency: Generic, Key: "generic", Match: isGenericFile},
	{Dependency: MPI, Key: "mpi", Match: isMPIFile},
}

func isMPIFile(path string) bool {
	return strings.Contains(filepath.ToSlash(path), MPINamespace)
}

func isGenericFile(path string) bool {
	return !isMPIFile(path)
}

// String returns the configuration key of d, or a placeholder for values
// outside the known set.
func (d Dependency) String() string {
	if fp := lookup(d); fp != nil {
		return fp.Key
	}
	return fmt.Sprintf("Dependency(%d)", int(d))
}

// Dependencies returns every known dependency in declaration order.
func Dependencies() []Dependency {
	deps := make([]Dependency, 0, len(knownDependencies))
	for _, fp := range knownDependencies {
		deps = append(deps, fp.Dependency)
	}
	return deps
}

// ParseDependency converts a configuration key ("generic", "mpi") into a
// Dependency. Keys are matched exactly.
func ParseDependency(key string) (Dependency, error) {
	for _, fp := range knownDependencies {
		if fp.Key == key {
			return fp.Dependency, nil
		}
	}
	return 0, &UnknownDependencyError{Key: key}
}

// ClassifierFor returns the predicate selecting the files of dep.
func ClassifierFor(dep Dependency) (Predicate, error) {
	fp := lookup(dep)
	if fp == nil {
		return nil, &UnknownDependencyError{Key: dep.String()}
	}
	return fp.Match, nil
}

// Filter returns the files of paths matched by pred, preserving order.
func Filter(paths []string, pred Predicate) []string {
	var out []string
	for _, p := range paths {
		if pred(p) {
			out = append(out, p)
		}
	}
	return out
}

// Partition groups paths by each of deps. A file appears under every
// dependency whose predicate accepts it; for the known set Generic and MPI
// are complements, so each file lands in exactly one of the two.
func Partition(paths []string, deps []Dependency) (map[Dependency][]string, error) {
	result := make(map[Dependency][]string, len(deps))
	for _, dep := range deps {
		pred, err := ClassifierFor(dep)
		if err != nil {
			return nil, err
		}
		result[dep] = Filter(paths, pred)
	}
	return result, nil
}

func lookup(dep Dependency) *dependencyFingerprint {
	for i := range knownDependencies {
		if knownDependencies[i].Dependency == dep {
			return &knownDependencies[i]
		}
	}
	return nil
}
