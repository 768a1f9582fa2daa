// Package discovery enumerates the source files and child directories of a
// single directory. It never recurses; walking the tree is the generator's job.
package discovery

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// BuildMetadataMarker is the substring that marks a directory as holding
// build-tool internals (CMakeFiles, CMakeScripts, ...).
const BuildMetadataMarker = "CMake"

// SourceSuffixes lists the recognised source file suffixes. Matching is case
// sensitive: ".C" is a C++ source, ".CPP" is not.
var SourceSuffixes = []string{".c", ".C", ".cpp", ".c++"}

// NormalizeDir returns dir with exactly one trailing slash.
func NormalizeDir(dir string) string {
	if dir == "" {
		return "./"
	}
	return strings.TrimRight(dir, `/\`) + "/"
}

// ListSourceFiles returns the files directly inside dir whose suffix is one of
// SourceSuffixes, sorted. Paths are dir + file name.
func ListSourceFiles(fs afero.Fs, dir string) ([]string, error) {
	dir = NormalizeDir(dir)
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("cannot list source files in %q: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if isHidden(e.Name()) {
			continue
		}
		if e = resolve(fs, dir, e); e.IsDir() {
			continue
		}
		if HasSourceSuffix(e.Name()) {
			files = append(files, dir+e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// ListSubdirectories returns the immediate child directories of dir, each
// ending with a slash and sorted. Hidden directories and any whose name
// contains BuildMetadataMarker are left out.
func ListSubdirectories(fs afero.Fs, dir string) ([]string, error) {
	dir = NormalizeDir(dir)
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("cannot list subdirectories of %q: %w", dir, err)
	}

	var dirs []string
	for _, e := range entries {
		if isHidden(e.Name()) {
			continue
		}
		if e = resolve(fs, dir, e); !e.IsDir() {
			continue
		}
		if strings.Contains(e.Name(), BuildMetadataMarker) {
			continue
		}
		dirs = append(dirs, dir+e.Name()+"/")
	}
	// Sorting the slash-terminated form keeps "a-b/" before "a/", the same
	// order a shell glob of "*/" yields.
	sort.Strings(dirs)
	return dirs, nil
}

// HasSourceSuffix reports whether name ends in one of SourceSuffixes.
func HasSourceSuffix(name string) bool {
	for _, s := range SourceSuffixes {
		if strings.HasSuffix(name, s) && len(name) > len(s) {
			return true
		}
	}
	return false
}

// resolve follows a symlinked entry to its target so that links to
// directories are walked like directories. Dangling links keep their own
// (non-directory) info.
func resolve(fs afero.Fs, dir string, e os.FileInfo) os.FileInfo {
	if e.Mode()&os.ModeSymlink == 0 {
		return e
	}
	target, err := fs.Stat(dir + e.Name())
	if err != nil {
		return e
	}
	return renamed{FileInfo: target, name: e.Name()}
}

// renamed keeps the link's own name on the target's FileInfo.
type renamed struct {
	os.FileInfo
	name string
}

func (r renamed) Name() string { return r.name }

// isHidden mirrors shell globbing, where "*" never matches a leading dot.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
