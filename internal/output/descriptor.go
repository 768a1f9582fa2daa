// Package output renders and writes CMake descriptor files.
package output

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/spf13/afero"
)

// DefaultDescriptorName is the file name CMake looks for in every directory
// pulled in with add_subdirectory().
const DefaultDescriptorName = "CMakeLists.txt"

// sourceLine is written once per source file. CMAKE_CURRENT_LIST_DIR keeps the
// path relative to the descriptor regardless of where cmake is invoked from.
const sourceLine = "  PRIVATE ${CMAKE_CURRENT_LIST_DIR}/%s\n"

// FileSystemError reports a failed filesystem operation on a descriptor.
type FileSystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileSystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileSystemError) Unwrap() error { return e.Err }

// FormatSources renders one target_sources() block for target. It returns the
// empty string when there are no sources, so callers never emit empty blocks.
//
// Example:
//
//	target_sources(mpi
//	  PRIVATE ${CMAKE_CURRENT_LIST_DIR}/mpi.cpp
//	)
func FormatSources(target string, sources []string) string {
	if len(sources) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("target_sources(" + target + "\n")
	for _, s := range sources {
		fmt.Fprintf(&b, sourceLine, baseName(s))
	}
	b.WriteString(")\n\n")
	return b.String()
}

// FormatSubdirectory renders the add_subdirectory() line for dir. Only the
// last path element is used; dir may or may not end with a slash.
func FormatSubdirectory(dir string) string {
	return fmt.Sprintf("add_subdirectory(%s)\n", baseName(strings.TrimRight(dir, `/\`)))
}

// RemoveFile deletes the file at name. A file that does not exist counts as
// removed.
func RemoveFile(fs afero.Fs, name string) error {
	err := fs.Remove(name)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return &FileSystemError{Op: "remove", Path: name, Err: err}
}

// AppendToFile appends text to name, creating the file if needed. Appending
// the empty string still creates the file.
func AppendToFile(fs afero.Fs, name, text string) error {
	f, err := fs.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return &FileSystemError{Op: "open", Path: name, Err: err}
	}

	if text != "" {
		if _, err := f.WriteString(text); err != nil {
			_ = f.Close()
			return &FileSystemError{Op: "write", Path: name, Err: err}
		}
	}

	if err := f.Close(); err != nil {
		return &FileSystemError{Op: "close", Path: name, Err: err}
	}
	return nil
}

func baseName(p string) string {
	return path.Base(strings.ReplaceAll(p, `\`, "/"))
}
