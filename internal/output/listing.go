package output

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
)

// WriteListing concatenates the descriptors at paths (read from fs) into one
// listing on w. Each descriptor is preceded by a comment header naming its
// path:
//
//	# ==> src/zisa/CMakeLists.txt <==
//	target_sources(mpi
//	  PRIVATE ${CMAKE_CURRENT_LIST_DIR}/mpi.cpp
//	)
func WriteListing(w io.Writer, fs afero.Fs, paths []string) error {
	for i, p := range paths {
		data, err := afero.ReadFile(fs, p)
		if err != nil {
			return &FileSystemError{Op: "read", Path: p, Err: err}
		}
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return fmt.Errorf("failed to write listing: %w", err)
			}
		}
		if _, err := fmt.Fprintf(w, "# ==> %s <==\n", p); err != nil {
			return fmt.Errorf("failed to write listing: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("failed to write listing for %s: %w", p, err)
		}
	}
	return nil
}
