package summarizer

import (
	"fmt"
	"path/filepath"

	"github.com/user/moviesigdb/pkg/ports"
)

// Writer renders a Summary through a Formatter and stores the result.
type Writer struct {
	format Formatter
	fs     ports.FileSystem
}

func NewWriter(format Formatter, fs ports.FileSystem) *Writer {
	return &Writer{format: format, fs: fs}
}

// Write stores the formatted summary at path, creating its directory.
func (w *Writer) Write(path string, s *Summary) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := w.fs.MkdirAll(dir); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	if err := w.fs.WriteFile(path, []byte(w.format.Format(s))); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
