package ports

// FileSystem is the file access used by sources, sinks and exporters.
// Paths are passed through unchanged.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	// WriteFile creates or truncates path.
	WriteFile(path string, data []byte) error
	MkdirAll(path string) error
	Exists(path string) (bool, error)
	// IsFile reports whether path is a regular file after following links.
	IsFile(path string) (bool, error)
	Remove(path string) error
}
