package mocks

import (
	"fmt"
	"path"
	"sort"
	"sync"

	"github.com/user/moviesigdb/pkg/ports"
)

// FileSystem is an in-memory ports.FileSystem. Func fields override the
// default behavior of the matching method.
type FileSystem struct {
	mu    sync.RWMutex
	files map[string][]byte
	dirs  map[string]bool

	WriteFileFunc func(path string, data []byte) error
	IsFileFunc    func(path string) (bool, error)
}

// NewFileSystem creates an empty in-memory FileSystem.
func NewFileSystem() *FileSystem {
	return &FileSystem{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
	}
}

// AddFile seeds a file for test setup.
func (m *FileSystem) AddFile(name string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = data
}

// GetFile returns a written file for verification.
func (m *FileSystem) GetFile(name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[name]
	return data, ok
}

// Paths returns the sorted paths of all files.
func (m *FileSystem) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (m *FileSystem) ReadFile(name string) ([]byte, error) {
	if data, ok := m.GetFile(name); ok {
		return data, nil
	}
	return nil, fmt.Errorf("mocks: file not found: %s", name)
}

func (m *FileSystem) WriteFile(name string, data []byte) error {
	if m.WriteFileFunc != nil {
		return m.WriteFileFunc(name, data)
	}
	m.AddFile(name, data)
	return nil
}

// MkdirAll records dir and each of its parents.
func (m *FileSystem) MkdirAll(dir string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for d := path.Clean(dir); d != "." && d != "/"; d = path.Dir(d) {
		m.dirs[d] = true
	}
	return nil
}

func (m *FileSystem) Exists(name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, isFile := m.files[name]
	return isFile || m.dirs[name], nil
}

func (m *FileSystem) IsFile(name string) (bool, error) {
	if m.IsFileFunc != nil {
		return m.IsFileFunc(name)
	}
	_, ok := m.GetFile(name)
	return ok, nil
}

func (m *FileSystem) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, name)
	delete(m.dirs, name)
	return nil
}

var _ ports.FileSystem = (*FileSystem)(nil)
