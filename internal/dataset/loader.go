package dataset

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Loader parses one file format
type Loader interface {
	// Name returns the format name
	Name() string

	// CanHandle checks if this loader understands the given path
	CanHandle(path string) bool

	// Load parses a dataset; name is used when the file does not carry one
	Load(r io.Reader, name string) (*Dataset, error)
}

// Registry picks a loader by file extension
type Registry struct {
	loaders  []Loader
	fallback Loader
}

// NewRegistry creates a registry with the YAML, JSON and CSV loaders
func NewRegistry() *Registry {
	r := &Registry{}
	r.Register(NewYAMLLoader())
	r.Register(NewJSONLoader())
	r.Register(NewCSVLoader())

	// YAML is a superset of JSON, so it is the safest guess
	r.fallback = NewYAMLLoader()
	return r
}

// Register adds a loader; later registrations are tried last
func (r *Registry) Register(l Loader) {
	r.loaders = append(r.loaders, l)
}

// Find returns the loader for path
func (r *Registry) Find(path string) Loader {
	for _, l := range r.loaders {
		if l.CanHandle(path) {
			return l
		}
	}
	return r.fallback
}

// LoadFile opens and parses a dataset file
func (r *Registry) LoadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	l := r.Find(path)
	ds, err := l.Load(f, name)
	if err != nil {
		return nil, fmt.Errorf("load %s (%s): %w", path, l.Name(), err)
	}
	ds.Source = path
	return ds, nil
}

// Open resolves a built-in name ("party" or "builtin:party") or a file path
func Open(ref string) (*Dataset, error) {
	if name, ok := strings.CutPrefix(ref, builtinPrefix); ok {
		return Builtin(name)
	}
	if _, err := os.Stat(ref); err != nil && IsBuiltin(ref) {
		return Builtin(ref)
	}
	return NewRegistry().LoadFile(ref)
}

func hasExt(path string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
