package dataset

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

const builtinPrefix = "builtin:"

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Builtins lists the embedded dataset names
func Builtins() []string {
	entries, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	sort.Strings(names)
	return names
}

// IsBuiltin reports whether name is an embedded dataset
func IsBuiltin(name string) bool {
	for _, n := range Builtins() {
		if n == name {
			return true
		}
	}
	return false
}

// Builtin loads an embedded dataset by name
func Builtin(name string) (*Dataset, error) {
	data, err := builtinFS.ReadFile("builtin/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("unknown built-in dataset %q (available: %s)", name, strings.Join(Builtins(), ", "))
	}
	ds, err := NewYAMLLoader().Load(bytes.NewReader(data), name)
	if err != nil {
		return nil, fmt.Errorf("built-in %s: %w", name, err)
	}
	ds.Source = builtinPrefix + name
	return ds, nil
}
