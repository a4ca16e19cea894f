// Package confkit holds small helpers shared by the configuration layer:
// dotenv bootstrap, path resolution relative to the main config file, and
// hydration of config sections that live in their own files.
package confkit

import (
	"os"
	"path/filepath"
)

// ResolvePath resolves a file path relative to a base directory after
// expanding environment variables. Absolute paths are returned as-is.
func ResolvePath(base, file string) string {
	file = os.ExpandEnv(file)
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(base, file)
}

// BaseDir returns the directory of the main config file path.
func BaseDir(mainPath string) string {
	return filepath.Dir(mainPath)
}

// Section is a piece of configuration that lives in its own file next to the
// main one. Only the file name is unmarshalled from the main config; the
// parsed value is filled in by Hydrate.
type Section[T any] struct {
	File  string `json:",optional"`
	Value *T     `json:"-"`
}

// Hydrate loads the section's file through the supplied loader and stores the
// result in Value. File is rewritten to the resolved absolute path. A section
// with no File configured is left empty; that is not an error.
func (s *Section[T]) Hydrate(base string, loader func(string) (*T, error)) error {
	if s.File == "" {
		return nil
	}
	p := ResolvePath(base, s.File)
	v, err := loader(p)
	if err != nil {
		return err
	}
	s.File, s.Value = p, v
	return nil
}
