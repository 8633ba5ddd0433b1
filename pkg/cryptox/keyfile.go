package cryptox

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// loadOrCreate returns the contents of path, or calls gen and persists its
// output with owner-only permissions when the file is missing.
func loadOrCreate(path string, gen func() ([]byte, error)) ([]byte, error) {
	path = filepath.Clean(path)

	data, err := os.ReadFile(path)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	data, err = gen()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return nil, err
	}
	return data, nil
}
