package blob

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// LocalStore reads and writes datasets under a local directory. It mirrors
// S3Store's layout (<dir>/<dataset>/part-00000.json) for development and
// tests.
type LocalStore struct {
	dir string
}

// NewLocalStore creates a store rooted at dir, creating it if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}
	return &LocalStore{dir: dir}, nil
}

// WriteDataset fully replaces the named dataset directory.
func (l *LocalStore) WriteDataset(_ context.Context, dataset string, data []byte) error {
	dir := filepath.Join(l.dir, dataset)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("clearing dataset %s: %w", dataset, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating dataset %s: %w", dataset, err)
	}
	path := filepath.Join(dir, "part-00000.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing dataset %s: %w", dataset, err)
	}
	return nil
}

// ReadAll concatenates every regular file directly under the store's root,
// in name order.
func (l *LocalStore) ReadAll(_ context.Context) ([]byte, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", l.dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var buf bytes.Buffer
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(l.dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		buf.Write(data)
		if buf.Len() > 0 && buf.Bytes()[buf.Len()-1] != '\n' {
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes(), nil
}
