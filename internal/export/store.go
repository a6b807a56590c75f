package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// Store keeps recorded traces on disk, one directory per run holding
// trace.json and settles.csv.
type Store struct {
	baseDir string
}

func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Save(tr *Trace) (string, error) {
	if tr.ID == "" {
		return "", fmt.Errorf("export: trace has no id")
	}
	dir := filepath.Join(s.baseDir, tr.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	err := writeFile(filepath.Join(dir, "trace.json"), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tr)
	})
	if err != nil {
		return "", err
	}
	err = writeFile(filepath.Join(dir, "settles.csv"), func(w io.Writer) error {
		return TraceCSV(w, tr)
	})
	if err != nil {
		return "", err
	}
	return dir, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	return writeClose(f, write)
}

// writeClose reports the close error too: a failed flush loses the file.
func writeClose(f io.WriteCloser, write func(io.Writer) error) error {
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("export: close: %w", err)
	}
	return nil
}

func (s *Store) Load(id string) (*Trace, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, "trace.json"))
	if err != nil {
		return nil, err
	}
	var tr Trace
	if err := json.Unmarshal(data, &tr); err != nil {
		return nil, fmt.Errorf("export: %s: %w", id, err)
	}
	return &tr, nil
}

// List returns every stored trace, oldest first. Directories without a
// readable trace.json are skipped.
func (s *Store) List() ([]*Trace, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var out []*Trace
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		tr, err := s.Load(e.Name())
		if err != nil {
			continue
		}
		out = append(out, tr)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Recorded.Before(out[j].Recorded)
	})
	return out, nil
}
