package params

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
)

// FileStore keeps the parameters in a JSON file. Saves write a temp file and rename it into place
// so a failed save never leaves a partial file behind.
type FileStore struct {
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, ErrNoStorePath
	}
	return &FileStore{path: path}, nil
}

func (f *FileStore) Path() string {
	return f.path
}

// Load reads the file. A missing file returns zero parameters with ErrMissingParameters.
func (f *FileStore) Load() (Parameters, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Parameters{}, fmt.Errorf("%s does not exist, %w", f.path, ErrMissingParameters)
		}
		return Parameters{}, fmt.Errorf("unable to read parameter file, %w", err)
	}

	var p Parameters
	if err := json.Unmarshal(data, &p); err != nil {
		return Parameters{}, fmt.Errorf("unable to decode %s, %w", f.path, errors.Join(ErrMalformedValue, err))
	}
	return p, nil
}

func (f *FileStore) Save(p Parameters) error {
	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("unable to create parameter directory, %w", err)
		}
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to encode parameters, %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("unable to write parameter file, %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("unable to replace parameter file, %w", err)
	}
	return nil
}
