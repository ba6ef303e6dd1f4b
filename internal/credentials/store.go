package credentials

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileStore is a secrets store backed by a flat TOML file of key = "value"
// pairs. The file is read once at startup; secrets are looked up from memory
// at call time.
type FileStore struct {
	values map[string]string
}

// LoadFileStore reads the TOML secrets file at path. A missing file is not an
// error: it yields an empty store, and resolution falls through to "missing".
func LoadFileStore(path string) (*FileStore, error) {
	values := make(map[string]string)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &FileStore{values: values}, nil
		}
		return nil, fmt.Errorf("failed to read secrets file: %w", err)
	}

	if err := toml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse secrets file %s: %w", path, err)
	}

	return &FileStore{values: values}, nil
}

// Lookup implements Store.
func (s *FileStore) Lookup(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Len returns the number of secrets loaded.
func (s *FileStore) Len() int {
	return len(s.values)
}

// Static builds an in-memory store from a map. Used in tests and wiring code
// that already holds the secrets.
func Static(values map[string]string) *FileStore {
	if values == nil {
		values = make(map[string]string)
	}
	return &FileStore{values: values}
}
