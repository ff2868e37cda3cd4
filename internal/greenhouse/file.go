package greenhouse

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// storeFile is the on-disk layout of a greenhouse file.
type storeFile struct {
	Categories []CategoryConfig `yaml:"categories"`
}

// Save writes every category configuration to a YAML file.
func (s *Store) Save(path string) error {
	s.mu.RLock()
	file := storeFile{Categories: make([]CategoryConfig, 0, len(s.categories))}
	for _, c := range s.categories {
		file.Categories = append(file.Categories, *c)
	}
	s.mu.RUnlock()

	sort.Slice(file.Categories, func(i, j int) bool {
		return file.Categories[i].Name < file.Categories[j].Name
	})

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(&file)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadStore reads a greenhouse file into a fresh store. No events fire
// during loading; subscribers attach to the returned store afterward.
func LoadStore(path string, log *zap.SugaredLogger) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading greenhouse file %s: %w", path, err)
	}

	var file storeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing greenhouse file %s: %w", path, err)
	}

	s := NewStore(log)
	for _, c := range file.Categories {
		cfg := c
		s.categories[cfg.Name] = &cfg
	}
	return s, nil
}
