package strategy

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadStrategies reads all .yaml files in dir and parses each as a Strategy.
// An empty dir argument yields no strategies.
//
// Precondition: dir must be a readable directory path when non-empty.
// Postcondition: Returns all parsed, validated strategies or a non-nil error.
func LoadStrategies(dir string) ([]Strategy, error) {
	if dir == "" {
		return nil, nil
	}
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	strategies := make([]Strategy, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var s Strategy
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("parsing strategy file %s: %w", path, err)
		}
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("validating strategy file %s: %w", path, err)
		}
		strategies = append(strategies, s)
	}
	return strategies, nil
}

func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	return paths, nil
}
