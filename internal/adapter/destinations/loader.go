package destinations

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFromFile reads a YAML destinations file and returns a validated Source.
func LoadFromFile(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading destinations file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing destinations YAML: %w", err)
	}

	src, err := NewSource(&f)
	if err != nil {
		return nil, fmt.Errorf("validating destinations: %w", err)
	}
	return src, nil
}
