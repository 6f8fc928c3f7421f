package destinations

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/guillermoBallester/chsink/internal/core/domain"
	"github.com/guillermoBallester/chsink/internal/core/port"
	"gopkg.in/yaml.v3"
)

// File holds operator-managed destinations loaded from a YAML file.
//
//	destinations:
//	  prod:
//	    endpoint: https://XYZ.eu-west-1.aws.clickhouse.cloud:8443
//	    database: analytics
//	    table: edgee
//	    password: secret
type File struct {
	Destinations map[string]Settings `yaml:"destinations"`
}

// Settings keeps the raw key/value pairs of one destination in file order.
type Settings domain.Dict

func (s *Settings) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: destination settings must be a mapping", value.Line)
	}
	out := make(Settings, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		k, v := value.Content[i], value.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: setting %q must be a scalar", v.Line, k.Value)
		}
		out = append(out, [2]string{k.Value, v.Value})
	}
	*s = out
	return nil
}

// Source serves destinations from a loaded File.
type Source struct {
	destinations map[string]domain.Dict
	names        []string
}

var _ port.SettingsSource = (*Source)(nil)

// NewSource validates f and returns a SettingsSource backed by it.
func NewSource(f *File) (*Source, error) {
	if err := validate(f); err != nil {
		return nil, err
	}
	src := &Source{destinations: make(map[string]domain.Dict, len(f.Destinations))}
	for name, s := range f.Destinations {
		src.destinations[name] = domain.Dict(s)
		src.names = append(src.names, name)
	}
	sort.Strings(src.names)
	return src, nil
}

func (s *Source) List(context.Context) ([]string, error) {
	return slices.Clone(s.names), nil
}

func (s *Source) Lookup(_ context.Context, name string) (domain.Dict, error) {
	d, ok := s.destinations[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrDestinationNotFound, name)
	}
	return slices.Clone(d), nil
}

func validate(f *File) error {
	for name, s := range f.Destinations {
		if name == "" {
			return fmt.Errorf("destinations contains an empty key")
		}
		if _, err := domain.ResolveSettings(domain.Dict(s)); err != nil {
			return fmt.Errorf("destinations[%q]: %w", name, err)
		}
	}
	return nil
}
