package conf

import (
	"gopkg.in/yaml.v3"
)

// yamlParser implements a koanf.Parser for YAML config files.
type yamlParser struct{}

func (yamlParser) Unmarshal(b []byte) (map[string]any, error) {
	var out map[string]any
	if err := yaml.Unmarshal(b, &out); err != nil {
		return nil, err
	}

	return out, nil
}

func (yamlParser) Marshal(o map[string]any) ([]byte, error) {
	return yaml.Marshal(o)
}
