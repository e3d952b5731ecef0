package conf

import (
	"errors"
	"strings"

	"github.com/knadh/koanf/maps"
	"github.com/knadh/koanf/parsers/dotenv"
)

// envFileParser reads .env files using the same key scheme as the
// environment provider.
type envFileParser struct {
	prefix    string
	transform func(string) string
}

func (p envFileParser) Unmarshal(b []byte) (map[string]any, error) {
	raw, err := dotenv.Parser().Unmarshal(b)
	if err != nil {
		return nil, err
	}

	out := make(map[string]any, len(raw))
	for key, value := range raw {
		if !strings.HasPrefix(key, p.prefix) {
			continue
		}
		out[p.transform(key)] = value
	}

	return maps.Unflatten(out, "."), nil
}

func (p envFileParser) Marshal(map[string]any) ([]byte, error) {
	return nil, errors.New("env file parser does not support marshalling")
}
