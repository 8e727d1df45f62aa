package codec

import (
	"fmt"

	"github.com/goccy/go-yaml"
)

func unmarshalYAML(data []byte, v any, strict bool) error {
	var err error
	if strict {
		err = yaml.UnmarshalWithOptions(data, v, yaml.Strict())
	} else {
		err = yaml.Unmarshal(data, v)
	}
	if err != nil {
		return fmt.Errorf("codec: yaml: %w", err)
	}
	return nil
}

func marshalYAML(v any) ([]byte, error) {
	out, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("codec: yaml: %w", err)
	}
	return out, nil
}
