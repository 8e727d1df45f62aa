package codec

import (
	"bytes"
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

func unmarshalTOML(data []byte, v any, strict bool) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("codec: toml: %w", err)
	}
	return nil
}

func marshalTOML(v any) ([]byte, error) {
	out, err := toml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("codec: toml: %w", err)
	}
	return out, nil
}
