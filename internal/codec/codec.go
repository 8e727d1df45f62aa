// Package codec decodes configuration documents in YAML or TOML.
// Callers pick a Format; the underlying libraries stay behind this package.
package codec

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// MaxInputSize limits input to prevent memory exhaustion (default 1MB).
var MaxInputSize = 1 << 20

var (
	ErrNilData           = errors.New("codec: nil or empty data")
	ErrNilDestination    = errors.New("codec: nil destination pointer")
	ErrInputTooLarge     = errors.New("codec: input exceeds maximum size")
	ErrUnsupportedFormat = errors.New("codec: unsupported format")
)

// Format names a document syntax.
type Format string

const (
	YAML Format = "yaml"
	TOML Format = "toml"
)

// Extensions lists the file extensions recognized by FormatFromPath, in lookup order.
var Extensions = []string{".yaml", ".yml", ".toml"}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func validateInput(data []byte, v any) error {
	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

// Unmarshal decodes data into v, ignoring unknown fields.
func Unmarshal(f Format, data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	switch f {
	case YAML:
		return unmarshalYAML(data, v, false)
	case TOML:
		return unmarshalTOML(data, v, false)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

// UnmarshalStrict decodes data into v and rejects unknown fields.
func UnmarshalStrict(f Format, data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	switch f {
	case YAML:
		return unmarshalYAML(data, v, true)
	case TOML:
		return unmarshalTOML(data, v, true)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

// Marshal encodes v in the given format.
func Marshal(f Format, v any) ([]byte, error) {
	switch f {
	case YAML:
		return marshalYAML(v)
	case TOML:
		return marshalTOML(v)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}
