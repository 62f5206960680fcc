// Package yamlutil wraps YAML parsing for config files and page front matter.
// This allows swapping the underlying YAML library without modifying callers.
package yamlutil

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/parser"
)

// MaxInputSize limits YAML input to prevent memory exhaustion (default 1MB).
var MaxInputSize = 1 << 20

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

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

func Unmarshal(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

func Marshal(v any) ([]byte, error) {
	result, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return result, nil
}

// MapSlice is a YAML mapping that keeps its key order through a decode and encode.
type MapSlice = yaml.MapSlice

// MapItem is one key/value pair of a MapSlice.
type MapItem = yaml.MapItem

// UnmarshalOrdered decodes a top-level YAML mapping without losing key order.
// Nested mappings decode as MapSlice too.
func UnmarshalOrdered(data []byte) (MapSlice, error) {
	var out MapSlice
	if err := validateInput(data, &out); err != nil {
		return nil, err
	}
	if err := yaml.UnmarshalWithOptions(data, &out, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return out, nil
}

// UnmarshalStrict rejects unknown fields in the input.
func UnmarshalStrict(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// SetTopLevel sets key to value in the top-level mapping of data and returns the
// edited document. The document is edited as a syntax tree, so comments and
// layout outside the value of key are kept. A missing key is appended at the end.
func SetTopLevel(data []byte, key string, value any) ([]byte, error) {
	if len(data) > MaxInputSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}

	encoded, err := yaml.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return Marshal(MapSlice{{Key: key, Value: value}})
	}

	file, err := parser.ParseBytes(data, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	path, err := yaml.PathString("$." + key)
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}

	if _, err := path.FilterFile(file); err != nil {
		if !errors.Is(err, yaml.ErrNotFoundNode) {
			return nil, fmt.Errorf("yamlutil: %w", err)
		}
		entry, err := Marshal(MapSlice{{Key: key, Value: value}})
		if err != nil {
			return nil, err
		}
		out := make([]byte, 0, len(data)+len(entry)+1)
		out = append(out, data...)
		if !bytes.HasSuffix(out, []byte("\n")) {
			out = append(out, '\n')
		}
		return append(out, entry...), nil
	}

	if err := path.ReplaceWithReader(file, bytes.NewReader(encoded)); err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	out := []byte(file.String())
	if !bytes.HasSuffix(out, []byte("\n")) {
		out = append(out, '\n')
	}
	return out, nil
}
