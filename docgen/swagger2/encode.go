package swagger2

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Encoding formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// EncodeJSON renders s as indented JSON.
func EncodeJSON(s *Swagger) ([]byte, error) {
	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return append(out, '\n'), nil
}

// EncodeYAML renders s as YAML with two-space indentation.
func EncodeYAML(s *Swagger) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// Encode renders s in the named format. An empty format means JSON.
func Encode(s *Swagger, format string) ([]byte, error) {
	switch format {
	case "", FormatJSON:
		return EncodeJSON(s)
	case FormatYAML:
		return EncodeYAML(s)
	}
	return nil, fmt.Errorf("unsupported format %q (want json or yaml)", format)
}

// ContentType returns the media type of the named format.
func ContentType(format string) string {
	if format == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}
