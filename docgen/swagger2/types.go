// Package swagger2 maps resolved documents onto the Swagger 2.0 object model
// and encodes them as JSON or YAML.
package swagger2

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Version is the value of the top-level "swagger" field.
const Version = "2.0"

// Swagger is the root document object.
type Swagger struct {
	Swagger     string                 `json:"swagger" yaml:"swagger"`
	Info        Info                   `json:"info" yaml:"info"`
	Host        string                 `json:"host,omitempty" yaml:"host,omitempty"`
	BasePath    string                 `json:"basePath,omitempty" yaml:"basePath,omitempty"`
	Paths       map[string]any         `json:"paths" yaml:"paths"`
	Definitions OrderedMap[*Schema]    `json:"definitions,omitempty" yaml:"definitions,omitempty"`
	Parameters  OrderedMap[*Parameter] `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// Info is the API metadata block.
type Info struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Version     string `json:"version" yaml:"version"`
}

// Schema is a Swagger schema object, used for definitions, properties and
// body parameters.
type Schema struct {
	Ref         string `json:"$ref,omitempty" yaml:"$ref,omitempty"`
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`
	Format      string `json:"format,omitempty" yaml:"format,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	AllOf []*Schema `json:"allOf,omitempty" yaml:"allOf,omitempty"`

	Discriminator string              `json:"discriminator,omitempty" yaml:"discriminator,omitempty"`
	Required      []string            `json:"required,omitempty" yaml:"required,omitempty"`
	Properties    OrderedMap[*Schema] `json:"properties,omitempty" yaml:"properties,omitempty"`

	Items                *Schema `json:"items,omitempty" yaml:"items,omitempty"`
	AdditionalProperties *Schema `json:"additionalProperties,omitempty" yaml:"additionalProperties,omitempty"`

	Enum             []string `json:"enum,omitempty" yaml:"enum,omitempty"`
	Minimum          *Number  `json:"minimum,omitempty" yaml:"minimum,omitempty"`
	ExclusiveMinimum bool     `json:"exclusiveMinimum,omitempty" yaml:"exclusiveMinimum,omitempty"`
	Maximum          *Number  `json:"maximum,omitempty" yaml:"maximum,omitempty"`
	ExclusiveMaximum bool     `json:"exclusiveMaximum,omitempty" yaml:"exclusiveMaximum,omitempty"`

	ReadOnly bool   `json:"readOnly,omitempty" yaml:"readOnly,omitempty"`
	Example  string `json:"example,omitempty" yaml:"example,omitempty"`
}

// Parameter is a Swagger parameter object. Body parameters carry a Schema;
// the others describe their value inline.
type Parameter struct {
	Name        string  `json:"name" yaml:"name"`
	In          string  `json:"in" yaml:"in"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool    `json:"required,omitempty" yaml:"required,omitempty"`
	Schema      *Schema `json:"schema,omitempty" yaml:"schema,omitempty"`

	Type             string   `json:"type,omitempty" yaml:"type,omitempty"`
	Format           string   `json:"format,omitempty" yaml:"format,omitempty"`
	Items            *Schema  `json:"items,omitempty" yaml:"items,omitempty"`
	CollectionFormat string   `json:"collectionFormat,omitempty" yaml:"collectionFormat,omitempty"`
	Default          string   `json:"default,omitempty" yaml:"default,omitempty"`
	Enum             []string `json:"enum,omitempty" yaml:"enum,omitempty"`
	Minimum          *Number  `json:"minimum,omitempty" yaml:"minimum,omitempty"`
	ExclusiveMinimum bool     `json:"exclusiveMinimum,omitempty" yaml:"exclusiveMinimum,omitempty"`
	Maximum          *Number  `json:"maximum,omitempty" yaml:"maximum,omitempty"`
	ExclusiveMaximum bool     `json:"exclusiveMaximum,omitempty" yaml:"exclusiveMaximum,omitempty"`
	Example          string   `json:"x-example,omitempty" yaml:"x-example,omitempty"`
}

// Number is a numeric literal in canonical JSON form. Integers keep every
// digit, so bounds such as int64 extremes survive encoding unchanged.
type Number string

// NewNumber returns the canonical form of s, or nil unless s is a finite
// number. Go literal forms such as ".5", "+1" or "1_000" are rewritten.
func NewNumber(s string) *Number {
	var n Number
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		n = Number(strconv.FormatInt(i, 10))
	} else if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		n = Number(strconv.FormatUint(u, 10))
	} else if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		n = Number(strconv.FormatFloat(f, 'g', -1, 64))
	} else {
		return nil
	}
	return &n
}

// MarshalJSON writes the number unquoted.
func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n), nil
}

// MarshalYAML writes the number as an int or float scalar.
func (n Number) MarshalYAML() (any, error) {
	tag := "!!float"
	if _, err := strconv.ParseInt(string(n), 10, 64); err == nil {
		tag = "!!int"
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: string(n)}, nil
}

// Entry is one key/value pair of an OrderedMap.
type Entry[V any] struct {
	Key   string
	Value V
}

// OrderedMap is a JSON/YAML object whose keys keep insertion order.
type OrderedMap[V any] []Entry[V]

// Set appends key, or replaces its value if present.
func (m *OrderedMap[V]) Set(key string, value V) {
	for i := range *m {
		if (*m)[i].Key == key {
			(*m)[i].Value = value
			return
		}
	}
	*m = append(*m, Entry[V]{Key: key, Value: value})
}

// Get returns the value stored under key.
func (m OrderedMap[V]) Get(key string) (V, bool) {
	for _, e := range m {
		if e.Key == key {
			return e.Value, true
		}
	}
	var zero V
	return zero, false
}

// Keys returns the keys in order.
func (m OrderedMap[V]) Keys() []string {
	keys := make([]string, len(m))
	for i, e := range m {
		keys[i] = e.Key
	}
	return keys
}

// MarshalJSON implements json.Marshaler.
func (m OrderedMap[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML implements yaml.Marshaler.
func (m OrderedMap[V]) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range m {
		var value yaml.Node
		if err := value.Encode(e.Value); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key},
			&value)
	}
	return node, nil
}
