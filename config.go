package springdox

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/viant/tagly/format/text"
	"gopkg.in/yaml.v3"

	"github.com/springdox/springdox/docgen/ir"
	"github.com/springdox/springdox/docgen/plugins"
	"github.com/springdox/springdox/docgen/schema"
	"github.com/springdox/springdox/docgen/swagger2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails for an empty tag or a nil function.
	_ = v.RegisterValidation("caseformat", func(fl validator.FieldLevel) bool {
		return text.NewCaseFormat(fl.Field().String()).IsDefined()
	})
	return v
}

// Config is the file form of a Docket.
//
//	group: admin
//	title: Admin API
//	version: "1.2"
//	basePath: /admin
//	propertyCase: lc
//	ignoredTypes:
//	  - example.com/audit.Trail
type Config struct {
	Group             string   `yaml:"group"`
	DocumentationType string   `yaml:"documentationType" validate:"omitempty,oneof=swagger_12 swagger_2 openapi_3"`
	Title             string   `yaml:"title" validate:"required"`
	Description       string   `yaml:"description"`
	Version           string   `yaml:"version" validate:"required"`
	Host              string   `yaml:"host" validate:"omitempty,hostname_port|hostname"`
	BasePath          string   `yaml:"basePath" validate:"omitempty,startswith=/"`
	PropertyCase      string   `yaml:"propertyCase" validate:"omitempty,caseformat"`
	IgnoredTypes      []string `yaml:"ignoredTypes" validate:"dive,required,contains=."`
	Format            string   `yaml:"format" validate:"omitempty,oneof=json yaml"`
}

// LoadConfig reads and validates the YAML configuration at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes and validates a YAML configuration. Unknown keys are
// rejected.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration. Validation failures are
// validator.ValidationErrors.
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// Apply copies the configuration onto d.
func (c *Config) Apply(d *Docket) error {
	dt, err := plugins.ParseDocumentationType(c.DocumentationType)
	if err != nil {
		return fmt.Errorf("%w: %v", schema.ErrInvalidInput, err)
	}
	if c.Group != "" {
		d.group = c.Group
	}
	d.WithDocumentationType(dt).
		WithInfo(swagger2.Info{Title: c.Title, Description: c.Description, Version: c.Version}).
		WithHost(c.Host).
		WithBasePath(c.BasePath)
	if c.PropertyCase != "" {
		d.WithPropertyCase(text.NewCaseFormat(c.PropertyCase))
	}
	for _, name := range c.IgnoredTypes {
		d.WithIgnoredTypes(QualifiedType(name))
	}
	return nil
}

// Docket returns a new docket configured from c.
func (c *Config) Docket(source schema.TypeSource) (*Docket, error) {
	d := NewDocket(c.Group, source)
	if err := c.Apply(d); err != nil {
		return nil, err
	}
	return d, nil
}

// QualifiedType returns a named descriptor for "import/path.Name".
func QualifiedType(name string) *ir.TypeDescriptor {
	slash := strings.LastIndex(name, "/")
	dot := strings.LastIndex(name, ".")
	if dot <= slash {
		return ir.Named("", name)
	}
	return ir.Named(name[:dot], name[dot+1:])
}
