// Package plugins implements the enrichment pipeline: ordered, independent
// stages that contribute descriptions, required flags, allowable values and
// names to models, properties and parameters.
//
// Stages are plain values registered once through a Builder. Each stage
// declares which documentation types it supports and, optionally, an order.
// The Builder keeps only supported stages and sorts them by ascending order;
// when several stages write the same field the last one to run wins.
package plugins

import (
	"fmt"
	"math"

	"github.com/springdox/springdox/docgen/ir"
)

// DocumentationType identifies the output format a pipeline is built for.
type DocumentationType string

const (
	Swagger12 DocumentationType = "swagger_12"
	Swagger2  DocumentationType = "swagger_2"
	OpenAPI3  DocumentationType = "openapi_3"
)

// ParseDocumentationType validates a documentation type name.
func ParseDocumentationType(s string) (DocumentationType, error) {
	switch DocumentationType(s) {
	case Swagger12, Swagger2, OpenAPI3:
		return DocumentationType(s), nil
	case "":
		return Swagger2, nil
	}
	return "", fmt.Errorf("unknown documentation type %q", s)
}

// Stage order constants. Lower values run first.
const (
	HighestPrecedence  = math.MinInt32
	BeanValidatorOrder = HighestPrecedence + 500
	SwaggerOrder       = HighestPrecedence + 1000
	LowestPrecedence   = math.MaxInt32
)

// Plugin is the capability every stage provides.
type Plugin interface {
	Supports(docType DocumentationType) bool
}

// Ordered is implemented by stages that declare their position in the
// pipeline. Stages without it run at LowestPrecedence.
type Ordered interface {
	Order() int
}

// PropertyPlugin enriches a property of a model being built.
type PropertyPlugin interface {
	Plugin
	ApplyProperty(ctx *PropertyContext)
}

// ModelPlugin enriches a model after its properties are complete.
type ModelPlugin interface {
	Plugin
	ApplyModel(ctx *ModelContext)
}

// ParameterPlugin enriches a request parameter.
type ParameterPlugin interface {
	Plugin
	ApplyParameter(ctx *ParameterContext)
}

// PropertyContext is the in-flight state handed to property stages.
type PropertyContext struct {
	// Owner is the model type declaring the property.
	Owner *ir.TypeDescriptor

	// Member is the declared member the property was extracted from.
	Member ir.Member

	// Property is the property under construction. Stages write to it.
	Property *ir.Property

	// ValueType is the member type with containers unwrapped: the element
	// type of a slice, the value type of a map.
	ValueType *ir.TypeDescriptor

	// EnumConstants holds the constants of ValueType when it is an enum.
	EnumConstants []ir.EnumConstant

	DocumentationType DocumentationType
}

// ModelContext is the in-flight state handed to model stages.
type ModelContext struct {
	Type     *ir.TypeDescriptor
	Model    *ir.Model
	Metadata ir.TypeMetadata

	// SubTypeNames are the model names resolved for Metadata.SubTypes.
	SubTypeNames []string

	DocumentationType DocumentationType
}

// ParameterContext is the in-flight state handed to parameter stages.
type ParameterContext struct {
	// Index is the parameter's position in its request type.
	Index int

	// DefaultName is the name discovered without any naming tag, usually the
	// Go field name. Empty when unknown.
	DefaultName string

	Member    ir.Member
	Parameter *ir.Parameter
	ValueType *ir.TypeDescriptor

	EnumConstants []ir.EnumConstant

	DocumentationType DocumentationType
}

func orderOf(p Plugin) int {
	if o, ok := p.(Ordered); ok {
		return o.Order()
	}
	return LowestPrecedence
}

// swaggerDocumentation reports the documentation types the swagger-specific
// stages contribute to.
func swaggerDocumentation(docType DocumentationType) bool {
	switch docType {
	case Swagger12, Swagger2, OpenAPI3:
		return true
	}
	return false
}
