package plugins

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/springdox/springdox/docgen/ir"
)

// Parameter naming tags, highest priority first.
var parameterNameTags = []string{"path", "schema", "query", "header"}

// parameterLocations maps a naming tag to the location it implies.
var parameterLocations = map[string]string{
	"path":   ir.ParamPath,
	"schema": ir.ParamForm,
	"query":  ir.ParamQuery,
	"header": ir.ParamHeader,
}

// ParameterName names a parameter from the first naming tag present, then the
// default name, then "param<index>". The description starts out as the name.
type ParameterName struct{}

func (ParameterName) Supports(DocumentationType) bool { return true }
func (ParameterName) Order() int                      { return HighestPrecedence }

func (ParameterName) ApplyParameter(ctx *ParameterContext) {
	name, _ := namingTag(ctx.Member.Tag)
	if name == "" {
		name = ctx.DefaultName
	}
	if name == "" {
		name = "param" + strconv.Itoa(ctx.Index)
	}
	ctx.Parameter.Name = name
	ctx.Parameter.Description = name
}

// ParameterLocation sets where a parameter is read from. The naming tag that
// named the parameter decides; untagged complex values travel in the body and
// everything else in the query string. Path parameters are always required.
type ParameterLocation struct{}

func (ParameterLocation) Supports(DocumentationType) bool { return true }
func (ParameterLocation) Order() int                      { return HighestPrecedence + 1 }

func (ParameterLocation) ApplyParameter(ctx *ParameterContext) {
	if _, key := namingTag(ctx.Member.Tag); key != "" {
		ctx.Parameter.ParamType = parameterLocations[key]
		if key == "path" {
			ctx.Parameter.Required = true
		}
		return
	}
	if ctx.ValueType != nil && ctx.ValueType.Kind() == ir.KindStruct {
		ctx.Parameter.ParamType = ir.ParamBody
		return
	}
	ctx.Parameter.ParamType = ir.ParamQuery
}

// namingTag returns the name from the highest-priority naming tag and the
// tag key it came from.
func namingTag(tag reflect.StructTag) (name, key string) {
	for _, k := range parameterNameTags {
		if v, ok := tagName(tag, k); ok {
			return v, k
		}
	}
	return "", ""
}

// tagName returns the name part of a "name,option" tag value.
func tagName(tag reflect.StructTag, key string) (string, bool) {
	v, ok := tag.Lookup(key)
	if !ok {
		return "", false
	}
	name, _, _ := strings.Cut(v, ",")
	name = strings.TrimSpace(name)
	if name == "" || name == "-" {
		return "", false
	}
	return name, true
}
