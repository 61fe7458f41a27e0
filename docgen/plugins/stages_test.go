package plugins

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/springdox/springdox/docgen/ir"
)

func propertyCtx(typ *ir.TypeDescriptor, tag string) *PropertyContext {
	return &PropertyContext{
		Member:    ir.Member{Name: "Field", Type: typ, Tag: reflect.StructTag(tag)},
		Property:  &ir.Property{Name: "field", Type: typ},
		ValueType: typ,
	}
}

func TestRangeConstraint(t *testing.T) {
	i64 := ir.Primitive("int64")
	f64 := ir.Primitive("float64")

	tests := []struct {
		name string
		typ  *ir.TypeDescriptor
		tag  string
		want ir.AllowableValues
	}{
		{"positive only", i64, `validate:"gt=0"`, &ir.AllowableRange{Min: "1"}},
		{"positive or zero", i64, `validate:"gte=0"`, &ir.AllowableRange{Min: "0"}},
		{"negative", i64, `validate:"lt=0"`, &ir.AllowableRange{Max: "-1"}},
		{"min max", i64, `validate:"required,min=1,max=10"`, &ir.AllowableRange{Min: "1", Max: "10"}},
		{"float exclusive", f64, `validate:"gt=0,lt=1.5"`, &ir.AllowableRange{Min: "0", Max: "1.5", ExclusiveMin: true, ExclusiveMax: true}},
		{"string length is not a range", ir.Primitive("string"), `validate:"min=3"`, nil},
		{"no signal", i64, `validate:"required"`, nil},
		{"no tag", i64, ``, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := propertyCtx(tt.typ, tt.tag)
			RangeConstraint{}.ApplyProperty(ctx)
			assert.Equal(t, tt.want, ctx.Property.AllowableValues)
		})
	}
}

func TestRangeConstraint_Dive(t *testing.T) {
	elem := ir.Primitive("int32")
	ctx := propertyCtx(ir.Slice(elem), `validate:"min=1,dive,gt=0,max=100"`)
	ctx.ValueType = elem

	RangeConstraint{}.ApplyProperty(ctx)

	assert.Equal(t, &ir.AllowableRange{Min: "1", Max: "100"}, ctx.Property.AllowableValues)
}

func TestRangeConstraint_Parameter(t *testing.T) {
	typ := ir.Primitive("int")
	ctx := &ParameterContext{
		Member:    ir.Member{Type: typ, Tag: `validate:"gt=5"`},
		Parameter: &ir.Parameter{},
		ValueType: typ,
	}
	RangeConstraint{}.ApplyParameter(ctx)
	assert.Equal(t, &ir.AllowableRange{Min: "6"}, ctx.Parameter.AllowableValues)
}

func TestRequiredAndOneOf(t *testing.T) {
	ctx := propertyCtx(ir.Primitive("string"), `validate:"required,oneof=red green 'light blue'"`)

	RequiredConstraint{}.ApplyProperty(ctx)
	OneOfConstraint{}.ApplyProperty(ctx)

	assert.True(t, ctx.Property.Required)
	assert.Equal(t, ir.ListOf("red", "green", "light blue"), ctx.Property.AllowableValues)

	ctx = propertyCtx(ir.Primitive("string"), `validate:"omitempty,required_with=Other"`)
	RequiredConstraint{}.ApplyProperty(ctx)
	assert.False(t, ctx.Property.Required)
}

func TestEnumValues(t *testing.T) {
	color := ir.Enum("example.com/paint", "Color")
	constants := []ir.EnumConstant{
		{Name: "RED", Value: int64(0)},
		{Name: "GREEN", Value: int64(1)},
		{Name: "BLUE", Value: int64(2), Serialized: "b"},
		{Name: "AZURE", Value: int64(3), Serialized: "b"},
	}

	ctx := propertyCtx(color, "")
	ctx.EnumConstants = constants
	EnumValues{}.ApplyProperty(ctx)
	assert.Equal(t, ir.ListOf("RED", "GREEN", "b"), ctx.Property.AllowableValues)

	ctx = propertyCtx(ir.Primitive("string"), "")
	ctx.EnumConstants = constants
	EnumValues{}.ApplyProperty(ctx)
	assert.Nil(t, ctx.Property.AllowableValues, "non-enum types are left alone")

	ctx = propertyCtx(color, "")
	EnumValues{}.ApplyProperty(ctx)
	assert.Nil(t, ctx.Property.AllowableValues, "an enum without constants has no constraint")
}

func TestParameterName(t *testing.T) {
	tests := []struct {
		name        string
		tag         string
		defaultName string
		index       int
		wantName    string
		wantIn      string
	}{
		{"path wins", `path:"id" query:"q" header:"X-Id"`, "ID", 0, "id", ir.ParamPath},
		{"model attribute over query", `schema:"form" query:"q"`, "", 0, "form", ir.ParamForm},
		{"query over header", `query:"q,omitempty" header:"X-Q"`, "", 0, "q", ir.ParamQuery},
		{"header", `header:"X-Request-Id"`, "", 0, "X-Request-Id", ir.ParamHeader},
		{"default name", `json:"ignored"`, "Limit", 0, "Limit", ir.ParamQuery},
		{"dash tag ignored", `query:"-"`, "", 3, "param3", ir.ParamQuery},
		{"index fallback", ``, "", 2, "param2", ir.ParamQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := &ParameterContext{
				Index:       tt.index,
				DefaultName: tt.defaultName,
				Member:      ir.Member{Tag: reflect.StructTag(tt.tag)},
				Parameter:   &ir.Parameter{},
				ValueType:   ir.Primitive("string"),
			}
			ParameterName{}.ApplyParameter(ctx)
			ParameterLocation{}.ApplyParameter(ctx)

			assert.Equal(t, tt.wantName, ctx.Parameter.Name)
			assert.Equal(t, tt.wantName, ctx.Parameter.Description)
			assert.Equal(t, tt.wantIn, ctx.Parameter.ParamType)
			assert.Equal(t, tt.wantIn == ir.ParamPath, ctx.Parameter.Required)
		})
	}
}

func TestParameterLocation_Body(t *testing.T) {
	ctx := &ParameterContext{
		Parameter: &ir.Parameter{},
		ValueType: ir.Named("example.com/api", "User"),
	}
	ParameterLocation{}.ApplyParameter(ctx)
	assert.Equal(t, ir.ParamBody, ctx.Parameter.ParamType)
}

func TestAPIModelProperty(t *testing.T) {
	ctx := propertyCtx(ir.Primitive("int64"),
		`validate:"min=0" swagger:"description=Account id;required;readOnly;position=3;example=42;allowableValues=range[1,]"`)

	p := NewBuilder(Swagger2).Register(Defaults()...).Build()
	p.ApplyProperty(ctx)

	prop := ctx.Property
	assert.Equal(t, "Account id", prop.Description)
	assert.True(t, prop.Required)
	assert.True(t, prop.ReadOnly)
	assert.Equal(t, 3, prop.Position)
	assert.Equal(t, "42", prop.Example)
	assert.Equal(t, &ir.AllowableRange{Min: "1"}, prop.AllowableValues, "explicit options override bean validation")
}

func TestAPIModelProperty_Hidden(t *testing.T) {
	ctx := propertyCtx(ir.Primitive("string"), `swagger:"hidden"`)
	APIModelProperty{}.ApplyProperty(ctx)
	assert.True(t, ctx.Property.Hidden)

	ctx = propertyCtx(ir.Primitive("string"), `swagger:"hidden=false;allowableValues=a,b"`)
	APIModelProperty{}.ApplyProperty(ctx)
	assert.False(t, ctx.Property.Hidden)
	assert.Equal(t, ir.ListOf("a", "b"), ctx.Property.AllowableValues)
}

func TestDescriptionPrecedence(t *testing.T) {
	ctx := propertyCtx(ir.Primitive("string"), `description:"from tag"`)
	ctx.Member.Doc = "From the doc comment."

	Default(Swagger2).ApplyProperty(ctx)
	assert.Equal(t, "from tag", ctx.Property.Description)

	ctx = propertyCtx(ir.Primitive("string"), "")
	ctx.Member.Doc = "  From the doc comment.\n"
	Default(Swagger2).ApplyProperty(ctx)
	assert.Equal(t, "From the doc comment.", ctx.Property.Description)
}

func TestModelStages(t *testing.T) {
	ctx := &ModelContext{
		Type:  ir.Named("example.com/pets", "Pet"),
		Model: &ir.Model{ID: "Pet", Name: "Pet"},
		Metadata: ir.TypeMetadata{
			Description:   "A pet.",
			Discriminator: "kind",
		},
		SubTypeNames: []string{"Cat", "Dog"},
	}

	Default(Swagger2).ApplyModel(ctx)

	assert.Equal(t, "A pet.", ctx.Model.Description)
	assert.Equal(t, "kind", ctx.Model.Discriminator)
	assert.Equal(t, []string{"Cat", "Dog"}, ctx.Model.SubTypes)
}
