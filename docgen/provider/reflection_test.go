package provider

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/springdox/springdox/docgen/ir"
	"github.com/springdox/springdox/docgen/plugins"
	"github.com/springdox/springdox/docgen/schema"
	"github.com/springdox/springdox/internal/testfixtures"
)

func TestReflectionProvider_Describe(t *testing.T) {
	p := NewReflectionProvider().WithEnum(testfixtures.Red, testfixtures.Green, testfixtures.Blue)

	tests := []struct {
		typ  reflect.Type
		want string
	}{
		{reflect.TypeFor[testfixtures.Account](), fixtures + ".Account"},
		{reflect.TypeFor[*testfixtures.Node](), fixtures + ".Node"},
		{reflect.TypeFor[testfixtures.Color](), fixtures + ".Color"},
		{reflect.TypeFor[testfixtures.Email](), "string"},
		{reflect.TypeFor[[]byte](), "[]uint8"},
		{reflect.TypeFor[map[string]*testfixtures.Node](), "map[string]" + fixtures + ".Node"},
		{reflect.TypeFor[any](), "any"},
		{reflect.TypeFor[chan int](), "chan int"},
		{reflect.TypeFor[testfixtures.Page[testfixtures.Account]](), fixtures + ".Page[" + fixtures + ".Account]"},
		{reflect.TypeFor[testfixtures.Page[[]string]](), fixtures + ".Page[[]string]"},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, p.Describe(tt.typ).Key())
		})
	}

	assert.Equal(t, ir.KindEnum, p.Describe(reflect.TypeFor[testfixtures.Color]()).Kind())
	assert.Equal(t, ir.KindPrimitive, p.Describe(reflect.TypeFor[testfixtures.Status]()).Kind(), "unregistered enums are plain values")
}

func TestReflectionProvider_Members(t *testing.T) {
	p := NewReflectionProvider()
	session := p.Describe(reflect.TypeFor[testfixtures.Session]())

	members, err := p.Members(session)
	require.NoError(t, err)

	want := map[string]string{
		"ID":      "github.com/google/uuid.UUID",
		"TTL":     "time.Duration",
		"Payload": "encoding/json.RawMessage",
		"Token":   "[]uint8",
		"Meta":    fixtures + ".SessionMeta",
		"Events":  "chan string",
	}
	require.Len(t, members, len(want))
	for _, m := range members {
		assert.Equal(t, want[m.Name], m.Type.Key(), m.Name)
	}

	meta, err := p.Members(ir.Named(fixtures, "SessionMeta"))
	require.NoError(t, err)
	require.Len(t, meta, 1)
	assert.Equal(t, `json:"agent"`, string(meta[0].Tag))

	_, err = p.Members(ir.Named(fixtures, "Undescribed"))
	assert.ErrorIs(t, err, ErrTypeNotFound)
}

func TestReflectionProvider_AnonymousStructNames(t *testing.T) {
	p := NewReflectionProvider()
	p.Describe(reflect.TypeFor[testfixtures.LedgerMeta]())
	ledger := p.Describe(reflect.TypeFor[testfixtures.Ledger]())

	members, err := p.Members(ledger)
	require.NoError(t, err)
	assert.Equal(t, fixtures+".LedgerMeta2", members[0].Type.Key(), "declared names are not reused")

	declared, err := p.Members(ir.Named(fixtures, "LedgerMeta"))
	require.NoError(t, err)
	assert.Equal(t, "Owner", declared[0].Name)

	numbers := p.Describe(reflect.TypeFor[testfixtures.Envelope[int]]())
	names := p.Describe(reflect.TypeFor[testfixtures.Envelope[string]]())
	var metas []*ir.TypeDescriptor
	for _, env := range []*ir.TypeDescriptor{numbers, names} {
		members, err := p.Members(env)
		require.NoError(t, err)
		metas = append(metas, members[0].Type)
	}
	assert.Equal(t, fixtures+".EnvelopeMeta[int]", metas[0].Key())
	assert.Equal(t, fixtures+".EnvelopeMeta[string]", metas[1].Key())

	value, err := p.Members(metas[0])
	require.NoError(t, err)
	assert.Equal(t, "int", value[0].Type.Key())
	value, err = p.Members(metas[1])
	require.NoError(t, err)
	assert.Equal(t, "string", value[0].Type.Key())
}

func TestReflectionProvider_EnumConstants(t *testing.T) {
	p := NewReflectionProvider().WithEnum(testfixtures.Red, testfixtures.Green, testfixtures.Blue)
	color := p.Describe(reflect.TypeFor[testfixtures.Color]())

	constants, err := p.EnumConstants(color)
	require.NoError(t, err)
	require.Len(t, constants, 3)
	assert.Equal(t, "BLUE", constants[2].Name)
	assert.Equal(t, "b", constants[2].Serialized)
	assert.Equal(t, []string{"RED", "GREEN", "b"}, plugins.EnumStrings(constants))
}

func TestReflectionProvider_WithEnumMixedTypes(t *testing.T) {
	assert.Panics(t, func() {
		NewReflectionProvider().WithEnum(testfixtures.Red, testfixtures.StatusActive)
	})
}

func TestReflectionProvider_TypeMetadata(t *testing.T) {
	p := NewReflectionProvider()
	pet := p.Describe(reflect.TypeFor[testfixtures.Pet]())
	cat := p.Describe(reflect.TypeFor[testfixtures.Cat]())

	md, err := p.TypeMetadata(pet)
	require.NoError(t, err)
	assert.Equal(t, "Pet is any animal.", md.Description)
	assert.Equal(t, "kind", md.Discriminator)
	require.Len(t, md.SubTypes, 2)
	assert.True(t, cat.Equal(md.SubTypes[0]))

	md, err = p.TypeMetadata(cat)
	require.NoError(t, err)
	assert.True(t, md.IsZero(), "methods promoted from Pet do not describe Cat")
}

type exploding struct{}

func (exploding) SchemaDescription() string { panic("boom") }

func TestReflectionProvider_TypeMetadataPanics(t *testing.T) {
	p := NewReflectionProvider()
	d := p.Describe(reflect.TypeFor[exploding]())

	_, err := p.TypeMetadata(d)
	assert.ErrorContains(t, err, "boom")
}

func TestReflectionProvider_Resolve(t *testing.T) {
	p := NewReflectionProvider().WithEnum(testfixtures.Red, testfixtures.Green, testfixtures.Blue)
	root := p.Describe(reflect.TypeFor[testfixtures.Account]())

	res, err := schema.NewResolver(p).Resolve(context.Background(), root)
	require.NoError(t, err)

	var ids []string
	for _, m := range res.Models {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"User", "b.User", "Account"}, ids)

	colors := res.Models[2].Property("colors")
	require.NotNil(t, colors)
	assert.Equal(t, ir.ContainerList, colors.ModelRef.Container)
	assert.Equal(t, ir.ListOf("RED", "GREEN", "b"), colors.ModelRef.Item.AllowableValues)
}

func TestReflectionProvider_ResolveGeneric(t *testing.T) {
	p := NewReflectionProvider()
	root := p.Describe(reflect.TypeFor[testfixtures.Directory]())

	res, err := schema.NewResolver(p).Resolve(context.Background(), root)
	require.NoError(t, err)

	var ids []string
	for _, m := range res.Models {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"User", "b.User", "Account", "Page<Account>", "Directory"}, ids)
}
