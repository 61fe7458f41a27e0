package springdox

import (
	"bytes"
	"context"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/tagly/format/text"

	"github.com/springdox/springdox/docgen/ir"
	"github.com/springdox/springdox/docgen/plugins"
	"github.com/springdox/springdox/docgen/provider"
	"github.com/springdox/springdox/docgen/schema"
	"github.com/springdox/springdox/docgen/swagger2"
	"github.com/springdox/springdox/internal/testfixtures"
)

const fixtures = "github.com/springdox/springdox/internal/testfixtures"

type widget struct {
	DisplayName string
	PartNumber  int `json:"sku"`
}

func accountDocket(t *testing.T) (*Docket, *provider.ReflectionProvider) {
	t.Helper()
	p := provider.NewReflectionProvider().WithEnum(testfixtures.Red, testfixtures.Green, testfixtures.Blue)
	d := NewDocket("", p).
		WithInfo(swagger2.Info{Title: "Accounts", Version: "1.0"}).
		WithBasePath("/api").
		WithModels(p.Describe(reflect.TypeFor[testfixtures.Account]())).
		WithParameters(p.Describe(reflect.TypeFor[testfixtures.GetAccountRequest]()))
	return d, p
}

func modelIDs(doc *ir.Document) []string {
	ids := make([]string, 0, len(doc.Models))
	for _, m := range doc.Models {
		ids = append(ids, m.ID)
	}
	return ids
}

func TestDocket_Document(t *testing.T) {
	d, _ := accountDocket(t)
	assert.Equal(t, DefaultGroup, d.Group())

	doc, err := d.Document(context.Background())
	require.NoError(t, err)

	assert.Equal(t, DefaultGroup, doc.Group)
	assert.Equal(t, string(plugins.Swagger2), doc.DocumentationType)
	assert.Equal(t, []string{"User", "b.User", "Account"}, modelIDs(doc))

	var names []string
	for _, p := range doc.Parameters {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"id", "expand", "X-Trace-Id", "limit"}, names)
	assert.Equal(t, ir.ParamPath, doc.Parameters[0].ParamType)
	assert.True(t, doc.Parameters[0].Required)
	assert.Equal(t, ir.ParamHeader, doc.Parameters[2].ParamType)
	assert.Equal(t, ir.RangeOf("1", "100"), doc.Parameters[3].AllowableValues)
}

func TestDocket_SharedModelsAppearOnce(t *testing.T) {
	p := provider.NewReflectionProvider()
	d := NewDocket("dir", p).WithModels(
		p.Describe(reflect.TypeFor[testfixtures.Account]()),
		p.Describe(reflect.TypeFor[testfixtures.Directory]()),
	)

	doc, err := d.Document(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"User", "b.User", "Account", "Page<Account>", "Directory"}, modelIDs(doc))
	assert.Empty(t, doc.Validate())
}

func TestDocket_AlternateRules(t *testing.T) {
	p := provider.NewReflectionProvider()
	d := NewDocket("", p).
		WithModels(p.Describe(reflect.TypeFor[testfixtures.Directory]())).
		WithAlternateRules(schema.NewRule(ir.Named(fixtures, "Page", ir.Wildcard()), ir.Slice(ir.Wildcard())))

	doc, err := d.Document(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"User", "b.User", "Account", "Directory"}, modelIDs(doc))

	accounts := doc.FindModel("Directory").Property("accounts")
	require.NotNil(t, accounts)
	assert.Equal(t, ir.ContainerList, accounts.ModelRef.Container)
	assert.Equal(t, "Account", accounts.ModelRef.Item.Type)
}

func TestDocket_IgnoredTypes(t *testing.T) {
	p := provider.NewReflectionProvider()
	d := NewDocket("", p).
		WithModels(p.Describe(reflect.TypeFor[testfixtures.Account]())).
		WithIgnoredTypes(QualifiedType(fixtures + ".Audit"))

	doc, err := d.Document(context.Background())
	require.NoError(t, err)
	account := doc.FindModel("Account")
	require.NotNil(t, account)
	assert.Nil(t, account.Property("updatedBy"))
	assert.NotNil(t, account.Property("balance"))
}

func TestDocket_PropertyCase(t *testing.T) {
	p := provider.NewReflectionProvider()
	d := NewDocket("", p).
		WithModels(p.Describe(reflect.TypeFor[widget]())).
		WithPropertyCase(text.CaseFormatLowerCamel)

	doc, err := d.Document(context.Background())
	require.NoError(t, err)
	require.Len(t, doc.Models, 1)

	var names []string
	for _, prop := range doc.Models[0].Properties {
		names = append(names, prop.Name)
	}
	assert.Equal(t, []string{"displayName", "sku"}, names)
}

type upperExample struct{}

func (upperExample) Supports(plugins.DocumentationType) bool { return true }
func (upperExample) Order() int                              { return plugins.LowestPrecedence }

func (upperExample) ApplyProperty(ctx *plugins.PropertyContext) {
	if ctx.Property.Example != "" {
		ctx.Property.Example = strings.ToUpper(ctx.Property.Example)
	}
}

func TestDocket_WithPlugins(t *testing.T) {
	d, _ := accountDocket(t)
	d.WithPlugins(upperExample{})

	doc, err := d.Document(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ADA@EXAMPLE.COM", doc.FindModel("Account").Property("email").Example)
}

func TestDocket_Render(t *testing.T) {
	d, _ := accountDocket(t)

	out, err := d.Render(context.Background(), "yaml")
	require.NoError(t, err)
	assert.Contains(t, string(out), `swagger: "2.0"`)
	assert.Contains(t, string(out), "title: Accounts")
	assert.Contains(t, string(out), "basePath: /api")

	out, err = d.Render(context.Background(), "")
	require.NoError(t, err)
	assert.Contains(t, string(out), `"$ref": "#/definitions/b.User"`)

	_, err = d.Render(context.Background(), "xml")
	assert.ErrorContains(t, err, "unsupported format")
}

func TestDocket_Canceled(t *testing.T) {
	d, _ := accountDocket(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Document(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDocket_NilRoot(t *testing.T) {
	d := NewDocket("", provider.NewReflectionProvider()).WithModels(nil)

	_, err := d.Document(context.Background())
	assert.ErrorIs(t, err, schema.ErrInvalidInput)
}

func TestDocket_Logging(t *testing.T) {
	var buf bytes.Buffer
	d, _ := accountDocket(t)
	d.WithLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	_, err := d.Document(context.Background())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "generated document")
	assert.Contains(t, buf.String(), "models=3")
}

func TestDocket_ConcurrentDocuments(t *testing.T) {
	d, _ := accountDocket(t)

	var wg sync.WaitGroup
	results := make([][]string, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc, err := d.Document(context.Background())
			if err != nil {
				t.Error(err)
				return
			}
			results[i] = modelIDs(doc)
		}()
	}
	wg.Wait()

	for _, ids := range results {
		assert.Equal(t, []string{"User", "b.User", "Account"}, ids)
	}
}
