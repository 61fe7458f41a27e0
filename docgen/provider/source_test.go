package provider

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/springdox/springdox/docgen/ir"
	"github.com/springdox/springdox/docgen/schema"
)

const fixtures = "github.com/springdox/springdox/internal/testfixtures"

var (
	loadOnce   sync.Once
	loaded     *SourceProvider
	loadErr    error
	colorType  = ir.Enum(fixtures, "Color")
	statusType = ir.Enum(fixtures, "Status")
)

// fixtureSource loads the fixtures package once; type-checking is slow.
func fixtureSource(t *testing.T) *SourceProvider {
	t.Helper()
	loadOnce.Do(func() {
		loaded = &SourceProvider{}
		loadErr = loaded.Load(context.Background(), fixtures)
	})
	require.NoError(t, loadErr)
	return loaded
}

func memberByName(t *testing.T, members []ir.Member, name string) ir.Member {
	t.Helper()
	for _, m := range members {
		if m.Name == name {
			return m
		}
	}
	t.Fatalf("member %s not found", name)
	return ir.Member{}
}

func TestSourceProvider_Lookup(t *testing.T) {
	p := fixtureSource(t)

	d, err := p.Lookup("Account")
	require.NoError(t, err)
	assert.Equal(t, fixtures+".Account", d.Key())

	d, err = p.Lookup(fixtures + "/a.User")
	require.NoError(t, err)
	assert.Equal(t, fixtures+"/a.User", d.Key())

	d, err = p.Lookup("Color")
	require.NoError(t, err)
	assert.Equal(t, ir.KindEnum, d.Kind())

	d, err = p.Lookup("Page")
	require.NoError(t, err)
	assert.Equal(t, fixtures+".Page[any]", d.Key())

	_, err = p.Lookup("Missing")
	assert.ErrorIs(t, err, ErrTypeNotFound)
}

func TestSourceProvider_LookupBeforeLoad(t *testing.T) {
	_, err := (&SourceProvider{}).Lookup("Account")
	assert.ErrorContains(t, err, "not loaded")
}

func TestSourceProvider_Members(t *testing.T) {
	p := fixtureSource(t)
	account, err := p.Lookup("Account")
	require.NoError(t, err)

	members, err := p.Members(account)
	require.NoError(t, err)

	var names []string
	for _, m := range members {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{
		"ID", "Email", "Status", "Colors",
		"Owner", "Backup", "Created", "Labels", "Balance",
		"Audit",
	}, names, "unexported fields are skipped")

	id := memberByName(t, members, "ID")
	assert.Equal(t, "ID uniquely identifies the account.", id.Doc)
	assert.Equal(t, `required,gt=0`, id.Tag.Get("validate"))
	assert.Equal(t, "int64", id.Type.Key())

	assert.Equal(t, "string", memberByName(t, members, "Email").Type.Key(), "named strings document as strings")
	assert.True(t, statusType.Equal(memberByName(t, members, "Status").Type))
	assert.True(t, ir.Slice(colorType).Equal(memberByName(t, members, "Colors").Type))

	owner := memberByName(t, members, "Owner")
	assert.True(t, owner.Nullable)
	assert.Equal(t, fixtures+"/a.User", owner.Type.Key())

	assert.Equal(t, "time.Time", memberByName(t, members, "Created").Type.Key())
	assert.Equal(t, "map[string]string", memberByName(t, members, "Labels").Type.Key())
	assert.True(t, memberByName(t, members, "Audit").Embedded)
}

func TestSourceProvider_Generics(t *testing.T) {
	p := fixtureSource(t)
	dir, err := p.Lookup("Directory")
	require.NoError(t, err)

	members, err := p.Members(dir)
	require.NoError(t, err)
	require.Len(t, members, 1)
	page := members[0].Type
	assert.Equal(t, fixtures+".Page["+fixtures+".Account]", page.Key())

	items, err := p.Members(page)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "[]"+fixtures+".Account", items[0].Type.Key(), "type parameters are substituted")
	assert.Equal(t, "cursor of the following page", items[1].Doc)
}

func TestSourceProvider_AnonymousStructNames(t *testing.T) {
	p := fixtureSource(t)

	ledger, err := p.Lookup("Ledger")
	require.NoError(t, err)
	members, err := p.Members(ledger)
	require.NoError(t, err)
	assert.Equal(t, fixtures+".LedgerMeta2", members[0].Type.Key(), "declared names are not reused")

	mailbox, err := p.Lookup("Mailbox")
	require.NoError(t, err)
	res, err := schema.NewResolver(p).Resolve(context.Background(), mailbox)
	require.NoError(t, err)

	var ids []string
	for _, m := range res.Models {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{
		"EnvelopeMeta<long>", "Envelope<long>",
		"EnvelopeMeta<string>", "Envelope<string>",
		"Mailbox",
	}, ids)
}

func TestSourceProvider_WellKnownTypes(t *testing.T) {
	p := fixtureSource(t)
	session, err := p.Lookup("Session")
	require.NoError(t, err)

	members, err := p.Members(session)
	require.NoError(t, err)

	tests := map[string]string{
		"ID":      "github.com/google/uuid.UUID",
		"TTL":     "time.Duration",
		"Payload": "encoding/json.RawMessage",
		"Token":   "[]uint8",
		"Meta":    fixtures + ".SessionMeta",
		"Events":  "chan string",
	}
	for name, want := range tests {
		assert.Equal(t, want, memberByName(t, members, name).Type.Key(), name)
	}

	meta, err := p.Members(memberByName(t, members, "Meta").Type)
	require.NoError(t, err)
	require.Len(t, meta, 1)
	assert.Equal(t, "Agent", meta[0].Name)
}

func TestSourceProvider_EnumConstants(t *testing.T) {
	p := fixtureSource(t)
	_, err := p.Lookup("Account")
	require.NoError(t, err)

	colors, err := p.EnumConstants(colorType)
	require.NoError(t, err)
	require.Len(t, colors, 3)
	assert.Equal(t, "Red", colors[0].Name)
	assert.Equal(t, int64(2), colors[2].Value)

	statuses, err := p.EnumConstants(statusType)
	require.NoError(t, err)
	var values []string
	for _, c := range statuses {
		values = append(values, c.String())
	}
	assert.Equal(t, []string{"active", "suspended", "closed"}, values)
}

func TestSourceProvider_TypeMetadata(t *testing.T) {
	p := fixtureSource(t)
	pet, err := p.Lookup("Pet")
	require.NoError(t, err)

	md, err := p.TypeMetadata(pet)
	require.NoError(t, err)
	assert.Equal(t, "Pet is any animal.", md.Description, "directives are not part of the description")
	assert.Equal(t, "kind", md.Discriminator)
	require.Len(t, md.SubTypes, 2)
	assert.Equal(t, fixtures+".Cat", md.SubTypes[0].Key())
	assert.Equal(t, fixtures+".Dog", md.SubTypes[1].Key())

	md, err = p.TypeMetadata(ir.Named(fixtures, "SessionMeta"))
	require.NoError(t, err)
	assert.True(t, md.IsZero())
}

func TestSourceProvider_Resolve(t *testing.T) {
	p := fixtureSource(t)
	account, err := p.Lookup("Account")
	require.NoError(t, err)

	res, err := schema.NewResolver(p).Resolve(context.Background(), account)
	require.NoError(t, err)
	require.Empty(t, res.Warnings)

	var ids []string
	for _, m := range res.Models {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"User", "b.User", "Account"}, ids)

	model := res.Models[2]
	assert.Equal(t, "Account is a customer account.", model.Description)

	id := model.Property("id")
	require.NotNil(t, id)
	assert.True(t, id.Required)
	assert.Equal(t, "ID uniquely identifies the account.", id.Description)
	assert.Equal(t, &ir.AllowableRange{Min: "1"}, id.AllowableValues)

	status := model.Property("status")
	require.NotNil(t, status)
	assert.Equal(t, ir.ListOf("active", "suspended", "closed"), status.AllowableValues)

	assert.Equal(t, "ada@example.com", model.Property("email").Example)
	assert.NotNil(t, model.Property("updatedBy"), "embedded members are flattened")
	assert.Equal(t, "b.User", model.Property("backup").ModelRef.Type)
}

func TestSourceProvider_ResolveHierarchy(t *testing.T) {
	p := fixtureSource(t)
	pet, err := p.Lookup("Pet")
	require.NoError(t, err)

	res, err := schema.NewResolver(p).Resolve(context.Background(), pet)
	require.NoError(t, err)

	var ids []string
	for _, m := range res.Models {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"Cat", "Dog", "Pet"}, ids)
	assert.Equal(t, "Pet", res.Models[0].BaseModel)
	assert.Equal(t, []string{"Cat", "Dog"}, res.Models[2].SubTypes)
	assert.Equal(t, "kind", res.Models[2].Discriminator)
}
