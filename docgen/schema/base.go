package schema

import "github.com/springdox/springdox/docgen/ir"

// BaseType is an entry of the static base-type registry.
type BaseType struct {
	// Name is the registry name used in model references and generic model
	// names ("long", "date-time", ...).
	Name string

	// Type and Format are the Swagger primitive type and format.
	Type   string
	Format string
}

var (
	baseInt      = BaseType{Name: "int", Type: "integer", Format: "int32"}
	baseLong     = BaseType{Name: "long", Type: "integer", Format: "int64"}
	baseFloat    = BaseType{Name: "float", Type: "number", Format: "float"}
	baseDouble   = BaseType{Name: "double", Type: "number", Format: "double"}
	baseString   = BaseType{Name: "string", Type: "string"}
	baseBoolean  = BaseType{Name: "boolean", Type: "boolean"}
	baseByte     = BaseType{Name: "byte", Type: "string", Format: "byte"}
	baseDate     = BaseType{Name: "date", Type: "string", Format: "date"}
	baseDateTime = BaseType{Name: "date-time", Type: "string", Format: "date-time"}
	baseUUID     = BaseType{Name: "uuid", Type: "string", Format: "uuid"}
	baseBinary   = BaseType{Name: "binary", Type: "string", Format: "binary"}
	baseObject   = BaseType{Name: "object", Type: "object"}
)

// baseTypes is keyed by descriptor key.
var baseTypes = map[string]BaseType{
	"bool": baseBoolean,

	"int8":   baseInt,
	"int16":  baseInt,
	"int32":  baseInt,
	"rune":   baseInt,
	"uint8":  baseInt,
	"byte":   baseInt,
	"uint16": baseInt,
	"uint32": baseInt,

	"int":           baseLong,
	"int64":         baseLong,
	"uint":          baseLong,
	"uint64":        baseLong,
	"uintptr":       baseLong,
	"math/big.Int":  baseLong,
	"time.Duration": baseLong,

	"float32":        baseFloat,
	"float64":        baseDouble,
	"math/big.Float": baseDouble,

	"string":               baseString,
	"encoding/json.Number": baseString,

	"[]uint8": baseByte,
	"[]byte":  baseByte,

	"time.Time":                          baseDateTime,
	"cloud.google.com/go/civil.Date":     baseDate,
	"cloud.google.com/go/civil.DateTime": baseDateTime,
	"github.com/google/uuid.UUID":        baseUUID,

	"io.Reader":                 baseBinary,
	"mime/multipart.FileHeader": baseBinary,
	"mime/multipart.File":       baseBinary,
	"os.File":                   baseBinary,

	"any":                      baseObject,
	"encoding/json.RawMessage": baseObject,
}

var baseTypesByName = func() map[string]BaseType {
	m := make(map[string]BaseType)
	for _, b := range baseTypes {
		m[b.Name] = b
	}
	return m
}()

// LookupBase returns the registry entry for d. Interfaces not listed in the
// registry are untyped objects.
func LookupBase(d *ir.TypeDescriptor) (BaseType, bool) {
	if d == nil {
		return BaseType{}, false
	}
	if b, ok := baseTypes[d.Key()]; ok {
		return b, true
	}
	if d.Kind() == ir.KindInterface || d.Kind() == ir.KindWildcard {
		return baseObject, true
	}
	return BaseType{}, false
}

// BaseTypeByName returns the registry entry with the given registry name.
func BaseTypeByName(name string) (BaseType, bool) {
	b, ok := baseTypesByName[name]
	return b, ok
}

// IsBaseName reports whether the named type pkg.name is in the registry.
// Metadata sources use it to keep such types opaque instead of describing
// their members.
func IsBaseName(pkg, name string) bool {
	if pkg == "" {
		_, ok := baseTypes[name]
		return ok
	}
	_, ok := baseTypes[pkg+"."+name]
	return ok
}

// ignorableTypes are never walked as supertypes nor emitted as properties.
var ignorableTypes = map[string]bool{
	"sync.Mutex":              true,
	"sync.RWMutex":            true,
	"sync.Once":               true,
	"sync.WaitGroup":          true,
	"context.Context":         true,
	"net/http.Request":        true,
	"net/http.ResponseWriter": true,
}
