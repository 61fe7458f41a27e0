package ir

// ContainerKind identifies how a ModelRef wraps its item.
type ContainerKind int

const (
	ContainerNone ContainerKind = iota
	ContainerList
	ContainerMap
)

// ModelRef describes how a property or parameter refers to its type in the
// emitted document: a base type, a named model, or a list/map of either.
type ModelRef struct {
	// Type is the base type name ("string", "long", ...) or, when IsModel is
	// set, the id of the referenced model. Containers use "List" or "Map".
	Type string

	// Format is the base type's format qualifier (e.g. "int64", "uuid").
	Format string

	// IsModel reports that Type is a model id.
	IsModel bool

	// Container is set for lists and maps; Item then describes the element
	// (or map value) type.
	Container ContainerKind
	Item      *ModelRef

	// AllowableValues constrains the value (for containers, the items).
	AllowableValues AllowableValues
}

// IsCollection reports a list reference.
func (r *ModelRef) IsCollection() bool { return r != nil && r.Container == ContainerList }

// IsMap reports a map reference.
func (r *ModelRef) IsMap() bool { return r != nil && r.Container == ContainerMap }

// Property is one named, typed member of a Model.
type Property struct {
	Name          string
	Type          *TypeDescriptor
	QualifiedType string

	// Position is an explicit ordering hint; properties are stably sorted by
	// position, then discovery order.
	Position int

	Required    bool
	ReadOnly    bool
	Description string
	Example     string

	AllowableValues AllowableValues
	ModelRef        *ModelRef

	// Hidden is set by enrichment stages; hidden properties are dropped
	// from the model before it is returned.
	Hidden bool
}

// Model is a named schema definition for one distinct TypeDescriptor.
type Model struct {
	ID            string
	Name          string
	QualifiedType string
	Type          *TypeDescriptor
	Properties    []*Property
	Description   string
	BaseModel     string
	Discriminator string
	SubTypes      []string
}

// Property returns the property with the given name, or nil.
func (m *Model) Property(name string) *Property {
	for _, p := range m.Properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Parameter locations, matching Swagger's "in" values.
const (
	ParamPath   = "path"
	ParamQuery  = "query"
	ParamHeader = "header"
	ParamForm   = "formData"
	ParamBody   = "body"
)

// Parameter describes one request parameter of an operation.
type Parameter struct {
	Name         string
	Description  string
	ParamType    string
	Required     bool
	Type         *TypeDescriptor
	ModelRef     *ModelRef
	DefaultValue string
	Example      string
	Order        int

	AllowableValues AllowableValues
	Hidden          bool
}
