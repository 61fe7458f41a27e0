package ir

import "encoding/json"

// JSON serialization support for IR types.
// Allowable values include a "valueType" field for discrimination.

// MarshalJSON implements json.Marshaler for TypeDescriptor.
func (d *TypeDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind string `json:"kind"`
		Key  string `json:"key"`
	}{
		Kind: d.kind.String(),
		Key:  d.key,
	})
}

// MarshalJSON implements json.Marshaler for AllowableList.
func (l *AllowableList) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		ValueType string   `json:"valueType"`
		Values    []string `json:"values"`
	}{
		ValueType: "LIST",
		Values:    l.Values,
	})
}

// MarshalJSON implements json.Marshaler for AllowableRange.
func (r *AllowableRange) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		ValueType    string `json:"valueType"`
		Min          string `json:"min,omitempty"`
		Max          string `json:"max,omitempty"`
		ExclusiveMin bool   `json:"exclusiveMin,omitempty"`
		ExclusiveMax bool   `json:"exclusiveMax,omitempty"`
	}{
		ValueType:    "RANGE",
		Min:          r.Min,
		Max:          r.Max,
		ExclusiveMin: r.ExclusiveMin,
		ExclusiveMax: r.ExclusiveMax,
	})
}

// MarshalJSON implements json.Marshaler for ModelRef.
func (r *ModelRef) MarshalJSON() ([]byte, error) {
	container := ""
	switch r.Container {
	case ContainerList:
		container = "list"
	case ContainerMap:
		container = "map"
	}
	return json.Marshal(&struct {
		Type            string          `json:"type"`
		Format          string          `json:"format,omitempty"`
		IsModel         bool            `json:"isModel,omitempty"`
		Container       string          `json:"container,omitempty"`
		Item            *ModelRef       `json:"item,omitempty"`
		AllowableValues AllowableValues `json:"allowableValues,omitempty"`
	}{
		Type:            r.Type,
		Format:          r.Format,
		IsModel:         r.IsModel,
		Container:       container,
		Item:            r.Item,
		AllowableValues: r.AllowableValues,
	})
}

// MarshalJSON implements json.Marshaler for Property.
func (p *Property) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Name            string          `json:"name"`
		Type            *TypeDescriptor `json:"type"`
		QualifiedType   string          `json:"qualifiedType"`
		Position        int             `json:"position,omitempty"`
		Required        bool            `json:"required,omitempty"`
		ReadOnly        bool            `json:"readOnly,omitempty"`
		Description     string          `json:"description,omitempty"`
		Example         string          `json:"example,omitempty"`
		AllowableValues AllowableValues `json:"allowableValues,omitempty"`
		ModelRef        *ModelRef       `json:"modelRef,omitempty"`
	}{
		Name:            p.Name,
		Type:            p.Type,
		QualifiedType:   p.QualifiedType,
		Position:        p.Position,
		Required:        p.Required,
		ReadOnly:        p.ReadOnly,
		Description:     p.Description,
		Example:         p.Example,
		AllowableValues: p.AllowableValues,
		ModelRef:        p.ModelRef,
	})
}

// MarshalJSON implements json.Marshaler for Model.
func (m *Model) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		ID            string      `json:"id"`
		Name          string      `json:"name"`
		QualifiedType string      `json:"qualifiedType"`
		Properties    []*Property `json:"properties"`
		Description   string      `json:"description,omitempty"`
		BaseModel     string      `json:"baseModel,omitempty"`
		Discriminator string      `json:"discriminator,omitempty"`
		SubTypes      []string    `json:"subTypes,omitempty"`
	}{
		ID:            m.ID,
		Name:          m.Name,
		QualifiedType: m.QualifiedType,
		Properties:    m.Properties,
		Description:   m.Description,
		BaseModel:     m.BaseModel,
		Discriminator: m.Discriminator,
		SubTypes:      m.SubTypes,
	})
}

// MarshalJSON implements json.Marshaler for Parameter.
func (p *Parameter) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Name            string          `json:"name"`
		In              string          `json:"in"`
		Description     string          `json:"description,omitempty"`
		Required        bool            `json:"required,omitempty"`
		ModelRef        *ModelRef       `json:"modelRef,omitempty"`
		DefaultValue    string          `json:"defaultValue,omitempty"`
		Example         string          `json:"example,omitempty"`
		AllowableValues AllowableValues `json:"allowableValues,omitempty"`
	}{
		Name:            p.Name,
		In:              p.ParamType,
		Description:     p.Description,
		Required:        p.Required,
		ModelRef:        p.ModelRef,
		DefaultValue:    p.DefaultValue,
		Example:         p.Example,
		AllowableValues: p.AllowableValues,
	})
}

// MarshalJSON implements json.Marshaler for Document.
func (d *Document) MarshalJSON() ([]byte, error) {
	type warning struct {
		Code     string `json:"code"`
		Message  string `json:"message"`
		TypeName string `json:"typeName,omitempty"`
	}
	warnings := make([]warning, len(d.Warnings))
	for i, w := range d.Warnings {
		warnings[i] = warning{Code: w.Code, Message: w.Message, TypeName: w.TypeName}
	}
	return json.Marshal(&struct {
		Group             string       `json:"group"`
		DocumentationType string       `json:"documentationType"`
		Models            []*Model     `json:"models"`
		Parameters        []*Parameter `json:"parameters,omitempty"`
		Warnings          []warning    `json:"warnings,omitempty"`
	}{
		Group:             d.Group,
		DocumentationType: d.DocumentationType,
		Models:            d.Models,
		Parameters:        d.Parameters,
		Warnings:          warnings,
	})
}
