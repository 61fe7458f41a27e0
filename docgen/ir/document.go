package ir

// Document is the complete, de-duplicated result of resolving a group of root types.
type Document struct {
	// Group is the documentation group this document belongs to.
	Group string

	// DocumentationType is the output format marker the plugins were selected for.
	DocumentationType string

	// Models holds every resolved model. Dependencies come before the models
	// that need them, so emitters can write definitions in a single pass.
	Models []*Model

	// Parameters holds request parameters described for the group, if any.
	Parameters []*Parameter

	// Warnings contains non-fatal issues encountered while resolving.
	Warnings []Warning
}

// AddModel appends m unless a model with the same id is already present.
// It reports whether the model was added.
func (d *Document) AddModel(m *Model) bool {
	if d.FindModel(m.ID) != nil {
		return false
	}
	d.Models = append(d.Models, m)
	return true
}

// AddParameter adds a parameter to the document.
func (d *Document) AddParameter(p *Parameter) {
	d.Parameters = append(d.Parameters, p)
}

// AddWarning adds a warning to the document.
func (d *Document) AddWarning(w Warning) {
	d.Warnings = append(d.Warnings, w)
}

// FindModel looks up a model by id. Returns nil if not found.
func (d *Document) FindModel(id string) *Model {
	for _, m := range d.Models {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// Validate checks the document for structural issues.
// Returns all validation errors found (not just the first).
func (d *Document) Validate() []error {
	var errs []error

	ids := make(map[string]bool)
	for _, m := range d.Models {
		if ids[m.ID] {
			errs = append(errs, &ValidationError{
				Code:    "duplicate_model",
				Message: "duplicate model id: " + m.ID,
			})
		}
		ids[m.ID] = true
	}

	for _, m := range d.Models {
		for _, p := range m.Properties {
			errs = append(errs, validateRef(p.ModelRef, ids, "property "+m.ID+"."+p.Name)...)
		}
		if m.BaseModel != "" && !ids[m.BaseModel] {
			errs = append(errs, &ValidationError{
				Code:    "missing_base_model",
				Message: "model " + m.ID + " extends unknown model: " + m.BaseModel,
			})
		}
		for _, sub := range m.SubTypes {
			if !ids[sub] {
				errs = append(errs, &ValidationError{
					Code:    "missing_subtype",
					Message: "model " + m.ID + " lists unknown subtype: " + sub,
				})
			}
		}
	}

	for _, p := range d.Parameters {
		errs = append(errs, validateRef(p.ModelRef, ids, "parameter "+p.Name)...)
	}
	return errs
}

func validateRef(ref *ModelRef, ids map[string]bool, context string) []error {
	if ref == nil {
		return nil
	}
	if ref.Item != nil {
		return validateRef(ref.Item, ids, context)
	}
	if ref.IsModel && !ids[ref.Type] {
		return []error{&ValidationError{
			Code:    "missing_model_reference",
			Message: context + " references unknown model: " + ref.Type,
		}}
	}
	return nil
}

// ValidationError represents a document validation error.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
