package schema

import (
	"fmt"

	"github.com/springdox/springdox/docgen/ir"
)

// TypeSource supplies the structural metadata the engine cannot derive from a
// descriptor alone. Implementations live in the provider package.
type TypeSource interface {
	// Members returns the declared members of a complex type in declaration
	// order, with generic type parameters already substituted.
	Members(d *ir.TypeDescriptor) ([]ir.Member, error)

	// EnumConstants returns the constants of an enum type in declaration order.
	EnumConstants(d *ir.TypeDescriptor) ([]ir.EnumConstant, error)

	// TypeMetadata returns type-level documentation. A zero value means none.
	TypeMetadata(d *ir.TypeDescriptor) (ir.TypeMetadata, error)
}

// Warning codes recorded for metadata-read failures.
const (
	WarnMembers       = "members_unavailable"
	WarnEnumConstants = "enum_constants_unavailable"
	WarnTypeMetadata  = "type_metadata_unavailable"
)

// readMembers calls the source and converts errors and panics into a warning.
func (w *walk) readMembers(d *ir.TypeDescriptor) (members []ir.Member) {
	defer w.recoverRead(WarnMembers, d)
	members, err := w.r.source.Members(d)
	if err != nil {
		w.readFailed(WarnMembers, d, err)
		return nil
	}
	return members
}

func (w *walk) readEnumConstants(d *ir.TypeDescriptor) (constants []ir.EnumConstant) {
	defer w.recoverRead(WarnEnumConstants, d)
	constants, err := w.r.source.EnumConstants(d)
	if err != nil {
		w.readFailed(WarnEnumConstants, d, err)
		return nil
	}
	return constants
}

func (w *walk) readTypeMetadata(d *ir.TypeDescriptor) (md ir.TypeMetadata) {
	defer w.recoverRead(WarnTypeMetadata, d)
	md, err := w.r.source.TypeMetadata(d)
	if err != nil {
		w.readFailed(WarnTypeMetadata, d, err)
		return ir.TypeMetadata{}
	}
	return md
}

func (w *walk) recoverRead(code string, d *ir.TypeDescriptor) {
	if r := recover(); r != nil {
		w.readFailed(code, d, fmt.Errorf("panic: %v", r))
	}
}

func (w *walk) readFailed(code string, d *ir.TypeDescriptor, err error) {
	w.r.logger.DebugContext(w.ctx, "metadata read failed",
		"type", d.String(),
		"code", code,
		"error", err)
	w.warnings = append(w.warnings, ir.Warning{
		Code:     code,
		Message:  err.Error(),
		TypeName: d.Key(),
	})
}
