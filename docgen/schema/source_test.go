package schema

import (
	"fmt"
	"reflect"

	"github.com/springdox/springdox/docgen/ir"
)

// fakeSource is an in-memory TypeSource keyed by descriptor key.
type fakeSource struct {
	members  map[string][]ir.Member
	enums    map[string][]ir.EnumConstant
	metadata map[string]ir.TypeMetadata
	failures map[string]error
	panics   map[string]bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		members:  make(map[string][]ir.Member),
		enums:    make(map[string][]ir.EnumConstant),
		metadata: make(map[string]ir.TypeMetadata),
		failures: make(map[string]error),
		panics:   make(map[string]bool),
	}
}

func (s *fakeSource) add(d *ir.TypeDescriptor, members ...ir.Member) *fakeSource {
	s.members[d.Key()] = members
	return s
}

func (s *fakeSource) Members(d *ir.TypeDescriptor) ([]ir.Member, error) {
	if s.panics[d.Key()] {
		panic(fmt.Sprintf("members of %s exploded", d))
	}
	if err := s.failures[d.Key()]; err != nil {
		return nil, err
	}
	return s.members[d.Key()], nil
}

func (s *fakeSource) EnumConstants(d *ir.TypeDescriptor) ([]ir.EnumConstant, error) {
	return s.enums[d.Key()], nil
}

func (s *fakeSource) TypeMetadata(d *ir.TypeDescriptor) (ir.TypeMetadata, error) {
	return s.metadata[d.Key()], nil
}

func field(name string, t *ir.TypeDescriptor, tag string) ir.Member {
	return ir.Member{Name: name, Type: t, Tag: reflect.StructTag(tag)}
}
