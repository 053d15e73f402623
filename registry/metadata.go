/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"reflect"

	"github.com/suparena/dynamorepo/errors"
	"github.com/suparena/dynamorepo/mapping"
)

// Index is a global secondary index declared on an entity.
type Index struct {
	Name           string
	HashAttribute  string
	RangeAttribute string
}

// EntityMetadata is the cached mapping description of one domain type.
// It is never modified after Describe publishes it.
type EntityMetadata struct {
	entityType reflect.Type
	tableName  string
	identity   mapping.IdentityDescriptor
	attributes []mapping.Attribute
	indexes    map[string]Index
}

// Type returns the described struct type.
func (m *EntityMetadata) Type() reflect.Type { return m.entityType }

// TableName returns the table the type is stored in, before any configured prefix.
func (m *EntityMetadata) TableName() string { return m.tableName }

// Identity returns the resolved primary key shape.
func (m *EntityMetadata) Identity() mapping.IdentityDescriptor { return m.identity }

// HashKeyAttributeName is the partition key attribute name.
func (m *EntityMetadata) HashKeyAttributeName() string {
	return m.identity.HashKeyAttribute()
}

// RangeKeyAttributeName is the sort key attribute name, if the key has one.
func (m *EntityMetadata) RangeKeyAttributeName() (string, bool) {
	return m.identity.RangeKeyAttribute()
}

// Attributes returns a copy of the normalized attribute table.
func (m *EntityMetadata) Attributes() []mapping.Attribute {
	out := make([]mapping.Attribute, len(m.attributes))
	copy(out, m.attributes)
	return out
}

// Attribute looks up a persisted attribute by item attribute name.
func (m *EntityMetadata) Attribute(name string) (mapping.Attribute, bool) {
	for _, a := range m.attributes {
		if a.Name == name && !a.Ignored() {
			return a, true
		}
	}
	return mapping.Attribute{}, false
}

// IdentityAttribute returns the attribute holding the carrier of a wrapped
// composite key. ok is false for the other key shapes.
func (m *EntityMetadata) IdentityAttribute() (mapping.Attribute, bool) {
	w, ok := m.identity.(mapping.WrappedCompositeKey)
	if !ok {
		return mapping.Attribute{}, false
	}
	return m.Attribute(w.IdentityAttributeName)
}

// AutoGenerated returns the key attribute filled with a UUID on save, if any.
func (m *EntityMetadata) AutoGenerated() (mapping.Attribute, bool) {
	for _, a := range m.attributes {
		if a.AutoGenerate && !a.Ignored() {
			return a, true
		}
	}
	return mapping.Attribute{}, false
}

// AccessorAttributes returns the attributes whose values come from methods.
func (m *EntityMetadata) AccessorAttributes() []mapping.Attribute {
	var out []mapping.Attribute
	for _, a := range m.attributes {
		if a.Declaration == mapping.DeclaredByAccessor && !a.Ignored() {
			out = append(out, a)
		}
	}
	return out
}

// Index returns a declared global secondary index.
func (m *EntityMetadata) Index(name string) (Index, bool) {
	idx, ok := m.indexes[name]
	return idx, ok
}

// Indexes returns the names of every declared global secondary index.
func (m *EntityMetadata) Indexes() []string {
	names := make([]string, 0, len(m.indexes))
	for n := range m.indexes {
		names = append(names, n)
	}
	return names
}

func buildIndexes(typeName string, attrs []mapping.Attribute) (map[string]Index, error) {
	indexes := make(map[string]Index)
	for _, a := range attrs {
		if a.Ignored() {
			continue
		}
		for _, k := range a.Indexes {
			idx := indexes[k.Index]
			idx.Name = k.Index
			switch k.Role {
			case mapping.RoleHashKey:
				if idx.HashAttribute != "" {
					return nil, errors.NewMappingError(typeName, "index %s declares hash keys %q and %q", k.Index, idx.HashAttribute, a.Name)
				}
				idx.HashAttribute = a.Name
			case mapping.RoleRangeKey:
				if idx.RangeAttribute != "" {
					return nil, errors.NewMappingError(typeName, "index %s declares range keys %q and %q", k.Index, idx.RangeAttribute, a.Name)
				}
				idx.RangeAttribute = a.Name
			}
			indexes[k.Index] = idx
		}
	}
	for name, idx := range indexes {
		if idx.HashAttribute == "" {
			return nil, errors.NewMappingError(typeName, "index %s has no hash key", name)
		}
	}
	return indexes, nil
}
