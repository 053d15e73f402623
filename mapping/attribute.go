/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mapping

import (
	"reflect"
	"strings"
)

// Role is a set of key roles an attribute plays.
type Role uint8

const (
	RoleHashKey Role = 1 << iota
	RoleRangeKey
	RoleIdentity
	RoleIgnored
)

// Has reports whether every bit of r2 is set in r.
func (r Role) Has(r2 Role) bool {
	return r&r2 == r2
}

func (r Role) String() string {
	var parts []string
	if r.Has(RoleHashKey) {
		parts = append(parts, "hash")
	}
	if r.Has(RoleRangeKey) {
		parts = append(parts, "range")
	}
	if r.Has(RoleIdentity) {
		parts = append(parts, "id")
	}
	if r.Has(RoleIgnored) {
		parts = append(parts, "ignored")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Declaration records where an attribute was declared.
type Declaration uint8

const (
	DeclaredByField Declaration = iota + 1
	DeclaredByAccessor
)

func (d Declaration) String() string {
	switch d {
	case DeclaredByField:
		return "field"
	case DeclaredByAccessor:
		return "accessor"
	default:
		return "unknown"
	}
}

// Carrier describes a composite key struct: exactly one hash field and one
// range field, nothing else persisted.
type Carrier struct {
	HashAttribute  string
	RangeAttribute string

	hashIndex  []int
	rangeIndex []int
}

// HashFieldIndex is the reflect field index of the hash field inside the carrier.
func (c *Carrier) HashFieldIndex() []int { return c.hashIndex }

// RangeFieldIndex is the reflect field index of the range field inside the carrier.
func (c *Carrier) RangeFieldIndex() []int { return c.rangeIndex }

// IndexKey places an attribute in a global secondary index.
type IndexKey struct {
	Index string
	Role  Role // RoleHashKey or RoleRangeKey
}

// Attribute is one row of a type's normalized attribute table.
//
// Name, Roles, Declaration and Carrier are all the resolver reads. The
// remaining fields let the storage layer reach the value.
type Attribute struct {
	Name         string
	Roles        Role
	Declaration  Declaration
	Carrier      *Carrier
	AutoGenerate bool
	Indexes      []IndexKey

	// GoName is the struct field or method name.
	GoName string
	// FieldIndex is set for field-declared attributes.
	FieldIndex []int
	// Type is the Go type of the field or of the accessor's result.
	Type reflect.Type
}

// Ignored reports whether the attribute is excluded from persistence.
func (a Attribute) Ignored() bool {
	return a.Roles.Has(RoleIgnored)
}
