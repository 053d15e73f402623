/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mapping

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/suparena/dynamorepo/errors"
)

// Struct tags read by Introspect.
const (
	// TagName is the attributevalue marshaling tag; its first element names the attribute.
	TagName = "dynamodbav"
	// TagKey declares key roles: hash, range, id, autogenerate.
	TagKey = "ddbkey"
	// TagIndex declares secondary index keys, e.g. "hash,ByEmail;range,ByCreated".
	TagIndex = "ddbindex"
)

// Accessor declares an attribute whose value is produced by a method.
type Accessor struct {
	Attribute string
	Method    string
	Role      Role
}

// AccessorDeclarer is implemented by types that derive attributes from
// methods, typically synthetic single-table keys:
//
//	func (*User) DynamoAccessors() []mapping.Accessor {
//	    return []mapping.Accessor{{Attribute: "PK", Method: "PartitionKey", Role: mapping.RoleHashKey}}
//	}
//
// The method must take no arguments and return exactly one value. It is
// looked up on the pointer type.
type AccessorDeclarer interface {
	DynamoAccessors() []Accessor
}

// Introspect builds the normalized attribute table of a struct type.
// Field and accessor declarations naming the same attribute are merged into
// one field-declared attribute carrying the union of their roles.
func Introspect(t reflect.Type) ([]Attribute, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, errors.NewMappingError(t.String(), "entity type must be a struct, got %s", t.Kind())
	}

	var attrs []Attribute
	if err := collectFields(t, t, nil, &attrs); err != nil {
		return nil, err
	}
	if err := mergeAccessors(t, &attrs); err != nil {
		return nil, err
	}
	return attrs, nil
}

func collectFields(root, t reflect.Type, prefix []int, attrs *[]Attribute) error {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		index := append(append([]int(nil), prefix...), i)

		name, _, _ := strings.Cut(f.Tag.Get(TagName), ",")
		if name == "-" {
			*attrs = append(*attrs, Attribute{
				Name:        f.Name,
				Roles:       RoleIgnored,
				Declaration: DeclaredByField,
				GoName:      f.Name,
				FieldIndex:  index,
				Type:        f.Type,
			})
			continue
		}

		if f.Anonymous && name == "" {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				if err := collectFields(root, ft, index, attrs); err != nil {
					return err
				}
				continue
			}
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}

		roles, autogen, err := parseKeyTag(f.Tag.Get(TagKey))
		if err != nil {
			return errors.NewMappingError(root.String(), "field %s: %v", f.Name, err)
		}
		if autogen && f.Type.Kind() != reflect.String {
			return errors.NewMappingError(root.String(), "field %s: autogenerate requires a string key, got %s", f.Name, f.Type)
		}
		indexes, err := parseIndexTag(f.Tag.Get(TagIndex))
		if err != nil {
			return errors.NewMappingError(root.String(), "field %s: %v", f.Name, err)
		}

		a := Attribute{
			Name:         name,
			Roles:        roles,
			Declaration:  DeclaredByField,
			AutoGenerate: autogen,
			Indexes:      indexes,
			GoName:       f.Name,
			FieldIndex:   index,
			Type:         f.Type,
		}
		if roles.Has(RoleIdentity) {
			if a.Carrier, err = carrierOf(f.Type); err != nil {
				return errors.NewMappingError(root.String(), "field %s: %v", f.Name, err)
			}
		}
		*attrs = append(*attrs, a)
	}
	return nil
}

func mergeAccessors(t reflect.Type, attrs *[]Attribute) error {
	decl, ok := reflect.New(t).Interface().(AccessorDeclarer)
	if !ok {
		return nil
	}
	pt := reflect.PointerTo(t)

	for _, acc := range decl.DynamoAccessors() {
		m, ok := pt.MethodByName(acc.Method)
		if !ok {
			return errors.NewMappingError(t.String(), "accessor method %s not found", acc.Method)
		}
		if m.Type.NumIn() != 1 || m.Type.NumOut() != 1 {
			return errors.NewMappingError(t.String(), "accessor method %s must take no arguments and return one value", acc.Method)
		}

		if i := indexOf(*attrs, acc.Attribute); i >= 0 {
			merged := &(*attrs)[i]
			merged.Roles |= acc.Role
			if merged.Roles.Has(RoleIdentity) && merged.Carrier == nil {
				carrier, err := carrierOf(merged.Type)
				if err != nil {
					return errors.NewMappingError(t.String(), "field %s: %v", merged.GoName, err)
				}
				merged.Carrier = carrier
			}
			continue
		}

		a := Attribute{
			Name:        acc.Attribute,
			Roles:       acc.Role,
			Declaration: DeclaredByAccessor,
			GoName:      acc.Method,
			Type:        m.Type.Out(0),
		}
		if acc.Role.Has(RoleIdentity) {
			carrier, err := carrierOf(a.Type)
			if err != nil {
				return errors.NewMappingError(t.String(), "accessor %s: %v", acc.Method, err)
			}
			a.Carrier = carrier
		}
		*attrs = append(*attrs, a)
	}
	return nil
}

func indexOf(attrs []Attribute, name string) int {
	for i, a := range attrs {
		if a.Name == name && !a.Ignored() {
			return i
		}
	}
	return -1
}

func parseKeyTag(tag string) (Role, bool, error) {
	var roles Role
	var autogen bool
	if tag == "" {
		return roles, false, nil
	}
	for _, opt := range strings.Split(tag, ",") {
		switch strings.TrimSpace(opt) {
		case "hash":
			roles |= RoleHashKey
		case "range":
			roles |= RoleRangeKey
		case "id":
			roles |= RoleIdentity
		case "autogenerate":
			autogen = true
		case "":
		default:
			return 0, false, fmt.Errorf("unknown %s option %q", TagKey, opt)
		}
	}
	if autogen && !roles.Has(RoleHashKey) && !roles.Has(RoleIdentity) {
		return 0, false, fmt.Errorf("autogenerate is only valid on a hash key or identity")
	}
	return roles, autogen, nil
}

func parseIndexTag(tag string) ([]IndexKey, error) {
	if tag == "" {
		return nil, nil
	}
	var keys []IndexKey
	for _, entry := range strings.Split(tag, ";") {
		role, name, ok := strings.Cut(strings.TrimSpace(entry), ",")
		if !ok || name == "" {
			return nil, fmt.Errorf("malformed %s entry %q", TagIndex, entry)
		}
		switch role {
		case "hash":
			keys = append(keys, IndexKey{Index: name, Role: RoleHashKey})
		case "range":
			keys = append(keys, IndexKey{Index: name, Role: RoleRangeKey})
		default:
			return nil, fmt.Errorf("unknown %s role %q", TagIndex, role)
		}
	}
	return keys, nil
}

// carrierOf returns the composite key layout of t, or nil when t is not a
// carrier. A struct is a carrier as soon as one of its fields has a key tag.
func carrierOf(t reflect.Type) (*Carrier, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, nil
	}

	var c Carrier
	var tagged, others []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get(TagName), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		roles, _, err := parseKeyTag(f.Tag.Get(TagKey))
		if err != nil {
			return nil, err
		}
		switch {
		case roles.Has(RoleHashKey) && roles.Has(RoleRangeKey):
			return nil, fmt.Errorf("carrier %s field %s is both hash and range", t, f.Name)
		case roles.Has(RoleHashKey):
			if c.hashIndex != nil {
				return nil, fmt.Errorf("carrier %s declares more than one hash field", t)
			}
			c.HashAttribute, c.hashIndex = name, []int{i}
			tagged = append(tagged, f.Name)
		case roles.Has(RoleRangeKey):
			if c.rangeIndex != nil {
				return nil, fmt.Errorf("carrier %s declares more than one range field", t)
			}
			c.RangeAttribute, c.rangeIndex = name, []int{i}
			tagged = append(tagged, f.Name)
		default:
			others = append(others, f.Name)
		}
	}

	if len(tagged) == 0 {
		return nil, nil
	}
	if c.hashIndex == nil || c.rangeIndex == nil {
		return nil, fmt.Errorf("carrier %s must declare one hash and one range field", t)
	}
	if len(others) > 0 {
		return nil, fmt.Errorf("carrier %s may only hold its key fields, found %s", t, strings.Join(others, ", "))
	}
	return &c, nil
}
