/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"encoding"
	"fmt"
	"maps"
	"reflect"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/dynamorepo/errors"
	"github.com/suparena/dynamorepo/mapping"
	"github.com/suparena/dynamorepo/registry"
)

// codec converts between entities of type T and DynamoDB items using the
// entity's metadata. Accessor-declared attributes are written from their
// methods. A wrapped composite key is stored as two top-level attributes.
// Struct fields with a text form, such as strfmt.DateTime, are stored as
// strings in that form.
type codec[T any] struct {
	md   *registry.EntityMetadata
	text []mapping.Attribute
}

var (
	textMarshalerType   = reflect.TypeFor[encoding.TextMarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	avMarshalerType     = reflect.TypeFor[attributevalue.Marshaler]()
	timeType            = reflect.TypeFor[time.Time]()
)

func newCodec[T any](md *registry.EntityMetadata) codec[T] {
	c := codec[T]{md: md}
	for _, a := range md.Attributes() {
		if !a.Ignored() && a.Declaration == mapping.DeclaredByField && isTextScalar(a.Type) {
			c.text = append(c.text, a)
		}
	}
	return c
}

func isTextScalar(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct || t == timeType {
		return false
	}
	pt := reflect.PointerTo(t)
	return pt.Implements(textMarshalerType) && pt.Implements(textUnmarshalerType) && !pt.Implements(avMarshalerType)
}

func (c codec[T]) typeName() string {
	return c.md.Type().String()
}

// marshal renders entity as a complete item.
func (c codec[T]) marshal(entity *T) (map[string]types.AttributeValue, error) {
	if entity == nil {
		return nil, fmt.Errorf("cannot marshal nil %s", c.typeName())
	}
	item, err := attributevalue.MarshalMap(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}

	v := reflect.ValueOf(entity).Elem()
	for _, a := range c.md.AccessorAttributes() {
		val, ok, err := a.Value(v)
		if err != nil {
			return nil, errors.NewMappingError(c.typeName(), "%v", err)
		}
		if !ok {
			continue
		}
		av, err := attributevalue.Marshal(val.Interface())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal accessor %s: %w", a.GoName, err)
		}
		item[a.Name] = av
	}

	for _, a := range c.text {
		fv, ok, _ := a.Value(v)
		if !ok || (fv.Kind() == reflect.Pointer && fv.IsNil()) {
			continue
		}
		if fv.Kind() != reflect.Pointer {
			fv = fv.Addr()
		}
		text, err := fv.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s: %w", a.GoName, err)
		}
		item[a.Name] = &types.AttributeValueMemberS{Value: string(text)}
	}

	if w, ok := c.md.Identity().(mapping.WrappedCompositeKey); ok {
		nested, present := item[w.IdentityAttributeName]
		delete(item, w.IdentityAttributeName)
		if m, isMap := nested.(*types.AttributeValueMemberM); present && isMap {
			for _, name := range []string{w.HashField, w.RangeField} {
				if kv, has := m.Value[name]; has {
					item[name] = kv
				}
			}
		}
	}
	return item, nil
}

// unmarshal decodes an item. A field-declared wrapped identity is nested
// back into its carrier before decoding.
func (c codec[T]) unmarshal(item map[string]types.AttributeValue) (*T, error) {
	if w, ok := c.md.Identity().(mapping.WrappedCompositeKey); ok {
		if a, found := c.md.IdentityAttribute(); found && a.Declaration == mapping.DeclaredByField {
			carrier := make(map[string]types.AttributeValue, 2)
			for _, name := range []string{w.HashField, w.RangeField} {
				if kv, has := item[name]; has {
					carrier[name] = kv
				}
			}
			item = maps.Clone(item)
			item[w.IdentityAttributeName] = &types.AttributeValueMemberM{Value: carrier}
		}
	}

	var texts map[string]string
	for _, a := range c.text {
		if sv, ok := item[a.Name].(*types.AttributeValueMemberS); ok {
			if texts == nil {
				texts = make(map[string]string, len(c.text))
				item = maps.Clone(item)
			}
			texts[a.Name] = sv.Value
			delete(item, a.Name)
		}
	}

	result := new(T)
	if err := attributevalue.UnmarshalMap(item, result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}

	v := reflect.ValueOf(result).Elem()
	for _, a := range c.text {
		text, ok := texts[a.Name]
		if !ok {
			continue
		}
		fv, err := a.Settable(v)
		if err != nil {
			return nil, errors.NewMappingError(c.typeName(), "%v", err)
		}
		if fv.Kind() == reflect.Pointer {
			fv.Set(reflect.New(fv.Type().Elem()))
		} else {
			fv = fv.Addr()
		}
		if err := fv.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(text)); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", a.GoName, err)
		}
	}
	return result, nil
}

func (c codec[T]) unmarshalAll(items []map[string]types.AttributeValue) ([]T, error) {
	out := make([]T, 0, len(items))
	for _, item := range items {
		v, err := c.unmarshal(item)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

// keyOf extracts the primary key from a marshaled item.
func (c codec[T]) keyOf(item map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	names := []string{c.md.HashKeyAttributeName()}
	if r, ok := c.md.RangeKeyAttributeName(); ok {
		names = append(names, r)
	}
	key := make(map[string]types.AttributeValue, len(names))
	for _, name := range names {
		v, ok := item[name]
		if !ok || isNull(v) {
			return nil, errors.NewMappingError(c.typeName(), "missing value for key attribute %q", name)
		}
		key[name] = v
	}
	return key, nil
}

// key builds a primary key from caller supplied values. For a wrapped
// composite key the carrier itself may be passed as the hash key.
func (c codec[T]) key(hashKey any, rangeKey any, hasRange bool) (map[string]types.AttributeValue, error) {
	hashName := c.md.HashKeyAttributeName()
	rangeName, tableHasRange := c.md.RangeKeyAttributeName()

	hv, err := attributevalue.Marshal(hashKey)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal hash key: %w", err)
	}

	if w, ok := c.md.Identity().(mapping.WrappedCompositeKey); ok && !hasRange {
		if m, isMap := hv.(*types.AttributeValueMemberM); isMap {
			return c.keyOf(map[string]types.AttributeValue{
				w.HashField:  m.Value[w.HashField],
				w.RangeField: m.Value[w.RangeField],
			})
		}
	}

	switch {
	case tableHasRange && !hasRange:
		return nil, errors.NewMappingError(c.typeName(), "key requires a value for range key %q", rangeName)
	case !tableHasRange && hasRange:
		return nil, errors.NewMappingError(c.typeName(), "type has no range key")
	}

	key := map[string]types.AttributeValue{hashName: hv}
	if hasRange {
		rv, err := attributevalue.Marshal(rangeKey)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal range key: %w", err)
		}
		key[rangeName] = rv
	}
	return c.keyOf(key)
}

// generateID fills an empty auto-generated key field.
func (c codec[T]) generateID(entity *T, newID func() string) error {
	a, ok := c.md.AutoGenerated()
	if !ok || a.Declaration != mapping.DeclaredByField {
		return nil
	}
	f, err := a.Settable(reflect.ValueOf(entity).Elem())
	if err != nil {
		return errors.NewMappingError(c.typeName(), "%v", err)
	}
	if f.String() == "" {
		f.SetString(newID())
	}
	return nil
}

func isNull(v types.AttributeValue) bool {
	if v == nil {
		return true
	}
	if n, ok := v.(*types.AttributeValueMemberNULL); ok && n.Value {
		return true
	}
	if s, ok := v.(*types.AttributeValueMemberS); ok && s.Value == "" {
		return true
	}
	return false
}
