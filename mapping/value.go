/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mapping

import (
	"fmt"
	"reflect"
)

// Value reads the attribute from an addressable struct value. ok is false
// when an embedded pointer on the path is nil.
func (a Attribute) Value(v reflect.Value) (reflect.Value, bool, error) {
	if a.Declaration == DeclaredByAccessor {
		if !v.CanAddr() {
			return reflect.Value{}, false, fmt.Errorf("accessor %s needs an addressable value", a.GoName)
		}
		m := v.Addr().MethodByName(a.GoName)
		if !m.IsValid() {
			return reflect.Value{}, false, fmt.Errorf("accessor %s not found on %s", a.GoName, v.Type())
		}
		return m.Call(nil)[0], true, nil
	}
	fv, err := v.FieldByIndexErr(a.FieldIndex)
	if err != nil {
		return reflect.Value{}, false, nil
	}
	return fv, true, nil
}

// Settable returns the field behind a field-declared attribute for writing.
func (a Attribute) Settable(v reflect.Value) (reflect.Value, error) {
	if a.Declaration != DeclaredByField {
		return reflect.Value{}, fmt.Errorf("attribute %s is not backed by a field", a.Name)
	}
	fv, err := v.FieldByIndexErr(a.FieldIndex)
	if err != nil {
		return reflect.Value{}, err
	}
	if !fv.CanSet() {
		return reflect.Value{}, fmt.Errorf("attribute %s is not settable", a.Name)
	}
	return fv, nil
}
