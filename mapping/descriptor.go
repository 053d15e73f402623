/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mapping

// IdentityDescriptor is the resolved shape of a type's primary key.
// Its variants are SimpleHashKey, CompositeKey and WrappedCompositeKey.
type IdentityDescriptor interface {
	// HashKeyAttribute is the item attribute holding the partition key.
	HashKeyAttribute() string
	// RangeKeyAttribute is the item attribute holding the sort key, if any.
	RangeKeyAttribute() (string, bool)

	identity()
}

// SimpleHashKey is a single scalar key attribute.
type SimpleHashKey struct {
	AttributeName string
}

func (k SimpleHashKey) HashKeyAttribute() string { return k.AttributeName }

func (k SimpleHashKey) RangeKeyAttribute() (string, bool) { return "", false }

func (SimpleHashKey) identity() {}

// CompositeKey is a hash and range attribute exposed directly on the type.
type CompositeKey struct {
	HashAttributeName  string
	RangeAttributeName string
}

func (k CompositeKey) HashKeyAttribute() string { return k.HashAttributeName }

func (k CompositeKey) RangeKeyAttribute() (string, bool) { return k.RangeAttributeName, true }

func (CompositeKey) identity() {}

// WrappedCompositeKey is a single identity attribute whose carrier struct
// holds the hash and range fields. The carrier fields are stored as
// top-level item attributes.
type WrappedCompositeKey struct {
	IdentityAttributeName string
	HashField             string
	RangeField            string
}

func (k WrappedCompositeKey) HashKeyAttribute() string { return k.HashField }

func (k WrappedCompositeKey) RangeKeyAttribute() (string, bool) { return k.RangeField, true }

func (WrappedCompositeKey) identity() {}
