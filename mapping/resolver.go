/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mapping

import (
	"strings"

	"github.com/suparena/dynamorepo/errors"
)

// candidate ranks, low to high. A field declaration is one step above the
// accessor declaration of the same semantic rank.
const (
	rankNone = iota
	rankHashAccessor
	rankHashField
	rankScalarIdentityAccessor
	rankScalarIdentityField
	rankCompositeIdentityAccessor
	rankCompositeIdentityField
)

func identityRank(a Attribute) int {
	var r int
	switch {
	case a.Roles.Has(RoleIdentity) && a.Carrier != nil:
		r = rankCompositeIdentityAccessor
	case a.Roles.Has(RoleIdentity):
		r = rankScalarIdentityAccessor
	case a.Roles.Has(RoleHashKey):
		r = rankHashAccessor
	default:
		return rankNone
	}
	if a.Declaration == DeclaredByField {
		r++
	}
	return r
}

func rangeRank(a Attribute) int {
	if !a.Roles.Has(RoleRangeKey) {
		return rankNone
	}
	if a.Declaration == DeclaredByField {
		return 2
	}
	return 1
}

// pick returns the index of the highest ranked attribute, or -1. Names of
// attributes tied with the winner are returned alongside it.
func pick(attrs []Attribute, rank func(Attribute) int) (int, []string) {
	best, bestRank := -1, rankNone
	var tied []string
	for i, a := range attrs {
		if a.Ignored() {
			continue
		}
		r := rank(a)
		switch {
		case r == rankNone:
		case r > bestRank:
			best, bestRank = i, r
			tied = nil
		case r == bestRank:
			tied = append(tied, a.Name)
		}
	}
	return best, tied
}

// Resolve classifies a type's primary key from its normalized attribute
// table. typeName is only used in error messages.
func Resolve(typeName string, attrs []Attribute) (IdentityDescriptor, error) {
	for _, a := range attrs {
		if !a.Ignored() && a.Roles.Has(RoleHashKey|RoleRangeKey) {
			return nil, errors.NewMappingError(typeName, "attribute %q is declared as both hash and range key", a.Name)
		}
	}

	winner, tied := pick(attrs, identityRank)
	if winner < 0 {
		return nil, errors.NewMappingError(typeName, "no hash key or identity attribute declared")
	}
	w := attrs[winner]
	if len(tied) > 0 {
		return nil, errors.NewMappingError(typeName, "ambiguous identity: %q and %s have equal precedence",
			w.Name, quoteAll(tied))
	}

	if w.Carrier != nil {
		return WrappedCompositeKey{
			IdentityAttributeName: w.Name,
			HashField:             w.Carrier.HashAttribute,
			RangeField:            w.Carrier.RangeAttribute,
		}, nil
	}

	rng, tied := pick(attrs, rangeRank)
	if rng < 0 {
		return SimpleHashKey{AttributeName: w.Name}, nil
	}
	if len(tied) > 0 {
		return nil, errors.NewMappingError(typeName, "ambiguous range key: %q and %s have equal precedence",
			attrs[rng].Name, quoteAll(tied))
	}
	if attrs[rng].Name == w.Name {
		return nil, errors.NewMappingError(typeName, "attribute %q is declared as both hash and range key", w.Name)
	}
	return CompositeKey{HashAttributeName: w.Name, RangeAttributeName: attrs[rng].Name}, nil
}

func quoteAll(names []string) string {
	q := make([]string, len(names))
	for i, n := range names {
		q[i] = `"` + n + `"`
	}
	return strings.Join(q, ", ")
}
