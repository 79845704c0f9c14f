package domain

import (
	"strings"
	"unicode"

	"go.trai.ch/zerr"
)

// TypeRef identifies a type taking part in a composition: a target, a mixin,
// a complete interface or a dependency.
//
// Parameterised identities such as "audit.Versioned[shop.Order]" also carry a
// family identity ("audit.Versioned"), the unparameterised definition shared by
// every instantiation.
type TypeRef struct {
	id     InternedString
	family InternedString
}

// ParseTypeRef parses the textual form of a type identity.
func ParseTypeRef(s string) (TypeRef, error) {
	if s == "" {
		return TypeRef{}, zerr.Wrap(ErrInvalidTypeRef, "empty type identity")
	}
	for _, r := range s {
		if unicode.IsSpace(r) || r == '<' || r == '>' {
			return TypeRef{}, zerr.With(zerr.Wrap(ErrInvalidTypeRef, "illegal character in type identity"), "type", s)
		}
	}

	open := strings.IndexByte(s, '[')
	if open < 0 {
		if strings.IndexByte(s, ']') >= 0 {
			return TypeRef{}, zerr.With(zerr.Wrap(ErrInvalidTypeRef, "unbalanced brackets"), "type", s)
		}
		return TypeRef{id: NewInternedString(s)}, nil
	}

	if open == 0 || !strings.HasSuffix(s, "]") || strings.Count(s, "[") != strings.Count(s, "]") {
		return TypeRef{}, zerr.With(zerr.Wrap(ErrInvalidTypeRef, "malformed type parameters"), "type", s)
	}

	return TypeRef{
		id:     NewInternedString(s),
		family: NewInternedString(s[:open]),
	}, nil
}

// MustParseTypeRef is like ParseTypeRef but panics on malformed input.
// It is meant for literals in tests and static tables.
func MustParseTypeRef(s string) TypeRef {
	ref, err := ParseTypeRef(s)
	if err != nil {
		panic(err)
	}
	return ref
}

// ParseTypeRefs parses every element of refs, preserving order.
func ParseTypeRefs(refs []string) ([]TypeRef, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	out := make([]TypeRef, len(refs))
	for i, s := range refs {
		ref, err := ParseTypeRef(s)
		if err != nil {
			return nil, err
		}
		out[i] = ref
	}
	return out, nil
}

// String returns the full type identity.
func (t TypeRef) String() string {
	return t.id.String()
}

// IsZero reports whether t is the zero TypeRef.
func (t TypeRef) IsZero() bool {
	return t.id.IsZero()
}

// IsParameterized reports whether t is an instantiation of a family.
func (t TypeRef) IsParameterized() bool {
	return !t.family.IsZero()
}

// Family returns the family identity, or t itself when t is not parameterised.
func (t TypeRef) Family() TypeRef {
	if t.family.IsZero() {
		return t
	}
	return TypeRef{id: t.family}
}

// SameType reports exact identity equality.
func (t TypeRef) SameType(o TypeRef) bool {
	return t.id == o.id
}

// SameFamily reports whether t and o share a family identity.
func (t TypeRef) SameFamily(o TypeRef) bool {
	return t.Family().id == o.Family().id
}

// MarshalText implements encoding.TextMarshaler.
func (t TypeRef) MarshalText() ([]byte, error) {
	return t.id.MarshalText()
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TypeRef) UnmarshalText(text []byte) error {
	ref, err := ParseTypeRef(string(text))
	if err != nil {
		return err
	}
	*t = ref
	return nil
}

// TypeNames renders refs as their identities.
func TypeNames(refs []TypeRef) []string {
	names := make([]string, len(refs))
	for i, ref := range refs {
		names[i] = ref.String()
	}
	return names
}
