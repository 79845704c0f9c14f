package domain

import (
	"slices"

	"go.trai.ch/zerr"
)

// MixinKind tags how a mixin relates to its target.
type MixinKind string

const (
	// MixinKindExtending marks a mixin applied by the target type's own configuration.
	MixinKindExtending MixinKind = "extending"
	// MixinKindUsed marks a mixin the target declares it uses.
	MixinKindUsed MixinKind = "used"
)

// ParseMixinKind converts a kind tag into a MixinKind. An empty tag defaults to extending.
func ParseMixinKind(s string) (MixinKind, error) {
	switch MixinKind(s) {
	case "", MixinKindExtending:
		return MixinKindExtending, nil
	case MixinKindUsed:
		return MixinKindUsed, nil
	default:
		return "", zerr.With(zerr.Wrap(ErrUnknownMixinKind, "cannot parse mixin kind"), "kind", s)
	}
}

// MixinDescriptor declares one mixin for one target.
type MixinDescriptor struct {
	Type         TypeRef
	Kind         MixinKind
	Dependencies []TypeRef
}

// NewMixin is a convenience constructor for an extending mixin.
func NewMixin(mixin TypeRef, deps ...TypeRef) MixinDescriptor {
	return MixinDescriptor{Type: mixin, Kind: MixinKindExtending, Dependencies: deps}
}

// Conflicts reports whether m and o would be duplicate declarations for one target:
// identical types, or members of the same family when either is parameterised.
func (m MixinDescriptor) Conflicts(o MixinDescriptor) bool {
	if m.Type.SameType(o.Type) {
		return true
	}
	if m.Type.IsParameterized() || o.Type.IsParameterized() {
		return m.Type.SameFamily(o.Type)
	}
	return false
}

// Equal compares type, kind and the ordered dependency list.
func (m MixinDescriptor) Equal(o MixinDescriptor) bool {
	return m.Type.SameType(o.Type) && m.Kind == o.Kind && slices.Equal(m.Dependencies, o.Dependencies)
}

func (m MixinDescriptor) clone() MixinDescriptor {
	m.Dependencies = slices.Clone(m.Dependencies)
	return m
}

// MatchMode selects how a suppression is compared with a mixin type.
type MatchMode uint8

const (
	// MatchFamily matches any mixin sharing the suppression's family identity.
	MatchFamily MatchMode = iota
	// MatchExact matches only the identical type identity.
	MatchExact
)

// ParseMatchMode converts a configuration value into a MatchMode. Empty means family.
func ParseMatchMode(s string) (MatchMode, error) {
	switch s {
	case "", "family":
		return MatchFamily, nil
	case "exact":
		return MatchExact, nil
	default:
		return 0, zerr.With(zerr.Wrap(ErrUnknownMatchMode, "cannot parse match mode"), "match", s)
	}
}

// String returns the configuration spelling of the mode.
func (m MatchMode) String() string {
	if m == MatchExact {
		return "exact"
	}
	return "family"
}

// Suppression excludes mixins from a target's context.
type Suppression struct {
	Type TypeRef
	Mode MatchMode
}

// Matches reports whether mixin is excluded by s.
func (s Suppression) Matches(mixin TypeRef) bool {
	if s.Mode == MatchExact {
		return s.Type.SameType(mixin)
	}
	return s.Type.SameFamily(mixin)
}

// Declaration is the raw, already-structured input for one target type.
type Declaration struct {
	Target              TypeRef
	Mixins              []MixinDescriptor
	Suppressions        []Suppression
	CompleteInterfaces  []TypeRef
	SuppressInheritance bool
}
