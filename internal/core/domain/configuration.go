package domain

import (
	"slices"
	"strings"
)

// TypeInfo is what the configuration knows about one type.
type TypeInfo struct {
	Type TypeRef
	// Supertypes are the direct base types, nearest first.
	Supertypes []TypeRef
	// Members lists the members a target type exposes to composed calls.
	Members []string
	// Abstract lists members that have no implementation on the type itself.
	Abstract []string
	// Overrides lists the target members a mixin type intercepts.
	Overrides []string
	Sealed    bool
}

// Configuration is an immutable snapshot of the type catalog and the per-target
// mixin declarations. A new snapshot is built every time the configuration is loaded.
type Configuration struct {
	// Source is the file the snapshot was read from, if any.
	Source       string
	Types        map[TypeRef]TypeInfo
	Declarations map[TypeRef]Declaration
}

// NewConfiguration returns an empty snapshot.
func NewConfiguration() *Configuration {
	return &Configuration{
		Types:        make(map[TypeRef]TypeInfo),
		Declarations: make(map[TypeRef]Declaration),
	}
}

// Type returns the catalog entry for t.
func (c *Configuration) Type(t TypeRef) (TypeInfo, bool) {
	info, ok := c.Types[t]
	return info, ok
}

// Declaration returns the mixin declaration for target.
func (c *Configuration) Declaration(target TypeRef) (Declaration, bool) {
	decl, ok := c.Declarations[target]
	return decl, ok
}

// Supertypes returns the ordered direct base types of t.
func (c *Configuration) Supertypes(t TypeRef) []TypeRef {
	return c.Types[t].Supertypes
}

// Knows reports whether t appears in the catalog or has a declaration.
func (c *Configuration) Knows(t TypeRef) bool {
	if _, ok := c.Types[t]; ok {
		return true
	}
	_, ok := c.Declarations[t]
	return ok
}

// Targets returns every type with a declaration, sorted by identity.
func (c *Configuration) Targets() []TypeRef {
	targets := make([]TypeRef, 0, len(c.Declarations))
	for t := range c.Declarations {
		targets = append(targets, t)
	}
	slices.SortFunc(targets, func(a, b TypeRef) int {
		return strings.Compare(a.String(), b.String())
	})
	return targets
}
