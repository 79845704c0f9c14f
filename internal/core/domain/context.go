package domain

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ContextKey is the content identity of a CompositionContext.
// Two contexts built independently from the same content share a key.
type ContextKey string

// CompositionContext is the resolved, immutable description of which mixins and
// complete interfaces apply to one target type.
type CompositionContext struct {
	target             TypeRef
	mixins             []MixinDescriptor
	completeInterfaces []TypeRef
}

// NewCompositionContext builds a context. Mixins keep their given order; complete
// interfaces are deduplicated keeping first occurrence. Inputs are copied.
func NewCompositionContext(target TypeRef, mixins []MixinDescriptor, completeInterfaces []TypeRef) *CompositionContext {
	c := &CompositionContext{
		target: target,
		mixins: make([]MixinDescriptor, len(mixins)),
	}
	for i, m := range mixins {
		c.mixins[i] = m.clone()
	}
	for _, iface := range completeInterfaces {
		if !slices.Contains(c.completeInterfaces, iface) {
			c.completeInterfaces = append(c.completeInterfaces, iface)
		}
	}
	return c
}

// Target returns the target type identity.
func (c *CompositionContext) Target() TypeRef {
	return c.target
}

// Mixins returns a copy of the mixin descriptors in declaration/merge order.
func (c *CompositionContext) Mixins() []MixinDescriptor {
	out := make([]MixinDescriptor, len(c.mixins))
	for i, m := range c.mixins {
		out[i] = m.clone()
	}
	return out
}

// CompleteInterfaces returns a copy of the complete interface set.
func (c *CompositionContext) CompleteInterfaces() []TypeRef {
	return slices.Clone(c.completeInterfaces)
}

// Len returns the number of mixins.
func (c *CompositionContext) Len() int {
	return len(c.mixins)
}

// Mixin looks up the descriptor for the given mixin type.
func (c *CompositionContext) Mixin(mixin TypeRef) (MixinDescriptor, bool) {
	for _, m := range c.mixins {
		if m.Type.SameType(mixin) {
			return m.clone(), true
		}
	}
	return MixinDescriptor{}, false
}

// Key returns the content identity of c.
//
// Mixins contribute in dependency-sorted order, so declaration order only matters
// where it changes the applied order. Contexts whose dependencies are cyclic fall
// back to declaration order; they never reach a cache anyway.
func (c *CompositionContext) Key() ContextKey {
	sequence, err := c.Order()
	if err != nil {
		sequence = c.mixins
	}

	var b strings.Builder
	b.WriteString(c.target.String())
	b.WriteByte(0)
	for _, m := range sequence {
		b.WriteString(m.Type.String())
		b.WriteByte(1)
		b.WriteString(string(m.Kind))
		for _, dep := range m.Dependencies {
			b.WriteByte(1)
			b.WriteString(dep.String())
		}
		b.WriteByte(0)
	}
	b.WriteByte(0)

	ifaces := TypeNames(c.completeInterfaces)
	slices.Sort(ifaces)
	for _, iface := range ifaces {
		b.WriteString(iface)
		b.WriteByte(0)
	}

	return ContextKey(b.String())
}

// Digest returns a short, stable fingerprint of the content identity.
func (c *CompositionContext) Digest() string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(string(c.Key())))
}

// Equal reports content equality: same target, same mixins with their kinds and
// dependency lists, same complete interface set, same applied order.
func (c *CompositionContext) Equal(o *CompositionContext) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.Key() == o.Key()
}

// String renders the context for diagnostics.
func (c *CompositionContext) String() string {
	names := make([]string, len(c.mixins))
	for i, m := range c.mixins {
		names[i] = m.Type.String()
	}
	return fmt.Sprintf("%s{%s}", c.target, strings.Join(names, ", "))
}
