package weaver

import (
	"slices"

	"go.trai.ch/weave/internal/core/domain"
	"go.trai.ch/zerr"
)

// Composed is the artifact of one composition: the context it was built from
// and its mixins in application order, outermost first.
type Composed struct {
	handle     domain.ArtifactHandle
	context    *domain.CompositionContext
	order      []domain.MixinDescriptor
	rehydrated bool
}

// Handle implements domain.Artifact.
func (a *Composed) Handle() domain.ArtifactHandle {
	return a.handle
}

// Context returns the composition a was built from.
func (a *Composed) Context() *domain.CompositionContext {
	return a.context
}

// Order returns the mixins in application order.
func (a *Composed) Order() []domain.MixinDescriptor {
	return slices.Clone(a.order)
}

// Rehydrated reports whether a was rebuilt from a metadata record.
func (a *Composed) Rehydrated() bool {
	return a.rehydrated
}

// Invoke runs member through the handler chain. Mixins that implement member
// take part in application order; the target's implementation runs last.
func (a *Composed) Invoke(member string, impls Implementations, args ...any) (any, error) {
	call := &Call{
		Member: member,
		Args:   args,
		pos:    -1,
		target: a.context.Target(),
	}
	for _, m := range a.order {
		if h, ok := impls.find(m.Type, member); ok {
			call.chain = append(call.chain, step{mixin: m.Type, handler: h})
		}
	}
	call.terminal, _ = impls.find(call.target, member)
	return call.Next()
}

// Auxiliary is the secondary artifact shared by every composition applying one mixin.
type Auxiliary struct {
	handle  domain.ArtifactHandle
	mixin   domain.TypeRef
	members []string
}

// Handle implements domain.Artifact.
func (a *Auxiliary) Handle() domain.ArtifactHandle {
	return a.handle
}

// Mixin returns the mixin type the artifact belongs to.
func (a *Auxiliary) Mixin() domain.TypeRef {
	return a.mixin
}

// Members returns the members the mixin overrides.
func (a *Auxiliary) Members() []string {
	return slices.Clone(a.members)
}

// Handler implements one member for one type. It may call c.Next to proceed
// down the chain.
type Handler func(c *Call) (any, error)

// Implementation maps member names to handlers.
type Implementation map[string]Handler

// Implementations maps types to their member implementations. A parameterised
// mixin falls back to the implementation registered for its family.
type Implementations map[domain.TypeRef]Implementation

func (impls Implementations) find(t domain.TypeRef, member string) (Handler, bool) {
	if h, ok := impls[t][member]; ok && h != nil {
		return h, true
	}
	if t.IsParameterized() {
		if h, ok := impls[t.Family()][member]; ok && h != nil {
			return h, true
		}
	}
	return nil, false
}

type step struct {
	mixin   domain.TypeRef
	handler Handler
}

// Call is one invocation travelling down a handler chain.
type Call struct {
	// Member is the invoked member.
	Member string
	// Args are the invocation arguments. Handlers may replace them before calling Next.
	Args []any
	// Type is the type whose handler is running: a mixin, or the target at the end of the chain.
	Type domain.TypeRef

	chain    []step
	pos      int
	target   domain.TypeRef
	terminal Handler
}

// Next proceeds to the next handler, or to the target's implementation after the last mixin.
func (c *Call) Next() (any, error) {
	next := *c
	next.pos++
	switch {
	case next.pos < len(next.chain):
		next.Type = next.chain[next.pos].mixin
		return next.chain[next.pos].handler(&next)
	case next.pos == len(next.chain) && next.terminal != nil:
		next.Type = next.target
		return next.terminal(&next)
	default:
		err := zerr.With(zerr.Wrap(domain.ErrMemberNotImplemented, "no handler left in chain"), "target", c.target.String())
		return nil, zerr.With(err, "member", c.Member)
	}
}
