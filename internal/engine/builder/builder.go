// Package builder merges a target's own mixin declarations with the context it inherits.
package builder

import (
	"slices"

	"go.trai.ch/weave/internal/core/domain"
	"go.trai.ch/zerr"
)

// Build produces the composition context for decl.Target.
//
// inherited is the context of the nearest contributing ancestor and may be nil.
// Own declarations are checked for duplicates before anything else. Suppressions
// remove matching mixins from both the own and the inherited set; they never touch
// complete interfaces. An own mixin that conflicts with an inherited one replaces
// it: the inherited entry is dropped and the own one takes its place in own
// declaration order after the surviving inherited mixins.
func Build(decl domain.Declaration, inherited *domain.CompositionContext) (*domain.CompositionContext, error) {
	if err := checkDuplicates(decl); err != nil {
		return nil, err
	}

	own := slices.DeleteFunc(slices.Clone(decl.Mixins), func(m domain.MixinDescriptor) bool {
		return suppressed(decl.Suppressions, m.Type)
	})

	var (
		mixins     []domain.MixinDescriptor
		interfaces []domain.TypeRef
	)

	if inherited != nil && !decl.SuppressInheritance {
		for _, m := range inherited.Mixins() {
			if suppressed(decl.Suppressions, m.Type) {
				continue
			}
			if slices.ContainsFunc(own, m.Conflicts) {
				continue
			}
			mixins = append(mixins, m)
		}
		interfaces = inherited.CompleteInterfaces()
	}

	mixins = append(mixins, own...)
	interfaces = append(interfaces, decl.CompleteInterfaces...)

	return domain.NewCompositionContext(decl.Target, mixins, interfaces), nil
}

func checkDuplicates(decl domain.Declaration) error {
	for i, first := range decl.Mixins {
		for _, second := range decl.Mixins[i+1:] {
			if first.Conflicts(second) {
				err := zerr.With(zerr.Wrap(domain.ErrDuplicateMixin, "mixin declared twice"), "target", decl.Target.String())
				err = zerr.With(err, "first", first.Type.String())
				return zerr.With(err, "second", second.Type.String())
			}
		}
	}
	return nil
}

func suppressed(suppressions []domain.Suppression, mixin domain.TypeRef) bool {
	for _, s := range suppressions {
		if s.Matches(mixin) {
			return true
		}
	}
	return false
}
