// Package codec converts composition contexts to and from metadata records.
package codec

import (
	"slices"

	"go.trai.ch/weave/internal/core/domain"
	"go.trai.ch/zerr"
)

// Flatten encodes c as a self-contained metadata record.
func Flatten(c *domain.CompositionContext) domain.MetadataRecord {
	mixins := c.Mixins()
	r := domain.MetadataRecord{
		Version:            domain.RecordVersion,
		Target:             c.Target().String(),
		Kinds:              make([]string, len(mixins)),
		Mixins:             make([]string, len(mixins)),
		CompleteInterfaces: domain.TypeNames(c.CompleteInterfaces()),
		Dependencies:       []string{},
	}

	for i, m := range mixins {
		r.Kinds[i] = string(m.Kind)
		r.Mixins[i] = m.Type.String()
		if len(m.Dependencies) == 0 {
			continue
		}
		r.Dependencies = append(r.Dependencies, m.Type.String())
		r.Dependencies = append(r.Dependencies, domain.TypeNames(m.Dependencies)...)
		r.Dependencies = append(r.Dependencies, domain.RecordSeparator)
	}

	return r
}

// Reconstruct rebuilds the context encoded by r. The final dependency block may
// omit its separator.
func Reconstruct(r domain.MetadataRecord) (*domain.CompositionContext, error) {
	if r.Version != domain.RecordVersion {
		return nil, zerr.With(invalid("unsupported record version"), "version", r.Version)
	}
	if len(r.Kinds) != len(r.Mixins) {
		err := zerr.With(invalid("kinds and mixins differ in length"), "kinds", len(r.Kinds))
		return nil, zerr.With(err, "mixins", len(r.Mixins))
	}

	target, err := parse(r.Target)
	if err != nil {
		return nil, err
	}

	mixins := make([]domain.MixinDescriptor, len(r.Mixins))
	for i, name := range r.Mixins {
		mixin, err := parse(name)
		if err != nil {
			return nil, err
		}
		candidate := domain.MixinDescriptor{Type: mixin}
		if slices.ContainsFunc(mixins[:i], candidate.Conflicts) {
			return nil, zerr.With(invalid("mixin listed twice"), "mixin", name)
		}
		kind, err := domain.ParseMixinKind(r.Kinds[i])
		if err != nil || r.Kinds[i] == "" {
			return nil, zerr.With(invalid("unknown mixin kind"), "kind", r.Kinds[i])
		}
		mixins[i] = domain.MixinDescriptor{Type: mixin, Kind: kind}
	}

	if err := decodeDependencies(r.Dependencies, mixins); err != nil {
		return nil, err
	}

	interfaces := make([]domain.TypeRef, len(r.CompleteInterfaces))
	for i, name := range r.CompleteInterfaces {
		iface, err := parse(name)
		if err != nil {
			return nil, err
		}
		interfaces[i] = iface
	}

	return domain.NewCompositionContext(target, mixins, interfaces), nil
}

// decodeDependencies fills in the dependency lists of mixins from flattened blocks.
func decodeDependencies(flat []string, mixins []domain.MixinDescriptor) error {
	seen := make([]bool, len(mixins))

	for len(flat) > 0 {
		end := slices.Index(flat, domain.RecordSeparator)
		block := flat
		if end >= 0 {
			block = flat[:end]
			flat = flat[end+1:]
		} else {
			flat = nil
		}

		if len(block) == 0 {
			return invalid("empty dependency block")
		}

		leader, err := parse(block[0])
		if err != nil {
			return err
		}
		idx := slices.IndexFunc(mixins, func(m domain.MixinDescriptor) bool { return m.Type.SameType(leader) })
		if idx < 0 {
			return zerr.With(invalid("dependency block for unknown mixin"), "mixin", block[0])
		}
		if seen[idx] {
			return zerr.With(invalid("dependency block listed twice"), "mixin", block[0])
		}
		seen[idx] = true

		deps := make([]domain.TypeRef, 0, len(block)-1)
		for _, name := range block[1:] {
			dep, err := parse(name)
			if err != nil {
				return err
			}
			deps = append(deps, dep)
		}
		mixins[idx].Dependencies = deps
	}

	return nil
}

func parse(s string) (domain.TypeRef, error) {
	t, err := domain.ParseTypeRef(s)
	if err != nil {
		return domain.TypeRef{}, zerr.With(invalid("invalid type identity"), "value", s)
	}
	return t, nil
}

func invalid(msg string) error {
	return zerr.Wrap(domain.ErrInvalidMetadataRecord, msg)
}
