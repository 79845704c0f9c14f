package builder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/weave/internal/core/domain"
	"go.trai.ch/weave/internal/engine/builder"
	"go.trai.ch/zerr"
)

func ref(s string) domain.TypeRef {
	return domain.MustParseTypeRef(s)
}

func names(c *domain.CompositionContext) []string {
	mixins := c.Mixins()
	out := make([]string, len(mixins))
	for i, m := range mixins {
		out[i] = m.Type.String()
	}
	return out
}

func baseContext() *domain.CompositionContext {
	return domain.NewCompositionContext(ref("Base"), []domain.MixinDescriptor{
		domain.NewMixin(ref("X")),
		domain.NewMixin(ref("Y")),
	}, []domain.TypeRef{ref("IBase")})
}

func TestBuild_OwnOnly(t *testing.T) {
	c, err := builder.Build(domain.Declaration{
		Target:             ref("T"),
		Mixins:             []domain.MixinDescriptor{domain.NewMixin(ref("A")), domain.NewMixin(ref("B"))},
		CompleteInterfaces: []domain.TypeRef{ref("I")},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "T", c.Target().String())
	assert.Equal(t, []string{"A", "B"}, names(c))
	assert.Equal(t, []string{"I"}, domain.TypeNames(c.CompleteInterfaces()))
}

func TestBuild_Inheritance(t *testing.T) {
	t.Run("own mixin replaces inherited one", func(t *testing.T) {
		c, err := builder.Build(domain.Declaration{
			Target: ref("Derived"),
			Mixins: []domain.MixinDescriptor{{Type: ref("Y"), Kind: domain.MixinKindUsed}},
		}, baseContext())
		require.NoError(t, err)

		assert.Equal(t, []string{"X", "Y"}, names(c))
		y, ok := c.Mixin(ref("Y"))
		require.True(t, ok)
		assert.Equal(t, domain.MixinKindUsed, y.Kind)
		assert.Equal(t, []string{"IBase"}, domain.TypeNames(c.CompleteInterfaces()))
	})

	t.Run("suppression removes inherited mixin", func(t *testing.T) {
		c, err := builder.Build(domain.Declaration{
			Target:       ref("Derived"),
			Mixins:       []domain.MixinDescriptor{domain.NewMixin(ref("Y"))},
			Suppressions: []domain.Suppression{{Type: ref("X")}},
		}, baseContext())
		require.NoError(t, err)

		assert.Equal(t, []string{"Y"}, names(c))
	})

	t.Run("own mixins appended after inherited", func(t *testing.T) {
		c, err := builder.Build(domain.Declaration{
			Target: ref("Derived"),
			Mixins: []domain.MixinDescriptor{domain.NewMixin(ref("Z")), domain.NewMixin(ref("X"))},
		}, baseContext())
		require.NoError(t, err)

		assert.Equal(t, []string{"Y", "Z", "X"}, names(c))
	})

	t.Run("parameterised own mixin replaces inherited family member", func(t *testing.T) {
		base := domain.NewCompositionContext(ref("Base"), []domain.MixinDescriptor{
			domain.NewMixin(ref("audit.Versioned[Base]")),
			domain.NewMixin(ref("X")),
		}, nil)

		c, err := builder.Build(domain.Declaration{
			Target: ref("Derived"),
			Mixins: []domain.MixinDescriptor{domain.NewMixin(ref("audit.Versioned[Derived]"))},
		}, base)
		require.NoError(t, err)

		assert.Equal(t, []string{"X", "audit.Versioned[Derived]"}, names(c))
	})

	t.Run("suppress inheritance", func(t *testing.T) {
		c, err := builder.Build(domain.Declaration{
			Target:              ref("Derived"),
			Mixins:              []domain.MixinDescriptor{domain.NewMixin(ref("Z"))},
			CompleteInterfaces:  []domain.TypeRef{ref("I")},
			SuppressInheritance: true,
		}, baseContext())
		require.NoError(t, err)

		assert.Equal(t, []string{"Z"}, names(c))
		assert.Equal(t, []string{"I"}, domain.TypeNames(c.CompleteInterfaces()))
	})

	t.Run("complete interfaces merged without duplicates", func(t *testing.T) {
		c, err := builder.Build(domain.Declaration{
			Target:             ref("Derived"),
			CompleteInterfaces: []domain.TypeRef{ref("I"), ref("IBase")},
		}, baseContext())
		require.NoError(t, err)

		assert.Equal(t, []string{"IBase", "I"}, domain.TypeNames(c.CompleteInterfaces()))
	})
}

func TestBuild_Suppression(t *testing.T) {
	own := []domain.MixinDescriptor{
		domain.NewMixin(ref("audit.Versioned[T]")),
		domain.NewMixin(ref("audit.Logged")),
	}

	t.Run("family", func(t *testing.T) {
		c, err := builder.Build(domain.Declaration{
			Target:       ref("T"),
			Mixins:       own,
			Suppressions: []domain.Suppression{{Type: ref("audit.Versioned"), Mode: domain.MatchFamily}},
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"audit.Logged"}, names(c))
	})

	t.Run("exact does not match other instantiations", func(t *testing.T) {
		c, err := builder.Build(domain.Declaration{
			Target:       ref("T"),
			Mixins:       own,
			Suppressions: []domain.Suppression{{Type: ref("audit.Versioned[U]"), Mode: domain.MatchExact}},
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"audit.Versioned[T]", "audit.Logged"}, names(c))
	})

	t.Run("exact", func(t *testing.T) {
		c, err := builder.Build(domain.Declaration{
			Target:       ref("T"),
			Mixins:       own,
			Suppressions: []domain.Suppression{{Type: ref("audit.Versioned[T]"), Mode: domain.MatchExact}},
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"audit.Logged"}, names(c))
	})
}

func TestBuild_Duplicate(t *testing.T) {
	tests := []struct {
		name          string
		first, second string
	}{
		{"same type", "A", "A"},
		{"same family", "audit.Versioned[T]", "audit.Versioned[U]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := builder.Build(domain.Declaration{
				Target: ref("T"),
				Mixins: []domain.MixinDescriptor{
					domain.NewMixin(ref(tt.first)),
					domain.NewMixin(ref("B")),
					domain.NewMixin(ref(tt.second)),
				},
				// Suppressing the duplicate does not hide it.
				Suppressions: []domain.Suppression{{Type: ref(tt.first)}},
			}, nil)
			require.ErrorIs(t, err, domain.ErrDuplicateMixin)

			zErr, ok := err.(*zerr.Error)
			require.True(t, ok)
			meta := zErr.Metadata()
			assert.Equal(t, "T", meta["target"])
			assert.Equal(t, tt.first, meta["first"])
			assert.Equal(t, tt.second, meta["second"])
		})
	}
}

func TestBuild_DoesNotModifyInputs(t *testing.T) {
	decl := domain.Declaration{
		Target:       ref("Derived"),
		Mixins:       []domain.MixinDescriptor{domain.NewMixin(ref("A")), domain.NewMixin(ref("B"))},
		Suppressions: []domain.Suppression{{Type: ref("A")}},
	}
	base := baseContext()
	key := base.Key()

	_, err := builder.Build(decl, base)
	require.NoError(t, err)

	assert.Len(t, decl.Mixins, 2)
	assert.Equal(t, "A", decl.Mixins[0].Type.String())
	assert.Equal(t, key, base.Key())
}
