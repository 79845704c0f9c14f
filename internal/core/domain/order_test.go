package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/weave/internal/core/domain"
	"go.trai.ch/zerr"
)

func orderedNames(t *testing.T, c *domain.CompositionContext) []string {
	t.Helper()
	ordered, err := c.Order()
	require.NoError(t, err)
	names := make([]string, len(ordered))
	for i, m := range ordered {
		names[i] = m.Type.String()
	}
	return names
}

func TestOrder_KeepsDeclarationOrderWithoutDependencies(t *testing.T) {
	c := domain.NewCompositionContext(ref("T"), []domain.MixinDescriptor{
		domain.NewMixin(ref("A")),
		domain.NewMixin(ref("B")),
		domain.NewMixin(ref("C")),
	}, nil)

	assert.Equal(t, []string{"A", "B", "C"}, orderedNames(t, c))
}

func TestOrder_DependencyMovesMixinAfterItsDependency(t *testing.T) {
	c := domain.NewCompositionContext(ref("T"), []domain.MixinDescriptor{
		domain.NewMixin(ref("A"), ref("C")),
		domain.NewMixin(ref("B")),
		domain.NewMixin(ref("C")),
	}, nil)

	assert.Equal(t, []string{"B", "C", "A"}, orderedNames(t, c))
}

func TestOrder_Chain(t *testing.T) {
	c := domain.NewCompositionContext(ref("T"), []domain.MixinDescriptor{
		domain.NewMixin(ref("A"), ref("B")),
		domain.NewMixin(ref("B"), ref("C")),
		domain.NewMixin(ref("C")),
		domain.NewMixin(ref("D")),
	}, nil)

	assert.Equal(t, []string{"C", "D", "B", "A"}, orderedNames(t, c))
}

func TestOrder_DependencyResolvesByFamily(t *testing.T) {
	c := domain.NewCompositionContext(ref("T"), []domain.MixinDescriptor{
		domain.NewMixin(ref("A"), ref("audit.Versioned")),
		domain.NewMixin(ref("audit.Versioned[T]")),
	}, nil)

	assert.Equal(t, []string{"audit.Versioned[T]", "A"}, orderedNames(t, c))
}

func TestOrder_IgnoresAbsentDependencies(t *testing.T) {
	c := domain.NewCompositionContext(ref("T"), []domain.MixinDescriptor{
		domain.NewMixin(ref("A"), ref("Suppressed")),
		domain.NewMixin(ref("B")),
	}, nil)

	assert.Equal(t, []string{"A", "B"}, orderedNames(t, c))
}

func TestOrder_Empty(t *testing.T) {
	c := domain.NewCompositionContext(ref("T"), nil, nil)
	ordered, err := c.Order()
	require.NoError(t, err)
	assert.Empty(t, ordered)
}

func TestOrder_Deterministic(t *testing.T) {
	build := func() *domain.CompositionContext {
		return domain.NewCompositionContext(ref("T"), []domain.MixinDescriptor{
			domain.NewMixin(ref("E"), ref("A")),
			domain.NewMixin(ref("D")),
			domain.NewMixin(ref("A")),
			domain.NewMixin(ref("C"), ref("D")),
			domain.NewMixin(ref("B")),
		}, nil)
	}

	first := orderedNames(t, build())
	for range 20 {
		assert.Equal(t, first, orderedNames(t, build()))
	}
}

func TestOrder_Cycle(t *testing.T) {
	c := domain.NewCompositionContext(ref("T"), []domain.MixinDescriptor{
		domain.NewMixin(ref("A"), ref("B")),
		domain.NewMixin(ref("B"), ref("A")),
		domain.NewMixin(ref("C")),
	}, nil)

	ordered, err := c.Order()
	require.ErrorIs(t, err, domain.ErrCircularDependency)
	assert.Nil(t, ordered)

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	meta := zErr.Metadata()
	assert.Equal(t, "A -> B -> A", meta["cycle"])
	assert.Equal(t, []string{"A", "B"}, meta["mixins"])
	assert.Equal(t, "T", meta["target"])
}

func TestOrder_SelfDependency(t *testing.T) {
	c := domain.NewCompositionContext(ref("T"), []domain.MixinDescriptor{
		domain.NewMixin(ref("A"), ref("A")),
	}, nil)

	_, err := c.Order()
	require.ErrorIs(t, err, domain.ErrCircularDependency)
}
