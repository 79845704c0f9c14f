package codec_test

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/weave/internal/core/domain"
	"go.trai.ch/weave/internal/engine/codec"
)

func ref(s string) domain.TypeRef {
	return domain.MustParseTypeRef(s)
}

func sampleContext() *domain.CompositionContext {
	return domain.NewCompositionContext(ref("shop.Order"), []domain.MixinDescriptor{
		domain.NewMixin(ref("audit.Logged"), ref("audit.Timed")),
		{Type: ref("audit.Timed"), Kind: domain.MixinKindUsed},
		domain.NewMixin(ref("audit.Versioned[shop.Order]"), ref("audit.Logged"), ref("audit.Timed")),
	}, []domain.TypeRef{ref("shop.Audited")})
}

func TestFlatten(t *testing.T) {
	r := codec.Flatten(sampleContext())

	assert.Equal(t, domain.RecordVersion, r.Version)
	assert.Equal(t, "shop.Order", r.Target)
	assert.Equal(t, []string{"extending", "used", "extending"}, r.Kinds)
	assert.Equal(t, []string{"audit.Logged", "audit.Timed", "audit.Versioned[shop.Order]"}, r.Mixins)
	assert.Equal(t, []string{"shop.Audited"}, r.CompleteInterfaces)
	assert.Equal(t, []string{
		"audit.Logged", "audit.Timed", "<end>",
		"audit.Versioned[shop.Order]", "audit.Logged", "audit.Timed", "<end>",
	}, r.Dependencies)
}

func TestFlatten_Golden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, codec.Encode(&buf, codec.Flatten(sampleContext())))

	g := goldie.New(t)
	g.Assert(t, "flattened_record", buf.Bytes())
}

func TestRoundTrip(t *testing.T) {
	contexts := map[string]*domain.CompositionContext{
		"sample": sampleContext(),
		"empty":  domain.NewCompositionContext(ref("shop.Empty"), nil, nil),
		"no dependencies": domain.NewCompositionContext(ref("T"), []domain.MixinDescriptor{
			domain.NewMixin(ref("B")),
			domain.NewMixin(ref("A")),
		}, []domain.TypeRef{ref("I2"), ref("I1")}),
	}

	for name, c := range contexts {
		t.Run(name, func(t *testing.T) {
			rebuilt, err := codec.Reconstruct(codec.Flatten(c))
			require.NoError(t, err)
			assert.True(t, rebuilt.Equal(c))
			assert.Equal(t, c.Key(), rebuilt.Key())
			assert.Equal(t, codec.Flatten(c), codec.Flatten(rebuilt))
		})
	}
}

func TestRoundTrip_Encoded(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, codec.Encode(&buf, codec.Flatten(sampleContext())))

	r, err := codec.Decode(&buf)
	require.NoError(t, err)

	rebuilt, err := codec.Reconstruct(r)
	require.NoError(t, err)
	assert.True(t, rebuilt.Equal(sampleContext()))
}

func TestReconstruct_MissingTrailingSeparator(t *testing.T) {
	r := codec.Flatten(sampleContext())
	r.Dependencies = r.Dependencies[:len(r.Dependencies)-1]

	rebuilt, err := codec.Reconstruct(r)
	require.NoError(t, err)
	assert.True(t, rebuilt.Equal(sampleContext()))
}

func TestReconstruct_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *domain.MetadataRecord)
	}{
		{"unknown version", func(r *domain.MetadataRecord) { r.Version = 99 }},
		{"length mismatch", func(r *domain.MetadataRecord) { r.Kinds = r.Kinds[:1] }},
		{"invalid target", func(r *domain.MetadataRecord) { r.Target = "" }},
		{"invalid mixin", func(r *domain.MetadataRecord) { r.Mixins[0] = "bad name" }},
		{"unknown kind", func(r *domain.MetadataRecord) { r.Kinds[0] = "borrowed" }},
		{"empty kind", func(r *domain.MetadataRecord) { r.Kinds[0] = "" }},
		{"duplicate mixin", func(r *domain.MetadataRecord) { r.Mixins[1] = r.Mixins[0] }},
		{"duplicate family", func(r *domain.MetadataRecord) { r.Mixins[1] = "audit.Versioned[shop.Invoice]" }},
		{"empty block", func(r *domain.MetadataRecord) {
			r.Dependencies = append([]string{domain.RecordSeparator}, r.Dependencies...)
		}},
		{"unknown leader", func(r *domain.MetadataRecord) { r.Dependencies[0] = "audit.Missing" }},
		{"duplicate block", func(r *domain.MetadataRecord) {
			r.Dependencies = append(r.Dependencies, "audit.Logged", "audit.Timed", domain.RecordSeparator)
		}},
		{"invalid dependency", func(r *domain.MetadataRecord) { r.Dependencies[1] = "a<b>" }},
		{"invalid interface", func(r *domain.MetadataRecord) { r.CompleteInterfaces[0] = " " }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := codec.Flatten(sampleContext())
			tt.mutate(&r)

			_, err := codec.Reconstruct(r)
			require.ErrorIs(t, err, domain.ErrInvalidMetadataRecord)
		})
	}
}

func TestEncodeYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, codec.EncodeYAML(&buf, codec.Flatten(sampleContext())))

	assert.Contains(t, buf.String(), "target: shop.Order")
	assert.Contains(t, buf.String(), "complete_interfaces:")
}

func TestDecode_Invalid(t *testing.T) {
	_, err := codec.Decode(bytes.NewBufferString("{"))
	require.ErrorIs(t, err, domain.ErrInvalidMetadataRecord)
}
