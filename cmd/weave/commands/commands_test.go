package commands_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/weave/cmd/weave/commands"
	"go.trai.ch/weave/internal/build"
	"go.trai.ch/weave/internal/core/domain"
)

type mockApp struct {
	loadConfigFunc  func(path string) error
	resolveFunc     func(ctx context.Context, name string) (*domain.CompositionContext, error)
	resolveAllFunc  func(ctx context.Context) ([]*domain.CompositionContext, error)
	orderFunc       func(ctx context.Context, name string) ([]domain.MixinDescriptor, error)
	flattenFunc     func(ctx context.Context, name string) (domain.MetadataRecord, error)
	getArtifactFunc func(ctx context.Context, name string) (domain.Artifact, error)
	exportFunc      func(root string) (int, error)
	importFromFunc  func(ctx context.Context, root string) (int, error)
	watchFunc       func(ctx context.Context, onReload func(error)) error
	stats           map[domain.GenerationStatus]float64
}

func (m *mockApp) LoadConfig(path string) error {
	if m.loadConfigFunc != nil {
		return m.loadConfigFunc(path)
	}
	return nil
}

func (m *mockApp) Resolve(ctx context.Context, name string) (*domain.CompositionContext, error) {
	if m.resolveFunc != nil {
		return m.resolveFunc(ctx, name)
	}
	return sampleContext(), nil
}

func (m *mockApp) ResolveAll(ctx context.Context) ([]*domain.CompositionContext, error) {
	if m.resolveAllFunc != nil {
		return m.resolveAllFunc(ctx)
	}
	return []*domain.CompositionContext{sampleContext()}, nil
}

func (m *mockApp) Order(ctx context.Context, name string) ([]domain.MixinDescriptor, error) {
	if m.orderFunc != nil {
		return m.orderFunc(ctx, name)
	}
	return sampleContext().Order()
}

func (m *mockApp) Flatten(ctx context.Context, name string) (domain.MetadataRecord, error) {
	if m.flattenFunc != nil {
		return m.flattenFunc(ctx, name)
	}
	return domain.MetadataRecord{}, nil
}

func (m *mockApp) GetArtifact(ctx context.Context, name string) (domain.Artifact, error) {
	if m.getArtifactFunc != nil {
		return m.getArtifactFunc(ctx, name)
	}
	return handle("ws/" + name + "#1"), nil
}

func (m *mockApp) Export(root string) (int, error) {
	if m.exportFunc != nil {
		return m.exportFunc(root)
	}
	return 0, nil
}

func (m *mockApp) ImportFrom(ctx context.Context, root string) (int, error) {
	if m.importFromFunc != nil {
		return m.importFromFunc(ctx, root)
	}
	return 0, nil
}

func (m *mockApp) Watch(ctx context.Context, onReload func(error)) error {
	if m.watchFunc != nil {
		return m.watchFunc(ctx, onReload)
	}
	return nil
}

func (m *mockApp) Stats() map[domain.GenerationStatus]float64 {
	return m.stats
}

func (m *mockApp) MetricsHandler() (http.Handler, bool) {
	return nil, false
}

type handle domain.ArtifactHandle

func (h handle) Handle() domain.ArtifactHandle {
	return domain.ArtifactHandle(h)
}

func ref(s string) domain.TypeRef {
	return domain.MustParseTypeRef(s)
}

func sampleContext() *domain.CompositionContext {
	timed := domain.NewMixin(ref("audit.Timed"), ref("audit.Logged"))
	timed.Kind = domain.MixinKindUsed
	return domain.NewCompositionContext(ref("shop.Order"), []domain.MixinDescriptor{
		domain.NewMixin(ref("audit.Logged")),
		timed,
	}, []domain.TypeRef{ref("shop.Audited")})
}

func execute(t *testing.T, a commands.Application, args ...string) (string, error) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	cli := commands.New(a)
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return buf.String(), err
}

func TestCommands_Resolve(t *testing.T) {
	t.Run("prints composition", func(t *testing.T) {
		var resolved []string
		mock := &mockApp{
			resolveFunc: func(_ context.Context, name string) (*domain.CompositionContext, error) {
				resolved = append(resolved, name)
				return sampleContext(), nil
			},
		}

		out, err := execute(t, mock, "resolve", "shop.Order")
		require.NoError(t, err)
		assert.Equal(t, []string{"shop.Order"}, resolved)

		g := goldie.New(t)
		g.Assert(t, "resolve", []byte(out))
	})

	t.Run("all targets", func(t *testing.T) {
		called := false
		mock := &mockApp{
			resolveAllFunc: func(context.Context) ([]*domain.CompositionContext, error) {
				called = true
				return []*domain.CompositionContext{sampleContext()}, nil
			},
		}

		out, err := execute(t, mock, "resolve", "--all")
		require.NoError(t, err)
		assert.True(t, called)
		assert.Contains(t, out, "shop.Order")
	})

	t.Run("shows usage when no types provided", func(t *testing.T) {
		mock := &mockApp{
			resolveFunc: func(context.Context, string) (*domain.CompositionContext, error) {
				panic("should not be called")
			},
		}

		out, err := execute(t, mock, "resolve")
		require.NoError(t, err)
		assert.Contains(t, out, "Usage:")
	})

	t.Run("returns resolve error", func(t *testing.T) {
		mock := &mockApp{
			resolveFunc: func(context.Context, string) (*domain.CompositionContext, error) {
				return nil, domain.ErrUnknownType
			},
		}

		_, err := execute(t, mock, "resolve", "shop.Missing")
		require.ErrorIs(t, err, domain.ErrUnknownType)
	})
}

func TestCommands_Order(t *testing.T) {
	out, err := execute(t, &mockApp{}, "order", "shop.Order")
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "order", []byte(out))

	_, err = execute(t, &mockApp{}, "order")
	require.Error(t, err)
}

func TestCommands_Flatten(t *testing.T) {
	record := domain.MetadataRecord{
		Version:            domain.RecordVersion,
		Target:             "shop.Order",
		Kinds:              []string{"extending"},
		Mixins:             []string{"audit.Logged"},
		CompleteInterfaces: []string{},
		Dependencies:       []string{},
	}
	mock := &mockApp{
		flattenFunc: func(context.Context, string) (domain.MetadataRecord, error) {
			return record, nil
		},
	}

	out, err := execute(t, mock, "flatten", "shop.Order")
	require.NoError(t, err)
	assert.Contains(t, out, `"target": "shop.Order"`)

	out, err = execute(t, mock, "flatten", "shop.Order", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "target: shop.Order")

	_, err = execute(t, mock, "flatten", "shop.Order", "-o", "xml")
	require.Error(t, err)
}

func TestCommands_Generate(t *testing.T) {
	t.Run("prints handles and stats", func(t *testing.T) {
		mock := &mockApp{
			stats: map[domain.GenerationStatus]float64{
				domain.GenerationCompleted: 1,
				domain.GenerationCached:    1,
			},
		}

		out, err := execute(t, mock, "generate", "shop.Order", "--stats")
		require.NoError(t, err)

		g := goldie.New(t)
		g.Assert(t, "generate_stats", []byte(out))
	})

	t.Run("requires targets", func(t *testing.T) {
		_, err := execute(t, &mockApp{}, "generate")
		require.ErrorIs(t, err, domain.ErrNoTargetsSpecified)
	})

	t.Run("all targets", func(t *testing.T) {
		var generated []string
		mock := &mockApp{
			getArtifactFunc: func(_ context.Context, name string) (domain.Artifact, error) {
				generated = append(generated, name)
				return handle("ws/" + name + "#1"), nil
			},
		}

		_, err := execute(t, mock, "generate", "--all")
		require.NoError(t, err)
		assert.Equal(t, []string{"shop.Order"}, generated)
	})

	t.Run("returns generation error", func(t *testing.T) {
		mock := &mockApp{
			getArtifactFunc: func(context.Context, string) (domain.Artifact, error) {
				return nil, domain.ErrNonComposableTarget
			},
		}

		_, err := execute(t, mock, "generate", "shop.Invoice")
		require.ErrorIs(t, err, domain.ErrNonComposableTarget)
	})
}

func TestCommands_ExportImport(t *testing.T) {
	var generated []string
	var exportRoot, importRoot string
	mock := &mockApp{
		getArtifactFunc: func(_ context.Context, name string) (domain.Artifact, error) {
			generated = append(generated, name)
			return handle("ws/" + name + "#1"), nil
		},
		exportFunc: func(root string) (int, error) {
			exportRoot = root
			return len(generated), nil
		},
		importFromFunc: func(_ context.Context, root string) (int, error) {
			importRoot = root
			return 2, nil
		},
	}

	out, err := execute(t, mock, "export", "shop.Order", "shop.Entity", "--root", "/tmp/out")
	require.NoError(t, err)
	assert.Equal(t, []string{"shop.Order", "shop.Entity"}, generated)
	assert.Equal(t, "/tmp/out", exportRoot)
	assert.Contains(t, out, "exported 2 artifacts to /tmp/out")

	out, err = execute(t, mock, "import", "--root", "/tmp/out")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/out", importRoot)
	assert.Contains(t, out, "imported 2 artifacts from /tmp/out")
}

func TestCommands_Watch(t *testing.T) {
	mock := &mockApp{
		watchFunc: func(_ context.Context, onReload func(error)) error {
			onReload(nil)
			onReload(errors.New("bad yaml"))
			return nil
		},
	}

	out, err := execute(t, mock, "watch")
	require.NoError(t, err)
	assert.Contains(t, out, "configuration reloaded")
	assert.Contains(t, out, "reload failed: bad yaml")

	_, err = execute(t, mock, "watch", "--metrics-addr", "127.0.0.1:0")
	require.Error(t, err)
}

func TestCommands_ConfigFlag(t *testing.T) {
	var loaded string
	mock := &mockApp{
		loadConfigFunc: func(path string) error {
			loaded = path
			return nil
		},
	}

	_, err := execute(t, mock, "resolve", "shop.Order", "--config", "/project/weave.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/project/weave.yaml", loaded)

	mock.loadConfigFunc = func(string) error { return domain.ErrConfigReadFailed }
	_, err = execute(t, mock, "order", "shop.Order", "-c", "/missing.yaml")
	require.ErrorIs(t, err, domain.ErrConfigReadFailed)
}

type recordingLogs struct {
	json  bool
	level domain.LogLevel
}

func (r *recordingLogs) SetJSON(enabled bool)           { r.json = enabled }
func (r *recordingLogs) SetLevel(level domain.LogLevel) { r.level = level }

func TestCommands_LogFlags(t *testing.T) {
	logs := &recordingLogs{level: domain.LogLevelInfo}
	cli := commands.New(&mockApp{}, commands.WithLogConfigurer(logs))
	cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))
	cli.SetArgs([]string{"version", "--verbose", "--json"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.True(t, logs.json)
	assert.Equal(t, domain.LogLevelDebug, logs.level)
}

func TestCommands_VerboseSubcommand(t *testing.T) {
	logs := &recordingLogs{level: domain.LogLevelInfo}
	var resolved []string
	mock := &mockApp{
		resolveFunc: func(_ context.Context, name string) (*domain.CompositionContext, error) {
			resolved = append(resolved, name)
			return sampleContext(), nil
		},
	}
	cli := commands.New(mock, commands.WithLogConfigurer(logs))
	cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))
	cli.SetArgs([]string{"resolve", "shop.Order", "--verbose"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, []string{"shop.Order"}, resolved)
	assert.Equal(t, domain.LogLevelDebug, logs.level)
	assert.False(t, logs.json)
}

func TestCommands_VersionShorthand(t *testing.T) {
	out, err := execute(t, &mockApp{}, "-v")
	require.NoError(t, err)
	assert.Contains(t, out, "weave version "+build.Version)
}

func TestCommands_Version(t *testing.T) {
	out, err := execute(t, &mockApp{}, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "weave version "+build.Version)
}
