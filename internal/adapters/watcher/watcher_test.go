package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/weave/internal/adapters/watcher"
	"go.trai.ch/weave/internal/core/domain"
	"go.trai.ch/weave/internal/core/ports"
	"go.trai.ch/weave/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestWatcher_ReportsConfigChanges(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Error(gomock.Any()).AnyTimes()

	dir := t.TempDir()
	configPath := filepath.Join(dir, domain.ConfigFileName)
	require.NoError(t, os.WriteFile(configPath, []byte("version: \"1\"\n"), domain.FilePerm))

	w, err := watcher.NewWatcher(mockLogger)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx, configPath))
	defer func() { _ = w.Stop() }()

	events := make(chan ports.WatchEvent, 10)
	go func() {
		for event := range w.Events() {
			events <- event
		}
		close(events)
	}()

	// Changes to other files in the directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), domain.FilePerm))
	require.NoError(t, os.WriteFile(configPath, []byte("version: \"1\"\ntypes: {}\n"), domain.FilePerm))

	select {
	case event := <-events:
		assert.Equal(t, configPath, event.Path)
		assert.Contains(t, []ports.WatchOp{ports.OpWrite, ports.OpCreate}, event.Operation)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for config change event")
	}
}

func TestWatcher_StartMissingDirectory(t *testing.T) {
	ctrl := gomock.NewController(t)
	w, err := watcher.NewWatcher(mocks.NewMockLogger(ctrl))
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	err = w.Start(context.Background(), filepath.Join(t.TempDir(), "missing", domain.ConfigFileName))
	require.Error(t, err)
}
