package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/weave/internal/adapters/weaver"
	"go.trai.ch/weave/internal/app"
	"go.trai.ch/weave/internal/core/domain"
	"go.trai.ch/weave/internal/core/ports/mocks"
	"go.trai.ch/weave/internal/engine/gateway"
	"go.uber.org/mock/gomock"
)

func newComponents(ctrl *gomock.Controller) (*app.Components, *mocks.MockConfigLoader, *mocks.MockLogger) {
	mockLoader := mocks.NewMockConfigLoader(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockTelemetry := mocks.NewMockTelemetry(ctrl)
	mockTelemetry.EXPECT().Close().Return(nil).AnyTimes()

	application := app.New(
		mockLoader,
		mockLogger,
		weaver.New(mockLogger),
		gateway.New(nil, nil),
		mocks.NewMockArtifactStore(ctrl),
		mocks.NewMockMetrics(ctrl),
		mocks.NewMockWatcher(ctrl),
	)

	return &app.Components{
		App:          application,
		Logger:       mockLogger,
		ConfigLoader: mockLoader,
		Telemetry:    mockTelemetry,
	}, mockLoader, mockLogger
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	components, _, _ := newComponents(ctrl)

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return components, func() {}, nil
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)
	assert.Equal(t, 0, exitCode)
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that run logs the error and returns 1 when a command fails.
func TestRun_ExecutionError(t *testing.T) {
	ctrl := gomock.NewController(t)
	components, mockLoader, mockLogger := newComponents(ctrl)

	mockLoader.EXPECT().Load("/missing/weave.yaml").Return(nil, domain.ErrConfigReadFailed)
	mockLogger.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.ErrorIs(t, err, domain.ErrConfigReadFailed)
	})

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return components, func() {}, nil
	}

	exitCode := run(context.Background(), []string{"resolve", "shop.Order", "-c", "/missing/weave.yaml"}, new(bytes.Buffer), provider)
	assert.Equal(t, 1, exitCode)
}

// TestRun_AppliesOptions verifies that options are applied to the App before execution.
func TestRun_AppliesOptions(t *testing.T) {
	ctrl := gomock.NewController(t)
	components, _, _ := newComponents(ctrl)

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return components, func() {}, nil
	}

	applied := false
	exitCode := run(context.Background(), []string{"version"}, new(bytes.Buffer), provider, func(a *app.App) {
		applied = a == components.App
	})
	assert.Equal(t, 0, exitCode)
	assert.True(t, applied)
}
