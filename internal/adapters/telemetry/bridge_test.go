package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.trai.ch/wam/internal/adapters/telemetry"
	"go.trai.ch/wam/internal/core/ports"
	"go.trai.ch/wam/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestBridge_ReportsLifecycle(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)

	tp := telemetry.NewProvider(renderer)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	tracer := telemetry.NewOTelTracer(tp)

	var stageID string
	renderer.EXPECT().OnTaskStart(gomock.Any(), "", "fetch", gomock.Any()).
		Do(func(id, _, _ string, _ time.Time) { stageID = id })

	ctx, stage := tracer.Start(context.Background(), "fetch", ports.WithStage("fetch"))

	stageSpan, ok := stage.(*telemetry.OTelSpan)
	require.True(t, ok)
	require.Equal(t, stageSpan.ID(), stageID)

	renderer.EXPECT().OnTaskStart(gomock.Any(), stageID, "curse/broken", gomock.Any())
	_, addon := tracer.Start(ctx, "curse/broken", ports.WithStage("fetch"))
	addonSpan, ok := addon.(*telemetry.OTelSpan)
	require.True(t, ok)

	gomock.InOrder(
		renderer.EXPECT().OnTaskComplete(addonSpan.ID(), gomock.Any(), gomock.Any()).
			Do(func(_ string, _ time.Time, err error) {
				require.EqualError(t, err, "failed to extract archive")
			}),
		renderer.EXPECT().OnTaskComplete(stageID, gomock.Any(), nil),
	)

	addon.RecordError(errors.New("failed to extract archive"))
	addon.End()
	stage.End()
}

func TestBridge_IgnoresSpansWithoutStage(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)

	tp := telemetry.NewProvider(renderer)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	tracer := telemetry.NewOTelTracer(tp)

	// Only the staged child reaches the renderer, and it has no tracked parent.
	ctx, outer := tracer.Start(context.Background(), "http.request")
	renderer.EXPECT().OnTaskStart(gomock.Any(), "", "resolve", gomock.Any())
	renderer.EXPECT().OnTaskComplete(gomock.Any(), gomock.Any(), nil)

	_, inner := tracer.Start(ctx, "resolve", ports.WithStage("resolve"))
	inner.End()
	outer.End()
}

func TestBridge_NilRenderer(t *testing.T) {
	tp := telemetry.NewProvider(nil)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	_, span := telemetry.NewOTelTracer(tp).Start(context.Background(), "noop")
	span.RecordError(errors.New("ignored"))
	span.End()
}

func TestBridge_FlushAndShutdown(t *testing.T) {
	b := telemetry.NewBridge(nil)
	require.NoError(t, b.ForceFlush(context.Background()))
	require.NoError(t, b.Shutdown(context.Background()))
}
