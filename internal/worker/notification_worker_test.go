package worker

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fixithub/complaint-service/internal/config"
	"github.com/fixithub/complaint-service/internal/events"
	"github.com/fixithub/complaint-service/internal/observability"
	"github.com/fixithub/complaint-service/internal/service"
)

func TestNotificationWorker_DeliversQueuedEventsBeforeStop(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetricsWithRegistry(reg, reg)
	notifications := service.NewNotificationService(zap.NewNop(), metrics, config.NotificationConfig{})

	dispatcher := events.NewInMemoryDispatcher()
	w := NewNotificationWorker(notifications, zap.NewNop(), 16)
	w.Start(context.Background(), dispatcher)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, dispatcher.Publish(ctx, events.Event{Type: events.EventComplaintCreated, SubjectID: "c1"}))
	require.NoError(t, dispatcher.Publish(ctx, events.Event{Type: events.EventComplaintDeleted, SubjectID: "c1"}))
	// a finished request must not cancel delivery
	cancel()
	w.Stop()

	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP fixithub_complaint_events_total Complaint lifecycle events by type
# TYPE fixithub_complaint_events_total counter
fixithub_complaint_events_total{event="complaint_created"} 1
fixithub_complaint_events_total{event="complaint_deleted"} 1
`), "fixithub_complaint_events_total"))
}

func TestNotificationWorker_OutlivesStartContext(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetricsWithRegistry(reg, reg)
	notifications := service.NewNotificationService(zap.NewNop(), metrics, config.NotificationConfig{})

	dispatcher := events.NewInMemoryDispatcher()
	w := NewNotificationWorker(notifications, zap.NewNop(), 16)
	serveCtx, stopServing := context.WithCancel(context.Background())
	w.Start(serveCtx, dispatcher)

	// shutdown signal arrives while a request is still being served
	stopServing()
	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{Type: events.EventComplaintStatusChanged, SubjectID: "c2"}))
	w.Stop()

	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP fixithub_complaint_events_total Complaint lifecycle events by type
# TYPE fixithub_complaint_events_total counter
fixithub_complaint_events_total{event="complaint_status_changed"} 1
`), "fixithub_complaint_events_total"))
}

func TestNotificationWorker_FullQueueRejects(t *testing.T) {
	notifications := service.NewNotificationService(zap.NewNop(), nil, config.NotificationConfig{})
	w := NewNotificationWorker(notifications, zap.NewNop(), 1)

	ctx := context.Background()
	require.NoError(t, w.enqueue(ctx, events.Event{Type: events.EventComplaintCreated}))
	assert.ErrorIs(t, w.enqueue(ctx, events.Event{Type: events.EventComplaintCreated}), ErrQueueFull)
}

func TestNotificationWorker_StopWithoutStart(t *testing.T) {
	w := NewNotificationWorker(service.NewNotificationService(zap.NewNop(), nil, config.NotificationConfig{}), zap.NewNop(), 0)
	assert.NotPanics(t, w.Stop)
}
