package eventbus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBusFilterAndOrder(t *testing.T) {
	bus := NewMemoryBus(16)

	var mu sync.Mutex
	var got []string
	_, err := bus.Subscribe(context.Background(), Filter{Types: []string{TypeResourceReload}}, func(ctx context.Context, ev *Envelope) {
		var payload ResourceReload
		assert.NoError(t, ev.Decode(&payload))
		mu.Lock()
		got = append(got, payload.Reason)
		mu.Unlock()
	})
	require.NoError(t, err)

	ctx := context.Background()
	for _, reason := range []string{"first", "second"} {
		ev, err := NewEnvelope("test", TypeResourceReload, PriorityHigh, ResourceReload{Reason: reason})
		require.NoError(t, err)
		require.NoError(t, bus.Publish(ctx, ev))
	}
	ev, err := NewEnvelope("test", TypeWorldUnload, PriorityHigh, WorldUnload{World: "overworld"})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(ctx, ev))

	bus.Close()

	assert.Equal(t, []string{"first", "second"}, got)
	stats := bus.Metrics()
	assert.Equal(t, uint64(3), stats.Published)
	assert.Equal(t, uint64(2), stats.Consumed)

	assert.ErrorIs(t, bus.Publish(ctx, ev), ErrClosed)
}

func TestUnsubscribe(t *testing.T) {
	bus := NewMemoryBus(4)
	calls := 0
	sub, err := bus.Subscribe(context.Background(), Filter{}, func(context.Context, *Envelope) { calls++ })
	require.NoError(t, err)
	sub.Unsubscribe()

	ev, err := NewEnvelope("test", TypeConfigChanged, PriorityHigh, nil)
	require.NoError(t, err)
	require.NoError(t, bus.Publish(context.Background(), ev))
	bus.Close()

	assert.Zero(t, calls)
}

func TestEnvelopeIDsAreUnique(t *testing.T) {
	a, err := NewEnvelope("test", TypeWorldUnload, PriorityLow, nil)
	require.NoError(t, err)
	b, err := NewEnvelope("test", TypeWorldUnload, PriorityLow, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.WithinDuration(t, time.Now().UTC(), a.Timestamp, time.Minute)
}

func TestMetricsExporterCollect(t *testing.T) {
	bus := NewMemoryBus(4)
	reg := prometheus.NewRegistry()
	me := NewMetricsExporter(bus, reg)

	ev, err := NewEnvelope("test", TypeWorldUnload, PriorityHigh, nil)
	require.NoError(t, err)
	require.NoError(t, bus.Publish(context.Background(), ev))
	require.NoError(t, bus.Publish(context.Background(), ev))
	bus.Close()

	me.Collect()
	assert.Equal(t, 2.0, testutil.ToFloat64(me.published))
	me.Collect()
	assert.Equal(t, 2.0, testutil.ToFloat64(me.published), "повторный сбор не удваивает счётчик")
}
