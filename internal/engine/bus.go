package engine

import (
	"context"

	"github.com/annel0/ambient-footsteps/internal/eventbus"
	"github.com/annel0/ambient-footsteps/internal/logging"
)

// Subscribe подписывает движок на события жизненного цикла хоста
func (e *Engine) Subscribe(ctx context.Context, bus eventbus.EventBus) (eventbus.Subscription, error) {
	filter := eventbus.Filter{Types: []string{
		eventbus.TypeResourceReload,
		eventbus.TypeWorldLoad,
		eventbus.TypeWorldUnload,
		eventbus.TypeConfigChanged,
	}}
	return bus.Subscribe(ctx, filter, e.handleEvent)
}

func (e *Engine) handleEvent(ctx context.Context, ev *eventbus.Envelope) {
	switch ev.EventType {
	case eventbus.TypeResourceReload:
		var payload eventbus.ResourceReload
		if err := ev.Decode(&payload); err != nil {
			logging.Warn("Ignoring reload event: %v", err)
			return
		}
		if len(payload.PackDirs) > 0 {
			e.SetSource(DirSource(payload.PackDirs...))
		}
		if _, err := e.Reload(ctx); err != nil {
			logging.Warn("Footsteps reload failed (%s): %v", payload.Reason, err)
		}

	case eventbus.TypeWorldLoad:
		var payload eventbus.WorldLoad
		if err := ev.Decode(&payload); err != nil {
			logging.Warn("Ignoring world load event: %v", err)
			return
		}
		if _, err := e.Reload(ctx); err != nil {
			logging.Warn("Footsteps reload on world load (%s) failed: %v", payload.World, err)
		}

	case eventbus.TypeWorldUnload:
		e.Clear()

	case eventbus.TypeConfigChanged:
		var payload eventbus.ConfigChanged
		if err := ev.Decode(&payload); err != nil {
			logging.Warn("Ignoring config event: %v", err)
			return
		}
		if payload.MasterVolume != nil {
			e.SetMasterVolume(*payload.MasterVolume)
		}
		if payload.Reload {
			if _, err := e.Reload(ctx); err != nil {
				logging.Warn("Footsteps reload after config change failed: %v", err)
			}
		}
	}
}
