package facade

import (
	"github.com/annel0/ambient-footsteps/internal/host"
	"github.com/annel0/ambient-footsteps/internal/vec"
)

// FacadeWorld мир, умеющий сообщать замаскированный материал блока
type FacadeWorld interface {
	FacadeState(pos vec.Vec3, facing host.Facing) (host.BlockState, bool)
}

// WorldAccessor спрашивает подмену у самого мира для перечисленных блоков
type WorldAccessor struct {
	name   string
	blocks map[string]struct{}
}

// NewWorldAccessor создаёт аксессор для блоков-обёрток с указанными именами
func NewWorldAccessor(name string, blocks ...string) *WorldAccessor {
	set := make(map[string]struct{}, len(blocks))
	for _, b := range blocks {
		set[b] = struct{}{}
	}
	return &WorldAccessor{name: name, blocks: set}
}

func (w *WorldAccessor) Name() string { return w.name }

func (w *WorldAccessor) Applies(state host.BlockState) bool {
	_, ok := w.blocks[state.Name]
	return ok
}

func (w *WorldAccessor) Resolve(_ host.Entity, _ host.BlockState, world host.World, pos vec.Vec3, facing host.Facing) (host.BlockState, bool, error) {
	fw, ok := world.(FacadeWorld)
	if !ok {
		return host.Unknown, false, nil
	}
	s, ok := fw.FacadeState(pos, facing)
	return s, ok, nil
}
