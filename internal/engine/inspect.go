package engine

import (
	"fmt"

	"github.com/annel0/ambient-footsteps/internal/acoustics"
	"github.com/annel0/ambient-footsteps/internal/blockmap"
	"github.com/annel0/ambient-footsteps/internal/host"
	"github.com/annel0/ambient-footsteps/internal/logging"
	"github.com/annel0/ambient-footsteps/internal/vec"
)

// Inspection диагностика блока: что видит движок в позиции
type Inspection struct {
	Generation  string
	Pos         vec.Vec3
	Loaded      bool
	Observed    host.BlockState
	Resolved    host.BlockState // После подмены блоков-обёрток
	Association blockmap.Association
	Substrates  map[string]blockmap.Association // Найденные ассоциации с подложками
	Missing     []string                        // Звуки ассоциации, которых нет в библиотеке
	Err         error                           // Ошибка чтения мира; остальные поля могут быть неполны
}

// Inspect только читает текущее поколение и мир, звук не запускается.
// Паника хоста при чтении мира даёт неполный отчёт, а не падение вызывающего.
func (e *Engine) Inspect(world host.World, pos vec.Vec3) (in Inspection) {
	defer func() {
		if rec := recover(); rec != nil {
			logging.Once(logging.ERROR, fmt.Sprintf("inspect-panic:%v", rec), "Inspect %s failed: %v", pos, rec)
			in.Err = fmt.Errorf("inspect panicked: %v", rec)
		}
	}()

	gen := e.gen.Load()
	in = Inspection{
		Generation: gen.ID,
		Pos:        pos,
		Loaded:     world.IsLoaded(pos),
		Substrates: make(map[string]blockmap.Association),
	}
	if !in.Loaded {
		in.Observed = host.Unknown
		in.Resolved = host.Unknown
		in.Association = blockmap.NotFoundAssociation(host.Unknown, pos)
		return in
	}

	in.Observed = world.BlockState(pos)
	in.Resolved = e.facades.ResolveState(nil, in.Observed, world, pos, host.FacingUp)
	in.Association = gen.Registry.Lookup(in.Resolved, pos)

	for _, sub := range []string{blockmap.SubstrateCarpet, blockmap.SubstrateBigger, blockmap.SubstrateFoliage, blockmap.SubstrateWet} {
		if assoc := gen.Registry.LookupSubstrate(in.Resolved, pos, sub); !assoc.IsNotFound() {
			in.Substrates[sub] = assoc
		}
	}

	if in.Association.IsFound() {
		for _, name := range acoustics.SplitCompound(in.Association.Acoustics) {
			if !gen.Library.Has(name) {
				in.Missing = append(in.Missing, name)
			}
		}
	}
	return in
}
