package solver

import (
	"math"
	"sync"

	"github.com/annel0/ambient-footsteps/internal/acoustics"
	"github.com/annel0/ambient-footsteps/internal/host"
	"github.com/annel0/ambient-footsteps/internal/vec"
)

// Константы генератора шагов
const (
	DefaultStride   = 1.2 // Блоков между шагами при ходьбе
	ClimbStride     = 0.6 // Блоков по вертикали между звуками лестницы
	SwimStrideRatio = 1.5 // Гребок длиннее шага
	MinLandFall     = 0.4 // Минимальная высота падения для звука приземления
	teleportDist    = 8.0 // Перемещение за тик, считающееся телепортом
)

// motion состояние движения одной сущности между тиками
type motion struct {
	last      vec.Vec3Float
	distance  float64
	climb     float64
	foot      Foot
	airborne  bool
	peakY     float64
	wasGround bool
}

// StepGenerator превращает перемещение сущности за тик в события шагов
// и передаёт их решателю
type StepGenerator struct {
	solver *Solver
	stride float64

	mu     sync.Mutex
	states map[uint64]*motion
}

// NewStepGenerator создаёт генератор; stride <= 0 означает DefaultStride
func NewStepGenerator(s *Solver, stride float64) *StepGenerator {
	if stride <= 0 {
		stride = DefaultStride
	}
	return &StepGenerator{
		solver: s,
		stride: stride,
		states: make(map[uint64]*motion),
	}
}

// Stride текущая длина шага
func (g *StepGenerator) Stride() float64 {
	return g.stride
}

// Update обрабатывает один тик сущности. Возвращает результаты
// сработавших шагов (обычно ноль или один).
func (g *StepGenerator) Update(env Env, ent host.Entity) []Result {
	g.mu.Lock()
	defer g.mu.Unlock()

	pos := ent.Position()
	st, ok := g.states[ent.ID()]
	if !ok {
		g.states[ent.ID()] = &motion{last: pos, peakY: pos.Y, wasGround: ent.OnGround()}
		return nil
	}

	delta := pos.Sub(st.last)
	st.last = pos
	if delta.HorizontalLength() > teleportDist || math.Abs(delta.Y) > teleportDist {
		st.distance, st.climb = 0, 0
		st.airborne = !ent.OnGround()
		st.peakY = pos.Y
		st.wasGround = ent.OnGround()
		return nil
	}

	var results []Result
	step := func(event acoustics.EventType) {
		results = append(results, g.solver.Step(env, ent, st.foot, event))
		st.foot = st.foot.Other()
	}

	switch ent.Movement() {
	case host.MovementFlying:
		st.distance, st.climb = 0, 0
		st.airborne = false
		st.wasGround = false
		return nil

	case host.MovementSwimming:
		st.airborne = false
		st.distance += math.Sqrt(delta.X*delta.X + delta.Y*delta.Y + delta.Z*delta.Z)
		if st.distance >= g.stride*SwimStrideRatio {
			st.distance = 0
			step(acoustics.EventSwim)
		}
		st.wasGround = ent.OnGround()
		return results
	}

	if ent.OnLadder() && !ent.OnGround() {
		st.airborne = false
		st.climb += math.Abs(delta.Y)
		if st.climb >= ClimbStride {
			st.climb = 0
			switch {
			case delta.Y < 0:
				step(acoustics.EventDown)
			case ent.Sprinting():
				step(acoustics.EventClimbRun)
			default:
				step(acoustics.EventClimb)
			}
		}
		st.wasGround = false
		return results
	}

	onGround := ent.OnGround()
	switch {
	case st.wasGround && !onGround:
		// Отрыв от земли: прыжок или сход с края
		st.airborne = true
		st.peakY = pos.Y
		if delta.Y > 0 {
			step(acoustics.EventJump)
		}

	case !onGround:
		if !st.airborne {
			st.airborne = true
			st.peakY = pos.Y
		}
		if pos.Y > st.peakY {
			st.peakY = pos.Y
		}

	case st.airborne:
		// Приземление
		st.airborne = false
		st.distance = 0
		if st.peakY-pos.Y >= MinLandFall {
			step(acoustics.EventLand)
		}

	default:
		st.distance += delta.HorizontalLength()
		if st.distance >= g.stride {
			st.distance -= g.stride
			if ent.Sprinting() {
				step(acoustics.EventRun)
			} else {
				step(acoustics.EventWalk)
			}
		}
	}
	st.wasGround = onGround
	return results
}

// Forget удаляет состояние сущности (сущность исчезла)
func (g *StepGenerator) Forget(id uint64) {
	g.mu.Lock()
	delete(g.states, id)
	g.mu.Unlock()
}

// Reset удаляет состояние всех сущностей (выгрузка мира)
func (g *StepGenerator) Reset() {
	g.mu.Lock()
	g.states = make(map[uint64]*motion)
	g.mu.Unlock()
}

// Tracked число отслеживаемых сущностей
func (g *StepGenerator) Tracked() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.states)
}
