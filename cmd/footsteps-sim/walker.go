package main

import (
	"math"

	"github.com/annel0/ambient-footsteps/internal/host"
	"github.com/annel0/ambient-footsteps/internal/simworld"
	"github.com/annel0/ambient-footsteps/internal/vec"
)

const (
	walkSpeed   = 0.22 // блоков за тик
	sprintSpeed = 0.28
	walkLimit   = float64(simworld.ChunkSize*worldRadius) - 2
	sprintEvery = 150
)

// walker водит персонажа туда-обратно вдоль оси X по поверхности мира
type walker struct {
	Character *simworld.Character

	world    *simworld.World
	dir      float64
	ticks    int
	distance float64
}

func newWalker(world *simworld.World, id uint64) *walker {
	w := &walker{world: world, dir: 1}
	w.Character = simworld.NewCharacter(id, vec.Vec3Float{X: -walkLimit + 0.5, Z: 0.5})
	w.Character.Wear(host.ArmorFeet, "minecraft:iron_boots")
	w.Character.Pos.Y = float64(w.surfaceY(w.Character.Pos)) + 1
	w.face()
	return w
}

// face поворачивает персонажа по направлению движения (yaw 0 смотрит в +Z)
func (w *walker) face() {
	if w.dir > 0 {
		w.Character.YawDeg = -90
	} else {
		w.Character.YawDeg = 90
	}
}

// Advance делает один тик движения
func (w *walker) Advance() {
	w.ticks++
	c := w.Character
	c.Sprint = (w.ticks/sprintEvery)%2 == 1

	speed := walkSpeed
	if c.Sprint {
		speed = sprintSpeed
	}
	c.Pos.X += w.dir * speed
	w.distance += speed
	if math.Abs(c.Pos.X) > walkLimit {
		w.dir = -w.dir
		w.face()
	}

	feet := c.Pos
	top := w.surfaceY(feet)
	if w.world.BlockState(vec.Vec3{X: int(math.Floor(feet.X)), Y: top, Z: int(math.Floor(feet.Z))}).Substance == host.SubstanceWater {
		c.Mode = host.MovementSwimming
		c.Pos.Y = float64(top) + 0.6
		c.Grounded = false
		return
	}
	c.Mode = host.MovementNormal
	c.Pos.Y = float64(top) + 1
	c.Grounded = true
}

// Ground блок под ногами персонажа
func (w *walker) Ground() vec.Vec3 {
	p := w.Character.Pos.Floor()
	return vec.Vec3{X: p.X, Y: w.surfaceY(w.Character.Pos), Z: p.Z}
}

// Distance пройденное расстояние
func (w *walker) Distance() float64 { return w.distance }

// surfaceY верхний блок колонны, на который можно встать (растения пропускаются)
func (w *walker) surfaceY(pos vec.Vec3Float) int {
	p := pos.Floor()
	y := w.world.PrecipitationHeight(p.Column()) - 1
	for ; y > 0; y-- {
		s := w.world.BlockState(vec.Vec3{X: p.X, Y: y, Z: p.Z})
		if !s.IsAir() && s.Substance != host.SubstancePlant {
			break
		}
	}
	return y
}
