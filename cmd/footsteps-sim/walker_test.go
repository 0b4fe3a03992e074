package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/ambient-footsteps/internal/host"
	"github.com/annel0/ambient-footsteps/internal/simworld"
	"github.com/annel0/ambient-footsteps/internal/vec"
)

func flatWorld() *simworld.World {
	w := simworld.NewWorld()
	for x := -40; x < 48; x++ {
		for z := -2; z <= 2; z++ {
			w.SetBlock(vec.Vec3{X: x, Y: 60, Z: z}, simworld.Stone)
		}
	}
	w.SetBlock(vec.Vec3{X: -20, Y: 61, Z: 0}, simworld.TallGrass)
	return w
}

func TestWalkerStaysOnSurface(t *testing.T) {
	w := newWalker(flatWorld(), 7)
	require.Equal(t, 61.0, w.Character.Pos.Y)
	assert.Equal(t, -90.0, w.Character.YawDeg)
	assert.Equal(t, "minecraft:iron_boots", w.Character.Armor(host.ArmorFeet))

	for i := 0; i < 50; i++ {
		w.Advance()
		assert.Equal(t, 61.0, w.Character.Pos.Y, "растения не поднимают персонажа")
		assert.True(t, w.Character.Grounded)
	}
	assert.Equal(t, vec.Vec3{X: w.Character.Pos.Floor().X, Y: 60, Z: 0}, w.Ground())
	assert.InDelta(t, 50*walkSpeed, w.Distance(), 1e-9)
}

func TestWalkerTurnsAtEdge(t *testing.T) {
	w := newWalker(flatWorld(), 1)
	turned := false
	for i := 0; i < 400 && !turned; i++ {
		w.Advance()
		turned = w.dir < 0
	}
	require.True(t, turned)
	assert.Equal(t, 90.0, w.Character.YawDeg)
	assert.LessOrEqual(t, math.Abs(w.Character.Pos.X), walkLimit+sprintSpeed)
}

func TestWalkerSwimsInWater(t *testing.T) {
	world := flatWorld()
	for x := -31; x < -20; x++ {
		world.SetBlock(vec.Vec3{X: x, Y: 61, Z: 0}, simworld.Water)
	}
	w := newWalker(world, 1)
	w.Advance()

	assert.Equal(t, host.MovementSwimming, w.Character.Mode)
	assert.False(t, w.Character.Grounded)
}
