package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/ambient-footsteps/internal/acoustics"
	"github.com/annel0/ambient-footsteps/internal/blockmap"
	"github.com/annel0/ambient-footsteps/internal/host"
	"github.com/annel0/ambient-footsteps/internal/simworld"
	"github.com/annel0/ambient-footsteps/internal/vec"
)

func stoneFloor(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t, map[string]string{"minecraft:stone": "stone_step"})
	for x := -2; x <= 2; x++ {
		for z := -2; z <= 8; z++ {
			f.world.SetBlock(vec.Vec3{X: x, Y: 63, Z: z}, simworld.Stone)
		}
	}
	return f
}

func events(results []Result) []acoustics.EventType {
	out := make([]acoustics.EventType, 0, len(results))
	for _, r := range results {
		out = append(out, r.Event)
	}
	return out
}

func TestGeneratorWalkAlternatesFeet(t *testing.T) {
	f := stoneFloor(t)
	g := NewStepGenerator(New(DefaultOptions(), nil, nil), 1.0)
	ch := standingAt(0.5, 0.5)

	assert.Nil(t, g.Update(f.env, ch), "первый тик только запоминает позицию")

	var results []Result
	for i := 0; i < 12; i++ {
		ch.Pos.Z += 0.25
		results = append(results, g.Update(f.env, ch)...)
	}

	require.Len(t, results, 3)
	assert.Equal(t, []acoustics.EventType{acoustics.EventWalk, acoustics.EventWalk, acoustics.EventWalk}, events(results))
	assert.Equal(t, FootLeft, results[0].Foot)
	assert.Equal(t, FootRight, results[1].Foot)
	assert.Equal(t, FootLeft, results[2].Foot)
	assert.Len(t, f.sink.ids, 3)
}

func TestGeneratorSprintRuns(t *testing.T) {
	f := stoneFloor(t)
	g := NewStepGenerator(New(DefaultOptions(), nil, nil), 1.0)
	ch := standingAt(0.5, 0.5)
	ch.Sprint = true

	g.Update(f.env, ch)
	ch.Pos.Z += 1.0
	results := g.Update(f.env, ch)
	assert.Equal(t, []acoustics.EventType{acoustics.EventRun}, events(results))
}

func TestGeneratorJumpAndLand(t *testing.T) {
	f := stoneFloor(t)
	g := NewStepGenerator(New(DefaultOptions(), nil, nil), 1.0)
	ch := standingAt(0.5, 0.5)
	g.Update(f.env, ch)

	var results []Result
	ch.Grounded = false
	for _, y := range []float64{64.4, 64.9, 65.2, 64.9, 64.4} {
		ch.Pos.Y = y
		results = append(results, g.Update(f.env, ch)...)
	}
	ch.Pos.Y = 64
	ch.Grounded = true
	results = append(results, g.Update(f.env, ch)...)

	assert.Equal(t, []acoustics.EventType{acoustics.EventJump, acoustics.EventLand}, events(results))
}

func TestGeneratorSmallDropIsQuiet(t *testing.T) {
	f := stoneFloor(t)
	g := NewStepGenerator(New(DefaultOptions(), nil, nil), 1.0)
	ch := standingAt(0.5, 0.5)
	g.Update(f.env, ch)

	// Сход с края на полблока вниз без прыжка
	ch.Grounded = false
	ch.Pos.Y = 63.8
	assert.Empty(t, g.Update(f.env, ch))
	ch.Pos.Y = 63.7
	ch.Grounded = true
	assert.Empty(t, g.Update(f.env, ch))
}

func TestGeneratorFlyingIsSilent(t *testing.T) {
	f := stoneFloor(t)
	g := NewStepGenerator(New(DefaultOptions(), nil, nil), 1.0)
	ch := standingAt(0.5, 0.5)
	ch.Mode = host.MovementFlying
	ch.Grounded = false

	g.Update(f.env, ch)
	for i := 0; i < 10; i++ {
		ch.Pos.Z += 0.5
		assert.Empty(t, g.Update(f.env, ch))
	}
}

func TestGeneratorSwimStrokes(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.reg.RegisterPrimitive(blockmap.SpecialSwim, "swim_sound"))
	for z := 0; z < 8; z++ {
		f.world.SetBlock(vec.Vec3{X: 0, Y: 63, Z: z}, simworld.Water)
	}

	g := NewStepGenerator(New(DefaultOptions(), nil, nil), 1.0)
	ch := standingAt(0.5, 0.5)
	ch.Mode = host.MovementSwimming
	ch.Grounded = false
	g.Update(f.env, ch)

	var results []Result
	for i := 0; i < 6; i++ {
		ch.Pos.Z += 0.5
		results = append(results, g.Update(f.env, ch)...)
	}
	assert.Equal(t, []acoustics.EventType{acoustics.EventSwim, acoustics.EventSwim}, events(results))
	assert.Equal(t, []string{"sfx.swim_sound", "sfx.swim_sound"}, f.sink.ids)
}

func TestGeneratorClimb(t *testing.T) {
	f := stoneFloor(t)
	g := NewStepGenerator(New(DefaultOptions(), nil, nil), 1.0)
	ch := standingAt(0.5, 0.5)
	g.Update(f.env, ch)

	ch.Ladder = true
	ch.Grounded = false
	var results []Result
	for i := 0; i < 4; i++ {
		ch.Pos.Y += 0.4
		results = append(results, g.Update(f.env, ch)...)
	}
	for i := 0; i < 2; i++ {
		ch.Pos.Y -= 0.4
		results = append(results, g.Update(f.env, ch)...)
	}
	assert.Equal(t, []acoustics.EventType{acoustics.EventClimb, acoustics.EventClimb, acoustics.EventDown}, events(results))
}

func TestGeneratorTeleportResets(t *testing.T) {
	f := stoneFloor(t)
	g := NewStepGenerator(New(DefaultOptions(), nil, nil), 1.0)
	ch := standingAt(0.5, 0.5)
	g.Update(f.env, ch)

	ch.Pos.Z += 0.9
	assert.Empty(t, g.Update(f.env, ch))
	ch.Pos.Z += 100
	assert.Empty(t, g.Update(f.env, ch), "телепорт не считается шагом")
	ch.Pos.Z += 0.5
	assert.Empty(t, g.Update(f.env, ch), "накопленная дистанция сброшена")

	assert.Equal(t, 1, g.Tracked())
	g.Forget(ch.ID())
	assert.Equal(t, 0, g.Tracked())
}
