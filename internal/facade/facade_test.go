package facade

import (
	"errors"
	"testing"

	"github.com/annel0/ambient-footsteps/internal/host"
	"github.com/annel0/ambient-footsteps/internal/vec"
	"github.com/stretchr/testify/assert"
)

var (
	framed = host.BlockState{Name: "mod:framed", Variant: host.NoVariant, Substance: host.SubstanceWood}
	stone  = host.BlockState{Name: "minecraft:stone", Variant: host.NoVariant, Substance: host.SubstanceRock}
	glass  = host.BlockState{Name: "minecraft:glass", Variant: host.NoVariant, Substance: host.SubstanceGlass}
)

type stubAccessor struct {
	name      string
	applies   bool
	result    host.BlockState
	ok        bool
	err       error
	panics    bool
	available bool
	calls     int
}

func (s *stubAccessor) Name() string                 { return s.name }
func (s *stubAccessor) Applies(host.BlockState) bool { return s.applies }
func (s *stubAccessor) Available() bool              { return s.available }
func (s *stubAccessor) Resolve(host.Entity, host.BlockState, host.World, vec.Vec3, host.Facing) (host.BlockState, bool, error) {
	s.calls++
	if s.panics {
		panic("integration missing")
	}
	return s.result, s.ok, s.err
}

type facadeWorld struct {
	host.World
	states map[vec.Vec3]host.BlockState
}

func (w facadeWorld) FacadeState(pos vec.Vec3, _ host.Facing) (host.BlockState, bool) {
	s, ok := w.states[pos]
	return s, ok
}

func TestResolver_PassThrough(t *testing.T) {
	r := NewResolver()
	assert.Equal(t, framed, r.ResolveState(nil, framed, nil, vec.Vec3{}, host.FacingUp))

	notApplicable := &stubAccessor{name: "ctm", applies: false, available: true}
	r.Register(notApplicable)
	assert.Equal(t, framed, r.ResolveState(nil, framed, nil, vec.Vec3{}, host.FacingUp))
	assert.Equal(t, 0, notApplicable.calls)
}

func TestResolver_FirstApplicableWins(t *testing.T) {
	first := &stubAccessor{name: "first", applies: true, result: stone, ok: true, available: true}
	second := &stubAccessor{name: "second", applies: true, result: glass, ok: true, available: true}
	r := NewResolver(first, second)

	assert.Equal(t, stone, r.ResolveState(nil, framed, nil, vec.Vec3{}, host.FacingUp))
	assert.Equal(t, 0, second.calls)
}

func TestResolver_FailuresDoNotAbortChain(t *testing.T) {
	panicking := &stubAccessor{name: "panics", applies: true, panics: true, available: true}
	failing := &stubAccessor{name: "fails", applies: true, err: errors.New("boom"), available: true}
	noSubstitute := &stubAccessor{name: "empty", applies: true, ok: false, available: true}
	working := &stubAccessor{name: "works", applies: true, result: glass, ok: true, available: true}
	r := NewResolver(panicking, failing, noSubstitute, working)

	assert.Equal(t, glass, r.ResolveState(nil, framed, nil, vec.Vec3{}, host.FacingUp))
	assert.Equal(t, 1, panicking.calls)
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, noSubstitute.calls)
}

func TestResolver_UnavailableAccessorExcluded(t *testing.T) {
	missing := &stubAccessor{name: "absent-mod", applies: true, result: stone, ok: true, available: false}
	r := NewResolver()
	assert.False(t, r.Register(missing))
	assert.Empty(t, r.Names())
	assert.Equal(t, framed, r.ResolveState(nil, framed, nil, vec.Vec3{}, host.FacingUp))
}

func TestResolver_Deterministic(t *testing.T) {
	r := NewResolver(&stubAccessor{name: "a", applies: true, result: stone, ok: true, available: true})
	for i := 0; i < 50; i++ {
		assert.Equal(t, stone, r.ResolveState(nil, framed, nil, vec.Vec3{X: 1}, host.FacingUp))
	}
}

func TestWorldAccessor(t *testing.T) {
	pos := vec.Vec3{X: 2, Y: 64, Z: 2}
	world := facadeWorld{states: map[vec.Vec3]host.BlockState{pos: stone}}
	r := NewResolver(NewWorldAccessor("framed", "mod:framed"))

	assert.Equal(t, []string{"framed"}, r.Names())
	assert.Equal(t, stone, r.ResolveState(nil, framed, world, pos, host.FacingUp))
	assert.Equal(t, framed, r.ResolveState(nil, framed, world, pos.Up(1), host.FacingUp), "нет данных - нет подмены")
	assert.Equal(t, glass, r.ResolveState(nil, glass, world, pos, host.FacingUp), "неприменимый блок не трогаем")
}

// brokenCheck аксессор, у которого падает сама проверка применимости
type brokenCheck struct{ stubAccessor }

func (b *brokenCheck) Applies(host.BlockState) bool { panic("optional mod class missing") }

func TestResolver_PanickingAppliesDoesNotAbortChain(t *testing.T) {
	broken := &brokenCheck{stubAccessor{name: "broken", available: true}}
	working := &stubAccessor{name: "works", applies: true, result: stone, ok: true, available: true}
	r := NewResolver(broken, working)

	assert.NotPanics(t, func() {
		assert.Equal(t, stone, r.ResolveState(nil, framed, nil, vec.Vec3{}, host.FacingUp))
	})
	assert.Equal(t, 0, broken.calls)
	assert.Equal(t, 1, working.calls)
}
