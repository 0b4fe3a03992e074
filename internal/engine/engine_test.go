package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/ambient-footsteps/internal/acoustics"
	"github.com/annel0/ambient-footsteps/internal/config"
	"github.com/annel0/ambient-footsteps/internal/eventbus"
	"github.com/annel0/ambient-footsteps/internal/facade"
	"github.com/annel0/ambient-footsteps/internal/host"
	"github.com/annel0/ambient-footsteps/internal/metrics"
	"github.com/annel0/ambient-footsteps/internal/resource"
	"github.com/annel0/ambient-footsteps/internal/simworld"
	"github.com/annel0/ambient-footsteps/internal/solver"
	"github.com/annel0/ambient-footsteps/internal/vec"
)

const testAcoustics = `{
  "type": "library",
  "engineversion": 1,
  "contents": {
    "grass_step": "step.grass",
    "stone_step": "step.stone",
    "_splash": "rain.splash",
    "echo": {"type": "delayed", "delay": 3, "name": "step.echo"}
  }
}`

// safeSink потокобезопасная запись проигранных звуков
type safeSink struct {
	mu  sync.Mutex
	ids []string
}

func (s *safeSink) PlaySound(_ vec.Vec3Float, soundID string, _, _ float64, _ host.SoundOptions) {
	s.mu.Lock()
	s.ids = append(s.ids, soundID)
	s.mu.Unlock()
}

func (s *safeSink) played() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.ids...)
}

func pack(name string, files map[string]string) resource.Pack {
	fsys := fstest.MapFS{}
	for k, v := range files {
		fsys[k] = &fstest.MapFile{Data: []byte(v)}
	}
	return resource.NewFSPack(name, fsys)
}

func basePack() resource.Pack {
	return pack("base", map[string]string{
		resource.BlockMapFile:     "minecraft:grass=grass_step\nminecraft:water=NOT_EMITTER\nminecraft:planks^0=grass_step,echo\n",
		resource.PrimitiveMapFile: "rock=stone_step\n",
		resource.AcousticsFile:    testAcoustics,
	})
}

func grassWorld() *simworld.World {
	w := simworld.NewWorld()
	for x := -2; x <= 2; x++ {
		for z := -2; z <= 8; z++ {
			w.SetBlock(vec.Vec3{X: x, Y: 63, Z: z}, simworld.Grass)
		}
	}
	return w
}

func TestReloadPublishesGeneration(t *testing.T) {
	sink := &safeSink{}
	e := New(sink, StaticSource(basePack()), DefaultOptions())

	empty := e.Generation()
	assert.True(t, empty.Empty())

	gen, err := e.Reload(context.Background())
	require.NoError(t, err)
	assert.Same(t, gen, e.Generation())
	assert.NotEqual(t, empty.ID, gen.ID)
	assert.Equal(t, 4, gen.Library.Len())
	assert.Empty(t, gen.Report.Failed())

	res := e.Step(grassWorld(), simworld.NewCharacter(1, vec.Vec3Float{X: 0.5, Y: 64, Z: 0.5}), solver.FootLeft, acoustics.EventWalk)
	assert.Equal(t, []string{"grass_step"}, res.Acoustics)
	assert.Equal(t, []string{"step.grass"}, sink.played())
}

func TestReloadErrorKeepsGeneration(t *testing.T) {
	fail := false
	source := func() ([]resource.Pack, error) {
		if fail {
			return nil, errors.New("disk gone")
		}
		return []resource.Pack{basePack()}, nil
	}

	e := New(&safeSink{}, source, DefaultOptions())
	gen, err := e.Reload(context.Background())
	require.NoError(t, err)

	fail = true
	_, err = e.Reload(context.Background())
	assert.Error(t, err)
	assert.Same(t, gen, e.Generation())
}

func TestClearOnWorldUnload(t *testing.T) {
	sink := &safeSink{}
	e := New(sink, StaticSource(basePack()), DefaultOptions())
	_, err := e.Reload(context.Background())
	require.NoError(t, err)

	w := grassWorld()
	w.SetBlock(vec.Vec3{X: 0, Y: 63, Z: 0}, simworld.Planks)
	ch := simworld.NewCharacter(1, vec.Vec3Float{X: 0.5, Y: 64, Z: 0.5})
	res := e.Step(w, ch, solver.FootLeft, acoustics.EventWalk)
	require.Equal(t, 2, res.Played, "звук шага и отложенное эхо")

	e.Clear()
	assert.True(t, e.Generation().Empty())

	for i := 0; i < 5; i++ {
		e.OnTick(w)
	}
	assert.Equal(t, []string{"step.grass"}, sink.played(), "отложенное эхо отброшено при выгрузке")
}

func TestOnTickWalksAndReleasesDelayed(t *testing.T) {
	sink := &safeSink{}
	opts := DefaultOptions()
	opts.Stride = 1.0
	e := New(sink, StaticSource(basePack()), opts)
	_, err := e.Reload(context.Background())
	require.NoError(t, err)

	w := grassWorld()
	ch := simworld.NewCharacter(1, vec.Vec3Float{X: 0.5, Y: 64, Z: 0.5})

	played := 0
	for i := 0; i < 9; i++ {
		if i > 0 {
			ch.Pos.Z += 0.5
		}
		played += e.OnTick(w, ch)
	}
	assert.Equal(t, 4, played)
	assert.Len(t, sink.played(), 4)
}

func TestDisabledEngineIsSilent(t *testing.T) {
	sink := &safeSink{}
	e := New(sink, StaticSource(basePack()), DefaultOptions())
	_, err := e.Reload(context.Background())
	require.NoError(t, err)
	e.SetEnabled(false)

	res := e.Step(grassWorld(), simworld.NewCharacter(1, vec.Vec3Float{X: 0.5, Y: 64, Z: 0.5}), solver.FootLeft, acoustics.EventWalk)
	assert.True(t, res.Silent())
	assert.Empty(t, sink.played())
}

// brokenEntity сущность, падающая при чтении позиции
type brokenEntity struct {
	*simworld.Character
}

func (brokenEntity) Position() vec.Vec3Float {
	panic("entity removed")
}

func TestOnTickRecovers(t *testing.T) {
	m := metrics.New()
	opts := DefaultOptions()
	opts.Metrics = m
	e := New(&safeSink{}, StaticSource(basePack()), opts)

	ent := brokenEntity{simworld.NewCharacter(7, vec.Vec3Float{})}
	require.NotPanics(t, func() { e.OnTick(grassWorld(), ent) })
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Recovered))
}

func TestHotReloadAtomicity(t *testing.T) {
	oldPack := pack("old", map[string]string{
		resource.BlockMapFile: "minecraft:grass=grass_old\nminecraft:stone=stone_old\nminecraft:sand=sand_old\n",
	})
	newPack := pack("new", map[string]string{
		resource.BlockMapFile: "minecraft:grass=grass_new\nminecraft:stone=stone_new\nminecraft:snow=snow_new\n",
	})

	var useNew atomic.Bool
	source := func() ([]resource.Pack, error) {
		if useNew.Load() {
			return []resource.Pack{newPack}, nil
		}
		return []resource.Pack{oldPack}, nil
	}

	e := New(&safeSink{}, source, DefaultOptions())
	_, err := e.Reload(context.Background())
	require.NoError(t, err)

	var failures atomic.Int64
	var reads atomic.Int64
	done := make(chan struct{})
	var wg sync.WaitGroup

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}

				reg := e.Generation().Registry
				grass := reg.Lookup(simworld.Grass, vec.Vec3{})
				stone := reg.Lookup(simworld.Stone, vec.Vec3{})
				if !grass.IsFound() || !stone.IsFound() {
					failures.Add(1)
					continue
				}

				switch grass.Acoustics {
				case "grass_old":
					if stone.Acoustics != "stone_old" || !reg.Lookup(simworld.Sand, vec.Vec3{}).IsFound() {
						failures.Add(1)
					}
				case "grass_new":
					if stone.Acoustics != "stone_new" || !reg.Lookup(simworld.Snow, vec.Vec3{}).IsFound() {
						failures.Add(1)
					}
				default:
					failures.Add(1)
				}
				reads.Add(1)
			}
		}()
	}

	for i := 0; i < 50; i++ {
		useNew.Store(i%2 == 0)
		_, err := e.Reload(context.Background())
		require.NoError(t, err)
	}
	close(done)
	wg.Wait()

	assert.Zero(t, failures.Load())
	assert.Positive(t, reads.Load())
}

func TestInspect(t *testing.T) {
	e := New(&safeSink{}, StaticSource(pack("p", map[string]string{
		resource.BlockMapFile:  "minecraft:stone=stone_step,missing_one\nminecraft:stone+wet=stone_step\n",
		resource.AcousticsFile: testAcoustics,
	})), Options{
		Solver:  solver.DefaultOptions(),
		Facades: []facade.Accessor{facade.NewWorldAccessor("framed", simworld.Framed.Name)},
	})
	_, err := e.Reload(context.Background())
	require.NoError(t, err)

	w := simworld.NewWorld()
	pos := vec.Vec3{X: 1, Y: 10, Z: 1}
	w.SetFacade(pos, simworld.Framed, simworld.Stone)

	in := e.Inspect(w, pos)
	assert.True(t, in.Loaded)
	assert.Equal(t, simworld.Framed, in.Observed)
	assert.Equal(t, simworld.Stone, in.Resolved)
	assert.True(t, in.Association.IsFound())
	assert.Equal(t, []string{"missing_one"}, in.Missing)
	assert.Contains(t, in.Substrates, "wet")

	far := e.Inspect(w, vec.Vec3{X: 500, Y: 10, Z: 500})
	assert.False(t, far.Loaded)
	assert.True(t, far.Association.IsNotFound())
}

func TestLifecycleEvents(t *testing.T) {
	sink := &safeSink{}
	e := New(sink, StaticSource(basePack()), DefaultOptions())
	bus := eventbus.NewMemoryBus(8)

	_, err := e.Subscribe(context.Background(), bus)
	require.NoError(t, err)

	publish := func(eventType string, payload interface{}) {
		ev, err := eventbus.NewEnvelope("test", eventType, eventbus.PriorityHigh, payload)
		require.NoError(t, err)
		require.NoError(t, bus.Publish(context.Background(), ev))
	}

	publish(eventbus.TypeResourceReload, eventbus.ResourceReload{Reason: "pack added"})
	assert.Eventually(t, func() bool { return !e.Generation().Empty() }, 2*time.Second, 10*time.Millisecond)

	mute := 0.0
	publish(eventbus.TypeConfigChanged, eventbus.ConfigChanged{MasterVolume: &mute})
	publish(eventbus.TypeWorldUnload, eventbus.WorldUnload{World: "overworld"})
	bus.Close()

	assert.True(t, e.Generation().Empty())

	_, err = e.Reload(context.Background())
	require.NoError(t, err)
	res := e.Step(grassWorld(), simworld.NewCharacter(1, vec.Vec3Float{X: 0.5, Y: 64, Z: 0.5}), solver.FootLeft, acoustics.EventWalk)
	assert.Equal(t, []string{"grass_step"}, res.Acoustics)
	assert.Empty(t, sink.played(), "громкость 0 глушит все звуки")
}

func TestWorldLoadRebuildsGeneration(t *testing.T) {
	sink := &safeSink{}
	e := New(sink, StaticSource(basePack()), DefaultOptions())
	bus := eventbus.NewMemoryBus(8)
	_, err := e.Subscribe(context.Background(), bus)
	require.NoError(t, err)

	publish := func(eventType string, payload interface{}) {
		ev, err := eventbus.NewEnvelope("test", eventType, eventbus.PriorityHigh, payload)
		require.NoError(t, err)
		require.NoError(t, bus.Publish(context.Background(), ev))
	}

	publish(eventbus.TypeWorldLoad, eventbus.WorldLoad{World: "overworld"})
	assert.Eventually(t, func() bool { return !e.Generation().Empty() }, 2*time.Second, 10*time.Millisecond)
	first := e.Generation()

	publish(eventbus.TypeWorldUnload, eventbus.WorldUnload{World: "overworld"})
	assert.Eventually(t, func() bool { return e.Generation().Empty() }, 2*time.Second, 10*time.Millisecond)

	publish(eventbus.TypeWorldLoad, eventbus.WorldLoad{World: "nether"})
	assert.Eventually(t, func() bool {
		gen := e.Generation()
		return !gen.Empty() && gen.ID != first.ID
	}, 2*time.Second, 10*time.Millisecond)
	bus.Close()

	res := e.Step(grassWorld(), simworld.NewCharacter(1, vec.Vec3Float{X: 0.5, Y: 64, Z: 0.5}), solver.FootLeft, acoustics.EventWalk)
	assert.Equal(t, []string{"grass_step"}, res.Acoustics)
}

// brokenWorld мир, падающий при чтении блоков
type brokenWorld struct {
	*simworld.World
}

func (brokenWorld) BlockState(vec.Vec3) host.BlockState {
	panic("chunk evicted")
}

func TestInspectRecovers(t *testing.T) {
	e := New(&safeSink{}, StaticSource(basePack()), DefaultOptions())
	_, err := e.Reload(context.Background())
	require.NoError(t, err)

	w := brokenWorld{grassWorld()}
	var in Inspection
	require.NotPanics(t, func() { in = e.Inspect(w, vec.Vec3{X: 0, Y: 63, Z: 0}) })
	assert.Error(t, in.Err)
	assert.True(t, in.Loaded)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg, err := config.Parse([]byte(`
footsteps:
  stride: 2
  foot_offset: 0.5
  armor_accents: false
  probe_policy:
    - {dy: 0}
`))
	require.NoError(t, err)

	opts, err := OptionsFromConfig(&cfg.Footsteps)
	require.NoError(t, err)
	assert.Equal(t, 2.0, opts.Stride)
	assert.Equal(t, 0.5, opts.Solver.FootOffset)
	assert.False(t, opts.ArmorAccents)
	assert.True(t, opts.RainSplash)
	assert.Equal(t, solver.ProbePolicy{{DY: 0}}, opts.Solver.Policy)

	cfg.Footsteps.ProbePolicy = []config.ProbeConfig{{DY: 0, Substrate: "lava"}}
	_, err = OptionsFromConfig(&cfg.Footsteps)
	assert.Error(t, err)
}
