// Package engine объединяет ресурсы, решатель и проигрыватель в один
// объект движка шагов, которым управляет хост.
package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/annel0/ambient-footsteps/internal/accents"
	"github.com/annel0/ambient-footsteps/internal/acoustics"
	"github.com/annel0/ambient-footsteps/internal/config"
	"github.com/annel0/ambient-footsteps/internal/facade"
	"github.com/annel0/ambient-footsteps/internal/host"
	"github.com/annel0/ambient-footsteps/internal/logging"
	"github.com/annel0/ambient-footsteps/internal/metrics"
	"github.com/annel0/ambient-footsteps/internal/observability"
	"github.com/annel0/ambient-footsteps/internal/resource"
	"github.com/annel0/ambient-footsteps/internal/solver"
)

// PackSource отдаёт упорядоченный список паков для загрузки
type PackSource func() ([]resource.Pack, error)

// DirSource паки из каталогов на диске
func DirSource(dirs ...string) PackSource {
	return func() ([]resource.Pack, error) {
		return resource.OpenAll(dirs)
	}
}

// StaticSource фиксированный список паков
func StaticSource(packs ...resource.Pack) PackSource {
	return func() ([]resource.Pack, error) {
		return packs, nil
	}
}

// Options настройки движка
type Options struct {
	Solver       solver.Options
	Stride       float64
	MasterVolume float64
	Seed         int64
	RainSplash   bool
	ArmorAccents bool
	Facades      []facade.Accessor
	Metrics      *metrics.Metrics
	LogMissing   bool // Писать в лог блоки без соответствия (по разу на блок)
}

// DefaultOptions настройки по умолчанию
func DefaultOptions() Options {
	return Options{
		Solver:       solver.DefaultOptions(),
		Stride:       solver.DefaultStride,
		MasterVolume: 1,
		RainSplash:   true,
		ArmorAccents: true,
	}
}

// OptionsFromConfig переносит секцию footsteps конфигурации в настройки
func OptionsFromConfig(cfg *config.FootstepsConfig) (Options, error) {
	opts := DefaultOptions()
	opts.MasterVolume = cfg.GetMasterVolume()
	opts.Seed = cfg.Seed
	opts.RainSplash = cfg.RainSplashEnabled()
	opts.ArmorAccents = cfg.ArmorAccentsEnabled()
	opts.Solver.Foliage = cfg.FoliageEnabled()
	opts.LogMissing = cfg.LogMissing
	if cfg.Stride > 0 {
		opts.Stride = cfg.Stride
	}
	if cfg.FootOffset > 0 {
		opts.Solver.FootOffset = cfg.FootOffset
	}
	if len(cfg.ProbePolicy) > 0 {
		policy := make(solver.ProbePolicy, 0, len(cfg.ProbePolicy))
		for _, p := range cfg.ProbePolicy {
			policy = append(policy, solver.Probe{DY: p.DY, Substrate: p.Substrate})
		}
		if err := policy.Validate(); err != nil {
			return opts, fmt.Errorf("footsteps.probe_policy: %w", err)
		}
		opts.Solver.Policy = policy
	}
	return opts, nil
}

// Engine движок шагов. Все методы тика вызываются из потока тиков хоста;
// Reload и Clear можно вызывать из любого потока.
type Engine struct {
	gen     atomic.Pointer[Generation]
	enabled atomic.Bool

	reloadMu sync.Mutex
	source   PackSource

	player  *acoustics.Player
	solver  *solver.Solver
	steps   *solver.StepGenerator
	facades *facade.Resolver
	metrics *metrics.Metrics
}

// New создаёт движок с пустым поколением. Ресурсы загружает Reload.
func New(sink host.SoundSink, source PackSource, opts Options) *Engine {
	facades := facade.NewResolver(opts.Facades...)

	chain := accents.NewChain()
	if opts.ArmorAccents {
		chain.Register(accents.ArmorAccents{})
	}
	if opts.RainSplash {
		chain.Register(accents.RainSplashAccent{})
	}

	e := &Engine{
		source:  source,
		player:  acoustics.NewPlayer(sink, opts.Seed),
		facades: facades,
		metrics: opts.Metrics,
	}
	e.solver = solver.New(opts.Solver, facades, chain)
	e.steps = solver.NewStepGenerator(e.solver, opts.Stride)
	e.player.SetMasterVolume(opts.MasterVolume)
	e.gen.Store(emptyGeneration())
	e.enabled.Store(true)

	if e.metrics != nil {
		e.player.SetObserver(e.metrics)
		e.solver.OnRecover = func(string) { e.metrics.Recovered.Inc() }
	}
	if e.metrics != nil || opts.LogMissing {
		e.solver.OnNotFound = func(state host.BlockState) {
			if e.metrics != nil {
				e.metrics.NotFound.Inc()
			}
			if opts.LogMissing {
				logging.Once(logging.INFO, "missing:"+state.String(), "Нет соответствия для блока %s", state)
			}
		}
	}
	return e
}

// Generation текущее поколение ресурсов
func (e *Engine) Generation() *Generation {
	return e.gen.Load()
}

// SetEnabled включает или выключает обработку тиков
func (e *Engine) SetEnabled(enabled bool) {
	e.enabled.Store(enabled)
}

// SetMasterVolume общая громкость [0,1]
func (e *Engine) SetMasterVolume(v float64) {
	e.player.SetMasterVolume(v)
}

// SetSource заменяет источник паков для следующих перезагрузок
func (e *Engine) SetSource(source PackSource) {
	e.reloadMu.Lock()
	e.source = source
	e.reloadMu.Unlock()
}

// Facades цепочка аксессоров блоков-обёрток
func (e *Engine) Facades() *facade.Resolver {
	return e.facades
}

// Reload собирает новое поколение из паков и публикует его целиком.
// Файлы с ошибками пропускаются и попадают в отчёт.
func (e *Engine) Reload(ctx context.Context) (*Generation, error) {
	e.reloadMu.Lock()
	defer e.reloadMu.Unlock()

	_, span := observability.Tracer().Start(ctx, "footsteps.reload")
	defer span.End()

	start := time.Now()
	if e.source == nil {
		return nil, fmt.Errorf("no pack source configured")
	}

	packs, err := e.source()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.countReload("error")
		return nil, fmt.Errorf("не удалось открыть паки: %w", err)
	}
	defer resource.ClosePacks(packs)

	res := resource.Load(packs)
	gen := newGeneration(res)

	// Кэш "залогировать один раз" относится к старому поколению
	logging.ResetOnce()
	e.gen.Store(gen)

	stats := gen.Registry.Stats()
	span.SetAttributes(
		attribute.String("generation", gen.ID),
		attribute.Int("packs", len(packs)),
		attribute.Int("blocks", stats.Blocks),
		attribute.Int("primitives", stats.Primitives),
		attribute.Int("acoustics", gen.Library.Len()),
		attribute.Int("failed_files", len(res.Report.Failed())),
	)

	result := "ok"
	if len(res.Report.Failed()) > 0 {
		result = "partial"
	}
	e.countReload(result)
	if e.metrics != nil {
		e.metrics.ReloadDuration.Observe(time.Since(start).Seconds())
		e.metrics.RegistrySize.WithLabelValues("blocks").Set(float64(stats.Blocks))
		e.metrics.RegistrySize.WithLabelValues("primitives").Set(float64(stats.Primitives))
		e.metrics.RegistrySize.WithLabelValues("armor").Set(float64(stats.Armor))
		e.metrics.RegistrySize.WithLabelValues("acoustics").Set(float64(gen.Library.Len()))
	}

	for _, name := range res.MissingAcoustics() {
		logging.Debug("Acoustic %s is referenced by maps but not defined", name)
	}
	logging.Info("Footsteps generation %s published (%s)", gen.ID, res.Report)
	return gen, nil
}

func (e *Engine) countReload(result string) {
	if e.metrics != nil {
		e.metrics.Reloads.WithLabelValues(result).Inc()
	}
}

// Clear выгрузка мира: пустое поколение, сброс очереди и состояния сущностей.
// Движок молчит до следующего Reload (событие world_load или resource_reload).
func (e *Engine) Clear() {
	e.reloadMu.Lock()
	e.gen.Store(emptyGeneration())
	e.reloadMu.Unlock()

	e.player.Clear()
	e.steps.Reset()
	logging.Debug("Footsteps state cleared")
}

func (e *Engine) env(world host.World) solver.Env {
	gen := e.gen.Load()
	return solver.Env{
		World:    world,
		Registry: gen.Registry,
		Library:  gen.Library,
		Player:   e.player,
	}
}

// OnTick точка входа тика хоста: выпускает отложенные звуки и
// генерирует шаги сущностей. Возвращает число запущенных звуков.
// Паника внутри тика подавляется.
func (e *Engine) OnTick(world host.World, entities ...host.Entity) (played int) {
	defer func() {
		if rec := recover(); rec != nil {
			logging.Once(logging.ERROR, fmt.Sprintf("tick-panic:%v", rec), "Footsteps tick failed: %v", rec)
			if e.metrics != nil {
				e.metrics.Recovered.Inc()
			}
		}
	}()

	played = e.player.Tick()
	if !e.enabled.Load() {
		return played
	}

	env := e.env(world)
	for _, ent := range entities {
		for _, res := range e.steps.Update(env, ent) {
			e.observeStep(res)
			played += res.Played
		}
	}

	if e.metrics != nil {
		e.metrics.PendingSounds.Set(float64(e.player.Pending()))
	}
	return played
}

// Step запускает один шаг явно (например, по событию хоста)
func (e *Engine) Step(world host.World, ent host.Entity, foot solver.Foot, event acoustics.EventType) solver.Result {
	if !e.enabled.Load() {
		return solver.Result{Event: event}
	}
	res := e.solver.Step(e.env(world), ent, foot, event)
	e.observeStep(res)
	return res
}

// Forget удаляет состояние исчезнувшей сущности
func (e *Engine) Forget(id uint64) {
	e.steps.Forget(id)
}

func (e *Engine) observeStep(res solver.Result) {
	if e.metrics != nil {
		e.metrics.Steps.WithLabelValues(res.Event.String()).Inc()
	}
}
