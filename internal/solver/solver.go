// Package solver находит блок под ногой персонажа, выбирает для него
// звук и запускает его через библиотеку звуков.
package solver

import (
	"fmt"
	"math"
	"strings"

	"github.com/annel0/ambient-footsteps/internal/accents"
	"github.com/annel0/ambient-footsteps/internal/acoustics"
	"github.com/annel0/ambient-footsteps/internal/blockmap"
	"github.com/annel0/ambient-footsteps/internal/facade"
	"github.com/annel0/ambient-footsteps/internal/host"
	"github.com/annel0/ambient-footsteps/internal/logging"
	"github.com/annel0/ambient-footsteps/internal/vec"
)

// groundEpsilon насколько ниже ступней ищется опорный блок
const groundEpsilon = 0.1

// Foot нога, делающая шаг
type Foot int

const (
	FootLeft Foot = iota
	FootRight
)

func (f Foot) String() string {
	if f == FootRight {
		return "right"
	}
	return "left"
}

// Other другая нога
func (f Foot) Other() Foot {
	if f == FootLeft {
		return FootRight
	}
	return FootLeft
}

// Env источники данных одного вызова. Реестр и библиотека берутся
// из одного поколения ресурсов.
type Env struct {
	World    host.World
	Registry *blockmap.Registry
	Library  *acoustics.Library
	Player   *acoustics.Player
}

// Selection результат поиска блока без запуска звука
type Selection struct {
	Association blockmap.Association
	Probe       vec.Vec3Float // Точка проверки ноги
	Foot        Foot          // Нога, чья колонна дала результат
	Foliage     string        // Звук растительности над опорой
	Special     string        // Имя особого условия ("_swim")
	Unloaded    bool          // Колонна в незагруженном чанке
}

// Compound составное имя найденных звуков без акцентов
func (s Selection) Compound() string {
	parts := make([]string, 0, 2)
	if s.Association.IsFound() && s.Association.Acoustics != "" {
		parts = append(parts, s.Association.Acoustics)
	}
	if s.Foliage != "" {
		parts = append(parts, s.Foliage)
	}
	return strings.Join(parts, ",")
}

// Result итог одного шага
type Result struct {
	Selection
	Event     acoustics.EventType
	Acoustics []string // Базовые звуки, растительность и акценты
	Played    int      // Запущено или отложено звуков
	Recovered bool     // Шаг прерван паникой и заглушён
}

// Silent true если шаг не дал звука
func (r Result) Silent() bool {
	return len(r.Acoustics) == 0
}

// Options настройки решателя
type Options struct {
	Policy     ProbePolicy
	FootOffset float64 // Доля полуширины, на которую ноги смещены от центра
	Foliage    bool    // Искать растительность над опорой
	Wet        bool    // Искать ассоциации "+wet" под открытым дождём
}

// DefaultOptions настройки по умолчанию
func DefaultOptions() Options {
	return Options{
		Policy:     DefaultProbePolicy,
		FootOffset: 0.6,
		Foliage:    true,
		Wet:        true,
	}
}

// Solver решатель шагов. Не хранит состояние между вызовами, кроме
// настроек и цепочек, и вызывается из одного потока тиков.
type Solver struct {
	opts    Options
	facades *facade.Resolver
	accents *accents.Chain

	// OnRecover вызывается при подавленной панике
	OnRecover func(kind string)
	// OnNotFound вызывается, когда ни одна колонна не дала ассоциации
	OnNotFound func(state host.BlockState)
}

// New создаёт решатель; nil-цепочки заменяются пустыми
func New(opts Options, facades *facade.Resolver, chain *accents.Chain) *Solver {
	if len(opts.Policy) == 0 {
		opts.Policy = DefaultProbePolicy
	}
	if facades == nil {
		facades = facade.NewResolver()
	}
	if chain == nil {
		chain = accents.NewChain()
	}
	return &Solver{opts: opts, facades: facades, accents: chain}
}

// Options текущие настройки
func (s *Solver) Options() Options {
	return s.opts
}

// FootPosition точка проверки ноги: центр ступней, смещённый вбок
// перпендикулярно направлению взгляда
func (s *Solver) FootPosition(ent host.Entity, foot Foot) vec.Vec3Float {
	yaw := ent.Yaw() * math.Pi / 180
	// Взгляд при yaw=0 направлен в +Z, правая сторона в -X
	rightX, rightZ := -math.Cos(yaw), -math.Sin(yaw)

	offset := ent.HalfWidth() * s.opts.FootOffset
	if foot == FootLeft {
		offset = -offset
	}

	pos := ent.Position()
	return vec.Vec3Float{
		X: pos.X + rightX*offset,
		Y: pos.Y - groundEpsilon,
		Z: pos.Z + rightZ*offset,
	}
}

// Resolve ищет звук для шага ноги foot. Сначала проверяется колонна
// этой ноги; колонна второй ноги проверяется, только если в первой
// ничего не найдено. NOT_EMITTER в первой колонне означает тишину.
func (s *Solver) Resolve(env Env, ent host.Entity, foot Foot) Selection {
	sel := Selection{
		Foot:        foot,
		Association: blockmap.NotFoundAssociation(host.Unknown, vec.Vec3{}),
	}

	for i, f := range [2]Foot{foot, foot.Other()} {
		probe := s.FootPosition(ent, f)
		base := probe.Floor()
		if !env.World.IsLoaded(base) {
			sel.Unloaded = true
			continue
		}

		assoc := s.probeColumn(env, ent, base)
		if assoc.IsNotFound() {
			if i == 0 {
				sel.Association = assoc
				sel.Probe = probe
			}
			continue
		}

		sel.Association = assoc
		sel.Probe = probe
		sel.Foot = f
		sel.Unloaded = false
		if assoc.IsFound() && s.opts.Foliage {
			sel.Foliage = s.foliage(env, ent, assoc.Pos)
		}
		return sel
	}
	return sel
}

// probeColumn проходит колонну по таблице проверок
func (s *Solver) probeColumn(env Env, ent host.Entity, base vec.Vec3) blockmap.Association {
	first := blockmap.NotFoundAssociation(host.Unknown, base)

	for _, probe := range s.opts.Policy {
		pos := base.Up(probe.DY)
		state := env.World.BlockState(pos)
		if state.IsUnknown() {
			continue
		}
		state = s.facades.ResolveState(ent, state, env.World, pos, host.FacingUp)

		assoc := s.lookup(env, state, pos, probe.Substrate)
		if !assoc.IsNotFound() {
			return assoc
		}
		if probe.DY == 0 && probe.Substrate == blockmap.SubstrateNone {
			first = assoc
		}
	}
	return first
}

// lookup ищет ассоциацию; под открытым дождём на каждом уровне
// поиска "+wet" пробуется раньше обычной записи
func (s *Solver) lookup(env Env, state host.BlockState, pos vec.Vec3, substrate string) blockmap.Association {
	if s.opts.Wet && substrate == blockmap.SubstrateNone && accents.Exposed(env.World, pos.Up(1)) {
		return env.Registry.LookupPreferring(state, pos, blockmap.SubstrateWet, substrate)
	}
	return env.Registry.LookupSubstrate(state, pos, substrate)
}

// foliage звук растительности на уровне ступней над опорой
func (s *Solver) foliage(env Env, ent host.Entity, ground vec.Vec3) string {
	pos := ground.Up(1)
	state := env.World.BlockState(pos)
	if state.IsUnknown() || state.IsAir() {
		return ""
	}
	state = s.facades.ResolveState(ent, state, env.World, pos, host.FacingUp)
	assoc := env.Registry.LookupSubstrate(state, pos, blockmap.SubstrateFoliage)
	if !assoc.IsFound() {
		return ""
	}
	return assoc.Acoustics
}

// special звук особого условия движения. Плавание проверяется раньше
// колонны под ногами: дно или NOT_EMITTER у жидкости не глушат гребки.
func (s *Solver) special(env Env, ent host.Entity) (string, string) {
	if ent.Movement() != host.MovementSwimming {
		return "", ""
	}
	if assoc, ok := env.Registry.Special(blockmap.SpecialSwim); ok && assoc.IsFound() {
		return blockmap.SpecialSwim, assoc.Acoustics
	}
	return "", ""
}

// Step разрешает и проигрывает один шаг. Паника внутри шага
// подавляется: шаг остаётся беззвучным.
func (s *Solver) Step(env Env, ent host.Entity, foot Foot, event acoustics.EventType) (res Result) {
	defer func() {
		if rec := recover(); rec != nil {
			kind := fmt.Sprint(rec)
			logging.Once(logging.ERROR, "solver-panic:"+kind, "Footstep resolution failed: %v", rec)
			if s.OnRecover != nil {
				s.OnRecover(kind)
			}
			res = Result{Event: event, Recovered: true}
		}
	}()

	res.Event = event
	if env.World == nil || env.Registry == nil || env.Library == nil || env.Player == nil {
		return res
	}

	// В полёте шагов нет
	if ent.Movement() == host.MovementFlying {
		return res
	}

	sel := s.Resolve(env, ent, foot)
	res.Selection = sel

	special, compound := s.special(env, ent)
	res.Special = special
	if compound == "" {
		switch {
		case sel.Association.IsNotEmitter():
			return res
		case sel.Association.IsFound():
			compound = sel.Compound()
		default:
			if !sel.Unloaded && s.OnNotFound != nil {
				s.OnNotFound(sel.Association.State)
			}
			return res
		}
	}

	acc := make([]string, 0, 4)
	for _, name := range acoustics.SplitCompound(compound) {
		acc = accents.AppendUnique(acc, name)
	}

	if res.Special == "" {
		pos := sel.Association.Pos
		acc = s.accents.Provide(accents.Context{
			Entity: ent,
			World:  env.World,
			Pos:    &pos,
			Event:  event,
			Armor:  env.Registry,
		}, acc)
	}
	res.Acoustics = acc

	loc := acoustics.Location{Pos: ent.Position(), Source: ent.ID()}
	if res.Special == "" {
		loc.Pos = sel.Probe
	}
	res.Played = env.Library.Play(env.Player, loc, strings.Join(acc, ","), event, nil)
	return res
}
