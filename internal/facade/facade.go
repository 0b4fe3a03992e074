// Package facade подменяет визуальные блоки-обёртки (блоки с чужой текстурой,
// микроблоки) их настоящим материалом перед поиском звука.
package facade

import (
	"fmt"
	"sync"

	"github.com/annel0/ambient-footsteps/internal/host"
	"github.com/annel0/ambient-footsteps/internal/logging"
	"github.com/annel0/ambient-footsteps/internal/vec"
)

// Accessor одна интеграция визуальной подмены
type Accessor interface {
	Name() string
	// Applies понимает ли аксессор этот блок
	Applies(state host.BlockState) bool
	// Resolve возвращает настоящее состояние; ok=false если подмены нет
	Resolve(observer host.Entity, state host.BlockState, world host.World, pos vec.Vec3, facing host.Facing) (host.BlockState, bool, error)
}

// Validator опционально реализуется аксессором, зависящим от внешнего мода.
// Недоступный аксессор исключается из цепочки при регистрации.
type Validator interface {
	Available() bool
}

// Resolver упорядоченная цепочка аксессоров
type Resolver struct {
	mu        sync.RWMutex
	accessors []Accessor
}

// NewResolver создаёт цепочку и регистрирует аксессоры по порядку
func NewResolver(accessors ...Accessor) *Resolver {
	r := &Resolver{}
	for _, a := range accessors {
		r.Register(a)
	}
	return r
}

// Register добавляет аксессор в конец цепочки. Возвращает false,
// если аксессор сообщил о своей недоступности.
func (r *Resolver) Register(a Accessor) bool {
	if v, ok := a.(Validator); ok && !v.Available() {
		logging.Info("Facade accessor %s is not available, skipping", a.Name())
		return false
	}

	r.mu.Lock()
	r.accessors = append(r.accessors, a)
	r.mu.Unlock()
	logging.Debug("Facade accessor %s registered", a.Name())
	return true
}

// Names имена активных аксессоров в порядке приоритета
func (r *Resolver) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.accessors))
	for i, a := range r.accessors {
		names[i] = a.Name()
	}
	return names
}

// ResolveState возвращает состояние, по которому нужно искать звук.
// Первый применимый аксессор с подменой побеждает; ошибка или паника
// аксессора означает "нет подмены" и цепочка продолжается.
func (r *Resolver) ResolveState(observer host.Entity, state host.BlockState, world host.World, pos vec.Vec3, facing host.Facing) host.BlockState {
	if state.IsUnknown() || state.IsAir() {
		return state
	}

	r.mu.RLock()
	accessors := r.accessors
	r.mu.RUnlock()

	for _, a := range accessors {
		substitute, ok := safeResolve(a, observer, state, world, pos, facing)
		if ok && !substitute.IsUnknown() {
			return substitute
		}
	}
	return state
}

func safeResolve(a Accessor, observer host.Entity, state host.BlockState, world host.World, pos vec.Vec3, facing host.Facing) (result host.BlockState, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			logging.Once(logging.WARN, "facade-panic:"+a.Name(), "Facade accessor %s panicked: %v", a.Name(), rec)
			result, ok = host.Unknown, false
		}
	}()

	if !a.Applies(state) {
		return host.Unknown, false
	}
	result, ok, err := a.Resolve(observer, state, world, pos, facing)
	if err != nil {
		logging.Once(logging.WARN, fmt.Sprintf("facade-err:%s:%s", a.Name(), state.Name),
			"Facade accessor %s failed on %s: %v", a.Name(), state, err)
		return host.Unknown, false
	}
	return result, ok
}
