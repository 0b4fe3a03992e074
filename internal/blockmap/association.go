package blockmap

import (
	"github.com/annel0/ambient-footsteps/internal/host"
	"github.com/annel0/ambient-footsteps/internal/vec"
)

// NotEmitterValue значение в карте, помечающее блок как намеренно беззвучный
const NotEmitterValue = "NOT_EMITTER"

// Provenance происхождение результата поиска
type Provenance int

const (
	// Found найдена конкретная ассоциация
	Found Provenance = iota
	// NotEmitter блок намеренно беззвучен: поиск прекращается
	NotEmitter
	// NotFound соответствия нет: поиск может продолжаться
	NotFound
)

func (p Provenance) String() string {
	switch p {
	case Found:
		return "FOUND"
	case NotEmitter:
		return "NOT_EMITTER"
	default:
		return "NOT_FOUND"
	}
}

// Association результат поиска звука для блока
type Association struct {
	Acoustics  string // Составное имя "a,b"
	Provenance Provenance
	State      host.BlockState
	Pos        vec.Vec3
}

// NotFoundAssociation ассоциация для блока без соответствия
func NotFoundAssociation(state host.BlockState, pos vec.Vec3) Association {
	return Association{Provenance: NotFound, State: state, Pos: pos}
}

// IsFound true если ассоциация указывает на звуки
func (a Association) IsFound() bool { return a.Provenance == Found }

// IsNotEmitter true если блок намеренно беззвучен
func (a Association) IsNotEmitter() bool { return a.Provenance == NotEmitter }

// IsNotFound true если соответствие отсутствует
func (a Association) IsNotFound() bool { return a.Provenance == NotFound }

// entry хранимое значение карты (без позиции и состояния)
type entry struct {
	acoustics  string
	notEmitter bool
}

func (e entry) associate(state host.BlockState, pos vec.Vec3) Association {
	if e.notEmitter {
		return Association{Provenance: NotEmitter, State: state, Pos: pos}
	}
	return Association{Acoustics: e.acoustics, Provenance: Found, State: state, Pos: pos}
}
