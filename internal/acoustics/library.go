package acoustics

import (
	"errors"
	"sort"

	"github.com/annel0/ambient-footsteps/internal/logging"
)

// Ошибки загрузки библиотеки
var (
	ErrNotLibrary      = errors.New("acoustics: file is not a library")
	ErrEngineVersion   = errors.New("acoustics: unsupported engine version")
	ErrUnknownType     = errors.New("acoustics: unknown acoustic type")
	ErrZeroWeights     = errors.New("acoustics: probability weights sum to zero")
	ErrNegativeWeight  = errors.New("acoustics: negative probability weight")
	ErrMissingSoundRef = errors.New("acoustics: basic acoustic without sound name")
)

// Splash имя звука всплеска, добавляемого акцентом дождя
const Splash = "_splash"

// Library именованные звуки. Заполняется при загрузке и дальше только читается.
type Library struct {
	acoustics map[string]Acoustic
}

// NewLibrary создаёт пустую библиотеку
func NewLibrary() *Library {
	return &Library{acoustics: make(map[string]Acoustic)}
}

// Register добавляет звук; повторная регистрация молча перезаписывает
func (l *Library) Register(name string, a Acoustic) {
	l.acoustics[name] = a
}

// RegisterAll добавляет набор звуков из одного файла
func (l *Library) RegisterAll(set map[string]Acoustic) {
	for name, a := range set {
		l.acoustics[name] = a
	}
}

// Get возвращает звук по имени
func (l *Library) Get(name string) (Acoustic, bool) {
	a, ok := l.acoustics[name]
	return a, ok
}

// Has проверяет наличие звука
func (l *Library) Has(name string) bool {
	_, ok := l.acoustics[name]
	return ok
}

// Len количество зарегистрированных звуков
func (l *Library) Len() int {
	return len(l.acoustics)
}

// Names отсортированный список имён
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.acoustics))
	for name := range l.acoustics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Play разрешает каждый фрагмент составного имени независимо и
// запускает его через p. Неизвестные фрагменты пропускаются.
// Возвращает число запущенных или отложенных звуков.
func (l *Library) Play(p *Player, loc Location, compound string, event EventType, opts Options) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	played := 0
	for _, name := range SplitCompound(compound) {
		a, ok := l.acoustics[name]
		if !ok {
			logging.Debug("Tried to play missing acoustic: %s", name)
			if p.observer != nil {
				p.observer.AcousticMissing(name)
			}
			continue
		}
		played += a.play(p, loc, event, opts)
	}
	return played
}
