package acoustics

import (
	"math/rand"
	"sync"

	"github.com/annel0/ambient-footsteps/internal/host"
	"github.com/annel0/ambient-footsteps/internal/vec"
)

// Location точка воспроизведения и сущность-источник
type Location struct {
	Pos    vec.Vec3Float
	Source uint64
}

// Observer получает уведомления о воспроизведении (метрики)
type Observer interface {
	SoundPlayed(sound string)
	AcousticMissing(name string)
}

type pendingSound struct {
	due      uint64
	acoustic Acoustic
	loc      Location
	event    EventType
	opts     Options
}

// Player долгоживущее состояние воспроизведения: вывод хоста, генератор
// случайных чисел, очередь отложенных звуков и счётчик тиков.
// Переживает перезагрузку библиотек.
type Player struct {
	mu       sync.Mutex
	sink     host.SoundSink
	rng      *rand.Rand
	volume   float64
	tick     uint64
	pending  []pendingSound
	observer Observer
}

// NewPlayer создаёт проигрыватель с детерминированным генератором
func NewPlayer(sink host.SoundSink, seed int64) *Player {
	return &Player{
		sink:   sink,
		rng:    rand.New(rand.NewSource(seed)),
		volume: 1.0,
	}
}

// SetMasterVolume множитель громкости для всех звуков
func (p *Player) SetMasterVolume(v float64) {
	p.mu.Lock()
	if v < 0 {
		v = 0
	}
	p.volume = v
	p.mu.Unlock()
}

// SetObserver подключает наблюдателя
func (p *Player) SetObserver(o Observer) {
	p.mu.Lock()
	p.observer = o
	p.mu.Unlock()
}

// Rand даёт доступ к генератору под блокировкой
func (p *Player) Rand(fn func(rng *rand.Rand)) {
	p.mu.Lock()
	fn(p.rng)
	p.mu.Unlock()
}

// Tick продвигает счётчик на один тик и запускает наступившие отложенные звуки
func (p *Player) Tick() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.tick++
	if len(p.pending) == 0 {
		return 0
	}

	var due []pendingSound
	kept := p.pending[:0]
	for _, ps := range p.pending {
		if ps.due <= p.tick {
			due = append(due, ps)
		} else {
			kept = append(kept, ps)
		}
	}
	p.pending = kept

	fired := 0
	for _, ps := range due {
		fired += ps.acoustic.play(p, ps.loc, ps.event, ps.opts)
	}
	return fired
}

// Pending число отложенных звуков
func (p *Player) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

// Clear отбрасывает отложенные звуки (выгрузка мира)
func (p *Player) Clear() {
	p.mu.Lock()
	p.pending = nil
	p.mu.Unlock()
}

func (p *Player) schedule(delay int, a Acoustic, loc Location, event EventType, opts Options) {
	p.pending = append(p.pending, pendingSound{
		due:      p.tick + uint64(delay),
		acoustic: a,
		loc:      loc,
		event:    event,
		opts:     opts,
	})
}

func (p *Player) emit(loc Location, sound string, volume, pitch float64) {
	volume *= p.volume
	if volume <= 0 {
		return
	}
	if p.sink != nil {
		p.sink.PlaySound(loc.Pos, sound, volume, pitch, host.SoundOptions{Source: loc.Source, Attenuate: true})
	}
	if p.observer != nil {
		p.observer.SoundPlayed(sound)
	}
}
