package acoustics

import (
	"math/rand"
	"strings"
)

// Acoustic описание звука из библиотеки. Набор вариантов закрыт:
// Basic, Simultaneous, Delayed, Probability, EventSelector.
// Экземпляры неизменяемы после загрузки и разделяются между тиками.
type Acoustic interface {
	// play запускает звук и возвращает число запущенных или отложенных звуков.
	// Вызывается под блокировкой Player.
	play(p *Player, loc Location, event EventType, opts Options) int
}

// Options открытый набор параметров воспроизведения
type Options map[string]float64

// Ключи Options
const (
	// GlidingVolume значение [0,1], интерполирующее громкость между min и max
	GlidingVolume = "GLIDING_VOLUME"
	// GlidingPitch значение [0,1], интерполирующее высоту между min и max
	GlidingPitch = "GLIDING_PITCH"
)

// Basic одиночный звук с диапазонами громкости и высоты
type Basic struct {
	Sound    string
	VolMin   float64
	VolMax   float64
	PitchMin float64
	PitchMax float64
}

// Sample выбирает громкость и высоту для одного срабатывания
func (b Basic) Sample(rng *rand.Rand, opts Options) (volume, pitch float64) {
	volume = sampleRange(rng, b.VolMin, b.VolMax, opts, GlidingVolume)
	pitch = sampleRange(rng, b.PitchMin, b.PitchMax, opts, GlidingPitch)
	return volume, pitch
}

func sampleRange(rng *rand.Rand, min, max float64, opts Options, glideKey string) float64 {
	if max <= min {
		return min
	}
	if g, ok := opts[glideKey]; ok {
		if g < 0 {
			g = 0
		} else if g > 1 {
			g = 1
		}
		return min + (max-min)*g
	}
	return min + rng.Float64()*(max-min)
}

func (b Basic) play(p *Player, loc Location, _ EventType, opts Options) int {
	if b.Sound == "" {
		return 0
	}
	volume, pitch := b.Sample(p.rng, opts)
	p.emit(loc, b.Sound, volume, pitch)
	return 1
}

// Simultaneous запускает все вложенные звуки одновременно
type Simultaneous struct {
	Parts []Acoustic
}

func (s Simultaneous) play(p *Player, loc Location, event EventType, opts Options) int {
	n := 0
	for _, part := range s.Parts {
		n += part.play(p, loc, event, opts)
	}
	return n
}

// Delayed откладывает вложенный звук на случайное число тиков
type Delayed struct {
	Inner    Acoustic
	DelayMin int
	DelayMax int
}

// SampleDelay выбирает задержку в тиках
func (d Delayed) SampleDelay(rng *rand.Rand) int {
	if d.DelayMax <= d.DelayMin {
		return d.DelayMin
	}
	return d.DelayMin + rng.Intn(d.DelayMax-d.DelayMin+1)
}

func (d Delayed) play(p *Player, loc Location, event EventType, opts Options) int {
	if d.Inner == nil {
		return 0
	}
	delay := d.SampleDelay(p.rng)
	if delay <= 0 {
		return d.Inner.play(p, loc, event, opts)
	}
	p.schedule(delay, d.Inner, loc, event, opts)
	return 1
}

// Weighted элемент вероятностного выбора
type Weighted struct {
	Weight   int
	Acoustic Acoustic
}

// Probability выбирает один вложенный звук пропорционально весам
type Probability struct {
	Entries []Weighted
}

// NewProbability создаёт вероятностный звук; сумма весов должна быть > 0
func NewProbability(entries []Weighted) (Probability, error) {
	total := 0
	for _, e := range entries {
		if e.Weight < 0 {
			return Probability{}, ErrNegativeWeight
		}
		total += e.Weight
	}
	if total <= 0 {
		return Probability{}, ErrZeroWeights
	}
	return Probability{Entries: entries}, nil
}

// Total сумма положительных весов
func (pr Probability) Total() int {
	total := 0
	for _, e := range pr.Entries {
		if e.Weight > 0 {
			total += e.Weight
		}
	}
	return total
}

// Pick возвращает индекс выбранного элемента или -1, если выбирать не из чего.
// Равномерное целое в [0, total) и линейный проход по накопленным весам.
func (pr Probability) Pick(rng *rand.Rand) int {
	total := pr.Total()
	if total <= 0 {
		return -1
	}
	n := rng.Intn(total)
	sum := 0
	for i, e := range pr.Entries {
		if e.Weight <= 0 {
			continue
		}
		sum += e.Weight
		if n < sum {
			return i
		}
	}
	return len(pr.Entries) - 1
}

func (pr Probability) play(p *Player, loc Location, event EventType, opts Options) int {
	i := pr.Pick(p.rng)
	if i < 0 {
		return 0
	}
	return pr.Entries[i].Acoustic.play(p, loc, event, opts)
}

// EventSelector выбирает звук по типу события
type EventSelector struct {
	Events map[EventType]Acoustic
}

// For возвращает звук для события с учётом цепочки Fallback
func (s EventSelector) For(event EventType) (Acoustic, bool) {
	for {
		if a, ok := s.Events[event]; ok {
			return a, true
		}
		next, ok := event.Fallback()
		if !ok {
			return nil, false
		}
		event = next
	}
}

func (s EventSelector) play(p *Player, loc Location, event EventType, opts Options) int {
	a, ok := s.For(event)
	if !ok {
		return 0
	}
	return a.play(p, loc, event, opts)
}

// SplitCompound разбивает составное имя "a,b" на фрагменты
func SplitCompound(compound string) []string {
	if compound == "" {
		return nil
	}
	parts := strings.Split(compound, ",")
	names := parts[:0]
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	return names
}
