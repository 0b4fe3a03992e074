// Package simworld in-memory мир для симулятора и тестов: чанки блоков,
// биомы, погода, блоки-обёртки. Реализует host.World.
package simworld

import (
	"sync"

	"github.com/annel0/ambient-footsteps/internal/host"
	"github.com/annel0/ambient-footsteps/internal/vec"
)

// World мир симулятора
type World struct {
	mu      sync.RWMutex
	chunks  map[vec.Vec2]*Chunk
	raining bool
}

// NewWorld создаёт пустой мир без загруженных чанков
func NewWorld() *World {
	return &World{chunks: make(map[vec.Vec2]*Chunk)}
}

// AddChunk загружает чанк в мир
func (w *World) AddChunk(c *Chunk) {
	w.mu.Lock()
	w.chunks[c.Coords] = c
	w.mu.Unlock()
}

// UnloadChunk выгружает чанк
func (w *World) UnloadChunk(coords vec.Vec2) {
	w.mu.Lock()
	delete(w.chunks, coords)
	w.mu.Unlock()
}

// Chunk возвращает загруженный чанк
func (w *World) Chunk(coords vec.Vec2) (*Chunk, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	c, ok := w.chunks[coords]
	return c, ok
}

// Chunks список загруженных чанков
func (w *World) Chunks() []*Chunk {
	w.mu.RLock()
	defer w.mu.RUnlock()

	result := make([]*Chunk, 0, len(w.chunks))
	for _, c := range w.chunks {
		result = append(result, c)
	}
	return result
}

// chunkFor возвращает чанк для позиции, создавая его при необходимости
func (w *World) chunkFor(pos vec.Vec3, create bool) *Chunk {
	coords := pos.Column().ToChunkCoords()

	w.mu.RLock()
	c, ok := w.chunks[coords]
	w.mu.RUnlock()
	if ok || !create {
		return c
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if c, ok = w.chunks[coords]; ok {
		return c
	}
	c = NewChunk(coords)
	w.chunks[coords] = c
	return c
}

// SetBlock устанавливает блок, загружая пустой чанк при необходимости
func (w *World) SetBlock(pos vec.Vec3, state host.BlockState) {
	w.chunkFor(pos, true).SetBlock(localPos(pos), state)
}

// SetFacade устанавливает блок-обёртку с настоящим материалом
func (w *World) SetFacade(pos vec.Vec3, wrapper, material host.BlockState) {
	c := w.chunkFor(pos, true)
	c.SetBlock(localPos(pos), wrapper)
	c.SetFacade(localPos(pos), material)
}

// SetBiome задаёт биом колонны
func (w *World) SetBiome(col vec.Vec2, name string) {
	c := w.chunkFor(vec.Vec3{X: col.X, Z: col.Z}, true)
	l := col.LocalInChunk()
	c.Mu.Lock()
	c.Biomes[l.X][l.Z] = name
	c.Mu.Unlock()
}

// SetRaining включает или выключает дождь
func (w *World) SetRaining(raining bool) {
	w.mu.Lock()
	w.raining = raining
	w.mu.Unlock()
}

// BlockState реализует host.World
func (w *World) BlockState(pos vec.Vec3) host.BlockState {
	c := w.chunkFor(pos, false)
	if c == nil {
		return host.Unknown
	}
	return c.GetBlock(localPos(pos))
}

// IsLoaded реализует host.World
func (w *World) IsLoaded(pos vec.Vec3) bool {
	return w.chunkFor(pos, false) != nil
}

// IsRaining реализует host.World
func (w *World) IsRaining() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.raining
}

// PrecipitationHeight первая высота над верхним непустым блоком колонны
func (w *World) PrecipitationHeight(col vec.Vec2) int {
	c := w.chunkFor(vec.Vec3{X: col.X, Z: col.Z}, false)
	if c == nil {
		return 0
	}
	l := col.LocalInChunk()
	return c.TopY(l.X, l.Z) + 1
}

// Biome реализует host.World
func (w *World) Biome(pos vec.Vec3) host.Biome {
	c := w.chunkFor(pos, false)
	if c == nil {
		return LookupBiome(BiomePlains)
	}
	l := pos.Column().LocalInChunk()
	c.Mu.RLock()
	name := c.Biomes[l.X][l.Z]
	c.Mu.RUnlock()
	return LookupBiome(name)
}

// FacadeState настоящий материал блока-обёртки
func (w *World) FacadeState(pos vec.Vec3, _ host.Facing) (host.BlockState, bool) {
	c := w.chunkFor(pos, false)
	if c == nil {
		return host.Unknown, false
	}
	return c.GetFacade(localPos(pos))
}
