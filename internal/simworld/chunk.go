package simworld

import (
	"sync"

	"github.com/annel0/ambient-footsteps/internal/host"
	"github.com/annel0/ambient-footsteps/internal/vec"
)

// ChunkSize ширина чанка по X и Z
const ChunkSize = 16

// Chunk колонна мира 16x16 блоков произвольной высоты
type Chunk struct {
	Coords vec.Vec2 // Координаты чанка в мире

	// Blocks непустые блоки по локальным координатам (x 0..15, y, z 0..15)
	Blocks map[vec.Vec3]host.BlockState
	// Facades настоящий материал блоков-обёрток
	Facades map[vec.Vec3]host.BlockState
	// Biomes имя биома для каждой колонны
	Biomes [ChunkSize][ChunkSize]string
	// heights верхний непустой блок колонны, -1 для пустой
	heights [ChunkSize][ChunkSize]int

	ChangeCounter int          // Счетчик изменений
	Mu            sync.RWMutex // Мьютекс для безопасного доступа
}

// NewChunk создаёт пустой чанк
func NewChunk(coords vec.Vec2) *Chunk {
	c := &Chunk{
		Coords:  coords,
		Blocks:  make(map[vec.Vec3]host.BlockState),
		Facades: make(map[vec.Vec3]host.BlockState),
	}
	for x := 0; x < ChunkSize; x++ {
		for z := 0; z < ChunkSize; z++ {
			c.Biomes[x][z] = BiomePlains
			c.heights[x][z] = -1
		}
	}
	return c
}

// localPos переводит мировые координаты в локальные координаты чанка
func localPos(pos vec.Vec3) vec.Vec3 {
	l := pos.Column().LocalInChunk()
	return vec.Vec3{X: l.X, Y: pos.Y, Z: l.Z}
}

// GetBlock возвращает блок по локальным координатам
func (c *Chunk) GetBlock(local vec.Vec3) host.BlockState {
	c.Mu.RLock()
	defer c.Mu.RUnlock()

	if s, ok := c.Blocks[local]; ok {
		return s
	}
	return host.Air
}

// SetBlock устанавливает блок по локальным координатам; воздух удаляет запись
func (c *Chunk) SetBlock(local vec.Vec3, state host.BlockState) {
	c.Mu.Lock()
	defer c.Mu.Unlock()

	if state.IsAir() || state.IsUnknown() {
		delete(c.Blocks, local)
		delete(c.Facades, local)
		if c.heights[local.X][local.Z] == local.Y {
			c.heights[local.X][local.Z] = c.scanTop(local.X, local.Z)
		}
	} else {
		c.Blocks[local] = state
		if local.Y > c.heights[local.X][local.Z] {
			c.heights[local.X][local.Z] = local.Y
		}
	}
	c.ChangeCounter++
}

func (c *Chunk) scanTop(x, z int) int {
	top := -1
	for pos := range c.Blocks {
		if pos.X == x && pos.Z == z && pos.Y > top {
			top = pos.Y
		}
	}
	return top
}

// SetFacade запоминает настоящий материал блока-обёртки
func (c *Chunk) SetFacade(local vec.Vec3, state host.BlockState) {
	c.Mu.Lock()
	defer c.Mu.Unlock()

	c.Facades[local] = state
	c.ChangeCounter++
}

// GetFacade возвращает настоящий материал блока-обёртки
func (c *Chunk) GetFacade(local vec.Vec3) (host.BlockState, bool) {
	c.Mu.RLock()
	defer c.Mu.RUnlock()

	s, ok := c.Facades[local]
	return s, ok
}

// TopY высота верхнего непустого блока колонны или -1
func (c *Chunk) TopY(x, z int) int {
	c.Mu.RLock()
	defer c.Mu.RUnlock()

	return c.heights[x][z]
}

// ClearChanges сбрасывает счётчик изменений после сохранения
func (c *Chunk) ClearChanges() {
	c.Mu.Lock()
	c.ChangeCounter = 0
	c.Mu.Unlock()
}
