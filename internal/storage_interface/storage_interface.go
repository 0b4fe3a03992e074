package storage_interface

import (
	"github.com/annel0/ambient-footsteps/internal/simworld"
	"github.com/annel0/ambient-footsteps/internal/vec"
)

// WorldStore определяет интерфейс для взаимодействия с хранилищем ландшафта
type WorldStore interface {
	// SaveWorld сохраняет изменённые чанки, возвращает число записанных
	SaveWorld(w *simworld.World) (int, error)

	// LoadWorld загружает все сохранённые чанки в мир
	LoadWorld(w *simworld.World) (int, error)

	// LoadChunk загружает один чанк; ok=false если чанка нет
	LoadChunk(coords vec.Vec2) (*simworld.Chunk, bool, error)

	// Close закрывает хранилище
	Close() error
}
