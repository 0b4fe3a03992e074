package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/annel0/ambient-footsteps/internal/acoustics"
	"github.com/annel0/ambient-footsteps/internal/blockmap"
	"github.com/annel0/ambient-footsteps/internal/resource"
)

// Generation неизменяемый набор реестра и библиотеки одной загрузки.
// Публикуется целиком одной атомарной заменой указателя.
type Generation struct {
	ID       string
	Registry *blockmap.Registry
	Library  *acoustics.Library
	Report   *resource.LoadReport
	LoadedAt time.Time
}

// emptyGeneration поколение без данных (до загрузки и после выгрузки мира)
func emptyGeneration() *Generation {
	return &Generation{
		ID:       uuid.NewString(),
		Registry: blockmap.NewRegistry(),
		Library:  acoustics.NewLibrary(),
		Report:   &resource.LoadReport{},
		LoadedAt: time.Now(),
	}
}

func newGeneration(res *resource.Result) *Generation {
	return &Generation{
		ID:       uuid.NewString(),
		Registry: res.Registry,
		Library:  res.Library,
		Report:   res.Report,
		LoadedAt: time.Now(),
	}
}

// Empty true если поколение не содержит ни одной карты
func (g *Generation) Empty() bool {
	stats := g.Registry.Stats()
	return stats.Blocks == 0 && stats.Primitives == 0 && g.Library.Len() == 0
}
