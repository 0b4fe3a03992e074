package simworld

import (
	"math/rand"

	"github.com/annel0/ambient-footsteps/internal/host"
	"github.com/annel0/ambient-footsteps/internal/util"
	"github.com/annel0/ambient-footsteps/internal/vec"
)

// Константы высот для генерации
const (
	BaseHeight  = 60   // Высота поверхности при нулевом шуме
	HeightRange = 8    // Размах высот
	WaterLevel  = 0.25 // Ниже - вода на поверхности
	StoneStart  = 0.80 // Выше - голый камень
)

// Generator генерирует ландшафт симулятора
type Generator struct {
	Seed        int64   // Сид для генерации шума
	NoiseScale  float64 // Масштаб шума высоты
	BiomeScale  float64 // Масштаб шума биомов
	FoliageRate float64 // Доля колонн с высокой травой (от 0 до 1)

	height *util.Noise
	biome  *util.Noise
}

// NewGenerator создаёт генератор ландшафта
func NewGenerator(seed int64) *Generator {
	return &Generator{
		Seed:        seed,
		NoiseScale:  0.05,
		BiomeScale:  0.02,
		FoliageRate: 0.1,
		height:      util.NewNoise(seed),
		biome:       util.NewNoise(seed + 42),
	}
}

// GenerateChunk генерирует чанк по его координатам
func (g *Generator) GenerateChunk(coords vec.Vec2) *Chunk {
	chunk := NewChunk(coords)

	// Для каждого чанка свой сид: генерация детерминирована
	chunkSeed := g.Seed + int64(coords.X*31) + int64(coords.Z*17)
	rng := rand.New(rand.NewSource(chunkSeed))

	startX := coords.X << 4
	startZ := coords.Z << 4

	for x := 0; x < ChunkSize; x++ {
		for z := 0; z < ChunkSize; z++ {
			gx := float64(startX + x)
			gz := float64(startZ + z)

			h := g.height.At(gx*g.NoiseScale, gz*g.NoiseScale)
			biome := g.biomeFor(h, g.biome.At(gx*g.BiomeScale, gz*g.BiomeScale))
			chunk.Biomes[x][z] = biome

			top := BaseHeight + int(h*HeightRange)
			for y := BaseHeight - 3; y < top; y++ {
				chunk.SetBlock(vec.Vec3{X: x, Y: y, Z: z}, Dirt)
			}

			surface := g.surfaceFor(h, biome)
			chunk.SetBlock(vec.Vec3{X: x, Y: top, Z: z}, surface)

			if surface == Grass && rng.Float64() < g.FoliageRate {
				chunk.SetBlock(vec.Vec3{X: x, Y: top + 1, Z: z}, TallGrass)
			}
		}
	}

	return chunk
}

// surfaceFor возвращает верхний блок колонны
func (g *Generator) surfaceFor(height float64, biome string) host.BlockState {
	switch {
	case height < WaterLevel:
		return Water
	case height > StoneStart:
		return Stone
	}

	switch biome {
	case BiomeDesert:
		return Sand
	case BiomeSnowy:
		return Snow
	default:
		return Grass
	}
}

// biomeFor определяет биом по значениям шума
func (g *Generator) biomeFor(height, biomeValue float64) string {
	if height > StoneStart {
		return BiomeSnowy
	}
	switch {
	case biomeValue < 0.35:
		return BiomeDesert
	case biomeValue > 0.65:
		return BiomeForest
	default:
		return BiomePlains
	}
}

// Populate генерирует квадрат чанков радиуса radius вокруг центра
func (w *World) Populate(g *Generator, center vec.Vec2, radius int) {
	for dx := -radius; dx <= radius; dx++ {
		for dz := -radius; dz <= radius; dz++ {
			w.AddChunk(g.GenerateChunk(vec.Vec2{X: center.X + dx, Z: center.Z + dz}))
		}
	}
}
