package simworld

import "github.com/annel0/ambient-footsteps/internal/host"

// Имена биомов симулятора
const (
	BiomePlains = "plains"
	BiomeForest = "forest"
	BiomeDesert = "desert"
	BiomeSnowy  = "snowy"
)

var biomes = map[string]host.Biome{
	BiomePlains: {Name: BiomePlains, CanRain: true},
	BiomeForest: {Name: BiomeForest, CanRain: true},
	BiomeDesert: {Name: BiomeDesert, CanRain: false, Dusty: true},
	BiomeSnowy:  {Name: BiomeSnowy, CanRain: false},
}

// LookupBiome возвращает свойства биома; неизвестное имя даёт равнину
func LookupBiome(name string) host.Biome {
	if b, ok := biomes[name]; ok {
		return b
	}
	return biomes[BiomePlains]
}
