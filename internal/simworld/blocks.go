package simworld

import "github.com/annel0/ambient-footsteps/internal/host"

// Блоки симулятора
var (
	Grass     = host.BlockState{Name: "minecraft:grass", Variant: host.NoVariant, Substance: host.SubstanceGrass}
	Dirt      = host.BlockState{Name: "minecraft:dirt", Variant: host.NoVariant, Substance: host.SubstanceGround}
	Stone     = host.BlockState{Name: "minecraft:stone", Variant: host.NoVariant, Substance: host.SubstanceRock}
	Sand      = host.BlockState{Name: "minecraft:sand", Variant: host.NoVariant, Substance: host.SubstanceSand}
	Snow      = host.BlockState{Name: "minecraft:snow", Variant: host.NoVariant, Substance: host.SubstanceSnow}
	Planks    = host.BlockState{Name: "minecraft:planks", Variant: 0, Substance: host.SubstanceWood}
	Water     = host.BlockState{Name: "minecraft:water", Variant: host.NoVariant, Substance: host.SubstanceWater}
	TallGrass = host.BlockState{Name: "minecraft:tallgrass", Variant: 1, Substance: host.SubstancePlant}
	Carpet    = host.BlockState{Name: "minecraft:carpet", Variant: 0, Substance: host.SubstanceCloth}
	Fence     = host.BlockState{Name: "minecraft:fence", Variant: host.NoVariant, Substance: host.SubstanceWood}
	Framed    = host.BlockState{Name: "framedblocks:framed_cube", Variant: host.NoVariant, Substance: host.SubstanceWood}
)
