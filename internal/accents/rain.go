package accents

import (
	"github.com/annel0/ambient-footsteps/internal/acoustics"
	"github.com/annel0/ambient-footsteps/internal/host"
	"github.com/annel0/ambient-footsteps/internal/vec"
)

// RainSplashAccent всплеск под дождём на открытой земле.
// Не звучит в пыльных биомах, в биомах без дождя и под крышей.
type RainSplashAccent struct{}

func (RainSplashAccent) Name() string { return "rain_splash" }

func (RainSplashAccent) Provide(ctx Context, acc []string) []string {
	if ctx.World == nil || ctx.Entity == nil || !ctx.World.IsRaining() {
		return acc
	}

	feet := ctx.Entity.Position().Floor()
	if ctx.Pos != nil {
		feet = ctx.Pos.Up(1)
	}

	if !Exposed(ctx.World, feet) {
		return acc
	}
	return AppendUnique(acc, acoustics.Splash)
}

// Exposed открыта ли позиция дождю: идёт дождь, над ней нет блоков
// и биом допускает лужи
func Exposed(world host.World, pos vec.Vec3) bool {
	if !world.IsRaining() {
		return false
	}
	if pos.Y < world.PrecipitationHeight(pos.Column()) {
		return false
	}
	biome := world.Biome(pos)
	return biome.CanRain && !biome.Dusty
}
