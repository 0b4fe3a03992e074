package simworld

import (
	"github.com/annel0/ambient-footsteps/internal/host"
	"github.com/annel0/ambient-footsteps/internal/vec"
)

// Character простая реализация host.Entity с изменяемыми полями
type Character struct {
	EntityID   uint64
	Pos        vec.Vec3Float
	YawDeg     float64
	Width      float64
	Mode       host.MovementMode
	Grounded   bool
	Ladder     bool
	Sprint     bool
	ArmorItems map[host.ArmorSlot]string
}

// NewCharacter персонаж шириной 0.6 блока, стоящий на земле
func NewCharacter(id uint64, pos vec.Vec3Float) *Character {
	return &Character{
		EntityID:   id,
		Pos:        pos,
		Width:      0.6,
		Grounded:   true,
		ArmorItems: make(map[host.ArmorSlot]string),
	}
}

func (c *Character) ID() uint64                  { return c.EntityID }
func (c *Character) Position() vec.Vec3Float     { return c.Pos }
func (c *Character) Yaw() float64                { return c.YawDeg }
func (c *Character) HalfWidth() float64          { return c.Width / 2 }
func (c *Character) Movement() host.MovementMode { return c.Mode }
func (c *Character) OnGround() bool              { return c.Grounded }
func (c *Character) OnLadder() bool              { return c.Ladder }
func (c *Character) Sprinting() bool             { return c.Sprint }

func (c *Character) Armor(slot host.ArmorSlot) string {
	return c.ArmorItems[slot]
}

// Wear надевает предмет в слот
func (c *Character) Wear(slot host.ArmorSlot, item string) {
	c.ArmorItems[slot] = item
}
