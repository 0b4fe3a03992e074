package accents

import "github.com/annel0/ambient-footsteps/internal/host"

// ArmorAccents звук брони на теле и отдельно на ногах.
// Одинаковый звук от тела и ног попадает в аккумулятор один раз.
type ArmorAccents struct{}

func (ArmorAccents) Name() string { return "armor" }

func (ArmorAccents) Provide(ctx Context, acc []string) []string {
	if ctx.Entity == nil || ctx.Armor == nil {
		return acc
	}

	// Нагрудник важнее поножей
	body := ctx.Entity.Armor(host.ArmorChest)
	if body == "" {
		body = ctx.Entity.Armor(host.ArmorLegs)
	}
	if body != "" {
		if a, ok := ctx.Armor.ArmorAcoustic(body); ok {
			acc = AppendUnique(acc, a)
		}
	}

	if feet := ctx.Entity.Armor(host.ArmorFeet); feet != "" {
		if a, ok := ctx.Armor.FootArmorAcoustic(feet); ok {
			acc = AppendUnique(acc, a)
		}
	}
	return acc
}
