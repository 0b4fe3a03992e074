// Package accents добавляет к основному звуку шага вторичные слои:
// звон брони, всплеск на мокрой земле под дождём.
package accents

import (
	"github.com/annel0/ambient-footsteps/internal/acoustics"
	"github.com/annel0/ambient-footsteps/internal/host"
	"github.com/annel0/ambient-footsteps/internal/vec"
)

// ArmorMap карты звуков брони текущего поколения реестра
type ArmorMap interface {
	ArmorAcoustic(item string) (string, bool)
	FootArmorAcoustic(item string) (string, bool)
}

// Context данные одного шага, доступные провайдерам только для чтения
type Context struct {
	Entity host.Entity
	World  host.World
	Pos    *vec.Vec3 // Блок под ногой, nil если блока нет
	Event  acoustics.EventType
	Armor  ArmorMap
}

// Provider добавляет ноль или более звуков в аккумулятор.
// Провайдер не меняет мир и видит результат предыдущих провайдеров.
type Provider interface {
	Name() string
	Provide(ctx Context, acc []string) []string
}

// Chain провайдеры в порядке регистрации
type Chain struct {
	providers []Provider
}

// NewChain создаёт цепочку провайдеров
func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers}
}

// Register добавляет провайдер в конец цепочки
func (c *Chain) Register(p Provider) {
	c.providers = append(c.providers, p)
}

// Len число провайдеров
func (c *Chain) Len() int {
	return len(c.providers)
}

// Provide прогоняет все провайдеры по порядку
func (c *Chain) Provide(ctx Context, acc []string) []string {
	for _, p := range c.providers {
		acc = p.Provide(ctx, acc)
	}
	return acc
}

// AppendUnique добавляет имя, если его ещё нет в аккумуляторе
func AppendUnique(acc []string, name string) []string {
	if name == "" {
		return acc
	}
	for _, existing := range acc {
		if existing == name {
			return acc
		}
	}
	return append(acc, name)
}
