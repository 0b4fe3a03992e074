// Package host описывает узкие интерфейсы, через которые движок шагов
// обращается к игровому миру, сущностям и звуковой подсистеме хоста.
package host

import (
	"strconv"

	"github.com/annel0/ambient-footsteps/internal/vec"
)

// NoVariant означает, что у состояния блока нет варианта (метаданных)
const NoVariant = -1

// Substance общая категория материала блока (дерево, камень, ...)
type Substance string

// Категории материала из таблицы классификации хоста
const (
	SubstanceAir    Substance = "air"
	SubstanceWood   Substance = "wood"
	SubstanceRock   Substance = "rock"
	SubstanceGround Substance = "ground"
	SubstanceGrass  Substance = "grass"
	SubstanceSand   Substance = "sand"
	SubstanceWater  Substance = "water"
	SubstanceCloth  Substance = "cloth"
	SubstancePlant  Substance = "plant"
	SubstanceMetal  Substance = "metal"
	SubstanceGlass  Substance = "glass"
	SubstanceSnow   Substance = "snow"
)

// BlockState наблюдаемое состояние блока в позиции
type BlockState struct {
	Name      string    // Пространство имён и имя: "minecraft:grass"
	Variant   int       // Вариант/метаданные, NoVariant если нет
	Substance Substance // Категория материала
}

// Unknown состояние для незагруженных позиций
var Unknown = BlockState{Variant: NoVariant}

// Air состояние пустого блока
var Air = BlockState{Name: "minecraft:air", Variant: NoVariant, Substance: SubstanceAir}

// IsUnknown true для незагруженной позиции
func (s BlockState) IsUnknown() bool {
	return s.Name == ""
}

// IsAir true для воздуха
func (s BlockState) IsAir() bool {
	return s.Substance == SubstanceAir
}

func (s BlockState) String() string {
	if s.Variant == NoVariant {
		return s.Name
	}
	return s.Name + "^" + strconv.Itoa(s.Variant)
}

// Biome свойства биома, важные для погодных акцентов
type Biome struct {
	Name    string
	CanRain bool // В биоме бывают осадки в виде дождя
	Dusty   bool // Пыльный биом: дождь не оставляет луж
}

// World запросы к миру хоста. Реализации не должны паниковать на
// незагруженных чанках: BlockState возвращает Unknown.
type World interface {
	BlockState(pos vec.Vec3) BlockState
	IsLoaded(pos vec.Vec3) bool
	IsRaining() bool
	// PrecipitationHeight высота, начиная с которой колонна открыта осадкам
	PrecipitationHeight(col vec.Vec2) int
	Biome(pos vec.Vec3) Biome
}

// MovementMode текущий режим движения персонажа
type MovementMode int

const (
	MovementNormal MovementMode = iota
	MovementSwimming
	MovementFlying
)

func (m MovementMode) String() string {
	switch m {
	case MovementSwimming:
		return "swimming"
	case MovementFlying:
		return "flying"
	default:
		return "normal"
	}
}

// ArmorSlot слот брони
type ArmorSlot int

const (
	ArmorHead ArmorSlot = iota
	ArmorChest
	ArmorLegs
	ArmorFeet
)

// Entity состояние персонажа, читаемое за тик
type Entity interface {
	ID() uint64
	// Position позиция ступней
	Position() vec.Vec3Float
	// Yaw угол поворота в градусах (0 = +Z, 90 = -X)
	Yaw() float64
	HalfWidth() float64
	Movement() MovementMode
	OnGround() bool
	OnLadder() bool
	Sprinting() bool
	// Armor идентификатор предмета в слоте или "" если пусто
	Armor(slot ArmorSlot) string
}

// Facing сторона блока, на которую смотрит наблюдатель
type Facing int

const (
	FacingUp Facing = iota
	FacingDown
	FacingNorth
	FacingSouth
	FacingWest
	FacingEast
)

// SoundOptions параметры затухания звука
type SoundOptions struct {
	Source    uint64 // ID сущности-источника
	Attenuate bool
}

// SoundSink звуковая подсистема хоста
type SoundSink interface {
	PlaySound(loc vec.Vec3Float, soundID string, volume, pitch float64, opts SoundOptions)
}
