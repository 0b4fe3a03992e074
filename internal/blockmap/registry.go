package blockmap

import (
	"fmt"
	"io"
	"strings"

	"github.com/annel0/ambient-footsteps/internal/host"
	"github.com/annel0/ambient-footsteps/internal/vec"
)

// footArmorPrefix префикс ключей armor.cfg для брони на ногах
const footArmorPrefix = "foot."

// Registry карты блоков, примитивов и брони одного поколения.
// Заполняется в одном потоке при загрузке, после публикации только читается.
type Registry struct {
	blocks     map[BlockKey]entry
	primitives map[primitiveKey]entry
	armor      map[string]string
	footArmor  map[string]string
}

// NewRegistry создаёт пустой реестр
func NewRegistry() *Registry {
	return &Registry{
		blocks:     make(map[BlockKey]entry),
		primitives: make(map[primitiveKey]entry),
		armor:      make(map[string]string),
		footArmor:  make(map[string]string),
	}
}

// Register добавляет соответствие блока. Поздняя регистрация перекрывает раннюю.
func (r *Registry) Register(blockKey, spec string) error {
	key, err := ParseBlockKey(blockKey)
	if err != nil {
		return err
	}
	e, err := parseValue(spec)
	if err != nil {
		return fmt.Errorf("%s: %w", blockKey, err)
	}
	r.blocks[key] = e
	return nil
}

// RegisterPrimitive добавляет соответствие категории материала ("wood", "rock+carpet")
func (r *Registry) RegisterPrimitive(primitive, spec string) error {
	key := primitiveKey{}
	name := strings.TrimSpace(primitive)
	if i := strings.IndexByte(name, '+'); i >= 0 {
		key.substrate = strings.TrimSpace(name[i+1:])
		name = strings.TrimSpace(name[:i])
	}
	if name == "" {
		return fmt.Errorf("empty primitive name")
	}
	key.substance = host.Substance(strings.ToLower(name))

	e, err := parseValue(spec)
	if err != nil {
		return fmt.Errorf("%s: %w", primitive, err)
	}
	r.primitives[key] = e
	return nil
}

// RegisterArmor добавляет звук брони; ключи с префиксом "foot." относятся к ногам
func (r *Registry) RegisterArmor(item, acoustic string) error {
	item = strings.TrimSpace(item)
	acoustic = strings.TrimSpace(acoustic)
	if item == "" || acoustic == "" {
		return fmt.Errorf("armor entry needs item and acoustic")
	}
	if strings.HasPrefix(item, footArmorPrefix) {
		r.footArmor[strings.TrimPrefix(item, footArmorPrefix)] = acoustic
		return nil
	}
	r.armor[item] = acoustic
	return nil
}

// Lookup ищет ассоциацию без подложки
func (r *Registry) Lookup(state host.BlockState, pos vec.Vec3) Association {
	return r.LookupSubstrate(state, pos, SubstrateNone)
}

// LookupSubstrate ищет ассоциацию в порядке: точный блок+вариант,
// блок без варианта, категория материала. Иначе NotFound.
func (r *Registry) LookupSubstrate(state host.BlockState, pos vec.Vec3, substrate string) Association {
	return r.LookupPreferring(state, pos, substrate)
}

// LookupPreferring как LookupSubstrate, но на каждом уровне (точный блок,
// блок без варианта, категория) пробует подложки по порядку. Ранний уровень
// всегда побеждает поздний: "grass+wet" в категориях не перекрывает
// точную запись блока.
func (r *Registry) LookupPreferring(state host.BlockState, pos vec.Vec3, substrates ...string) Association {
	if state.IsUnknown() || len(substrates) == 0 {
		return NotFoundAssociation(state, pos)
	}

	if state.Variant != host.NoVariant {
		for _, sub := range substrates {
			if e, ok := r.blocks[BlockKey{Name: state.Name, Variant: state.Variant, Substrate: sub}]; ok {
				return e.associate(state, pos)
			}
		}
	}
	for _, sub := range substrates {
		if e, ok := r.blocks[BlockKey{Name: state.Name, Variant: host.NoVariant, Substrate: sub}]; ok {
			return e.associate(state, pos)
		}
	}
	if state.Substance != "" {
		for _, sub := range substrates {
			if e, ok := r.primitives[primitiveKey{substance: state.Substance, substrate: sub}]; ok {
				return e.associate(state, pos)
			}
		}
	}
	return NotFoundAssociation(state, pos)
}

// Special возвращает ассоциацию для служебного примитива ("_swim")
func (r *Registry) Special(name string) (Association, bool) {
	e, ok := r.primitives[primitiveKey{substance: host.Substance(name)}]
	if !ok {
		return Association{}, false
	}
	return e.associate(host.Unknown, vec.Vec3{}), true
}

// ArmorAcoustic звук брони на теле
func (r *Registry) ArmorAcoustic(item string) (string, bool) {
	a, ok := r.armor[item]
	return a, ok
}

// FootArmorAcoustic звук брони на ногах; при отсутствии - общий звук брони
func (r *Registry) FootArmorAcoustic(item string) (string, bool) {
	if a, ok := r.footArmor[item]; ok {
		return a, true
	}
	return r.ArmorAcoustic(item)
}

// Stats размеры карт
type Stats struct {
	Blocks     int
	Primitives int
	Armor      int
}

// Stats возвращает размеры карт реестра
func (r *Registry) Stats() Stats {
	return Stats{
		Blocks:     len(r.blocks),
		Primitives: len(r.primitives),
		Armor:      len(r.armor) + len(r.footArmor),
	}
}

// Acoustics перечисляет все имена звуков, на которые ссылаются карты
func (r *Registry) Acoustics() []string {
	seen := make(map[string]struct{})
	add := func(compound string) {
		for _, name := range strings.Split(compound, ",") {
			if name != "" {
				seen[name] = struct{}{}
			}
		}
	}
	for _, e := range r.blocks {
		add(e.acoustics)
	}
	for _, e := range r.primitives {
		add(e.acoustics)
	}
	for _, a := range r.armor {
		add(a)
	}
	for _, a := range r.footArmor {
		add(a)
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	return names
}

// LoadBlockMap читает blockmap.cfg. Файл применяется целиком или не применяется.
func (r *Registry) LoadBlockMap(rd io.Reader) (int, error) {
	return r.loadFile(rd, (*Registry).Register)
}

// LoadPrimitiveMap читает primitivemap.cfg
func (r *Registry) LoadPrimitiveMap(rd io.Reader) (int, error) {
	return r.loadFile(rd, (*Registry).RegisterPrimitive)
}

// LoadArmorMap читает armor.cfg
func (r *Registry) LoadArmorMap(rd io.Reader) (int, error) {
	return r.loadFile(rd, (*Registry).RegisterArmor)
}

func (r *Registry) loadFile(rd io.Reader, register func(reg *Registry, key, value string) error) (int, error) {
	props, err := ReadProperties(rd)
	if err != nil {
		return 0, err
	}

	// Сначала проверяем все строки на временном реестре
	staging := NewRegistry()
	for _, p := range props {
		if err := register(staging, p.Key, p.Value); err != nil {
			return 0, fmt.Errorf("line %d: %w", p.Line, err)
		}
	}

	r.merge(staging)
	return len(props), nil
}

// merge переносит записи другого реестра поверх своих
func (r *Registry) merge(other *Registry) {
	for k, e := range other.blocks {
		r.blocks[k] = e
	}
	for k, e := range other.primitives {
		r.primitives[k] = e
	}
	for k, a := range other.armor {
		r.armor[k] = a
	}
	for k, a := range other.footArmor {
		r.footArmor[k] = a
	}
}
