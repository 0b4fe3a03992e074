package blockmap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/annel0/ambient-footsteps/internal/acoustics"
	"github.com/annel0/ambient-footsteps/internal/host"
)

// Подложки (substrate): дополнительные слои поиска для одного блока
const (
	SubstrateNone    = ""
	SubstrateCarpet  = "carpet"  // тонкий слой, лежащий поверх базового блока
	SubstrateBigger  = "bigger"  // блок выше полного (забор, стена)
	SubstrateFoliage = "foliage" // растительность на уровне ступней
	SubstrateWet     = "wet"
)

// SpecialSwim служебный примитив для плавания
const SpecialSwim = "_swim"

// BlockKey ключ карты блоков: имя, вариант и подложка
type BlockKey struct {
	Name      string
	Variant   int
	Substrate string
}

// ParseBlockKey разбирает "namespace:block[^variant][+substrate]"
func ParseBlockKey(s string) (BlockKey, error) {
	key := BlockKey{Variant: host.NoVariant}
	s = strings.TrimSpace(s)

	if i := strings.IndexByte(s, '+'); i >= 0 {
		key.Substrate = strings.TrimSpace(s[i+1:])
		s = s[:i]
		if key.Substrate == "" {
			return key, fmt.Errorf("empty substrate in block key")
		}
	}
	if i := strings.IndexByte(s, '^'); i >= 0 {
		v, err := strconv.Atoi(strings.TrimSpace(s[i+1:]))
		if err != nil || v < 0 {
			return key, fmt.Errorf("bad variant in block key %q", s)
		}
		key.Variant = v
		s = s[:i]
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return key, fmt.Errorf("empty block name")
	}
	if !strings.Contains(s, ":") {
		s = "minecraft:" + s
	}
	key.Name = s
	return key, nil
}

func (k BlockKey) String() string {
	s := k.Name
	if k.Variant != host.NoVariant {
		s += "^" + strconv.Itoa(k.Variant)
	}
	if k.Substrate != "" {
		s += "+" + k.Substrate
	}
	return s
}

// primitiveKey ключ карты примитивов: категория материала и подложка
type primitiveKey struct {
	substance host.Substance
	substrate string
}

// parseValue разбирает значение карты: список звуков или NOT_EMITTER
func parseValue(v string) (entry, error) {
	v = strings.TrimSpace(v)
	if v == NotEmitterValue {
		return entry{notEmitter: true}, nil
	}
	names := acoustics.SplitCompound(v)
	if len(names) == 0 {
		return entry{}, fmt.Errorf("empty acoustic list")
	}
	return entry{acoustics: strings.Join(names, ",")}, nil
}
