package solver

import (
	"fmt"

	"github.com/annel0/ambient-footsteps/internal/blockmap"
)

// Probe одна проверка в вертикальной колонне под ногой
type Probe struct {
	DY        int    // Смещение от опорного блока
	Substrate string // Подложка, с которой ищется ассоциация
}

// ProbePolicy порядок проверок колонны
type ProbePolicy []Probe

// DefaultProbePolicy: покрытие поверх опоры (ковёр, снег), сама опора,
// высокий блок под ней (забор, стена)
var DefaultProbePolicy = ProbePolicy{
	{DY: 1, Substrate: blockmap.SubstrateCarpet},
	{DY: 0, Substrate: blockmap.SubstrateNone},
	{DY: -1, Substrate: blockmap.SubstrateBigger},
}

// Validate проверяет таблицу проверок
func (p ProbePolicy) Validate() error {
	if len(p) == 0 {
		return fmt.Errorf("probe policy is empty")
	}
	for i, probe := range p {
		if probe.DY < -2 || probe.DY > 2 {
			return fmt.Errorf("probe %d: dy %d out of range [-2,2]", i, probe.DY)
		}
		switch probe.Substrate {
		case blockmap.SubstrateNone, blockmap.SubstrateCarpet, blockmap.SubstrateBigger, blockmap.SubstrateWet:
		default:
			return fmt.Errorf("probe %d: unknown substrate %q", i, probe.Substrate)
		}
	}
	return nil
}
