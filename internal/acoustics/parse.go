package acoustics

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// libraryFile верхний уровень acoustics.json
type libraryFile struct {
	Type          string                     `json:"type"`
	EngineVersion int                        `json:"engineversion"`
	SoundRoot     string                     `json:"soundroot"`
	Defaults      *rangeDefaults             `json:"defaults"`
	Contents      map[string]json.RawMessage `json:"contents"`
}

// rangeDefaults значения в процентах (0-100)
type rangeDefaults struct {
	VolMin   *float64 `json:"vol_min"`
	VolMax   *float64 `json:"vol_max"`
	PitchMin *float64 `json:"pitch_min"`
	PitchMax *float64 `json:"pitch_max"`
}

type parser struct {
	soundRoot string
	base      Basic
}

// ParseLibrary разбирает JSON-библиотеку звуков. Ошибка в любом элементе
// отклоняет весь файл, чтобы сломанный пакет не давал частичных данных.
func ParseLibrary(r io.Reader) (map[string]Acoustic, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read library: %w", err)
	}

	var file libraryFile
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode library: %w", err)
	}
	if file.Type != "library" {
		return nil, fmt.Errorf("%w: type=%q", ErrNotLibrary, file.Type)
	}
	if file.EngineVersion < 1 {
		return nil, fmt.Errorf("%w: %d", ErrEngineVersion, file.EngineVersion)
	}

	p := parser{
		soundRoot: file.SoundRoot,
		base:      Basic{VolMin: 1, VolMax: 1, PitchMin: 1, PitchMax: 1},
	}
	if d := file.Defaults; d != nil {
		applyPercent(&p.base.VolMin, d.VolMin)
		applyPercent(&p.base.VolMax, d.VolMax)
		applyPercent(&p.base.PitchMin, d.PitchMin)
		applyPercent(&p.base.PitchMax, d.PitchMax)
	}

	result := make(map[string]Acoustic, len(file.Contents))
	for name, raw := range file.Contents {
		a, err := p.parse(raw)
		if err != nil {
			return nil, fmt.Errorf("acoustic %q: %w", name, err)
		}
		result[name] = a
	}
	return result, nil
}

func applyPercent(dst *float64, v *float64) {
	if v != nil {
		*dst = *v / 100
	}
}

func (p parser) soundName(name string) string {
	if strings.HasPrefix(name, "@") {
		return name[1:]
	}
	return p.soundRoot + name
}

func (p parser) parse(raw json.RawMessage) (Acoustic, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty definition")
	}

	if raw[0] == '"' {
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			return nil, err
		}
		b := p.base
		b.Sound = p.soundName(name)
		return b, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}

	kind := "basic"
	if t, ok := obj["type"]; ok {
		if err := json.Unmarshal(t, &kind); err != nil {
			return nil, fmt.Errorf("type: %w", err)
		}
	}

	switch kind {
	case "basic":
		return p.parseBasic(obj)
	case "simultaneous":
		return p.parseSimultaneous(obj)
	case "delayed":
		return p.parseDelayed(obj)
	case "probability":
		return p.parseProbability(obj)
	case "events":
		return p.parseEvents(obj)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, kind)
	}
}

func (p parser) parseBasic(obj map[string]json.RawMessage) (Basic, error) {
	b := p.base

	var name string
	if raw, ok := obj["name"]; ok {
		if err := json.Unmarshal(raw, &name); err != nil {
			return b, fmt.Errorf("name: %w", err)
		}
	}
	if name == "" {
		return b, ErrMissingSoundRef
	}
	b.Sound = p.soundName(name)

	// Сокращения vol/pitch задают обе границы
	fields := []struct {
		key  string
		dsts []*float64
	}{
		{"vol", []*float64{&b.VolMin, &b.VolMax}},
		{"pitch", []*float64{&b.PitchMin, &b.PitchMax}},
		{"vol_min", []*float64{&b.VolMin}},
		{"vol_max", []*float64{&b.VolMax}},
		{"pitch_min", []*float64{&b.PitchMin}},
		{"pitch_max", []*float64{&b.PitchMax}},
	}
	for _, f := range fields {
		raw, ok := obj[f.key]
		if !ok {
			continue
		}
		var v float64
		if err := json.Unmarshal(raw, &v); err != nil {
			return b, fmt.Errorf("%s: %w", f.key, err)
		}
		for _, dst := range f.dsts {
			*dst = v / 100
		}
	}
	return b, nil
}

func (p parser) parseArray(obj map[string]json.RawMessage) ([]json.RawMessage, error) {
	raw, ok := obj["array"]
	if !ok {
		return nil, fmt.Errorf("missing array")
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("array: %w", err)
	}
	return items, nil
}

func (p parser) parseSimultaneous(obj map[string]json.RawMessage) (Acoustic, error) {
	items, err := p.parseArray(obj)
	if err != nil {
		return nil, err
	}
	s := Simultaneous{Parts: make([]Acoustic, 0, len(items))}
	for i, item := range items {
		a, err := p.parse(item)
		if err != nil {
			return nil, fmt.Errorf("array[%d]: %w", i, err)
		}
		s.Parts = append(s.Parts, a)
	}
	return s, nil
}

func (p parser) parseDelayed(obj map[string]json.RawMessage) (Acoustic, error) {
	var d Delayed
	readInt := func(key string, dst *int) error {
		raw, ok := obj[key]
		if !ok {
			return nil
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		return nil
	}

	if _, ok := obj["delay"]; ok {
		if err := readInt("delay", &d.DelayMin); err != nil {
			return nil, err
		}
		d.DelayMax = d.DelayMin
	} else {
		if err := readInt("delay_min", &d.DelayMin); err != nil {
			return nil, err
		}
		if err := readInt("delay_max", &d.DelayMax); err != nil {
			return nil, err
		}
	}
	if d.DelayMin < 0 {
		return nil, fmt.Errorf("negative delay %d", d.DelayMin)
	}

	if inner, ok := obj["acoustic"]; ok {
		a, err := p.parse(inner)
		if err != nil {
			return nil, fmt.Errorf("acoustic: %w", err)
		}
		d.Inner = a
		return d, nil
	}

	// Без вложенного описания задержанный звук сам является basic
	b, err := p.parseBasic(obj)
	if err != nil {
		return nil, err
	}
	d.Inner = b
	return d, nil
}

func (p parser) parseProbability(obj map[string]json.RawMessage) (Acoustic, error) {
	items, err := p.parseArray(obj)
	if err != nil {
		return nil, err
	}
	if len(items)%2 != 0 {
		return nil, fmt.Errorf("probability array must hold weight/acoustic pairs, got %d items", len(items))
	}

	entries := make([]Weighted, 0, len(items)/2)
	for i := 0; i < len(items); i += 2 {
		var w int
		if err := json.Unmarshal(items[i], &w); err != nil {
			return nil, fmt.Errorf("array[%d] weight: %w", i, err)
		}
		a, err := p.parse(items[i+1])
		if err != nil {
			return nil, fmt.Errorf("array[%d]: %w", i+1, err)
		}
		entries = append(entries, Weighted{Weight: w, Acoustic: a})
	}
	return NewProbability(entries)
}

func (p parser) parseEvents(obj map[string]json.RawMessage) (Acoustic, error) {
	s := EventSelector{Events: make(map[EventType]Acoustic)}
	for key, raw := range obj {
		if key == "type" || strings.HasPrefix(key, "_") {
			continue
		}
		event, err := ParseEventType(key)
		if err != nil {
			return nil, err
		}
		a, err := p.parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		s.Events[event] = a
	}
	return s, nil
}
