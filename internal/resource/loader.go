package resource

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/annel0/ambient-footsteps/internal/acoustics"
	"github.com/annel0/ambient-footsteps/internal/blockmap"
	"github.com/annel0/ambient-footsteps/internal/logging"
)

// FileReport итог загрузки одного файла пака
type FileReport struct {
	Pack    string
	File    string
	Entries int
	Err     error
}

// OK true если файл применён
func (r FileReport) OK() bool {
	return r.Err == nil
}

// LoadReport итог загрузки всех паков
type LoadReport struct {
	Packs []string
	Files []FileReport
}

// Failed файлы, пропущенные из-за ошибок
func (r *LoadReport) Failed() []FileReport {
	var failed []FileReport
	for _, f := range r.Files {
		if !f.OK() {
			failed = append(failed, f)
		}
	}
	return failed
}

// Loaded число применённых файлов
func (r *LoadReport) Loaded() int {
	return len(r.Files) - len(r.Failed())
}

func (r *LoadReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d packs, %d files loaded, %d failed", len(r.Packs), r.Loaded(), len(r.Failed()))
	for _, f := range r.Failed() {
		fmt.Fprintf(&b, "\n  %s/%s: %v", f.Pack, f.File, f.Err)
	}
	return b.String()
}

// Result собранные из паков реестр и библиотека
type Result struct {
	Registry *blockmap.Registry
	Library  *acoustics.Library
	Report   *LoadReport
}

// MissingAcoustics имена из карт, которых нет в библиотеке
func (r *Result) MissingAcoustics() []string {
	var missing []string
	for _, name := range r.Registry.Acoustics() {
		if !r.Library.Has(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Load читает паки по порядку. Поздние паки перекрывают ранние по ключам.
// Отсутствующий файл не ошибка; файл с ошибкой пропускается целиком.
func Load(packs []Pack) *Result {
	res := &Result{
		Registry: blockmap.NewRegistry(),
		Library:  acoustics.NewLibrary(),
		Report:   &LoadReport{},
	}

	for _, p := range packs {
		res.Report.Packs = append(res.Report.Packs, p.Name())

		res.loadFile(p, PrimitiveMapFile, res.Registry.LoadPrimitiveMap)
		res.loadFile(p, BlockMapFile, res.Registry.LoadBlockMap)
		res.loadFile(p, ArmorMapFile, res.Registry.LoadArmorMap)
		res.loadFile(p, AcousticsFile, func(rd io.Reader) (int, error) {
			set, err := acoustics.ParseLibrary(rd)
			if err != nil {
				return 0, err
			}
			res.Library.RegisterAll(set)
			return len(set), nil
		})
	}

	stats := res.Registry.Stats()
	logging.Info("Footsteps resources loaded: %d packs, %d blocks, %d primitives, %d armor, %d acoustics",
		len(packs), stats.Blocks, stats.Primitives, stats.Armor, res.Library.Len())
	return res
}

func (res *Result) loadFile(p Pack, name string, apply func(io.Reader) (int, error)) {
	rc, err := p.Open(name)
	if errors.Is(err, ErrNotFound) {
		logging.Debug("Pack %s has no %s", p.Name(), name)
		return
	}

	report := FileReport{Pack: p.Name(), File: name}
	if err == nil {
		report.Entries, err = apply(rc)
		_ = rc.Close()
	}
	if err != nil {
		report.Err = err
		logging.Warn("Skipping %s from pack %s: %v", name, p.Name(), err)
	}
	res.Report.Files = append(res.Report.Files, report)
}
