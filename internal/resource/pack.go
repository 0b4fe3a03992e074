// Package resource читает ресурс-паки со звуковыми картами и собирает
// из них реестр и библиотеку звуков.
package resource

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/annel0/ambient-footsteps/internal/logging"
)

// ErrNotFound файл отсутствует в паке
var ErrNotFound = errors.New("resource not found")

var errNotPack = errors.New("not a resource pack")

// Пути файлов внутри пака
const (
	Dir              = "footsteps"
	BlockMapFile     = Dir + "/blockmap.cfg"
	PrimitiveMapFile = Dir + "/primitivemap.cfg"
	ArmorMapFile     = Dir + "/armor.cfg"
	AcousticsFile    = Dir + "/acoustics.json"
)

// Pack источник файлов одного ресурс-пака
type Pack interface {
	Name() string
	// Open открывает файл по пути со слешами; ErrNotFound если его нет
	Open(name string) (io.ReadCloser, error)
}

// FSPack пак поверх fs.FS (каталог на диске или память в тестах)
type FSPack struct {
	name string
	fsys fs.FS
}

// NewFSPack создаёт пак поверх файловой системы
func NewFSPack(name string, fsys fs.FS) *FSPack {
	return &FSPack{name: name, fsys: fsys}
}

// NewDirPack создаёт пак из каталога
func NewDirPack(dir string) *FSPack {
	return NewFSPack(filepath.Base(dir), os.DirFS(dir))
}

func (p *FSPack) Name() string { return p.name }

func (p *FSPack) Open(name string) (io.ReadCloser, error) {
	f, err := p.fsys.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s/%s: %w", p.name, name, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// ZipPack пак в zip-архиве
type ZipPack struct {
	name   string
	closer io.Closer
	files  map[string]*zip.File
}

// OpenZipPack открывает архив на диске
func OpenZipPack(filename string) (*ZipPack, error) {
	rc, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть архив %s: %w", filename, err)
	}
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	p := newZipPack(name, &rc.Reader)
	p.closer = rc
	return p, nil
}

// NewZipPack создаёт пак из архива в памяти
func NewZipPack(name string, r io.ReaderAt, size int64) (*ZipPack, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return newZipPack(name, zr), nil
}

func newZipPack(name string, zr *zip.Reader) *ZipPack {
	p := &ZipPack{name: name, files: make(map[string]*zip.File, len(zr.File))}
	for _, f := range zr.File {
		p.files[path.Clean(strings.TrimPrefix(f.Name, "/"))] = f
	}
	return p
}

func (p *ZipPack) Name() string { return p.name }

func (p *ZipPack) Open(name string) (io.ReadCloser, error) {
	f, ok := p.files[path.Clean(name)]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", p.name, name, ErrNotFound)
	}
	return f.Open()
}

// Close закрывает архив, если он открыт с диска
func (p *ZipPack) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}

// Discover находит паки в каталоге: подкаталоги и .zip архивы,
// упорядоченные по имени
func Discover(root string) ([]Pack, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать каталог паков %s: %w", root, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	packs := make([]Pack, 0, len(names))
	for _, name := range names {
		p, err := OpenPack(filepath.Join(root, name))
		if errors.Is(err, errNotPack) {
			logging.Debug("Not a resource pack: %s", name)
			continue
		}
		if err != nil {
			logging.Warn("Skipping pack %s: %v", name, err)
			continue
		}
		packs = append(packs, p)
	}
	return packs, nil
}

// OpenPack открывает каталог или zip-архив как пак
func OpenPack(p string) (Pack, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return NewDirPack(p), nil
	}
	if strings.EqualFold(filepath.Ext(p), ".zip") {
		return OpenZipPack(p)
	}
	return nil, fmt.Errorf("%s: %w", p, errNotPack)
}

// ClosePacks закрывает паки, которые держат открытые файлы
func ClosePacks(packs []Pack) {
	for _, p := range packs {
		if c, ok := p.(io.Closer); ok {
			_ = c.Close()
		}
	}
}

// OpenAll открывает паки из списка путей по порядку. Путь может быть
// самим паком (каталог с footsteps/ или .zip) или каталогом с паками.
func OpenAll(paths []string) ([]Pack, error) {
	var packs []Pack
	for _, p := range paths {
		if isPack(p) {
			pack, err := OpenPack(p)
			if err != nil {
				ClosePacks(packs)
				return nil, err
			}
			packs = append(packs, pack)
			continue
		}

		found, err := Discover(p)
		if err != nil {
			ClosePacks(packs)
			return nil, err
		}
		packs = append(packs, found...)
	}
	return packs, nil
}

func isPack(p string) bool {
	if strings.EqualFold(filepath.Ext(p), ".zip") {
		return true
	}
	info, err := os.Stat(filepath.Join(p, Dir))
	return err == nil && info.IsDir()
}
