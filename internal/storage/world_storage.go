// Package storage сохраняет ландшафт симулятора в BadgerDB
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/dgraph-io/badger/v3"
	"github.com/klauspost/compress/zstd"

	"github.com/annel0/ambient-footsteps/internal/host"
	"github.com/annel0/ambient-footsteps/internal/simworld"
	"github.com/annel0/ambient-footsteps/internal/storage_interface"
	"github.com/annel0/ambient-footsteps/internal/vec"
)

const chunkPrefix = "chunk:"

// WorldStorage хранилище чанков симулятора. Значения - JSON, сжатый zstd.
type WorldStorage struct {
	db      *badger.DB
	dbPath  string
	mutex   sync.RWMutex
	isReady bool

	compressor   *zstd.Encoder
	decompressor *zstd.Decoder
}

// ChunkRecord сохраняемое состояние чанка
type ChunkRecord struct {
	Coords  vec.Vec2                                       `json:"coords"`
	Blocks  []BlockRecord                                  `json:"blocks"`
	Facades []BlockRecord                                  `json:"facades,omitempty"`
	Biomes  [simworld.ChunkSize][simworld.ChunkSize]string `json:"biomes"`
}

// BlockRecord блок в локальных координатах чанка
type BlockRecord struct {
	X         int            `json:"x"`
	Y         int            `json:"y"`
	Z         int            `json:"z"`
	Name      string         `json:"name"`
	Variant   int            `json:"variant"`
	Substance host.Substance `json:"substance,omitempty"`
}

func (b BlockRecord) pos() vec.Vec3 {
	return vec.Vec3{X: b.X, Y: b.Y, Z: b.Z}
}

func (b BlockRecord) state() host.BlockState {
	return host.BlockState{Name: b.Name, Variant: b.Variant, Substance: b.Substance}
}

func newBlockRecord(pos vec.Vec3, s host.BlockState) BlockRecord {
	return BlockRecord{X: pos.X, Y: pos.Y, Z: pos.Z, Name: s.Name, Variant: s.Variant, Substance: s.Substance}
}

// NewWorldStorage открывает хранилище в каталоге dataPath/world
func NewWorldStorage(dataPath string) (*WorldStorage, error) {
	dbPath := filepath.Join(dataPath, "world")
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Отключаем логирование BadgerDB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("не удалось создать zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		db.Close()
		return nil, fmt.Errorf("не удалось создать zstd decoder: %w", err)
	}

	return &WorldStorage{
		db:           db,
		dbPath:       dbPath,
		isReady:      true,
		compressor:   enc,
		decompressor: dec,
	}, nil
}

// Close закрывает хранилище данных
func (ws *WorldStorage) Close() error {
	ws.mutex.Lock()
	defer ws.mutex.Unlock()

	if !ws.isReady {
		return nil
	}

	ws.isReady = false
	ws.compressor.Close()
	ws.decompressor.Close()
	return ws.db.Close()
}

func chunkKey(coords vec.Vec2) []byte {
	return []byte(fmt.Sprintf("%s%d:%d", chunkPrefix, coords.X, coords.Z))
}

// SaveChunk сохраняет чанк, если в нём были изменения
func (ws *WorldStorage) SaveChunk(chunk *simworld.Chunk) error {
	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	if !ws.isReady {
		return fmt.Errorf("хранилище не готово")
	}

	chunk.Mu.RLock()
	if chunk.ChangeCounter == 0 {
		chunk.Mu.RUnlock()
		return nil
	}

	record := ChunkRecord{
		Coords: chunk.Coords,
		Blocks: make([]BlockRecord, 0, len(chunk.Blocks)),
		Biomes: chunk.Biomes,
	}
	for pos, s := range chunk.Blocks {
		record.Blocks = append(record.Blocks, newBlockRecord(pos, s))
	}
	for pos, s := range chunk.Facades {
		record.Facades = append(record.Facades, newBlockRecord(pos, s))
	}
	chunk.Mu.RUnlock()

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("ошибка сериализации чанка: %w", err)
	}
	compressed := ws.compressor.EncodeAll(data, nil)

	err = ws.db.Update(func(txn *badger.Txn) error {
		return txn.Set(chunkKey(record.Coords), compressed)
	})
	if err != nil {
		return fmt.Errorf("ошибка сохранения в BadgerDB: %w", err)
	}

	chunk.ClearChanges()
	return nil
}

// LoadChunk загружает чанк; ok=false если чанк не сохранялся
func (ws *WorldStorage) LoadChunk(coords vec.Vec2) (*simworld.Chunk, bool, error) {
	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	if !ws.isReady {
		return nil, false, fmt.Errorf("хранилище не готово")
	}

	var data []byte
	err := ws.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(chunkKey(coords))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("ошибка чтения из BadgerDB: %w", err)
	}

	chunk, err := ws.decodeChunk(data)
	if err != nil {
		return nil, false, err
	}
	return chunk, true, nil
}

func (ws *WorldStorage) decodeChunk(compressed []byte) (*simworld.Chunk, error) {
	data, err := ws.decompressor.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка распаковки чанка: %w", err)
	}

	var record ChunkRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("ошибка десериализации чанка: %w", err)
	}

	chunk := simworld.NewChunk(record.Coords)
	chunk.Biomes = record.Biomes
	for _, b := range record.Blocks {
		chunk.SetBlock(b.pos(), b.state())
	}
	for _, b := range record.Facades {
		chunk.SetFacade(b.pos(), b.state())
	}
	chunk.ClearChanges()
	return chunk, nil
}

// SaveWorld сохраняет все изменённые чанки мира. Возвращает число записанных чанков.
func (ws *WorldStorage) SaveWorld(w *simworld.World) (int, error) {
	saved := 0
	for _, chunk := range w.Chunks() {
		chunk.Mu.RLock()
		changed := chunk.ChangeCounter > 0
		chunk.Mu.RUnlock()
		if !changed {
			continue
		}
		if err := ws.SaveChunk(chunk); err != nil {
			return saved, err
		}
		saved++
	}
	return saved, nil
}

// LoadWorld загружает все сохранённые чанки в мир
func (ws *WorldStorage) LoadWorld(w *simworld.World) (int, error) {
	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	if !ws.isReady {
		return 0, fmt.Errorf("хранилище не готово")
	}

	var values [][]byte
	err := ws.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(chunkPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if !bytes.HasPrefix(it.Item().Key(), opts.Prefix) {
				continue
			}
			v, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			values = append(values, v)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("ошибка чтения из BadgerDB: %w", err)
	}

	for _, v := range values {
		chunk, err := ws.decodeChunk(v)
		if err != nil {
			return 0, err
		}
		w.AddChunk(chunk)
	}
	return len(values), nil
}

var _ storage_interface.WorldStore = (*WorldStorage)(nil)
