package storage

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/ambient-footsteps/internal/simworld"
	"github.com/annel0/ambient-footsteps/internal/vec"
)

func setupTestStorage(t *testing.T) (*WorldStorage, string) {
	// Создаем временную директорию для тестов
	tempDir, err := os.MkdirTemp("", "world-storage-test")
	require.NoError(t, err)

	storage, err := NewWorldStorage(tempDir)
	if err != nil {
		os.RemoveAll(tempDir)
		t.Fatalf("Не удалось создать хранилище: %v", err)
	}

	return storage, tempDir
}

func cleanupTestStorage(storage *WorldStorage, tempDir string) {
	if storage != nil {
		storage.Close()
	}
	if tempDir != "" {
		os.RemoveAll(tempDir)
	}
}

func TestSaveAndLoadChunk(t *testing.T) {
	storage, tempDir := setupTestStorage(t)
	defer cleanupTestStorage(storage, tempDir)

	coords := vec.Vec2{X: 10, Z: -20}
	chunk := simworld.NewChunk(coords)
	chunk.SetBlock(vec.Vec3{X: 5, Y: 63, Z: 5}, simworld.Grass)
	chunk.SetBlock(vec.Vec3{X: 5, Y: 64, Z: 5}, simworld.TallGrass)
	chunk.SetBlock(vec.Vec3{X: 8, Y: 40, Z: 3}, simworld.Framed)
	chunk.SetFacade(vec.Vec3{X: 8, Y: 40, Z: 3}, simworld.Stone)
	chunk.Biomes[5][5] = simworld.BiomeDesert

	require.NoError(t, storage.SaveChunk(chunk))
	assert.Zero(t, chunk.ChangeCounter, "после сохранения изменения сброшены")

	loaded, ok, err := storage.LoadChunk(coords)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, coords, loaded.Coords)
	assert.Equal(t, simworld.Grass, loaded.GetBlock(vec.Vec3{X: 5, Y: 63, Z: 5}))
	assert.Equal(t, simworld.TallGrass, loaded.GetBlock(vec.Vec3{X: 5, Y: 64, Z: 5}))
	assert.Equal(t, 64, loaded.TopY(5, 5))
	assert.Equal(t, simworld.BiomeDesert, loaded.Biomes[5][5])

	material, ok := loaded.GetFacade(vec.Vec3{X: 8, Y: 40, Z: 3})
	assert.True(t, ok)
	assert.Equal(t, simworld.Stone, material)
}

func TestLoadMissingChunk(t *testing.T) {
	storage, tempDir := setupTestStorage(t)
	defer cleanupTestStorage(storage, tempDir)

	chunk, ok, err := storage.LoadChunk(vec.Vec2{X: 1, Z: 1})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, chunk)
}

func TestSaveAndLoadWorld(t *testing.T) {
	storage, tempDir := setupTestStorage(t)
	defer cleanupTestStorage(storage, tempDir)

	w := simworld.NewWorld()
	w.Populate(simworld.NewGenerator(3), vec.Vec2{}, 1)

	saved, err := storage.SaveWorld(w)
	require.NoError(t, err)
	assert.Equal(t, 9, saved)

	again, err := storage.SaveWorld(w)
	require.NoError(t, err)
	assert.Zero(t, again, "неизменённые чанки не перезаписываются")

	restored := simworld.NewWorld()
	n, err := storage.LoadWorld(restored)
	require.NoError(t, err)
	assert.Equal(t, 9, n)

	for _, pos := range []vec.Vec3{{X: 0, Y: 62, Z: 0}, {X: -7, Y: 61, Z: 12}, {X: 20, Y: 63, Z: -5}} {
		assert.Equal(t, w.BlockState(pos), restored.BlockState(pos), "блок %v", pos)
		assert.Equal(t, w.PrecipitationHeight(pos.Column()), restored.PrecipitationHeight(pos.Column()))
	}
}

func TestClosedStorage(t *testing.T) {
	storage, tempDir := setupTestStorage(t)
	defer os.RemoveAll(tempDir)

	require.NoError(t, storage.Close())
	require.NoError(t, storage.Close())

	_, _, err := storage.LoadChunk(vec.Vec2{})
	assert.Error(t, err)
}
