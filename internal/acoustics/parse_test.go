package acoustics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLibrary = `{
  "type": "library",
  "engineversion": 1,
  "soundroot": "footsteps.",
  "defaults": {"vol_min": 90, "vol_max": 100, "pitch_min": 95, "pitch_max": 105},
  "contents": {
    "grass_step": "grass",
    "raw": "@minecraft:block.stone.step",
    "wood": {
      "type": "events",
      "_comment": "дерево",
      "walk": {"name": "wood_walk", "vol": 50},
      "land": {"type": "simultaneous", "array": ["wood_land", {"name": "wood_creak", "pitch_min": 80, "pitch_max": 80}]}
    },
    "gravel": {"type": "probability", "array": [10, "gravel1", 0, "gravel2", 30, {"type": "delayed", "delay": 2, "name": "gravel3"}]},
    "echo": {"type": "delayed", "delay_min": 1, "delay_max": 4, "acoustic": "echo"}
  }
}`

func TestParseLibrary(t *testing.T) {
	set, err := ParseLibrary(strings.NewReader(sampleLibrary))
	require.NoError(t, err)
	require.Len(t, set, 5)

	grass, ok := set["grass_step"].(Basic)
	require.True(t, ok)
	assert.Equal(t, "footsteps.grass", grass.Sound)
	assert.InDelta(t, 0.9, grass.VolMin, 1e-9)
	assert.InDelta(t, 1.0, grass.VolMax, 1e-9)
	assert.InDelta(t, 0.95, grass.PitchMin, 1e-9)
	assert.InDelta(t, 1.05, grass.PitchMax, 1e-9)

	raw := set["raw"].(Basic)
	assert.Equal(t, "minecraft:block.stone.step", raw.Sound, "@ отключает soundroot")

	wood, ok := set["wood"].(EventSelector)
	require.True(t, ok)
	walk := wood.Events[EventWalk].(Basic)
	assert.Equal(t, 0.5, walk.VolMin)
	assert.Equal(t, 0.5, walk.VolMax)
	land := wood.Events[EventLand].(Simultaneous)
	require.Len(t, land.Parts, 2)
	assert.Equal(t, 0.8, land.Parts[1].(Basic).PitchMin)

	gravel, ok := set["gravel"].(Probability)
	require.True(t, ok)
	require.Len(t, gravel.Entries, 3)
	assert.Equal(t, 0, gravel.Entries[1].Weight)
	delayed := gravel.Entries[2].Acoustic.(Delayed)
	assert.Equal(t, 2, delayed.DelayMin)
	assert.Equal(t, 2, delayed.DelayMax)
	assert.Equal(t, "footsteps.gravel3", delayed.Inner.(Basic).Sound)

	echo := set["echo"].(Delayed)
	assert.Equal(t, 1, echo.DelayMin)
	assert.Equal(t, 4, echo.DelayMax)
}

func TestParseLibrary_Errors(t *testing.T) {
	cases := map[string]struct {
		input string
		want  error
	}{
		"не библиотека": {
			input: `{"type": "blockmap", "engineversion": 1, "contents": {}}`,
			want:  ErrNotLibrary,
		},
		"старая версия": {
			input: `{"type": "library", "engineversion": 0, "contents": {}}`,
			want:  ErrEngineVersion,
		},
		"неизвестный тип": {
			input: `{"type": "library", "engineversion": 1, "contents": {"x": {"type": "reverb"}}}`,
			want:  ErrUnknownType,
		},
		"нулевые веса": {
			input: `{"type": "library", "engineversion": 1, "contents": {"x": {"type": "probability", "array": [0, "a"]}}}`,
			want:  ErrZeroWeights,
		},
		"basic без имени": {
			input: `{"type": "library", "engineversion": 1, "contents": {"x": {"vol": 50}}}`,
			want:  ErrMissingSoundRef,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseLibrary(strings.NewReader(tc.input))
			assert.ErrorIs(t, err, tc.want)
		})
	}

	_, err := ParseLibrary(strings.NewReader(`{"type": "library",`))
	assert.Error(t, err)

	_, err = ParseLibrary(strings.NewReader(`{"type": "library", "engineversion": 1, "contents": {"x": {"type": "probability", "array": [1]}}}`))
	assert.Error(t, err)
}
