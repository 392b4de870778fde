package columns

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		want []Key
	}{
		{"empty yields catalog", []string{}, Catalog()},
		{"nil yields catalog", nil, Catalog()},
		{"only bogus yields catalog", []string{"bogus", "IMAGE"}, Catalog()},
		{"reordered, deduped, filtered", []string{"seller", "image", "bogus", "seller"}, []Key{Image, Seller}},
		{"catalog order wins", []string{"actions", "title", "price"}, []Key{Title, Price, Actions}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	once := Normalize([]string{"ends", "bids", "ends"})
	assert.Equal(t, once, Normalize(once))
}

func TestToggle(t *testing.T) {
	assert.Equal(t, []Key{Image, Title}, Toggle([]Key{Title}, Image))
	assert.Equal(t, []Key{Title}, Toggle([]Key{Image, Title}, Image))
	assert.Equal(t, []Key{Title}, Toggle([]Key{Title}, Title), "last column stays visible")
	assert.Equal(t, []Key{Title}, Toggle([]Key{Title}, Key("bogus")))
}

func TestPresetIDFromLabel(t *testing.T) {
	assert.Equal(t, "custom:no-seller-quick", PresetIDFromLabel("No Seller / Quick"))
	assert.Equal(t, "custom:preset", PresetIDFromLabel("   "))
	assert.Equal(t, "custom:preset", PresetIDFromLabel("***"))
	assert.Equal(t, "custom:no-seller", PresetIDFromLabel("No Seller"))
}

func TestIsUserPreset(t *testing.T) {
	assert.True(t, IsUserPreset("custom:x"))
	assert.False(t, IsUserPreset("custom:"))
	assert.False(t, IsUserPreset(PresetAll))
	assert.False(t, IsUserPreset(""))
}

func TestBuiltinPresets(t *testing.T) {
	presets := BuiltinPresets()
	assert.Equal(t, []string{PresetAll, PresetTriage, PresetCompact}, []string{presets[0].ID, presets[1].ID, presets[2].ID})
	for _, p := range presets {
		assert.Equal(t, p.Columns, Normalize(p.Columns), "%s must already be normalized", p.ID)
	}

	presets[0].Columns[0] = Actions
	assert.Equal(t, Image, BuiltinPresets()[0].Columns[0])
}

func TestMatchPreset(t *testing.T) {
	presets := BuiltinPresets()
	assert.Equal(t, PresetAll, MatchPreset(presets, Catalog()))
	assert.Equal(t, PresetCompact, MatchPreset(presets, []Key{Image, Title, Price, Ends, Actions}))
	assert.Equal(t, CustomSelection, MatchPreset(presets, []Key{Title}))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Posted", Label(Posted))
	assert.Equal(t, "nope", Label(Key("nope")))
}
