package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaletteNames(t *testing.T) {
	assert.Equal(t, "Air", Name(AirBlockID))
	assert.Equal(t, "Stone", StoneBlockID.String())
	assert.Equal(t, "Undefined", Name(BlockID(200)), "неизвестный ID должен возвращать Undefined")

	id, ok := Lookup("granite")
	assert.True(t, ok)
	assert.Equal(t, GraniteBlockID, id)

	_, ok = Lookup("lava")
	assert.False(t, ok)
}

func TestTextureIndex(t *testing.T) {
	if GrassBlockID.TextureIndex() != 0 {
		t.Errorf("Ожидался индекс текстуры 0 для травы, получен %f", GrassBlockID.TextureIndex())
	}
	assert.True(t, AirBlockID.IsAir())
	assert.False(t, WoodBlockID.IsAir())
}
