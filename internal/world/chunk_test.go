package world

import (
	"testing"

	"github.com/annel0/voxelly/internal/vec"
	"github.com/annel0/voxelly/internal/world/block"
	"github.com/stretchr/testify/assert"
)

func TestChunkCreateAndGetBlock(t *testing.T) {
	chunk := NewChunk(5, 10, 2)

	// Проверяем координаты
	if chunk.Coords() != vec.New(5, 10, 2) {
		t.Errorf("Ожидались координаты (5,10,2), получено %v", chunk.Coords())
	}
	if !chunk.IsDirty() {
		t.Error("Новый чанк должен быть помечен как грязный")
	}

	// Проверяем, что блоки инициализированы как пустые
	if id := chunk.GetBlock(3, 4, 5); id != block.AirBlockID {
		t.Errorf("Ожидался пустой блок (AirBlockID), получен %d", id)
	}

	// Устанавливаем и проверяем блок
	chunk.SetBlock(3, 4, 5, block.StoneBlockID)
	if id := chunk.GetBlock(3, 4, 5); id != block.StoneBlockID {
		t.Errorf("Ожидался StoneBlockID, получен %d", id)
	}
	if chunk.BlockCount() != 1 {
		t.Errorf("Ожидался 1 блок, получено %d", chunk.BlockCount())
	}
}

func TestChunkOutOfRange(t *testing.T) {
	chunk := NewChunk(0, 0, 0)
	chunk.SetDirty(false)

	chunk.SetBlock(-1, 0, 0, block.StoneBlockID)
	chunk.SetBlock(0, ChunkSize, 0, block.StoneBlockID)
	chunk.SetBlock(0, 0, 99, block.StoneBlockID)

	assert.True(t, chunk.IsEmpty(), "запись вне диапазона не должна менять чанк")
	assert.False(t, chunk.IsDirty(), "запись вне диапазона не должна помечать чанк")
	assert.Equal(t, block.AirBlockID, chunk.GetBlock(ChunkSize, 0, 0))
	assert.Equal(t, block.AirBlockID, chunk.GetBlock(0, -3, 0))
}

func TestChunkIdempotentSet(t *testing.T) {
	chunk := NewChunk(1, 1, 1)
	chunk.SetBlock(2, 2, 2, block.DirtBlockID)
	chunk.SetDirty(false)

	chunk.SetBlock(2, 2, 2, block.DirtBlockID)
	assert.False(t, chunk.IsDirty(), "повторная запись того же значения не должна помечать чанк")
	assert.Equal(t, 1, chunk.BlockCount())

	chunk.SetBlock(2, 2, 2, block.GlassBlockID)
	assert.True(t, chunk.IsDirty())
	assert.Equal(t, 1, chunk.BlockCount(), "замена блока не должна менять счетчик")

	chunk.SetBlock(2, 2, 2, block.AirBlockID)
	assert.Equal(t, 0, chunk.BlockCount())
	chunk.SetBlock(2, 2, 2, block.AirBlockID)
	assert.Equal(t, 0, chunk.BlockCount(), "счетчик не может уйти в минус")
}

func TestChunkIndexLayout(t *testing.T) {
	chunk := NewChunk(0, 0, 0)
	chunk.SetBlock(1, 2, 3, block.WoodBlockID)

	data := chunk.Data()
	assert.Equal(t, block.WoodBlockID, data[3*ChunkSize*ChunkSize+2*ChunkSize+1])
	assert.Equal(t, 3*256+2*16+1, Index(1, 2, 3))
}

func TestChunkFill(t *testing.T) {
	chunk := NewChunk(0, 0, 0)
	chunk.Fill(block.StoneBlockID)
	assert.Equal(t, ChunkVolume, chunk.BlockCount())

	chunk.Fill(block.AirBlockID)
	assert.True(t, chunk.IsEmpty())
}
