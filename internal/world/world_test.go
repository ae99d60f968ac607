package world

import (
	"testing"

	"github.com/annel0/voxelly/internal/raycast"
	"github.com/annel0/voxelly/internal/vec"
	"github.com/annel0/voxelly/internal/world/block"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorld_Creation(t *testing.T) {
	w := NewWorld()

	assert.NotNil(t, w, "World должен быть создан")
	assert.Equal(t, 0, w.ChunkCount(), "Новый мир должен быть пустым")
	assert.Equal(t, block.AirBlockID, w.GetBlock(0, 0, 0))
}

func TestWorld_BlockOperations(t *testing.T) {
	w := NewWorld()

	w.SetBlock(17, 3, 40, block.StoneBlockID)
	assert.Equal(t, block.StoneBlockID, w.GetBlock(17, 3, 40), "ID блока должен совпадать")
	assert.Equal(t, 1, w.ChunkCount(), "Чанк должен создаться лениво")

	c, ok := w.GetChunkContainingBlock(17, 3, 40)
	require.True(t, ok)
	assert.Equal(t, vec.New(1, 0, 2), c.Coords())
	assert.Equal(t, block.StoneBlockID, c.GetBlock(1, 3, 8))
}

func TestWorld_NegativeCoordinates(t *testing.T) {
	w := NewWorld()

	w.SetBlock(-1, 0, 0, block.StoneBlockID)
	w.SetBlock(0, -5, 0, block.StoneBlockID)

	assert.Equal(t, 0, w.ChunkCount(), "Отрицательные координаты не должны создавать чанки")
	assert.Equal(t, block.AirBlockID, w.GetBlock(-1, 0, 0))
	assert.Equal(t, block.AirBlockID, w.GetBlock(MaxBlockCoord+1, 0, 0))
}

func TestWorld_IdempotentSet(t *testing.T) {
	w := NewWorld()
	w.SetBlock(2, 2, 2, block.DirtBlockID)
	c, _ := w.GetChunk(0, 0, 0)
	c.SetDirty(false)

	w.SetBlock(2, 2, 2, block.DirtBlockID)
	assert.False(t, c.IsDirty(), "Повторная запись не должна помечать чанк")
	assert.Equal(t, 1, w.BlockCount())
}

func TestWorld_AirDoesNotCreateChunk(t *testing.T) {
	w := NewWorld()
	w.SetBlock(5, 5, 5, block.AirBlockID)
	assert.Equal(t, 0, w.ChunkCount())
}

func TestWorld_SetBlocksAndRemove(t *testing.T) {
	w := NewWorld()
	w.SetBlocks([]vec.Vec3{vec.New(0, 0, 0), vec.New(20, 0, 0), vec.New(-3, 0, 0)}, block.PlankBlockID)

	assert.Equal(t, 2, w.ChunkCount())
	assert.Equal(t, 2, w.BlockCount())

	assert.True(t, w.RemoveChunk(1, 0, 0))
	assert.False(t, w.RemoveChunk(1, 0, 0), "Повторное удаление должно вернуть false")
	assert.Equal(t, block.AirBlockID, w.GetBlock(20, 0, 0))

	w.RemoveAllChunks()
	assert.Equal(t, 0, w.ChunkCount())
}

func TestWorld_CreateChunkReplaces(t *testing.T) {
	w := NewWorld()
	w.SetBlock(1, 1, 1, block.StoneBlockID)

	c, ok := w.CreateChunk(0, 0, 0)
	require.True(t, ok)
	assert.True(t, c.IsEmpty())
	assert.Equal(t, block.AirBlockID, w.GetBlock(1, 1, 1))

	_, ok = w.CreateChunk(-1, 0, 0)
	assert.False(t, ok)
}

func TestWorld_ChunksSortedAndDirty(t *testing.T) {
	w := NewWorld()
	w.SetBlock(40, 0, 0, block.StoneBlockID)
	w.SetBlock(0, 0, 0, block.StoneBlockID)

	keys := w.Chunks()
	require.Len(t, keys, 2)
	assert.True(t, keys[0] < keys[1], "Ключи должны быть отсортированы")
	assert.Len(t, w.DirtyChunks(), 2)

	c, _ := w.GetChunkByKey(keys[0])
	c.SetDirty(false)
	assert.Equal(t, []ChunkKey{keys[1]}, w.DirtyChunks())
}

func TestWorld_BorderEditMarksNeighbor(t *testing.T) {
	w := NewWorld()
	w.SetBlock(15, 3, 3, block.StoneBlockID)
	w.SetBlock(16, 3, 3, block.StoneBlockID)
	w.SetBlock(40, 3, 3, block.StoneBlockID)
	for _, key := range w.Chunks() {
		c, _ := w.GetChunkByKey(key)
		c.SetDirty(false)
	}

	w.SetBlock(15, 3, 3, block.AirBlockID)
	right, _ := w.GetChunk(1, 0, 0)
	far, _ := w.GetChunk(2, 0, 0)
	assert.True(t, right.IsDirty(), "Сосед по границе должен перестроиться")
	assert.False(t, far.IsDirty())

	right.SetDirty(false)
	w.SetBlock(5, 3, 3, block.StoneBlockID)
	assert.False(t, right.IsDirty(), "Внутренняя ячейка соседей не трогает")

	// удаление чанка открывает грани соседа
	require.True(t, w.RemoveChunk(0, 0, 0))
	assert.True(t, right.IsDirty())
}

func TestWorld_FindRayHitBlock(t *testing.T) {
	w := NewWorld()
	w.SetBlock(2, 0, 2, block.StoneBlockID)

	ray := raycast.NewRay(mgl32.Vec3{2.5, 5, 2.5}, mgl32.Vec3{0, -1, 0})
	hit, ok := w.FindRayHitBlock(ray, 256)

	require.True(t, ok)
	assert.Equal(t, vec.New(2, 0, 2), hit.Block)
	assert.Equal(t, vec.New(0, 1, 0), hit.Side)
	assert.InDelta(t, 5.0, hit.Distance, 1e-5)

	_, ok = w.FindRayHitBlock(raycast.NewRay(mgl32.Vec3{2.5, 5, 2.5}, mgl32.Vec3{0, 1, 0}), 64)
	assert.False(t, ok, "Луч вверх не должен ни во что попасть")
}

func TestWorld_FindRayHitYPlane(t *testing.T) {
	w := NewWorld()
	ray := raycast.NewRay(mgl32.Vec3{0, 5, 0}, mgl32.Vec3{0, -1, 0})

	hit, ok := w.FindRayHitYPlane(ray, 256, 0)
	require.True(t, ok)
	assert.Equal(t, vec.New(0, 0, 0), hit.Block)
	assert.Equal(t, vec.Zero, hit.Side)
	assert.InDelta(t, 5.0, hit.Distance, 1e-5)
}
