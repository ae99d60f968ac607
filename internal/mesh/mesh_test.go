package mesh

import (
	"testing"

	"github.com/annel0/voxelly/internal/observability"
	"github.com/annel0/voxelly/internal/world"
	"github.com/annel0/voxelly/internal/world/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSingleVoxel(t *testing.T) {
	w := world.NewWorld()
	w.SetBlock(5, 5, 5, block.StoneBlockID)
	c, _ := w.GetChunk(0, 0, 0)

	m := Build(w, c)
	assert.Equal(t, 6, m.FaceCount())
	assert.Equal(t, 24, m.VertexCount())
	assert.Equal(t, 36, m.IndexCount())
	assert.Len(t, m.Vertices, 24*FloatsPerVertex)
	assert.Equal(t, 24*FloatsPerVertex, cap(m.Vertices), "буфер выделен ровно под шесть граней")

	// текстура id-1 в каждой вершине
	for v := 0; v < m.VertexCount(); v++ {
		assert.Equal(t, float32(2), m.Vertices[v*FloatsPerVertex+3])
	}
	assert.Equal(t, []uint32{0, 1, 2, 2, 3, 0}, m.Indices[:6])
	assert.Equal(t, []uint32{4, 5, 6, 6, 7, 4}, m.Indices[6:12])
}

func TestBuildCullsSharedFaces(t *testing.T) {
	w := world.NewWorld()
	w.SetBlock(1, 1, 1, block.DirtBlockID)
	w.SetBlock(2, 1, 1, block.DirtBlockID)
	c, _ := w.GetChunk(0, 0, 0)

	m := Build(w, c)
	assert.Equal(t, 10, m.FaceCount(), "Общая грань двух блоков не должна выводиться")
	assert.Equal(t, 12*IndicesPerFace, cap(m.Indices), "ёмкость рассчитана на худший случай")
}

func TestBuildLooksIntoNeighborChunk(t *testing.T) {
	w := world.NewWorld()
	w.SetBlock(15, 0, 0, block.StoneBlockID)
	w.SetBlock(16, 0, 0, block.StoneBlockID)

	left, _ := w.GetChunk(0, 0, 0)
	right, _ := w.GetChunk(1, 0, 0)

	assert.Equal(t, 5, Build(w, left).FaceCount(), "Грань к соседнему чанку закрыта")
	assert.Equal(t, 5, Build(w, right).FaceCount())

	// без мира соседей нет, граница считается воздухом
	assert.Equal(t, 6, Build(nil, left).FaceCount())
}

func TestBuildFaceNormalsAndPositions(t *testing.T) {
	w := world.NewWorld()
	w.SetBlock(3, 4, 5, block.GrassBlockID)
	c, _ := w.GetChunk(0, 0, 0)
	m := Build(w, c)

	// первая грань FRONT: нормаль +Z, первая вершина (x, y, z+1)
	v := m.Vertices[:FloatsPerVertex]
	assert.Equal(t, []float32{3, 4, 6, 0, 0, 0, 1}, v)
}

func TestBuildEmptyChunk(t *testing.T) {
	c := world.NewChunk(0, 0, 0)
	m := Build(nil, c)
	assert.True(t, m.IsEmpty())
}

func TestCubeMesh(t *testing.T) {
	m := CubeMesh(3)
	assert.Equal(t, 6, m.FaceCount())
	assert.Equal(t, 24, m.VertexCount())
	assert.Equal(t, float32(3), m.Vertices[3])
}

func TestCacheUpdate(t *testing.T) {
	w := world.NewWorld()
	w.SetBlock(1, 1, 1, block.StoneBlockID)
	w.SetBlock(20, 1, 1, block.StoneBlockID)

	cache := NewCache(WithMetrics(observability.NewMetrics(nil)))
	defer cache.Close()

	stats := cache.Update(w)
	assert.Equal(t, 2, stats.Rebuilt)
	assert.Equal(t, 12, stats.Faces)
	assert.Equal(t, 2, cache.Len())
	assert.Empty(t, w.DirtyChunks(), "Update должен снять флаг изменений")

	stats = cache.Update(w)
	assert.Equal(t, 0, stats.Rebuilt, "Чистые чанки не перестраиваются")

	require.True(t, w.RemoveChunk(1, 0, 0))
	stats = cache.Update(w)
	assert.Equal(t, 1, stats.Evicted)
	assert.Equal(t, 1, cache.Len())

	key, _ := world.MakeChunkKey(0, 0, 0)
	m, ok := cache.Get(key)
	require.True(t, ok)
	assert.Equal(t, 6, m.FaceCount())
}

func TestCacheUpdateAfterBorderErase(t *testing.T) {
	w := world.NewWorld()
	w.SetBlock(15, 0, 0, block.StoneBlockID)
	w.SetBlock(16, 0, 0, block.StoneBlockID)

	cache := NewCache()
	defer cache.Close()
	cache.Update(w)

	rightKey, _ := world.MakeChunkKey(1, 0, 0)
	m, _ := cache.Get(rightKey)
	require.Equal(t, 5, m.FaceCount())

	w.SetBlock(15, 0, 0, block.AirBlockID)
	stats := cache.Update(w)
	assert.Equal(t, 2, stats.Rebuilt, "Перестраивается и изменённый чанк, и сосед")

	m, ok := cache.Get(rightKey)
	require.True(t, ok)
	assert.Equal(t, 6, m.FaceCount(), "Грань к опустевшей ячейке должна появиться")
}

func TestCacheParallelMatchesSerial(t *testing.T) {
	build := func() *world.World {
		w := world.NewWorld()
		world.NewGenerator(7).Generate(w, 0, 0, 3, 3)
		return w
	}

	serial := NewCache()
	sw := build()
	serial.Update(sw)

	parallel := NewCache(WithWorkers(4))
	defer parallel.Close()
	pw := build()
	parallel.Update(pw)

	assert.Equal(t, serial.Len(), parallel.Len())
	assert.Equal(t, serial.TotalFaces(), parallel.TotalFaces())
	for _, key := range sw.Chunks() {
		a, _ := serial.Get(key)
		b, _ := parallel.Get(key)
		assert.Equal(t, a.Indices, b.Indices)
		assert.Equal(t, a.Vertices, b.Vertices)
	}
}
