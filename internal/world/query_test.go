package world

import (
	"testing"

	"github.com/annel0/voxelly/internal/vec"
	"github.com/annel0/voxelly/internal/world/block"
	"github.com/stretchr/testify/assert"
)

func TestVoxelsInLine(t *testing.T) {
	w := NewWorld()

	assert.Equal(t, []vec.Vec3{vec.New(3, 3, 3)}, w.VoxelsInLine(vec.New(3, 3, 3), vec.New(3, 3, 3)),
		"Нулевая длина должна дать только стартовую ячейку")

	line := w.VoxelsInLine(vec.New(0, 0, 0), vec.New(4, 0, 0))
	assert.Equal(t, []vec.Vec3{
		vec.New(0, 0, 0), vec.New(1, 0, 0), vec.New(2, 0, 0), vec.New(3, 0, 0), vec.New(4, 0, 0),
	}, line)

	diag := w.VoxelsInLine(vec.New(0, 0, 0), vec.New(3, 3, 0))
	assert.Equal(t, vec.New(0, 0, 0), diag[0])
	assert.Equal(t, vec.New(3, 3, 0), diag[len(diag)-1], "Последней должна быть конечная ячейка")
	for i := 1; i < len(diag); i++ {
		assert.NotEqual(t, diag[i-1], diag[i], "Соседние ячейки не должны повторяться")
	}
}

func TestForVoxelsInLineStops(t *testing.T) {
	w := NewWorld()
	count := 0
	w.ForVoxelsInLine(vec.New(0, 0, 0), vec.New(10, 0, 0), func(vec.Vec3) bool {
		count++
		return count < 3
	})
	assert.Equal(t, 3, count)
}

func TestVoxelsInSphereAtOrigin(t *testing.T) {
	w := NewWorld()
	cells := w.VoxelsInSphere(vec.New(0, 0, 0), 1)

	assert.ElementsMatch(t, []vec.Vec3{
		vec.New(0, 0, 0), vec.New(1, 0, 0), vec.New(0, 1, 0), vec.New(0, 0, 1),
	}, cells)
	assert.Empty(t, w.VoxelsInSphere(vec.New(5, 5, 5), -1))
}

func TestVoxelsInSphereInterior(t *testing.T) {
	w := NewWorld()
	cells := w.VoxelsInSphere(vec.New(5, 5, 5), 2)
	// 1 + 6 + 12 + 8 + 6: все точки с d² <= 4
	assert.Len(t, cells, 33)
}

func TestVoxelsInCube(t *testing.T) {
	w := NewWorld()
	assert.Len(t, w.VoxelsInCube(vec.New(1, 1, 1), vec.New(2, 3, 1)), 6)
	assert.Len(t, w.VoxelsInCube(vec.New(-1, 0, 0), vec.New(1, 0, 0)), 2, "Отрицательные ячейки пропускаются")
	assert.Empty(t, w.VoxelsInCube(vec.New(3, 0, 0), vec.New(1, 0, 0)))
}

func TestConnectedVoxelsLine(t *testing.T) {
	w := NewWorld()
	for x := 0; x < 5; x++ {
		w.SetBlock(x, 1, 1, block.StoneBlockID)
	}
	// достижим только через (1,-1,0), которого нет в наборе соседей
	w.SetBlock(5, 0, 1, block.StoneBlockID)

	region := w.ConnectedVoxels(vec.New(0, 1, 1))
	assert.Len(t, region, 5)
	assert.NotContains(t, region, vec.New(5, 0, 1))

	edge := w.ConnectedVoxelsWith(vec.New(0, 1, 1), ConnectivityEdge)
	assert.Len(t, edge, 6, "Полная рёберная связность включает диагональ (1,-1,0)")
}

func TestConnectedVoxelsLegacyDiagonal(t *testing.T) {
	w := NewWorld()
	w.SetBlock(1, 1, 1, block.StoneBlockID)
	w.SetBlock(2, 2, 1, block.StoneBlockID)

	assert.Len(t, w.ConnectedVoxels(vec.New(1, 1, 1)), 2, "Диагональ (1,1,0) входит в набор соседей")
	assert.Len(t, w.ConnectedVoxelsWith(vec.New(1, 1, 1), ConnectivityFace), 1)
}

func TestConnectedVoxelsAirSeed(t *testing.T) {
	w := NewWorld()
	w.SetBlock(1, 0, 0, block.StoneBlockID)
	assert.Empty(t, w.ConnectedVoxels(vec.New(0, 0, 0)))
}

func TestConnectivityRuleNeighbors(t *testing.T) {
	assert.Len(t, ConnectivityLegacy.Neighbors(), 12)
	assert.Len(t, ConnectivityFace.Neighbors(), 6)
	assert.Len(t, ConnectivityEdge.Neighbors(), 18)
}

func TestGeneratorFillsColumns(t *testing.T) {
	w := NewWorld()
	g := NewGenerator(42)
	placed := g.Generate(w, 0, 0, 2, 1)

	assert.Equal(t, placed, w.BlockCount())
	h := g.HeightAt(3, 3)
	assert.Equal(t, block.GrassBlockID, w.GetBlock(3, h, 3))
	assert.Equal(t, block.AirBlockID, w.GetBlock(3, h+1, 3))
	assert.Equal(t, block.GraniteBlockID, w.GetBlock(3, 0, 3))

	other := NewWorld()
	NewGenerator(42).Generate(other, 0, 0, 2, 1)
	assert.Equal(t, w.BlockCount(), other.BlockCount(), "Генерация должна быть детерминированной")
}
