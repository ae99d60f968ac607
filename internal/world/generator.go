package world

import (
	"github.com/annel0/voxelly/internal/util"
	"github.com/annel0/voxelly/internal/world/block"
)

// Generator генерирует ландшафт по карте высот из шума Перлина
type Generator struct {
	Seed       int64   // Сид для генерации шума
	NoiseScale float64 // Масштаб шума (чем меньше, тем глаже рельеф)
	BaseHeight int     // Минимальная высота поверхности
	Amplitude  int     // Разброс высоты над BaseHeight
	DirtDepth  int     // Толщина слоя земли под травой

	noise *util.Noise
}

// NewGenerator создаёт генератор с настройками по умолчанию
func NewGenerator(seed int64) *Generator {
	return &Generator{
		Seed:       seed,
		NoiseScale: 0.05,
		BaseHeight: 4,
		Amplitude:  12,
		DirtDepth:  3,
		noise:      util.NewNoise(seed),
	}
}

// HeightAt возвращает высоту поверхности в столбце (x, z)
func (g *Generator) HeightAt(x, z int) int {
	n := g.noise.Noise2D(float64(x)*g.NoiseScale, float64(z)*g.NoiseScale)
	return g.BaseHeight + int(n*float64(g.Amplitude))
}

// Generate заполняет столбцы чанков [cx0, cx1) x [cz0, cz1).
// Возвращает количество установленных блоков.
func (g *Generator) Generate(w *World, cx0, cz0, cx1, cz1 int) int {
	placed := 0
	for cx := max(cx0, 0); cx < cx1; cx++ {
		for cz := max(cz0, 0); cz < cz1; cz++ {
			placed += g.generateColumn(w, cx, cz)
		}
	}
	return placed
}

func (g *Generator) generateColumn(w *World, cx, cz int) int {
	placed := 0
	for lx := 0; lx < ChunkSize; lx++ {
		for lz := 0; lz < ChunkSize; lz++ {
			x := cx*ChunkSize + lx
			z := cz*ChunkSize + lz
			h := g.HeightAt(x, z)
			for y := 0; y <= h; y++ {
				w.SetBlock(x, y, z, g.layerBlock(y, h))
				placed++
			}
		}
	}
	return placed
}

func (g *Generator) layerBlock(y, surface int) block.BlockID {
	switch {
	case y == surface:
		return block.GrassBlockID
	case y >= surface-g.DirtDepth:
		return block.DirtBlockID
	case y == 0:
		return block.GraniteBlockID
	}
	return block.StoneBlockID
}
