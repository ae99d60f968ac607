package storage

import (
	"errors"
	"slices"

	"github.com/annel0/voxelly/internal/world"
	"github.com/annel0/voxelly/internal/world/block"
)

// Ошибки хранилища
var (
	// ErrCorrupt данные мира не соответствуют формату
	ErrCorrupt = errors.New("повреждённые данные мира")
	// ErrStorageClosed хранилище уже закрыто
	ErrStorageClosed = errors.New("хранилище не готово")
	// ErrWorldNotFound мир отсутствует в хранилище
	ErrWorldNotFound = errors.New("мир не найден")
)

// ChunkData снимок одного чанка
type ChunkData struct {
	X, Y, Z int32
	Data    [world.ChunkVolume]block.BlockID
}

// Key возвращает ключ чанка; false для неадресуемых координат
func (cd *ChunkData) Key() (world.ChunkKey, bool) {
	return world.MakeChunkKey(int(cd.X), int(cd.Y), int(cd.Z))
}

// WorldAsset полный снимок мира для сохранения
type WorldAsset struct {
	Name   string
	Chunks map[world.ChunkKey]*ChunkData
}

// NewWorldAsset создаёт пустой снимок
func NewWorldAsset(name string) *WorldAsset {
	return &WorldAsset{Name: name, Chunks: make(map[world.ChunkKey]*ChunkData)}
}

// FromWorld снимает полный снимок мира
func FromWorld(name string, w *world.World) *WorldAsset {
	a := NewWorldAsset(name)
	w.ForEachChunk(func(key world.ChunkKey, c *world.Chunk) bool {
		a.Chunks[key] = &ChunkData{
			X:    int32(c.X()),
			Y:    int32(c.Y()),
			Z:    int32(c.Z()),
			Data: c.Data(),
		}
		return true
	})
	return a
}

// ToWorld восстанавливает мир: создаёт чанки и записывает каждую ячейку
func (a *WorldAsset) ToWorld() *world.World {
	w := world.NewWorld()
	for _, key := range a.Keys() {
		cd := a.Chunks[key]
		c, ok := w.CreateChunk(int(cd.X), int(cd.Y), int(cd.Z))
		if !ok {
			continue
		}
		for z := 0; z < world.ChunkSize; z++ {
			for y := 0; y < world.ChunkSize; y++ {
				for x := 0; x < world.ChunkSize; x++ {
					c.SetBlock(x, y, z, cd.Data[world.Index(x, y, z)])
				}
			}
		}
	}
	return w
}

// Keys возвращает ключи чанков по возрастанию
func (a *WorldAsset) Keys() []world.ChunkKey {
	keys := make([]world.ChunkKey, 0, len(a.Chunks))
	for k := range a.Chunks {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// BlockCount количество не-воздушных ячеек в снимке
func (a *WorldAsset) BlockCount() int {
	total := 0
	for _, cd := range a.Chunks {
		for _, id := range cd.Data {
			if !id.IsAir() {
				total++
			}
		}
	}
	return total
}
