package world

import (
	"slices"

	"github.com/annel0/voxelly/internal/vec"
	"github.com/annel0/voxelly/internal/world/block"
)

// World хранит разреженный набор чанков. Адресуется только неотрицательный октант.
// World не потокобезопасен: все записи идут из одной горутины.
type World struct {
	chunks map[ChunkKey]*Chunk
}

// NewWorld создаёт пустой мир
func NewWorld() *World {
	return &World{chunks: make(map[ChunkKey]*Chunk)}
}

// CreateChunk создаёт чанк по координатам, заменяя существующий.
// Возвращает false для неадресуемых координат.
func (w *World) CreateChunk(cx, cy, cz int) (*Chunk, bool) {
	key, ok := MakeChunkKey(cx, cy, cz)
	if !ok {
		return nil, false
	}
	c := NewChunk(cx, cy, cz)
	w.chunks[key] = c
	return c, true
}

// GetChunk возвращает чанк по координатам чанка
func (w *World) GetChunk(cx, cy, cz int) (*Chunk, bool) {
	key, ok := MakeChunkKey(cx, cy, cz)
	if !ok {
		return nil, false
	}
	c, exists := w.chunks[key]
	return c, exists
}

// GetChunkByKey возвращает чанк по упакованному ключу
func (w *World) GetChunkByKey(key ChunkKey) (*Chunk, bool) {
	c, exists := w.chunks[key]
	return c, exists
}

// HasChunk проверяет наличие чанка
func (w *World) HasChunk(cx, cy, cz int) bool {
	_, ok := w.GetChunk(cx, cy, cz)
	return ok
}

// GetChunkContainingBlock возвращает чанк, содержащий мировой блок
func (w *World) GetChunkContainingBlock(x, y, z int) (*Chunk, bool) {
	if !InBounds(x, y, z) {
		return nil, false
	}
	return w.GetChunk(x/ChunkSize, y/ChunkSize, z/ChunkSize)
}

// RemoveChunk удаляет чанк. Возвращает true, если он был.
// Соседи по граням помечаются грязными.
func (w *World) RemoveChunk(cx, cy, cz int) bool {
	key, ok := MakeChunkKey(cx, cy, cz)
	if !ok {
		return false
	}
	if _, exists := w.chunks[key]; !exists {
		return false
	}
	delete(w.chunks, key)
	for _, d := range faceNeighbors {
		if n, ok := w.GetChunk(cx+d.X, cy+d.Y, cz+d.Z); ok {
			n.SetDirty(true)
		}
	}
	return true
}

// RemoveAllChunks очищает мир
func (w *World) RemoveAllChunks() {
	clear(w.chunks)
}

// ChunkCount возвращает количество чанков
func (w *World) ChunkCount() int {
	return len(w.chunks)
}

// Chunks возвращает отсортированные ключи всех чанков
func (w *World) Chunks() []ChunkKey {
	keys := make([]ChunkKey, 0, len(w.chunks))
	for k := range w.chunks {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// ForEachChunk обходит чанки в порядке возрастания ключа
func (w *World) ForEachChunk(fn func(key ChunkKey, c *Chunk) bool) {
	for _, k := range w.Chunks() {
		if !fn(k, w.chunks[k]) {
			return
		}
	}
}

// GetBlock возвращает блок по мировым координатам.
// Отрицательные координаты и отсутствующие чанки дают воздух.
func (w *World) GetBlock(x, y, z int) block.BlockID {
	c, ok := w.GetChunkContainingBlock(x, y, z)
	if !ok {
		return block.AirBlockID
	}
	return c.GetBlock(x%ChunkSize, y%ChunkSize, z%ChunkSize)
}

// GetBlockAt то же, что GetBlock, для вектора
func (w *World) GetBlockAt(p vec.Vec3) block.BlockID {
	return w.GetBlock(p.X, p.Y, p.Z)
}

// SetBlock устанавливает блок по мировым координатам, создавая чанк при необходимости.
// Неадресуемые координаты игнорируются. Воздух в отсутствующий чанк не создаёт чанк.
// Изменение ячейки на границе чанка помечает грязным и соседа по этой грани.
func (w *World) SetBlock(x, y, z int, id block.BlockID) {
	if !InBounds(x, y, z) {
		return
	}
	cx, cy, cz := x/ChunkSize, y/ChunkSize, z/ChunkSize
	c, ok := w.GetChunk(cx, cy, cz)
	if !ok {
		if id.IsAir() {
			return
		}
		c, _ = w.CreateChunk(cx, cy, cz)
	}
	lx, ly, lz := x%ChunkSize, y%ChunkSize, z%ChunkSize
	if c.GetBlock(lx, ly, lz) == id {
		return
	}
	c.SetBlock(lx, ly, lz, id)
	w.markBorderNeighbors(c.Coords(), vec.New(lx, ly, lz))
}

// markBorderNeighbors помечает грязными соседние чанки, которые касаются
// изменённой ячейки гранью: их меш видит эту ячейку через границу.
func (w *World) markBorderNeighbors(chunk, local vec.Vec3) {
	mark := func(dx, dy, dz int) {
		if n, ok := w.GetChunk(chunk.X+dx, chunk.Y+dy, chunk.Z+dz); ok {
			n.SetDirty(true)
		}
	}
	switch local.X {
	case 0:
		mark(-1, 0, 0)
	case ChunkSize - 1:
		mark(1, 0, 0)
	}
	switch local.Y {
	case 0:
		mark(0, -1, 0)
	case ChunkSize - 1:
		mark(0, 1, 0)
	}
	switch local.Z {
	case 0:
		mark(0, 0, -1)
	case ChunkSize - 1:
		mark(0, 0, 1)
	}
}

// SetBlockAt то же, что SetBlock, для вектора
func (w *World) SetBlockAt(p vec.Vec3, id block.BlockID) {
	w.SetBlock(p.X, p.Y, p.Z, id)
}

// SetBlocks устанавливает один блок во все позиции. Каждая запись независима.
func (w *World) SetBlocks(positions []vec.Vec3, id block.BlockID) {
	for _, p := range positions {
		w.SetBlock(p.X, p.Y, p.Z, id)
	}
}

// BlockCount возвращает количество не-воздушных блоков во всём мире
func (w *World) BlockCount() int {
	total := 0
	for _, c := range w.chunks {
		total += c.BlockCount()
	}
	return total
}

// DirtyChunks возвращает ключи чанков с устаревшим мешем
func (w *World) DirtyChunks() []ChunkKey {
	var keys []ChunkKey
	for k, c := range w.chunks {
		if c.IsDirty() {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}
