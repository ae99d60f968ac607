package world

import (
	"github.com/annel0/voxelly/internal/vec"
	"github.com/annel0/voxelly/internal/world/block"
)

// Chunk представляет куб мира размером 16x16x16 блоков.
// Чанк не знает о мире, которому принадлежит: соседей ищет тот, кто держит World.
type Chunk struct {
	x, y, z int

	blocks [ChunkVolume]block.BlockID
	count  int  // количество не-воздушных ячеек
	dirty  bool // меш устарел
}

// NewChunk создаёт пустой чанк с указанными координатами. Новый чанк грязный.
func NewChunk(cx, cy, cz int) *Chunk {
	return &Chunk{x: cx, y: cy, z: cz, dirty: true}
}

// X координата чанка по оси X
func (c *Chunk) X() int { return c.x }

// Y координата чанка по оси Y
func (c *Chunk) Y() int { return c.y }

// Z координата чанка по оси Z
func (c *Chunk) Z() int { return c.z }

// Coords возвращает координаты чанка
func (c *Chunk) Coords() vec.Vec3 {
	return vec.New(c.x, c.y, c.z)
}

// Key возвращает упакованный ключ чанка
func (c *Chunk) Key() ChunkKey {
	k, _ := MakeChunkKey(c.x, c.y, c.z)
	return k
}

// Origin возвращает мировые координаты угла чанка
func (c *Chunk) Origin() vec.Vec3 {
	return vec.New(c.x*ChunkSize, c.y*ChunkSize, c.z*ChunkSize)
}

// Index переводит локальные координаты в индекс ячейки
func Index(x, y, z int) int {
	return z*ChunkSize*ChunkSize + y*ChunkSize + x
}

func localValid(x, y, z int) bool {
	return x >= 0 && x < ChunkSize && y >= 0 && y < ChunkSize && z >= 0 && z < ChunkSize
}

// GetBlock возвращает блок по локальным координатам, воздух вне диапазона
func (c *Chunk) GetBlock(x, y, z int) block.BlockID {
	if !localValid(x, y, z) {
		return block.AirBlockID
	}
	return c.blocks[Index(x, y, z)]
}

// SetBlock устанавливает блок по локальным координатам.
// Вне диапазона и при совпадающем значении ничего не делает.
func (c *Chunk) SetBlock(x, y, z int, id block.BlockID) {
	if !localValid(x, y, z) {
		return
	}
	i := Index(x, y, z)
	old := c.blocks[i]
	if old == id {
		return
	}
	c.blocks[i] = id

	switch {
	case old.IsAir():
		c.count++
	case id.IsAir():
		if c.count > 0 {
			c.count--
		}
	}
	c.dirty = true
}

// Fill заполняет весь чанк одним блоком
func (c *Chunk) Fill(id block.BlockID) {
	for z := 0; z < ChunkSize; z++ {
		for y := 0; y < ChunkSize; y++ {
			for x := 0; x < ChunkSize; x++ {
				c.SetBlock(x, y, z, id)
			}
		}
	}
}

// BlockCount возвращает количество не-воздушных ячеек
func (c *Chunk) BlockCount() int {
	return c.count
}

// IsEmpty возвращает true, если в чанке только воздух
func (c *Chunk) IsEmpty() bool {
	return c.count == 0
}

// IsDirty сообщает, нужно ли перестроить меш чанка
func (c *Chunk) IsDirty() bool {
	return c.dirty
}

// SetDirty выставляет флаг изменений
func (c *Chunk) SetDirty(dirty bool) {
	c.dirty = dirty
}

// Data возвращает копию ячеек чанка
func (c *Chunk) Data() [ChunkVolume]block.BlockID {
	return c.blocks
}
