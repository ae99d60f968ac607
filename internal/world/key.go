package world

import (
	"fmt"

	"github.com/annel0/voxelly/internal/vec"
)

// ChunkSize длина ребра чанка в блоках
const ChunkSize = 16

// ChunkVolume количество ячеек в чанке
const ChunkVolume = ChunkSize * ChunkSize * ChunkSize

const (
	keyBits = 21
	keyMask = 1<<keyBits - 1

	// MaxChunkCoord максимальная координата чанка по каждой оси
	MaxChunkCoord = 1<<17 - 1
	// MaxBlockCoord максимальная мировая координата блока по каждой оси
	MaxBlockCoord = (MaxChunkCoord+1)*ChunkSize - 1
)

// ChunkKey упакованные координаты чанка: x<<42 | y<<21 | z
type ChunkKey uint64

// BlockKey упакованные мировые координаты блока, 21 бит на ось
type BlockKey uint64

// MakeChunkKey упаковывает координаты чанка. Координаты вне
// [0, MaxChunkCoord] отклоняются, ok=false.
func MakeChunkKey(cx, cy, cz int) (ChunkKey, bool) {
	if !chunkCoordValid(cx) || !chunkCoordValid(cy) || !chunkCoordValid(cz) {
		return 0, false
	}
	return ChunkKey(pack(cx, cy, cz)), true
}

// Unpack возвращает координаты чанка
func (k ChunkKey) Unpack() (cx, cy, cz int) {
	return unpack(uint64(k))
}

// Coords возвращает координаты чанка вектором
func (k ChunkKey) Coords() vec.Vec3 {
	x, y, z := k.Unpack()
	return vec.New(x, y, z)
}

func (k ChunkKey) String() string {
	x, y, z := k.Unpack()
	return fmt.Sprintf("chunk(%d,%d,%d)", x, y, z)
}

// MakeBlockKey упаковывает мировые координаты блока
func MakeBlockKey(x, y, z int) (BlockKey, bool) {
	if !blockCoordValid(x) || !blockCoordValid(y) || !blockCoordValid(z) {
		return 0, false
	}
	return BlockKey(pack(x, y, z)), true
}

// Unpack возвращает мировые координаты блока
func (k BlockKey) Unpack() (x, y, z int) {
	return unpack(uint64(k))
}

// ChunkCoords переводит мировые координаты в координаты чанка и локальные
// координаты внутри него. Только для неотрицательных координат.
func ChunkCoords(x, y, z int) (chunk vec.Vec3, local vec.Vec3) {
	chunk = vec.New(x/ChunkSize, y/ChunkSize, z/ChunkSize)
	local = vec.New(x%ChunkSize, y%ChunkSize, z%ChunkSize)
	return chunk, local
}

// InBounds проверяет, что мировые координаты адресуемы
func InBounds(x, y, z int) bool {
	return blockCoordValid(x) && blockCoordValid(y) && blockCoordValid(z)
}

func chunkCoordValid(c int) bool {
	return c >= 0 && c <= MaxChunkCoord
}

func blockCoordValid(c int) bool {
	return c >= 0 && c <= MaxBlockCoord
}

func pack(x, y, z int) uint64 {
	return uint64(x)<<(2*keyBits) | uint64(y)<<keyBits | uint64(z)
}

func unpack(k uint64) (int, int, int) {
	return int(k >> (2 * keyBits) & keyMask), int(k >> keyBits & keyMask), int(k & keyMask)
}
