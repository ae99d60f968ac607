package block

import "strings"

// BlockID представляет идентификатор блока. 0 всегда воздух.
type BlockID uint8

// Константы ID блоков
const (
	AirBlockID    BlockID = iota // 0
	GrassBlockID                 // 1
	DirtBlockID                  // 2
	StoneBlockID                 // 3
	CobbleBlockID                // 4
	PlankBlockID                 // 5
	GraniteBlockID               // 6
	GlassBlockID                 // 7
	WoodBlockID                  // 8
)

// Count количество именованных блоков, включая воздух
const Count = int(WoodBlockID) + 1

var names = [Count]string{
	AirBlockID:     "Air",
	GrassBlockID:   "Grass",
	DirtBlockID:    "Dirt",
	StoneBlockID:   "Stone",
	CobbleBlockID:  "Cobble",
	PlankBlockID:   "Plank",
	GraniteBlockID: "Granite",
	GlassBlockID:   "Glass",
	WoodBlockID:    "Wood",
}

// IsAir проверяет, является ли блок воздухом
func (id BlockID) IsAir() bool {
	return id == AirBlockID
}

// TextureIndex возвращает номер текстуры для меша (id-1)
func (id BlockID) TextureIndex() float32 {
	return float32(id) - 1
}

// String возвращает имя блока
func (id BlockID) String() string {
	return Name(id)
}

// Name возвращает имя блока из палитры или "Undefined"
func Name(id BlockID) string {
	if int(id) < Count {
		return names[id]
	}
	return "Undefined"
}

// Lookup ищет ID блока по имени (без учета регистра)
func Lookup(name string) (BlockID, bool) {
	for i, n := range names {
		if strings.EqualFold(n, name) {
			return BlockID(i), true
		}
	}
	return AirBlockID, false
}

// IsNamed проверяет, есть ли блок в палитре
func IsNamed(id BlockID) bool {
	return int(id) < Count
}
