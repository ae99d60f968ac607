// Package edit применяет к миру команды редактирования наборов блоков:
// установку фигурой, перекраску, стирание, линию и перенос связной области.
package edit

import (
	"fmt"

	"github.com/annel0/voxelly/internal/raycast"
	"github.com/annel0/voxelly/internal/vec"
	"github.com/annel0/voxelly/internal/world"
	"github.com/annel0/voxelly/internal/world/block"
)

// Tool тип команды
type Tool int

const (
	ToolPlace Tool = iota
	ToolPaint
	ToolErase
	ToolLine
	ToolMove
)

func (t Tool) String() string {
	switch t {
	case ToolPlace:
		return "place"
	case ToolPaint:
		return "paint"
	case ToolErase:
		return "erase"
	case ToolLine:
		return "line"
	case ToolMove:
		return "move"
	}
	return "unknown"
}

// ParseTool разбирает имя инструмента
func ParseTool(s string) (Tool, error) {
	for t := ToolPlace; t <= ToolMove; t++ {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("неизвестный инструмент %q", s)
}

// Shape форма кисти
type Shape int

const (
	ShapeSphere Shape = iota
	ShapeCube
)

func (s Shape) String() string {
	if s == ShapeCube {
		return "cube"
	}
	return "sphere"
}

// ShapeVoxels возвращает ячейки кисти размера size вокруг center
func ShapeVoxels(w *world.World, center vec.Vec3, size int, shape Shape) []vec.Vec3 {
	if shape == ShapeCube {
		d := vec.New(size, size, size)
		return w.VoxelsInCube(center.Sub(d), center.Add(d))
	}
	return w.VoxelsInSphere(center, size)
}

// Command одна операция редактирования
type Command struct {
	Tool  Tool
	Shape Shape
	Size  int
	Block block.BlockID
	Hit   raycast.RayHit

	LineStart vec.Vec3   // начало линии для ToolLine
	Region    []vec.Vec3 // переносимые ячейки для ToolMove
	MoveStart vec.Vec3   // ячейка, за которую взяли область
}

// Place ставит блоки фигурой перед гранью попадания
func Place(w *world.World, hit raycast.RayHit, size int, shape Shape, id block.BlockID) {
	w.SetBlocks(ShapeVoxels(w, hit.Adjacent(), size, shape), id)
}

// Paint перекрашивает только непустые ячейки фигуры
func Paint(w *world.World, hit raycast.RayHit, size int, shape Shape, id block.BlockID) int {
	changed := 0
	for _, p := range ShapeVoxels(w, hit.Block, size, shape) {
		if !w.GetBlockAt(p).IsAir() {
			w.SetBlockAt(p, id)
			changed++
		}
	}
	return changed
}

// Erase заполняет фигуру воздухом
func Erase(w *world.World, hit raycast.RayHit, size int, shape Shape) {
	w.SetBlocks(ShapeVoxels(w, hit.Block, size, shape), block.AirBlockID)
}

// DrawLine ставит блоки вдоль линии от start до end
func DrawLine(w *world.World, start, end vec.Vec3, id block.BlockID) {
	w.ForVoxelsInLine(start, end, func(p vec.Vec3) bool {
		w.SetBlockAt(p, id)
		return true
	})
}

// MoveDelta смещение переноса из точки захвата в target. Опускать область
// ниже исходной высоты нельзя: отрицательный Y обнуляется.
func MoveDelta(from, target vec.Vec3) (vec.Vec3, bool) {
	if !target.IsNonNegative() {
		return vec.Zero, false
	}
	d := target.Sub(from)
	if d.Y < 0 {
		d.Y = 0
	}
	return d, !d.IsZero()
}

// MoveRegion переносит ячейки region со смещением из from в target.
// Сначала все ячейки очищаются, затем непустые ставятся на новые места.
func MoveRegion(w *world.World, region []vec.Vec3, from, target vec.Vec3) bool {
	delta, ok := MoveDelta(from, target)
	if !ok || len(region) == 0 {
		return false
	}

	ids := make([]block.BlockID, len(region))
	for i, p := range region {
		ids[i] = w.GetBlockAt(p)
		w.SetBlockAt(p, block.AirBlockID)
	}
	for i, p := range region {
		if ids[i].IsAir() {
			continue
		}
		w.SetBlockAt(p.Add(delta), ids[i])
	}
	return true
}

// Apply выполняет команду над миром
func Apply(w *world.World, cmd Command) error {
	switch cmd.Tool {
	case ToolPlace:
		Place(w, cmd.Hit, cmd.Size, cmd.Shape, cmd.Block)
	case ToolPaint:
		Paint(w, cmd.Hit, cmd.Size, cmd.Shape, cmd.Block)
	case ToolErase:
		Erase(w, cmd.Hit, cmd.Size, cmd.Shape)
	case ToolLine:
		end := cmd.Hit.Adjacent()
		if !end.IsNonNegative() {
			return nil
		}
		DrawLine(w, cmd.LineStart, end, cmd.Block)
	case ToolMove:
		MoveRegion(w, cmd.Region, cmd.MoveStart, cmd.Hit.Adjacent())
	default:
		return fmt.Errorf("неизвестный инструмент %d", cmd.Tool)
	}
	return nil
}

// Preview строит в scratch-мире dst то, что сделала бы команда над src.
// Стирание помечается блоком GrassBlockID, чтобы область была видна.
func Preview(dst, src *world.World, cmd Command) error {
	dst.RemoveAllChunks()

	switch cmd.Tool {
	case ToolPlace:
		Place(dst, cmd.Hit, cmd.Size, cmd.Shape, cmd.Block)
	case ToolErase:
		dst.SetBlocks(ShapeVoxels(src, cmd.Hit.Block, cmd.Size, cmd.Shape), block.GrassBlockID)
	case ToolPaint:
		for _, p := range ShapeVoxels(src, cmd.Hit.Block, cmd.Size, cmd.Shape) {
			if !src.GetBlockAt(p).IsAir() {
				dst.SetBlockAt(p, cmd.Block)
			}
		}
	case ToolLine:
		end := cmd.Hit.Adjacent()
		if !end.IsNonNegative() {
			return nil
		}
		DrawLine(dst, cmd.LineStart, end, cmd.Block)
	case ToolMove:
		target := cmd.Hit.Adjacent()
		if !target.IsNonNegative() {
			return nil
		}
		delta, _ := MoveDelta(cmd.MoveStart, target)
		for _, p := range cmd.Region {
			dst.SetBlockAt(p.Add(delta), src.GetBlockAt(p))
		}
	default:
		return fmt.Errorf("неизвестный инструмент %d", cmd.Tool)
	}
	return nil
}
