package world

import (
	"github.com/annel0/voxelly/internal/vec"
	"github.com/annel0/voxelly/internal/world/block"
)

// ConnectivityRule набор соседей для заливки связной области
type ConnectivityRule int

const (
	// ConnectivityLegacy 6 граней и 6 рёберных диагоналей с одинаковыми знаками
	ConnectivityLegacy ConnectivityRule = iota
	// ConnectivityFace только 6 граней
	ConnectivityFace
	// ConnectivityEdge 6 граней и все 12 рёбер
	ConnectivityEdge
)

var faceNeighbors = []vec.Vec3{
	{X: 1}, {X: -1},
	{Y: 1}, {Y: -1},
	{Z: 1}, {Z: -1},
}

var legacyDiagonals = []vec.Vec3{
	{X: 1, Y: 1}, {X: -1, Y: -1},
	{X: 1, Z: 1}, {X: -1, Z: -1},
	{Y: 1, Z: 1}, {Y: -1, Z: -1},
}

var mixedDiagonals = []vec.Vec3{
	{X: 1, Y: -1}, {X: -1, Y: 1},
	{X: 1, Z: -1}, {X: -1, Z: 1},
	{Y: 1, Z: -1}, {Y: -1, Z: 1},
}

// Neighbors возвращает смещения соседей для правила
func (r ConnectivityRule) Neighbors() []vec.Vec3 {
	out := append([]vec.Vec3(nil), faceNeighbors...)
	switch r {
	case ConnectivityFace:
	case ConnectivityEdge:
		out = append(out, legacyDiagonals...)
		out = append(out, mixedDiagonals...)
	default:
		out = append(out, legacyDiagonals...)
	}
	return out
}

// ForVoxelsInLine проходит единичными шагами от start до end вдоль
// нормализованного направления. Последней всегда выдаётся end.
// Нулевая длина даёт ровно start. fn возвращает false для остановки.
func (w *World) ForVoxelsInLine(start, end vec.Vec3, fn func(p vec.Vec3) bool) {
	if start == end {
		fn(start)
		return
	}

	delta := end.Sub(start).ToMgl()
	length := delta.Len()
	dir := delta.Mul(1 / length)
	origin := start.ToMgl()

	last := start
	if !fn(start) {
		return
	}
	for t := float32(1); t < length; t++ {
		cell := vec.Round(origin.Add(dir.Mul(t)))
		if cell == last {
			continue
		}
		last = cell
		if !fn(cell) {
			return
		}
	}
	if last != end {
		fn(end)
	}
}

// VoxelsInLine собирает ячейки линии в срез
func (w *World) VoxelsInLine(start, end vec.Vec3) []vec.Vec3 {
	var out []vec.Vec3
	w.ForVoxelsInLine(start, end, func(p vec.Vec3) bool {
		out = append(out, p)
		return true
	})
	return out
}

// VoxelsInSphere возвращает ячейки с квадратом расстояния до центра не больше radius².
// Ячейки с отрицательными координатами пропускаются.
func (w *World) VoxelsInSphere(center vec.Vec3, radius int) []vec.Vec3 {
	if radius < 0 {
		return nil
	}
	r2 := radius * radius
	var out []vec.Vec3
	for x := center.X - radius; x <= center.X+radius; x++ {
		for y := center.Y - radius; y <= center.Y+radius; y++ {
			for z := center.Z - radius; z <= center.Z+radius; z++ {
				if x < 0 || y < 0 || z < 0 {
					continue
				}
				p := vec.New(x, y, z)
				if p.DistanceSquared(center) <= r2 {
					out = append(out, p)
				}
			}
		}
	}
	return out
}

// VoxelsInCube возвращает ячейки включающего параллелепипеда [min, max]
func (w *World) VoxelsInCube(min, max vec.Vec3) []vec.Vec3 {
	var out []vec.Vec3
	for x := min.X; x <= max.X; x++ {
		for y := min.Y; y <= max.Y; y++ {
			for z := min.Z; z <= max.Z; z++ {
				if x < 0 || y < 0 || z < 0 {
					continue
				}
				out = append(out, vec.New(x, y, z))
			}
		}
	}
	return out
}

// ConnectedVoxels возвращает связную область не-воздушных блоков от seed
func (w *World) ConnectedVoxels(seed vec.Vec3) []vec.Vec3 {
	return w.ConnectedVoxelsWith(seed, ConnectivityLegacy)
}

// ConnectedVoxelsWith заливка в глубину с выбранным правилом связности
func (w *World) ConnectedVoxelsWith(seed vec.Vec3, rule ConnectivityRule) []vec.Vec3 {
	if w.GetBlockAt(seed) == block.AirBlockID {
		return nil
	}
	seedKey, ok := MakeBlockKey(seed.X, seed.Y, seed.Z)
	if !ok {
		return nil
	}

	neighbors := rule.Neighbors()
	visited := map[BlockKey]struct{}{seedKey: {}}
	stack := []vec.Vec3{seed}
	var out []vec.Vec3

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, p)

		for _, off := range neighbors {
			n := p.Add(off)
			key, ok := MakeBlockKey(n.X, n.Y, n.Z)
			if !ok {
				continue
			}
			if _, seen := visited[key]; seen {
				continue
			}
			visited[key] = struct{}{}
			if w.GetBlockAt(n) != block.AirBlockID {
				stack = append(stack, n)
			}
		}
	}
	return out
}
