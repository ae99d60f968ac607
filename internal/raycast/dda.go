package raycast

import (
	"math"

	"github.com/annel0/voxelly/internal/vec"
)

// VisitFunc вызывается для каждой ячейки, через которую проходит луч.
// side нормаль грани, через которую луч вошёл в ячейку (нулевая для стартовой),
// distance параметр луча на входе в ячейку.
// Возврат true останавливает обход.
type VisitFunc func(cell, side vec.Vec3, distance float32) bool

// Traverse обходит воксели вдоль луча методом DDA (Amanatides & Woo).
// Стартовая ячейка та, в которой луч находится сразу после origin: если origin
// лежит на грани, а луч идёт в отрицательную сторону, берётся нижняя ячейка.
// Возвращает попадание, если visit вернул true до превышения maxDistance.
// RayHit.Distance параметр, на котором луч выходит из попавшей ячейки.
func Traverse(ray Ray, maxDistance float32, visit VisitFunc) (RayHit, bool) {
	o := ray.Origin()
	d := ray.Direction()

	cx, stepX, tMaxX, tDeltaX := axisSetup(float64(o[0]), float64(d[0]))
	cy, stepY, tMaxY, tDeltaY := axisSetup(float64(o[1]), float64(d[1]))
	cz, stepZ, tMaxZ, tDeltaZ := axisSetup(float64(o[2]), float64(d[2]))

	cell := vec.New(cx, cy, cz)
	side := vec.Zero

	limit := float64(maxDistance)
	distance := 0.0

	for distance <= limit {
		if visit(cell, side, float32(distance)) {
			exit := math.Min(tMaxX, math.Min(tMaxY, tMaxZ))
			if math.IsInf(exit, 1) {
				exit = distance
			}
			return RayHit{Block: cell, Side: side, Distance: float32(exit)}, true
		}

		// при равенстве приоритет X, затем Y, затем Z
		switch {
		case tMaxX <= tMaxY && tMaxX <= tMaxZ:
			cell.X += stepX
			distance = tMaxX
			tMaxX += tDeltaX
			side = vec.New(-stepX, 0, 0)
		case tMaxY <= tMaxZ:
			cell.Y += stepY
			distance = tMaxY
			tMaxY += tDeltaY
			side = vec.New(0, -stepY, 0)
		default:
			cell.Z += stepZ
			distance = tMaxZ
			tMaxZ += tDeltaZ
			side = vec.New(0, 0, -stepZ)
		}
	}

	return RayHit{}, false
}

// axisSetup возвращает стартовую ячейку по оси, шаг, расстояние до первой
// границы и расстояние между границами.
func axisSetup(origin, dir float64) (cell, step int, tMax, tDelta float64) {
	lower := math.Floor(origin)
	switch {
	case dir > 0:
		return int(lower), 1, (lower + 1 - origin) / dir, 1 / dir
	case dir < 0:
		// на целой координате луч сразу уходит в нижнюю ячейку
		if lower == origin {
			lower--
		}
		return int(lower), -1, (origin - lower) / -dir, -1 / dir
	}
	return int(lower), -1, math.Inf(1), math.Inf(1)
}
