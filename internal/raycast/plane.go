package raycast

import (
	"math"

	"github.com/annel0/voxelly/internal/vec"
)

// Axis ось координат
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	}
	return "?"
}

func component(v [3]float32, a Axis) float32 {
	return v[a]
}

func floorInt(f float32) int {
	return int(math.Floor(float64(f)))
}

// planeT возвращает расстояние до плоскости axis=plane
func planeT(ray Ray, maxDistance float32, axis Axis, plane int) (float32, bool) {
	d := component(ray.Direction(), axis)
	if d == 0 {
		return 0, false
	}
	t := (float32(plane) - component(ray.Origin(), axis)) / d
	if t < 0 || t > maxDistance {
		return 0, false
	}
	return t, true
}

// HitPlane пересекает луч с бесконечной плоскостью axis=plane.
// Ячейка берётся со стороны, откуда пришёл луч. Для плоскости Y сторона нулевая,
// для X и Z сторона направлена против движения луча.
func HitPlane(ray Ray, maxDistance float32, axis Axis, plane int) (RayHit, bool) {
	t, ok := planeT(ray, maxDistance, axis, plane)
	if !ok {
		return RayHit{}, false
	}

	p := ray.At(t)
	cell := [3]int{floorInt(p[0]), floorInt(p[1]), floorInt(p[2])}

	d := component(ray.Direction(), axis)
	sideStep := 1
	cell[axis] = plane
	if d > 0 {
		cell[axis] = plane - 1
		sideStep = -1
	}

	var side vec.Vec3
	switch axis {
	case AxisX:
		side = vec.New(sideStep, 0, 0)
	case AxisZ:
		side = vec.New(0, 0, sideStep)
	}

	return RayHit{
		Block:    vec.New(cell[0], cell[1], cell[2]),
		Side:     side,
		Distance: t,
	}, true
}

// HitXZPlane выбирает ближайшее попадание в плоскости x=planeX и z=planeZ
func HitXZPlane(ray Ray, maxDistance float32, planeX, planeZ int) (RayHit, bool) {
	hx, okX := HitPlane(ray, maxDistance, AxisX, planeX)
	hz, okZ := HitPlane(ray, maxDistance, AxisZ, planeZ)
	switch {
	case okX && okZ:
		if hz.Distance < hx.Distance {
			return hz, true
		}
		return hx, true
	case okX:
		return hx, true
	case okZ:
		return hz, true
	}
	return RayHit{}, false
}

// HitAxisLine находит ячейку на линии, параллельной оси axis и проходящей через
// центр ячейки lock. Меняется только координата по свободной оси, сторона нулевая.
func HitAxisLine(ray Ray, maxDistance float32, axis Axis, lock vec.Vec3) (RayHit, bool) {
	o := ray.Origin()
	d := ray.Direction()
	center := lock.Center()

	var a, b Axis
	switch axis {
	case AxisX:
		a, b = AxisY, AxisZ
	case AxisY:
		a, b = AxisX, AxisZ
	default:
		a, b = AxisX, AxisY
	}

	ta, okA := lineT(o[a], d[a], center[a])
	tb, okB := lineT(o[b], d[b], center[b])
	if !okA && !okB {
		return RayHit{}, false
	}

	var t float32
	switch {
	case okA && okB:
		t = max(ta, tb)
	case okA:
		t = ta
	default:
		t = tb
	}
	if t < 0 || t > maxDistance {
		return RayHit{}, false
	}

	p := ray.At(t)
	cell := [3]int{lock.X, lock.Y, lock.Z}
	cell[axis] = floorInt(p[axis])

	return RayHit{Block: vec.New(cell[0], cell[1], cell[2]), Distance: t}, true
}

func lineT(origin, dir, target float32) (float32, bool) {
	if dir == 0 {
		return 0, false
	}
	return (target - origin) / dir, true
}
