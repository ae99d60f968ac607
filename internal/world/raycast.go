package world

import (
	"github.com/annel0/voxelly/internal/raycast"
	"github.com/annel0/voxelly/internal/vec"
)

// FindRayHitBlock ищет первый не-воздушный блок вдоль луча
func (w *World) FindRayHitBlock(ray raycast.Ray, maxDistance float32) (raycast.RayHit, bool) {
	return raycast.Traverse(ray, maxDistance, func(cell, _ vec.Vec3, _ float32) bool {
		return !w.GetBlockAt(cell).IsAir()
	})
}

// FindRayHitXPlane пересекает луч с плоскостью x=plane
func (w *World) FindRayHitXPlane(ray raycast.Ray, maxDistance float32, plane int) (raycast.RayHit, bool) {
	return raycast.HitPlane(ray, maxDistance, raycast.AxisX, plane)
}

// FindRayHitYPlane пересекает луч с плоскостью y=plane
func (w *World) FindRayHitYPlane(ray raycast.Ray, maxDistance float32, plane int) (raycast.RayHit, bool) {
	return raycast.HitPlane(ray, maxDistance, raycast.AxisY, plane)
}

// FindRayHitZPlane пересекает луч с плоскостью z=plane
func (w *World) FindRayHitZPlane(ray raycast.Ray, maxDistance float32, plane int) (raycast.RayHit, bool) {
	return raycast.HitPlane(ray, maxDistance, raycast.AxisZ, plane)
}

// FindRayHitXZPlane возвращает ближайшее попадание в плоскости x=planeX и z=planeZ
func (w *World) FindRayHitXZPlane(ray raycast.Ray, maxDistance float32, planeX, planeZ int) (raycast.RayHit, bool) {
	return raycast.HitXZPlane(ray, maxDistance, planeX, planeZ)
}

// FindRayHitAxisLine ищет ячейку на линии вдоль оси через центр lock
func (w *World) FindRayHitAxisLine(ray raycast.Ray, maxDistance float32, axis raycast.Axis, lock vec.Vec3) (raycast.RayHit, bool) {
	return raycast.HitAxisLine(ray, maxDistance, axis, lock)
}
