package raycast

import (
	"fmt"

	"github.com/annel0/voxelly/internal/vec"
	"github.com/go-gl/mathgl/mgl32"
)

// Ray луч с началом и нормализованным направлением. Неизменяем после создания.
type Ray struct {
	origin    mgl32.Vec3
	direction mgl32.Vec3
}

// NewRay создаёт луч. Нулевое направление остаётся нулевым.
func NewRay(origin, direction mgl32.Vec3) Ray {
	if l := direction.Len(); l > 0 {
		direction = direction.Mul(1 / l)
	}
	return Ray{origin: origin, direction: direction}
}

// Origin начало луча
func (r Ray) Origin() mgl32.Vec3 { return r.origin }

// Direction нормализованное направление
func (r Ray) Direction() mgl32.Vec3 { return r.direction }

// At возвращает точку луча на расстоянии t
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.origin.Add(r.direction.Mul(t))
}

func (r Ray) String() string {
	return fmt.Sprintf("ray(%v -> %v)", r.origin, r.direction)
}

// RayHit результат пересечения луча
type RayHit struct {
	Block    vec.Vec3 // попавший воксель
	Side     vec.Vec3 // нормаль грани входа, нулевая для попадания в плоскость пола
	Distance float32
}

// Adjacent возвращает ячейку перед гранью попадания
func (h RayHit) Adjacent() vec.Vec3 {
	return h.Block.Add(h.Side)
}
