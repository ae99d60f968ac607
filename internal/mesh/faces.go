package mesh

import "github.com/annel0/voxelly/internal/vec"

// Face грань куба
type Face int

const (
	FaceFront  Face = iota // +Z
	FaceBack               // -Z
	FaceLeft               // -X
	FaceRight              // +X
	FaceTop                // +Y
	FaceBottom             // -Y

	faceCount = 6
)

// FloatsPerVertex позиция(3) + текстура(1) + нормаль(3)
const FloatsPerVertex = 7

// VerticesPerFace и IndicesPerFace для одного квада
const (
	VerticesPerFace = 4
	IndicesPerFace  = 6
)

// Смещения вершин каждой грани относительно угла блока
var faceVertices = [faceCount][VerticesPerFace][3]float32{
	FaceFront: {
		{0, 0, 1},
		{1, 0, 1},
		{1, 1, 1},
		{0, 1, 1},
	},
	FaceBack: {
		{1, 0, 0},
		{0, 0, 0},
		{0, 1, 0},
		{1, 1, 0},
	},
	FaceLeft: {
		{0, 0, 0},
		{0, 0, 1},
		{0, 1, 1},
		{0, 1, 0},
	},
	FaceRight: {
		{1, 0, 1},
		{1, 0, 0},
		{1, 1, 0},
		{1, 1, 1},
	},
	FaceTop: {
		{0, 1, 1},
		{1, 1, 1},
		{1, 1, 0},
		{0, 1, 0},
	},
	FaceBottom: {
		{0, 0, 0},
		{1, 0, 0},
		{1, 0, 1},
		{0, 0, 1},
	},
}

var faceNormals = [faceCount]vec.Vec3{
	FaceFront:  {Z: 1},
	FaceBack:   {Z: -1},
	FaceLeft:   {X: -1},
	FaceRight:  {X: 1},
	FaceTop:    {Y: 1},
	FaceBottom: {Y: -1},
}

// Два треугольника на квад
var faceIndices = [IndicesPerFace]uint32{0, 1, 2, 2, 3, 0}

// Normal возвращает нормаль грани
func (f Face) Normal() vec.Vec3 {
	return faceNormals[f]
}

func (f Face) String() string {
	switch f {
	case FaceFront:
		return "front"
	case FaceBack:
		return "back"
	case FaceLeft:
		return "left"
	case FaceRight:
		return "right"
	case FaceTop:
		return "top"
	case FaceBottom:
		return "bottom"
	}
	return "unknown"
}

// emitFace дописывает квад грани face для блока в (fx, fy, fz)
func emitFace(vertices []float32, indices []uint32, face Face, texture, fx, fy, fz float32) ([]float32, []uint32) {
	base := uint32(len(vertices) / FloatsPerVertex)
	n := faceNormals[face]
	nx, ny, nz := float32(n.X), float32(n.Y), float32(n.Z)

	for _, v := range faceVertices[face] {
		vertices = append(vertices,
			v[0]+fx, v[1]+fy, v[2]+fz,
			texture,
			nx, ny, nz,
		)
	}
	for _, i := range faceIndices {
		indices = append(indices, base+i)
	}
	return vertices, indices
}
