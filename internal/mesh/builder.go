package mesh

import (
	"github.com/annel0/voxelly/internal/vec"
	"github.com/annel0/voxelly/internal/world"
	"github.com/annel0/voxelly/internal/world/block"
)

// ChunkMesh геометрия одного чанка. Позиции вершин локальны относительно Origin.
type ChunkMesh struct {
	Key      world.ChunkKey
	Origin   vec.Vec3 // мировые координаты угла чанка
	Vertices []float32
	Indices  []uint32
}

// VertexCount количество вершин
func (m *ChunkMesh) VertexCount() int {
	return len(m.Vertices) / FloatsPerVertex
}

// IndexCount количество индексов
func (m *ChunkMesh) IndexCount() int {
	return len(m.Indices)
}

// FaceCount количество квадов
func (m *ChunkMesh) FaceCount() int {
	return len(m.Indices) / IndicesPerFace
}

// IsEmpty true, если нет ни одной видимой грани
func (m *ChunkMesh) IsEmpty() bool {
	return len(m.Indices) == 0
}

// neighborhood чанк и шесть его соседей по граням
type neighborhood struct {
	chunk     *world.Chunk
	neighbors [faceCount]*world.Chunk
}

func newNeighborhood(w *world.World, c *world.Chunk) neighborhood {
	nb := neighborhood{chunk: c}
	if w == nil {
		return nb
	}
	for f := Face(0); f < faceCount; f++ {
		n := f.Normal()
		nb.neighbors[f], _ = w.GetChunk(c.X()+n.X, c.Y()+n.Y, c.Z()+n.Z)
	}
	return nb
}

// at возвращает ячейку по локальным координатам, заходя в соседний чанк
// через одну границу. Отсутствующий сосед считается воздухом.
func (nb *neighborhood) at(x, y, z int) block.BlockID {
	var other *world.Chunk
	switch {
	case x < 0:
		other, x = nb.neighbors[FaceLeft], x+world.ChunkSize
	case x >= world.ChunkSize:
		other, x = nb.neighbors[FaceRight], x-world.ChunkSize
	case y < 0:
		other, y = nb.neighbors[FaceBottom], y+world.ChunkSize
	case y >= world.ChunkSize:
		other, y = nb.neighbors[FaceTop], y-world.ChunkSize
	case z < 0:
		other, z = nb.neighbors[FaceBack], z+world.ChunkSize
	case z >= world.ChunkSize:
		other, z = nb.neighbors[FaceFront], z-world.ChunkSize
	default:
		return nb.chunk.GetBlock(x, y, z)
	}
	if other == nil {
		return block.AirBlockID
	}
	return other.GetBlock(x, y, z)
}

// Build строит меш чанка с нуля. Соседние чанки ищутся в w.
// Буферы сразу выделяются под худший случай: все шесть граней у каждого блока.
func Build(w *world.World, c *world.Chunk) *ChunkMesh {
	faces := c.BlockCount() * faceCount
	m := &ChunkMesh{
		Vertices: make([]float32, 0, faces*VerticesPerFace*FloatsPerVertex),
		Indices:  make([]uint32, 0, faces*IndicesPerFace),
	}
	Rebuild(m, w, c)
	return m
}

// Rebuild перестраивает меш m, переиспользуя его буферы
func Rebuild(m *ChunkMesh, w *world.World, c *world.Chunk) {
	m.Key = c.Key()
	m.Origin = c.Origin()
	m.Vertices = m.Vertices[:0]
	m.Indices = m.Indices[:0]

	if c.IsEmpty() {
		return
	}

	nb := newNeighborhood(w, c)
	for z := 0; z < world.ChunkSize; z++ {
		for y := 0; y < world.ChunkSize; y++ {
			for x := 0; x < world.ChunkSize; x++ {
				id := c.GetBlock(x, y, z)
				if id.IsAir() {
					continue
				}
				tex := id.TextureIndex()
				fx, fy, fz := float32(x), float32(y), float32(z)

				for f := Face(0); f < faceCount; f++ {
					n := faceNormals[f]
					if !nb.at(x+n.X, y+n.Y, z+n.Z).IsAir() {
						continue
					}
					m.Vertices, m.Indices = emitFace(m.Vertices, m.Indices, f, tex, fx, fy, fz)
				}
			}
		}
	}
}

// CubeMesh строит отдельный куб со всеми шестью гранями для превью блока
func CubeMesh(textureID int) *ChunkMesh {
	m := &ChunkMesh{
		Vertices: make([]float32, 0, faceCount*VerticesPerFace*FloatsPerVertex),
		Indices:  make([]uint32, 0, faceCount*IndicesPerFace),
	}
	for f := Face(0); f < faceCount; f++ {
		m.Vertices, m.Indices = emitFace(m.Vertices, m.Indices, f, float32(textureID), 0, 0, 0)
	}
	return m
}
