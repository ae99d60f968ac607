package mesh

import (
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/annel0/voxelly/internal/logging"
	"github.com/annel0/voxelly/internal/observability"
	"github.com/annel0/voxelly/internal/world"
)

// Cache хранит меши чанков мира и перестраивает грязные.
// Update вызывается из той же горутины, что пишет в мир.
type Cache struct {
	meshes  map[world.ChunkKey]*ChunkMesh
	pool    pond.Pool // nil - последовательная перестройка
	metrics *observability.Metrics
	logger  *logging.Logger
}

// Option настройка кэша
type Option func(*Cache)

// WithWorkers включает параллельную перестройку в пуле из n воркеров
func WithWorkers(n int) Option {
	return func(c *Cache) {
		if n > 1 {
			c.pool = pond.NewPool(n)
		}
	}
}

// WithMetrics подключает Prometheus-метрики
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Cache) { c.metrics = m }
}

// WithLogger задаёт логгер
func WithLogger(l *logging.Logger) Option {
	return func(c *Cache) { c.logger = l }
}

// NewCache создаёт пустой кэш мешей
func NewCache(opts ...Option) *Cache {
	c := &Cache{meshes: make(map[world.ChunkKey]*ChunkMesh)}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.GetMeshLogger()
	}
	return c
}

// UpdateStats итог одного обновления
type UpdateStats struct {
	Evicted int
	Rebuilt int
	Faces   int
}

// Update удаляет меши исчезнувших чанков, перестраивает грязные и снимает с них флаг.
// Перестраиваются только грязные чанки: правки через World помечают и соседей
// по границе, а после прямой записи в Chunk соседа нужно пометить вызывающему.
func (c *Cache) Update(w *world.World) UpdateStats {
	start := time.Now()
	var stats UpdateStats

	for key := range c.meshes {
		if _, ok := w.GetChunkByKey(key); !ok {
			delete(c.meshes, key)
			stats.Evicted++
		}
	}

	dirty := w.DirtyChunks()
	jobs := make([]*ChunkMesh, len(dirty))
	chunks := make([]*world.Chunk, len(dirty))
	for i, key := range dirty {
		chunks[i], _ = w.GetChunkByKey(key)
		m, ok := c.meshes[key]
		if !ok {
			m = &ChunkMesh{}
		}
		jobs[i] = m
	}

	if c.pool != nil && len(dirty) > 1 {
		// мир не меняется, пока воркеры читают его
		var wg sync.WaitGroup
		for i := range jobs {
			wg.Add(1)
			m, ch := jobs[i], chunks[i]
			c.pool.Submit(func() {
				defer wg.Done()
				Rebuild(m, w, ch)
			})
		}
		wg.Wait()
	} else {
		for i := range jobs {
			Rebuild(jobs[i], w, chunks[i])
		}
	}

	for i, key := range dirty {
		c.meshes[key] = jobs[i]
		chunks[i].SetDirty(false)
		stats.Rebuilt++
		stats.Faces += jobs[i].FaceCount()
		c.metrics.MeshRebuilt(jobs[i].FaceCount())
	}

	c.metrics.MeshEvicted(stats.Evicted)
	c.metrics.ObserveMeshUpdate(time.Since(start))
	if stats.Rebuilt > 0 || stats.Evicted > 0 {
		c.logger.Debug("меши обновлены: перестроено %d, удалено %d, граней %d", stats.Rebuilt, stats.Evicted, stats.Faces)
	}
	return stats
}

// Get возвращает меш чанка
func (c *Cache) Get(key world.ChunkKey) (*ChunkMesh, bool) {
	m, ok := c.meshes[key]
	return m, ok
}

// Len количество мешей в кэше
func (c *Cache) Len() int {
	return len(c.meshes)
}

// Clear удаляет все меши. Следующий Update построит только грязные чанки.
func (c *Cache) Clear() {
	clear(c.meshes)
}

// TotalFaces сумма граней по всем мешам
func (c *Cache) TotalFaces() int {
	total := 0
	for _, m := range c.meshes {
		total += m.FaceCount()
	}
	return total
}

// Close останавливает пул воркеров
func (c *Cache) Close() {
	if c.pool != nil {
		c.pool.StopAndWait()
	}
}
