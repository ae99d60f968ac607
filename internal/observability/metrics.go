package observability

import (
	"net/http"
	"time"

	"github.com/annel0/voxelly/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics набор Prometheus-метрик движка: перестройка мешей и сохранение мира.
// Все методы безопасны для nil-получателя, чтобы метрики были необязательными.
type Metrics struct {
	registry prometheus.Gatherer

	meshesRebuilt prometheus.Counter
	meshesEvicted prometheus.Counter
	facesEmitted  prometheus.Counter
	rebuildTime   prometheus.Histogram

	worldsSaved  *prometheus.CounterVec
	worldsLoaded *prometheus.CounterVec
	bytesWritten prometheus.Counter
	chunksStored prometheus.Gauge
}

// NewMetrics создаёт метрики и регистрирует их в reg.
// nil означает отдельный регистр (удобно для тестов и встраивания).
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		registry: reg,
		meshesRebuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxelly",
			Subsystem: "mesh",
			Name:      "rebuilt_total",
			Help:      "Количество перестроенных мешей чанков.",
		}),
		meshesEvicted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxelly",
			Subsystem: "mesh",
			Name:      "evicted_total",
			Help:      "Меши, удалённые из кэша вместе с чанком.",
		}),
		facesEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxelly",
			Subsystem: "mesh",
			Name:      "faces_total",
			Help:      "Сколько граней выдал построитель мешей.",
		}),
		rebuildTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "voxelly",
			Subsystem: "mesh",
			Name:      "update_seconds",
			Help:      "Длительность одного обновления кэша мешей.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		worldsSaved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voxelly",
			Subsystem: "storage",
			Name:      "saves_total",
			Help:      "Сохранения мира по бэкенду и результату.",
		}, []string{"backend", "result"}),
		worldsLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voxelly",
			Subsystem: "storage",
			Name:      "loads_total",
			Help:      "Загрузки мира по бэкенду и результату.",
		}, []string{"backend", "result"}),
		bytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxelly",
			Subsystem: "storage",
			Name:      "bytes_written_total",
			Help:      "Байт записано в файлы мира.",
		}),
		chunksStored: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "voxelly",
			Subsystem: "storage",
			Name:      "chunks_last_save",
			Help:      "Количество чанков в последнем сохранении.",
		}),
	}

	reg.MustRegister(
		m.meshesRebuilt, m.meshesEvicted, m.facesEmitted, m.rebuildTime,
		m.worldsSaved, m.worldsLoaded, m.bytesWritten, m.chunksStored,
	)
	return m
}

// Gatherer возвращает регистр с метриками
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// MeshRebuilt учитывает перестроенный меш
func (m *Metrics) MeshRebuilt(faces int) {
	if m == nil {
		return
	}
	m.meshesRebuilt.Inc()
	m.facesEmitted.Add(float64(faces))
}

// MeshEvicted учитывает удалённые меши
func (m *Metrics) MeshEvicted(n int) {
	if m == nil || n == 0 {
		return
	}
	m.meshesEvicted.Add(float64(n))
}

// ObserveMeshUpdate фиксирует длительность обновления кэша
func (m *Metrics) ObserveMeshUpdate(d time.Duration) {
	if m == nil {
		return
	}
	m.rebuildTime.Observe(d.Seconds())
}

// WorldSaved учитывает сохранение мира
func (m *Metrics) WorldSaved(backend string, chunks int, bytes int64, err error) {
	if m == nil {
		return
	}
	m.worldsSaved.WithLabelValues(backend, result(err)).Inc()
	if err != nil {
		return
	}
	m.chunksStored.Set(float64(chunks))
	if bytes > 0 {
		m.bytesWritten.Add(float64(bytes))
	}
}

// WorldLoaded учитывает загрузку мира
func (m *Metrics) WorldLoaded(backend string, err error) {
	if m == nil {
		return
	}
	m.worldsLoaded.WithLabelValues(backend, result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// StartHTTP запускает HTTP-эндпоинт Prometheus на указанном адресе (например, ":2112").
// Метод неблокирующий: сервер стартует в отдельной горутине.
func (m *Metrics) StartHTTP(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logging.Info("📈 Prometheus /metrics доступен по адресу %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Error("Ошибка Prometheus HTTP сервера: %v", err)
		}
	}()
	return srv
}
