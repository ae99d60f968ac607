package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/annel0/voxelly/internal/config"
	"github.com/annel0/voxelly/internal/logging"
	"github.com/annel0/voxelly/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to YAML config (or VOXELLY_CONFIG)")
		command    = flag.String("cmd", "info", "Command: new, info, mesh, ray, edit, export, import, list")
		file       = flag.String("file", "", "World file (overrides config)")
		name       = flag.String("name", "", "World name (default: config or random)")
		seed       = flag.Int64("seed", 0, "Generator seed (new)")
		sizeX      = flag.Int("size-x", 0, "World size in chunks along X (new)")
		sizeZ      = flag.Int("size-z", 0, "World size in chunks along Z (new)")
		compress   = flag.Bool("compress", false, "Write world file with zstd")
		rayFlag    = flag.String("ray", "", "Ray as ox,oy,oz:dx,dy,dz (ray, edit)")
		toolFlag   = flag.String("tool", "place", "Edit tool: place, paint, erase, line, move")
		shapeFlag  = flag.String("shape", "sphere", "Brush shape: sphere, cube")
		brush      = flag.Int("brush", 0, "Brush radius")
		blockFlag  = flag.String("block", "stone", "Block name or id")
		lineStart  = flag.String("from", "", "Line start or move anchor x,y,z (edit)")
		workers    = flag.Int("workers", 0, "Mesh workers (mesh)")
		hold       = flag.Bool("hold", false, "Keep running after the command to serve /metrics")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}
	applyFlags(cfg, *file, *name, *seed, *sizeX, *sizeZ, *compress, *workers)

	if err := logging.InitDefaultLogger("voxelctl", cfg.Logging.LoggerOptions()); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()
	logging.SetComponentLevels(cfg.Logging.ComponentLevels())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Telemetry.Enabled {
		shutdown, err := observability.InitTelemetry(ctx, cfg.Telemetry.Service, cfg.Telemetry.Endpoint)
		if err != nil {
			logging.Warn("OpenTelemetry не запущен: %v", err)
		} else {
			defer shutdown(context.Background())
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)
	if port := cfg.Metrics.GetMetricsPort(); port > 0 {
		srv := metrics.StartHTTP(fmt.Sprintf(":%d", port))
		defer srv.Close()
	}

	app := &app{
		cfg:     cfg,
		metrics: metrics,
		log:     logging.GetToolLogger(),
		out:     os.Stdout,
	}

	opts := editOptions{
		ray:   *rayFlag,
		tool:  *toolFlag,
		shape: *shapeFlag,
		brush: *brush,
		block: *blockFlag,
		from:  *lineStart,
	}

	if err := app.run(ctx, *command, opts); err != nil {
		logging.Error("команда %s завершилась с ошибкой: %v", *command, err)
		log.Fatalf("❌ %s failed: %v", *command, err)
	}

	if *hold {
		logging.Info("⏳ Ожидание сигнала завершения, /metrics остаётся доступен")
		<-ctx.Done()
	}
}

func applyFlags(cfg *config.Config, file, name string, seed int64, sizeX, sizeZ int, compress bool, workers int) {
	if file != "" {
		cfg.World.File = file
	}
	if name != "" {
		cfg.World.Name = name
	}
	if seed != 0 {
		cfg.World.Seed = seed
	}
	if sizeX > 0 {
		cfg.World.SizeX = sizeX
	}
	if sizeZ > 0 {
		cfg.World.SizeZ = sizeZ
	}
	if compress {
		cfg.World.Compress = true
	}
	if workers > 0 {
		cfg.Mesh.Workers = workers
	}
}
