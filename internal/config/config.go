package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/annel0/voxelly/internal/logging"
	"gopkg.in/yaml.v3"
)

// ErrInvalid конфигурация содержит недопустимые значения
var ErrInvalid = errors.New("некорректная конфигурация")

// Config корневая структура конфигурации voxelly
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Mesh      MeshConfig      `yaml:"mesh"`
	Query     QueryConfig     `yaml:"query"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type WorldConfig struct {
	Name     string `yaml:"name"`     // пусто - случайное имя при создании
	File     string `yaml:"file"`     // путь к файлу мира
	DataDir  string `yaml:"data_dir"` // каталог BadgerDB
	Compress bool   `yaml:"compress"` // сохранять файл в zstd
	Seed     int64  `yaml:"seed"`     // сид генератора
	SizeX    int    `yaml:"size_x"`   // размер генерации в чанках
	SizeZ    int    `yaml:"size_z"`
}

type MeshConfig struct {
	Workers int `yaml:"workers"` // 0 или 1 - последовательная перестройка
}

type QueryConfig struct {
	MaxRayDistance float32 `yaml:"max_ray_distance"`
	MaxBrushSize   int     `yaml:"max_brush_size"`
}

type LoggingConfig struct {
	Level      string            `yaml:"level"`
	FileLevel  string            `yaml:"file_level"`
	Dir        string            `yaml:"dir"`
	Components map[string]string `yaml:"components"` // порог консоли по компоненту: storage, mesh, voxelctl
}

type MetricsConfig struct {
	Port int `yaml:"port"`
}

type TelemetryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Service  string `yaml:"service"`
	Endpoint string `yaml:"endpoint"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		World: WorldConfig{
			File:    "world.bin",
			DataDir: "data",
			SizeX:   4,
			SizeZ:   4,
		},
		Query: QueryConfig{
			MaxRayDistance: 256,
			MaxBrushSize:   16,
		},
		Logging: LoggingConfig{
			Level:     "INFO",
			FileLevel: "DEBUG",
		},
		Telemetry: TelemetryConfig{
			Service: "voxelly",
		},
	}
}

// GetMetricsPort возвращает порт Prometheus с приоритетом config -> env -> 0 (выключено)
func (m *MetricsConfig) GetMetricsPort() int {
	return getIntWithEnvFallback(m.Port, "VOXELLY_METRICS_PORT", 0)
}

// GetWorkers возвращает число воркеров перестройки мешей
func (m *MeshConfig) GetWorkers() int {
	return getIntWithEnvFallback(m.Workers, "VOXELLY_MESH_WORKERS", 1)
}

// GetDataDir возвращает каталог BadgerDB
func (w *WorldConfig) GetDataDir() string {
	return getStringWithEnvFallback(w.DataDir, "VOXELLY_DATA_DIR", "data")
}

// GetFile возвращает путь к файлу мира
func (w *WorldConfig) GetFile() string {
	return getStringWithEnvFallback(w.File, "VOXELLY_WORLD_FILE", "world.bin")
}

// ConsoleLevel уровень логов консоли
func (l *LoggingConfig) ConsoleLevel() logging.LogLevel {
	lvl, err := logging.ParseLevel(l.Level)
	if err != nil {
		return logging.INFO
	}
	return lvl
}

// FileLevelValue уровень логов файла
func (l *LoggingConfig) FileLevelValue() logging.LogLevel {
	lvl, err := logging.ParseLevel(l.FileLevel)
	if err != nil {
		return logging.DEBUG
	}
	return lvl
}

// LoggerOptions собирает настройки логгера
func (l *LoggingConfig) LoggerOptions() logging.Options {
	return logging.Options{
		Dir:             l.Dir,
		MinConsoleLevel: l.ConsoleLevel(),
		MinFileLevel:    l.FileLevelValue(),
	}
}

// ComponentLevels разобранные пороги компонентов. Неизвестные уровни пропускаются,
// Validate сообщает о них заранее.
func (l *LoggingConfig) ComponentLevels() map[string]logging.LogLevel {
	levels := make(map[string]logging.LogLevel, len(l.Components))
	for name, s := range l.Components {
		if lvl, err := logging.ParseLevel(s); err == nil {
			levels[name] = lvl
		}
	}
	return levels
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	if len(c.World.Name) > 255 {
		return fmt.Errorf("%w: слишком длинное имя мира", ErrInvalid)
	}
	if c.World.SizeX < 0 || c.World.SizeZ < 0 {
		return fmt.Errorf("%w: отрицательный размер мира", ErrInvalid)
	}
	if c.Query.MaxRayDistance <= 0 {
		return fmt.Errorf("%w: max_ray_distance должен быть больше 0", ErrInvalid)
	}
	if c.Query.MaxBrushSize < 0 {
		return fmt.Errorf("%w: max_brush_size не может быть отрицательным", ErrInvalid)
	}
	if c.Mesh.Workers < 0 {
		return fmt.Errorf("%w: mesh.workers не может быть отрицательным", ErrInvalid)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	for name, lvl := range c.Logging.Components {
		if _, err := logging.ParseLevel(lvl); err != nil {
			return fmt.Errorf("%w: logging.components.%s: %v", ErrInvalid, name, err)
		}
	}
	return nil
}

// getIntWithEnvFallback возвращает значение с приоритетом: config -> env -> default
func getIntWithEnvFallback(configValue int, envVar string, defaultValue int) int {
	if configValue > 0 {
		return configValue
	}

	if envVal := os.Getenv(envVar); envVal != "" {
		if v, err := strconv.Atoi(envVal); err == nil && v > 0 {
			return v
		}
	}

	return defaultValue
}

func getStringWithEnvFallback(configValue, envVar, defaultValue string) string {
	if configValue != "" {
		return configValue
	}
	if envVal := os.Getenv(envVar); envVal != "" {
		return envVal
	}
	return defaultValue
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", пытается прочитать из ENV VOXELLY_CONFIG или возвращает Default().
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv("VOXELLY_CONFIG")
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения конфигурации %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("ошибка разбора конфигурации %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
