package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/annel0/voxelly/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutPath(t *testing.T) {
	t.Setenv("VOXELLY_CONFIG", "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.World.Name)
	assert.Equal(t, float32(256), cfg.Query.MaxRayDistance)
	assert.NoError(t, cfg.Validate())
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voxelly.yaml")
	data := []byte(`
world:
  name: island
  compress: true
  seed: 99
mesh:
  workers: 4
logging:
  level: debug
  components:
    storage: warn
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "island", cfg.World.Name)
	assert.True(t, cfg.World.Compress)
	assert.Equal(t, int64(99), cfg.World.Seed)
	assert.Equal(t, 4, cfg.Mesh.GetWorkers())
	assert.Equal(t, "world.bin", cfg.World.File, "Незаданные поля берутся из значений по умолчанию")
	assert.Equal(t, logging.DEBUG, cfg.Logging.ConsoleLevel())
	assert.Equal(t, map[string]logging.LogLevel{"storage": logging.WARN}, cfg.Logging.ComponentLevels())
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("query:\n  max_ray_distance: -1\n"), 0644))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalid)

	badLevel := filepath.Join(t.TempDir(), "level.yaml")
	require.NoError(t, os.WriteFile(badLevel, []byte("logging:\n  components:\n    mesh: loud\n"), 0644))
	_, err = Load(badLevel)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEnvFallback(t *testing.T) {
	t.Setenv("VOXELLY_METRICS_PORT", "2112")
	t.Setenv("VOXELLY_DATA_DIR", "/tmp/voxelly")

	cfg := Default()
	assert.Equal(t, 2112, cfg.Metrics.GetMetricsPort())
	assert.Equal(t, "data", cfg.World.GetDataDir(), "Значение из конфига важнее переменной окружения")

	cfg.World.DataDir = ""
	assert.Equal(t, "/tmp/voxelly", cfg.World.GetDataDir())

	cfg.Metrics.Port = 9000
	assert.Equal(t, 9000, cfg.Metrics.GetMetricsPort())
}
