package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/annel0/voxelly/internal/logging"
	"github.com/annel0/voxelly/internal/observability"
	"github.com/annel0/voxelly/internal/world"
	"github.com/klauspost/compress/zstd"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("github.com/annel0/voxelly/internal/storage")

// zstdMagic начало кадра zstd
var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// FileOptions параметры сохранения в файл
type FileOptions struct {
	Compress bool                   // обернуть данные в zstd
	Metrics  *observability.Metrics // необязательно
}

// SaveToFile атомарно записывает снимок в path (временный файл + rename)
func SaveToFile(ctx context.Context, path string, a *WorldAsset, opts FileOptions) (err error) {
	_, span := tracer.Start(ctx, "storage.SaveToFile")
	defer span.End()
	span.SetAttributes(
		attribute.String("world.name", a.Name),
		attribute.Int("world.chunks", len(a.Chunks)),
		attribute.Bool("world.compressed", opts.Compress),
	)

	var written int64
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		opts.Metrics.WorldSaved("file", len(a.Chunks), written, err)
	}()

	data, err := a.MarshalBinary()
	if err != nil {
		return fmt.Errorf("ошибка кодирования мира: %w", err)
	}
	if opts.Compress {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return fmt.Errorf("ошибка создания zstd encoder: %w", err)
		}
		data = enc.EncodeAll(data, nil)
		enc.Close()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("ошибка создания директории %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("ошибка создания временного файла: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("ошибка записи файла мира: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("ошибка синхронизации файла мира: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("ошибка закрытия файла мира: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("ошибка переименования файла мира: %w", err)
	}

	written = int64(len(data))
	logging.GetStorageLogger().Debug("мир %q сохранён в %s: %d чанков, %d байт", a.Name, path, len(a.Chunks), written)
	return nil
}

// LoadFromFile читает снимок из path, сжатый zstd или нет
func LoadFromFile(ctx context.Context, path string, metrics *observability.Metrics) (a *WorldAsset, err error) {
	_, span := tracer.Start(ctx, "storage.LoadFromFile")
	defer span.End()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		metrics.WorldLoaded("file", err)
	}()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла мира: %w", err)
	}

	if bytes.HasPrefix(data, zstdMagic) {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("ошибка создания zstd decoder: %w", err)
		}
		defer dec.Close()
		data, err = dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: ошибка распаковки zstd: %v", ErrCorrupt, err)
		}
	}

	a = &WorldAsset{}
	if err := a.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("world.name", a.Name), attribute.Int("world.chunks", len(a.Chunks)))
	return a, nil
}

// SaveWorld снимает мир и сохраняет его в файл
func SaveWorld(ctx context.Context, path, name string, w *world.World, opts FileOptions) error {
	return SaveToFile(ctx, path, FromWorld(name, w), opts)
}

// LoadWorld загружает мир из файла
func LoadWorld(ctx context.Context, path string) (*world.World, string, error) {
	a, err := LoadFromFile(ctx, path, nil)
	if err != nil {
		return nil, "", err
	}
	return a.ToWorld(), a.Name, nil
}

// LoadWorldOrEmpty загружает мир, а при любой ошибке возвращает пустой
func LoadWorldOrEmpty(ctx context.Context, path, fallbackName string) (*world.World, string) {
	w, name, err := LoadWorld(ctx, path)
	if err != nil {
		logging.GetStorageLogger().Warn("не удалось загрузить мир из %s, создаём пустой: %v", path, err)
		return world.NewWorld(), fallbackName
	}
	return w, name
}
