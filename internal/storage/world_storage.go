package storage

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/annel0/voxelly/internal/logging"
	"github.com/annel0/voxelly/internal/observability"
	"github.com/annel0/voxelly/internal/world"
	"github.com/dgraph-io/badger/v3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Ключи BadgerDB:
//
//	world:<name>:meta              -> u32 число чанков
//	world:<name>:chunk:<key hex>   -> запись чанка (AppendChunkRecord)
const worldPrefix = "world:"

// WorldStorage хранит снимки миров в BadgerDB, по записи на чанк
type WorldStorage struct {
	db      *badger.DB
	dbPath  string
	mutex   sync.RWMutex
	isReady bool
	metrics *observability.Metrics
	logger  *logging.Logger
}

// NewWorldStorage открывает хранилище в dataPath/worlds
func NewWorldStorage(dataPath string, metrics *observability.Metrics) (*WorldStorage, error) {
	dbPath := filepath.Join(dataPath, "worlds")
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Отключаем логирование BadgerDB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	return &WorldStorage{
		db:      db,
		dbPath:  dbPath,
		isReady: true,
		metrics: metrics,
		logger:  logging.GetStorageLogger(),
	}, nil
}

// Close закрывает хранилище данных
func (ws *WorldStorage) Close() error {
	ws.mutex.Lock()
	defer ws.mutex.Unlock()

	if !ws.isReady {
		return nil
	}

	ws.isReady = false
	return ws.db.Close()
}

func metaKey(name string) []byte {
	return []byte(worldPrefix + name + ":meta")
}

func chunkPrefix(name string) []byte {
	return []byte(worldPrefix + name + ":chunk:")
}

func chunkKey(name string, key world.ChunkKey) []byte {
	return fmt.Appendf(chunkPrefix(name), "%016x", uint64(key))
}

func validName(name string) error {
	if name == "" || strings.Contains(name, ":") {
		return fmt.Errorf("недопустимое имя мира %q", name)
	}
	return nil
}

func finishSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// SaveWorld заменяет сохранённый мир снимком a
func (ws *WorldStorage) SaveWorld(ctx context.Context, a *WorldAsset) (err error) {
	_, span := tracer.Start(ctx, "storage.WorldStorage.SaveWorld")
	span.SetAttributes(attribute.String("world.name", a.Name), attribute.Int("world.chunks", len(a.Chunks)))
	var written int64
	defer func() {
		ws.metrics.WorldSaved("badger", len(a.Chunks), written, err)
		finishSpan(span, err)
	}()

	if err := validName(a.Name); err != nil {
		return err
	}

	ws.mutex.RLock()
	defer ws.mutex.RUnlock()
	if !ws.isReady {
		return ErrStorageClosed
	}

	err = ws.db.Update(func(txn *badger.Txn) error {
		n, err := writeWorld(txn, a)
		if err == nil {
			written = n
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("ошибка сохранения мира %q в BadgerDB: %w", a.Name, err)
	}

	ws.logger.Info("💾 мир %q сохранён в BadgerDB: %d чанков", a.Name, len(a.Chunks))
	return nil
}

// LoadWorld читает мир по имени
func (ws *WorldStorage) LoadWorld(ctx context.Context, name string) (a *WorldAsset, err error) {
	_, span := tracer.Start(ctx, "storage.WorldStorage.LoadWorld")
	span.SetAttributes(attribute.String("world.name", name))
	defer func() {
		ws.metrics.WorldLoaded("badger", err)
		finishSpan(span, err)
	}()

	ws.mutex.RLock()
	defer ws.mutex.RUnlock()
	if !ws.isReady {
		return nil, ErrStorageClosed
	}

	a = NewWorldAsset(name)
	var expected uint32
	err = ws.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(metaKey(name))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ErrWorldNotFound, name)
		}
		if err != nil {
			return err
		}
		if err := item.Value(func(val []byte) error {
			if len(val) != 4 {
				return fmt.Errorf("%w: метаданные мира %d байт", ErrCorrupt, len(val))
			}
			expected = binary.LittleEndian.Uint32(val)
			return nil
		}); err != nil {
			return err
		}

		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := chunkPrefix(name)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := it.Item().Value(func(val []byte) error {
				key, cd, err := DecodeChunkRecord(val)
				if err != nil {
					return err
				}
				a.Chunks[key] = cd
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки мира %q: %w", name, err)
	}
	if uint32(len(a.Chunks)) != expected {
		return nil, fmt.Errorf("%w: ожидалось %d чанков, найдено %d", ErrCorrupt, expected, len(a.Chunks))
	}
	return a, nil
}

// DeleteWorld удаляет мир целиком
func (ws *WorldStorage) DeleteWorld(ctx context.Context, name string) (err error) {
	_, span := tracer.Start(ctx, "storage.WorldStorage.DeleteWorld")
	defer func() { finishSpan(span, err) }()

	ws.mutex.RLock()
	defer ws.mutex.RUnlock()
	if !ws.isReady {
		return ErrStorageClosed
	}

	return ws.db.Update(func(txn *badger.Txn) error {
		keys, err := chunkKeys(txn, name)
		if err != nil {
			return err
		}
		for _, k := range keys {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		return txn.Delete(metaKey(name))
	})
}

// ListWorlds возвращает имена сохранённых миров
func (ws *WorldStorage) ListWorlds(ctx context.Context) ([]string, error) {
	ws.mutex.RLock()
	defer ws.mutex.RUnlock()
	if !ws.isReady {
		return nil, ErrStorageClosed
	}

	var names []string
	err := ws.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(worldPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			k := string(it.Item().Key())
			if strings.HasSuffix(k, ":meta") {
				names = append(names, strings.TrimSuffix(strings.TrimPrefix(k, worldPrefix), ":meta"))
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения списка миров: %w", err)
	}
	slices.Sort(names)
	return names, nil
}

// writeWorld в одной транзакции удаляет чанки, которых нет в снимке,
// пишет все чанки снимка и метаданные. Возвращает объём записанных чанков.
func writeWorld(txn *badger.Txn, a *WorldAsset) (int64, error) {
	existing, err := chunkKeys(txn, a.Name)
	if err != nil {
		return 0, err
	}
	prefix := len(chunkPrefix(a.Name))
	for _, k := range existing {
		var raw uint64
		if _, err := fmt.Sscanf(string(k[prefix:]), "%016x", &raw); err == nil {
			if _, keep := a.Chunks[world.ChunkKey(raw)]; keep {
				continue
			}
		}
		if err := txn.Delete(k); err != nil {
			return 0, fmt.Errorf("ошибка удаления чанка: %w", err)
		}
	}

	var written int64
	for _, key := range a.Keys() {
		rec := AppendChunkRecord(make([]byte, 0, ChunkRecordSize), key, a.Chunks[key])
		if err := txn.Set(chunkKey(a.Name, key), rec); err != nil {
			return 0, fmt.Errorf("ошибка записи чанка %s: %w", key, err)
		}
		written += int64(len(rec))
	}
	meta := binary.LittleEndian.AppendUint32(nil, uint32(len(a.Chunks)))
	if err := txn.Set(metaKey(a.Name), meta); err != nil {
		return 0, fmt.Errorf("ошибка записи метаданных мира: %w", err)
	}
	return written, nil
}

// chunkKeys ключи всех записей чанков мира
func chunkKeys(txn *badger.Txn, name string) ([][]byte, error) {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	var keys [][]byte
	prefix := chunkPrefix(name)
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	return keys, nil
}
