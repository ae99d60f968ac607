package logging

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Components логгеры подсистем (storage, mesh, voxelctl) с порогами консоли,
// заданными в конфигурации. Порог можно задать до создания логгера.
type Components struct {
	mu      sync.Mutex
	loggers map[string]*Logger
	levels  map[string]LogLevel
}

// NewComponents создаёт пустой набор логгеров
func NewComponents() *Components {
	return &Components{
		loggers: make(map[string]*Logger),
		levels:  make(map[string]LogLevel),
	}
}

var components = sync.OnceValue(NewComponents)

// Get возвращает логгер компонента. Если файл логов не открылся,
// компонент пишет через глобальный логгер.
func (c *Components) Get(component string) *Logger {
	c.mu.Lock()
	defer c.mu.Unlock()

	if l, ok := c.loggers[component]; ok {
		return l
	}
	l, err := NewLogger(component)
	if err != nil {
		Default().Warn("логгер %s недоступен, используется общий: %v", component, err)
		return Default()
	}
	if lvl, ok := c.levels[component]; ok {
		l.SetConsoleLevel(lvl)
	}
	c.loggers[component] = l
	return l
}

// SetLevel задаёт порог консоли компонента, в том числе для уже созданного логгера
func (c *Components) SetLevel(component string, level LogLevel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.levels[component] = level
	if l, ok := c.loggers[component]; ok {
		l.SetConsoleLevel(level)
	}
}

// Names отсортированные имена созданных логгеров
func (c *Components) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, 0, len(c.loggers))
	for name := range c.loggers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// CloseAll закрывает файлы всех логгеров и забывает их
func (c *Components) CloseAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for name, l := range c.loggers {
		if err := l.Close(); err != nil {
			errs = append(errs, fmt.Errorf("логгер %s: %w", name, err))
		}
	}
	clear(c.loggers)
	return errors.Join(errs...)
}

// SetComponentLevels применяет пороги из конфигурации к глобальному набору
func SetComponentLevels(levels map[string]LogLevel) {
	for name, lvl := range levels {
		components().SetLevel(name, lvl)
	}
}

// GetComponentLogger логгер компонента из глобального набора
func GetComponentLogger(component string) *Logger {
	return components().Get(component)
}

func GetStorageLogger() *Logger { return GetComponentLogger("storage") }

func GetMeshLogger() *Logger { return GetComponentLogger("mesh") }

func GetToolLogger() *Logger { return GetComponentLogger("voxelctl") }
