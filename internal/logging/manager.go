package logging

import (
	"fmt"
	"log"
	"os"
	"sort"
	"sync"
)

// Компоненты с отдельными файлами логов
const (
	ComponentSimulator = "simulator"
	ComponentResources = "resources"
)

// LoggerManager держит файловые логгеры компонентов и их уровни из конфигурации
type LoggerManager struct {
	mu      sync.RWMutex
	loggers map[string]*Logger
	levels  map[string]LogLevel
}

var (
	globalManager *LoggerManager
	managerOnce   sync.Once
)

// GetLoggerManager возвращает глобальный менеджер логгеров
func GetLoggerManager() *LoggerManager {
	managerOnce.Do(func() {
		globalManager = newLoggerManager()
	})
	return globalManager
}

func newLoggerManager() *LoggerManager {
	return &LoggerManager{
		loggers: make(map[string]*Logger),
		levels:  make(map[string]LogLevel),
	}
}

// Configure задаёт консольные уровни компонентов (logging.components в YAML).
// Уже созданные логгеры перенастраиваются сразу.
func (lm *LoggerManager) Configure(levels map[string]string) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	for component, level := range levels {
		lvl := ParseLevel(level)
		lm.levels[component] = lvl
		if logger, ok := lm.loggers[component]; ok {
			logger.SetLevels(lvl, TRACE)
		}
	}
}

// Level консольный уровень компонента; без настройки INFO
func (lm *LoggerManager) Level(component string) LogLevel {
	lm.mu.RLock()
	defer lm.mu.RUnlock()
	if lvl, ok := lm.levels[component]; ok {
		return lvl
	}
	return INFO
}

// GetLogger возвращает логгер компонента, создавая файл при первом обращении
func (lm *LoggerManager) GetLogger(component string) (*Logger, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	if logger, exists := lm.loggers[component]; exists {
		return logger, nil
	}

	logger, err := NewLogger(component)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger for %s: %w", component, err)
	}
	if lvl, ok := lm.levels[component]; ok {
		logger.SetLevels(lvl, TRACE)
	}

	lm.loggers[component] = logger
	return logger, nil
}

// MustGetLogger возвращает логгер компонента; без файла пишет только в консоль
func (lm *LoggerManager) MustGetLogger(component string) *Logger {
	logger, err := lm.GetLogger(component)
	if err != nil {
		Once(WARN, "logger-fallback:"+component, "Логгер %s пишет только в консоль: %v", component, err)
		return &Logger{
			component:       component,
			consoleLogger:   log.New(os.Stdout, "", log.LstdFlags),
			minConsoleLevel: lm.Level(component),
			minFileLevel:    TRACE,
		}
	}
	return logger
}

// Components имена компонентов с открытыми логгерами
func (lm *LoggerManager) Components() []string {
	lm.mu.RLock()
	defer lm.mu.RUnlock()

	names := make([]string, 0, len(lm.loggers))
	for name := range lm.loggers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CloseAll закрывает все логгеры
func (lm *LoggerManager) CloseAll() error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	var lastErr error
	for component, logger := range lm.loggers {
		if err := logger.Close(); err != nil {
			lastErr = fmt.Errorf("failed to close logger for %s: %w", component, err)
		}
	}

	lm.loggers = make(map[string]*Logger)
	return lastErr
}

// SetLogLevel устанавливает уровни открытого логгера компонента
func (lm *LoggerManager) SetLogLevel(component string, consoleLevel, fileLevel LogLevel) error {
	lm.mu.RLock()
	logger, exists := lm.loggers[component]
	lm.mu.RUnlock()

	if !exists {
		return fmt.Errorf("logger for component %s not found", component)
	}

	logger.SetLevels(consoleLevel, fileLevel)
	return nil
}

// GetSimulatorLogger логгер прогулки симулятора
func GetSimulatorLogger() *Logger {
	return GetLoggerManager().MustGetLogger(ComponentSimulator)
}

// GetResourcesLogger логгер отчётов о загрузке паков
func GetResourcesLogger() *Logger {
	return GetLoggerManager().MustGetLogger(ComponentResources)
}
