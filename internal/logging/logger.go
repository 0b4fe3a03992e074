package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LogLevel определяет уровни логирования
type LogLevel int

const (
	TRACE LogLevel = iota
	DEBUG
	INFO
	WARN
	ERROR
)

// String возвращает строковое представление уровня логирования
func (l LogLevel) String() string {
	switch l {
	case TRACE:
		return "TRACE"
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel разбирает уровень из конфигурации ("debug", "INFO", ...).
// Неизвестное значение даёт INFO.
func ParseLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return TRACE
	case "DEBUG":
		return DEBUG
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

// Logger представляет логгер компонента: консоль + опциональный файл
type Logger struct {
	component     string
	consoleLogger *log.Logger
	fileLogger    *log.Logger
	file          *os.File

	mu              sync.Mutex
	minConsoleLevel LogLevel
	minFileLevel    LogLevel
}

// Логгер по умолчанию пишет только в консоль, пока не вызван InitDefaultLogger.
var defaultLogger = &Logger{
	consoleLogger:   log.New(os.Stdout, "", log.LstdFlags),
	minConsoleLevel: INFO,
	minFileLevel:    TRACE,
}

// LogDir каталог для файлов логов
var LogDir = "logs"

// NewLogger создаёт логгер компонента с файлом logs/<component>_<timestamp>.log
func NewLogger(component string) (*Logger, error) {
	if err := os.MkdirAll(LogDir, 0755); err != nil {
		return nil, fmt.Errorf("ошибка создания директории %s: %w", LogDir, err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filename := filepath.Join(LogDir, fmt.Sprintf("%s_%s.log", component, timestamp))

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания файла логов: %w", err)
	}

	return &Logger{
		component:       component,
		consoleLogger:   log.New(os.Stdout, "", log.LstdFlags),
		fileLogger:      log.New(file, "", log.LstdFlags),
		file:            file,
		minConsoleLevel: INFO,
		minFileLevel:    TRACE,
	}, nil
}

// InitDefaultLogger заменяет логгер по умолчанию файловым логгером компонента
func InitDefaultLogger(component string) error {
	logger, err := NewLogger(component)
	if err != nil {
		return err
	}
	defaultLogger = logger
	return nil
}

// CloseDefaultLogger закрывает файл логгера по умолчанию
func CloseDefaultLogger() {
	if defaultLogger != nil {
		_ = defaultLogger.Close()
	}
}

// SetMinLevel задаёт минимальный уровень вывода в консоль для логгера по умолчанию
func SetMinLevel(level LogLevel) {
	defaultLogger.SetLevels(level, TRACE)
}

// SetOutput перенаправляет консольный вывод логгера по умолчанию.
// Возвращает функцию, восстанавливающую прежний вывод.
func SetOutput(w io.Writer) (restore func()) {
	l := defaultLogger
	l.mu.Lock()
	prev := l.consoleLogger
	l.consoleLogger = log.New(w, "", 0)
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		l.consoleLogger = prev
		l.mu.Unlock()
	}
}

// Close закрывает файл логов, если он открыт
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	l.fileLogger = nil
	return err
}

// SetLevels устанавливает минимальные уровни для консоли и файла
func (l *Logger) SetLevels(console, file LogLevel) {
	l.mu.Lock()
	l.minConsoleLevel = console
	l.minFileLevel = file
	l.mu.Unlock()
}

func (l *Logger) Trace(format string, args ...interface{}) { l.logMessage(TRACE, format, args...) }
func (l *Logger) Debug(format string, args ...interface{}) { l.logMessage(DEBUG, format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.logMessage(INFO, format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.logMessage(WARN, format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.logMessage(ERROR, format, args...) }

// logMessage внутренняя функция для логирования
func (l *Logger) logMessage(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	prefix := "[" + level.String() + "]"
	if l.component != "" {
		prefix += " [" + l.component + "]"
	}
	message := prefix + " " + fmt.Sprintf(format, args...)

	if l.fileLogger != nil && level >= l.minFileLevel {
		l.fileLogger.Println(message)
	}
	if l.consoleLogger != nil && level >= l.minConsoleLevel {
		l.consoleLogger.Println(message)
	}
}

// Trace логирует сообщение уровня TRACE
func Trace(format string, args ...interface{}) { defaultLogger.Trace(format, args...) }

// Debug логирует сообщение уровня DEBUG
func Debug(format string, args ...interface{}) { defaultLogger.Debug(format, args...) }

// Info логирует сообщение уровня INFO
func Info(format string, args ...interface{}) { defaultLogger.Info(format, args...) }

// Warn логирует сообщение уровня WARN
func Warn(format string, args ...interface{}) { defaultLogger.Warn(format, args...) }

// Error логирует сообщение уровня ERROR
func Error(format string, args ...interface{}) { defaultLogger.Error(format, args...) }

var (
	onceMu   sync.Mutex
	onceSeen = make(map[string]struct{})
)

// Once логирует сообщение только при первом появлении ключа.
// Возвращает true, если сообщение было записано.
func Once(level LogLevel, key string, format string, args ...interface{}) bool {
	onceMu.Lock()
	if _, seen := onceSeen[key]; seen {
		onceMu.Unlock()
		return false
	}
	onceSeen[key] = struct{}{}
	onceMu.Unlock()

	defaultLogger.logMessage(level, format, args...)
	return true
}

// ResetOnce сбрасывает ключи Once (используется при перезагрузке ресурсов)
func ResetOnce() {
	onceMu.Lock()
	onceSeen = make(map[string]struct{})
	onceMu.Unlock()
}
