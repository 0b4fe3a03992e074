package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации движка шагов и симулятора
type Config struct {
	Footsteps FootstepsConfig `yaml:"footsteps"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Simulator SimulatorConfig `yaml:"simulator"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ProbeConfig одна проверка колонны под ногой
type ProbeConfig struct {
	DY        int    `yaml:"dy"`
	Substrate string `yaml:"substrate"`
}

type FootstepsConfig struct {
	Enabled      *bool         `yaml:"enabled"`
	MasterVolume *float64      `yaml:"master_volume"`
	PackDirs     []string      `yaml:"pack_dirs"`
	Stride       float64       `yaml:"stride"`
	ProbePolicy  []ProbeConfig `yaml:"probe_policy"`
	FootOffset   float64       `yaml:"foot_offset"`
	RainSplash   *bool         `yaml:"rain_splash"`
	ArmorAccents *bool         `yaml:"armor_accents"`
	Foliage      *bool         `yaml:"foliage"`
	LogMissing   bool          `yaml:"log_missing"`
	Seed         int64         `yaml:"seed"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

type SimulatorConfig struct {
	Seed    int64  `yaml:"seed"`
	DataDir string `yaml:"data_dir"`
	Ticks   int    `yaml:"ticks"`
	Raining bool   `yaml:"raining"`
}

type LoggingConfig struct {
	Level      string            `yaml:"level"`
	Components map[string]string `yaml:"components"`
}

// IsEnabled включён ли движок (по умолчанию да)
func (f *FootstepsConfig) IsEnabled() bool {
	return boolOr(f.Enabled, true)
}

// GetMasterVolume общая громкость в диапазоне [0,1], по умолчанию 1
func (f *FootstepsConfig) GetMasterVolume() float64 {
	if f.MasterVolume == nil {
		return 1
	}
	v := *f.MasterVolume
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// GetPackDirs каталоги паков с fallback на FOOTSTEPS_PACKS и "assets/packs"
func (f *FootstepsConfig) GetPackDirs() []string {
	if len(f.PackDirs) > 0 {
		return f.PackDirs
	}
	if env := os.Getenv("FOOTSTEPS_PACKS"); env != "" {
		return []string{env}
	}
	return []string{"assets/packs"}
}

func (f *FootstepsConfig) RainSplashEnabled() bool   { return boolOr(f.RainSplash, true) }
func (f *FootstepsConfig) ArmorAccentsEnabled() bool { return boolOr(f.ArmorAccents, true) }
func (f *FootstepsConfig) FoliageEnabled() bool      { return boolOr(f.Foliage, true) }

// GetMetricsPort возвращает порт метрик с поддержкой fallback значений
func (m *MetricsConfig) GetMetricsPort() int {
	return getPortWithEnvFallback(m.Port, "FOOTSTEPS_METRICS_PORT", 2112)
}

// GetServiceName имя сервиса для трассировки
func (t *TelemetryConfig) GetServiceName() string {
	if t.ServiceName != "" {
		return t.ServiceName
	}
	return "ambient-footsteps"
}

// GetTicks число тиков симуляции, по умолчанию 200
func (s *SimulatorConfig) GetTicks() int {
	if s.Ticks > 0 {
		return s.Ticks
	}
	return 200
}

// GetDataDir каталог данных симулятора
func (s *SimulatorConfig) GetDataDir() string {
	if s.DataDir != "" {
		return s.DataDir
	}
	if env := os.Getenv("FOOTSTEPS_DATA"); env != "" {
		return env
	}
	return "data"
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	// Если порт задан в конфиге и больше 0, используем его
	if configPort > 0 {
		return configPort
	}

	// Пробуем прочитать из environment variable
	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	// Используем дефолтное значение
	return defaultPort
}

// Default конфигурация без файла
func Default() *Config {
	return &Config{}
}

// Load читает YAML файл конфигурации.
// Если path == "", пытается прочитать из ENV FOOTSTEPS_CONFIG или возвращает Default().
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("FOOTSTEPS_CONFIG")
		if path == "" {
			return Default(), nil // конфиг не задан, используем дефолты
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

// Parse разбирает YAML конфигурацию
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("ошибка разбора конфигурации: %w", err)
	}
	if v := cfg.Footsteps.MasterVolume; v != nil && (*v < 0 || *v > 1) {
		return nil, fmt.Errorf("footsteps.master_volume must be in [0,1], got %v", *v)
	}
	for i, p := range cfg.Footsteps.ProbePolicy {
		if p.DY < -2 || p.DY > 2 {
			return nil, fmt.Errorf("footsteps.probe_policy[%d]: dy %d out of range", i, p.DY)
		}
	}
	return &cfg, nil
}
