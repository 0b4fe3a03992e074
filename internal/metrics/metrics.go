// Package metrics метрики Prometheus движка шагов
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/annel0/ambient-footsteps/internal/logging"
	"github.com/annel0/ambient-footsteps/internal/middleware"
)

// Metrics счётчики и датчики движка
type Metrics struct {
	Registry *prometheus.Registry

	Steps          *prometheus.CounterVec
	SoundsPlayed   prometheus.Counter
	MissingSounds  *prometheus.CounterVec
	NotFound       prometheus.Counter
	Recovered      prometheus.Counter
	Reloads        *prometheus.CounterVec
	ReloadDuration prometheus.Histogram
	RegistrySize   *prometheus.GaugeVec
	PendingSounds  prometheus.Gauge
}

// New создаёт метрики в собственном реестре
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "footsteps",
			Name:      "steps_total",
			Help:      "Шаги, обработанные решателем, по типу события.",
		}, []string{"event"}),
		SoundsPlayed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "footsteps",
			Name:      "sounds_played_total",
			Help:      "Звуки, переданные звуковой подсистеме.",
		}),
		MissingSounds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "footsteps",
			Name:      "acoustics_missing_total",
			Help:      "Обращения к незарегистрированным звукам.",
		}, []string{"acoustic"}),
		NotFound: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "footsteps",
			Name:      "lookups_not_found_total",
			Help:      "Шаги, для которых не нашлось соответствия блока.",
		}),
		Recovered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "footsteps",
			Name:      "recovered_panics_total",
			Help:      "Подавленные паники в тике движка.",
		}),
		Reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "footsteps",
			Name:      "reloads_total",
			Help:      "Перезагрузки ресурсов по результату.",
		}, []string{"result"}),
		ReloadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "footsteps",
			Name:      "reload_duration_seconds",
			Help:      "Длительность сборки поколения ресурсов.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		RegistrySize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "footsteps",
			Name:      "registry_entries",
			Help:      "Размер карт текущего поколения.",
		}, []string{"map"}),
		PendingSounds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "footsteps",
			Name:      "pending_sounds",
			Help:      "Отложенные звуки в очереди.",
		}),
	}

	m.Registry.MustRegister(
		m.Steps, m.SoundsPlayed, m.MissingSounds, m.NotFound, m.Recovered,
		m.Reloads, m.ReloadDuration, m.RegistrySize, m.PendingSounds,
	)
	return m
}

// SoundPlayed реализует acoustics.Observer
func (m *Metrics) SoundPlayed(string) {
	m.SoundsPlayed.Inc()
}

// AcousticMissing реализует acoustics.Observer
func (m *Metrics) AcousticMissing(name string) {
	m.MissingSounds.WithLabelValues(name).Inc()
}

// Handler gin-роутер с /metrics и /healthz. Регистрирует HTTP-метрики, вызывать один раз.
func (m *Metrics) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), otelgin.Middleware("footsteps-metrics"))
	r.Use(middleware.NewRequestLogger().Handler())

	pm := middleware.NewPrometheusMiddleware("footsteps", m.Registry)
	r.Use(pm.Handler())
	pm.RegisterMetricsEndpoint(r, m.Registry)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

// Server HTTP-эндпоинт /metrics
type Server struct {
	srv *http.Server
}

// Serve запускает HTTP-эндпоинт Prometheus на указанном адресе (например, ":2112").
// Метод неблокирующий: HTTP-сервер стартует в отдельной горутине.
func (m *Metrics) Serve(addr string) *Server {
	s := &Server{srv: &http.Server{Addr: addr, Handler: m.Handler(), ReadHeaderTimeout: 5 * time.Second}}
	go func() {
		logging.Info("Prometheus /metrics доступен по адресу %s", addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Ошибка Prometheus HTTP сервера: %v", err)
		}
	}()
	return s
}

// Shutdown останавливает HTTP-сервер
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
