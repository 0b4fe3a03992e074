package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/annel0/ambient-footsteps/internal/config"
	"github.com/annel0/ambient-footsteps/internal/engine"
	"github.com/annel0/ambient-footsteps/internal/eventbus"
	"github.com/annel0/ambient-footsteps/internal/facade"
	"github.com/annel0/ambient-footsteps/internal/host"
	"github.com/annel0/ambient-footsteps/internal/logging"
	"github.com/annel0/ambient-footsteps/internal/metrics"
	"github.com/annel0/ambient-footsteps/internal/observability"
	"github.com/annel0/ambient-footsteps/internal/simworld"
	"github.com/annel0/ambient-footsteps/internal/storage"
	"github.com/annel0/ambient-footsteps/internal/storage_interface"
	"github.com/annel0/ambient-footsteps/internal/vec"
)

const (
	tickInterval = 50 * time.Millisecond
	worldRadius  = 2
	inspectEvery = 100
)

// logSink звуковая подсистема симулятора: пишет звуки в лог
type logSink struct{}

func (logSink) PlaySound(loc vec.Vec3Float, soundID string, volume, pitch float64, opts host.SoundOptions) {
	logging.Debug("🔊 %s at %v vol=%.2f pitch=%.2f src=%d", soundID, loc, volume, pitch, opts.Source)
}

func main() {
	configPath := flag.String("config", "", "Path to YAML config (default: $FOOTSTEPS_CONFIG)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	// Инициализируем систему логирования
	if err := logging.InitDefaultLogger("footsteps-sim"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()
	logging.SetMinLevel(logging.ParseLevel(cfg.Logging.Level))

	logging.GetLoggerManager().Configure(cfg.Logging.Components)
	defer func() { _ = logging.GetLoggerManager().CloseAll() }()
	simLog := logging.GetSimulatorLogger()
	resLog := logging.GetResourcesLogger()

	logging.Info("👣 Запуск симулятора шагов...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// === ТЕЛЕМЕТРИЯ ===
	if cfg.Telemetry.Enabled {
		shutdown, err := observability.InitTelemetry(ctx, cfg.Telemetry.GetServiceName())
		if err != nil {
			logging.Warn("Трейсинг недоступен: %v", err)
		} else {
			defer func() {
				sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer scancel()
				_ = shutdown(sctx)
			}()
		}
	}

	m := metrics.New()
	if cfg.Metrics.Enabled {
		gin.SetMode(gin.ReleaseMode)
		addr := fmt.Sprintf(":%d", cfg.Metrics.GetMetricsPort())
		srv := m.Serve(addr)
		logging.Info("📈 Метрики: http://localhost%s/metrics", addr)
		defer func() {
			sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer scancel()
			_ = srv.Shutdown(sctx)
		}()
	}

	// === ШИНА СОБЫТИЙ ===
	bus := eventbus.NewMemoryBus(256)
	defer bus.Close()
	eventbus.Init(bus)
	if err := eventbus.StartLoggingListener(bus); err != nil {
		logging.Warn("LoggingListener: %v", err)
	}
	exporter := eventbus.NewMetricsExporter(bus, m.Registry)
	exporter.Start()
	defer exporter.Stop()

	// === МИР ===
	store, err := storage.NewWorldStorage(cfg.Simulator.GetDataDir())
	if err != nil {
		log.Fatalf("❌ Ошибка открытия хранилища мира: %v", err)
	}
	world := loadWorld(simLog, store, cfg.Simulator.Seed)
	world.SetRaining(cfg.Simulator.Raining)
	defer func() {
		if n, err := store.SaveWorld(world); err != nil {
			logging.Error("Ошибка сохранения мира: %v", err)
		} else {
			logging.Info("💾 Сохранено чанков: %d", n)
		}
		_ = store.Close()
	}()

	// === ДВИЖОК ===
	opts, err := engine.OptionsFromConfig(&cfg.Footsteps)
	if err != nil {
		log.Fatalf("❌ Ошибка конфигурации шагов: %v", err)
	}
	opts.Metrics = m
	opts.Facades = []facade.Accessor{facade.NewWorldAccessor("framedblocks", simworld.Framed.Name)}

	eng := engine.New(logSink{}, engine.DirSource(cfg.Footsteps.GetPackDirs()...), opts)
	eng.SetEnabled(cfg.Footsteps.IsEnabled())
	if gen, err := eng.Reload(ctx); err != nil {
		logging.Error("Ошибка загрузки ресурс-паков: %v", err)
	} else {
		logging.Info("📦 Поколение %s: %s", gen.ID, gen.Report)
		logPackFiles(resLog, gen)
	}
	if _, err := eng.Subscribe(ctx, bus); err != nil {
		log.Fatalf("❌ Ошибка подписки движка на события: %v", err)
	}

	walker := newWalker(world, 1)

	// Канал для получения сигналов ОС
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticks := cfg.Simulator.GetTicks()
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	played := 0
	logging.Info("✅ Симуляция: %d тиков, дождь=%v", ticks, cfg.Simulator.Raining)

loop:
	for tick := 1; tick <= ticks; tick++ {
		select {
		case sig := <-sigCh:
			logging.Info("📡 Получен сигнал %v, завершение работы...", sig)
			break loop
		case <-ticker.C:
		}

		walker.Advance()
		played += eng.OnTick(world, walker.Character)

		if tick%inspectEvery == 0 {
			logInspection(simLog, eng.Inspect(world, walker.Ground()))
		}
		if tick == ticks/2 {
			// Проверяем горячую перезагрузку посреди симуляции
			if err := eventbus.Emit(ctx, "footsteps-sim", eventbus.TypeResourceReload, eventbus.ResourceReload{Reason: "simulated"}); err != nil {
				logging.Warn("Не удалось отправить событие перезагрузки: %v", err)
			}
		}
	}

	logging.Info("👋 Симуляция завершена: звуков %d, пройдено %.1f блоков", played, walker.Distance())
}

// loadWorld поднимает сохранённый мир или генерирует новый
func loadWorld(lg *logging.Logger, store storage_interface.WorldStore, seed int64) *simworld.World {
	world := simworld.NewWorld()
	n, err := store.LoadWorld(world)
	if err != nil {
		lg.Warn("Сохранённый мир не прочитан: %v", err)
	}
	if n > 0 {
		lg.Info("🌍 Загружено чанков: %d", n)
		return world
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	world.Populate(simworld.NewGenerator(seed), vec.Vec2{}, worldRadius)
	lg.Info("🌍 Сгенерирован мир, seed=%d", seed)
	return world
}

func logInspection(lg *logging.Logger, in engine.Inspection) {
	lg.Info("🔎 %s: %s -> %s [%s %q]", in.Pos, in.Observed, in.Resolved, in.Association.Provenance, in.Association.Acoustics)
	for sub, assoc := range in.Substrates {
		lg.Info("   +%s: %q", sub, assoc.Acoustics)
	}
	if len(in.Missing) > 0 {
		lg.Warn("   нет звуков в библиотеке: %v", in.Missing)
	}
}

// logPackFiles пишет в журнал ресурсов отчёт по каждому файлу пака
func logPackFiles(lg *logging.Logger, gen *engine.Generation) {
	if gen.Report == nil {
		return
	}
	for _, f := range gen.Report.Files {
		if f.OK() {
			lg.Debug("%s/%s: %d записей", f.Pack, f.File, f.Entries)
		} else {
			lg.Warn("%s/%s: %v", f.Pack, f.File, f.Err)
		}
	}
}
