package app

import (
	"context"
	"net/http"
	"time"

	"github.com/iwtcode/robotAdapter/internal/adapters/handlers"
	"github.com/iwtcode/robotAdapter/internal/adapters/repositories/memory"
	"github.com/iwtcode/robotAdapter/internal/adapters/repositories/posfile"
	"github.com/iwtcode/robotAdapter/internal/adapters/repositories/postgres"
	"github.com/iwtcode/robotAdapter/internal/adapters/tcpserver"
	"github.com/iwtcode/robotAdapter/internal/config"
	"github.com/iwtcode/robotAdapter/internal/interfaces"
	"github.com/iwtcode/robotAdapter/internal/middleware/logging"
	"github.com/iwtcode/robotAdapter/internal/services/kafka"
	"github.com/iwtcode/robotAdapter/internal/services/robot_service"
	"github.com/iwtcode/robotAdapter/internal/usecases"

	"go.uber.org/fx"
)

// New создает новый экземпляр fx.App
func New() *fx.App {
	return fx.New(
		ConfigModule,
		LoggingModule,
		JournalModule,
		ProducerModule,
		PositionsModule,
		RobotModule,
		UsecaseModule,
		HttpServerModule,
		CommandServerModule,
		// Invoke-функции для запуска фоновых задач и хуков жизненного цикла
		fx.Invoke(InvokeConnectRobot),
	)
}

// --- Модули FX ---

var ConfigModule = fx.Module("config_module",
	fx.Provide(config.LoadConfiguration),
)

func ProvideLogger(cfg *config.AppConfig) *logging.Logger {
	loggerCfg := &logging.Config{
		Enabled:    cfg.Logging.Enable,
		Level:      cfg.Logging.Level,
		LogsDir:    cfg.Logging.LogsDir,
		SavingDays: uint(cfg.Logging.SavingDays),
	}
	return logging.NewLogger(loggerCfg, "RobotAdapter")
}

var LoggingModule = fx.Module("logging_module",
	fx.Provide(ProvideLogger),
)

// ProvideJournal выбирает журнал команд: Postgres либо кольцевой буфер
// в памяти, если база отключена конфигурацией.
func ProvideJournal(cfg *config.AppConfig, logger *logging.Logger) (interfaces.CommandJournal, error) {
	if cfg.Database.Enable {
		return postgres.NewRepository(cfg, logger)
	}
	logger.Info("Database disabled, using in-memory command journal")
	return memory.NewJournal(), nil
}

var JournalModule = fx.Module("journal_module",
	fx.Provide(ProvideJournal),
)

// ProvideProducer выбирает продюсера телеметрии: Kafka либо заглушка,
// если телеметрия отключена конфигурацией.
func ProvideProducer(cfg *config.AppConfig, logger *logging.Logger) (interfaces.EventProducer, error) {
	if cfg.Kafka.Enable {
		return kafka.NewKafkaProducer(cfg)
	}
	logger.Info("Kafka disabled, telemetry events are dropped")
	return kafka.NewNoopProducer(), nil
}

var ProducerModule = fx.Module("producer_module",
	fx.Provide(ProvideProducer),
)

func ProvidePoseStore(cfg *config.AppConfig, logger *logging.Logger) (interfaces.PoseStore, error) {
	return posfile.Load(cfg.PositionsFile, logger)
}

var PositionsModule = fx.Module("positions_module",
	fx.Provide(ProvidePoseStore),
)

var RobotModule = fx.Module("robot_module",
	fx.Provide(
		robot_service.NewMotionDialer,
		robot_service.NewGripperLink,
		robot_service.NewRobotService,
	),
)

var UsecaseModule = fx.Module("usecases_module",
	fx.Provide(usecases.NewUsecases),
)

var HttpServerModule = fx.Module("http_server_module",
	fx.Provide(
		handlers.NewHandler,
		handlers.ProvideRouter,
	),
	fx.Invoke(InvokeHttpServer),
)

var CommandServerModule = fx.Module("command_server_module",
	fx.Provide(tcpserver.NewServer),
	fx.Invoke(InvokeCommandServer),
)

// InvokeConnectRobot устанавливает motion-линк при старте. Недоступный
// робот фатален только при REQUIRE_ROBOT: иначе сессия остается в
// FAULTED, и первая команда запустит восстановление.
func InvokeConnectRobot(lc fx.Lifecycle, cfg *config.AppConfig, robotSvc interfaces.RobotService, logger *logging.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Connecting to robot...", "host", cfg.Robot.Host)
			if err := robotSvc.Connect(); err != nil {
				if cfg.Robot.RequireRobot {
					logger.Error("FATAL: robot is unreachable", "error", err)
					return err
				}
				logger.Warn("Robot is unreachable, session stays faulted", "error", err)
				return nil
			}
			logger.Info("Robot connected")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			robotSvc.Shutdown()
			return nil
		},
	})
}

// InvokeCommandServer запускает командный TCP-сервер.
func InvokeCommandServer(lc fx.Lifecycle, srv *tcpserver.Server, logger *logging.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return srv.Start()
		},
		OnStop: func(ctx context.Context) error {
			srv.Stop()
			return nil
		},
	})
}

// InvokeHttpServer запускает HTTP-сервер.
func InvokeHttpServer(lc fx.Lifecycle, cfg *config.AppConfig, h http.Handler, logger *logging.Logger) {
	serverAddr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      h,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("HTTP Server is starting", "address", serverAddr)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("Failed to start server", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server...")
			return server.Shutdown(ctx)
		},
	})
}
