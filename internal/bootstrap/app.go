package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"ventbot/internal/config"
	"ventbot/internal/logger"
	"ventbot/internal/model"
	mysqlClient "ventbot/internal/platform/mysql"
	rabbitmqClient "ventbot/internal/platform/rabbitmq"
	redisClient "ventbot/internal/platform/redis"
	"ventbot/internal/repository"
	"ventbot/internal/security"
	"ventbot/internal/worker"
)

const limiterCleanupInterval = 10 * time.Minute

type App struct {
	Config      *config.Config
	MySQL       *gorm.DB
	Redis       *redis.Client
	MQConn      *amqp.Connection
	AuditWorker *worker.ModerationAuditWorker
	Limiter     *security.RateLimiter

	StartedAt time.Time

	stopCleanup chan struct{}
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}
	logger.Configure(cfg.App.LogLevel)

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(&model.Debate{}, &model.Message{}, &model.ModerationEvent{}); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}

	eventRepo := repository.NewModerationEventRepository(mysqlDB)
	auditWorker := worker.NewModerationAuditWorker(mqConn, eventRepo, cfg.RabbitMQ.ModerationAuditQueue)
	if err := auditWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start audit worker failed: %w", err)
	}

	limiter := security.NewRateLimiter(
		cfg.Security.MaxMessagesPerMinute,
		cfg.Security.MaxMessageLength,
		cfg.Security.BanMinutes,
	)

	app := &App{
		Config:      cfg,
		MySQL:       mysqlDB,
		Redis:       redisCli,
		MQConn:      mqConn,
		AuditWorker: auditWorker,
		Limiter:     limiter,
		StartedAt:   time.Now(),
		stopCleanup: make(chan struct{}),
	}
	go app.cleanupLoop()

	return app, nil
}

func (a *App) cleanupLoop() {
	ticker := time.NewTicker(limiterCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-a.stopCleanup:
			return
		case <-ticker.C:
			a.Limiter.Cleanup(limiterCleanupInterval)
		}
	}
}

func (a *App) Close() error {
	var closeErr error
	close(a.stopCleanup)
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.AuditWorker != nil {
		a.AuditWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
