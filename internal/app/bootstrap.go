package app

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/config"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/logger"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/models"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/provider"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/router"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/worker"

	"gorm.io/gorm"
)

const (
	envDefaultAdminUsername = "AC_DEFAULT_ADMIN_USERNAME"
	envDefaultAdminPassword = "AC_DEFAULT_ADMIN_PASSWORD"
)

// InitDatabase 建立数据库连接并迁移表结构
func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, cfg.Server.Mode == "debug"); err != nil {
		return nil, err
	}
	if err := models.AutoMigrate(); err != nil {
		return nil, err
	}
	return models.DB, nil
}

// EnsureDefaultAdmin 首次启动时按环境变量创建超级管理员
func EnsureDefaultAdmin(ctx context.Context, cfg *config.Config, container *provider.Container) error {
	username := strings.TrimSpace(os.Getenv(envDefaultAdminUsername))
	password := os.Getenv(envDefaultAdminPassword)
	if username == "" {
		username = "admin"
	}
	if password == "" {
		if cfg.Server.Mode == "release" {
			logger.Warnw("app_default_admin_skipped", "reason", "password_env_missing", "env", envDefaultAdminPassword)
			return nil
		}
		password = "admin2026"
	}

	admin, created, err := container.AuthService.EnsureAdmin(ctx, username, password, "", true)
	if err != nil {
		return err
	}
	if created {
		logger.Infow("app_default_admin_created", "admin_id", admin.ID, "username", admin.Username)
	}
	return nil
}

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config, mode string, db *gorm.DB) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	container, err := provider.NewContainer(cfg, db)
	if err != nil {
		return nil, err
	}
	if err := EnsureDefaultAdmin(context.Background(), cfg, container); err != nil {
		logger.Warnw("app_default_admin_failed", "error", err)
	}

	var services []Service

	// 初始化 HTTP 服务
	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		services = append(services, NewHTTPService(cfg.Server, engine))
	}

	// 初始化 Worker 服务（队列未启用时订单超时由读取路径与下次启动兜底）
	if mode == ModeWorker || (mode == ModeAll && cfg.Queue.Enabled) {
		consumer := worker.NewConsumer(container)
		workerService, err := worker.NewService(&cfg.Queue, consumer)
		if err != nil {
			_ = container.Close()
			return nil, err
		}
		services = append(services, workerService)
	}

	if len(services) == 0 {
		_ = container.Close()
		return nil, errors.New("no services initialized (check mode and config)")
	}

	runner := NewRunner(services...)
	runner.OnClose(container.Close)
	return runner, nil
}

// Run 应用启动入口
func Run(opts Options) error {
	if opts.Config == nil {
		return errors.New("config is nil")
	}
	if _, err := ParseMode(opts.Mode); err != nil {
		return err
	}
	opts = normalizeOptions(opts)

	db, err := InitDatabase(opts.Config)
	if err != nil {
		return err
	}

	runner, err := BuildRunner(opts.Config, opts.Mode, db)
	if err != nil {
		return err
	}

	opts.Logger.Infow("app_start", "addr", opts.Config.Server.Addr(), "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}
