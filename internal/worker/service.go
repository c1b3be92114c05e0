package worker

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/config"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/logger"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	defaultSweepCron = "@every 5m"
	sweepUniqueTTL   = 4 * time.Minute
)

// Service 异步队列服务
type Service struct {
	name      string
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
	consumer  *Consumer
	sweepCron string
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	sweepCron := strings.TrimSpace(cfg.SweepCron)
	if sweepCron == "" {
		sweepCron = defaultSweepCron
	}
	return &Service{
		name:      "worker",
		server:    server,
		scheduler: asynq.NewScheduler(opt, &asynq.SchedulerOpts{}),
		mux:       mux,
		consumer:  consumer,
		sweepCron: sweepCron,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务，同时注册过期订单兜底扫描
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if err := s.startSweepScheduler(); err != nil {
		logger.Warnw("worker_sweep_scheduler_start_failed", "cron", s.sweepCron, "error", err)
	}
	_ = ctx
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	if s.scheduler != nil {
		s.scheduler.Shutdown()
	}
	s.server.Shutdown()
	return nil
}

func (s *Service) startSweepScheduler() error {
	if s.scheduler == nil {
		return nil
	}
	entryID, err := s.scheduler.Register(
		s.sweepCron,
		queue.NewOrderExpiredSweepTask(),
		asynq.Queue(queue.DefaultQueue),
		asynq.Unique(sweepUniqueTTL),
		asynq.MaxRetry(1),
	)
	if err != nil {
		return err
	}
	logger.Infow("worker_sweep_scheduled", "cron", s.sweepCron, "entry_id", entryID)
	return s.scheduler.Start()
}
