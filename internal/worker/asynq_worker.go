package worker

import (
	"context"
	"errors"

	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/logger"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/provider"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/queue"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/service"

	"github.com/hibiken/asynq"
)

const expiredSweepBatchSize = 200

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderTimeoutCancel, c.handleOrderTimeoutCancel)
	mux.HandleFunc(queue.TaskOrderExpiredSweep, c.handleOrderExpiredSweep)
}

func (c *Consumer) handleOrderTimeoutCancel(ctx context.Context, task *asynq.Task) error {
	if c == nil || c.Container == nil || c.OrderService == nil || task == nil {
		logger.Debugw("worker_order_timeout_cancel_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseOrderTimeoutCancelPayload(task)
	if err != nil {
		logger.Warnw("worker_order_timeout_cancel_unmarshal_failed", "error", err)
		return nil
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_timeout_cancel_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if err := c.OrderService.CancelExpiredOrder(ctx, payload.OrderID); err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound), errors.Is(err, service.ErrOrderStatusInvalid):
			logger.Debugw("worker_order_timeout_cancel_skip", "order_id", payload.OrderID, "reason", err.Error())
			return nil
		default:
			logger.Warnw("worker_order_timeout_cancel_failed", "order_id", payload.OrderID, "error", err)
			return err
		}
	}
	return nil
}

func (c *Consumer) handleOrderExpiredSweep(ctx context.Context, _ *asynq.Task) error {
	if c == nil || c.Container == nil || c.OrderService == nil {
		logger.Debugw("worker_order_expired_sweep_skip_nil", "consumer_nil", c == nil)
		return nil
	}
	cancelled, err := c.OrderService.SweepExpiredOrders(ctx, expiredSweepBatchSize)
	if err != nil {
		logger.Warnw("worker_order_expired_sweep_failed", "error", err)
		return err
	}
	if cancelled > 0 {
		logger.Infow("worker_order_expired_sweep_done", "cancelled", cancelled)
	}
	return nil
}
