package queue

import (
	"encoding/json"

	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderTimeoutCancel 超时取消任务
	TaskOrderTimeoutCancel = constants.TaskOrderTimeoutCancel
	// TaskOrderExpiredSweep 过期订单兜底扫描任务
	TaskOrderExpiredSweep = constants.TaskOrderExpiredSweep
)

// OrderTimeoutCancelPayload 超时取消任务载荷
type OrderTimeoutCancelPayload struct {
	OrderID uint `json:"order_id"`
}

// NewOrderTimeoutCancelTask 创建超时取消任务
func NewOrderTimeoutCancelTask(payload OrderTimeoutCancelPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderTimeoutCancel, body), nil
}

// ParseOrderTimeoutCancelPayload 解析超时取消任务载荷
func ParseOrderTimeoutCancelPayload(task *asynq.Task) (OrderTimeoutCancelPayload, error) {
	var payload OrderTimeoutCancelPayload
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}

// NewOrderExpiredSweepTask 创建过期订单扫描任务
func NewOrderExpiredSweepTask() *asynq.Task {
	return asynq.NewTask(TaskOrderExpiredSweep, nil)
}
