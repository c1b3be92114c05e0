package service

import (
	"context"
	"strings"
	"time"

	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/constants"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/logger"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/models"

	"gorm.io/gorm"
)

var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusPendingPayment: {
		constants.OrderStatusPaid:     true,
		constants.OrderStatusCanceled: true,
	},
	constants.OrderStatusPaid: {
		constants.OrderStatusProcessing: true,
		constants.OrderStatusShipped:    true,
	},
	constants.OrderStatusProcessing: {
		constants.OrderStatusShipped: true,
	},
	constants.OrderStatusShipped: {
		constants.OrderStatusDelivered: true,
	},
}

// CanTransition 判断订单状态流转是否合法
func CanTransition(from, to string) bool {
	return allowedTransitions[from][to]
}

// CancelOrder 顾客取消未支付订单
func (s *OrderService) CancelOrder(ctx context.Context, orderNo, userID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNo(strings.TrimSpace(orderNo))
	if err != nil {
		return nil, err
	}
	if order == nil || !orderVisibleTo(order, userID) {
		return nil, ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusPendingPayment {
		return nil, ErrOrderNotCancelable
	}
	canceled, err := s.cancelPending(ctx, order, "shopper")
	if err != nil {
		return nil, err
	}
	if !canceled {
		return nil, ErrOrderNotCancelable
	}
	return s.reload(order.ID)
}

// CancelExpiredOrder 超时任务入口，仅取消已过支付期限的待支付订单
func (s *OrderService) CancelExpiredOrder(ctx context.Context, orderID uint) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil || order.Status != constants.OrderStatusPendingPayment {
		return nil
	}
	if order.ExpiresAt == nil || order.ExpiresAt.After(s.now()) {
		return nil
	}
	_, err = s.cancelPending(ctx, order, "timeout")
	return err
}

// SweepExpiredOrders 批量取消已超时的待支付订单，返回取消数量
func (s *OrderService) SweepExpiredOrders(ctx context.Context, limit int) (int, error) {
	orders, err := s.orderRepo.ListExpiredPending(s.now(), limit)
	if err != nil {
		return 0, err
	}
	canceled := 0
	for i := range orders {
		ok, err := s.cancelPending(ctx, &orders[i], "sweep")
		if err != nil {
			return canceled, err
		}
		if ok {
			canceled++
		}
	}
	return canceled, nil
}

// UpdateStatus 后台更新订单状态
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, target string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	target = strings.ToLower(strings.TrimSpace(target))
	if target == order.Status {
		return order, nil
	}
	if !CanTransition(order.Status, target) {
		return nil, ErrOrderStatusInvalid
	}

	var ok bool
	switch target {
	case constants.OrderStatusCanceled:
		ok, err = s.cancelPending(ctx, order, "admin")
	case constants.OrderStatusPaid:
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var txErr error
			ok, txErr = s.markPaidTx(tx, order.ID, s.now())
			return txErr
		})
	default:
		ok, err = s.orderRepo.UpdateStatus(order.ID, order.Status, target, nil)
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrOrderStatusInvalid
	}
	logger.FromContext(ctx).Infow("order_status_updated",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"from", order.Status,
		"to", target,
	)
	return s.reload(order.ID)
}

// markPaidTx 在事务内将待支付订单置为已支付
func (s *OrderService) markPaidTx(tx *gorm.DB, orderID uint, paidAt time.Time) (bool, error) {
	return s.orderRepo.WithTx(tx).UpdateStatus(orderID, constants.OrderStatusPendingPayment, constants.OrderStatusPaid, map[string]interface{}{
		"paid_at": paidAt,
	})
}

// cancelPending 取消待支付订单并在同一事务内释放库存与优惠券预占
func (s *OrderService) cancelPending(ctx context.Context, order *models.Order, reason string) (bool, error) {
	now := s.now()
	canceled := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := s.orderRepo.WithTx(tx).UpdateStatus(order.ID, constants.OrderStatusPendingPayment, constants.OrderStatusCanceled, map[string]interface{}{
			"canceled_at": now,
		})
		if err != nil || !ok {
			return err
		}
		canceled = true
		if err := s.releaseCoupon(tx, order); err != nil {
			return err
		}
		productRepo := s.productRepo.WithTx(tx)
		for _, item := range order.Items {
			if err := productRepo.ReleaseStock(item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.FromContext(ctx).Errorw("order_cancel_failed",
			"order_id", order.ID,
			"order_no", order.OrderNo,
			"reason", reason,
			"error", err,
		)
		return false, err
	}
	if canceled {
		logger.FromContext(ctx).Infow("order_canceled",
			"order_id", order.ID,
			"order_no", order.OrderNo,
			"reason", reason,
			"coupon_code", order.CouponCode,
		)
	}
	return canceled, nil
}

// releaseCoupon 删除使用记录并归还一次额度
func (s *OrderService) releaseCoupon(tx *gorm.DB, order *models.Order) error {
	if order.CouponID == nil {
		return nil
	}
	deleted, err := s.usageRepo.WithTx(tx).DeleteByOrderID(order.ID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return nil
	}
	return s.couponRepo.WithTx(tx).ReleaseUsage(*order.CouponID)
}
