package service

import (
	"context"
	"strings"

	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/constants"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/models"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/repository"
)

// GetOrderByNo 顾客查询订单，已过支付期限的订单在读取时取消
func (s *OrderService) GetOrderByNo(ctx context.Context, orderNo, userID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNo(strings.TrimSpace(orderNo))
	if err != nil {
		return nil, err
	}
	if order == nil || !orderVisibleTo(order, userID) {
		return nil, ErrOrderNotFound
	}
	return s.expireIfDue(ctx, order)
}

// ListUserOrders 顾客订单列表
func (s *OrderService) ListUserOrders(ctx context.Context, userID, status string, page, pageSize int) ([]models.Order, int64, error) {
	if strings.TrimSpace(userID) == "" {
		return []models.Order{}, 0, nil
	}
	orders, total, err := s.orderRepo.ListByUser(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
		Status:   strings.TrimSpace(status),
	})
	if err != nil {
		return nil, 0, err
	}
	for i := range orders {
		refreshed, err := s.expireIfDue(ctx, &orders[i])
		if err != nil {
			return nil, 0, err
		}
		orders[i] = *refreshed
	}
	return orders, total, nil
}

// ListAdminOrders 后台订单列表
func (s *OrderService) ListAdminOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	filter.OrderNo = strings.TrimSpace(filter.OrderNo)
	filter.CustomerEmail = strings.ToLower(strings.TrimSpace(filter.CustomerEmail))
	return s.orderRepo.ListAdmin(filter)
}

// GetAdminOrder 后台订单详情
func (s *OrderService) GetAdminOrder(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return s.expireIfDue(ctx, order)
}

// expireIfDue 队列不可用时的兜底：读取时取消已超时订单
func (s *OrderService) expireIfDue(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.Status != constants.OrderStatusPendingPayment || order.ExpiresAt == nil || order.ExpiresAt.After(s.now()) {
		return order, nil
	}
	if _, err := s.cancelPending(ctx, order, "expired_on_read"); err != nil {
		return nil, err
	}
	return s.reload(order.ID)
}

func (s *OrderService) reload(id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// orderVisibleTo 游客订单凭订单号访问，登录顾客只能访问自己的订单
func orderVisibleTo(order *models.Order, userID string) bool {
	if order.UserID == "" {
		return true
	}
	return order.UserID == strings.TrimSpace(userID)
}
