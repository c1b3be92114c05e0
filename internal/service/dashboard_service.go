package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/cache"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/constants"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/logger"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	dashboardCacheTTL       = 45 * time.Second
	dashboardMaxRangeDays   = 90
	dashboardLowStockAmount = 3
)

// DashboardService 仪表盘服务
// 说明：聚合后台首页核心经营数据。
type DashboardService struct {
	repo     repository.DashboardRepository
	cache    *cache.Store
	currency string
	now      func() time.Time
}

// NewDashboardService 创建仪表盘服务
func NewDashboardService(repo repository.DashboardRepository, store *cache.Store, currency string) *DashboardService {
	return &DashboardService{repo: repo, cache: store, currency: currency, now: time.Now}
}

// DashboardQueryInput 仪表盘查询输入
type DashboardQueryInput struct {
	Range        string
	From         *time.Time
	To           *time.Time
	ForceRefresh bool
}

// DashboardOverview 仪表盘总览
type DashboardOverview struct {
	Range      string                `json:"range"`
	From       string                `json:"from"`
	To         string                `json:"to"`
	Currency   string                `json:"currency"`
	KPI        DashboardKPI          `json:"kpi"`
	Trends     []DashboardTrendPoint `json:"trends"`
	TopCoupons []DashboardCouponRank `json:"top_coupons"`
	LowStock   []DashboardStockAlert `json:"low_stock"`
}

// DashboardKPI 仪表盘核心指标
type DashboardKPI struct {
	OrdersTotal          int64  `json:"orders_total"`
	PendingPaymentOrders int64  `json:"pending_payment_orders"`
	PaidOrders           int64  `json:"paid_orders"`
	ShippedOrders        int64  `json:"shipped_orders"`
	CanceledOrders       int64  `json:"canceled_orders"`
	RevenuePaid          string `json:"revenue_paid"`
	CouponRedemptions    int64  `json:"coupon_redemptions"`
	CouponDiscountTotal  string `json:"coupon_discount_total"`
	ActiveProducts       int64  `json:"active_products"`
	ActiveCoupons        int64  `json:"active_coupons"`
}

// DashboardTrendPoint 日趋势
type DashboardTrendPoint struct {
	Day        string `json:"day"`
	OrdersAll  int64  `json:"orders_total"`
	OrdersPaid int64  `json:"orders_paid"`
	Revenue    string `json:"revenue"`
}

// DashboardCouponRank 优惠券排行
type DashboardCouponRank struct {
	CouponID      uint   `json:"coupon_id"`
	Code          string `json:"code"`
	Redemptions   int64  `json:"redemptions"`
	DiscountTotal string `json:"discount_total"`
}

// DashboardStockAlert 低库存提醒
type DashboardStockAlert struct {
	ProductID     uint   `json:"product_id"`
	Name          string `json:"name"`
	StockQuantity int    `json:"stock_quantity"`
}

// GetOverview 获取总览，结果短暂缓存
func (s *DashboardService) GetOverview(ctx context.Context, input DashboardQueryInput) (*DashboardOverview, error) {
	rangeKey, startAt, endAt, err := s.resolveRange(input)
	if err != nil {
		return nil, err
	}
	cacheKey := fmt.Sprintf("%s%s:%d:%d", constants.CacheKeyDashboardOverview, rangeKey, startAt.Unix(), endAt.Unix())
	if !input.ForceRefresh {
		var cached DashboardOverview
		hit, err := s.cache.GetJSON(ctx, cacheKey, &cached)
		if err != nil {
			logger.FromContext(ctx).Warnw("dashboard_cache_get_failed", "key", cacheKey, "error", err)
		} else if hit {
			return &cached, nil
		}
	}

	row, err := s.repo.GetOverview(startAt, endAt)
	if err != nil {
		return nil, err
	}
	trends, err := s.repo.GetOrderTrends(startAt, endAt)
	if err != nil {
		return nil, err
	}
	coupons, err := s.repo.GetTopCoupons(startAt, endAt, 5)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.repo.GetLowStockProducts(dashboardLowStockAmount, 10)
	if err != nil {
		return nil, err
	}

	overview := &DashboardOverview{
		Range:    rangeKey,
		From:     startAt.Format(time.RFC3339),
		To:       endAt.Format(time.RFC3339),
		Currency: s.currency,
		KPI: DashboardKPI{
			OrdersTotal:          row.OrdersTotal,
			PendingPaymentOrders: row.PendingPaymentOrders,
			PaidOrders:           row.PaidOrders,
			ShippedOrders:        row.ShippedOrders,
			CanceledOrders:       row.CanceledOrders,
			RevenuePaid:          formatAmount(row.RevenuePaid),
			CouponRedemptions:    row.CouponRedemptions,
			CouponDiscountTotal:  formatAmount(row.CouponDiscountTotal),
			ActiveProducts:       row.ActiveProducts,
			ActiveCoupons:        row.ActiveCoupons,
		},
		Trends:     make([]DashboardTrendPoint, 0, len(trends)),
		TopCoupons: make([]DashboardCouponRank, 0, len(coupons)),
		LowStock:   make([]DashboardStockAlert, 0, len(lowStock)),
	}
	for _, item := range trends {
		overview.Trends = append(overview.Trends, DashboardTrendPoint{
			Day:        item.Day,
			OrdersAll:  item.OrdersTotal,
			OrdersPaid: item.OrdersPaid,
			Revenue:    formatAmount(item.Revenue),
		})
	}
	for _, item := range coupons {
		overview.TopCoupons = append(overview.TopCoupons, DashboardCouponRank{
			CouponID:      item.CouponID,
			Code:          item.Code,
			Redemptions:   item.Redemptions,
			DiscountTotal: formatAmount(item.DiscountTotal),
		})
	}
	for _, product := range lowStock {
		overview.LowStock = append(overview.LowStock, DashboardStockAlert{
			ProductID:     product.ID,
			Name:          product.Name,
			StockQuantity: product.StockQuantity,
		})
	}

	if err := s.cache.SetJSON(ctx, cacheKey, overview, dashboardCacheTTL); err != nil {
		logger.FromContext(ctx).Warnw("dashboard_cache_set_failed", "key", cacheKey, "error", err)
	}
	return overview, nil
}

func (s *DashboardService) resolveRange(input DashboardQueryInput) (string, time.Time, time.Time, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := today.AddDate(0, 0, 1)
	switch strings.ToLower(strings.TrimSpace(input.Range)) {
	case "", "7d":
		return "7d", today.AddDate(0, 0, -6), tomorrow, nil
	case "today":
		return "today", today, tomorrow, nil
	case "30d":
		return "30d", today.AddDate(0, 0, -29), tomorrow, nil
	case "custom":
		if input.From == nil || input.To == nil || !input.To.After(*input.From) {
			return "", time.Time{}, time.Time{}, ErrRangeInvalid
		}
		if input.To.Sub(*input.From) > dashboardMaxRangeDays*24*time.Hour {
			return "", time.Time{}, time.Time{}, ErrRangeInvalid
		}
		return "custom", *input.From, *input.To, nil
	default:
		return "", time.Time{}, time.Time{}, ErrRangeInvalid
	}
}

func formatAmount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
