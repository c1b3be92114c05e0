package repository

import (
	"fmt"
	"time"

	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/constants"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/models"

	"gorm.io/gorm"
)

// DashboardRepository 仪表盘聚合查询接口
// 说明：仅聚合统计数据，不承载业务规则。
type DashboardRepository interface {
	GetOverview(startAt, endAt time.Time) (DashboardOverviewRow, error)
	GetOrderTrends(startAt, endAt time.Time) ([]DashboardOrderTrendRow, error)
	GetTopCoupons(startAt, endAt time.Time, limit int) ([]DashboardCouponRankingRow, error)
	GetLowStockProducts(threshold, limit int) ([]models.Product, error)
}

// DashboardOverviewRow 总览统计
type DashboardOverviewRow struct {
	OrdersTotal          int64
	PendingPaymentOrders int64
	PaidOrders           int64
	ShippedOrders        int64
	CanceledOrders       int64
	RevenuePaid          float64
	CouponRedemptions    int64
	CouponDiscountTotal  float64
	ActiveProducts       int64
	ActiveCoupons        int64
}

// DashboardOrderTrendRow 订单趋势
type DashboardOrderTrendRow struct {
	Day         string
	OrdersTotal int64
	OrdersPaid  int64
	Revenue     float64
}

// DashboardCouponRankingRow 优惠券排行
type DashboardCouponRankingRow struct {
	CouponID      uint
	Code          string
	Redemptions   int64
	DiscountTotal float64
}

// GormDashboardRepository GORM 仪表盘聚合实现
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository 创建仪表盘仓库
func NewDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

func paidOrderStatuses() []string {
	return []string{
		constants.OrderStatusPaid,
		constants.OrderStatusProcessing,
		constants.OrderStatusShipped,
		constants.OrderStatusDelivered,
	}
}

// GetOverview 获取总览统计
func (r *GormDashboardRepository) GetOverview(startAt, endAt time.Time) (DashboardOverviewRow, error) {
	result := DashboardOverviewRow{}
	orderBase := func() *gorm.DB {
		return r.db.Model(&models.Order{}).Where("created_at >= ? AND created_at < ?", startAt, endAt)
	}

	counts := []struct {
		dest   *int64
		status []string
	}{
		{&result.OrdersTotal, nil},
		{&result.PendingPaymentOrders, []string{constants.OrderStatusPendingPayment}},
		{&result.PaidOrders, paidOrderStatuses()},
		{&result.ShippedOrders, []string{constants.OrderStatusShipped, constants.OrderStatusDelivered}},
		{&result.CanceledOrders, []string{constants.OrderStatusCanceled}},
	}
	for _, item := range counts {
		query := orderBase()
		if item.status != nil {
			query = query.Where("status IN ?", item.status)
		}
		if err := query.Count(item.dest).Error; err != nil {
			return result, err
		}
	}

	if err := r.db.Model(&models.Order{}).
		Where("paid_at IS NOT NULL AND paid_at >= ? AND paid_at < ? AND status IN ?", startAt, endAt, paidOrderStatuses()).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&result.RevenuePaid).Error; err != nil {
		return result, err
	}

	usageBase := r.db.Model(&models.CouponUsage{}).Where("created_at >= ? AND created_at < ?", startAt, endAt)
	if err := usageBase.Session(&gorm.Session{}).Count(&result.CouponRedemptions).Error; err != nil {
		return result, err
	}
	if err := usageBase.Session(&gorm.Session{}).
		Select("COALESCE(SUM(discount_amount), 0)").
		Scan(&result.CouponDiscountTotal).Error; err != nil {
		return result, err
	}

	if err := r.db.Model(&models.Product{}).Where("is_active = ?", true).Count(&result.ActiveProducts).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Coupon{}).
		Where("is_active = ? AND is_paused = ? AND valid_until >= ?", true, false, endAt).
		Count(&result.ActiveCoupons).Error; err != nil {
		return result, err
	}
	return result, nil
}

// GetOrderTrends 按日统计订单与收入
func (r *GormDashboardRepository) GetOrderTrends(startAt, endAt time.Time) ([]DashboardOrderTrendRow, error) {
	type row struct {
		Day     string
		Total   int64
		Paid    int64
		Revenue float64
	}
	dayExpr := dayExprByDialect(dbDialectName(r.db), "created_at")
	paidIn := "status IN ?"

	var rows []row
	if err := r.db.Model(&models.Order{}).
		Select(fmt.Sprintf(
			"%s AS day, COUNT(*) AS total, SUM(CASE WHEN %s THEN 1 ELSE 0 END) AS paid, COALESCE(SUM(CASE WHEN %s THEN total_amount ELSE 0 END), 0) AS revenue",
			dayExpr, paidIn, paidIn,
		), paidOrderStatuses(), paidOrderStatuses()).
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Group(dayExpr).
		Order("day asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]DashboardOrderTrendRow, 0, len(rows))
	for _, item := range rows {
		result = append(result, DashboardOrderTrendRow{
			Day:         item.Day,
			OrdersTotal: item.Total,
			OrdersPaid:  item.Paid,
			Revenue:     item.Revenue,
		})
	}
	return result, nil
}

// GetTopCoupons 按核销次数排序的优惠券
func (r *GormDashboardRepository) GetTopCoupons(startAt, endAt time.Time, limit int) ([]DashboardCouponRankingRow, error) {
	if limit <= 0 {
		limit = 5
	}
	rows := make([]DashboardCouponRankingRow, 0)
	err := r.db.Table("coupon_usages").
		Select("coupon_usages.coupon_id AS coupon_id, coupons.code AS code, COUNT(*) AS redemptions, COALESCE(SUM(coupon_usages.discount_amount), 0) AS discount_total").
		Joins("JOIN coupons ON coupons.id = coupon_usages.coupon_id").
		Where("coupon_usages.created_at >= ? AND coupon_usages.created_at < ?", startAt, endAt).
		Group("coupon_usages.coupon_id, coupons.code").
		Order("redemptions DESC, discount_total DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// GetLowStockProducts 库存低于阈值的在售商品
func (r *GormDashboardRepository) GetLowStockProducts(threshold, limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = 10
	}
	products := make([]models.Product, 0)
	if err := r.db.Where("is_active = ? AND stock_quantity <= ?", true, threshold).
		Order("stock_quantity asc, id asc").
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
