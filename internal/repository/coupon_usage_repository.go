package repository

import (
	"context"

	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/models"

	"gorm.io/gorm"
)

// CouponUsageRepository 优惠券使用记录数据访问接口
type CouponUsageRepository interface {
	Create(usage *models.CouponUsage) error
	CountByCoupon(couponID uint) (int64, error)
	CountByUser(couponID uint, userID string) (int64, error)
	GetByOrderID(orderID uint) (*models.CouponUsage, error)
	List(filter CouponUsageListFilter) ([]models.CouponUsage, int64, error)
	DeleteByOrderID(orderID uint) (int64, error)
	WithTx(tx *gorm.DB) *GormCouponUsageRepository
	WithContext(ctx context.Context) *GormCouponUsageRepository
}

// GormCouponUsageRepository GORM 实现
type GormCouponUsageRepository struct {
	db *gorm.DB
}

// NewCouponUsageRepository 创建优惠券使用记录仓库
func NewCouponUsageRepository(db *gorm.DB) *GormCouponUsageRepository {
	return &GormCouponUsageRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCouponUsageRepository) WithTx(tx *gorm.DB) *GormCouponUsageRepository {
	if tx == nil {
		return r
	}
	return &GormCouponUsageRepository{db: tx}
}

// WithContext 绑定请求上下文
func (r *GormCouponUsageRepository) WithContext(ctx context.Context) *GormCouponUsageRepository {
	if ctx == nil {
		return r
	}
	return &GormCouponUsageRepository{db: r.db.WithContext(ctx)}
}

// Create 写入使用记录
func (r *GormCouponUsageRepository) Create(usage *models.CouponUsage) error {
	return r.db.Create(usage).Error
}

// CountByCoupon 统计优惠券总使用次数
func (r *GormCouponUsageRepository) CountByCoupon(couponID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.CouponUsage{}).Where("coupon_id = ?", couponID).Count(&count).Error
	return count, err
}

// CountByUser 统计用户使用次数
func (r *GormCouponUsageRepository) CountByUser(couponID uint, userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.CouponUsage{}).
		Where("coupon_id = ? AND user_id = ?", couponID, userID).
		Count(&count).Error
	return count, err
}

// GetByOrderID 获取订单对应的使用记录
func (r *GormCouponUsageRepository) GetByOrderID(orderID uint) (*models.CouponUsage, error) {
	return firstOrNil[models.CouponUsage](r.db.Where("order_id = ?", orderID))
}

// List 使用记录列表
func (r *GormCouponUsageRepository) List(filter CouponUsageListFilter) ([]models.CouponUsage, int64, error) {
	query := r.db.Model(&models.CouponUsage{})
	if filter.CouponID != 0 {
		query = query.Where("coupon_id = ?", filter.CouponID)
	}
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	return countAndFind[models.CouponUsage](query, filter.Page, filter.PageSize, "id desc")
}

// DeleteByOrderID 删除订单使用记录，返回删除条数
//
// 仅在未支付订单取消或超时时调用，作为释放券预占的一部分；已支付订单的记录永不删除。
func (r *GormCouponUsageRepository) DeleteByOrderID(orderID uint) (int64, error) {
	result := r.db.Where("order_id = ?", orderID).Delete(&models.CouponUsage{})
	return result.RowsAffected, result.Error
}
