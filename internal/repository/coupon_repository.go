package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/models"

	"gorm.io/gorm"
)

// CouponRepository 优惠券数据访问接口
type CouponRepository interface {
	GetByID(id uint) (*models.Coupon, error)
	GetByCode(code string) (*models.Coupon, error)
	CodeTaken(code string, excludeID uint) (bool, error)
	Create(coupon *models.Coupon) error
	Update(coupon *models.Coupon) error
	Delete(id uint) error
	List(filter CouponListFilter) ([]models.Coupon, int64, error)
	ReserveUsage(id uint) (bool, error)
	ReleaseUsage(id uint) error
	WithTx(tx *gorm.DB) *GormCouponRepository
	WithContext(ctx context.Context) *GormCouponRepository
}

// GormCouponRepository GORM 实现
type GormCouponRepository struct {
	db *gorm.DB
}

// NewCouponRepository 创建优惠券仓库
func NewCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCouponRepository) WithTx(tx *gorm.DB) *GormCouponRepository {
	if tx == nil {
		return r
	}
	return &GormCouponRepository{db: tx}
}

// WithContext 绑定请求上下文
func (r *GormCouponRepository) WithContext(ctx context.Context) *GormCouponRepository {
	if ctx == nil {
		return r
	}
	return &GormCouponRepository{db: r.db.WithContext(ctx)}
}

// GetByID 根据ID获取优惠券
func (r *GormCouponRepository) GetByID(id uint) (*models.Coupon, error) {
	return firstOrNil[models.Coupon](r.db, id)
}

// GetByCode 根据归一化后的优惠码获取优惠券
func (r *GormCouponRepository) GetByCode(code string) (*models.Coupon, error) {
	return firstOrNil[models.Coupon](r.db.Where("code = ?", code))
}

// CodeTaken 优惠码是否已被占用，包含软删除的记录
func (r *GormCouponRepository) CodeTaken(code string, excludeID uint) (bool, error) {
	query := r.db.Unscoped().Model(&models.Coupon{}).Where("code = ?", code)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create 创建优惠券
func (r *GormCouponRepository) Create(coupon *models.Coupon) error {
	return r.db.Create(coupon).Error
}

// Update 更新优惠券（不覆盖 used_count）
func (r *GormCouponRepository) Update(coupon *models.Coupon) error {
	return r.db.Model(coupon).Select("*").Omit("used_count", "created_at").Updates(coupon).Error
}

// Delete 软删除优惠券，并把优惠码改写为 CODE~id 以便重新创建同名券
//
// 使用记录仍通过 coupon_id 关联到被删除的行。
func (r *GormCouponRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		row, err := firstOrNil[models.Coupon](tx, id)
		if err != nil || row == nil {
			return err
		}
		if err := tx.Model(row).UpdateColumn("code", archivedCouponCode(row.Code, row.ID)).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Coupon{}, id).Error
	})
}

func archivedCouponCode(code string, id uint) string {
	return fmt.Sprintf("%s~%d", code, id)
}

// List 获取优惠券列表
func (r *GormCouponRepository) List(filter CouponListFilter) ([]models.Coupon, int64, error) {
	query := r.db.Model(&models.Coupon{})
	if code := strings.TrimSpace(filter.Code); code != "" {
		query = whereLike(query, strings.ToUpper(code), "code")
	}
	if id := strings.TrimSpace(filter.ApplicableID); id != "" {
		query = query.Where(jsonArrayContainsByDialect(dbDialectName(r.db), "applicable_ids"), id)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.IsPaused != nil {
		query = query.Where("is_paused = ?", *filter.IsPaused)
	}
	return countAndFind[models.Coupon](query, filter.Page, filter.PageSize, "id desc")
}

// ReserveUsage 原子预占一次使用额度
//
// 条件更新同时持有优惠券行锁，返回 false 表示已达总上限。
func (r *GormCouponRepository) ReserveUsage(id uint) (bool, error) {
	result := r.db.Model(&models.Coupon{}).
		Where("id = ?", id).
		Where("(max_uses IS NULL OR used_count < max_uses)").
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ReleaseUsage 释放一次预占额度
func (r *GormCouponRepository) ReleaseUsage(id uint) error {
	return r.db.Model(&models.Coupon{}).
		Where("id = ? AND used_count > 0", id).
		UpdateColumn("used_count", gorm.Expr("used_count - 1")).Error
}
