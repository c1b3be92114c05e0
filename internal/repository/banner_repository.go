package repository

import (
	"time"

	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/models"

	"gorm.io/gorm"
)

// BannerRepository Banner 数据访问接口
type BannerRepository interface {
	List(filter BannerListFilter) ([]models.Banner, int64, error)
	ListValid(limit int, now time.Time) ([]models.Banner, error)
	GetByID(id uint) (*models.Banner, error)
	Create(banner *models.Banner) error
	Update(banner *models.Banner) error
	Delete(id uint) error
}

// GormBannerRepository GORM 实现
type GormBannerRepository struct {
	db *gorm.DB
}

// NewBannerRepository 创建 Banner 仓库
func NewBannerRepository(db *gorm.DB) *GormBannerRepository {
	return &GormBannerRepository{db: db}
}

func validWindow(query *gorm.DB, now time.Time) *gorm.DB {
	return query.Where("is_active = ?", true).
		Where("(start_at IS NULL OR start_at <= ?)", now).
		Where("(end_at IS NULL OR end_at >= ?)", now)
}

// List 后台 Banner 列表
func (r *GormBannerRepository) List(filter BannerListFilter) ([]models.Banner, int64, error) {
	query := r.db.Model(&models.Banner{})
	query = whereLike(query, filter.Search, "title", "subtitle")
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.OnlyValid {
		now := filter.Now
		if now.IsZero() {
			now = time.Now()
		}
		query = validWindow(query, now)
	}
	return countAndFind[models.Banner](query, filter.Page, filter.PageSize, "sort_order DESC, id DESC")
}

// ListValid 当前生效的 Banner
func (r *GormBannerRepository) ListValid(limit int, now time.Time) ([]models.Banner, error) {
	rows := make([]models.Banner, 0)
	query := validWindow(r.db.Model(&models.Banner{}), now).Order("sort_order DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetByID 获取 Banner
func (r *GormBannerRepository) GetByID(id uint) (*models.Banner, error) {
	return firstOrNil[models.Banner](r.db, id)
}

// Create 创建 Banner
func (r *GormBannerRepository) Create(banner *models.Banner) error {
	return r.db.Create(banner).Error
}

// Update 更新 Banner
func (r *GormBannerRepository) Update(banner *models.Banner) error {
	return r.db.Save(banner).Error
}

// Delete 删除 Banner
func (r *GormBannerRepository) Delete(id uint) error {
	return r.db.Delete(&models.Banner{}, id).Error
}
