package repository

import (
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/models"

	"gorm.io/gorm"
)

// CollectionRepository 系列数据访问接口
type CollectionRepository interface {
	List(filter CatalogListFilter) ([]models.Collection, int64, error)
	ListFeatured(limit int) ([]models.Collection, error)
	GetByID(id uint) (*models.Collection, error)
	GetBySlug(slug string) (*models.Collection, error)
	Create(collection *models.Collection) error
	Update(collection *models.Collection) error
	Delete(id uint) error
	CountBySlug(slug string, excludeID uint) (int64, error)
	DetachProducts(collectionID uint) error
	WithTx(tx *gorm.DB) *GormCollectionRepository
}

// GormCollectionRepository GORM 实现
type GormCollectionRepository struct {
	db *gorm.DB
}

// NewCollectionRepository 创建系列仓库
func NewCollectionRepository(db *gorm.DB) *GormCollectionRepository {
	return &GormCollectionRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCollectionRepository) WithTx(tx *gorm.DB) *GormCollectionRepository {
	if tx == nil {
		return r
	}
	return &GormCollectionRepository{db: tx}
}

// List 系列列表
func (r *GormCollectionRepository) List(filter CatalogListFilter) ([]models.Collection, int64, error) {
	query := r.db.Model(&models.Collection{})
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	return countAndFind[models.Collection](query, filter.Page, filter.PageSize, "sort_order DESC, id ASC")
}

// ListFeatured 首页推荐系列
func (r *GormCollectionRepository) ListFeatured(limit int) ([]models.Collection, error) {
	rows := make([]models.Collection, 0)
	query := r.db.Where("is_active = ? AND is_featured = ?", true, true).Order("sort_order DESC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetByID 获取系列
func (r *GormCollectionRepository) GetByID(id uint) (*models.Collection, error) {
	return firstOrNil[models.Collection](r.db, id)
}

// GetBySlug 根据 slug 获取系列
func (r *GormCollectionRepository) GetBySlug(slug string) (*models.Collection, error) {
	return firstOrNil[models.Collection](r.db.Where("slug = ?", slug))
}

// Create 创建系列
func (r *GormCollectionRepository) Create(collection *models.Collection) error {
	return r.db.Create(collection).Error
}

// Update 更新系列
func (r *GormCollectionRepository) Update(collection *models.Collection) error {
	return r.db.Save(collection).Error
}

// Delete 删除系列
func (r *GormCollectionRepository) Delete(id uint) error {
	return r.db.Delete(&models.Collection{}, id).Error
}

// CountBySlug 统计 slug 占用数
func (r *GormCollectionRepository) CountBySlug(slug string, excludeID uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.Collection{}).Where("slug = ?", slug)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count, err
}

// DetachProducts 系列删除后解除商品关联
func (r *GormCollectionRepository) DetachProducts(collectionID uint) error {
	return r.db.Model(&models.Product{}).
		Where("collection_id = ?", collectionID).
		UpdateColumn("collection_id", nil).Error
}
