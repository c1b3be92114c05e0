package service

import (
	"strings"

	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/models"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/repository"

	"gorm.io/gorm"
)

// CollectionService 系列业务服务
type CollectionService struct {
	db   *gorm.DB
	repo repository.CollectionRepository
}

// NewCollectionService 创建系列服务
func NewCollectionService(db *gorm.DB, repo repository.CollectionRepository) *CollectionService {
	return &CollectionService{db: db, repo: repo}
}

// List 获取系列列表
func (s *CollectionService) List(onlyActive bool, page, pageSize int) ([]models.Collection, int64, error) {
	return s.repo.List(repository.CatalogListFilter{Page: page, PageSize: pageSize, OnlyActive: onlyActive})
}

// ListFeatured 首页推荐系列
func (s *CollectionService) ListFeatured(limit int) ([]models.Collection, error) {
	return s.repo.ListFeatured(limit)
}

// Create 创建系列
func (s *CollectionService) Create(input CatalogGroupInput) (*models.Collection, error) {
	collection := &models.Collection{IsActive: true}
	if err := s.apply(collection, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(collection); err != nil {
		return nil, err
	}
	return collection, nil
}

// Update 更新系列
func (s *CollectionService) Update(id uint, input CatalogGroupInput) (*models.Collection, error) {
	collection, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if collection == nil {
		return nil, ErrCollectionNotFound
	}
	if err := s.apply(collection, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(collection); err != nil {
		return nil, err
	}
	return collection, nil
}

// Delete 删除系列并解除商品关联
func (s *CollectionService) Delete(id uint) error {
	collection, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if collection == nil {
		return ErrCollectionNotFound
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.DetachProducts(id); err != nil {
			return err
		}
		return repo.Delete(id)
	})
}

func (s *CollectionService) apply(collection *models.Collection, input CatalogGroupInput) error {
	name := strings.TrimSpace(input.Name)
	slug := normalizeSlug(input.Slug, name)
	if name == "" || slug == "" {
		return ErrCatalogInputInvalid
	}
	count, err := s.repo.CountBySlug(slug, collection.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrSlugExists
	}
	collection.Slug = slug
	collection.Name = name
	collection.Description = strings.TrimSpace(input.Description)
	collection.Image = strings.TrimSpace(input.Image)
	collection.SortOrder = input.SortOrder
	if input.IsActive != nil {
		collection.IsActive = *input.IsActive
	}
	if input.IsFeatured != nil {
		collection.IsFeatured = *input.IsFeatured
	}
	return nil
}
