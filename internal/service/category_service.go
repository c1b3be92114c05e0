package service

import (
	"regexp"
	"strings"

	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/models"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/repository"
)

var slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)

// CategoryService 分类业务服务
type CategoryService struct {
	repo repository.CategoryRepository
}

// NewCategoryService 创建分类服务
func NewCategoryService(repo repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// CatalogGroupInput 创建/更新分类或系列输入
type CatalogGroupInput struct {
	Slug        string
	Name        string
	Description string
	Image       string
	IsActive    *bool
	IsFeatured  *bool
	SortOrder   int
}

// List 获取分类列表
func (s *CategoryService) List(onlyActive bool, page, pageSize int) ([]models.Category, int64, error) {
	return s.repo.List(repository.CatalogListFilter{Page: page, PageSize: pageSize, OnlyActive: onlyActive})
}

// Create 创建分类
func (s *CategoryService) Create(input CatalogGroupInput) (*models.Category, error) {
	category := &models.Category{IsActive: true}
	if err := s.apply(category, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Update 更新分类
func (s *CategoryService) Update(id uint, input CatalogGroupInput) (*models.Category, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	if err := s.apply(category, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete 删除分类，仍有商品时拒绝
func (s *CategoryService) Delete(id uint) error {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	count, err := s.repo.CountProducts(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}
	return s.repo.Delete(id)
}

func (s *CategoryService) apply(category *models.Category, input CatalogGroupInput) error {
	name := strings.TrimSpace(input.Name)
	slug := normalizeSlug(input.Slug, name)
	if name == "" || slug == "" {
		return ErrCatalogInputInvalid
	}
	count, err := s.repo.CountBySlug(slug, category.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrSlugExists
	}
	category.Slug = slug
	category.Name = name
	category.Description = strings.TrimSpace(input.Description)
	category.Image = strings.TrimSpace(input.Image)
	category.SortOrder = input.SortOrder
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}
	return nil
}

// normalizeSlug 生成 URL 友好的标识，未填写时由名称推导
func normalizeSlug(slug, fallback string) string {
	raw := strings.TrimSpace(slug)
	if raw == "" {
		raw = fallback
	}
	return strings.Trim(slugInvalidChars.ReplaceAllString(strings.ToLower(raw), "-"), "-")
}
