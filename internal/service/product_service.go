package service

import (
	"strings"

	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/models"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/repository"
)

// ProductService 商品业务服务
type ProductService struct {
	repo           repository.ProductRepository
	categoryRepo   repository.CategoryRepository
	collectionRepo repository.CollectionRepository
}

// NewProductService 创建商品服务
func NewProductService(repo repository.ProductRepository, categoryRepo repository.CategoryRepository, collectionRepo repository.CollectionRepository) *ProductService {
	return &ProductService{
		repo:           repo,
		categoryRepo:   categoryRepo,
		collectionRepo: collectionRepo,
	}
}

// ProductInput 创建/更新商品输入
type ProductInput struct {
	CategoryID     uint
	CollectionID   *uint
	Slug           string
	Name           string
	Description    string
	Material       string
	Price          models.Money
	CompareAtPrice models.Money
	Images         []string
	StockQuantity  int
	IsActive       *bool
	SortOrder      int
}

// ListPublic 前台商品列表（仅上架）
func (s *ProductService) ListPublic(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	filter.OnlyActive = true
	filter.WithRelation = true
	filter.Search = strings.TrimSpace(filter.Search)
	return s.repo.List(filter)
}

// GetPublic 前台商品详情
func (s *ProductService) GetPublic(slug string) (*models.Product, error) {
	product, err := s.repo.GetBySlug(strings.TrimSpace(slug), true)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// ListAdmin 后台商品列表
func (s *ProductService) ListAdmin(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	filter.WithRelation = true
	filter.Search = strings.TrimSpace(filter.Search)
	return s.repo.List(filter)
}

// Get 后台商品详情
func (s *ProductService) Get(id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Create 创建商品
func (s *ProductService) Create(input ProductInput) (*models.Product, error) {
	product := &models.Product{IsActive: true}
	if err := s.apply(product, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update 更新商品
func (s *ProductService) Update(id uint, input ProductInput) (*models.Product, error) {
	product, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(product, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete 删除商品
func (s *ProductService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}

func (s *ProductService) apply(product *models.Product, input ProductInput) error {
	name := strings.TrimSpace(input.Name)
	slug := normalizeSlug(input.Slug, name)
	if name == "" || slug == "" || input.StockQuantity < 0 {
		return ErrCatalogInputInvalid
	}
	if !input.Price.Decimal.IsPositive() || input.CompareAtPrice.Decimal.IsNegative() {
		return ErrProductPriceInvalid
	}

	category, err := s.categoryRepo.GetByID(input.CategoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	var collectionID *uint
	if input.CollectionID != nil && *input.CollectionID != 0 {
		collection, err := s.collectionRepo.GetByID(*input.CollectionID)
		if err != nil {
			return err
		}
		if collection == nil {
			return ErrCollectionNotFound
		}
		id := collection.ID
		collectionID = &id
	}

	count, err := s.repo.CountBySlug(slug, product.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrSlugExists
	}

	images := make(models.StringArray, 0, len(input.Images))
	for _, image := range input.Images {
		if trimmed := strings.TrimSpace(image); trimmed != "" {
			images = append(images, trimmed)
		}
	}

	product.CategoryID = category.ID
	product.CollectionID = collectionID
	product.Slug = slug
	product.Name = name
	product.Description = strings.TrimSpace(input.Description)
	product.Material = strings.ToLower(strings.TrimSpace(input.Material))
	product.Price = models.NewMoneyFromDecimal(input.Price.Decimal)
	product.CompareAtPrice = models.NewMoneyFromDecimal(input.CompareAtPrice.Decimal)
	product.Images = images
	product.StockQuantity = input.StockQuantity
	product.SortOrder = input.SortOrder
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	product.Category = nil
	product.Collection = nil
	return nil
}
