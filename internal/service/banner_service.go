package service

import (
	"strings"
	"time"

	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/models"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/repository"
)

const defaultPublicBannerLimit = 10

// BannerService Banner 业务服务
type BannerService struct {
	repo repository.BannerRepository
	now  func() time.Time
}

// NewBannerService 创建 Banner 服务
func NewBannerService(repo repository.BannerRepository) *BannerService {
	return &BannerService{repo: repo, now: time.Now}
}

// BannerInput 创建/更新 Banner 输入
type BannerInput struct {
	Title       string
	Subtitle    string
	Image       string
	MobileImage string
	LinkURL     string
	ButtonText  string
	IsActive    *bool
	StartAt     *time.Time
	EndAt       *time.Time
	SortOrder   int
}

// ListAdmin 获取后台 Banner 列表
func (s *BannerService) ListAdmin(search string, isActive *bool, page, pageSize int) ([]models.Banner, int64, error) {
	return s.repo.List(repository.BannerListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(search),
		IsActive: isActive,
	})
}

// ListPublic 获取当前有效的 Banner
func (s *BannerService) ListPublic(limit int) ([]models.Banner, error) {
	if limit <= 0 || limit > 50 {
		limit = defaultPublicBannerLimit
	}
	return s.repo.ListValid(limit, s.now())
}

// GetByID 根据 ID 获取 Banner
func (s *BannerService) GetByID(id uint) (*models.Banner, error) {
	banner, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if banner == nil {
		return nil, ErrBannerNotFound
	}
	return banner, nil
}

// Create 创建 Banner
func (s *BannerService) Create(input BannerInput) (*models.Banner, error) {
	banner := &models.Banner{IsActive: true}
	if err := applyBannerInput(banner, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(banner); err != nil {
		return nil, err
	}
	return banner, nil
}

// Update 更新 Banner
func (s *BannerService) Update(id uint, input BannerInput) (*models.Banner, error) {
	banner, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := applyBannerInput(banner, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(banner); err != nil {
		return nil, err
	}
	return banner, nil
}

// Delete 删除 Banner
func (s *BannerService) Delete(id uint) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}

func applyBannerInput(banner *models.Banner, input BannerInput) error {
	image := strings.TrimSpace(input.Image)
	if image == "" {
		return ErrBannerInvalid
	}
	if input.StartAt != nil && input.EndAt != nil && input.EndAt.Before(*input.StartAt) {
		return ErrBannerInvalid
	}
	banner.Title = strings.TrimSpace(input.Title)
	banner.Subtitle = strings.TrimSpace(input.Subtitle)
	banner.Image = image
	banner.MobileImage = strings.TrimSpace(input.MobileImage)
	banner.LinkURL = strings.TrimSpace(input.LinkURL)
	banner.ButtonText = strings.TrimSpace(input.ButtonText)
	banner.StartAt = input.StartAt
	banner.EndAt = input.EndAt
	banner.SortOrder = input.SortOrder
	if input.IsActive != nil {
		banner.IsActive = *input.IsActive
	}
	return nil
}
