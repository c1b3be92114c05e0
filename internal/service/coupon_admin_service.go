package service

import (
	"context"
	"strings"
	"time"

	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/cache"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/coupon"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/logger"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/models"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/repository"

	"github.com/shopspring/decimal"
)

// CouponAdminService 优惠券管理服务
type CouponAdminService struct {
	repo      repository.CouponRepository
	usageRepo repository.CouponUsageRepository
	cache     *cache.Store
}

// NewCouponAdminService 创建优惠券管理服务
func NewCouponAdminService(repo repository.CouponRepository, usageRepo repository.CouponUsageRepository, store *cache.Store) *CouponAdminService {
	return &CouponAdminService{repo: repo, usageRepo: usageRepo, cache: store}
}

// CouponInput 创建/更新优惠券输入
type CouponInput struct {
	Code               string
	Name               string
	DiscountType       string
	DiscountValue      models.Money
	MinimumOrderAmount *models.Money
	ValidFrom          time.Time
	ValidUntil         time.Time
	IsActive           *bool
	IsPaused           *bool
	MaxUses            *int
	MaxUsesPerUser     *int
	ApplicableTo       string
	ApplicableIDs      []string
}

// Create 创建优惠券
func (s *CouponAdminService) Create(ctx context.Context, input CouponInput) (*models.Coupon, error) {
	coupon := &models.Coupon{IsActive: true}
	if err := applyCouponInput(coupon, input); err != nil {
		return nil, err
	}

	taken, err := s.repo.WithContext(ctx).CodeTaken(coupon.Code, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrCouponCodeExists
	}

	if err := s.repo.WithContext(ctx).Create(coupon); err != nil {
		return nil, err
	}
	s.invalidate(ctx, coupon.Code)
	return coupon, nil
}

// Update 更新优惠券，已预占次数不受影响
func (s *CouponAdminService) Update(ctx context.Context, id uint, input CouponInput) (*models.Coupon, error) {
	existing, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	oldCode := existing.Code
	if err := applyCouponInput(existing, input); err != nil {
		return nil, err
	}

	if existing.Code != oldCode {
		taken, err := s.repo.WithContext(ctx).CodeTaken(existing.Code, existing.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrCouponCodeExists
		}
	}

	if err := s.repo.WithContext(ctx).Update(existing); err != nil {
		return nil, err
	}
	s.invalidate(ctx, oldCode, existing.Code)
	return existing, nil
}

// SetPaused 暂停或恢复优惠券
func (s *CouponAdminService) SetPaused(ctx context.Context, id uint, paused bool) (*models.Coupon, error) {
	existing, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.IsPaused == paused {
		return existing, nil
	}
	existing.IsPaused = paused
	if err := s.repo.WithContext(ctx).Update(existing); err != nil {
		return nil, err
	}
	s.invalidate(ctx, existing.Code)
	return existing, nil
}

// Delete 删除优惠券（软删除，使用记录保留）
func (s *CouponAdminService) Delete(ctx context.Context, id uint) error {
	existing, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.WithContext(ctx).Delete(id); err != nil {
		return err
	}
	s.invalidate(ctx, existing.Code)
	return nil
}

// Get 获取优惠券详情
func (s *CouponAdminService) Get(ctx context.Context, id uint) (*models.Coupon, error) {
	return s.get(ctx, id)
}

// List 优惠券列表
func (s *CouponAdminService) List(ctx context.Context, filter repository.CouponListFilter) ([]models.Coupon, int64, error) {
	filter.Code = coupon.Normalize(filter.Code)
	return s.repo.WithContext(ctx).List(filter)
}

// ListUsages 使用记录列表
func (s *CouponAdminService) ListUsages(ctx context.Context, filter repository.CouponUsageListFilter) ([]models.CouponUsage, int64, error) {
	return s.usageRepo.WithContext(ctx).List(filter)
}

func (s *CouponAdminService) get(ctx context.Context, id uint) (*models.Coupon, error) {
	if id == 0 {
		return nil, ErrCouponNotFound
	}
	existing, err := s.repo.WithContext(ctx).GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrCouponNotFound
	}
	return existing, nil
}

func (s *CouponAdminService) invalidate(ctx context.Context, codes ...string) {
	if err := s.cache.DelCoupon(ctx, codes...); err != nil {
		logger.FromContext(ctx).Warnw("coupon_cache_invalidate_failed", "codes", codes, "error", err)
	}
}

// applyCouponInput 校验并写入字段，规则仅在管理端执行
func applyCouponInput(target *models.Coupon, input CouponInput) error {
	code := coupon.Normalize(input.Code)
	if code == "" {
		return ErrCouponInvalid
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = code
	}

	kind := coupon.DiscountType(strings.ToLower(strings.TrimSpace(input.DiscountType)))
	if !kind.Valid() {
		return ErrCouponInvalid
	}
	value := input.DiscountValue.Decimal
	if value.IsNegative() {
		return ErrCouponValueInvalid
	}
	if kind == coupon.DiscountPercentage && value.GreaterThan(decimal.NewFromInt(100)) {
		return ErrCouponPercentageInvalid
	}
	if input.MinimumOrderAmount != nil && input.MinimumOrderAmount.Decimal.IsNegative() {
		return ErrCouponValueInvalid
	}

	if input.ValidFrom.IsZero() || input.ValidUntil.IsZero() || input.ValidFrom.After(input.ValidUntil) {
		return ErrCouponWindowInvalid
	}
	if (input.MaxUses != nil && *input.MaxUses < 0) || (input.MaxUsesPerUser != nil && *input.MaxUsesPerUser < 0) {
		return ErrCouponLimitInvalid
	}

	scope := coupon.Scope(strings.ToLower(strings.TrimSpace(input.ApplicableTo)))
	if scope == "" {
		scope = coupon.ScopeAll
	}
	if !scope.Valid() {
		return ErrCouponScopeInvalid
	}
	ids := normalizeApplicableIDs(input.ApplicableIDs)
	if scope == coupon.ScopeAll {
		ids = models.StringArray{}
	} else if len(ids) == 0 {
		return ErrCouponScopeInvalid
	}

	target.Code = code
	target.Name = name
	target.DiscountType = string(kind)
	target.DiscountValue = models.NewMoneyFromDecimal(value)
	target.MinimumOrderAmount = nil
	if input.MinimumOrderAmount != nil {
		target.MinimumOrderAmount = models.MoneyPtr(models.NewMoneyFromDecimal(input.MinimumOrderAmount.Decimal))
	}
	target.ValidFrom = input.ValidFrom
	target.ValidUntil = input.ValidUntil
	if input.IsActive != nil {
		target.IsActive = *input.IsActive
	}
	if input.IsPaused != nil {
		target.IsPaused = *input.IsPaused
	}
	target.MaxUses = input.MaxUses
	target.MaxUsesPerUser = input.MaxUsesPerUser
	target.ApplicableTo = string(scope)
	target.ApplicableIDs = ids
	return nil
}

func normalizeApplicableIDs(raw []string) models.StringArray {
	seen := make(map[string]struct{}, len(raw))
	ids := make(models.StringArray, 0, len(raw))
	for _, item := range raw {
		id := strings.TrimSpace(item)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
