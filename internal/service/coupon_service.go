package service

import (
	"context"
	"time"

	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/cache"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/coupon"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/logger"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/models"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/repository"

	"gorm.io/gorm"
)

// CouponService 优惠券校验服务
// 说明：同一套规则引擎按两种方式装配，前台预检（advisory）与下单终检（authoritative）。
type CouponService struct {
	couponRepo     repository.CouponRepository
	usageRepo      repository.CouponUsageRepository
	cache          *cache.Store
	cacheTTL       time.Duration
	currencySymbol string
	now            func() time.Time
}

// NewCouponService 创建优惠券校验服务
func NewCouponService(couponRepo repository.CouponRepository, usageRepo repository.CouponUsageRepository, store *cache.Store, cacheTTL time.Duration, currencySymbol string) *CouponService {
	return &CouponService{
		couponRepo:     couponRepo,
		usageRepo:      usageRepo,
		cache:          store,
		cacheTTL:       cacheTTL,
		currencySymbol: currencySymbol,
		now:            time.Now,
	}
}

// SetClock 替换时钟（测试用）
func (s *CouponService) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Check 前台预检，仅执行状态、有效期与门槛校验
func (s *CouponService) Check(ctx context.Context, req coupon.Request) coupon.Result {
	store := &couponRuleStore{
		coupons: s.couponRepo.WithContext(ctx),
		usages:  s.usageRepo.WithContext(ctx),
		cache:   s.cache,
		ttl:     s.cacheTTL,
	}
	return coupon.NewValidator(store, coupon.Advisory, s.options()...).Validate(ctx, req)
}

// Validate 支付前终检，额外校验使用次数与适用范围
func (s *CouponService) Validate(ctx context.Context, req coupon.Request) coupon.Result {
	store := &couponRuleStore{
		coupons: s.couponRepo.WithContext(ctx),
		usages:  s.usageRepo.WithContext(ctx),
		cache:   s.cache,
		ttl:     s.cacheTTL,
	}
	return coupon.NewValidator(store, coupon.Authoritative, s.options()...).Validate(ctx, req)
}

// validatorInTx 返回绑定事务的终检校验器，绕过缓存直接读库
func (s *CouponService) validatorInTx(tx *gorm.DB) *coupon.Validator {
	store := &couponRuleStore{
		coupons: s.couponRepo.WithTx(tx),
		usages:  s.usageRepo.WithTx(tx),
	}
	return coupon.NewValidator(store, coupon.Authoritative, s.options()...)
}

func (s *CouponService) options() []coupon.Option {
	return []coupon.Option{
		coupon.WithClock(s.now),
		coupon.WithCurrencySymbol(s.currencySymbol),
	}
}

// couponRuleStore 以仓库实现校验器所需的查询能力
type couponRuleStore struct {
	coupons repository.CouponRepository
	usages  repository.CouponUsageRepository
	cache   *cache.Store
	ttl     time.Duration
}

func (s *couponRuleStore) LookupCoupon(ctx context.Context, code string) (*coupon.Rule, error) {
	if s.cache.Enabled() {
		cached, hit, err := s.cache.GetCoupon(ctx, code)
		if err != nil {
			logger.FromContext(ctx).Warnw("coupon_cache_get_failed", "code", code, "error", err)
		} else if hit {
			return ruleFromModel(cached), nil
		}
	}

	row, err := s.coupons.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	if s.cache.Enabled() {
		if err := s.cache.SetCoupon(ctx, row, s.ttl); err != nil {
			logger.FromContext(ctx).Warnw("coupon_cache_set_failed", "code", code, "error", err)
		}
	}
	return ruleFromModel(row), nil
}

func (s *couponRuleStore) CountUsage(ctx context.Context, couponID uint) (int64, error) {
	return s.usages.CountByCoupon(couponID)
}

func (s *couponRuleStore) CountUsageByUser(ctx context.Context, couponID uint, userID string) (int64, error) {
	return s.usages.CountByUser(couponID, userID)
}

func ruleFromModel(row *models.Coupon) *coupon.Rule {
	rule := &coupon.Rule{
		ID:             row.ID,
		Code:           row.Code,
		Name:           row.Name,
		DiscountType:   coupon.DiscountType(row.DiscountType),
		DiscountValue:  row.DiscountValue.Decimal,
		ValidFrom:      row.ValidFrom,
		ValidUntil:     row.ValidUntil,
		IsActive:       row.IsActive,
		IsPaused:       row.IsPaused,
		MaxUses:        row.MaxUses,
		MaxUsesPerUser: row.MaxUsesPerUser,
		ApplicableTo:   coupon.Scope(row.ApplicableTo),
		ApplicableIDs:  []string(row.ApplicableIDs),
	}
	if row.MinimumOrderAmount != nil {
		minimum := row.MinimumOrderAmount.Decimal
		rule.MinimumOrderAmount = &minimum
	}
	return rule
}
