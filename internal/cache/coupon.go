package cache

import (
	"context"
	"time"

	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/constants"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/models"
)

// 只缓存优惠券定义，使用次数始终实时统计
func couponKey(code string) string {
	return constants.CacheKeyCouponByCode + code
}

// GetCoupon 按优惠码读取优惠券快照
func (s *Store) GetCoupon(ctx context.Context, code string) (*models.Coupon, bool, error) {
	var coupon models.Coupon
	hit, err := s.GetJSON(ctx, couponKey(code), &coupon)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &coupon, true, nil
}

// SetCoupon 写入优惠券快照
func (s *Store) SetCoupon(ctx context.Context, coupon *models.Coupon, ttl time.Duration) error {
	if coupon == nil || coupon.Code == "" || ttl <= 0 {
		return nil
	}
	return s.SetJSON(ctx, couponKey(coupon.Code), coupon, ttl)
}

// DelCoupon 删除优惠券快照
func (s *Store) DelCoupon(ctx context.Context, codes ...string) error {
	keys := make([]string, 0, len(codes))
	for _, code := range codes {
		if code != "" {
			keys = append(keys, couponKey(code))
		}
	}
	return s.Del(ctx, keys...)
}
