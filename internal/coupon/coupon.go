// Package coupon 实现优惠券规则校验与折扣计算。
//
// 同一套规则同时服务于前台即时提示（Advisory）与下单前的最终校验（Authoritative），
// 两者只在启用的关卡与存储能力上有差别。
package coupon

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType 折扣类型
type DiscountType string

const (
	DiscountPercentage  DiscountType = "percentage"
	DiscountFixedAmount DiscountType = "fixed_amount"
)

// Valid 判断折扣类型是否受支持
func (t DiscountType) Valid() bool {
	return t == DiscountPercentage || t == DiscountFixedAmount
}

// Scope 适用范围
type Scope string

const (
	ScopeAll         Scope = "all"
	ScopeCategories  Scope = "categories"
	ScopeProducts    Scope = "products"
	ScopeCollections Scope = "collections"
)

// Valid 判断适用范围是否受支持
func (s Scope) Valid() bool {
	switch s {
	case ScopeAll, ScopeCategories, ScopeProducts, ScopeCollections:
		return true
	}
	return false
}

// Mode 校验模式
type Mode int

const (
	// Advisory 只执行 1-7 号关卡，用于购物车即时反馈
	Advisory Mode = iota
	// Authoritative 执行全部关卡，作为支付前的最终判定
	Authoritative
)

func (m Mode) String() string {
	if m == Authoritative {
		return "authoritative"
	}
	return "advisory"
}

// Rule 校验所需的优惠券快照
type Rule struct {
	ID                 uint
	Code               string
	Name               string
	DiscountType       DiscountType
	DiscountValue      decimal.Decimal
	MinimumOrderAmount *decimal.Decimal
	ValidFrom          time.Time
	ValidUntil         time.Time
	IsActive           bool
	IsPaused           bool
	MaxUses            *int
	MaxUsesPerUser     *int
	ApplicableTo       Scope
	ApplicableIDs      []string
}

// CartItem 购物车行引用，ID 统一为字符串形式
type CartItem struct {
	ProductID    string
	CategoryID   string
	CollectionID string
}

// Request 校验请求
type Request struct {
	Code      string
	CartTotal decimal.Decimal
	UserID    string
	CartItems []CartItem
}

// Store 校验依赖的存储能力
//
// LookupCoupon 未命中时返回 (nil, nil)。
type Store interface {
	LookupCoupon(ctx context.Context, code string) (*Rule, error)
	CountUsage(ctx context.Context, couponID uint) (int64, error)
	CountUsageByUser(ctx context.Context, couponID uint, userID string) (int64, error)
}

// Normalize 优惠码归一化：去空白并转大写
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
