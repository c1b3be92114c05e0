package service

import (
	"errors"

	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/coupon"
)

// 通用错误
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrPasswordWeak       = errors.New("password too weak")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrSlugExists         = errors.New("slug already exists")
	ErrRoleInvalid        = errors.New("role invalid")
	ErrRangeInvalid       = errors.New("date range invalid")
)

// 商品目录错误
var (
	ErrCatalogInputInvalid = errors.New("catalog input invalid")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrCategoryInUse       = errors.New("category still has products")
	ErrCollectionNotFound  = errors.New("collection not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrProductPriceInvalid = errors.New("product price invalid")
	ErrProductNotAvailable = errors.New("product not available")
	ErrProductOutOfStock   = errors.New("product out of stock")
	ErrBannerNotFound      = errors.New("banner not found")
	ErrBannerInvalid       = errors.New("banner invalid")
)

// 优惠券管理错误
var (
	ErrCouponNotFound          = errors.New("coupon not found")
	ErrCouponCodeExists        = errors.New("coupon code already exists")
	ErrCouponInvalid           = errors.New("coupon invalid")
	ErrCouponWindowInvalid     = errors.New("coupon validity window invalid")
	ErrCouponPercentageInvalid = errors.New("coupon percentage out of range")
	ErrCouponValueInvalid      = errors.New("coupon value invalid")
	ErrCouponScopeInvalid      = errors.New("coupon scope invalid")
	ErrCouponLimitInvalid      = errors.New("coupon usage limit invalid")
	ErrCouponRejected          = errors.New("coupon rejected")
	ErrCouponValidation        = errors.New("coupon validation failed")
)

// 订单与支付错误
var (
	ErrOrderNotFound               = errors.New("order not found")
	ErrOrderItemInvalid            = errors.New("order item invalid")
	ErrOrderCustomerInvalid        = errors.New("order customer invalid")
	ErrOrderStatusInvalid          = errors.New("order status invalid")
	ErrOrderNotPayable             = errors.New("order not payable")
	ErrOrderNotCancelable          = errors.New("order not cancelable")
	ErrPaymentChannelNotFound      = errors.New("payment channel not found")
	ErrPaymentChannelInvalid       = errors.New("payment channel invalid")
	ErrPaymentProviderNotSupported = errors.New("payment provider not supported")
	ErrPaymentGatewayFailed        = errors.New("payment gateway failed")
	ErrPaymentNotFound             = errors.New("payment not found")
	ErrPaymentSignatureInvalid     = errors.New("payment signature invalid")
	ErrPaymentAmountMismatch       = errors.New("payment amount mismatch")
)

// CouponRejectedError 下单时优惠券未通过校验，Result 保留面向顾客的文案
type CouponRejectedError struct {
	Result coupon.Result
}

func (e *CouponRejectedError) Error() string {
	return e.Result.Error
}

// Is 支持 errors.Is(err, ErrCouponRejected)
func (e *CouponRejectedError) Is(target error) bool {
	return target == ErrCouponRejected
}

// OutOfStockError 库存不足，携带商品名
type OutOfStockError struct {
	ProductName string
}

func (e *OutOfStockError) Error() string {
	return ErrProductOutOfStock.Error() + ": " + e.ProductName
}

// Is 支持 errors.Is(err, ErrProductOutOfStock)
func (e *OutOfStockError) Is(target error) bool {
	return target == ErrProductOutOfStock
}
