package repository

import "time"

// ProductListFilter 商品列表筛选
type ProductListFilter struct {
	Page         int
	PageSize     int
	CategoryID   uint
	CollectionID uint
	Search       string
	OnlyActive   bool
	WithRelation bool
}

// CatalogListFilter 分类/系列列表筛选
type CatalogListFilter struct {
	Page       int
	PageSize   int
	OnlyActive bool
}

// BannerListFilter Banner 列表筛选
type BannerListFilter struct {
	Page      int
	PageSize  int
	Search    string
	IsActive  *bool
	OnlyValid bool
	Now       time.Time
}

// CouponListFilter 优惠券列表筛选
type CouponListFilter struct {
	Code         string
	ApplicableID string
	IsActive     *bool
	IsPaused     *bool
	Page         int
	PageSize     int
}

// CouponUsageListFilter 优惠券使用记录筛选
type CouponUsageListFilter struct {
	CouponID uint
	UserID   string
	Page     int
	PageSize int
}

// OrderListFilter 订单列表筛选
type OrderListFilter struct {
	Page          int
	PageSize      int
	UserID        string
	Status        string
	OrderNo       string
	CustomerEmail string
	CouponID      uint
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
}

// PaymentListFilter 支付记录筛选
type PaymentListFilter struct {
	Page         int
	PageSize     int
	OrderID      uint
	ChannelID    uint
	ProviderType string
	Status       string
}

// PaymentChannelListFilter 支付渠道筛选
type PaymentChannelListFilter struct {
	Page         int
	PageSize     int
	ProviderType string
	ActiveOnly   bool
}
