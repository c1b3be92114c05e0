package constants

// 订单状态常量
const (
	OrderStatusPendingPayment = "pending_payment"
	OrderStatusPaid           = "paid"
	OrderStatusProcessing     = "processing"
	OrderStatusShipped        = "shipped"
	OrderStatusDelivered      = "delivered"
	OrderStatusCanceled       = "canceled"
)

// 支付状态常量
const (
	PaymentStatusCreated = "created"
	PaymentStatusSuccess = "success"
	PaymentStatusFailed  = "failed"
)

// 支付网关常量
const (
	PaymentProviderRazorpay = "razorpay"
	PaymentProviderZwitch   = "zwitch"
	PaymentProviderNone     = "none" // 优惠券抵扣至零元，不经过网关
)

// 优惠券类型与适用范围
const (
	CouponTypePercentage  = "percentage"
	CouponTypeFixedAmount = "fixed_amount"

	CouponScopeAll         = "all"
	CouponScopeCategories  = "categories"
	CouponScopeProducts    = "products"
	CouponScopeCollections = "collections"
)

// 缓存键前缀
const (
	CacheKeyCouponByCode      = "coupon:code:"
	CacheKeyDashboardOverview = "dashboard:overview:"
)

// 限流作用域
const (
	RateLimitScopeAdminLogin     = "admin_login"
	RateLimitScopeCouponValidate = "coupon_validate"
)

// 异步任务
const (
	QueueDefault           = "default"
	TaskOrderTimeoutCancel = "order:timeout_cancel"
	TaskOrderExpiredSweep  = "order:expired_sweep"
)

// 上下文键
const (
	ContextKeyAdminID   = "admin_id"
	ContextKeyUsername  = "username"
	ContextKeyShopperID = "shopper_id"
	ContextKeyRequestID = "request_id"
)

// 默认币种
const (
	DefaultCurrency = "INR"
)
