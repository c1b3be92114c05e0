package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单
type Order struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                         // 主键
	OrderNo         string         `gorm:"uniqueIndex;not null" json:"order_no"`                         // 订单编号
	UserID          string         `gorm:"type:varchar(64);index" json:"user_id,omitempty"`              // 用户ID（游客为空）
	CustomerName    string         `gorm:"type:varchar(120);not null" json:"customer_name"`              // 收件人
	CustomerEmail   string         `gorm:"type:varchar(200);index" json:"customer_email"`                // 邮箱
	CustomerPhone   string         `gorm:"type:varchar(40)" json:"customer_phone"`                       // 手机号
	ShippingAddress JSON           `gorm:"type:json" json:"shipping_address"`                            // 收货地址
	Status          string         `gorm:"index;not null" json:"status"`                                 // 订单状态
	Currency        string         `gorm:"type:varchar(8);not null" json:"currency"`                     // 币种
	OriginalAmount  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"original_amount"` // 原始金额
	DiscountAmount  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"` // 优惠金额
	TotalAmount     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`    // 实付金额
	CouponID        *uint          `gorm:"index" json:"coupon_id,omitempty"`                             // 优惠券ID
	CouponCode      string         `gorm:"type:varchar(64)" json:"coupon_code,omitempty"`                // 优惠码快照
	ClientIP        string         `gorm:"type:varchar(64)" json:"client_ip,omitempty"`                  // 下单客户端IP
	ExpiresAt       *time.Time     `gorm:"index" json:"expires_at"`                                      // 支付截止时间
	PaidAt          *time.Time     `gorm:"index" json:"paid_at"`                                         // 支付时间
	CanceledAt      *time.Time     `gorm:"index" json:"canceled_at"`                                     // 取消时间
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`                                      // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                               // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
