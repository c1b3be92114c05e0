package models

import "time"

// CouponUsage 优惠券使用记录，每个订单至多一条
type CouponUsage struct {
	ID               uint      `gorm:"primarykey" json:"id"`                                            // 主键
	CouponID         uint      `gorm:"index;not null" json:"coupon_id"`                                 // 优惠券ID
	OrderID          uint      `gorm:"uniqueIndex;not null" json:"order_id"`                            // 订单ID
	UserID           string    `gorm:"type:varchar(64);index" json:"user_id,omitempty"`                 // 用户ID（游客为空）
	DiscountAmount   Money     `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"`    // 优惠金额
	OrderTotalBefore Money     `gorm:"type:decimal(20,2);not null;default:0" json:"order_total_before"` // 优惠前金额
	OrderTotalAfter  Money     `gorm:"type:decimal(20,2);not null;default:0" json:"order_total_after"`  // 优惠后金额
	CreatedAt        time.Time `gorm:"index" json:"created_at"`                                         // 创建时间
}

// TableName 指定表名
func (CouponUsage) TableName() string {
	return "coupon_usages"
}
