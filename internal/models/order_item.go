package models

import "time"

// OrderItem 订单项，保存下单时的商品快照
type OrderItem struct {
	ID             uint      `gorm:"primarykey" json:"id"`                                                // 主键
	OrderID        uint      `gorm:"index;not null" json:"order_id"`                                      // 订单ID
	ProductID      uint      `gorm:"index;not null" json:"product_id"`                                    // 商品ID
	CategoryID     uint      `gorm:"not null" json:"category_id"`                                         // 分类ID快照
	CollectionID   *uint     `json:"collection_id,omitempty"`                                             // 系列ID快照
	ProductName    string    `gorm:"type:varchar(200);not null" json:"product_name"`                      // 商品名快照
	UnitPrice      Money     `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`             // 单价
	Quantity       int       `gorm:"not null" json:"quantity"`                                            // 数量
	TotalPrice     Money     `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"`            // 小计
	CouponDiscount Money     `gorm:"type:decimal(20,2);not null;default:0" json:"coupon_discount_amount"` // 优惠券分摊金额
	CreatedAt      time.Time `gorm:"index" json:"created_at"`                                             // 创建时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
