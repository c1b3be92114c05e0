package models

import "time"

// Payment 支付记录
type Payment struct {
	ID                uint       `gorm:"primarykey" json:"id"`                      // 主键
	OrderID           uint       `gorm:"index;not null" json:"order_id"`            // 订单ID
	ChannelID         uint       `gorm:"index;not null" json:"channel_id"`          // 支付渠道ID
	ProviderType      string     `gorm:"not null" json:"provider_type"`             // 网关类型
	Amount            Money      `gorm:"type:decimal(20,2);not null" json:"amount"` // 支付金额
	Currency          string     `gorm:"not null" json:"currency"`                  // 币种
	Receipt           string     `gorm:"uniqueIndex;not null" json:"receipt"`       // 商户侧收据号
	Status            string     `gorm:"index;not null" json:"status"`              // 支付状态
	ProviderRef       string     `gorm:"index" json:"provider_ref"`                 // 网关订单号
	ProviderPaymentID string     `gorm:"index" json:"provider_payment_id"`          // 网关支付流水号
	ProviderPayload   JSON       `gorm:"type:json" json:"provider_payload"`         // 网关返回数据
	CreatedAt         time.Time  `gorm:"index" json:"created_at"`                   // 创建时间
	UpdatedAt         time.Time  `gorm:"index" json:"updated_at"`                   // 更新时间
	PaidAt            *time.Time `gorm:"index" json:"paid_at"`                      // 支付时间
}

// TableName 指定表名
func (Payment) TableName() string {
	return "payments"
}
