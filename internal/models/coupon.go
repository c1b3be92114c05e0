package models

import (
	"time"

	"gorm.io/gorm"
)

// Coupon 优惠券
type Coupon struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                                         // 主键
	Code               string         `gorm:"uniqueIndex;not null" json:"code"`                             // 优惠码（大写）
	Name               string         `gorm:"type:varchar(120);not null" json:"name"`                       // 展示名称
	DiscountType       string         `gorm:"type:varchar(20);not null" json:"discount_type"`               // percentage / fixed_amount
	DiscountValue      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_value"`  // 百分比或固定金额
	MinimumOrderAmount *Money         `gorm:"type:decimal(20,2)" json:"minimum_order_amount"`               // 使用门槛（空表示不限制）
	ValidFrom          time.Time      `gorm:"index;not null" json:"valid_from"`                             // 生效时间
	ValidUntil         time.Time      `gorm:"index;not null" json:"valid_until"`                            // 失效时间
	IsActive           bool           `gorm:"not null;default:true" json:"is_active"`                       // 是否启用
	IsPaused           bool           `gorm:"not null;default:false" json:"is_paused"`                      // 是否暂停
	MaxUses            *int           `json:"max_uses"`                                                     // 总使用上限（空表示不限制）
	MaxUsesPerUser     *int           `json:"max_uses_per_user"`                                            // 每人使用上限（空表示不限制）
	UsedCount          int            `gorm:"not null;default:0" json:"used_count"`                         // 已预占次数
	ApplicableTo       string         `gorm:"type:varchar(20);not null;default:'all'" json:"applicable_to"` // all / categories / products / collections
	ApplicableIDs      StringArray    `gorm:"type:json" json:"applicable_ids"`                              // 适用对象ID
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt          time.Time      `gorm:"index" json:"updated_at"`                                      // 更新时间
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                                               // 软删除时间
}

// TableName 指定表名
func (Coupon) TableName() string {
	return "coupons"
}
