package models

import (
	"time"

	"gorm.io/gorm"
)

// Category 商品分类（戒指、项链、耳饰等）
type Category struct {
	ID          uint           `gorm:"primarykey" json:"id"`                         // 主键
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`             // 唯一标识
	Name        string         `gorm:"type:varchar(120);not null" json:"name"`       // 名称
	Description string         `gorm:"type:text" json:"description"`                 // 描述
	Image       string         `gorm:"type:varchar(500)" json:"image"`               // 封面图（托管存储地址）
	IsActive    bool           `gorm:"not null;default:true;index" json:"is_active"` // 是否展示
	SortOrder   int            `gorm:"not null;default:0;index" json:"sort_order"`   // 排序权重
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                      // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                   // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                               // 软删除时间
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}
