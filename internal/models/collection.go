package models

import (
	"time"

	"gorm.io/gorm"
)

// Collection 商品系列（婚礼系列、日常轻奢等），与分类正交
type Collection struct {
	ID          uint           `gorm:"primarykey" json:"id"`                            // 主键
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`                // 唯一标识
	Name        string         `gorm:"type:varchar(120);not null" json:"name"`          // 名称
	Description string         `gorm:"type:text" json:"description"`                    // 描述
	Image       string         `gorm:"type:varchar(500)" json:"image"`                  // 封面图
	IsFeatured  bool           `gorm:"not null;default:false;index" json:"is_featured"` // 是否首页推荐
	IsActive    bool           `gorm:"not null;default:true;index" json:"is_active"`    // 是否展示
	SortOrder   int            `gorm:"not null;default:0;index" json:"sort_order"`      // 排序权重
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                         // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                      // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                  // 软删除时间
}

// TableName 指定表名
func (Collection) TableName() string {
	return "collections"
}
