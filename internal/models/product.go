package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品
type Product struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                          // 主键
	CategoryID     uint           `gorm:"not null;index" json:"category_id"`                             // 分类ID
	CollectionID   *uint          `gorm:"index" json:"collection_id,omitempty"`                          // 系列ID（可空）
	Slug           string         `gorm:"uniqueIndex;not null" json:"slug"`                              // 唯一标识
	Name           string         `gorm:"type:varchar(200);not null" json:"name"`                        // 名称
	Description    string         `gorm:"type:text" json:"description"`                                  // 描述
	Material       string         `gorm:"type:varchar(60)" json:"material"`                              // 材质（gold/silver/platinum）
	Price          Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`            // 售价
	CompareAtPrice Money          `gorm:"type:decimal(20,2);not null;default:0" json:"compare_at_price"` // 划线价（0 表示不展示）
	Images         StringArray    `gorm:"type:json" json:"images"`                                       // 图片数组
	StockQuantity  int            `gorm:"not null;default:0" json:"stock_quantity"`                      // 可售库存
	IsActive       bool           `gorm:"default:true;index" json:"is_active"`                           // 是否上架
	SortOrder      int            `gorm:"default:0;index" json:"sort_order"`                             // 排序权重
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt      time.Time      `json:"updated_at"`                                                    // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                                // 软删除时间

	Category   *Category   `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Collection *Collection `gorm:"foreignKey:CollectionID" json:"collection,omitempty"`
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
