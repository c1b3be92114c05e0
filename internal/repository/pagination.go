package repository

import (
	"errors"

	"gorm.io/gorm"
)

// applyPagination 应用分页参数，pageSize 非正时不分页
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if page < 1 {
		page = 1
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}

// countAndFind 统计总数后分页查询，preloads 只作用于数据查询
func countAndFind[T any](query *gorm.DB, page, pageSize int, order string, preloads ...string) ([]T, int64, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	for _, name := range preloads {
		query = query.Preload(name)
	}
	rows := make([]T, 0)
	if err := applyPagination(query, page, pageSize).Order(order).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// firstOrNil 查询单条记录，未找到返回 nil
func firstOrNil[T any](query *gorm.DB, conds ...interface{}) (*T, error) {
	var row T
	if err := query.First(&row, conds...).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}
