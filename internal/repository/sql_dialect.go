package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// dbDialectName 获取数据库方言名称，默认按 sqlite 处理
func dbDialectName(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return "sqlite"
	}
	name := strings.ToLower(strings.TrimSpace(db.Dialector.Name()))
	if name == "" {
		return "sqlite"
	}
	return name
}

func isPostgres(dialect string) bool {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql":
		return true
	}
	return false
}

// likeConditionByDialect 构建多列模糊匹配条件，postgres 使用 ILIKE 忽略大小写
func likeConditionByDialect(dialect string, columns ...string) (string, int) {
	operator := "LIKE"
	if isPostgres(dialect) {
		operator = "ILIKE"
	}
	parts := make([]string, 0, len(columns))
	for _, column := range columns {
		column = strings.TrimSpace(column)
		if column == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s ?", column, operator))
	}
	return strings.Join(parts, " OR "), len(parts)
}

// whereLike 在查询上追加多列模糊匹配
func whereLike(query *gorm.DB, keyword string, columns ...string) *gorm.DB {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return query
	}
	condition, count := likeConditionByDialect(dbDialectName(query), columns...)
	if count == 0 {
		return query
	}
	args := make([]interface{}, count)
	for i := range args {
		args[i] = "%" + keyword + "%"
	}
	return query.Where("("+condition+")", args...)
}

// jsonArrayContainsByDialect 判断 JSON 字符串数组列是否包含给定值
func jsonArrayContainsByDialect(dialect, column string) string {
	if isPostgres(dialect) {
		return fmt.Sprintf("(%s::jsonb @> jsonb_build_array(?::text))", column)
	}
	return fmt.Sprintf("EXISTS (SELECT 1 FROM json_each(%s) WHERE json_each.value = ?)", column)
}

// dayExprByDialect 按日聚合的日期表达式
func dayExprByDialect(dialect, column string) string {
	if isPostgres(dialect) {
		return fmt.Sprintf("to_char(%s, 'YYYY-MM-DD')", column)
	}
	return fmt.Sprintf("strftime('%%Y-%%m-%%d', %s)", column)
}
