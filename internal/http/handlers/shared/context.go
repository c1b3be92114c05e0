package shared

import (
	"strconv"

	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/constants"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetAdminID 从上下文读取管理员 ID
func GetAdminID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(constants.ContextKeyAdminID)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}
	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			RespondError(c, response.CodeUnauthorized, "error.token_invalid", nil)
			return 0, false
		}
		return uint(v), true
	case float64:
		if v < 0 {
			RespondError(c, response.CodeUnauthorized, "error.token_invalid", nil)
			return 0, false
		}
		return uint(v), true
	default:
		RespondError(c, response.CodeInternal, "error.internal", nil)
		return 0, false
	}
}

// ShopperID 读取可选的顾客标识，未登录返回空串
func ShopperID(c *gin.Context) string {
	value, ok := c.Get(constants.ContextKeyShopperID)
	if !ok {
		return ""
	}
	id, _ := value.(string)
	return id
}

// ParamID 解析路径中的数字 ID，失败时直接写入错误响应
func ParamID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(id), true
}
