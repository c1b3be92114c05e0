package shared

import (
	"errors"

	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/http/response"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/i18n"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 返回请求级日志实例（由中间件注入 request_id）
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil || c.Request == nil {
		return logger.S()
	}
	return logger.FromContext(c.Request.Context())
}

// RespondError 返回国际化错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	locale := i18n.ResolveLocale(c)
	respond(c, code, i18n.T(locale, key), err)
}

// RespondErrorf 返回带参数的国际化错误响应
func RespondErrorf(c *gin.Context, code int, key string, err error, args ...interface{}) {
	locale := i18n.ResolveLocale(c)
	respond(c, code, i18n.Sprintf(locale, key, args...), err)
}

// RespondAppError 按 AppError 中的状态码与 key 响应，其它错误按内部错误处理
func RespondAppError(c *gin.Context, err error) {
	var appErr *response.AppError
	if errors.As(err, &appErr) {
		RespondError(c, appErr.Code, appErr.Key, appErr.Err)
		return
	}
	RespondError(c, response.CodeInternal, "error.internal", err)
}

func respond(c *gin.Context, code int, msg string, err error) {
	if err != nil {
		log := RequestLog(c)
		if code >= response.CodeInternal {
			log.Errorw("handler_error", "code", code, "message", msg, "error", err)
		} else {
			log.Warnw("handler_rejected", "code", code, "message", msg, "error", err)
		}
	}
	response.Error(c, code, msg)
}
