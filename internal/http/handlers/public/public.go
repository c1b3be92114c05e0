package public

import (
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/http/response"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/i18n"

	"github.com/gin-gonic/gin"
)

// GetConfig 获取店面公共配置
func (h *Handler) GetConfig(c *gin.Context) {
	if h.Config == nil {
		respondError(c, response.CodeInternal, "error.config_fetch_failed", nil)
		return
	}
	response.Success(c, gin.H{
		"store_name":      h.Config.Store.Name,
		"currency":        h.Config.Store.Currency,
		"currency_symbol": h.Config.Store.CurrencySymbol,
		"languages":       i18n.SupportedLocales(),
	})
}
