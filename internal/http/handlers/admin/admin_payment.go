package admin

import (
	handlershared "github.com/nibinnizar1-ops/auroracadence-sub001/internal/http/handlers/shared"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/http/response"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetAdminPayments 获取支付记录
func (h *Handler) GetAdminPayments(c *gin.Context) {
	page, pageSize := handlershared.QueryPagination(c)
	payments, total, err := h.PaymentService.ListPayments(repository.PaymentListFilter{
		Page:         page,
		PageSize:     pageSize,
		OrderID:      handlershared.QueryUint(c, "order_id"),
		ChannelID:    handlershared.QueryUint(c, "channel_id"),
		ProviderType: c.Query("provider_type"),
		Status:       c.Query("status"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	pageResult(c, payments, page, pageSize, total)
}
