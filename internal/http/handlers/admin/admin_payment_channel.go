package admin

import (
	handlershared "github.com/nibinnizar1-ops/auroracadence-sub001/internal/http/handlers/shared"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/http/response"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/repository"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

var paymentChannelErrorRules = []handlershared.MappedError{
	{Target: service.ErrPaymentChannelNotFound, Code: response.CodeNotFound, Key: "error.payment_channel_not_found"},
	{Target: service.ErrPaymentChannelInvalid, Code: response.CodeBadRequest, Key: "error.payment_channel_invalid"},
	{Target: service.ErrPaymentProviderNotSupported, Code: response.CodeBadRequest, Key: "error.payment_provider_not_supported"},
}

// PaymentChannelRequest 支付渠道请求
type PaymentChannelRequest struct {
	Name         string                 `json:"name" binding:"required"`
	ProviderType string                 `json:"provider_type" binding:"required"`
	Config       map[string]interface{} `json:"config"`
	IsActive     *bool                  `json:"is_active"`
	SortOrder    int                    `json:"sort_order"`
}

func (req PaymentChannelRequest) toInput() service.PaymentChannelInput {
	return service.PaymentChannelInput{
		Name:         req.Name,
		ProviderType: req.ProviderType,
		Config:       req.Config,
		IsActive:     req.IsActive,
		SortOrder:    req.SortOrder,
	}
}

// GetPaymentChannels 获取支付渠道列表
func (h *Handler) GetPaymentChannels(c *gin.Context) {
	page, pageSize := handlershared.QueryPagination(c)
	channels, total, err := h.PaymentService.ListChannels(repository.PaymentChannelListFilter{
		Page:         page,
		PageSize:     pageSize,
		ProviderType: c.Query("provider_type"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	pageResult(c, channels, page, pageSize, total)
}

// GetPaymentChannel 获取支付渠道详情
func (h *Handler) GetPaymentChannel(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	channel, err := h.PaymentService.GetChannel(id)
	if err != nil {
		respondMapped(c, err, paymentChannelErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, channel)
}

// CreatePaymentChannel 创建支付渠道
func (h *Handler) CreatePaymentChannel(c *gin.Context) {
	var req PaymentChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	channel, err := h.PaymentService.CreateChannel(req.toInput())
	if err != nil {
		respondMapped(c, err, paymentChannelErrorRules, response.CodeInternal, "error.save_failed")
		return
	}
	response.Success(c, channel)
}

// UpdatePaymentChannel 更新支付渠道
func (h *Handler) UpdatePaymentChannel(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req PaymentChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	channel, err := h.PaymentService.UpdateChannel(id, req.toInput())
	if err != nil {
		respondMapped(c, err, paymentChannelErrorRules, response.CodeInternal, "error.save_failed")
		return
	}
	response.Success(c, channel)
}

// DeletePaymentChannel 删除支付渠道
func (h *Handler) DeletePaymentChannel(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.PaymentService.DeleteChannel(id); err != nil {
		respondMapped(c, err, paymentChannelErrorRules, response.CodeInternal, "error.delete_failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
