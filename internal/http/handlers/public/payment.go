package public

import (
	"errors"
	"io"

	handlershared "github.com/nibinnizar1-ops/auroracadence-sub001/internal/http/handlers/shared"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/http/response"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

// CreatePaymentRequest 发起支付请求，零元订单可不传渠道
type CreatePaymentRequest struct {
	ChannelID uint `json:"channel_id"`
}

// VerifyPaymentRequest Checkout 回传的支付凭据
type VerifyPaymentRequest struct {
	GatewayOrderID   string `json:"razorpay_order_id" binding:"required"`
	GatewayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	Signature        string `json:"razorpay_signature" binding:"required"`
}

// GetPaymentChannels 获取可用支付方式
func (h *Handler) GetPaymentChannels(c *gin.Context) {
	channels, err := h.PaymentService.ListPublicChannels()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, channels)
}

// CreatePayment 为订单发起支付
func (h *Handler) CreatePayment(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	checkout, err := h.PaymentService.CreatePayment(c.Request.Context(), service.CreatePaymentInput{
		OrderNo:   c.Param("order_no"),
		ChannelID: req.ChannelID,
		UserID:    handlershared.ShopperID(c),
	})
	if err != nil {
		respondMapped(c, err, paymentErrorRules, response.CodeInternal, "error.payment_gateway_failed")
		return
	}
	response.Success(c, checkout)
}

// VerifyPayment 校验支付签名并确认订单
func (h *Handler) VerifyPayment(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	payment, err := h.PaymentService.VerifyPayment(c.Request.Context(), service.VerifyPaymentInput{
		GatewayOrderID:   req.GatewayOrderID,
		GatewayPaymentID: req.GatewayPaymentID,
		Signature:        req.Signature,
	})
	if err != nil {
		respondMapped(c, err, paymentErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, gin.H{
		"payment_id": payment.ID,
		"status":     payment.Status,
		"paid_at":    payment.PaidAt,
	})
}
