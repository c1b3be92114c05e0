package public

import (
	"errors"

	handlershared "github.com/nibinnizar1-ops/auroracadence-sub001/internal/http/handlers/shared"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/http/response"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

var catalogErrorRules = []handlershared.MappedError{
	{Target: service.ErrCategoryNotFound, Code: response.CodeNotFound, Key: "error.category_not_found"},
	{Target: service.ErrCollectionNotFound, Code: response.CodeNotFound, Key: "error.collection_not_found"},
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
	{Target: service.ErrBannerNotFound, Code: response.CodeNotFound, Key: "error.banner_not_found"},
}

var orderErrorRules = []handlershared.MappedError{
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrOrderItemInvalid, Code: response.CodeBadRequest, Key: "error.order_item_invalid"},
	{Target: service.ErrOrderCustomerInvalid, Code: response.CodeBadRequest, Key: "error.order_customer_invalid"},
	{Target: service.ErrOrderNotCancelable, Code: response.CodeBadRequest, Key: "error.order_not_cancelable"},
	{Target: service.ErrProductNotFound, Code: response.CodeBadRequest, Key: "error.product_not_found"},
	{Target: service.ErrProductNotAvailable, Code: response.CodeBadRequest, Key: "error.product_not_available"},
}

var paymentErrorRules = []handlershared.MappedError{
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrOrderNotPayable, Code: response.CodeBadRequest, Key: "error.order_not_payable"},
	{Target: service.ErrPaymentChannelNotFound, Code: response.CodeNotFound, Key: "error.payment_channel_not_found"},
	{Target: service.ErrPaymentChannelInvalid, Code: response.CodeBadRequest, Key: "error.payment_channel_invalid"},
	{Target: service.ErrPaymentProviderNotSupported, Code: response.CodeBadRequest, Key: "error.payment_provider_not_supported"},
	{Target: service.ErrPaymentGatewayFailed, Code: response.CodeBadGateway, Key: "error.payment_gateway_failed"},
	{Target: service.ErrPaymentNotFound, Code: response.CodeNotFound, Key: "error.payment_not_found"},
	{Target: service.ErrPaymentSignatureInvalid, Code: response.CodeBadRequest, Key: "error.payment_signature_invalid"},
	{Target: service.ErrPaymentAmountMismatch, Code: response.CodeBadRequest, Key: "error.payment_amount_mismatch"},
}

// respondOrderCreateError 下单错误需要带出商品名或优惠券文案
func respondOrderCreateError(c *gin.Context, err error) {
	var stockErr *service.OutOfStockError
	if errors.As(err, &stockErr) {
		handlershared.RespondErrorf(c, response.CodeBadRequest, "error.product_out_of_stock", nil, stockErr.ProductName)
		return
	}
	var couponErr *service.CouponRejectedError
	if errors.As(err, &couponErr) {
		response.ErrorWithData(c, response.CodeBadRequest, couponErr.Result.Error, gin.H{"coupon": couponErr.Result})
		return
	}
	if errors.Is(err, service.ErrCouponValidation) {
		respondError(c, response.CodeInternal, "error.order_create_failed", err)
		return
	}
	respondMapped(c, err, orderErrorRules, response.CodeInternal, "error.order_create_failed")
}
