package public

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/coupon"
	handlershared "github.com/nibinnizar1-ops/auroracadence-sub001/internal/http/handlers/shared"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/http/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// flexibleID 兼容字符串与数字两种写法的标识
type flexibleID string

// UnmarshalJSON 接受 "12"、12 与 null
func (f *flexibleID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexibleID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexibleID(n.String())
	return nil
}

// CouponCartItemRequest 购物车行引用
type CouponCartItemRequest struct {
	ProductID    flexibleID `json:"product_id"`
	CategoryID   flexibleID `json:"category_id"`
	CollectionID flexibleID `json:"collection_id"`
}

// ValidateCouponRequest 优惠券校验请求，字段名与店面前端保持一致
type ValidateCouponRequest struct {
	Code      string                  `json:"code"`
	CartTotal decimal.Decimal         `json:"cartTotal"`
	UserID    flexibleID              `json:"userId"`
	CartItems []CouponCartItemRequest `json:"cartItems"`
}

func (r ValidateCouponRequest) toCouponRequest(shopperID string) coupon.Request {
	userID := string(r.UserID)
	if shopperID != "" {
		userID = shopperID
	}
	items := make([]coupon.CartItem, 0, len(r.CartItems))
	for _, item := range r.CartItems {
		items = append(items, coupon.CartItem{
			ProductID:    string(item.ProductID),
			CategoryID:   string(item.CategoryID),
			CollectionID: string(item.CollectionID),
		})
	}
	return coupon.Request{
		Code:      r.Code,
		CartTotal: r.CartTotal,
		UserID:    userID,
		CartItems: items,
	}
}

// couponHTTPStatus 终检接口按结果分类决定 HTTP 状态码
func couponHTTPStatus(outcome coupon.Outcome) int {
	switch outcome {
	case coupon.OutcomeInputError:
		return http.StatusBadRequest
	case coupon.OutcomeInfrastructure:
		return http.StatusInternalServerError
	default:
		return http.StatusOK
	}
}

// ValidateCoupon 下单前的优惠券终检
// 说明：响应体为裸结构，不走统一包装，业务拒绝同样返回 200。
func (h *Handler) ValidateCoupon(c *gin.Context) {
	var req ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RequestLog(c).Warnw("coupon_validate_bad_payload", "error", err)
		response.Raw(c, http.StatusBadRequest, coupon.Result{
			Discount:   decimal.Zero,
			FinalTotal: decimal.Zero,
			Error:      coupon.MsgCodeAndTotal,
			Outcome:    coupon.OutcomeInputError,
		})
		return
	}

	result := h.CouponService.Validate(c.Request.Context(), req.toCouponRequest(handlershared.ShopperID(c)))
	response.Raw(c, couponHTTPStatus(result.Outcome), result)
}

// CheckCoupon 购物车即时预检
func (h *Handler) CheckCoupon(c *gin.Context) {
	var req ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	result := h.CouponService.Check(c.Request.Context(), req.toCouponRequest(handlershared.ShopperID(c)))
	response.Success(c, result)
}
