package admin

import (
	handlershared "github.com/nibinnizar1-ops/auroracadence-sub001/internal/http/handlers/shared"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/http/response"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/models"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/repository"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

var couponErrorRules = []handlershared.MappedError{
	{Target: service.ErrCouponNotFound, Code: response.CodeNotFound, Key: "error.coupon_not_found"},
	{Target: service.ErrCouponCodeExists, Code: response.CodeConflict, Key: "error.coupon_code_exists"},
	{Target: service.ErrCouponInvalid, Code: response.CodeBadRequest, Key: "error.coupon_invalid"},
	{Target: service.ErrCouponWindowInvalid, Code: response.CodeBadRequest, Key: "error.coupon_window_invalid"},
	{Target: service.ErrCouponPercentageInvalid, Code: response.CodeBadRequest, Key: "error.coupon_percentage_invalid"},
	{Target: service.ErrCouponValueInvalid, Code: response.CodeBadRequest, Key: "error.coupon_value_invalid"},
	{Target: service.ErrCouponScopeInvalid, Code: response.CodeBadRequest, Key: "error.coupon_scope_invalid"},
	{Target: service.ErrCouponLimitInvalid, Code: response.CodeBadRequest, Key: "error.coupon_limit_invalid"},
}

// CreateCouponRequest 创建/更新优惠券请求
type CreateCouponRequest struct {
	Code               string        `json:"code" binding:"required"`
	Name               string        `json:"name"`
	DiscountType       string        `json:"discount_type" binding:"required"`
	DiscountValue      models.Money  `json:"discount_value"`
	MinimumOrderAmount *models.Money `json:"minimum_order_amount"`
	ValidFrom          string        `json:"valid_from" binding:"required"`
	ValidUntil         string        `json:"valid_until" binding:"required"`
	IsActive           *bool         `json:"is_active"`
	IsPaused           *bool         `json:"is_paused"`
	MaxUses            *int          `json:"max_uses"`
	MaxUsesPerUser     *int          `json:"max_uses_per_user"`
	ApplicableTo       string        `json:"applicable_to"`
	ApplicableIDs      []string      `json:"applicable_ids"`
}

func (req CreateCouponRequest) toInput() (service.CouponInput, error) {
	validFrom, err := parseTimeNullable(req.ValidFrom)
	if err != nil {
		return service.CouponInput{}, err
	}
	validUntil, err := parseTimeNullable(req.ValidUntil)
	if err != nil {
		return service.CouponInput{}, err
	}
	input := service.CouponInput{
		Code:               req.Code,
		Name:               req.Name,
		DiscountType:       req.DiscountType,
		DiscountValue:      req.DiscountValue,
		MinimumOrderAmount: req.MinimumOrderAmount,
		IsActive:           req.IsActive,
		IsPaused:           req.IsPaused,
		MaxUses:            req.MaxUses,
		MaxUsesPerUser:     req.MaxUsesPerUser,
		ApplicableTo:       req.ApplicableTo,
		ApplicableIDs:      req.ApplicableIDs,
	}
	if validFrom != nil {
		input.ValidFrom = *validFrom
	}
	if validUntil != nil {
		input.ValidUntil = *validUntil
	}
	return input, nil
}

// CreateCoupon 创建优惠券
func (h *Handler) CreateCoupon(c *gin.Context) {
	var req CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.coupon_window_invalid", nil)
		return
	}

	coupon, err := h.CouponAdminService.Create(c.Request.Context(), input)
	if err != nil {
		respondMapped(c, err, couponErrorRules, response.CodeInternal, "error.save_failed")
		return
	}
	response.Success(c, coupon)
}

// UpdateCoupon 更新优惠券
func (h *Handler) UpdateCoupon(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.coupon_window_invalid", nil)
		return
	}

	coupon, err := h.CouponAdminService.Update(c.Request.Context(), id, input)
	if err != nil {
		respondMapped(c, err, couponErrorRules, response.CodeInternal, "error.save_failed")
		return
	}
	response.Success(c, coupon)
}

// PauseCoupon 暂停优惠券
func (h *Handler) PauseCoupon(c *gin.Context) {
	h.setCouponPaused(c, true)
}

// ResumeCoupon 恢复优惠券
func (h *Handler) ResumeCoupon(c *gin.Context) {
	h.setCouponPaused(c, false)
}

func (h *Handler) setCouponPaused(c *gin.Context, paused bool) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	coupon, err := h.CouponAdminService.SetPaused(c.Request.Context(), id, paused)
	if err != nil {
		respondMapped(c, err, couponErrorRules, response.CodeInternal, "error.save_failed")
		return
	}
	response.Success(c, coupon)
}

// DeleteCoupon 删除优惠券
func (h *Handler) DeleteCoupon(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.CouponAdminService.Delete(c.Request.Context(), id); err != nil {
		respondMapped(c, err, couponErrorRules, response.CodeInternal, "error.delete_failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// GetAdminCoupon 获取优惠券详情
func (h *Handler) GetAdminCoupon(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	coupon, err := h.CouponAdminService.Get(c.Request.Context(), id)
	if err != nil {
		respondMapped(c, err, couponErrorRules, response.CodeInternal, "error.coupon_fetch_failed")
		return
	}
	response.Success(c, coupon)
}

// GetAdminCoupons 获取优惠券列表
func (h *Handler) GetAdminCoupons(c *gin.Context) {
	page, pageSize := handlershared.QueryPagination(c)
	coupons, total, err := h.CouponAdminService.List(c.Request.Context(), repository.CouponListFilter{
		Code:         c.Query("code"),
		ApplicableID: c.Query("applicable_id"),
		IsActive:     handlershared.QueryBool(c, "is_active"),
		IsPaused:     handlershared.QueryBool(c, "is_paused"),
		Page:         page,
		PageSize:     pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.coupon_fetch_failed", err)
		return
	}
	pageResult(c, coupons, page, pageSize, total)
}

// GetAdminCouponUsages 获取优惠券使用记录
func (h *Handler) GetAdminCouponUsages(c *gin.Context) {
	page, pageSize := handlershared.QueryPagination(c)
	filter := repository.CouponUsageListFilter{
		CouponID: handlershared.QueryUint(c, "coupon_id"),
		UserID:   c.Query("user_id"),
		Page:     page,
		PageSize: pageSize,
	}
	if c.Param("id") != "" {
		id, ok := paramID(c)
		if !ok {
			return
		}
		filter.CouponID = id
	}

	usages, total, err := h.CouponAdminService.ListUsages(c.Request.Context(), filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.coupon_fetch_failed", err)
		return
	}
	pageResult(c, usages, page, pageSize, total)
}
