package admin

import (
	"strconv"

	handlershared "github.com/nibinnizar1-ops/auroracadence-sub001/internal/http/handlers/shared"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/http/response"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

var bannerErrorRules = []handlershared.MappedError{
	{Target: service.ErrBannerNotFound, Code: response.CodeNotFound, Key: "error.banner_not_found"},
	{Target: service.ErrBannerInvalid, Code: response.CodeBadRequest, Key: "error.banner_invalid"},
}

// BannerUpsertRequest Banner 创建/更新请求
type BannerUpsertRequest struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Image       string `json:"image" binding:"required"`
	MobileImage string `json:"mobile_image"`
	LinkURL     string `json:"link_url"`
	ButtonText  string `json:"button_text"`
	IsActive    *bool  `json:"is_active"`
	StartAt     string `json:"start_at"`
	EndAt       string `json:"end_at"`
	SortOrder   int    `json:"sort_order"`
}

func (req BannerUpsertRequest) toInput() (service.BannerInput, error) {
	startAt, err := parseTimeNullable(req.StartAt)
	if err != nil {
		return service.BannerInput{}, err
	}
	endAt, err := parseTimeNullable(req.EndAt)
	if err != nil {
		return service.BannerInput{}, err
	}
	return service.BannerInput{
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		Image:       req.Image,
		MobileImage: req.MobileImage,
		LinkURL:     req.LinkURL,
		ButtonText:  req.ButtonText,
		IsActive:    req.IsActive,
		StartAt:     startAt,
		EndAt:       endAt,
		SortOrder:   req.SortOrder,
	}, nil
}

// GetAdminBanners 获取后台 Banner 列表
func (h *Handler) GetAdminBanners(c *gin.Context) {
	page, pageSize := handlershared.QueryPagination(c)

	var isActive *bool
	if raw := c.Query("is_active"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
		isActive = &parsed
	}

	banners, total, err := h.BannerService.ListAdmin(c.Query("search"), isActive, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	pageResult(c, banners, page, pageSize, total)
}

// GetAdminBanner 获取后台 Banner 详情
func (h *Handler) GetAdminBanner(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	banner, err := h.BannerService.GetByID(id)
	if err != nil {
		respondMapped(c, err, bannerErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, banner)
}

// CreateBanner 创建 Banner
func (h *Handler) CreateBanner(c *gin.Context) {
	var req BannerUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	banner, err := h.BannerService.Create(input)
	if err != nil {
		respondMapped(c, err, bannerErrorRules, response.CodeInternal, "error.save_failed")
		return
	}
	response.Success(c, banner)
}

// UpdateBanner 更新 Banner
func (h *Handler) UpdateBanner(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req BannerUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	banner, err := h.BannerService.Update(id, input)
	if err != nil {
		respondMapped(c, err, bannerErrorRules, response.CodeInternal, "error.save_failed")
		return
	}
	response.Success(c, banner)
}

// DeleteBanner 删除 Banner
func (h *Handler) DeleteBanner(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.BannerService.Delete(id); err != nil {
		respondMapped(c, err, bannerErrorRules, response.CodeInternal, "error.delete_failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
