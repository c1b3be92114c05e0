package public

import (
	"strconv"

	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetBanners 获取当前生效的 Banner
func (h *Handler) GetBanners(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	banners, err := h.BannerService.ListPublic(limit)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, banners)
}
