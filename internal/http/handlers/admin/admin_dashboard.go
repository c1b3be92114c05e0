package admin

import (
	"strconv"
	"strings"

	handlershared "github.com/nibinnizar1-ops/auroracadence-sub001/internal/http/handlers/shared"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/http/response"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

var dashboardErrorRules = []handlershared.MappedError{
	{Target: service.ErrRangeInvalid, Code: response.CodeBadRequest, Key: "error.range_invalid"},
}

// GetDashboardOverview 获取后台仪表盘总览
func (h *Handler) GetDashboardOverview(c *gin.Context) {
	input, err := parseDashboardQuery(c)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	data, err := h.DashboardService.GetOverview(c.Request.Context(), input)
	if err != nil {
		respondMapped(c, err, dashboardErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, data)
}

func parseDashboardQuery(c *gin.Context) (service.DashboardQueryInput, error) {
	input := service.DashboardQueryInput{
		Range: strings.TrimSpace(c.Query("range")),
	}
	from, err := parseTimeNullable(strings.TrimSpace(c.Query("from")))
	if err != nil {
		return input, err
	}
	to, err := parseTimeNullable(strings.TrimSpace(c.Query("to")))
	if err != nil {
		return input, err
	}
	input.From = from
	input.To = to
	if raw := strings.TrimSpace(c.Query("force_refresh")); raw != "" {
		force, err := strconv.ParseBool(raw)
		if err != nil {
			return input, err
		}
		input.ForceRefresh = force
	}
	return input, nil
}
