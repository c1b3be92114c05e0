package admin

import (
	"time"

	handlershared "github.com/nibinnizar1-ops/auroracadence-sub001/internal/http/handlers/shared"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/http/response"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

var authErrorRules = []handlershared.MappedError{
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized, Key: "error.login_invalid"},
	{Target: service.ErrInvalidPassword, Code: response.CodeBadRequest, Key: "error.password_mismatch"},
	{Target: service.ErrPasswordWeak, Code: response.CodeBadRequest, Key: "error.password_weak"},
	{Target: service.ErrNotFound, Code: response.CodeUnauthorized, Key: "error.unauthorized"},
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token     string                 `json:"token"`
	User      map[string]interface{} `json:"user"`
	ExpiresAt string                 `json:"expires_at"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// AdminLogin 管理员登录
func (h *Handler) AdminLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	admin, token, expiresAt, err := h.AuthService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondMapped(c, err, authErrorRules, response.CodeInternal, "error.internal")
		return
	}

	response.Success(c, LoginResponse{
		Token: token,
		User: map[string]interface{}{
			"id":       admin.ID,
			"username": admin.Username,
			"role":     admin.Role,
			"is_super": admin.IsSuper,
		},
		ExpiresAt: expiresAt.Format(time.RFC3339),
	})
}

// ChangePassword 修改当前管理员密码，成功后旧 Token 失效
func (h *Handler) ChangePassword(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.AuthService.ChangePassword(c.Request.Context(), adminID, req.OldPassword, req.NewPassword); err != nil {
		respondMapped(c, err, authErrorRules, response.CodeInternal, "error.save_failed")
		return
	}
	response.Success(c, gin.H{"updated": true})
}

// GetMe 获取当前管理员信息与权限
func (h *Handler) GetMe(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	admin, err := h.AdminRepo.GetByID(adminID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if admin == nil {
		respondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return
	}

	data := gin.H{
		"id":            admin.ID,
		"username":      admin.Username,
		"role":          admin.Role,
		"is_super":      admin.IsSuper,
		"last_login_at": admin.LastLoginAt,
		"roles":         []string{},
		"policies":      []interface{}{},
	}
	if h.AuthzService != nil {
		roles, err := h.AuthzService.AdminRoles(admin.ID)
		if err != nil {
			respondError(c, response.CodeInternal, "error.internal", err)
			return
		}
		policies, err := h.AuthzService.AdminPolicies(admin.ID)
		if err != nil {
			respondError(c, response.CodeInternal, "error.internal", err)
			return
		}
		data["roles"] = roles
		data["policies"] = policies
	}
	response.Success(c, data)
}
