package admin

import (
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/authz"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetAuthzRoles 获取内置角色及其策略
func (h *Handler) GetAuthzRoles(c *gin.Context) {
	roles := make([]gin.H, 0, len(authz.BuiltinRoleSeeds()))
	for _, seed := range authz.BuiltinRoleSeeds() {
		policies := make([]gin.H, 0, len(seed.Policies))
		for _, policy := range seed.Policies {
			policies = append(policies, gin.H{"object": policy.Object, "action": policy.Action})
		}
		roles = append(roles, gin.H{
			"role":     seed.Role,
			"inherits": seed.Inherits,
			"policies": policies,
		})
	}
	response.Success(c, roles)
}
