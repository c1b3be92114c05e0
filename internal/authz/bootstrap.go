package authz

import (
	"fmt"
	"strings"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds 珠宝商城后台预置角色矩阵
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: "readonly_auditor",
			Policies: []Policy{
				{Object: "/admin/*", Action: "GET"},
			},
		},
		{
			Role:     "catalog_manager",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/products", Action: "*"},
				{Object: "/admin/products/:id", Action: "*"},
				{Object: "/admin/categories", Action: "*"},
				{Object: "/admin/categories/:id", Action: "*"},
				{Object: "/admin/collections", Action: "*"},
				{Object: "/admin/collections/:id", Action: "*"},
			},
		},
		{
			Role:     "marketing",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/coupons", Action: "*"},
				{Object: "/admin/coupons/:id", Action: "*"},
				{Object: "/admin/coupons/:id/pause", Action: "POST"},
				{Object: "/admin/coupons/:id/resume", Action: "POST"},
				{Object: "/admin/banners", Action: "*"},
				{Object: "/admin/banners/:id", Action: "*"},
			},
		},
		{
			Role:     "fulfillment",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/orders/:id/status", Action: "PATCH"},
			},
		},
		{
			Role:     "finance",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/payment-channels", Action: "*"},
				{Object: "/admin/payment-channels/:id", Action: "*"},
			},
		},
	}
}

// BuiltinRoleNames 预置角色名称（不含前缀）
func BuiltinRoleNames() []string {
	seeds := BuiltinRoleSeeds()
	names := make([]string, 0, len(seeds))
	for _, seed := range seeds {
		names = append(names, seed.Role)
	}
	return names
}

// IsBuiltinRole 判断角色名是否属于预置矩阵
func IsBuiltinRole(name string) bool {
	for _, seed := range BuiltinRoleSeeds() {
		if seed.Role == name {
			return true
		}
	}
	return false
}

// SyncBuiltinRoles 让 casbin_rule 中的角色策略与预置矩阵完全一致
//
// 缺失的策略与继承关系会补齐，矩阵外的角色策略（含已下线角色）会被移除。
// 管理员到角色的绑定不在这里处理。
func (s *Service) SyncBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return errUnavailable
	}

	wantPolicies := map[string][]string{}
	wantLinks := map[string][]string{}
	for _, seed := range BuiltinRoleSeeds() {
		role := RoleSubject(seed.Role)
		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required: %s %s", seed.Role, policy.Object)
			}
			item := Policy{Subject: role, Object: NormalizeObject(policy.Object), Action: action}
			wantPolicies[item.key()] = []string{item.Subject, item.Object, item.Action}
		}
		for _, parent := range seed.Inherits {
			link := []string{role, RoleSubject(parent)}
			wantLinks[strings.Join(link, "|")] = link
		}
	}

	current, err := s.enforcer.GetFilteredPolicy(0)
	if err != nil {
		return fmt.Errorf("list policies failed: %w", err)
	}
	for _, item := range convertPolicies(current) {
		if !strings.HasPrefix(item.Subject, rolePrefix) {
			continue
		}
		if _, ok := wantPolicies[item.key()]; ok {
			delete(wantPolicies, item.key())
			continue
		}
		if _, err := s.enforcer.RemovePolicy(item.Subject, item.Object, item.Action); err != nil {
			return fmt.Errorf("remove stale policy failed: %w", err)
		}
	}
	for _, rule := range wantPolicies {
		if _, err := s.enforcer.AddPolicy(rule[0], rule[1], rule[2]); err != nil {
			return fmt.Errorf("add builtin policy failed: %w", err)
		}
	}

	links, err := s.enforcer.GetFilteredNamedGroupingPolicy("g", 0)
	if err != nil {
		return fmt.Errorf("list role links failed: %w", err)
	}
	for _, link := range links {
		if len(link) < 2 || !strings.HasPrefix(link[0], rolePrefix) {
			continue
		}
		key := link[0] + "|" + link[1]
		if _, ok := wantLinks[key]; ok {
			delete(wantLinks, key)
			continue
		}
		if _, err := s.enforcer.RemoveNamedGroupingPolicy("g", link[0], link[1]); err != nil {
			return fmt.Errorf("remove stale role link failed: %w", err)
		}
	}
	for _, link := range wantLinks {
		if _, err := s.enforcer.AddNamedGroupingPolicy("g", link[0], link[1]); err != nil {
			return fmt.Errorf("link role inheritance failed: %w", err)
		}
	}
	return nil
}
