package authz

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/util"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

const (
	apiV1Prefix     = "/api/v1"
	casbinTableName = "casbin_rule"
	adminSubjectFmt = "admin:%d"
	rolePrefix      = "role:"
)

// ErrUnknownRole 角色不在预置角色矩阵中
var ErrUnknownRole = errors.New("unknown admin role")

var errUnavailable = errors.New("authz service unavailable")

// 对象使用 keyMatch2，路由中的 :id 段匹配任意值
const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && (r.act == p.act || p.act == "*")
`

// Policy 权限策略
type Policy struct {
	Subject string `json:"subject"`
	Object  string `json:"object"`
	Action  string `json:"action"`
}

func (p Policy) key() string {
	return p.Subject + "|" + p.Object + "|" + p.Action
}

// Service 后台 RBAC，策略持久化在 casbin_rule 表
//
// 每个管理员只绑定一个预置角色；超级管理员不经过这里，由中间件直接放行。
type Service struct {
	enforcer *casbin.SyncedEnforcer
}

// NewService 创建授权服务并加载已有策略
func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, errors.New("authz db is nil")
	}
	adapter, err := gormadapter.NewAdapterByDBUseTableName(db, "", casbinTableName)
	if err != nil {
		return nil, fmt.Errorf("create authz adapter failed: %w", err)
	}
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("load authz model failed: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("init authz enforcer failed: %w", err)
	}
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)
	enforcer.EnableAutoSave(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("load authz policy failed: %w", err)
	}
	return &Service{enforcer: enforcer}, nil
}

// EnforceAdmin 判断管理员能否以 act 访问 obj（obj 可带 /api/v1 前缀）
func (s *Service) EnforceAdmin(adminID uint, obj, act string) (bool, error) {
	if s == nil || s.enforcer == nil {
		return false, errUnavailable
	}
	return s.enforcer.Enforce(SubjectForAdmin(adminID), NormalizeObject(obj), NormalizeAction(act))
}

// AssignAdminRole 将管理员绑定到一个预置角色，空角色表示解除绑定
func (s *Service) AssignAdminRole(adminID uint, role string) error {
	if adminID == 0 {
		return errors.New("admin id is required")
	}
	if s == nil || s.enforcer == nil {
		return errUnavailable
	}
	name := strings.TrimPrefix(strings.TrimSpace(role), rolePrefix)
	if name != "" && !IsBuiltinRole(name) {
		return fmt.Errorf("%w: %s", ErrUnknownRole, name)
	}

	subject := SubjectForAdmin(adminID)
	if _, err := s.enforcer.RemoveFilteredNamedGroupingPolicy("g", 0, subject); err != nil {
		return fmt.Errorf("clear admin role failed: %w", err)
	}
	if name == "" {
		return nil
	}
	if _, err := s.enforcer.AddNamedGroupingPolicy("g", subject, RoleSubject(name)); err != nil {
		return fmt.Errorf("assign admin role failed: %w", err)
	}
	return nil
}

// AdminRoles 管理员生效的角色（含继承），不带 role: 前缀
func (s *Service) AdminRoles(adminID uint) ([]string, error) {
	if s == nil || s.enforcer == nil {
		return nil, errUnavailable
	}
	roles, err := s.enforcer.GetImplicitRolesForUser(SubjectForAdmin(adminID))
	if err != nil {
		return nil, fmt.Errorf("get admin roles failed: %w", err)
	}
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		if strings.HasPrefix(role, rolePrefix) {
			names = append(names, strings.TrimPrefix(role, rolePrefix))
		}
	}
	sort.Strings(names)
	return names, nil
}

// AdminPolicies 管理员经由角色继承得到的全部策略
func (s *Service) AdminPolicies(adminID uint) ([]Policy, error) {
	if s == nil || s.enforcer == nil {
		return nil, errUnavailable
	}
	rules, err := s.enforcer.GetImplicitPermissionsForUser(SubjectForAdmin(adminID))
	if err != nil {
		return nil, fmt.Errorf("get admin policies failed: %w", err)
	}
	seen := make(map[string]struct{}, len(rules))
	policies := make([]Policy, 0, len(rules))
	for _, item := range convertPolicies(rules) {
		if _, ok := seen[item.key()]; ok {
			continue
		}
		seen[item.key()] = struct{}{}
		policies = append(policies, item)
	}
	sort.Slice(policies, func(i, j int) bool {
		if policies[i].Object != policies[j].Object {
			return policies[i].Object < policies[j].Object
		}
		if policies[i].Action != policies[j].Action {
			return policies[i].Action < policies[j].Action
		}
		return policies[i].Subject < policies[j].Subject
	})
	return policies, nil
}

func convertPolicies(rules [][]string) []Policy {
	policies := make([]Policy, 0, len(rules))
	for _, rule := range rules {
		if len(rule) < 3 {
			continue
		}
		policies = append(policies, Policy{
			Subject: strings.TrimSpace(rule[0]),
			Object:  NormalizeObject(rule[1]),
			Action:  NormalizeAction(rule[2]),
		})
	}
	return policies
}

// SubjectForAdmin 管理员主体标识
func SubjectForAdmin(adminID uint) string {
	return fmt.Sprintf(adminSubjectFmt, adminID)
}

// RoleSubject 角色主体标识
func RoleSubject(name string) string {
	return rolePrefix + strings.TrimPrefix(strings.TrimSpace(name), rolePrefix)
}

// NormalizeObject 去掉 /api/v1 前缀，策略与路由共用同一套路径
func NormalizeObject(object string) string {
	normalized := strings.TrimSpace(object)
	if normalized == "" {
		return "/"
	}
	if !strings.HasPrefix(normalized, "/") {
		normalized = "/" + normalized
	}
	if normalized == apiV1Prefix {
		return "/"
	}
	if strings.HasPrefix(normalized, apiV1Prefix+"/") {
		return strings.TrimPrefix(normalized, apiV1Prefix)
	}
	return normalized
}

// NormalizeAction 统一授权动作
func NormalizeAction(action string) string {
	return strings.ToUpper(strings.TrimSpace(action))
}
