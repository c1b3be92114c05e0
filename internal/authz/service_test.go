package authz

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	return svc
}

func TestAssignAdminRoleReplacesPrevious(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.SyncBuiltinRoles(); err != nil {
		t.Fatalf("sync builtin roles failed: %v", err)
	}
	if err := svc.AssignAdminRole(2, "fulfillment"); err != nil {
		t.Fatalf("assign fulfillment failed: %v", err)
	}
	if err := svc.AssignAdminRole(2, "role:finance"); err != nil {
		t.Fatalf("assign finance failed: %v", err)
	}

	roles, err := svc.AdminRoles(2)
	if err != nil {
		t.Fatalf("get roles failed: %v", err)
	}
	if len(roles) != 2 || roles[0] != "finance" || roles[1] != "readonly_auditor" {
		t.Fatalf("roles want [finance readonly_auditor], got=%v", roles)
	}

	allow, err := svc.EnforceAdmin(2, "/api/v1/admin/orders/3/status", "PATCH")
	if err != nil || allow {
		t.Fatalf("previous role must be revoked: allow=%v err=%v", allow, err)
	}
	allow, err = svc.EnforceAdmin(2, "/api/v1/admin/payment-channels/1", "put")
	if err != nil || !allow {
		t.Fatalf("finance must manage payment channels: allow=%v err=%v", allow, err)
	}
}

func TestAssignAdminRoleRejectsUnknown(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.AssignAdminRole(5, "designer"); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
	if err := svc.AssignAdminRole(0, "finance"); err == nil {
		t.Fatalf("admin id 0 must be rejected")
	}
}

func TestNormalizeObject(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "/api/v1/admin/orders/:id", want: "/admin/orders/:id"},
		{in: "/admin/orders/:id", want: "/admin/orders/:id"},
		{in: "admin/orders", want: "/admin/orders"},
		{in: "/api/v1", want: "/"},
		{in: "/api/v1x/orders", want: "/api/v1x/orders"},
		{in: "", want: "/"},
	}
	for _, item := range cases {
		got := NormalizeObject(item.in)
		if got != item.want {
			t.Fatalf("normalize object failed, in=%q want=%q got=%q", item.in, item.want, got)
		}
	}
}

func TestSyncBuiltinRoles(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if _, err := svc.enforcer.AddPolicy("role:marketing", "/admin/products", "*"); err != nil {
		t.Fatalf("add stale policy failed: %v", err)
	}
	if _, err := svc.enforcer.AddPolicy("role:stylist", "/admin/banners", "*"); err != nil {
		t.Fatalf("add retired role policy failed: %v", err)
	}
	if err := svc.SyncBuiltinRoles(); err != nil {
		t.Fatalf("sync builtin roles failed: %v", err)
	}
	if err := svc.SyncBuiltinRoles(); err != nil {
		t.Fatalf("sync must be idempotent: %v", err)
	}

	retired, err := svc.enforcer.GetFilteredPolicy(0, "role:stylist")
	if err != nil || len(retired) != 0 {
		t.Fatalf("retired role policies must be removed: %v %v", retired, err)
	}

	if err := svc.AssignAdminRole(3, "marketing"); err != nil {
		t.Fatalf("assign admin role failed: %v", err)
	}
	cases := []struct {
		obj   string
		act   string
		allow bool
	}{
		{obj: "/api/v1/admin/coupons", act: "POST", allow: true},
		{obj: "/api/v1/admin/coupons/7/pause", act: "POST", allow: true},
		{obj: "/api/v1/admin/banners/2", act: "DELETE", allow: true},
		{obj: "/api/v1/admin/orders/9", act: "GET", allow: true},
		{obj: "/api/v1/admin/products", act: "POST", allow: false},
		{obj: "/api/v1/admin/orders/9/status", act: "PATCH", allow: false},
		{obj: "/api/v1/admin/payment-channels/1", act: "PUT", allow: false},
	}
	for _, tc := range cases {
		allow, err := svc.EnforceAdmin(3, tc.obj, tc.act)
		if err != nil {
			t.Fatalf("enforce %s %s failed: %v", tc.act, tc.obj, err)
		}
		if allow != tc.allow {
			t.Fatalf("enforce %s %s: want %v, got %v", tc.act, tc.obj, tc.allow, allow)
		}
	}
}

func TestAdminPoliciesIncludeInherited(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.SyncBuiltinRoles(); err != nil {
		t.Fatalf("sync builtin roles failed: %v", err)
	}
	if err := svc.AssignAdminRole(4, "fulfillment"); err != nil {
		t.Fatalf("assign admin role failed: %v", err)
	}
	policies, err := svc.AdminPolicies(4)
	if err != nil {
		t.Fatalf("get admin policies failed: %v", err)
	}
	if len(policies) != 2 {
		t.Fatalf("expected own and inherited policy, got %+v", policies)
	}
	if policies[0].Object != "/admin/*" || policies[0].Subject != "role:readonly_auditor" {
		t.Fatalf("unexpected inherited policy: %+v", policies[0])
	}
	if policies[1].Object != "/admin/orders/:id/status" || policies[1].Action != "PATCH" {
		t.Fatalf("unexpected role policy: %+v", policies[1])
	}

	if err := svc.AssignAdminRole(4, " "); err != nil {
		t.Fatalf("clear admin role failed: %v", err)
	}
	roles, err := svc.AdminRoles(4)
	if err != nil || len(roles) != 0 {
		t.Fatalf("expected no roles, got %v %v", roles, err)
	}
	allow, err := svc.EnforceAdmin(4, "/admin/orders", "GET")
	if err != nil || allow {
		t.Fatalf("admin without role must be denied: allow=%v err=%v", allow, err)
	}
}
