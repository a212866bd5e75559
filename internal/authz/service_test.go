package authz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newAuthzTestService(t *testing.T) *Service {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return svc
}

func TestNormalizeObject(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"/api/v1/admin/products", "/admin/products"},
		{"/api/v1", "/"},
		{"/admin/orders/:id", "/admin/orders/:id"},
		{"admin/orders", "/admin/orders"},
		{"  /admin/alerts  ", "/admin/alerts"},
		{"", "/"},
	}
	for _, tc := range cases {
		if got := NormalizeObject(tc.in); got != tc.want {
			t.Errorf("NormalizeObject(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeAction(t *testing.T) {
	if got := NormalizeAction(" post "); got != "POST" {
		t.Errorf("NormalizeAction = %q, want POST", got)
	}
}

func TestNormalizeRole(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"manager", "role:manager", false},
		{"role:support", "role:support", false},
		{"shift lead", "role:shift_lead", false},
		{"  ", "", true},
		{"role:", "", true},
	}
	for _, tc := range cases {
		got, err := NormalizeRole(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("NormalizeRole(%q) error = nil, want error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizeRole(%q) error = %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("NormalizeRole(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSubjectForAdmin(t *testing.T) {
	if got := SubjectForAdmin(42); got != "admin:42" {
		t.Errorf("SubjectForAdmin(42) = %q, want admin:42", got)
	}
}

func TestEnforceWithRolePolicies(t *testing.T) {
	svc := newAuthzTestService(t)

	if err := svc.GrantRolePolicy("manager", "/admin/products/:id", "PUT"); err != nil {
		t.Fatalf("GrantRolePolicy() error = %v", err)
	}
	if err := svc.SetAdminRoles(7, []string{"manager"}); err != nil {
		t.Fatalf("SetAdminRoles() error = %v", err)
	}

	allowed, err := svc.EnforceAdmin(7, "/api/v1/admin/products/:id", "put")
	if err != nil {
		t.Fatalf("EnforceAdmin() error = %v", err)
	}
	if !allowed {
		t.Error("manager denied their own policy")
	}

	allowed, err = svc.EnforceAdmin(7, "/admin/orders", "GET")
	if err != nil {
		t.Fatalf("EnforceAdmin() error = %v", err)
	}
	if allowed {
		t.Error("manager allowed outside granted policies")
	}

	allowed, err = svc.EnforceAdmin(8, "/admin/products/:id", "PUT")
	if err != nil {
		t.Fatalf("EnforceAdmin() error = %v", err)
	}
	if allowed {
		t.Error("roleless admin allowed")
	}
}

func TestBootstrapBuiltinRolesWiresInheritance(t *testing.T) {
	svc := newAuthzTestService(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("BootstrapBuiltinRoles() error = %v", err)
	}

	if err := svc.SetAdminRoles(3, []string{"support"}); err != nil {
		t.Fatalf("SetAdminRoles() error = %v", err)
	}

	// Support inherits read access from viewer.
	allowed, err := svc.EnforceAdmin(3, "/admin/orders", "GET")
	if err != nil {
		t.Fatalf("EnforceAdmin() error = %v", err)
	}
	if !allowed {
		t.Error("support denied inherited viewer read")
	}

	allowed, err = svc.EnforceAdmin(3, "/admin/orders/7/events", "POST")
	if err != nil {
		t.Fatalf("EnforceAdmin() error = %v", err)
	}
	if !allowed {
		t.Error("support denied their own event policy")
	}

	// Support never got product write access.
	allowed, err = svc.EnforceAdmin(3, "/admin/products", "POST")
	if err != nil {
		t.Fatalf("EnforceAdmin() error = %v", err)
	}
	if allowed {
		t.Error("support allowed product writes")
	}
}

func TestRoleManagementRoundTrip(t *testing.T) {
	svc := newAuthzTestService(t)

	role, err := svc.EnsureRole("auditor")
	if err != nil {
		t.Fatalf("EnsureRole() error = %v", err)
	}
	if role != "role:auditor" {
		t.Errorf("EnsureRole = %q, want role:auditor", role)
	}

	if err := svc.GrantRolePolicy("auditor", "/admin/orders", "GET"); err != nil {
		t.Fatalf("GrantRolePolicy() error = %v", err)
	}
	policies, err := svc.GetRolePolicies("auditor")
	if err != nil {
		t.Fatalf("GetRolePolicies() error = %v", err)
	}
	if len(policies) != 1 || policies[0].Object != "/admin/orders" || policies[0].Action != "GET" {
		t.Fatalf("policies = %+v, want the granted rule", policies)
	}

	roles, err := svc.ListRoles()
	if err != nil {
		t.Fatalf("ListRoles() error = %v", err)
	}
	found := false
	for _, r := range roles {
		if r == "role:auditor" {
			found = true
		}
	}
	if !found {
		t.Errorf("roles = %v, want role:auditor listed", roles)
	}

	if err := svc.SetAdminRoles(9, []string{"auditor"}); err != nil {
		t.Fatalf("SetAdminRoles() error = %v", err)
	}
	assigned, err := svc.GetAdminRoles(9)
	if err != nil {
		t.Fatalf("GetAdminRoles() error = %v", err)
	}
	if len(assigned) != 1 || assigned[0] != "role:auditor" {
		t.Errorf("assigned = %v, want [role:auditor]", assigned)
	}

	// Reassignment replaces, revocation removes.
	if err := svc.SetAdminRoles(9, nil); err != nil {
		t.Fatalf("SetAdminRoles(nil) error = %v", err)
	}
	assigned, err = svc.GetAdminRoles(9)
	if err != nil {
		t.Fatalf("GetAdminRoles() error = %v", err)
	}
	if len(assigned) != 0 {
		t.Errorf("assigned after clear = %v, want none", assigned)
	}

	if err := svc.RevokeRolePolicy("auditor", "/admin/orders", "GET"); err != nil {
		t.Fatalf("RevokeRolePolicy() error = %v", err)
	}
	policies, err = svc.GetRolePolicies("auditor")
	if err != nil {
		t.Fatalf("GetRolePolicies() error = %v", err)
	}
	if len(policies) != 0 {
		t.Errorf("policies after revoke = %+v, want none", policies)
	}
}
