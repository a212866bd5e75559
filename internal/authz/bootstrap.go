package authz

import "fmt"

// RoleSeed declares a built-in role and its default policies.
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds returns the default back-office role matrix.
// Super admins skip enforcement entirely, so they need no seed here.
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: "viewer",
			Policies: []Policy{
				{Object: "/admin/*", Action: "GET"},
			},
		},
		{
			Role:     "manager",
			Inherits: []string{"viewer"},
			Policies: []Policy{
				{Object: "/admin/products", Action: "*"},
				{Object: "/admin/products/:id", Action: "*"},
				{Object: "/admin/products/:id/restock", Action: "POST"},
				{Object: "/admin/categories", Action: "*"},
				{Object: "/admin/categories/:id", Action: "*"},
				{Object: "/admin/promo-codes", Action: "*"},
				{Object: "/admin/promo-codes/:id", Action: "*"},
				{Object: "/admin/alerts/:id/acknowledge", Action: "POST"},
				{Object: "/admin/alerts/:id/dismiss", Action: "POST"},
				{Object: "/admin/alerts/:id/resolve", Action: "POST"},
				{Object: "/admin/alerts/check", Action: "POST"},
				{Object: "/admin/quizzes/:id/submit", Action: "POST"},
			},
		},
		{
			Role:     "support",
			Inherits: []string{"viewer"},
			Policies: []Policy{
				{Object: "/admin/orders/:id/events", Action: "POST"},
				{Object: "/admin/reviews/:id/moderate", Action: "POST"},
				{Object: "/admin/reviews/:id", Action: "DELETE"},
				{Object: "/admin/users/:id/status", Action: "PATCH"},
				{Object: "/admin/quizzes/:id/submit", Action: "POST"},
			},
		},
	}
}

// BootstrapBuiltinRoles seeds the built-in roles and their policies.
// Existing rules are left untouched, so operator customizations survive
// restarts.
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	for _, seed := range BuiltinRoleSeeds() {
		role, err := s.EnsureRole(seed.Role)
		if err != nil {
			return err
		}

		for _, parent := range seed.Inherits {
			parentRole, err := s.EnsureRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
		}

		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				action = "*"
			}
			if _, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action); err != nil {
				return fmt.Errorf("seed role policy failed: %w", err)
			}
		}
	}

	return nil
}
