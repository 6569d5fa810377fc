package rbac

import (
	"context"

	"go-leave/internal/domain"

	"go.uber.org/zap"
)

// DefaultPermissions grants each role only what it adds on top of the role
// it inherits from.
func DefaultPermissions() []RolePermission {
	grant := func(role, resource string, actions ...string) []RolePermission {
		out := make([]RolePermission, len(actions))
		for i, a := range actions {
			out[i] = RolePermission{Role: role, Resource: resource, Action: a}
		}
		return out
	}

	var perms []RolePermission
	perms = append(perms, grant(domain.RoleEmployee, "leave_request", "read", "create", "cancel")...)
	perms = append(perms, grant(domain.RoleEmployee, "leave_balance", "read")...)
	perms = append(perms, grant(domain.RoleEmployee, "leave_type", "read")...)
	perms = append(perms, grant(domain.RoleEmployee, "holiday", "read")...)
	perms = append(perms, grant(domain.RoleEmployee, "calendar", "read")...)
	perms = append(perms, grant(domain.RoleEmployee, "notification", "read", "update")...)
	perms = append(perms, grant(domain.RoleManager, "leave_request", "approve")...)
	perms = append(perms, grant(domain.RoleManager, "team_calendar", "read")...)
	perms = append(perms, grant(domain.RoleAdmin, "leave_balance", "adjust")...)
	perms = append(perms, grant(domain.RoleAdmin, "leave_type", "create")...)
	perms = append(perms, grant(domain.RoleAdmin, "holiday", "create")...)
	perms = append(perms, grant(domain.RoleAdmin, "rbac", "manage")...)
	return perms
}

func Seed(ctx context.Context, repo Repository, logger *zap.Logger) error {
	perms := DefaultPermissions()
	for i := range perms {
		if err := repo.CreatePermission(ctx, &perms[i]); err != nil {
			return err
		}
	}
	logger.Info("rbac permissions seeded", zap.Int("count", len(perms)))
	return nil
}
