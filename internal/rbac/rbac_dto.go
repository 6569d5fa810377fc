package rbac

import "go-leave/internal/domain"

func mapPermission(p RolePermission) domain.PermissionResponse {
	return domain.PermissionResponse{
		Role:     p.Role,
		Resource: p.Resource,
		Action:   p.Action,
	}
}
