package rbac

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=rbac_repo.go -destination=mock/rbac_repo_mock.go -package=mock
type Repository interface {
	ListPermissions(ctx context.Context) ([]RolePermission, error)
	CreatePermission(ctx context.Context, p *RolePermission) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListPermissions(ctx context.Context) ([]RolePermission, error) {
	var result []RolePermission
	err := r.db.WithContext(ctx).Order("role, resource, action").Find(&result).Error
	return result, err
}

// CreatePermission is a no-op when the (role, resource, action) row exists.
func (r *repository) CreatePermission(ctx context.Context, p *RolePermission) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(p).Error
}
