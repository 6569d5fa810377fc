package rbac

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RolePermission struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Role     string    `gorm:"type:varchar(30);not null;uniqueIndex:uq_role_permission"`
	Resource string    `gorm:"type:varchar(50);not null;uniqueIndex:uq_role_permission"`
	Action   string    `gorm:"type:varchar(30);not null;uniqueIndex:uq_role_permission"`
}

func (RolePermission) TableName() string {
	return "role_permissions"
}

func (p *RolePermission) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
