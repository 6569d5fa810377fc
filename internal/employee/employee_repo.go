package employee

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindDepartment(ctx context.Context, id string) (*Department, error)
	FindManagersByDepartment(ctx context.Context, departmentID string) ([]Employee, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) FindDepartment(ctx context.Context, id string) (*Department, error) {
	var d Department
	err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repository) FindManagersByDepartment(ctx context.Context, departmentID string) ([]Employee, error) {
	var managers []Employee
	err := r.db.WithContext(ctx).
		Where("department_id = ?", departmentID).
		Where("is_manager = ?", true).
		Order("full_name ASC").
		Find(&managers).Error
	return managers, err
}
