package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Employee struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	DepartmentID *uuid.UUID `gorm:"type:uuid;index:idx_employees_department"`
	FullName     string     `gorm:"type:varchar(150);not null"`
	Email        string     `gorm:"type:varchar(150);uniqueIndex:uq_employee_email"`
	IsManager    bool       `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

type Department struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name      string     `gorm:"size:255;not null"`
	ManagerID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
}

func (d *Department) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// Contact is the addressable part of an employee.
type Contact struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// Profile is what the leave engine needs to know about a requester.
type Profile struct {
	Contact
	DepartmentID string    `json:"department_id,omitempty"`
	ManagerChain []Contact `json:"manager_chain"`
}

func toContact(e Employee) Contact {
	return Contact{ID: e.ID.String(), FullName: e.FullName, Email: e.Email}
}
