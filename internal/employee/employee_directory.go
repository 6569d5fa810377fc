package employee

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	employeeerrors "go-leave/internal/employee/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	ProfileKeyPrefix = "employee:profile:"
	ProfileTTL       = 10 * time.Minute
)

func GetProfileKey(employeeID string) string {
	return ProfileKeyPrefix + employeeID
}

//go:generate mockgen -source=employee_directory.go -destination=mock/employee_directory_mock.go -package=mock
type Directory interface {
	FindByID(ctx context.Context, employeeID string) (Profile, error)
}

type directory struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

// NewDirectory resolves employee profiles. rdb may be nil to disable caching.
func NewDirectory(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Directory {
	l := zap.L().Named("employee.directory")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.directory")
	}
	return &directory{repo: repo, rdb: rdb, sf: &singleflight.Group{}, logger: l}
}

func (d *directory) FindByID(ctx context.Context, employeeID string) (Profile, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return Profile{}, employeeerrors.ErrInvalidEmployeeID
	}

	cacheKey := GetProfileKey(employeeID)
	if d.rdb != nil {
		if cached, err := d.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var p Profile
			if json.Unmarshal([]byte(cached), &p) == nil {
				return p, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			d.logger.Warn("profile cache read failed", zap.Error(err))
		}
	}

	v, err, _ := d.sf.Do(cacheKey, func() (interface{}, error) {
		p, err := d.load(ctx, employeeID)
		if err != nil {
			return nil, err
		}
		if d.rdb != nil {
			if data, err := json.Marshal(p); err == nil {
				d.rdb.Set(ctx, cacheKey, data, ProfileTTL)
			}
		}
		return p, nil
	})
	if err != nil {
		return Profile{}, err
	}
	return v.(Profile), nil
}

// load builds the profile. The manager chain starts with the department head,
// followed by the other managers of the department, never the employee itself.
func (d *directory) load(ctx context.Context, employeeID string) (Profile, error) {
	e, err := d.repo.FindByID(ctx, employeeID)
	if err != nil {
		return Profile{}, mapRepositoryError(err)
	}

	p := Profile{Contact: toContact(*e), ManagerChain: []Contact{}}
	if e.DepartmentID == nil {
		return p, nil
	}
	p.DepartmentID = e.DepartmentID.String()

	seen := map[string]bool{p.ID: true}

	dept, err := d.repo.FindDepartment(ctx, p.DepartmentID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return Profile{}, err
	}
	if dept != nil && dept.ManagerID != nil && !seen[dept.ManagerID.String()] {
		head, err := d.repo.FindByID(ctx, dept.ManagerID.String())
		switch {
		case err == nil:
			p.ManagerChain = append(p.ManagerChain, toContact(*head))
			seen[head.ID.String()] = true
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return Profile{}, err
		}
	}

	managers, err := d.repo.FindManagersByDepartment(ctx, p.DepartmentID)
	if err != nil {
		return Profile{}, err
	}
	for _, m := range managers {
		if seen[m.ID.String()] {
			continue
		}
		seen[m.ID.String()] = true
		p.ManagerChain = append(p.ManagerChain, toContact(m))
	}

	return p, nil
}
