package balance_test

import (
	"context"
	"testing"
	"time"

	"go-leave/internal/balance"
	balanceerrors "go-leave/internal/balance/errors"
	"go-leave/internal/employee"
	employeeerrors "go-leave/internal/employee/errors"
	"go-leave/internal/leavetype"
	leavetypeerrors "go-leave/internal/leavetype/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeLeaveTypes struct {
	items map[string]leavetype.LeaveType
}

func (f *fakeLeaveTypes) GetByID(ctx context.Context, id string) (leavetype.LeaveType, error) {
	lt, ok := f.items[id]
	if !ok {
		return leavetype.LeaveType{}, leavetypeerrors.ErrLeaveTypeNotFound
	}
	return lt, nil
}

type fakeEmployees struct {
	known map[string]bool
}

func (f *fakeEmployees) FindByID(ctx context.Context, employeeID string) (employee.Profile, error) {
	if !f.known[employeeID] {
		return employee.Profile{}, employeeerrors.ErrEmployeeNotFound
	}
	return employee.Profile{Contact: employee.Contact{ID: employeeID}}, nil
}

type balanceServiceDeps struct {
	ledgerFixture
	service    balance.Service
	employeeID string
}

func setupBalanceServiceTest(t *testing.T) balanceServiceDeps {
	t.Helper()
	f := newLedgerFixture(t)
	employeeID := uuid.NewString()

	types := &fakeLeaveTypes{items: map[string]leavetype.LeaveType{f.annual.ID.String(): f.annual}}
	employees := &fakeEmployees{known: map[string]bool{employeeID: true}}
	svc := balance.NewService(f.db, balance.NewRepository(f.db), f.ledger, types, employees, 3, zap.NewNop())

	return balanceServiceDeps{ledgerFixture: f, service: svc, employeeID: employeeID}
}

func TestBalanceService_AdjustBalance(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.NewString()

	t.Run("success creates balance lazily", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		year := 2026
		adj := decimal.NewFromInt(-4)

		resp, err := deps.service.AdjustBalance(ctx, actorID, balance.AdjustBalanceRequest{
			EmployeeID:     deps.employeeID,
			LeaveTypeID:    deps.annual.ID.String(),
			Year:           &year,
			AdjustmentDays: &adj,
			Reason:         "unpaid carry-back",
		})

		require.NoError(t, err)
		assert.Equal(t, "Annual Leave", resp.LeaveTypeName)
		assertDays(t, "14", resp.TotalDays, "total")
		assertDays(t, "14", resp.AvailableDays, "available")

		var audit balance.BalanceAdjustment
		require.NoError(t, deps.db.First(&audit).Error)
		assert.Equal(t, "unpaid carry-back", audit.Reason)
		require.NotNil(t, audit.ActorID)
		assert.Equal(t, actorID, audit.ActorID.String())
	})

	t.Run("success defaults year and adjustment", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)

		resp, err := deps.service.AdjustBalance(ctx, actorID, balance.AdjustBalanceRequest{
			EmployeeID:  deps.employeeID,
			LeaveTypeID: deps.annual.ID.String(),
		})

		require.NoError(t, err)
		assert.Equal(t, time.Now().UTC().Year(), resp.Year)
		assertDays(t, "0", resp.AdjustmentDays, "adjustment")
		assertDays(t, "18", resp.TotalDays, "total")
	})

	t.Run("negative unknown leave type writes nothing", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)

		_, err := deps.service.AdjustBalance(ctx, actorID, balance.AdjustBalanceRequest{
			EmployeeID:  deps.employeeID,
			LeaveTypeID: uuid.NewString(),
		})

		assert.ErrorIs(t, err, leavetypeerrors.ErrLeaveTypeNotFound)
		var count int64
		deps.db.Model(&balance.LeaveBalance{}).Count(&count)
		assert.Zero(t, count)
	})

	t.Run("negative unknown employee", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		_, err := deps.service.AdjustBalance(ctx, actorID, balance.AdjustBalanceRequest{
			EmployeeID:  uuid.NewString(),
			LeaveTypeID: deps.annual.ID.String(),
		})
		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})

	t.Run("negative invalid ids and year", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		year := 1999

		_, err := deps.service.AdjustBalance(ctx, actorID, balance.AdjustBalanceRequest{EmployeeID: "x", LeaveTypeID: deps.annual.ID.String()})
		assert.ErrorIs(t, err, balanceerrors.ErrInvalidEmployeeID)

		_, err = deps.service.AdjustBalance(ctx, actorID, balance.AdjustBalanceRequest{EmployeeID: deps.employeeID, LeaveTypeID: "x"})
		assert.ErrorIs(t, err, balanceerrors.ErrInvalidLeaveTypeID)

		_, err = deps.service.AdjustBalance(ctx, actorID, balance.AdjustBalanceRequest{EmployeeID: deps.employeeID, LeaveTypeID: deps.annual.ID.String(), Year: &year})
		assert.ErrorIs(t, err, balanceerrors.ErrInvalidYear)
	})
}

func TestBalanceService_GetBalances(t *testing.T) {
	ctx := context.Background()

	t.Run("success includes available days and type name", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		employeeID := uuid.MustParse(deps.employeeID)
		b := deps.open(t, employeeID, deps.annual, 2026)
		require.NoError(t, deps.ledger.Reserve(ctx, &b, d("5")))
		deps.open(t, employeeID, deps.annual, 2025)

		resp, err := deps.service.GetBalances(ctx, deps.employeeID, 2026)

		require.NoError(t, err)
		require.Len(t, resp, 1)
		assert.Equal(t, "Annual Leave", resp[0].LeaveTypeName)
		assertDays(t, "5", resp[0].PendingDays, "pending")
		assertDays(t, "13", resp[0].AvailableDays, "available")
	})

	t.Run("empty year", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		resp, err := deps.service.GetBalances(ctx, deps.employeeID, 2030)
		require.NoError(t, err)
		assert.Empty(t, resp)
	})

	t.Run("negative invalid employee", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		_, err := deps.service.GetBalances(ctx, "abc", 2026)
		assert.ErrorIs(t, err, balanceerrors.ErrInvalidEmployeeID)
	})
}
