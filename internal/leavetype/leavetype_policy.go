package leavetype

import (
	"strings"

	"github.com/shopspring/decimal"
)

var monthsPerYear = decimal.NewFromInt(12)

// Policy turns a leave type into an annual entitlement.
type Policy struct {
	standardName string
	standardDays decimal.Decimal
}

// NewPolicy configures the standard-PTO override: a leave type named
// standardName (case-insensitive) is entitled to standardDays regardless of
// its accrual rate. An empty name disables the override.
func NewPolicy(standardName string, standardDays int) Policy {
	return Policy{
		standardName: strings.TrimSpace(standardName),
		standardDays: decimal.NewFromInt(int64(standardDays)),
	}
}

func (p Policy) isStandard(lt LeaveType) bool {
	return p.standardName != "" && strings.EqualFold(strings.TrimSpace(lt.Name), p.standardName)
}

// AnnualEntitlement is twelve months of accrual, or the standard-PTO days.
func (p Policy) AnnualEntitlement(lt LeaveType) decimal.Decimal {
	if p.isStandard(lt) {
		return p.standardDays
	}
	return lt.AccrualRate.Mul(monthsPerYear)
}

// TotalDays is the entitlement for a year after an administrative adjustment.
func (p Policy) TotalDays(lt LeaveType, adjustment decimal.Decimal) decimal.Decimal {
	return ApplyAdjustment(p.AnnualEntitlement(lt), adjustment, lt.MaxDays)
}

// ApplyAdjustment adds adjustment to base and caps the sum at maxDays when set.
// The result is not floored; a large negative adjustment can go below zero.
func ApplyAdjustment(base, adjustment decimal.Decimal, maxDays *int) decimal.Decimal {
	total := base.Add(adjustment)
	if maxDays == nil {
		return total
	}
	return decimal.Min(total, decimal.NewFromInt(int64(*maxDays)))
}
