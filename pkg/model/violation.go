// Package model 定义排班引擎的核心数据模型
package model

import (
	"github.com/google/uuid"
)

// ViolationType 违反类型标识
type ViolationType string

const (
	// 硬约束违反
	ViolationMaxHoursPerDay     ViolationType = "max-hours-per-day"
	ViolationMaxHoursPerWeek    ViolationType = "max-hours-per-week"
	ViolationContractMaxHours   ViolationType = "contract-max-hours"
	ViolationMaxConsecutiveDays ViolationType = "max-consecutive-days"
	ViolationMinRest            ViolationType = "min-rest-between-shifts"
	ViolationTimeOffConflict    ViolationType = "timeoff-conflict"
	ViolationUnavailable        ViolationType = "availability-conflict"
	ViolationDuplicate          ViolationType = "duplicate-assignment"
	ViolationMinStaffing        ViolationType = "min-staffing"
	ViolationMinWeeklyRest      ViolationType = "min-weekly-rest-days"
	ViolationCoverage           ViolationType = "coverage"

	// 软约束违反
	ViolationAvoidShift          ViolationType = "avoided-shift"
	ViolationPreferredDayOff     ViolationType = "preferred-day-off"
	ViolationConsecutivePref     ViolationType = "consecutive-days-preference"
	ViolationWeekendImbalance    ViolationType = "weekend-imbalance"
	ViolationNightShiftImbalance ViolationType = "night-shift-imbalance"
)

// 违反代价（仅作为优化器适应度惩罚，不对用户展示）
const (
	CostCritical = 950.0
	CostHigh     = 800.0
	CostMedium   = 75.0
	CostLow      = 30.0
)

// CostOf 返回严重程度对应的代价
func CostOf(severity Severity) float64 {
	switch severity {
	case SeverityCritical:
		return CostCritical
	case SeverityHigh:
		return CostHigh
	case SeverityMedium:
		return CostMedium
	default:
		return CostLow
	}
}

// ConstraintViolation 约束违反详情
type ConstraintViolation struct {
	Type        ViolationType      `json:"type"`
	Kind        ConstraintKind     `json:"kind"`
	Category    ConstraintCategory `json:"category"`
	Severity    Severity           `json:"severity"`
	Message     string             `json:"message"`
	EmployeeIDs []uuid.UUID        `json:"employee_ids,omitempty"`
	Dates       []string           `json:"dates,omitempty"`
	Cost        float64            `json:"-"`
}

// IsHard 检查是否为硬约束违反
func (v *ConstraintViolation) IsHard() bool {
	return v.Kind == ConstraintHard
}

// CountHardViolations 统计硬约束违反数量
func CountHardViolations(violations []ConstraintViolation) int {
	count := 0
	for i := range violations {
		if violations[i].IsHard() {
			count++
		}
	}
	return count
}
