// Package model 定义排班引擎的核心数据模型
package model

import (
	"time"

	"github.com/google/uuid"
)

// OptimizationGoal 优化目标
type OptimizationGoal string

const (
	GoalFairness   OptimizationGoal = "fairness"   // 公平优先
	GoalPreference OptimizationGoal = "preference" // 偏好优先
	GoalCoverage   OptimizationGoal = "coverage"   // 覆盖优先
	GoalCost       OptimizationGoal = "cost"       // 成本优先
	GoalBalanced   OptimizationGoal = "balanced"   // 均衡（默认）
)

// MaxScheduleRangeDays 单次排班的最大天数
const MaxScheduleRangeDays = 90

// SchedulingRequest 排班请求
// 所有数据由调用方提供，引擎仅在单次调用期间于内存中持有
type SchedulingRequest struct {
	DepartmentID        uuid.UUID             `json:"department_id"`
	DateRange           DateRange             `json:"date_range"`
	Employees           []*Employee           `json:"employees"`
	Shifts              []*Shift              `json:"shifts"`
	Pattern             *ShiftPattern         `json:"pattern,omitempty"`
	Constraints         []Constraint          `json:"constraints,omitempty"`
	ExistingAssignments []*ScheduleAssignment `json:"existing_assignments,omitempty"`
	LockedAssignments   []*ScheduleAssignment `json:"locked_assignments,omitempty"`
	Goal                OptimizationGoal      `json:"goal,omitempty"`
}

// GoalOrDefault 返回优化目标，未指定时为均衡
func (r *SchedulingRequest) GoalOrDefault() OptimizationGoal {
	if r.Goal == "" {
		return GoalBalanced
	}
	return r.Goal
}

// SchedulingResult 排班结果
type SchedulingResult struct {
	Assignments     []*ScheduleAssignment `json:"assignments"`
	Violations      []ConstraintViolation `json:"violations"`
	Score           ScheduleScore         `json:"score"`
	Iterations      int                   `json:"iterations"`
	ComputationTime time.Duration         `json:"computation_time"`
	Suggestions     []string              `json:"suggestions,omitempty"`
	Success         bool                  `json:"success"`
	Improved        bool                  `json:"improved,omitempty"` // 后处理阶段是否有改进
}

// ScheduleChanges 排班更新变更
// 未提供的字段沿用原请求
type ScheduleChanges struct {
	DateRange   *DateRange       `json:"date_range,omitempty"`
	Employees   []*Employee      `json:"employees,omitempty"`
	Shifts      []*Shift         `json:"shifts,omitempty"`
	Pattern     *ShiftPattern    `json:"pattern,omitempty"`
	Constraints []Constraint     `json:"constraints,omitempty"`
	Goal        OptimizationGoal `json:"goal,omitempty"`
}
