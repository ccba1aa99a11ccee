// Package model 定义排班引擎的核心数据模型
package model

import (
	"time"

	"github.com/google/uuid"
)

// TimeOffStatus 请假申请状态
type TimeOffStatus string

const (
	TimeOffPending  TimeOffStatus = "pending"
	TimeOffApproved TimeOffStatus = "approved"
	TimeOffRejected TimeOffStatus = "rejected"
)

// TimeOffRequest 请假申请
// 只有已批准的申请会约束排班
type TimeOffRequest struct {
	ID         uuid.UUID     `json:"id"`
	EmployeeID uuid.UUID     `json:"employee_id"`
	StartDate  string        `json:"start_date"` // YYYY-MM-DD
	EndDate    string        `json:"end_date"`   // YYYY-MM-DD
	Kind       string        `json:"kind,omitempty"`
	Status     TimeOffStatus `json:"status"`
}

// Covers 检查申请是否覆盖某日期
func (r *TimeOffRequest) Covers(date string) bool {
	return date >= r.StartDate && date <= r.EndDate
}

// Employee 员工
type Employee struct {
	ID              uuid.UUID             `json:"id"`
	Name            string                `json:"name"`
	Role            string                `json:"role,omitempty"`
	ContractType    ContractType          `json:"contract_type"`
	MinHoursPerWeek int                   `json:"min_hours_per_week"`
	MaxHoursPerWeek int                   `json:"max_hours_per_week"`
	Skills          []string              `json:"skills,omitempty"`
	Preferences     *EmployeePreferences  `json:"preferences,omitempty"`
	Availability    *EmployeeAvailability `json:"availability,omitempty"`
}

// EmployeePreferences 员工偏好
type EmployeePreferences struct {
	PreferredShiftKinds []ShiftKind    `json:"preferred_shift_kinds,omitempty"` // 偏好班次种类
	AvoidShiftKinds     []ShiftKind    `json:"avoid_shift_kinds,omitempty"`     // 避免班次种类
	PreferredDaysOff    []time.Weekday `json:"preferred_days_off,omitempty"`    // 偏好休息日 (0-6)
	MaxConsecutiveDays  int            `json:"max_consecutive_days,omitempty"`  // 期望最大连续工作天数
	PrefersNightShift   bool           `json:"prefers_night_shift,omitempty"`   // 夜班意愿
}

// PrefersKind 检查是否偏好某班次种类
func (p *EmployeePreferences) PrefersKind(kind ShiftKind) bool {
	for _, k := range p.PreferredShiftKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// AvoidsKind 检查是否避免某班次种类
func (p *EmployeePreferences) AvoidsKind(kind ShiftKind) bool {
	for _, k := range p.AvoidShiftKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// PrefersDayOff 检查是否偏好在某星期休息
func (p *EmployeePreferences) PrefersDayOff(weekday time.Weekday) bool {
	for _, d := range p.PreferredDaysOff {
		if d == weekday {
			return true
		}
	}
	return false
}

// EmployeeAvailability 员工可用性
type EmployeeAvailability struct {
	WeekdayMask      [7]bool          `json:"weekday_mask"`               // 周日为下标0
	UnavailableDates []string         `json:"unavailable_dates,omitempty"`
	TimeOffRequests  []TimeOffRequest `json:"time_off_requests,omitempty"`
}

// DefaultAvailability 返回全可用的可用性
func DefaultAvailability() *EmployeeAvailability {
	return &EmployeeAvailability{
		WeekdayMask: [7]bool{true, true, true, true, true, true, true},
	}
}

// IsAvailableOn 检查员工在某日期是否可用
// 不考虑请假申请，仅按星期掩码和不可用日期判断
func (a *EmployeeAvailability) IsAvailableOn(date string) bool {
	if !a.WeekdayMask[int(WeekdayOf(date))] {
		return false
	}
	for _, d := range a.UnavailableDates {
		if d == date {
			return false
		}
	}
	return true
}

// ApprovedTimeOffOn 返回覆盖某日期的已批准请假申请
func (a *EmployeeAvailability) ApprovedTimeOffOn(date string) *TimeOffRequest {
	for i := range a.TimeOffRequests {
		r := &a.TimeOffRequests[i]
		if r.Status == TimeOffApproved && r.Covers(date) {
			return r
		}
	}
	return nil
}

// HasSkill 检查员工是否具备某技能
func (e *Employee) HasSkill(skill string) bool {
	for _, s := range e.Skills {
		if s == skill {
			return true
		}
	}
	return false
}

// IsAvailableOn 检查员工在某日期是否可用（含已批准请假）
func (e *Employee) IsAvailableOn(date string) bool {
	if e.Availability == nil {
		return true
	}
	if !e.Availability.IsAvailableOn(date) {
		return false
	}
	return e.Availability.ApprovedTimeOffOn(date) == nil
}
