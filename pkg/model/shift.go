// Package model 定义排班引擎的核心数据模型
package model

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Shift 班次定义
type Shift struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Kind          ShiftKind `json:"kind"`
	StartTime     string    `json:"start_time"` // HH:MM
	EndTime       string    `json:"end_time"`   // HH:MM
	DurationHours float64   `json:"duration_hours"`
	RequiredStaff int       `json:"required_staff"`
	MinStaff      int       `json:"min_staff"`
	MaxStaff      int       `json:"max_staff"`
}

// IsWorking 检查班次是否为工作班次
func (s *Shift) IsWorking() bool {
	return s.Kind.IsWorking()
}

// IsNightShift 检查是否为夜班
func (s *Shift) IsNightShift() bool {
	return s.Kind == ShiftNight
}

// TimeWindowOn 返回班次在某日期的具体起止时间
// 跨日班次的结束时间落在次日
func (s *Shift) TimeWindowOn(date string) (time.Time, time.Time) {
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, time.Time{}
	}
	start := parseTimeOnDay(day, s.StartTime)
	end := parseTimeOnDay(day, s.EndTime)
	if !end.After(start) {
		end = end.Add(24 * time.Hour)
	}
	return start, end
}

// parseTimeOnDay 在指定日期解析 HH:MM 时间
func parseTimeOnDay(day time.Time, timeStr string) time.Time {
	t, err := time.Parse(TimeLayout, timeStr)
	if err != nil {
		return day
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location())
}

// ScheduleAssignment 排班分配
// 同一员工同一日期最多一条分配；重复属于硬约束违反而非前置条件
type ScheduleAssignment struct {
	ID            uuid.UUID  `json:"id"`
	EmployeeID    uuid.UUID  `json:"employee_id"`
	ShiftID       uuid.UUID  `json:"shift_id"`
	Date          string     `json:"date"` // YYYY-MM-DD
	IsLocked      bool       `json:"is_locked"`
	SwapRequestID *uuid.UUID `json:"swap_request_id,omitempty"`
}

// Key 返回 (员工, 日期) 组合键
func (a *ScheduleAssignment) Key() string {
	return a.EmployeeID.String() + "@" + a.Date
}

// SameSlot 检查两条分配是否指向同一 (员工, 班次, 日期) 三元组
func (a *ScheduleAssignment) SameSlot(other *ScheduleAssignment) bool {
	return a.EmployeeID == other.EmployeeID && a.ShiftID == other.ShiftID && a.Date == other.Date
}

// Clone 深拷贝分配
func (a *ScheduleAssignment) Clone() *ScheduleAssignment {
	clone := *a
	if a.SwapRequestID != nil {
		id := *a.SwapRequestID
		clone.SwapRequestID = &id
	}
	return &clone
}

// CloneAssignments 深拷贝分配列表
func CloneAssignments(assignments []*ScheduleAssignment) []*ScheduleAssignment {
	result := make([]*ScheduleAssignment, len(assignments))
	for i, a := range assignments {
		result[i] = a.Clone()
	}
	return result
}

// SortAssignments 按日期、员工排序分配列表
func SortAssignments(assignments []*ScheduleAssignment) {
	sort.Slice(assignments, func(i, j int) bool {
		if assignments[i].Date != assignments[j].Date {
			return assignments[i].Date < assignments[j].Date
		}
		return assignments[i].EmployeeID.String() < assignments[j].EmployeeID.String()
	})
}

// Constraint 约束定义
type Constraint struct {
	ID       uuid.UUID          `json:"id"`
	Kind     ConstraintKind     `json:"kind"`
	Category ConstraintCategory `json:"category"`
	Weight   float64            `json:"weight"` // 软约束权重 [0,1]
	Active   bool               `json:"active"`
}
