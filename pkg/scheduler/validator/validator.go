// Package validator 提供排班硬/软约束校验
package validator

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lunban/lunban/pkg/model"
)

// Validator 约束校验器
// 校验为纯函数：不修改任何输入，所有违反以数据形式返回
type Validator struct {
	policy model.LaborPolicy
}

// New 创建约束校验器
func New(policy model.LaborPolicy) *Validator {
	return &Validator{policy: policy}
}

// NewDefault 使用默认劳动政策创建校验器
func NewDefault() *Validator {
	return New(model.DefaultLaborPolicy())
}

// Policy 返回当前劳动政策
func (v *Validator) Policy() model.LaborPolicy {
	return v.policy
}

// Validate 校验候选排班方案，返回全部违反详情
func (v *Validator) Validate(
	assignments []*model.ScheduleAssignment,
	employees []*model.Employee,
	shifts []*model.Shift,
	dateRange model.DateRange,
) []model.ConstraintViolation {
	snap := buildSnapshot(assignments, employees, shifts, dateRange)

	var violations []model.ConstraintViolation
	violations = append(violations, v.checkDuplicates(snap)...)
	violations = append(violations, v.checkDailyHours(snap)...)
	violations = append(violations, v.checkWeeklyHours(snap)...)
	violations = append(violations, v.checkWeeklyRestDays(snap)...)
	violations = append(violations, v.checkConsecutiveDays(snap)...)
	violations = append(violations, v.checkMinRest(snap)...)
	violations = append(violations, v.checkTimeOff(snap)...)
	violations = append(violations, v.checkAvailability(snap)...)
	violations = append(violations, v.checkMinStaffing(snap)...)

	violations = append(violations, v.checkShiftPreferences(snap)...)
	violations = append(violations, v.checkPreferredDaysOff(snap)...)
	violations = append(violations, v.checkWeekendBalance(snap)...)
	violations = append(violations, v.checkNightBalance(snap)...)

	return violations
}

// snapshot 校验用只读索引
type snapshot struct {
	dateRange   model.DateRange
	employees   []*model.Employee
	shifts      []*model.Shift
	assignments []*model.ScheduleAssignment

	employeeByID     map[uuid.UUID]*model.Employee
	shiftByID        map[uuid.UUID]*model.Shift
	assignmentsByEmp map[uuid.UUID][]*model.ScheduleAssignment
	countByDateShift map[dateShiftKey]int
}

type dateShiftKey struct {
	date    string
	shiftID uuid.UUID
}

// buildSnapshot 构建校验索引
func buildSnapshot(
	assignments []*model.ScheduleAssignment,
	employees []*model.Employee,
	shifts []*model.Shift,
	dateRange model.DateRange,
) *snapshot {
	snap := &snapshot{
		dateRange:        dateRange,
		employees:        employees,
		shifts:           shifts,
		assignments:      assignments,
		employeeByID:     make(map[uuid.UUID]*model.Employee, len(employees)),
		shiftByID:        make(map[uuid.UUID]*model.Shift, len(shifts)),
		assignmentsByEmp: make(map[uuid.UUID][]*model.ScheduleAssignment),
		countByDateShift: make(map[dateShiftKey]int),
	}

	for _, e := range employees {
		snap.employeeByID[e.ID] = e
	}
	for _, s := range shifts {
		snap.shiftByID[s.ID] = s
	}
	for _, a := range assignments {
		snap.assignmentsByEmp[a.EmployeeID] = append(snap.assignmentsByEmp[a.EmployeeID], a)
		snap.countByDateShift[dateShiftKey{date: a.Date, shiftID: a.ShiftID}]++
	}

	// 员工分配按日期排序，连续天数与休息间隔检查依赖有序性
	for _, list := range snap.assignmentsByEmp {
		sort.Slice(list, func(i, j int) bool {
			return list[i].Date < list[j].Date
		})
	}

	return snap
}

// hoursOf 返回分配对应班次的工时，班次缺失时为0
func (s *snapshot) hoursOf(a *model.ScheduleAssignment) float64 {
	shift := s.shiftByID[a.ShiftID]
	if shift == nil || !shift.IsWorking() {
		return 0
	}
	return shift.DurationHours
}

// workingDatesOf 返回员工的工作日期集合
func (s *snapshot) workingDatesOf(empID uuid.UUID) map[string]bool {
	dates := make(map[string]bool)
	for _, a := range s.assignmentsByEmp[empID] {
		shift := s.shiftByID[a.ShiftID]
		if shift != nil && shift.IsWorking() {
			dates[a.Date] = true
		}
	}
	return dates
}

// timeWindowOf 返回分配的具体起止时间
func (s *snapshot) timeWindowOf(a *model.ScheduleAssignment) (time.Time, time.Time, bool) {
	shift := s.shiftByID[a.ShiftID]
	if shift == nil || !shift.IsWorking() {
		return time.Time{}, time.Time{}, false
	}
	start, end := shift.TimeWindowOn(a.Date)
	return start, end, true
}

// employeeName 返回员工名称，缺失时退化为ID
func (s *snapshot) employeeName(id uuid.UUID) string {
	if e := s.employeeByID[id]; e != nil {
		return e.Name
	}
	return id.String()
}
