// Package validator 提供排班硬/软约束校验
package validator

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/lunban/lunban/pkg/model"
)

// checkDuplicates 检查同一员工同一日期的重复分配
func (v *Validator) checkDuplicates(snap *snapshot) []model.ConstraintViolation {
	var violations []model.ConstraintViolation

	for empID, list := range snap.assignmentsByEmp {
		countByDate := make(map[string]int)
		for _, a := range list {
			countByDate[a.Date]++
		}

		for date, count := range countByDate {
			if count > 1 {
				violations = append(violations, model.ConstraintViolation{
					Type:     model.ViolationDuplicate,
					Kind:     model.ConstraintHard,
					Category: model.CategoryOperational,
					Severity: model.SeverityCritical,
					Message: fmt.Sprintf("员工 %s 在 %s 有 %d 条分配，同一天最多一条",
						snap.employeeName(empID), date, count),
					EmployeeIDs: []uuid.UUID{empID},
					Dates:       []string{date},
					Cost:        model.CostCritical,
				})
			}
		}
	}

	return violations
}

// checkDailyHours 检查法定每日工时上限
func (v *Validator) checkDailyHours(snap *snapshot) []model.ConstraintViolation {
	var violations []model.ConstraintViolation

	for empID, list := range snap.assignmentsByEmp {
		hoursByDate := make(map[string]float64)
		for _, a := range list {
			hoursByDate[a.Date] += snap.hoursOf(a)
		}

		for date, hours := range hoursByDate {
			if hours > v.policy.MaxHoursPerDay {
				violations = append(violations, model.ConstraintViolation{
					Type:     model.ViolationMaxHoursPerDay,
					Kind:     model.ConstraintHard,
					Category: model.CategoryLegal,
					Severity: model.SeverityHigh,
					Message: fmt.Sprintf("员工 %s 在 %s 工作 %.1f 小时，超过法定上限 %.1f 小时",
						snap.employeeName(empID), date, hours, v.policy.MaxHoursPerDay),
					EmployeeIDs: []uuid.UUID{empID},
					Dates:       []string{date},
					Cost:        model.CostHigh,
				})
			}
		}
	}

	return violations
}

// checkWeeklyHours 检查法定与合同的每周工时上限
func (v *Validator) checkWeeklyHours(snap *snapshot) []model.ConstraintViolation {
	var violations []model.ConstraintViolation

	for empID, list := range snap.assignmentsByEmp {
		emp := snap.employeeByID[empID]

		hoursByWeek := make(map[string]float64)
		for _, a := range list {
			hoursByWeek[model.WeekStartOf(a.Date)] += snap.hoursOf(a)
		}

		weeks := make([]string, 0, len(hoursByWeek))
		for w := range hoursByWeek {
			weeks = append(weeks, w)
		}
		sort.Strings(weeks)

		for _, week := range weeks {
			hours := hoursByWeek[week]

			if hours > v.policy.MaxHoursPerWeek {
				violations = append(violations, model.ConstraintViolation{
					Type:     model.ViolationMaxHoursPerWeek,
					Kind:     model.ConstraintHard,
					Category: model.CategoryLegal,
					Severity: model.SeverityHigh,
					Message: fmt.Sprintf("员工 %s 在 %s 起的一周工作 %.1f 小时，超过法定上限 %.1f 小时",
						snap.employeeName(empID), week, hours, v.policy.MaxHoursPerWeek),
					EmployeeIDs: []uuid.UUID{empID},
					Dates:       []string{week},
					Cost:        model.CostHigh,
				})
			}

			if emp != nil && emp.MaxHoursPerWeek > 0 && hours > float64(emp.MaxHoursPerWeek) {
				violations = append(violations, model.ConstraintViolation{
					Type:     model.ViolationContractMaxHours,
					Kind:     model.ConstraintHard,
					Category: model.CategoryContractual,
					Severity: model.SeverityHigh,
					Message: fmt.Sprintf("员工 %s 在 %s 起的一周工作 %.1f 小时，超过合同上限 %d 小时",
						snap.employeeName(empID), week, hours, emp.MaxHoursPerWeek),
					EmployeeIDs: []uuid.UUID{empID},
					Dates:       []string{week},
					Cost:        model.CostHigh,
				})
			}
		}
	}

	return violations
}

// checkWeeklyRestDays 检查每周最少休息天数
func (v *Validator) checkWeeklyRestDays(snap *snapshot) []model.ConstraintViolation {
	if v.policy.MinWeeklyRestDays <= 0 {
		return nil
	}
	maxWorkingDays := 7 - v.policy.MinWeeklyRestDays

	var violations []model.ConstraintViolation

	for empID := range snap.assignmentsByEmp {
		daysByWeek := make(map[string]map[string]bool)
		for date := range snap.workingDatesOf(empID) {
			week := model.WeekStartOf(date)
			if daysByWeek[week] == nil {
				daysByWeek[week] = make(map[string]bool)
			}
			daysByWeek[week][date] = true
		}

		weeks := make([]string, 0, len(daysByWeek))
		for w := range daysByWeek {
			weeks = append(weeks, w)
		}
		sort.Strings(weeks)

		for _, week := range weeks {
			working := len(daysByWeek[week])
			if working > maxWorkingDays {
				violations = append(violations, model.ConstraintViolation{
					Type:     model.ViolationMinWeeklyRest,
					Kind:     model.ConstraintHard,
					Category: model.CategoryLegal,
					Severity: model.SeverityHigh,
					Message: fmt.Sprintf("员工 %s 在 %s 起的一周工作 %d 天，不足每周 %d 天休息",
						snap.employeeName(empID), week, working, v.policy.MinWeeklyRestDays),
					EmployeeIDs: []uuid.UUID{empID},
					Dates:       []string{week},
					Cost:        model.CostHigh,
				})
			}
		}
	}

	return violations
}

// checkConsecutiveDays 检查连续工作天数
// 政策上限为硬约束，员工个人期望上限为代价更低的软约束
func (v *Validator) checkConsecutiveDays(snap *snapshot) []model.ConstraintViolation {
	var violations []model.ConstraintViolation

	for empID := range snap.assignmentsByEmp {
		dates := snap.workingDatesOf(empID)
		if len(dates) == 0 {
			continue
		}

		emp := snap.employeeByID[empID]
		runs := consecutiveRuns(dates)

		for _, run := range runs {
			if run.length > v.policy.MaxConsecutiveDays {
				violations = append(violations, model.ConstraintViolation{
					Type:     model.ViolationMaxConsecutiveDays,
					Kind:     model.ConstraintHard,
					Category: model.CategoryLegal,
					Severity: model.SeverityHigh,
					Message: fmt.Sprintf("员工 %s 自 %s 连续工作 %d 天，超过政策上限 %d 天",
						snap.employeeName(empID), run.startDate, run.length, v.policy.MaxConsecutiveDays),
					EmployeeIDs: []uuid.UUID{empID},
					Dates:       []string{run.startDate},
					Cost:        model.CostHigh,
				})
				continue
			}

			if emp != nil && emp.Preferences != nil &&
				emp.Preferences.MaxConsecutiveDays > 0 &&
				run.length > emp.Preferences.MaxConsecutiveDays {
				violations = append(violations, model.ConstraintViolation{
					Type:     model.ViolationConsecutivePref,
					Kind:     model.ConstraintSoft,
					Category: model.CategoryPreference,
					Severity: model.SeverityMedium,
					Message: fmt.Sprintf("员工 %s 自 %s 连续工作 %d 天，超过个人期望 %d 天",
						snap.employeeName(empID), run.startDate, run.length, emp.Preferences.MaxConsecutiveDays),
					EmployeeIDs: []uuid.UUID{empID},
					Dates:       []string{run.startDate},
					Cost:        model.CostMedium,
				})
			}
		}
	}

	return violations
}

// dayRun 连续工作段
type dayRun struct {
	startDate string
	length    int
}

// consecutiveRuns 从工作日期集合提取连续工作段
func consecutiveRuns(dates map[string]bool) []dayRun {
	sorted := make([]string, 0, len(dates))
	for d := range dates {
		sorted = append(sorted, d)
	}
	sort.Strings(sorted)

	var runs []dayRun
	var current dayRun
	prev := ""

	for _, d := range sorted {
		if prev != "" && model.NextDate(prev) == d {
			current.length++
		} else {
			if current.length > 0 {
				runs = append(runs, current)
			}
			current = dayRun{startDate: d, length: 1}
		}
		prev = d
	}
	if current.length > 0 {
		runs = append(runs, current)
	}

	return runs
}

// checkMinRest 检查相邻班次之间的最小休息时间
// 休息间隔跨越日期边界，按班次实际起止时间计算
func (v *Validator) checkMinRest(snap *snapshot) []model.ConstraintViolation {
	var violations []model.ConstraintViolation

	for empID, list := range snap.assignmentsByEmp {
		type window struct {
			a          *model.ScheduleAssignment
			start, end int64
		}

		windows := make([]window, 0, len(list))
		for _, a := range list {
			start, end, ok := snap.timeWindowOf(a)
			if !ok {
				continue
			}
			windows = append(windows, window{a: a, start: start.Unix(), end: end.Unix()})
		}
		if len(windows) < 2 {
			continue
		}

		sort.Slice(windows, func(i, j int) bool {
			return windows[i].start < windows[j].start
		})

		for i := 0; i < len(windows)-1; i++ {
			restHours := float64(windows[i+1].start-windows[i].end) / 3600.0
			if restHours >= 0 && restHours < v.policy.MinRestHours {
				violations = append(violations, model.ConstraintViolation{
					Type:     model.ViolationMinRest,
					Kind:     model.ConstraintHard,
					Category: model.CategoryLegal,
					Severity: model.SeverityHigh,
					Message: fmt.Sprintf("员工 %s 在 %s 与 %s 的班次间仅休息 %.1f 小时，少于 %.1f 小时",
						snap.employeeName(empID), windows[i].a.Date, windows[i+1].a.Date,
						restHours, v.policy.MinRestHours),
					EmployeeIDs: []uuid.UUID{empID},
					Dates:       []string{windows[i].a.Date, windows[i+1].a.Date},
					Cost:        model.CostHigh,
				})
			}
		}
	}

	return violations
}

// checkTimeOff 检查与已批准请假的冲突
func (v *Validator) checkTimeOff(snap *snapshot) []model.ConstraintViolation {
	var violations []model.ConstraintViolation

	for empID, list := range snap.assignmentsByEmp {
		emp := snap.employeeByID[empID]
		if emp == nil || emp.Availability == nil {
			continue
		}

		for _, a := range list {
			shift := snap.shiftByID[a.ShiftID]
			if shift != nil && !shift.IsWorking() {
				continue
			}
			if req := emp.Availability.ApprovedTimeOffOn(a.Date); req != nil {
				violations = append(violations, model.ConstraintViolation{
					Type:     model.ViolationTimeOffConflict,
					Kind:     model.ConstraintHard,
					Category: model.CategoryLegal,
					Severity: model.SeverityCritical,
					Message: fmt.Sprintf("员工 %s 在 %s 有已批准的请假（%s 至 %s），不应被排班",
						emp.Name, a.Date, req.StartDate, req.EndDate),
					EmployeeIDs: []uuid.UUID{empID},
					Dates:       []string{a.Date},
					Cost:        model.CostCritical,
				})
			}
		}
	}

	return violations
}

// checkAvailability 检查星期掩码与不可用日期
func (v *Validator) checkAvailability(snap *snapshot) []model.ConstraintViolation {
	var violations []model.ConstraintViolation

	for empID, list := range snap.assignmentsByEmp {
		emp := snap.employeeByID[empID]
		if emp == nil || emp.Availability == nil {
			continue
		}

		for _, a := range list {
			shift := snap.shiftByID[a.ShiftID]
			if shift != nil && !shift.IsWorking() {
				continue
			}
			if !emp.Availability.IsAvailableOn(a.Date) {
				violations = append(violations, model.ConstraintViolation{
					Type:     model.ViolationUnavailable,
					Kind:     model.ConstraintHard,
					Category: model.CategoryOperational,
					Severity: model.SeverityHigh,
					Message: fmt.Sprintf("员工 %s 在 %s（%s）不可用",
						emp.Name, a.Date, model.WeekdayOf(a.Date)),
					EmployeeIDs: []uuid.UUID{empID},
					Dates:       []string{a.Date},
					Cost:        model.CostHigh,
				})
			}
		}
	}

	return violations
}

// checkMinStaffing 检查范围内每天每个工作班次的最低人数
func (v *Validator) checkMinStaffing(snap *snapshot) []model.ConstraintViolation {
	var violations []model.ConstraintViolation

	for _, date := range snap.dateRange.Dates() {
		for _, shift := range snap.shifts {
			if !shift.IsWorking() {
				continue
			}

			required := shift.MinStaff
			if required == 0 {
				required = shift.RequiredStaff
			}
			if required == 0 {
				continue
			}

			assigned := snap.countByDateShift[dateShiftKey{date: date, shiftID: shift.ID}]
			if assigned < required {
				violations = append(violations, model.ConstraintViolation{
					Type:     model.ViolationMinStaffing,
					Kind:     model.ConstraintHard,
					Category: model.CategoryOperational,
					Severity: model.SeverityHigh,
					Message: fmt.Sprintf("班次 %s 在 %s 仅排 %d 人，低于最低要求 %d 人",
						shift.Name, date, assigned, required),
					Dates: []string{date},
					Cost:  model.CostHigh,
				})
			}
		}
	}

	return violations
}
