// Package validator 提供排班硬/软约束校验
package validator

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lunban/lunban/pkg/model"
)

// 负荷倾斜阈值
const (
	weekendSkewRatio = 0.40 // 周末分配占比上限
	nightSkewRatio   = 0.30 // 非夜班意愿员工的夜班占比上限
)

// checkShiftPreferences 检查避免班次偏好
func (v *Validator) checkShiftPreferences(snap *snapshot) []model.ConstraintViolation {
	var violations []model.ConstraintViolation

	for empID, list := range snap.assignmentsByEmp {
		emp := snap.employeeByID[empID]
		if emp == nil || emp.Preferences == nil || len(emp.Preferences.AvoidShiftKinds) == 0 {
			continue
		}

		for _, a := range list {
			shift := snap.shiftByID[a.ShiftID]
			if shift == nil || !shift.IsWorking() {
				continue
			}
			if emp.Preferences.AvoidsKind(shift.Kind) {
				violations = append(violations, model.ConstraintViolation{
					Type:     model.ViolationAvoidShift,
					Kind:     model.ConstraintSoft,
					Category: model.CategoryPreference,
					Severity: model.SeverityLow,
					Message: fmt.Sprintf("员工 %s 希望避免 %s 班次，但在 %s 被排入",
						emp.Name, shift.Kind, a.Date),
					EmployeeIDs: []uuid.UUID{empID},
					Dates:       []string{a.Date},
					Cost:        model.CostLow,
				})
			}
		}
	}

	return violations
}

// checkPreferredDaysOff 检查偏好休息日
func (v *Validator) checkPreferredDaysOff(snap *snapshot) []model.ConstraintViolation {
	var violations []model.ConstraintViolation

	for empID, list := range snap.assignmentsByEmp {
		emp := snap.employeeByID[empID]
		if emp == nil || emp.Preferences == nil || len(emp.Preferences.PreferredDaysOff) == 0 {
			continue
		}

		for _, a := range list {
			shift := snap.shiftByID[a.ShiftID]
			if shift == nil || !shift.IsWorking() {
				continue
			}
			weekday := model.WeekdayOf(a.Date)
			if emp.Preferences.PrefersDayOff(weekday) {
				violations = append(violations, model.ConstraintViolation{
					Type:     model.ViolationPreferredDayOff,
					Kind:     model.ConstraintSoft,
					Category: model.CategoryPreference,
					Severity: model.SeverityLow,
					Message: fmt.Sprintf("员工 %s 偏好在%s休息，但在 %s 被排班",
						emp.Name, weekdayName(weekday), a.Date),
					EmployeeIDs: []uuid.UUID{empID},
					Dates:       []string{a.Date},
					Cost:        model.CostLow,
				})
			}
		}
	}

	return violations
}

// checkWeekendBalance 检查单个员工的周末负荷倾斜
func (v *Validator) checkWeekendBalance(snap *snapshot) []model.ConstraintViolation {
	var violations []model.ConstraintViolation

	for empID, list := range snap.assignmentsByEmp {
		total, weekend := 0, 0
		for _, a := range list {
			shift := snap.shiftByID[a.ShiftID]
			if shift == nil || !shift.IsWorking() {
				continue
			}
			total++
			if model.IsWeekend(a.Date) {
				weekend++
			}
		}
		if total == 0 {
			continue
		}

		ratio := float64(weekend) / float64(total)
		if ratio > weekendSkewRatio {
			violations = append(violations, model.ConstraintViolation{
				Type:     model.ViolationWeekendImbalance,
				Kind:     model.ConstraintSoft,
				Category: model.CategoryFairness,
				Severity: model.SeverityMedium,
				Message: fmt.Sprintf("员工 %s 的周末班占比 %.0f%%，超过 %.0f%%",
					snap.employeeName(empID), ratio*100, weekendSkewRatio*100),
				EmployeeIDs: []uuid.UUID{empID},
				Cost:        model.CostMedium,
			})
		}
	}

	return violations
}

// checkNightBalance 检查非夜班意愿员工的夜班负荷倾斜
func (v *Validator) checkNightBalance(snap *snapshot) []model.ConstraintViolation {
	var violations []model.ConstraintViolation

	for empID, list := range snap.assignmentsByEmp {
		emp := snap.employeeByID[empID]
		if emp != nil && emp.Preferences != nil && emp.Preferences.PrefersNightShift {
			continue
		}

		total, night := 0, 0
		for _, a := range list {
			shift := snap.shiftByID[a.ShiftID]
			if shift == nil || !shift.IsWorking() {
				continue
			}
			total++
			if shift.IsNightShift() {
				night++
			}
		}
		if total == 0 {
			continue
		}

		ratio := float64(night) / float64(total)
		if ratio > nightSkewRatio {
			violations = append(violations, model.ConstraintViolation{
				Type:     model.ViolationNightShiftImbalance,
				Kind:     model.ConstraintSoft,
				Category: model.CategoryFairness,
				Severity: model.SeverityMedium,
				Message: fmt.Sprintf("员工 %s 的夜班占比 %.0f%%，超过 %.0f%% 且无夜班意愿",
					snap.employeeName(empID), ratio*100, nightSkewRatio*100),
				EmployeeIDs: []uuid.UUID{empID},
				Cost:        model.CostMedium,
			})
		}
	}

	return violations
}

// weekdayName 返回星期的中文名称
func weekdayName(w time.Weekday) string {
	names := [...]string{"周日", "周一", "周二", "周三", "周四", "周五", "周六"}
	return names[int(w)%7]
}
