// Package optimizer 提供排班优化算法
package optimizer

import (
	"github.com/google/uuid"
	"github.com/lunban/lunban/pkg/model"
)

// optimizeForFairness 公平目标精化
// 反复把最高负荷员工的班次转移给最低负荷员工，直至不存在可改进的转移
func (o *Optimizer) optimizeForFairness(initial *Solution, req *model.SchedulingRequest) (*Solution, int) {
	current := initial.Clone()
	iterations := 0

	for iterations < o.config.MaxGenerations {
		iterations++

		loads := workloadByEmployee(current, req)
		maxEmp, minEmp, gap := loadExtremes(req.Employees, loads)
		if gap <= 1 {
			break
		}

		moved := o.moveOneAssignment(current, req, maxEmp, minEmp)
		if !moved {
			break
		}
	}

	o.evaluate(current, req)
	return current, iterations
}

// moveOneAssignment 把一条可移动分配从高负荷员工转给低负荷员工
func (o *Optimizer) moveOneAssignment(s *Solution, req *model.SchedulingRequest, from, to uuid.UUID) bool {
	target := employeeByID(req, to)
	if target == nil {
		return false
	}

	busyDates := make(map[string]bool)
	for _, a := range s.Assignments {
		if a.EmployeeID == to {
			busyDates[a.Date] = true
		}
	}

	for _, a := range s.Assignments {
		if a.EmployeeID != from || a.IsLocked {
			continue
		}
		if busyDates[a.Date] || !target.IsAvailableOn(a.Date) {
			continue
		}
		a.EmployeeID = to
		return true
	}
	return false
}

// optimizeForPreference 偏好目标精化
// 对每条落在避免班次上的分配，尝试与同日期其他班次的同事互换
func (o *Optimizer) optimizeForPreference(initial *Solution, req *model.SchedulingRequest) (*Solution, int) {
	current := initial.Clone()
	iterations := 0

	for iterations < o.config.MaxGenerations {
		iterations++
		if !o.swapOneAvoidedShift(current, req) {
			break
		}
	}

	o.evaluate(current, req)
	return current, iterations
}

// swapOneAvoidedShift 找到一对双方都不变差的互换并执行
func (o *Optimizer) swapOneAvoidedShift(s *Solution, req *model.SchedulingRequest) bool {
	shiftByID := make(map[uuid.UUID]*model.Shift, len(req.Shifts))
	for _, sh := range req.Shifts {
		shiftByID[sh.ID] = sh
	}

	for _, a := range s.Assignments {
		if a.IsLocked {
			continue
		}
		emp := employeeByID(req, a.EmployeeID)
		shift := shiftByID[a.ShiftID]
		if emp == nil || emp.Preferences == nil || shift == nil {
			continue
		}
		if !emp.Preferences.AvoidsKind(shift.Kind) {
			continue
		}

		for _, b := range s.Assignments {
			if b.IsLocked || b.Date != a.Date || b.ShiftID == a.ShiftID || b.EmployeeID == a.EmployeeID {
				continue
			}
			partner := employeeByID(req, b.EmployeeID)
			partnerShift := shiftByID[b.ShiftID]
			if partner == nil || partnerShift == nil {
				continue
			}

			// 互换后双方都不得落入各自避免的班次
			if partner.Preferences != nil && partner.Preferences.AvoidsKind(shift.Kind) {
				continue
			}
			if emp.Preferences.AvoidsKind(partnerShift.Kind) {
				continue
			}

			a.EmployeeID, b.EmployeeID = b.EmployeeID, a.EmployeeID
			return true
		}
	}
	return false
}

// optimizeForCoverage 覆盖目标精化
// 找出人数不足的 (日期, 班次) 格子并从剩余可用员工回填
func (o *Optimizer) optimizeForCoverage(initial *Solution, req *model.SchedulingRequest) (*Solution, int) {
	current := initial.Clone()
	iterations := 0

	loadByEmp := make(map[uuid.UUID]int)
	busyByDate := make(map[string]map[uuid.UUID]bool)
	assignedByCell := make(map[string]int)
	for _, a := range current.Assignments {
		loadByEmp[a.EmployeeID]++
		markBusy(busyByDate, a.Date, a.EmployeeID)
		assignedByCell[a.Date+"/"+a.ShiftID.String()]++
	}

	for _, date := range req.DateRange.Dates() {
		for _, shift := range req.Shifts {
			if !shift.IsWorking() {
				continue
			}
			required := shift.RequiredStaff
			if required == 0 {
				required = shift.MinStaff
			}
			if required == 0 {
				continue
			}

			cell := date + "/" + shift.ID.String()
			for assignedByCell[cell] < required {
				candidates := o.rankCandidates(req, shift, date, loadByEmp, busyByDate[date])
				if len(candidates) == 0 {
					break
				}
				iterations++

				emp := candidates[0]
				current.Assignments = append(current.Assignments, &model.ScheduleAssignment{
					ID:         uuid.New(),
					EmployeeID: emp.ID,
					ShiftID:    shift.ID,
					Date:       date,
				})
				loadByEmp[emp.ID]++
				markBusy(busyByDate, date, emp.ID)
				assignedByCell[cell]++
			}
		}
	}

	o.evaluate(current, req)
	return current, iterations
}

// workloadByEmployee 统计各员工的工作班次数
func workloadByEmployee(s *Solution, req *model.SchedulingRequest) map[uuid.UUID]int {
	shiftByID := make(map[uuid.UUID]*model.Shift, len(req.Shifts))
	for _, sh := range req.Shifts {
		shiftByID[sh.ID] = sh
	}

	loads := make(map[uuid.UUID]int, len(req.Employees))
	for _, e := range req.Employees {
		loads[e.ID] = 0
	}
	for _, a := range s.Assignments {
		if sh := shiftByID[a.ShiftID]; sh != nil && sh.IsWorking() {
			loads[a.EmployeeID]++
		}
	}
	return loads
}

// loadExtremes 返回负荷最高与最低的员工及差距
func loadExtremes(employees []*model.Employee, loads map[uuid.UUID]int) (uuid.UUID, uuid.UUID, int) {
	var maxEmp, minEmp uuid.UUID
	maxLoad, minLoad := -1, int(^uint(0)>>1)

	for _, e := range employees {
		load := loads[e.ID]
		if load > maxLoad {
			maxLoad = load
			maxEmp = e.ID
		}
		if load < minLoad {
			minLoad = load
			minEmp = e.ID
		}
	}
	return maxEmp, minEmp, maxLoad - minLoad
}

// employeeByID 按ID查找员工
func employeeByID(req *model.SchedulingRequest, id uuid.UUID) *model.Employee {
	for _, e := range req.Employees {
		if e.ID == id {
			return e
		}
	}
	return nil
}
