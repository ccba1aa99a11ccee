// Package optimizer 提供排班优化算法
package optimizer

import (
	"sort"

	"github.com/google/uuid"
	"github.com/lunban/lunban/pkg/model"
	"github.com/lunban/lunban/pkg/scheduler/pattern"
)

// 贪心候选排序的启发式分值
const (
	preferredShiftBonus  = 10.0
	avoidedShiftPenalty  = -10.0
	loadBalancingPenalty = -1.0 // 每条已有分配的扣分
)

// generateInitial 构造初始解
// 贪心逐日构造；若请求附带模式，同时生成模式候选，按评分取优
func (o *Optimizer) generateInitial(req *model.SchedulingRequest) *Solution {
	greedy := o.greedyConstruct(req)
	o.evaluate(greedy, req)

	if req.Pattern == nil {
		return greedy
	}

	patternAssignments, err := pattern.Generate(req.Pattern, req.Employees, req.Shifts, req.DateRange)
	if err != nil {
		return greedy
	}

	candidate := &Solution{Assignments: o.seedLocked(req, patternAssignments)}
	o.evaluate(candidate, req)

	if candidate.Fitness > greedy.Fitness {
		return candidate
	}
	return greedy
}

// greedyConstruct 逐日贪心构造
// 对每个日期的每个班次按启发式给候选员工排序，取前 requiredStaff 名
func (o *Optimizer) greedyConstruct(req *model.SchedulingRequest) *Solution {
	assignments := o.seedLocked(req, nil)

	loadByEmp := make(map[uuid.UUID]int)
	busyByDate := make(map[string]map[uuid.UUID]bool)
	for _, a := range assignments {
		loadByEmp[a.EmployeeID]++
		markBusy(busyByDate, a.Date, a.EmployeeID)
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

			already := 0
			for _, a := range assignments {
				if a.Date == date && a.ShiftID == shift.ID {
					already++
				}
			}

			candidates := o.rankCandidates(req, shift, date, loadByEmp, busyByDate[date])
			for _, emp := range candidates {
				if already >= required {
					break
				}
				assignments = append(assignments, &model.ScheduleAssignment{
					ID:         uuid.New(),
					EmployeeID: emp.ID,
					ShiftID:    shift.ID,
					Date:       date,
				})
				loadByEmp[emp.ID]++
				markBusy(busyByDate, date, emp.ID)
				already++
			}
		}
	}

	return &Solution{Assignments: assignments}
}

// rankCandidates 按启发式排序可用候选员工
// 偏好班次 +10，避免班次 −10，每条已有分配 −1 用于负荷均衡
func (o *Optimizer) rankCandidates(
	req *model.SchedulingRequest,
	shift *model.Shift,
	date string,
	loadByEmp map[uuid.UUID]int,
	busy map[uuid.UUID]bool,
) []*model.Employee {
	type scored struct {
		emp   *model.Employee
		score float64
	}

	var candidates []scored
	for _, emp := range req.Employees {
		if busy != nil && busy[emp.ID] {
			continue
		}
		if !emp.IsAvailableOn(date) {
			continue
		}

		score := float64(loadByEmp[emp.ID]) * loadBalancingPenalty
		if emp.Preferences != nil {
			if emp.Preferences.PrefersKind(shift.Kind) {
				score += preferredShiftBonus
			}
			if emp.Preferences.AvoidsKind(shift.Kind) {
				score += avoidedShiftPenalty
			}
		}
		candidates = append(candidates, scored{emp: emp, score: score})
	}

	// 同分按ID稳定排序，保证结果可复现
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].emp.ID.String() < candidates[j].emp.ID.String()
	})

	result := make([]*model.Employee, len(candidates))
	for i, c := range candidates {
		result[i] = c.emp
	}
	return result
}

// seedLocked 以锁定分配作为构造起点
// 锁定分配在整个优化过程中保持原样
func (o *Optimizer) seedLocked(req *model.SchedulingRequest, extra []*model.ScheduleAssignment) []*model.ScheduleAssignment {
	var assignments []*model.ScheduleAssignment

	lockedKeys := make(map[string]bool)
	for _, locked := range req.LockedAssignments {
		clone := locked.Clone()
		clone.IsLocked = true
		assignments = append(assignments, clone)
		lockedKeys[clone.Key()] = true
	}

	for _, a := range extra {
		if lockedKeys[a.Key()] {
			continue
		}
		assignments = append(assignments, a.Clone())
	}

	return assignments
}

// markBusy 记录员工某日已有分配
func markBusy(busyByDate map[string]map[uuid.UUID]bool, date string, empID uuid.UUID) {
	if busyByDate[date] == nil {
		busyByDate[date] = make(map[uuid.UUID]bool)
	}
	busyByDate[date][empID] = true
}
