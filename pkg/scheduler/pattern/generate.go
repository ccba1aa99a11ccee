// Package pattern 提供循环班次模式库与模式排班生成
package pattern

import (
	"github.com/google/uuid"
	"github.com/lunban/lunban/pkg/model"
)

// Generate 按模式生成排班分配
// 员工按模式最繁忙班次的最低人数要求分成轮换组；
// 每个日期由循环位置决定班次种类，每过一个完整循环轮换当值组，
// 个别不可用的员工会被跳过
func Generate(
	p *model.ShiftPattern,
	employees []*model.Employee,
	shifts []*model.Shift,
	dateRange model.DateRange,
) ([]*model.ScheduleAssignment, error) {
	if err := Validate(p); err != nil {
		return nil, err
	}
	if len(employees) == 0 {
		return nil, nil
	}

	shiftByKind := indexShiftsByKind(shifts)
	groups := partitionGroups(employees, groupSize(p))

	var assignments []*model.ScheduleAssignment

	for dayIndex, date := range dateRange.Dates() {
		kind := p.KindAt(dayIndex % p.CycleLengthDays)
		if !kind.IsWorking() {
			continue
		}

		shift := shiftByKind[kind]
		if shift == nil {
			continue
		}

		// 每过一个完整循环，当值组向后轮换一位
		active := groups[(dayIndex/p.CycleLengthDays)%len(groups)]

		for _, emp := range active {
			if !emp.IsAvailableOn(date) {
				continue
			}
			assignments = append(assignments, &model.ScheduleAssignment{
				ID:         uuid.New(),
				EmployeeID: emp.ID,
				ShiftID:    shift.ID,
				Date:       date,
			})
		}
	}

	return assignments, nil
}

// groupSize 返回轮换组人数
// 取模式中最高的最低人数要求，无要求时为1
func groupSize(p *model.ShiftPattern) int {
	_, size := p.BusiestKindMinStaff()
	if size < 1 {
		size = 1
	}
	return size
}

// partitionGroups 将员工切分为轮换组
func partitionGroups(employees []*model.Employee, size int) [][]*model.Employee {
	var groups [][]*model.Employee
	for i := 0; i < len(employees); i += size {
		end := i + size
		if end > len(employees) {
			end = len(employees)
		}
		groups = append(groups, employees[i:end])
	}
	return groups
}

// indexShiftsByKind 按种类索引班次，同种类取第一个
func indexShiftsByKind(shifts []*model.Shift) map[model.ShiftKind]*model.Shift {
	result := make(map[model.ShiftKind]*model.Shift)
	for _, s := range shifts {
		if !s.IsWorking() {
			continue
		}
		if _, exists := result[s.Kind]; !exists {
			result[s.Kind] = s
		}
	}
	return result
}
