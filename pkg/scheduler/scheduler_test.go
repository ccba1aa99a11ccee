package scheduler

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/lunban/lunban/pkg/errors"
	"github.com/lunban/lunban/pkg/model"
	"github.com/lunban/lunban/pkg/scheduler/optimizer"
)

func newTestScheduler() *Scheduler {
	cfg := optimizer.DefaultConfig()
	cfg.PopulationSize = 10
	cfg.MaxGenerations = 20
	cfg.PlateauThreshold = 5
	return New(nil, cfg, rand.New(rand.NewSource(1)))
}

func feasibleRequest() *model.SchedulingRequest {
	return &model.SchedulingRequest{
		DepartmentID: uuid.New(),
		DateRange:    model.DateRange{StartDate: "2025-03-03", EndDate: "2025-03-05"},
		Employees: []*model.Employee{
			{ID: uuid.New(), Name: "张三"},
			{ID: uuid.New(), Name: "李四"},
		},
		Shifts: []*model.Shift{
			{ID: uuid.New(), Name: "白班", Kind: model.ShiftDay,
				StartTime: "09:00", EndTime: "17:00", DurationHours: 8, RequiredStaff: 1},
		},
	}
}

func TestCreateSchedule_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.SchedulingRequest)
		code   errors.Code
	}{
		{
			name:   "员工列表为空",
			mutate: func(r *model.SchedulingRequest) { r.Employees = nil },
			code:   errors.CodeEmptyEmployeeList,
		},
		{
			name:   "班次列表为空",
			mutate: func(r *model.SchedulingRequest) { r.Shifts = nil },
			code:   errors.CodeEmptyShiftList,
		},
		{
			name: "开始日期晚于结束日期",
			mutate: func(r *model.SchedulingRequest) {
				r.DateRange = model.DateRange{StartDate: "2025-03-10", EndDate: "2025-03-03"}
			},
			code: errors.CodeInvalidDateRange,
		},
		{
			name: "日期范围91天超限",
			mutate: func(r *model.SchedulingRequest) {
				r.DateRange = model.DateRange{StartDate: "2025-03-01", EndDate: "2025-05-30"}
			},
			code: errors.CodeDateRangeTooLong,
		},
	}

	s := newTestScheduler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := feasibleRequest()
			tt.mutate(req)

			result, err := s.CreateSchedule(req)
			if err == nil {
				t.Fatal("应在优化开始前返回校验错误")
			}
			if result != nil {
				t.Error("校验失败时不应返回部分结果")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("错误码 = %s, expected %s", got, tt.code)
			}
		})
	}
}

func TestCreateSchedule_Success(t *testing.T) {
	s := newTestScheduler()
	req := feasibleRequest()

	result, err := s.CreateSchedule(req)
	if err != nil {
		t.Fatalf("CreateSchedule failed: %v", err)
	}

	if !result.Success {
		t.Errorf("可行请求应成功, violations=%v", result.Violations)
	}
	if len(result.Assignments) == 0 {
		t.Fatal("应产生分配")
	}

	// 输出按日期、员工排序
	for i := 1; i < len(result.Assignments); i++ {
		prev, cur := result.Assignments[i-1], result.Assignments[i]
		if cur.Date < prev.Date {
			t.Error("输出分配应按日期排序")
		}
	}

	if model.CountHardViolations(result.Violations) != 0 {
		t.Error("success 为 true 时不应存在硬约束违反")
	}
}

func TestCreateSchedule_SuccessReflectsHardViolations(t *testing.T) {
	s := newTestScheduler()
	req := feasibleRequest()

	// 仅一名员工但班次需要2人：每天必然缺员
	req.Employees = req.Employees[:1]
	req.Shifts[0].RequiredStaff = 2

	result, err := s.CreateSchedule(req)
	if err != nil {
		t.Fatalf("CreateSchedule failed: %v", err)
	}

	if result.Success {
		t.Error("存在硬约束违反时 success 应为 false")
	}
	if model.CountHardViolations(result.Violations) == 0 {
		t.Error("缺员排班应报告硬约束违反")
	}
	if len(result.Suggestions) == 0 {
		t.Error("存在硬约束违反时应给出改进建议")
	}
}

func TestCreateSchedule_LockedConflictFlaggedNotRemoved(t *testing.T) {
	s := newTestScheduler()
	req := feasibleRequest()

	// 员工在整个范围内均已批准请假，但存在锁定分配
	emp := req.Employees[0]
	emp.Availability = &model.EmployeeAvailability{
		WeekdayMask: [7]bool{true, true, true, true, true, true, true},
		TimeOffRequests: []model.TimeOffRequest{
			{ID: uuid.New(), EmployeeID: emp.ID,
				StartDate: "2025-03-03", EndDate: "2025-03-05",
				Status: model.TimeOffApproved},
		},
	}
	locked := &model.ScheduleAssignment{
		ID:         uuid.New(),
		EmployeeID: emp.ID,
		ShiftID:    req.Shifts[0].ID,
		Date:       "2025-03-04",
		IsLocked:   true,
	}
	req.LockedAssignments = []*model.ScheduleAssignment{locked}

	result, err := s.CreateSchedule(req)
	if err != nil {
		t.Fatalf("CreateSchedule failed: %v", err)
	}

	// 冲突只标记，锁定分配本身不得被移除
	found := false
	for _, a := range result.Assignments {
		if a.EmployeeID == locked.EmployeeID && a.ShiftID == locked.ShiftID && a.Date == locked.Date {
			found = true
		}
	}
	if !found {
		t.Fatal("锁定分配不应被移除")
	}

	var conflict *model.ConstraintViolation
	for i := range result.Violations {
		if result.Violations[i].Type == model.ViolationTimeOffConflict {
			conflict = &result.Violations[i]
		}
	}
	if conflict == nil {
		t.Fatal("应报告 timeoff-conflict 硬违反")
	}
	if conflict.Cost < 900 {
		t.Errorf("timeoff-conflict 代价 = %.0f, 应不低于900", conflict.Cost)
	}
}

func TestUpdateSchedule_LockedByteIdentical(t *testing.T) {
	s := newTestScheduler()
	req := feasibleRequest()

	locked := &model.ScheduleAssignment{
		ID:         uuid.New(),
		EmployeeID: req.Employees[1].ID,
		ShiftID:    req.Shifts[0].ID,
		Date:       "2025-03-04",
		IsLocked:   true,
	}
	existing := []*model.ScheduleAssignment{
		locked,
		{ID: uuid.New(), EmployeeID: req.Employees[0].ID,
			ShiftID: req.Shifts[0].ID, Date: "2025-03-03"},
	}

	result, err := s.UpdateSchedule(req, existing, &model.ScheduleChanges{Goal: model.GoalFairness})
	if err != nil {
		t.Fatalf("UpdateSchedule failed: %v", err)
	}

	var carried *model.ScheduleAssignment
	for _, a := range result.Assignments {
		if a.ID == locked.ID {
			carried = a
		}
	}
	if carried == nil {
		t.Fatal("锁定分配应原样出现在更新后的输出中")
	}
	if carried.EmployeeID != locked.EmployeeID ||
		carried.ShiftID != locked.ShiftID ||
		carried.Date != locked.Date {
		t.Error("锁定分配的 (员工, 班次, 日期) 三元组必须逐字节不变")
	}
	if !carried.IsLocked {
		t.Error("锁定标记应保留")
	}
}

func TestUpdateSchedule_MergesChanges(t *testing.T) {
	s := newTestScheduler()
	req := feasibleRequest()

	newRange := model.DateRange{StartDate: "2025-03-10", EndDate: "2025-03-12"}
	result, err := s.UpdateSchedule(req, nil, &model.ScheduleChanges{DateRange: &newRange})
	if err != nil {
		t.Fatalf("UpdateSchedule failed: %v", err)
	}

	for _, a := range result.Assignments {
		if !newRange.Contains(a.Date) {
			t.Errorf("分配日期 %s 应落在新范围内", a.Date)
		}
	}

	// 原请求不被修改
	if req.DateRange.StartDate != "2025-03-03" {
		t.Error("合并变更不应修改原请求")
	}
}

func TestWorkloadGap(t *testing.T) {
	req := feasibleRequest()

	assignments := []*model.ScheduleAssignment{
		{EmployeeID: req.Employees[0].ID, ShiftID: req.Shifts[0].ID, Date: "2025-03-03"},
		{EmployeeID: req.Employees[0].ID, ShiftID: req.Shifts[0].ID, Date: "2025-03-04"},
		{EmployeeID: req.Employees[0].ID, ShiftID: req.Shifts[0].ID, Date: "2025-03-05"},
	}

	if got := workloadGap(req, assignments); got != 3 {
		t.Errorf("workloadGap = %d, expected 3", got)
	}

	single := &model.SchedulingRequest{Employees: req.Employees[:1]}
	if got := workloadGap(single, nil); got != 0 {
		t.Errorf("单员工 workloadGap = %d, expected 0", got)
	}
}
