package optimizer

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/lunban/lunban/pkg/model"
	"github.com/lunban/lunban/pkg/scheduler/scoring"
	"github.com/lunban/lunban/pkg/scheduler/validator"
)

func newOptimizer(seed int64) *Optimizer {
	cfg := DefaultConfig()
	cfg.PopulationSize = 10
	cfg.MaxGenerations = 20
	cfg.PlateauThreshold = 5
	cfg.Workers = 2
	return New(validator.NewDefault(), scoring.New(), cfg, rand.New(rand.NewSource(seed)))
}

func testRequest(employeeCount int, days string) *model.SchedulingRequest {
	employees := make([]*model.Employee, employeeCount)
	for i := range employees {
		employees[i] = &model.Employee{ID: uuid.New(), Name: "员工"}
	}
	shift := &model.Shift{
		ID: uuid.New(), Name: "白班", Kind: model.ShiftDay,
		StartTime: "09:00", EndTime: "17:00", DurationHours: 8, RequiredStaff: 1,
	}
	return &model.SchedulingRequest{
		DepartmentID: uuid.New(),
		DateRange:    model.DateRange{StartDate: "2025-03-02", EndDate: days},
		Employees:    employees,
		Shifts:       []*model.Shift{shift},
	}
}

func TestTabuList(t *testing.T) {
	tabu := NewTabuList(2)

	tabu.Add(1)
	tabu.Add(2)
	if !tabu.Contains(1) || !tabu.Contains(2) {
		t.Fatal("禁忌表应包含新加入的键")
	}

	// 超出容量，最旧的键被淘汰
	tabu.Add(3)
	if tabu.Contains(1) {
		t.Error("先进先出：键1应被淘汰")
	}
	if !tabu.Contains(2) || !tabu.Contains(3) {
		t.Error("键2和键3应保留")
	}
	if tabu.Len() != 2 {
		t.Errorf("Len() = %d, expected 2", tabu.Len())
	}

	// 重复加入不占新位置
	tabu.Add(3)
	if tabu.Len() != 2 {
		t.Errorf("重复键后 Len() = %d, expected 2", tabu.Len())
	}

	tabu.Clear()
	if tabu.Len() != 0 || tabu.Contains(2) {
		t.Error("Clear() 后禁忌表应为空")
	}
}

func TestSolution_Signature(t *testing.T) {
	empA, empB := uuid.New(), uuid.New()
	shiftID := uuid.New()

	a1 := &model.ScheduleAssignment{EmployeeID: empA, ShiftID: shiftID, Date: "2025-03-02"}
	a2 := &model.ScheduleAssignment{EmployeeID: empB, ShiftID: shiftID, Date: "2025-03-03"}

	s1 := &Solution{Assignments: []*model.ScheduleAssignment{a1, a2}}
	s2 := &Solution{Assignments: []*model.ScheduleAssignment{a2, a1}}

	// 签名与存储顺序无关
	if s1.Signature() != s2.Signature() {
		t.Error("相同分配不同顺序应有相同签名")
	}

	s3 := &Solution{Assignments: []*model.ScheduleAssignment{
		{EmployeeID: empB, ShiftID: shiftID, Date: "2025-03-02"},
		{EmployeeID: empA, ShiftID: shiftID, Date: "2025-03-03"},
	}}
	if s1.Signature() == s3.Signature() {
		t.Error("不同员工分布应有不同签名")
	}
}

func TestOptimizeForFairness_ReducesGap(t *testing.T) {
	o := newOptimizer(1)
	req := testRequest(2, "2025-03-13") // 12天

	// 倾斜初始解：10天给员工A，2天给员工B
	var assignments []*model.ScheduleAssignment
	for i, date := range req.DateRange.Dates() {
		emp := req.Employees[0]
		if i >= 10 {
			emp = req.Employees[1]
		}
		assignments = append(assignments, &model.ScheduleAssignment{
			ID: uuid.New(), EmployeeID: emp.ID, ShiftID: req.Shifts[0].ID, Date: date,
		})
	}

	initial := &Solution{Assignments: assignments}
	o.evaluate(initial, req)

	initialGap := gapOf(initial, req)
	best, iterations := o.optimizeForFairness(initial, req)
	finalGap := gapOf(best, req)

	if finalGap >= initialGap {
		t.Errorf("公平优化应严格缩小负荷差: %d -> %d", initialGap, finalGap)
	}
	if finalGap > 1 {
		t.Errorf("可互换场景下负荷差应收敛到1以内, got %d", finalGap)
	}
	if iterations == 0 {
		t.Error("应报告实际迭代次数")
	}
}

func gapOf(s *Solution, req *model.SchedulingRequest) int {
	loads := workloadByEmployee(s, req)
	_, _, gap := loadExtremes(req.Employees, loads)
	return gap
}

func TestOptimize_Deterministic(t *testing.T) {
	req := testRequest(3, "2025-03-08")
	req.Goal = model.GoalBalanced

	r1 := newOptimizer(42).Optimize(req)
	r2 := newOptimizer(42).Optimize(req)

	sig1 := (&Solution{Assignments: r1.Assignments}).Signature()
	sig2 := (&Solution{Assignments: r2.Assignments}).Signature()
	if sig1 != sig2 {
		t.Error("相同随机种子应产生相同结果")
	}
	if r1.Iterations != r2.Iterations {
		t.Errorf("相同种子迭代数应一致: %d vs %d", r1.Iterations, r2.Iterations)
	}
}

func TestOptimize_PreservesLocked(t *testing.T) {
	req := testRequest(3, "2025-03-08")
	req.Goal = model.GoalBalanced

	locked := &model.ScheduleAssignment{
		ID:         uuid.New(),
		EmployeeID: req.Employees[2].ID,
		ShiftID:    req.Shifts[0].ID,
		Date:       "2025-03-04",
		IsLocked:   true,
	}
	req.LockedAssignments = []*model.ScheduleAssignment{locked}

	result := newOptimizer(7).Optimize(req)

	found := false
	for _, a := range result.Assignments {
		if a.Date == locked.Date && a.EmployeeID == locked.EmployeeID && a.ShiftID == locked.ShiftID {
			if !a.IsLocked {
				t.Error("锁定分配在输出中应保持锁定标记")
			}
			found = true
		}
	}
	if !found {
		t.Error("锁定分配必须原样出现在输出中")
	}
}

func TestOptimize_IterationsWithinCeiling(t *testing.T) {
	req := testRequest(2, "2025-03-05")
	req.Goal = model.GoalBalanced

	o := newOptimizer(3)
	result := o.Optimize(req)

	if result.Iterations <= 0 {
		t.Error("迭代数应为实际运行的代数，不应为0")
	}
	if result.Iterations > o.config.MaxGenerations {
		t.Errorf("迭代数 %d 不应超过代数上限 %d", result.Iterations, o.config.MaxGenerations)
	}
}

func TestOptimize_GoalDispatch(t *testing.T) {
	goals := []model.OptimizationGoal{
		model.GoalFairness,
		model.GoalPreference,
		model.GoalCoverage,
		model.GoalCost,
		model.GoalBalanced,
	}

	for _, goal := range goals {
		t.Run(string(goal), func(t *testing.T) {
			req := testRequest(2, "2025-03-05")
			req.Goal = goal

			result := newOptimizer(11).Optimize(req)
			if result == nil {
				t.Fatal("Optimize 不应返回 nil")
			}
			if len(result.Assignments) == 0 {
				t.Error("可行请求应产生分配")
			}
			if result.Score.Total < 0 || result.Score.Total > 100 {
				t.Errorf("总分 %d 超出 [0,100]", result.Score.Total)
			}
		})
	}
}

func TestCoverageDiagnostics(t *testing.T) {
	o := newOptimizer(5)

	// 仅一名员工但班次需要2人，且该员工已排班：无人可补
	emp := &model.Employee{ID: uuid.New(), Name: "独员"}
	shift := &model.Shift{
		ID: uuid.New(), Name: "白班", Kind: model.ShiftDay,
		StartTime: "09:00", EndTime: "17:00", DurationHours: 8, RequiredStaff: 2,
	}
	req := &model.SchedulingRequest{
		DepartmentID: uuid.New(),
		DateRange:    model.DateRange{StartDate: "2025-03-03", EndDate: "2025-03-04"},
		Employees:    []*model.Employee{emp},
		Shifts:       []*model.Shift{shift},
	}

	sol := &Solution{Assignments: []*model.ScheduleAssignment{
		{ID: uuid.New(), EmployeeID: emp.ID, ShiftID: shift.ID, Date: "2025-03-03"},
		{ID: uuid.New(), EmployeeID: emp.ID, ShiftID: shift.ID, Date: "2025-03-04"},
	}}

	diags := o.coverageDiagnostics(sol, req)
	if len(diags) != 2 {
		t.Fatalf("两天均无人可补, 应有2条 coverage 违反, got %d", len(diags))
	}
	for _, d := range diags {
		if d.Type != model.ViolationCoverage {
			t.Errorf("违反类型 = %s, expected coverage", d.Type)
		}
		if !d.IsHard() {
			t.Error("coverage 应为硬约束违反")
		}
	}
}
