// Package scheduler 排班引擎门面
// 组合校验、评分、模式与优化，对外暴露创建与更新排班两个入口
package scheduler

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/lunban/lunban/pkg/errors"
	"github.com/lunban/lunban/pkg/model"
	"github.com/lunban/lunban/pkg/scheduler/optimizer"
	"github.com/lunban/lunban/pkg/scheduler/pattern"
	"github.com/lunban/lunban/pkg/scheduler/scoring"
	"github.com/lunban/lunban/pkg/scheduler/validator"
)

// 建议触发的负荷差阈值
const workloadGapThreshold = 2

// Scheduler 排班调度器
type Scheduler struct {
	validator *validator.Validator
	scorer    *scoring.Scorer
	patterns  *pattern.Manager
	optimizer *optimizer.Optimizer
}

// New 创建调度器
// policy 为 nil 时使用默认劳动政策，cfg 为 nil 时使用默认优化配置，
// rng 为 nil 时按当前时间播种
func New(policy *model.LaborPolicy, cfg *optimizer.Config, rng *rand.Rand) *Scheduler {
	if policy == nil {
		def := model.DefaultLaborPolicy()
		policy = &def
	}
	v := validator.New(*policy)
	s := scoring.New()
	return &Scheduler{
		validator: v,
		scorer:    s,
		patterns:  pattern.NewManager(),
		optimizer: optimizer.New(v, s, cfg, rng),
	}
}

// NewDefault 以全部默认配置创建调度器
func NewDefault() *Scheduler {
	return New(nil, nil, nil)
}

// Patterns 返回模式管理器
func (s *Scheduler) Patterns() *pattern.Manager {
	return s.patterns
}

// CreateSchedule 创建排班
// 先做请求校验，任何校验失败都在优化开始前以类型化错误返回；
// 优化完成后强制回填锁定分配、排序输出并附带改进建议
func (s *Scheduler) CreateSchedule(req *model.SchedulingRequest) (*model.SchedulingResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	opt := s.optimizer.Optimize(req)

	assignments := s.restoreLocked(req, opt.Assignments)
	model.SortAssignments(assignments)

	result := &model.SchedulingResult{
		Assignments:     assignments,
		Violations:      opt.Violations,
		Score:           opt.Score,
		Iterations:      opt.Iterations,
		ComputationTime: opt.ComputationTime,
		Success:         model.CountHardViolations(opt.Violations) == 0,
	}
	result.Suggestions = s.buildSuggestions(req, result)

	return result, nil
}

// UpdateSchedule 更新排班
// 把变更合并进原请求，并强制把现有排班中的锁定分配重新作为锁定输入，
// 保证它们在输出中逐字节不变
func (s *Scheduler) UpdateSchedule(
	req *model.SchedulingRequest,
	existing []*model.ScheduleAssignment,
	changes *model.ScheduleChanges,
) (*model.SchedulingResult, error) {
	merged := mergeChanges(req, changes)
	merged.ExistingAssignments = model.CloneAssignments(existing)

	var locked []*model.ScheduleAssignment
	for _, a := range existing {
		if a.IsLocked {
			locked = append(locked, a.Clone())
		}
	}
	merged.LockedAssignments = locked

	return s.CreateSchedule(merged)
}

// validateRequest 校验请求不变式
func validateRequest(req *model.SchedulingRequest) error {
	if len(req.Employees) == 0 {
		return errors.EmptyEmployeeList()
	}
	if len(req.Shifts) == 0 {
		return errors.EmptyShiftList()
	}
	if !req.DateRange.IsValid() {
		return errors.InvalidDateRange(req.DateRange.StartDate, req.DateRange.EndDate)
	}
	if days := req.DateRange.Days(); days > model.MaxScheduleRangeDays {
		return errors.DateRangeTooLong(days, model.MaxScheduleRangeDays)
	}
	return nil
}

// mergeChanges 把变更合并为新请求，未提供的字段沿用原值
func mergeChanges(req *model.SchedulingRequest, changes *model.ScheduleChanges) *model.SchedulingRequest {
	merged := *req
	if changes == nil {
		return &merged
	}

	if changes.DateRange != nil {
		merged.DateRange = *changes.DateRange
	}
	if changes.Employees != nil {
		merged.Employees = changes.Employees
	}
	if changes.Shifts != nil {
		merged.Shifts = changes.Shifts
	}
	if changes.Pattern != nil {
		merged.Pattern = changes.Pattern
	}
	if changes.Constraints != nil {
		merged.Constraints = changes.Constraints
	}
	if changes.Goal != "" {
		merged.Goal = changes.Goal
	}
	return &merged
}

// restoreLocked 把锁定分配逐字节回填到输出
// 优化器不应改动锁定分配，这里仍以请求里的原件为准做最终保证
func (s *Scheduler) restoreLocked(req *model.SchedulingRequest, assignments []*model.ScheduleAssignment) []*model.ScheduleAssignment {
	if len(req.LockedAssignments) == 0 {
		return assignments
	}

	lockedByKey := make(map[string]*model.ScheduleAssignment, len(req.LockedAssignments))
	for _, locked := range req.LockedAssignments {
		lockedByKey[locked.Key()] = locked
	}

	restored := make([]*model.ScheduleAssignment, 0, len(assignments))
	seen := make(map[string]bool, len(lockedByKey))

	for _, a := range assignments {
		if locked, ok := lockedByKey[a.Key()]; ok {
			clone := locked.Clone()
			clone.IsLocked = true
			restored = append(restored, clone)
			seen[a.Key()] = true
			continue
		}
		restored = append(restored, a)
	}

	// 优化结果中缺失的锁定分配也必须出现在输出里
	for key, locked := range lockedByKey {
		if seen[key] {
			continue
		}
		clone := locked.Clone()
		clone.IsLocked = true
		restored = append(restored, clone)
	}

	return restored
}

// buildSuggestions 生成定性改进建议
func (s *Scheduler) buildSuggestions(req *model.SchedulingRequest, result *model.SchedulingResult) []string {
	var suggestions []string

	if hard := model.CountHardViolations(result.Violations); hard > 0 {
		suggestions = append(suggestions,
			fmt.Sprintf("仍有 %d 条硬约束违反，建议增加可用员工或放宽班次人数要求", hard))
	}

	if req.Pattern == nil {
		suggestions = append(suggestions, "未使用循环班次模式，启用模式可提升排班的规律性")
	}

	if gap := workloadGap(req, result.Assignments); gap > workloadGapThreshold {
		suggestions = append(suggestions,
			fmt.Sprintf("员工负荷差达 %d 个班次，建议切换公平优化目标以均衡工作量", gap))
	}

	return suggestions
}

// workloadGap 计算员工间工作班次数的最大差距
func workloadGap(req *model.SchedulingRequest, assignments []*model.ScheduleAssignment) int {
	if len(req.Employees) < 2 {
		return 0
	}

	shiftByID := make(map[uuid.UUID]*model.Shift, len(req.Shifts))
	for _, sh := range req.Shifts {
		shiftByID[sh.ID] = sh
	}

	loads := make(map[uuid.UUID]int, len(req.Employees))
	for _, e := range req.Employees {
		loads[e.ID] = 0
	}
	for _, a := range assignments {
		if sh := shiftByID[a.ShiftID]; sh != nil && sh.IsWorking() {
			loads[a.EmployeeID]++
		}
	}

	maxLoad, minLoad := 0, int(^uint(0)>>1)
	for _, load := range loads {
		if load > maxLoad {
			maxLoad = load
		}
		if load < minLoad {
			minLoad = load
		}
	}
	return maxLoad - minLoad
}
