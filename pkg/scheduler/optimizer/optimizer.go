// Package optimizer 提供排班优化算法
package optimizer

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"sort"
	"time"

	"github.com/lunban/lunban/pkg/logger"
	"github.com/lunban/lunban/pkg/model"
	"github.com/lunban/lunban/pkg/scheduler/scoring"
	"github.com/lunban/lunban/pkg/scheduler/validator"
)

// Config 优化配置
type Config struct {
	PopulationSize   int     `yaml:"population_size" json:"population_size"`
	MaxGenerations   int     `yaml:"max_generations" json:"max_generations"`
	ElitismCount     int     `yaml:"elitism_count" json:"elitism_count"`
	TournamentSize   int     `yaml:"tournament_size" json:"tournament_size"`
	MutationRate     float64 `yaml:"mutation_rate" json:"mutation_rate"`
	TabuSize         int     `yaml:"tabu_size" json:"tabu_size"`
	PlateauThreshold int     `yaml:"plateau_threshold" json:"plateau_threshold"` // 无改进代数上限
	Workers          int     `yaml:"workers" json:"workers"`
}

// DefaultConfig 返回默认优化配置
func DefaultConfig() *Config {
	return &Config{
		PopulationSize:   30,
		MaxGenerations:   100,
		ElitismCount:     3,
		TournamentSize:   3,
		MutationRate:     0.3,
		TabuSize:         50,
		PlateauThreshold: 15,
		Workers:          4,
	}
}

// 硬约束违反在适应度中的主导惩罚
const hardViolationPenalty = 1000.0

// Optimizer 排班优化器
// 单次调用为纯CPU计算，候选方案一律先克隆再修改
type Optimizer struct {
	validator *validator.Validator
	scorer    *scoring.Scorer
	config    *Config
	rng       *rand.Rand
	logger    *logger.SchedulerLogger
}

// New 创建优化器
// rng 为可注入的伪随机源，传 nil 时按当前时间播种
func New(v *validator.Validator, s *scoring.Scorer, cfg *Config, rng *rand.Rand) *Optimizer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Optimizer{
		validator: v,
		scorer:    s,
		config:    cfg,
		rng:       rng,
		logger:    logger.NewSchedulerLogger(),
	}
}

// Result 优化结果
type Result struct {
	Assignments     []*model.ScheduleAssignment
	Violations      []model.ConstraintViolation
	Score           model.ScheduleScore
	Iterations      int
	ComputationTime time.Duration
	Suggestions     []string
}

// Solution 候选方案
type Solution struct {
	Assignments []*model.ScheduleAssignment
	Score       model.ScheduleScore
	Violations  []model.ConstraintViolation
	Fitness     float64
}

// Clone 深拷贝候选方案
func (s *Solution) Clone() *Solution {
	return &Solution{
		Assignments: model.CloneAssignments(s.Assignments),
		Score:       s.Score,
		Violations:  s.Violations,
		Fitness:     s.Fitness,
	}
}

// Signature 计算方案的规范化签名（FNV-1a）
// 分配按 (日期, 员工, 班次) 排序后哈希，与存储顺序无关
func (s *Solution) Signature() uint64 {
	sorted := make([]*model.ScheduleAssignment, len(s.Assignments))
	copy(sorted, s.Assignments)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Date != sorted[j].Date {
			return sorted[i].Date < sorted[j].Date
		}
		if sorted[i].EmployeeID != sorted[j].EmployeeID {
			return sorted[i].EmployeeID.String() < sorted[j].EmployeeID.String()
		}
		return sorted[i].ShiftID.String() < sorted[j].ShiftID.String()
	})

	h := fnv.New64a()
	for _, a := range sorted {
		h.Write(a.EmployeeID[:])
		h.Write(a.ShiftID[:])
		h.Write([]byte(a.Date))
	}
	return h.Sum64()
}

// Optimize 执行优化
// 先构造初始解（贪心与模式候选取优），再按目标分派精化策略
func (o *Optimizer) Optimize(req *model.SchedulingRequest) *Result {
	start := time.Now()
	goal := req.GoalOrDefault()

	o.logger.StartOptimize(req.DepartmentID.String(), string(goal),
		len(req.Employees), req.DateRange.Days())

	initial := o.generateInitial(req)
	o.evaluate(initial, req)

	var best *Solution
	iterations := 0

	switch goal {
	case model.GoalFairness:
		best, iterations = o.optimizeForFairness(initial, req)
	case model.GoalPreference:
		best, iterations = o.optimizeForPreference(initial, req)
	case model.GoalCoverage:
		best, iterations = o.optimizeForCoverage(initial, req)
	case model.GoalCost:
		// 成本目标暂以公平优化近似：负荷均衡直接压缩加班量
		best, iterations = o.optimizeForFairness(initial, req)
	default:
		best, iterations = o.optimizeBalanced(initial, req)
	}

	o.evaluate(best, req)
	violations := append(best.Violations, o.coverageDiagnostics(best, req)...)

	elapsed := time.Since(start)
	o.logger.OptimizeComplete(req.DepartmentID.String(), elapsed, iterations, best.Score.Total)

	return &Result{
		Assignments:     best.Assignments,
		Violations:      violations,
		Score:           best.Score,
		Iterations:      iterations,
		ComputationTime: elapsed,
	}
}

// evaluate 评估方案：校验、评分、计算适应度
// 适应度 = 总分 − 1000 × 硬违反数，任何硬违反都压倒软分差异
func (o *Optimizer) evaluate(s *Solution, req *model.SchedulingRequest) {
	s.Violations = o.validator.Validate(s.Assignments, req.Employees, req.Shifts, req.DateRange)
	s.Score = o.scorer.Score(s.Assignments, req.Employees, req.Shifts, s.Violations)
	s.Fitness = float64(s.Score.Total) - hardViolationPenalty*float64(model.CountHardViolations(s.Violations))
}

// coverageDiagnostics 为无人可排的缺口生成覆盖违反
// 构造期找不到候选人不会中断优化，只以数据形式报告
func (o *Optimizer) coverageDiagnostics(s *Solution, req *model.SchedulingRequest) []model.ConstraintViolation {
	assignedByCell := make(map[string]int)
	busyByDate := make(map[string]map[string]bool)
	for _, a := range s.Assignments {
		assignedByCell[a.Date+"/"+a.ShiftID.String()]++
		if busyByDate[a.Date] == nil {
			busyByDate[a.Date] = make(map[string]bool)
		}
		busyByDate[a.Date][a.EmployeeID.String()] = true
	}

	var diags []model.ConstraintViolation

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

			assigned := assignedByCell[date+"/"+shift.ID.String()]
			if assigned >= required {
				continue
			}

			// 仅当确实无人可用时报告覆盖失败，普通缺口由最低人数检查报告
			if o.anyCandidate(req, date, busyByDate[date]) {
				continue
			}

			diags = append(diags, model.ConstraintViolation{
				Type:     model.ViolationCoverage,
				Kind:     model.ConstraintHard,
				Category: model.CategoryOperational,
				Severity: model.SeverityHigh,
				Message: fmt.Sprintf("班次 %s 在 %s 需要 %d 人、已排 %d 人，且当天已无可用员工",
					shift.Name, date, required, assigned),
				Dates: []string{date},
				Cost:  model.CostHigh,
			})
		}
	}

	return diags
}

// anyCandidate 检查某日期是否还有可用且未排班的员工
func (o *Optimizer) anyCandidate(req *model.SchedulingRequest, date string, busy map[string]bool) bool {
	for _, emp := range req.Employees {
		if busy != nil && busy[emp.ID.String()] {
			continue
		}
		if emp.IsAvailableOn(date) {
			return true
		}
	}
	return false
}
