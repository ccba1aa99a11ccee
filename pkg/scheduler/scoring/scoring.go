// Package scoring 提供排班方案评分
package scoring

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/lunban/lunban/pkg/model"
)

// Scorer 排班评分器
// 按公平、偏好、覆盖、约束满足四个维度打分并加权汇总
type Scorer struct{}

// New 创建评分器
func New() *Scorer {
	return &Scorer{}
}

// JainIndex 计算 Jain 公平指数
// J(w) = (Σw)² / (n·Σw²)，取值 [1/n, 1]，1 表示完全均等
// 空输入或全零负载视为完全公平，返回 1
func JainIndex(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 1
	}

	var sum, sumSquares float64
	for _, v := range values {
		sum += v
		sumSquares += v * v
	}
	if sumSquares == 0 {
		return 1
	}

	return (sum * sum) / (float64(n) * sumSquares)
}

// Score 计算排班得分
func (s *Scorer) Score(
	assignments []*model.ScheduleAssignment,
	employees []*model.Employee,
	shifts []*model.Shift,
	violations []model.ConstraintViolation,
) model.ScheduleScore {
	shiftByID := make(map[uuid.UUID]*model.Shift, len(shifts))
	for _, sh := range shifts {
		shiftByID[sh.ID] = sh
	}

	fairness, fairnessDetail := s.fairnessScore(assignments, employees, shiftByID)
	preference, prefDetail := s.preferenceScore(assignments, employees, shiftByID)
	coverage, covDetail := s.coverageScore(assignments, shifts)
	constraintScore := s.constraintScore(violations)

	total := fairness*model.FairnessWeight +
		preference*model.PreferenceWeight +
		coverage*model.CoverageWeight +
		constraintScore*model.ConstraintWeight

	return model.ScheduleScore{
		Total:           int(math.Round(model.ClampScore(total))),
		Fairness:        int(math.Round(fairness)),
		Preference:      int(math.Round(preference)),
		Coverage:        int(math.Round(coverage)),
		ConstraintScore: int(math.Round(constraintScore)),
		Breakdown: []model.ScoreBreakdown{
			{Component: "fairness", Value: fairness, Detail: fairnessDetail},
			{Component: "preference", Value: preference, Detail: prefDetail},
			{Component: "coverage", Value: coverage, Detail: covDetail},
			{Component: "constraints", Value: constraintScore,
				Detail: fmt.Sprintf("%d 项违反", len(violations))},
		},
	}
}

// fairnessScore 计算公平子分
// 100 − (1−J)·30 − 变异系数·20 − 周末差距惩罚 − 夜班差距惩罚
func (s *Scorer) fairnessScore(
	assignments []*model.ScheduleAssignment,
	employees []*model.Employee,
	shiftByID map[uuid.UUID]*model.Shift,
) (float64, string) {
	if len(employees) == 0 {
		return 100, "无员工"
	}

	hoursByEmp := make(map[uuid.UUID]float64, len(employees))
	weekendByEmp := make(map[uuid.UUID]int, len(employees))
	nightByEmp := make(map[uuid.UUID]int, len(employees))
	for _, e := range employees {
		hoursByEmp[e.ID] = 0
	}

	for _, a := range assignments {
		shift := shiftByID[a.ShiftID]
		if shift == nil || !shift.IsWorking() {
			continue
		}
		hoursByEmp[a.EmployeeID] += shift.DurationHours
		if model.IsWeekend(a.Date) {
			weekendByEmp[a.EmployeeID]++
		}
		if shift.IsNightShift() {
			nightByEmp[a.EmployeeID]++
		}
	}

	hours := make([]float64, 0, len(employees))
	for _, e := range employees {
		hours = append(hours, hoursByEmp[e.ID])
	}

	jain := JainIndex(hours)
	cv := coefficientOfVariation(hours)
	weekendGap := countGap(employees, weekendByEmp)
	nightGap := countGap(employees, nightByEmp)

	score := 100 - (1-jain)*30 - cv*20 - gapPenalty(weekendGap) - gapPenalty(nightGap)
	detail := fmt.Sprintf("Jain=%.3f CV=%.3f 周末差=%d 夜班差=%d", jain, cv, weekendGap, nightGap)
	return model.ClampScore(score), detail
}

// coefficientOfVariation 计算变异系数（标准差/均值）
func coefficientOfVariation(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)
	if mean == 0 {
		return 0
	}

	var sumSquares float64
	for _, v := range values {
		diff := v - mean
		sumSquares += diff * diff
	}
	return math.Sqrt(sumSquares/float64(n)) / mean
}

// countGap 返回员工间计数的最大差距
func countGap(employees []*model.Employee, counts map[uuid.UUID]int) int {
	if len(employees) == 0 {
		return 0
	}
	min, max := math.MaxInt32, 0
	for _, e := range employees {
		c := counts[e.ID]
		if c < min {
			min = c
		}
		if c > max {
			max = c
		}
	}
	return max - min
}

// gapPenalty 差距转为惩罚分，上限15
func gapPenalty(gap int) float64 {
	p := float64(gap) * 2
	if p > 15 {
		p = 15
	}
	return p
}

// preferenceScore 计算偏好子分
// 满足的偏好机会数 / 总偏好机会数 × 100，夜班意愿按0.5权重计
func (s *Scorer) preferenceScore(
	assignments []*model.ScheduleAssignment,
	employees []*model.Employee,
	shiftByID map[uuid.UUID]*model.Shift,
) (float64, string) {
	empByID := make(map[uuid.UUID]*model.Employee, len(employees))
	for _, e := range employees {
		empByID[e.ID] = e
	}

	var opportunities, satisfied float64

	for _, a := range assignments {
		emp := empByID[a.EmployeeID]
		shift := shiftByID[a.ShiftID]
		if emp == nil || emp.Preferences == nil || shift == nil || !shift.IsWorking() {
			continue
		}
		prefs := emp.Preferences

		if len(prefs.PreferredShiftKinds) > 0 {
			opportunities++
			if prefs.PrefersKind(shift.Kind) {
				satisfied++
			}
		}

		if len(prefs.AvoidShiftKinds) > 0 {
			opportunities++
			if !prefs.AvoidsKind(shift.Kind) {
				satisfied++
			}
		}

		if len(prefs.PreferredDaysOff) > 0 {
			opportunities++
			if !prefs.PrefersDayOff(model.WeekdayOf(a.Date)) {
				satisfied++
			}
		}

		if prefs.PrefersNightShift {
			opportunities += 0.5
			if shift.IsNightShift() {
				satisfied += 0.5
			}
		}
	}

	if opportunities == 0 {
		return 100, "无偏好机会"
	}

	score := satisfied / opportunities * 100
	detail := fmt.Sprintf("满足 %.1f / %.1f 项偏好机会", satisfied, opportunities)
	return model.ClampScore(score), detail
}

// coverageScore 计算覆盖子分
// Σmin(需求, 实排) / Σ需求 × 100，超出需求120%的格子每个扣5分
func (s *Scorer) coverageScore(
	assignments []*model.ScheduleAssignment,
	shifts []*model.Shift,
) (float64, string) {
	type cell struct {
		date    string
		shiftID uuid.UUID
	}

	shiftByID := make(map[uuid.UUID]*model.Shift, len(shifts))
	for _, sh := range shifts {
		shiftByID[sh.ID] = sh
	}

	assignedByCell := make(map[cell]int)
	dateSet := make(map[string]bool)
	for _, a := range assignments {
		shift := shiftByID[a.ShiftID]
		if shift == nil || !shift.IsWorking() {
			continue
		}
		assignedByCell[cell{date: a.Date, shiftID: a.ShiftID}]++
		dateSet[a.Date] = true
	}

	// 需求按出现过的每个日期 × 每个工作班次展开，未排人的格子同样计入分母
	var totalRequired, totalMet float64
	overstaffed := 0

	for date := range dateSet {
		for _, shift := range shifts {
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

			assigned := assignedByCell[cell{date: date, shiftID: shift.ID}]
			totalRequired += float64(required)
			totalMet += math.Min(float64(required), float64(assigned))
			if float64(assigned) > float64(required)*1.2 {
				overstaffed++
			}
		}
	}

	if totalRequired == 0 {
		return 100, "无人数需求"
	}

	score := totalMet/totalRequired*100 - float64(overstaffed)*5
	detail := fmt.Sprintf("满足 %.0f / %.0f 人次，超配格子 %d 个", totalMet, totalRequired, overstaffed)
	return model.ClampScore(score), detail
}

// constraintScore 计算约束满足子分
// 按（硬/软 × 严重程度）逐项扣分，下限0
func (s *Scorer) constraintScore(violations []model.ConstraintViolation) float64 {
	score := 100.0
	for i := range violations {
		score -= deductionFor(&violations[i])
	}
	return model.ClampScore(score)
}

// deductionFor 返回单项违反的扣分
func deductionFor(v *model.ConstraintViolation) float64 {
	if v.IsHard() {
		switch v.Severity {
		case model.SeverityCritical:
			return 25
		case model.SeverityHigh:
			return 15
		case model.SeverityMedium:
			return 8
		default:
			return 4
		}
	}
	switch v.Severity {
	case model.SeverityCritical:
		return 10
	case model.SeverityHigh:
		return 6
	case model.SeverityMedium:
		return 3
	default:
		return 1
	}
}
