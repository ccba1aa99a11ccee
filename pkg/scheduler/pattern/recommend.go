// Package pattern 提供循环班次模式库与模式排班生成
package pattern

import (
	"math"
	"sort"

	"github.com/lunban/lunban/pkg/model"
)

// 推荐评分的启发式参数
const (
	targetWeeklyHours   = 40.0 // 目标周均工时
	assumedShiftHours   = 8.0  // 假定单班工时
	comfortableRunDays  = 5    // 舒适连续工作天数
	nightRatioCeiling   = 0.30 // 夜班占比上限
	weekendRatioCeiling = 0.40 // 周末负荷占比上限
)

// Recommendation 模式推荐结果
type Recommendation struct {
	Pattern *model.ShiftPattern `json:"pattern"`
	Score   float64             `json:"score"`
	Reason  string              `json:"reason,omitempty"`
}

// Recommend 按人数与覆盖需求推荐模式，得分降序排列
// 评分惩罚偏离40小时周均工时、超过5天的连续工作、
// 超过30%的夜班占比以及超过40%的周末负荷占比
func (m *Manager) Recommend(
	employeeCount int,
	requiredCoverage map[model.ShiftKind]int,
	prefs []*model.EmployeePreferences,
) []Recommendation {
	var recs []Recommendation

	for _, p := range m.List() {
		if !coverageFeasible(p, employeeCount, requiredCoverage) {
			continue
		}
		recs = append(recs, Recommendation{
			Pattern: p,
			Score:   scorePattern(p, prefs),
		})
	}

	sort.Slice(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})
	return recs
}

// coverageFeasible 检查人数能否同时满足模式与调用方的覆盖需求
func coverageFeasible(p *model.ShiftPattern, employeeCount int, required map[model.ShiftKind]int) bool {
	needed := 0
	for kind, staff := range p.MinStaffPerShift {
		if ext, ok := required[kind]; ok && ext > staff {
			staff = ext
		}
		needed += staff
	}
	for kind, staff := range required {
		if _, covered := p.MinStaffPerShift[kind]; !covered {
			needed += staff
		}
	}
	return employeeCount >= needed
}

// scorePattern 计算模式推荐得分
func scorePattern(p *model.ShiftPattern, prefs []*model.EmployeePreferences) float64 {
	score := 100.0
	cycle := float64(p.CycleLengthDays)

	// 周均工时偏离
	weeklyHours := float64(p.WorkingDays()) / cycle * 7 * assumedShiftHours
	score -= math.Abs(weeklyHours-targetWeeklyHours) * 1.5

	// 连续工作天数
	if run := p.LongestWorkingRun(); run > comfortableRunDays {
		score -= float64(run-comfortableRunDays) * 5
	}

	// 夜班占比
	nightDays := 0
	for _, k := range p.Sequence {
		if k == model.ShiftNight {
			nightDays++
		}
	}
	if working := p.WorkingDays(); working > 0 {
		nightRatio := float64(nightDays) / float64(working)
		if nightRatio > nightRatioCeiling {
			score -= (nightRatio - nightRatioCeiling) * 50
		}
		if nightRatio > 0 && mostAvoidNight(prefs) {
			score -= nightRatio * 20
		}
	}

	// 周末负荷占比：循环模式与具体星期无关，以工作日占比近似周末出勤比例
	weekendRatio := float64(p.WorkingDays()) / cycle
	if weekendRatio > weekendRatioCeiling {
		score -= (weekendRatio - weekendRatioCeiling) * 30
	}

	return score
}

// mostAvoidNight 检查是否多数员工回避夜班
func mostAvoidNight(prefs []*model.EmployeePreferences) bool {
	if len(prefs) == 0 {
		return false
	}
	avoid := 0
	for _, p := range prefs {
		if p != nil && (p.AvoidsKind(model.ShiftNight) || !p.PrefersNightShift) {
			avoid++
		}
	}
	return avoid*2 > len(prefs)
}
