// Package model 定义排班引擎的核心数据模型
package model

import (
	"github.com/google/uuid"
)

// 班次模式的结构性限制
const (
	MinPatternCycleDays = 1
	MaxPatternCycleDays = 42
	MaxWorkingRunDays   = 6
)

// ShiftPattern 循环班次模式
// 不变式：连续工作天数不超过6天；休息日数不少于循环长度的1/7
type ShiftPattern struct {
	ID               uuid.UUID         `json:"id"`
	Name             string            `json:"name"`
	CycleLengthDays  int               `json:"cycle_length_days"` // 1-42
	Sequence         []ShiftKind       `json:"sequence"`          // 长度等于循环长度
	MinStaffPerShift map[ShiftKind]int `json:"min_staff_per_shift,omitempty"`
}

// KindAt 返回循环中某一天位置对应的班次种类
func (p *ShiftPattern) KindAt(cyclePos int) ShiftKind {
	if len(p.Sequence) == 0 {
		return ShiftOff
	}
	return p.Sequence[cyclePos%len(p.Sequence)]
}

// WorkingDays 返回循环中的工作天数
func (p *ShiftPattern) WorkingDays() int {
	count := 0
	for _, k := range p.Sequence {
		if k.IsWorking() {
			count++
		}
	}
	return count
}

// OffDays 返回循环中的休息天数（含休假）
func (p *ShiftPattern) OffDays() int {
	return len(p.Sequence) - p.WorkingDays()
}

// LongestWorkingRun 返回循环中最长的连续工作天数
// 按环形处理：循环结尾与开头相接
func (p *ShiftPattern) LongestWorkingRun() int {
	n := len(p.Sequence)
	if n == 0 {
		return 0
	}

	allWorking := true
	for _, k := range p.Sequence {
		if !k.IsWorking() {
			allWorking = false
			break
		}
	}
	if allWorking {
		return n
	}

	longest, run := 0, 0
	// 环形扫描两圈捕捉跨越边界的连续段
	for i := 0; i < 2*n; i++ {
		if p.Sequence[i%n].IsWorking() {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	return longest
}

// BusiestKindMinStaff 返回模式中最高的最低人数要求及其班次种类
func (p *ShiftPattern) BusiestKindMinStaff() (ShiftKind, int) {
	var busiest ShiftKind
	max := 0
	for kind, staff := range p.MinStaffPerShift {
		if staff > max {
			busiest = kind
			max = staff
		}
	}
	return busiest, max
}
