// Package pattern 提供循环班次模式库与模式排班生成
package pattern

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/lunban/lunban/pkg/errors"
	"github.com/lunban/lunban/pkg/model"
)

// Manager 班次模式管理器
// 内置常用轮班模式，支持注册自定义模式
type Manager struct {
	patterns map[string]*model.ShiftPattern
	mu       sync.RWMutex
}

// NewManager 创建模式管理器并装载内置模式
func NewManager() *Manager {
	m := &Manager{patterns: make(map[string]*model.ShiftPattern)}
	for _, p := range builtinPatterns() {
		m.patterns[p.Name] = p
	}
	return m
}

// builtinPatterns 返回内置模式库
func builtinPatterns() []*model.ShiftPattern {
	day, evening, night, off := model.ShiftDay, model.ShiftEvening, model.ShiftNight, model.ShiftOff

	return []*model.ShiftPattern{
		{
			ID:              uuid.New(),
			Name:            "five-two",
			CycleLengthDays: 7,
			Sequence:        []model.ShiftKind{day, day, day, day, day, off, off},
			MinStaffPerShift: map[model.ShiftKind]int{
				day: 1,
			},
		},
		{
			ID:              uuid.New(),
			Name:            "four-on-two-off",
			CycleLengthDays: 6,
			Sequence:        []model.ShiftKind{day, day, day, day, off, off},
			MinStaffPerShift: map[model.ShiftKind]int{
				day: 1,
			},
		},
		{
			ID:              uuid.New(),
			Name:            "continental",
			CycleLengthDays: 7,
			Sequence:        []model.ShiftKind{day, day, evening, evening, night, night, off},
			MinStaffPerShift: map[model.ShiftKind]int{
				day: 1, evening: 1, night: 1,
			},
		},
		{
			ID:              uuid.New(),
			Name:            "panama",
			CycleLengthDays: 14,
			Sequence: []model.ShiftKind{
				day, day, off, off, day, day, day,
				off, off, day, day, off, off, off,
			},
			MinStaffPerShift: map[model.ShiftKind]int{
				day: 1,
			},
		},
		{
			ID:              uuid.New(),
			Name:            "night-rotation",
			CycleLengthDays: 6,
			Sequence:        []model.ShiftKind{night, night, night, night, off, off},
			MinStaffPerShift: map[model.ShiftKind]int{
				night: 1,
			},
		},
	}
}

// Get 按名称获取模式
func (m *Manager) Get(name string) *model.ShiftPattern {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.patterns[name]
}

// List 返回全部模式，按名称排序
func (m *Manager) List() []*model.ShiftPattern {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*model.ShiftPattern, 0, len(m.patterns))
	for _, p := range m.patterns {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Register 注册自定义模式，非法模式同步返回错误
func (m *Manager) Register(p *model.ShiftPattern) error {
	if err := Validate(p); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.patterns[p.Name] = p
	return nil
}

// Validate 校验模式结构
// 循环长度必须在 [1,42]，序列长度必须等于循环长度，
// 连续工作天数不得超过6天，休息比例不得低于1/7
func Validate(p *model.ShiftPattern) error {
	if p.CycleLengthDays < model.MinPatternCycleDays || p.CycleLengthDays > model.MaxPatternCycleDays {
		return errors.PatternCycleOutOfRange(p.CycleLengthDays)
	}
	if len(p.Sequence) != p.CycleLengthDays {
		return errors.PatternLengthMismatch(p.CycleLengthDays, len(p.Sequence))
	}
	if run := p.LongestWorkingRun(); run > model.MaxWorkingRunDays {
		return errors.PatternRunTooLong(run)
	}
	if p.OffDays()*7 < p.CycleLengthDays {
		return errors.PatternRestTooLow(p.OffDays(), p.CycleLengthDays)
	}
	return nil
}
