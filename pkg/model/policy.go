// Package model 定义排班引擎的核心数据模型
package model

// LaborPolicy 劳动法规政策
// 以注入配置的方式传入校验器，按辖区/租户可替换
type LaborPolicy struct {
	MaxHoursPerDay     float64 `yaml:"max_hours_per_day" json:"max_hours_per_day"`
	MaxHoursPerWeek    float64 `yaml:"max_hours_per_week" json:"max_hours_per_week"`
	MinRestHours       float64 `yaml:"min_rest_hours" json:"min_rest_hours"`
	MaxConsecutiveDays int     `yaml:"max_consecutive_days" json:"max_consecutive_days"`
	MinWeeklyRestDays  int     `yaml:"min_weekly_rest_days" json:"min_weekly_rest_days"`
}

// DefaultLaborPolicy 返回默认政策
// 数值沿用韩国劳动基准法：日8小时、周52小时（含延长工时）、
// 班次间11小时休息、最多连续6个工作日、每周至少1个休息日
func DefaultLaborPolicy() LaborPolicy {
	return LaborPolicy{
		MaxHoursPerDay:     8,
		MaxHoursPerWeek:    52,
		MinRestHours:       11,
		MaxConsecutiveDays: 6,
		MinWeeklyRestDays:  1,
	}
}
