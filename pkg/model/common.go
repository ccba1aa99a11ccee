// Package model 定义排班引擎的核心数据模型
package model

import (
	"time"
)

// ShiftKind 班次种类
type ShiftKind string

const (
	ShiftDay     ShiftKind = "day"     // 白班
	ShiftEvening ShiftKind = "evening" // 小夜班
	ShiftNight   ShiftKind = "night"   // 大夜班
	ShiftOff     ShiftKind = "off"     // 休息
	ShiftLeave   ShiftKind = "leave"   // 休假
	ShiftCustom  ShiftKind = "custom"  // 自定义
)

// IsWorking 检查班次种类是否为工作班次
func (k ShiftKind) IsWorking() bool {
	return k != ShiftOff && k != ShiftLeave
}

// ConstraintKind 约束类别
type ConstraintKind string

const (
	ConstraintHard ConstraintKind = "hard" // 硬约束（必须满足）
	ConstraintSoft ConstraintKind = "soft" // 软约束（尽量满足）
)

// ConstraintCategory 约束分类
type ConstraintCategory string

const (
	CategoryLegal       ConstraintCategory = "legal"       // 法定
	CategoryContractual ConstraintCategory = "contractual" // 合同
	CategoryOperational ConstraintCategory = "operational" // 运营
	CategoryPreference  ConstraintCategory = "preference"  // 偏好
	CategoryFairness    ConstraintCategory = "fairness"    // 公平
)

// Severity 违反严重程度
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// ContractType 合同类型
type ContractType string

const (
	ContractFullTime ContractType = "full_time"
	ContractPartTime ContractType = "part_time"
	ContractTemp     ContractType = "temp"
)

// DateLayout 日期格式
const DateLayout = "2006-01-02"

// TimeLayout 班次时间格式
const TimeLayout = "15:04"

// DateRange 日期范围（含两端）
type DateRange struct {
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
}

// Days 返回范围内的天数
func (dr DateRange) Days() int {
	start, err1 := time.Parse(DateLayout, dr.StartDate)
	end, err2 := time.Parse(DateLayout, dr.EndDate)
	if err1 != nil || err2 != nil {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// Contains 检查日期是否在范围内
func (dr DateRange) Contains(date string) bool {
	return date >= dr.StartDate && date <= dr.EndDate
}

// Dates 返回范围内的所有日期
func (dr DateRange) Dates() []string {
	start, err1 := time.Parse(DateLayout, dr.StartDate)
	end, err2 := time.Parse(DateLayout, dr.EndDate)
	if err1 != nil || err2 != nil {
		return nil
	}

	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(DateLayout))
	}
	return dates
}

// IsValid 检查开始日期是否早于结束日期
func (dr DateRange) IsValid() bool {
	start, err1 := time.Parse(DateLayout, dr.StartDate)
	end, err2 := time.Parse(DateLayout, dr.EndDate)
	if err1 != nil || err2 != nil {
		return false
	}
	return start.Before(end)
}

// IsWeekend 判断日期是否为周末
func IsWeekend(date string) bool {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return false
	}
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// WeekdayOf 返回日期对应的星期
func WeekdayOf(date string) time.Weekday {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Sunday
	}
	return t.Weekday()
}

// PreviousDate 返回前一天日期
func PreviousDate(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, -1).Format(DateLayout)
}

// NextDate 返回后一天日期
func NextDate(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, 1).Format(DateLayout)
}

// WeekStartOf 返回日期所在周的开始日期（周日）
func WeekStartOf(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, -int(t.Weekday())).Format(DateLayout)
}
