// Package model 定义排班引擎的核心数据模型
package model

// 综合得分各维度权重
const (
	FairnessWeight   = 0.30
	PreferenceWeight = 0.25
	CoverageWeight   = 0.25
	ConstraintWeight = 0.20
)

// ScheduleScore 排班得分
// 总分与各子分均为 [0,100] 区间内的整数
type ScheduleScore struct {
	Total           int              `json:"total"`
	Fairness        int              `json:"fairness"`
	Preference      int              `json:"preference"`
	Coverage        int              `json:"coverage"`
	ConstraintScore int              `json:"constraint_score"`
	Breakdown       []ScoreBreakdown `json:"breakdown,omitempty"`
}

// ScoreBreakdown 得分构成说明（用于可解释性）
type ScoreBreakdown struct {
	Component string  `json:"component"`
	Value     float64 `json:"value"`
	Detail    string  `json:"detail,omitempty"`
}

// ClampScore 将得分截断到 [0,100]
func ClampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
