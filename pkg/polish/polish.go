// Package polish 排班结果的可选后处理阶段
// 阶段实现由外部协作方提供（如说明文案润色），失败时静默放行：
// 任何阶段出错都不影响已生成的排班结果
package polish

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/lunban/lunban/pkg/logger"
	"github.com/lunban/lunban/pkg/model"
)

// Stage 后处理阶段
// 实现方拿到优化结果并返回改进后的副本，不得修改传入的结果
type Stage interface {
	Name() string
	Apply(ctx context.Context, result *model.SchedulingResult) (*model.SchedulingResult, error)
}

// Pipeline 后处理流水线
// 按注册顺序执行各阶段；出错的阶段被跳过，锁定分配被改动的阶段
// 输出会被整体丢弃
type Pipeline struct {
	stages []Stage
	logger *zerolog.Logger
}

// NewPipeline 创建后处理流水线
func NewPipeline(stages ...Stage) *Pipeline {
	l := logger.Get().With().Str("component", "polish").Logger()
	return &Pipeline{
		stages: stages,
		logger: &l,
	}
}

// Run 执行流水线
// 无论各阶段成败，返回值始终是一份可用的排班结果；
// 所有阶段都未生效时 Improved 为 false
func (p *Pipeline) Run(ctx context.Context, result *model.SchedulingResult) *model.SchedulingResult {
	current := result
	improved := false

	for _, stage := range p.stages {
		next, err := stage.Apply(ctx, current)
		if err != nil {
			p.logger.Warn().
				Str("stage", stage.Name()).
				Err(err).
				Msg("后处理阶段失败，跳过")
			continue
		}
		if next == nil {
			continue
		}
		if !lockedUnchanged(current.Assignments, next.Assignments) {
			p.logger.Warn().
				Str("stage", stage.Name()).
				Msg("后处理阶段改动了锁定分配，输出被丢弃")
			continue
		}
		current = next
		improved = true
	}

	current.Improved = improved
	return current
}

// lockedUnchanged 检查两份分配中锁定条目的 (员工, 班次, 日期) 三元组一致
func lockedUnchanged(before, after []*model.ScheduleAssignment) bool {
	lockedKeys := make(map[string]bool)
	for _, a := range before {
		if a.IsLocked {
			lockedKeys[lockedTriple(a)] = true
		}
	}
	if len(lockedKeys) == 0 {
		return true
	}

	for _, a := range after {
		if a.IsLocked {
			delete(lockedKeys, lockedTriple(a))
		}
	}
	return len(lockedKeys) == 0
}

func lockedTriple(a *model.ScheduleAssignment) string {
	return a.EmployeeID.String() + "/" + a.ShiftID.String() + "/" + a.Date
}
