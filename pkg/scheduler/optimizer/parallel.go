// Package optimizer 提供排班优化算法
package optimizer

import (
	"sync"

	"github.com/lunban/lunban/pkg/model"
)

// evaluateBatch 并行评估一批候选方案
// 评估只读请求数据、只写各自的方案字段，可安全并行
func (o *Optimizer) evaluateBatch(population []*Solution, req *model.SchedulingRequest) {
	if len(population) == 0 {
		return
	}

	workers := o.config.Workers
	if workers <= 0 {
		workers = 4
	}
	if workers > len(population) {
		workers = len(population)
	}

	jobChan := make(chan *Solution, len(population))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for s := range jobChan {
				o.evaluate(s, req)
			}
		}()
	}

	for _, s := range population {
		jobChan <- s
	}
	close(jobChan)

	wg.Wait()
}

// bestOf 返回种群中适应度最高的方案
func bestOf(population []*Solution) *Solution {
	if len(population) == 0 {
		return nil
	}
	best := population[0]
	for _, s := range population[1:] {
		if s.Fitness > best.Fitness {
			best = s
		}
	}
	return best
}
