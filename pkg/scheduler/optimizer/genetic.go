// Package optimizer 提供排班优化算法
package optimizer

import (
	"github.com/lunban/lunban/pkg/model"
)

// optimizeBalanced 均衡目标：遗传算法与禁忌混合搜索
// 种群由初始解及其变异体播种，每代保留精英、锦标赛选择、
// 均匀交叉加变异，禁忌表拒绝近期出现过的方案签名，
// 平台期或达到代数上限时终止，返回实际运行的代数
func (o *Optimizer) optimizeBalanced(initial *Solution, req *model.SchedulingRequest) (*Solution, int) {
	population := o.seedPopulation(initial, req)
	o.evaluateBatch(population, req)

	tabu := NewTabuList(o.config.TabuSize)
	tabu.Add(initial.Signature())

	best := bestOf(population).Clone()
	generations := 0
	noImprovement := 0

	for generations < o.config.MaxGenerations {
		generations++

		next := o.nextGeneration(population, req, tabu)
		o.evaluateBatch(next, req)
		population = next

		genBest := bestOf(population)
		if genBest.Fitness > best.Fitness {
			best = genBest.Clone()
			noImprovement = 0
			o.logger.GenerationProgress(generations, best.Fitness)
		} else {
			noImprovement++
		}

		if noImprovement >= o.config.PlateauThreshold {
			break
		}
	}

	return best, generations
}

// seedPopulation 以初始解及其变异体构成首代种群
func (o *Optimizer) seedPopulation(initial *Solution, req *model.SchedulingRequest) []*Solution {
	population := make([]*Solution, 0, o.config.PopulationSize)
	population = append(population, initial.Clone())

	for len(population) < o.config.PopulationSize {
		mutant := initial.Clone()
		o.mutate(mutant)
		population = append(population, mutant)
	}
	return population
}

// nextGeneration 产生下一代种群
// 精英直接晋级，其余由锦标赛选出的双亲交叉并按概率变异；
// 命中禁忌表的子代丢弃重试，重试耗尽时保留以免种群缩水
func (o *Optimizer) nextGeneration(population []*Solution, req *model.SchedulingRequest, tabu *TabuList) []*Solution {
	next := make([]*Solution, 0, o.config.PopulationSize)

	for _, elite := range topByFitness(population, o.config.ElitismCount) {
		next = append(next, elite.Clone())
	}

	for len(next) < o.config.PopulationSize {
		var child *Solution
		for attempt := 0; attempt < 3; attempt++ {
			parentA := o.tournament(population)
			parentB := o.tournament(population)
			child = o.crossover(parentA, parentB)

			if o.rng.Float64() < o.config.MutationRate {
				o.mutate(child)
			}

			sig := child.Signature()
			if !tabu.Contains(sig) {
				tabu.Add(sig)
				break
			}
		}
		next = append(next, child)
	}

	return next
}

// tournament 锦标赛选择：随机抽样中取适应度最高者
func (o *Optimizer) tournament(population []*Solution) *Solution {
	best := population[o.rng.Intn(len(population))]
	for i := 1; i < o.config.TournamentSize; i++ {
		candidate := population[o.rng.Intn(len(population))]
		if candidate.Fitness > best.Fitness {
			best = candidate
		}
	}
	return best
}

// crossover 均匀交叉
// 子代以父A为骨架，同一 (日期, 班次) 槽位上以一半概率改取父B的员工；
// 锁定分配不参与交叉
func (o *Optimizer) crossover(parentA, parentB *Solution) *Solution {
	child := parentA.Clone()

	empBySlot := make(map[string]model.ScheduleAssignment, len(parentB.Assignments))
	for _, b := range parentB.Assignments {
		empBySlot[b.Date+"/"+b.ShiftID.String()] = *b
	}

	for _, a := range child.Assignments {
		if a.IsLocked {
			continue
		}
		if o.rng.Float64() >= 0.5 {
			continue
		}
		if b, ok := empBySlot[a.Date+"/"+a.ShiftID.String()]; ok && !b.IsLocked {
			a.EmployeeID = b.EmployeeID
		}
	}

	return child
}

// mutate 单点变异：随机交换两条非锁定分配的员工
func (o *Optimizer) mutate(s *Solution) {
	var movable []int
	for i, a := range s.Assignments {
		if !a.IsLocked {
			movable = append(movable, i)
		}
	}
	if len(movable) < 2 {
		return
	}

	i := movable[o.rng.Intn(len(movable))]
	j := movable[o.rng.Intn(len(movable))]
	if i == j {
		return
	}

	s.Assignments[i].EmployeeID, s.Assignments[j].EmployeeID =
		s.Assignments[j].EmployeeID, s.Assignments[i].EmployeeID
}

// topByFitness 返回适应度最高的前n个方案
func topByFitness(population []*Solution, n int) []*Solution {
	if n > len(population) {
		n = len(population)
	}

	top := make([]*Solution, 0, n)
	taken := make(map[int]bool, n)

	for len(top) < n {
		bestIdx := -1
		for i, s := range population {
			if taken[i] {
				continue
			}
			if bestIdx == -1 || s.Fitness > population[bestIdx].Fitness {
				bestIdx = i
			}
		}
		taken[bestIdx] = true
		top = append(top, population[bestIdx])
	}
	return top
}
