package pattern

import (
	"testing"

	"github.com/google/uuid"
	"github.com/lunban/lunban/pkg/errors"
	"github.com/lunban/lunban/pkg/model"
)

func TestValidate(t *testing.T) {
	day, off := model.ShiftDay, model.ShiftOff

	tests := []struct {
		name    string
		pattern *model.ShiftPattern
		code    errors.Code
	}{
		{
			name: "合法的五二模式",
			pattern: &model.ShiftPattern{
				CycleLengthDays: 7,
				Sequence:        []model.ShiftKind{day, day, day, day, day, off, off},
			},
			code: "",
		},
		{
			name: "循环长度43越界",
			pattern: &model.ShiftPattern{
				CycleLengthDays: 43,
				Sequence:        make([]model.ShiftKind, 43),
			},
			code: errors.CodePatternCycleOutOfRange,
		},
		{
			name: "循环长度为0越界",
			pattern: &model.ShiftPattern{
				CycleLengthDays: 0,
				Sequence:        nil,
			},
			code: errors.CodePatternCycleOutOfRange,
		},
		{
			name: "序列长度与循环长度不符",
			pattern: &model.ShiftPattern{
				CycleLengthDays: 7,
				Sequence:        []model.ShiftKind{day, day, off},
			},
			code: errors.CodePatternLengthMismatch,
		},
		{
			name: "连续工作7天",
			pattern: &model.ShiftPattern{
				CycleLengthDays: 8,
				Sequence:        []model.ShiftKind{day, day, day, day, day, day, day, off},
			},
			code: errors.CodePatternRunTooLong,
		},
		{
			name: "跨循环边界连续工作7天",
			pattern: &model.ShiftPattern{
				CycleLengthDays: 8,
				Sequence:        []model.ShiftKind{day, day, day, off, day, day, day, day},
			},
			code: errors.CodePatternRunTooLong,
		},
		{
			name: "全工作无休息",
			pattern: &model.ShiftPattern{
				CycleLengthDays: 7,
				Sequence:        []model.ShiftKind{day, day, day, day, day, day, day},
			},
			code: errors.CodePatternRunTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.pattern)
			if tt.code == "" {
				if err != nil {
					t.Errorf("Validate() = %v, expected nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() = nil, expected error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("Validate() code = %s, expected %s", got, tt.code)
			}
		})
	}
}

func TestBuiltinPatternsAreValid(t *testing.T) {
	m := NewManager()
	patterns := m.List()
	if len(patterns) == 0 {
		t.Fatal("内置模式库不应为空")
	}

	for _, p := range patterns {
		if err := Validate(p); err != nil {
			t.Errorf("内置模式 %s 未通过校验: %v", p.Name, err)
		}
	}
}

func TestManager_GetAndRegister(t *testing.T) {
	m := NewManager()

	if m.Get("five-two") == nil {
		t.Error("应能按名称获取内置模式 five-two")
	}
	if m.Get("不存在") != nil {
		t.Error("未注册的模式应返回 nil")
	}

	custom := &model.ShiftPattern{
		ID:              uuid.New(),
		Name:            "custom-three-one",
		CycleLengthDays: 4,
		Sequence: []model.ShiftKind{
			model.ShiftDay, model.ShiftDay, model.ShiftDay, model.ShiftOff,
		},
	}
	if err := m.Register(custom); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if m.Get("custom-three-one") == nil {
		t.Error("注册后应能获取自定义模式")
	}

	bad := &model.ShiftPattern{
		Name:            "bad",
		CycleLengthDays: 43,
		Sequence:        make([]model.ShiftKind, 43),
	}
	if err := m.Register(bad); err == nil {
		t.Error("非法模式注册应返回错误")
	}
	if m.Get("bad") != nil {
		t.Error("非法模式不应被登记")
	}
}

func patternFixture() ([]*model.Employee, []*model.Shift) {
	employees := []*model.Employee{
		{ID: uuid.New(), Name: "张三"},
		{ID: uuid.New(), Name: "李四"},
	}
	shifts := []*model.Shift{
		{ID: uuid.New(), Name: "白班", Kind: model.ShiftDay,
			StartTime: "09:00", EndTime: "17:00", DurationHours: 8, RequiredStaff: 1},
	}
	return employees, shifts
}

func TestGenerate(t *testing.T) {
	employees, shifts := patternFixture()
	m := NewManager()
	p := m.Get("five-two")

	dr := model.DateRange{StartDate: "2025-03-02", EndDate: "2025-03-08"}
	assignments, err := Generate(p, employees, shifts, dr)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	// 五二模式：7天内前5天工作，首个循环只有第一组当值
	if len(assignments) != 5 {
		t.Fatalf("应生成5条分配, got %d", len(assignments))
	}
	for _, a := range assignments {
		if a.EmployeeID != employees[0].ID {
			t.Error("首个循环应只有第一轮换组当值")
		}
		if a.ShiftID != shifts[0].ID {
			t.Error("分配应指向白班")
		}
	}
}

func TestGenerate_RotatesGroups(t *testing.T) {
	employees, shifts := patternFixture()
	m := NewManager()
	p := m.Get("five-two")

	// 两个完整循环：第二周应轮换到第二组
	dr := model.DateRange{StartDate: "2025-03-02", EndDate: "2025-03-15"}
	assignments, err := Generate(p, employees, shifts, dr)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	firstWeek, secondWeek := 0, 0
	for _, a := range assignments {
		switch a.EmployeeID {
		case employees[0].ID:
			firstWeek++
		case employees[1].ID:
			secondWeek++
		}
	}
	if firstWeek != 5 || secondWeek != 5 {
		t.Errorf("两组各应当值5天, got %d / %d", firstWeek, secondWeek)
	}
}

func TestGenerate_SkipsUnavailable(t *testing.T) {
	employees, shifts := patternFixture()
	employees[0].Availability = &model.EmployeeAvailability{
		WeekdayMask:      [7]bool{true, true, true, true, true, true, true},
		UnavailableDates: []string{"2025-03-03"},
	}

	m := NewManager()
	dr := model.DateRange{StartDate: "2025-03-02", EndDate: "2025-03-08"}
	assignments, err := Generate(m.Get("five-two"), employees, shifts, dr)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(assignments) != 4 {
		t.Errorf("不可用日期应被跳过, 应生成4条分配, got %d", len(assignments))
	}
	for _, a := range assignments {
		if a.Date == "2025-03-03" {
			t.Error("2025-03-03 不应有分配")
		}
	}
}

func TestGenerate_InvalidPattern(t *testing.T) {
	employees, shifts := patternFixture()
	bad := &model.ShiftPattern{
		CycleLengthDays: 43,
		Sequence:        make([]model.ShiftKind, 43),
	}

	dr := model.DateRange{StartDate: "2025-03-02", EndDate: "2025-03-08"}
	if _, err := Generate(bad, employees, shifts, dr); err == nil {
		t.Error("非法模式应返回错误")
	}
}

func TestRecommend(t *testing.T) {
	m := NewManager()

	recs := m.Recommend(3, map[model.ShiftKind]int{model.ShiftDay: 1}, nil)
	if len(recs) == 0 {
		t.Fatal("3人规模应有可行的推荐")
	}

	// 得分降序
	for i := 1; i < len(recs); i++ {
		if recs[i].Score > recs[i-1].Score {
			t.Error("推荐应按得分降序排列")
		}
	}

	// 人数不足时无推荐
	if got := m.Recommend(0, map[model.ShiftKind]int{model.ShiftDay: 1}, nil); len(got) != 0 {
		t.Errorf("0人规模不应有推荐, got %d", len(got))
	}
}

func TestRecommend_NightAversion(t *testing.T) {
	m := NewManager()

	avoidNight := []*model.EmployeePreferences{
		{AvoidShiftKinds: []model.ShiftKind{model.ShiftNight}},
		{AvoidShiftKinds: []model.ShiftKind{model.ShiftNight}},
		{},
	}

	withPrefs := m.Recommend(10, nil, avoidNight)
	without := m.Recommend(10, nil, nil)

	scoreOf := func(recs []Recommendation, name string) (float64, bool) {
		for _, r := range recs {
			if r.Pattern.Name == name {
				return r.Score, true
			}
		}
		return 0, false
	}

	before, ok1 := scoreOf(without, "night-rotation")
	after, ok2 := scoreOf(withPrefs, "night-rotation")
	if !ok1 || !ok2 {
		t.Fatal("night-rotation 模式应出现在两组推荐中")
	}
	if after >= before {
		t.Errorf("多数人回避夜班时 night-rotation 得分应降低: %f -> %f", before, after)
	}
}
