package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/lunban/lunban/pkg/model"
	"github.com/lunban/lunban/pkg/scheduler"
)

func newHandlers() (*ScheduleHandler, *PatternHandler) {
	s := scheduler.NewDefault()
	return NewScheduleHandler(s), NewPatternHandler(s.Patterns())
}

func postJSON(t *testing.T, handlerFunc http.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(data))
	rec := httptest.NewRecorder()
	handlerFunc(rec, req)
	return rec
}

func TestScheduleHandler_Create(t *testing.T) {
	h, _ := newHandlers()

	body := &model.SchedulingRequest{
		DepartmentID: uuid.New(),
		DateRange:    model.DateRange{StartDate: "2025-03-03", EndDate: "2025-03-05"},
		Employees: []*model.Employee{
			{ID: uuid.New(), Name: "张三"},
			{ID: uuid.New(), Name: "李四"},
		},
		Shifts: []*model.Shift{
			{ID: uuid.New(), Name: "白班", Kind: model.ShiftDay,
				StartTime: "09:00", EndTime: "17:00", DurationHours: 8, RequiredStaff: 1},
		},
	}

	rec := postJSON(t, h.Create, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200, body: %s", rec.Code, rec.Body.String())
	}

	var result model.SchedulingResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(result.Assignments) == 0 {
		t.Error("响应应包含分配")
	}
}

func TestScheduleHandler_Create_ValidationError(t *testing.T) {
	h, _ := newHandlers()

	body := &model.SchedulingRequest{
		DateRange: model.DateRange{StartDate: "2025-03-03", EndDate: "2025-03-05"},
		// 员工列表为空
		Shifts: []*model.Shift{
			{ID: uuid.New(), Name: "白班", Kind: model.ShiftDay, RequiredStaff: 1},
		},
	}

	rec := postJSON(t, h.Create, body)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, expected 400", rec.Code)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if resp["code"] != "EMPTY_EMPLOYEE_LIST" {
		t.Errorf("错误码 = %v, expected EMPTY_EMPLOYEE_LIST", resp["code"])
	}
}

func TestScheduleHandler_Create_MethodNotAllowed(t *testing.T) {
	h, _ := newHandlers()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("GET 请求 status = %d, expected 400", rec.Code)
	}
}

func TestPatternHandler_Validate(t *testing.T) {
	_, h := newHandlers()

	valid := &model.ShiftPattern{
		CycleLengthDays: 7,
		Sequence: []model.ShiftKind{
			model.ShiftDay, model.ShiftDay, model.ShiftDay, model.ShiftDay,
			model.ShiftDay, model.ShiftOff, model.ShiftOff,
		},
	}
	rec := postJSON(t, h.Validate, valid)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", rec.Code)
	}

	var resp ValidateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !resp.Valid {
		t.Errorf("合法模式应通过校验: %s", resp.Message)
	}

	invalid := &model.ShiftPattern{
		CycleLengthDays: 43,
		Sequence:        make([]model.ShiftKind, 43),
	}
	rec = postJSON(t, h.Validate, invalid)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if resp.Valid {
		t.Error("循环长度43应被拒绝")
	}
}

func TestPatternHandler_Recommend(t *testing.T) {
	_, h := newHandlers()

	req := httptest.NewRequest(http.MethodGet, "/?employees=5&day=1", nil)
	rec := httptest.NewRecorder()
	h.Recommend(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", rec.Code)
	}

	var resp map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if _, ok := resp["recommendations"]; !ok {
		t.Error("响应应包含 recommendations 字段")
	}

	// 缺少 employees 参数
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rec = httptest.NewRecorder()
	h.Recommend(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("缺参数 status = %d, expected 400", rec.Code)
	}
}
