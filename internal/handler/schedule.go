// Package handler 提供HTTP请求处理器
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/lunban/lunban/internal/metrics"
	"github.com/lunban/lunban/pkg/errors"
	"github.com/lunban/lunban/pkg/model"
	"github.com/lunban/lunban/pkg/scheduler"
)

// ScheduleHandler 排班处理器
type ScheduleHandler struct {
	scheduler *scheduler.Scheduler
}

// NewScheduleHandler 创建排班处理器
func NewScheduleHandler(s *scheduler.Scheduler) *ScheduleHandler {
	return &ScheduleHandler{scheduler: s}
}

// UpdateRequest 排班更新请求
type UpdateRequest struct {
	Request  *model.SchedulingRequest    `json:"request"`
	Existing []*model.ScheduleAssignment `json:"existing"`
	Changes  *model.ScheduleChanges      `json:"changes,omitempty"`
}

// Create 创建排班
func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var req model.SchedulingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}

	start := time.Now()
	result, err := h.scheduler.CreateSchedule(&req)
	if err != nil {
		respondError(w, asAppError(err))
		return
	}

	goal := string(req.GoalOrDefault())
	metrics.RecordScheduleGeneration(goal, result.Success, result.Iterations, time.Since(start))
	metrics.RecordScheduleQuality(req.DepartmentID.String(),
		result.Score.Total, model.CountHardViolations(result.Violations))

	respondJSON(w, http.StatusOK, result)
}

// Update 更新排班
func (h *ScheduleHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}
	if req.Request == nil {
		respondError(w, errors.New(errors.CodeInvalidInput, "request 字段不能为空"))
		return
	}

	start := time.Now()
	result, err := h.scheduler.UpdateSchedule(req.Request, req.Existing, req.Changes)
	if err != nil {
		respondError(w, asAppError(err))
		return
	}

	goal := string(req.Request.GoalOrDefault())
	metrics.RecordScheduleGeneration(goal, result.Success, result.Iterations, time.Since(start))

	respondJSON(w, http.StatusOK, result)
}

// asAppError 把任意错误归一为AppError
func asAppError(err error) *errors.AppError {
	if appErr, ok := err.(*errors.AppError); ok {
		return appErr
	}
	return errors.Wrap(err, errors.CodeInternal, "排班失败")
}

// respondJSON 返回JSON响应
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError 返回错误响应
func respondError(w http.ResponseWriter, err *errors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.HTTPStatus)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   true,
		"code":    err.Code,
		"message": err.Message,
		"details": err.Details,
	})
}
