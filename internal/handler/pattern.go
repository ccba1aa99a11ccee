// Package handler 提供HTTP请求处理器
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/lunban/lunban/pkg/errors"
	"github.com/lunban/lunban/pkg/model"
	"github.com/lunban/lunban/pkg/scheduler/pattern"
)

// PatternHandler 班次模式处理器
type PatternHandler struct {
	manager *pattern.Manager
}

// NewPatternHandler 创建班次模式处理器
func NewPatternHandler(m *pattern.Manager) *PatternHandler {
	return &PatternHandler{manager: m}
}

// List 列出内置模式
func (h *PatternHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持GET方法"))
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"patterns": h.manager.List(),
	})
}

// ValidateResponse 模式校验响应
type ValidateResponse struct {
	Valid   bool        `json:"valid"`
	Code    errors.Code `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Validate 校验班次模式
func (h *PatternHandler) Validate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var p model.ShiftPattern
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}

	if err := pattern.Validate(&p); err != nil {
		appErr := asAppError(err)
		respondJSON(w, http.StatusOK, ValidateResponse{
			Valid:   false,
			Code:    appErr.Code,
			Message: appErr.Message,
		})
		return
	}

	respondJSON(w, http.StatusOK, ValidateResponse{Valid: true})
}

// Recommend 推荐班次模式
// 查询参数: employees=人数, day/evening/night=各班次最低人数
func (h *PatternHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持GET方法"))
		return
	}

	employeeCount, err := strconv.Atoi(r.URL.Query().Get("employees"))
	if err != nil || employeeCount < 1 {
		respondError(w, errors.New(errors.CodeInvalidInput, "employees 参数必须为正整数"))
		return
	}

	coverage := make(map[model.ShiftKind]int)
	for _, kind := range []model.ShiftKind{model.ShiftDay, model.ShiftEvening, model.ShiftNight} {
		if v := r.URL.Query().Get(string(kind)); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				coverage[kind] = n
			}
		}
	}

	recs := h.manager.Recommend(employeeCount, coverage, nil)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"recommendations": recs,
	})
}
