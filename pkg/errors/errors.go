// Package errors 提供统一的错误处理框架
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code 错误码
type Code string

const (
	// 通用错误码
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL_ERROR"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeNotFound     Code = "NOT_FOUND"
	CodeTimeout      Code = "TIMEOUT"

	// 请求校验相关
	CodeEmptyEmployeeList Code = "EMPTY_EMPLOYEE_LIST"
	CodeEmptyShiftList    Code = "EMPTY_SHIFT_LIST"
	CodeInvalidDateRange  Code = "INVALID_DATE_RANGE"
	CodeDateRangeTooLong  Code = "DATE_RANGE_TOO_LONG"

	// 班次模式相关
	CodeInvalidPattern       Code = "INVALID_PATTERN"
	CodePatternLengthMismatch Code = "PATTERN_LENGTH_MISMATCH"
	CodePatternCycleOutOfRange Code = "PATTERN_CYCLE_OUT_OF_RANGE"
	CodePatternRunTooLong    Code = "PATTERN_RUN_TOO_LONG"
	CodePatternRestTooLow    Code = "PATTERN_REST_TOO_LOW"

	// 排班引擎相关
	CodeNoFeasibleSolution Code = "NO_FEASIBLE_SOLUTION"
	CodeScheduleConflict   Code = "SCHEDULE_CONFLICT"
)

// AppError 应用错误
type AppError struct {
	Code       Code                   `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	HTTPStatus int                    `json:"-"`
	Cause      error                  `json:"-"`
	Fields     map[string]interface{} `json:"fields,omitempty"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 返回底层错误
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails 添加详细信息
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// WithCause 添加原因
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithField 添加字段
func (e *AppError) WithField(key string, value interface{}) *AppError {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	e.Fields[key] = value
	return e
}

// New 创建新错误
func New(code Code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

// Wrap 包装错误
func Wrap(err error, code Code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

// codeToHTTPStatus 错误码转HTTP状态码
func codeToHTTPStatus(code Code) int {
	switch code {
	case CodeInvalidInput, CodeEmptyEmployeeList, CodeEmptyShiftList,
		CodeInvalidDateRange, CodeDateRangeTooLong,
		CodeInvalidPattern, CodePatternLengthMismatch, CodePatternCycleOutOfRange,
		CodePatternRunTooLong, CodePatternRestTooLow:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeScheduleConflict:
		return http.StatusConflict
	case CodeTimeout:
		return http.StatusGatewayTimeout
	case CodeNoFeasibleSolution:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Is 检查错误是否为特定类型
func Is(err error, code Code) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCode 获取错误码
func GetCode(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// GetHTTPStatus 获取HTTP状态码
func GetHTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// 预定义错误
var (
	ErrInvalidInput       = New(CodeInvalidInput, "输入参数无效")
	ErrInternal           = New(CodeInternal, "内部错误")
	ErrTimeout            = New(CodeTimeout, "操作超时")
	ErrNoFeasibleSolution = New(CodeNoFeasibleSolution, "无可行解")
)

// EmptyEmployeeList 创建员工列表为空错误
func EmptyEmployeeList() *AppError {
	return New(CodeEmptyEmployeeList, "员工列表不能为空")
}

// EmptyShiftList 创建班次列表为空错误
func EmptyShiftList() *AppError {
	return New(CodeEmptyShiftList, "班次列表不能为空")
}

// InvalidDateRange 创建日期范围无效错误
func InvalidDateRange(startDate, endDate string) *AppError {
	return New(CodeInvalidDateRange,
		fmt.Sprintf("日期范围无效: 开始日期 %s 必须早于结束日期 %s", startDate, endDate))
}

// DateRangeTooLong 创建日期范围过长错误
func DateRangeTooLong(days, maxDays int) *AppError {
	return New(CodeDateRangeTooLong,
		fmt.Sprintf("日期范围 %d 天超过上限 %d 天", days, maxDays))
}

// PatternLengthMismatch 创建模式长度不匹配错误
func PatternLengthMismatch(cycleLength, sequenceLength int) *AppError {
	return New(CodePatternLengthMismatch,
		fmt.Sprintf("循环长度 %d 与序列长度 %d 不一致", cycleLength, sequenceLength))
}

// PatternCycleOutOfRange 创建循环长度越界错误
func PatternCycleOutOfRange(cycleLength int) *AppError {
	return New(CodePatternCycleOutOfRange,
		fmt.Sprintf("循环长度 %d 超出允许范围 [1, 42]", cycleLength))
}

// PatternRunTooLong 创建连续工作天数过长错误
func PatternRunTooLong(runLength int) *AppError {
	return New(CodePatternRunTooLong,
		fmt.Sprintf("模式中连续工作 %d 天，超过 6 天上限", runLength))
}

// PatternRestTooLow 创建休息比例不足错误
func PatternRestTooLow(offDays, cycleLength int) *AppError {
	return New(CodePatternRestTooLow,
		fmt.Sprintf("模式中休息日 %d 天不足循环长度 %d 的 1/7", offDays, cycleLength))
}
