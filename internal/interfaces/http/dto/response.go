// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "jenga-prompts-api/pkg/errors"
)

// ErrorDetail 错误详情
type ErrorDetail struct {
	ErrorCode string `json:"error_code,omitempty"`
	Details   string `json:"details,omitempty"`
	// AvailableRoutes 仅在路由不存在时返回
	AvailableRoutes map[string]string `json:"availableRoutes,omitempty"`
}

// ErrorResponse 错误响应结构
type ErrorResponse struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Error   *ErrorDetail `json:"error,omitempty"`
	TraceID string       `json:"trace_id,omitempty"`
}

// JSON 直接返回业务对象（提示词接口不包裹统一响应结构）
func JSON(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Error 返回错误响应
func Error(c *gin.Context, httpCode int, message string) {
	c.JSON(httpCode, ErrorResponse{
		Code:    httpCode,
		Message: message,
		TraceID: c.GetString("trace_id"),
	})
}

// ErrorWithDetail 返回带详情的错误响应
func ErrorWithDetail(c *gin.Context, httpCode int, message string, detail *ErrorDetail) {
	c.JSON(httpCode, ErrorResponse{
		Code:    httpCode,
		Message: message,
		Error:   detail,
		TraceID: c.GetString("trace_id"),
	})
}

// AbortWithAppError 中止请求并返回应用错误；exposeDetail 为 false 时不输出内部详情
func AbortWithAppError(c *gin.Context, appErr *apperrors.AppError, exposeDetail bool) {
	c.AbortWithStatusJSON(appErr.HTTPStatus, newErrorResponse(c, appErr, exposeDetail))
}

// AbortWithRoutes 中止请求并在错误详情中附带可用路由列表
func AbortWithRoutes(c *gin.Context, appErr *apperrors.AppError, routes map[string]string) {
	resp := newErrorResponse(c, appErr, true)
	resp.Error.AvailableRoutes = routes
	c.AbortWithStatusJSON(appErr.HTTPStatus, resp)
}

func newErrorResponse(c *gin.Context, appErr *apperrors.AppError, exposeDetail bool) ErrorResponse {
	detail := &ErrorDetail{ErrorCode: string(appErr.Code)}
	if exposeDetail {
		detail.Details = appErr.Detail
		if detail.Details == "" && appErr.Err != nil {
			detail.Details = appErr.Err.Error()
		}
	}
	return ErrorResponse{
		Code:    appErr.HTTPStatus,
		Message: appErr.Message,
		Error:   detail,
		TraceID: c.GetString("trace_id"),
	}
}

// BadRequest 返回 400 错误
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized 返回 401 错误
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// NotFound 返回 404 错误
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}
