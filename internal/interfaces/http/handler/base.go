// Package handler 提供 HTTP 请求处理器
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jenga-prompts-api/internal/interfaces/http/dto"
	apperrors "jenga-prompts-api/pkg/errors"
	"jenga-prompts-api/pkg/logger"
)

// fail 统一错误出口；生产环境不输出内部详情
func fail(c *gin.Context, err error, production bool) {
	appErr := apperrors.AsAppError(err)
	if appErr.Code == apperrors.CodeUnknown {
		appErr = apperrors.ErrInternalError.WithError(err)
	}

	ctx := c.Request.Context()
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.Error(ctx, "request failed", err,
			"path", c.Request.URL.Path,
			"code", string(appErr.Code),
		)
	} else {
		logger.Warn(ctx, "request rejected",
			"path", c.Request.URL.Path,
			"code", string(appErr.Code),
			"message", appErr.Message,
		)
	}
	dto.AbortWithAppError(c, appErr, !production)
}

// bindJSON 解析请求体；超出大小限制与格式错误均按参数错误处理
func bindJSON(c *gin.Context, obj any, production bool) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			fail(c, apperrors.ErrInvalidParam.WithDetail("request body too large"), production)
			return false
		}
		fail(c, apperrors.ErrInvalidParam.WithDetail(err.Error()), production)
		return false
	}
	return true
}
