package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"jenga-prompts-api/internal/application/enhance"
	"jenga-prompts-api/internal/interfaces/http/dto"
	apperrors "jenga-prompts-api/pkg/errors"
	"jenga-prompts-api/pkg/logger"
)

// StreamHandler 流式响应处理器
type StreamHandler struct {
	svc        *enhance.Service
	production bool
}

// NewStreamHandler 创建流式响应处理器
func NewStreamHandler(svc *enhance.Service, production bool) *StreamHandler {
	return &StreamHandler{svc: svc, production: production}
}

// EnhanceStream 流式增强提示词
// @Summary 流式增强提示词
// @Description 以 text/plain 分块返回模型输出；开始写出后出错时追加错误标记
// @Tags Prompts
// @Accept json
// @Produce plain
// @Param body body dto.EnhanceRequest true "增强请求"
// @Success 200 "chunked text"
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/prompts/enhance/stream [post]
func (h *StreamHandler) EnhanceStream(c *gin.Context) {
	var req dto.EnhanceRequest
	if !bindJSON(c, &req, h.production) {
		return
	}

	w := c.Writer
	started := false
	start := func() {
		started = true
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)
	}

	ctx := c.Request.Context()
	_, err := h.svc.EnhanceStream(ctx, req.ToEntity(), enhance.StreamCallbacks{
		OnChunk: func(chunk string) error {
			if !started {
				start()
			}
			if _, err := io.WriteString(w, chunk); err != nil {
				return err
			}
			w.Flush()
			return nil
		},
	})

	switch {
	case err != nil && !started:
		fail(c, err, h.production)
	case err != nil:
		// 状态码已发送，只能在正文末尾追加错误标记
		appErr := apperrors.AsAppError(err)
		logger.Warn(ctx, "stream aborted after first chunk", "code", string(appErr.Code), "error", err.Error())
		_, _ = io.WriteString(w, "\n\nError: "+appErr.Message)
		w.Flush()
	case !started:
		start()
		w.Flush()
	}
}
