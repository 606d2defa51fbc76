package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"jenga-prompts-api/internal/application/enhance"
	"jenga-prompts-api/internal/domain/entity"
	"jenga-prompts-api/internal/interfaces/http/dto"
	apperrors "jenga-prompts-api/pkg/errors"
)

// PromptHandler 提示词增强处理器
type PromptHandler struct {
	svc        *enhance.Service
	llm        CredentialChecker
	service    string
	production bool
}

func NewPromptHandler(svc *enhance.Service, llm CredentialChecker, serviceName string, production bool) *PromptHandler {
	return &PromptHandler{svc: svc, llm: llm, service: serviceName, production: production}
}

// Enhance 非流式增强
// @Summary 增强提示词
// @Tags Prompts
// @Accept json
// @Produce json
// @Param body body dto.EnhanceRequest true "增强请求"
// @Success 200 {object} enhance.Response
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/prompts/enhance [post]
func (h *PromptHandler) Enhance(c *gin.Context) {
	var req dto.EnhanceRequest
	if !bindJSON(c, &req, h.production) {
		return
	}

	resp, err := h.svc.Enhance(c.Request.Context(), req.ToEntity())
	if err != nil {
		fail(c, err, h.production)
		return
	}
	dto.JSON(c, resp)
}

// Transform 将提示词适配到目标模型
// @Router /v1/prompts/transform [post]
func (h *PromptHandler) Transform(c *gin.Context) {
	var req dto.TransformRequest
	if !bindJSON(c, &req, h.production) {
		return
	}

	out, err := h.svc.Transform(c.Request.Context(), req.ToArgs())
	if err != nil {
		fail(c, err, h.production)
		return
	}
	dto.JSON(c, out)
}

// Validate 参考性校验，始终返回 200
// @Router /v1/prompts/validate [post]
func (h *PromptHandler) Validate(c *gin.Context) {
	var req dto.ValidateRequest
	if !bindJSON(c, &req, h.production) {
		return
	}
	dto.JSON(c, h.svc.Validate(req.Prompt, req.ModelKey, entity.ParseMode(req.Mode)))
}

// Models 列出模态下的目标模型
// @Router /v1/models [get]
func (h *PromptHandler) Models(c *gin.Context) {
	raw := c.DefaultQuery("mode", string(entity.ModeImage))
	mode := entity.ParseMode(raw)
	if mode == entity.ModeUnknown {
		fail(c, apperrors.ErrInvalidParam.WithDetail("unknown mode: "+raw), h.production)
		return
	}
	dto.JSON(c, dto.ModelListResponse{
		Mode:   string(mode),
		Models: dto.ToModelResponses(h.svc.Models(mode)),
	})
}

// Status AI 代理就绪状态；未配置凭证时返回 500
// @Router /v1/status [get]
func (h *PromptHandler) Status(c *gin.Context) {
	if !h.llm.Configured("") {
		fail(c, apperrors.ErrMissingAPIKey, h.production)
		return
	}
	provider, model := h.llm.Describe("")
	dto.JSON(c, gin.H{
		"status":    "ready",
		"service":   h.service,
		"provider":  provider,
		"model":     model,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"endpoints": gin.H{
			"enhance":       "POST /v1/prompts/enhance",
			"enhanceStream": "POST /v1/prompts/enhance/stream",
			"transform":     "POST /v1/prompts/transform",
			"validate":      "POST /v1/prompts/validate",
			"models":        "GET /v1/models?mode={mode}",
		},
	})
}
