package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"jenga-prompts-api/internal/infrastructure/persistence/redis"
)

// CredentialChecker 报告 LLM 提供商凭证是否就绪
type CredentialChecker interface {
	Configured(name string) bool
	Describe(name string) (provider, model string)
}

// HealthHandler 健康检查处理器
type HealthHandler struct {
	version   string
	startedAt time.Time
	redis     *redis.Client
	llm       CredentialChecker
}

// NewHealthHandler redisClient 为 nil 表示未启用 Redis
func NewHealthHandler(version string, redisClient *redis.Client, llm CredentialChecker) *HealthHandler {
	return &HealthHandler{
		version:   version,
		startedAt: time.Now(),
		redis:     redisClient,
		llm:       llm,
	}
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version,omitempty"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Timestamp     string  `json:"timestamp"`
}

type readinessCheck struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
}

type readinessResponse struct {
	Status string                     `json:"status"`
	Checks map[string]*readinessCheck `json:"checks,omitempty"`
}

// Health 健康检查接口
// @Summary 健康检查
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.health())
}

// Live 存活检查接口
// @Router /live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, h.health())
}

func (h *HealthHandler) health() HealthResponse {
	now := time.Now()
	return HealthResponse{
		Status:        "ok",
		Version:       h.version,
		UptimeSeconds: now.Sub(h.startedAt).Seconds(),
		Timestamp:     now.UTC().Format(time.RFC3339),
	}
}

// Ready 就绪检查接口：LLM 凭证必需，Redis 仅在启用时检查
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]*readinessCheck{
		"llm":   {Status: "ok"},
		"redis": {Status: "disabled"},
	}
	ready := true

	if h.llm == nil || !h.llm.Configured("") {
		checks["llm"] = &readinessCheck{Status: "missing", Error: "AI service API key not configured"}
		ready = false
	}

	if h.redis != nil {
		start := time.Now()
		err := h.redis.HealthCheck(ctx)
		checks["redis"] = &readinessCheck{Status: "ok", LatencyMs: time.Since(start).Milliseconds()}
		if err != nil {
			checks["redis"].Status = "error"
			checks["redis"].Error = err.Error()
			ready = false
		}
	}

	resp := readinessResponse{Status: "ok", Checks: checks}
	if !ready {
		resp.Status = "not_ready"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
