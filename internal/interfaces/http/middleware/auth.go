// Package middleware 提供 HTTP 中间件
package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"

	"jenga-prompts-api/internal/interfaces/http/dto"
	apperrors "jenga-prompts-api/pkg/errors"
)

const clientKeyCtxKey = "client_key"

// APIKeyAuth 共享密钥认证：Authorization 头为原始密钥或 "Bearer <key>"。
// 在解析请求体之前执行；secret 为空时不做校验。
func APIKeyAuth(secret string) gin.HandlerFunc {
	expected := []byte(secret)

	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		key := extractKey(c.GetHeader("Authorization"))
		if key == "" || subtle.ConstantTimeCompare([]byte(key), expected) != 1 {
			dto.AbortWithAppError(c, apperrors.ErrUnauthorized, false)
			return
		}

		c.Set(clientKeyCtxKey, key)
		c.Next()
	}
}

func extractKey(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}
