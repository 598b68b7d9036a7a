/*
 * @module api/middleware/webhook_auth
 * @description Webhook共享密钥鉴权中间件，校验合作方回调携带的token查询参数
 * @architecture 中间件模式 - HTTP请求拦截和验证
 * @documentReference ai_docs/clientbase_pipeline_design.md
 * @stateFlow token提取 -> 常数时间比较（或bcrypt散列校验）-> 下一个处理器
 * @rules 明文密钥用常数时间比较；以$2开头的密钥按bcrypt散列校验；密钥未配置时拒绝所有请求并告警
 * @dependencies net/http, crypto/subtle, golang.org/x/crypto/bcrypt
 * @refs api/routes.go
 */

package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"golang.org/x/crypto/bcrypt"
)

// WebhookAuthMiddleware Webhook共享密钥鉴权中间件
type WebhookAuthMiddleware struct {
	secret string
}

// NewWebhookAuthMiddleware 创建Webhook鉴权中间件
// secret可以是明文共享密钥，也可以是bcrypt散列（以$2开头）
func NewWebhookAuthMiddleware(secret string) *WebhookAuthMiddleware {
	if secret == "" {
		slog.Warn("WEBHOOK_TOKEN未配置，所有webhook请求将被拒绝")
	}
	return &WebhookAuthMiddleware{secret: secret}
}

// Handler 鉴权处理器
func (m *WebhookAuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if !m.verify(token) {
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, map[string]string{"error": "token无效"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// verify 校验回调token
func (m *WebhookAuthMiddleware) verify(token string) bool {
	if m.secret == "" || token == "" {
		return false
	}
	if strings.HasPrefix(m.secret, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(m.secret), []byte(token)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(m.secret), []byte(token)) == 1
}
