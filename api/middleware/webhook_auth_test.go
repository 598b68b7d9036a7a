/*
 * @module api/middleware/webhook_auth_test
 * @description Webhook鉴权中间件单元测试：明文密钥、bcrypt散列密钥与缺省拒绝
 * @architecture 测试层
 * @dependencies testing, net/http/httptest, stretchr/testify, golang.org/x/crypto/bcrypt
 */

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func authProbe(t *testing.T, secret, token string) int {
	t.Helper()

	passed := false
	handler := NewWebhookAuthMiddleware(secret).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		passed = true
		w.WriteHeader(http.StatusOK)
	}))

	url := "/webhook/clientbase"
	if token != "" {
		url += "?token=" + token
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, url, nil))

	if recorder.Code == http.StatusOK {
		assert.True(t, passed)
	} else {
		assert.False(t, passed)
	}
	return recorder.Code
}

// TestWebhookAuthPlaintext 测试明文共享密钥校验
func TestWebhookAuthPlaintext(t *testing.T) {
	assert.Equal(t, http.StatusOK, authProbe(t, "segredo", "segredo"))
	assert.Equal(t, http.StatusForbidden, authProbe(t, "segredo", "errado"))
	assert.Equal(t, http.StatusForbidden, authProbe(t, "segredo", ""))
}

// TestWebhookAuthBcryptHash 测试以$2开头的bcrypt散列密钥
func TestWebhookAuthBcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("segredo"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, authProbe(t, string(hash), "segredo"))
	assert.Equal(t, http.StatusForbidden, authProbe(t, string(hash), "errado"))
}

// TestWebhookAuthEmptySecretRejectsAll 测试密钥未配置时拒绝所有请求
func TestWebhookAuthEmptySecretRejectsAll(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, authProbe(t, "", "qualquer"))
	assert.Equal(t, http.StatusForbidden, authProbe(t, "", ""))
}
