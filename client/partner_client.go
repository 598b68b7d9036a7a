/*
 * @module client/partner_client
 * @description 合作方API客户端，负责客户端凭证令牌交换（令牌经响应头返回）、报表生成触发和报表文件下载
 * @architecture 客户端架构 - REST API客户端
 * @documentReference ai_docs/clientbase_pipeline_design.md
 * @stateFlow 令牌缓存查询 -> 凭证交换 -> 业务调用 -> 响应处理
 * @rules 令牌在access_token响应头而不是响应体中，调用方只读头部；下载URL是预签名地址，直接GET
 * @dependencies net/http, clientbase-service/client令牌缓存
 * @refs token_cache.go, service/pipeline/pipeline.go
 */

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// 令牌缓存键前缀与缓存时长（合作方令牌有效期1小时，留出刷新余量）
const (
	tokenCachePrefix = "partner:token:"
	tokenCacheTTL    = 50 * time.Minute
)

// PartnerConfig 合作方API连接配置
type PartnerConfig struct {
	BaseURL      string `json:"base_url"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// PartnerClient 合作方API客户端
type PartnerClient struct {
	config     PartnerConfig
	httpClient *http.Client
	tokens     TokenCache
}

// NewPartnerClient 创建合作方API客户端
func NewPartnerClient(config PartnerConfig, tokens TokenCache) *PartnerClient {
	if tokens == nil {
		tokens = NewMemoryTokenCache()
	}
	return &PartnerClient{
		config: PartnerConfig{
			BaseURL:      strings.TrimSuffix(config.BaseURL, "/"),
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
		},
		httpClient: &http.Client{Timeout: 30 * time.Second},
		tokens:     tokens,
	}
}

// Token 获取访问令牌，优先走缓存
// 合作方把令牌放在access_token响应头中返回，响应体不包含令牌
func (c *PartnerClient) Token(ctx context.Context) (string, error) {
	cacheKey := tokenCachePrefix + c.config.ClientID
	if token, ok := c.tokens.Get(ctx, cacheKey); ok {
		return token, nil
	}

	tokenURL := c.config.BaseURL + "/oauth2/accesstoken?grant_type=client_credentials"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, nil)
	if err != nil {
		return "", fmt.Errorf("构建令牌请求失败: %w", err)
	}
	req.SetBasicAuth(c.config.ClientID, c.config.ClientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("令牌交换请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("令牌交换返回状态 %d: %s", resp.StatusCode, string(body))
	}

	token := resp.Header.Get("access_token")
	if token == "" {
		return "", fmt.Errorf("令牌交换响应头中没有access_token")
	}

	c.tokens.Set(ctx, cacheKey, token, tokenCacheTTL)
	return token, nil
}

// RequestReport 触发合作方生成指定类型的报表，结果经webhook异步投递
func (c *PartnerClient) RequestReport(ctx context.Context, reportType, referenceDate string) error {
	token, err := c.Token(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]string{"referenceDate": referenceDate})
	if err != nil {
		return fmt.Errorf("报表请求体编码失败: %w", err)
	}

	requestURL := fmt.Sprintf("%s/reports/%s/request", c.config.BaseURL, reportType)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("构建报表请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-SecurityToken", token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("报表请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("报表请求返回状态 %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Download 下载webhook通知中携带的预签名报表文件
func (c *PartnerClient) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("构建下载请求失败: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("文件下载请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("文件下载返回状态 %d", resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取下载内容失败: %w", err)
	}
	return payload, nil
}
