/*
 * @module client/token_cache
 * @description 令牌缓存，优先使用Redis在多副本间共享合作方令牌，Redis不可用时回退进程内缓存
 * @architecture 客户端架构 - 缓存适配
 * @documentReference ai_docs/clientbase_pipeline_design.md
 * @stateFlow 缓存查询 -> 命中返回 / 未命中交换后写入
 * @rules 缓存故障一律吸收：读失败视为未命中，写失败仅记录日志
 * @dependencies github.com/go-redis/redis/v8
 * @refs partner_client.go
 */

package client

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// TokenCache 令牌缓存接口
type TokenCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
}

// RedisTokenCache Redis令牌缓存
type RedisTokenCache struct {
	client *redis.Client
}

// NewRedisTokenCache 创建Redis令牌缓存并验证连通性
func NewRedisTokenCache(addr, password string, db int) (*RedisTokenCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis连接失败: %w", err)
	}

	slog.Info("Redis令牌缓存初始化成功", "redis_addr", addr)
	return &RedisTokenCache{client: client}, nil
}

// Get 读取缓存令牌，任何读取故障都视为未命中
func (c *RedisTokenCache) Get(ctx context.Context, key string) (string, bool) {
	value, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("令牌缓存读取失败", "key", key, "error", err)
		}
		return "", false
	}
	return value, true
}

// Set 写入缓存令牌，写入故障只记录日志
func (c *RedisTokenCache) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		slog.Warn("令牌缓存写入失败", "key", key, "error", err)
	}
}

// MemoryTokenCache 进程内令牌缓存，Redis缺席时的回退实现
type MemoryTokenCache struct {
	mu      sync.RWMutex
	entries map[string]memoryToken
}

type memoryToken struct {
	value     string
	expiresAt time.Time
}

// NewMemoryTokenCache 创建进程内令牌缓存
func NewMemoryTokenCache() *MemoryTokenCache {
	return &MemoryTokenCache{entries: make(map[string]memoryToken)}
}

// Get 读取未过期的缓存令牌
func (c *MemoryTokenCache) Get(_ context.Context, key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return "", false
	}
	return entry.value, true
}

// Set 写入缓存令牌
func (c *MemoryTokenCache) Set(_ context.Context, key, value string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryToken{value: value, expiresAt: time.Now().Add(ttl)}
}
