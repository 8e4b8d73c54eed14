package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"talent-match-go/internal/config"
	"talent-match-go/internal/constants"
	"talent-match-go/internal/tracing"
	"talent-match-go/internal/types"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// ErrNotFound 键不存在时返回，包装底层的 redis.Nil 以便上层解耦。
var ErrNotFound = redis.Nil

var redisTracer = otel.Tracer(constants.ServiceName + "/storage/redis")

// Redis 键值存储，承载向量缓存与分数缓存。
type Redis struct {
	Client *redis.Client
	cfg    *config.RedisConfig
}

// NewRedis 创建Redis客户端并挂载OpenTelemetry追踪钩子。
func NewRedis(cfg *config.RedisConfig) (*Redis, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	opt := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.PoolSize > 0 {
		opt.PoolSize = cfg.PoolSize
	}
	if cfg.MinIdleConns > 0 {
		opt.MinIdleConns = cfg.MinIdleConns
	}
	if cfg.DialTimeoutSeconds > 0 {
		opt.DialTimeout = time.Duration(cfg.DialTimeoutSeconds) * time.Second
	}
	if cfg.ReadTimeoutSeconds > 0 {
		opt.ReadTimeout = time.Duration(cfg.ReadTimeoutSeconds) * time.Second
	}
	if cfg.WriteTimeoutSeconds > 0 {
		opt.WriteTimeout = time.Duration(cfg.WriteTimeoutSeconds) * time.Second
	}

	client := redis.NewClient(opt)
	if err := redisotel.InstrumentTracing(client); err != nil {
		return nil, fmt.Errorf("挂载Redis追踪钩子失败: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("连接Redis失败 (%s): %w", cfg.Address, err)
	}

	return &Redis{Client: client, cfg: cfg}, nil
}

// EmbeddingCacheTTL 返回配置的向量缓存过期时间。
func (r *Redis) EmbeddingCacheTTL() time.Duration {
	if r.cfg.EmbeddingCacheTTLHours > 0 {
		return time.Duration(r.cfg.EmbeddingCacheTTLHours) * time.Hour
	}
	return constants.DefaultEmbeddingCacheTTL
}

// HashText 计算文本的sha256摘要，作为向量缓存键的一部分。
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// GetEmbedding 读取缓存的向量；未命中返回 ErrNotFound。
func (r *Redis) GetEmbedding(ctx context.Context, model, text string) ([]float64, error) {
	key := fmt.Sprintf(constants.KeyEmbeddingVector, model, HashText(text))

	ctx, span := redisTracer.Start(ctx, "redis.GetEmbedding")
	defer span.End()
	span.SetAttributes(attribute.String("redis.key", key))

	data, err := r.Client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			tracing.RecordError(span, err, tracing.ErrorTypeRedis)
		}
		return nil, err
	}

	var vector []float64
	if err := json.Unmarshal(data, &vector); err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeRedis)
		return nil, fmt.Errorf("反序列化缓存向量失败: %w", err)
	}
	return vector, nil
}

// SetEmbedding 写入向量缓存。
func (r *Redis) SetEmbedding(ctx context.Context, model, text string, vector []float64) error {
	key := fmt.Sprintf(constants.KeyEmbeddingVector, model, HashText(text))

	ctx, span := redisTracer.Start(ctx, "redis.SetEmbedding")
	defer span.End()
	span.SetAttributes(attribute.String("redis.key", key))

	data, err := json.Marshal(vector)
	if err != nil {
		return fmt.Errorf("序列化向量失败: %w", err)
	}
	if err := r.Client.Set(ctx, key, data, r.EmbeddingCacheTTL()).Err(); err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeRedis)
		return fmt.Errorf("写入向量缓存失败: %w", err)
	}
	return nil
}

// GetMatchScore 读取候选人对某职位的最近一次打分缓存；未命中返回 ErrNotFound。
// 键为 candidateRef+position，模型冻结期内同一对打分结果可直接复用。
func (r *Redis) GetMatchScore(ctx context.Context, candidateRef, position string) (*types.MatchScore, error) {
	key := fmt.Sprintf(constants.KeyMatchScore, candidateRef, position)

	ctx, span := redisTracer.Start(ctx, "redis.GetMatchScore")
	defer span.End()
	span.SetAttributes(attribute.String("redis.key", key))

	data, err := r.Client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			tracing.RecordError(span, err, tracing.ErrorTypeRedis)
		}
		return nil, err
	}

	var score types.MatchScore
	if err := json.Unmarshal(data, &score); err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeRedis)
		return nil, fmt.Errorf("反序列化缓存分数失败: %w", err)
	}
	return &score, nil
}

// SetMatchScore 写入打分结果缓存。
func (r *Redis) SetMatchScore(ctx context.Context, candidateRef, position string, score *types.MatchScore) error {
	key := fmt.Sprintf(constants.KeyMatchScore, candidateRef, position)

	ctx, span := redisTracer.Start(ctx, "redis.SetMatchScore")
	defer span.End()
	span.SetAttributes(attribute.String("redis.key", key))

	data, err := json.Marshal(score)
	if err != nil {
		return fmt.Errorf("序列化分数失败: %w", err)
	}
	if err := r.Client.Set(ctx, key, data, constants.DefaultMatchScoreCacheTTL).Err(); err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeRedis)
		return fmt.Errorf("写入分数缓存失败: %w", err)
	}
	return nil
}

// Close 关闭客户端。
func (r *Redis) Close() error {
	return r.Client.Close()
}
