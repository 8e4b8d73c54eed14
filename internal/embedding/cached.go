package embedding

import (
	"context"

	"talent-match-go/internal/logger"
	"talent-match-go/internal/storage"

	"github.com/cloudwego/eino/components/embedding"
)

// CachedEmbedder 在向量模型前挂一层Redis缓存。
// 缓存只是加速层：读写失败一律降级为直连后端，不影响正确性；
// 冻结模型下同一文本的向量恒定，缓存不会引入漂移。
type CachedEmbedder struct {
	backend embedding.Embedder
	redis   *storage.Redis
	model   string // 缓存键中的模型标识
}

var _ embedding.Embedder = (*CachedEmbedder)(nil)

// NewCachedEmbedder 创建带缓存的向量化客户端。
func NewCachedEmbedder(backend embedding.Embedder, redis *storage.Redis, model string) *CachedEmbedder {
	return &CachedEmbedder{backend: backend, redis: redis, model: model}
}

// EmbedStrings 先查缓存，未命中的文本批量请求后端并回填。
func (c *CachedEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error) {
	if c.redis == nil {
		return c.backend.EmbedStrings(ctx, texts, opts...)
	}

	out := make([][]float64, len(texts))
	var missing []string
	var missingIdx []int

	for i, text := range texts {
		vector, err := c.redis.GetEmbedding(ctx, c.model, text)
		if err == nil {
			out[i] = vector
			continue
		}
		if err != storage.ErrNotFound {
			logger.Warn().Err(err).Msg("读取向量缓存失败，降级为直连后端")
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) == 0 {
		return out, nil
	}

	vectors, err := c.backend.EmbedStrings(ctx, missing, opts...)
	if err != nil {
		return nil, err
	}

	for j, vector := range vectors {
		out[missingIdx[j]] = vector
		if err := c.redis.SetEmbedding(ctx, c.model, missing[j], vector); err != nil {
			logger.Warn().Err(err).Msg("回填向量缓存失败")
		}
	}
	return out, nil
}
