package constants

import "time"

const (
	// ServiceName 服务名，用于tracer与日志标识
	ServiceName = "talent-match-go"

	// APIPrefix HTTP路由前缀
	APIPrefix = "/api/v1"

	// DefaultEmbeddingCacheTTL 向量缓存的默认过期时间
	DefaultEmbeddingCacheTTL = 72 * time.Hour

	// DefaultMatchScoreCacheTTL 匹配分数缓存的默认过期时间
	DefaultMatchScoreCacheTTL = 24 * time.Hour
)
