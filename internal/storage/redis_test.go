package storage

import (
	"fmt"
	"testing"
	"time"

	"talent-match-go/internal/config"
	"talent-match-go/internal/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashText(t *testing.T) {
	first := HashText("backend engineer profile")
	second := HashText("backend engineer profile")
	assert.Equal(t, first, second, "同一文本的摘要必须稳定")
	assert.Len(t, first, 64, "sha256十六进制摘要长度应为64")

	assert.NotEqual(t, first, HashText("different text"), "不同文本的摘要应不同")
}

func TestEmbeddingCacheTTL(t *testing.T) {
	r := &Redis{cfg: &config.RedisConfig{EmbeddingCacheTTLHours: 24}}
	assert.Equal(t, 24*time.Hour, r.EmbeddingCacheTTL())

	r = &Redis{cfg: &config.RedisConfig{}}
	assert.Equal(t, constants.DefaultEmbeddingCacheTTL, r.EmbeddingCacheTTL(), "未配置时应使用默认TTL")
}

func TestRedisKeyFormats(t *testing.T) {
	embKey := fmt.Sprintf(constants.KeyEmbeddingVector, "text-embedding-v3", HashText("profile"))
	assert.Equal(t, "app:embedding:vector:text-embedding-v3:"+HashText("profile"), embKey)

	scoreKey := fmt.Sprintf(constants.KeyMatchScore, "cand-42", "backend engineer")
	assert.Equal(t, "app:match:score:cand-42:backend engineer", scoreKey,
		"分数缓存键应遵循 app:{module}:{entity} 命名规范")
}

func TestNewRedisValidation(t *testing.T) {
	_, err := NewRedis(nil)
	require.Error(t, err, "nil配置应返回错误")

	_, err = NewRedis(&config.RedisConfig{})
	require.Error(t, err, "缺少地址应返回错误")
}
