package matcher

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEmbedder 按文本返回预置向量的测试桩，未预置的文本返回单位向量。
type stubEmbedder struct {
	vectors map[string][]float64
	err     error
	calls   int
}

func (s *stubEmbedder) EmbedStrings(_ context.Context, texts []string, _ ...embedding.Option) ([][]float64, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float64, len(texts))
	for i, text := range texts {
		if v, ok := s.vectors[text]; ok {
			out[i] = v
		} else {
			out[i] = []float64{1, 0}
		}
	}
	return out, nil
}

func TestExperienceMatch(t *testing.T) {
	scorer := NewSubScorer(nil)

	tests := []struct {
		name           string
		candidateYears float64
		jobMinYears    int
		expected       float64
	}{
		{"职位无年限要求时得满分", 3, 0, 1.0},
		{"年限恰好等于要求时得0.5", 4, 4, 0.5},
		{"年限为要求1.5倍时得0.625", 6, 4, 0.625},
		{"年限达到要求两倍时封顶1.0", 8, 4, 1.0},
		{"超过两倍后仍封顶1.0", 20, 4, 1.0},
		{"未达标时按比例给分", 2, 4, 0.5},
		{"完全没有经验时得0", 0, 4, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scorer.ExperienceMatch(tt.candidateYears, tt.jobMinYears)
			assert.InDelta(t, tt.expected, got, 1e-9, "经验分计算结果不符")
		})
	}
}

func TestEducationMatch(t *testing.T) {
	scorer := NewSubScorer(nil)

	tests := []struct {
		name           string
		candidateLevel int
		jobLevel       int
		expected       float64
	}{
		{"职位无学历要求时得满分", 0, 0, 1.0},
		{"学历达标时得满分", 5, 4, 1.0},
		{"学历恰好等于要求时得满分", 4, 4, 1.0},
		{"学历不足时按序数比例给分", 2, 4, 0.5},
		{"候选人无学历信息时得0", 0, 4, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scorer.EducationMatch(tt.candidateLevel, tt.jobLevel)
			assert.InDelta(t, tt.expected, got, 1e-9, "学历分计算结果不符")
		})
	}
}

func TestSkillMatchEmptyInputs(t *testing.T) {
	embedder := &stubEmbedder{}
	scorer := NewSubScorer(embedder)
	ctx := context.Background()

	// 任一侧为空时直接返回0，且不应触发向量化调用
	got, err := scorer.SkillMatch(ctx, nil, []string{"go"}, nil)
	require.NoError(t, err)
	assert.Zero(t, got, "候选人无技能时应得0")

	got, err = scorer.SkillMatch(ctx, []string{"go"}, nil, nil)
	require.NoError(t, err)
	assert.Zero(t, got, "职位无必备技能时应得0")

	assert.Zero(t, embedder.calls, "空输入不应调用向量模型")
}

func TestSkillMatchWeighting(t *testing.T) {
	// cos([1,0],[4,3]) = 0.8
	embedder := &stubEmbedder{vectors: map[string][]float64{
		"go python docker": {1, 0},
		"go python":        {4, 3},
	}}
	scorer := NewSubScorer(embedder)

	got, err := scorer.SkillMatch(context.Background(),
		[]string{"Go", "Python", "Docker"},
		[]string{"go", "python"},
		nil)
	require.NoError(t, err)

	// 0.7*0.8 + 0.2*1.0(必备全命中) + 0.1*0(无加分技能)
	assert.InDelta(t, 0.76, got, 1e-9, "技能分加权结果不符")
	assert.Equal(t, 1, embedder.calls, "两段文本应合并为一次批量向量化")
}

func TestSkillMatchPreferredContribution(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float64{
		"go kubernetes": {1, 0},
		"go":            {1, 0},
	}}
	scorer := NewSubScorer(embedder)

	got, err := scorer.SkillMatch(context.Background(),
		[]string{"Go", "Kubernetes"},
		[]string{"Go"},
		[]string{"Kubernetes", "Terraform"})
	require.NoError(t, err)

	// 语义1.0、必备1.0、加分命中1/2：0.7 + 0.2 + 0.1*0.5
	assert.InDelta(t, 0.95, got, 1e-9, "加分技能应贡献10%权重")
}

func TestSkillMatchEmbeddingFailure(t *testing.T) {
	embedder := &stubEmbedder{err: errors.New("connection refused")}
	scorer := NewSubScorer(embedder)

	_, err := scorer.SkillMatch(context.Background(), []string{"go"}, []string{"go"}, nil)
	require.Error(t, err)

	var embeddingErr *EmbeddingServiceError
	assert.True(t, errors.As(err, &embeddingErr), "向量化失败应包装为EmbeddingServiceError")
	assert.ErrorContains(t, err, "connection refused", "应保留底层错误信息")
}

func TestIndustryMatchNeutralScore(t *testing.T) {
	embedder := &stubEmbedder{}
	scorer := NewSubScorer(embedder)
	ctx := context.Background()

	got, err := scorer.IndustryMatch(ctx, nil, []string{"Development"})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, got, 1e-9, "候选人无行业信息时应得中性分")

	got, err = scorer.IndustryMatch(ctx, []string{"Fintech"}, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, got, 1e-9, "职位无行业信息时应得中性分")

	assert.Zero(t, embedder.calls, "缺数据时不应调用向量模型")
}

func TestIndustryMatchWeighting(t *testing.T) {
	// cos([1,0],[3,4]) = 0.6
	embedder := &stubEmbedder{vectors: map[string][]float64{
		"fintech":     {1, 0},
		"development": {3, 4},
	}}
	scorer := NewSubScorer(embedder)

	got, err := scorer.IndustryMatch(context.Background(), []string{"Fintech"}, []string{"Development"})
	require.NoError(t, err)

	// 0.7*0.6 + 0.3*0(词面无命中)
	assert.InDelta(t, 0.42, got, 1e-9, "行业分加权结果不符")
}

func TestContainmentRatio(t *testing.T) {
	tests := []struct {
		name       string
		targets    []string
		candidates []string
		expected   float64
	}{
		{"全部命中", []string{"go", "python"}, []string{"go", "python", "docker"}, 1.0},
		{"部分命中", []string{"go", "rust"}, []string{"go"}, 0.5},
		{"子串双向命中", []string{"javascript"}, []string{"java"}, 1.0},
		{"无命中", []string{"rust"}, []string{"go"}, 0.0},
		{"目标为空", nil, []string{"go"}, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, containmentRatio(tt.targets, tt.candidates), 1e-9)
		})
	}
}

func TestEmbeddingServiceErrorUnwrap(t *testing.T) {
	inner := fmt.Errorf("timeout")
	err := &EmbeddingServiceError{Err: inner}
	assert.Equal(t, inner, errors.Unwrap(err), "EmbeddingServiceError应支持Unwrap")
}
