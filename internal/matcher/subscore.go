package matcher

import (
	"context"
	"strings"

	"talent-match-go/internal/embedding"

	einoembedding "github.com/cloudwego/eino/components/embedding"
)

// SubScorer 计算四个维度的子分数。
// 除共享的只读向量模型外无任何状态，对相同输入的输出是确定的。
type SubScorer struct {
	embedder einoembedding.Embedder
}

// NewSubScorer 创建子分数计算器。
func NewSubScorer(embedder einoembedding.Embedder) *SubScorer {
	return &SubScorer{embedder: embedder}
}

// SkillMatch 技能匹配度 [0,1]。
// 语义相似度占70%，必备技能的词面命中率占20%，加分技能占10%。
// 候选人技能或必备技能为空时直接返回 0。
func (s *SubScorer) SkillMatch(ctx context.Context, candidateSkills, requiredSkills, preferredSkills []string) (float64, error) {
	if len(candidateSkills) == 0 || len(requiredSkills) == 0 {
		return 0, nil
	}

	candidateLower := lowerAll(candidateSkills)
	requiredLower := lowerAll(requiredSkills)
	preferredLower := lowerAll(preferredSkills)

	vectors, err := s.embedder.EmbedStrings(ctx, []string{
		strings.Join(candidateLower, " "),
		strings.Join(requiredLower, " "),
	})
	if err != nil {
		return 0, &EmbeddingServiceError{Err: err}
	}
	semantic := embedding.CosineSimilarity(vectors[0], vectors[1])

	requiredPct := containmentRatio(requiredLower, candidateLower)
	preferredPct := 0.0
	if len(preferredLower) > 0 {
		preferredPct = containmentRatio(preferredLower, candidateLower)
	}

	return 0.7*semantic + 0.2*requiredPct + 0.1*preferredPct, nil
}

// ExperienceMatch 经验匹配度 [0,1]。
// 无年限要求时返回 1.0；达标后按超出比例给奖励，年限达到要求两倍时封顶；
// 未达标时按比例线性给分。
// 注意：年限恰好等于要求时得分是 0.5 而非 1.0，只有达到两倍要求才到 1.0。
// 这是对历史行为的忠实保留，是否为有意的产品决策待确认，勿擅自"修正"。
func (s *SubScorer) ExperienceMatch(candidateYears float64, jobMinYears int) float64 {
	if jobMinYears == 0 {
		return 1.0
	}

	minYears := float64(jobMinYears)
	if candidateYears >= minYears {
		bonus := (candidateYears - minYears) / minYears
		if bonus > 1.0 {
			bonus = 1.0
		}
		ratio := 1.0 + bonus*0.5
		if ratio > 2.0 {
			ratio = 2.0
		}
		return ratio / 2.0
	}

	ratio := candidateYears / minYears
	if ratio < 0 {
		return 0
	}
	return ratio
}

// EducationMatch 学历匹配度 [0,1]。
// 职位无学历要求时返回 1.0；达标返回 1.0；否则按序数比例给部分分。
func (s *SubScorer) EducationMatch(candidateLevel, jobLevel int) float64 {
	if jobLevel == 0 {
		return 1.0
	}
	if candidateLevel >= jobLevel {
		return 1.0
	}
	ratio := float64(candidateLevel) / float64(jobLevel)
	if ratio < 0 {
		return 0
	}
	return ratio
}

// IndustryMatch 行业匹配度 [0,1]。
// 任一方无行业信息时返回中性分 0.5——缺数据不等于不匹配。
// 有数据时语义相似度占70%，词面命中率占30%。
func (s *SubScorer) IndustryMatch(ctx context.Context, candidateIndustries, jobIndustries []string) (float64, error) {
	if len(candidateIndustries) == 0 || len(jobIndustries) == 0 {
		return 0.5, nil
	}

	candidateLower := lowerAll(candidateIndustries)
	jobLower := lowerAll(jobIndustries)

	vectors, err := s.embedder.EmbedStrings(ctx, []string{
		strings.Join(candidateLower, " "),
		strings.Join(jobLower, " "),
	})
	if err != nil {
		return 0, &EmbeddingServiceError{Err: err}
	}
	semantic := embedding.CosineSimilarity(vectors[0], vectors[1])

	matchPct := containmentRatio(jobLower, candidateLower)

	return 0.7*semantic + 0.3*matchPct, nil
}

// containmentRatio 统计 targets 中能被 candidates 以双向子串方式命中的比例，上限 1.0。
func containmentRatio(targets, candidates []string) float64 {
	if len(targets) == 0 {
		return 0
	}
	matches := 0
	for _, target := range targets {
		for _, candidate := range candidates {
			if strings.Contains(candidate, target) || strings.Contains(target, candidate) {
				matches++
				break
			}
		}
	}
	pct := float64(matches) / float64(len(targets))
	if pct > 1.0 {
		return 1.0
	}
	return pct
}

func lowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}
