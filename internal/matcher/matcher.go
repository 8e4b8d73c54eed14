package matcher

import (
	"context"
	"fmt"
	"math"

	"talent-match-go/internal/types"

	einoembedding "github.com/cloudwego/eino/components/embedding"
)

// CandidateJobMatcher 候选人-职位加权匹配引擎。
// 持有一个进程级共享的只读向量模型句柄，自身无可变状态，
// 并发调用相互独立，可安全并行。
type CandidateJobMatcher struct {
	lexicon   *Lexicon
	extractor *ProfileExtractor
	parser    *RequirementParser
	scorer    *SubScorer
}

// MatcherOption 匹配引擎的配置选项。
type MatcherOption func(*CandidateJobMatcher)

// WithLexicon 替换内置词表（学历层级、类目关键词、权重）。
func WithLexicon(lexicon *Lexicon) MatcherOption {
	return func(m *CandidateJobMatcher) {
		m.lexicon = lexicon
	}
}

// NewCandidateJobMatcher 创建匹配引擎实例。
func NewCandidateJobMatcher(embedder einoembedding.Embedder, options ...MatcherOption) *CandidateJobMatcher {
	m := &CandidateJobMatcher{
		lexicon: DefaultLexicon(),
	}
	for _, opt := range options {
		opt(m)
	}
	m.extractor = NewProfileExtractor(m.lexicon)
	m.parser = NewRequirementParser(m.lexicon)
	m.scorer = NewSubScorer(embedder)
	return m
}

// PredictMatchScore 对一对候选人/职位记录计算加权匹配分。
// 输入接受扁平映射或单行表格结构（取第一行），在边界处归一化为内部值类型；
// 这是单对打分的唯一公开入口，冻结模型下对相同输入幂等。
func (m *CandidateJobMatcher) PredictMatchScore(ctx context.Context, candidate any, job any) (*types.MatchScore, error) {
	candidateRecord, err := NormalizeCandidateRecord(candidate)
	if err != nil {
		return nil, err
	}
	jobRecord, err := NormalizeJobRecord(job)
	if err != nil {
		return nil, err
	}

	// 1. 提取候选人信号与职位要求
	signals := m.extractor.Extract(candidateRecord)
	requirements := m.parser.Parse(jobRecord)

	// 2. 计算四个子分数
	skillScore, err := m.scorer.SkillMatch(ctx, signals.Skills, requirements.RequiredSkills, requirements.PreferredSkills)
	if err != nil {
		return nil, err
	}
	experienceScore := m.scorer.ExperienceMatch(signals.YearsExperience, requirements.MinExperience)
	educationScore := m.scorer.EducationMatch(signals.EducationLevel, requirements.EducationLevel)
	industryScore, err := m.scorer.IndustryMatch(ctx, signals.Industries, requirements.IndustryFocus)
	if err != nil {
		return nil, err
	}

	// 3. 加权聚合到 0-100
	w := m.lexicon.Weights
	total := 100 * (w.Skill*skillScore +
		w.Experience*experienceScore +
		w.Education*educationScore +
		w.Industry*industryScore)

	return &types.MatchScore{
		Skill:      skillScore,
		Experience: experienceScore,
		Education:  educationScore,
		Industry:   industryScore,
		Total:      total,
	}, nil
}

// NormalizeCandidateRecord 把任意形状的候选人输入归一化为 CandidateRecord。
func NormalizeCandidateRecord(input any) (types.CandidateRecord, error) {
	record, err := normalizeRecord(input)
	if err != nil {
		return nil, err
	}
	return types.CandidateRecord(record), nil
}

// NormalizeJobRecord 把任意形状的职位输入归一化为 JobRecord。
func NormalizeJobRecord(input any) (types.JobRecord, error) {
	record, err := normalizeRecord(input)
	if err != nil {
		return nil, err
	}
	return types.JobRecord(record), nil
}

// normalizeRecord 接受扁平映射或单行表格结构（切片取第一行），
// 统一转换为 map[string]string。其他形状返回 InputShapeError。
func normalizeRecord(input any) (map[string]string, error) {
	switch v := input.(type) {
	case nil:
		return nil, &InputShapeError{Reason: "record is nil"}
	case types.CandidateRecord:
		return v, nil
	case types.JobRecord:
		return v, nil
	case map[string]string:
		return v, nil
	case map[string]any:
		return stringifyValues(v), nil
	case []map[string]string:
		if len(v) == 0 {
			return nil, &InputShapeError{Reason: "tabular record has no rows"}
		}
		return v[0], nil
	case []map[string]any:
		if len(v) == 0 {
			return nil, &InputShapeError{Reason: "tabular record has no rows"}
		}
		return stringifyValues(v[0]), nil
	default:
		return nil, &InputShapeError{Reason: fmt.Sprintf("unsupported record shape %T", input)}
	}
}

// stringifyValues 把 map 值转为字符串；nil 值（源数据中的 NaN/None）转为空串。
func stringifyValues(in map[string]any) map[string]string {
	out := make(map[string]string, len(in))
	for key, value := range in {
		switch v := value.(type) {
		case nil:
			out[key] = ""
		case string:
			out[key] = v
		case float64:
			if math.IsNaN(v) {
				out[key] = ""
			} else if v == math.Trunc(v) {
				out[key] = fmt.Sprintf("%d", int64(v))
			} else {
				out[key] = fmt.Sprintf("%v", v)
			}
		default:
			out[key] = fmt.Sprintf("%v", v)
		}
	}
	return out
}

// Round2 四舍五入保留两位小数，对外接口统一使用。
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}
