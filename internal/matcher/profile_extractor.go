package matcher

import (
	"regexp"
	"sort"
	"strings"

	"talent-match-go/internal/types"
)

// ProfileExtractor 从候选人档案中提取归一化信号。
// 所有提取方法对缺失/脏字段做内部吸收，只降级、不报错。
type ProfileExtractor struct {
	lexicon *Lexicon
}

// NewProfileExtractor 创建档案特征提取器。
func NewProfileExtractor(lexicon *Lexicon) *ProfileExtractor {
	if lexicon == nil {
		lexicon = DefaultLexicon()
	}
	return &ProfileExtractor{lexicon: lexicon}
}

var (
	firstIntRe = regexp.MustCompile(`(\d+)`)
	yearsRe    = regexp.MustCompile(`(?i)(\d+)\s*years?`)
	monthsRe   = regexp.MustCompile(`(?i)(\d+)\s*months?`)
)

// Extract 一次性提取全部候选人信号。
func (e *ProfileExtractor) Extract(candidate types.CandidateRecord) *types.CandidateSignals {
	return &types.CandidateSignals{
		YearsExperience: e.YearsExperience(candidate),
		EducationLevel:  e.EducationLevel(candidate),
		Skills:          e.Skills(candidate),
		Industries:      e.Industries(candidate),
	}
}

// YearsExperience 提取候选人总工作年限。
// 显式填写的 "Total Years in Tech" 优先；未填或不可解析时，
// 退回到累加各段工作经历的时长（"N years" / "N months" 片段）。
func (e *ProfileExtractor) YearsExperience(candidate types.CandidateRecord) float64 {
	if raw, ok := candidate[FieldTotalYearsInTech]; ok {
		text := strings.TrimSpace(raw)
		if text != "" && !strings.EqualFold(text, NotSpecified) {
			if m := firstIntRe.FindString(text); m != "" {
				return float64(parseInt(m))
			}
		}
	}

	// 逐段累加 Job_i_Duration
	totalMonths := 0
	for key, raw := range candidate {
		if !strings.Contains(key, "Job_") || !strings.Contains(key, "Duration") {
			continue
		}
		duration := strings.TrimSpace(raw)
		if duration == "" || strings.EqualFold(duration, NotSpecified) {
			continue
		}
		years, months := 0, 0
		if m := yearsRe.FindStringSubmatch(duration); m != nil {
			years = parseInt(m[1])
		}
		if m := monthsRe.FindStringSubmatch(duration); m != nil {
			months = parseInt(m[1])
		}
		totalMonths += years*12 + months
	}
	return float64(totalMonths) / 12.0
}

// EducationLevel 提取候选人学历序数（0..6）。
// 最高学历字段未命中任何关键词、但填写了专业或学校时，默认按本科(4)处理。
func (e *ProfileExtractor) EducationLevel(candidate types.CandidateRecord) int {
	degree := strings.ToLower(candidate[FieldHighestDegree])
	for _, entry := range e.lexicon.EducationHierarchy {
		if strings.Contains(degree, entry.Keyword) {
			return entry.Rank
		}
	}

	program := strings.ToLower(strings.TrimSpace(candidate[FieldProgram]))
	school := strings.ToLower(strings.TrimSpace(candidate[FieldSchool]))
	if (program != "" && program != NotSpecified) || (school != "" && school != NotSpecified) {
		return 4
	}
	return 0
}

// Skills 提取候选人技能集合：各技能字段按逗号切分后求并集，
// 并把每个历史职位标题整体视作一条技能信号。
func (e *ProfileExtractor) Skills(candidate types.CandidateRecord) []string {
	skillFields := []string{
		FieldTechnicalSkills,
		FieldSoftSkills,
		FieldToolsTechnologies,
		FieldProgrammingLanguages,
		FieldRecentTechnologies,
	}

	var all []string
	for _, field := range skillFields {
		all = append(all, splitCommaField(candidate[field])...)
	}
	for _, key := range sortedKeysContaining(candidate, "Job_", "Title") {
		all = append(all, strings.TrimSpace(candidate[key]))
	}
	return dedupeNonEmpty(all)
}

// Industries 提取候选人行业集合：Industries 字段按逗号切分，
// 并把每个历史职位的公司名视作行业信号。
func (e *ProfileExtractor) Industries(candidate types.CandidateRecord) []string {
	all := splitCommaField(candidate[FieldIndustries])
	for _, key := range sortedKeysContaining(candidate, "Job_", "Company") {
		all = append(all, strings.TrimSpace(candidate[key]))
	}
	return dedupeNonEmpty(all)
}

// splitCommaField 按逗号切分字段值并去除空白；空值和占位值返回 nil。
func splitCommaField(raw string) []string {
	text := strings.TrimSpace(raw)
	if text == "" || strings.EqualFold(text, NotSpecified) {
		return nil
	}
	parts := strings.Split(text, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

// dedupeNonEmpty 去重并过滤空值/占位值。
// 保留首次出现顺序，保证相同输入下拼接出的向量化文本逐比特一致。
func dedupeNonEmpty(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || strings.EqualFold(v, NotSpecified) {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// sortedKeysContaining 返回同时包含两个子串的键，按字典序排列。
// map 遍历顺序随机，排序后才能保证提取结果可复现。
func sortedKeysContaining(record types.CandidateRecord, sub1, sub2 string) []string {
	var keys []string
	for key := range record {
		if strings.Contains(key, sub1) && strings.Contains(key, sub2) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

func parseInt(s string) int {
	n := 0
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			break
		}
		n = n*10 + int(ch-'0')
	}
	return n
}
