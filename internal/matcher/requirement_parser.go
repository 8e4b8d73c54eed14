package matcher

import (
	"regexp"
	"sort"
	"strings"

	"talent-match-go/internal/types"
)

// RequirementParser 从职位记录中解析归一化要求。
// 与档案提取器一样，缺失或脏字段一律降级为零值，不报错。
type RequirementParser struct {
	lexicon *Lexicon
}

// NewRequirementParser 创建职位要求解析器。
func NewRequirementParser(lexicon *Lexicon) *RequirementParser {
	if lexicon == nil {
		lexicon = DefaultLexicon()
	}
	return &RequirementParser{lexicon: lexicon}
}

// 形如 "3+ years" / "5 yrs" / "2-year" 的年限要求
var minExperienceRe = regexp.MustCompile(`(?i)(\d+)[+\-]?\s*(?:years?|yrs?)`)

// Parse 解析职位记录的全部要求。
func (p *RequirementParser) Parse(job types.JobRecord) *types.JobRequirements {
	return &types.JobRequirements{
		MinExperience:   p.MinExperience(job),
		EducationLevel:  p.EducationLevel(job),
		RequiredSkills:  splitCommaField(job[FieldSkills]),
		PreferredSkills: splitCommaField(job[FieldPreferred]),
		IndustryFocus:   p.IndustryFocus(job),
	}
}

// MinExperience 从年限要求文本中提取紧邻年限关键词的整数，未命中返回 0。
func (p *RequirementParser) MinExperience(job types.JobRecord) int {
	text := job[FieldMinExperience]
	if text == "" {
		return 0
	}
	if m := minExperienceRe.FindStringSubmatch(strings.ToLower(text)); m != nil {
		return parseInt(m[1])
	}
	return 0
}

// EducationLevel 解析职位学历要求。
// 职位侧只识别本科/硕士/博士关键词，未命中视为无硬性要求(0)。
func (p *RequirementParser) EducationLevel(job types.JobRecord) int {
	text := strings.ToLower(job[FieldEducation])
	for _, entry := range p.lexicon.JobEducationKeywords {
		if strings.Contains(text, entry.Keyword) {
			return entry.Rank
		}
	}
	return 0
}

// IndustryFocus 解析职位行业方向：以类目字段起始，
// 再扫描职位概述，任一类目的关键词以子串命中即把该类目计入，最后去重。
func (p *RequirementParser) IndustryFocus(job types.JobRecord) []string {
	var focus []string
	if category := strings.TrimSpace(job[FieldCategory]); category != "" {
		focus = append(focus, category)
	}

	overview := strings.ToLower(job[FieldPositionOverview])
	if overview != "" {
		// map 遍历无序，按类目名排序保证输出可复现
		categories := make([]string, 0, len(p.lexicon.CategoryKeywords))
		for category := range p.lexicon.CategoryKeywords {
			categories = append(categories, category)
		}
		sort.Strings(categories)

		for _, category := range categories {
			for _, keyword := range p.lexicon.CategoryKeywords[category] {
				if strings.Contains(overview, strings.ToLower(keyword)) {
					focus = append(focus, category)
					break
				}
			}
		}
	}
	return dedupeNonEmpty(focus)
}
