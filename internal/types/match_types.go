package types

// CandidateRecord 候选人档案的归一化表示。
// 键为英文字段名（如 "Technical Skills", "Job_1_Title"），值为原始文本。
// 字段可能缺失、为空或为 "Not specified" 占位值，提取器负责容错。
type CandidateRecord map[string]string

// JobRecord 职位记录的归一化表示。
// 标题字段名不固定（title/Title/job_title/position/Position/job title 之一）。
type JobRecord map[string]string

// CandidateSignals 从候选人档案提取出的归一化信号。
// 每次请求时派生计算，不做持久化。
type CandidateSignals struct {
	YearsExperience float64  `json:"years_experience"` // 总工作年限，>=0
	EducationLevel  int      `json:"education_level"`  // 学历序数，0..6
	Skills          []string `json:"skills"`           // 去重后的技能集合（保留首次出现顺序）
	Industries      []string `json:"industries"`       // 去重后的行业集合
}

// JobRequirements 从职位记录解析出的归一化要求。
type JobRequirements struct {
	MinExperience   int      `json:"min_experience"`   // 最低年限要求，0表示未指定
	EducationLevel  int      `json:"education_level"`  // 学历要求序数，仅 0/4/5/6 可达
	RequiredSkills  []string `json:"required_skills"`  // 必备技能
	PreferredSkills []string `json:"preferred_skills"` // 加分技能
	IndustryFocus   []string `json:"industry_focus"`   // 行业方向（类目 + 关键词命中的类目）
}

// MatchScore 单候选人-单职位的加权匹配结果。
// 不变式: Total == 100*(0.4*Skill + 0.3*Experience + 0.15*Education + 0.15*Industry)
type MatchScore struct {
	Skill      float64 `json:"skill_score"`      // [0,1]
	Experience float64 `json:"experience_score"` // [0,1]
	Education  float64 `json:"education_score"`  // [0,1]
	Industry   float64 `json:"industry_score"`   // [0,1]
	Total      float64 `json:"total_score"`      // [0,100]
}

// BestFit 目录检索路径的返回结果。
// JSON 字段名保持对外接口约定（含空格）。
type BestFit struct {
	JobTitle        string  `json:"Job Title"`
	MatchPercentage float64 `json:"Match Percentage"`
}

// NoSuitableJobTitle 目录检索全部被排除时的哨兵标题。
const NoSuitableJobTitle = "No suitable job found"

// SentinelBestFit 返回"未找到合适职位"的哨兵结果。
func SentinelBestFit() *BestFit {
	return &BestFit{JobTitle: NoSuitableJobTitle, MatchPercentage: 0}
}
