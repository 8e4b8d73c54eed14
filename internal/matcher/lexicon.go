package matcher

// 本文件集中存放匹配算法依赖的静态词表。
// 词表与打分逻辑解耦，便于独立测试和版本化管理。

// EducationEntry 学历层级词表条目。按 Rank 升序匹配，子串命中即返回。
type EducationEntry struct {
	Keyword string // 学位名称中的小写关键词
	Rank    int    // 序数等级
}

// Weights 四个子分数的加权系数，相加应为 1.0。
type Weights struct {
	Skill      float64 `yaml:"skill"`
	Experience float64 `yaml:"experience"`
	Education  float64 `yaml:"education"`
	Industry   float64 `yaml:"industry"`
}

// Lexicon 匹配引擎的全部静态配置。
type Lexicon struct {
	// EducationHierarchy 学历层级，对候选人最高学历字段做大小写无关的子串匹配
	EducationHierarchy []EducationEntry

	// JobEducationKeywords 职位学历要求词表。职位侧仅识别本科及以上，
	// 与候选人侧不同（候选人侧还识别 high school/diploma/hnd）。
	JobEducationKeywords []EducationEntry

	// CategoryKeywords 职位类目 -> 代表性关键词。
	// 任一关键词以子串形式出现在职位概述中，即把该类目计入行业方向。
	CategoryKeywords map[string][]string

	// TitleFieldCandidates 职位标题字段的候选名，按优先级排列
	TitleFieldCandidates []string

	// Weights 加权聚合系数
	Weights Weights
}

// DefaultLexicon 返回内置词表。
func DefaultLexicon() *Lexicon {
	return &Lexicon{
		EducationHierarchy: []EducationEntry{
			{"high school", 1},
			{"diploma", 2},
			{"hnd", 3},
			{"bachelor", 4},
			{"master", 5},
			{"phd", 6},
		},
		JobEducationKeywords: []EducationEntry{
			{"bachelor", 4},
			{"master", 5},
			{"phd", 6},
			{"doctorate", 6},
		},
		CategoryKeywords: map[string][]string{
			"Development":             {"developer", "programming", "software", "code", "web", "frontend", "backend", "fullstack"},
			"Design":                  {"design", "ui", "ux", "user interface", "user experience", "creative", "visual"},
			"Quality Assurance":       {"qa", "quality", "testing", "test", "automation", "bugs"},
			"Management":              {"manager", "management", "leadership", "team lead", "supervisor", "director"},
			"Marketing":               {"marketing", "social media", "digital marketing", "seo", "content", "campaign"},
			"IT Support":              {"support", "helpdesk", "technical support", "service desk", "troubleshoot"},
			"Blockchain":              {"blockchain", "crypto", "web3", "defi", "ethereum", "solidity"},
			"Artificial Intelligence": {"ai", "machine learning", "ml", "data science", "nlp", "deep learning"},
			"DevOps":                  {"devops", "cicd", "infrastructure", "automation", "cloud", "aws", "azure"},
		},
		TitleFieldCandidates: []string{"title", "Title", "job_title", "position", "Position", "job title"},
		Weights: Weights{
			Skill:      0.4,
			Experience: 0.3,
			Education:  0.15,
			Industry:   0.15,
		},
	}
}

// 候选人档案中约定的字段名
const (
	FieldTechnicalSkills      = "Technical Skills"
	FieldSoftSkills           = "Soft Skills"
	FieldToolsTechnologies    = "Tools & Technologies"
	FieldProgrammingLanguages = "Programming Languages"
	FieldRecentTechnologies   = "Recent Technologies"
	FieldTotalYearsInTech     = "Total Years in Tech"
	FieldHighestDegree        = "Highest Degree"
	FieldProgram              = "Program"
	FieldSchool               = "School"
	FieldIndustries           = "Industries"
)

// 职位记录中约定的字段名
const (
	FieldMinExperience    = "min_experience"
	FieldEducation        = "education"
	FieldSkills           = "skills"
	FieldPreferred        = "preferred"
	FieldCategory         = "category"
	FieldPositionOverview = "position_overview"
)

// NotSpecified 源数据中表示"未填写"的占位值（大小写无关）
const NotSpecified = "not specified"
