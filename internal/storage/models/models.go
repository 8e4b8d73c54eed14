package models

import (
	"time"

	"gorm.io/datatypes"
)

// JobPosting 职位表。Embedding 列存放预计算向量的JSON数组，
// 由带外的目录重建流程写入，服务运行期间只读。
type JobPosting struct {
	ID               uint           `gorm:"primaryKey;autoIncrement"`
	Title            string         `gorm:"type:varchar(255);not null;index"`
	MinExperience    string         `gorm:"type:varchar(128)"` // 原始年限要求文本，如 "3+ years"
	Education        string         `gorm:"type:varchar(255)"` // 原始学历要求文本
	Skills           string         `gorm:"type:text"`         // 逗号分隔的必备技能
	Preferred        string         `gorm:"type:text"`         // 逗号分隔的加分技能
	Category         string         `gorm:"type:varchar(128)"`
	PositionOverview string         `gorm:"type:text"`
	SourceFile       string         `gorm:"type:varchar(255)"`
	Embedding        datatypes.JSON `gorm:"type:json"` // []float64 的JSON编码
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName 指定表名
func (JobPosting) TableName() string {
	return "job_postings"
}

// MatchRecord 匹配结果表，记录每次单对打分的子分数与总分。
type MatchRecord struct {
	ID              string  `gorm:"type:varchar(36);primaryKey"` // UUID
	CandidateRef    string  `gorm:"type:varchar(255);index"`     // 候选人标识（外部系统引用）
	Position        string  `gorm:"type:varchar(255);index"`     // 申请的职位
	SkillScore      float64 `gorm:"type:double"`
	ExperienceScore float64 `gorm:"type:double"`
	EducationScore  float64 `gorm:"type:double"`
	IndustryScore   float64 `gorm:"type:double"`
	TotalScore      float64 `gorm:"type:double;index"`
	CreatedAt       time.Time
}

// TableName 指定表名
func (MatchRecord) TableName() string {
	return "match_records"
}
