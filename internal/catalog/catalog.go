// Package catalog 维护职位目录并提供基于向量索引的最优职位检索。
// 目录在服务启动时构建一次，服务生命周期内只读；
// 增补职位属于带外操作，通过重建目录完成。
package catalog

import (
	"fmt"
	"path/filepath"
	"strings"

	"talent-match-go/internal/fuzzymatch"
	"talent-match-go/internal/types"
)

// Entry 目录中的一个职位条目，必须携带预计算的向量。
type Entry struct {
	Record     types.JobRecord // 原始字段
	Title      string          // 按目录检测出的标题字段取出的标题
	SourceFile string          // 可选的来源文件名
	Embedding  []float64       // 预计算向量
}

// JobCatalog 职位目录。标题字段名在构建时检测一次并固定下来，
// 不在每次请求时重新探测。
type JobCatalog struct {
	entries              []Entry
	titleField           string
	titleFieldCandidates []string
	fuzzyThreshold       int
}

// Option 目录构建选项。
type Option func(*JobCatalog)

// WithFuzzyThreshold 覆盖已申请职位过滤的相似度阈值（默认80）。
func WithFuzzyThreshold(threshold int) Option {
	return func(c *JobCatalog) {
		c.fuzzyThreshold = threshold
	}
}

// WithTitleFieldCandidates 覆盖标题字段候选名。
func WithTitleFieldCandidates(candidates []string) Option {
	return func(c *JobCatalog) {
		c.titleFieldCandidates = candidates
	}
}

var defaultTitleFieldCandidates = []string{"title", "Title", "job_title", "position", "Position", "job title"}

// New 从原始职位记录构建目录。
// records 中每条记录必须携带预计算向量；目录为空或检测不到标题字段
// 时返回 EmptyCatalogError。
func New(records []RawRecord, options ...Option) (*JobCatalog, error) {
	if len(records) == 0 {
		return nil, &EmptyCatalogError{Reason: "no jobs loaded"}
	}

	c := &JobCatalog{
		fuzzyThreshold:       fuzzymatch.DefaultTitleThreshold,
		titleFieldCandidates: defaultTitleFieldCandidates,
	}
	for _, opt := range options {
		opt(c)
	}

	// 以第一条记录为样本检测标题字段，检测结果对全目录生效
	sample := records[0].Record
	for _, candidate := range c.titleFieldCandidates {
		if _, ok := sample[candidate]; ok {
			c.titleField = candidate
			break
		}
	}
	if c.titleField == "" {
		return nil, &EmptyCatalogError{Reason: fmt.Sprintf("could not identify job title field, available fields: %v", fieldNames(sample))}
	}

	c.entries = make([]Entry, 0, len(records))
	for i, raw := range records {
		if len(raw.Embedding) == 0 {
			return nil, fmt.Errorf("目录条目 %d (%s) 缺少预计算向量", i, raw.Record[c.titleField])
		}
		c.entries = append(c.entries, Entry{
			Record:     raw.Record,
			Title:      raw.Record[c.titleField],
			SourceFile: raw.SourceFile,
			Embedding:  raw.Embedding,
		})
	}
	return c, nil
}

// RawRecord 构建目录的原始输入。
type RawRecord struct {
	Record     types.JobRecord
	SourceFile string
	Embedding  []float64
}

// Len 返回目录条目数。
func (c *JobCatalog) Len() int {
	return len(c.entries)
}

// TitleField 返回构建时检测出的标题字段名。
func (c *JobCatalog) TitleField() string {
	return c.titleField
}

// Entries 返回只读的条目视图。
func (c *JobCatalog) Entries() []Entry {
	return c.entries
}

// ResolveByTitle 按申请职位名定位目录条目：
// 先做大小写无关的精确匹配，再退化为子串匹配。
func (c *JobCatalog) ResolveByTitle(appliedPosition string) (*Entry, bool) {
	applied := strings.ToLower(strings.TrimSpace(appliedPosition))
	if applied == "" {
		return nil, false
	}
	for i := range c.entries {
		if strings.ToLower(c.entries[i].Title) == applied {
			return &c.entries[i], true
		}
	}
	for i := range c.entries {
		if strings.Contains(strings.ToLower(c.entries[i].Title), applied) {
			return &c.entries[i], true
		}
	}
	return nil, false
}

// StripExtension 去掉标题末尾的文档扩展名（目录源常以文件名充当标题）。
func StripExtension(title string) string {
	switch strings.ToLower(filepath.Ext(title)) {
	case ".pdf", ".docx", ".doc", ".txt", ".md":
		return title[:len(title)-len(filepath.Ext(title))]
	}
	return title
}

func fieldNames(record types.JobRecord) []string {
	names := make([]string, 0, len(record))
	for name := range record {
		names = append(names, name)
	}
	return names
}
