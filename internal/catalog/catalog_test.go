package catalog

import (
	"errors"
	"testing"

	"talent-match-go/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecords() []RawRecord {
	return []RawRecord{
		{
			Record:    types.JobRecord{"title": "Backend Engineer", "skills": "Go, MySQL"},
			Embedding: []float64{1, 0},
		},
		{
			Record:    types.JobRecord{"title": "Product Designer", "skills": "Figma"},
			Embedding: []float64{0, 1},
		},
		{
			Record:    types.JobRecord{"title": "DevOps Engineer", "skills": "Kubernetes"},
			Embedding: []float64{1, 1},
		},
	}
}

func TestNewCatalog(t *testing.T) {
	c, err := New(testRecords())
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, "title", c.TitleField(), "应从第一条记录检测出标题字段")
	assert.Equal(t, "Backend Engineer", c.Entries()[0].Title)
}

func TestNewCatalogEmpty(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)

	var emptyErr *EmptyCatalogError
	assert.True(t, errors.As(err, &emptyErr), "空目录应返回EmptyCatalogError")
}

func TestNewCatalogTitleFieldVariants(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		expected string
	}{
		{"小写title", "title", "title"},
		{"首字母大写Title", "Title", "Title"},
		{"下划线job_title", "job_title", "job_title"},
		{"position", "position", "position"},
		{"带空格job title", "job title", "job title"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New([]RawRecord{{
				Record:    types.JobRecord{tt.field: "Engineer"},
				Embedding: []float64{1},
			}})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, c.TitleField())
		})
	}
}

func TestNewCatalogNoTitleField(t *testing.T) {
	_, err := New([]RawRecord{{
		Record:    types.JobRecord{"name": "Engineer"},
		Embedding: []float64{1},
	}})
	require.Error(t, err)

	var emptyErr *EmptyCatalogError
	require.True(t, errors.As(err, &emptyErr), "识别不出标题字段应返回EmptyCatalogError")
	assert.Contains(t, err.Error(), "name", "错误信息应列出可用字段名辅助排查")
}

func TestNewCatalogMissingEmbedding(t *testing.T) {
	_, err := New([]RawRecord{{
		Record: types.JobRecord{"title": "Engineer"},
	}})
	require.Error(t, err, "缺少预计算向量的条目应导致构建失败")
}

func TestResolveByTitle(t *testing.T) {
	c, err := New(testRecords())
	require.NoError(t, err)

	t.Run("精确匹配大小写无关", func(t *testing.T) {
		entry, ok := c.ResolveByTitle("backend engineer")
		require.True(t, ok)
		assert.Equal(t, "Backend Engineer", entry.Title)
	})

	t.Run("子串匹配兜底", func(t *testing.T) {
		entry, ok := c.ResolveByTitle("designer")
		require.True(t, ok)
		assert.Equal(t, "Product Designer", entry.Title)
	})

	t.Run("精确匹配优先于子串", func(t *testing.T) {
		entry, ok := c.ResolveByTitle("DevOps Engineer")
		require.True(t, ok)
		assert.Equal(t, "DevOps Engineer", entry.Title, "存在精确命中时不应落到子串分支")
	})

	t.Run("未命中", func(t *testing.T) {
		_, ok := c.ResolveByTitle("Accountant")
		assert.False(t, ok)
	})

	t.Run("空串不命中", func(t *testing.T) {
		_, ok := c.ResolveByTitle("  ")
		assert.False(t, ok)
	})
}

func TestStripExtension(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"Backend Engineer.pdf", "Backend Engineer"},
		{"Designer.docx", "Designer"},
		{"Designer.DOC", "Designer"},
		{"notes.txt", "notes"},
		{"README.md", "README"},
		{"Backend Engineer", "Backend Engineer"},
		{"v2.0 Engineer", "v2.0 Engineer"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, StripExtension(tt.in), "扩展名剥离结果不符: %s", tt.in)
	}
}
