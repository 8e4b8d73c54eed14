package fuzzymatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected int
	}{
		{"完全相同", "engineer", "engineer", 100},
		{"完全不同", "abc", "xyz", 0},
		{"双空串", "", "", 100},
		{"单侧空串", "engineer", "", 0},
		{"一字之差", "engineer", "enginees", 87},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Ratio(tt.a, tt.b), "编辑距离相似度不符")
		})
	}
}

func TestRatioSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"backend engineer", "frontend engineer"},
		{"developer", "designer"},
		{"", "abc"},
	}
	for _, p := range pairs {
		assert.Equal(t, Ratio(p[0], p[1]), Ratio(p[1], p[0]), "相似度应满足对称性")
	}
}

func TestPartialRatio(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected int
	}{
		{"短串是长串的子串时得满分", "engineer", "senior engineer", 100},
		{"等长退化为全量比较", "engineer", "engineer", 100},
		{"完全无关", "designer", "qa", 0},
		{"单侧空串", "", "engineer", 0},
		{"双空串", "", "", 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PartialRatio(tt.a, tt.b), "部分匹配相似度不符")
		})
	}
}

func TestTitlesSimilar(t *testing.T) {
	// 同一岗位的不同写法应判相似
	assert.True(t, TitlesSimilar("Backend Engineer", "backend engineer", 80), "大小写差异应判相似")
	assert.True(t, TitlesSimilar("Senior Backend Engineer", "Backend Engineer", 80), "子串关系应判相似")

	// 不同岗位应判不相似
	assert.False(t, TitlesSimilar("Product Designer", "Backend Engineer", 80))

	// 阈值非法时退回默认值80
	assert.True(t, TitlesSimilar("Engineer", "engineer", 0))
}
