// Package fuzzymatch 提供基于编辑距离的短文本模糊匹配，
// 用于判断两个职位标题是否指向"同一个"岗位。
package fuzzymatch

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// DefaultTitleThreshold 判定两个标题相似的默认阈值。
const DefaultTitleThreshold = 80

// Ratio 返回两个字符串的编辑距离相似度，范围 [0,100]。
func Ratio(a, b string) int {
	if a == "" && b == "" {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	maxLen := len([]rune(a))
	if lb := len([]rune(b)); lb > maxLen {
		maxLen = lb
	}
	return int(float64(maxLen-dist) / float64(maxLen) * 100)
}

// PartialRatio 返回部分匹配相似度，范围 [0,100]。
// 把较短串与较长串的每个等长窗口比较，取最优；
// 对子串/部分重叠容忍，例如 "Engineer" 与 "Senior Engineer" 得满分。
func PartialRatio(a, b string) int {
	if a == "" || b == "" {
		if a == b {
			return 100
		}
		return 0
	}

	shorter, longer := []rune(a), []rune(b)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) == len(longer) {
		return Ratio(string(shorter), string(longer))
	}

	best := 0
	window := len(shorter)
	for start := 0; start+window <= len(longer); start++ {
		score := Ratio(string(shorter), string(longer[start:start+window]))
		if score > best {
			best = score
		}
		if best == 100 {
			break
		}
	}
	return best
}

// TitlesSimilar 判断两个职位标题是否足够相似（大小写无关）。
func TitlesSimilar(title, appliedPosition string, threshold int) bool {
	if threshold <= 0 {
		threshold = DefaultTitleThreshold
	}
	return PartialRatio(strings.ToLower(title), strings.ToLower(appliedPosition)) >= threshold
}
