package catalog

import (
	"context"

	"talent-match-go/internal/embedding"
	"talent-match-go/internal/fuzzymatch"
	"talent-match-go/internal/matcher"
	"talent-match-go/internal/types"

	einoembedding "github.com/cloudwego/eino/components/embedding"
)

// Finder 基于向量索引的最优职位检索器。
// 对一段自由文本形式的候选人画像，在整个目录上做余弦排序，
// 并排除与已申请职位标题模糊相似的条目。
type Finder struct {
	catalog  *JobCatalog
	embedder einoembedding.Embedder
}

// NewFinder 创建检索器。目录与向量模型均为只读共享，Finder 本身无状态。
func NewFinder(catalog *JobCatalog, embedder einoembedding.Embedder) *Finder {
	return &Finder{catalog: catalog, embedder: embedder}
}

// BestMatch 返回画像文本在目录中的最优匹配职位。
// 算法：画像向量化一次；逐条目计算与预计算向量的余弦相似度；
// 标题（去扩展名后）与已申请职位的部分匹配率 >= 阈值的条目被排除；
// 幸存条目取相似度最高者。全部被排除时返回 NoMatchFoundError，
// 调用方据此给出 "No suitable job found" 哨兵结果。
func (f *Finder) BestMatch(ctx context.Context, profileText, appliedPosition string) (*types.BestFit, error) {
	if f.catalog == nil || f.catalog.Len() == 0 {
		return nil, &EmptyCatalogError{Reason: "no jobs loaded"}
	}

	profileVector, err := embedding.EmbedText(ctx, f.embedder, profileText)
	if err != nil {
		return nil, &matcher.EmbeddingServiceError{Err: err}
	}

	bestSimilarity := 0.0
	bestTitle := ""
	found := false
	for _, entry := range f.catalog.Entries() {
		title := StripExtension(entry.Title)
		if fuzzymatch.TitlesSimilar(title, appliedPosition, f.catalog.fuzzyThreshold) {
			continue
		}
		similarity := embedding.CosineSimilarity(profileVector, entry.Embedding)
		if !found || similarity > bestSimilarity {
			bestSimilarity = similarity
			bestTitle = title
			found = true
		}
	}

	if !found {
		return nil, &NoMatchFoundError{AppliedPosition: appliedPosition}
	}

	return &types.BestFit{
		JobTitle:        bestTitle,
		MatchPercentage: matcher.Round2(bestSimilarity * 100),
	}, nil
}
