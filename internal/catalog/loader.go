package catalog

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"talent-match-go/internal/embedding"
	"talent-match-go/internal/logger"
	"talent-match-go/internal/storage"
	"talent-match-go/internal/types"

	einoembedding "github.com/cloudwego/eino/components/embedding"
)

// Loader 从外部数据源构建目录输入。
// 目录构建属于带外操作：服务启动时执行一次，之后目录只读。
type Loader struct {
	embedder einoembedding.Embedder
}

// NewLoader 创建目录加载器。embedder 用于补算缺失的向量。
func NewLoader(embedder einoembedding.Embedder) *Loader {
	return &Loader{embedder: embedder}
}

// LoadFromMySQL 从职位表读取全部条目。
// Embedding 列为空的职位按"标题+概述"现场补算向量。
func (l *Loader) LoadFromMySQL(ctx context.Context, db *storage.MySQL) ([]RawRecord, error) {
	postings, err := db.ListJobPostings(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]RawRecord, 0, len(postings))
	for _, posting := range postings {
		record := types.JobRecord{
			"title":             posting.Title,
			"min_experience":    posting.MinExperience,
			"education":         posting.Education,
			"skills":            posting.Skills,
			"preferred":         posting.Preferred,
			"category":          posting.Category,
			"position_overview": posting.PositionOverview,
		}

		var vector []float64
		if len(posting.Embedding) > 0 {
			if err := json.Unmarshal(posting.Embedding, &vector); err != nil {
				return nil, fmt.Errorf("职位 %q 的向量列无法解析: %w", posting.Title, err)
			}
		}
		if len(vector) == 0 {
			text := strings.TrimSpace(posting.Title + " " + posting.PositionOverview)
			vector, err = embedding.EmbedText(ctx, l.embedder, text)
			if err != nil {
				return nil, fmt.Errorf("补算职位 %q 的向量失败: %w", posting.Title, err)
			}
			logger.Info().Str("title", posting.Title).Msg("职位缺少预计算向量，已现场补算")
		}

		records = append(records, RawRecord{
			Record:     record,
			SourceFile: posting.SourceFile,
			Embedding:  vector,
		})
	}
	return records, nil
}

// LoadFromCSVObject 从MinIO中的CSV对象加载目录。
// CSV约定首行为表头，必须包含 filename 与 embedding 列；
// embedding 列为JSON数组文本。其余列原样进入职位记录。
func (l *Loader) LoadFromCSVObject(ctx context.Context, store storage.JobSourceStorage, objectName string) ([]RawRecord, error) {
	data, err := store.DownloadJobsObject(ctx, objectName)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(data))
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("解析CSV对象 %s 失败: %w", objectName, err)
	}
	if len(rows) < 2 {
		return nil, &EmptyCatalogError{Reason: fmt.Sprintf("CSV对象 %s 没有数据行", objectName)}
	}

	header := rows[0]
	embeddingCol, filenameCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.ToLower(name)) {
		case "embedding":
			embeddingCol = i
		case "filename":
			filenameCol = i
		}
	}
	if embeddingCol < 0 {
		return nil, &EmptyCatalogError{Reason: fmt.Sprintf("CSV对象 %s 缺少 embedding 列", objectName)}
	}

	records := make([]RawRecord, 0, len(rows)-1)
	for rowNum, row := range rows[1:] {
		if len(row) != len(header) {
			return nil, fmt.Errorf("CSV对象 %s 第 %d 行列数不一致", objectName, rowNum+2)
		}

		record := make(types.JobRecord, len(header))
		for i, name := range header {
			if i == embeddingCol {
				continue
			}
			record[strings.TrimSpace(name)] = row[i]
		}

		var vector []float64
		if err := json.Unmarshal([]byte(row[embeddingCol]), &vector); err != nil {
			return nil, fmt.Errorf("CSV对象 %s 第 %d 行向量无法解析: %w", objectName, rowNum+2, err)
		}

		sourceFile := ""
		if filenameCol >= 0 {
			sourceFile = row[filenameCol]
			// 原始目录源以文件名充当标题
			if _, hasTitle := record["title"]; !hasTitle {
				record["title"] = sourceFile
			}
		}

		records = append(records, RawRecord{
			Record:     record,
			SourceFile: sourceFile,
			Embedding:  vector,
		})
	}
	return records, nil
}
