package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubJobSource 返回固定字节的对象存储桩。
type stubJobSource struct {
	data map[string][]byte
}

func (s *stubJobSource) DownloadJobsObject(_ context.Context, objectName string) ([]byte, error) {
	data, ok := s.data[objectName]
	if !ok {
		return nil, errors.New("object not found: " + objectName)
	}
	return data, nil
}

func TestLoadFromCSVObject(t *testing.T) {
	csvData := []byte("filename,skills,embedding\n" +
		"Backend Engineer.pdf,\"Go, MySQL\",\"[1, 0]\"\n" +
		"Product Designer.pdf,Figma,\"[0, 1]\"\n")
	source := &stubJobSource{data: map[string][]byte{"embeddings.csv": csvData}}

	loader := NewLoader(nil)
	records, err := loader.LoadFromCSVObject(context.Background(), source, "embeddings.csv")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Backend Engineer.pdf", records[0].SourceFile)
	assert.Equal(t, "Backend Engineer.pdf", records[0].Record["title"], "缺少标题列时以文件名充当标题")
	assert.Equal(t, "Go, MySQL", records[0].Record["skills"])
	assert.Equal(t, []float64{1, 0}, records[0].Embedding)
	assert.Equal(t, []float64{0, 1}, records[1].Embedding)

	// 加载结果可以直接构建目录
	c, err := New(records)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
}

func TestLoadFromCSVObjectHeaderOnly(t *testing.T) {
	source := &stubJobSource{data: map[string][]byte{
		"empty.csv": []byte("filename,embedding\n"),
	}}

	loader := NewLoader(nil)
	_, err := loader.LoadFromCSVObject(context.Background(), source, "empty.csv")
	require.Error(t, err)

	var emptyErr *EmptyCatalogError
	assert.True(t, errors.As(err, &emptyErr), "没有数据行应返回EmptyCatalogError")
}

func TestLoadFromCSVObjectMissingEmbeddingColumn(t *testing.T) {
	source := &stubJobSource{data: map[string][]byte{
		"bad.csv": []byte("filename,skills\nEngineer.pdf,Go\n"),
	}}

	loader := NewLoader(nil)
	_, err := loader.LoadFromCSVObject(context.Background(), source, "bad.csv")
	require.Error(t, err, "缺少embedding列应报错")
}

func TestLoadFromCSVObjectMalformedVector(t *testing.T) {
	source := &stubJobSource{data: map[string][]byte{
		"bad.csv": []byte("filename,embedding\nEngineer.pdf,not-json\n"),
	}}

	loader := NewLoader(nil)
	_, err := loader.LoadFromCSVObject(context.Background(), source, "bad.csv")
	require.Error(t, err, "向量列不是JSON数组应报错")
	assert.Contains(t, err.Error(), "第 2 行", "错误信息应定位到行号")
}

func TestLoadFromCSVObjectDownloadFailure(t *testing.T) {
	loader := NewLoader(nil)
	_, err := loader.LoadFromCSVObject(context.Background(), &stubJobSource{}, "missing.csv")
	require.Error(t, err)
}
