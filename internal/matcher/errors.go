package matcher

import "fmt"

// InputShapeError 表示输入记录无法归一化为期望的映射形状。
// 可选字段的缺失或脏数据不会触发此错误，只有结构性问题才会。
type InputShapeError struct {
	Reason string
}

func (e *InputShapeError) Error() string {
	return fmt.Sprintf("input record cannot be normalized: %s", e.Reason)
}

// EmbeddingServiceError 表示向量化后端不可用或调用失败。
// 此类错误必须带类型向上传播，绝不能被折算成 0 分——
// 静默的 0 分与"真实的低匹配度"无法区分。
type EmbeddingServiceError struct {
	Err error
}

func (e *EmbeddingServiceError) Error() string {
	return fmt.Sprintf("embedding service failed: %v", e.Err)
}

func (e *EmbeddingServiceError) Unwrap() error {
	return e.Err
}
