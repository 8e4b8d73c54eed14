package catalog

import "fmt"

// EmptyCatalogError 表示职位目录不可用：没有任何条目，或检测不到标题字段。
// 这是结构性前置条件被破坏，必须带类型上抛，不能折算成 0 分结果。
type EmptyCatalogError struct {
	Reason string
}

func (e *EmptyCatalogError) Error() string {
	return fmt.Sprintf("job catalog unavailable: %s", e.Reason)
}

// NoMatchFoundError 表示目录中每一个条目都被"已申请职位"过滤器排除。
// 与"真实的低相似度匹配"是两种不同情况，调用方据此返回哨兵结果。
type NoMatchFoundError struct {
	AppliedPosition string
}

func (e *NoMatchFoundError) Error() string {
	return fmt.Sprintf("all catalog entries excluded by applied-position filter: %q", e.AppliedPosition)
}
