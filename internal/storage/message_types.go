package storage

import "github.com/google/uuid"

// MatchRequestMessage 异步打分请求消息。
// 由外部系统发布到 match 事件交换机，消费者打分后落库。
type MatchRequestMessage struct {
	MessageID       string            `json:"message_id"`       // 幂等去重用
	CandidateRef    string            `json:"candidate_ref"`    // 候选人在外部系统中的引用
	Candidate       map[string]string `json:"candidate"`        // 候选人档案字段
	AppliedPosition string            `json:"applied_position"` // 申请的职位标题
}

// EnsureMessageID 为消息补齐唯一标识；已携带ID时原样保留。
// 发布路径调用此方法，保证消费端总能拿到可做幂等去重的ID。
func (m *MatchRequestMessage) EnsureMessageID() string {
	if m.MessageID == "" {
		m.MessageID = uuid.NewString()
	}
	return m.MessageID
}
