package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"talent-match-go/internal/config"
	"talent-match-go/internal/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

// MessageQueue 消息队列接口
type MessageQueue interface {
	// PublishJSON 发布JSON格式消息
	PublishJSON(ctx context.Context, exchange, routingKey string, payload interface{}, persistent bool) error

	// PublishMatchRequest 发布异步打分请求，消息ID缺失时自动补齐
	PublishMatchRequest(ctx context.Context, msg *MatchRequestMessage) error

	// ConsumeMatchRequests 消费异步打分请求，handler 返回 error 时 nack 重回队列
	ConsumeMatchRequests(ctx context.Context, handler func(ctx context.Context, msg *MatchRequestMessage) error) error

	// Close 关闭连接
	Close() error
}

var _ MessageQueue = (*RabbitMQ)(nil)

// RabbitMQ 提供消息队列功能。
type RabbitMQ struct {
	conn         *amqp.Connection
	publishCh    *amqp.Channel
	publishMutex sync.Mutex
	cfg          *config.RabbitMQConfig
}

// NewRabbitMQ 创建RabbitMQ客户端并声明匹配事件拓扑。
func NewRabbitMQ(cfg *config.RabbitMQConfig) (*RabbitMQ, error) {
	if cfg == nil {
		return nil, fmt.Errorf("RabbitMQ配置不能为空")
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("RabbitMQ URL配置不能为空")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("无法连接到RabbitMQ服务器 (%s): %w", cfg.URL, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("创建RabbitMQ通道失败: %w", err)
	}

	mq := &RabbitMQ{conn: conn, publishCh: ch, cfg: cfg}
	if err := mq.ensureTopology(ch); err != nil {
		conn.Close()
		return nil, err
	}
	return mq, nil
}

// ensureTopology 声明匹配事件交换机、请求队列与绑定。
func (r *RabbitMQ) ensureTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(r.cfg.MatchEventsExchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("声明交换机 %s 失败: %w", r.cfg.MatchEventsExchange, err)
	}
	if _, err := ch.QueueDeclare(r.cfg.MatchRequestQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("声明队列 %s 失败: %w", r.cfg.MatchRequestQueue, err)
	}
	if err := ch.QueueBind(r.cfg.MatchRequestQueue, r.cfg.MatchNeededRoutingKey, r.cfg.MatchEventsExchange, false, nil); err != nil {
		return fmt.Errorf("绑定队列 %s 失败: %w", r.cfg.MatchRequestQueue, err)
	}
	return nil
}

// PublishJSON 发布JSON格式消息。
func (r *RabbitMQ) PublishJSON(ctx context.Context, exchange, routingKey string, payload interface{}, persistent bool) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("序列化消息失败: %w", err)
	}

	deliveryMode := amqp.Transient
	if persistent {
		deliveryMode = amqp.Persistent
	}

	r.publishMutex.Lock()
	defer r.publishMutex.Unlock()
	err = r.publishCh.PublishWithContext(ctx, exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: deliveryMode,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("发布消息失败 (exchange=%s, key=%s): %w", exchange, routingKey, err)
	}
	return nil
}

// PublishMatchRequest 把打分请求发布到匹配事件交换机（持久化投递）。
// 未携带消息ID时自动补齐，消费端据此做幂等去重。
func (r *RabbitMQ) PublishMatchRequest(ctx context.Context, msg *MatchRequestMessage) error {
	msg.EnsureMessageID()
	return r.PublishJSON(ctx, r.cfg.MatchEventsExchange, r.cfg.MatchNeededRoutingKey, msg, true)
}

// ConsumeMatchRequests 启动打分请求消费循环，阻塞直到 ctx 取消或通道关闭。
func (r *RabbitMQ) ConsumeMatchRequests(ctx context.Context, handler func(ctx context.Context, msg *MatchRequestMessage) error) error {
	ch, err := r.conn.Channel()
	if err != nil {
		return fmt.Errorf("创建消费通道失败: %w", err)
	}
	defer ch.Close()

	if r.cfg.PrefetchCount > 0 {
		if err := ch.Qos(r.cfg.PrefetchCount, 0, false); err != nil {
			return fmt.Errorf("设置prefetch失败: %w", err)
		}
	}

	deliveries, err := ch.Consume(r.cfg.MatchRequestQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("订阅队列 %s 失败: %w", r.cfg.MatchRequestQueue, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("消费通道已关闭")
			}
			var msg MatchRequestMessage
			if err := json.Unmarshal(delivery.Body, &msg); err != nil {
				logger.Warn().Err(err).Msg("丢弃无法解析的打分请求消息")
				_ = delivery.Nack(false, false) // 格式错误的消息不重回队列
				continue
			}
			if err := handler(ctx, &msg); err != nil {
				logger.Error().Err(err).Str("message_id", msg.MessageID).Msg("处理打分请求失败")
				_ = delivery.Nack(false, true)
				continue
			}
			_ = delivery.Ack(false)
		}
	}
}

// Close 关闭连接。
func (r *RabbitMQ) Close() error {
	if r.publishCh != nil {
		_ = r.publishCh.Close()
	}
	return r.conn.Close()
}
