// Package events は注文ライフサイクルのイベントをkafkaへ流す。
// ブローカー未設定なら何もしないパブリッシャになる。配信はベストエフォートで、
// 失敗してもリクエスト処理は失敗させない。
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	EventOrderCreated    = "order.created"
	EventPaymentCaptured = "payment.captured"
	EventPaymentFailed   = "payment.failed"
	EventOrderCanceled   = "order.canceled"
)

type Event struct {
	EventID   string         `json:"event_id"`
	Type      string         `json:"type"`
	OrderID   int64          `json:"order_id"`
	UserID    int64          `json:"user_id"`
	CreatedAt time.Time      `json:"created_at"`
	Payload   map[string]any `json:"payload,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, eventType string, orderID int64, userID int64, payload map[string]any)
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher はカンマ区切りのブローカーリストからパブリッシャを作る。
// 空ならnil writerのまま返し、Publishはno-opになる。
func NewKafkaPublisher(brokersCSV string, topic string) *KafkaPublisher {
	var brokers []string
	for _, b := range strings.Split(brokersCSV, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		return &KafkaPublisher{}
	}

	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *KafkaPublisher) Enabled() bool {
	return p.writer != nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, eventType string, orderID int64, userID int64, payload map[string]any) {
	if p.writer == nil {
		return
	}

	ev := Event{
		EventID:   uuid.NewString(),
		Type:      eventType,
		OrderID:   orderID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
		Payload:   payload,
	}

	data, err := json.Marshal(ev)
	if err != nil {
		slog.Error("event marshal failed", "type", eventType, "err", err)
		return
	}

	// 注文IDをキーにして同一注文のイベント順序を保つ
	key := strconv.FormatInt(orderID, 10)
	msg := kafka.Message{Key: []byte(key), Value: data, Time: ev.CreatedAt}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		slog.Error("event publish failed", "type", eventType, "order_id", orderID, "err", err)
	}
}

func (p *KafkaPublisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// テストやイベント無効構成で使うno-op実装
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, int64, int64, map[string]any) {}
