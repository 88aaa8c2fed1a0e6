package events

import (
	"context"
	"encoding/json"
	"fmt"
	"football_iq_backend/internal/config"
	"football_iq_backend/pkg/logger"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type EventType string

const (
	GameCompleted      EventType = "game.completed"
	SQLChallengeSolved EventType = "sql.challenge_solved"
)

// Event 发布到 footballiq.events 的消息体
type Event struct {
	Type       EventType   `json:"type"`
	UserID     uint        `json:"userId"`
	OccurredAt time.Time   `json:"occurredAt"`
	Payload    interface{} `json:"payload"`
}

type GameCompletedPayload struct {
	SessionID      uint `json:"sessionId"`
	Score          int  `json:"score"`
	TotalQuestions int  `json:"totalQuestions"`
	CorrectAnswers int  `json:"correctAnswers"`
	Accuracy       int  `json:"accuracy"`
}

type ChallengeSolvedPayload struct {
	ChallengeID int `json:"challengeId"`
	Points      int `json:"points"`
}

type Publisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

// RabbitPublisher 未配置 URI 时不连接 broker，Publish 直接返回
type RabbitPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	enabled  bool
}

func NewPublisher(cfg *config.RabbitMQConfig) (*RabbitPublisher, error) {
	exchange := cfg.Exchange
	if exchange == "" {
		exchange = "footballiq.events"
	}
	if cfg.URI == "" {
		logger.Log.Info("RabbitMQ URI is empty, event publishing is disabled")
		return &RabbitPublisher{exchange: exchange}, nil
	}

	conn, err := amqp.Dial(cfg.URI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}
	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	logger.Log.Info("Event publisher initialized", zap.String("exchange", exchange))
	return &RabbitPublisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		enabled:  true,
	}, nil
}

func (p *RabbitPublisher) Publish(ctx context.Context, event *Event) error {
	if !p.enabled {
		return nil
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// amqp channel 不是并发安全的
	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.channel.PublishWithContext(ctx,
		p.exchange,
		string(event.Type),
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
			Body:         body,
			Headers: amqp.Table{
				"event_type": string(event.Type),
				"user_id":    int64(event.UserID),
			},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	logger.Log.Debug("Published event", zap.String("type", string(event.Type)), zap.Uint("userId", event.UserID))
	return nil
}

func (p *RabbitPublisher) Close() error {
	if !p.enabled {
		return nil
	}
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			logger.Log.Warn("Error closing RabbitMQ channel", zap.Error(err))
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("error closing RabbitMQ connection: %w", err)
		}
	}
	return nil
}

// MockPublisher 测试用，记录发布过的事件
type MockPublisher struct {
	mu     sync.Mutex
	Events []Event
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{Events: make([]Event, 0)}
}

func (m *MockPublisher) Publish(ctx context.Context, event *Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, *event)
	return nil
}

func (m *MockPublisher) Close() error {
	return nil
}

func (m *MockPublisher) Count(t EventType) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Events {
		if e.Type == t {
			n++
		}
	}
	return n
}
