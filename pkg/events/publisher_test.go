package events

import (
	"context"
	"testing"

	"football_iq_backend/internal/config"
)

func TestDisabledPublisher(t *testing.T) {
	p, err := NewPublisher(&config.RabbitMQConfig{})
	if err != nil {
		t.Fatalf("NewPublisher: %v", err)
	}
	if p.exchange != "footballiq.events" || p.enabled {
		t.Fatalf("publisher = %+v", p)
	}
	if err := p.Publish(context.Background(), &Event{Type: GameCompleted, UserID: 1}); err != nil {
		t.Fatalf("Publish on disabled publisher: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestMockPublisherCounts(t *testing.T) {
	m := NewMockPublisher()
	ctx := context.Background()
	m.Publish(ctx, &Event{Type: GameCompleted, UserID: 1, Payload: GameCompletedPayload{Score: 30}})
	m.Publish(ctx, &Event{Type: GameCompleted, UserID: 2})
	m.Publish(ctx, &Event{Type: SQLChallengeSolved, UserID: 1, Payload: ChallengeSolvedPayload{ChallengeID: 3, Points: 10}})

	if n := m.Count(GameCompleted); n != 2 {
		t.Fatalf("game events = %d", n)
	}
	if n := m.Count(SQLChallengeSolved); n != 1 {
		t.Fatalf("challenge events = %d", n)
	}
	var _ Publisher = m
	var _ Publisher = (*RabbitPublisher)(nil)
}
