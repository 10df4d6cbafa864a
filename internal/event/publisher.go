// Package event publishes membership domain events for other systems to
// consume. Publishing is fire-and-forget: a failed publish is logged and
// never rolls back the mutation that produced it.
package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Channel is the redis pub/sub channel membership events are published on
const Channel = "studiohub.membership"

// Event types
const (
	TypeMemberJoined        = "member.joined"
	TypeMemberRemoved       = "member.removed"
	TypeMemberLeft          = "member.left"
	TypeInviteAccepted      = "invite.accepted"
	TypeRequestApproved     = "request.approved"
	TypeApplicationApproved = "application.approved"
)

// Event is a membership change notification
type Event struct {
	Type     string    `json:"type"`
	StudioID int64     `json:"studio_id"`
	UserID   int64     `json:"user_id"`
	Role     string    `json:"role,omitempty"`
	At       time.Time `json:"at"`
}

// Publisher delivers domain events to interested consumers
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// RedisPublisher publishes events as JSON on a redis channel
type RedisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher creates a publisher backed by the given redis client
func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) Publish(ctx context.Context, e Event) error {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}

	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := p.client.Publish(ctx, Channel, payload).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	return nil
}

// LogPublisher writes events to the application log. It is the fallback
// when no redis address is configured.
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher creates a log-backed publisher
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, e Event) error {
	p.logger.Info("domain event",
		zap.String("type", e.Type),
		zap.Int64("studio_id", e.StudioID),
		zap.Int64("user_id", e.UserID),
		zap.String("role", e.Role),
	)
	return nil
}
