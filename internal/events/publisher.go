package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	ChannelQuestionReviewed       = "question_reviewed"
	ChannelMockInterviewCompleted = "mock_interview_completed"
)

// Envelope wraps every published payload.
type Envelope struct {
	ID         string          `json:"id"`
	Channel    string          `json:"channel"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload"`
}

// QuestionReviewed is published after a review batch commits.
type QuestionReviewed struct {
	OperatorID  uint         `json:"operatorId"`
	Status      int          `json:"status"`
	QuestionIDs []uint       `json:"questionIds"`
	Deltas      map[uint]int `json:"categoryDeltas"`
}

// MockInterviewCompleted is published after a session is scored.
type MockInterviewCompleted struct {
	SessionID  uint  `json:"sessionId"`
	UserID     uint  `json:"userId"`
	Score      int   `json:"score"`
	DurationMs int64 `json:"durationMs"`
}

// Publisher delivers domain events after their transaction commits.
// Delivery is best effort; a failed publish never undoes the change.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload any) error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }

type RedisPublisher struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewRedisPublisher(rdb *redis.Client, logger *zap.Logger) *RedisPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisPublisher{rdb: rdb, logger: logger}
}

func (p *RedisPublisher) Publish(ctx context.Context, channel string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	env := Envelope{
		ID:         uuid.New().String(),
		Channel:    channel,
		OccurredAt: time.Now().UTC(),
		Payload:    body,
	}
	msg, err := json.Marshal(env)
	if err != nil {
		return err
	}
	if err := p.rdb.Publish(ctx, channel, msg).Err(); err != nil {
		p.logger.Warn("failed to publish event", zap.String("channel", channel), zap.Error(err))
		return err
	}
	return nil
}

// PingContext reports whether the redis server is reachable.
func (p *RedisPublisher) PingContext(ctx context.Context) error {
	return p.rdb.Ping(ctx).Err()
}

// Subscribe decodes envelopes from channel until ctx is done, calling fn
// for each one.
func Subscribe(ctx context.Context, rdb *redis.Client, channel string, fn func(Envelope)) error {
	sub := rdb.Subscribe(ctx, channel)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var env Envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				continue
			}
			fn(env)
		}
	}
}

// LogEvents subscribes to every domain channel and logs each envelope
// until ctx is done.
func LogEvents(ctx context.Context, rdb *redis.Client, logger *zap.Logger) {
	for _, channel := range []string{ChannelQuestionReviewed, ChannelMockInterviewCompleted} {
		go func(channel string) {
			err := Subscribe(ctx, rdb, channel, func(env Envelope) {
				logger.Info("domain event",
					zap.String("channel", env.Channel),
					zap.String("id", env.ID),
					zap.ByteString("payload", env.Payload))
			})
			if err != nil && ctx.Err() == nil {
				logger.Warn("event subscriber stopped", zap.String("channel", channel), zap.Error(err))
			}
		}(channel)
	}
}
