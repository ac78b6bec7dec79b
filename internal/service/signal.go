package service

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/totegamma/familyone/internal/domain"
	"github.com/totegamma/familyone/internal/usecase"
)

var _ usecase.EventPublisher = (*SignalService)(nil)

// SignalService publishes audit records on redis pub/sub.
type SignalService struct {
	rdb *redis.Client
}

func NewSignalService(redisClient *redis.Client) *SignalService {
	return &SignalService{
		rdb: redisClient,
	}
}

func (s *SignalService) Publish(ctx context.Context, channel string, record domain.BackupAuditRecord) error {
	if s.rdb == nil {
		return nil
	}

	jsonstr, err := json.Marshal(record)
	if err != nil {
		return err
	}

	return s.rdb.Publish(ctx, channel, jsonstr).Err()
}

// Subscribe streams audit records published on channel until ctx is done.
func (s *SignalService) Subscribe(ctx context.Context, channel string) (<-chan domain.BackupAuditRecord, error) {
	if s.rdb == nil {
		return nil, nil
	}

	pubsub := s.rdb.Subscribe(ctx, channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, err
	}

	out := make(chan domain.BackupAuditRecord)
	go func() {
		defer close(out)
		defer pubsub.Close()
		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var record domain.BackupAuditRecord
				if err := json.Unmarshal([]byte(msg.Payload), &record); err != nil {
					continue
				}
				select {
				case out <- record:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
