// Package redis provides a Memory backed by a Redis list so that sessions
// can be shared across processes.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"goa.design/braid/memory"
	"goa.design/braid/model"
)

// Store keeps the chat history in a Redis list, one JSON-encoded message per
// element.
type Store struct {
	client redis.UniversalClient
	key    string
}

var _ memory.Memory = (*Store)(nil)

// New builds a store over the given client. All histories created with the
// same key share one session.
func New(client redis.UniversalClient, key string) *Store {
	return &Store{client: client, key: key}
}

// Messages returns the stored history, oldest first.
func (s *Store) Messages(ctx context.Context) ([]model.Message, error) {
	raw, err := s.client.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read history %s: %w", s.key, err)
	}
	msgs := make([]model.Message, len(raw))
	for i, item := range raw {
		if err := json.Unmarshal([]byte(item), &msgs[i]); err != nil {
			return nil, fmt.Errorf("decode message %d of %s: %w", i, s.key, err)
		}
	}
	return msgs, nil
}

// Add appends a single message.
func (s *Store) Add(ctx context.Context, msg model.Message) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	if err := s.client.RPush(ctx, s.key, b).Err(); err != nil {
		return fmt.Errorf("append to history %s: %w", s.key, err)
	}
	return nil
}

// Clear removes the whole history.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clear history %s: %w", s.key, err)
	}
	return nil
}

// Render returns the history as a human-readable transcript.
func (s *Store) Render(ctx context.Context) (string, error) {
	msgs, err := s.Messages(ctx)
	if err != nil {
		return "", err
	}
	return model.Render(msgs), nil
}

// Update appends a completed run in a single transaction so concurrent
// readers never observe a partial run.
func (s *Store) Update(ctx context.Context, input string, steps []model.AgentStep, finalAnswer string) error {
	msgs := memory.RunMessages(input, steps, finalAnswer)
	encoded := make([]any, len(msgs))
	for i, msg := range msgs {
		b, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("encode message: %w", err)
		}
		encoded[i] = b
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		return pipe.RPush(ctx, s.key, encoded...).Err()
	})
	if err != nil {
		return fmt.Errorf("append run to history %s: %w", s.key, err)
	}
	return nil
}
