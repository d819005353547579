package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// TicketSequencer hands out ticket sequence numbers. Each call returns a value
// no other call for the same year has received.
type TicketSequencer interface {
	Next(ctx context.Context, year int) (int64, error)
}

type memoryTicketSequencer struct {
	mu     sync.Mutex
	values map[int]int64
}

// NewMemoryTicketSequencer returns a process-local sequencer.
func NewMemoryTicketSequencer() TicketSequencer {
	return &memoryTicketSequencer{values: make(map[int]int64)}
}

func (s *memoryTicketSequencer) Next(ctx context.Context, year int) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[year]++
	return s.values[year], nil
}

const ticketSequenceKeyPrefix = "package:ticket_seq:"

type redisTicketSequencer struct {
	client *redis.Client
}

// NewRedisTicketSequencer shares the sequence across instances through INCR.
func NewRedisTicketSequencer(client *redis.Client) TicketSequencer {
	return &redisTicketSequencer{client: client}
}

func (s *redisTicketSequencer) Next(ctx context.Context, year int) (int64, error) {
	val, err := s.client.Incr(ctx, fmt.Sprintf("%s%d", ticketSequenceKeyPrefix, year)).Result()
	if err != nil {
		return 0, fmt.Errorf("increment ticket sequence: %w", err)
	}
	return val, nil
}

// rowQuerier is the slice of pgxpool.Pool the sequencer needs.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type postgresTicketSequencer struct {
	pool rowQuerier
}

// NewPostgresTicketSequencer keeps one counter row per year.
func NewPostgresTicketSequencer(pool *pgxpool.Pool) TicketSequencer {
	return &postgresTicketSequencer{pool: pool}
}

func (s *postgresTicketSequencer) Next(ctx context.Context, year int) (int64, error) {
	const query = `
        INSERT INTO ticket_sequences (year, value) VALUES ($1, 1)
        ON CONFLICT (year) DO UPDATE SET value = ticket_sequences.value + 1
        RETURNING value`
	var val int64
	if err := s.pool.QueryRow(ctx, query, year).Scan(&val); err != nil {
		return 0, fmt.Errorf("advance ticket sequence: %w", err)
	}
	return val, nil
}
