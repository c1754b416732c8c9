package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis publishes each report as JSON to a Redis server. Reports are
// appended to the list Key and published on the channel Key, so that
// both late readers and live subscribers can follow a run.
type Redis struct {
	client  *redis.Client
	key     string
	timeout time.Duration
}

// NewRedis returns a new Redis Tracker connected to the server at addr.
// Reports are stored under "godqn:<runID>".
func NewRedis(addr, runID string) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{
			Addr:        addr,
			DialTimeout: time.Second,
		}),
		key:     "godqn:" + runID,
		timeout: 5 * time.Second,
	}
}

// Key returns the list key and channel that reports are sent to
func (r *Redis) Key() string {
	return r.key
}

// Ping checks that the server is reachable
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Track sends the report to the server
func (r *Redis) Track(report Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("track: could not marshal report: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.client.RPush(ctx, r.key, data).Err(); err != nil {
		return fmt.Errorf("track: could not store report: %w", err)
	}
	if err := r.client.Publish(ctx, r.key, data).Err(); err != nil {
		return fmt.Errorf("track: could not publish report: %w", err)
	}
	return nil
}

// Reports reads back all reports stored for the run
func (r *Redis) Reports(ctx context.Context) ([]Report, error) {
	data, err := r.client.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("reports: could not read reports: %w", err)
	}

	reports := make([]Report, len(data))
	for i, d := range data {
		if err := json.Unmarshal([]byte(d), &reports[i]); err != nil {
			return nil, fmt.Errorf("reports: could not decode report %d: %w",
				i, err)
		}
	}
	return reports, nil
}

// Save closes the connection to the server
func (r *Redis) Save() error {
	return r.client.Close()
}
