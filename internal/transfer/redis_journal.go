package transfer

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const journalKeyPrefix = "transfer:pending:"

// RedisJournal stores pending-compensation markers in Redis so they survive
// a process crash between debit and credit.
type RedisJournal struct {
	client *redis.Client
}

// NewRedisJournal builds a journal backed by Redis.
func NewRedisJournal(client *redis.Client) *RedisJournal {
	return &RedisJournal{client: client}
}

// Open persists the marker. No TTL: an abandoned marker must stay visible
// until an operator resolves it.
func (j *RedisJournal) Open(ctx context.Context, entry JournalEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return j.client.Set(ctx, journalKeyPrefix+entry.ID, payload, 0).Err()
}

// Close removes the marker once the credit or compensation has committed.
func (j *RedisJournal) Close(ctx context.Context, id string) error {
	return j.client.Del(ctx, journalKeyPrefix+id).Err()
}

// Pending scans for markers left open by crashed or unrecovered transfers.
func (j *RedisJournal) Pending(ctx context.Context) ([]JournalEntry, error) {
	var (
		entries []JournalEntry
		cursor  uint64
	)
	for {
		keys, next, err := j.client.Scan(ctx, cursor, journalKeyPrefix+"*", 100).Result()
		if err != nil {
			return nil, err
		}
		for _, key := range keys {
			raw, err := j.client.Get(ctx, key).Result()
			if err != nil {
				if err == redis.Nil {
					continue
				}
				return nil, err
			}
			var entry JournalEntry
			if err := json.Unmarshal([]byte(raw), &entry); err != nil {
				return nil, err
			}
			entries = append(entries, entry)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return entries, nil
}
