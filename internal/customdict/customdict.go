package customdict

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"

	"spellcheck/internal/dictionary"
)

// DefaultKey is the Redis set holding user words.
const DefaultKey = "custom_dict"

// CustomDict wraps a Redis client to store custom dictionary words.
type CustomDict struct {
	client *redis.Client
	key    string
}

// New creates a new CustomDict with the provided Redis client.
func New(client *redis.Client) *CustomDict {
	return NewWithKey(client, DefaultKey)
}

// NewWithKey stores words under a specific set key, e.g. one per language.
func NewWithKey(client *redis.Client, key string) *CustomDict {
	return &CustomDict{client: client, key: key}
}

// Add inserts a word into the custom dictionary.
func (cd *CustomDict) Add(ctx context.Context, word string) error {
	return cd.client.SAdd(ctx, cd.key, dictionary.Normalize(strings.TrimSpace(word))).Err()
}

// Remove deletes a word from the custom dictionary.
func (cd *CustomDict) Remove(ctx context.Context, word string) error {
	return cd.client.SRem(ctx, cd.key, dictionary.Normalize(strings.TrimSpace(word))).Err()
}

// All returns all words stored in the custom dictionary.
func (cd *CustomDict) All(ctx context.Context) ([]string, error) {
	return cd.client.SMembers(ctx, cd.key).Result()
}
