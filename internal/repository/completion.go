package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const leaderboardKey = "spellchain:completions"

// WordScore is one leaderboard row: a completed word and the points it has
// earned across all games since the key was created.
type WordScore struct {
	Word   string `json:"word"`
	Points int    `json:"points"`
}

type CompletionRepository interface {
	RecordCompletion(ctx context.Context, word string, points int) error
	TopWords(ctx context.Context, limit int) ([]WordScore, error)
}

type dbCompletion struct {
	client *redis.Client
}

func NewCompletionRepository(client *redis.Client) CompletionRepository {
	return &dbCompletion{
		client: client,
	}
}

// RecordCompletion accumulates the points a word earned into the global
// sorted set.
func (that *dbCompletion) RecordCompletion(ctx context.Context, word string, points int) error {
	err := that.client.ZIncrBy(ctx, leaderboardKey, float64(points), word).Err()
	if err != nil {
		return fmt.Errorf("failed to record completion: %w", err)
	}

	return nil
}

// TopWords returns the highest scoring completed words, best first.
func (that *dbCompletion) TopWords(ctx context.Context, limit int) ([]WordScore, error) {
	if limit <= 0 {
		limit = 10
	}

	entries, err := that.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}

	words := make([]WordScore, 0, len(entries))
	for _, entry := range entries {
		word, ok := entry.Member.(string)
		if !ok {
			continue
		}

		words = append(words, WordScore{Word: word, Points: int(entry.Score)})
	}

	return words, nil
}
