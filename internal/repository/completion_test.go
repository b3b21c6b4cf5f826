package repository

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spellchain/spellchain-backend/testing/suite"
)

func TestCompletionRepository(t *testing.T) {
	ctx, s := suite.New(t)

	repo := NewCompletionRepository(s.Storage)

	// Given: completions recorded across several games
	require.NoError(t, repo.RecordCompletion(ctx, "cart", 2))
	require.NoError(t, repo.RecordCompletion(ctx, "at", 1))
	require.NoError(t, repo.RecordCompletion(ctx, "cart", 2))
	require.NoError(t, repo.RecordCompletion(ctx, "elephant", 4))

	// When: the leaderboard is read
	words, err := repo.TopWords(ctx, 10)

	// Then: points accumulate per word and rows come best first
	require.NoError(t, err)
	require.Equal(t, []WordScore{
		{Word: "elephant", Points: 4},
		{Word: "cart", Points: 4},
		{Word: "at", Points: 1},
	}, words)
}

func TestCompletionRepository_TopWords_Limit(t *testing.T) {
	ctx, s := suite.New(t)

	repo := NewCompletionRepository(s.Storage)

	require.NoError(t, repo.RecordCompletion(ctx, "cart", 3))
	require.NoError(t, repo.RecordCompletion(ctx, "at", 1))

	// When: the caller asks for a single row
	words, err := repo.TopWords(ctx, 1)

	// Then: only the best word comes back
	require.NoError(t, err)
	require.Equal(t, []WordScore{{Word: "cart", Points: 3}}, words)

	// Then: a non-positive limit falls back to the default
	words, err = repo.TopWords(ctx, 0)
	require.NoError(t, err)
	require.Len(t, words, 2)
}
