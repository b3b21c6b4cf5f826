package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spellchain/spellchain-backend/internal/apperror"
	"github.com/spellchain/spellchain-backend/internal/dictionary"
)

const testPunctuation = "-'/ ."

func newTestDictionary() *dictionary.Trie {
	trie := dictionary.NewTrie()
	trie.Insert("cart", "a small vehicle")
	trie.Insert("carts", "plural of cart")
	trie.Insert("at", "preposition")
	trie.Insert("art", "creative work")

	return trie
}

func TestRoom_Join_NumbersAndAutoStart(t *testing.T) {
	// Given: an empty room for two
	room := NewRoom("ABC123", 2, 2, testPunctuation)

	// When: the first session joins
	first, err := room.Join("session-1")

	// Then: it becomes player #1 in a waiting room
	require.NoError(t, err)
	require.Equal(t, 1, first.Player)
	assert.False(t, first.AutoStarted)
	assert.False(t, first.Snapshot.Started)
	assert.Equal(t, 1, first.Snapshot.Joined)

	// When: the last seat fills
	second, err := room.Join("session-2")

	// Then: the game starts on its own with player #1 on turn
	require.NoError(t, err)
	require.Equal(t, 2, second.Player)
	assert.True(t, second.AutoStarted)
	assert.True(t, second.Snapshot.Started)
	assert.Equal(t, 1, second.Snapshot.Current)
	assert.ElementsMatch(t, []string{"session-1", "session-2"}, second.Recipients)
}

func TestRoom_Join_ReusesVacatedSeat(t *testing.T) {
	// Given: a lobby of three where player #2 left
	room := NewRoom("ABC123", 4, 2, testPunctuation)

	for _, sessionID := range []string{"session-1", "session-2", "session-3"} {
		_, err := room.Join(sessionID)
		require.NoError(t, err)
	}

	_, err := room.RemoveSession("session-2")
	require.NoError(t, err)

	// When: a new session joins
	result, err := room.Join("session-4")

	// Then: it takes the lowest free number
	require.NoError(t, err)
	require.Equal(t, 2, result.Player)
}

func TestRoom_Join_Full(t *testing.T) {
	// Given: a started room at capacity
	room := NewRoom("ABC123", 2, 2, testPunctuation)

	_, err := room.Join("session-1")
	require.NoError(t, err)
	_, err = room.Join("session-2")
	require.NoError(t, err)

	// Then: further joins are rejected
	_, err = room.Join("session-3")
	require.ErrorIs(t, err, apperror.ErrAlreadyStarted)
}

func TestRoom_Start(t *testing.T) {
	// Given: a room for four with two players waiting
	room := NewRoom("ABC123", 4, 2, testPunctuation)

	_, err := room.Join("session-1")
	require.NoError(t, err)
	_, err = room.Join("session-2")
	require.NoError(t, err)

	// Then: only the host may start
	_, err = room.Start("session-2")
	require.ErrorIs(t, err, apperror.ErrNotHost)

	_, err = room.Start("stranger")
	require.ErrorIs(t, err, apperror.ErrNotInRoom)

	// When: the host starts
	result, err := room.Start("session-1")

	// Then: the game runs with player #1 on turn
	require.NoError(t, err)
	assert.True(t, result.StartedNow)
	assert.True(t, result.Snapshot.Started)
	assert.Equal(t, 1, result.Snapshot.Current)

	// Then: starting again is a no-op
	again, err := room.Start("session-1")
	require.NoError(t, err)
	assert.False(t, again.StartedNow)
}

func TestRoom_Start_NotEnoughPlayers(t *testing.T) {
	room := NewRoom("ABC123", 4, 2, testPunctuation)

	_, err := room.Join("session-1")
	require.NoError(t, err)

	_, err = room.Start("session-1")
	require.ErrorIs(t, err, apperror.ErrNotEnoughPlayers)
}

func TestRoom_ApplyCharacter_ScoringRound(t *testing.T) {
	// Given: a running two-player game and a dictionary around "cart"
	dict := newTestDictionary()
	room := NewRoom("ABC123", 2, 2, testPunctuation)

	_, err := room.Join("session-1")
	require.NoError(t, err)
	_, err = room.Join("session-2")
	require.NoError(t, err)

	sessionFor := map[int]string{1: "session-1", 2: "session-2"}

	// When: players alternate spelling c-a-r
	for i, ch := range []string{"c", "a", "r"} {
		player := i%2 + 1

		move, applyErr := room.ApplyCharacter(dict, sessionFor[player], ch)
		require.NoError(t, applyErr)
		assert.Empty(t, move.CompletedWord)
		assert.False(t, move.RoundOver)
	}

	// When: player 2 plays the "t" completing "cart"
	move, err := room.ApplyCharacter(dict, "session-2", "t")

	// Then: the word scores floor((4+1)/2) = 2 points for player 2
	require.NoError(t, err)
	require.Equal(t, "cart", move.CompletedWord)
	require.Equal(t, 2, move.Points)
	assert.False(t, move.AlreadyUsed)

	// Then: "cart" still extends to "carts", so the round continues
	assert.False(t, move.RoundOver)
	assert.Equal(t, "cart", move.Snapshot.Sequence)
	assert.Equal(t, 1, move.Snapshot.Round)
	assert.Equal(t, 2, move.Snapshot.Scores[2])
	assert.Equal(t, 1, move.Snapshot.Current)

	// When: player 1 plays a dead-end "z"
	move, err = room.ApplyCharacter(dict, "session-1", "z")

	// Then: "cartz" is not a prefix and the round resets
	require.NoError(t, err)
	require.Equal(t, "cartz", move.Candidate)
	assert.True(t, move.RoundOver)
	assert.Empty(t, move.Snapshot.Sequence)
	assert.Equal(t, 2, move.Snapshot.Round)
}

func TestRoom_ApplyCharacter_SingleCharacterWord(t *testing.T) {
	// Given: a dictionary where "a" is a word with extensions
	dict := dictionary.NewTrie()
	dict.Insert("a", "an article")
	dict.Insert("at", "preposition")

	room := NewRoom("ABC123", 2, 2, testPunctuation)
	_, err := room.Join("session-1")
	require.NoError(t, err)
	_, err = room.Join("session-2")
	require.NoError(t, err)

	// When: the opening character completes it
	move, err := room.ApplyCharacter(dict, "session-1", "a")

	// Then: a one-letter word still scores the minimum point
	require.NoError(t, err)
	require.Equal(t, "a", move.CompletedWord)
	require.Equal(t, 1, move.Points)
}

func TestRoom_ApplyCharacter_AlreadyUsedWord(t *testing.T) {
	// Given: "at" was already completed once
	dict := dictionary.NewTrie()
	dict.Insert("at", "preposition")
	dict.Insert("ate", "past of eat")

	room := NewRoom("ABC123", 2, 2, testPunctuation)
	_, err := room.Join("session-1")
	require.NoError(t, err)
	_, err = room.Join("session-2")
	require.NoError(t, err)

	_, err = room.ApplyCharacter(dict, "session-1", "a")
	require.NoError(t, err)
	first, err := room.ApplyCharacter(dict, "session-2", "t")
	require.NoError(t, err)
	require.Equal(t, "at", first.CompletedWord)
	require.Equal(t, 1, first.Points)

	// When: a dead end resets the round and the sequence spells "at" again
	move, err := room.ApplyCharacter(dict, "session-1", "x")
	require.NoError(t, err)
	require.True(t, move.RoundOver)

	_, err = room.ApplyCharacter(dict, "session-2", "a")
	require.NoError(t, err)
	move, err = room.ApplyCharacter(dict, "session-1", "t")

	// Then: the repeat is flagged and earns nothing
	require.NoError(t, err)
	assert.True(t, move.AlreadyUsed)
	require.Equal(t, "at", move.CompletedWord)
	require.Equal(t, 0, move.Points)
	assert.Equal(t, 1, move.Snapshot.Scores[2])
	assert.Equal(t, 0, move.Snapshot.Scores[1])
}

func TestRoom_ApplyCharacter_Errors(t *testing.T) {
	dict := newTestDictionary()
	room := NewRoom("ABC123", 4, 2, testPunctuation)

	_, err := room.Join("session-1")
	require.NoError(t, err)

	// Then: no moves before the game starts
	_, err = room.ApplyCharacter(dict, "session-1", "c")
	require.ErrorIs(t, err, apperror.ErrNotStarted)

	_, err = room.Join("session-2")
	require.NoError(t, err)
	_, err = room.Start("session-1")
	require.NoError(t, err)

	// Then: only the player on turn may move
	_, err = room.ApplyCharacter(dict, "session-2", "c")
	require.ErrorIs(t, err, apperror.ErrNotYourTurn)

	// Then: strangers are turned away
	_, err = room.ApplyCharacter(dict, "stranger", "c")
	require.ErrorIs(t, err, apperror.ErrNotInRoom)

	// Then: input must be a single letter or allowed punctuation
	for _, input := range []string{"", "ab", "7", "!"} {
		_, err = room.ApplyCharacter(dict, "session-1", input)
		require.ErrorIs(t, err, apperror.ErrInvalidCharacter, "input %q", input)
	}

	// Then: a rejected character does not consume the turn
	move, err := room.ApplyCharacter(dict, "session-1", "C")
	require.NoError(t, err)
	require.Equal(t, "c", move.Char)
}

func TestRoom_RemoveSession_LobbyHost(t *testing.T) {
	// Given: a waiting lobby with a host and a guest
	room := NewRoom("ABC123", 4, 2, testPunctuation)

	_, err := room.Join("session-1")
	require.NoError(t, err)
	_, err = room.Join("session-2")
	require.NoError(t, err)

	// When: the host leaves
	dep, err := room.RemoveSession("session-1")

	// Then: the room closes for everyone
	require.NoError(t, err)
	require.Equal(t, 1, dep.Player)
	assert.False(t, dep.WasStarted)
	assert.True(t, dep.Closed)
	assert.ElementsMatch(t, []string{"session-1", "session-2"}, dep.Recipients)

	// Then: the closed room rejects everything afterwards
	_, err = room.Join("session-3")
	require.ErrorIs(t, err, apperror.ErrRoomNotFound)
}

func TestRoom_RemoveSession_LobbyGuest(t *testing.T) {
	// Given: a waiting lobby with three players
	room := NewRoom("ABC123", 4, 2, testPunctuation)

	for _, sessionID := range []string{"session-1", "session-2", "session-3"} {
		_, err := room.Join(sessionID)
		require.NoError(t, err)
	}

	// When: a guest leaves
	dep, err := room.RemoveSession("session-2")

	// Then: only the seat is freed
	require.NoError(t, err)
	assert.False(t, dep.Closed)
	assert.Equal(t, 2, dep.Snapshot.Joined)
	assert.Equal(t, 0, room.PlayerNumber("session-2"))
}

func TestRoom_RemoveSession_ActiveGame(t *testing.T) {
	// Given: a running game with a point on the board
	dict := newTestDictionary()
	room := NewRoom("ABC123", 2, 2, testPunctuation)

	_, err := room.Join("session-1")
	require.NoError(t, err)
	_, err = room.Join("session-2")
	require.NoError(t, err)

	_, err = room.ApplyCharacter(dict, "session-1", "a")
	require.NoError(t, err)
	move, err := room.ApplyCharacter(dict, "session-2", "t")
	require.NoError(t, err)
	require.Equal(t, 1, move.Points)

	// When: any player leaves mid-game
	dep, err := room.RemoveSession("session-2")

	// Then: the game ends and the final snapshot keeps the scores
	require.NoError(t, err)
	assert.True(t, dep.WasStarted)
	assert.True(t, dep.Closed)
	assert.False(t, dep.Snapshot.Started)
	assert.Equal(t, 1, dep.Snapshot.Joined)
	assert.Equal(t, 0, dep.Snapshot.Current)
	assert.Equal(t, 1, dep.Snapshot.Scores[2])
}

func TestRoom_RemoveSession_NotInRoom(t *testing.T) {
	room := NewRoom("ABC123", 4, 2, testPunctuation)

	_, err := room.Join("session-1")
	require.NoError(t, err)

	_, err = room.RemoveSession("stranger")
	require.ErrorIs(t, err, apperror.ErrNotInRoom)
}
