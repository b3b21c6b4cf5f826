package entity

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/spellchain/spellchain-backend/internal/apperror"
)

// Dictionary gates every move: exact-word, prefix and definition lookups.
// Implementations must be safe for concurrent readers.
type Dictionary interface {
	IsWord(s string) bool
	HasPrefix(s string) bool
	Definition(s string) string
}

// Room is a single game's authoritative state. Every mutation runs under the
// room's own mutex, end-to-end, and returns the snapshot taken inside the
// same critical section. Broadcasting happens after the lock is released.
type Room struct {
	mu sync.Mutex

	code        string
	capacity    int
	minPlayers  int
	punctuation string

	players  map[int]*Player
	scores   map[int]int
	words    map[int]map[string]struct{}
	sequence string
	round    int
	current  int
	started  bool
	closed   bool
}

func NewRoom(code string, capacity, minPlayers int, punctuation string) *Room {
	return &Room{
		code:        code,
		capacity:    capacity,
		minPlayers:  minPlayers,
		punctuation: punctuation,
		players:     make(map[int]*Player),
		scores:      make(map[int]int),
		words:       make(map[int]map[string]struct{}),
		round:       1,
		current:     1,
	}
}

func (that *Room) Code() string {
	return that.code
}

func (that *Room) Capacity() int {
	return that.capacity
}

// Join seats the session at the lowest free player number. Filling the last
// seat starts the game immediately.
func (that *Room) Join(sessionID string) (*JoinResult, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return nil, apperror.ErrRoomNotFound
	}

	if that.started {
		return nil, apperror.ErrAlreadyStarted
	}

	if len(that.players) >= that.capacity {
		return nil, apperror.ErrRoomFull
	}

	num := that.firstFreeNumberLocked()
	that.players[num] = &Player{Number: num, SessionID: sessionID}

	if _, ok := that.scores[num]; !ok {
		that.scores[num] = 0
	}
	if _, ok := that.words[num]; !ok {
		that.words[num] = make(map[string]struct{})
	}

	autoStarted := false
	if len(that.players) == that.capacity {
		that.startLocked()
		autoStarted = true
	}

	return &JoinResult{
		Player:      num,
		AutoStarted: autoStarted,
		Snapshot:    that.snapshotLocked(),
		Recipients:  that.sessionsLocked(),
	}, nil
}

// Start begins the game manually. Only the host (player #1) may start, and
// only once the minimum player count is reached. Starting an already running
// game is a no-op reported via StartedNow.
func (that *Room) Start(sessionID string) (*StartResult, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return nil, apperror.ErrRoomNotFound
	}

	num := that.playerNumberLocked(sessionID)
	if num == 0 {
		return nil, apperror.ErrNotInRoom
	}

	if num != 1 {
		return nil, apperror.ErrNotHost
	}

	if len(that.players) < that.minPlayers {
		return nil, fmt.Errorf("%w: need at least %d", apperror.ErrNotEnoughPlayers, that.minPlayers)
	}

	if that.started {
		return &StartResult{StartedNow: false, Snapshot: that.snapshotLocked(), Recipients: that.sessionsLocked()}, nil
	}

	that.startLocked()

	return &StartResult{
		StartedNow: true,
		Snapshot:   that.snapshotLocked(),
		Recipients: that.sessionsLocked(),
	}, nil
}

// ApplyCharacter processes one character from the current player: fold it,
// extend the candidate, score a completed unused word, reset the round when
// the candidate stops being a prefix, then pass the turn. Completion and
// prefix failure are independent checks on the same candidate.
func (that *Room) ApplyCharacter(dict Dictionary, sessionID, input string) (*Move, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return nil, apperror.ErrRoomNotFound
	}

	num := that.playerNumberLocked(sessionID)
	if num == 0 {
		return nil, apperror.ErrNotInRoom
	}

	if !that.started {
		return nil, apperror.ErrNotStarted
	}

	if len(that.players) < that.minPlayers {
		return nil, fmt.Errorf("%w: need at least %d", apperror.ErrNotEnoughPlayers, that.minPlayers)
	}

	if num != that.current {
		return nil, apperror.ErrNotYourTurn
	}

	ch, err := that.foldCharacter(input)
	if err != nil {
		return nil, err
	}

	candidate := that.sequence + ch

	move := &Move{
		Player:    num,
		Char:      ch,
		Candidate: candidate,
	}

	if dict.IsWord(candidate) {
		if that.wordUsedLocked(candidate) {
			move.CompletedWord = candidate
			move.AlreadyUsed = true
		} else {
			points := (utf8.RuneCountInString(candidate) + 1) / 2
			if points < 1 {
				points = 1
			}

			that.scores[num] += points
			that.words[num][candidate] = struct{}{}

			move.CompletedWord = candidate
			move.Points = points
		}
	}

	if !dict.HasPrefix(candidate) {
		move.RoundOver = true
		that.sequence = ""
		that.round++
	} else {
		that.sequence = candidate
	}

	that.current = that.nextActiveLocked()

	move.Snapshot = that.snapshotLocked()
	move.Recipients = that.sessionsLocked()

	return move, nil
}

// RemoveSession takes the session out of the room. Before the start the host
// leaving closes the room and a non-host just frees the seat; once the game
// is running any departure ends it. A closed room accepts no further
// operations.
func (that *Room) RemoveSession(sessionID string) (*Departure, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return nil, apperror.ErrRoomNotFound
	}

	num := that.playerNumberLocked(sessionID)
	if num == 0 {
		return nil, apperror.ErrNotInRoom
	}

	dep := &Departure{
		Player:     num,
		WasStarted: that.started,
		Recipients: that.sessionsLocked(),
	}

	switch {
	case !that.started && num == 1:
		dep.Closed = true
		dep.Snapshot = that.snapshotLocked()
		that.closed = true

	case !that.started:
		delete(that.players, num)
		delete(that.scores, num)
		delete(that.words, num)

		dep.Snapshot = that.snapshotLocked()
		if len(that.players) == 0 {
			dep.Closed = true
			that.closed = true
		}

	default:
		// Game over: the broadcast shows the room stopped with the leaver
		// already gone, scores preserved and no player on turn.
		snap := that.snapshotLocked()
		snap.Started = false
		snap.Joined--
		if snap.Joined < 0 {
			snap.Joined = 0
		}
		snap.Current = 0

		dep.Closed = true
		dep.Snapshot = snap
		that.closed = true
	}

	return dep, nil
}

// Snapshot returns the room's current externally visible state.
func (that *Room) Snapshot() Snapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.snapshotLocked()
}

// PlayerNumber returns the session's seat number, or 0 if not seated.
func (that *Room) PlayerNumber(sessionID string) int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.playerNumberLocked(sessionID)
}

func (that *Room) Started() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.started
}

func (that *Room) foldCharacter(input string) (string, error) {
	r, size := utf8.DecodeRuneInString(input)
	if input == "" || r == utf8.RuneError || size != len(input) {
		return "", fmt.Errorf("%w: enter exactly one character", apperror.ErrInvalidCharacter)
	}

	lower := unicode.ToLower(r)
	if !unicode.IsLetter(lower) && !strings.ContainsRune(that.punctuation, lower) {
		return "", fmt.Errorf("%w: enter a single letter or one of %q", apperror.ErrInvalidCharacter, that.punctuation)
	}

	return string(lower), nil
}

func (that *Room) startLocked() {
	that.started = true

	first := 0
	for num := range that.players {
		if first == 0 || num < first {
			first = num
		}
	}
	if first == 0 {
		first = 1
	}

	that.current = first
}

func (that *Room) firstFreeNumberLocked() int {
	for num := 1; num <= that.capacity; num++ {
		if _, ok := that.players[num]; !ok {
			return num
		}
	}

	return 0
}

// nextActiveLocked advances round-robin over the sorted seated numbers,
// wrapping to the smallest.
func (that *Room) nextActiveLocked() int {
	active := make([]int, 0, len(that.players))
	for num := range that.players {
		active = append(active, num)
	}

	if len(active) == 0 {
		return 1
	}

	sort.Ints(active)

	for _, num := range active {
		if num > that.current {
			return num
		}
	}

	return active[0]
}

func (that *Room) playerNumberLocked(sessionID string) int {
	for num, player := range that.players {
		if player.SessionID == sessionID {
			return num
		}
	}

	return 0
}

func (that *Room) wordUsedLocked(word string) bool {
	for _, set := range that.words {
		if _, ok := set[word]; ok {
			return true
		}
	}

	return false
}

func (that *Room) sessionsLocked() []string {
	sessions := make([]string, 0, len(that.players))
	for _, player := range that.players {
		sessions = append(sessions, player.SessionID)
	}

	return sessions
}

func (that *Room) snapshotLocked() Snapshot {
	scores := make(map[int]int, len(that.scores))
	for num, points := range that.scores {
		scores[num] = points
	}

	return Snapshot{
		Started:  that.started,
		Capacity: that.capacity,
		Joined:   len(that.players),
		Host:     1,
		Current:  that.current,
		Sequence: that.sequence,
		Scores:   scores,
		Round:    that.round,
	}
}
