// internal/game/room.go
//
// Room state machine. One Room owns its players, turn order, tile bag and
// word ownership, and is the only mutator of that state. Every action is
// serialized by the room mutex and returns the notifications the transport
// should deliver once the mutation has committed; different rooms are fully
// independent.
//
// State model:
//   - Lobby:      initial; accepts joins, claims are not turn-gated.
//   - InProgress: draws and claims affect scoring and turn.
//   - Ended:      frozen; state-mutating actions rejected except a restart.
//
// Draws rotate the turn through the join order; claims may come from any
// connected player at any time and reassign the turn to the claimant.

package game

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/tilegrab/go-server/internal/lexicon"
)

// State is a room's lifecycle phase.
type State string

const (
	StateLobby      State = "lobby"
	StateInProgress State = "in_progress"
	StateEnded      State = "ended"
)

// Player is one connected participant in a room.
type Player struct {
	ID         string
	Username   string
	Words      []string
	ReadyToEnd bool
}

func (p *Player) info() PlayerInfo {
	words := make([]string, len(p.Words))
	copy(words, p.Words)
	return PlayerInfo{
		ID:         p.ID,
		Username:   p.Username,
		Words:      words,
		ReadyToEnd: p.ReadyToEnd,
	}
}

// Room is a single game room. All exported methods lock the room mutex, so
// actions addressed to one room never interleave.
type Room struct {
	mu sync.Mutex

	code      string
	hostID    string
	state     State
	players   map[string]*Player
	turnOrder []string
	turnID    string

	bag    *TileBag
	engine *Engine
	scorer Scorer
	rng    *rand.Rand
}

// NewRoom creates a room in the Lobby state with the host already joined
// and a freshly shuffled bag.
func NewRoom(code string, lex *lexicon.Lexicon, scorer Scorer, rng *rand.Rand, hostID, hostName string) *Room {
	r := &Room{
		code:    code,
		hostID:  hostID,
		state:   StateLobby,
		players: make(map[string]*Player),
		bag:     NewTileBag(rng),
		engine:  NewEngine(lex, scorer),
		scorer:  scorer,
		rng:     rng,
	}
	r.players[hostID] = &Player{ID: hostID, Username: hostName}
	r.turnOrder = append(r.turnOrder, hostID)
	return r
}

// Code returns the room code.
func (r *Room) Code() string { return r.code }

// Empty reports whether no players remain.
func (r *Room) Empty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players) == 0
}

// PlayerIDs returns the current turn order. The transport uses it to fan
// out broadcast events.
func (r *Room) PlayerIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.turnOrder))
	copy(out, r.turnOrder)
	return out
}

// Snapshot returns the full room state for a room_info event. Taken under
// the room lock so it never observes a partially-applied claim.
func (r *Room) Snapshot() RoomInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Room) snapshotLocked() RoomInfo {
	users := make(map[string]PlayerInfo, len(r.players))
	for id, p := range r.players {
		users[id] = p.info()
	}
	order := make([]string, len(r.turnOrder))
	copy(order, r.turnOrder)
	return RoomInfo{
		RoomCode:           r.code,
		HostID:             r.hostID,
		GameStarted:        r.state != StateLobby,
		GameEnded:          r.state == StateEnded,
		CurrentTurnID:      r.turnID,
		ConnectedUsers:     users,
		TurnOrderIDs:       order,
		AvailableTiles:     runesToStrings(r.bag.Pool()),
		RemainingTileCount: r.bag.Remaining(),
	}
}

// Join adds a player. The display name must be non-empty and unique within
// the room.
func (r *Room) Join(playerID, username string) ([]Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if username == "" {
		return nil, ErrUsernameEmpty
	}
	for _, p := range r.players {
		if p.Username == username {
			return nil, ErrUsernameTaken
		}
	}

	p := &Player{ID: playerID, Username: username}
	r.players[playerID] = p
	r.turnOrder = append(r.turnOrder, playerID)

	return []Event{
		unicast(playerID, EventRoomInfo, r.snapshotLocked()),
		broadcastExcept(playerID, EventUserJoined, UserJoinedData{UserID: playerID, User: p.info()}),
	}, nil
}

// Leave removes a player from the room and the turn order. The turn pointer
// is not reassigned here; the next draw or claim overrides it naturally.
func (r *Room) Leave(playerID string) ([]Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.players[playerID]; !ok {
		return nil, ErrNotInRoom
	}
	delete(r.players, playerID)
	for i, id := range r.turnOrder {
		if id == playerID {
			r.turnOrder = append(r.turnOrder[:i], r.turnOrder[i+1:]...)
			break
		}
	}
	if len(r.players) == 0 {
		return nil, nil
	}
	return []Event{broadcast(EventUserLeft, UserLeftData{UserID: playerID})}, nil
}

// Start begins a game from Lobby or Ended: the bag is reseeded, every
// player's words and ready flag are cleared, and a uniformly random
// connected player takes the first turn.
func (r *Room) Start(playerID string) ([]Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateInProgress {
		return nil, ErrGameInProgress
	}

	r.bag.Reset()
	for _, p := range r.players {
		p.Words = nil
		p.ReadyToEnd = false
	}
	r.state = StateInProgress
	r.turnID = r.turnOrder[r.rng.Intn(len(r.turnOrder))]

	return []Event{broadcast(EventRoomInfo, r.snapshotLocked())}, nil
}

// Draw moves one hidden tile into the pool and advances the turn to the
// next player in join order. An empty bag is an expected terminal
// condition: the error goes back to the actor and the room is notified.
func (r *Room) Draw(playerID string) ([]Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateEnded {
		return nil, ErrGameEnded
	}
	if r.bag.Remaining() == 0 {
		return []Event{broadcast(EventSystem, SystemNoticeData{Kind: NoticeNoTiles, Data: struct{}{}})}, ErrEmptyBag
	}

	letter, err := r.bag.Draw()
	if err != nil {
		return nil, err
	}

	events := []Event{broadcast(EventTileAdded, TileAddedData{Letter: string(letter)})}
	events = append(events, r.advanceTurnLocked())

	if r.bag.Remaining() == 0 {
		events = append(events, broadcast(EventSystem, SystemNoticeData{Kind: NoticeNoTiles, Data: struct{}{}}))
	}
	return events, nil
}

// advanceTurnLocked moves the turn pointer to the next player in join
// order, wrapping to the first.
func (r *Room) advanceTurnLocked() Event {
	next := 0
	for i, id := range r.turnOrder {
		if id == r.turnID {
			next = (i + 1) % len(r.turnOrder)
			break
		}
	}
	r.turnID = r.turnOrder[next]
	return broadcast(EventCurrentTurn, CurrentTurnData{UserID: r.turnID})
}

// AttemptWord resolves text as a word claim against the current pool and
// every player's owned words. A resolvable attempt consumes pool letters,
// applies the ownership effect and hands the turn to the claimant; anything
// else is relayed as ordinary chat.
func (r *Room) AttemptWord(playerID, text string) ([]Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	actor, ok := r.players[playerID]
	if !ok {
		return nil, ErrNotInRoom
	}

	chat := []Event{broadcast(EventUserMessage, UserMessageData{Username: actor.Username, Message: text})}

	fields := strings.Fields(text)
	if len(fields) != 1 {
		return chat, nil
	}
	attempted := strings.ToLower(fields[0])
	if !isAlpha(attempted) || r.state == StateEnded {
		return chat, nil
	}

	owned := make(map[string][]string, len(r.players))
	for id, p := range r.players {
		owned[id] = p.Words
	}
	claims := r.engine.EnumerateClaims(r.bag.Pool(), owned, r.turnOrder)
	claim, ok := r.engine.Resolve(attempted, playerID, claims)
	if !ok {
		return chat, nil
	}

	letters := claim.PoolLetters.Letters()
	if err := r.bag.Consume(letters); err != nil {
		// Invariant breach: the claim was computed against this pool, so
		// every letter must be present. Abort without partial application.
		log.Error().
			Str("room", r.code).
			Str("word", claim.Word).
			Err(err).
			Msg("claim letters desynchronized from pool")
		return nil, fmt.Errorf("apply claim %q: %w", claim.Word, err)
	}

	events := []Event{broadcast(EventTilesRemoved, TilesRemovedData{Letters: runesToStrings(letters)})}
	events = append(events, r.applyOwnershipLocked(actor, claim)...)
	r.turnID = playerID
	events = append(events, broadcast(EventCurrentTurn, CurrentTurnData{UserID: playerID}))
	return events, nil
}

// applyOwnershipLocked mutates word ownership for a consumed claim and
// returns the matching notifications.
func (r *Room) applyOwnershipLocked(actor *Player, claim Claim) []Event {
	switch {
	case claim.OwnerID == actor.ID:
		// Self-extension: replace the old word in place.
		for i, w := range actor.Words {
			if w == claim.PrevWord {
				actor.Words[i] = claim.Word
				break
			}
		}
		return []Event{
			broadcast(EventWordUpdated, WordUpdatedData{UserID: actor.ID, OldWord: claim.PrevWord, NewWord: claim.Word}),
			broadcast(EventSystem, SystemNoticeData{Kind: NoticeWordUpdated, Data: WordUpdatedNotice{
				Username: actor.Username,
				OldWord:  claim.PrevWord,
				NewWord:  claim.Word,
			}}),
		}

	case claim.OwnerID == "":
		// Fresh word from pool letters alone.
		actor.Words = append(actor.Words, claim.Word)
		return []Event{
			broadcast(EventWordAdded, WordAddedData{UserID: actor.ID, Word: claim.Word}),
			broadcast(EventSystem, SystemNoticeData{Kind: NoticeWordAdded, Data: WordAddedNotice{
				Username: actor.Username,
				Word:     claim.Word,
			}}),
		}

	default:
		// Steal: the previous owner loses the old word, the claimant gains
		// the new one.
		owner := r.players[claim.OwnerID]
		for i, w := range owner.Words {
			if w == claim.PrevWord {
				owner.Words = append(owner.Words[:i], owner.Words[i+1:]...)
				break
			}
		}
		actor.Words = append(actor.Words, claim.Word)
		return []Event{
			broadcast(EventWordRemoved, WordRemovedData{UserID: owner.ID, Word: claim.PrevWord}),
			broadcast(EventWordAdded, WordAddedData{UserID: actor.ID, Word: claim.Word}),
			broadcast(EventSystem, SystemNoticeData{Kind: NoticeWordStolen, Data: WordStolenNotice{
				OldUsername: owner.Username,
				NewUsername: actor.Username,
				OldWord:     claim.PrevWord,
				NewWord:     claim.Word,
			}}),
		}
	}
}

// ToggleReady flips the player's ready-to-end flag. Once every connected
// player is ready the room freezes and final scores are settled.
func (r *Room) ToggleReady(playerID string) ([]Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateEnded {
		return nil, ErrGameEnded
	}
	p, ok := r.players[playerID]
	if !ok {
		return nil, ErrNotInRoom
	}

	p.ReadyToEnd = !p.ReadyToEnd
	events := []Event{broadcast(EventReadyToggled, ReadyToggledData{UserID: playerID, ReadyToEnd: p.ReadyToEnd})}

	for _, other := range r.players {
		if !other.ReadyToEnd {
			return events, nil
		}
	}

	r.state = StateEnded
	events = append(events, broadcast(EventGameEnded, GameEndedData{FinalScores: r.finalScoresLocked()}))
	return events, nil
}

// Ended reports whether the room has settled.
func (r *Room) Ended() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == StateEnded
}

// FinalScores returns the end-of-game settlement, descending by score,
// ties kept in join order.
func (r *Room) FinalScores() []FinalScore {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finalScoresLocked()
}

func (r *Room) finalScoresLocked() []FinalScore {
	scores := make([]FinalScore, 0, len(r.turnOrder))
	for _, id := range r.turnOrder {
		p := r.players[id]
		scores = append(scores, FinalScore{Username: p.Username, Score: r.scorer.Final(p.Words)})
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })
	return scores
}

func runesToStrings(letters []rune) []string {
	out := make([]string, len(letters))
	for i, r := range letters {
		out[i] = string(r)
	}
	return out
}
