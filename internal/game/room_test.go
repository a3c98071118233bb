package game

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/tilegrab/go-server/internal/lexicon"
)

func testRoom(t *testing.T, words ...string) *Room {
	t.Helper()
	lex := lexicon.New()
	for _, w := range words {
		lex.Insert(w)
	}
	rng := rand.New(rand.NewSource(7))
	return NewRoom("TEST", lex, NewScorer(DefaultScoreOffset), rng, "alice", "Alice")
}

func mustJoin(t *testing.T, r *Room, id, name string) {
	t.Helper()
	if _, err := r.Join(id, name); err != nil {
		t.Fatalf("Join(%s) failed: %v", id, err)
	}
}

func setPool(r *Room, letters ...rune) {
	r.bag.pool = append(r.bag.pool[:0], letters...)
}

func eventTypes(events []Event) []EventType {
	out := make([]EventType, len(events))
	for i, ev := range events {
		out[i] = ev.Type
	}
	return out
}

func hasEvent(events []Event, t EventType) bool {
	for _, ev := range events {
		if ev.Type == t {
			return true
		}
	}
	return false
}

func TestJoinRejections(t *testing.T) {
	r := testRoom(t)

	if _, err := r.Join("bob", ""); !errors.Is(err, ErrUsernameEmpty) {
		t.Fatalf("empty username: err = %v, want ErrUsernameEmpty", err)
	}
	if _, err := r.Join("bob", "Alice"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("duplicate username: err = %v, want ErrUsernameTaken", err)
	}
}

func TestJoinEventsTargetCorrectly(t *testing.T) {
	r := testRoom(t)
	events, err := r.Join("bob", "Bob")
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("events = %v, want room_info + user_joined", eventTypes(events))
	}
	if events[0].Type != EventRoomInfo || events[0].To != "bob" {
		t.Fatalf("first event = %+v, want room_info addressed to bob", events[0])
	}
	if events[1].Type != EventUserJoined || events[1].Except != "bob" {
		t.Fatalf("second event = %+v, want user_joined excluding bob", events[1])
	}
}

func TestLeaveRemovesFromTurnOrder(t *testing.T) {
	r := testRoom(t)
	mustJoin(t, r, "bob", "Bob")

	events, err := r.Leave("alice")
	if err != nil {
		t.Fatalf("Leave failed: %v", err)
	}
	if !hasEvent(events, EventUserLeft) {
		t.Fatalf("events = %v, want user_left", eventTypes(events))
	}
	if ids := r.PlayerIDs(); len(ids) != 1 || ids[0] != "bob" {
		t.Fatalf("turn order = %v, want [bob]", ids)
	}

	if _, err := r.Leave("alice"); !errors.Is(err, ErrNotInRoom) {
		t.Fatalf("double leave: err = %v, want ErrNotInRoom", err)
	}

	if _, err := r.Leave("bob"); err != nil {
		t.Fatalf("Leave failed: %v", err)
	}
	if !r.Empty() {
		t.Fatal("room should be empty after the last player leaves")
	}
}

func TestStartResetsGameState(t *testing.T) {
	r := testRoom(t)
	mustJoin(t, r, "bob", "Bob")

	if _, err := r.Start("alice"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := r.Start("alice"); !errors.Is(err, ErrGameInProgress) {
		t.Fatalf("restart mid-game: err = %v, want ErrGameInProgress", err)
	}

	snap := r.Snapshot()
	if !snap.GameStarted || snap.GameEnded {
		t.Fatalf("snapshot = %+v, want started and not ended", snap)
	}
	if snap.CurrentTurnID != "alice" && snap.CurrentTurnID != "bob" {
		t.Fatalf("turn %q is not a member of the room", snap.CurrentTurnID)
	}
	if snap.RemainingTileCount != TileSupply {
		t.Fatalf("remaining = %d, want full bag", snap.RemainingTileCount)
	}

	// Ending and restarting clears words and ready flags.
	r.players["alice"].Words = []string{"cats"}
	if _, err := r.ToggleReady("alice"); err != nil {
		t.Fatalf("ToggleReady failed: %v", err)
	}
	if _, err := r.ToggleReady("bob"); err != nil {
		t.Fatalf("ToggleReady failed: %v", err)
	}
	if !r.Ended() {
		t.Fatal("room should end once everyone is ready")
	}
	if _, err := r.Start("bob"); err != nil {
		t.Fatalf("restart after end failed: %v", err)
	}
	if words := r.players["alice"].Words; len(words) != 0 {
		t.Fatalf("words not cleared on restart: %v", words)
	}
	if r.players["alice"].ReadyToEnd || r.players["bob"].ReadyToEnd {
		t.Fatal("ready flags not cleared on restart")
	}
}

func TestDrawRotatesTurn(t *testing.T) {
	r := testRoom(t)
	mustJoin(t, r, "bob", "Bob")
	mustJoin(t, r, "carol", "Carol")
	if _, err := r.Start("alice"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	order := r.PlayerIDs()
	for i := 0; i < 6; i++ {
		before := r.Snapshot()
		events, err := r.Draw(before.CurrentTurnID)
		if err != nil {
			t.Fatalf("Draw failed: %v", err)
		}
		if !hasEvent(events, EventTileAdded) || !hasEvent(events, EventCurrentTurn) {
			t.Fatalf("events = %v, want tile_added + set_current_turn", eventTypes(events))
		}

		after := r.Snapshot()
		var idx int
		for j, id := range order {
			if id == before.CurrentTurnID {
				idx = j
			}
		}
		want := order[(idx+1)%len(order)]
		if after.CurrentTurnID != want {
			t.Fatalf("turn after draw = %s, want %s", after.CurrentTurnID, want)
		}
		if len(after.AvailableTiles) != i+1 {
			t.Fatalf("pool size = %d, want %d", len(after.AvailableTiles), i+1)
		}
	}
}

// Scenario: the hidden bag is empty; a draw reports the exhaustion without
// touching the pool and the room is notified.
func TestDrawEmptyBagReportsExhaustion(t *testing.T) {
	r := testRoom(t)
	if _, err := r.Start("alice"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	r.bag.hidden = nil
	setPool(r, 'x', 'y')

	events, err := r.Draw("alice")
	if !errors.Is(err, ErrEmptyBag) {
		t.Fatalf("err = %v, want ErrEmptyBag", err)
	}
	if !hasEvent(events, EventSystem) {
		t.Fatalf("events = %v, want a no-tiles-remaining notice", eventTypes(events))
	}
	if pool := r.Snapshot().AvailableTiles; len(pool) != 2 {
		t.Fatalf("pool mutated by failed draw: %v", pool)
	}
}

func TestDrawAnnouncesWhenBagEmpties(t *testing.T) {
	r := testRoom(t)
	if _, err := r.Start("alice"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	r.bag.hidden = []rune{'q'}

	events, err := r.Draw("alice")
	if err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	if !hasEvent(events, EventSystem) {
		t.Fatalf("events = %v, want no-tiles-remaining after final draw", eventTypes(events))
	}
}

// Scenario: pool {c,a,t,s}, no owned words; "cats" resolves fresh, consumes
// the whole pool and hands the claimant the turn.
func TestAttemptFreshWord(t *testing.T) {
	r := testRoom(t, "cat", "cats")
	mustJoin(t, r, "bob", "Bob")
	if _, err := r.Start("alice"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	setPool(r, 'c', 'a', 't', 's')

	events, err := r.AttemptWord("bob", "cats")
	if err != nil {
		t.Fatalf("AttemptWord failed: %v", err)
	}
	for _, want := range []EventType{EventTilesRemoved, EventWordAdded, EventSystem, EventCurrentTurn} {
		if !hasEvent(events, want) {
			t.Fatalf("events = %v, missing %s", eventTypes(events), want)
		}
	}

	snap := r.Snapshot()
	if len(snap.AvailableTiles) != 0 {
		t.Fatalf("pool = %v, want empty", snap.AvailableTiles)
	}
	if words := snap.ConnectedUsers["bob"].Words; len(words) != 1 || words[0] != "cats" {
		t.Fatalf("bob's words = %v, want [cats]", words)
	}
	if snap.CurrentTurnID != "bob" {
		t.Fatalf("turn = %s, want the claimant", snap.CurrentTurnID)
	}
}

// Scenario: alice owns "cat", pool {s}; bob's "cats" steals it. Bob's final
// score counts the full word value, not a difference.
func TestAttemptSteal(t *testing.T) {
	r := testRoom(t, "cat", "cats")
	mustJoin(t, r, "bob", "Bob")
	if _, err := r.Start("alice"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	r.players["alice"].Words = []string{"cat"}
	setPool(r, 's')

	events, err := r.AttemptWord("bob", "cats")
	if err != nil {
		t.Fatalf("AttemptWord failed: %v", err)
	}
	if !hasEvent(events, EventWordRemoved) || !hasEvent(events, EventWordAdded) {
		t.Fatalf("events = %v, want word_removed + word_added", eventTypes(events))
	}

	snap := r.Snapshot()
	if words := snap.ConnectedUsers["alice"].Words; len(words) != 0 {
		t.Fatalf("alice still owns %v", words)
	}
	if words := snap.ConnectedUsers["bob"].Words; len(words) != 1 || words[0] != "cats" {
		t.Fatalf("bob's words = %v, want [cats]", words)
	}

	scores := r.FinalScores()
	if scores[0].Username != "Bob" || scores[0].Score != 2 {
		t.Fatalf("scores = %+v, want Bob at 2", scores)
	}
}

// Scenario: alice extends her own "cat" with the pooled s.
func TestAttemptSelfExtension(t *testing.T) {
	r := testRoom(t, "cat", "cats")
	if _, err := r.Start("alice"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	r.players["alice"].Words = []string{"cat"}
	setPool(r, 's')

	events, err := r.AttemptWord("alice", "cats")
	if err != nil {
		t.Fatalf("AttemptWord failed: %v", err)
	}
	if !hasEvent(events, EventWordUpdated) {
		t.Fatalf("events = %v, want user_word_updated", eventTypes(events))
	}
	if words := r.players["alice"].Words; len(words) != 1 || words[0] != "cats" {
		t.Fatalf("alice's words = %v, want [cats]", words)
	}

	// The transition is worth Word(cats) - Word(cat) = 1; her settled total
	// is still the full word value.
	s := NewScorer(DefaultScoreOffset)
	if s.Diff("cat", "cats") != 1 {
		t.Fatalf("Diff(cat,cats) = %d, want 1", s.Diff("cat", "cats"))
	}
}

func TestAttemptFallsBackToChat(t *testing.T) {
	r := testRoom(t, "cat")
	if _, err := r.Start("alice"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	setPool(r, 'x', 'y', 'z')

	cases := []struct {
		name string
		text string
	}{
		{"multiple words", "hello there"},
		{"non-alphabetic", "w00t!"},
		{"unrealizable word", "cat"},
		{"not in dictionary", "xyz"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			events, err := r.AttemptWord("alice", tc.text)
			if err != nil {
				t.Fatalf("AttemptWord failed: %v", err)
			}
			if len(events) != 1 || events[0].Type != EventUserMessage {
				t.Fatalf("events = %v, want a single chat relay", eventTypes(events))
			}
			data := events[0].Data.(UserMessageData)
			if data.Username != "Alice" || data.Message != tc.text {
				t.Fatalf("chat payload = %+v", data)
			}
		})
	}
}

func TestAttemptAfterGameEndedIsChat(t *testing.T) {
	r := testRoom(t, "cat")
	if _, err := r.Start("alice"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	setPool(r, 'c', 'a', 't')
	if _, err := r.ToggleReady("alice"); err != nil {
		t.Fatalf("ToggleReady failed: %v", err)
	}

	events, err := r.AttemptWord("alice", "cat")
	if err != nil {
		t.Fatalf("AttemptWord failed: %v", err)
	}
	if len(events) != 1 || events[0].Type != EventUserMessage {
		t.Fatalf("events = %v, want chat relay in an ended room", eventTypes(events))
	}
}

func TestWordOwnedByAtMostOnePlayer(t *testing.T) {
	r := testRoom(t, "cat", "cats")
	mustJoin(t, r, "bob", "Bob")
	if _, err := r.Start("alice"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	r.players["alice"].Words = []string{"cat"}
	setPool(r, 's')

	if _, err := r.AttemptWord("bob", "cats"); err != nil {
		t.Fatalf("AttemptWord failed: %v", err)
	}

	owners := 0
	for _, p := range r.players {
		for _, w := range p.Words {
			if w == "cats" || w == "cat" {
				owners++
			}
		}
	}
	if owners != 1 {
		t.Fatalf("found %d owners across cat/cats, want 1", owners)
	}
}

// Scenario: everyone toggles ready; the room freezes and the settlement is
// sorted by descending score, stable on ties.
func TestReadyToEndSettlesGame(t *testing.T) {
	r := testRoom(t)
	mustJoin(t, r, "bob", "Bob")
	mustJoin(t, r, "carol", "Carol")
	if _, err := r.Start("alice"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	r.players["alice"].Words = []string{"cat"} // 1
	r.players["bob"].Words = []string{"horse"} // 3
	r.players["carol"].Words = []string{"tac"} // 1, ties alice

	events, err := r.ToggleReady("alice")
	if err != nil {
		t.Fatalf("ToggleReady failed: %v", err)
	}
	if hasEvent(events, EventGameEnded) {
		t.Fatal("game ended before everyone was ready")
	}
	if _, err := r.ToggleReady("bob"); err != nil {
		t.Fatalf("ToggleReady failed: %v", err)
	}
	events, err = r.ToggleReady("carol")
	if err != nil {
		t.Fatalf("ToggleReady failed: %v", err)
	}

	var ended *GameEndedData
	for _, ev := range events {
		if ev.Type == EventGameEnded {
			data := ev.Data.(GameEndedData)
			ended = &data
		}
	}
	if ended == nil {
		t.Fatalf("events = %v, want game_ended", eventTypes(events))
	}
	want := []FinalScore{{"Bob", 3}, {"Alice", 1}, {"Carol", 1}}
	if len(ended.FinalScores) != len(want) {
		t.Fatalf("scores = %+v", ended.FinalScores)
	}
	for i, fs := range want {
		if ended.FinalScores[i] != fs {
			t.Fatalf("scores[%d] = %+v, want %+v", i, ended.FinalScores[i], fs)
		}
	}

	if _, err := r.ToggleReady("alice"); !errors.Is(err, ErrGameEnded) {
		t.Fatalf("toggle after end: err = %v, want ErrGameEnded", err)
	}
	if _, err := r.Draw("alice"); !errors.Is(err, ErrGameEnded) {
		t.Fatalf("draw after end: err = %v, want ErrGameEnded", err)
	}
}

func TestUnreadyPlayerHoldsGameOpen(t *testing.T) {
	r := testRoom(t)
	mustJoin(t, r, "bob", "Bob")
	if _, err := r.Start("alice"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// alice toggles on and off again; bob alone being ready must not end it.
	if _, err := r.ToggleReady("alice"); err != nil {
		t.Fatalf("ToggleReady failed: %v", err)
	}
	if _, err := r.ToggleReady("alice"); err != nil {
		t.Fatalf("ToggleReady failed: %v", err)
	}
	if _, err := r.ToggleReady("bob"); err != nil {
		t.Fatalf("ToggleReady failed: %v", err)
	}
	if r.Ended() {
		t.Fatal("room ended while a player was not ready")
	}
}

func TestTurnPointerStaysInOrderWhileInProgress(t *testing.T) {
	r := testRoom(t)
	mustJoin(t, r, "bob", "Bob")
	mustJoin(t, r, "carol", "Carol")
	if _, err := r.Start("alice"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		snap := r.Snapshot()
		found := false
		for _, id := range snap.TurnOrderIDs {
			if id == snap.CurrentTurnID {
				found = true
			}
		}
		if !found {
			t.Fatalf("turn %q is not in turn order %v", snap.CurrentTurnID, snap.TurnOrderIDs)
		}
		if _, err := r.Draw(snap.CurrentTurnID); err != nil {
			t.Fatalf("Draw failed: %v", err)
		}
	}
}
