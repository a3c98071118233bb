// internal/game/events.go
//
// State-change notifications emitted by room actions. The room owns all
// mutation and returns an explicit event slice from each action; the
// transport layer is a pure consumer that encodes and delivers them after
// the mutation has committed. Event type strings double as the wire names.

package game

// EventType identifies an egress notification on the wire.
type EventType string

const (
	EventError        EventType = "error"
	EventSetID        EventType = "set_id"
	EventRoomInfo     EventType = "room_info"
	EventUserJoined   EventType = "user_joined"
	EventUserLeft     EventType = "user_left"
	EventUserMessage  EventType = "user_message"
	EventWordAdded    EventType = "user_word_added"
	EventWordRemoved  EventType = "user_word_removed"
	EventWordUpdated  EventType = "user_word_updated"
	EventTileAdded    EventType = "tile_added"
	EventTilesRemoved EventType = "tiles_removed"
	EventCurrentTurn  EventType = "set_current_turn"
	EventSystem       EventType = "system_message"
	EventReadyToggled EventType = "user_toggled_ready_to_end"
	EventGameEnded    EventType = "game_ended"
)

// Event is a single notification. To targets one player; when empty the
// event is broadcast to the room, skipping Except if set.
type Event struct {
	Type   EventType
	To     string
	Except string
	Data   any
}

func broadcast(t EventType, data any) Event {
	return Event{Type: t, Data: data}
}

func broadcastExcept(except string, t EventType, data any) Event {
	return Event{Type: t, Except: except, Data: data}
}

func unicast(to string, t EventType, data any) Event {
	return Event{Type: t, To: to, Data: data}
}

// NoticeKind narrates a game event inside a system_message.
type NoticeKind string

const (
	NoticeWordAdded   NoticeKind = "word_added"
	NoticeWordUpdated NoticeKind = "word_updated"
	NoticeWordStolen  NoticeKind = "word_stolen"
	NoticeNoTiles     NoticeKind = "no_tiles_remaining"
)

// --------------------------- event payloads --------------------------------

// PlayerInfo is the externally visible per-player state.
type PlayerInfo struct {
	ID         string   `json:"id"`
	Username   string   `json:"username"`
	Words      []string `json:"words"`
	ReadyToEnd bool     `json:"readyToEnd"`
}

// RoomInfo is the full room snapshot sent on join/create and game restart.
type RoomInfo struct {
	RoomCode           string                `json:"roomCode"`
	HostID             string                `json:"hostId"`
	GameStarted        bool                  `json:"gameStarted"`
	GameEnded          bool                  `json:"gameEnded"`
	CurrentTurnID      string                `json:"currentTurnId,omitempty"`
	ConnectedUsers     map[string]PlayerInfo `json:"connectedUsers"`
	TurnOrderIDs       []string              `json:"turnOrderIds"`
	AvailableTiles     []string              `json:"availableTiles"`
	RemainingTileCount int                   `json:"remainingTileCount"`
}

type UserJoinedData struct {
	UserID string     `json:"userId"`
	User   PlayerInfo `json:"user"`
}

type UserLeftData struct {
	UserID string `json:"userId"`
}

type UserMessageData struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

type WordAddedData struct {
	UserID string `json:"userId"`
	Word   string `json:"word"`
}

type WordRemovedData struct {
	UserID string `json:"userId"`
	Word   string `json:"word"`
}

type WordUpdatedData struct {
	UserID  string `json:"userId"`
	OldWord string `json:"oldWord"`
	NewWord string `json:"newWord"`
}

type TileAddedData struct {
	Letter string `json:"letter"`
}

type TilesRemovedData struct {
	Letters []string `json:"letters"`
}

type CurrentTurnData struct {
	UserID string `json:"userId"`
}

type ReadyToggledData struct {
	UserID     string `json:"userId"`
	ReadyToEnd bool   `json:"readyToEnd"`
}

// FinalScore is one row of the end-of-game settlement.
type FinalScore struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
}

type GameEndedData struct {
	FinalScores []FinalScore `json:"finalScores"`
}

// SystemNoticeData wraps a NoticeKind and its narration payload.
type SystemNoticeData struct {
	Kind NoticeKind `json:"type"`
	Data any        `json:"data"`
}

type WordAddedNotice struct {
	Username string `json:"username"`
	Word     string `json:"word"`
}

type WordUpdatedNotice struct {
	Username string `json:"username"`
	OldWord  string `json:"oldWord"`
	NewWord  string `json:"newWord"`
}

type WordStolenNotice struct {
	OldUsername string `json:"oldUsername"`
	NewUsername string `json:"newUsername"`
	OldWord     string `json:"oldWord"`
	NewWord     string `json:"newWord"`
}
