// internal/httpserver/session.go
//
// One websocket session per connected player. The session owns the
// connection, decodes the {type, data} client envelope, routes actions to
// the player's room, and is the only writer on the socket (writes are
// serialized by a mutex).
//
// Ingress message types:
//   create_room {username}            → create a room and join as host
//   join_room   {roomCode, username}  → join an existing room
//   leave_room                        → leave the current room
//   start_game                        → start or restart the game
//   send_message {message}            → chat text / word attempt
//   turn_tile                         → draw one hidden tile into the pool
//   toggle_ready_to_end               → flip the ready-to-end flag
//
// The session is issued a set_id message with its player id before any room
// action is accepted.

package httpserver

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/tilegrab/go-server/internal/game"
)

// clientEnvelope is the wire shape of every inbound message.
type clientEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// serverEnvelope is the wire shape of every outbound message.
type serverEnvelope struct {
	Type game.EventType `json:"type"`
	Data any            `json:"data"`
}

type createRoomData struct {
	Username string `json:"username"`
}

type joinRoomData struct {
	RoomCode string `json:"roomCode"`
	Username string `json:"username"`
}

type sendMessageData struct {
	Message string `json:"message"`
}

type session struct {
	id   string
	srv  *Server
	conn *websocket.Conn

	writeMu sync.Mutex

	// room is nil while the player is not in a room. Only the session
	// goroutine touches it.
	room *game.Room
}

func newSession(s *Server, conn *websocket.Conn) *session {
	return &session{
		id:   uuid.NewString(),
		srv:  s,
		conn: conn,
	}
}

// run reads messages until the connection drops, then cleans up room
// membership and the session registration.
func (s *session) run() {
	defer func() {
		s.conn.Close()
		s.leaveRoom()
		s.srv.dropSession(s.id)
	}()

	// Identity is assigned before any room action is accepted.
	s.send(game.EventSetID, map[string]string{"id": s.id})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Str("player", s.id).Msg("websocket read error")
			}
			return
		}

		var env clientEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			s.sendError("failed to process message")
			continue
		}
		s.dispatch(env)
	}
}

func (s *session) dispatch(env clientEnvelope) {
	switch env.Type {
	case "create_room":
		var d createRoomData
		if err := json.Unmarshal(env.Data, &d); err != nil {
			s.sendError("failed to process message")
			return
		}
		s.handleCreateRoom(d)
	case "join_room":
		var d joinRoomData
		if err := json.Unmarshal(env.Data, &d); err != nil {
			s.sendError("failed to process message")
			return
		}
		s.handleJoinRoom(d)
	case "leave_room":
		s.handleLeaveRoom()
	case "start_game":
		s.withRoom(func(r *game.Room) ([]game.Event, error) { return r.Start(s.id) })
	case "send_message":
		var d sendMessageData
		if err := json.Unmarshal(env.Data, &d); err != nil {
			s.sendError("failed to process message")
			return
		}
		s.withRoom(func(r *game.Room) ([]game.Event, error) { return r.AttemptWord(s.id, d.Message) })
	case "turn_tile":
		s.withRoom(func(r *game.Room) ([]game.Event, error) { return r.Draw(s.id) })
	case "toggle_ready_to_end":
		s.handleToggleReady()
	default:
		// Unrecognized actions are a collaborator concern; observe and move on.
		log.Warn().Str("type", env.Type).Str("player", s.id).Msg("unhandled message type")
	}
}

func (s *session) handleCreateRoom(d createRoomData) {
	if s.room != nil {
		s.sendError(game.ErrAlreadyInRoom.Error())
		return
	}
	if d.Username == "" {
		s.sendError(game.ErrUsernameEmpty.Error())
		return
	}
	room := s.srv.registry.Create(s.id, d.Username)
	s.room = room
	s.send(game.EventRoomInfo, room.Snapshot())
	s.srv.notifier.RoomCreated(room.Code())
}

func (s *session) handleJoinRoom(d joinRoomData) {
	if s.room != nil {
		s.sendError(game.ErrAlreadyInRoom.Error())
		return
	}
	room, ok := s.srv.registry.Get(d.RoomCode)
	if !ok {
		s.sendError(game.ErrRoomNotFound.Error())
		return
	}
	events, err := room.Join(s.id, d.Username)
	if err != nil {
		s.sendError(err.Error())
		return
	}
	s.room = room
	s.srv.deliver(room, events)
}

func (s *session) handleLeaveRoom() {
	if s.room == nil {
		s.sendError(game.ErrNotInRoom.Error())
		return
	}
	s.leaveRoom()
}

// leaveRoom detaches the session from its room, broadcasting the departure
// and tearing the room down if it is now empty.
func (s *session) leaveRoom() {
	room := s.room
	if room == nil {
		return
	}
	s.room = nil
	events, err := room.Leave(s.id)
	if err != nil {
		return
	}
	s.srv.deliver(room, events)
	if room.Empty() {
		s.srv.registry.Remove(room.Code())
	}
}

func (s *session) handleToggleReady() {
	room := s.room
	if room == nil {
		s.sendError(game.ErrNotInRoom.Error())
		return
	}
	events, err := room.ToggleReady(s.id)
	if err != nil {
		s.sendError(err.Error())
		return
	}
	s.srv.deliver(room, events)
	if room.Ended() {
		s.srv.notifier.GameEnded(room.Code(), room.FinalScores())
	}
}

// withRoom runs a room action, delivers its events, and reports any error
// back to this connection only. Events accompanying an error (e.g. the
// no-tiles-remaining notice) are still delivered.
func (s *session) withRoom(action func(*game.Room) ([]game.Event, error)) {
	room := s.room
	if room == nil {
		s.sendError(game.ErrNotInRoom.Error())
		return
	}
	events, err := action(room)
	if len(events) > 0 {
		s.srv.deliver(room, events)
	}
	if err != nil {
		var reject game.RejectError
		switch {
		case errors.As(err, &reject), errors.Is(err, game.ErrEmptyBag):
			s.sendError(err.Error())
		default:
			// Invariant breach or transport fault; already logged upstream.
			s.sendError("failed to process message")
		}
	}
}

// send writes one envelope to the socket. Safe for any goroutine.
func (s *session) send(t game.EventType, data any) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteJSON(serverEnvelope{Type: t, Data: data}); err != nil {
		log.Debug().Err(err).Str("player", s.id).Msg("websocket write failed")
	}
}

func (s *session) sendError(msg string) {
	s.send(game.EventError, map[string]string{"message": msg})
}
