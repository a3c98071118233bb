// internal/notify/notify.go
//
// Outbound game-event notifications. The Telegram notifier pings a
// configured chat when rooms are created and games end; when the env vars
// are absent every notification is a no-op. Notifications are fire-and-
// forget side effects of committed state transitions and never block or
// fail a room action.

package notify

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/tilegrab/go-server/internal/game"
)

// Notifier receives game lifecycle events.
type Notifier interface {
	RoomCreated(code string)
	GameEnded(code string, scores []game.FinalScore)
}

// Disabled returns a Notifier that drops everything.
func Disabled() Notifier { return noop{} }

type noop struct{}

func (noop) RoomCreated(string)                  {}
func (noop) GameEnded(string, []game.FinalScore) {}

// FromEnv builds a Telegram notifier from TELEGRAM_BOT_TOKEN and
// TELEGRAM_CHAT_ID, or a disabled one when either is unset or invalid.
func FromEnv() Notifier {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	chat := os.Getenv("TELEGRAM_CHAT_ID")
	if token == "" || chat == "" {
		return Disabled()
	}
	chatID, err := strconv.ParseInt(chat, 10, 64)
	if err != nil {
		log.Warn().Str("chat", chat).Msg("invalid TELEGRAM_CHAT_ID, notifications disabled")
		return Disabled()
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		log.Warn().Err(err).Msg("telegram bot init failed, notifications disabled")
		return Disabled()
	}
	log.Info().Str("bot", bot.Self.UserName).Msg("telegram notifications enabled")
	return &telegram{bot: bot, chatID: chatID}
}

type telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func (t *telegram) RoomCreated(code string) {
	t.post(fmt.Sprintf("room %s created", code))
}

func (t *telegram) GameEnded(code string, scores []game.FinalScore) {
	lines := make([]string, 0, len(scores)+1)
	lines = append(lines, fmt.Sprintf("game over in room %s", code))
	for i, s := range scores {
		lines = append(lines, fmt.Sprintf("%d. %s: %d", i+1, s.Username, s.Score))
	}
	t.post(strings.Join(lines, "\n"))
}

func (t *telegram) post(text string) {
	go func() {
		if _, err := t.bot.Send(tgbotapi.NewMessage(t.chatID, text)); err != nil {
			log.Warn().Err(err).Msg("telegram send failed")
		}
	}()
}
