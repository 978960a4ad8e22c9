// Package bot – the Telegram adapter proper: polling loop, command
// routing, and reply rendering. All flow decisions belong to the
// conversation machine; this layer only translates between Telegram
// updates and machine events.
package bot

import (
	"context"
	"strconv"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/timaholls/tg-info-S3Disk/internal/conversation"
)

// Command texts outside the form flow.
const (
	textGreeting = "Привет! Я бот для оформления заявок. Используйте /post_invate, чтобы отправить новую заявку, или /help для справки."
	textHelp     = "📋 Доступные команды:\n" +
		"/start - Начать работу с ботом\n" +
		"/post_invate - Подать новую заявку\n" +
		"/status - Проверить статус заявки\n" +
		"/help - Показать эту справку"
	textThrottled = "Слишком много сообщений. Подождите немного и повторите."
)

// api is the slice of tgbotapi.BotAPI the adapter needs; narrowed for tests.
type api interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot drives one Telegram bot account over long polling.
type Bot struct {
	api     api
	machine *conversation.Machine
	log     zerolog.Logger
	disp    *dispatcher[tgbotapi.Update]
	sendWG  sync.WaitGroup

	// PollTimeout is the long-poll timeout in seconds.
	PollTimeout int
}

// New constructs a Bot. rps/burst bound each requester's inbound rate.
func New(client *tgbotapi.BotAPI, machine *conversation.Machine, rps float64, burst int, log zerolog.Logger) *Bot {
	b := &Bot{
		api:         client,
		machine:     machine,
		log:         log,
		PollTimeout: 30,
	}
	b.disp = newDispatcher[tgbotapi.Update](rps, burst, b.handleUpdate)
	return b
}

// Run polls for updates until ctx is cancelled, then stops the poll and
// waits for in-flight handlers to finish. Events for one requester are
// handled in arrival order; requesters are independent.
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = b.PollTimeout
	updates := b.api.GetUpdatesChan(cfg)

	b.log.Info().Msg("bot polling started")
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.disp.wait()
			b.sendWG.Wait()
			b.log.Info().Msg("bot polling stopped")
			return nil

		case up, ok := <-updates:
			if !ok {
				b.disp.wait()
				b.sendWG.Wait()
				return nil
			}
			identity, chatID := identityOf(up)
			if identity == "" {
				botUpdates.WithLabelValues("other").Inc()
				continue
			}
			if !b.disp.submit(ctx, identity, up) {
				botThrottled.Inc()
				// Off the polling goroutine: a slow delivery to the
				// flooding chat must not stall intake for everyone.
				b.sendWG.Add(1)
				go func(chatID int64) {
					defer b.sendWG.Done()
					b.send(chatID, conversation.Reply{Text: textThrottled})
				}(chatID)
			}
		}
	}
}

// handleUpdate processes one update to completion on the requester's
// worker goroutine.
func (b *Bot) handleUpdate(ctx context.Context, identity string, up tgbotapi.Update) {
	start := time.Now()
	lg := b.log.With().
		Str("update_id", uuid.NewString()).
		Str("identity", identity).
		Logger()

	var replies []conversation.Reply
	var chatID int64

	switch {
	case up.CallbackQuery != nil:
		botUpdates.WithLabelValues("callback").Inc()
		if up.CallbackQuery.Message != nil {
			chatID = up.CallbackQuery.Message.Chat.ID
		}
		b.ackCallback(up.CallbackQuery)
		lg.Debug().Str("choice", up.CallbackQuery.Data).Msg("callback received")
		replies = b.machine.Choice(ctx, identity, up.CallbackQuery.Data)

	case up.Message != nil && up.Message.IsCommand():
		botUpdates.WithLabelValues("command").Inc()
		chatID = up.Message.Chat.ID
		cmd := up.Message.Command()
		lg.Info().Str("command", cmd).Msg("command received")
		replies = b.command(ctx, identity, cmd)

	case up.Message != nil:
		botUpdates.WithLabelValues("text").Inc()
		chatID = up.Message.Chat.ID
		replies = b.machine.Text(ctx, identity, up.Message.Text)

	default:
		botUpdates.WithLabelValues("other").Inc()
		return
	}

	for _, r := range replies {
		b.send(chatID, r)
	}
	botUpdateDuration.Observe(time.Since(start).Seconds())
}

// command routes the four bot commands.
func (b *Bot) command(ctx context.Context, identity, cmd string) []conversation.Reply {
	switch cmd {
	case "start":
		b.machine.Reset(identity)
		return []conversation.Reply{{Text: textGreeting}}
	case "help":
		return []conversation.Reply{{Text: textHelp}}
	case "post_invate":
		return b.machine.Begin(ctx, identity)
	case "status":
		return b.machine.Status(ctx, identity)
	default:
		return []conversation.Reply{{Text: textHelp}}
	}
}

// ackCallback answers the callback query and strips the pressed keyboard,
// both best-effort.
func (b *Bot) ackCallback(q *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(q.ID, "")); err != nil {
		b.log.Debug().Err(err).Msg("callback ack failed")
	}
	if q.Message == nil {
		return
	}
	edit := tgbotapi.NewEditMessageReplyMarkup(
		q.Message.Chat.ID,
		q.Message.MessageID,
		tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}},
	)
	if _, err := b.api.Request(edit); err != nil {
		b.log.Debug().Err(err).Msg("keyboard strip failed")
	}
}

// send renders one machine reply into a Telegram message.
func (b *Bot) send(chatID int64, r conversation.Reply) {
	if chatID == 0 || r.Text == "" {
		return
	}
	msg := tgbotapi.NewMessage(chatID, r.Text)
	if markup := markupFor(r.Keyboard); markup != nil {
		msg.ReplyMarkup = markup
	}
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error().Err(err).Int64("chat_id", chatID).Msg("send failed")
		return
	}
	botReplies.Inc()
}

// identityOf extracts the requester identity and chat id from an update.
// Returns an empty identity for update kinds the bot does not handle.
func identityOf(up tgbotapi.Update) (identity string, chatID int64) {
	switch {
	case up.CallbackQuery != nil && up.CallbackQuery.From != nil:
		if up.CallbackQuery.Message != nil {
			chatID = up.CallbackQuery.Message.Chat.ID
		}
		return strconv.FormatInt(up.CallbackQuery.From.ID, 10), chatID
	case up.Message != nil && up.Message.From != nil:
		return strconv.FormatInt(up.Message.From.ID, 10), up.Message.Chat.ID
	default:
		return "", 0
	}
}
