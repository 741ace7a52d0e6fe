// Package telegram connects the chat router to the Telegram Bot API using
// long polling.
package telegram

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"ledgerbot/internal/dialog"
	"ledgerbot/internal/logger"
	"ledgerbot/internal/models"
)

const (
	pollTimeout   = 60
	buttonsPerRow = 2
)

// API is the subset of *tgbotapi.BotAPI the bot uses.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Dispatcher turns one chat event into replies.
type Dispatcher interface {
	Dispatch(ev dialog.Event) []dialog.Reply
}

// Bot receives Telegram updates and delivers the router's replies.
type Bot struct {
	api    API
	router Dispatcher
	log    *zap.SugaredLogger
}

// NewAPI connects to Telegram with token.
func NewAPI(token string) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}
	return api, nil
}

// New creates a Bot.
func New(api API, router Dispatcher) *Bot {
	return &Bot{api: api, router: router, log: logger.Named("telegram")}
}

// Run polls for updates until ctx is cancelled or the update channel closes.
// Updates are handled one at a time, which keeps each conversation ordered.
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = pollTimeout
	updates := b.api.GetUpdatesChan(cfg)
	defer b.api.StopReceivingUpdates()

	b.log.Info("Polling for telegram updates")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.HandleUpdate(update)
		}
	}
}

// HandleUpdate dispatches a single update and delivers the replies.
func (b *Bot) HandleUpdate(update tgbotapi.Update) {
	ev, ok := EventFromUpdate(update)
	if !ok {
		return
	}

	if cq := update.CallbackQuery; cq != nil {
		if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
			b.log.Warnw("failed to answer callback", "callback_id", cq.ID, "error", err)
		}
	}

	chatID, messageID := origin(update)
	for _, reply := range b.router.Dispatch(ev) {
		if _, err := b.api.Send(Chattable(chatID, messageID, reply)); err != nil {
			b.log.Errorw("failed to deliver reply", "chat_id", chatID, "target", reply.Target, "error", err)
		}
	}
}

// Notify sends text to a conversation outside any dialog.
func (b *Bot) Notify(_ context.Context, conversationID, text string) error {
	chatID, err := strconv.ParseInt(conversationID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid telegram chat id %q: %w", conversationID, err)
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}

// EventFromUpdate converts a text message or a button press into an Event.
// Other updates are ignored.
func EventFromUpdate(update tgbotapi.Update) (dialog.Event, bool) {
	switch {
	case update.CallbackQuery != nil:
		cq := update.CallbackQuery
		if cq.From == nil || cq.Message == nil || cq.Message.Chat == nil {
			return dialog.Event{}, false
		}
		return dialog.Event{
			ExternalID:     strconv.FormatInt(cq.From.ID, 10),
			ConversationID: strconv.FormatInt(cq.Message.Chat.ID, 10),
			Profile:        profile(cq.From),
			Type:           dialog.EventOption,
			Option:         cq.Data,
		}, true

	case update.Message != nil:
		msg := update.Message
		if msg.From == nil || msg.Chat == nil || msg.Text == "" {
			return dialog.Event{}, false
		}
		return dialog.Event{
			ExternalID:     strconv.FormatInt(msg.From.ID, 10),
			ConversationID: strconv.FormatInt(msg.Chat.ID, 10),
			Profile:        profile(msg.From),
			Type:           dialog.EventText,
			Text:           msg.Text,
		}, true
	}
	return dialog.Event{}, false
}

func profile(u *tgbotapi.User) models.Profile {
	return models.Profile{
		Username:     u.UserName,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		LanguageCode: u.LanguageCode,
	}
}

// origin returns the chat of an update and, for button presses, the message
// carrying the pressed keyboard.
func origin(update tgbotapi.Update) (int64, int) {
	if cq := update.CallbackQuery; cq != nil && cq.Message != nil {
		return cq.Message.Chat.ID, cq.Message.MessageID
	}
	if update.Message != nil && update.Message.Chat != nil {
		return update.Message.Chat.ID, 0
	}
	return 0, 0
}

// Chattable builds the API call for reply. A replace target edits messageID
// in place; without a message to edit it falls back to a new message.
func Chattable(chatID int64, messageID int, reply dialog.Reply) tgbotapi.Chattable {
	keyboard := Keyboard(reply.Options)

	if reply.Target == dialog.TargetReplace && messageID != 0 {
		edit := tgbotapi.NewEditMessageText(chatID, messageID, reply.Text)
		edit.ParseMode = tgbotapi.ModeHTML
		edit.ReplyMarkup = keyboard
		return edit
	}

	msg := tgbotapi.NewMessage(chatID, reply.Text)
	msg.ParseMode = tgbotapi.ModeHTML
	if keyboard != nil {
		msg.ReplyMarkup = *keyboard
	}
	return msg
}

// Keyboard lays options out as an inline keyboard, two buttons per row.
func Keyboard(options []dialog.Option) *tgbotapi.InlineKeyboardMarkup {
	if len(options) == 0 {
		return nil
	}
	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(options); i += buttonsPerRow {
		end := min(i+buttonsPerRow, len(options))
		row := make([]tgbotapi.InlineKeyboardButton, 0, end-i)
		for _, o := range options[i:end] {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(o.Label, o.Token))
		}
		rows = append(rows, row)
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}
