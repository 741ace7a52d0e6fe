package telegram

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"ledgerbot/internal/dialog"
)

type fakeAPI struct {
	updates  chan tgbotapi.Update
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	stopped  bool
	sendErr  error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{updates: make(chan tgbotapi.Update, 4)}
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.sendErr
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeAPI) StopReceivingUpdates() { f.stopped = true }

type recordingRouter struct {
	events  []dialog.Event
	replies []dialog.Reply
}

func (r *recordingRouter) Dispatch(ev dialog.Event) []dialog.Reply {
	r.events = append(r.events, ev)
	return r.replies
}

func textUpdate(text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 7,
		From:      &tgbotapi.User{ID: 1001, FirstName: "Ann", UserName: "ann", LanguageCode: "en"},
		Chat:      &tgbotapi.Chat{ID: 555},
		Text:      text,
	}}
}

func callbackUpdate(data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb-1",
		From:    &tgbotapi.User{ID: 1001, FirstName: "Ann"},
		Message: &tgbotapi.Message{MessageID: 42, Chat: &tgbotapi.Chat{ID: 555}},
		Data:    data,
	}}
}

func TestEventFromUpdate(t *testing.T) {
	ev, ok := EventFromUpdate(textUpdate("/start"))
	if !ok {
		t.Fatal("expected a text event")
	}
	if ev.Type != dialog.EventText || ev.Text != "/start" || ev.ExternalID != "1001" || ev.ConversationID != "555" {
		t.Errorf("unexpected event: %+v", ev)
	}
	if ev.Profile.Username != "ann" || ev.Profile.LanguageCode != "en" {
		t.Errorf("unexpected profile: %+v", ev.Profile)
	}

	ev, ok = EventFromUpdate(callbackUpdate("menu:income"))
	if !ok || ev.Type != dialog.EventOption || ev.Option != "menu:income" || ev.ConversationID != "555" {
		t.Errorf("unexpected option event: %+v", ev)
	}

	if _, ok := EventFromUpdate(tgbotapi.Update{}); ok {
		t.Error("expected an empty update to be ignored")
	}
	if _, ok := EventFromUpdate(textUpdate("")); ok {
		t.Error("expected a message without text to be ignored")
	}
}

func TestKeyboard(t *testing.T) {
	if Keyboard(nil) != nil {
		t.Error("expected no keyboard without options")
	}

	kb := Keyboard([]dialog.Option{
		{Label: "A", Token: "a"},
		{Label: "B", Token: "b"},
		{Label: "C", Token: "c"},
	})
	if len(kb.InlineKeyboard) != 2 || len(kb.InlineKeyboard[0]) != 2 || len(kb.InlineKeyboard[1]) != 1 {
		t.Fatalf("unexpected layout: %+v", kb.InlineKeyboard)
	}
	btn := kb.InlineKeyboard[1][0]
	if btn.Text != "C" || btn.CallbackData == nil || *btn.CallbackData != "c" {
		t.Errorf("unexpected button: %+v", btn)
	}
}

func TestChattable(t *testing.T) {
	reply := dialog.Reply{Target: dialog.TargetReplace, Text: "<b>hi</b>", Options: []dialog.Option{dialog.CancelOption}}

	edit, ok := Chattable(555, 42, reply).(tgbotapi.EditMessageTextConfig)
	if !ok {
		t.Fatalf("expected an edit, got %T", Chattable(555, 42, reply))
	}
	if edit.ChatID != 555 || edit.MessageID != 42 || edit.ParseMode != tgbotapi.ModeHTML || edit.ReplyMarkup == nil {
		t.Errorf("unexpected edit: %+v", edit)
	}

	msg, ok := Chattable(555, 0, reply).(tgbotapi.MessageConfig)
	if !ok {
		t.Fatal("expected a new message when there is nothing to edit")
	}
	if msg.Text != "<b>hi</b>" || msg.ReplyMarkup == nil {
		t.Errorf("unexpected message: %+v", msg)
	}

	plain, ok := Chattable(555, 42, dialog.Reply{Target: dialog.TargetNew, Text: "x"}).(tgbotapi.MessageConfig)
	if !ok || plain.ReplyMarkup != nil {
		t.Errorf("expected a plain new message, got %+v", plain)
	}
}

func TestHandleUpdate(t *testing.T) {
	api := newFakeAPI()
	router := &recordingRouter{replies: []dialog.Reply{
		{Target: dialog.TargetReplace, Text: "first"},
		{Target: dialog.TargetNew, Text: "second"},
	}}
	b := New(api, router)

	b.HandleUpdate(callbackUpdate("menu:expense"))

	if len(api.requests) != 1 {
		t.Errorf("expected the callback to be answered, got %d requests", len(api.requests))
	}
	if len(api.sent) != 2 {
		t.Fatalf("expected two deliveries, got %d", len(api.sent))
	}
	if _, ok := api.sent[0].(tgbotapi.EditMessageTextConfig); !ok {
		t.Errorf("expected the first reply to edit the pressed message, got %T", api.sent[0])
	}
	if _, ok := api.sent[1].(tgbotapi.MessageConfig); !ok {
		t.Errorf("expected the second reply to be a new message, got %T", api.sent[1])
	}
}

func TestRun(t *testing.T) {
	api := newFakeAPI()
	router := &recordingRouter{replies: []dialog.Reply{{Target: dialog.TargetNew, Text: "ok"}}}
	b := New(api, router)

	api.updates <- textUpdate("hello")
	api.updates <- tgbotapi.Update{}
	close(api.updates)

	if err := b.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(router.events) != 1 || len(api.sent) != 1 {
		t.Errorf("expected one dispatched event, got %d events and %d sends", len(router.events), len(api.sent))
	}
	if !api.stopped {
		t.Error("expected polling to be stopped")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	api2 := newFakeAPI()
	if err := New(api2, router).Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context cancellation, got %v", err)
	}
}

func TestNotify(t *testing.T) {
	api := newFakeAPI()
	b := New(api, &recordingRouter{})

	if err := b.Notify(context.Background(), "555", "alert"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	msg := api.sent[0].(tgbotapi.MessageConfig)
	if msg.ChatID != 555 || msg.Text != "alert" {
		t.Errorf("unexpected notification: %+v", msg)
	}

	if err := b.Notify(context.Background(), "not-a-chat", "alert"); err == nil {
		t.Error("expected an invalid chat id to fail")
	}

	api.sendErr = errors.New("blocked by user")
	if err := b.Notify(context.Background(), "555", "alert"); err == nil {
		t.Error("expected the send error to surface")
	}
}
