package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"ledgerbot/internal/dialog"
)

func setupChatRouter(handler *ChatHandler) *gin.Engine {
	r := gin.New()
	r.POST("/chat/events", handler.HandleEvent)
	return r
}

func TestChatHandler_HandleEvent(t *testing.T) {
	t.Run("returns replies in order", func(t *testing.T) {
		var got dialog.Event
		d := &mockDispatcher{
			dispatchFn: func(ev dialog.Event) []dialog.Reply {
				got = ev
				return []dialog.Reply{
					{Target: dialog.TargetReplace, Text: "first"},
					{Target: dialog.TargetNew, Text: "second", Options: []dialog.Option{{Label: "Back", Token: "menu:main"}}},
				}
			},
		}
		r := setupChatRouter(NewChatHandler(d))

		rec := doRequest(r, http.MethodPost, "/chat/events",
			`{"external_id":"42","conversation_id":"c-1","type":"option","option":"menu:expense","profile":{"first_name":"Ann"}}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.ExternalID != "42" || got.Type != dialog.EventOption || got.Option != "menu:expense" || got.Profile.FirstName != "Ann" {
			t.Errorf("unexpected dispatched event: %+v", got)
		}
		replies, ok := parseJSON(t, rec)["replies"].([]interface{})
		if !ok || len(replies) != 2 {
			t.Fatalf("expected 2 replies, got %v", replies)
		}
		first := replies[0].(map[string]interface{})
		if first["text"] != "first" || first["target"] != "replace" {
			t.Errorf("unexpected first reply: %v", first)
		}
	})

	t.Run("returns an empty list when nothing is sent", func(t *testing.T) {
		r := setupChatRouter(NewChatHandler(&mockDispatcher{}))
		rec := doRequest(r, http.MethodPost, "/chat/events", `{"external_id":"42","conversation_id":"c-1","type":"text","text":"hi"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		replies, ok := parseJSON(t, rec)["replies"].([]interface{})
		if !ok || len(replies) != 0 {
			t.Errorf("expected empty replies array, got %v", parseJSON(t, rec)["replies"])
		}
	})

	t.Run("returns 400 on unknown event type", func(t *testing.T) {
		called := false
		d := &mockDispatcher{dispatchFn: func(dialog.Event) []dialog.Reply { called = true; return nil }}
		r := setupChatRouter(NewChatHandler(d))
		rec := doRequest(r, http.MethodPost, "/chat/events", `{"external_id":"42","conversation_id":"c-1","type":"voice"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		if called {
			t.Error("dispatcher must not be called for invalid input")
		}
	})

	t.Run("returns 400 without external id", func(t *testing.T) {
		r := setupChatRouter(NewChatHandler(&mockDispatcher{}))
		rec := doRequest(r, http.MethodPost, "/chat/events", `{"conversation_id":"c-1","type":"text","text":"hi"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on malformed JSON", func(t *testing.T) {
		r := setupChatRouter(NewChatHandler(&mockDispatcher{}))
		rec := doRequest(r, http.MethodPost, "/chat/events", `{"external_id":`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
