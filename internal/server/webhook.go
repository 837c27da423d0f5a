package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
)

// ChatUpdate is the platform-neutral envelope the webhook accepts: who said
// what in which room. A chat-platform adapter posts these here.
type ChatUpdate struct {
	UpdateId int64 `json:"update_id"`
	Message  struct {
		MessageId int64  `json:"message_id"`
		Text      string `json:"text"`
		Chat      struct {
			Id int64 `json:"id"`
		} `json:"chat"`
		From struct {
			Id        int64  `json:"id"`
			FirstName string `json:"first_name"`
			Username  string `json:"username"`
		} `json:"from"`
	} `json:"message"`
}

// HandleWebhook dispatches one incoming chat update into the bot router.
// Always answers 200 for well-formed envelopes so the platform does not
// redeliver; game-level rejections go back through the Notifier.
func (s *Server) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	var update ChatUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Printf("[HandleWebhook] malformed update: %v", err)
		http.Error(w, "malformed update", http.StatusBadRequest)
		return
	}

	if update.Message.Text == "" || update.Message.Chat.Id == 0 || update.Message.From.Id == 0 {
		// Non-text updates (stickers, joins, etc.) are not game events.
		w.WriteHeader(http.StatusOK)
		return
	}

	roomId := strconv.FormatInt(update.Message.Chat.Id, 10)
	playerId := strconv.FormatInt(update.Message.From.Id, 10)
	name := update.Message.From.FirstName
	if name == "" {
		name = update.Message.From.Username
	}

	s.router.HandleMessage(roomId, playerId, name, update.Message.Text)

	w.WriteHeader(http.StatusOK)
}
