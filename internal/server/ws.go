package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/scythe504/goroda-bot/internal"
	"github.com/scythe504/goroda-bot/internal/utils"
)

// =============================================================================
// WEBSOCKET CHAT TRANSPORT
// =============================================================================

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ChatFrame is one JSON frame pushed to websocket clients. type is "message"
// for a new message or "edit" for an in-place update of message_id.
type ChatFrame struct {
	Type      string `json:"type"`
	RoomId    string `json:"room_id"`
	MessageId int64  `json:"message_id,omitempty"`
	Text      string `json:"text"`
}

type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// SafeWriteJSON serializes concurrent writes to one connection.
func (c *wsClient) SafeWriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Hub broadcasts chat frames to every websocket client attached to a room.
// It is the live implementation of the core's Notifier contract.
type Hub struct {
	mu            sync.RWMutex
	rooms         map[string]map[*wsClient]struct{}
	nextMessageId atomic.Int64
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*wsClient]struct{}),
	}
}

func (h *Hub) addClient(roomId string, client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[roomId] == nil {
		h.rooms[roomId] = make(map[*wsClient]struct{})
	}
	h.rooms[roomId][client] = struct{}{}
}

func (h *Hub) removeClient(roomId string, client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms[roomId], client)
	if len(h.rooms[roomId]) == 0 {
		delete(h.rooms, roomId)
	}
}

// broadcast pushes a frame to a snapshot of the room's clients, without
// holding the hub lock during writes.
func (h *Hub) broadcast(roomId string, frame ChatFrame) {
	h.mu.RLock()
	clients := make([]*wsClient, 0, len(h.rooms[roomId]))
	for client := range h.rooms[roomId] {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		if err := client.SafeWriteJSON(frame); err != nil {
			log.Printf("[broadcast] room=%s: write failed: %v", roomId, err)
		}
	}
}

func (h *Hub) Notify(roomId, text string) {
	h.broadcast(roomId, ChatFrame{Type: "message", RoomId: roomId, Text: text})
}

func (h *Hub) NotifyWithRef(roomId, text string) (internal.MessageRef, error) {
	messageId := h.nextMessageId.Add(1)
	h.broadcast(roomId, ChatFrame{Type: "message", RoomId: roomId, MessageId: messageId, Text: text})
	return internal.MessageRef{RoomId: roomId, MessageId: messageId}, nil
}

func (h *Hub) Edit(ref internal.MessageRef, text string) error {
	h.broadcast(ref.RoomId, ChatFrame{Type: "edit", RoomId: ref.RoomId, MessageId: ref.MessageId, Text: text})
	return nil
}

// HandleWebSocket upgrades the connection and pumps incoming chat lines into
// the bot router. Each connection is one player in one room.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Upgrade failed: ", err)
		return
	}

	roomId := mux.Vars(r)["roomId"]
	if roomId == "" {
		log.Println("No room id provided")
		conn.Close()
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = "Аноним"
	}
	playerId := r.URL.Query().Get("user")
	if playerId == "" {
		playerId = utils.GenerateID(8)
	}

	client := &wsClient{conn: conn}
	s.hub.addClient(roomId, client)
	log.Printf("[HandleWebSocket] room=%s: player %s (%s) connected", roomId, playerId, name)

	go s.readPump(roomId, playerId, name, client)
}

type inboundFrame struct {
	Text string `json:"text"`
}

func (s *Server) readPump(roomId, playerId, name string, client *wsClient) {
	defer func() {
		client.conn.Close()
		s.hub.removeClient(roomId, client)
		log.Printf("[readPump] room=%s: player %s disconnected", roomId, playerId)
	}()

	for {
		_, raw, err := client.conn.ReadMessage()
		if err != nil {
			return
		}

		// Accept either a JSON frame {"text": "..."} or a bare line.
		text := string(raw)
		var frame inboundFrame
		if err := json.Unmarshal(raw, &frame); err == nil && frame.Text != "" {
			text = frame.Text
		}

		s.router.HandleMessage(roomId, playerId, name, text)
	}
}
