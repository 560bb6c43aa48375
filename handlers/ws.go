package handlers

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
)

// WSHandler pushes change signals to every browser tab watching a club. Only
// the entity kind and the actor travel on the wire; the tabs refetch through
// the REST API, so computed numbers are never pushed.
type WSHandler struct {
	M *melody.Melody
}

func NewWSHandler() *WSHandler {
	m := melody.New()

	m.Config.MaxMessageSize = 1024 * 1024

	// Keep-Alive Configuration (Critical for Render.com/Cloud hosting)
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleDisconnect(func(s *melody.Session) {
		clubID, _ := s.Get("club_id")
		log.Printf("🔌 Client disconnected from club: %v", clubID)
	})

	m.HandleError(func(s *melody.Session, err error) {
		log.Printf("❌ WebSocket Error: %v", err)
	})

	return &WSHandler{M: m}
}

// HandleWS gère la connexion WebSocket
func (h *WSHandler) HandleWS(c *gin.Context) {
	clubID := c.Param("id")

	err := h.M.HandleRequest(c.Writer, c.Request)
	if err != nil {
		log.Printf("❌ Failed to upgrade websocket: %v", err)
		return
	}

	h.M.HandleConnect(func(s *melody.Session) {
		s.Set("club_id", clubID)
		log.Printf("✅ Client connected to club: %s", clubID)
	})
}

// BroadcastUpdate envoie un signal à tous les clients écoutant ce club.
// updateType names the entity that changed (members, finance, events, club).
func (h *WSHandler) BroadcastUpdate(clubID string, updateType string, userWhoUpdated string) {
	// Simple JSON construction to avoid struct overhead for simple signals
	msg := []byte(`{"type": "` + updateType + `", "user": "` + userWhoUpdated + `"}`)

	err := h.M.BroadcastFilter(msg, func(q *melody.Session) bool {
		id, exists := q.Get("club_id")
		return exists && id == clubID
	})

	if err != nil {
		log.Printf("⚠️ Error broadcasting to club %s: %v", clubID, err)
	}
}
