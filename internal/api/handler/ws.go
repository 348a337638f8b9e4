package handler

import (
	"net/http"

	"bargainhub/backend/internal/bargainhub"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allows connections from any origin. Tighten for production!
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket authenticates the request and upgrades it to the realtime
// event protocol. Authentication failure is a hard rejection before the
// upgrade; the connection is never established anonymously.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	userID, role, err := h.principalFromRequest(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to upgrade connection"})
		return
	}

	client := bargainhub.NewWSClient(uuid.New().String(), userID, role, conn, h.Hub)
	h.Hub.RegisterCh <- client
	client.Run()
}
