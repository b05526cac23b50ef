package ws

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The REST surface already allows any origin; the push channel
	// follows the same policy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler returns the gin handler for GET /ws: upgrade, register with the
// hub, start the pumps. The connection receives every event published
// after registration; catching up on earlier state is the client's
// baseline pull.
func Handler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		wsConn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the HTTP error response.
			hub.log.Debug("websocket upgrade failed", "err", err)
			return
		}
		client := newClient(hub, wsConn, hub.sendBuffer, hub.log)
		hub.Register(client)
		go client.writePump(hub.sendTimeout, hub.pingInterval)
		go client.readPump()
	}
}
