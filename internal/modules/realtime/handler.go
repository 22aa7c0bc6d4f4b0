package realtime

import (
	"net/http"

	"functionhall/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewHandler accepts upgrades from the listed origins. An empty list allows
// any origin.
func NewHandler(hub *Hub, allowedOrigins []string) *Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || origin == "" || allowed[origin]
			},
		},
	}
}

// RegisterRoutes expects the admin group; JWTAuth accepts ?token= on upgrades.
func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	admin.GET("/ws", h.Serve)
}

func (h *Handler) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.WithContext(c.Request.Context()).Warn("admin feed upgrade failed", "error", err)
		return
	}

	cl := &client{userID: c.GetInt64("user_id"), conn: conn, send: make(chan Event, sendBuffer)}
	h.hub.register(cl)
	logger.WithContext(c.Request.Context()).Info("admin feed connected", "online", h.hub.OnlineCount())

	go cl.writeLoop()
	cl.readLoop()
	h.hub.unregister(cl)
}
