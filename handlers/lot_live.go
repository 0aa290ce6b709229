package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"findmyspot/models"
	"findmyspot/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// LotStatusHub fans detector reports out to every connected dashboard.
type LotStatusHub struct {
	clients    map[*websocket.Conn]bool
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	broadcast  chan []byte
	done       chan struct{}
	mutex      sync.RWMutex
}

// NewLotStatusHub creates a hub; call Start before serving connections.
func NewLotStatusHub() *LotStatusHub {
	return &LotStatusHub{
		clients:    make(map[*websocket.Conn]bool),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		broadcast:  make(chan []byte, 16),
		done:       make(chan struct{}),
	}
}

// Start runs the hub loop until ctx is done, then closes every connection.
func (h *LotStatusHub) Start(ctx context.Context) {
	logger := utils.GetLogger()
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for client := range h.clients {
				client.Close()
				delete(h.clients, client)
			}
			h.mutex.Unlock()
			return

		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			logger.Debug("lot feed: client connected", zap.Int("clients", h.ClientCount()))

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
			}
			h.mutex.Unlock()

		case message := <-h.broadcast:
			h.mutex.Lock()
			for client := range h.clients {
				_ = client.SetWriteDeadline(time.Now().Add(writeWait))
				if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
					logger.Debug("lot feed: dropping client", zap.Error(err))
					client.Close()
					delete(h.clients, client)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// ClientCount returns the number of connected dashboards.
func (h *LotStatusHub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// BroadcastLotStatus queues a report for every client; it never blocks the publisher.
func (h *LotStatusHub) BroadcastLotStatus(status models.LotStatus) {
	message, err := json.Marshal(status)
	if err != nil {
		utils.GetLogger().Warn("lot feed: marshal failed", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- message:
	default:
		utils.GetLogger().Warn("lot feed: broadcast channel full, dropping report")
	}
}

// LiveLotStatusHandler upgrades to a websocket that receives every new report.
func (h *LotStatusHub) LiveLotStatusHandler(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.GetLogger().Info("lot feed: upgrade failed", zap.Error(err))
		return
	}
	select {
	case h.register <- conn:
	case <-h.done:
		conn.Close()
		return
	}

	go func() {
		defer func() {
			select {
			case h.unregister <- conn:
			case <-h.done:
			}
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					utils.GetLogger().Debug("lot feed: read error", zap.Error(err))
				}
				return
			}
		}
	}()
}
