package handlers

import (
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/divizend/dreaming/db"
	"github.com/divizend/dreaming/internal/services"
	"github.com/divizend/dreaming/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// AllowedOrigins lists the browser origins allowed to open refresh sockets.
var AllowedOrigins []string

// wsClient serializes writes; gorilla connections allow one writer at a time.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

func (c *wsClient) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

var (
	projectClients   = make(map[string]map[*wsClient]bool)
	projectClientsMu sync.RWMutex
)

func addClient(projectID string, client *wsClient) {
	projectClientsMu.Lock()
	defer projectClientsMu.Unlock()

	if projectClients[projectID] == nil {
		projectClients[projectID] = make(map[*wsClient]bool)
	}
	projectClients[projectID][client] = true
}

func removeClient(projectID string, client *wsClient) {
	projectClientsMu.Lock()
	defer projectClientsMu.Unlock()

	if clients, exists := projectClients[projectID]; exists {
		delete(clients, client)

		if len(clients) == 0 {
			delete(projectClients, projectID)
		}
	}
}

// BroadcastRefresh tells every client watching the project to refetch.
func BroadcastRefresh(projectID string) {
	projectClientsMu.RLock()
	clients, exists := projectClients[projectID]
	if !exists || len(clients) == 0 {
		projectClientsMu.RUnlock()
		return
	}

	// Copy so the lock is not held while writing.
	clientsCopy := make([]*wsClient, 0, len(clients))
	for client := range clients {
		clientsCopy = append(clientsCopy, client)
	}
	projectClientsMu.RUnlock()

	for _, client := range clientsCopy {
		err := client.writeJSON(map[string]string{
			"type":      "refresh",
			"projectId": projectID,
		})

		if err != nil {
			slog.Warn("Failed to broadcast refresh", "project_id", projectID, "error", err)
			removeClient(projectID, client)
			client.conn.Close()
		}
	}
}

func checkOrigin(r *http.Request) bool {
	return slices.Contains(AllowedOrigins, r.Header.Get("Origin"))
}

func WebSocket(ctx *gin.Context) {
	project, err := utils.GetCurrentProject(ctx)

	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	// Only members of the project may watch it.
	if _, err := services.GetFunds(ctx.Request.Context(), db.DB, userID, project.ID); err != nil {
		respondServiceError(ctx, err, "Failed to check project access")
		return
	}

	projectID := project.ID
	upgrader := websocket.Upgrader{CheckOrigin: checkOrigin}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		slog.Warn("WebSocket upgrade failed", "error", err)
		return
	}

	client := &wsClient{conn: conn}

	conn.SetReadLimit(maxMessageSize)
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	addClient(projectID, client)

	defer func() {
		removeClient(projectID, client)
		conn.Close()
		slog.Debug("WebSocket connection closed", "project_id", projectID)
	}()

	err = client.writeJSON(map[string]string{
		"type":      "connected",
		"projectId": projectID,
	})

	if err != nil {
		slog.Warn("Failed to send welcome message", "project_id", projectID, "error", err)
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := client.ping(); err != nil {
					slog.Debug("Ping failed", "project_id", projectID, "error", err)
					return
				}
			}
		}
	}()

	// Clients only listen; reading drives pong handling and close detection.
	for {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			break
		}

		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("WebSocket error", "project_id", projectID, "error", err)
			}
			break
		}
	}
}
