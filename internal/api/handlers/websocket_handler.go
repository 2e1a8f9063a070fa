// server/internal/api/handlers/websocket_handler.go
package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"food-facilities-api-server/internal/models"
	"food-facilities-api-server/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Maximum time to wait for any frame from the client, pings included.
const pongWait = 60 * time.Second

const maxMessageSize = 4096

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// LiveSearchRequest is one search sent by a websocket client.
type LiveSearchRequest struct {
	ID            string   `json:"id,omitempty"`
	Mode          string   `json:"mode"`
	ApplicantName string   `json:"applicantName,omitempty"`
	StreetName    string   `json:"streetName,omitempty"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	Status        string   `json:"status,omitempty"`
}

// LiveSearchResponse answers one LiveSearchRequest. Code follows the HTTP
// status the equivalent GET endpoint would have returned.
type LiveSearchResponse struct {
	ID      string                `json:"id,omitempty"`
	Code    int                   `json:"code"`
	Results []models.FoodFacility `json:"results,omitempty"`
	Error   string                `json:"error,omitempty"`
}

type WebSocketHandler struct {
	Facilities *FacilityHandler
	Hub        *socket.Hub
}

// ServeWs upgrades the connection and answers search messages until the
// client goes away.
func (h *WebSocketHandler) ServeWs(c *gin.Context) {
	logger := h.Facilities.logger()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("failed to upgrade connection", slog.Any("error", err))
		return
	}

	sessionID := h.Hub.Register(conn)
	defer func() {
		h.Hub.Unregister(sessionID)
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	// Replaces gorilla's default ping handler: extend the deadline, then reply with the pong.
	conn.SetPingHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(time.Second))
	})

	for {
		var req LiveSearchRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("unexpected websocket close", slog.String("session", sessionID), slog.Any("error", err))
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))

		resp := h.answer(c, req)
		if err := h.Hub.Send(sessionID, resp); err != nil {
			logger.Warn("failed to write websocket response", slog.String("session", sessionID), slog.Any("error", err))
			return
		}
	}
}

func (h *WebSocketHandler) answer(c *gin.Context, req LiveSearchRequest) LiveSearchResponse {
	q := searchQuery{
		Mode:          req.Mode,
		ApplicantName: req.ApplicantName,
		StreetName:    req.StreetName,
		Status:        req.Status,
	}

	switch req.Mode {
	case modeApplicantName:
		if strings.TrimSpace(req.ApplicantName) == "" {
			return LiveSearchResponse{ID: req.ID, Code: http.StatusBadRequest, Error: applicantNameRequiredMessage}
		}
	case modeLocation:
		if req.Latitude == nil || req.Longitude == nil {
			return LiveSearchResponse{ID: req.ID, Code: http.StatusBadRequest, Error: coordinatesRequiredMessage}
		}
		q.Latitude, q.Longitude = *req.Latitude, *req.Longitude
	}

	out := h.Facilities.execute(c.Request.Context(), q)
	return LiveSearchResponse{
		ID:      req.ID,
		Code:    out.Code,
		Results: out.Facilities,
		Error:   out.Message,
	}
}
