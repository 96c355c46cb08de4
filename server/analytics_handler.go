package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/techagentng/oceanwatch/models"
	"github.com/techagentng/oceanwatch/server/response"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// WebSocket upgrader
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// currentSummary prefers the refresher's last result and computes on demand before the first tick.
func (s *Server) currentSummary() (*models.Summary, error) {
	if s.Refresher != nil {
		if latest := s.Refresher.Latest(); latest != nil {
			return latest, nil
		}
	}
	summary, err := s.ReportService.Analytics()
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *Server) handleGetAnalytics() gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := s.currentSummary()
		if err != nil {
			status, e := serviceError(err)
			response.JSON(c, "", status, nil, e)
			return
		}
		response.JSON(c, "analytics retrieved", http.StatusOK, summary, nil)
	}
}

// handleAnalyticsStream pushes the current Summary and then one per refresh.
func (s *Server) handleAnalyticsStream() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.Refresher == nil {
			response.JSON(c, "live analytics disabled", http.StatusServiceUnavailable, nil, nil)
			return
		}
		up := upgrader
		up.CheckOrigin = s.checkOrigin
		conn, err := up.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("websocket upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		updates, unsubscribe := s.Refresher.Subscribe()
		defer unsubscribe()

		closed := make(chan struct{})
		go readUntilClosed(conn, closed)

		if summary, err := s.currentSummary(); err == nil {
			if err := writeSummary(conn, summary); err != nil {
				return
			}
		}

		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-closed:
				return
			case summary, ok := <-updates:
				if !ok {
					return
				}
				if err := writeSummary(conn, &summary); err != nil {
					return
				}
			case <-ticker.C:
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}
}

func (s *Server) checkOrigin(r *http.Request) bool {
	allowed := s.Config.AccessControlAllowOrigin
	if allowed == "" || allowed == "*" {
		return true
	}
	origin := r.Header.Get("Origin")
	for _, o := range splitOrigins(allowed) {
		if o == origin {
			return true
		}
	}
	return false
}

func writeSummary(conn *websocket.Conn, summary *models.Summary) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(summary)
}

// readUntilClosed drains client frames so pongs and close frames are processed.
func readUntilClosed(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
