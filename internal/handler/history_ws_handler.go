package handler

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/optimum-study/optimum-backend/internal/config"
	"github.com/optimum-study/optimum-backend/internal/middleware"
	"github.com/optimum-study/optimum-backend/internal/service"
	ws "github.com/optimum-study/optimum-backend/internal/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// HistoryWSHandler streams live quiz history over WebSocket. A snapshot is
// pushed on connect and again whenever the result worker persists a new
// result for the user.
type HistoryWSHandler struct {
	rdb           *redis.Client
	resultService *service.ResultService
	log           zerolog.Logger
	upgrader      websocket.Upgrader
}

// NewHistoryWSHandler creates a new HistoryWSHandler.
func NewHistoryWSHandler(rdb *redis.Client, resultService *service.ResultService, log zerolog.Logger, allowedOrigins []string) *HistoryWSHandler {
	return &HistoryWSHandler{
		rdb:           rdb,
		resultService: resultService,
		log:           log.With().Str("component", "history_ws_handler").Logger(),
		upgrader:      buildUpgrader(allowedOrigins),
	}
}

// Stream godoc
// WS /ws/v1/history/stream?token=...
// Upgrades to WebSocket and keeps the client's history view current.
func (h *HistoryWSHandler) Stream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	userID := claims.UserID
	wsLog := h.log.With().Str("user_id", userID.String()).Logger()
	wsLog.Info().Msg("History stream connected")

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// The notification goroutine and the reader loop both write to the
	// connection; writes must be serialized.
	var writeMu sync.Mutex

	if err := h.pushSnapshot(ctx, conn, &writeMu, claims); err != nil {
		wsLog.Warn().Err(err).Msg("Initial snapshot failed")
		return
	}

	sub := h.rdb.Subscribe(ctx, config.CacheKey.UserResultsChannel(userID.String()))
	defer sub.Close()

	// Writer: one snapshot per persisted-result notification.
	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				if err := h.pushSnapshot(ctx, conn, &writeMu, claims); err != nil {
					wsLog.Warn().Err(err).Msg("Snapshot push failed")
					cancel()
					return
				}
			}
		}
	}()

	// Reader: client pings and manual refresh requests. A read error means
	// the client is gone and tears the stream down.
	for {
		var msg ws.RequestEnvelope
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		switch msg.Action {
		case ws.ActionPing:
			writeMu.Lock()
			ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
			writeMu.Unlock()
		case ws.ActionRefresh:
			if err := h.pushSnapshot(ctx, conn, &writeMu, claims); err != nil {
				wsLog.Warn().Err(err).Msg("Refresh snapshot failed")
				return
			}
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			writeMu.Lock()
			ws.WriteError(conn, "unknown action: "+string(msg.Action))
			writeMu.Unlock()
		}
	}
}

func (h *HistoryWSHandler) pushSnapshot(ctx context.Context, conn *websocket.Conn, writeMu *sync.Mutex, claims *service.Claims) error {
	results, err := h.resultService.ListByUser(ctx, claims.UserID)
	if err != nil {
		writeMu.Lock()
		ws.WriteError(conn, "failed to load history")
		writeMu.Unlock()
		return err
	}
	writeMu.Lock()
	defer writeMu.Unlock()
	return ws.WriteTyped(conn, ws.HistoryResponse{
		Event:   ws.EventHistory,
		Results: results,
	})
}
