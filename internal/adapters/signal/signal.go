package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/dkeye/buzzd/internal/app"
	"github.com/dkeye/buzzd/internal/config"
	"github.com/dkeye/buzzd/internal/domain"
	"github.com/dkeye/buzzd/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var ErrBackpressure = errors.New("backpressure")

// Controller is the only component touching the websocket transport.
// It parses inbound events, calls the coordinator, and turns results
// into room-wide broadcasts or unicasts back to the sender.
type Controller struct {
	Coord    *app.Coordinator
	hub      *hub
	limiter  *connRateLimiter
	upgrader websocket.Upgrader
	cfg      *config.Config
}

func NewController(coord *app.Coordinator, cfg *config.Config) *Controller {
	return &Controller{
		Coord:   coord,
		hub:     newHub(),
		limiter: newConnRateLimiter(cfg.RateLimit, cfg.RateInterval),
		upgrader: websocket.Upgrader{
			CheckOrigin: originChecker(cfg.AllowedOrigins),
		},
		cfg: cfg,
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		for _, a := range allowed {
			if a == origin || a == "*" {
				return true
			}
		}
		return false
	}
}

type wsConn struct {
	conn *websocket.Conn
	send chan []byte

	mu     sync.RWMutex
	closed bool
}

func (c *wsConn) TrySend(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- data:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

// HandleSignal upgrades the request and runs the connection's pumps
// until the peer goes away.
func (ctl *Controller) HandleSignal(ctx context.Context, c *gin.Context) {
	sid := domain.ConnID(c.GetString("client_token"))
	log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("new WS connection")

	ws, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	if ctl.cfg.ReadLimit > 0 {
		ws.SetReadLimit(ctl.cfg.ReadLimit)
	}

	conn := &wsConn{
		conn: ws,
		send: make(chan []byte, ctl.cfg.SendBuffer),
	}

	metrics.ConnectionsLive.Inc()
	ctx, cancel := context.WithCancel(ctx)

	go ctl.writePump(ctx, conn)
	go func() {
		defer cancel()
		ctl.readPump(ctx, sid, conn)
		ctl.disconnect(sid)
		metrics.ConnectionsLive.Dec()
	}()
}

// disconnect runs once the read loop exits. It vacates every seat the
// connection held and tells the affected rooms.
func (ctl *Controller) disconnect(sid domain.ConnID) {
	for _, effect := range ctl.Coord.Disconnect(sid) {
		if effect.HostLeft {
			ctl.hub.broadcast(effect.Room, newRoomClosed("Host has left the game"))
			ctl.hub.dropRoom(effect.Room)
			continue
		}
		ctl.hub.broadcast(effect.Room, newRoomStateUpdate(effect.Snapshot))
	}
	ctl.hub.dropConn(sid)
	ctl.limiter.Forget(sid)
	log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("disconnected")
}

// deadline for a single outbound frame
const writeWait = 5 * time.Second
