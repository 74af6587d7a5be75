package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"tgm_calc/internal/models"
	"tgm_calc/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 1 * time.Second
	maxInterval      = 10 * time.Second
	maxIntervalMilli = 10_000 // 10s in ms
)

const (
	envSnapshot = "snapshot"
	envActivity = "activity"
)

type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Same-origin only; browsers always send Origin on upgrade requests.
var upgrader = websocket.Upgrader{
	CheckOrigin: sameOrigin,
}

func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return origin == "http://"+r.Host || origin == "https://"+r.Host
}

// activityCursor remembers the highest sequence number already sent to a
// client. Sequence numbers follow commit order, so a late commit with an
// older timestamp is still picked up by the next poll.
type activityCursor struct {
	userID int
	last   int64
}

func (cur *activityCursor) advance(events []models.ActivityEvent) {
	for _, e := range events {
		if e.Seq > cur.last {
			cur.last = e.Seq
		}
	}
}

func (cur *activityCursor) filter() service.LogFilter {
	return service.LogFilter{UserID: cur.userID, AfterSeq: cur.last}
}

// wsActivity streams the caller's activity log: one snapshot of everything
// recorded so far, then an "activity" message per poll that found new events.
func (h *Handler) wsActivity(c *gin.Context) {
	userID, _ := currentUserID(c)
	interval := h.parseInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	// Configure read limits and pong handler to extend read deadline.
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go h.startReader(conn, done)

	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	ctx := c.Request.Context()
	cur := &activityCursor{userID: userID}
	if err := h.sendActivity(ctx, conn, cur, envSnapshot, true); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err, "user_id", userID)
		}
		return
	}

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case <-ticker.C:
			if err := h.sendActivity(ctx, conn, cur, envActivity, false); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err, "user_id", userID)
				}
				return
			}
		}
	}
}

// Helper: parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	interval := defaultInterval

	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}

	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}

	return interval
}

// Helper: startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}

// sendActivity writes events newer than the cursor. Empty polls write
// nothing unless always is set.
func (h *Handler) sendActivity(ctx context.Context, conn *websocket.Conn, cur *activityCursor, typ string, always bool) error {
	events, err := h.services.ActivityLog.List(ctx, cur.filter())
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_list_activity_failed", "err", err, "user_id", cur.userID)
		}
		return err
	}
	if len(events) == 0 && !always {
		return nil
	}
	cur.advance(events)
	if events == nil {
		events = []models.ActivityEvent{}
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(wsEnvelope{Type: typ, Data: events})
}
