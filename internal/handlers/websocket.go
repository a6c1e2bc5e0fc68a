package handlers

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/talentscreen/interview-api/internal/progress"
	"github.com/talentscreen/interview-api/pkg/metrics"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// the progress stream carries no credentials and no state-changing
	// operations, browser clients connect from anywhere
	CheckOrigin: func(r *http.Request) bool { return true },
}

type subscribeRequest struct {
	InterviewID int64 `json:"interview_id"`
}

// ProgressHandler is the subscription endpoint: it binds one WebSocket
// connection to an interview id and keeps it alive until the client goes
// away. Errors on one connection never escape to other subscribers.
type ProgressHandler struct {
	registry *progress.Registry
}

func NewProgressHandler(registry *progress.Registry) *ProgressHandler {
	return &ProgressHandler{registry: registry}
}

// (GET /ws/progress)
func (h *ProgressHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	logger := zap.S().Named("ws")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warnw("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	// the first frame carries the interview id the client subscribes to
	var req subscribeRequest
	if err := conn.ReadJSON(&req); err != nil || req.InterviewID == 0 {
		logger.Warnw("invalid subscribe handshake", "error", err)
		return
	}

	sink := newWsSink(conn)
	h.registry.Bind(req.InterviewID, sink)
	metrics.SubscriberConnected()
	logger.Infow("subscriber connected", "interview_id", req.InterviewID)

	defer func() {
		h.registry.Unbind(req.InterviewID)
		metrics.SubscriberDisconnected()
		logger.Infow("subscriber disconnected", "interview_id", req.InterviewID)
	}()

	// Block on inbound traffic. Clients only ever send keep-alives or a
	// final completion message; everything else is discarded. Outbound
	// events arrive through the sink, pushed by the notifier.
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType == websocket.TextMessage && strings.EqualFold(strings.TrimSpace(string(data)), "complete") {
			return
		}
	}
}

// wsSink adapts a WebSocket connection to the progress.Sink interface.
// gorilla/websocket allows a single concurrent writer, the mutex keeps
// notifier deliveries serialized.
type wsSink struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func newWsSink(conn *websocket.Conn) *wsSink {
	return &wsSink{conn: conn}
}

func (s *wsSink) Send(event progress.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(event)
}
