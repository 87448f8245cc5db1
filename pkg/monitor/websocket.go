package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"digital.vasic.webuitest/pkg/logging"
)

// Frame types sent to websocket clients.
const (
	FrameStats     = "stats"
	FrameEvent     = "event"
	FrameDashboard = "dashboard"
)

const (
	clientBuffer = 32
	writeWait    = 5 * time.Second
)

// Frame is a single message on the /ws stream.
type Frame struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// Server streams step events to websocket clients and serves
// JSON snapshots of the run.
//
// Endpoints: /ws, /stats, /dashboard, /health.
type Server struct {
	mu        sync.RWMutex
	collector *EventCollector
	dashboard *Dashboard
	logger    logging.Logger
	clients   map[*wsClient]struct{}
	upgrader  websocket.Upgrader
	addr      string
	server    *http.Server
}

// NewServer creates a monitor server bound to addr. Events
// emitted on collector update dashboard and are broadcast to
// every connected client.
func NewServer(
	addr string,
	collector *EventCollector,
	dashboard *Dashboard,
	logger logging.Logger,
) *Server {
	s := &Server{
		addr:      addr,
		collector: collector,
		dashboard: dashboard,
		logger:    logging.OrNull(logger),
		clients:   make(map[*wsClient]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	collector.OnEvent(func(event StepEvent) {
		s.dashboard.UpdateFromEvent(event)
		data, err := json.Marshal(Frame{Type: FrameEvent, Data: event})
		if err != nil {
			s.logger.Warn("failed to encode event", logging.ErrorField(err))
			return
		}
		s.broadcast(data)
	})
	return s
}

// Handler returns the HTTP handler serving all endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/stats", s.handleStats)
	mux.HandleFunc("/dashboard", s.handleDashboard)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// Start serves until ctx is cancelled or the server fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.server
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		_ = s.Stop(context.Background())
	}()

	s.logger.Info("monitor listening", logging.StringField("addr", s.addr))
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("monitor server: %w", err)
	}
	return nil
}

// Stop shuts the server down and disconnects all clients.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	clients := s.clients
	s.clients = make(map[*wsClient]struct{})
	s.mu.Unlock()

	for c := range clients {
		close(c.send)
	}
	if srv != nil {
		return srv.Shutdown(ctx)
	}
	return nil
}

// ClientCount returns the number of connected websocket
// clients.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", logging.ErrorField(err))
		return
	}

	c := &wsClient{conn: conn, send: make(chan []byte, clientBuffer)}

	// The initial stats frame is queued before registration so
	// it always precedes broadcast events.
	if data, err := json.Marshal(Frame{Type: FrameStats, Data: s.collector.Stats()}); err == nil {
		c.send <- data
	}

	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()

	go s.writeLoop(c)
	s.readLoop(c)
}

// readLoop discards client input and unregisters the client
// once the connection closes.
func (s *Server) readLoop(c *wsClient) {
	defer s.unregister(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) writeLoop(c *wsClient) {
	defer c.conn.Close()
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	_ = c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait),
	)
}

func (s *Server) unregister(c *wsClient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
}

func (s *Server) broadcast(data []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			// Client too slow, skip
		}
	}
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.collector.Stats())
}

func (s *Server) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.dashboard.Snapshot())
}
