package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/RJETanjutcoII/sports-engine/internal/shared/logger"
	"github.com/RJETanjutcoII/sports-engine/internal/shared/types"
	"github.com/RJETanjutcoII/sports-engine/internal/simulation"
)

type client struct {
	id     string
	driver bool
	conn   *websocket.Conn
	send   chan []byte
}

type server struct {
	log      *logger.Logger
	session  *simulation.Session
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]*client
	driver  string // client id currently controlling the player
}

func main() {
	log := logger.New("simserver")
	addr := getEnv("SIM_ADDR", ":9100")
	seed := getEnvInt64("SIM_SEED", time.Now().UTC().UnixNano())

	s := &server{
		log: log,
		session: simulation.NewSession(simulation.SessionConfig{
			Bounds: simulation.DefaultFieldBounds(),
			Seed:   seed,
			Log:    log,
		}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[string]*client),
	}

	go s.runSimulationLoop()
	go s.runReplicationLoop()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ws", s.handleWS)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info("simulation server listening", "addr", addr, "seed", seed)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("server failed", "err", err)
	}
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("websocket upgrade failed", "err", err)
		return
	}

	c := &client{
		id:   fmt.Sprintf("c_%d", time.Now().UTC().UnixNano()),
		conn: conn,
		send: make(chan []byte, 64),
	}
	role := s.register(c)

	s.log.Info("client connected", "client", c.id, "role", role, "remote", r.RemoteAddr)
	welcome := types.ServerEnvelope{
		Type:     "welcome",
		State:    ptrState(s.session.Snapshot()),
		ServerMS: time.Now().UTC().UnixMilli(),
		Role:     role,
	}
	if payload, err := json.Marshal(welcome); err == nil {
		select {
		case c.send <- payload:
		default:
		}
	}

	go s.writePump(c)
	s.readPump(c)
}

func (s *server) readPump(c *client) {
	defer func() {
		s.unregister(c.id)
		_ = c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		return nil
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Info("client disconnected", "client", c.id)
				return
			}
			s.log.Warn("read error", "client", c.id, "err", err)
			return
		}

		var in types.ClientEnvelope
		if err := json.Unmarshal(msg, &in); err != nil {
			s.sendError(c, "bad_payload")
			continue
		}

		switch in.Type {
		case "input":
			if in.Input == nil {
				s.sendError(c, "missing_input")
				continue
			}
			if !s.isDriver(c.id) {
				s.sendError(c, "spectator_input_rejected")
				continue
			}
			s.session.ApplyInput(*in.Input)
		case "reset_ball":
			if s.isDriver(c.id) {
				s.session.ResetBall()
			}
		case "toggle_ai":
			if s.isDriver(c.id) {
				enabled := !s.session.Snapshot().AIEnabled
				s.session.SetAIEnabled(enabled)
				s.log.Info("ai toggled", "enabled", enabled)
			}
		case "ping":
			pong := types.ServerEnvelope{Type: "pong", ServerMS: time.Now().UTC().UnixMilli()}
			if payload, err := json.Marshal(pong); err == nil {
				select {
				case c.send <- payload:
				default:
				}
			}
		default:
			s.sendError(c, "unsupported_message_type")
		}
	}
}

func (s *server) writePump(c *client) {
	ticker := time.NewTicker(20 * time.Second)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, []byte("keepalive")); err != nil {
				return
			}
		}
	}
}

// register adds a client; the first connected client drives the player,
// later ones spectate.
func (s *server) register(c *client) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c.id] = c
	if s.driver == "" {
		s.driver = c.id
		c.driver = true
		return "driver"
	}
	return "spectator"
}

func (s *server) unregister(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.clients[id]; ok {
		close(c.send)
		delete(s.clients, id)
	}
	if s.driver != id {
		return
	}
	// Promote the longest-connected spectator, and stop the player if
	// nobody is left to steer it.
	s.driver = ""
	for cid, c := range s.clients {
		s.driver = cid
		c.driver = true
		break
	}
	if s.driver == "" {
		s.session.ApplyInput(types.ControlInput{})
	}
}

func (s *server) isDriver(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.driver == id
}

func (s *server) sendError(c *client, message string) {
	errPayload, _ := json.Marshal(types.ServerEnvelope{
		Type:    "error",
		Message: message,
	})
	select {
	case c.send <- errPayload:
	default:
	}
}

func (s *server) runSimulationLoop() {
	ticker := time.NewTicker(time.Second / 120)
	defer ticker.Stop()
	dt := 1.0 / 120.0

	for range ticker.C {
		s.session.Tick(dt)
	}
}

func (s *server) runReplicationLoop() {
	ticker := time.NewTicker(time.Second / 30)
	defer ticker.Stop()

	for range ticker.C {
		state := s.session.Snapshot()
		env := types.ServerEnvelope{
			Type:     "state",
			Tick:     state.Tick,
			State:    &state,
			ServerMS: time.Now().UTC().UnixMilli(),
		}
		payload, err := json.Marshal(env)
		if err != nil {
			s.log.Error("marshal state failed", "err", err)
			continue
		}

		s.mu.RLock()
		for _, c := range s.clients {
			select {
			case c.send <- payload:
			default:
			}
		}
		s.mu.RUnlock()
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func ptrState(s types.SessionState) *types.SessionState {
	return &s
}
