// Package handlers bridges clients to the dispatch core: the WebSocket
// session the GUI connects to, the plain HTTP command endpoint, and the
// background reminder scanner.
package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Deskmate-Labs/deskmate-go-core/engine"
	"github.com/Deskmate-Labs/deskmate-go-core/models"
	"github.com/Deskmate-Labs/deskmate-go-core/skills"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // the GUI webview connects from a file:// origin
	},
}

// SessionDeps bundles the collaborators shared by every session. The timer
// skill is the exception: it is built per session so its notifications reach
// the client that asked for the timer.
type SessionDeps struct {
	Config engine.Config
	Store  *skills.ProductivityStore
	Music  *skills.MusicQueue
	System *skills.SystemControl
	Apps   *skills.AppLauncher
	Web    *skills.WebSkill
}

// AssistantSession is one connected client: its socket, its logger and its
// own dispatcher instance wired to the shared collaborators.
type AssistantSession struct {
	ID          string
	Conn        *websocket.Conn
	RedisClient *redis.Client
	Logger      *zap.Logger
	Dispatcher  *engine.Dispatcher
	Config      engine.Config

	IsActive     bool
	StartTime    time.Time
	LastActivity time.Time

	Reminders *ReminderHandler

	writeMu sync.Mutex
}

type WebSocketMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

func NewAssistantSession(id string, conn *websocket.Conn, redisClient *redis.Client, deps SessionDeps) *AssistantSession {
	logger := zap.L().With(zap.String("session_id", id))

	session := &AssistantSession{
		ID:           id,
		Conn:         conn,
		RedisClient:  redisClient,
		Logger:       logger,
		Config:       deps.Config,
		IsActive:     true,
		StartTime:    time.Now(),
		LastActivity: time.Now(),
	}

	timers := skills.NewTimerSkill(session)
	session.Dispatcher = engine.NewDispatcher(deps.Config, engine.Collaborators{
		Scheduler: deps.Store,
		Media:     deps.Music,
		System:    deps.System,
		Web:       deps.Web,
		Apps:      deps.Apps,
		Timers:    timers,
	})

	return session
}

// Notify implements skills.Notifier: timer completions are pushed to the
// client as notification messages.
func (s *AssistantSession) Notify(event models.TimerEvent) {
	s.sendMessage("notification", event)
}

func (s *AssistantSession) Stop() {
	if !s.IsActive {
		return
	}
	s.Logger.Info("Stopping session")
	s.IsActive = false

	if s.Reminders != nil {
		s.Reminders.Close()
	}
	if s.Conn != nil {
		s.Conn.Close()
	}
}

// HandleAssistantSession upgrades the connection and serves one client until
// it disconnects or sends a stop command.
func HandleAssistantSession(w http.ResponseWriter, r *http.Request, redisClient *redis.Client, deps SessionDeps) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.L().Error("Failed to upgrade to websocket", zap.Error(err))
		return
	}
	defer conn.Close()

	sessionID := uuid.New().String()
	session := NewAssistantSession(sessionID, conn, redisClient, deps)
	session.Logger.Info("New assistant session started")

	session.Reminders = InitReminderHandler(session, deps.Store)

	session.listen(conn)

	session.Logger.Info("Assistant session ended")
	session.Stop()
}

func (s *AssistantSession) listen(conn *websocket.Conn) {
	for {
		var msg WebSocketMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.Logger.Error("WebSocket error", zap.Error(err))
			}
			return
		}
		s.LastActivity = time.Now()

		switch msg.Type {
		case "command":
			s.handleCommand(msg.Data)
		case "ping":
			s.sendMessage("pong", nil)
		case "config":
			s.sendMessage("config", map[string]interface{}{
				"session_id":   s.ID,
				"started_at":   s.StartTime,
				"intent_floor": s.Config.IntentFloor,
				"action_gate":  s.Config.ActionGate,
			})
		case "stop":
			s.Logger.Info("Received stop command from client")
			s.sendMessage("stop_confirmation", map[string]interface{}{
				"session_id": s.ID,
				"message":    "Session stopped successfully",
			})
			s.Stop()
			return
		default:
			s.Logger.Warn("Unknown message type", zap.String("type", msg.Type))
		}
	}
}

// handleCommand runs one utterance through the dispatcher. Processing is
// synchronous: the core guarantees exactly one reply per command.
func (s *AssistantSession) handleCommand(data interface{}) {
	text, ok := data.(string)
	if !ok {
		s.Logger.Error("Invalid command data format")
		s.sendMessage("reply", "I didn't receive that command correctly.")
		return
	}

	s.Logger.Debug("Processing command", zap.String("command", text))
	reply := s.Dispatcher.Process(text)
	s.sendMessage("reply", map[string]interface{}{
		"command": text,
		"reply":   reply,
	})
}

func (s *AssistantSession) sendMessage(msgType string, data interface{}) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	msg := WebSocketMessage{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now(),
	}
	if err := s.Conn.WriteJSON(msg); err != nil {
		s.Logger.Error("Failed to send websocket message", zap.Error(err), zap.String("type", msgType))
	}
}
