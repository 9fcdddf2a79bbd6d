package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/gameroom-backend/internal/entity"
	"github.com/rocketscienceinc/gameroom-backend/internal/repository"
	"github.com/rocketscienceinc/gameroom-backend/internal/room"
)

// Server is the connection gateway: it assigns each connection an identity,
// maps inbound commands to room session operations and pushes the resulting
// snapshots to every subscriber of the affected room. The server never sends
// error events; a rejected command simply produces no broadcast.
type Server struct {
	logger  *slog.Logger
	store   *room.Store
	archive repository.MatchArchive
	hub     *hub

	upgrader websocket.Upgrader
	handlers map[string]func(ctx context.Context, c *client, payload json.RawMessage) error
}

// New builds a gateway around the given room store. archive may be nil, in
// which case finished matches are not recorded. allowedOrigins lists the
// origins permitted to open a connection; "*" allows any.
func New(logger *slog.Logger, store *room.Store, archive repository.MatchArchive, allowedOrigins []string) *Server {
	server := &Server{
		logger:  logger.With("component", "websocket"),
		store:   store,
		archive: archive,
		hub:     newHub(),

		handlers: make(map[string]func(context.Context, *client, json.RawMessage) error),
	}

	server.upgrader = websocket.Upgrader{
		CheckOrigin: originChecker(allowedOrigins),
	}

	server.handlers[actionJoinGame] = server.handleJoinGame
	server.handlers[actionMakeMove] = server.handleMakeMove
	server.handlers[actionResetGame] = server.handleResetGame
	server.handlers[actionLeaveGame] = server.handleLeaveGame

	return server
}

// Start - starts the WebSocket server and shuts it down when ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     that.Handler(ctx),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Handler returns the http handler serving the /ws endpoint.
func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveConnection(ctx, w, r)
	})

	return mux
}

func (that *Server) serveConnection(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveConnection")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	c := newClient(uuid.NewString(), conn, that.logger)
	go c.writePump()

	log.Info("connection established", "connection", c.id)

	that.readLoop(ctx, c)

	// The transport dropped without an explicit leaveGame: reconcile every
	// room this connection is still seated in.
	that.handleDisconnect(c)
	that.hub.dropConnection(c)
	c.closeSend()

	log.Info("connection closed", "connection", c.id)
}

func (that *Server) readLoop(ctx context.Context, c *client) {
	log := that.logger.With("method", "readLoop", "connection", c.id)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("read failed", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Debug("malformed message ignored", "error", err)
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Debug("unknown action ignored", "action", message.Action)
			continue
		}

		if err = handler(ctx, c, message.Payload); err != nil {
			log.Debug("command rejected", "action", message.Action, "error", err)
		}
	}
}

// handleDisconnect removes the connection from every session holding it. A
// cached room id is never trusted here: the store is asked which rooms the
// connection is actually a member of.
func (that *Server) handleDisconnect(c *client) {
	that.store.ForEachWithParticipant(c.id, func(session *room.Session) {
		snapshot, empty, err := session.Leave(c.id)
		if err != nil {
			return
		}

		if empty {
			that.store.RemoveIfEmpty(session.ID())
			return
		}

		that.broadcastSnapshot(session.ID(), snapshot)
	})
}

func (that *Server) broadcastSnapshot(roomID string, snapshot *entity.Snapshot) {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		that.logger.Error("failed to marshal snapshot", "error", err)
		return
	}

	message, err := json.Marshal(Message{Action: actionGameUpdate, Payload: payload})
	if err != nil {
		that.logger.Error("failed to marshal message", "error", err)
		return
	}

	that.hub.broadcast(roomID, message)
}

func originChecker(allowedOrigins []string) func(r *http.Request) bool {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	allowAll := false
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAll = true
		}
		allowed[origin] = struct{}{}
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || allowAll {
			return true
		}

		_, ok := allowed[origin]

		return ok
	}
}
