package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type gameUseCase interface {
	CreateGame(ctx context.Context) (*entity.Match, error)
	GetGame(ctx context.Context, gameID string) (*entity.Match, error)
	MakeTurn(ctx context.Context, gameID string, row, col int) (*entity.Match, error)
	ResetGame(ctx context.Context, gameID string) (*entity.Match, error)
	EndGame(ctx context.Context, gameID string) error
}

type handlerFunc func(ctx context.Context, c *client, message *Message) error

type Server struct {
	logger      *slog.Logger
	gameUseCase gameUseCase
	upgrader    websocket.Upgrader

	handlers map[string]handlerFunc

	// clients maps every live connection to the games it follows.
	clientsMutex sync.RWMutex
	clients      map[*client]map[string]struct{}
	subscribers  map[string]map[*client]struct{}
}

func New(logger *slog.Logger, gameUseCase gameUseCase) *Server {
	server := &Server{
		logger:      logger.With("component", "websocket"),
		gameUseCase: gameUseCase,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},

		clients:     make(map[*client]map[string]struct{}),
		subscribers: make(map[string]map[*client]struct{}),
	}

	server.handlers = map[string]handlerFunc{
		actionGameNew:   server.handleNewGame,
		actionGameJoin:  server.handleJoinGame,
		actionGameTurn:  server.handleGameTurn,
		actionGameReset: server.handleGameReset,
		actionGameLeave: server.handleGameLeave,
	}

	return server
}

// Start - starts WebSocket server and blocks until ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", that)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down server", "error", err)
		}

		that.closeAll()
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// ServeHTTP upgrades the connection and serves it until the peer leaves.
func (that *Server) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		that.logger.Warn("failed to upgrade connection", "error", err)
		return
	}

	c := newClient(that, conn)
	that.register(c)

	that.logger.Info("WebSocket connection established", "remote", conn.RemoteAddr().String())

	go c.writePump()
	c.readPump(req.Context())
}

func (that *Server) register(c *client) {
	that.clientsMutex.Lock()
	defer that.clientsMutex.Unlock()

	that.clients[c] = make(map[string]struct{})
}

// unregister drops c and its subscriptions. Safe to call more than once.
func (that *Server) unregister(c *client) {
	that.clientsMutex.Lock()
	defer that.clientsMutex.Unlock()

	games, ok := that.clients[c]
	if !ok {
		return
	}

	for gameID := range games {
		that.removeSubscriber(gameID, c)
	}

	delete(that.clients, c)
	close(c.send)
}

func (that *Server) closeAll() {
	that.clientsMutex.RLock()
	conns := make([]*websocket.Conn, 0, len(that.clients))
	for c := range that.clients {
		conns = append(conns, c.conn)
	}
	that.clientsMutex.RUnlock()

	for _, conn := range conns {
		conn.Close()
	}
}

func (that *Server) subscribe(gameID string, c *client) {
	that.clientsMutex.Lock()
	defer that.clientsMutex.Unlock()

	games, ok := that.clients[c]
	if !ok {
		return
	}

	games[gameID] = struct{}{}

	if that.subscribers[gameID] == nil {
		that.subscribers[gameID] = make(map[*client]struct{})
	}
	that.subscribers[gameID][c] = struct{}{}
}

// dropGame forgets every subscription to gameID.
func (that *Server) dropGame(gameID string) {
	that.clientsMutex.Lock()
	defer that.clientsMutex.Unlock()

	for c := range that.subscribers[gameID] {
		delete(that.clients[c], gameID)
	}
	delete(that.subscribers, gameID)
}

// removeSubscriber expects clientsMutex to be held.
func (that *Server) removeSubscriber(gameID string, c *client) {
	followers, ok := that.subscribers[gameID]
	if !ok {
		return
	}

	delete(followers, c)
	if len(followers) == 0 {
		delete(that.subscribers, gameID)
	}
}

// broadcast sends the message to every connection following gameID.
func (that *Server) broadcast(gameID, action string, payload Payload) {
	data, err := encodeMessage(action, payload)
	if err != nil {
		that.logger.Error("failed to encode broadcast", "gameID", gameID, "error", err)
		return
	}

	that.clientsMutex.RLock()
	followers := make([]*client, 0, len(that.subscribers[gameID]))
	for c := range that.subscribers[gameID] {
		followers = append(followers, c)
	}
	that.clientsMutex.RUnlock()

	for _, c := range followers {
		that.deliver(c, data)
	}
}

func (that *Server) sendMessage(c *client, action string, payload Payload) {
	data, err := encodeMessage(action, payload)
	if err != nil {
		that.logger.Error("failed to encode message", "action", action, "error", err)
		return
	}

	that.deliver(c, data)
}

// deliver queues data for c, dropping the connection when it cannot keep up.
func (that *Server) deliver(c *client, data []byte) {
	slow := false

	that.clientsMutex.RLock()
	if _, ok := that.clients[c]; ok {
		select {
		case c.send <- data:
		default:
			slow = true
		}
	}
	that.clientsMutex.RUnlock()

	if slow {
		that.logger.Warn("client too slow, dropping connection")
		that.unregister(c)
	}
}
