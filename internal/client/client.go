// Package client talks to a War server over WebSocket. Calls are
// request/response: each waits for the reply carrying its request ID.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/lox/war/internal/game"
	"github.com/lox/war/internal/server" // Reuse message types
)

const writeWait = 10 * time.Second

// ErrDisconnected is returned by calls made after the connection dropped
var ErrDisconnected = errors.New("disconnected from server")

// ServerError is an error reply from the server
type ServerError struct {
	Code    string
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error %s: %s", e.Code, e.Message)
}

// Is lets callers test a game_over reply with errors.Is(err, game.ErrGameOver)
func (e *ServerError) Is(target error) bool {
	return target == game.ErrGameOver && e.Code == server.ErrCodeGameOver
}

// Client represents a WebSocket client for a War server
type Client struct {
	serverURL string
	conn      *websocket.Conn
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	writeMu   sync.Mutex

	mu       sync.Mutex
	pending  map[string]chan *server.Message
	nextID   atomic.Uint64
	greeting chan *server.Message
}

// NewClient creates a new WebSocket client
func NewClient(serverURL string, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		serverURL: serverURL,
		logger:    logger.WithPrefix("client"),
		ctx:       ctx,
		cancel:    cancel,
		pending:   make(map[string]chan *server.Message),
		greeting:  make(chan *server.Message, 1),
	}
}

// Connect dials the server and waits for the game it deals on connect
func (c *Client) Connect(ctx context.Context) (server.GameStartedData, error) {
	var started server.GameStartedData
	c.logger.Info("Connecting to server", "url", c.serverURL)

	u, err := url.Parse(c.serverURL)
	if err != nil {
		return started, fmt.Errorf("invalid server URL: %w", err)
	}

	// Convert http/https to ws/wss
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = "/ws"

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return started, fmt.Errorf("failed to connect: %w", err)
	}
	c.conn = conn
	go c.readPump()

	select {
	case msg := <-c.greeting:
		if err := decode(msg, server.MessageTypeGameStarted, &started); err != nil {
			return started, err
		}
	case <-ctx.Done():
		_ = c.Disconnect()
		return started, ctx.Err()
	case <-c.ctx.Done():
		return started, ErrDisconnected
	}

	c.logger.Info("Connected to server", "game", started.GameID)
	return started, nil
}

// Disconnect closes the WebSocket connection
func (c *Client) Disconnect() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		if c.conn == nil {
			return
		}
		c.writeMu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		c.writeMu.Unlock()
		err = c.conn.Close()
		c.logger.Info("Disconnected from server")
	})
	return err
}

// PlayRound asks the server to play one round
func (c *Client) PlayRound(ctx context.Context) (server.RoundData, error) {
	var data server.RoundData
	err := c.request(ctx, server.MessageTypePlayRound, nil, server.MessageTypeRound, &data)
	return data, err
}

// Stats fetches the current game's stats
func (c *Client) Stats(ctx context.Context) (server.StatsData, error) {
	var data server.StatsData
	err := c.request(ctx, server.MessageTypeStats, nil, server.MessageTypeStats, &data)
	return data, err
}

// NewGame asks for a fresh deal
func (c *Client) NewGame(ctx context.Context, opts server.NewGameData) (server.GameStartedData, error) {
	var data server.GameStartedData
	err := c.request(ctx, server.MessageTypeNewGame, opts, server.MessageTypeGameStarted, &data)
	return data, err
}

// Export asks the server to append the game to its stats file
func (c *Client) Export(ctx context.Context) (server.ExportedData, error) {
	var data server.ExportedData
	err := c.request(ctx, server.MessageTypeExport, nil, server.MessageTypeExported, &data)
	return data, err
}

func (c *Client) request(ctx context.Context, messageType server.MessageType, payload any, want server.MessageType, out any) error {
	msg := &server.Message{Type: messageType, Timestamp: time.Now()}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		msg.Data = data
	}
	msg.RequestID = strconv.FormatUint(c.nextID.Add(1), 10)

	reply := make(chan *server.Message, 1)
	c.mu.Lock()
	c.pending[msg.RequestID] = reply
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, msg.RequestID)
		c.mu.Unlock()
	}()

	if err := c.write(msg); err != nil {
		return err
	}

	select {
	case resp := <-reply:
		return decode(resp, want, out)
	case <-ctx.Done():
		return ctx.Err()
	case <-c.ctx.Done():
		return ErrDisconnected
	}
}

func (c *Client) write(msg *server.Message) error {
	select {
	case <-c.ctx.Done():
		return ErrDisconnected
	default:
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("send %s: %w", msg.Type, err)
	}
	return nil
}

// readPump routes replies to their waiting request
func (c *Client) readPump() {
	defer c.cancel()

	for {
		var msg server.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		c.logger.Debug("Received message", "type", msg.Type, "requestId", msg.RequestID)

		if msg.RequestID == "" {
			select {
			case c.greeting <- &msg:
			default:
				c.logger.Debug("Dropping unsolicited message", "type", msg.Type)
			}
			continue
		}

		c.mu.Lock()
		reply, ok := c.pending[msg.RequestID]
		c.mu.Unlock()
		if ok {
			reply <- &msg
		}
	}
}

func decode(msg *server.Message, want server.MessageType, out any) error {
	if msg.Type == server.MessageTypeError {
		var data server.ErrorData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return fmt.Errorf("decode error reply: %w", err)
		}
		return &ServerError{Code: data.Code, Message: data.Message}
	}
	if msg.Type != want {
		return fmt.Errorf("expected %s reply, got %s", want, msg.Type)
	}
	if err := json.Unmarshal(msg.Data, out); err != nil {
		return fmt.Errorf("decode %s reply: %w", msg.Type, err)
	}
	return nil
}
