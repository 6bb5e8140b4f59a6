package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// MessageType WebSocket 消息类型
const (
	MsgTypeVehicle  = "vehicle"  // 当前车型
	MsgTypeEstimate = "estimate" // 估算结果
	MsgTypeError    = "error"    // 错误消息
)

// Message WebSocket 消息结构
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Client WebSocket 客户端
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	// 保护 send 的关闭
	sendMu sync.Mutex
	closed bool

	// 消息在 ReadPump 协程中依次处理
	onMessage func(data []byte)
	onClose   func()
}

// Hub WebSocket 连接管理中心
type Hub struct {
	logger     *zap.Logger
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
}

// NewHub 创建 Hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger:     logger,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run 运行 Hub，ctx 取消时关闭所有连接
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("WebSocket client connected", zap.String("client_id", client.id), zap.Int("total_clients", total))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.closeSend()
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("WebSocket client disconnected", zap.String("client_id", client.id), zap.Int("total_clients", total))

		case <-ctx.Done():
			// 关闭连接后 ReadPump 自行退出，关闭 send 让 WritePump 退出
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				client.closeSend()
				client.conn.Close()
			}
			h.mu.Unlock()
			return
		}
	}
}

// ClientCount 获取客户端数量
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// NewClient 创建客户端
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		id:   uuid.NewString(),
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
}

// ID 客户端 ID
func (c *Client) ID() string {
	return c.id
}

// OnMessage 设置消息处理函数
func (c *Client) OnMessage(fn func(data []byte)) {
	c.onMessage = fn
}

// OnClose 设置连接关闭回调
func (c *Client) OnClose(fn func()) {
	c.onClose = fn
}

// Register 注册客户端
func (c *Client) Register() {
	select {
	case c.hub.register <- c:
	case <-c.hub.done:
	}
}

// Unregister 注销客户端
func (c *Client) Unregister() {
	select {
	case c.hub.unregister <- c:
	case <-c.hub.done:
	}
}

// Send 发送结构化消息；缓冲区满时丢弃
func (c *Client) Send(msgType string, data interface{}) {
	payload, err := json.Marshal(Message{Type: msgType, Data: data})
	if err != nil {
		c.hub.logger.Error("Failed to marshal message", zap.Error(err), zap.String("type", msgType))
		return
	}

	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return
	}

	select {
	case c.send <- payload:
	default:
		c.hub.logger.Warn("Client buffer full, dropping message", zap.String("client_id", c.id), zap.String("type", msgType))
	}
}

// closeSend 关闭发送队列，可重复调用
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// SendError 发送错误消息
func (c *Client) SendError(err error) {
	c.Send(MsgTypeError, map[string]string{"error": err.Error()})
}

// ReadPump 读取消息并依次交给 onMessage 处理
func (c *Client) ReadPump() {
	defer func() {
		if c.onClose != nil {
			c.onClose()
		}
		c.Unregister()
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("WebSocket read error", zap.String("client_id", c.id), zap.Error(err))
			}
			break
		}
		if c.onMessage != nil {
			c.onMessage(message)
		}
	}
}

// WritePump 发送消息
func (c *Client) WritePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			break
		}
	}
}
