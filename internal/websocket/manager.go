package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"notesync-web/internal/domain"
	"notesync-web/internal/metrics"

	"github.com/google/uuid"
)

type ClientMessage struct {
	Client  *Client
	Message []byte
}

type Options struct {
	MaxConnPerUser int
	MaxMessageSize int64
	WriteWait      time.Duration
	PongWait       time.Duration
	PingPeriod     time.Duration
}

// Manager tracks browser connections per user and pushes notifications to
// them. Register, Unregister and HandleMessage are served by Run.
type Manager struct {
	clients        map[string]*Client
	userIndex      map[int64]map[string]bool
	clientsMutex   sync.RWMutex
	Register       chan *Client
	Unregister     chan *Client
	HandleMessage  chan *ClientMessage
	maxConnPerUser int
	maxMessageSize int64
	writeWait      time.Duration
	pongWait       time.Duration
	pingPeriod     time.Duration
	done           chan struct{}
}

func NewManager(opts Options) *Manager {
	if opts.MaxMessageSize <= 0 {
		opts.MaxMessageSize = 4096
	}
	return &Manager{
		clients:        make(map[string]*Client),
		userIndex:      make(map[int64]map[string]bool),
		Register:       make(chan *Client),
		Unregister:     make(chan *Client),
		HandleMessage:  make(chan *ClientMessage),
		maxConnPerUser: opts.MaxConnPerUser,
		maxMessageSize: opts.MaxMessageSize,
		writeWait:      opts.WriteWait,
		pongWait:       opts.PongWait,
		pingPeriod:     opts.PingPeriod,
		done:           make(chan struct{}),
	}
}

func (m *Manager) Run(ctx context.Context) {
	for {
		select {
		case client := <-m.Register:
			m.registerClient(client)

		case client := <-m.Unregister:
			m.unregisterClient(client)

		case clientMsg := <-m.HandleMessage:
			m.processMessage(clientMsg)

		case <-ctx.Done():
			close(m.done)
			m.closeAll()
			return
		}
	}
}

func (m *Manager) registerClient(client *Client) {
	m.clientsMutex.Lock()
	defer m.clientsMutex.Unlock()

	if m.userIndex[client.UserUID] == nil {
		m.userIndex[client.UserUID] = make(map[string]bool)
	}

	if m.maxConnPerUser > 0 && len(m.userIndex[client.UserUID]) >= m.maxConnPerUser {
		log.Printf("[WS] max connections reached for user %d", client.UserUID)
		close(client.Send)
		return
	}

	m.clients[client.ID] = client
	m.userIndex[client.UserUID][client.ID] = true
	metrics.WebSocketConnections.Inc()

	log.Printf("[WS] client registered: %s (user: %d)", client.ID, client.UserUID)
}

func (m *Manager) unregisterClient(client *Client) {
	m.clientsMutex.Lock()
	defer m.clientsMutex.Unlock()

	if _, ok := m.clients[client.ID]; ok {
		delete(m.clients, client.ID)
		delete(m.userIndex[client.UserUID], client.ID)

		if len(m.userIndex[client.UserUID]) == 0 {
			delete(m.userIndex, client.UserUID)
		}

		close(client.Send)
		metrics.WebSocketConnections.Dec()
		log.Printf("[WS] client unregistered: %s", client.ID)
	}
}

func (m *Manager) closeAll() {
	m.clientsMutex.Lock()
	defer m.clientsMutex.Unlock()

	for id, client := range m.clients {
		close(client.Send)
		delete(m.clients, id)
		metrics.WebSocketConnections.Dec()
	}
	m.userIndex = make(map[int64]map[string]bool)
}

func (m *Manager) processMessage(clientMsg *ClientMessage) {
	var msg Message
	if err := json.Unmarshal(clientMsg.Message, &msg); err != nil {
		log.Printf("[WS] error unmarshaling message from %s: %v", clientMsg.Client.ID, err)
		return
	}

	switch msg.Type {
	case TypePing:
		if err := m.SendToClient(clientMsg.Client.ID, mustMessage(TypePong, nil)); err != nil {
			log.Printf("[WS] pong to %s failed: %v", clientMsg.Client.ID, err)
		}
	default:
		log.Printf("[WS] ignoring %q message from %s", msg.Type, clientMsg.Client.ID)
	}
}

// BroadcastToUser queues message for every tab of the user. Tabs whose
// buffer is full are dropped.
func (m *Manager) BroadcastToUser(userUID int64, message *Message) error {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		return err
	}

	var slow []*Client
	m.clientsMutex.RLock()
	for clientID := range m.userIndex[userUID] {
		client := m.clients[clientID]
		select {
		case client.Send <- messageBytes:
		default:
			log.Printf("[WS] client %s send buffer full, closing connection", clientID)
			slow = append(slow, client)
		}
	}
	m.clientsMutex.RUnlock()

	for _, client := range slow {
		go m.unregister(client)
	}
	return nil
}

// Add hands c to Run. It reports false once the manager has stopped.
func (m *Manager) Add(c *Client) bool {
	select {
	case m.Register <- c:
		return true
	case <-m.done:
		return false
	}
}

// unregister hands c to Run, or gives up once Run has stopped.
func (m *Manager) unregister(c *Client) {
	select {
	case m.Unregister <- c:
	case <-m.done:
	}
}

func (m *Manager) SendToClient(clientID string, message *Message) error {
	m.clientsMutex.RLock()
	defer m.clientsMutex.RUnlock()

	client, exists := m.clients[clientID]
	if !exists {
		return nil
	}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		return err
	}

	select {
	case client.Send <- messageBytes:
	default:
		log.Printf("[WS] client %s send buffer full", clientID)
	}

	return nil
}

func (m *Manager) GetUserConnections(userUID int64) int {
	m.clientsMutex.RLock()
	defer m.clientsMutex.RUnlock()

	return len(m.userIndex[userUID])
}

// NotifyNoteRefresh asks every tab of the user to reload the note.
func (m *Manager) NotifyNoteRefresh(userUID int64, key domain.HistoryKey, version int64) {
	msg := mustMessage(TypeNoteRefresh, NoteRefreshPayload{
		Vault:     key.Vault,
		Path:      key.Path,
		PathHash:  key.PathHash,
		IsRecycle: key.IsRecycle,
		Version:   version,
	})
	if err := m.BroadcastToUser(userUID, msg); err != nil {
		log.Printf("[WS] note refresh for user %d failed: %v", userUID, err)
	}
}

// NotifyToast shows a toast on every tab of the user.
func (m *Manager) NotifyToast(userUID int64, kind, text string) {
	msg := mustMessage(TypeToast, ToastPayload{
		ID:      uuid.New().String(),
		Kind:    kind,
		Message: text,
	})
	if err := m.BroadcastToUser(userUID, msg); err != nil {
		log.Printf("[WS] toast for user %d failed: %v", userUID, err)
	}
}

func mustMessage(msgType MessageType, payload interface{}) *Message {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		panic(err)
	}
	return msg
}
