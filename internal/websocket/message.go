package websocket

import (
	"encoding/json"
	"time"
)

type MessageType string

const (
	TypeNoteRefresh MessageType = "note.refresh"
	TypeToast       MessageType = "toast"
	TypePing        MessageType = "ping"
	TypePong        MessageType = "pong"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// NoteRefreshPayload tells open pages that a note's content changed on the
// sync server and should be reloaded.
type NoteRefreshPayload struct {
	Vault     string `json:"vault"`
	Path      string `json:"path"`
	PathHash  string `json:"pathHash"`
	IsRecycle bool   `json:"isRecycle"`
	Version   int64  `json:"version,omitempty"`
}

type ToastPayload struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	var payloadBytes json.RawMessage
	if payload != nil {
		bytes, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		payloadBytes = bytes
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now(),
		Payload:   payloadBytes,
	}, nil
}

func (m *Message) UnmarshalPayload(v interface{}) error {
	if m.Payload == nil {
		return nil
	}
	return json.Unmarshal(m.Payload, v)
}
