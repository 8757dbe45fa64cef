package events

import "encoding/json"

// Tipos de mensagem do feed WebSocket do simulador
const (
	FeedTypeOffer  = "offer"
	FeedTypeResult = "result"
)

// Envelope das mensagens enviadas pelo feed-simulator via WebSocket
type FeedMessage struct {
	Type    string          `json:"type"` // offer | result
	Payload json.RawMessage `json:"payload"`
}
