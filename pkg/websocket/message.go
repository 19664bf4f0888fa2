package websocket

import "time"

// Envelope - конверт сообщения ленты; по Type клиент понимает, что обновить.
type Envelope struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}
