// Package ws streams bus events to WebSocket clients so UIs can follow
// scan progress live.
package ws

import "time"

// Message is the JSON frame sent to WebSocket clients. It mirrors the
// bus event shape so clients see the same topics the modules publish.
type Message struct {
	Topic     string    `json:"topic" example:"discovery.device.found"`
	Source    string    `json:"source" example:"discovery"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}
