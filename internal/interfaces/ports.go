package interfaces

import (
	"context"
	"time"

	"papelariabot/internal/entities"
)

// Messenger is the outbound side of the chat transport.
type Messenger interface {
	SendText(to, content string) error
	SendTyping(to string) error
}

// Responder is the external fallback inference service.
type Responder interface {
	Infer(ctx context.Context, text string) (string, error)
}

// Uploader persists customer media and records the intake.
type Uploader interface {
	Store(ctx context.Context, msg entities.InboundMessage) (entities.UploadRecord, error)
}

// Notifier schedules deferred "order ready" messages. Schedule returns a
// handle usable with Cancel; scheduling for a sender supersedes that
// sender's pending notification.
type Notifier interface {
	Schedule(senderID string, delay time.Duration, payload string) int64
	Cancel(handle int64) bool
}
