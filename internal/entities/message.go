package entities

import "time"

// InboundMessage is one message event from the chat transport.
// Immutable once received.
type InboundMessage struct {
	ID         string
	SenderID   string // full JID, e.g. "5582999990000@s.whatsapp.net"
	PushName   string
	Text       string
	HasMedia   bool
	Media      *MediaRef
	IsGroup    bool
	ReceivedAt time.Time
}

// MediaRef is a handle to an attachment that has not been downloaded yet.
// Download is lazy so bytes are only fetched when intake actually runs.
type MediaRef struct {
	Kind     string // "image", "document", "audio", "video"
	Mimetype string
	Download func() ([]byte, error)
}

// UploadRecord describes one stored customer file. Never mutated.
type UploadRecord struct {
	ID         string
	SenderID   string
	Kind       string
	StoredPath string
	ReceivedAt time.Time
}
