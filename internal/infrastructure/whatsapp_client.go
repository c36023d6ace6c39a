package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.mau.fi/whatsmeow"
	waProto "go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"papelariabot/internal/entities"
)

// WhatsAppClient wraps the whatsmeow client behind the Messenger port.
type WhatsAppClient struct {
	Client *whatsmeow.Client
	log    *slog.Logger

	qrCode string
	qrLock sync.RWMutex
}

// NewWhatsAppClient opens the device store at dbPath and builds a client.
func NewWhatsAppClient(dbPath string, log *slog.Logger) (*WhatsAppClient, error) {
	dbLog := waLog.Stdout("Database", "INFO", true)
	container, err := sqlstore.New(context.Background(), "sqlite", "file:"+dbPath+"?_pragma=foreign_keys(1)", dbLog)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to device store: %w", err)
	}

	deviceStore, err := container.GetFirstDevice(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}

	clientLog := waLog.Stdout("Client", "INFO", true)
	client := whatsmeow.NewClient(deviceStore, clientLog)

	return &WhatsAppClient{Client: client, log: log}, nil
}

// Connect establishes the session. On first login it watches the QR
// channel and keeps the latest pairing code available for the /qr endpoint.
func (w *WhatsAppClient) Connect() error {
	if w.Client.Store.ID == nil {
		qrChan, _ := w.Client.GetQRChannel(context.Background())
		if err := w.Client.Connect(); err != nil {
			return err
		}

		go func() {
			for evt := range qrChan {
				if evt.Event == "code" {
					w.qrLock.Lock()
					w.qrCode = evt.Code
					w.qrLock.Unlock()
					w.log.Info("pairing QR code generated")
				} else {
					w.log.Info("login event", "event", evt.Event)
				}
			}
		}()
		return nil
	}

	if err := w.Client.Connect(); err != nil {
		return err
	}
	w.log.Info("whatsapp connected with existing session")
	return nil
}

// GetQR returns the latest pairing code, empty once paired.
func (w *WhatsAppClient) GetQR() string {
	w.qrLock.RLock()
	defer w.qrLock.RUnlock()
	return w.qrCode
}

// IsConnected reports a live, logged-in connection.
func (w *WhatsAppClient) IsConnected() bool {
	return w.Client.IsConnected() && w.Client.Store.ID != nil
}

// Disconnect tears the connection down.
func (w *WhatsAppClient) Disconnect() {
	w.Client.Disconnect()
}

// AddHandler registers an event handler on the underlying client.
func (w *WhatsAppClient) AddHandler(handler func(interface{})) {
	w.Client.AddEventHandler(handler)
}

// SendText delivers a plain text message to a full JID.
func (w *WhatsAppClient) SendText(to string, content string) error {
	jid, err := types.ParseJID(to)
	if err != nil {
		return fmt.Errorf("invalid recipient %q: %w", to, err)
	}

	_, err = w.Client.SendMessage(context.Background(), jid, &waProto.Message{
		Conversation: &content,
	})
	return err
}

// SendTyping broadcasts a composing chat presence to the recipient.
func (w *WhatsAppClient) SendTyping(to string) error {
	jid, err := types.ParseJID(to)
	if err != nil {
		return fmt.Errorf("invalid recipient %q: %w", to, err)
	}
	if err := w.Client.SendPresence(context.Background(), types.PresenceAvailable); err != nil {
		return err
	}
	return w.Client.SendChatPresence(context.Background(), jid, types.ChatPresenceComposing, types.ChatPresenceMediaText)
}

// ParseMessage converts a transport event into the domain message,
// attaching a lazy download handle when the message carries media.
func (w *WhatsAppClient) ParseMessage(evt *events.Message) entities.InboundMessage {
	msg := entities.InboundMessage{
		ID:         evt.Info.ID,
		SenderID:   evt.Info.Sender.String(),
		PushName:   evt.Info.PushName,
		IsGroup:    evt.Info.IsGroup,
		ReceivedAt: evt.Info.Timestamp,
	}

	switch {
	case evt.Message.Conversation != nil:
		msg.Text = *evt.Message.Conversation
	case evt.Message.ExtendedTextMessage != nil:
		msg.Text = evt.Message.ExtendedTextMessage.GetText()
	}

	if msg.Text == "" {
		switch {
		case evt.Message.ImageMessage != nil:
			msg.Text = evt.Message.ImageMessage.GetCaption()
		case evt.Message.VideoMessage != nil:
			msg.Text = evt.Message.VideoMessage.GetCaption()
		case evt.Message.DocumentMessage != nil:
			msg.Text = evt.Message.DocumentMessage.GetCaption()
		}
	}

	if media, kind := downloadable(evt.Message); media != nil {
		msg.HasMedia = true
		msg.Media = &entities.MediaRef{
			Kind:     kind,
			Mimetype: media.GetMimetype(),
			Download: func() ([]byte, error) {
				return w.Client.Download(context.Background(), media)
			},
		}
	}

	return msg
}

type downloadableMedia interface {
	whatsmeow.DownloadableMessage
	GetMimetype() string
}

func downloadable(m *waProto.Message) (downloadableMedia, string) {
	switch {
	case m.ImageMessage != nil:
		return m.ImageMessage, "image"
	case m.DocumentMessage != nil:
		return m.DocumentMessage, "document"
	case m.AudioMessage != nil:
		return m.AudioMessage, "audio"
	case m.VideoMessage != nil:
		return m.VideoMessage, "video"
	case m.StickerMessage != nil:
		return m.StickerMessage, "sticker"
	default:
		return nil, ""
	}
}
