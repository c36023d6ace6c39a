package infrastructure

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"papelariabot/internal/entities"
)

// UploadStore writes customer files into the intake directory and records
// each one in a local SQLite index. The directory is append-only; storage
// keys come from the message ID so concurrent uploads cannot collide.
type UploadStore struct {
	dir string
	db  *sql.DB
	log *slog.Logger
}

// NewUploadStore opens (or creates) the intake directory and index DB.
func NewUploadStore(dir, dbPath string, log *slog.Logger) (*UploadStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", "file:"+dbPath+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open upload index: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS uploads (
		id TEXT PRIMARY KEY,
		sender TEXT NOT NULL,
		kind TEXT NOT NULL,
		path TEXT NOT NULL,
		received_at TIMESTAMP NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create uploads table: %w", err)
	}

	return &UploadStore{dir: dir, db: db, log: log}, nil
}

// Store downloads the attachment, writes it under the intake directory and
// records the upload. The storage key is <messageID>.<detected extension>.
func (u *UploadStore) Store(ctx context.Context, msg entities.InboundMessage) (entities.UploadRecord, error) {
	if msg.Media == nil || msg.Media.Download == nil {
		return entities.UploadRecord{}, fmt.Errorf("message %s has no media", msg.ID)
	}

	data, err := msg.Media.Download()
	if err != nil {
		return entities.UploadRecord{}, fmt.Errorf("download media: %w", err)
	}

	ext := mimetype.Detect(data).Extension()
	if ext == "" {
		ext = ".bin"
	}

	id := msg.ID
	if id == "" {
		id = uuid.NewString()
	}

	path := filepath.Join(u.dir, id+ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return entities.UploadRecord{}, fmt.Errorf("write upload %s: %w", path, err)
	}

	rec := entities.UploadRecord{
		ID:         id,
		SenderID:   msg.SenderID,
		Kind:       msg.Media.Kind,
		StoredPath: path,
		ReceivedAt: msg.ReceivedAt,
	}
	if rec.ReceivedAt.IsZero() {
		rec.ReceivedAt = time.Now()
	}

	if _, err := u.db.ExecContext(ctx,
		`INSERT INTO uploads (id, sender, kind, path, received_at) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.SenderID, rec.Kind, rec.StoredPath, rec.ReceivedAt,
	); err != nil {
		return entities.UploadRecord{}, fmt.Errorf("index upload %s: %w", rec.ID, err)
	}

	u.log.Info("upload stored", "sender", rec.SenderID, "kind", rec.Kind, "path", rec.StoredPath)
	return rec, nil
}

// Close releases the index database.
func (u *UploadStore) Close() error {
	return u.db.Close()
}
