package audit

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/guillermoBallester/chsink/internal/core/port"
)

// fileEntry is the NDJSON-serializable form of an audit record.
// The request body and credentials are never written.
type fileEntry struct {
	Timestamp   string  `json:"ts"`
	Tool        string  `json:"tool"`
	EventType   string  `json:"event_type"`
	EventID     string  `json:"event_id"`
	Destination string  `json:"destination,omitempty"`
	URL         string  `json:"url"`
	BodyBytes   int     `json:"body_bytes"`
	Credential  string  `json:"credential,omitempty"`
	Error       *string `json:"error"`
}

// FileAuditor writes audit entries as NDJSON (one JSON object per line) to a file.
type FileAuditor struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

var _ port.RequestAuditor = (*FileAuditor)(nil)

// NewFileAuditor opens (or creates) the file at path for append-only writing.
func NewFileAuditor(path string) (*FileAuditor, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	return &FileAuditor{
		file: f,
		enc:  json.NewEncoder(f),
	}, nil
}

func (a *FileAuditor) Record(_ context.Context, entry port.AuditEntry) {
	fe := fileEntry{
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Tool:        entry.Tool,
		EventType:   entry.EventType,
		EventID:     entry.EventID,
		Destination: entry.Destination,
		URL:         entry.URL,
		BodyBytes:   entry.BodyBytes,
		Credential:  entry.Credential,
	}
	if entry.Err != nil {
		s := entry.Err.Error()
		fe.Error = &s
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	_ = a.enc.Encode(fe) // best-effort; don't fail the request for audit I/O
}

func (a *FileAuditor) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.file.Close()
}
