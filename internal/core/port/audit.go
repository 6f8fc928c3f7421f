package port

import "context"

// AuditEntry represents a single built (or rejected) insert request.
type AuditEntry struct {
	Tool        string
	EventType   string
	EventID     string
	Destination string
	URL         string
	BodyBytes   int
	Credential  string // fingerprint, see domain.CredentialFingerprint
	Err         error
}

// RequestAuditor records request audit events.
type RequestAuditor interface {
	Record(ctx context.Context, entry AuditEntry)
	Close() error
}

// NoopAuditor discards all audit entries.
type NoopAuditor struct{}

func (NoopAuditor) Record(context.Context, AuditEntry) {}
func (NoopAuditor) Close() error                       { return nil }
