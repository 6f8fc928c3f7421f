package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
)

// MaskType represents a header masking strategy.
type MaskType string

const (
	MaskRedact MaskType = "redact"
	MaskHash   MaskType = "hash"
)

// Valid returns true if the MaskType is a recognised masking strategy
// (including the zero value "", which means "no mask").
func (m MaskType) Valid() bool {
	switch m {
	case MaskRedact, MaskHash, "":
		return true
	}
	return false
}

// fingerprintLen is the number of hex chars kept by CredentialFingerprint.
const fingerprintLen = 12

// HeaderMasks lists the outbound headers that never leave the process in clear.
var HeaderMasks = map[string]MaskType{
	HeaderAuthorization: MaskRedact,
}

// ApplyMask transforms a value according to the mask type.
func ApplyMask(value string, maskType MaskType) string {
	switch maskType {
	case MaskRedact:
		return "***"
	case MaskHash:
		h := sha256.Sum256([]byte(value))
		return hex.EncodeToString(h[:])
	default:
		return value
	}
}

// MaskHeaders returns a copy of headers with masked values. Order is kept.
func MaskHeaders(headers [][2]string, masks map[string]MaskType) [][2]string {
	out := make([][2]string, len(headers))
	for i, h := range headers {
		out[i] = [2]string{h[0], ApplyMask(h[1], masks[h[0]])}
	}
	return out
}

// CredentialFingerprint identifies the credentials a request carries without
// revealing them. Returns "" when the request has no Authorization header.
func CredentialFingerprint(r OutboundRequest) string {
	auth, ok := r.Header(HeaderAuthorization)
	if !ok {
		return ""
	}
	return ApplyMask(auth, MaskHash)[:fingerprintLen]
}

// LogValue renders the request with masked headers and without the body.
func (r OutboundRequest) LogValue() slog.Value {
	headers := MaskHeaders(r.Headers, HeaderMasks)
	attrs := make([]slog.Attr, 0, len(headers))
	for _, h := range headers {
		attrs = append(attrs, slog.String(h[0], h[1]))
	}
	return slog.GroupValue(
		slog.String("method", string(r.Method)),
		slog.String("url", r.URL),
		slog.Attr{Key: "headers", Value: slog.GroupValue(attrs...)},
		slog.Int("body_bytes", len(r.Body)),
	)
}
