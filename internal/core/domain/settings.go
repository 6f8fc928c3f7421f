package domain

import (
	"errors"
	"log/slog"
)

// Settings keys accepted by ResolveSettings.
const (
	SettingEndpoint = "endpoint"
	SettingDatabase = "database"
	SettingTable    = "table"
	SettingUsername = "username"
	SettingPassword = "password"
)

const (
	DefaultDatabase = "default"
	DefaultUsername = "default"
)

var (
	ErrMissingField         = errors.New("missing required setting")
	ErrDestinationNotFound  = errors.New("destination not found")
	ErrEncodeEvent          = errors.New("failed to encode event")
	ErrUnsupportedEventType = errors.New("unsupported event type")
)

// MissingFieldError reports a required setting that was not supplied.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return "missing " + e.Field
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// Settings is the typed connection configuration of a ClickHouse destination.
//
// Database and Table are spliced verbatim into the insert query. Callers are
// responsible for supplying safe identifiers.
type Settings struct {
	Endpoint string `json:"endpoint"`
	Database string `json:"database"`
	Table    string `json:"table"`
	Username string `json:"username"`
	Password string `json:"-"`
}

// LogValue keeps the password out of log records.
func (s Settings) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("endpoint", s.Endpoint),
		slog.String("database", s.Database),
		slog.String("table", s.Table),
		slog.String("username", s.Username),
	)
}

// ResolveSettings turns the raw destination settings into a Settings value.
// Unknown keys are ignored and the last occurrence of a key wins.
// An empty database or username counts as absent and falls back to "default".
func ResolveSettings(raw Dict) (Settings, error) {
	values := make(map[string]string, len(raw))
	for _, kv := range raw {
		values[kv[0]] = kv[1]
	}

	var s Settings
	var err error

	if s.Endpoint, err = required(values, SettingEndpoint); err != nil {
		return Settings{}, err
	}
	s.Database = optional(values, SettingDatabase, DefaultDatabase)
	if s.Table, err = required(values, SettingTable); err != nil {
		return Settings{}, err
	}
	s.Username = optional(values, SettingUsername, DefaultUsername)
	if s.Password, err = required(values, SettingPassword); err != nil {
		return Settings{}, err
	}

	return s, nil
}

func required(values map[string]string, key string) (string, error) {
	v, ok := values[key]
	if !ok || v == "" {
		return "", &MissingFieldError{Field: key}
	}
	return v, nil
}

func optional(values map[string]string, key, fallback string) string {
	if v := values[key]; v != "" {
		return v
	}
	return fallback
}
