package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// EventType tags which payload variant an Event carries.
type EventType string

const (
	EventPage  EventType = "Page"
	EventTrack EventType = "Track"
	EventUser  EventType = "User"
)

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	switch t {
	case EventPage, EventTrack, EventUser:
		return true
	}
	return false
}

// Consent is the end user's tracking consent state.
type Consent string

const (
	ConsentPending Consent = "Pending"
	ConsentGranted Consent = "Granted"
	ConsentDenied  Consent = "Denied"
)

// Dict is an ordered list of key/value string pairs.
// It serializes as a JSON array of two-element arrays.
type Dict [][2]string

// Get returns the value of the last pair whose key matches.
func (d Dict) Get(key string) (string, bool) {
	for i := len(d) - 1; i >= 0; i-- {
		if d[i][0] == key {
			return d[i][1], true
		}
	}
	return "", false
}

// Event is a fully populated analytics event handed over by the host pipeline.
type Event struct {
	UUID            string    `json:"uuid"`
	Timestamp       int64     `json:"timestamp"`
	TimestampMillis int64     `json:"timestamp_millis"`
	TimestampMicros int64     `json:"timestamp_micros"`
	EventType       EventType `json:"event_type"`
	Data            Data      `json:"data"`
	Context         Context   `json:"context"`
	Consent         *Consent  `json:"consent"`
}

type PageData struct {
	Name       string   `json:"name"`
	Category   string   `json:"category"`
	Keywords   []string `json:"keywords"`
	Title      string   `json:"title"`
	URL        string   `json:"url"`
	Path       string   `json:"path"`
	Search     string   `json:"search"`
	Referrer   string   `json:"referrer"`
	Properties Dict     `json:"properties"`
}

type TrackData struct {
	Name       string `json:"name"`
	Products   []Dict `json:"products"`
	Properties Dict   `json:"properties"`
}

type UserData struct {
	UserID      string `json:"user_id"`
	AnonymousID string `json:"anonymous_id"`
	EdgeeID     string `json:"edgee_id"`
	Properties  Dict   `json:"properties"`
}

type Context struct {
	Page     PageData `json:"page"`
	User     UserData `json:"user"`
	Client   Client   `json:"client"`
	Campaign Campaign `json:"campaign"`
	Session  Session  `json:"session"`
}

type Client struct {
	City                     string  `json:"city"`
	IP                       string  `json:"ip"`
	Locale                   string  `json:"locale"`
	Timezone                 string  `json:"timezone"`
	UserAgent                string  `json:"user_agent"`
	UserAgentArchitecture    string  `json:"user_agent_architecture"`
	UserAgentBitness         string  `json:"user_agent_bitness"`
	UserAgentFullVersionList string  `json:"user_agent_full_version_list"`
	UserAgentVersionList     string  `json:"user_agent_version_list"`
	UserAgentMobile          string  `json:"user_agent_mobile"`
	UserAgentModel           string  `json:"user_agent_model"`
	OSName                   string  `json:"os_name"`
	OSVersion                string  `json:"os_version"`
	ScreenWidth              int32   `json:"screen_width"`
	ScreenHeight             int32   `json:"screen_height"`
	ScreenDensity            float32 `json:"screen_density"`
	Continent                string  `json:"continent"`
	CountryCode              string  `json:"country_code"`
	CountryName              string  `json:"country_name"`
	Region                   string  `json:"region"`
}

type Campaign struct {
	Name            string `json:"name"`
	Source          string `json:"source"`
	Medium          string `json:"medium"`
	Term            string `json:"term"`
	Content         string `json:"content"`
	CreativeFormat  string `json:"creative_format"`
	MarketingTactic string `json:"marketing_tactic"`
}

type Session struct {
	SessionID         string `json:"session_id"`
	PreviousSessionID string `json:"previous_session_id"`
	SessionCount      uint32 `json:"session_count"`
	SessionStart      bool   `json:"session_start"`
	FirstSeen         int64  `json:"first_seen"`
	LastSeen          int64  `json:"last_seen"`
}

// Data is the event payload. Exactly one of the variants is set.
// On the wire it is externally tagged: {"Page": {...}}.
type Data struct {
	Page  *PageData
	Track *TrackData
	User  *UserData
}

var errInvalidData = errors.New("event data must hold exactly one of Page, Track or User")

// Kind returns the tag of the populated variant, or "" when none is set.
func (d Data) Kind() EventType {
	switch {
	case d.Page != nil:
		return EventPage
	case d.Track != nil:
		return EventTrack
	case d.User != nil:
		return EventUser
	}
	return ""
}

func (d Data) MarshalJSON() ([]byte, error) {
	switch {
	case d.Page != nil:
		return json.Marshal(map[string]*PageData{string(EventPage): d.Page})
	case d.Track != nil:
		return json.Marshal(map[string]*TrackData{string(EventTrack): d.Track})
	case d.User != nil:
		return json.Marshal(map[string]*UserData{string(EventUser): d.User})
	}
	return []byte("null"), nil
}

func (d *Data) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*d = Data{}
		return nil
	}

	var tagged map[EventType]json.RawMessage
	if err := json.Unmarshal(b, &tagged); err != nil {
		return fmt.Errorf("decoding event data: %w", err)
	}
	if len(tagged) != 1 {
		return errInvalidData
	}

	var out Data
	for tag, raw := range tagged {
		var err error
		switch tag {
		case EventPage:
			out.Page = &PageData{}
			err = json.Unmarshal(raw, out.Page)
		case EventTrack:
			out.Track = &TrackData{}
			err = json.Unmarshal(raw, out.Track)
		case EventUser:
			out.User = &UserData{}
			err = json.Unmarshal(raw, out.User)
		default:
			return fmt.Errorf("unknown event data variant %q", tag)
		}
		if err != nil {
			return fmt.Errorf("decoding %s data: %w", tag, err)
		}
	}

	*d = out
	return nil
}
