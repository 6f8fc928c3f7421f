package domain

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// HTTPMethod of an outbound request.
type HTTPMethod string

const MethodPost HTTPMethod = "POST"

const (
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"

	contentTypeJSON = "application/json"
)

// OutboundRequest describes the HTTP request the host should deliver.
// Headers keep their insertion order.
type OutboundRequest struct {
	Method               HTTPMethod  `json:"method"`
	URL                  string      `json:"url"`
	Headers              [][2]string `json:"headers"`
	Body                 string      `json:"body"`
	ForwardClientHeaders bool        `json:"forward_client_headers"`
}

// Header returns the value of the first header named name.
func (r OutboundRequest) Header(name string) (string, bool) {
	for _, h := range r.Headers {
		if h[0] == name {
			return h[1], true
		}
	}
	return "", false
}

// InsertQuery is the ClickHouse statement that ingests one JSON object per row.
func InsertQuery(s Settings) string {
	return fmt.Sprintf("INSERT INTO %s.%s FORMAT JSONEachRow", s.Database, s.Table)
}

// BasicAuth returns the Authorization header value for the settings' credentials.
func BasicAuth(s Settings) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(s.Username+":"+s.Password))
}

// BuildInsertRequest serializes the event and assembles the single-row insert request.
// The query is appended to the endpoint as-is, without URL encoding.
func BuildInsertRequest(event Event, s Settings) (OutboundRequest, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return OutboundRequest{}, fmt.Errorf("%w: %w", ErrEncodeEvent, err)
	}

	return OutboundRequest{
		Method: MethodPost,
		URL:    s.Endpoint + "?query=" + InsertQuery(s),
		Headers: [][2]string{
			{HeaderContentType, contentTypeJSON},
			{HeaderAuthorization, BasicAuth(s)},
		},
		Body:                 string(body),
		ForwardClientHeaders: false,
	}, nil
}
