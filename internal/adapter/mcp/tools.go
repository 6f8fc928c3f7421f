package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/guillermoBallester/chsink/internal/core/domain"
	"github.com/guillermoBallester/chsink/internal/core/service"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server metadata
const serverName = "chsink"

// Tool descriptions
const (
	descPage = "Build the ClickHouse insert request for a page view event. " +
		"Returns the HTTP request (method, url, headers, body) that inserts the event as one JSONEachRow row. " +
		"The request is not sent."

	descTrack = "Build the ClickHouse insert request for a track event. " +
		"Returns the HTTP request (method, url, headers, body) that inserts the event as one JSONEachRow row. " +
		"The request is not sent."

	descUser = "Build the ClickHouse insert request for a user identification event. " +
		"Returns the HTTP request (method, url, headers, body) that inserts the event as one JSONEachRow row. " +
		"The request is not sent."

	descEventParam = "The full event: uuid, timestamps, event_type, data ({\"Page\"|\"Track\"|\"User\": {...}}), context and consent."

	descDestinationParam = "Name of a configured destination. Use list_destinations to discover names."

	descSettingsParam = "Inline destination settings: endpoint, table, password (required), database and username " +
		"(optional, default \"default\"). Ignored when destination is set."

	descListDestinations = "List the names of configured ClickHouse destinations."

	descResolveSettings = "Resolve a destination's settings with defaults applied. The password is never returned."
)

// RegisterTools adds the collector and destination tools to s.
func RegisterTools(s *server.MCPServer, collector *service.CollectorService, destinations *service.DestinationService) {
	collectTools := []struct {
		name string
		desc string
		kind domain.EventType
	}{
		{"page", descPage, domain.EventPage},
		{"track", descTrack, domain.EventTrack},
		{"user", descUser, domain.EventUser},
	}

	for _, ct := range collectTools {
		s.AddTool(
			mcp.NewTool(ct.name,
				mcp.WithDescription(ct.desc),
				mcp.WithObject("event",
					mcp.Required(),
					mcp.Description(descEventParam),
				),
				mcp.WithString("destination",
					mcp.Description(descDestinationParam),
				),
				mcp.WithObject("settings",
					mcp.Description(descSettingsParam),
				),
			),
			collectHandler(ct.name, ct.kind, collector, destinations),
		)
	}

	s.AddTool(
		mcp.NewTool("list_destinations",
			mcp.WithDescription(descListDestinations),
		),
		listDestinationsHandler(destinations),
	)

	s.AddTool(
		mcp.NewTool("resolve_settings",
			mcp.WithDescription(descResolveSettings),
			mcp.WithString("destination",
				mcp.Required(),
				mcp.Description(descDestinationParam),
			),
		),
		resolveSettingsHandler(destinations),
	)
}

func collectHandler(tool string, kind domain.EventType, collector *service.CollectorService, destinations *service.DestinationService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		rawEvent, ok := args["event"]
		if !ok || rawEvent == nil {
			return mcp.NewToolResultError("event is required"), nil
		}
		event, err := decodeEvent(rawEvent)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid event: %v", err)), nil
		}

		var settings domain.Dict
		if name, _ := args["destination"].(string); name != "" {
			settings, err = destinations.Settings(ctx, name)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to load destination: %v", err)), nil
			}
			ctx = service.WithDestination(ctx, name)
		} else if raw, ok := args["settings"]; ok && raw != nil {
			settings, err = decodeSettings(raw)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("invalid settings: %v", err)), nil
			}
		} else {
			return mcp.NewToolResultError("either destination or settings is required"), nil
		}

		ctx = service.WithToolName(ctx, tool)
		req, err := collector.Collect(ctx, kind, event, settings)
		if err != nil {
			return mcp.NewToolResultError(collectErrorMessage(err)), nil
		}

		data, err := json.Marshal(req)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
		}

		return mcp.NewToolResultText(string(data)), nil
	}
}

func listDestinationsHandler(destinations *service.DestinationService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		names, err := destinations.List(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to list destinations: %v", err)), nil
		}

		data, err := json.Marshal(names)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
		}

		return mcp.NewToolResultText(string(data)), nil
	}
}

func resolveSettingsHandler(destinations *service.DestinationService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, ok := request.GetArguments()["destination"].(string)
		if !ok || name == "" {
			return mcp.NewToolResultError("destination is required"), nil
		}

		settings, err := destinations.Resolve(ctx, name)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to resolve destination: %v", err)), nil
		}

		data, err := json.Marshal(settings)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
		}

		return mcp.NewToolResultText(string(data)), nil
	}
}

// collectErrorMessage keeps settings errors verbatim so operators see the field name.
func collectErrorMessage(err error) string {
	if errors.Is(err, domain.ErrMissingField) {
		return err.Error()
	}
	return fmt.Sprintf("collect failed: %v", err)
}

func decodeEvent(raw any) (domain.Event, error) {
	b, err := json.Marshal(raw)
	if err != nil {
		return domain.Event{}, err
	}
	var event domain.Event
	if err := json.Unmarshal(b, &event); err != nil {
		return domain.Event{}, err
	}
	return event, nil
}

func decodeSettings(raw any) (domain.Dict, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("settings must be an object")
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	settings := make(domain.Dict, 0, len(m))
	for _, k := range keys {
		v, ok := m[k].(string)
		if !ok {
			return nil, fmt.Errorf("setting %q must be a string", k)
		}
		settings = append(settings, [2]string{k, v})
	}
	return settings, nil
}
