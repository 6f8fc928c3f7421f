package domain

// Page, Track and User are the entry points the host dispatches to.
// They share one code path; none of them inspects the event contents.

func Page(event Event, settings Dict) (OutboundRequest, error) {
	return collect(event, settings)
}

func Track(event Event, settings Dict) (OutboundRequest, error) {
	return collect(event, settings)
}

func User(event Event, settings Dict) (OutboundRequest, error) {
	return collect(event, settings)
}

// Collect dispatches to the entry point named by kind.
func Collect(kind EventType, event Event, settings Dict) (OutboundRequest, error) {
	switch kind {
	case EventPage:
		return Page(event, settings)
	case EventTrack:
		return Track(event, settings)
	case EventUser:
		return User(event, settings)
	}
	return OutboundRequest{}, ErrUnsupportedEventType
}

func collect(event Event, raw Dict) (OutboundRequest, error) {
	s, err := ResolveSettings(raw)
	if err != nil {
		return OutboundRequest{}, err
	}
	return BuildInsertRequest(event, s)
}
