package domain

import "github.com/google/uuid"

func sampleUserData(edgeeID string) UserData {
	return UserData{
		UserID:      "123",
		AnonymousID: "456",
		EdgeeID:     edgeeID,
		Properties:  Dict{{"prop1", "value1"}, {"prop2", "10"}},
	}
}

func samplePageData() PageData {
	return PageData{
		Name:       "page name",
		Category:   "category",
		Keywords:   []string{"value1", "value2"},
		Title:      "page title",
		URL:        "https://example.com/full-url?test=1",
		Path:       "/full-path",
		Search:     "?test=1",
		Referrer:   "https://example.com/another-page",
		Properties: Dict{{"prop1", "value1"}, {"prop2", "10"}, {"currency", "USD"}},
	}
}

func sampleTrackData(name string) TrackData {
	return TrackData{
		Name:       name,
		Products:   []Dict{},
		Properties: Dict{{"prop1", "value1"}, {"prop2", "10"}, {"currency", "USD"}},
	}
}

func sampleContext(edgeeID, locale string, sessionStart bool) Context {
	return Context{
		Page: samplePageData(),
		User: sampleUserData(edgeeID),
		Client: Client{
			City:                     "Paris",
			IP:                       "192.168.0.1",
			Locale:                   locale,
			Timezone:                 "CET",
			UserAgent:                "Chrome",
			UserAgentArchitecture:    "unknown",
			UserAgentBitness:         "64",
			UserAgentFullVersionList: "abc",
			UserAgentVersionList:     "abc",
			UserAgentMobile:          "mobile",
			UserAgentModel:           "unknown",
			OSName:                   "MacOS",
			OSVersion:                "latest",
			ScreenWidth:              1024,
			ScreenHeight:             768,
			ScreenDensity:            2.0,
			Continent:                "Europe",
			CountryCode:              "FR",
			CountryName:              "France",
			Region:                   "West Europe",
		},
		Campaign: Campaign{
			Name:            "random",
			Source:          "random",
			Medium:          "random",
			Term:            "random",
			Content:         "random",
			CreativeFormat:  "random",
			MarketingTactic: "random",
		},
		Session: Session{
			SessionID:         "random",
			PreviousSessionID: "random",
			SessionCount:      2,
			SessionStart:      sessionStart,
			FirstSeen:         123,
			LastSeen:          123,
		},
	}
}

func sampleEvent(kind EventType) Event {
	granted := ConsentGranted
	e := Event{
		UUID:            uuid.NewString(),
		Timestamp:       123,
		TimestampMillis: 123,
		TimestampMicros: 123,
		EventType:       kind,
		Context:         sampleContext("abc", "fr", true),
		Consent:         &granted,
	}
	switch kind {
	case EventPage:
		d := samplePageData()
		e.Data = Data{Page: &d}
	case EventTrack:
		d := sampleTrackData("test_event")
		e.Data = Data{Track: &d}
	case EventUser:
		d := sampleUserData("abc")
		e.Data = Data{User: &d}
	}
	return e
}

func fullSettings() Dict {
	return Dict{
		{"endpoint", "https://XYZ.eu-west-1.aws.clickhouse.cloud:8443"},
		{"database", "test"},
		{"table", "edgee"},
		{"username", "user"},
		{"password", "12345"},
	}
}

func fullSettingsValue() Settings {
	s, err := ResolveSettings(fullSettings())
	if err != nil {
		panic(err)
	}
	return s
}
