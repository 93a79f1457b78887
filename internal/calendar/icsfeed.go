package calendar

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// EcosystemICSFeed is the ecosystem name for read-only ICS feed calendars
// (the published "secret address" most calendar products expose).
const EcosystemICSFeed = "ics_feed"

// ICSFeedAdapter reads a provider's external calendar from a published ICS
// feed URL. Feeds are read-only, so exporting is unsupported.
type ICSFeedAdapter struct {
	client *http.Client
}

func NewICSFeedAdapter() *ICSFeedAdapter {
	return &ICSFeedAdapter{
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (a *ICSFeedAdapter) fetch(ctx context.Context, creds Credentials) ([]Event, error) {
	feedURL := creds["feed_url"]
	if feedURL == "" {
		return nil, fmt.Errorf("ics feed connection missing feed_url credential")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request failed: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch ics feed failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ics feed returned status %d", resp.StatusCode)
	}

	return ParseICS(resp.Body)
}

func (a *ICSFeedAdapter) HasConflict(ctx context.Context, creds Credentials, start, end time.Time) (bool, error) {
	events, err := a.fetch(ctx, creds)
	if err != nil {
		return false, err
	}

	for _, ev := range events {
		// Strict half-open overlap; touching events do not conflict.
		if ev.Start.Before(end) && ev.End.After(start) {
			return true, nil
		}
	}
	return false, nil
}

func (a *ICSFeedAdapter) ImportEvents(ctx context.Context, creds Credentials, windowStart, windowEnd time.Time) ([]Event, error) {
	events, err := a.fetch(ctx, creds)
	if err != nil {
		return nil, err
	}

	var inWindow []Event
	for _, ev := range events {
		if ev.Start.Before(windowEnd) && ev.End.After(windowStart) {
			inWindow = append(inWindow, ev)
		}
	}
	return inWindow, nil
}

func (a *ICSFeedAdapter) ExportEvent(ctx context.Context, creds Credentials, ev Event) (string, error) {
	return "", ErrExportUnsupported
}
