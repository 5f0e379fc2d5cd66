// Package upstreamapi talks to the third-party ferry operations API: the
// live vessel-locations feed, the terminal drive-on-space feed, and the
// daily route schedule feed (component C). It normalises payloads,
// converts the upstream's wrapped-epoch date literals, and retries
// transient failures with a fixed backoff behind a per-feed circuit
// breaker.
package upstreamapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/abw750/ferryAPI3/internal/domain/ferrors"
	"github.com/abw750/ferryAPI3/internal/domain/ferry"
	"github.com/abw750/ferryAPI3/internal/domain/shared"
)

const (
	defaultTimeout        = 8 * time.Second
	defaultMaxRetries     = 1 // one retry: two attempts total, per spec §4.C
	defaultBackoff        = 500 * time.Millisecond
	defaultCircuitFailures = 5
	defaultCircuitTimeout = 60 * time.Second
)

const (
	feedVessels       = "vessels"
	feedTerminalSpace = "terminal_space"
	feedSchedule      = "schedule"
)

// Client fetches and normalises the three upstream feeds.
type Client struct {
	httpClient *http.Client
	baseURL    string
	accessCode string
	maxRetries int
	backoff    time.Duration
	clock      shared.Clock

	limiters feedLimiters
	breakers map[string]*circuitBreaker

	observe Observer
}

// Observer receives per-attempt and per-call telemetry; the metrics
// package and the structured logger both implement it.
type Observer interface {
	ObserveRequest(feed string, attempt int, duration time.Duration, err error)
	ObserveRetry(feed string)
}

type noopObserver struct{}

func (noopObserver) ObserveRequest(string, int, time.Duration, error) {}
func (noopObserver) ObserveRetry(string)                              {}

// Option configures a Client at construction time.
type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.httpClient = hc } }
func WithClock(clk shared.Clock) Option     { return func(c *Client) { c.clock = clk } }
func WithObserver(o Observer) Option        { return func(c *Client) { c.observe = o } }
func WithRetryPolicy(maxRetries int, backoff time.Duration) Option {
	return func(c *Client) { c.maxRetries = maxRetries; c.backoff = backoff }
}

// NewClient builds a Client. accessCode is the process-wide upstream
// credential; its absence is a fatal ConfigurationError, matching §6/§7.
func NewClient(baseURL, accessCode string, opts ...Option) (*Client, error) {
	if accessCode == "" {
		return nil, ferrors.NewConfigurationError("upstreamapi: access code is required")
	}

	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    baseURL,
		accessCode: accessCode,
		maxRetries: defaultMaxRetries,
		backoff:    defaultBackoff,
		clock:      shared.NewRealClock(),
		observe:    noopObserver{},
		breakers:   make(map[string]*circuitBreaker),
	}
	for _, opt := range opts {
		opt(c)
	}
	for _, feed := range []string{feedVessels, feedTerminalSpace, feedSchedule} {
		c.breakers[feed] = newCircuitBreaker(defaultCircuitFailures, defaultCircuitTimeout, c.clock)
	}
	c.limiters = newFeedLimiters(rate.Limit(5), 5)
	return c, nil
}

// FetchVessels retrieves every vessel currently on the water, normalised to
// ferry.LiveVessel with absolute timestamps.
func (c *Client) FetchVessels(ctx context.Context) ([]ferry.LiveVessel, error) {
	var raw []rawVessel
	if err := c.getJSON(ctx, feedVessels, "/vessels/vesselLocations", &raw); err != nil {
		return nil, err
	}

	out := make([]ferry.LiveVessel, 0, len(raw))
	for _, v := range raw {
		leftDock, err := ParseUpstreamDatePtr(v.LeftDock)
		if err != nil {
			return nil, ferrors.NewUpstreamPermanentError(feedVessels, err)
		}
		eta, err := ParseUpstreamDatePtr(v.Eta)
		if err != nil {
			return nil, ferrors.NewUpstreamPermanentError(feedVessels, err)
		}
		scheduledDeparture, err := ParseUpstreamDatePtr(v.ScheduledDeparture)
		if err != nil {
			return nil, ferrors.NewUpstreamPermanentError(feedVessels, err)
		}
		timeStamp, err := ParseUpstreamDate(v.TimeStamp)
		if err != nil {
			return nil, ferrors.NewUpstreamPermanentError(feedVessels, err)
		}

		out = append(out, ferry.LiveVessel{
			VesselID:            v.VesselID,
			VesselName:          v.VesselName,
			DepartingTerminalID: v.DepartingTerminalID,
			ArrivingTerminalID:  v.ArrivingTerminalID,
			AtDock:              v.AtDock,
			LeftDock:            leftDock,
			PredictedArrival:    eta,
			ScheduledDeparture:  scheduledDeparture,
			TelemetryTime:       timeStamp,
		})
	}
	return out, nil
}

// FetchTerminalSpaces retrieves per-terminal drive-on availability broken
// down by imminent departing sailing and possible arrival terminal.
func (c *Client) FetchTerminalSpaces(ctx context.Context) ([]TerminalSpace, error) {
	var raw []rawTerminalSpace
	if err := c.getJSON(ctx, feedTerminalSpace, "/terminals/terminalSailingSpace", &raw); err != nil {
		return nil, err
	}

	out := make([]TerminalSpace, 0, len(raw))
	for _, t := range raw {
		ts := TerminalSpace{TerminalID: t.TerminalID, TerminalName: t.TerminalName}
		for _, d := range t.DepartingSpaces {
			dep, err := ParseUpstreamDate(d.Departure)
			if err != nil {
				return nil, ferrors.NewUpstreamPermanentError(feedTerminalSpace, err)
			}
			space := DepartingSpace{
				Departure:  dep,
				VesselID:   d.VesselID,
				VesselName: d.VesselName,
			}
			for _, arr := range d.SpaceForArrivalTerminals {
				space.SpaceForArrivalTerminals = append(space.SpaceForArrivalTerminals, SpaceForArrivalTerminal{
					ArrivingTerminalID: arr.ArrivingTerminalID,
					DriveUpSpaceCount:  arr.DriveUpSpaceCount,
					MaxSpaceCount:      arr.MaxSpaceCount,
				})
			}
			ts.DepartingSpaces = append(ts.DepartingSpaces, space)
		}
		out = append(out, ts)
	}
	return out, nil
}

// FetchSchedule retrieves today's scheduled departures for routeId,
// flattened to one row per {vessel, departing terminal, position}.
func (c *Client) FetchSchedule(ctx context.Context, routeID int, dateText string) ([]ScheduleRow, error) {
	var raw rawSchedule
	path := fmt.Sprintf("/schedule/%s/terminalcombo/%d", dateText, routeID)
	if err := c.getJSON(ctx, feedSchedule, path, &raw); err != nil {
		return nil, err
	}

	var rows []ScheduleRow
	for _, combo := range raw.TerminalCombos {
		for _, sailing := range combo.Times {
			depTime, err := ParseUpstreamDate(sailing.DepartingTime)
			if err != nil {
				return nil, ferrors.NewUpstreamPermanentError(feedSchedule, err)
			}
			rows = append(rows, ScheduleRow{
				RouteID:             routeID,
				DepartingTerminalID: combo.DepartingTerminalID,
				VesselPositionNum:   sailing.VesselPositionNum,
				VesselID:            sailing.VesselID,
				VesselName:          sailing.VesselName,
				DepartingTime:       depTime,
				IsCancelled:         sailing.IsCancelled,
			})
		}
	}
	return rows, nil
}

// getJSON performs the retry-and-circuit-breaker-wrapped GET for one feed
// and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, feed, path string, out interface{}) error {
	return c.breakers[feed].call(func() error {
		return c.doWithRetry(ctx, feed, path, out)
	})
}

type retryableError struct{ cause error }

func (e *retryableError) Error() string { return e.cause.Error() }
func (e *retryableError) Unwrap() error { return e.cause }

func (c *Client) doWithRetry(ctx context.Context, feed, path string, out interface{}) error {
	url := c.baseURL + path

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiters.wait(ctx, feed); err != nil {
			return ferrors.NewInternalError(fmt.Sprintf("upstreamapi: rate limiter: %v", err))
		}

		start := c.clock.Now()
		err := c.attempt(ctx, url, out)
		c.observe.ObserveRequest(feed, attempt, c.clock.Now().Sub(start), err)

		if err == nil {
			return nil
		}

		var retryable *retryableError
		if !errors.As(err, &retryable) {
			// Non-retryable: 4xx or parse error. Propagate immediately.
			return ferrors.NewUpstreamPermanentError(feed, err)
		}
		lastErr = retryable.cause

		if attempt >= c.maxRetries {
			break
		}
		if ctx.Err() != nil {
			return ferrors.NewInternalError(fmt.Sprintf("upstreamapi: context cancelled: %v", ctx.Err()))
		}
		c.observe.ObserveRetry(feed)
		c.clock.Sleep(c.backoff)
	}

	return ferrors.NewUpstreamTransientError(feed, lastErr)
}

func (c *Client) attempt(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	q := req.URL.Query()
	q.Set("apiaccesscode", c.accessCode)
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &retryableError{cause: fmt.Errorf("network error: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &retryableError{cause: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode >= 500 {
		return &retryableError{cause: fmt.Errorf("upstream status %d: %s", resp.StatusCode, bytes.TrimSpace(body))}
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("upstream status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
