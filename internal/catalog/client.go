// Package catalog talks to the product catalog service that owns frame
// display states. The timeline itself never performs I/O; callers poll
// the catalog and feed the results into the scene.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/polarhour/frameline/internal/timeline"
)

//nolint:gochecknoglobals // default values are overwritten by client options.
var (
	defaultTimeout = 3 * time.Second
)

// StateSource is the transport interface consumed by the view layer.
type StateSource interface {
	// FrameStates returns the current display state of each known frame.
	// Ids absent from the result are unknown to the catalog.
	FrameStates(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]timeline.FrameState, error)
}

// Client is a concrete implementation of StateSource.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	userAgent  string
}

// Option mutates Client configuration.
type Option func(*Client)

// WithBaseURL configures the catalog base URL.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base == "" {
			return
		}
		if u, err := url.Parse(base); err == nil {
			c.baseURL = u
		}
	}
}

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient builds a catalog client. A base URL is required.
func NewClient(base string, opts ...Option) (*Client, error) {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		userAgent:  "frameline",
	}
	WithBaseURL(base)(c)
	for _, opt := range opts {
		opt(c)
	}
	if c.baseURL == nil {
		return nil, fmt.Errorf("catalog: invalid base URL %q", base)
	}
	return c, nil
}

// statesResponse is the wire shape of the batch state query.
type statesResponse struct {
	States map[string]string `json:"states"`
}

// FrameStates fetches display states for the given frame ids in one
// batch. Connection failures map to ErrOffline so callers can degrade
// to the states already on screen.
func (c *Client) FrameStates(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]timeline.FrameState, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]timeline.FrameState{}, nil
	}
	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}
	u := c.baseURL.JoinPath("v1", "frames", "states")
	q := u.Query()
	q.Set("id", strings.Join(strIDs, ","))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOffline, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusNotFound:
		return nil, ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, RemoteError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	var payload statesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}
	out := make(map[uuid.UUID]timeline.FrameState, len(payload.States))
	for rawID, rawState := range payload.States {
		id, err := uuid.Parse(rawID)
		if err != nil {
			logrus.WithField("id", rawID).Debug("ignoring malformed frame id in catalog response")
			continue
		}
		st, err := timeline.ParseFrameState(rawState)
		if err != nil {
			logrus.WithFields(logrus.Fields{"id": rawID, "state": rawState}).Debug("ignoring unknown frame state in catalog response")
			continue
		}
		out[id] = st
	}
	return out, nil
}

// Apply feeds fetched states into the scene, returning how many frames
// actually changed state.
func Apply(scene *timeline.Scene, states map[uuid.UUID]timeline.FrameState) int {
	changed := 0
	for id, st := range states {
		f, ok := scene.Frame(id)
		if !ok {
			continue
		}
		if f.State() == st {
			continue
		}
		if err := scene.SetFrameState(id, st); err == nil {
			changed++
		}
	}
	return changed
}
