// Package syncclient talks to the upstream content endpoint: the single URL
// that accepts wholesale snapshot overwrites and serves the full content set
// back. With no endpoint configured the client runs offline and echoes writes,
// so the rest of the app never needs to special-case a missing upstream.
package syncclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/regiomag/regiomag/internal/domain"
	"github.com/regiomag/regiomag/internal/logger"
	"github.com/regiomag/regiomag/internal/utils"
)

// placeholderMarker appears in an endpoint URL that was never filled in after
// deployment. Such an endpoint is treated the same as none at all.
const placeholderMarker = "YOUR_DEPLOYMENT_ID"

type syncRequest struct {
	Action string          `json:"action"`
	Data   domain.Snapshot `json:"data"`
}

type syncResponse struct {
	Status  string           `json:"status"`
	Message string           `json:"message,omitempty"`
	Data    *domain.Snapshot `json:"data,omitempty"`
}

// Client posts snapshots to and reads snapshots from the upstream endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	log      logger.Logger
}

// New creates a Client. An empty or placeholder endpoint yields an offline
// client.
func New(endpoint string, timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
		log:      log,
	}
}

// Offline reports whether the client has no usable upstream.
func (c *Client) Offline() bool {
	return c.endpoint == "" || strings.Contains(c.endpoint, placeholderMarker)
}

// Sync pushes the entire snapshot upstream and returns the content set the
// upstream acknowledged. Offline, the snapshot is echoed back unchanged.
func (c *Client) Sync(ctx context.Context, snap domain.Snapshot) (domain.Snapshot, error) {
	if c.Offline() {
		c.log.Info("sync endpoint not configured, echoing snapshot",
			logger.Int("articles", len(snap.Articles)),
			logger.Int("directory", len(snap.Directory)))
		return snap.Clone(), nil
	}

	body, err := json.Marshal(syncRequest{Action: "sync", Data: snap})
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("failed to encode sync request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("failed to build sync request: %w", err)
	}
	// text/plain keeps the request a CORS "simple request" for browser
	// clients of the same endpoint; the body is still JSON.
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("sync request failed: %w", err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.Snapshot{}, fmt.Errorf("sync endpoint returned HTTP %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("failed to read sync response: %w", err)
	}

	var parsed syncResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return domain.Snapshot{}, fmt.Errorf("unparsable sync response: %w", err)
	}
	if parsed.Status == "error" {
		return domain.Snapshot{}, fmt.Errorf("sync rejected: %s", parsed.Message)
	}
	// Older endpoints acknowledge without echoing the written content; the
	// snapshot we sent is then canonical.
	if parsed.Data == nil {
		return snap.Clone(), nil
	}
	return *parsed.Data, nil
}

// FetchAll reads the full content set from upstream. Any failure is soft: the
// caller gets nil and falls back to seed content, mirroring a reader that
// should render something rather than an error page. A nil return with nil
// error means "no usable upstream content".
func (c *Client) FetchAll(ctx context.Context) (*domain.Snapshot, error) {
	if c.Offline() {
		return nil, nil
	}

	url := c.endpoint
	if strings.Contains(url, "?") {
		url += "&action=read"
	} else {
		url += "?action=read"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build read request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("content fetch failed, falling back", logger.Error(err))
		return nil, nil
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("content fetch returned non-2xx, falling back",
			logger.Int("status", resp.StatusCode))
		return nil, nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Warn("failed to read content response, falling back", logger.Error(err))
		return nil, nil
	}

	if strings.TrimSpace(string(raw)) == "" {
		empty := domain.EmptySnapshot()
		return &empty, nil
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		c.log.Warn("unparsable content response, falling back", logger.Error(err))
		return nil, nil
	}
	if snap.Articles == nil {
		snap.Articles = []domain.Article{}
	}
	if snap.Directory == nil {
		snap.Directory = []domain.Business{}
	}
	return &snap, nil
}
