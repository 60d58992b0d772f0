// Package ptv fetches the public-service catalog feeds ("PTV") for an area.
package ptv

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/pkg/errors"

	"github.com/Ramsey-B/fern/pkg/tracing"
)

// kindPaths maps a resource kind to its catalog path segment.
var kindPaths = map[ResourceKind]string{
	ResourceUnit:    "ServiceChannel",
	ResourceService: "Service",
}

// Client fetches catalog resources over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	logger  ectologger.Logger
}

// ClientConfig holds catalog client configuration.
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

func NewClient(cfg ClientConfig, logger ectologger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// GetResource fetches the raw feed payload for (areaCode, kind).
func (c *Client) GetResource(ctx context.Context, areaCode string, kind ResourceKind) (*Payload, error) {
	ctx, span := tracing.StartSpan(ctx, "ptv.Client.GetResource")
	defer span.End()

	path, ok := kindPaths[kind]
	if !ok {
		return nil, fmt.Errorf("unknown catalog resource kind %q", kind)
	}

	url := fmt.Sprintf("%s/%s/list/area/Municipality/code/%s", c.baseURL, path, areaCode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build catalog request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"area_code": areaCode, "kind": kind}).Error("Catalog fetch failed")
		return nil, errors.Wrap(err, "catalog fetch failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.WithContext(ctx).WithFields(map[string]any{"area_code": areaCode, "kind": kind, "status": resp.StatusCode}).Error("Catalog returned non-OK status")
		return nil, fmt.Errorf("catalog returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload Payload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "failed to decode catalog payload")
	}
	return &payload, nil
}

// Units fetches and decodes the unit feed.
func (c *Client) Units(ctx context.Context, areaCode string) ([]UnitRecord, error) {
	payload, err := c.GetResource(ctx, areaCode, ResourceUnit)
	if err != nil {
		return nil, err
	}

	records := make([]UnitRecord, 0, len(payload.ItemList))
	for i, item := range payload.ItemList {
		var rec UnitRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			return nil, errors.Wrapf(err, "malformed unit record at index %d", i)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Services fetches and decodes the service feed.
func (c *Client) Services(ctx context.Context, areaCode string) ([]ServiceRecord, error) {
	payload, err := c.GetResource(ctx, areaCode, ResourceService)
	if err != nil {
		return nil, err
	}

	records := make([]ServiceRecord, 0, len(payload.ItemList))
	for i, item := range payload.ItemList {
		var rec ServiceRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			return nil, errors.Wrapf(err, "malformed service record at index %d", i)
		}
		records = append(records, rec)
	}
	return records, nil
}
