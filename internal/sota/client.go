// Package sota talks to the public SOTA APIs: sotl.as for callsign lookup and the
// SOTA database for activator logs.
package sota

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/alexjj/wen-goat/internal/domain"
	"github.com/alexjj/wen-goat/internal/observability"
)

const (
	endpointActivator   = "activator"
	endpointActivations = "activator_log"
)

// Config points the client at the two upstream services.
type Config struct {
	ActivatorsBaseURL string
	SOTAAPIBaseURL    string
	Timeout           time.Duration
}

// Client calls the upstream services directly, without memoisation.
type Client struct {
	activatorsURL string
	apiURL        string
	httpClient    *http.Client
}

// NewClient constructs a Client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		activatorsURL: strings.TrimRight(cfg.ActivatorsBaseURL, "/"),
		apiURL:        strings.TrimRight(cfg.SOTAAPIBaseURL, "/"),
		httpClient:    &http.Client{Timeout: timeout},
	}
}

// StatusError reports a non-200 upstream response.
type StatusError struct {
	Endpoint string
	Status   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s responded with status %d", e.Endpoint, e.Status)
}

type activatorResponse struct {
	UserID int64 `json:"userId"`
}

// ResolveUserID implements domain.IdentityResolver. Any failure maps to domain.ErrResolutionFailed.
func (c *Client) ResolveUserID(ctx context.Context, callsign string) (int64, error) {
	endpoint := c.activatorsURL + "/api/activators/" + url.PathEscape(callsign)

	var body activatorResponse
	if err := c.getJSON(ctx, endpointActivator, endpoint, &body); err != nil {
		return 0, fmt.Errorf("%w: %s: %v", domain.ErrResolutionFailed, callsign, err)
	}
	if body.UserID == 0 {
		return 0, fmt.Errorf("%w: %s: no user id in response", domain.ErrResolutionFailed, callsign)
	}
	return body.UserID, nil
}

// FetchActivations implements domain.HistoryProvider. An empty log is returned as an empty
// slice; transport, status and decoding failures map to domain.ErrHistoryUnavailable.
func (c *Client) FetchActivations(ctx context.Context, userID int64) ([]domain.ActivationRecord, error) {
	query := url.Values{}
	query.Set("year", "all")
	query.Set("id", strconv.FormatInt(userID, 10))
	endpoint := c.apiURL + "/admin/activator_log_by_id?" + query.Encode()

	var entries []LogEntry
	if err := c.getJSON(ctx, endpointActivations, endpoint, &entries); err != nil {
		return nil, fmt.Errorf("%w: user %d: %v", domain.ErrHistoryUnavailable, userID, err)
	}

	records := make([]domain.ActivationRecord, 0, len(entries))
	for i, entry := range entries {
		record, err := entry.Record()
		if err != nil {
			return nil, fmt.Errorf("%w: user %d: entry %d: %v", domain.ErrHistoryUnavailable, userID, i, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func (c *Client) getJSON(ctx context.Context, name, endpoint string, out interface{}) error {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.RecordUpstreamRequest(name, "error", time.Since(start))
		return err
	}
	defer resp.Body.Close()

	observability.RecordUpstreamRequest(name, strconv.Itoa(resp.StatusCode), time.Since(start))
	if resp.StatusCode != http.StatusOK {
		return &StatusError{Endpoint: name, Status: resp.StatusCode}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
