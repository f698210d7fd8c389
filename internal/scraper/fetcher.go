package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"talentscout/talent-service/internal/model"
)

const httpTimeout = 15 * time.Second

// RemoteClient fetches talent summaries and detail records from the remote
// talent API. It does not retry: a non-200 status or transport failure is
// returned as an error and the caller decides whether that stops the run
// (list pages) or only skips one item (details).
type RemoteClient struct {
	BaseURL  string
	Location string // fixed custom_location filter, e.g. "US"
	client   *http.Client
}

// NewRemoteClient constructs a client with a shared HTTP client.
func NewRemoteClient(baseURL, location string) *RemoteClient {
	return &RemoteClient{
		BaseURL:  baseURL,
		Location: location,
		client:   &http.Client{Timeout: httpTimeout},
	}
}

// FetchPage retrieves one page of talent summaries from the list endpoint.
func (c *RemoteClient) FetchPage(ctx context.Context, page int) (*model.PageResult, error) {
	params := url.Values{}
	params.Set("custom_location", c.Location)
	params.Set("page", strconv.Itoa(page))

	reqURL := fmt.Sprintf("%s/talent/?%s", c.BaseURL, params.Encode())

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var result model.PageResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}

	return &result, nil
}

// FetchDetail retrieves the full record for a single talent id.
func (c *RemoteClient) FetchDetail(ctx context.Context, id int64) (model.TalentDetail, error) {
	reqURL := fmt.Sprintf("%s/freelancers/%d", c.BaseURL, id)

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var detail model.TalentDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}

	return detail, nil
}

func (c *RemoteClient) get(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remote returned %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}
