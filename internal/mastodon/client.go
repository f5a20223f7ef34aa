package mastodon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    httpClient,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) VerifyCredentials(ctx context.Context) (Account, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/v1/accounts/verify_credentials", nil)
	if err != nil {
		return Account{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Account{}, fmt.Errorf("verify credentials request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return Account{}, fmt.Errorf("authentication failed: invalid access token")
	}
	if resp.StatusCode != http.StatusOK {
		return Account{}, statusError("verify credentials", resp)
	}

	var account Account
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		return Account{}, fmt.Errorf("decode account response: %w", err)
	}
	return account, nil
}

// HomeTimeline fetches up to limit statuses older than maxID (newest page
// when maxID is empty). Filter flags are normalized before returning.
func (c *Client) HomeTimeline(ctx context.Context, limit int, maxID string) ([]Status, error) {
	if limit < 1 {
		limit = 20
	}

	q := make(url.Values)
	q.Set("limit", strconv.Itoa(limit))
	if maxID != "" {
		q.Set("max_id", maxID)
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/api/v1/timelines/home?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("home timeline request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("home timeline", resp)
	}

	var statuses []Status
	if err := json.NewDecoder(resp.Body).Decode(&statuses); err != nil {
		return nil, fmt.Errorf("decode home timeline response: %w", err)
	}
	for i := range statuses {
		statuses[i].Normalize()
	}
	return statuses, nil
}

func (c *Client) Favourite(ctx context.Context, id string) (Status, error) {
	return c.statusAction(ctx, id, "favourite")
}

func (c *Client) Unfavourite(ctx context.Context, id string) (Status, error) {
	return c.statusAction(ctx, id, "unfavourite")
}

func (c *Client) Reblog(ctx context.Context, id string) (Status, error) {
	return c.statusAction(ctx, id, "reblog")
}

func (c *Client) Unreblog(ctx context.Context, id string) (Status, error) {
	return c.statusAction(ctx, id, "unreblog")
}

func (c *Client) Translate(ctx context.Context, id string) (Translation, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/v1/statuses/"+url.PathEscape(id)+"/translate", nil)
	if err != nil {
		return Translation{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Translation{}, fmt.Errorf("translate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Translation{}, statusError("translate", resp)
	}

	var translation Translation
	if err := json.NewDecoder(resp.Body).Decode(&translation); err != nil {
		return Translation{}, fmt.Errorf("decode translation response: %w", err)
	}
	return translation, nil
}

func (c *Client) statusAction(ctx context.Context, id, action string) (Status, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/v1/statuses/"+url.PathEscape(id)+"/"+action, nil)
	if err != nil {
		return Status{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Status{}, fmt.Errorf("%s request failed: %w", action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Status{}, statusError(action, resp)
	}

	var status Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return Status{}, fmt.Errorf("decode %s response: %w", action, err)
	}
	status.Normalize()
	return status, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	fullURL := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func statusError(resource string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("%s failed with status %d: %s", resource, resp.StatusCode, strings.TrimSpace(string(body)))
}
