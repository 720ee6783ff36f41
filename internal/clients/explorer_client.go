package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ExplorerClient polls the public block explorer for chain height. The
// explorer speaks its own minimal format, unrelated to the wallet daemon's
// envelope.
type ExplorerClient struct {
	url        string
	httpClient *http.Client
}

// NewExplorerClient creates a client for the block-count endpoint at url.
func NewExplorerClient(url string, timeout time.Duration) *ExplorerClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &ExplorerClient{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BlockCount returns the current chain height.
func (c *ExplorerClient) BlockCount(ctx context.Context) (uint64, error) {
	const op = "block/count"

	body := []byte(`{"biz":{}}`)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return 0, &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, &TransportError{Op: op, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return 0, &TransportError{Op: op, Err: fmt.Errorf("status %d: %s", resp.StatusCode, raw)}
	}

	var decoded struct {
		Biz struct {
			BlockCount uint64 `json:"blockCount"`
		} `json:"biz"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return 0, &TransportError{Op: op, Err: err}
	}
	return decoded.Biz.BlockCount, nil
}
