// README: Hosted decode fallback (qrserver-style list-of-symbols contract).
package qrcode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"
)

// RemoteClient posts image bytes to a hosted decode service. The service
// responds with a JSON array where each element carries a "symbol" array
// whose first element has a "data" string; any departure from that shape is
// a decode failure, not a fault.
type RemoteClient struct {
	url     string
	httpc   *http.Client
	timeout time.Duration
}

func NewRemoteClient(url string, timeout time.Duration) *RemoteClient {
	return &RemoteClient{
		url:     url,
		httpc:   &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

type remoteSymbol struct {
	Data *string `json:"data"`
}

type remoteResult struct {
	Symbol []remoteSymbol `json:"symbol"`
}

// Decode sends the image as a multipart file field and extracts the first
// symbol's data. All transport and shape errors surface as ErrNotFound so
// the caller's handling collapses to "could not read code".
func (c *RemoteClient) Decode(ctx context.Context, imageBytes []byte) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "qr.png")
	if err != nil {
		return "", ErrNotFound
	}
	if _, err := fw.Write(imageBytes); err != nil {
		return "", ErrNotFound
	}
	if err := mw.Close(); err != nil {
		return "", ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &body)
	if err != nil {
		return "", ErrNotFound
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", ErrNotFound
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: status %d", ErrNotFound, resp.StatusCode)
	}

	var results []remoteResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return "", ErrNotFound
	}
	if len(results) == 0 || len(results[0].Symbol) == 0 || results[0].Symbol[0].Data == nil {
		return "", ErrNotFound
	}
	return *results[0].Symbol[0].Data, nil
}
