// package mux is a minimal client for the Mux Video REST API, covering the
// handful of calls the ingestion workflow needs: direct uploads, asset
// lookups, asset deletion and playback-id resolution.
package mux

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.mux.com"

type Client struct {
	baseURL     string
	tokenID     string
	tokenSecret string
	http        *http.Client
}

func NewClient(baseURL, tokenID, tokenSecret string) *Client {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	return &Client{
		baseURL:     baseURL,
		tokenID:     tokenID,
		tokenSecret: tokenSecret,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// APIError is a non-success response from the host, with the upstream body
// preserved so callers can surface it.
type APIError struct {
	Op     string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mux: %s: unexpected status %d: %s", e.Op, e.Status, e.Body)
}

func (c *Client) do(ctx context.Context, op, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("mux: %s: encode request: %w", op, err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("mux: %s: %w", op, err)
	}
	req.SetBasicAuth(c.tokenID, c.tokenSecret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("mux: %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 16*1024))
		return &APIError{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("mux: %s: decode response: %w", op, err)
	}
	return nil
}

// CreateDirectUpload asks the host for a direct-upload URL the client can
// stream a file to. The resulting asset gets a public playback policy.
func (c *Client) CreateDirectUpload(ctx context.Context, corsOrigin string) (*DirectUpload, error) {
	body := map[string]any{
		"new_asset_settings": map[string]any{
			"playback_policy": []string{"public"},
		},
		"cors_origin": corsOrigin,
	}

	var env uploadEnvelope
	if err := c.do(ctx, "create upload", http.MethodPost, "/video/v1/uploads", body, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// GetUpload fetches an upload record, including the asset it is bound to
// once the host has finished associating the uploaded bytes.
func (c *Client) GetUpload(ctx context.Context, uploadID string) (*DirectUpload, error) {
	if strings.TrimSpace(uploadID) == "" {
		return nil, fmt.Errorf("mux: get upload: uploadID is required")
	}

	var env uploadEnvelope
	if err := c.do(ctx, "get upload", http.MethodGet, "/video/v1/uploads/"+uploadID, nil, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (c *Client) GetAsset(ctx context.Context, assetID string) (*Asset, error) {
	if strings.TrimSpace(assetID) == "" {
		return nil, fmt.Errorf("mux: get asset: assetID is required")
	}

	var env assetEnvelope
	if err := c.do(ctx, "get asset", http.MethodGet, "/video/v1/assets/"+assetID, nil, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (c *Client) DeleteAsset(ctx context.Context, assetID string) error {
	if strings.TrimSpace(assetID) == "" {
		return fmt.Errorf("mux: delete asset: assetID is required")
	}
	return c.do(ctx, "delete asset", http.MethodDelete, "/video/v1/assets/"+assetID, nil, nil)
}

// ResolvePlaybackID maps a playback identifier back to the asset that owns it.
func (c *Client) ResolvePlaybackID(ctx context.Context, playbackID string) (string, error) {
	if strings.TrimSpace(playbackID) == "" {
		return "", fmt.Errorf("mux: resolve playback id: playbackID is required")
	}

	var env playbackLookupEnvelope
	if err := c.do(ctx, "resolve playback id", http.MethodGet, "/video/v1/playback-ids/"+playbackID, nil, &env); err != nil {
		return "", err
	}
	if env.Data.Object.Type != "asset" || env.Data.Object.ID == "" {
		return "", fmt.Errorf("mux: resolve playback id: %s does not belong to an asset", playbackID)
	}
	return env.Data.Object.ID, nil
}
