package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"curator/internal/api"
)

type apiClient struct {
	base string
	http *http.Client
}

func newAPIClient(base string) *apiClient {
	return &apiClient{
		base: base,
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *apiClient) startScan(ctx context.Context, path string) (api.ScanJob, error) {
	body, err := json.Marshal(api.ScanRequest{Path: path})
	if err != nil {
		return api.ScanJob{}, err
	}
	var accepted api.ScanAccepted
	if err := c.do(ctx, http.MethodPost, "/api/scan", bytes.NewReader(body), &accepted); err != nil {
		return api.ScanJob{}, err
	}
	return accepted.Job, nil
}

func (c *apiClient) jobs(ctx context.Context) ([]api.ScanJob, error) {
	var response api.JobListResponse
	if err := c.do(ctx, http.MethodGet, "/api/jobs", nil, &response); err != nil {
		return nil, err
	}
	return response.Jobs, nil
}

func (c *apiClient) job(ctx context.Context, id string) (api.ScanJob, error) {
	var response api.JobResponse
	if err := c.do(ctx, http.MethodGet, "/api/jobs/"+url.PathEscape(id), nil, &response); err != nil {
		return api.ScanJob{}, err
	}
	return response.Job, nil
}

func (c *apiClient) items(ctx context.Context, status string) ([]api.Item, error) {
	target := "/api/items"
	if trimmed := strings.TrimSpace(status); trimmed != "" {
		target += "?status=" + url.QueryEscape(trimmed)
	}
	var response api.ItemListResponse
	if err := c.do(ctx, http.MethodGet, target, nil, &response); err != nil {
		return nil, err
	}
	return response.Items, nil
}

func (c *apiClient) status(ctx context.Context) (api.DaemonStatus, error) {
	var status api.DaemonStatus
	if err := c.do(ctx, http.MethodGet, "/api/status", nil, &status); err != nil {
		return api.DaemonStatus{}, err
	}
	return status, nil
}

func (c *apiClient) do(ctx context.Context, method, target string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.base+target, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("connect to daemon at %s: %w (is curatord running?)", c.base, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("daemon responded %d: %s", resp.StatusCode, readAPIError(resp.Body))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode daemon response: %w", err)
	}
	return nil
}

func readAPIError(body io.Reader) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return "unknown error"
}
