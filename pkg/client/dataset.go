package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"negociosverdes/pkg/model"
)

// DatasetClient talks to a running negocios-verdes service.
type DatasetClient struct {
	api *HttpClient
}

func NewDatasetClient(baseURL string, timeout time.Duration) *DatasetClient {
	return &DatasetClient{api: NewHttpClientWithTimeout(baseURL, timeout)}
}

func (c *DatasetClient) Info(ctx context.Context) (*model.SnapshotInfo, error) {
	resp, err := c.api.GET(ctx, "/api/v1/dataset")
	if err != nil {
		return nil, err
	}
	return decodeInfo(resp)
}

// Refresh asks the service to rebuild its snapshot. An empty version lets the service
// pick one.
func (c *DatasetClient) Refresh(ctx context.Context, version string) (*model.SnapshotInfo, error) {
	resp, err := c.api.POST(ctx, "/api/v1/dataset/refresh", model.RefreshRequest{Version: version})
	if err != nil {
		return nil, err
	}
	return decodeInfo(resp)
}

func decodeInfo(resp *Response) (*model.SnapshotInfo, error) {
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, GetErrorMessage(resp))
	}

	var envelope struct {
		Data model.SnapshotInfo `json:"data"`
	}
	if err := resp.DecodeJSON(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot info: %w", err)
	}
	return &envelope.Data, nil
}
